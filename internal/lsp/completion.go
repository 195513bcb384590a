package lsp

import (
	"log"
	"unicode"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/analysis"
	"github.com/CWBudde/go-daedalus-lsp/internal/document"
	"github.com/CWBudde/go-daedalus-lsp/internal/server"
)

// Completion handles textDocument/completion. The full suggestion set is
// cached per document version and filtered by the word being typed.
func Completion(context *glsp.Context, params *protocol.CompletionParams) (any, error) {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in Completion")
		return nil, nil
	}

	uri := params.TextDocument.URI
	doc, exists := srv.Documents().Get(uri)
	if !exists {
		log.Printf("Warning: Document not found for completion: %s\n", uri)
		return nil, nil
	}

	items, cached := srv.CompletionCache().Get(uri, doc.Version)
	if !cached {
		items = analysis.CollectCompletions(doc, srv.Compiler().Declarations())
		srv.CompletionCache().Set(uri, doc.Version, items)
	}

	prefix := ""
	if line := int(params.Position.Line); line < len(doc.Lines) {
		prefix = wordPrefix(doc.Lines[line], params.Position.Character)
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        analysis.FilterCompletionsByPrefix(items, prefix),
	}, nil
}

// wordPrefix returns the part of the identifier left of the 0-based UTF-16
// offset.
func wordPrefix(line string, character uint32) string {
	runes := []rune(line)
	end := min(document.UTF16ToRune(line, character)-1, len(runes))

	start := end
	for start > 0 && (runes[start-1] == '_' || unicode.IsLetter(runes[start-1]) || unicode.IsDigit(runes[start-1])) {
		start--
	}
	return string(runes[start:end])
}
