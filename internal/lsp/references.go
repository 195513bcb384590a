package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/document"
	"github.com/CWBudde/go-daedalus-lsp/internal/server"
)

// References handles textDocument/references. Names are matched
// case-insensitively across open documents and indexed workspace files.
// Without includeDeclaration the declaring occurrences are left out.
func References(context *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in References")
		return nil, nil
	}

	uri := params.TextDocument.URI
	doc, exists := srv.Documents().Get(uri)
	if !exists || int(params.Position.Line) >= len(doc.Lines) {
		return nil, nil
	}

	name, _ := document.WordAt(doc.Lines[params.Position.Line], params.Position.Character)
	if name == "" {
		return nil, nil
	}

	locations := srv.References().FindReferences(name)
	if params.Context.IncludeDeclaration {
		return locations, nil
	}

	declared := make(map[protocol.Location]bool)
	for _, sym := range srv.WorkspaceIndex().FindSymbol(name) {
		declared[sym.Location] = true
	}

	filtered := make([]protocol.Location, 0, len(locations))
	for _, loc := range locations {
		if !declared[loc] {
			filtered = append(filtered, loc)
		}
	}
	return filtered, nil
}
