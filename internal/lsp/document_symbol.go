package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/analysis"
	"github.com/CWBudde/go-daedalus-lsp/internal/server"
)

// DocumentSymbol handles textDocument/documentSymbol. Clients without
// hierarchical symbol support get flat SymbolInformation.
func DocumentSymbol(context *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in DocumentSymbol")
		return nil, nil
	}

	uri := params.TextDocument.URI
	doc, exists := srv.Documents().Get(uri)
	if !exists {
		log.Printf("Warning: Document not found for document symbols: %s\n", uri)
		return nil, nil
	}

	if !srv.SupportsHierarchicalSymbols() {
		return analysis.CollectSymbolInformation(uri, doc.Declarations, doc.Lines), nil
	}
	return analysis.CollectDocumentSymbols(doc.Declarations, doc.Lines), nil
}
