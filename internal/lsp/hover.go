package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/analysis"
	"github.com/CWBudde/go-daedalus-lsp/internal/server"
)

// Hover handles textDocument/hover.
func Hover(context *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in Hover")
		return nil, nil
	}

	doc, exists := srv.Documents().Get(params.TextDocument.URI)
	if !exists {
		return nil, nil
	}

	return analysis.Hover(doc, srv.Compiler().Declarations(), params.Position.Line, params.Position.Character), nil
}
