package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/analysis"
	"github.com/CWBudde/go-daedalus-lsp/internal/server"
)

// SemanticTokensFull handles textDocument/semanticTokens/full.
func SemanticTokensFull(context *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in SemanticTokensFull")
		return nil, nil
	}

	uri := params.TextDocument.URI
	doc, exists := srv.Documents().Get(uri)
	if !exists {
		log.Printf("Warning: Document not found for semantic tokens: %s\n", uri)
		return nil, nil
	}

	cache := srv.SemanticTokensCache()
	if cached, ok := cache.Retrieve(uri, doc.Version); ok {
		resultID := cached.ResultID
		return &protocol.SemanticTokens{ResultID: &resultID, Data: cached.Data}, nil
	}

	tokens := analysis.CollectSemanticTokens(doc, srv.SemanticTokensLegend())
	data := analysis.EncodeSemanticTokens(tokens)
	resultID := cache.Store(uri, doc.Version, data)

	return &protocol.SemanticTokens{ResultID: &resultID, Data: data}, nil
}
