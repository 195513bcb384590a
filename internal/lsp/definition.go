package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/analysis"
	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
	"github.com/CWBudde/go-daedalus-lsp/internal/document"
	"github.com/CWBudde/go-daedalus-lsp/internal/server"
	"github.com/CWBudde/go-daedalus-lsp/internal/workspace"
)

// Definition handles textDocument/definition. Engine functions have no
// source and yield no location.
func Definition(context *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in Definition")
		return nil, nil
	}

	doc, exists := srv.Documents().Get(params.TextDocument.URI)
	if !exists {
		return nil, nil
	}

	target, found := analysis.Resolve(doc, srv.Compiler().Declarations(), params.Position.Line, params.Position.Character)
	if !found || target.Decl == nil {
		return nil, nil
	}

	loc, ok := declarationLocation(srv, doc, target.Decl)
	if !ok {
		return nil, nil
	}
	return loc, nil
}

// declarationLocation finds the document a declaration lives in: the
// requesting document, another open document, or a compiled project file.
func declarationLocation(srv *server.Server, from *server.Document, d ast.Declaration) (protocol.Location, bool) {
	file := d.File()
	if file == "" || file == from.Path {
		return protocol.Location{URI: from.URI, Range: workspace.NameRange(d, from.Lines)}, true
	}

	if open, ok := srv.Documents().GetByPath(file); ok {
		return protocol.Location{URI: open.URI, Range: workspace.NameRange(d, open.Lines)}, true
	}
	if res, ok := srv.Compiler().File(file); ok {
		return protocol.Location{URI: document.PathToURI(file), Range: workspace.NameRange(d, res.Lines)}, true
	}

	log.Printf("Warning: No source for declaration %s in %s\n", d.DeclName(), file)
	return protocol.Location{}, false
}
