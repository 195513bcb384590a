package lsp

import (
	"errors"
	"log"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/analysis"
	"github.com/CWBudde/go-daedalus-lsp/internal/compiler"
	"github.com/CWBudde/go-daedalus-lsp/internal/document"
	"github.com/CWBudde/go-daedalus-lsp/internal/server"
)

// DidOpen handles the textDocument/didOpen notification.
func DidOpen(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in DidOpen")
		return nil
	}

	uri := params.TextDocument.URI
	log.Printf("Document opened: %s (version %d, %d bytes)\n",
		uri, params.TextDocument.Version, len(params.TextDocument.Text))

	updateDocument(context, srv, &server.Document{
		URI:        uri,
		Path:       document.PathOrURI(uri),
		Text:       params.TextDocument.Text,
		Version:    int(params.TextDocument.Version),
		LanguageID: params.TextDocument.LanguageID,
	})
	return nil
}

// DidChange handles the textDocument/didChange notification. Full and
// incremental changes are both supported.
func DidChange(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in DidChange")
		return nil
	}

	uri := params.TextDocument.URI
	doc, exists := srv.Documents().Get(uri)
	if !exists {
		log.Printf("Warning: Document not found for didChange: %s\n", uri)
		return nil
	}

	text, err := document.ApplyChanges(doc.Text, params.ContentChanges)
	if err != nil {
		log.Printf("Warning: Could not apply changes to %s: %v\n", uri, err)
		return nil
	}

	updateDocument(context, srv, &server.Document{
		URI:        uri,
		Path:       doc.Path,
		Text:       text,
		Version:    int(params.TextDocument.Version),
		LanguageID: doc.LanguageID,
	})
	return nil
}

// DidSave handles the textDocument/didSave notification. Open documents are
// re-analyzed so diagnostics pick up project changes made meanwhile.
func DidSave(context *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in DidSave")
		return nil
	}

	uri := params.TextDocument.URI
	doc, exists := srv.Documents().Get(uri)
	if !exists {
		compileFromDisk(srv, uri, document.PathOrURI(uri))
		return nil
	}

	text := doc.Text
	if params.Text != nil {
		text = *params.Text
	}
	updateDocument(context, srv, &server.Document{
		URI:        uri,
		Path:       doc.Path,
		Text:       text,
		Version:    doc.Version,
		LanguageID: doc.LanguageID,
	})
	log.Printf("Document saved: %s\n", uri)
	return nil
}

// DidClose handles the textDocument/didClose notification. The file on disk
// takes over the document's place in the project.
func DidClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in DidClose")
		return nil
	}

	uri := params.TextDocument.URI
	path := document.PathOrURI(uri)
	if doc, ok := srv.Documents().Get(uri); ok {
		path = doc.Path
	}

	srv.Documents().Delete(uri)
	srv.CompletionCache().InvalidateDocument(uri)
	srv.SemanticTokensCache().InvalidateDocument(uri)
	compileFromDisk(srv, uri, path)

	log.Printf("Document closed: %s\n", uri)

	// Send empty diagnostics to clear error markers in the editor
	PublishDiagnostics(context, uri, []protocol.Diagnostic{})
	return nil
}

// updateDocument analyzes doc, stores it, folds it into the project and
// publishes its diagnostics. The file is lexed and parsed once for both.
func updateDocument(context *glsp.Context, srv *server.Server, doc *server.Document) {
	cfg := srv.Config()
	file := compiler.Build(doc.Path, compiler.SplitLines(doc.Text))

	// The project goes first so globals resolve against this version of the
	// document rather than the previous one.
	err := srv.Compiler().CompileResult(file)
	busy := errors.Is(err, compiler.ErrBusy)
	if err != nil && !busy {
		log.Printf("Warning: Could not compile %s: %v\n", doc.URI, err)
	}

	res := analysis.AnalyzeFile(file, analysis.Options{
		Globals:        srv.Compiler(),
		KnownFunctions: cfg.KnownFunctions,
		External:       knownFunctionSet(cfg.KnownFunctions),
	})
	doc.Lines = res.Lines
	doc.Tokens = res.Tokens
	doc.Declarations = res.Declarations
	doc.Highlights = res.Highlights

	srv.Documents().Set(doc.URI, doc)
	srv.References().UpdateDocument(doc)
	srv.WorkspaceIndex().IndexDeclarations(doc.URI, doc.Declarations, doc.Lines)

	srv.CompletionCache().Clear()
	srv.SemanticTokensCache().InvalidateDocument(doc.URI)

	PublishDiagnostics(context, doc.URI, analysis.ToProtocol(res.Diagnostics, res.Lines, cfg.MaxProblems))

	if busy {
		log.Printf("Project compile busy, %s is recompiled when it finishes\n", doc.URI)
		go recompileWhenIdle(srv, doc, file)
	}
}

// recompileWhenIdle folds file into the project once the running compile is
// done, unless a newer version of the document has been stored meanwhile.
// The running compile may have read an older buffer or the file on disk.
func recompileWhenIdle(srv *server.Server, doc *server.Document, file *compiler.FileResult) {
	project := srv.Compiler()
	for {
		project.Wait()
		if cur, ok := srv.Documents().Get(doc.URI); !ok || cur != doc {
			return
		}
		if err := project.CompileResult(file); !errors.Is(err, compiler.ErrBusy) {
			return
		}
	}
}

// compileFromDisk re-reads a file that is not open. A file that no longer
// exists is dropped from the project.
func compileFromDisk(srv *server.Server, uri, path string) {
	project := srv.Compiler()

	err := project.CompileSingleFile(path)
	switch {
	case errors.Is(err, compiler.ErrBusy):
		log.Printf("Project compile busy, skipped reload of %s\n", uri)
		return
	case err != nil:
		if ferr := project.Forget(path); ferr != nil {
			log.Printf("Warning: Could not drop %s from the project: %v\n", uri, ferr)
		}
		srv.References().RemoveDocument(uri)
		srv.WorkspaceIndex().RemoveFile(uri)
		return
	}

	if res, ok := project.File(path); ok {
		srv.References().Update(uri, res.Declarations, res.Lines)
		srv.WorkspaceIndex().IndexDeclarations(uri, res.Declarations, res.Lines)
	}
}

func knownFunctionSet(names []string) func(string) bool {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = true
	}
	return func(name string) bool {
		return set[strings.ToLower(name)]
	}
}
