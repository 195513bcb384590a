package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/document"
	"github.com/CWBudde/go-daedalus-lsp/internal/server"
	"github.com/CWBudde/go-daedalus-lsp/internal/workspace"
)

// Version is reported to the client in the initialize result.
var Version = "0.1.0"

// Initialize handles the LSP initialize request. It records the workspace
// folders and client capabilities and announces the server capabilities.
func Initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in Initialize")
	} else {
		srv.SetWorkspaceFolders(workspaceFolderPaths(params))
		capabilities := params.Capabilities
		srv.SetClientCapabilities(&capabilities)
	}

	changeKind := protocol.TextDocumentSyncKindIncremental
	trueVal := true
	falseVal := false

	var legend protocol.SemanticTokensLegend
	if srv != nil {
		legend = srv.SemanticTokensLegend().ToProtocolLegend()
	} else {
		legend = server.NewSemanticTokensLegend().ToProtocolLegend()
	}

	capabilities := protocol.ServerCapabilities{
		TextDocumentSync: protocol.TextDocumentSyncOptions{
			OpenClose: &trueVal,
			Change:    &changeKind,
			WillSave:  &falseVal,
			Save: &protocol.SaveOptions{
				IncludeText: &trueVal,
			},
		},
		HoverProvider:           &trueVal,
		DefinitionProvider:      &trueVal,
		ReferencesProvider:      &trueVal,
		DocumentSymbolProvider:  &trueVal,
		WorkspaceSymbolProvider: &trueVal,
		CompletionProvider: &protocol.CompletionOptions{
			TriggerCharacters: []string{"."},
			ResolveProvider:   &falseVal,
		},
		SemanticTokensProvider: &protocol.SemanticTokensOptions{
			Legend: legend,
			Full:   &trueVal,
		},
		Workspace: &protocol.ServerCapabilitiesWorkspace{
			WorkspaceFolders: &protocol.WorkspaceFoldersServerCapabilities{
				Supported:           &trueVal,
				ChangeNotifications: &protocol.BoolOrString{Value: true},
			},
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    "daedalus-lsp",
			Version: &Version,
		},
	}, nil
}

// workspaceFolderPaths prefers the workspace folders and falls back to the
// deprecated root URI and root path.
func workspaceFolderPaths(params *protocol.InitializeParams) []string {
	var folders []string
	for _, f := range params.WorkspaceFolders {
		path, err := document.URIToPath(f.URI)
		if err != nil {
			log.Printf("Warning: Ignoring workspace folder %s: %v\n", f.URI, err)
			continue
		}
		folders = append(folders, path)
	}
	if len(folders) > 0 {
		return folders
	}

	if params.RootURI != nil {
		if path, err := document.URIToPath(*params.RootURI); err == nil {
			return []string{path}
		}
	}
	if params.RootPath != nil && *params.RootPath != "" {
		return []string{*params.RootPath}
	}
	return nil
}

// Initialized handles the initialized notification by indexing the
// workspace in the background.
func Initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in Initialized")
		return nil
	}

	reindexWorkspace(srv, nil)
	return nil
}

// reindexWorkspace compiles every script of the workspace folders and
// refreshes the reference index of files that are not open.
func reindexWorkspace(srv *server.Server, done func(error)) {
	idx := workspace.NewIndexer(srv.WorkspaceIndex(), srv.Compiler())
	workspace.IndexWorkspaceAsync(idx, srv.GetWorkspaceFolders(), func(err error) {
		if err == nil {
			indexClosedFiles(srv)
			srv.CompletionCache().Clear()
		}
		if done != nil {
			done(err)
		}
	})
}

func indexClosedFiles(srv *server.Server) {
	project := srv.Compiler()
	for _, path := range project.Files() {
		if _, open := srv.Documents().GetByPath(path); open {
			continue
		}
		res, ok := project.File(path)
		if !ok || res.Err != nil {
			continue
		}
		srv.References().Update(document.PathToURI(path), res.Declarations, res.Lines)
	}
}

// Shutdown handles the shutdown request.
func Shutdown(context *glsp.Context) error {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		return nil
	}

	srv.SetShuttingDown()
	srv.CompletionCache().Clear()
	srv.SemanticTokensCache().Clear()
	log.Println("Server shutting down")
	return nil
}

// Exit handles the exit notification.
func Exit(context *glsp.Context) error {
	log.Println("Server exiting")
	return nil
}

// SetTrace handles $/setTrace.
func SetTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		return nil
	}

	srv.UpdateConfig(func(cfg *server.Config) {
		cfg.Trace = string(params.Value)
	})
	return nil
}
