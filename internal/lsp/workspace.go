package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/document"
	"github.com/CWBudde/go-daedalus-lsp/internal/server"
)

// ConfigSection is the settings namespace read from
// workspace/didChangeConfiguration.
const ConfigSection = "daedalus"

// DidChangeConfiguration handles workspace configuration changes. Expected
// settings:
//
//	{
//	  "daedalus": {
//	    "maxProblems": 100,
//	    "trace": "off",
//	    "knownFunctions": ["Npc_IsDead", "MyMod_Helper"]
//	  }
//	}
func DidChangeConfiguration(context *glsp.Context, params *protocol.DidChangeConfigurationParams) error {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in DidChangeConfiguration")
		return nil
	}

	settingsMap, ok := params.Settings.(map[string]any)
	if !ok {
		return nil
	}
	settings, ok := settingsMap[ConfigSection].(map[string]any)
	if !ok {
		return nil
	}

	if maxProblems, ok := settings["maxProblems"].(float64); ok {
		srv.UpdateConfig(func(cfg *server.Config) {
			cfg.MaxProblems = int(maxProblems)
		})
		log.Printf("Configuration updated: maxProblems = %d\n", int(maxProblems))
	}

	if trace, ok := settings["trace"].(string); ok {
		srv.UpdateConfig(func(cfg *server.Config) {
			cfg.Trace = trace
		})
		log.Printf("Configuration updated: trace = %s\n", trace)
	}

	if raw, ok := settings["knownFunctions"].([]any); ok {
		names := make([]string, 0, len(raw))
		for _, v := range raw {
			if name, ok := v.(string); ok && name != "" {
				names = append(names, name)
			}
		}
		srv.UpdateConfig(func(cfg *server.Config) {
			cfg.KnownFunctions = names
		})
		log.Printf("Configuration updated: %d known functions\n", len(names))

		refreshOpenDocuments(context, srv)
	}

	return nil
}

// DidChangeWorkspaceFolders handles workspace folder changes by re-indexing
// the new folder set.
func DidChangeWorkspaceFolders(context *glsp.Context, params *protocol.DidChangeWorkspaceFoldersParams) error {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in DidChangeWorkspaceFolders")
		return nil
	}

	removed := make(map[string]bool)
	for _, folder := range params.Event.Removed {
		log.Printf("Workspace folder removed: %s (%s)\n", folder.Name, folder.URI)
		if path, err := document.URIToPath(folder.URI); err == nil {
			removed[path] = true
		}
	}

	var folders []string
	for _, f := range srv.GetWorkspaceFolders() {
		if !removed[f] {
			folders = append(folders, f)
		}
	}
	for _, folder := range params.Event.Added {
		log.Printf("Workspace folder added: %s (%s)\n", folder.Name, folder.URI)
		if path, err := document.URIToPath(folder.URI); err == nil {
			folders = append(folders, path)
		}
	}

	srv.SetWorkspaceFolders(folders)
	reindexWorkspace(srv, nil)
	return nil
}

// refreshOpenDocuments re-analyzes every open document, e.g. after the
// linter configuration changed.
func refreshOpenDocuments(context *glsp.Context, srv *server.Server) {
	for _, uri := range srv.Documents().List() {
		doc, ok := srv.Documents().Get(uri)
		if !ok {
			continue
		}
		updateDocument(context, srv, &server.Document{
			URI:        doc.URI,
			Path:       doc.Path,
			Text:       doc.Text,
			Version:    doc.Version,
			LanguageID: doc.LanguageID,
		})
	}
}
