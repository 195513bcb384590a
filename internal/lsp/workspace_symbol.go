package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/server"
)

// maxWorkspaceSymbols caps a workspace/symbol answer.
const maxWorkspaceSymbols = 500

// WorkspaceSymbol handles workspace/symbol by searching the workspace index.
func WorkspaceSymbol(context *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in WorkspaceSymbol")
		return nil, nil
	}

	matches := srv.WorkspaceIndex().Search(params.Query, maxWorkspaceSymbols)

	symbols := make([]protocol.SymbolInformation, 0, len(matches))
	for _, m := range matches {
		info := protocol.SymbolInformation{
			Name:     m.Name,
			Kind:     m.Kind,
			Location: m.Location,
		}
		if m.ContainerName != "" {
			container := m.ContainerName
			info.ContainerName = &container
		}
		symbols = append(symbols, info)
	}

	log.Printf("Workspace symbol search %q: %d result(s)\n", params.Query, len(symbols))
	return symbols, nil
}
