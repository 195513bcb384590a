// Package lsp implements the LSP protocol handlers of the Daedalus language
// server.
package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var (
	// serverInstance holds the global server instance
	// This is set by SetServer and accessed by handlers
	serverInstance any
)

// SetServer sets the global server instance for handlers to access.
func SetServer(srv any) {
	serverInstance = srv
}

// NewHandler returns the protocol handler with every supported request and
// notification wired.
func NewHandler() protocol.Handler {
	return protocol.Handler{
		Initialize:  Initialize,
		Initialized: Initialized,
		Shutdown:    Shutdown,
		Exit:        Exit,
		SetTrace:    SetTrace,

		WorkspaceDidChangeConfiguration:    DidChangeConfiguration,
		WorkspaceDidChangeWorkspaceFolders: DidChangeWorkspaceFolders,
		WorkspaceSymbol:                    WorkspaceSymbol,

		TextDocumentDidOpen:   DidOpen,
		TextDocumentDidChange: DidChange,
		TextDocumentDidSave:   DidSave,
		TextDocumentDidClose:  DidClose,

		TextDocumentCompletion:         Completion,
		TextDocumentHover:              Hover,
		TextDocumentDefinition:         Definition,
		TextDocumentReferences:         References,
		TextDocumentDocumentSymbol:     DocumentSymbol,
		TextDocumentSemanticTokensFull: SemanticTokensFull,
	}
}
