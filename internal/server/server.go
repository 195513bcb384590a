// Package server provides the core LSP server state and management.
package server

import (
	"strings"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/compiler"
	"github.com/CWBudde/go-daedalus-lsp/internal/workspace"
)

// Server holds the state of the LSP server.
type Server struct {
	// documents stores all open documents
	documents *DocumentStore

	// project compiles the workspace scripts into one symbol table
	project *compiler.Compiler

	// references indexes identifier occurrences per document
	references *SymbolIndex

	// workspaceIndex stores workspace-wide declarations for global symbol search
	workspaceIndex *workspace.SymbolIndex

	workspaceFolders   []string
	clientCapabilities *protocol.ClientCapabilities

	completionCache      *CompletionCache
	semanticTokensLegend *SemanticTokensLegend
	semanticTokensCache  *SemanticTokensCache

	config Config

	mu sync.RWMutex

	shuttingDown bool
}

// Config holds server configuration options.
type Config struct {
	// MaxProblems limits the number of diagnostics published per document.
	MaxProblems int

	// Trace controls logging verbosity: off, messages or verbose.
	Trace string

	// KnownFunctions overrides the linter's list of engine functions. Empty
	// means the built-in catalog.
	KnownFunctions []string
}

// DefaultMaxProblems is the diagnostic cap used until the client configures one.
const DefaultMaxProblems = 100

// New creates a server. Open documents take precedence over files on disk
// when the project is compiled.
func New(opts ...compiler.Option) *Server {
	s := &Server{
		documents:            NewDocumentStore(),
		references:           NewSymbolIndex(),
		workspaceIndex:       workspace.NewSymbolIndex(),
		completionCache:      NewCompletionCache(),
		semanticTokensLegend: NewSemanticTokensLegend(),
		semanticTokensCache:  NewSemanticTokensCache(),
		config: Config{
			MaxProblems: DefaultMaxProblems,
			Trace:       "off",
		},
	}

	opts = append([]compiler.Option{compiler.WithReader(s.readSource)}, opts...)
	s.project = compiler.New(opts...)
	return s
}

// readSource serves open buffers to the compiler and falls back to disk.
func (s *Server) readSource(path string) ([]string, error) {
	if doc, ok := s.documents.GetByPath(path); ok {
		return doc.Lines, nil
	}
	return compiler.ReadFile(path)
}

// IsShuttingDown returns true if the server is shutting down.
func (s *Server) IsShuttingDown() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shuttingDown
}

// SetShuttingDown marks the server as shutting down.
func (s *Server) SetShuttingDown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shuttingDown = true
}

// Documents returns the document store.
func (s *Server) Documents() *DocumentStore {
	return s.documents
}

// Compiler returns the project compiler.
func (s *Server) Compiler() *compiler.Compiler {
	return s.project
}

// References returns the identifier occurrence index.
func (s *Server) References() *SymbolIndex {
	return s.references
}

// WorkspaceIndex returns the workspace-wide declaration index.
func (s *Server) WorkspaceIndex() *workspace.SymbolIndex {
	return s.workspaceIndex
}

// Config returns a snapshot of the server configuration.
func (s *Server) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := s.config
	cfg.KnownFunctions = append([]string(nil), s.config.KnownFunctions...)
	return cfg
}

// UpdateConfig updates the server configuration atomically.
// The update function is called with the current config under a write lock.
func (s *Server) UpdateConfig(update func(*Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	update(&s.config)
}

// IsVerbose reports whether trace is set to verbose.
func (s *Server) IsVerbose() bool {
	return strings.EqualFold(s.Config().Trace, "verbose")
}

// SetWorkspaceFolders sets the workspace folders as file paths.
func (s *Server) SetWorkspaceFolders(folders []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaceFolders = append([]string(nil), folders...)
}

// GetWorkspaceFolders returns the workspace folders.
func (s *Server) GetWorkspaceFolders() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.workspaceFolders...)
}

// SetClientCapabilities sets the client's capabilities.
func (s *Server) SetClientCapabilities(capabilities *protocol.ClientCapabilities) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientCapabilities = capabilities
}

// GetClientCapabilities returns the client's capabilities.
func (s *Server) GetClientCapabilities() *protocol.ClientCapabilities {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientCapabilities
}

// SupportsHierarchicalSymbols reports whether the client accepts
// DocumentSymbol trees rather than flat SymbolInformation lists.
func (s *Server) SupportsHierarchicalSymbols() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	caps := s.clientCapabilities
	if caps == nil || caps.TextDocument == nil || caps.TextDocument.DocumentSymbol == nil {
		return false
	}
	support := caps.TextDocument.DocumentSymbol.HierarchicalDocumentSymbolSupport
	return support != nil && *support
}

// CompletionCache returns the completion cache.
func (s *Server) CompletionCache() *CompletionCache {
	return s.completionCache
}

// SemanticTokensLegend returns the semantic tokens legend.
// The legend is immutable and shared across all requests.
func (s *Server) SemanticTokensLegend() *SemanticTokensLegend {
	return s.semanticTokensLegend
}

// SemanticTokensCache returns the semantic tokens cache.
func (s *Server) SemanticTokensCache() *SemanticTokensCache {
	return s.semanticTokensCache
}
