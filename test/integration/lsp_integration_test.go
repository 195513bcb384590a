//go:build integration
// +build integration

package integration

import (
	"sync"
	"testing"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/lsp"
	"github.com/CWBudde/go-daedalus-lsp/internal/server"
)

func setupTestServer() *server.Server {
	srv := server.New()
	lsp.SetServer(srv)
	return srv
}

// diagnosticSink records the last diagnostics published per document.
type diagnosticSink struct {
	mu   sync.Mutex
	last map[string][]protocol.Diagnostic
}

func newDiagnosticSink() (*diagnosticSink, *glsp.Context) {
	sink := &diagnosticSink{last: make(map[string][]protocol.Diagnostic)}
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			if p, ok := params.(*protocol.PublishDiagnosticsParams); ok {
				sink.mu.Lock()
				sink.last[p.URI] = p.Diagnostics
				sink.mu.Unlock()
			}
		},
	}
	return sink, ctx
}

func (s *diagnosticSink) get(uri string) []protocol.Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last[uri]
}

func openDocument(t *testing.T, ctx *glsp.Context, uri, text string) {
	t.Helper()
	err := lsp.DidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: "daedalus",
			Version:    1,
			Text:       text,
		},
	})
	if err != nil {
		t.Fatalf("DidOpen(%s) failed: %v", uri, err)
	}
}

// TestInitializeWorkflow tests the complete initialization workflow
func TestInitializeWorkflow(t *testing.T) {
	setupTestServer()
	ctx := &glsp.Context{}

	params := &protocol.InitializeParams{
		ProcessID: nil,
		RootURI:   stringPtr("file:///test/workspace"),
		Capabilities: protocol.ClientCapabilities{
			TextDocument: &protocol.TextDocumentClientCapabilities{},
		},
	}

	result, err := lsp.Initialize(ctx, params)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	initResult, ok := result.(protocol.InitializeResult)
	if !ok {
		t.Fatalf("Initialize returned wrong type: %T", result)
	}

	caps := initResult.Capabilities
	if caps.HoverProvider == nil {
		t.Error("HoverProvider capability should be advertised")
	}
	if caps.TextDocumentSync == nil {
		t.Error("TextDocumentSync capability should be advertised")
	}
	if caps.SemanticTokensProvider == nil {
		t.Error("SemanticTokensProvider capability should be advertised")
	}
	if caps.CompletionProvider == nil || len(caps.CompletionProvider.TriggerCharacters) == 0 {
		t.Error("CompletionProvider should trigger on member access")
	}

	if err := lsp.Initialized(ctx, &protocol.InitializedParams{}); err != nil {
		t.Fatalf("Initialized failed: %v", err)
	}
}

// TestDocumentLifecycle tests open, full change and close of one document
func TestDocumentLifecycle(t *testing.T) {
	srv := setupTestServer()
	sink, ctx := newDiagnosticSink()

	uri := "file:///test/lifecycle.d"
	openDocument(t, ctx, uri, "var int x;")

	doc, exists := srv.Documents().Get(uri)
	if !exists {
		t.Fatal("Document should exist after DidOpen")
	}
	if doc.Version != 1 {
		t.Errorf("Document version = %d, want 1", doc.Version)
	}
	if len(doc.Declarations) != 1 {
		t.Errorf("Document declarations = %d, want 1", len(doc.Declarations))
	}

	err := lsp.DidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: "var string x;\nfunc void F() { y = x; };"},
		},
	})
	if err != nil {
		t.Fatalf("DidChange failed: %v", err)
	}

	doc, _ = srv.Documents().Get(uri)
	if doc.Version != 2 {
		t.Errorf("Document version = %d, want 2", doc.Version)
	}
	if diags := sink.get(uri); len(diags) != 1 {
		t.Errorf("Diagnostics after change = %d, want 1 (undeclared y)", len(diags))
	}

	err = lsp.DidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatalf("DidClose failed: %v", err)
	}

	if _, exists := srv.Documents().Get(uri); exists {
		t.Error("Document should be removed after DidClose")
	}
	if diags := sink.get(uri); len(diags) != 0 {
		t.Errorf("Diagnostics after close = %d, want 0", len(diags))
	}
	if _, ok := srv.Compiler().Global("x"); ok {
		t.Error("Closed unsaved document should leave the project")
	}
}

// TestDiagnosticsOnDidOpen tests that every analysis pass reports on open
func TestDiagnosticsOnDidOpen(t *testing.T) {
	setupTestServer()
	sink, ctx := newDiagnosticSink()

	validURI := "file:///test/valid.d"
	openDocument(t, ctx, validURI, "func int Add(var int a, var int b) { return a + b; };")
	if diags := sink.get(validURI); len(diags) != 0 {
		t.Errorf("Valid document has %d diagnostics: %v", len(diags), diags)
	}

	invalidURI := "file:///test/invalid.d"
	openDocument(t, ctx, invalidURI, "func void F() {\n\tvar int unused;\n\tmissing();\n\treturn;\n};\nvar int")

	codes := make(map[string]bool)
	for _, d := range sink.get(invalidURI) {
		if d.Code != nil {
			codes[d.Code.Value.(string)] = true
		}
	}
	for _, want := range []string{"syntax", "unused", "undeclared", "redundant"} {
		if !codes[want] {
			t.Errorf("Missing %s diagnostic, got %v", want, codes)
		}
	}
}

// TestIncrementalDocumentChanges tests incremental text document synchronization
func TestIncrementalDocumentChanges(t *testing.T) {
	srv := setupTestServer()
	_, ctx := newDiagnosticSink()

	uri := "file:///test/incremental.d"
	openDocument(t, ctx, uri, "var int x;\nvar int y;")

	err := lsp.DidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEvent{
				Range: &protocol.Range{
					Start: protocol.Position{Line: 0, Character: 4},
					End:   protocol.Position{Line: 0, Character: 7},
				},
				Text: "string",
			},
		},
	})
	if err != nil {
		t.Fatalf("DidChange failed: %v", err)
	}

	doc, exists := srv.Documents().Get(uri)
	if !exists {
		t.Fatal("Document should exist after incremental change")
	}

	expectedText := "var string x;\nvar int y;"
	if doc.Text != expectedText {
		t.Errorf("Document text = %q, want %q", doc.Text, expectedText)
	}
}

// TestConcurrentDocumentOperations tests requests against several documents
// running in parallel
func TestConcurrentDocumentOperations(t *testing.T) {
	srv := setupTestServer()
	_, ctx := newDiagnosticSink()

	uris := []string{
		"file:///test/concurrent1.d",
		"file:///test/concurrent2.d",
		"file:///test/concurrent3.d",
	}
	for _, uri := range uris {
		openDocument(t, ctx, uri, "var int x;")
	}

	var wg sync.WaitGroup
	for i, uri := range uris {
		wg.Add(1)
		go func(i int, uri string) {
			defer wg.Done()
			_, err := lsp.Hover(ctx, &protocol.HoverParams{
				TextDocumentPositionParams: protocol.TextDocumentPositionParams{
					TextDocument: protocol.TextDocumentIdentifier{URI: uri},
					Position:     protocol.Position{Line: 0, Character: 8},
				},
			})
			if err != nil {
				t.Errorf("Hover on document %d failed: %v", i, err)
			}
			if _, err := lsp.SemanticTokensFull(ctx, &protocol.SemanticTokensParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			}); err != nil {
				t.Errorf("SemanticTokensFull on document %d failed: %v", i, err)
			}
		}(i, uri)
	}
	wg.Wait()

	if got := srv.SemanticTokensCache().Size(); got != len(uris) {
		t.Errorf("Semantic token cache size = %d, want %d", got, len(uris))
	}
}

// TestShutdownWorkflow tests the shutdown workflow
func TestShutdownWorkflow(t *testing.T) {
	srv := setupTestServer()
	ctx := &glsp.Context{}

	if err := lsp.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if !srv.IsShuttingDown() {
		t.Error("Server should be shutting down")
	}
	if err := lsp.Exit(ctx); err != nil {
		t.Fatalf("Exit failed: %v", err)
	}
}

func stringPtr(s string) *string {
	return &s
}
