package server

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/compiler"
)

func TestServer_OpenDocumentsShadowDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.d")
	require.NoError(t, os.WriteFile(path, []byte("func void OnDisk() {};"), 0o644))

	srv := New()
	srv.Documents().Set("file://"+path, &Document{
		URI:   "file://" + path,
		Path:  path,
		Lines: []string{"func void InEditor() {};"},
	})

	require.NoError(t, srv.Compiler().Compile([]string{path}))

	_, ok := srv.Compiler().Global("InEditor")
	assert.True(t, ok)
	_, ok = srv.Compiler().Global("OnDisk")
	assert.False(t, ok)

	srv.Documents().Delete("file://" + path)
	require.NoError(t, srv.Compiler().Compile([]string{path}))
	_, ok = srv.Compiler().Global("OnDisk")
	assert.True(t, ok)
}

func TestServer_ConfigSnapshot(t *testing.T) {
	srv := New()
	assert.Equal(t, DefaultMaxProblems, srv.Config().MaxProblems)

	srv.UpdateConfig(func(cfg *Config) {
		cfg.MaxProblems = 5
		cfg.Trace = "verbose"
		cfg.KnownFunctions = []string{"Ext_Call"}
	})

	cfg := srv.Config()
	cfg.KnownFunctions[0] = "mutated"

	assert.Equal(t, 5, srv.Config().MaxProblems)
	assert.Equal(t, []string{"Ext_Call"}, srv.Config().KnownFunctions)
	assert.True(t, srv.IsVerbose())
}

func TestServer_WorkspaceFoldersAndShutdown(t *testing.T) {
	srv := New()
	srv.SetWorkspaceFolders([]string{"/scripts"})
	assert.Equal(t, []string{"/scripts"}, srv.GetWorkspaceFolders())

	assert.False(t, srv.IsShuttingDown())
	srv.SetShuttingDown()
	assert.True(t, srv.IsShuttingDown())
}

func TestServer_SupportsHierarchicalSymbols(t *testing.T) {
	srv := New()
	assert.False(t, srv.SupportsHierarchicalSymbols())

	yes := true
	srv.SetClientCapabilities(&protocol.ClientCapabilities{
		TextDocument: &protocol.TextDocumentClientCapabilities{
			DocumentSymbol: &protocol.DocumentSymbolClientCapabilities{HierarchicalDocumentSymbolSupport: &yes},
		},
	})
	assert.True(t, srv.SupportsHierarchicalSymbols())
}

func TestDocumentStore_PathIndex(t *testing.T) {
	ds := NewDocumentStore()
	ds.Set("file:///a.d", &Document{URI: "file:///a.d", Path: "/a.d", Version: 1})
	ds.Set("file:///a.d", &Document{URI: "file:///a.d", Path: "/a.d", Version: 2})

	doc, ok := ds.GetByPath("/a.d")
	require.True(t, ok)
	assert.Equal(t, 2, doc.Version)
	assert.Len(t, ds.List(), 1)

	ds.Delete("file:///a.d")
	_, ok = ds.GetByPath("/a.d")
	assert.False(t, ok)
}

func TestSymbolIndex_FindReferences(t *testing.T) {
	src := `var int counter;
func void Tick() { counter += 1; Tick(); };
instance A, B (C_NPC) { counter = 2; };`
	lines := strings.Split(src, "\n")
	res := compiler.Build("/a.d", lines)
	require.Empty(t, res.Errors)

	si := NewSymbolIndex()
	si.Update("file:///a.d", res.Declarations, lines)

	refs := si.FindReferences("COUNTER")
	require.Len(t, refs, 3)
	assert.Equal(t, protocol.Position{Line: 0, Character: 8}, refs[0].Range.Start)
	assert.Equal(t, protocol.Position{Line: 1, Character: 19}, refs[1].Range.Start)
	assert.Equal(t, protocol.Position{Line: 2, Character: 24}, refs[2].Range.Start)

	assert.Len(t, si.FindReferences("tick"), 2)

	si.RemoveDocument("file:///a.d")
	assert.Empty(t, si.FindReferences("counter"))
}

func TestCompletionCache(t *testing.T) {
	c := NewCompletionCache()
	items := []protocol.CompletionItem{{Label: "Npc_IsDead"}}
	c.Set("file:///a.d", 3, items)

	got, ok := c.Get("file:///a.d", 3)
	require.True(t, ok)
	assert.Equal(t, items, got)

	_, ok = c.Get("file:///a.d", 4)
	assert.False(t, ok)

	c.Clear()
	_, ok = c.Get("file:///a.d", 3)
	assert.False(t, ok)
}

func TestSemanticTokensCache(t *testing.T) {
	c := NewSemanticTokensCache()
	id := c.Store("file:///a.d", 1, []uint32{0, 0, 4, 0, 0})
	assert.Len(t, id, 16)

	cached, ok := c.Retrieve("file:///a.d", 1)
	require.True(t, ok)
	assert.Equal(t, id, cached.ResultID)

	_, ok = c.Retrieve("file:///a.d", 2)
	assert.False(t, ok)

	c.InvalidateDocument("file:///a.d")
	assert.Equal(t, 0, c.Size())
}

func TestSemanticTokensLegend(t *testing.T) {
	legend := NewSemanticTokensLegend()

	assert.Equal(t, 0, legend.GetTokenTypeIndex(TokenTypeKeyword))
	assert.Equal(t, -1, legend.GetTokenTypeIndex("macro"))
	assert.Equal(t, uint32(0b101), legend.GetModifierMask(TokenModifierDeclaration, TokenModifierDefaultLibrary))
	assert.Equal(t, legend.TokenTypes, legend.ToProtocolLegend().TokenTypes)
}
