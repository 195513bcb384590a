package analysis

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
)

func findItem(items []protocol.CompletionItem, label string) (protocol.CompletionItem, int) {
	n := 0
	var found protocol.CompletionItem
	for _, item := range items {
		if strings.EqualFold(item.Label, label) {
			found = item
			n++
		}
	}
	return found, n
}

func TestCollectCompletions(t *testing.T) {
	doc := newDocument(t, "func void Greet(var int who) { var int count; count = who; GREET(); };")
	project := []ast.Declaration{
		ast.NewConstDecl(ast.Position{Line: 1, Column: 11}, "int", "MAX_LEVEL"),
	}

	items := CollectCompletions(doc, project)

	tests := []struct {
		label string
		kind  protocol.CompletionItemKind
	}{
		{"Greet", protocol.CompletionItemKindFunction},
		{"who", protocol.CompletionItemKindVariable},
		{"count", protocol.CompletionItemKindVariable},
		{"MAX_LEVEL", protocol.CompletionItemKindConstant},
		{"Npc_IsDead", protocol.CompletionItemKindFunction},
		{"instance", protocol.CompletionItemKindKeyword},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			item, n := findItem(items, tt.label)
			require.Equal(t, 1, n, "expected exactly one %q", tt.label)
			require.NotNil(t, item.Kind)
			assert.Equal(t, tt.kind, *item.Kind)
		})
	}

	greet, _ := findItem(items, "greet")
	assert.Equal(t, "Greet", greet.Label, "declarations win over harvested spellings")
	assert.Equal(t, "func void Greet(var int who)", *greet.Detail)

	dead, _ := findItem(items, "Npc_IsDead")
	assert.Equal(t, "func int Npc_IsDead(var C_NPC npc)", *dead.Detail)
	assert.NotNil(t, dead.Documentation)

	assert.True(t, sort.SliceIsSorted(items, func(i, j int) bool {
		return strings.ToLower(items[i].Label) < strings.ToLower(items[j].Label)
	}))
}

func TestCollectCompletions_NilDocument(t *testing.T) {
	items := CollectCompletions(nil, nil)

	_, n := findItem(items, "func")
	assert.Equal(t, 1, n)
}

func TestFilterCompletionsByPrefix(t *testing.T) {
	items := CollectCompletions(newDocument(t, "func void Greet() {};"), nil)

	filtered := FilterCompletionsByPrefix(items, "gRe")
	require.NotEmpty(t, filtered)
	for _, item := range filtered {
		assert.True(t, strings.HasPrefix(strings.ToLower(item.Label), "gre"), item.Label)
	}
	_, n := findItem(filtered, "Greet")
	assert.Equal(t, 1, n)

	assert.Len(t, FilterCompletionsByPrefix(items, ""), len(items))
}
