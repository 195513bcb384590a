package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
)

const hoverSource = `class C_NPC { var int hp; };
func int Add(var int a, var int b) { var int sum; sum = a + b; return sum; };
instance Hero (C_NPC) { hp = Add(1, 2); Npc_IsDead(self); self.hp = GIL_NONE; };
var int total;`

func hoverText(t *testing.T, h *protocol.Hover) string {
	t.Helper()
	require.NotNil(t, h)
	content, ok := h.Contents.(protocol.MarkupContent)
	require.True(t, ok, "expected MarkupContent, got %T", h.Contents)
	assert.Equal(t, protocol.MarkupKindMarkdown, content.Kind)
	return content.Value
}

func TestHover(t *testing.T) {
	doc := newDocument(t, hoverSource)

	tests := []struct {
		name string
		line uint32
		char uint32
		want string
	}{
		{"local", 1, 51, "```daedalus\nvar int sum\n```"},
		{"parameter", 1, 56, "```daedalus\nvar int a\n```"},
		{"function", 2, 29, "```daedalus\nfunc int Add(var int a, var int b)\n```"},
		{"class member", 2, 24, "```daedalus\nvar int hp\n```"},
		{"member after dot", 2, 63, "```daedalus\nvar int hp\n```"},
		{"engine function", 2, 40, "```daedalus\nfunc int Npc_IsDead(var C_NPC npc)\n```"},
		{"engine constant", 2, 69, "```daedalus\nGIL_NONE\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, hoverText(t, Hover(doc, nil, tt.line, tt.char)), tt.want)
		})
	}
}

func TestHover_DeclarationLocation(t *testing.T) {
	doc := newDocument(t, hoverSource)

	text := hoverText(t, Hover(doc, nil, 3, 9))
	assert.Contains(t, text, "Declared in `test.d` line 4")
}

func TestHover_ProjectDeclarations(t *testing.T) {
	doc := newDocument(t, "func void F() { Other(); };")
	other := ast.NewFunctionDecl(ast.Position{Line: 7, Column: 11}, "void", "Other")
	other.SetFile("/mod/other.d")

	h := Hover(doc, []ast.Declaration{other}, 0, 17)
	text := hoverText(t, h)
	assert.Contains(t, text, "func void Other()")
	assert.Contains(t, text, "`other.d` line 7")
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 16},
		End:   protocol.Position{Line: 0, Character: 21},
	}, *h.Range)
}

func TestHover_Nothing(t *testing.T) {
	doc := newDocument(t, hoverSource)

	assert.Nil(t, Hover(doc, nil, 0, 13), "whitespace")
	assert.Nil(t, Hover(doc, nil, 42, 0), "past the end")
	assert.Nil(t, Hover(nil, nil, 0, 0))
}

func TestResolve_InstanceBodyHasNoLocals(t *testing.T) {
	doc := newDocument(t, hoverSource)

	target, ok := Resolve(doc, nil, 2, 9)
	require.True(t, ok)
	assert.Equal(t, "Hero", target.Word)
	assert.Equal(t, "Hero", target.Decl.DeclName())

	assert.Nil(t, enclosingFunction(doc.Declarations, 3))
	assert.NotNil(t, enclosingFunction(doc.Declarations, 2))
}
