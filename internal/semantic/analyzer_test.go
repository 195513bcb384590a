package semantic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
	"github.com/CWBudde/go-daedalus-lsp/internal/diag"
	"github.com/CWBudde/go-daedalus-lsp/internal/lexer"
	"github.com/CWBudde/go-daedalus-lsp/internal/parser"
	"github.com/CWBudde/go-daedalus-lsp/internal/symbols"
)

func analyze(t *testing.T, src string, opts ...Option) []diag.Diagnostic {
	t.Helper()
	decls, errs := parser.Parse(lexer.Tokenize(strings.Split(src, "\n")))
	require.Empty(t, errs)
	return Analyze(decls, opts...)
}

func byCategory(diags []diag.Diagnostic, cat diag.Category) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range diags {
		if d.Category == cat {
			out = append(out, d)
		}
	}
	return out
}

func TestAnalyze_DuplicateTopLevel(t *testing.T) {
	diags := analyze(t, "var int x;\nvar int x;")

	require.Len(t, diags, 1)
	assert.Equal(t, diag.CategoryDuplicate, diags[0].Category)
	assert.Equal(t, 2, diags[0].Line)
	assert.Equal(t, 9, diags[0].Column)
	assert.Equal(t, diag.SeverityError, diags[0].Severity)
}

func TestAnalyze_DuplicateAcrossKindsAndCase(t *testing.T) {
	diags := analyze(t, "func void Foo() { };\ninstance FOO (C_NPC);\nvar int a, A;")

	dups := byCategory(diags, diag.CategoryDuplicate)
	require.Len(t, dups, 2)
	assert.Equal(t, 2, dups[0].Line)
	assert.Equal(t, 3, dups[1].Line)
}

func TestAnalyze_UndeclaredIdentifier(t *testing.T) {
	diags := analyze(t, "func int F(var int a) { return a + missing; };")

	undeclared := byCategory(diags, diag.CategoryUndeclared)
	require.Len(t, undeclared, 1)
	assert.Equal(t, "missing", undeclared[0].Hint)
	assert.Contains(t, undeclared[0].Message, `"missing"`)
}

func TestAnalyze_EngineNamesAreNotUndeclared(t *testing.T) {
	diags := analyze(t, `
func void F() {
	self.guild = GIL_NONE;
	if (Npc_IsDead(other)) { AI_StopProcessInfos(hero); };
	B_GiveInvItems(self, other, ITEM_MISSION, 1);
	Print(IntToString(Hlp_Random(10)));
};`)

	assert.Empty(t, diags)
}

func TestAnalyze_UndeclaredFunction(t *testing.T) {
	diags := analyze(t, "func void F() { MyHelper(1); };")

	undeclared := byCategory(diags, diag.CategoryUndeclared)
	require.Len(t, undeclared, 1)
	assert.Equal(t, `undeclared function "MyHelper"`, undeclared[0].Message)
}

func TestAnalyze_ExternalPredicate(t *testing.T) {
	diags := analyze(t, "func void F() { MyHelper(1); };", WithExternal(func(name string) bool {
		return name == "MyHelper"
	}))

	assert.Empty(t, diags)
}

func TestAnalyze_TypeMismatch(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"int plus string", `var int a; a = a + "x";`, 1},
		{"left operand decides", `var string s; s = "x" + 1;`, 1},
		{"both int", `var int a; a = a * 2 - 1;`, 0},
		{"int against bool", `var int a; if (a == TRUE) { };`, 0},
		{"unknown side", `var int a; a = a + Npc_GetStateTime(self);`, 0},
		{"call return type", `var string s; s = IntToString(1) + 2;`, 1},
		{"float vs int", `var float f; f = f + 1;`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := analyze(t, "func void F() { "+tt.body+" };")
			assert.Len(t, byCategory(diags, diag.CategoryTypeMismatch), tt.want)
		})
	}
}

func TestAnalyze_ParametersProvideTypes(t *testing.T) {
	diags := analyze(t, `func int Add(var int a, var string b) { return a + b; };`)

	mismatch := byCategory(diags, diag.CategoryTypeMismatch)
	require.Len(t, mismatch, 1)
	assert.Equal(t, "type mismatch: int + string", mismatch[0].Message)
}

func TestAnalyze_FunctionReturnType(t *testing.T) {
	diags := analyze(t, `
func string Name() { return "x"; };
func void F() { var int n; n = Name() + 1; };`)

	assert.Len(t, byCategory(diags, diag.CategoryTypeMismatch), 1)
}

func TestAnalyze_InstanceUsesClassMembers(t *testing.T) {
	diags := analyze(t, `
class C_NPC { var string name; var int level; };
prototype Npc_Default (C_NPC) { level = 1; };
instance HERO (Npc_Default) { name = "Hero"; level = level + bogus; };`)

	undeclared := byCategory(diags, diag.CategoryUndeclared)
	require.Len(t, undeclared, 1)
	assert.Equal(t, "bogus", undeclared[0].Hint)
}

func TestAnalyze_UnknownBaseSuppressesBareNames(t *testing.T) {
	diags := analyze(t, `instance HERO (C_NPC) { name = "Hero"; anything = whatever; };`)

	assert.Empty(t, diags)
}

func TestAnalyze_ResolvesAgainstProjectGlobals(t *testing.T) {
	project := symbols.New()
	project.Register("Kapitel", ast.NewVarDecl(ast.Position{Line: 1, Column: 9}, "int", "Kapitel"))

	src := "func void F() { Kapitel = Kapitel + 1; };"
	assert.NotEmpty(t, analyze(t, src))
	assert.Empty(t, analyze(t, src, WithGlobals(project)))
}

func TestAnalyze_LocalsInNestedBlocks(t *testing.T) {
	diags := analyze(t, `
func void F() {
	var int a;
	if (a) { var int b; b = a; } else { a = 2; };
	const int C = 3;
	a = C;
};`)

	assert.Empty(t, diags)
}

func TestAnalyze_LocalsDoNotLeakBetweenBodies(t *testing.T) {
	diags := analyze(t, `
func void F(var int n) { var int a; a = n; };
func void G() { a = n; };`)

	undeclared := byCategory(diags, diag.CategoryUndeclared)
	require.Len(t, undeclared, 2)
	assert.Equal(t, "a", undeclared[0].Hint)
	assert.Equal(t, "n", undeclared[1].Hint)
}

func TestAnalyze_SortedByPosition(t *testing.T) {
	diags := analyze(t, "func void F() { x = 1; }; func void G() { y = 2; };\nvar int F;")

	require.Len(t, diags, 3)
	for i := 1; i < len(diags); i++ {
		prev, cur := diags[i-1], diags[i]
		assert.True(t, prev.Line < cur.Line || (prev.Line == cur.Line && prev.Column <= cur.Column))
	}
}
