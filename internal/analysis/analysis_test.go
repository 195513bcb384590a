package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-daedalus-lsp/internal/compiler"
	"github.com/CWBudde/go-daedalus-lsp/internal/diag"
	"github.com/CWBudde/go-daedalus-lsp/internal/server"
)

const testPath = "/mod/test.d"

func newDocument(t *testing.T, src string) *server.Document {
	t.Helper()
	res := Analyze(testPath, src, Options{})
	return &server.Document{
		URI:          "file:///mod/test.d",
		Path:         testPath,
		Text:         src,
		Version:      1,
		Lines:        res.Lines,
		Tokens:       res.Tokens,
		Declarations: res.Declarations,
		Highlights:   res.Highlights,
	}
}

func categories(diags []diag.Diagnostic) []diag.Category {
	out := make([]diag.Category, len(diags))
	for i, d := range diags {
		out[i] = d.Category
	}
	return out
}

func TestAnalyze_MergesAllPasses(t *testing.T) {
	res := Analyze(testPath, "var int ;\nfunc void F() { var int unused; y = 1; };", Options{})

	assert.Equal(t,
		[]diag.Category{diag.CategorySyntax, diag.CategoryUnused, diag.CategoryUndeclared},
		categories(res.Diagnostics))
	for _, d := range res.Diagnostics {
		assert.Equal(t, testPath, d.File)
	}
	assert.Equal(t, 2, res.Diagnostics[2].Line)
	assert.Equal(t, 33, res.Diagnostics[2].Column)
	require.Len(t, res.Declarations, 1)
	assert.Equal(t, "F", res.Declarations[0].DeclName())
}

func TestAnalyze_ExternalNamesAreDeclared(t *testing.T) {
	src := "func void F() { Custom_Call(); };"

	res := Analyze(testPath, src, Options{})
	assert.Contains(t, categories(res.Diagnostics), diag.CategoryUndeclared)

	res = Analyze(testPath, src, Options{
		External:       func(name string) bool { return name == "Custom_Call" },
		KnownFunctions: []string{"Custom_Call"},
	})
	assert.NotContains(t, categories(res.Diagnostics), diag.CategoryUndeclared)
}

func TestAnalyzeFile_ReusesParsedFile(t *testing.T) {
	file := compiler.Build(testPath, compiler.SplitLines("func void F() { y = 1; };"))

	res := AnalyzeFile(file, Options{})
	assert.Equal(t, file.Lines, res.Lines)
	require.Len(t, res.Declarations, 1)
	assert.Same(t, file.Declarations[0], res.Declarations[0])
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, testPath, res.Diagnostics[0].File)
	assert.Equal(t, diag.CategoryUndeclared, res.Diagnostics[0].Category)
}

func TestToProtocol(t *testing.T) {
	lines := []string{"var int a;", "func void F() { var int unused; y = 1; };"}
	diags := []diag.Diagnostic{
		diag.Warnf(diag.CategoryUnused, 2, 25, "unused", "unused is declared but never used"),
		diag.Errorf(diag.CategoryUndeclared, 2, 33, "y", "undeclared identifier %q", "y"),
		diag.Errorf(diag.CategorySyntax, 3, 1, "", "expected declaration, found end of file"),
	}

	out := ToProtocol(diags, lines, 0)
	require.Len(t, out, 3)

	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 1, Character: 24},
		End:   protocol.Position{Line: 1, Character: 30},
	}, out[0].Range)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *out[0].Severity)
	assert.Equal(t, []protocol.DiagnosticTag{protocol.DiagnosticTagUnnecessary}, out[0].Tags)
	assert.Equal(t, "unused", out[0].Code.Value)
	assert.Equal(t, DiagnosticSource, *out[0].Source)

	assert.Equal(t, protocol.DiagnosticSeverityError, *out[1].Severity)
	assert.Equal(t, uint32(33), out[1].Range.End.Character)
	assert.Nil(t, out[1].Tags)

	// Past the last line with no hint: still a one-character range.
	assert.Equal(t, uint32(2), out[2].Range.Start.Line)
	assert.Equal(t, uint32(1), out[2].Range.End.Character-out[2].Range.Start.Character)
}

func TestToProtocol_Caps(t *testing.T) {
	diags := []diag.Diagnostic{
		diag.Errorf(diag.CategorySyntax, 1, 1, "", "a"),
		diag.Errorf(diag.CategorySyntax, 1, 2, "", "b"),
		diag.Errorf(diag.CategorySyntax, 1, 3, "", "c"),
	}

	out := ToProtocol(diags, []string{"abc"}, 2)
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[1].Message)
}

func TestToProtocol_UTF16Columns(t *testing.T) {
	lines := []string{`const string S = "😀"; x`}
	d := diag.Errorf(diag.CategoryUndeclared, 1, 23, "x", "undeclared identifier %q", "x")

	out := ToProtocol([]diag.Diagnostic{d}, lines, 0)
	require.Len(t, out, 1)
	assert.Equal(t, uint32(23), out[0].Range.Start.Character)
	assert.Equal(t, uint32(24), out[0].Range.End.Character)
}

func TestToProtocol_Severities(t *testing.T) {
	assert.Equal(t, protocol.DiagnosticSeverityInformation, toSeverity(diag.SeverityInfo))
	assert.Equal(t, protocol.DiagnosticSeverityHint, toSeverity(diag.SeverityHint))
}
