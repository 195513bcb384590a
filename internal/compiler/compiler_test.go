package compiler

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCompile_MergesFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.d", "var int Kapitel, Gold;\nfunc void Startup() { };")
	b := writeFile(t, dir, "b.d", "instance HERO (C_NPC) { name = \"Hero\"; };")

	c := New(WithWorkers(2))
	require.NoError(t, c.Compile([]string{a, b}))

	assert.Equal(t, []string{a, b}, c.Files())
	decls := c.Declarations()
	require.Len(t, decls, 4)
	assert.Equal(t, "Kapitel", decls[0].DeclName())
	assert.Equal(t, "HERO", decls[3].DeclName())

	d, ok := c.Global("gold")
	require.True(t, ok)
	assert.Equal(t, a, d.File())

	hero, ok := c.Global("hero")
	require.True(t, ok)
	assert.Equal(t, b, hero.File())
	assert.Equal(t, Idle, c.State())
}

func TestCompile_IsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.d", "func void Ok() { };")
	broken := writeFile(t, dir, "broken.d", "func void Bad( { ;")
	missing := filepath.Join(dir, "missing.d")

	c := New()
	require.NoError(t, c.Compile([]string{missing, broken, good}))

	_, ok := c.Global("Ok")
	assert.True(t, ok)

	failures := c.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, missing, failures[0].Path)
	assert.ErrorIs(t, failures[0].Err, os.ErrNotExist)

	res, ok := c.File(broken)
	require.True(t, ok)
	assert.NotEmpty(t, res.Errors)
}

func TestCompile_BusyGuard(t *testing.T) {
	c := New()
	require.NoError(t, c.begin())

	assert.True(t, errors.Is(c.Compile(nil), ErrBusy))
	assert.True(t, errors.Is(c.CompileSingleFile("x.d"), ErrBusy))
	assert.True(t, errors.Is(c.CompileSource("x.d", nil), ErrBusy))
	assert.Equal(t, Compiling, c.State())

	c.end()
	assert.NoError(t, c.CompileSource("x.d", []string{"var int x;"}))
	assert.Equal(t, Idle, c.State())
}

func TestWait(t *testing.T) {
	c := New()
	c.Wait()

	require.NoError(t, c.begin())
	released := make(chan struct{})
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(released)
		c.end()
	}()

	c.Wait()
	assert.Equal(t, Idle, c.State())
	select {
	case <-released:
	default:
		t.Fatal("Wait returned while compiling")
	}
}

func TestCompileResult_ReusesBuiltFile(t *testing.T) {
	res := Build("buf.d", []string{"func int Helper() { return 1; };"})

	c := New()
	require.NoError(t, c.CompileResult(res))

	got, ok := c.File("buf.d")
	require.True(t, ok)
	assert.Same(t, res, got)
	_, ok = c.Global("helper")
	assert.True(t, ok)

	require.NoError(t, c.begin())
	assert.ErrorIs(t, c.CompileResult(res), ErrBusy)
	c.end()
}

func TestCompileSingleFile_ReplacesPreviousDeclarations(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.d", "func void Old() { };")
	b := writeFile(t, dir, "b.d", "var int Shared;")

	c := New()
	require.NoError(t, c.Compile([]string{a, b}))

	writeFile(t, dir, "a.d", "func void New() { };\nvar int Extra;")
	require.NoError(t, c.CompileSingleFile(a))

	_, ok := c.Global("Old")
	assert.False(t, ok)
	_, ok = c.Global("New")
	assert.True(t, ok)
	_, ok = c.Global("Shared")
	assert.True(t, ok)

	var names []string
	for _, d := range c.Declarations() {
		names = append(names, d.DeclName())
	}
	assert.ElementsMatch(t, []string{"Shared", "New", "Extra"}, names)
	assert.Equal(t, []string{a, b}, c.Files())
}

func TestCompileSource_UsesBuffer(t *testing.T) {
	c := New(WithReader(func(string) ([]string, error) {
		t.Fatal("reader must not be called")
		return nil, nil
	}))

	require.NoError(t, c.CompileSource("buffer.d", []string{"const int MAX = 3;"}))

	d, ok := c.Global("max")
	require.True(t, ok)
	assert.Equal(t, "buffer.d", d.File())
	assert.IsType(t, &ast.ConstDecl{}, d)
}

func TestCompileSource_KeepsGlobalSharedWithOtherFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.d", "var int Gold;")
	b := writeFile(t, dir, "b.d", "var int Gold;\nvar int Other;")

	c := New()
	require.NoError(t, c.Compile([]string{a, b}))
	d, ok := c.Global("gold")
	require.True(t, ok)
	assert.Equal(t, b, d.File())

	require.NoError(t, c.CompileSource(b, []string{"var int Other;"}))

	d, ok = c.Global("gold")
	require.True(t, ok)
	assert.Equal(t, a, d.File())

	full := New()
	writeFile(t, dir, "b.d", "var int Other;")
	require.NoError(t, full.Compile([]string{a, b}))
	assert.Equal(t, full.Symbols().Globals(), c.Symbols().Globals())
	assert.Len(t, c.Declarations(), len(full.Declarations()))
}

func TestCompileSource_ReplacedFileKeepsCompileOrder(t *testing.T) {
	c := New()
	require.NoError(t, c.CompileSource("a.d", []string{"var int Gold;"}))
	require.NoError(t, c.CompileSource("b.d", []string{"var int Gold;"}))
	require.NoError(t, c.CompileSource("a.d", []string{"var int Gold;", "var int Extra;"}))

	d, ok := c.Global("gold")
	require.True(t, ok)
	assert.Equal(t, "b.d", d.File())
	assert.Equal(t, []string{"a.d", "b.d"}, c.Files())

	require.NoError(t, c.Forget("b.d"))
	d, ok = c.Global("gold")
	require.True(t, ok)
	assert.Equal(t, "a.d", d.File())
}

func TestForget(t *testing.T) {
	c := New()
	require.NoError(t, c.CompileSource("a.d", []string{"var int a;"}))
	require.NoError(t, c.Forget("a.d"))

	assert.Empty(t, c.Files())
	assert.Empty(t, c.Declarations())
	_, ok := c.Global("a")
	assert.False(t, ok)
}

func TestBuild_StampsNestedDeclarations(t *testing.T) {
	res := Build("story.d", []string{
		"class C_Item { var int value; };",
		"func void F() { var int local; };",
	})

	require.Len(t, res.Declarations, 2)
	class := res.Declarations[0].(*ast.ClassDecl)
	assert.Equal(t, "story.d", class.Members[0].File())

	fn := res.Declarations[1].(*ast.FunctionDecl)
	assert.Equal(t, "story.d", ast.Locals(fn.Body)[0].File())
}

func TestReadFile_Windows1252(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "umlaut.d")
	// "Händler" in Windows-1252 followed by a CRLF line break.
	require.NoError(t, os.WriteFile(path, []byte("var string n; // H\xe4ndler\r\nvar int x;"), 0o644))

	lines, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"var string n; // Händler", "var int x;"}, lines)
}

func TestDecode_StripsBOM(t *testing.T) {
	text, err := Decode([]byte("\xef\xbb\xbfvar int x;"))
	require.NoError(t, err)
	assert.Equal(t, "var int x;", text)
}
