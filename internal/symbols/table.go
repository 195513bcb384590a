// Package symbols implements the scoped, case-insensitive symbol table shared
// by the compiler and the analysis passes.
package symbols

import (
	"sort"
	"strings"

	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
)

// Table maps names to declarations. It keeps a stack of lexical scopes and a
// permanent global map. Table is not safe for concurrent writes.
type Table struct {
	scopes  []map[string]ast.Declaration
	globals map[string]ast.Declaration
}

// New creates a table with a single root scope.
func New() *Table {
	return &Table{
		scopes:  []map[string]ast.Declaration{make(map[string]ast.Declaration)},
		globals: make(map[string]ast.Declaration),
	}
}

func key(name string) string {
	return strings.ToLower(name)
}

// IsGlobalKind reports whether decl always lands in the global map no matter
// which scope it is registered in.
func IsGlobalKind(decl ast.Declaration) bool {
	switch decl.(type) {
	case *ast.FunctionDecl, *ast.InstanceDecl, *ast.PrototypeDecl, *ast.ClassDecl,
		*ast.VarDecl, *ast.ConstDecl:
		return true
	}
	return false
}

// Register binds name to decl in the innermost scope. Functions, instances,
// prototypes, classes, variables and constants also go into the global map,
// as does anything registered while only the root scope is active. Grouped declarations are
// registered member by member under their own names.
func (t *Table) Register(name string, decl ast.Declaration) {
	if multi, ok := decl.(*ast.MultiDecl); ok {
		for _, sub := range multi.Decls {
			t.Register(sub.DeclName(), sub)
		}
		return
	}

	k := key(name)
	t.scopes[len(t.scopes)-1][k] = decl
	if IsGlobalKind(decl) || len(t.scopes) == 1 {
		t.globals[k] = decl
	}
}

// Resolve searches the scopes innermost first, then the global map.
func (t *Table) Resolve(name string) (ast.Declaration, bool) {
	k := key(name)
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if decl, ok := t.scopes[i][k]; ok {
			return decl, true
		}
	}
	decl, ok := t.globals[k]
	return decl, ok
}

// Global looks name up in the global map only.
func (t *Table) Global(name string) (ast.Declaration, bool) {
	decl, ok := t.globals[key(name)]
	return decl, ok
}

// EnterScope pushes a new innermost scope.
func (t *Table) EnterScope() {
	t.scopes = append(t.scopes, make(map[string]ast.Declaration))
}

// ExitScope pops the innermost scope. The root scope is never popped.
func (t *Table) ExitScope() {
	if len(t.scopes) > 1 {
		t.scopes = t.scopes[:len(t.scopes)-1]
	}
}

// Depth returns the number of active scopes, 1 for the root scope alone.
func (t *Table) Depth() int {
	return len(t.scopes)
}

// Len returns the number of global entries.
func (t *Table) Len() int {
	return len(t.globals)
}

// Globals returns the declared spelling of every global name, sorted
// case-insensitively.
func (t *Table) Globals() []string {
	names := make([]string, 0, len(t.globals))
	for _, decl := range t.globals {
		names = append(names, decl.DeclName())
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}
