package semantic

import (
	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
	"github.com/CWBudde/go-daedalus-lsp/internal/symbols"
)

// scope holds the local names of one body. Class members seed the root frame
// and the body's parameters and locals live in a frame above it, so a local
// shadows a member of the same name. unchecked marks bodies whose base class
// is unknown, so bare names cannot be validated.
type scope struct {
	table     *symbols.Table
	unchecked bool
}

func newScope(unchecked bool) *scope {
	return &scope{table: symbols.New(), unchecked: unchecked}
}

// enter opens the frame for a body's own declarations.
func (s *scope) enter() *scope {
	s.table.EnterScope()
	return s
}

func (s *scope) exit() {
	s.table.ExitScope()
}

func (s *scope) define(pos ast.Position, name, typ string) {
	s.table.Register(name, ast.NewVarDecl(pos, typ, name))
}

func (s *scope) declare(d ast.Declaration) {
	s.table.Register(d.DeclName(), d)
}

func (s *scope) lookup(name string) (string, bool) {
	d, ok := s.table.Resolve(name)
	if !ok {
		return "", false
	}
	return declType(d), true
}
