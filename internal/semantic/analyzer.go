// Package semantic checks parsed declarations for duplicate names, undeclared
// identifiers and mismatched operand types.
//
// Type inference is syntactic and shallow: the type of a binary expression is
// the type of its left operand, and a mismatch is reported only when both
// operand types are known.
package semantic

import (
	"strings"

	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
	"github.com/CWBudde/go-daedalus-lsp/internal/builtins"
	"github.com/CWBudde/go-daedalus-lsp/internal/diag"
	"github.com/CWBudde/go-daedalus-lsp/internal/lexer"
	"github.com/CWBudde/go-daedalus-lsp/internal/token"
)

// Type shapes produced by inference. Class types keep their declared name.
const (
	typeUnknown = ""
	typeInt     = "int"
	typeFloat   = "float"
	typeString  = "string"
	typeBool    = "bool"
	typeFunc    = "func"
)

// Globals resolves names declared outside the analyzed file, typically the
// project symbol table.
type Globals interface {
	Global(name string) (ast.Declaration, bool)
}

// Option configures an analysis run.
type Option func(*analyzer)

// WithGlobals resolves names the file does not declare against g.
func WithGlobals(g Globals) Option {
	return func(a *analyzer) { a.globals = g }
}

// WithExternal adds a predicate for names the host engine provides.
func WithExternal(fn func(name string) bool) Option {
	return func(a *analyzer) { a.external = fn }
}

type analyzer struct {
	globals  Globals
	external func(string) bool

	top   map[string]ast.Declaration
	diags []diag.Diagnostic
}

// Analyze returns the diagnostics for decls, sorted by position. It does not
// modify the declarations.
func Analyze(decls []ast.Declaration, opts ...Option) []diag.Diagnostic {
	a := &analyzer{top: make(map[string]ast.Declaration)}
	for _, opt := range opts {
		opt(a)
	}

	flat := ast.Flatten(decls)
	for _, d := range flat {
		a.declare(d)
	}
	for _, d := range flat {
		a.checkDecl(d)
	}

	diag.Sort(a.diags)
	return a.diags
}

// declare registers a top-level name; the first registration wins and every
// later one is reported.
func (a *analyzer) declare(d ast.Declaration) {
	k := strings.ToLower(d.DeclName())
	if first, ok := a.top[k]; ok {
		pos := d.Pos()
		a.diags = append(a.diags, diag.Errorf(diag.CategoryDuplicate, pos.Line, pos.Column, d.DeclName(),
			"duplicate declaration of %q, first declared at line %d", d.DeclName(), first.Pos().Line))
		return
	}
	a.top[k] = d
}

func (a *analyzer) checkDecl(d ast.Declaration) {
	switch d := d.(type) {
	case *ast.FunctionDecl:
		s := newScope(false).enter()
		defer s.exit()
		for _, sig := range d.ParamSignatures() {
			fields := strings.Fields(sig)
			if len(fields) < 2 {
				continue
			}
			s.define(d.Pos(), fields[len(fields)-1], fields[len(fields)-2])
		}
		a.checkStmts(d.Body, s)

	case *ast.InstanceDecl:
		s := a.classScope(d.BaseClass).enter()
		defer s.exit()
		a.checkStmts(d.Body, s)

	case *ast.PrototypeDecl:
		s := a.classScope(d.BaseClass).enter()
		defer s.exit()
		a.checkStmts(d.Body, s)

	case *ast.VarDecl:
		a.infer(d.ArraySize, newScope(false))

	case *ast.ConstDecl:
		s := newScope(false)
		a.infer(d.ArraySize, s)
		a.infer(d.Value, s)
	}
}

// classScope seeds a scope with the members of the class an instance or
// prototype derives from. Prototypes are followed to their class. When the
// class cannot be found, bare names cannot be checked.
func (a *analyzer) classScope(base string) *scope {
	seen := make(map[string]bool)
	for name := base; !seen[strings.ToLower(name)]; {
		seen[strings.ToLower(name)] = true

		switch d := a.lookup(name).(type) {
		case *ast.ClassDecl:
			s := newScope(false)
			for _, m := range d.Members {
				s.declare(m)
			}
			return s
		case *ast.PrototypeDecl:
			name = d.BaseClass
		default:
			return newScope(true)
		}
	}
	return newScope(true)
}

func (a *analyzer) checkStmts(stmts []ast.Statement, s *scope) {
	for _, stmt := range stmts {
		a.checkStmt(stmt, s)
	}
}

func (a *analyzer) checkStmt(stmt ast.Statement, s *scope) {
	switch st := stmt.(type) {
	case *ast.AssignStmt:
		a.infer(st.Left, s)
		a.infer(st.Right, s)
	case *ast.ExprStmt:
		a.infer(st.X, s)
	case *ast.IfStmt:
		a.infer(st.Cond, s)
		a.checkStmts(st.Then, s)
		a.checkStmts(st.Else, s)
	case *ast.ReturnStmt:
		a.infer(st.Value, s)
	case *ast.VarDeclStmt:
		for _, d := range ast.Flatten(st.Decls) {
			switch local := d.(type) {
			case *ast.VarDecl:
				a.infer(local.ArraySize, s)
				s.declare(local)
			case *ast.ConstDecl:
				a.infer(local.Value, s)
				s.declare(local)
			}
		}
	}
}

// infer returns the type shape of e, reporting problems on the way.
func (a *analyzer) infer(e ast.Expression, s *scope) string {
	switch e := e.(type) {
	case nil:
		return typeUnknown

	case *ast.Literal:
		switch e.Kind {
		case ast.IntLiteral:
			return typeInt
		case ast.FloatLiteral:
			return typeFloat
		case ast.StringLiteral:
			return typeString
		}
		return typeBool

	case *ast.Ident:
		return a.identType(e, s)

	case *ast.UnaryExpr:
		return a.infer(e.Operand, s)

	case *ast.BinaryExpr:
		left := a.infer(e.Left, s)
		right := a.infer(e.Right, s)
		if left != typeUnknown && right != typeUnknown && !compatible(left, right) {
			pos := e.Pos()
			a.diags = append(a.diags, diag.Errorf(diag.CategoryTypeMismatch, pos.Line, pos.Column, e.Op,
				"type mismatch: %s %s %s", left, e.Op, right))
		}
		return left

	case *ast.IndexExpr:
		a.infer(e.Index, s)
		return a.infer(e.Target, s)

	case *ast.MemberExpr:
		a.infer(e.Object, s)
		return typeUnknown

	case *ast.CallExpr:
		for _, arg := range e.Args {
			a.infer(arg, s)
		}
		return a.callType(e)

	case *ast.ArrayLiteral:
		for _, el := range e.Elements {
			a.infer(el, s)
		}
		return typeUnknown
	}

	return typeUnknown
}

func (a *analyzer) identType(id *ast.Ident, s *scope) string {
	if typ, ok := s.lookup(id.Name); ok {
		return typ
	}
	if d := a.lookup(id.Name); d != nil {
		return declType(d)
	}
	if a.isExternal(id.Name) || s.unchecked {
		return typeUnknown
	}

	a.diags = append(a.diags, diag.Errorf(diag.CategoryUndeclared, id.Position.Line, id.Position.Column, id.Name,
		"undeclared identifier %q", id.Name))
	return typeUnknown
}

func (a *analyzer) callType(call *ast.CallExpr) string {
	if strings.Contains(call.Callee, ".") {
		return typeUnknown
	}
	if d := a.lookup(call.Callee); d != nil {
		if fn, ok := d.(*ast.FunctionDecl); ok {
			return normalize(fn.ReturnType)
		}
		return typeUnknown
	}
	if sig := builtins.GetBuiltinSignature(call.Callee); sig != nil {
		return normalize(sig.ReturnType)
	}
	if a.isExternal(call.Callee) {
		return typeUnknown
	}

	pos := call.Pos()
	a.diags = append(a.diags, diag.Errorf(diag.CategoryUndeclared, pos.Line, pos.Column, call.Callee,
		"undeclared function %q", call.Callee))
	return typeUnknown
}

// lookup resolves a name in the file, then in the project.
func (a *analyzer) lookup(name string) ast.Declaration {
	if d, ok := a.top[strings.ToLower(name)]; ok {
		return d
	}
	if a.globals != nil {
		if d, ok := a.globals.Global(name); ok {
			return d
		}
	}
	return nil
}

// isExternal reports whether name is plausibly provided by the engine.
func (a *analyzer) isExternal(name string) bool {
	kind := lexer.Classify(name)
	if kind.IsEngineAPI() || kind == token.Special || kind == token.BoolLiteral {
		return true
	}
	if builtins.IsBuiltinFunction(name) {
		return true
	}
	return a.external != nil && a.external(name)
}

func declType(d ast.Declaration) string {
	switch d := d.(type) {
	case *ast.VarDecl:
		return normalize(d.TypeName)
	case *ast.ConstDecl:
		return normalize(d.TypeName)
	case *ast.FunctionDecl:
		return typeFunc
	}
	return typeUnknown
}

// normalize lowercases keyword types; class names are compared
// case-insensitively anyway.
func normalize(typ string) string {
	switch lower := strings.ToLower(typ); lower {
	case typeInt, typeFloat, typeString, typeFunc, "void", "instance":
		return lower
	}
	return typ
}

// compatible treats bool as int: TRUE and FALSE are integer constants in
// Daedalus.
func compatible(a, b string) bool {
	if a == typeBool {
		a = typeInt
	}
	if b == typeBool {
		b = typeInt
	}
	return strings.EqualFold(a, b)
}
