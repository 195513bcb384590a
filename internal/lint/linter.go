// Package lint produces quick editor feedback: duplicate parameters, unused
// locals, redundant returns, and display categories for syntax coloring.
package lint

import (
	"strings"
	"unicode/utf8"

	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
	"github.com/CWBudde/go-daedalus-lsp/internal/builtins"
	"github.com/CWBudde/go-daedalus-lsp/internal/diag"
)

// Category is the display category of a highlighted range.
type Category int

const (
	Declaration Category = iota
	Assignment
	KnownCall
	UnknownCall
)

func (c Category) String() string {
	switch c {
	case Declaration:
		return "declaration"
	case Assignment:
		return "assignment"
	case KnownCall:
		return "known-call"
	case UnknownCall:
		return "unknown-call"
	}
	return "unknown"
}

// Highlight marks a source range with a display category. Line and Column
// are 1-based; Length counts runes.
type Highlight struct {
	Line     int
	Column   int
	Length   int
	Category Category
}

// Result is the outcome of one lint run.
type Result struct {
	Diagnostics []diag.Diagnostic
	Highlights  []Highlight
}

// Option configures a Linter.
type Option func(*Linter)

// WithKnownFunctions replaces the allow-list used to tell known calls from
// unknown ones.
func WithKnownFunctions(names []string) Option {
	return func(l *Linter) {
		l.known = make(map[string]bool, len(names))
		for _, n := range names {
			l.known[strings.ToLower(n)] = true
		}
	}
}

// Linter is safe for concurrent use once constructed.
type Linter struct {
	known map[string]bool
}

// New creates a linter. Without options the known functions are the
// cataloged engine externals.
func New(opts ...Option) *Linter {
	l := &Linter{}
	WithKnownFunctions(builtins.KnownFunctions())(l)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lint checks decls. It does not modify them.
func (l *Linter) Lint(decls []ast.Declaration) Result {
	var res Result

	for _, d := range ast.Flatten(decls) {
		if fn, ok := d.(*ast.FunctionDecl); ok {
			res.Diagnostics = append(res.Diagnostics, checkParams(fn)...)
			res.Diagnostics = append(res.Diagnostics, checkUnused(fn)...)
			res.Diagnostics = append(res.Diagnostics, checkTrailingReturn(fn)...)
		}
		res.Highlights = append(res.Highlights, l.highlights(d)...)
	}

	diag.Sort(res.Diagnostics)
	return res
}

func checkParams(fn *ast.FunctionDecl) []diag.Diagnostic {
	var out []diag.Diagnostic
	seen := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		k := strings.ToLower(p.Name)
		if seen[k] {
			out = append(out, diag.Errorf(diag.CategoryDuplicate, p.Pos().Line, p.Pos().Column, p.Name,
				"duplicate parameter %q in %s", p.Name, fn.Name))
			continue
		}
		seen[k] = true
	}
	return out
}

// checkUnused counts every read and write of the body's locals, including
// inside if/else branches, and reports the ones never touched.
func checkUnused(fn *ast.FunctionDecl) []diag.Diagnostic {
	locals := ast.Locals(fn.Body)
	if len(locals) == 0 {
		return nil
	}

	uses := make(map[string]int, len(locals))
	for _, stmt := range fn.Body {
		ast.Inspect(stmt, func(n ast.Node) bool {
			if id, ok := n.(*ast.Ident); ok {
				uses[strings.ToLower(id.Name)]++
			}
			return true
		})
	}

	var out []diag.Diagnostic
	for _, d := range locals {
		if uses[strings.ToLower(d.DeclName())] > 0 {
			continue
		}
		pos := d.Pos()
		out = append(out, diag.Warnf(diag.CategoryUnused, pos.Line, pos.Column, d.DeclName(),
			"%s is declared but never used", d.DeclName()))
	}
	return out
}

func checkTrailingReturn(fn *ast.FunctionDecl) []diag.Diagnostic {
	if len(fn.Body) == 0 {
		return nil
	}
	ret, ok := fn.Body[len(fn.Body)-1].(*ast.ReturnStmt)
	if !ok || ret.Value != nil {
		return nil
	}
	d := diag.Warnf(diag.CategoryRedundant, ret.Pos().Line, ret.Pos().Column, "return",
		"redundant return at the end of %s", fn.Name)
	d.Severity = diag.SeverityHint
	return []diag.Diagnostic{d}
}

func (l *Linter) highlights(d ast.Declaration) []Highlight {
	var out []Highlight
	ast.Inspect(d, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.VarDecl:
			out = append(out, span(n.Pos(), n.Name, Declaration))
		case *ast.ConstDecl:
			out = append(out, span(n.Pos(), n.Name, Declaration))
		case *ast.AssignStmt:
			if name := targetName(n.Left); name != "" {
				out = append(out, span(n.Pos(), name, Assignment))
			}
		case *ast.CallExpr:
			cat := UnknownCall
			if l.known[strings.ToLower(n.Callee)] {
				cat = KnownCall
			}
			out = append(out, span(n.Pos(), n.Callee, cat))
		}
		return true
	})
	return out
}

// targetName is the leading name of an assignment target.
func targetName(e ast.Expression) string {
	switch e := e.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.IndexExpr:
		return targetName(e.Target)
	case *ast.MemberExpr:
		return targetName(e.Object)
	}
	return ""
}

func span(pos ast.Position, text string, cat Category) Highlight {
	return Highlight{
		Line:     pos.Line,
		Column:   pos.Column,
		Length:   utf8.RuneCountInString(text),
		Category: cat,
	}
}
