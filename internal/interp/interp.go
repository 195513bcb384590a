// Package interp is a tree-walking evaluator for standalone Daedalus
// functions and constant expressions. It does not model engine objects:
// member access, indexing and instance method dispatch are runtime errors.
package interp

import (
	"io"
	"os"
	"strings"

	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
	"github.com/CWBudde/go-daedalus-lsp/internal/diag"
)

// DefaultMaxDepth bounds the call stack.
const DefaultMaxDepth = 256

// Value is a dynamic script value: float64, string or nil.
type Value any

// Builtin is a host function callable from scripts.
type Builtin func(in *Interpreter, args []Value) (Value, error)

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput sets where Print and PrintDebug write.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) { in.out = w }
}

// WithBuiltin registers or replaces a host function.
func WithBuiltin(name string, fn Builtin) Option {
	return func(in *Interpreter) { in.builtins[strings.ToLower(name)] = fn }
}

// WithMaxDepth sets the maximum call depth.
func WithMaxDepth(n int) Option {
	return func(in *Interpreter) {
		if n > 0 {
			in.maxDepth = n
		}
	}
}

type frame struct {
	function string
	locals   map[string]Value
}

// Interpreter holds loaded declarations and global state. It is not safe for
// concurrent use.
type Interpreter struct {
	out      io.Writer
	builtins map[string]Builtin
	maxDepth int

	decls      []ast.Declaration
	names      map[string]ast.Declaration
	functions  map[string]*ast.FunctionDecl
	globals    map[string]Value
	consts     map[string]*ast.ConstDecl
	constCache map[string]Value
	evaluating map[string]bool

	frames []*frame
}

// New creates an interpreter with the standard built-ins.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		out:        os.Stdout,
		builtins:   standardBuiltins(),
		maxDepth:   DefaultMaxDepth,
		names:      make(map[string]ast.Declaration),
		functions:  make(map[string]*ast.FunctionDecl),
		globals:    make(map[string]Value),
		consts:     make(map[string]*ast.ConstDecl),
		constCache: make(map[string]Value),
		evaluating: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// LoadDeclarations registers functions, globals, constants and instances.
// Every name must be unique (case-insensitively); all duplicates are
// reported together in one *LoadError and nothing from the batch is kept.
func (in *Interpreter) LoadDeclarations(decls []ast.Declaration) error {
	flat := ast.Flatten(decls)

	seen := make(map[string]ast.Declaration, len(flat))
	for k, d := range in.names {
		seen[k] = d
	}

	var dups []Duplicate
	for _, d := range flat {
		k := strings.ToLower(d.DeclName())
		if first, ok := seen[k]; ok && !isForward(first) && !isForward(d) {
			dups = append(dups, Duplicate{Name: d.DeclName(), First: first.Pos(), Again: d.Pos()})
			continue
		}
		if _, ok := seen[k]; !ok || !isForward(d) {
			seen[k] = d
		}
	}
	if len(dups) > 0 {
		return &LoadError{Duplicates: dups}
	}

	for _, d := range flat {
		k := strings.ToLower(d.DeclName())
		switch d := d.(type) {
		case *ast.FunctionDecl:
			in.functions[k] = d
		case *ast.VarDecl:
			in.globals[k] = zeroValue(d.TypeName)
		case *ast.ConstDecl:
			in.consts[k] = d
			delete(in.constCache, k)
		}
	}
	in.names = seen
	in.decls = append(in.decls, flat...)
	return nil
}

// isForward reports whether d is an instance declared without a body.
func isForward(d ast.Declaration) bool {
	inst, ok := d.(*ast.InstanceDecl)
	return ok && !inst.HasBody
}

// SemanticCheck inspects the loaded declarations for problems the
// interpreter cannot handle or that are almost certainly mistakes.
func (in *Interpreter) SemanticCheck() []diag.Diagnostic {
	var out []diag.Diagnostic

	for _, d := range in.decls {
		var body []ast.Statement
		switch d := d.(type) {
		case *ast.FunctionDecl:
			body = d.Body
			if len(body) == 0 {
				out = append(out, warnAt(d.Pos(), d.Name, "function %s has an empty body", d.Name))
			}
		case *ast.InstanceDecl:
			if !d.HasBody {
				continue
			}
			body = d.Body
			if len(body) == 0 {
				out = append(out, warnAt(d.Pos(), d.Name, "instance %s has an empty body", d.Name))
			}
			out = append(out, checkAttributes(body)...)
		case *ast.PrototypeDecl:
			body = d.Body
			if len(body) == 0 {
				out = append(out, warnAt(d.Pos(), d.Name, "prototype %s has an empty body", d.Name))
			}
			out = append(out, checkAttributes(body)...)
		default:
			continue
		}

		for _, stmt := range body {
			ast.Inspect(stmt, func(n ast.Node) bool {
				if idx, ok := n.(*ast.IndexExpr); ok {
					pos := idx.Pos()
					out = append(out, diag.Errorf(diag.CategorySemantic, pos.Line, pos.Column, "[",
						"index expressions are not supported"))
				}
				return true
			})
		}
	}

	diag.Sort(out)
	return out
}

// checkAttributes reports attributes assigned twice in one instance body and
// daily_routine values that are not a plain routine name. Assignments inside
// conditionals count as well.
func checkAttributes(body []ast.Statement) []diag.Diagnostic {
	var out []diag.Diagnostic
	assigned := make(map[string]bool)

	for _, stmt := range body {
		ast.Inspect(stmt, func(n ast.Node) bool {
			assign, ok := n.(*ast.AssignStmt)
			if !ok {
				return true
			}
			target := ast.Dump(assign.Left)
			k := strings.ToLower(target)
			pos := assign.Pos()

			if assigned[k] {
				out = append(out, warnAt(pos, target, "attribute %s is assigned more than once", target))
			}
			assigned[k] = true

			if k == "daily_routine" {
				if _, ok := assign.Right.(*ast.Ident); !ok {
					out = append(out, diag.Errorf(diag.CategorySemantic, pos.Line, pos.Column, target,
						"daily_routine must be assigned a routine function name"))
				}
			}
			return false
		})
	}
	return out
}

func warnAt(pos ast.Position, hint, format string, args ...any) diag.Diagnostic {
	return diag.Warnf(diag.CategorySemantic, pos.Line, pos.Column, hint, format, args...)
}

// Global returns the current value of a global variable or constant.
func (in *Interpreter) Global(name string) (Value, bool) {
	k := strings.ToLower(name)
	if v, ok := in.globals[k]; ok {
		return v, true
	}
	if _, ok := in.consts[k]; ok {
		v, err := in.constValue(k)
		return v, err == nil
	}
	return nil, false
}

// Functions returns the names of the loaded script functions.
func (in *Interpreter) Functions() []string {
	names := make([]string, 0, len(in.functions))
	for _, fn := range in.functions {
		names = append(names, fn.Name)
	}
	return names
}

func zeroValue(typeName string) Value {
	switch strings.ToLower(typeName) {
	case "int", "float":
		return float64(0)
	case "string":
		return ""
	}
	return nil
}
