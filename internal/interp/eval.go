package interp

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
)

// CallFunction invokes a loaded script function or a built-in by name.
func (in *Interpreter) CallFunction(name string, args ...Value) (Value, error) {
	return in.call(ast.Position{}, name, args)
}

// Eval evaluates a standalone expression against the loaded globals.
func (in *Interpreter) Eval(expr ast.Expression) (Value, error) {
	in.frames = in.frames[:0]
	return in.eval(expr)
}

func (in *Interpreter) call(pos ast.Position, name string, args []Value) (Value, error) {
	k := strings.ToLower(name)

	fn, ok := in.functions[k]
	if !ok {
		if b, ok := in.builtins[k]; ok {
			v, err := b(in, args)
			if err != nil {
				return nil, in.wrap(pos, err)
			}
			return v, nil
		}
		return nil, in.errorf(pos, "undefined function %q", name)
	}

	if len(args) != len(fn.Params) {
		return nil, in.errorf(pos, "%s expects %d arguments, got %d", fn.Name, len(fn.Params), len(args))
	}
	if len(in.frames) >= in.maxDepth {
		return nil, in.errorf(pos, "call depth exceeds %d", in.maxDepth)
	}

	f := &frame{function: fn.Name, locals: make(map[string]Value, len(fn.Params))}
	for i, p := range fn.Params {
		f.locals[strings.ToLower(p.Name)] = args[i]
	}

	in.frames = append(in.frames, f)
	defer func() { in.frames = in.frames[:len(in.frames)-1] }()

	v, _, err := in.exec(fn.Body)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// exec runs statements until one returns. The bool reports whether a return
// statement was reached.
func (in *Interpreter) exec(stmts []ast.Statement) (Value, bool, error) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.ReturnStmt:
			if s.Value == nil {
				return nil, true, nil
			}
			v, err := in.eval(s.Value)
			return v, true, err

		case *ast.IfStmt:
			cond, err := in.eval(s.Cond)
			if err != nil {
				return nil, false, err
			}
			branch := s.Else
			if truthy(cond) {
				branch = s.Then
			}
			if v, returned, err := in.exec(branch); err != nil || returned {
				return v, returned, err
			}

		case *ast.AssignStmt:
			if err := in.assign(s); err != nil {
				return nil, false, err
			}

		case *ast.ExprStmt:
			if _, err := in.eval(s.X); err != nil {
				return nil, false, err
			}

		case *ast.VarDeclStmt:
			if err := in.declareLocals(s.Decls); err != nil {
				return nil, false, err
			}
		}
	}
	return nil, false, nil
}

func (in *Interpreter) declareLocals(decls []ast.Declaration) error {
	f := in.top()
	for _, d := range ast.Flatten(decls) {
		switch d := d.(type) {
		case *ast.VarDecl:
			f.locals[strings.ToLower(d.Name)] = zeroValue(d.TypeName)
		case *ast.ConstDecl:
			v, err := in.eval(d.Value)
			if err != nil {
				return err
			}
			f.locals[strings.ToLower(d.Name)] = v
		}
	}
	return nil
}

func (in *Interpreter) assign(s *ast.AssignStmt) error {
	id, ok := s.Left.(*ast.Ident)
	if !ok {
		return in.errorf(s.Pos(), "cannot assign to %s", ast.Dump(s.Left))
	}

	v, err := in.eval(s.Right)
	if err != nil {
		return err
	}

	k := strings.ToLower(id.Name)
	if f := in.top(); f != nil {
		if _, ok := f.locals[k]; ok {
			f.locals[k] = v
			return nil
		}
	}
	if _, ok := in.globals[k]; ok {
		in.globals[k] = v
		return nil
	}
	if _, ok := in.consts[k]; ok {
		return in.errorf(s.Pos(), "cannot assign to constant %s", id.Name)
	}
	return in.errorf(s.Pos(), "undefined variable %q", id.Name)
}

func (in *Interpreter) eval(expr ast.Expression) (Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return in.literal(e)

	case *ast.Ident:
		return in.lookup(e)

	case *ast.UnaryExpr:
		return in.unary(e)

	case *ast.BinaryExpr:
		return in.binary(e)

	case *ast.CallExpr:
		args := make([]Value, len(e.Args))
		for i, a := range e.Args {
			v, err := in.eval(a)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return in.call(e.Pos(), e.Callee, args)

	case *ast.IndexExpr:
		return nil, in.errorf(e.Pos(), "index expressions are not supported")

	case *ast.MemberExpr:
		return nil, in.errorf(e.Pos(), "member access is not supported")

	case *ast.ArrayLiteral:
		return nil, in.errorf(e.Pos(), "array values are not supported")

	case nil:
		return nil, nil
	}
	return nil, in.errorf(expr.Pos(), "cannot evaluate %T", expr)
}

func (in *Interpreter) literal(l *ast.Literal) (Value, error) {
	switch l.Kind {
	case ast.StringLiteral:
		return l.Unquote(), nil
	case ast.BoolLiteral:
		if strings.EqualFold(l.Text, "true") {
			return float64(1), nil
		}
		return float64(0), nil
	}
	f, err := strconv.ParseFloat(l.Text, 64)
	if err != nil {
		return nil, in.errorf(l.Pos(), "invalid number %q", l.Text)
	}
	return f, nil
}

func (in *Interpreter) lookup(id *ast.Ident) (Value, error) {
	k := strings.ToLower(id.Name)

	if f := in.top(); f != nil {
		if v, ok := f.locals[k]; ok {
			return v, nil
		}
	}
	if v, ok := in.globals[k]; ok {
		return v, nil
	}
	if _, ok := in.consts[k]; ok {
		v, err := in.constValue(k)
		if err != nil {
			return nil, in.wrap(id.Pos(), err)
		}
		return v, nil
	}
	if d, ok := in.names[k]; ok {
		// Functions and instances evaluate to their name.
		return d.DeclName(), nil
	}
	return nil, in.errorf(id.Pos(), "undefined identifier %q", id.Name)
}

// constValue evaluates a global constant once and caches the result.
func (in *Interpreter) constValue(k string) (Value, error) {
	if v, ok := in.constCache[k]; ok {
		return v, nil
	}
	if in.evaluating[k] {
		return nil, fmt.Errorf("constant %s depends on itself", in.consts[k].Name)
	}

	in.evaluating[k] = true
	defer delete(in.evaluating, k)

	saved := in.frames
	in.frames = nil
	v, err := in.eval(in.consts[k].Value)
	in.frames = saved
	if err != nil {
		return nil, err
	}
	in.constCache[k] = v
	return v, nil
}

func (in *Interpreter) unary(e *ast.UnaryExpr) (Value, error) {
	v, err := in.eval(e.Operand)
	if err != nil {
		return nil, err
	}

	if e.Op == "!" {
		return boolValue(!truthy(v)), nil
	}

	n, err := in.number(e.Pos(), v)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "-":
		return -n, nil
	case "~":
		return float64(^int64(n)), nil
	}
	return n, nil
}

func (in *Interpreter) binary(e *ast.BinaryExpr) (Value, error) {
	left, err := in.eval(e.Left)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case "&&":
		if !truthy(left) {
			return boolValue(false), nil
		}
		right, err := in.eval(e.Right)
		if err != nil {
			return nil, err
		}
		return boolValue(truthy(right)), nil
	case "||":
		if truthy(left) {
			return boolValue(true), nil
		}
		right, err := in.eval(e.Right)
		if err != nil {
			return nil, err
		}
		return boolValue(truthy(right)), nil
	}

	right, err := in.eval(e.Right)
	if err != nil {
		return nil, err
	}

	ls, lstr := left.(string)
	rs, rstr := right.(string)
	if lstr || rstr {
		switch e.Op {
		case "+":
			return FormatValue(left) + FormatValue(right), nil
		case "==":
			return boolValue(lstr && rstr && ls == rs), nil
		case "!=":
			return boolValue(!(lstr && rstr && ls == rs)), nil
		}
		return nil, in.errorf(e.Pos(), "operator %s is not defined on strings", e.Op)
	}

	l, err := in.number(e.Pos(), left)
	if err != nil {
		return nil, err
	}
	r, err := in.number(e.Pos(), right)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return nil, in.errorf(e.Pos(), "division by zero")
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return nil, in.errorf(e.Pos(), "division by zero")
		}
		return math.Mod(l, r), nil
	case "==":
		return boolValue(l == r), nil
	case "!=":
		return boolValue(l != r), nil
	case "<":
		return boolValue(l < r), nil
	case "<=":
		return boolValue(l <= r), nil
	case ">":
		return boolValue(l > r), nil
	case ">=":
		return boolValue(l >= r), nil
	case "&":
		return float64(int64(l) & int64(r)), nil
	case "|":
		return float64(int64(l) | int64(r)), nil
	case "^":
		return float64(int64(l) ^ int64(r)), nil
	case "<<":
		return float64(int64(l) << uint64(int64(r)&63)), nil
	case ">>":
		return float64(int64(l) >> uint64(int64(r)&63)), nil
	}
	return nil, in.errorf(e.Pos(), "unknown operator %s", e.Op)
}

// number coerces a non-string value to float64. nil counts as zero.
func (in *Interpreter) number(pos ast.Position, v Value) (float64, error) {
	switch v := v.(type) {
	case float64:
		return v, nil
	case nil:
		return 0, nil
	}
	return 0, in.errorf(pos, "expected a number, got %s", describe(v))
}

func (in *Interpreter) top() *frame {
	if len(in.frames) == 0 {
		return nil
	}
	return in.frames[len(in.frames)-1]
}

func (in *Interpreter) stack() []string {
	out := make([]string, 0, len(in.frames))
	for i := len(in.frames) - 1; i >= 0; i-- {
		out = append(out, in.frames[i].function)
	}
	return out
}

func (in *Interpreter) errorf(pos ast.Position, format string, args ...any) error {
	return &RuntimeError{Pos: pos, Msg: fmt.Sprintf(format, args...), Stack: in.stack()}
}

// wrap turns a plain error into a *RuntimeError, leaving runtime errors as
// they are.
func (in *Interpreter) wrap(pos ast.Position, err error) error {
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		return err
	}
	return in.errorf(pos, "%s", err)
}

func truthy(v Value) bool {
	switch v := v.(type) {
	case float64:
		return v != 0
	case string:
		return v != ""
	}
	return false
}

func boolValue(b bool) Value {
	if b {
		return float64(1)
	}
	return float64(0)
}

func describe(v Value) string {
	switch v.(type) {
	case string:
		return "string"
	case float64:
		return "number"
	case nil:
		return "nothing"
	}
	return fmt.Sprintf("%T", v)
}

// FormatValue renders a value the way Print shows it. Whole numbers print
// without a fraction.
func FormatValue(v Value) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
