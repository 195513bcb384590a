package ast

import (
	"fmt"
	"strings"
)

// Dump renders node as a single-line S-expression, e.g. `(binary "+" 1 2)`.
// It is used by parser fixtures and the CLI's debug output.
func Dump(node Node) string {
	var b strings.Builder
	dump(&b, node)
	return b.String()
}

// DumpAll renders a declaration list, one declaration per line.
func DumpAll(decls []Declaration) string {
	lines := make([]string, len(decls))
	for i, d := range decls {
		lines[i] = Dump(d)
	}
	return strings.Join(lines, "\n")
}

func dump(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		b.WriteString("nil")

	case *FunctionDecl:
		fmt.Fprintf(b, "(func %s %s (params", n.ReturnType, n.Name)
		for _, p := range n.Params {
			b.WriteByte(' ')
			dump(b, p)
		}
		b.WriteString(")")
		dumpBody(b, n.Body)
		b.WriteString(")")
	case *VarDecl:
		fmt.Fprintf(b, "(var %s %s", n.TypeName, n.Name)
		dumpSize(b, n.ArraySize)
		b.WriteString(")")
	case *ConstDecl:
		fmt.Fprintf(b, "(const %s %s", n.TypeName, n.Name)
		dumpSize(b, n.ArraySize)
		b.WriteByte(' ')
		dumpExpr(b, n.Value)
		b.WriteString(")")
	case *InstanceDecl:
		fmt.Fprintf(b, "(instance %s %s", n.Name, n.BaseClass)
		if n.HasBody {
			dumpBody(b, n.Body)
		}
		b.WriteString(")")
	case *PrototypeDecl:
		fmt.Fprintf(b, "(prototype %s %s", n.Name, n.BaseClass)
		dumpBody(b, n.Body)
		b.WriteString(")")
	case *ClassDecl:
		fmt.Fprintf(b, "(class %s", n.Name)
		for _, m := range n.Members {
			b.WriteByte(' ')
			dump(b, m)
		}
		b.WriteString(")")
	case *MultiDecl:
		b.WriteString("(multi")
		for _, d := range n.Decls {
			b.WriteByte(' ')
			dump(b, d)
		}
		b.WriteString(")")

	case *AssignStmt:
		fmt.Fprintf(b, "(assign %q ", n.Op)
		dumpExpr(b, n.Left)
		b.WriteByte(' ')
		dumpExpr(b, n.Right)
		b.WriteString(")")
	case *ExprStmt:
		b.WriteString("(expr ")
		dumpExpr(b, n.X)
		b.WriteString(")")
	case *IfStmt:
		b.WriteString("(if ")
		dumpExpr(b, n.Cond)
		b.WriteString(" (then")
		dumpStmts(b, n.Then)
		b.WriteString(")")
		if n.Else != nil {
			b.WriteString(" (else")
			dumpStmts(b, n.Else)
			b.WriteString(")")
		}
		b.WriteString(")")
	case *ReturnStmt:
		b.WriteString("(return")
		if n.Value != nil {
			b.WriteByte(' ')
			dumpExpr(b, n.Value)
		}
		b.WriteString(")")
	case *VarDeclStmt:
		b.WriteString("(local")
		for _, d := range n.Decls {
			b.WriteByte(' ')
			dump(b, d)
		}
		b.WriteString(")")

	case *Literal:
		b.WriteString(n.Text)
	case *Ident:
		b.WriteString(n.Name)
	case *UnaryExpr:
		fmt.Fprintf(b, "(unary %q ", n.Op)
		dumpExpr(b, n.Operand)
		b.WriteString(")")
	case *BinaryExpr:
		fmt.Fprintf(b, "(binary %q ", n.Op)
		dumpExpr(b, n.Left)
		b.WriteByte(' ')
		dumpExpr(b, n.Right)
		b.WriteString(")")
	case *IndexExpr:
		b.WriteString("(index ")
		dumpExpr(b, n.Target)
		b.WriteByte(' ')
		dumpExpr(b, n.Index)
		b.WriteString(")")
	case *MemberExpr:
		b.WriteString("(member ")
		dumpExpr(b, n.Object)
		fmt.Fprintf(b, " %s)", n.Name)
	case *CallExpr:
		fmt.Fprintf(b, "(call %s", n.Callee)
		for _, a := range n.Args {
			b.WriteByte(' ')
			dumpExpr(b, a)
		}
		b.WriteString(")")
	case *ArrayLiteral:
		b.WriteString("(array")
		for _, e := range n.Elements {
			b.WriteByte(' ')
			dumpExpr(b, e)
		}
		b.WriteString(")")

	default:
		fmt.Fprintf(b, "(? %T)", n)
	}
}

func dumpExpr(b *strings.Builder, e Expression) {
	if e == nil {
		b.WriteString("nil")
		return
	}
	dump(b, e)
}

func dumpSize(b *strings.Builder, size Expression) {
	if size == nil {
		return
	}
	b.WriteString(" [")
	dump(b, size)
	b.WriteString("]")
}

func dumpBody(b *strings.Builder, body []Statement) {
	b.WriteString(" (body")
	dumpStmts(b, body)
	b.WriteString(")")
}

func dumpStmts(b *strings.Builder, stmts []Statement) {
	for _, s := range stmts {
		b.WriteByte(' ')
		dump(b, s)
	}
}
