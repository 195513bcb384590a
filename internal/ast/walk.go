package ast

// Inspect traverses the tree rooted at node in depth-first order. If fn
// returns false, the children of that node are skipped.
func Inspect(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *FunctionDecl:
		for _, p := range n.Params {
			Inspect(p, fn)
		}
		inspectStmts(n.Body, fn)
	case *VarDecl:
		inspectExpr(n.ArraySize, fn)
	case *ConstDecl:
		inspectExpr(n.ArraySize, fn)
		inspectExpr(n.Value, fn)
	case *InstanceDecl:
		inspectStmts(n.Body, fn)
	case *PrototypeDecl:
		inspectStmts(n.Body, fn)
	case *ClassDecl:
		for _, m := range n.Members {
			Inspect(m, fn)
		}
	case *MultiDecl:
		for _, d := range n.Decls {
			Inspect(d, fn)
		}

	case *AssignStmt:
		inspectExpr(n.Left, fn)
		inspectExpr(n.Right, fn)
	case *ExprStmt:
		inspectExpr(n.X, fn)
	case *IfStmt:
		inspectExpr(n.Cond, fn)
		inspectStmts(n.Then, fn)
		inspectStmts(n.Else, fn)
	case *ReturnStmt:
		inspectExpr(n.Value, fn)
	case *VarDeclStmt:
		for _, d := range n.Decls {
			Inspect(d, fn)
		}

	case *UnaryExpr:
		inspectExpr(n.Operand, fn)
	case *BinaryExpr:
		inspectExpr(n.Left, fn)
		inspectExpr(n.Right, fn)
	case *IndexExpr:
		inspectExpr(n.Target, fn)
		inspectExpr(n.Index, fn)
	case *MemberExpr:
		inspectExpr(n.Object, fn)
	case *CallExpr:
		for _, a := range n.Args {
			inspectExpr(a, fn)
		}
	case *ArrayLiteral:
		for _, e := range n.Elements {
			inspectExpr(e, fn)
		}
	}
}

func inspectStmts(stmts []Statement, fn func(Node) bool) {
	for _, s := range stmts {
		Inspect(s, fn)
	}
}

// inspectExpr guards against typed nil expressions stored in optional fields.
func inspectExpr(e Expression, fn func(Node) bool) {
	if e == nil {
		return
	}
	Inspect(e, fn)
}

// Flatten expands grouped declarations so each name stands alone.
func Flatten(decls []Declaration) []Declaration {
	out := make([]Declaration, 0, len(decls))
	for _, d := range decls {
		if multi, ok := d.(*MultiDecl); ok {
			out = append(out, Flatten(multi.Decls)...)
			continue
		}
		out = append(out, d)
	}
	return out
}

// SetFile stamps path onto every declaration, including grouped members and
// the locals declared inside bodies.
func SetFile(decls []Declaration, path string) {
	for _, d := range decls {
		Inspect(d, func(n Node) bool {
			if decl, ok := n.(Declaration); ok {
				decl.SetFile(path)
			}
			return true
		})
	}
}

// Locals returns the declarations made by VarDeclStmts anywhere in body,
// flattened, in source order.
func Locals(body []Statement) []Declaration {
	var out []Declaration
	for _, s := range body {
		Inspect(s, func(n Node) bool {
			if vs, ok := n.(*VarDeclStmt); ok {
				out = append(out, Flatten(vs.Decls)...)
				return false
			}
			return true
		})
	}
	return out
}

// Body returns the statement list of declarations that carry one.
func Body(d Declaration) []Statement {
	switch d := d.(type) {
	case *FunctionDecl:
		return d.Body
	case *InstanceDecl:
		return d.Body
	case *PrototypeDecl:
		return d.Body
	}
	return nil
}
