// Package ast defines the Daedalus syntax tree: closed sets of declaration,
// statement and expression nodes.
package ast

import (
	"fmt"
	"strings"

	"github.com/CWBudde/go-daedalus-lsp/internal/token"
)

// Position is a 1-based source location.
type Position struct {
	Line   int
	Column int
}

// IsValid reports whether the position points into a source file.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// PositionOf returns the position of tok.
func PositionOf(tok token.Token) Position {
	return Position{Line: tok.Line, Column: tok.Column}
}

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() Position
}

// Declaration is a top-level (or class member / local) declaration.
type Declaration interface {
	Node
	DeclName() string
	File() string
	SetFile(path string)
	declNode()
}

// Statement is a statement inside a function, instance or prototype body.
type Statement interface {
	Node
	stmtNode()
}

// Expression is an expression node.
type Expression interface {
	Node
	exprNode()
}

// origin carries the position and owning file shared by all declarations.
type origin struct {
	Position Position
	Path     string
}

func (o *origin) Pos() Position       { return o.Position }
func (o *origin) File() string        { return o.Path }
func (o *origin) SetFile(path string) { o.Path = path }
func (o *origin) declNode()           {}

func newOrigin(pos Position) origin { return origin{Position: pos} }

// ---------------------------------------------------------------------------
// Declarations

// FunctionDecl is `func TYPE NAME(params) { body }`.
type FunctionDecl struct {
	origin
	ReturnType string
	Name       string
	Params     []*VarDecl
	Body       []Statement
}

// NewFunctionDecl creates a function declaration at pos.
func NewFunctionDecl(pos Position, returnType, name string) *FunctionDecl {
	return &FunctionDecl{origin: newOrigin(pos), ReturnType: returnType, Name: name}
}

func (d *FunctionDecl) DeclName() string { return d.Name }

// ParamSignatures returns each parameter encoded as "var type name".
func (d *FunctionDecl) ParamSignatures() []string {
	out := make([]string, len(d.Params))
	for i, p := range d.Params {
		out[i] = "var " + p.TypeName + " " + p.Name
	}
	return out
}

// Signature renders the declaration head, e.g. `func int Foo(var int a)`.
func (d *FunctionDecl) Signature() string {
	return fmt.Sprintf("func %s %s(%s)", d.ReturnType, d.Name, strings.Join(d.ParamSignatures(), ", "))
}

// VarDecl is `var TYPE NAME[SIZE]`.
type VarDecl struct {
	origin
	TypeName  string
	Name      string
	ArraySize Expression
}

// NewVarDecl creates a variable declaration at pos.
func NewVarDecl(pos Position, typeName, name string) *VarDecl {
	return &VarDecl{origin: newOrigin(pos), TypeName: typeName, Name: name}
}

func (d *VarDecl) DeclName() string { return d.Name }

// ConstDecl is `const TYPE NAME[SIZE] = VALUE`.
type ConstDecl struct {
	origin
	TypeName  string
	Name      string
	ArraySize Expression
	Value     Expression
}

// NewConstDecl creates a constant declaration at pos.
func NewConstDecl(pos Position, typeName, name string) *ConstDecl {
	return &ConstDecl{origin: newOrigin(pos), TypeName: typeName, Name: name}
}

func (d *ConstDecl) DeclName() string { return d.Name }

// InstanceDecl is `instance NAME(BASE) { body }`. A forward declaration
// without a body has HasBody == false.
type InstanceDecl struct {
	origin
	Name      string
	BaseClass string
	Body      []Statement
	HasBody   bool
}

// NewInstanceDecl creates an instance declaration at pos.
func NewInstanceDecl(pos Position, name, base string) *InstanceDecl {
	return &InstanceDecl{origin: newOrigin(pos), Name: name, BaseClass: base}
}

func (d *InstanceDecl) DeclName() string { return d.Name }

// ClassDecl is `class NAME { var ...; }`.
type ClassDecl struct {
	origin
	Name    string
	Members []*VarDecl
}

// NewClassDecl creates a class declaration at pos.
func NewClassDecl(pos Position, name string) *ClassDecl {
	return &ClassDecl{origin: newOrigin(pos), Name: name}
}

func (d *ClassDecl) DeclName() string { return d.Name }

// Member looks up a class member case-insensitively.
func (d *ClassDecl) Member(name string) *VarDecl {
	for _, m := range d.Members {
		if strings.EqualFold(m.Name, name) {
			return m
		}
	}
	return nil
}

// PrototypeDecl is `prototype NAME(BASE) { body }`.
type PrototypeDecl struct {
	origin
	Name      string
	BaseClass string
	Body      []Statement
}

// NewPrototypeDecl creates a prototype declaration at pos.
func NewPrototypeDecl(pos Position, name, base string) *PrototypeDecl {
	return &PrototypeDecl{origin: newOrigin(pos), Name: name, BaseClass: base}
}

func (d *PrototypeDecl) DeclName() string { return d.Name }

// Signature renders `prototype NAME(BASE)`.
func (d *PrototypeDecl) Signature() string {
	return fmt.Sprintf("prototype %s(%s)", d.Name, d.BaseClass)
}

// MultiDecl groups the declarations of `var int a, b;` and friends until the
// compiler flattens them.
type MultiDecl struct {
	origin
	Decls []Declaration
}

// NewMultiDecl creates a grouped declaration at pos.
func NewMultiDecl(pos Position, decls []Declaration) *MultiDecl {
	return &MultiDecl{origin: newOrigin(pos), Decls: decls}
}

func (d *MultiDecl) DeclName() string {
	names := make([]string, len(d.Decls))
	for i, sub := range d.Decls {
		names[i] = sub.DeclName()
	}
	return strings.Join(names, ", ")
}

// SetFile stamps the group and every member.
func (d *MultiDecl) SetFile(path string) {
	d.Path = path
	for _, sub := range d.Decls {
		sub.SetFile(path)
	}
}

// ---------------------------------------------------------------------------
// Statements

type stmtBase struct {
	Position Position
}

func (s *stmtBase) Pos() Position { return s.Position }
func (s *stmtBase) stmtNode()     {}

// AssignStmt is `LEFT = RIGHT;`. Compound assignments are desugared by the
// parser so Right already contains the binary expression; Op keeps the
// operator as written.
type AssignStmt struct {
	stmtBase
	Left  Expression
	Op    string
	Right Expression
}

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	stmtBase
	X Expression
}

// IfStmt is `if COND { THEN } else { ELSE }`. An `else if` chain is an
// IfStmt as the sole Else statement.
type IfStmt struct {
	stmtBase
	Cond Expression
	Then []Statement
	Else []Statement
}

// ReturnStmt is `return [VALUE];`.
type ReturnStmt struct {
	stmtBase
	Value Expression
}

// VarDeclStmt declares locals inside a body.
type VarDeclStmt struct {
	stmtBase
	Decls []Declaration
}

// NewAssignStmt creates an assignment at pos.
func NewAssignStmt(pos Position, left Expression, op string, right Expression) *AssignStmt {
	return &AssignStmt{stmtBase: stmtBase{pos}, Left: left, Op: op, Right: right}
}

// NewExprStmt creates an expression statement.
func NewExprStmt(x Expression) *ExprStmt {
	return &ExprStmt{stmtBase: stmtBase{x.Pos()}, X: x}
}

// NewIfStmt creates an if statement at pos.
func NewIfStmt(pos Position, cond Expression, then, els []Statement) *IfStmt {
	return &IfStmt{stmtBase: stmtBase{pos}, Cond: cond, Then: then, Else: els}
}

// NewReturnStmt creates a return statement at pos; value may be nil.
func NewReturnStmt(pos Position, value Expression) *ReturnStmt {
	return &ReturnStmt{stmtBase: stmtBase{pos}, Value: value}
}

// NewVarDeclStmt creates a local declaration statement at pos.
func NewVarDeclStmt(pos Position, decls []Declaration) *VarDeclStmt {
	return &VarDeclStmt{stmtBase: stmtBase{pos}, Decls: decls}
}

// ---------------------------------------------------------------------------
// Expressions

type exprBase struct {
	Position Position
}

func (e *exprBase) Pos() Position { return e.Position }
func (e *exprBase) exprNode()     {}

// LiteralKind distinguishes literal shapes.
type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	FloatLiteral
	StringLiteral
	BoolLiteral
)

// Literal is a literal with its source text (strings keep their quotes,
// folded signs stay in the text).
type Literal struct {
	exprBase
	Kind LiteralKind
	Text string
}

// Ident is a variable reference.
type Ident struct {
	exprBase
	Name string
}

// UnaryExpr is `OP OPERAND`.
type UnaryExpr struct {
	exprBase
	Op      string
	Operand Expression
}

// BinaryExpr is `LEFT OP RIGHT`.
type BinaryExpr struct {
	exprBase
	Left  Expression
	Op    string
	Right Expression
}

// IndexExpr is `TARGET[INDEX]`.
type IndexExpr struct {
	exprBase
	Target Expression
	Index  Expression
}

// MemberExpr is `OBJECT.NAME`.
type MemberExpr struct {
	exprBase
	Object Expression
	Name   string
}

// CallExpr is `CALLEE(ARGS)`.
type CallExpr struct {
	exprBase
	Callee string
	Args   []Expression
}

// ArrayLiteral is `{a, b, c}` used to initialise constant arrays.
type ArrayLiteral struct {
	exprBase
	Elements []Expression
}

// NewLiteral creates a literal at pos.
func NewLiteral(pos Position, kind LiteralKind, text string) *Literal {
	return &Literal{exprBase: exprBase{pos}, Kind: kind, Text: text}
}

// NewIdent creates a variable reference at pos.
func NewIdent(pos Position, name string) *Ident {
	return &Ident{exprBase: exprBase{pos}, Name: name}
}

// NewUnaryExpr creates a unary expression at pos.
func NewUnaryExpr(pos Position, op string, operand Expression) *UnaryExpr {
	return &UnaryExpr{exprBase: exprBase{pos}, Op: op, Operand: operand}
}

// NewBinaryExpr creates a binary expression positioned at its left operand.
func NewBinaryExpr(left Expression, op string, right Expression) *BinaryExpr {
	return &BinaryExpr{exprBase: exprBase{left.Pos()}, Left: left, Op: op, Right: right}
}

// NewIndexExpr creates an index expression.
func NewIndexExpr(target, index Expression) *IndexExpr {
	return &IndexExpr{exprBase: exprBase{target.Pos()}, Target: target, Index: index}
}

// NewMemberExpr creates a member access.
func NewMemberExpr(object Expression, name string) *MemberExpr {
	return &MemberExpr{exprBase: exprBase{object.Pos()}, Object: object, Name: name}
}

// NewCallExpr creates a call at pos.
func NewCallExpr(pos Position, callee string, args []Expression) *CallExpr {
	return &CallExpr{exprBase: exprBase{pos}, Callee: callee, Args: args}
}

// NewArrayLiteral creates an array initialiser at pos.
func NewArrayLiteral(pos Position, elems []Expression) *ArrayLiteral {
	return &ArrayLiteral{exprBase: exprBase{pos}, Elements: elems}
}

// Unquote strips the surrounding quotes of a string literal's text.
func (l *Literal) Unquote() string {
	s := l.Text
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
