// Package token defines the Daedalus token model and the static lookup tables
// the lexer classifies identifiers with.
package token

import "fmt"

// Kind identifies the category of a token.
type Kind int

const (
	// Special
	EOF Kind = iota
	Unknown
	Comment

	// Literals
	IntegerLiteral
	FloatLiteral
	StringLiteral
	BoolLiteral

	// Names
	Identifier
	FunctionName // name following `func TYPE`
	VariableName // name following `var TYPE` or `const TYPE`
	Special      // self, other, hero, slf

	// Structural keywords
	Func
	Var
	Const
	If
	Else
	Return
	Instance
	Class
	Prototype

	// TypeKeyword covers int, float, string, void and retagged func/instance.
	TypeKeyword

	// Operators
	Assign
	PlusAssign
	MinusAssign
	StarAssign
	SlashAssign
	Eq
	NotEq
	Less
	LessEq
	Greater
	GreaterEq
	AndAnd
	OrOr
	Plus
	Minus
	Star
	Slash
	Percent
	Bang
	Tilde
	Amp
	Pipe
	Caret
	ShiftLeft
	ShiftRight

	// Brackets and punctuation
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Semicolon
	Comma
	Dot

	// Engine API constants
	GuildConstant
	AttributeConstant
	AIVariable
	FightAIConstant
	TalentConstant
	NpcConstant
	PerceptionConstant
	ItemConstant
	LogConstant

	// Engine API function families
	NpcFunction
	AIFunction
	WorldFunction
	BehaviorFunction
	ModelFunction
	HelperFunction
	InfoFunction
	LogFunction
	DocFunction
	SoundFunction
	MobFunction
	StateFunction
	RoutineFunction
	PrintFunction

	kindCount
)

var kindNames = [...]string{
	EOF:                "EOF",
	Unknown:            "Unknown",
	Comment:            "Comment",
	IntegerLiteral:     "IntegerLiteral",
	FloatLiteral:       "FloatLiteral",
	StringLiteral:      "StringLiteral",
	BoolLiteral:        "BoolLiteral",
	Identifier:         "Identifier",
	FunctionName:       "FunctionName",
	VariableName:       "VariableName",
	Special:            "Special",
	Func:               "Func",
	Var:                "Var",
	Const:              "Const",
	If:                 "If",
	Else:               "Else",
	Return:             "Return",
	Instance:           "Instance",
	Class:              "Class",
	Prototype:          "Prototype",
	TypeKeyword:        "TypeKeyword",
	Assign:             "Assign",
	PlusAssign:         "PlusAssign",
	MinusAssign:        "MinusAssign",
	StarAssign:         "StarAssign",
	SlashAssign:        "SlashAssign",
	Eq:                 "Eq",
	NotEq:              "NotEq",
	Less:               "Less",
	LessEq:             "LessEq",
	Greater:            "Greater",
	GreaterEq:          "GreaterEq",
	AndAnd:             "AndAnd",
	OrOr:               "OrOr",
	Plus:               "Plus",
	Minus:              "Minus",
	Star:               "Star",
	Slash:              "Slash",
	Percent:            "Percent",
	Bang:               "Bang",
	Tilde:              "Tilde",
	Amp:                "Amp",
	Pipe:               "Pipe",
	Caret:              "Caret",
	ShiftLeft:          "ShiftLeft",
	ShiftRight:         "ShiftRight",
	LParen:             "LParen",
	RParen:             "RParen",
	LBrace:             "LBrace",
	RBrace:             "RBrace",
	LBracket:           "LBracket",
	RBracket:           "RBracket",
	Semicolon:          "Semicolon",
	Comma:              "Comma",
	Dot:                "Dot",
	GuildConstant:      "GuildConstant",
	AttributeConstant:  "AttributeConstant",
	AIVariable:         "AIVariable",
	FightAIConstant:    "FightAIConstant",
	TalentConstant:     "TalentConstant",
	NpcConstant:        "NpcConstant",
	PerceptionConstant: "PerceptionConstant",
	ItemConstant:       "ItemConstant",
	LogConstant:        "LogConstant",
	NpcFunction:        "NpcFunction",
	AIFunction:         "AIFunction",
	WorldFunction:      "WorldFunction",
	BehaviorFunction:   "BehaviorFunction",
	ModelFunction:      "ModelFunction",
	HelperFunction:     "HelperFunction",
	InfoFunction:       "InfoFunction",
	LogFunction:        "LogFunction",
	DocFunction:        "DocFunction",
	SoundFunction:      "SoundFunction",
	MobFunction:        "MobFunction",
	StateFunction:      "StateFunction",
	RoutineFunction:    "RoutineFunction",
	PrintFunction:      "PrintFunction",
}

func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a single lexical token. Line and Column are 1-based; the EOF token
// carries the total line count and column 0.
type Token struct {
	Kind   Kind
	Text   string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Text, t.Line, t.Column)
}

// IsKeyword reports whether k is a structural or type keyword.
func (k Kind) IsKeyword() bool {
	return k >= Func && k <= TypeKeyword
}

// IsLiteral reports whether k is a literal kind.
func (k Kind) IsLiteral() bool {
	return k >= IntegerLiteral && k <= BoolLiteral
}

// IsEngineAPI reports whether k was derived from an engine-API prefix.
func (k Kind) IsEngineAPI() bool {
	return k >= GuildConstant && k <= PrintFunction
}

// IsEngineFunction reports whether k is one of the builtin function families.
func (k Kind) IsEngineFunction() bool {
	return k >= NpcFunction && k <= PrintFunction
}

// IsEngineConstant reports whether k is one of the engine constant families.
func (k Kind) IsEngineConstant() bool {
	return k >= GuildConstant && k <= LogConstant
}

// IsNameLike reports whether a token of kind k can stand where an identifier
// is expected.
func (k Kind) IsNameLike() bool {
	switch k {
	case Identifier, FunctionName, VariableName, Special:
		return true
	}
	return k.IsEngineAPI()
}

// IsTopLevelStart reports whether k begins a top-level declaration.
func (k Kind) IsTopLevelStart() bool {
	switch k {
	case Func, Instance, Prototype, Const, Var, Class:
		return true
	}
	return false
}

// IsAssignOp reports whether k is `=` or one of the compound assignments.
func (k Kind) IsAssignOp() bool {
	switch k {
	case Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign:
		return true
	}
	return false
}
