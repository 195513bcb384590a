package server

import (
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SemanticToken is a classified source range in LSP coordinates.
type SemanticToken struct {
	Line      uint32 // 0-based line number
	StartChar uint32 // 0-based start character (UTF-16)
	Length    uint32 // Token length (UTF-16)
	TokenType uint32 // Index into legend.TokenTypes
	Modifiers uint32 // Bit flags for modifiers
}

// SemanticTokensLegend defines the token types and modifiers used by the server.
// The legend must remain consistent across all requests to ensure proper highlighting.
type SemanticTokensLegend struct {
	TokenTypes     []string
	TokenModifiers []string
}

// Token types, in legend order.
const (
	TokenTypeKeyword    = "keyword"
	TokenTypeType       = "type"
	TokenTypeClass      = "class"
	TokenTypeFunction   = "function"
	TokenTypeVariable   = "variable"
	TokenTypeParameter  = "parameter"
	TokenTypeEnumMember = "enumMember"
	TokenTypeString     = "string"
	TokenTypeNumber     = "number"
	TokenTypeComment    = "comment"
	TokenTypeOperator   = "operator"
)

// Token modifiers, in bit order.
const (
	TokenModifierDeclaration    = "declaration"
	TokenModifierReadonly       = "readonly"
	TokenModifierDefaultLibrary = "defaultLibrary"
	TokenModifierModification   = "modification"
)

// NewSemanticTokensLegend creates the Daedalus legend. Engine constants are
// enum members and engine functions carry the defaultLibrary modifier.
func NewSemanticTokensLegend() *SemanticTokensLegend {
	return &SemanticTokensLegend{
		TokenTypes: []string{
			TokenTypeKeyword,
			TokenTypeType,
			TokenTypeClass,
			TokenTypeFunction,
			TokenTypeVariable,
			TokenTypeParameter,
			TokenTypeEnumMember,
			TokenTypeString,
			TokenTypeNumber,
			TokenTypeComment,
			TokenTypeOperator,
		},
		TokenModifiers: []string{
			TokenModifierDeclaration,
			TokenModifierReadonly,
			TokenModifierDefaultLibrary,
			TokenModifierModification,
		},
	}
}

// ToProtocolLegend converts the legend to the LSP protocol format.
func (l *SemanticTokensLegend) ToProtocolLegend() protocol.SemanticTokensLegend {
	return protocol.SemanticTokensLegend{
		TokenTypes:     l.TokenTypes,
		TokenModifiers: l.TokenModifiers,
	}
}

// GetTokenTypeIndex returns the index of a token type in the legend.
// Returns -1 if the token type is not found.
func (l *SemanticTokensLegend) GetTokenTypeIndex(tokenType string) int {
	for i, t := range l.TokenTypes {
		if t == tokenType {
			return i
		}
	}
	return -1
}

// GetModifierMask returns the bit mask for the given modifiers.
func (l *SemanticTokensLegend) GetModifierMask(modifiers ...string) uint32 {
	var mask uint32
	for _, modifier := range modifiers {
		for i, m := range l.TokenModifiers {
			if m == modifier {
				mask |= 1 << uint32(i)
				break
			}
		}
	}
	return mask
}
