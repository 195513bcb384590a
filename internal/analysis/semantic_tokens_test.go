package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CWBudde/go-daedalus-lsp/internal/server"
)

func tokenAt(tokens []server.SemanticToken, line, char uint32) (server.SemanticToken, bool) {
	for _, tok := range tokens {
		if tok.Line == line && tok.StartChar == char {
			return tok, true
		}
	}
	return server.SemanticToken{}, false
}

func TestCollectSemanticTokens(t *testing.T) {
	legend := server.NewSemanticTokensLegend()
	doc := newDocument(t, `func void F(var int a) { a = 2; Print("x"); }; // c`)

	tokens := CollectSemanticTokens(doc, legend)
	require.NotEmpty(t, tokens)

	typeOf := func(name string) uint32 {
		return uint32(legend.GetTokenTypeIndex(name))
	}

	tests := []struct {
		name      string
		char      uint32
		length    uint32
		tokenType string
		modifiers []string
	}{
		{"func keyword", 0, 4, server.TokenTypeKeyword, nil},
		{"return type", 5, 4, server.TokenTypeType, nil},
		{"function name", 10, 1, server.TokenTypeFunction, nil},
		{"parameter", 20, 1, server.TokenTypeParameter, []string{server.TokenModifierDeclaration}},
		{"assigned parameter", 25, 1, server.TokenTypeParameter, []string{server.TokenModifierModification}},
		{"operator", 27, 1, server.TokenTypeOperator, nil},
		{"number", 29, 1, server.TokenTypeNumber, nil},
		{"engine call", 32, 5, server.TokenTypeFunction, []string{server.TokenModifierDefaultLibrary}},
		{"string", 38, 3, server.TokenTypeString, nil},
		{"comment", 47, 4, server.TokenTypeComment, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, ok := tokenAt(tokens, 0, tt.char)
			require.True(t, ok, "no token at %d", tt.char)
			assert.Equal(t, tt.length, tok.Length)
			assert.Equal(t, typeOf(tt.tokenType), tok.TokenType)
			assert.Equal(t, legend.GetModifierMask(tt.modifiers...), tok.Modifiers)
		})
	}

	// Punctuation is not classified.
	_, ok := tokenAt(tokens, 0, 11)
	assert.False(t, ok)
}

func TestCollectSemanticTokens_Declarations(t *testing.T) {
	legend := server.NewSemanticTokensLegend()
	doc := newDocument(t, "class C_Thing { var int v; };\nconst int MAX = 3;\ninstance T (C_Thing) { v = MAX; };")

	tokens := CollectSemanticTokens(doc, legend)

	base, ok := tokenAt(tokens, 2, 12)
	require.True(t, ok)
	assert.Equal(t, uint32(legend.GetTokenTypeIndex(server.TokenTypeClass)), base.TokenType)

	use, ok := tokenAt(tokens, 2, 27)
	require.True(t, ok)
	assert.Equal(t, uint32(legend.GetTokenTypeIndex(server.TokenTypeVariable)), use.TokenType)
	assert.Equal(t, legend.GetModifierMask(server.TokenModifierReadonly), use.Modifiers)
}

func TestCollectSemanticTokens_Nil(t *testing.T) {
	assert.Nil(t, CollectSemanticTokens(nil, server.NewSemanticTokensLegend()))
	assert.Nil(t, CollectSemanticTokens(&server.Document{}, nil))
}

func TestEncodeSemanticTokens(t *testing.T) {
	tokens := []server.SemanticToken{
		{Line: 0, StartChar: 0, Length: 4, TokenType: 0, Modifiers: 0},
		{Line: 0, StartChar: 10, Length: 1, TokenType: 3, Modifiers: 1},
		{Line: 2, StartChar: 4, Length: 3, TokenType: 4, Modifiers: 0},
	}

	assert.Equal(t, []uint32{
		0, 0, 4, 0, 0,
		0, 10, 1, 3, 1,
		2, 4, 3, 4, 0,
	}, EncodeSemanticTokens(tokens))
	assert.Equal(t, []uint32{}, EncodeSemanticTokens(nil))
}
