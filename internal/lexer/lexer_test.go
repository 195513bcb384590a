package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CWBudde/go-daedalus-lsp/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenize_FloatBeforeInteger(t *testing.T) {
	toks := Tokenize([]string{"1.5"})

	require.Len(t, toks, 2)
	assert.Equal(t, token.FloatLiteral, toks[0].Kind)
	assert.Equal(t, "1.5", toks[0].Text)
	assert.Equal(t, token.EOF, toks[1].Kind)
}

func TestTokenize_Positions(t *testing.T) {
	toks := Tokenize([]string{"x = 10;"})

	tests := []struct {
		kind   token.Kind
		text   string
		line   int
		column int
	}{
		{token.Identifier, "x", 1, 1},
		{token.Assign, "=", 1, 3},
		{token.IntegerLiteral, "10", 1, 5},
		{token.Semicolon, ";", 1, 7},
		{token.EOF, "", 1, 0},
	}

	require.Len(t, toks, len(tests))

	for i, tt := range tests {
		if toks[i].Kind != tt.kind {
			t.Fatalf("tests[%d] - kind wrong. expected=%s, got=%s", i, tt.kind, toks[i].Kind)
		}
		if toks[i].Text != tt.text {
			t.Fatalf("tests[%d] - text wrong. expected=%q, got=%q", i, tt.text, toks[i].Text)
		}
		if toks[i].Line != tt.line || toks[i].Column != tt.column {
			t.Fatalf("tests[%d] - position wrong. expected=%d:%d, got=%d:%d",
				i, tt.line, tt.column, toks[i].Line, toks[i].Column)
		}
	}
}

func TestClassify_Prefixes(t *testing.T) {
	tests := []struct {
		word string
		want token.Kind
	}{
		{"Npc_IsDead", token.NpcFunction},
		{"GIL_NONE", token.GuildConstant},
		{"myCounter", token.Identifier},
		{"NPC_TALENT_1H", token.TalentConstant},
		{"NPC_FLAG_IMMORTAL", token.NpcConstant},
		{"AIV_PARTYMEMBER", token.AIVariable},
		{"AI_Output", token.AIFunction},
		{"Wld_InsertNpc", token.WorldFunction},
		{"B_GiveInvItems", token.BehaviorFunction},
		{"ATR_INDEX_MAX", token.Identifier},
		{"ATR_HITPOINTS", token.AttributeConstant},
		{"self", token.Special},
		{"Hero", token.Special},
		{"FUNC", token.Func},
		{"Void", token.TypeKeyword},
		{"TRUE", token.BoolLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.word))
		})
	}
}

func TestTokenize_Reclassification(t *testing.T) {
	t.Run("var func is a type", func(t *testing.T) {
		toks := Tokenize([]string{"var func mission;"})
		assert.Equal(t, []token.Kind{
			token.Var, token.TypeKeyword, token.VariableName, token.Semicolon, token.EOF,
		}, kinds(toks))
	})

	t.Run("function name", func(t *testing.T) {
		toks := Tokenize([]string{"func void Foo()"})
		assert.Equal(t, []token.Kind{
			token.Func, token.TypeKeyword, token.FunctionName, token.LParen, token.RParen, token.EOF,
		}, kinds(toks))
	})

	t.Run("class typed variable", func(t *testing.T) {
		toks := Tokenize([]string{"var C_NPC slave;"})
		assert.Equal(t, token.VariableName, toks[2].Kind)
	})

	t.Run("func instance", func(t *testing.T) {
		toks := Tokenize([]string{"func instance Make()"})
		assert.Equal(t, token.TypeKeyword, toks[1].Kind)
		assert.Equal(t, token.FunctionName, toks[2].Kind)
	})
}

func TestTokenize_BlockCommentAcrossLines(t *testing.T) {
	toks := Tokenize([]string{"a /* b", "c */ d"})

	require.Equal(t, []token.Kind{
		token.Identifier, token.Comment, token.Comment, token.Identifier, token.EOF,
	}, kinds(toks))
	assert.Equal(t, "/* b", toks[1].Text)
	assert.Equal(t, "c */", toks[2].Text)
	assert.Equal(t, 2, toks[3].Line)
	assert.Equal(t, 6, toks[3].Column)
	assert.Equal(t, 2, toks[4].Line)
	assert.Equal(t, 0, toks[4].Column)
}

func TestTokenize_LineComment(t *testing.T) {
	toks := Tokenize([]string{"x; // trailing = stuff"})

	require.Equal(t, []token.Kind{
		token.Identifier, token.Semicolon, token.Comment, token.EOF,
	}, kinds(toks))
	assert.Equal(t, "// trailing = stuff", toks[2].Text)
}

func TestTokenize_Operators(t *testing.T) {
	toks := Tokenize([]string{"a<=b && c != d || e += 1"})

	assert.Equal(t, []token.Kind{
		token.Identifier, token.LessEq, token.Identifier, token.AndAnd,
		token.Identifier, token.NotEq, token.Identifier, token.OrOr,
		token.Identifier, token.PlusAssign, token.IntegerLiteral, token.EOF,
	}, kinds(toks))
}

func TestTokenize_UnknownAndUnterminated(t *testing.T) {
	toks := Tokenize([]string{"x @ y", "\"open"})

	require.Equal(t, []token.Kind{
		token.Identifier, token.Unknown, token.Identifier, token.Unknown, token.EOF,
	}, kinds(toks))
	assert.Equal(t, "@", toks[1].Text)
	assert.Equal(t, "\"open", toks[3].Text)
}

func TestTokenize_StringLiteral(t *testing.T) {
	toks := Tokenize([]string{`name = "Hero";`})

	require.Len(t, toks, 5)
	assert.Equal(t, token.StringLiteral, toks[2].Kind)
	assert.Equal(t, `"Hero"`, toks[2].Text)
}

func TestTokenize_Deterministic(t *testing.T) {
	src := []string{
		"func int B_Check(var C_NPC slf) {",
		"  if (Npc_IsDead(slf)) { return 1.5; };",
		"  /* note */ return GIL_NONE;",
		"};",
	}

	assert.Equal(t, Tokenize(src), Tokenize(src))
}

func TestTokenize_Empty(t *testing.T) {
	toks := Tokenize(nil)

	require.Len(t, toks, 1)
	assert.Equal(t, token.Token{Kind: token.EOF, Line: 0, Column: 0}, toks[0])
}
