package analysis

import (
	"sort"
	"strings"

	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
	"github.com/CWBudde/go-daedalus-lsp/internal/builtins"
	"github.com/CWBudde/go-daedalus-lsp/internal/document"
	"github.com/CWBudde/go-daedalus-lsp/internal/lint"
	"github.com/CWBudde/go-daedalus-lsp/internal/server"
	"github.com/CWBudde/go-daedalus-lsp/internal/token"
)

type classification struct {
	tokenType string
	modifiers []string
}

// CollectSemanticTokens classifies the document's tokens. Lexer kinds decide
// the base type; declarations in the file refine identifiers and linter
// highlights add declaration and modification modifiers.
func CollectSemanticTokens(doc *server.Document, legend *server.SemanticTokensLegend) []server.SemanticToken {
	if doc == nil || legend == nil {
		return nil
	}

	names := declaredNames(doc.Declarations)
	highlights := make(map[ast.Position]lint.Category, len(doc.Highlights))
	for _, h := range doc.Highlights {
		highlights[ast.Position{Line: h.Line, Column: h.Column}] = h.Category
	}

	tokens := make([]server.SemanticToken, 0, len(doc.Tokens))
	for _, tok := range doc.Tokens {
		if tok.Kind == token.EOF || tok.Line < 1 || tok.Line > len(doc.Lines) {
			continue
		}
		c, ok := classify(tok, names)
		if !ok {
			continue
		}
		if cat, ok := highlights[ast.Position{Line: tok.Line, Column: tok.Column}]; ok {
			c = refine(c, cat)
		}

		typeIndex := legend.GetTokenTypeIndex(c.tokenType)
		if typeIndex < 0 {
			continue
		}
		line := doc.Lines[tok.Line-1]
		tokens = append(tokens, server.SemanticToken{
			Line:      uint32(tok.Line - 1),
			StartChar: document.RuneToUTF16(line, tok.Column),
			Length:    uint32(document.UTF16Len(tok.Text)),
			TokenType: uint32(typeIndex),
			Modifiers: legend.GetModifierMask(c.modifiers...),
		})
	}

	sort.SliceStable(tokens, func(i, j int) bool {
		if tokens[i].Line != tokens[j].Line {
			return tokens[i].Line < tokens[j].Line
		}
		return tokens[i].StartChar < tokens[j].StartChar
	})

	return tokens
}

func classify(tok token.Token, names map[string]classification) (classification, bool) {
	switch {
	case tok.Kind == token.Comment:
		return classification{tokenType: server.TokenTypeComment}, true
	case tok.Kind == token.StringLiteral:
		return classification{tokenType: server.TokenTypeString}, true
	case tok.Kind == token.IntegerLiteral, tok.Kind == token.FloatLiteral:
		return classification{tokenType: server.TokenTypeNumber}, true
	case tok.Kind == token.BoolLiteral:
		return classification{tokenType: server.TokenTypeKeyword}, true
	case tok.Kind == token.TypeKeyword:
		return classification{tokenType: server.TokenTypeType}, true
	case tok.Kind.IsKeyword():
		return classification{tokenType: server.TokenTypeKeyword}, true
	case tok.Kind >= token.Assign && tok.Kind <= token.ShiftRight:
		return classification{tokenType: server.TokenTypeOperator}, true
	case tok.Kind.IsEngineConstant():
		return classification{
			tokenType: server.TokenTypeEnumMember,
			modifiers: []string{server.TokenModifierReadonly, server.TokenModifierDefaultLibrary},
		}, true
	case tok.Kind.IsEngineFunction():
		return classification{
			tokenType: server.TokenTypeFunction,
			modifiers: []string{server.TokenModifierDefaultLibrary},
		}, true
	case tok.Kind == token.Special:
		return classification{
			tokenType: server.TokenTypeVariable,
			modifiers: []string{server.TokenModifierDefaultLibrary},
		}, true
	case tok.Kind == token.FunctionName:
		return classification{tokenType: server.TokenTypeFunction}, true
	case tok.Kind.IsNameLike():
		if c, ok := names[strings.ToLower(tok.Text)]; ok {
			return c, true
		}
		return classification{tokenType: server.TokenTypeVariable}, true
	}
	return classification{}, false
}

func refine(c classification, cat lint.Category) classification {
	switch cat {
	case lint.Declaration:
		c.modifiers = append(c.modifiers[:len(c.modifiers):len(c.modifiers)], server.TokenModifierDeclaration)
	case lint.Assignment:
		c.modifiers = append(c.modifiers[:len(c.modifiers):len(c.modifiers)], server.TokenModifierModification)
	case lint.KnownCall, lint.UnknownCall:
		c.tokenType = server.TokenTypeFunction
	}
	return c
}

// declaredNames maps the lowercased names declared in a file to the
// classification their uses receive.
func declaredNames(decls []ast.Declaration) map[string]classification {
	names := make(map[string]classification)
	add := func(name string, c classification) {
		names[strings.ToLower(name)] = c
	}

	for _, d := range ast.Flatten(decls) {
		switch d := d.(type) {
		case *ast.FunctionDecl:
			add(d.Name, classification{tokenType: server.TokenTypeFunction})
			for _, p := range d.Params {
				if _, ok := names[strings.ToLower(p.Name)]; !ok {
					add(p.Name, classification{tokenType: server.TokenTypeParameter})
				}
			}
		case *ast.ClassDecl:
			add(d.Name, classification{tokenType: server.TokenTypeClass})
		case *ast.PrototypeDecl:
			add(d.Name, classification{tokenType: server.TokenTypeClass})
		case *ast.ConstDecl:
			add(d.Name, classification{
				tokenType: server.TokenTypeVariable,
				modifiers: []string{server.TokenModifierReadonly},
			})
		}
	}

	for _, name := range builtins.KnownFunctions() {
		if _, ok := names[strings.ToLower(name)]; !ok {
			add(name, classification{
				tokenType: server.TokenTypeFunction,
				modifiers: []string{server.TokenModifierDefaultLibrary},
			})
		}
	}

	return names
}

// EncodeSemanticTokens converts sorted tokens to the LSP relative encoding:
// five integers per token, [deltaLine, deltaStartChar, length, tokenType,
// tokenModifiers].
func EncodeSemanticTokens(tokens []server.SemanticToken) []uint32 {
	if len(tokens) == 0 {
		return []uint32{}
	}

	encoded := make([]uint32, 0, len(tokens)*5)
	var prevLine, prevChar uint32

	for _, tok := range tokens {
		deltaLine := tok.Line - prevLine
		deltaChar := tok.StartChar
		if deltaLine == 0 {
			deltaChar = tok.StartChar - prevChar
		}

		encoded = append(encoded,
			deltaLine,
			deltaChar,
			tok.Length,
			tok.TokenType,
			tok.Modifiers,
		)

		prevLine = tok.Line
		prevChar = tok.StartChar
	}

	return encoded
}
