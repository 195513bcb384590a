// Package lexer turns Daedalus source lines into a flat token stream.
package lexer

import (
	"unicode"

	"github.com/CWBudde/go-daedalus-lsp/internal/token"
)

// Tokenize converts the given source lines into tokens. It never fails:
// characters it cannot place become Unknown tokens. The stream always ends
// with an EOF token positioned at (len(lines), 0).
func Tokenize(lines []string) []token.Token {
	l := &lexer{}
	for i, line := range lines {
		l.scanLine(i+1, []rune(line))
	}
	l.tokens = append(l.tokens, token.Token{Kind: token.EOF, Line: len(lines), Column: 0})

	reclassify(l.tokens)

	return l.tokens
}

// Classify returns the kind an identifier-shaped word lexes as, ignoring
// grammatical context.
func Classify(word string) token.Kind {
	if token.IsException(word) {
		return token.Identifier
	}
	if kind, ok := token.LookupPrefix(word); ok {
		return kind
	}
	if token.IsSpecial(word) {
		return token.Special
	}
	if kind, ok := token.LookupKeyword(word); ok {
		return kind
	}
	return token.Identifier
}

type lexer struct {
	tokens []token.Token

	// inBlockComment carries an unterminated /* across lines.
	inBlockComment bool
}

func (l *lexer) emit(kind token.Kind, text []rune, line, col int) {
	l.tokens = append(l.tokens, token.Token{
		Kind:   kind,
		Text:   string(text),
		Line:   line,
		Column: col,
	})
}

func (l *lexer) scanLine(line int, src []rune) {
	i := 0
	for i < len(src) {
		col := i + 1

		if l.inBlockComment {
			end := indexOf(src, i, "*/")
			if end < 0 {
				l.emit(token.Comment, src[i:], line, col)
				return
			}
			l.emit(token.Comment, src[i:end+2], line, col)
			l.inBlockComment = false
			i = end + 2
			continue
		}

		r := src[i]

		if hasPrefixAt(src, i, "//") {
			l.emit(token.Comment, src[i:], line, col)
			return
		}

		if hasPrefixAt(src, i, "/*") {
			end := indexOf(src, i+2, "*/")
			if end < 0 {
				l.emit(token.Comment, src[i:], line, col)
				l.inBlockComment = true
				return
			}
			l.emit(token.Comment, src[i:end+2], line, col)
			i = end + 2
			continue
		}

		if r == '"' {
			end := indexRune(src, i+1, '"')
			if end < 0 {
				l.emit(token.Unknown, src[i:], line, col)
				return
			}
			l.emit(token.StringLiteral, src[i:end+1], line, col)
			i = end + 1
			continue
		}

		// Floats must be tried before integers or 1.5 splits into 1 . 5.
		if n := matchFloat(src, i); n > 0 {
			l.emit(token.FloatLiteral, src[i:i+n], line, col)
			i += n
			continue
		}

		if n := matchDigits(src, i); n > 0 {
			l.emit(token.IntegerLiteral, src[i:i+n], line, col)
			i += n
			continue
		}

		if unicode.IsSpace(r) {
			i++
			continue
		}

		if i+1 < len(src) {
			if kind, ok := token.LookupTwoCharOperator(string(src[i : i+2])); ok {
				l.emit(kind, src[i:i+2], line, col)
				i += 2
				continue
			}
		}

		if r == '=' {
			l.emit(token.Assign, src[i:i+1], line, col)
			i++
			continue
		}

		if kind, ok := token.LookupOperator(r); ok {
			l.emit(kind, src[i:i+1], line, col)
			i++
			continue
		}

		if isIdentStart(r) {
			n := 1
			for i+n < len(src) && isIdentPart(src[i+n]) {
				n++
			}
			word := src[i : i+n]
			l.emit(Classify(string(word)), word, line, col)
			i += n
			continue
		}

		if kind, ok := token.LookupPunctuation(r); ok {
			l.emit(kind, src[i:i+1], line, col)
			i++
			continue
		}

		l.emit(token.Unknown, src[i:i+1], line, col)
		i++
	}
}

// reclassify fixes up sequences whose meaning depends on the preceding
// keyword: `var func x` declares a variable of type func, and the name after
// `func TYPE` is a function while the name after `var TYPE` is a variable.
func reclassify(toks []token.Token) {
	for i := 1; i < len(toks); i++ {
		prev := toks[i-1].Kind
		switch toks[i].Kind {
		case token.Func:
			if prev == token.Var {
				toks[i].Kind = token.TypeKeyword
			}
		case token.Instance:
			if prev == token.Var || prev == token.Func {
				toks[i].Kind = token.TypeKeyword
			}
		}
	}

	for i := 2; i < len(toks); i++ {
		if !toks[i].Kind.IsNameLike() {
			continue
		}
		typ := toks[i-1].Kind
		if typ != token.TypeKeyword && !typ.IsNameLike() {
			continue
		}
		switch toks[i-2].Kind {
		case token.Func:
			toks[i].Kind = token.FunctionName
		case token.Var, token.Const:
			toks[i].Kind = token.VariableName
		}
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func matchDigits(src []rune, i int) int {
	n := 0
	for i+n < len(src) && isDigit(src[i+n]) {
		n++
	}
	return n
}

// matchFloat matches digits '.' digits and returns the consumed length, or 0.
func matchFloat(src []rune, i int) int {
	whole := matchDigits(src, i)
	if whole == 0 || i+whole >= len(src) || src[i+whole] != '.' {
		return 0
	}
	frac := matchDigits(src, i+whole+1)
	if frac == 0 {
		return 0
	}
	return whole + 1 + frac
}

func hasPrefixAt(src []rune, i int, prefix string) bool {
	for _, p := range prefix {
		if i >= len(src) || src[i] != p {
			return false
		}
		i++
	}
	return true
}

func indexOf(src []rune, from int, needle string) int {
	for i := from; i < len(src); i++ {
		if hasPrefixAt(src, i, needle) {
			return i
		}
	}
	return -1
}

func indexRune(src []rune, from int, r rune) int {
	for i := from; i < len(src); i++ {
		if src[i] == r {
			return i
		}
	}
	return -1
}
