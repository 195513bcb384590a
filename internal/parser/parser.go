// Package parser implements a recursive-descent parser for Daedalus.
//
// Every sub-parser returns (node, error). The top-level loop collects the
// errors, resynchronizes at the next declaration boundary and keeps going,
// so Parse always returns whatever declarations it could recover.
package parser

import (
	"fmt"

	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
	"github.com/CWBudde/go-daedalus-lsp/internal/token"
)

// DefaultFuel is the number of stalled top-level iterations tolerated before
// the parser force-advances by one token.
const DefaultFuel = 3

// Error is a syntax error at a token position.
type Error struct {
	Line     int
	Column   int
	Expected string
	Found    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: expected %s, found %s", e.Line, e.Column, e.Expected, e.Found)
}

// Parse parses a token stream into top-level declarations. It never panics
// and never gives up: malformed regions are reported and skipped.
func Parse(tokens []token.Token) ([]ast.Declaration, []*Error) {
	p := newParser(tokens)
	decls := p.parseDeclarations(DefaultFuel)
	return decls, p.errors
}

// ParseExpression parses tokens as a single expression. Trailing tokens
// other than an optional ';' are an error.
func ParseExpression(tokens []token.Token) (ast.Expression, error) {
	p := newParser(tokens)

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.at(token.Semicolon) {
		p.advance()
	}
	if !p.atEnd() {
		return nil, p.errorf("end of expression")
	}
	return expr, nil
}

type parser struct {
	tokens []token.Token
	pos    int
	errors []*Error

	// recovering suppresses repeated "expected declaration" reports while
	// the parser skips over the remains of a broken declaration.
	recovering bool
}

func newParser(tokens []token.Token) *parser {
	toks := make([]token.Token, 0, len(tokens)+1)
	for _, tok := range tokens {
		if tok.Kind == token.Comment {
			continue
		}
		toks = append(toks, tok)
	}
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		eof := token.Token{Kind: token.EOF}
		if len(toks) > 0 {
			eof.Line = toks[len(toks)-1].Line
		}
		toks = append(toks, eof)
	}
	return &parser{tokens: toks}
}

// parseDeclarations is the recovery loop. fuel bounds the number of
// consecutive iterations that may end without consuming a token.
func (p *parser) parseDeclarations(fuel int) []ast.Declaration {
	var decls []ast.Declaration

	remaining := fuel
	for !p.atEnd() {
		start := p.pos

		decl, err := p.parseDeclaration()
		switch {
		case err != nil:
			p.report(err)
			p.synchronize()
		case decl != nil:
			decls = append(decls, decl)
			p.recovering = false
		}

		if p.pos > start {
			remaining = fuel
			continue
		}
		remaining--
		if remaining <= 0 {
			p.advance()
			remaining = fuel
		}
	}

	return decls
}

func (p *parser) report(err error) {
	perr, ok := err.(*Error)
	if !ok {
		perr = &Error{Line: p.cur().Line, Column: p.cur().Column, Expected: err.Error(), Found: describe(p.cur())}
	}
	if p.recovering && perr.Expected == expectDeclaration {
		return
	}
	p.errors = append(p.errors, perr)
	p.recovering = true
}

// synchronize advances past the current token, then stops after a ';' or
// before a token that starts a top-level declaration.
func (p *parser) synchronize() {
	if p.atEnd() {
		return
	}
	prev := p.advance()
	for !p.atEnd() {
		if prev.Kind == token.Semicolon || p.cur().Kind.IsTopLevelStart() {
			return
		}
		prev = p.advance()
	}
}

// ---------------------------------------------------------------------------
// Token cursor

func (p *parser) cur() token.Token {
	return p.peek(0)
}

func (p *parser) peek(offset int) token.Token {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *parser) at(kind token.Kind) bool {
	return p.cur().Kind == kind
}

func (p *parser) atEnd() bool {
	return p.at(token.EOF)
}

func (p *parser) advance() token.Token {
	tok := p.cur()
	if !p.atEnd() {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind token.Kind, what string) (token.Token, error) {
	if !p.at(kind) {
		return token.Token{}, p.errorf(what)
	}
	return p.advance(), nil
}

// skip consumes an optional token of the given kind.
func (p *parser) skip(kind token.Kind) {
	if p.at(kind) {
		p.advance()
	}
}

func (p *parser) errorf(expected string) *Error {
	tok := p.cur()
	return &Error{
		Line:     tok.Line,
		Column:   tok.Column,
		Expected: expected,
		Found:    describe(tok),
	}
}

const endOfFile = "end of file"

func describe(tok token.Token) string {
	if tok.Kind == token.EOF {
		return endOfFile
	}
	return fmt.Sprintf("%q", tok.Text)
}
