package parser

import (
	"strings"

	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
	"github.com/CWBudde/go-daedalus-lsp/internal/token"
)

// parseBlock parses `{ statements }`. Empty statements are skipped.
func (p *parser) parseBlock() ([]ast.Statement, error) {
	if _, err := p.expect(token.LBrace, "'{'"); err != nil {
		return nil, err
	}

	stmts := []ast.Statement{}
	for !p.at(token.RBrace) {
		if p.atEnd() {
			return nil, p.errorf("'}'")
		}
		if p.at(token.Semicolon) {
			p.advance()
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	p.advance()

	return stmts, nil
}

func (p *parser) parseStatement() (ast.Statement, error) {
	switch p.cur().Kind {
	case token.Var, token.Const:
		return p.parseLocalDecl()
	case token.If:
		return p.parseIf()
	case token.Return:
		return p.parseReturn()
	}
	return p.parseSimpleStatement()
}

func (p *parser) parseLocalDecl() (ast.Statement, error) {
	start := p.cur()

	var (
		decl ast.Declaration
		err  error
	)
	if start.Kind == token.Const {
		decl, err = p.parseConstDecl()
	} else {
		decl, err = p.parseVarDecl()
	}
	if err != nil {
		return nil, err
	}

	return ast.NewVarDeclStmt(ast.PositionOf(start), []ast.Declaration{decl}), nil
}

// if COND { ... } [else if ... | else { ... }] [;]
func (p *parser) parseIf() (ast.Statement, error) {
	kw := p.advance()

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var els []ast.Statement
	if p.at(token.Else) {
		p.advance()
		if p.at(token.If) {
			nested, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			els = []ast.Statement{nested}
		} else if els, err = p.parseBlock(); err != nil {
			return nil, err
		}
	}
	p.skip(token.Semicolon)

	return ast.NewIfStmt(ast.PositionOf(kw), cond, then, els), nil
}

// return [VALUE] ;
func (p *parser) parseReturn() (ast.Statement, error) {
	kw := p.advance()

	if p.at(token.Semicolon) {
		p.advance()
		return ast.NewReturnStmt(ast.PositionOf(kw), nil), nil
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon, "';'"); err != nil {
		return nil, err
	}
	return ast.NewReturnStmt(ast.PositionOf(kw), value), nil
}

// parseSimpleStatement parses an assignment or an expression statement. The
// left side is parsed speculatively; without an assignment operator after it
// the parser rewinds and reads the tokens again as an expression statement.
func (p *parser) parseSimpleStatement() (ast.Statement, error) {
	save := p.pos

	left, err := p.parseExpression()
	if err == nil && p.cur().Kind.IsAssignOp() {
		op := p.advance()

		right, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if op.Kind != token.Assign {
			right = ast.NewBinaryExpr(left, strings.TrimSuffix(op.Text, "="), right)
		}
		if _, err := p.expect(token.Semicolon, "';'"); err != nil {
			return nil, err
		}
		return ast.NewAssignStmt(left.Pos(), left, op.Text, right), nil
	}

	p.pos = save

	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon, "';'"); err != nil {
		return nil, err
	}
	return ast.NewExprStmt(x), nil
}
