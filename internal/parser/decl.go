package parser

import (
	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
	"github.com/CWBudde/go-daedalus-lsp/internal/token"
)

const expectDeclaration = "declaration"

func (p *parser) parseDeclaration() (ast.Declaration, error) {
	kind := p.cur().Kind
	if kind.IsTopLevelStart() {
		p.recovering = false
	}

	switch kind {
	case token.Func:
		return p.parseFunction()
	case token.Var:
		if p.isVarFunction() {
			return p.parseFunction()
		}
		return p.parseVarDecl()
	case token.Const:
		return p.parseConstDecl()
	case token.Instance:
		return p.parseInstance()
	case token.Prototype:
		return p.parsePrototype()
	case token.Class:
		return p.parseClass()
	case token.Semicolon:
		p.advance()
		return nil, nil
	}

	return nil, p.errorf(expectDeclaration)
}

// isVarFunction reports whether the tokens read `var TYPE NAME (`, a function
// declared with a leading var.
func (p *parser) isVarFunction() bool {
	return isType(p.peek(1).Kind) &&
		p.peek(2).Kind.IsNameLike() &&
		p.peek(3).Kind == token.LParen
}

func isType(kind token.Kind) bool {
	return kind == token.TypeKeyword || kind == token.Func || kind == token.Instance || kind.IsNameLike()
}

func (p *parser) parseType() (string, error) {
	if !isType(p.cur().Kind) {
		return "", p.errorf("type")
	}
	return p.advance().Text, nil
}

func (p *parser) parseName() (token.Token, error) {
	if !p.cur().Kind.IsNameLike() {
		return token.Token{}, p.errorf("identifier")
	}
	return p.advance(), nil
}

// func TYPE NAME ( [var TYPE NAME {, var TYPE NAME}] ) { body } [;]
func (p *parser) parseFunction() (ast.Declaration, error) {
	p.advance()

	retType, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}

	fn := ast.NewFunctionDecl(ast.PositionOf(name), retType, name.Text)

	if _, err := p.expect(token.LParen, "'('"); err != nil {
		return nil, err
	}
	for !p.at(token.RParen) {
		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, param)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	p.skip(token.Semicolon)

	return fn, nil
}

func (p *parser) parseParam() (*ast.VarDecl, error) {
	if _, err := p.expect(token.Var, "'var'"); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	param := ast.NewVarDecl(ast.PositionOf(name), typ, name.Text)
	if param.ArraySize, err = p.parseArraySize(); err != nil {
		return nil, err
	}
	return param, nil
}

// parseArraySize parses an optional `[expr]` suffix.
func (p *parser) parseArraySize() (ast.Expression, error) {
	if !p.at(token.LBracket) {
		return nil, nil
	}
	p.advance()
	size, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBracket, "']'"); err != nil {
		return nil, err
	}
	return size, nil
}

// var TYPE NAME[SIZE] {, NAME[SIZE]} ;
func (p *parser) parseVarDecl() (ast.Declaration, error) {
	kw := p.advance()

	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	var decls []ast.Declaration
	for {
		name, err := p.parseName()
		if err != nil {
			return nil, err
		}
		v := ast.NewVarDecl(ast.PositionOf(name), typ, name.Text)
		if v.ArraySize, err = p.parseArraySize(); err != nil {
			return nil, err
		}
		decls = append(decls, v)

		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}

	if _, err := p.expect(token.Semicolon, "';'"); err != nil {
		return nil, err
	}
	return group(kw, decls), nil
}

// const TYPE NAME[SIZE] = VALUE {, NAME[SIZE] = VALUE} ;
func (p *parser) parseConstDecl() (ast.Declaration, error) {
	kw := p.advance()

	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	var decls []ast.Declaration
	for {
		name, err := p.parseName()
		if err != nil {
			return nil, err
		}
		c := ast.NewConstDecl(ast.PositionOf(name), typ, name.Text)
		if c.ArraySize, err = p.parseArraySize(); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Assign, "'='"); err != nil {
			return nil, err
		}
		if c.Value, err = p.parseInitializer(); err != nil {
			return nil, err
		}
		decls = append(decls, c)

		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}

	if _, err := p.expect(token.Semicolon, "';'"); err != nil {
		return nil, err
	}
	return group(kw, decls), nil
}

// parseInitializer parses a constant value: an expression or `{a, b, ...}`.
func (p *parser) parseInitializer() (ast.Expression, error) {
	if !p.at(token.LBrace) {
		return p.parseExpression()
	}

	open := p.advance()
	var elems []ast.Expression
	for !p.at(token.RBrace) {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(token.RBrace, "'}'"); err != nil {
		return nil, err
	}
	return ast.NewArrayLiteral(ast.PositionOf(open), elems), nil
}

// instance NAME {, NAME} ( BASE ) ( { body } [;] | ; )
func (p *parser) parseInstance() (ast.Declaration, error) {
	kw := p.advance()

	var names []token.Token
	for {
		name, err := p.parseName()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}

	base, err := p.parseBase()
	if err != nil {
		return nil, err
	}

	var body []ast.Statement
	hasBody := p.at(token.LBrace)
	if hasBody {
		if body, err = p.parseBlock(); err != nil {
			return nil, err
		}
		p.skip(token.Semicolon)
	} else if _, err := p.expect(token.Semicolon, "'{' or ';'"); err != nil {
		return nil, err
	}

	decls := make([]ast.Declaration, len(names))
	for i, name := range names {
		inst := ast.NewInstanceDecl(ast.PositionOf(name), name.Text, base)
		inst.Body = body
		inst.HasBody = hasBody
		decls[i] = inst
	}
	return group(kw, decls), nil
}

// prototype NAME ( BASE ) { body } [;]
func (p *parser) parsePrototype() (ast.Declaration, error) {
	p.advance()

	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	base, err := p.parseBase()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	p.skip(token.Semicolon)

	proto := ast.NewPrototypeDecl(ast.PositionOf(name), name.Text, base)
	proto.Body = body
	return proto, nil
}

func (p *parser) parseBase() (string, error) {
	if _, err := p.expect(token.LParen, "'('"); err != nil {
		return "", err
	}
	base, err := p.parseName()
	if err != nil {
		return "", err
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return "", err
	}
	return base.Text, nil
}

// class NAME { var TYPE NAME; ... } [;]
func (p *parser) parseClass() (ast.Declaration, error) {
	p.advance()

	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	class := ast.NewClassDecl(ast.PositionOf(name), name.Text)

	if _, err := p.expect(token.LBrace, "'{'"); err != nil {
		return nil, err
	}
	for !p.at(token.RBrace) && !p.atEnd() {
		if !p.at(token.Var) {
			return nil, p.errorf("'var'")
		}
		member, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		for _, d := range ast.Flatten([]ast.Declaration{member}) {
			class.Members = append(class.Members, d.(*ast.VarDecl))
		}
	}
	if _, err := p.expect(token.RBrace, "'}'"); err != nil {
		return nil, err
	}
	p.skip(token.Semicolon)

	return class, nil
}

// group returns the sole declaration or wraps several in a MultiDecl.
func group(kw token.Token, decls []ast.Declaration) ast.Declaration {
	if len(decls) == 1 {
		return decls[0]
	}
	return ast.NewMultiDecl(ast.PositionOf(kw), decls)
}
