package parser

import (
	"github.com/CWBudde/go-daedalus-lsp/internal/ast"
	"github.com/CWBudde/go-daedalus-lsp/internal/token"
)

// Binary operator precedence, lowest first.
const (
	precLowest = iota
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
)

var precedences = map[token.Kind]int{
	token.OrOr:       precOr,
	token.AndAnd:     precAnd,
	token.Pipe:       precBitOr,
	token.Caret:      precBitXor,
	token.Amp:        precBitAnd,
	token.Eq:         precEquality,
	token.NotEq:      precEquality,
	token.Less:       precRelational,
	token.LessEq:     precRelational,
	token.Greater:    precRelational,
	token.GreaterEq:  precRelational,
	token.ShiftLeft:  precShift,
	token.ShiftRight: precShift,
	token.Plus:       precAdditive,
	token.Minus:      precAdditive,
	token.Star:       precMultiplicative,
	token.Slash:      precMultiplicative,
	token.Percent:    precMultiplicative,
}

func (p *parser) parseExpression() (ast.Expression, error) {
	return p.parseBinary(precOr)
}

// parseBinary is a precedence climber: operators binding at least as tightly
// as minPrec are folded left-associatively.
func (p *parser) parseBinary(minPrec int) (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		prec, ok := precedences[p.cur().Kind]
		if !ok || prec < minPrec {
			return left, nil
		}
		op := p.advance()

		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpr(left, op.Text, right)
	}
}

func (p *parser) parseUnary() (ast.Expression, error) {
	switch p.cur().Kind {
	case token.Minus, token.Plus:
		next := p.peek(1).Kind
		if next == token.IntegerLiteral || next == token.FloatLiteral {
			sign := p.advance()
			lit := p.advance()
			return ast.NewLiteral(ast.PositionOf(sign), literalKind(lit.Kind), sign.Text+lit.Text), nil
		}
		fallthrough
	case token.Bang, token.Tilde:
		op := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpr(ast.PositionOf(op), op.Text, operand), nil
	}

	return p.parsePostfix()
}

func (p *parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch p.cur().Kind {
		case token.Dot:
			p.advance()
			name, err := p.parseName()
			if err != nil {
				return nil, err
			}
			expr = ast.NewMemberExpr(expr, name.Text)

		case token.LBracket:
			p.advance()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBracket, "']'"); err != nil {
				return nil, err
			}
			expr = ast.NewIndexExpr(expr, index)

		case token.LParen:
			callee, ok := calleeName(expr)
			if !ok {
				return nil, p.errorf("callable expression")
			}
			p.advance()
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			expr = ast.NewCallExpr(expr.Pos(), callee, args)

		default:
			return expr, nil
		}
	}
}

func (p *parser) parseArguments() ([]ast.Expression, error) {
	var args []ast.Expression
	for !p.at(token.RParen) {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}

func calleeName(expr ast.Expression) (string, bool) {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name, true
	case *ast.MemberExpr:
		if obj, ok := e.Object.(*ast.Ident); ok {
			return obj.Name + "." + e.Name, true
		}
	}
	return "", false
}

func (p *parser) parsePrimary() (ast.Expression, error) {
	tok := p.cur()

	switch {
	case tok.Kind.IsLiteral():
		p.advance()
		return ast.NewLiteral(ast.PositionOf(tok), literalKind(tok.Kind), tok.Text), nil

	case tok.Kind == token.LParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil

	case tok.Kind.IsNameLike():
		p.advance()
		return ast.NewIdent(ast.PositionOf(tok), tok.Text), nil
	}

	return nil, p.errorf("expression")
}

func literalKind(kind token.Kind) ast.LiteralKind {
	switch kind {
	case token.FloatLiteral:
		return ast.FloatLiteral
	case token.StringLiteral:
		return ast.StringLiteral
	case token.BoolLiteral:
		return ast.BoolLiteral
	}
	return ast.IntLiteral
}
