package parser

import (
	"github.com/goxlang/goxc/internal/ast"
	"github.com/goxlang/goxc/internal/token"
	"github.com/goxlang/goxc/internal/typesystem"
)

// parseExpression is the entry point of the precedence climb:
// || < && < comparisons < {+,-} < {*,/} < unary < factor.
func (p *Parser) parseExpression() ast.Expression {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expression {
	left := p.parseAnd()
	for p.at(token.OR) {
		line := p.advance().Line
		right := p.parseAnd()
		left = ast.NewBinary(line, ast.OpOr, left, right)
	}
	return left
}

func (p *Parser) parseAnd() ast.Expression {
	left := p.parseComparison()
	for p.at(token.AND) {
		line := p.advance().Line
		right := p.parseComparison()
		left = ast.NewBinary(line, ast.OpAnd, left, right)
	}
	return left
}

var cmpOps = map[token.Kind]ast.BinOp{
	token.EQ: ast.OpEq,
	token.NE: ast.OpNe,
	token.LT: ast.OpLt,
	token.LE: ast.OpLe,
	token.GT: ast.OpGt,
	token.GE: ast.OpGe,
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseAdditive()
	for {
		op, ok := cmpOps[p.cur().Kind]
		if !ok {
			break
		}
		line := p.advance().Line
		right := p.parseAdditive()
		left = ast.NewBinary(line, op, left, right)
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expression {
	left := p.parseMultiplicative()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := ast.OpAdd
		if p.cur().Kind == token.MINUS {
			op = ast.OpSub
		}
		line := p.advance().Line
		right := p.parseMultiplicative()
		left = ast.NewBinary(line, op, left, right)
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expression {
	left := p.parseUnary()
	for p.at(token.TIMES) || p.at(token.DIVIDE) {
		op := ast.OpMul
		if p.cur().Kind == token.DIVIDE {
			op = ast.OpDiv
		}
		line := p.advance().Line
		right := p.parseUnary()
		left = ast.NewBinary(line, op, left, right)
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	switch p.cur().Kind {
	case token.PLUS:
		line := p.advance().Line
		return ast.NewUnary(line, ast.OpPos, p.parseUnary())
	case token.MINUS:
		line := p.advance().Line
		return ast.NewUnary(line, ast.OpNeg, p.parseUnary())
	case token.NOT:
		line := p.advance().Line
		return ast.NewUnary(line, ast.OpNot, p.parseUnary())
	case token.GROW:
		line := p.advance().Line
		return ast.NewUnary(line, ast.OpGrow, p.parseUnary())
	default:
		return p.parseFactor()
	}
}

// parseFactor parses a literal, a parenthesized expression, a type
// conversion, a function call, a bare read-location, or a
// backtick-prefixed memory-location.
func (p *Parser) parseFactor() ast.Expression {
	tok := p.cur()
	switch tok.Kind {
	case token.INT:
		p.advance()
		return ast.NewLiteral(tok.Line, typesystem.Int, tok.Literal)
	case token.FLOAT:
		p.advance()
		return ast.NewLiteral(tok.Line, typesystem.Float, tok.Literal)
	case token.CHAR:
		p.advance()
		return ast.NewLiteral(tok.Line, typesystem.Char, tok.Literal)
	case token.BOOL:
		p.advance()
		return ast.NewLiteral(tok.Line, typesystem.Bool, tok.Literal)
	case token.LPAREN:
		p.advance()
		e := p.parseExpression()
		p.expect(token.RPAREN)
		return e
	case token.DEREF:
		p.advance()
		addr := p.parseFactor()
		return ast.NewLocationMem(tok.Line, addr)
	case token.INT_TYPE, token.FLOAT_TYPE, token.CHAR_TYPE, token.BOOL_TYPE:
		target := typeFromToken(p.advance().Kind)
		p.expect(token.LPAREN)
		inner := p.parseExpression()
		p.expect(token.RPAREN)
		return ast.NewTypeConversion(tok.Line, target, inner)
	case token.ID:
		p.advance()
		if p.at(token.LPAREN) {
			p.advance()
			var args []ast.Expression
			if !p.at(token.RPAREN) {
				args = append(args, p.parseExpression())
				for p.at(token.COMMA) {
					p.advance()
					args = append(args, p.parseExpression())
				}
			}
			p.expect(token.RPAREN)
			return ast.NewFuncCall(tok.Line, tok.Lexeme, args)
		}
		return ast.NewLocationPrimi(tok.Line, tok.Lexeme)
	default:
		p.fail("unexpected token %s %q in expression", tok.Kind, tok.Lexeme)
		return nil
	}
}

func typeFromToken(k token.Kind) typesystem.Kind {
	switch k {
	case token.INT_TYPE:
		return typesystem.Int
	case token.FLOAT_TYPE:
		return typesystem.Float
	case token.CHAR_TYPE:
		return typesystem.Char
	case token.BOOL_TYPE:
		return typesystem.Bool
	default:
		return typesystem.None
	}
}
