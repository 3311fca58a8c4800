// Package parser implements a recursive-descent, precedence-climbing
// parser (SPEC_FULL.md §4.13) that turns a token stream into an
// internal/ast tree. Grounded on the teacher's parser shape: a cursor
// over the token slice plus match/check/advance/expect helpers.
package parser

import (
	"fmt"

	"cellforge/internal/ast"
	"cellforge/internal/token"
)

// Parser consumes a fixed token slice produced by internal/lexer.
type Parser struct {
	tokens  []token.Token
	current int
	err     error
}

func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseExpr parses a single formula expression and returns it plus the
// first syntax error encountered, if any. A non-nil error always comes
// with a nil node.
func ParseExpr(tokens []token.Token) (ast.Node, error) {
	p := New(tokens)
	n := p.expression()
	if p.err != nil {
		return nil, p.err
	}
	if !p.check(token.EOF) {
		return nil, p.syntaxError("unexpected trailing token %q", p.peek().Lexeme)
	}
	return n, nil
}

func (p *Parser) peek() token.Token     { return p.tokens[p.current] }
func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }
func (p *Parser) atEnd() bool           { return p.peek().Type == token.EOF }

func (p *Parser) check(t token.Type) bool {
	if p.atEnd() {
		return t == token.EOF
	}
	return p.peek().Type == t
}

func (p *Parser) advance() token.Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) expect(t token.Type, context string) token.Token {
	if p.check(t) {
		return p.advance()
	}
	p.syntaxError("expected %s %s, got %q", t, context, p.peek().Lexeme)
	return p.peek()
}

func (p *Parser) syntaxError(format string, args ...any) error {
	if p.err == nil {
		p.err = fmt.Errorf("line %d: %s", p.peek().Line, fmt.Sprintf(format, args...))
	}
	return p.err
}

// Precedence, low to high: OR, AND, comparisons, (+ -), (* /), unary, ^,
// primary (SPEC_FULL.md §4.13).
func (p *Parser) expression() ast.Node {
	return p.or()
}

func (p *Parser) or() ast.Node {
	left := p.and()
	for p.match(token.OR) && p.err == nil {
		line := p.previous().Line
		right := p.and()
		left = ast.NewBinaryOp(token.OR, left, right, line)
	}
	return left
}

func (p *Parser) and() ast.Node {
	left := p.comparison()
	for p.match(token.AND) && p.err == nil {
		line := p.previous().Line
		right := p.comparison()
		left = ast.NewBinaryOp(token.AND, left, right, line)
	}
	return left
}

func (p *Parser) comparison() ast.Node {
	left := p.additive()
	for p.match(token.GT, token.LT, token.GTE, token.LTE, token.EQUALS, token.NE) && p.err == nil {
		op := p.previous()
		right := p.additive()
		left = ast.NewBinaryOp(op.Type, left, right, op.Line)
	}
	return left
}

func (p *Parser) additive() ast.Node {
	left := p.multiplicative()
	for p.match(token.PLUS, token.MINUS) && p.err == nil {
		op := p.previous()
		right := p.multiplicative()
		left = ast.NewBinaryOp(op.Type, left, right, op.Line)
	}
	return left
}

func (p *Parser) multiplicative() ast.Node {
	left := p.unary()
	for p.match(token.MULTIPLY, token.DIVIDE) && p.err == nil {
		op := p.previous()
		right := p.unary()
		left = ast.NewBinaryOp(op.Type, left, right, op.Line)
	}
	return left
}

func (p *Parser) unary() ast.Node {
	if p.match(token.MINUS, token.NOT) {
		op := p.previous()
		child := p.unary()
		return ast.NewUnaryOp(op.Type, child, op.Line)
	}
	return p.power()
}

// power is right-associative: 2^3^2 == 2^(3^2).
func (p *Parser) power() ast.Node {
	left := p.primary()
	if p.match(token.POWER) {
		line := p.previous().Line
		right := p.unary()
		return ast.NewBinaryOp(token.POWER, left, right, line)
	}
	return left
}

func (p *Parser) primary() ast.Node {
	tok := p.peek()
	switch {
	case p.match(token.NUMBER):
		return ast.NewNumber(parseFloat(p.previous().Lexeme), p.previous().Line)
	case p.match(token.STRING):
		return ast.NewString(p.previous().Lexeme, p.previous().Line)
	case p.match(token.LPAREN):
		inner := p.expression()
		p.expect(token.RPAREN, "to close '('")
		return inner
	case p.match(token.CELLREF):
		return p.cellRefOrRange()
	case token.IsFunction(tok.Type):
		p.advance()
		return p.functionCall(tok)
	default:
		p.syntaxError("unexpected token %q", tok.Lexeme)
		p.advance()
		return ast.NewNumber(0, tok.Line)
	}
}

func (p *Parser) cellRefOrRange() ast.Node {
	first := p.previous()
	if p.match(token.COLON) {
		second := p.expect(token.CELLREF, "to complete range")
		return ast.NewRange(first.Lexeme+":"+second.Lexeme, first.Line)
	}
	return ast.NewCellRef(first.Lexeme, first.Line)
}

func (p *Parser) functionCall(name token.Token) ast.Node {
	p.expect(token.LPAREN, "after function name")
	var args []ast.Node
	if !p.check(token.RPAREN) {
		args = append(args, p.expression())
		for p.match(token.COMMA) {
			args = append(args, p.expression())
		}
	}
	p.expect(token.RPAREN, "to close function call")
	return ast.NewFunctionCall(name.Type, args, name.Line)
}

func parseFloat(s string) float64 {
	var n float64
	fmt.Sscanf(s, "%g", &n)
	return n
}
