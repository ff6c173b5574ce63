package parser

import (
	"github.com/aledsdavies/gosh/internal/ast"
	"github.com/aledsdavies/gosh/internal/lexer"
)

// assignOps is the set of `=`/compound-assign arithmetic operators, all at
// precedence level 12 and right-associative (spec §4.3).
var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

func (p *Parser) nextArith() (lexer.ArithToken, *ParseError) {
	t, err := p.lex.NextArithToken()
	if err != nil {
		return lexer.ArithToken{}, p.wrap(err)
	}
	return t, nil
}

func (p *Parser) unreadArith(t lexer.ArithToken) {
	p.lex.UngetArith(t)
}

// ParseArithmetic implements lexer.SubParser for `$((...))`: it is invoked
// with the active sub-lexer already positioned just past the opening
// `$((`, and parses a single arithmetic expression at precedence level 12
// (spec §4.3 "Operator precedence"), leaving the trailing `))` unconsumed
// for the lexer to close.
func (p *Parser) ParseArithmetic(lx *lexer.Lexer) (ast.ArithExpr, error) {
	savedLex := p.lex
	p.lex = lx
	defer func() { p.lex = savedLex }()

	expr, err := p.parseArithAssign()
	if err != nil {
		return nil, err
	}
	return expr, nil
}

// parseArithAssign is precedence level 12: `name (op)= expr` and the `?:`
// ternary, both right-associative.
func (p *Parser) parseArithAssign() (ast.ArithExpr, *ParseError) {
	left, err := p.parseArithLogicalOr()
	if err != nil {
		return nil, err
	}

	tok, err := p.nextArith()
	if err != nil {
		return nil, err
	}

	if tok.Kind == lexer.ArithOp && assignOps[tok.Value] {
		param, ok := left.(ast.ArithParam)
		if !ok {
			return nil, errf(tok.Pos, false, "left-hand side of '%s' must be a parameter name", tok.Value)
		}
		rhs, err := p.parseArithAssign()
		if err != nil {
			return nil, err
		}
		return ast.ArithAssign{Position: left.Pos(), Name: param.Name, Op: tok.Value, X: rhs}, nil
	}

	if tok.Kind == lexer.ArithOp && tok.Value == "?" {
		thenExpr, err := p.parseArithAssign()
		if err != nil {
			return nil, err
		}
		colon, err := p.nextArith()
		if err != nil {
			return nil, err
		}
		if !(colon.Kind == lexer.ArithOp && colon.Value == ":") {
			return nil, errf(colon.Pos, false, "expected ':' in conditional expression")
		}
		elseExpr, err := p.parseArithAssign()
		if err != nil {
			return nil, err
		}
		return ast.ArithConditional{Position: left.Pos(), Cond: left, Then: thenExpr, ElseX: elseExpr}, nil
	}

	p.unreadArith(tok)
	return left, nil
}

// arithLevel is one binary-operator precedence level: the set of operator
// texts it recognizes, and the next-higher-precedence parser to call for
// its operands.
type arithLevel struct {
	ops  map[string]bool
	next func(*Parser) (ast.ArithExpr, *ParseError)
}

var arithLevels = []arithLevel{
	{ops: map[string]bool{"||": true}, next: (*Parser).parseArithLogicalAnd},
	{ops: map[string]bool{"&&": true}, next: (*Parser).parseArithBitOr},
	{ops: map[string]bool{"|": true}, next: (*Parser).parseArithBitXor},
	{ops: map[string]bool{"^": true}, next: (*Parser).parseArithBitAnd},
	{ops: map[string]bool{"&": true}, next: (*Parser).parseArithEquality},
	{ops: map[string]bool{"==": true, "!=": true}, next: (*Parser).parseArithRelational},
	{ops: map[string]bool{"<": true, ">": true, "<=": true, ">=": true}, next: (*Parser).parseArithShift},
	{ops: map[string]bool{"<<": true, ">>": true}, next: (*Parser).parseArithAdditive},
	{ops: map[string]bool{"+": true, "-": true}, next: (*Parser).parseArithMultiplicative},
	{ops: map[string]bool{"*": true, "/": true, "%": true}, next: (*Parser).parseArithUnary},
}

func (p *Parser) parseArithBinaryLevel(level int) (ast.ArithExpr, *ParseError) {
	lv := arithLevels[level]
	left, err := lv.next(p)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.nextArith()
		if err != nil {
			return nil, err
		}
		if tok.Kind != lexer.ArithOp || !lv.ops[tok.Value] {
			p.unreadArith(tok)
			return left, nil
		}
		right, err := lv.next(p)
		if err != nil {
			return nil, err
		}
		left = ast.ArithBinary{Position: left.Pos(), Op: tok.Value, X: left, Y: right}
	}
}

func (p *Parser) parseArithLogicalOr() (ast.ArithExpr, *ParseError)     { return p.parseArithBinaryLevel(0) }
func (p *Parser) parseArithLogicalAnd() (ast.ArithExpr, *ParseError)    { return p.parseArithBinaryLevel(1) }
func (p *Parser) parseArithBitOr() (ast.ArithExpr, *ParseError)        { return p.parseArithBinaryLevel(2) }
func (p *Parser) parseArithBitXor() (ast.ArithExpr, *ParseError)       { return p.parseArithBinaryLevel(3) }
func (p *Parser) parseArithBitAnd() (ast.ArithExpr, *ParseError)       { return p.parseArithBinaryLevel(4) }
func (p *Parser) parseArithEquality() (ast.ArithExpr, *ParseError)     { return p.parseArithBinaryLevel(5) }
func (p *Parser) parseArithRelational() (ast.ArithExpr, *ParseError)   { return p.parseArithBinaryLevel(6) }
func (p *Parser) parseArithShift() (ast.ArithExpr, *ParseError)        { return p.parseArithBinaryLevel(7) }
func (p *Parser) parseArithAdditive() (ast.ArithExpr, *ParseError)     { return p.parseArithBinaryLevel(8) }
func (p *Parser) parseArithMultiplicative() (ast.ArithExpr, *ParseError) { return p.parseArithBinaryLevel(9) }

// parseArithUnary is precedence level 1: right-associative prefix `- + ~ !`.
func (p *Parser) parseArithUnary() (ast.ArithExpr, *ParseError) {
	tok, err := p.nextArith()
	if err != nil {
		return nil, err
	}
	if tok.Kind == lexer.ArithOp && (tok.Value == "-" || tok.Value == "+" || tok.Value == "~" || tok.Value == "!") {
		operand, err := p.parseArithUnary()
		if err != nil {
			return nil, err
		}
		return ast.ArithUnary{Position: tok.Pos, Op: tok.Value, X: operand}, nil
	}
	p.unreadArith(tok)
	return p.parseArithPrimary()
}

// parseArithPrimary is precedence level 0: numeric literals, parameter
// names, and `(` expr `)` grouping.
func (p *Parser) parseArithPrimary() (ast.ArithExpr, *ParseError) {
	tok, err := p.nextArith()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case lexer.ArithNumber:
		return ast.ArithNumber{Position: tok.Pos, Value: tok.Num}, nil
	case lexer.ArithParam:
		return ast.ArithParam{Position: tok.Pos, Name: tok.Value}, nil
	case lexer.ArithLParen:
		p.lex.State.PushKind(lexer.InArithmeticExpressionAndParen)
		inner, err := p.parseArithAssign()
		p.lex.State.Pop()
		if err != nil {
			return nil, err
		}
		r, rp := p.lex.Source().Get()
		if r != ')' {
			return nil, errf(rp, false, "expected ')' to close arithmetic grouping")
		}
		return inner, nil
	default:
		return nil, errf(tok.Pos, false, "expected arithmetic operand")
	}
}
