package ast

import "github.com/aledsdavies/gosh/internal/source"

// ArithExpr is a node of an arithmetic expression ($((...))), spec §3.
type ArithExpr interface {
	arithExpr()
	Pos() source.Position
}

// ArithNumber is an i64 numeric literal.
type ArithNumber struct {
	Position source.Position
	Value    int64
}

func (ArithNumber) arithExpr()            {}
func (n ArithNumber) Pos() source.Position { return n.Position }

// ArithParam is a bare parameter name used as an arithmetic operand.
type ArithParam struct {
	Position source.Position
	Name     string
}

func (ArithParam) arithExpr()             {}
func (p ArithParam) Pos() source.Position { return p.Position }

// ArithUnary is a prefix unary operator: - + ~ ! (precedence level 1,
// right-associative per spec §4.3).
type ArithUnary struct {
	Position source.Position
	Op       string
	X        ArithExpr
}

func (ArithUnary) arithExpr()             {}
func (u ArithUnary) Pos() source.Position { return u.Position }

// ArithBinary is a C-style binary operator at one of the precedence levels
// 2 through 11 of spec §4.3's twelve-level table.
type ArithBinary struct {
	Position source.Position
	Op       string
	X, Y     ArithExpr
}

func (ArithBinary) arithExpr()             {}
func (b ArithBinary) Pos() source.Position { return b.Position }

// ArithAssign is `name op= expr` including plain `=`, at precedence 12,
// right-associative.
type ArithAssign struct {
	Position source.Position
	Name     string
	Op       string // "=", "+=", "-=", ...
	X        ArithExpr
}

func (ArithAssign) arithExpr()             {}
func (a ArithAssign) Pos() source.Position { return a.Position }

// ArithConditional is the `cond ? then : else` ternary, precedence 12,
// right-associative.
type ArithConditional struct {
	Position           source.Position
	Cond, Then, ElseX  ArithExpr
}

func (ArithConditional) arithExpr()             {}
func (c ArithConditional) Pos() source.Position { return c.Position }
