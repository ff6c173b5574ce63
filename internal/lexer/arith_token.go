package lexer

import "github.com/aledsdavies/gosh/internal/source"

// ArithKind is the arithmetic token alphabet of spec §3: numeric literals
// (i64), parameter names, all C-style operators including compound
// assignments, parentheses, EOF.
type ArithKind int

const (
	ArithNumber ArithKind = iota
	ArithParam
	ArithOp
	ArithLParen
	ArithRParen
	ArithEOF
)

// ArithToken is one token of the arithmetic sub-grammar.
type ArithToken struct {
	Kind  ArithKind
	Pos   source.Position
	Value string // operator text, parameter name, or numeric literal text
	Num   int64  // valid when Kind == ArithNumber
}

// arithOperators lists every operator recognized inside $((...)), ordered
// so longer operators are matched before their prefixes.
var arithOperators = []string{
	"<<=", ">>=",
	"==", "!=", "<=", ">=", "&&", "||", "<<", ">>",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"?", ":", "+", "-", "*", "/", "%",
	"^", "&", "|", "~", "!", "<", ">", "=",
}
