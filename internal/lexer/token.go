package lexer

import (
	"github.com/aledsdavies/gosh/internal/ast"
	"github.com/aledsdavies/gosh/internal/source"
)

// Kind is the shell token alphabet of spec §3 "Token alphabets".
type Kind int

const (
	Newline Kind = iota
	Semi           // ;
	Amp            // &
	Pipe           // |
	DSemi          // ;;
	AndAnd         // &&
	OrOr           // ||
	LParen         // (
	RParen         // )
	Bang           // !
	LBrace         // {
	RBrace         // }
	Keyword        // case do done elif else esac fi for if in then until while
	Redirect       // one of the nine redirection operators, FD optionally set
	Word           // Elements holds the word's pieces
	HereDocWord    // the delimiter word following << / <<-
	HereDoc        // a collected here-doc body (Elements + Stripped)
	EOF
)

// Keywords recognized only in FirstWord (or, for "in", ThirdWord) position
// (spec §4.2 "Operators").
var Keywords = map[string]bool{
	"case": true, "do": true, "done": true, "elif": true, "else": true,
	"esac": true, "fi": true, "for": true, "if": true, "in": true,
	"then": true, "until": true, "while": true,
}

// Token is a single lexical unit, always carrying the position of its
// first character (spec §3 Position).
type Token struct {
	Kind Kind
	Pos  source.Position

	// Semi, Amp, Pipe, DSemi, AndAnd, OrOr, LParen, RParen, Bang, LBrace,
	// RBrace, Keyword: Value holds the literal text.
	Value string

	// Redirect: RedirOp and FD (FD == -1 means no explicit descriptor prefix).
	RedirOp ast.RedirectOp
	FD      int

	// Word: ordered word elements.
	Elements []ast.WordElement

	// HereDocWord: the literal delimiter text and whether any of it was
	// quoted (quoting suppresses expansion in the body).
	Literal string
	Quoted  bool

	// HereDoc: the collected body and whether leading tabs were stripped.
	Stripped bool
}

func (t Token) String() string {
	return t.Value
}
