package lexer

import "github.com/aledsdavies/gosh/internal/source"

// Error is a lexical error. MayContinue mirrors spec §4.3/§7: it is true
// exactly when the failure was an unexpected end-of-file inside an open
// construct (unterminated quote, here-doc, or substitution), so an
// interactive driver knows whether to prompt for more input.
type Error struct {
	Pos         source.Position
	Message     string
	MayContinue bool
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Message
}
