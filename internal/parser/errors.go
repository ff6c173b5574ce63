package parser

import (
	"fmt"

	"github.com/aledsdavies/gosh/internal/source"
)

// ParseError carries path, position, message, and the may-continue flag of
// spec §4.3/§7: MayContinue is true exactly when the failure was an
// unexpected end-of-file inside an open construct (unclosed brace group,
// here-doc, or missing fi/done/etc.), so an interactive driver knows
// whether to prompt for more input rather than discard the partial parse.
type ParseError struct {
	Pos         source.Position
	Message     string
	MayContinue bool
}

func (e *ParseError) Error() string {
	return e.Pos.String() + ": " + e.Message
}

func errf(pos source.Position, mayContinue bool, format string, args ...interface{}) *ParseError {
	return &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...), MayContinue: mayContinue}
}
