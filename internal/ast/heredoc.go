package ast

import "github.com/aledsdavies/gosh/internal/source"

// HereDoc is a here-document record (spec §3). It is created empty at the
// `<<`/`<<-` redirection site, queued on the parser's pending-here-docs
// list, and its Elements are filled exactly once, when the parser reaches
// the next unquoted newline outside nested expansions (spec Invariant).
//
// HereDoc is shared (reference counted via the pointer itself) between the
// Redirect node and the parser's fill queue, per spec §3.
type HereDoc struct {
	Position source.Position
	Delim    string
	HasMinus bool // <<- : strip leading tabs
	HasQuoted bool // any character of the delimiter word was quoted
	Elements []WordElement // filled lazily; nil until Filled is true
	Filled   bool
}
