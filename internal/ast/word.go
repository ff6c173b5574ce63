// Package ast defines the shared command-tree data model (spec §3): word
// elements, here-document records, and the tagged command-tree node types.
//
// A command tree is immutable after parsing except for here-document body
// slots, which transition empty -> filled exactly once (spec §3 Invariants).
package ast

import "github.com/aledsdavies/gosh/internal/source"

// WordElement is one piece of a Word. A word is an ordered sequence of
// these (spec §3 "Word elements").
type WordElement interface {
	wordElement()
	Pos() source.Position
}

// Literal is a plain, already-unescaped string fragment.
type Literal struct {
	Position source.Position
	Value    string
}

func (Literal) wordElement()            {}
func (l Literal) Pos() source.Position  { return l.Position }

// SingleQuoted is a verbatim string with no expansion.
type SingleQuoted struct {
	Position source.Position
	Value    string
}

func (SingleQuoted) wordElement()            {}
func (q SingleQuoted) Pos() source.Position  { return q.Position }

// DoubleQuoted is a sequence of simple word elements lexed inside `"..."`;
// no further quoting is recognized inside it (spec §3).
type DoubleQuoted struct {
	Position source.Position
	Parts    []WordElement
}

func (DoubleQuoted) wordElement()            {}
func (q DoubleQuoted) Pos() source.Position  { return q.Position }

// ParamModifier enumerates the `${name<op>word}` modifier forms.
type ParamModifier int

const (
	ModNone        ParamModifier = iota
	ModDefault                   // :-
	ModDefaultUnset              // -
	ModAssign                    // :=
	ModAssignUnset               // =
	ModError                     // :?
	ModErrorUnset                // ?
	ModAlt                       // :+
	ModAltUnset                  // +
	ModSuffixShort               // %
	ModSuffixLong                // %%
	ModPrefixShort               // #
	ModPrefixLong                // ##
)

// Parameter is a `$name`, `$n`, `$special`, or `${...}` reference, with an
// optional modifier and its argument word.
type Parameter struct {
	Position source.Position
	Name     string // variable name, digit string, or special char @*#?-$!
	IsLength bool   // ${#name}
	Modifier ParamModifier
	Arg      []WordElement // the modifier's argument word, if any
	Braced   bool          // written as ${...} rather than bare $name
}

func (Parameter) wordElement()            {}
func (p Parameter) Pos() source.Position  { return p.Position }

// CommandSubstitution is `$(...)` or `` `...` ``; its body is a fully
// parsed logical-command list (spec §3: "command substitution (logical-
// command list)").
type CommandSubstitution struct {
	Position  source.Position
	Commands  []*LogicalCommand
	Backtick  bool // written with backticks rather than $(...)
}

func (CommandSubstitution) wordElement()           {}
func (c CommandSubstitution) Pos() source.Position { return c.Position }

// ArithmeticSubstitution is `$((...))`.
type ArithmeticSubstitution struct {
	Position source.Position
	Expr     ArithExpr
}

func (ArithmeticSubstitution) wordElement()           {}
func (a ArithmeticSubstitution) Pos() source.Position { return a.Position }

// Word is an ordered sequence of word elements.
type Word struct {
	Position source.Position
	Elements []WordElement
}
