package ast

import "github.com/aledsdavies/gosh/internal/source"

// RedirectOp enumerates the redirection operators of spec §3/§6.
type RedirectOp int

const (
	RedirIn         RedirectOp = iota // <
	RedirOut                          // >
	RedirHereDoc                      // <<
	RedirHereDocTab                   // <<-
	RedirInOut                       // <>
	RedirDupIn                       // <&
	RedirAppend                      // >>
	RedirDupOut                      // >&
	RedirClobber                     // >|
)

// Redirect is a lexical attachment that rebinds a file descriptor in the
// command's execution context (spec Glossary).
type Redirect struct {
	Position source.Position
	Op       RedirectOp
	FD       int // -1 if no explicit descriptor number was given
	Word     *Word
	HereDoc  *HereDoc // non-nil iff Op is RedirHereDoc/RedirHereDocTab
}

// SimpleCommand is a bare word-and-redirect list: `cmd arg1 arg2 >out`.
type SimpleCommand struct {
	Position  source.Position
	Words     []*Word
	Redirects []*Redirect
}

// CaseItem is one `pattern) commands ;;` arm of a case statement.
type CaseItem struct {
	Patterns []*Word
	Commands []*LogicalCommand
}

// ElifClause is one `elif cond then body` clause of an if statement.
type ElifClause struct {
	Cond []*LogicalCommand
	Then []*LogicalCommand
}

// CompoundKind discriminates the CompoundCommand variants of spec §3.
type CompoundKind int

const (
	CompoundBrace CompoundKind = iota
	CompoundSubshell
	CompoundFor
	CompoundCase
	CompoundIf
	CompoundWhile
	CompoundUntil
)

// CompoundCommand is one of BraceGroup, Subshell, For, Case, If, While,
// Until (spec §3).
type CompoundCommand struct {
	Position source.Position
	Kind     CompoundKind

	// BraceGroup / Subshell
	Body []*LogicalCommand

	// For
	Name     string
	Words    []*Word // the words after "in"; nil when there are none
	HasIn    bool    // whether "in" was present; false means iterate over $@

	// Case
	CaseWord *Word
	Cases    []*CaseItem

	// If / elif chain
	Cond  []*LogicalCommand
	Then  []*LogicalCommand
	Elifs []*ElifClause
	Else  []*LogicalCommand

	// While / Until reuse Cond/Then as condition/body
}

// FunctionBody is the body of a function definition: a single command plus
// any redirects attached at the definition site.
type FunctionBody struct {
	Command   *Command
	Redirects []*Redirect
}

// CommandKind discriminates the Command variants of spec §3.
type CommandKind int

const (
	CmdSimple CommandKind = iota
	CmdCompound
	CmdFunctionDefinition
)

// Command is `Simple | Compound | FunctionDefinition` (spec §3).
type Command struct {
	Position source.Position
	Kind     CommandKind

	Simple *SimpleCommand // CmdSimple

	Compound  *CompoundCommand // CmdCompound
	Redirects []*Redirect      // CmdCompound's own redirects

	FuncName *Word         // CmdFunctionDefinition
	FuncBody *FunctionBody // CmdFunctionDefinition
}

// PipeCommand is a sequence of commands joined by `|`, optionally negated
// with a leading `!` (spec §3, Glossary "Pipeline").
type PipeCommand struct {
	Position   source.Position
	IsNegated  bool
	Commands   []*Command
}

// LogicalOp is `&&` or `||`.
type LogicalOp int

const (
	LogicalAnd LogicalOp = iota
	LogicalOr
)

// LogicalPair is one `(&&|||) pipeline` continuation of a LogicalCommand.
type LogicalPair struct {
	Op   LogicalOp
	Pipe *PipeCommand
}

// LogicalCommand is one foreground/background statement: a pipeline,
// optionally chained to further pipelines by && / ||, and optionally
// backgrounded (spec §3, Glossary "Logical command").
type LogicalCommand struct {
	Position     source.Position
	First        *PipeCommand
	Pairs        []*LogicalPair
	IsBackground bool
}
