// Package parser implements the recursive-descent analyzer of spec §4.3:
// it drives the lexer's state stack, builds the typed command tree of
// package ast, and defers here-document body collection to newline
// boundaries.
package parser

import (
	"log/slog"

	"github.com/aledsdavies/gosh/internal/ast"
	"github.com/aledsdavies/gosh/internal/lexer"
	"github.com/aledsdavies/gosh/internal/source"
)

// Parser consumes tokens from a single active Lexer and builds the command
// tree. The active lexer is swapped (not the Parser's identity) when
// recursing into a backquoted command substitution's independently-lexed
// body; see ParseCommandSubstitution.
type Parser struct {
	lex     *lexer.Lexer
	pending []*ast.HereDoc // here-docs awaiting body fill, in enqueue order
	ftPushed bool          // is FirstWord/ThirdWord currently on the state stack?
	logger  *slog.Logger
}

// New creates a Parser reading from src.
func New(src *source.Source, opts ...Option) *Parser {
	lx := lexer.New(src)
	p := &Parser{lex: lx}
	for _, o := range opts {
		o(p)
	}
	if p.logger != nil {
		lx.SetLogger(p.logger)
	}
	lx.SetSubParser(p)
	return p
}

func (p *Parser) next() (lexer.Token, *ParseError) {
	t, err := p.lex.NextToken()
	if err != nil {
		return lexer.Token{}, p.wrap(err)
	}
	return t, nil
}

func (p *Parser) unread(t lexer.Token) {
	p.lex.UngetToken(t)
}

func (p *Parser) wrap(err error) *ParseError {
	if pe, ok := err.(*ParseError); ok {
		return pe
	}
	if le, ok := err.(*lexer.Error); ok {
		return &ParseError{Pos: le.Pos, Message: le.Message, MayContinue: le.MayContinue}
	}
	return &ParseError{Message: err.Error()}
}

// pushFirst ensures FirstWord is on the state stack before the first token
// of a logical_commands (spec §4.3 "State-stack discipline").
func (p *Parser) pushFirst() {
	p.lex.State.PushKind(lexer.FirstWord)
	p.ftPushed = true
}

// popFirstIfPushed pops FirstWord/ThirdWord after the first token of the
// statement has been consumed, guarded by ftPushed to avoid a double pop
// (spec §4.3).
func (p *Parser) popFirstIfPushed() {
	if p.ftPushed {
		p.lex.State.Pop()
		p.ftPushed = false
	}
}

// ParseProgram parses the entire input as a logical-command list (spec
// grammar `logical_commands`), terminated by end-of-stream.
func (p *Parser) ParseProgram() ([]*ast.LogicalCommand, *ParseError) {
	cmds, err := p.parseLogicalCommands(nil)
	if err != nil {
		return cmds, err
	}
	t, err := p.next()
	if err != nil {
		return cmds, err
	}
	if t.Kind != lexer.EOF {
		return cmds, errf(t.Pos, false, "unexpected token %q", t.Value)
	}
	return cmds, nil
}

// ParseLine parses one line's worth of logical commands: it stops at the
// first top-level newline that is not inside an open construct, or at
// end-of-stream. This is the `dot`/interactive-loop granularity of spec
// §4.9 ("parse_logical_commands_for_line").
func (p *Parser) ParseLine() ([]*ast.LogicalCommand, *ParseError) {
	var cmds []*ast.LogicalCommand
	for {
		p.skipSeparators(true)
		t, err := p.next()
		if err != nil {
			return cmds, err
		}
		if t.Kind == lexer.EOF {
			return cmds, nil
		}
		p.unread(t)
		cmd, err := p.parseLogicalCommand()
		if err != nil {
			return cmds, err
		}
		cmds = append(cmds, cmd)
		sep, err := p.consumeSeparator()
		if err != nil {
			return cmds, err
		}
		if sep == sepAmp {
			cmd.IsBackground = true
		}
		if sep == sepNewline || sep == sepNone {
			return cmds, nil
		}
	}
}

// stopSet names the keyword/kind tokens that end the enclosing compound
// construct's body, as passed by the caller to parseLogicalCommands. nil
// stop means "only end-of-stream stops".
type stopSet map[string]bool

func (p *Parser) parseLogicalCommands(stop stopSet) ([]*ast.LogicalCommand, *ParseError) {
	var cmds []*ast.LogicalCommand
	for {
		p.skipSeparators(false)

		t, err := p.next()
		if err != nil {
			return cmds, err
		}
		if t.Kind == lexer.EOF {
			p.unread(t)
			return cmds, nil
		}
		if stop != nil && t.Kind == lexer.Keyword && stop[t.Value] {
			p.unread(t)
			return cmds, nil
		}
		if stop != nil && t.Kind == lexer.RParen && stop[")"] {
			p.unread(t)
			return cmds, nil
		}
		if stop != nil && t.Kind == lexer.RBrace && stop["}"] {
			p.unread(t)
			return cmds, nil
		}
		if stop != nil && t.Kind == lexer.DSemi && stop[";;"] {
			p.unread(t)
			return cmds, nil
		}
		p.unread(t)

		cmd, perr := p.parseLogicalCommand()
		if perr != nil {
			return cmds, perr
		}
		cmds = append(cmds, cmd)

		sep, perr := p.consumeSeparator()
		if perr != nil {
			return cmds, perr
		}
		if sep == sepAmp {
			cmd.IsBackground = true
		}
		if sep == sepNone {
			return cmds, nil
		}
	}
}

// skipSeparators consumes leading `;`/`&`/newline separators before a
// statement. When onlyNewline is true (ParseLine granularity) only
// newlines are treated as leading separators.
func (p *Parser) skipSeparators(onlyNewline bool) {
	for {
		t, err := p.next()
		if err != nil {
			p.unread(t)
			return
		}
		if t.Kind == lexer.Newline {
			continue
		}
		if !onlyNewline && t.Kind == lexer.Semi {
			continue
		}
		p.unread(t)
		return
	}
}

// separatorKind distinguishes the three separator forms of the grammar
// (`;` | `&` | newline); sepNone means the next token was not a separator
// at all (a stop token or end-of-stream terminated the statement list
// instead).
type separatorKind int

const (
	sepNone separatorKind = iota
	sepSemi
	sepAmp
	sepNewline
)

// consumeSeparator consumes exactly one trailing separator after a
// logical_command, draining any queued here-docs when the separator is a
// newline (spec §4.3 "Here-document queue").
func (p *Parser) consumeSeparator() (separatorKind, *ParseError) {
	t, err := p.next()
	if err != nil {
		return sepNone, err
	}
	switch t.Kind {
	case lexer.Newline:
		if perr := p.drainHereDocs(); perr != nil {
			return sepNewline, perr
		}
		return sepNewline, nil
	case lexer.Semi:
		return sepSemi, nil
	case lexer.Amp:
		return sepAmp, nil
	default:
		p.unread(t)
		return sepNone, nil
	}
}

// consumeNewlines skips zero or more newlines, e.g. the optional newlines
// permitted after `&&`/`||`/`|` (spec grammar), draining here-docs queued
// by each one consumed.
func (p *Parser) consumeNewlines() *ParseError {
	for {
		t, err := p.next()
		if err != nil {
			return err
		}
		if t.Kind != lexer.Newline {
			p.unread(t)
			return nil
		}
		if perr := p.drainHereDocs(); perr != nil {
			return perr
		}
	}
}

// drainHereDocs fills every queued here-document's body by reading it from
// the lexer in InHereDocument state, in enqueue order (spec §4.3/§5:
// "queued records are filled in the order they were enqueued").
func (p *Parser) drainHereDocs() *ParseError {
	pending := p.pending
	p.pending = nil
	for _, hd := range pending {
		p.lex.State.Push(lexer.State{Kind: lexer.InHereDocument, Delim: hd.Delim, Stripped: hd.HasMinus, Quoted: hd.HasQuoted})
		tok, err := p.next()
		p.lex.State.Pop()
		if err != nil {
			return err
		}
		if tok.Kind != lexer.HereDoc {
			return errf(tok.Pos, true, "expected here-document body")
		}
		hd.Elements = tok.Elements
		hd.Filled = true
	}
	return nil
}
