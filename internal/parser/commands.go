package parser

import (
	"github.com/aledsdavies/gosh/internal/ast"
	"github.com/aledsdavies/gosh/internal/lexer"
)

// parseLogicalCommand implements `logical_command := pipe_command {
// ('&&'|'||') newlines pipe_command }` (spec §4.3). Background marking
// happens one level up, in consumeSeparator: `&` is a separator, not part
// of this production.
func (p *Parser) parseLogicalCommand() (*ast.LogicalCommand, *ParseError) {
	first, err := p.parsePipeCommand()
	if err != nil {
		return nil, err
	}

	var pairs []*ast.LogicalPair
	for {
		t, err := p.next()
		if err != nil {
			return nil, err
		}
		var op ast.LogicalOp
		switch t.Kind {
		case lexer.AndAnd:
			op = ast.LogicalAnd
		case lexer.OrOr:
			op = ast.LogicalOr
		default:
			p.unread(t)
			return &ast.LogicalCommand{Position: first.Position, First: first, Pairs: pairs}, nil
		}
		if perr := p.consumeNewlines(); perr != nil {
			return nil, perr
		}
		pipe, perr := p.parsePipeCommand()
		if perr != nil {
			return nil, perr
		}
		pairs = append(pairs, &ast.LogicalPair{Op: op, Pipe: pipe})
	}
}

// parsePipeCommand implements `pipe_command := [ '!' ] command { '|'
// newlines command }` (spec §4.3). `!` is tokenized unconditionally by the
// lexer (not gated by lexer state), so it is checked before any FirstWord
// state is pushed.
func (p *Parser) parsePipeCommand() (*ast.PipeCommand, *ParseError) {
	negated := false
	t, err := p.next()
	if err != nil {
		return nil, err
	}
	pos := t.Pos
	if t.Kind == lexer.Bang {
		negated = true
	} else {
		p.unread(t)
	}

	first, perr := p.parseCommand()
	if perr != nil {
		return nil, perr
	}
	if !negated {
		pos = first.Position
	}
	cmds := []*ast.Command{first}

	for {
		t, err := p.next()
		if err != nil {
			return nil, err
		}
		if t.Kind != lexer.Pipe {
			p.unread(t)
			break
		}
		if perr := p.consumeNewlines(); perr != nil {
			return nil, perr
		}
		cmd, perr := p.parseCommand()
		if perr != nil {
			return nil, perr
		}
		cmds = append(cmds, cmd)
	}

	return &ast.PipeCommand{Position: pos, IsNegated: negated, Commands: cmds}, nil
}

// parseCommand implements the `command` production (spec §4.3):
//
//	command := compound_command redirects
//	        |  word '(' ')' newlines function_body
//	        |  simple_command
//
// FirstWord is pushed immediately before reading the command's first
// token and popped immediately after, per the state-stack discipline
// named in spec §4.3.
func (p *Parser) parseCommand() (*ast.Command, *ParseError) {
	p.pushFirst()
	tok, err := p.next()
	p.popFirstIfPushed()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case lexer.Keyword:
		compound, perr := p.parseCompoundFromKeyword(tok)
		if perr != nil {
			return nil, perr
		}
		redirects, perr := p.parseRedirects()
		if perr != nil {
			return nil, perr
		}
		return &ast.Command{Position: tok.Pos, Kind: ast.CmdCompound, Compound: compound, Redirects: redirects}, nil

	case lexer.LBrace:
		compound, perr := p.parseBraceGroup(tok.Pos)
		if perr != nil {
			return nil, perr
		}
		redirects, perr := p.parseRedirects()
		if perr != nil {
			return nil, perr
		}
		return &ast.Command{Position: tok.Pos, Kind: ast.CmdCompound, Compound: compound, Redirects: redirects}, nil

	case lexer.LParen:
		compound, perr := p.parseSubshell(tok.Pos)
		if perr != nil {
			return nil, perr
		}
		redirects, perr := p.parseRedirects()
		if perr != nil {
			return nil, perr
		}
		return &ast.Command{Position: tok.Pos, Kind: ast.CmdCompound, Compound: compound, Redirects: redirects}, nil

	case lexer.Word:
		if fn, perr, ok := p.tryParseFunctionDefinition(tok); ok {
			return fn, perr
		}
		p.unread(tok)
		return p.parseSimpleCommand()

	case lexer.Redirect:
		p.unread(tok)
		return p.parseSimpleCommand()

	case lexer.EOF:
		return nil, errf(tok.Pos, true, "unexpected end of input, expected a command")

	default:
		return nil, errf(tok.Pos, false, "unexpected token %q, expected a command", tok.Value)
	}
}

// tryParseFunctionDefinition looks two tokens ahead of a bare word for
// `'(' ')' newlines function_body` (spec §4.3). On a miss it restores both
// lookahead tokens and reports ok == false so the caller falls through to
// simple_command parsing with the word already consumed.
func (p *Parser) tryParseFunctionDefinition(nameTok lexer.Token) (*ast.Command, *ParseError, bool) {
	t2, err := p.next()
	if err != nil {
		return nil, err, true
	}
	if t2.Kind != lexer.LParen {
		p.unread(t2)
		return nil, nil, false
	}
	t3, err := p.next()
	if err != nil {
		return nil, err, true
	}
	if t3.Kind != lexer.RParen {
		p.unread(t3)
		p.unread(t2)
		return nil, nil, false
	}

	if perr := p.consumeNewlines(); perr != nil {
		return nil, perr, true
	}

	body, redirects, perr := p.parseFunctionBody()
	if perr != nil {
		return nil, perr, true
	}

	name := &ast.Word{Position: nameTok.Pos, Elements: tok2Elements(nameTok)}
	cmd := &ast.Command{
		Position: nameTok.Pos,
		Kind:     ast.CmdFunctionDefinition,
		FuncName: name,
		FuncBody: &ast.FunctionBody{Command: body, Redirects: redirects},
	}
	return cmd, nil, true
}

// tok2Elements extracts the Elements of a lexed Word token, synthesizing a
// single literal when the lexer folded it down to a bare Value (keyword
// classification reuses Value; plain words always carry Elements).
func tok2Elements(t lexer.Token) []ast.WordElement {
	if t.Elements != nil {
		return t.Elements
	}
	return []ast.WordElement{ast.Literal{Position: t.Pos, Value: t.Value}}
}

// parseFunctionBody parses the single command that forms a function's
// body, plus any redirects attached at the definition site.
func (p *Parser) parseFunctionBody() (*ast.Command, []*ast.Redirect, *ParseError) {
	cmd, perr := p.parseCommand()
	if perr != nil {
		return nil, nil, perr
	}
	// A function body's own compound/simple redirects were already
	// consumed by parseCommand; spec's FunctionBody.Redirects covers
	// redirects appearing after the body command at the definition site,
	// which parseCommand's trailing parseRedirects calls already folded
	// into cmd.Redirects for compound bodies and cmd.Simple.Redirects for
	// simple ones. No further redirects remain to collect here.
	return cmd, nil, nil
}
