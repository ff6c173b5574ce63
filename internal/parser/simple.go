package parser

import (
	"github.com/aledsdavies/gosh/internal/ast"
	"github.com/aledsdavies/gosh/internal/lexer"
	"github.com/aledsdavies/gosh/internal/source"
)

// parseSimpleCommand implements `simple_command := one-or-more (word |
// redirect)` (spec §4.3). It is called with the first word/redirect token
// already unread back onto the lexer.
func (p *Parser) parseSimpleCommand() (*ast.Command, *ParseError) {
	var words []*ast.Word
	var redirects []*ast.Redirect
	var pos source.Position
	havePos := false

	for {
		t, err := p.next()
		if err != nil {
			return nil, err
		}
		switch t.Kind {
		case lexer.Word:
			if !havePos {
				pos, havePos = t.Pos, true
			}
			words = append(words, &ast.Word{Position: t.Pos, Elements: t.Elements})
		case lexer.Redirect:
			r, perr := p.finishRedirect(t)
			if perr != nil {
				return nil, perr
			}
			if !havePos {
				pos, havePos = t.Pos, true
			}
			redirects = append(redirects, r)
		default:
			p.unread(t)
			if len(words) == 0 && len(redirects) == 0 {
				return nil, errf(t.Pos, false, "expected a command, found %q", t.Value)
			}
			return &ast.Command{
				Position: pos,
				Kind:     ast.CmdSimple,
				Simple:   &ast.SimpleCommand{Position: pos, Words: words, Redirects: redirects},
			}, nil
		}
	}
}

// parseRedirects consumes zero or more trailing redirects after a
// compound_command's closing keyword/brace/paren (spec §4.3 "command :=
// compound_command redirects").
func (p *Parser) parseRedirects() ([]*ast.Redirect, *ParseError) {
	var redirects []*ast.Redirect
	for {
		t, err := p.next()
		if err != nil {
			return nil, err
		}
		if t.Kind != lexer.Redirect {
			p.unread(t)
			return redirects, nil
		}
		r, perr := p.finishRedirect(t)
		if perr != nil {
			return nil, perr
		}
		redirects = append(redirects, r)
	}
}

// finishRedirect reads the operand of a redirection operator, per spec
// §4.3 "redirect := op word_or_heredocword". Here-doc operators read their
// delimiter in the dedicated HereDocumentWord lex state and enqueue an
// empty shared record for later filling (spec §4.3 "Here-document queue").
func (p *Parser) finishRedirect(opTok lexer.Token) (*ast.Redirect, *ParseError) {
	if opTok.RedirOp == ast.RedirHereDoc || opTok.RedirOp == ast.RedirHereDocTab {
		p.lex.State.PushKind(lexer.HereDocumentWord)
		wordTok, err := p.next()
		p.lex.State.Pop()
		if err != nil {
			return nil, err
		}
		if wordTok.Kind != lexer.HereDocWord {
			return nil, errf(wordTok.Pos, false, "expected here-document delimiter")
		}
		hd := &ast.HereDoc{
			Position:  opTok.Pos,
			Delim:     wordTok.Literal,
			HasMinus:  opTok.RedirOp == ast.RedirHereDocTab,
			HasQuoted: wordTok.Quoted,
		}
		p.pending = append(p.pending, hd)
		return &ast.Redirect{Position: opTok.Pos, Op: opTok.RedirOp, FD: opTok.FD, HereDoc: hd}, nil
	}

	// The operand word is read in whatever state is already on the stack;
	// spec §4.3 only requires that any pending FirstWord/ThirdWord from the
	// enclosing command was already popped before the operator itself was
	// read, which parseCommand/parseFor/parseCase already guarantee.
	wordTok, err := p.next()
	if err != nil {
		return nil, err
	}
	if wordTok.Kind != lexer.Word {
		return nil, errf(wordTok.Pos, false, "expected a word after redirection operator")
	}
	return &ast.Redirect{
		Position: opTok.Pos,
		Op:       opTok.RedirOp,
		FD:       opTok.FD,
		Word:     &ast.Word{Position: wordTok.Pos, Elements: wordTok.Elements},
	}, nil
}
