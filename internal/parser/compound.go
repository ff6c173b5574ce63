package parser

import (
	"github.com/aledsdavies/gosh/internal/ast"
	"github.com/aledsdavies/gosh/internal/lexer"
	"github.com/aledsdavies/gosh/internal/source"
)

// parseCompoundFromKeyword dispatches on the reserved word that was just
// consumed in FirstWord position (spec §4.3 compound_command alternatives
// keyed by 'for'/'case'/'if'/'while'/'until').
func (p *Parser) parseCompoundFromKeyword(tok lexer.Token) (*ast.CompoundCommand, *ParseError) {
	switch tok.Value {
	case "for":
		return p.parseFor(tok.Pos)
	case "case":
		return p.parseCase(tok.Pos)
	case "if":
		return p.parseIf(tok.Pos)
	case "while":
		return p.parseWhileUntil(tok.Pos, ast.CompoundWhile)
	case "until":
		return p.parseWhileUntil(tok.Pos, ast.CompoundUntil)
	default:
		return nil, errf(tok.Pos, false, "unexpected reserved word %q", tok.Value)
	}
}

// parseBraceGroup implements `'{' logical_commands '}'`. The opening `{`
// was already consumed by the caller.
func (p *Parser) parseBraceGroup(pos source.Position) (*ast.CompoundCommand, *ParseError) {
	body, err := p.parseLogicalCommands(stopSet{"}": true})
	if err != nil {
		return nil, err
	}
	close, err := p.next()
	if err != nil {
		return nil, err
	}
	if close.Kind != lexer.RBrace {
		return nil, errf(close.Pos, true, "expected '}' to close brace group")
	}
	return &ast.CompoundCommand{Position: pos, Kind: ast.CompoundBrace, Body: body}, nil
}

// parseSubshell implements `'(' logical_commands ')'`. The opening `(` was
// already consumed by the caller.
func (p *Parser) parseSubshell(pos source.Position) (*ast.CompoundCommand, *ParseError) {
	body, err := p.parseLogicalCommands(stopSet{")": true})
	if err != nil {
		return nil, err
	}
	close, err := p.next()
	if err != nil {
		return nil, err
	}
	if close.Kind != lexer.RParen {
		return nil, errf(close.Pos, true, "expected ')' to close subshell")
	}
	return &ast.CompoundCommand{Position: pos, Kind: ast.CompoundSubshell, Body: body}, nil
}

// expectKeyword consumes the next token and requires it to be the named
// reserved word, reporting a continuable error on end-of-stream.
func (p *Parser) expectKeyword(kw string) *ParseError {
	t, err := p.next()
	if err != nil {
		return err
	}
	if t.Kind != lexer.Keyword || t.Value != kw {
		return errf(t.Pos, t.Kind == lexer.EOF, "expected %q, found %q", kw, t.Value)
	}
	return nil
}

// parseFor implements:
//
//	'for' word ['in' words] separator newlines 'do' logical_commands 'done'
//
// ThirdWord is pushed between the loop variable and its optional `in`, per
// spec §4.3's state-stack discipline.
func (p *Parser) parseFor(pos source.Position) (*ast.CompoundCommand, *ParseError) {
	// The loop variable is read in whatever state is already active
	// (Initial); it is never keyword-eligible, so no state push is needed.
	nameTok, err := p.next()
	if err != nil {
		return nil, err
	}
	if nameTok.Kind != lexer.Word {
		return nil, errf(nameTok.Pos, false, "expected a name after 'for'")
	}
	name, _ := literalWordValue(nameTok)

	p.lex.State.PushKind(lexer.ThirdWord)
	p.ftPushed = true
	t, err := p.next()
	p.popFirstIfPushed()
	if err != nil {
		return nil, err
	}

	var words []*ast.Word
	hasIn := false
	if t.Kind == lexer.Keyword && t.Value == "in" {
		hasIn = true
		for {
			wt, err := p.next()
			if err != nil {
				return nil, err
			}
			if wt.Kind != lexer.Word {
				p.unread(wt)
				break
			}
			words = append(words, &ast.Word{Position: wt.Pos, Elements: wt.Elements})
		}
	} else {
		p.unread(t)
	}

	if _, err := p.consumeSeparator(); err != nil {
		return nil, err
	}
	if err := p.consumeNewlines(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("do"); err != nil {
		return nil, err
	}
	body, err := p.parseLogicalCommands(stopSet{"done": true})
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("done"); err != nil {
		return nil, err
	}

	return &ast.CompoundCommand{Position: pos, Kind: ast.CompoundFor, Name: name, Words: words, HasIn: hasIn, Body: body}, nil
}

// literalWordValue renders a Word token's elements back to a plain string
// when it is made up only of unquoted literal characters, as required for
// a `for`-loop variable name or a function name.
func literalWordValue(t lexer.Token) (string, bool) {
	if t.Value != "" || len(t.Elements) == 0 {
		return t.Value, true
	}
	var s string
	for _, e := range t.Elements {
		lit, ok := e.(ast.Literal)
		if !ok {
			return "", false
		}
		s += lit.Value
	}
	return s, true
}

// parseCase implements:
//
//	'case' word 'in' newlines
//	    { ['('] pattern_words ')' logical_commands (';;'|lookahead 'esac') }
//	'esac'
func (p *Parser) parseCase(pos source.Position) (*ast.CompoundCommand, *ParseError) {
	wordTok, err := p.next()
	if err != nil {
		return nil, err
	}
	if wordTok.Kind != lexer.Word {
		return nil, errf(wordTok.Pos, false, "expected a word after 'case'")
	}
	caseWord := &ast.Word{Position: wordTok.Pos, Elements: wordTok.Elements}

	p.lex.State.PushKind(lexer.ThirdWord)
	if err := p.expectKeyword("in"); err != nil {
		p.lex.State.Pop()
		return nil, err
	}
	p.lex.State.Pop()

	if err := p.consumeNewlines(); err != nil {
		return nil, err
	}

	var items []*ast.CaseItem
	for {
		t, err := p.next()
		if err != nil {
			return nil, err
		}
		if t.Kind == lexer.Keyword && t.Value == "esac" {
			break
		}
		p.unread(t)

		item, perr := p.parseCaseItem()
		if perr != nil {
			return nil, perr
		}
		items = append(items, item)

		t2, err := p.next()
		if err != nil {
			return nil, err
		}
		if t2.Kind == lexer.Keyword && t2.Value == "esac" {
			break
		}
		p.unread(t2)
	}

	return &ast.CompoundCommand{Position: pos, Kind: ast.CompoundCase, CaseWord: caseWord, Cases: items}, nil
}

func (p *Parser) parseCaseItem() (*ast.CaseItem, *ParseError) {
	t, err := p.next()
	if err != nil {
		return nil, err
	}
	if t.Kind == lexer.LParen {
		t, err = p.next()
		if err != nil {
			return nil, err
		}
	}

	var patterns []*ast.Word
	for {
		if t.Kind != lexer.Word && t.Kind != lexer.Keyword {
			return nil, errf(t.Pos, false, "expected a case pattern")
		}
		patterns = append(patterns, &ast.Word{Position: t.Pos, Elements: tok2Elements(t)})

		n, err := p.next()
		if err != nil {
			return nil, err
		}
		if n.Kind == lexer.Pipe {
			t, err = p.next()
			if err != nil {
				return nil, err
			}
			continue
		}
		if n.Kind != lexer.RParen {
			return nil, errf(n.Pos, false, "expected ')' after case pattern")
		}
		break
	}

	if err := p.consumeNewlines(); err != nil {
		return nil, err
	}
	body, err := p.parseLogicalCommands(stopSet{"esac": true, ";;": true})
	if err != nil {
		return nil, err
	}

	term, err := p.next()
	if err != nil {
		return nil, err
	}
	if term.Kind == lexer.DSemi {
		if err := p.consumeNewlines(); err != nil {
			return nil, err
		}
	} else {
		p.unread(term) // lookahead 'esac'
	}

	return &ast.CaseItem{Patterns: patterns, Commands: body}, nil
}

// parseIf implements:
//
//	'if' logical_commands 'then' logical_commands
//	    { 'elif' logical_commands 'then' logical_commands }
//	    [ 'else' logical_commands ] 'fi'
func (p *Parser) parseIf(pos source.Position) (*ast.CompoundCommand, *ParseError) {
	cond, err := p.parseLogicalCommands(stopSet{"then": true})
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("then"); err != nil {
		return nil, err
	}
	then, err := p.parseLogicalCommands(stopSet{"elif": true, "else": true, "fi": true})
	if err != nil {
		return nil, err
	}

	var elifs []*ast.ElifClause
	var elseBody []*ast.LogicalCommand
	for {
		t, err := p.next()
		if err != nil {
			return nil, err
		}
		if t.Kind != lexer.Keyword {
			return nil, errf(t.Pos, t.Kind == lexer.EOF, "expected 'elif', 'else', or 'fi'")
		}
		switch t.Value {
		case "elif":
			econd, err := p.parseLogicalCommands(stopSet{"then": true})
			if err != nil {
				return nil, err
			}
			if err := p.expectKeyword("then"); err != nil {
				return nil, err
			}
			ethen, err := p.parseLogicalCommands(stopSet{"elif": true, "else": true, "fi": true})
			if err != nil {
				return nil, err
			}
			elifs = append(elifs, &ast.ElifClause{Cond: econd, Then: ethen})
			continue
		case "else":
			elseBody, err = p.parseLogicalCommands(stopSet{"fi": true})
			if err != nil {
				return nil, err
			}
			if err := p.expectKeyword("fi"); err != nil {
				return nil, err
			}
		case "fi":
			// no else clause
		default:
			return nil, errf(t.Pos, false, "expected 'elif', 'else', or 'fi', found %q", t.Value)
		}
		break
	}

	return &ast.CompoundCommand{Position: pos, Kind: ast.CompoundIf, Cond: cond, Then: then, Elifs: elifs, Else: elseBody}, nil
}

// parseWhileUntil implements the shared shape of `'while'|'until'
// logical_commands 'do' logical_commands 'done'`.
func (p *Parser) parseWhileUntil(pos source.Position, kind ast.CompoundKind) (*ast.CompoundCommand, *ParseError) {
	cond, err := p.parseLogicalCommands(stopSet{"do": true})
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("do"); err != nil {
		return nil, err
	}
	body, err := p.parseLogicalCommands(stopSet{"done": true})
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("done"); err != nil {
		return nil, err
	}
	return &ast.CompoundCommand{Position: pos, Kind: kind, Cond: cond, Then: body}, nil
}
