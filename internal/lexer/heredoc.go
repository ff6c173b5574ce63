package lexer

import (
	"strings"

	"github.com/aledsdavies/gosh/internal/ast"
	"github.com/aledsdavies/gosh/internal/source"
)

// lexHereDocWord scans the delimiter word following `<<`/`<<-` (spec
// §4.2). The delimiter is always collected as literal text: quoting
// suppresses expansion in the body but the delimiter text itself is never
// expanded.
func (l *Lexer) lexHereDocWord() (Token, error) {
	l.skipWhitespaceAndContinuations()
	r, pos := l.src.Get()
	if r == source.EOF {
		return Token{Kind: EOF, Pos: pos}, nil
	}
	start := pos

	var b strings.Builder
	quoted := false
	for {
		if isWordBreak(r) {
			l.src.Unget(r, pos)
			break
		}
		switch r {
		case '\\':
			n, _ := l.src.Get()
			if n != '\n' {
				b.WriteRune(n)
				quoted = true
			}
		case '\'':
			quoted = true
			for {
				c, cp := l.src.Get()
				if c == source.EOF {
					return Token{}, &Error{Pos: cp, Message: "unterminated quote in here-document delimiter", MayContinue: true}
				}
				if c == '\'' {
					break
				}
				b.WriteRune(c)
			}
		case '"':
			quoted = true
			for {
				c, cp := l.src.Get()
				if c == source.EOF {
					return Token{}, &Error{Pos: cp, Message: "unterminated quote in here-document delimiter", MayContinue: true}
				}
				if c == '"' {
					break
				}
				if c == '\\' {
					n, _ := l.src.Get()
					b.WriteRune(n)
					continue
				}
				b.WriteRune(c)
			}
		default:
			b.WriteRune(r)
		}
		r, pos = l.src.Get()
	}

	return Token{Kind: HereDocWord, Pos: start, Literal: b.String(), Quoted: quoted}, nil
}

// readLine consumes one line of raw input (not going through word
// scanning), returning its content without the trailing newline, and
// whether end-of-stream was reached before any newline.
func (l *Lexer) readLine() (string, bool) {
	var b strings.Builder
	for {
		r, _ := l.src.Get()
		if r == source.EOF {
			return b.String(), true
		}
		if r == '\n' {
			return b.String(), false
		}
		b.WriteRune(r)
	}
}

// lexHereDocBody collects a here-document body line by line, up to a line
// equal to st.Delim (spec §4.2 "Here-document body collection"). Missing
// terminator before end-of-stream is not fatal: a best-effort body is
// returned (spec §7).
func (l *Lexer) lexHereDocBody(st State) (Token, error) {
	var lines []string
	for {
		line, eof := l.readLine()
		compare := line
		if st.Stripped {
			compare = strings.TrimLeft(line, "\t")
		}
		if compare == st.Delim {
			break
		}
		if st.Stripped {
			lines = append(lines, strings.TrimLeft(line, "\t"))
		} else {
			lines = append(lines, line)
		}
		if eof {
			break
		}
	}

	var body strings.Builder
	for _, ln := range lines {
		body.WriteString(ln)
		body.WriteByte('\n')
	}

	var elems []ast.WordElement
	if st.Quoted {
		if body.Len() > 0 {
			elems = []ast.WordElement{ast.Literal{Value: body.String()}}
		}
	} else {
		var err error
		elems, err = l.lexExpandableText(body.String())
		if err != nil {
			return Token{}, err
		}
	}

	return Token{Kind: HereDoc, Elements: elems, Stripped: st.Stripped}, nil
}

// lexExpandableText re-lexes a block of already-collected text (an
// unquoted here-document body) as a sequence of simple word elements:
// strings, parameters, and command substitutions (spec §4.2).
func (l *Lexer) lexExpandableText(text string) ([]ast.WordElement, error) {
	inner := source.New(strings.NewReader(text), l.src.Path())
	innerLex := New(inner)
	innerLex.SetSubParser(l.sub)

	var elems []ast.WordElement
	var lit strings.Builder
	var litPos source.Position
	litOpen := false

	flush := func() {
		if litOpen && lit.Len() > 0 {
			elems = append(elems, ast.Literal{Position: litPos, Value: lit.String()})
		}
		lit.Reset()
		litOpen = false
	}

	for {
		r, pos := inner.Get()
		if r == source.EOF {
			break
		}
		if r == '\\' {
			n, _ := inner.Get()
			switch n {
			case '$', '`', '\\':
				if !litOpen {
					litOpen, litPos = true, pos
				}
				lit.WriteRune(n)
			case '\n':
				// line splice
			default:
				if !litOpen {
					litOpen, litPos = true, pos
				}
				lit.WriteRune('\\')
				if n != source.EOF {
					lit.WriteRune(n)
				}
			}
			continue
		}
		if r == '$' {
			elem, ok, err := innerLex.lexDollar(pos)
			if err != nil {
				return nil, err
			}
			if !ok {
				if !litOpen {
					litOpen, litPos = true, pos
				}
				lit.WriteRune('$')
				continue
			}
			flush()
			elems = append(elems, elem)
			continue
		}
		if r == '`' {
			flush()
			elem, err := innerLex.lexBacktick(pos)
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
			continue
		}
		if !litOpen {
			litOpen, litPos = true, pos
		}
		lit.WriteRune(r)
	}

	flush()
	return elems, nil
}
