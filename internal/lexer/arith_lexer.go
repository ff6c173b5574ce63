package lexer

import (
	"strconv"
	"strings"

	"github.com/aledsdavies/gosh/internal/source"
)

// NextArithToken produces the next arithmetic token (spec §3 "Arithmetic
// tokens"). It is driven directly by the Parser's arithmetic sub-grammar,
// not by NextToken's shell-token dispatch.
func (l *Lexer) NextArithToken() (ArithToken, error) {
	if n := len(l.arithPushback); n > 0 {
		t := l.arithPushback[n-1]
		l.arithPushback = l.arithPushback[:n-1]
		return t, nil
	}

	for {
		r, pos := l.src.Get()
		if r == ' ' || r == '\t' || r == '\n' {
			continue
		}

		if r == source.EOF {
			return ArithToken{Kind: ArithEOF, Pos: pos}, nil
		}

		if r == ')' {
			// `)` always closes the innermost arithmetic context (either a
			// grouping paren or the whole $((...))); the caller consumes
			// it explicitly (spec §4.2).
			l.src.Unget(r, pos)
			return ArithToken{Kind: ArithEOF, Pos: pos}, nil
		}

		if r == '(' {
			return ArithToken{Kind: ArithLParen, Pos: pos, Value: "("}, nil
		}

		if r >= '0' && r <= '9' {
			return l.lexArithNumber(r, pos)
		}

		if isIdentStart(r) {
			name := l.lexIdentifier(r)
			return ArithToken{Kind: ArithParam, Pos: pos, Value: name}, nil
		}

		l.src.Unget(r, pos)
		return l.lexArithOperator(pos)
	}
}

// UngetArith pushes back a produced arithmetic token.
func (l *Lexer) UngetArith(t ArithToken) {
	l.arithPushback = append(l.arithPushback, t)
}

func (l *Lexer) lexArithNumber(first rune, pos source.Position) (ArithToken, error) {
	var b strings.Builder
	b.WriteRune(first)

	base := 10
	if first == '0' {
		n, npos := l.src.Get()
		if n == 'x' || n == 'X' {
			base = 16
			b.WriteRune(n)
		} else {
			l.src.Unget(n, npos)
		}
	}

	for {
		r, rp := l.src.Get()
		if isHexDigitFor(r, base) {
			b.WriteRune(r)
			continue
		}
		l.src.Unget(r, rp)
		break
	}

	text := b.String()
	var (
		num int64
		err error
	)
	switch {
	case base == 16:
		num, err = strconv.ParseInt(text[2:], 16, 64)
	default:
		num, err = strconv.ParseInt(text, 10, 64)
	}
	if err != nil {
		return ArithToken{}, &Error{Pos: pos, Message: "invalid numeric literal: " + text}
	}
	return ArithToken{Kind: ArithNumber, Pos: pos, Value: text, Num: num}, nil
}

func isHexDigitFor(r rune, base int) bool {
	if r >= '0' && r <= '9' {
		return true
	}
	if base == 16 {
		return (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
	}
	return false
}

func (l *Lexer) lexArithOperator(pos source.Position) (ArithToken, error) {
	r1, p1 := l.src.Get()
	r2, p2 := l.src.Get()
	two := string([]rune{r1, r2})

	if two == "<<" || two == ">>" {
		r3, p3 := l.src.Get()
		if r3 == '=' {
			return ArithToken{Kind: ArithOp, Pos: pos, Value: two + "="}, nil
		}
		l.src.Unget(r3, p3)
	}

	for _, op := range arithOperators {
		if len(op) == 2 && op == two {
			return ArithToken{Kind: ArithOp, Pos: pos, Value: op}, nil
		}
	}
	l.src.Unget(r2, p2)

	one := string(r1)
	for _, op := range arithOperators {
		if len(op) == 1 && op == one {
			return ArithToken{Kind: ArithOp, Pos: pos, Value: op}, nil
		}
	}

	return ArithToken{}, &Error{Pos: pos, Message: "unexpected character in arithmetic expression: " + strconv.QuoteRune(r1)}
}
