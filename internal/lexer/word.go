package lexer

import (
	"strings"

	"github.com/aledsdavies/gosh/internal/ast"
	"github.com/aledsdavies/gosh/internal/source"
)

// specialParamChars is the special-character taxonomy of spec §3/§6:
// `@ * # ? - $ !`.
const specialParamChars = "@*#?-$!"

// lexWord builds one Word token by accumulating word elements until an
// unquoted operator character, whitespace, or newline is seen (spec §4.2
// "Words").
func (l *Lexer) lexWord(pos source.Position) (Token, error) {
	elems, quoted, err := l.lexWordElements()
	if err != nil {
		return Token{}, err
	}
	if raw, ok := literalValue(elems); ok {
		return l.keywordOrWord(raw, quoted, pos, elems), nil
	}
	return Token{Kind: Word, Pos: pos, Elements: elems}, nil
}

// lexWordElements is the recursive core of word scanning: it is reused for
// top-level words, ${...} modifier arguments, and recursively for nested
// expansions. It stops (without consuming) at any unquoted word-break
// character or at whatever character currently closes the enclosing
// expansion (spec §4.2).
func (l *Lexer) lexWordElements() ([]ast.WordElement, bool, error) {
	var elems []ast.WordElement
	var lit strings.Builder
	var litPos source.Position
	litOpen := false
	quoted := false

	flush := func() {
		if litOpen && lit.Len() > 0 {
			elems = append(elems, ast.Literal{Position: litPos, Value: lit.String()})
		}
		lit.Reset()
		litOpen = false
	}

	for {
		r, pos := l.src.Get()

		if isWordBreak(r) || l.closesCurrentSubstitution(r) {
			l.src.Unget(r, pos)
			break
		}

		switch r {
		case '\\':
			n, npos := l.src.Get()
			if n == '\n' {
				continue // line continuation, silently consumed
			}
			if n == source.EOF {
				l.src.Unget(n, npos)
				continue
			}
			if !litOpen {
				litOpen = true
				litPos = pos
			}
			lit.WriteRune(n)
			quoted = true
			continue

		case '\'':
			flush()
			quoted = true
			val, err := l.lexSingleQuoted()
			if err != nil {
				return nil, quoted, err
			}
			elems = append(elems, ast.SingleQuoted{Position: pos, Value: val})
			continue

		case '"':
			flush()
			quoted = true
			parts, err := l.lexDoubleQuoted()
			if err != nil {
				return nil, quoted, err
			}
			elems = append(elems, ast.DoubleQuoted{Position: pos, Parts: parts})
			continue

		case '$':
			elem, ok, err := l.lexDollar(pos)
			if err != nil {
				return nil, quoted, err
			}
			if !ok {
				if !litOpen {
					litOpen = true
					litPos = pos
				}
				lit.WriteRune('$')
				continue
			}
			flush()
			elems = append(elems, elem)
			continue

		case '`':
			flush()
			elem, err := l.lexBacktick(pos)
			if err != nil {
				return nil, quoted, err
			}
			elems = append(elems, elem)
			continue
		}

		if !litOpen {
			litOpen = true
			litPos = pos
		}
		lit.WriteRune(r)
	}

	flush()
	return elems, quoted, nil
}

func (l *Lexer) lexSingleQuoted() (string, error) {
	var b strings.Builder
	for {
		r, pos := l.src.Get()
		if r == source.EOF {
			return "", &Error{Pos: pos, Message: "unterminated single-quoted string", MayContinue: true}
		}
		if r == '\'' {
			return b.String(), nil
		}
		b.WriteRune(r)
	}
}

// lexDoubleQuoted re-lexes the content of "..." as simple word elements
// (spec §4.2). Inside, `\` escapes only `$ \` " \ and newline.
func (l *Lexer) lexDoubleQuoted() ([]ast.WordElement, error) {
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
		r, pos := l.src.Get()
		if r == source.EOF {
			return nil, &Error{Pos: pos, Message: "unterminated double-quoted string", MayContinue: true}
		}
		if r == '"' {
			break
		}
		if r == '\\' {
			n, npos := l.src.Get()
			switch n {
			case '$', '`', '"', '\\':
				if !litOpen {
					litOpen, litPos = true, pos
				}
				lit.WriteRune(n)
			case '\n':
				// escaped newline: line continuation, drop both chars
			default:
				if !litOpen {
					litOpen, litPos = true, pos
				}
				lit.WriteRune('\\')
				if n != source.EOF {
					lit.WriteRune(n)
				} else {
					l.src.Unget(n, npos)
				}
			}
			continue
		}
		if r == '$' {
			elem, ok, err := l.lexDollar(pos)
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
			elem, err := l.lexBacktick(pos)
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

// lexDollar handles every `$...` form: parameters, `${...}`, `$(...)`, and
// `$((...))`. ok is false when '$' was not followed by anything valid, in
// which case it should be treated as a literal dollar sign.
func (l *Lexer) lexDollar(pos source.Position) (ast.WordElement, bool, error) {
	n, npos := l.src.Get()

	switch {
	case n == '(':
		n2, npos2 := l.src.Get()
		if n2 == '(' {
			return l.lexArithmeticSubstitution(pos)
		}
		l.src.Unget(n2, npos2)
		return l.lexCommandSubstitutionParen(pos)

	case n == '{':
		return l.lexBracedParameter(pos)

	case n >= '0' && n <= '9':
		return ast.Parameter{Position: pos, Name: string(n)}, true, nil

	case strings.ContainsRune(specialParamChars, n):
		return ast.Parameter{Position: pos, Name: string(n)}, true, nil

	case isIdentStart(n):
		name := l.lexIdentifier(n)
		return ast.Parameter{Position: pos, Name: name}, true, nil
	}

	l.src.Unget(n, npos)
	return nil, false, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func (l *Lexer) lexIdentifier(first rune) string {
	var b strings.Builder
	b.WriteRune(first)
	for {
		r, pos := l.src.Get()
		if isIdentPart(r) {
			b.WriteRune(r)
			continue
		}
		l.src.Unget(r, pos)
		break
	}
	return b.String()
}

var modifierTokens = []struct {
	text string
	mod  ast.ParamModifier
}{
	{":-", ast.ModDefault}, {":=", ast.ModAssign}, {":?", ast.ModError}, {":+", ast.ModAlt},
	{"##", ast.ModPrefixLong}, {"#", ast.ModPrefixShort},
	{"%%", ast.ModSuffixLong}, {"%", ast.ModSuffixShort},
	{"-", ast.ModDefaultUnset}, {"=", ast.ModAssignUnset}, {"?", ast.ModErrorUnset}, {"+", ast.ModAltUnset},
}

// lexBracedParameter handles `${...}` after the opening `${` has been
// consumed (spec §4.2).
func (l *Lexer) lexBracedParameter(pos source.Position) (ast.WordElement, bool, error) {
	first, firstPos := l.src.Get()

	if first == '#' {
		// Could be a length form `${#name}` or a prefix-strip modifier on
		// a parameter literally named... POSIX reserves `#` first-char for
		// length only; per spec, length applies when '}' immediately
		// follows the name.
		name, ok := l.lexParamNameOrSpecial()
		if ok {
			if r, rp := l.src.Get(); r == '}' {
				return ast.Parameter{Position: pos, Name: name, IsLength: true, Braced: true}, true, nil
			} else {
				l.src.Unget(r, rp)
			}
		}
		l.src.Unget(first, firstPos)
		// Fall through: `#` was actually the start of a "##"/"#" modifier
		// on an empty/invalid name; treat defensively as parse error.
		return nil, false, &Error{Pos: pos, Message: "invalid parameter expansion"}
	}
	l.src.Unget(first, firstPos)

	name, ok := l.lexParamNameOrSpecial()
	if !ok {
		return nil, false, &Error{Pos: pos, Message: "invalid parameter expansion"}
	}

	r, rp := l.src.Get()
	if r == '}' {
		return ast.Parameter{Position: pos, Name: name, Braced: true}, true, nil
	}
	l.src.Unget(r, rp)

	for _, m := range modifierTokens {
		if l.consumeLiteral(m.text) {
			l.State.PushKind(InParameterExpansion)
			arg, _, err := l.lexWordElements()
			if err != nil {
				return nil, false, err
			}
			closer, cp := l.src.Get()
			if closer != '}' {
				l.src.Unget(closer, cp)
				l.State.Pop()
				return nil, false, &Error{Pos: pos, Message: "missing '}' in parameter expansion"}
			}
			l.State.Pop()
			return ast.Parameter{Position: pos, Name: name, Modifier: m.mod, Arg: arg, Braced: true}, true, nil
		}
	}

	return nil, false, &Error{Pos: pos, Message: "unexpected character in parameter expansion"}
}

// consumeLiteral consumes exactly s from the source if present, else
// leaves the source untouched.
func (l *Lexer) consumeLiteral(s string) bool {
	var consumed []rune
	var positions []source.Position
	for _, want := range s {
		r, pos := l.src.Get()
		consumed = append(consumed, r)
		positions = append(positions, pos)
		if r != want {
			for i := len(consumed) - 1; i >= 0; i-- {
				l.src.Unget(consumed[i], positions[i])
			}
			return false
		}
	}
	return true
}

func (l *Lexer) lexParamNameOrSpecial() (string, bool) {
	r, pos := l.src.Get()
	if r == '@' || r == '*' {
		return string(r), true
	}
	if r >= '0' && r <= '9' {
		var b strings.Builder
		b.WriteRune(r)
		for {
			n, npos := l.src.Get()
			if n >= '0' && n <= '9' {
				b.WriteRune(n)
				continue
			}
			l.src.Unget(n, npos)
			break
		}
		return b.String(), true
	}
	if isIdentStart(r) {
		return l.lexIdentifier(r), true
	}
	l.src.Unget(r, pos)
	return "", false
}

// lexCommandSubstitutionParen handles `$(...)` after `$(` has been
// consumed.
func (l *Lexer) lexCommandSubstitutionParen(pos source.Position) (ast.WordElement, bool, error) {
	if l.sub == nil {
		return nil, false, &Error{Pos: pos, Message: "command substitution requires a parser"}
	}
	l.State.PushKind(InCommandSubstitution)
	cmds, err := l.sub.ParseCommandSubstitution(l)
	l.State.Pop()
	if err != nil {
		return nil, false, err
	}
	closer, cp := l.src.Get()
	if closer != ')' {
		l.src.Unget(closer, cp)
		return nil, false, &Error{Pos: pos, Message: "missing ')' to close command substitution", MayContinue: true}
	}
	return ast.CommandSubstitution{Position: pos, Commands: cmds}, true, nil
}

// lexArithmeticSubstitution handles `$((...))` after `$((` has been
// consumed.
func (l *Lexer) lexArithmeticSubstitution(pos source.Position) (ast.WordElement, bool, error) {
	if l.sub == nil {
		return nil, false, &Error{Pos: pos, Message: "arithmetic expansion requires a parser"}
	}
	l.State.PushKind(InArithmeticExpression)
	expr, err := l.sub.ParseArithmetic(l)
	l.State.Pop()
	if err != nil {
		return nil, false, err
	}
	c1, p1 := l.src.Get()
	c2, p2 := l.src.Get()
	if c1 != ')' || c2 != ')' {
		l.src.Unget(c2, p2)
		l.src.Unget(c1, p1)
		return nil, false, &Error{Pos: pos, Message: "missing '))' to close arithmetic expansion", MayContinue: true}
	}
	return ast.ArithmeticSubstitution{Position: pos, Expr: expr}, true, nil
}

// lexBacktick handles `` `...` `` after the opening backtick has been
// consumed. Per the resolved Open Question (SPEC_FULL.md §5), `\$`, `` \` ``
// and `\\` are unescaped once before the body is relexed as an independent
// command list; everything else passes through untouched.
func (l *Lexer) lexBacktick(pos source.Position) (ast.WordElement, error) {
	var body strings.Builder
	for {
		r, rp := l.src.Get()
		if r == source.EOF {
			return nil, &Error{Pos: rp, Message: "unterminated backquoted command substitution", MayContinue: true}
		}
		if r == '`' {
			break
		}
		if r == '\\' {
			n, np := l.src.Get()
			switch n {
			case '`', '$', '\\':
				body.WriteRune(n)
			default:
				body.WriteRune('\\')
				if n != source.EOF {
					body.WriteRune(n)
				} else {
					l.src.Unget(n, np)
				}
			}
			continue
		}
		body.WriteRune(r)
	}

	if l.sub == nil {
		return nil, &Error{Pos: pos, Message: "command substitution requires a parser"}
	}
	inner := source.New(strings.NewReader(body.String()), l.src.Path())
	innerLex := New(inner)
	innerLex.SetSubParser(l.sub)
	cmds, err := l.sub.ParseCommandSubstitution(innerLex)
	if err != nil {
		return nil, err
	}
	return ast.CommandSubstitution{Position: pos, Commands: cmds, Backtick: true}, nil
}
