package main

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/aledsdavies/gosh/internal/ast"
)

// evalWord resolves one ast.Word to its runtime string value. Parameter,
// command and arithmetic expansion are explicitly out of scope for the
// core (spec.md §1 "Out of scope (external collaborators): ...
// variable-expansion semantics") — this is that collaborator, kept as
// small as the driver can get away with while still producing a workable
// shell.
func (it *interp) evalWord(w *ast.Word) (string, error) {
	var buf strings.Builder
	for _, el := range w.Elements {
		s, err := it.evalElement(el)
		if err != nil {
			return "", err
		}
		buf.WriteString(s)
	}
	return buf.String(), nil
}

func (it *interp) evalElement(el ast.WordElement) (string, error) {
	switch e := el.(type) {
	case ast.Literal:
		return e.Value, nil
	case ast.SingleQuoted:
		return e.Value, nil
	case ast.DoubleQuoted:
		var buf strings.Builder
		for _, part := range e.Parts {
			s, err := it.evalElement(part)
			if err != nil {
				return "", err
			}
			buf.WriteString(s)
		}
		return buf.String(), nil
	case ast.Parameter:
		return it.evalParameter(e)
	case ast.CommandSubstitution:
		return it.evalCommandSubstitution(e)
	case ast.ArithmeticSubstitution:
		v, err := it.evalArith(e.Expr)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(v, 10), nil
	default:
		return "", fmt.Errorf("gosh: unhandled word element %T", el)
	}
}

// evalParameter implements the subset of §6's parameter-expansion forms a
// driver needs to be useful: positional/special parameters, plain
// lookups, length (`${#name}`), and the four substitute-on-condition
// modifier families. Pattern-based suffix/prefix removal degrades to
// literal-suffix/prefix matching — full shell pattern matching is its own
// out-of-scope collaborator (spec.md §1 "pattern matching for case").
func (it *interp) evalParameter(p ast.Parameter) (string, error) {
	value, set := it.lookupParam(p.Name)

	if p.IsLength {
		return strconv.Itoa(len(value)), nil
	}

	needsArg := func() (string, error) {
		var buf strings.Builder
		for _, el := range p.Arg {
			s, err := it.evalElement(el)
			if err != nil {
				return "", err
			}
			buf.WriteString(s)
		}
		return buf.String(), nil
	}

	switch p.Modifier {
	case ast.ModNone:
		return value, nil
	case ast.ModDefault, ast.ModDefaultUnset:
		useDefault := !set || (p.Modifier == ast.ModDefault && value == "")
		if useDefault {
			return needsArg()
		}
		return value, nil
	case ast.ModAssign, ast.ModAssignUnset:
		useDefault := !set || (p.Modifier == ast.ModAssign && value == "")
		if useDefault {
			arg, err := needsArg()
			if err != nil {
				return "", err
			}
			it.env.Set(p.Name, arg)
			return arg, nil
		}
		return value, nil
	case ast.ModError, ast.ModErrorUnset:
		useError := !set || (p.Modifier == ast.ModError && value == "")
		if useError {
			arg, _ := needsArg()
			if arg == "" {
				arg = "parameter null or not set"
			}
			return "", fmt.Errorf("gosh: %s: %s", p.Name, arg)
		}
		return value, nil
	case ast.ModAlt, ast.ModAltUnset:
		useAlt := set && (p.Modifier == ast.ModAltUnset || value != "")
		if useAlt {
			return needsArg()
		}
		return "", nil
	case ast.ModSuffixShort, ast.ModSuffixLong:
		suffix, err := needsArg()
		if err != nil {
			return "", err
		}
		return strings.TrimSuffix(value, suffix), nil
	case ast.ModPrefixShort, ast.ModPrefixLong:
		prefix, err := needsArg()
		if err != nil {
			return "", err
		}
		return strings.TrimPrefix(value, prefix), nil
	default:
		return value, nil
	}
}

// lookupParam resolves a variable, positional parameter ($1, $2, ...), or
// special parameter ($@, $*, $#, $?, $$, $!, $-) against the interpreter's
// current frame.
func (it *interp) lookupParam(name string) (string, bool) {
	switch name {
	case "@", "*":
		return strings.Join(it.positional, " "), true
	case "#":
		return strconv.Itoa(len(it.positional)), true
	case "?":
		return strconv.Itoa(it.lastStatus), true
	case "$":
		return strconv.Itoa(it.shellPid), true
	case "!":
		return strconv.Itoa(it.lastBgPid), true
	case "-":
		return "", true
	}
	if n, err := strconv.Atoi(name); err == nil {
		if n == 0 {
			return it.scriptName, true
		}
		if n >= 1 && n <= len(it.positional) {
			return it.positional[n-1], true
		}
		return "", false
	}
	return it.env.Get(name)
}

// evalCommandSubstitution runs the substitution's already-parsed command
// list with stdout captured, trims trailing newlines per §6, and returns
// the captured text.
func (it *interp) evalCommandSubstitution(c ast.CommandSubstitution) (string, error) {
	var buf bytes.Buffer
	child := it.withCapturedStdout(&buf)
	_, err := child.runLogicalCommands(c.Commands)
	if child.captureDone != nil {
		child.captureDone()
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
