package main

import (
	"fmt"
	"strconv"

	"github.com/aledsdavies/gosh/internal/ast"
)

// evalArith evaluates an already-parsed arithmetic expression tree
// (internal/ast.ArithExpr) using the shell's current variables, the
// external-collaborator boundary spec.md §1 draws around "variable-
// expansion semantics" extended to `$((...))`'s integer arithmetic.
func (it *interp) evalArith(e ast.ArithExpr) (int64, error) {
	switch n := e.(type) {
	case ast.ArithNumber:
		return n.Value, nil
	case ast.ArithParam:
		v, _ := it.lookupParam(n.Name)
		if v == "" {
			return 0, nil
		}
		iv, err := strconv.ParseInt(v, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("gosh: %s: arithmetic syntax error", v)
		}
		return iv, nil
	case ast.ArithUnary:
		x, err := it.evalArith(n.X)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case "-":
			return -x, nil
		case "+":
			return x, nil
		case "~":
			return ^x, nil
		case "!":
			return boolToInt(x == 0), nil
		}
		return 0, fmt.Errorf("gosh: unknown unary arithmetic operator %q", n.Op)
	case ast.ArithBinary:
		return it.evalArithBinary(n)
	case ast.ArithAssign:
		x, err := it.evalArith(n.X)
		if err != nil {
			return 0, err
		}
		result := x
		if n.Op != "=" {
			cur, _ := it.lookupParam(n.Name)
			curVal, _ := strconv.ParseInt(cur, 0, 64)
			result = applyCompound(n.Op, curVal, x)
		}
		it.env.Set(n.Name, strconv.FormatInt(result, 10))
		return result, nil
	case ast.ArithConditional:
		c, err := it.evalArith(n.Cond)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return it.evalArith(n.Then)
		}
		return it.evalArith(n.ElseX)
	default:
		return 0, fmt.Errorf("gosh: unhandled arithmetic node %T", e)
	}
}

func (it *interp) evalArithBinary(n ast.ArithBinary) (int64, error) {
	// Short-circuit && and || before evaluating the right operand.
	if n.Op == "&&" || n.Op == "||" {
		x, err := it.evalArith(n.X)
		if err != nil {
			return 0, err
		}
		if n.Op == "&&" && x == 0 {
			return 0, nil
		}
		if n.Op == "||" && x != 0 {
			return 1, nil
		}
		y, err := it.evalArith(n.Y)
		if err != nil {
			return 0, err
		}
		return boolToInt(y != 0), nil
	}

	x, err := it.evalArith(n.X)
	if err != nil {
		return 0, err
	}
	y, err := it.evalArith(n.Y)
	if err != nil {
		return 0, err
	}
	switch n.Op {
	case "|":
		return x | y, nil
	case "^":
		return x ^ y, nil
	case "&":
		return x & y, nil
	case "==":
		return boolToInt(x == y), nil
	case "!=":
		return boolToInt(x != y), nil
	case "<":
		return boolToInt(x < y), nil
	case ">":
		return boolToInt(x > y), nil
	case "<=":
		return boolToInt(x <= y), nil
	case ">=":
		return boolToInt(x >= y), nil
	case "<<":
		return x << uint(y), nil
	case ">>":
		return x >> uint(y), nil
	case "+":
		return x + y, nil
	case "-":
		return x - y, nil
	case "*":
		return x * y, nil
	case "/":
		if y == 0 {
			return 0, fmt.Errorf("gosh: arithmetic division by zero")
		}
		return x / y, nil
	case "%":
		if y == 0 {
			return 0, fmt.Errorf("gosh: arithmetic division by zero")
		}
		return x % y, nil
	default:
		return 0, fmt.Errorf("gosh: unknown binary arithmetic operator %q", n.Op)
	}
}

func applyCompound(op string, cur, x int64) int64 {
	switch op {
	case "+=":
		return cur + x
	case "-=":
		return cur - x
	case "*=":
		return cur * x
	case "/=":
		if x == 0 {
			return 0
		}
		return cur / x
	case "%=":
		if x == 0 {
			return 0
		}
		return cur % x
	case "&=":
		return cur & x
	case "|=":
		return cur | x
	case "^=":
		return cur ^ x
	case "<<=":
		return cur << uint(x)
	case ">>=":
		return cur >> uint(x)
	default:
		return x
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
