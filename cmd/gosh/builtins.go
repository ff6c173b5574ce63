package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aledsdavies/gosh/internal/exec"
	"github.com/aledsdavies/gosh/internal/parser"
	"github.com/aledsdavies/gosh/internal/source"
)

// dot and eval (spec.md §4.9) both need to parse and recursively interpret
// command text from inside a running command, so — like break/continue/
// return — they can't be plain internal/shellenv.Builtins entries closed
// over just an *Environment; they need the owning interp's parser and run
// loop. They are bound to this interp's builtin table in newInterp instead.

// dotBuiltin reads path one line at a time (parser.ParseLine, spec.md
// §4.9's "parse_logical_commands_for_line" granularity) and interprets
// each line's commands in the calling interpreter's own scope, continuing
// until end of file or until a line's error or an escaping break/continue/
// return/exit signal stops it.
func dotBuiltin(it *interp) exec.Builtin {
	return func(ex *exec.Executor, args []string) int {
		if len(args) < 2 {
			fmt.Fprintln(it.stderr(), "dot: no file")
			return 1
		}
		path := args[1]
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(it.stderr(), "dot: %s: %v\n", path, err)
			return 1
		}
		defer f.Close()

		p := parser.New(source.New(f, path))
		status := it.lastStatus
		for {
			cmds, perr := p.ParseLine()
			if perr != nil {
				fmt.Fprintln(it.stderr(), perr)
				return 1
			}
			if len(cmds) == 0 {
				return status
			}
			status, err = it.runLogicalCommands(cmds)
			if err != nil {
				fmt.Fprintln(it.stderr(), err)
				return 1
			}
		}
	}
}

// evalBuiltin joins its arguments with a space and parses the result as a
// complete logical-command list (parser.ParseProgram) in one shot, with no
// retry for more input on a syntax error, then interprets it once in the
// calling interpreter's own scope.
func evalBuiltin(it *interp) exec.Builtin {
	return func(ex *exec.Executor, args []string) int {
		s := strings.Join(args[1:], " ")
		p := parser.New(source.New(strings.NewReader(s), "eval"))
		cmds, perr := p.ParseProgram()
		if perr != nil {
			fmt.Fprintln(it.stderr(), perr)
			return 1
		}
		status, err := it.runLogicalCommands(cmds)
		if err != nil {
			fmt.Fprintln(it.stderr(), err)
			return 1
		}
		return status
	}
}
