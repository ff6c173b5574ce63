package shellenv

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aledsdavies/gosh/internal/exec"
)

// ExitRequest unwinds the interpreter loop when the `exit` builtin runs.
// Builtins report their result as a plain exit code (exec.Builtin's
// signature), but `exit` additionally has to terminate the whole
// interpreter rather than just the current dispatch, so it panics with
// this sentinel and the top-level driver (cmd/gosh) recovers it.
type ExitRequest struct{ Code int }

// Builtins returns the reference builtin table (spec.md §1's minimal
// `cd`, `echo`, `exit`, `export`, `:`), keyed by command name, ready to
// hand to exec.BuiltinLookup via a plain map lookup.
func Builtins(env *Environment) map[string]exec.Builtin {
	return map[string]exec.Builtin{
		"cd":     cdBuiltin(env),
		"echo":   echoBuiltin,
		"exit":   exitBuiltin,
		"export": exportBuiltin(env),
		":":      colonBuiltin,
	}
}

// Lookup adapts Builtins' map into an exec.BuiltinLookup.
func Lookup(table map[string]exec.Builtin) exec.BuiltinLookup {
	return func(name string) (exec.Builtin, bool) {
		bi, ok := table[name]
		return bi, ok
	}
}

func colonBuiltin(ex *exec.Executor, args []string) int { return 0 }

func exitBuiltin(ex *exec.Executor, args []string) int {
	code := 0
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err == nil {
			code = n % 256
		} else {
			code = 2
		}
	}
	panic(ExitRequest{Code: code})
}

func echoBuiltin(ex *exec.Executor, args []string) int {
	out := ex.Files.CurrentFile(1)
	if out == nil {
		out = os.Stdout
	}
	newline := true
	words := args[1:]
	if len(words) > 0 && words[0] == "-n" {
		newline = false
		words = words[1:]
	}
	fmt.Fprint(out, strings.Join(words, " "))
	if newline {
		fmt.Fprint(out, "\n")
	}
	return 0
}

func cdBuiltin(env *Environment) exec.Builtin {
	return func(ex *exec.Executor, args []string) int {
		dir := ""
		if len(args) > 1 {
			dir = args[1]
		} else if home, ok := env.Get("HOME"); ok {
			dir = home
		}
		if dir == "" {
			fmt.Fprintln(errFile(ex), "cd: HOME not set")
			return 1
		}
		if err := env.Chdir(dir); err != nil {
			fmt.Fprintf(errFile(ex), "cd: %s: %v\n", dir, err)
			return 1
		}
		return 0
	}
}

func exportBuiltin(env *Environment) exec.Builtin {
	return func(ex *exec.Executor, args []string) int {
		if len(args) == 1 {
			for _, kv := range env.Environ() {
				fmt.Fprintf(outFile(ex), "export %s\n", kv)
			}
			return 0
		}
		status := 0
		for _, arg := range args[1:] {
			name, value, hasValue := strings.Cut(arg, "=")
			if !hasValue {
				if v, ok := env.Get(name); ok {
					value = v
				}
			}
			if !env.Export(name, value) {
				fmt.Fprintf(errFile(ex), "export: %s: readonly variable\n", name)
				status = 1
			}
		}
		return status
	}
}

func outFile(ex *exec.Executor) *os.File {
	if f := ex.Files.CurrentFile(1); f != nil {
		return f
	}
	return os.Stdout
}

func errFile(ex *exec.Executor) *os.File {
	if f := ex.Files.CurrentFile(2); f != nil {
		return f
	}
	return os.Stderr
}
