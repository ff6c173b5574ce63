// Package shellenv is the reference Environment/Settings/builtin
// collaborator named in spec.md §6: the executor core in internal/exec
// never touches variable storage or a builtin table directly, only the
// interfaces it declares (exec.Environment, exec.Settings,
// exec.BuiltinLookup). This package gives those interfaces a concrete,
// minimal home — cd, echo, exit, export, : — just enough to exercise the
// dispatch contract end to end. Full variable-expansion and builtin
// semantics are out of scope per spec.md §1.
package shellenv

import (
	"fmt"
	"os"
	"sort"
)

// variable is one shell-variable slot: its current value, whether it is
// exported to child processes, and whether assignment to it is refused.
type variable struct {
	value    string
	exported bool
	readOnly bool
}

// Environment is the reference exec.Environment implementation: an
// in-process variable table seeded from the process's own environment.
type Environment struct {
	vars map[string]*variable
	cwd  string
}

// NewEnvironment returns an Environment seeded from os.Environ(), with
// every inherited variable marked exported (spec.md §6 "a freshly created
// child process should inherit" — anything the shell itself inherited is
// passed along by default).
func NewEnvironment() *Environment {
	e := &Environment{vars: make(map[string]*variable)}
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				e.vars[kv[:i]] = &variable{value: kv[i+1:], exported: true}
				break
			}
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		e.cwd = cwd
	}
	return e
}

// Export implements exec.Environment: sets name=value as an exported
// variable, refusing the assignment if name was previously marked
// read-only (spec.md §4.7 "refused with exit 1 if any name is
// read-only").
func (e *Environment) Export(name, value string) bool {
	if v, ok := e.vars[name]; ok && v.readOnly {
		return false
	}
	e.vars[name] = &variable{value: value, exported: true}
	return true
}

// Unexport implements exec.Environment: removes name entirely. Per-call
// assignments (spec.md §4.7) are scoped to one dispatch, so reverting
// means dropping the temporary binding rather than restoring a prior
// value — callers needing persistent assignment use Set.
func (e *Environment) Unexport(name string) {
	delete(e.vars, name)
}

// Set assigns name=value without forcing export, the ordinary shell
// assignment form (`name=value`, no `export`).
func (e *Environment) Set(name, value string) bool {
	if v, ok := e.vars[name]; ok && v.readOnly {
		return false
	}
	if v, ok := e.vars[name]; ok {
		v.value = value
		return true
	}
	e.vars[name] = &variable{value: value}
	return true
}

// Get returns name's current value and whether it is set at all.
func (e *Environment) Get(name string) (string, bool) {
	v, ok := e.vars[name]
	if !ok {
		return "", false
	}
	return v.value, true
}

// MarkReadOnly refuses all further assignment to name (the `readonly`
// builtin's effect, not itself implemented here — spec.md §1 leaves most
// builtins out of scope, but the hook exists for whatever does call it).
func (e *Environment) MarkReadOnly(name string) {
	v, ok := e.vars[name]
	if !ok {
		v = &variable{}
		e.vars[name] = v
	}
	v.readOnly = true
}

// Environ implements exec.Environment: the "NAME=value" pairs a freshly
// forked child should inherit, sorted for deterministic ordering.
func (e *Environment) Environ() []string {
	names := make([]string, 0, len(e.vars))
	for name, v := range e.vars {
		if v.exported {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = fmt.Sprintf("%s=%s", name, e.vars[name].value)
	}
	return out
}

// Clone returns an independent copy of the environment, the variable-
// isolation half of subshell semantics (`(...)`): assignments inside the
// subshell must not leak back out.
func (e *Environment) Clone() *Environment {
	out := &Environment{vars: make(map[string]*variable, len(e.vars)), cwd: e.cwd}
	for name, v := range e.vars {
		cp := *v
		out.vars[name] = &cp
	}
	return out
}

// Cwd returns the shell's current working directory, as tracked by `cd`
// rather than re-queried from the kernel on every lookup.
func (e *Environment) Cwd() string { return e.cwd }

// Chdir changes the tracked working directory, the effect of the `cd`
// builtin.
func (e *Environment) Chdir(dir string) error {
	if err := os.Chdir(dir); err != nil {
		return err
	}
	if abs, err := os.Getwd(); err == nil {
		e.cwd = abs
	} else {
		e.cwd = dir
	}
	e.vars["PWD"] = &variable{value: e.cwd, exported: true}
	return nil
}
