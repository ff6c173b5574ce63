package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/gosh/internal/ast"
)

// fakeEnvironment is a minimal exec.Environment double for exercising
// Execute's per-call assignment apply/restore without depending on
// internal/shellenv.
type fakeEnvironment struct {
	vars     map[string]string
	readOnly map[string]bool
}

func newFakeEnvironment() *fakeEnvironment {
	return &fakeEnvironment{vars: map[string]string{}, readOnly: map[string]bool{}}
}

func (e *fakeEnvironment) Export(name, value string) bool {
	if e.readOnly[name] {
		return false
	}
	e.vars[name] = value
	return true
}

func (e *fakeEnvironment) Unexport(name string) { delete(e.vars, name) }

func (e *fakeEnvironment) Environ() []string {
	out := make([]string, 0, len(e.vars))
	for k, v := range e.vars {
		out = append(out, k+"="+v)
	}
	return out
}

type fakeSettings struct{ verbose bool }

func (s fakeSettings) Verbose() bool { return s.verbose }

func newTestExecutor(env *fakeEnvironment, fnLookup FunctionLookup, biLookup BuiltinLookup) *Executor {
	if fnLookup == nil {
		fnLookup = func(string) (*ast.Command, bool) { return nil, false }
	}
	if biLookup == nil {
		biLookup = func(string) (Builtin, bool) { return nil, false }
	}
	return New(env, fakeSettings{}, fnLookup, biLookup)
}

func TestExecuteDispatchesToFunctionBeforeBuiltin(t *testing.T) {
	t.Parallel()

	body := &ast.Command{Kind: ast.CmdSimple}
	var ranWith *ast.Command

	ex := newTestExecutor(newFakeEnvironment(),
		func(name string) (*ast.Command, bool) {
			if name == "greet" {
				return body, true
			}
			return nil, false
		},
		func(name string) (Builtin, bool) {
			t.Fatal("builtin lookup should not be reached when a function matches")
			return nil, false
		},
	)

	result := ex.Execute("greet", nil, nil, false, func(string) bool { return true },
		func(b *ast.Command) WaitStatus {
			ranWith = b
			return WaitStatus{Kind: WaitExited, Code: 3}
		}, ExternalCommand{})

	assert.Same(t, body, ranWith)
	assert.Equal(t, 3, result.Status.ExitCode())
	assert.False(t, result.Forked)
}

func TestExecutePredicateFalseFallsThroughToBuiltin(t *testing.T) {
	t.Parallel()

	biRan := false
	ex := newTestExecutor(newFakeEnvironment(),
		func(name string) (*ast.Command, bool) { return &ast.Command{}, true },
		func(name string) (Builtin, bool) {
			return func(ex *Executor, args []string) int {
				biRan = true
				return 0
			}, true
		},
	)

	result := ex.Execute("cmd", nil, nil, false, func(string) bool { return false }, nil, ExternalCommand{})
	assert.True(t, biRan)
	assert.Equal(t, 0, result.Status.ExitCode())
}

func TestExecuteDispatchesToBuiltin(t *testing.T) {
	t.Parallel()

	ex := newTestExecutor(newFakeEnvironment(), nil, func(name string) (Builtin, bool) {
		if name == "true" {
			return func(ex *Executor, args []string) int { return 0 }, true
		}
		return nil, false
	})

	result := ex.Execute("true", nil, nil, false, nil, nil, ExternalCommand{})
	assert.Equal(t, WaitExited, result.Status.Kind)
	assert.Equal(t, 0, result.Status.ExitCode())
	assert.False(t, result.Forked)
}

func TestExecuteBuiltinSeesTemporaryAssignments(t *testing.T) {
	t.Parallel()

	env := newFakeEnvironment()
	var seen string

	ex := newTestExecutor(env, nil, func(name string) (Builtin, bool) {
		return func(ex *Executor, args []string) int {
			seen = env.vars["FOO"]
			return 0
		}, true
	})

	ex.Execute("cmd", nil, map[string]string{"FOO": "bar"}, false, nil, nil, ExternalCommand{})
	assert.Equal(t, "bar", seen)
	// The temporary assignment is reverted once the builtin returns.
	_, stillSet := env.vars["FOO"]
	assert.False(t, stillSet)
}

func TestExecuteAssignmentRefusedWhenReadOnly(t *testing.T) {
	t.Parallel()

	env := newFakeEnvironment()
	env.vars["FOO"] = "orig"
	env.readOnly["FOO"] = true

	ran := false
	ex := newTestExecutor(env, nil, func(name string) (Builtin, bool) {
		return func(ex *Executor, args []string) int { ran = true; return 0 }, true
	})

	result := ex.Execute("cmd", nil, map[string]string{"FOO": "bar"}, false, nil, nil, ExternalCommand{})
	assert.Equal(t, "orig", env.vars["FOO"])
	assert.Equal(t, 1, result.Status.ExitCode())
	assert.False(t, ran, "builtin body must not run when a per-call assignment is refused")
}

func TestExecuteFunctionAssignmentRefusedWhenReadOnly(t *testing.T) {
	t.Parallel()

	env := newFakeEnvironment()
	env.vars["FOO"] = "orig"
	env.readOnly["FOO"] = true

	body := &ast.Command{Kind: ast.CmdSimple}
	ran := false
	ex := newTestExecutor(env,
		func(name string) (*ast.Command, bool) { return body, true },
		nil,
	)

	result := ex.Execute("greet", nil, map[string]string{"FOO": "bar"}, false, func(string) bool { return true },
		func(b *ast.Command) WaitStatus {
			ran = true
			return WaitStatus{Kind: WaitExited, Code: 0}
		}, ExternalCommand{})

	assert.Equal(t, "orig", env.vars["FOO"])
	assert.Equal(t, 1, result.Status.ExitCode())
	assert.False(t, ran, "function body must not run when a per-call assignment is refused")
}

func TestExecuteExternalMissingPathReturns127(t *testing.T) {
	t.Parallel()

	ex := newTestExecutor(newFakeEnvironment(), nil, nil)
	result := ex.Execute("doesnotexist", nil, nil, false, nil, nil, ExternalCommand{Path: ""})
	require.Equal(t, WaitExited, result.Status.Kind)
	assert.Equal(t, 127, result.Status.ExitCode())
}
