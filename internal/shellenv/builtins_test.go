package shellenv

import (
	"bufio"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/gosh/internal/ast"
	"github.com/aledsdavies/gosh/internal/exec"
)

func newExecutorForBuiltins(env *Environment) *exec.Executor {
	noFunctions := func(string) (*ast.Command, bool) { return nil, false }
	return exec.New(env, &Settings{}, noFunctions, Lookup(Builtins(env)))
}

// captureFD redirects descriptor fd in the executor's file table to a pipe
// for the duration of fn, returning everything written to it.
func captureFD(t *testing.T, ex *exec.Executor, fd int, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	ex.Files.PushFile(fd, w)
	fn()
	ex.Files.PopFile(fd)
	require.NoError(t, w.Close())

	scanner := bufio.NewScanner(r)
	var out string
	for scanner.Scan() {
		out += scanner.Text() + "\n"
	}
	r.Close()
	return out
}

func TestColonBuiltinReturnsZero(t *testing.T) {
	t.Parallel()

	env := &Environment{vars: map[string]*variable{}}
	ex := newExecutorForBuiltins(env)
	assert.Equal(t, 0, colonBuiltin(ex, []string{":"}))
}

func TestEchoBuiltinJoinsArgsWithTrailingNewline(t *testing.T) {
	t.Parallel()

	env := &Environment{vars: map[string]*variable{}}
	ex := newExecutorForBuiltins(env)

	out := captureFD(t, ex, 1, func() {
		code := echoBuiltin(ex, []string{"echo", "hello", "world"})
		assert.Equal(t, 0, code)
	})
	assert.Equal(t, "hello world\n", out)
}

func TestEchoBuiltinSuppressesNewlineWithDashN(t *testing.T) {
	t.Parallel()

	env := &Environment{vars: map[string]*variable{}}
	ex := newExecutorForBuiltins(env)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	ex.Files.PushFile(1, w)
	echoBuiltin(ex, []string{"echo", "-n", "hi"})
	ex.Files.PopFile(1)
	w.Close()

	buf := make([]byte, 16)
	n, _ := r.Read(buf)
	r.Close()
	assert.Equal(t, "hi", string(buf[:n]))
}

func TestCdBuiltinChangesDirectory(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(cwd) })

	dir := t.TempDir()
	env := &Environment{vars: map[string]*variable{}}
	ex := newExecutorForBuiltins(env)

	code := cdBuiltin(env)(ex, []string{"cd", dir})
	assert.Equal(t, 0, code)
	assert.NotEmpty(t, env.Cwd())
}

func TestCdBuiltinFallsBackToHome(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(cwd) })

	dir := t.TempDir()
	env := &Environment{vars: map[string]*variable{}}
	env.Set("HOME", dir)
	ex := newExecutorForBuiltins(env)

	code := cdBuiltin(env)(ex, []string{"cd"})
	assert.Equal(t, 0, code)
}

func TestCdBuiltinFailsWithoutArgOrHome(t *testing.T) {
	t.Parallel()

	env := &Environment{vars: map[string]*variable{}}
	ex := newExecutorForBuiltins(env)

	out := captureFD(t, ex, 2, func() {
		code := cdBuiltin(env)(ex, []string{"cd"})
		assert.Equal(t, 1, code)
	})
	assert.Contains(t, out, "HOME not set")
}

func TestExitBuiltinPanicsWithExitRequest(t *testing.T) {
	t.Parallel()

	env := &Environment{vars: map[string]*variable{}}
	ex := newExecutorForBuiltins(env)

	defer func() {
		r := recover()
		req, ok := r.(ExitRequest)
		require.True(t, ok)
		assert.Equal(t, 7, req.Code)
	}()
	exitBuiltin(ex, []string{"exit", "7"})
}

func TestExitBuiltinDefaultsToZero(t *testing.T) {
	t.Parallel()

	env := &Environment{vars: map[string]*variable{}}
	ex := newExecutorForBuiltins(env)

	defer func() {
		r := recover()
		req, ok := r.(ExitRequest)
		require.True(t, ok)
		assert.Equal(t, 0, req.Code)
	}()
	exitBuiltin(ex, []string{"exit"})
}

func TestExportBuiltinSetsVariable(t *testing.T) {
	t.Parallel()

	env := &Environment{vars: map[string]*variable{}}
	ex := newExecutorForBuiltins(env)

	code := exportBuiltin(env)(ex, []string{"export", "FOO=bar"})
	assert.Equal(t, 0, code)
	v, ok := env.Get("FOO")
	assert.True(t, ok)
	assert.Equal(t, "bar", v)
}

func TestExportBuiltinListsExportedVariables(t *testing.T) {
	t.Parallel()

	env := &Environment{vars: map[string]*variable{}}
	env.Export("FOO", "bar")
	ex := newExecutorForBuiltins(env)

	out := captureFD(t, ex, 1, func() {
		code := exportBuiltin(env)(ex, []string{"export"})
		assert.Equal(t, 0, code)
	})
	assert.Contains(t, out, "export FOO=bar\n")
}

func TestExportBuiltinReportsReadOnlyFailure(t *testing.T) {
	t.Parallel()

	env := &Environment{vars: map[string]*variable{}}
	env.Set("FOO", "orig")
	env.MarkReadOnly("FOO")
	ex := newExecutorForBuiltins(env)

	out := captureFD(t, ex, 2, func() {
		code := exportBuiltin(env)(ex, []string{"export", "FOO=new"})
		assert.Equal(t, 1, code)
	})
	assert.Contains(t, out, "readonly variable")
}
