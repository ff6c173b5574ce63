package shellenv

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvironmentSeedsFromProcessEnviron(t *testing.T) {
	t.Setenv("GOSH_TEST_VAR", "hello")

	env := NewEnvironment()
	v, ok := env.Get("GOSH_TEST_VAR")
	require.True(t, ok)
	assert.Equal(t, "hello", v)

	// Inherited variables are exported by default.
	found := false
	for _, kv := range env.Environ() {
		if kv == "GOSH_TEST_VAR=hello" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSetThenGet(t *testing.T) {
	t.Parallel()

	env := &Environment{vars: map[string]*variable{}}
	assert.True(t, env.Set("X", "1"))
	v, ok := env.Get("X")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestSetDoesNotExportByDefault(t *testing.T) {
	t.Parallel()

	env := &Environment{vars: map[string]*variable{}}
	env.Set("X", "1")
	assert.Empty(t, env.Environ())
}

func TestExportAddsToEnviron(t *testing.T) {
	t.Parallel()

	env := &Environment{vars: map[string]*variable{}}
	assert.True(t, env.Export("X", "1"))
	assert.Equal(t, []string{"X=1"}, env.Environ())
}

func TestUnexportRemovesVariableEntirely(t *testing.T) {
	t.Parallel()

	env := &Environment{vars: map[string]*variable{}}
	env.Export("X", "1")
	env.Unexport("X")
	_, ok := env.Get("X")
	assert.False(t, ok)
}

func TestReadOnlyRefusesExportAndSet(t *testing.T) {
	t.Parallel()

	env := &Environment{vars: map[string]*variable{}}
	env.Set("X", "1")
	env.MarkReadOnly("X")

	assert.False(t, env.Set("X", "2"))
	assert.False(t, env.Export("X", "2"))

	v, _ := env.Get("X")
	assert.Equal(t, "1", v)
}

func TestEnvironIsSortedAndExportedOnly(t *testing.T) {
	t.Parallel()

	env := &Environment{vars: map[string]*variable{}}
	env.Export("B", "2")
	env.Export("A", "1")
	env.Set("C", "unexported")

	assert.Equal(t, []string{"A=1", "B=2"}, env.Environ())
}

func TestCloneIsIndependentCopy(t *testing.T) {
	t.Parallel()

	env := &Environment{vars: map[string]*variable{}}
	env.Set("X", "1")

	clone := env.Clone()
	clone.Set("X", "2")
	clone.Set("Y", "new")

	orig, _ := env.Get("X")
	assert.Equal(t, "1", orig)
	_, ok := env.Get("Y")
	assert.False(t, ok)
}

func TestChdirUpdatesCwdAndPWD(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(cwd) })

	dir := t.TempDir()
	env := &Environment{vars: map[string]*variable{}}
	require.NoError(t, env.Chdir(dir))

	got := env.Cwd()
	assert.NotEmpty(t, got)

	pwd, ok := env.Get("PWD")
	require.True(t, ok)
	assert.Equal(t, got, pwd)
}

func TestChdirNonexistentDirectoryReturnsError(t *testing.T) {
	t.Parallel()

	env := &Environment{vars: map[string]*variable{}}
	err := env.Chdir("/does/not/exist/gosh-test")
	assert.Error(t, err)
}
