package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathReturnsZeroValue(t *testing.T) {
	t.Parallel()

	s, err := Load("")
	require.NoError(t, err)
	assert.False(t, s.Verbose())
	assert.False(t, s.Monitor())
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	t.Parallel()

	s, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.False(t, s.Verbose())
}

func TestLoadParsesYAMLFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("verbose: true\nmonitor: true\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.True(t, s.VerboseFlag)
	assert.True(t, s.MonitorFlag)
	assert.False(t, s.XTraceFlag)
	assert.False(t, s.NoExecFlag)
}

func TestLoadInvalidYAMLReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("verbose: [unterminated\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
