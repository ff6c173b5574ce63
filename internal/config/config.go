// Package config loads the Settings value cmd/gosh hands to internal/exec
// (through the exec.Settings interface) and internal/shellenv. spec.md §6
// only says the core "inspects the verbose/-x-style flags through the
// Settings object" — it does not say where Settings comes from. This
// package is that ambient concern: an optional YAML file, overridden by
// whatever flags cmd/gosh binds with pflag.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aledsdavies/gosh/internal/shellenv"
)

// fileSettings mirrors shellenv.Settings' fields for YAML decoding; kept
// separate so the on-disk keys (snake_case, no "Flag" suffix) don't leak
// into the in-memory type's field names.
type fileSettings struct {
	Verbose bool `yaml:"verbose"`
	XTrace  bool `yaml:"xtrace"`
	Monitor bool `yaml:"monitor"`
	NoExec  bool `yaml:"noexec"`
}

// Load reads an optional YAML settings file at path into a
// shellenv.Settings. A missing file is not an error — it yields the
// zero-value Settings, which cmd/gosh's flag overrides still apply to.
func Load(path string) (*shellenv.Settings, error) {
	s := &shellenv.Settings{}
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	var fs fileSettings
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return nil, err
	}
	s.VerboseFlag = fs.Verbose
	s.XTraceFlag = fs.XTrace
	s.MonitorFlag = fs.Monitor
	s.NoExecFlag = fs.NoExec
	return s, nil
}
