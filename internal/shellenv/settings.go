package shellenv

// Settings is the reference exec.Settings implementation: the
// verbose/-x-style flags spec.md §6 says "the core itself inspects...
// through the Settings object," plus the job-control and noexec-style
// flags internal/config loads from file/flags (SPEC_FULL.md §3).
//
// internal/config populates a Settings value from YAML and pflag
// overrides; internal/exec only ever sees it through the narrower
// exec.Settings interface.
type Settings struct {
	// VerboseFlag echoes input lines as they are read (`-v`).
	VerboseFlag bool

	// XTraceFlag echoes each command before execution (`-x`).
	XTraceFlag bool

	// MonitorFlag records whether job control was requested (`-m`,
	// `set -m`) and is reported by Monitor. internal/exec does not consult
	// it: the job table is maintained and every spawned child is put in its
	// own process group whether or not it is set, and the terminal's
	// foreground group is not managed.
	MonitorFlag bool

	// NoExecFlag parses and traces but never forks an external command or
	// runs a builtin with effect (`-n`, syntax-check mode).
	NoExecFlag bool
}

// Verbose implements exec.Settings.
func (s *Settings) Verbose() bool { return s.VerboseFlag || s.XTraceFlag }

// XTrace reports whether command tracing is enabled.
func (s *Settings) XTrace() bool { return s.XTraceFlag }

// Monitor reports whether job control is enabled.
func (s *Settings) Monitor() bool { return s.MonitorFlag }

// NoExec reports whether execution is suppressed (syntax-check-only mode).
func (s *Settings) NoExec() bool { return s.NoExecFlag }
