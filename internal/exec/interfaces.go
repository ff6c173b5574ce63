package exec

import "github.com/aledsdavies/gosh/internal/ast"

// Environment is the external collaborator that owns shell/environment
// variables (spec §1 "Out of scope: variable-expansion semantics... these
// interact with the core only through the interfaces defined in §6", and
// §6 "other variables are owned by the Environment collaborator"). The
// executor never inspects variable values itself; it only asks Environment
// to apply/restore per-call assignments and to materialize a child's
// inherited environment.
type Environment interface {
	// Export applies name=value as a temporary, exported assignment for
	// the duration of one command dispatch (spec §4.7 "per-call
	// assignments env-vars are applied as temporary exported variables").
	// It returns false if name is read-only.
	Export(name, value string) bool

	// Unexport reverts a prior Export, restoring whatever value (or
	// absence) name had before.
	Unexport(name string)

	// Environ returns the "NAME=value" pairs a freshly created child
	// process should inherit.
	Environ() []string
}

// Settings is the external collaborator exposing the verbose/-x-style
// flags the core itself inspects (spec §6 "the core itself inspects only
// the verbose/-x-style flags through the Settings object").
type Settings interface {
	Verbose() bool
}

// Predicate filters which function names are eligible for in-process
// dispatch (spec §4.7: "lets callers filter eligible functions — used to
// prevent recursive alias loops and to suppress function dispatch inside
// the function-definition path").
type Predicate func(name string) bool

// FunctionLookup resolves a shell function's body by name, the first
// dispatch tier of spec §4.7.
type FunctionLookup func(name string) (*ast.Command, bool)

// BuiltinLookup resolves a no-fork builtin by name, the second dispatch
// tier of spec §4.7. The builtin itself runs with the executor's current
// file-descriptor stacks and returns its exit status.
type BuiltinLookup func(name string) (Builtin, bool)

// Builtin is a no-fork command implementation (spec §4.7 "Regular builtin
// (no fork)"). It is handed the live Executor so it can read/write through
// the current file-descriptor stacks (e.g. `cd`, `:`, `export`).
type Builtin func(ex *Executor, args []string) int

// RunFunction recursively interprets a function body through whatever
// drives the command tree (spec §4.7 "recursively run the function's
// command tree through the interpreter"). The core never interprets
// ast.Command itself; it delegates back to the caller-supplied driver,
// which is how gosh avoids a dependency from exec on a top-level
// interpreter package.
type RunFunction func(body *ast.Command) WaitStatus

// ExternalCommand names the fork-path payload of spec §4.8: a resolved
// executable path and argv/envp, ready for the kernel to run once file
// descriptors are wired. The "body" of spec §4.8 is, for this core,
// always ultimately an execve of some real program; see CreateProcess for
// how the no-fork optimization maps onto that (process-image replacement
// rather than spawning a second process).
type ExternalCommand struct {
	Path string
	Argv []string
	Envp []string
}
