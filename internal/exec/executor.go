package exec

import (
	"github.com/aledsdavies/gosh/internal/ast"
	"github.com/aledsdavies/gosh/internal/invariant"
)

// Executor is the process-and-file orchestration layer of spec §1/§4:
// it owns the file table, pipe list, job table, and execution-state stack,
// and is the single point that decides how a command name is realized
// (spec §4.7).
type Executor struct {
	Files *FileTable
	Pipes *PipeList
	Jobs  *JobTable

	state *execStateStack

	env      Environment
	settings Settings
	lookupFn FunctionLookup
	lookupBI BuiltinLookup
}

// New creates an Executor with standard input/output/error wired on
// descriptors 0/1/2.
func New(env Environment, settings Settings, lookupFn FunctionLookup, lookupBI BuiltinLookup) *Executor {
	invariant.NotNil(env, "environment")
	invariant.NotNil(settings, "settings")
	return &Executor{
		Files:    NewFileTable(),
		Pipes:    &PipeList{},
		Jobs:     NewJobTable(),
		state:    newExecStateStack(),
		env:      env,
		settings: settings,
		lookupFn: lookupFn,
		lookupBI: lookupBI,
	}
}

// ExecResult is the return value of Execute: the realized command's wait
// status, and whether a real child process was created to produce it
// (spec §4.7's `ForkedChildMarker?`).
type ExecResult struct {
	Status WaitStatus
	Forked bool
	Pid    int
}

// Execute is the central dispatch of spec §4.7: the single point where
// the shell decides how `name` is realized — in-process shell function,
// in-process builtin, or a forked external command.
func (ex *Executor) Execute(
	name string,
	args []string,
	assignments map[string]string,
	background bool,
	predicate Predicate,
	runFn RunFunction,
	cmd ExternalCommand,
) ExecResult {
	if body, ok := ex.lookupFn(name); ok && predicate != nil && predicate(name) {
		return ex.executeFunction(body, assignments, runFn)
	}
	if bi, ok := ex.lookupBI(name); ok {
		return ex.executeBuiltin(bi, args, assignments)
	}
	return ex.executeExternal(background, cmd)
}

// executeFunction implements spec §4.7 tier 1: invoke a defined shell
// function in-process. The positional/assignment save-restore dance is
// the caller driver's job (it owns positional-parameter state); Execute
// only applies the per-call assignments around the recursive run.
func (ex *Executor) executeFunction(body *ast.Command, assignments map[string]string, runFn RunFunction) ExecResult {
	restore, ok := ex.applyAssignments(assignments)
	defer restore()
	if !ok {
		return ExecResult{Status: WaitStatus{Kind: WaitExited, Code: 1}}
	}

	status := runFn(body)
	return ExecResult{Status: status}
}

// executeBuiltin implements spec §4.7 tier 2: dispatch through the
// environment's builtin table with the current file-descriptor stacks.
func (ex *Executor) executeBuiltin(bi Builtin, args []string, assignments map[string]string) ExecResult {
	restore, ok := ex.applyAssignments(assignments)
	defer restore()
	if !ok {
		return ExecResult{Status: WaitStatus{Kind: WaitExited, Code: 1}}
	}

	code := bi(ex, args)
	return ExecResult{Status: WaitStatus{Kind: WaitExited, Code: code}}
}

// executeExternal implements spec §4.7 tier 3: enter the fork path.
func (ex *Executor) executeExternal(background bool, cmd ExternalCommand) ExecResult {
	pid, status, err := ex.CreateProcess(background, cmd)
	if err != nil {
		return ExecResult{Status: WaitStatus{Kind: WaitExited, Code: 127}}
	}
	return ExecResult{Status: status, Forked: pid != 0, Pid: pid}
}

// applyAssignments exports each name=value pair as a temporary variable.
// If any target is read-only, the whole set is refused: every assignment
// already applied is reverted and ok is false, so the caller aborts with
// exit 1 instead of running the command's body (spec §4.7 "refused with
// exit 1 if any name is read-only").
func (ex *Executor) applyAssignments(assignments map[string]string) (restore func(), ok bool) {
	if len(assignments) == 0 {
		return func() {}, true
	}
	applied := make([]string, 0, len(assignments))
	failed := false
	for name, value := range assignments {
		if ex.env.Export(name, value) {
			applied = append(applied, name)
		} else {
			failed = true
		}
	}
	restore = func() {
		for _, name := range applied {
			ex.env.Unexport(name)
		}
	}
	return restore, !failed
}
