package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aledsdavies/gosh/internal/ast"
	"github.com/aledsdavies/gosh/internal/exec"
	"github.com/aledsdavies/gosh/internal/shellenv"
)

// interp is the thin tree-walking driver spec.md §1 leaves as an external
// collaborator: it turns a parsed command tree into calls against
// internal/exec.Executor, resolving everything the core explicitly leaves
// out (word/parameter/arithmetic expansion, pattern matching for case,
// the builtin table, the top-level loop). None of the lexer/parser/
// executor logic lives here; this file only wires the tree to it.
type interp struct {
	ex       *exec.Executor
	env      *shellenv.Environment
	settings *shellenv.Settings

	builtins  map[string]exec.Builtin
	functions map[string]*ast.Command

	positional []string
	lastStatus int
	shellPid   int
	lastBgPid  int
	scriptName string

	// captureDone, when set, finishes draining this interp's captured
	// stdout pipe (command substitution); see withCapturedStdout.
	captureDone func()
}

// Control-flow sentinels for break/continue/return. These three are POSIX
// "special builtins" that have to unwind the interpreter's own call stack,
// so — unlike cd/echo/export/: — they are intercepted here rather than
// dispatched through exec.BuiltinLookup.
type breakSignal struct{ N int }
type continueSignal struct{ N int }
type returnSignal struct{ Code int }

func newInterp(env *shellenv.Environment, settings *shellenv.Settings, scriptName string, args []string) *interp {
	it := &interp{
		env:        env,
		settings:   settings,
		builtins:   shellenv.Builtins(env),
		functions:  make(map[string]*ast.Command),
		positional: args,
		shellPid:   os.Getpid(),
		scriptName: scriptName,
	}
	it.ex = exec.New(env, settings, it.lookupFunction, it.lookupBuiltin)
	it.builtins["."] = dotBuiltin(it)
	it.builtins["dot"] = dotBuiltin(it)
	it.builtins["eval"] = evalBuiltin(it)
	return it
}

func (it *interp) lookupFunction(name string) (*ast.Command, bool) {
	c, ok := it.functions[name]
	return c, ok
}

func (it *interp) lookupBuiltin(name string) (exec.Builtin, bool) {
	b, ok := it.builtins[name]
	return b, ok
}

// funcPredicate always permits function dispatch: alias-loop prevention
// (spec.md §4.7's stated reason for the predicate hook) has nothing to
// filter here since aliases are not implemented.
func (it *interp) funcPredicate(string) bool { return true }

func (it *interp) stderr() *os.File {
	if f := it.ex.Files.CurrentFile(2); f != nil {
		return f
	}
	return os.Stderr
}

// Run executes a parsed program to completion and returns its process
// exit code, translating the exit/return/break/continue control-flow
// sentinels that can escape to the top level.
func (it *interp) Run(cmds []*ast.LogicalCommand) (code int) {
	defer func() {
		if r := recover(); r != nil {
			switch sig := r.(type) {
			case shellenv.ExitRequest:
				code = sig.Code
			case returnSignal:
				code = sig.Code
			case breakSignal, continueSignal:
				code = it.lastStatus
			default:
				panic(r)
			}
		}
	}()
	status, err := it.runLogicalCommands(cmds)
	if err != nil {
		fmt.Fprintln(it.stderr(), err)
		return 1
	}
	return status
}

func (it *interp) runLogicalCommands(cmds []*ast.LogicalCommand) (int, error) {
	status := it.lastStatus
	for _, lc := range cmds {
		s, err := it.runLogicalCommand(lc)
		status = s
		if err != nil {
			return status, err
		}
	}
	return status, nil
}

func (it *interp) runLogicalCommand(lc *ast.LogicalCommand) (int, error) {
	if lc.IsBackground {
		it.runBackground(lc)
		it.lastStatus = 0
		return 0, nil
	}

	status, err := it.runPipeCommand(lc.First)
	if err != nil {
		return status, err
	}
	for _, pair := range lc.Pairs {
		if pair.Op == ast.LogicalAnd && status != 0 {
			continue
		}
		if pair.Op == ast.LogicalOr && status == 0 {
			continue
		}
		status, err = it.runPipeCommand(pair.Pipe)
		if err != nil {
			return status, err
		}
	}
	it.lastStatus = status
	return status, nil
}

// runBackground launches lc without waiting for it, per the `&` separator
// of spec.md §4.3's grammar. A background job gets its own Executor (fresh
// file-descriptor table wired to the process's real stdio) rather than
// sharing the foreground shell's in-flight redirection state, since the
// two would otherwise race on the same FileTable.
func (it *interp) runBackground(lc *ast.LogicalCommand) {
	child := &interp{
		env:        it.env,
		settings:   it.settings,
		builtins:   it.builtins,
		functions:  it.functions,
		positional: it.positional,
		shellPid:   it.shellPid,
		scriptName: it.scriptName,
	}
	child.ex = exec.New(it.env, it.settings, child.lookupFunction, child.lookupBuiltin)
	go func() {
		defer func() { recover() }() // a background job's exit/return never unwinds the parent
		child.runLogicalCommand(&ast.LogicalCommand{Position: lc.Position, First: lc.First, Pairs: lc.Pairs})
	}()
}

// runPipeCommand wires pc's stages stdout-to-stdin in sequence. Each stage
// runs to completion (including a real fork/exec for external commands)
// before the next starts; output between stages is handed off through an
// OS pipe read to EOF once the writer closes. This gives correct data flow
// for ordinary pipelines without requiring concurrent stage execution,
// at the cost of not streaming — a stage that blocks waiting for its
// downstream reader before finishing (rather than simply producing a
// bounded amount of output) will stall. True concurrent pipeline
// scheduling belongs to a real job-control driver, out of scope here.
func (it *interp) runPipeCommand(pc *ast.PipeCommand) (int, error) {
	n := len(pc.Commands)
	status := 0
	var prevRead *os.File

	for i, cmd := range pc.Commands {
		isLast := i == n-1

		if prevRead != nil {
			it.ex.Files.PushFileAndSetSavedFile(0, prevRead)
		}

		var pipeW *os.File
		var pipeR *os.File
		if !isLast {
			r, w, err := os.Pipe()
			if err != nil {
				if prevRead != nil {
					it.ex.Files.PopFile(0)
					prevRead.Close()
				}
				return 1, err
			}
			pipeR, pipeW = r, w
			it.ex.Files.PushFileAndSetSavedFile(1, pipeW)
		}

		s, err := it.runCommand(cmd)
		status = s

		if !isLast {
			it.ex.Files.PopFile(1)
			pipeW.Close()
		}
		if prevRead != nil {
			it.ex.Files.PopFile(0)
			prevRead.Close()
		}
		prevRead = pipeR

		if err != nil {
			if prevRead != nil {
				prevRead.Close()
			}
			return status, err
		}
	}
	if prevRead != nil {
		prevRead.Close()
	}

	if pc.IsNegated {
		if status == 0 {
			status = 1
		} else {
			status = 0
		}
	}
	return status, nil
}

func (it *interp) runCommand(cmd *ast.Command) (int, error) {
	switch cmd.Kind {
	case ast.CmdSimple:
		return it.runSimpleCommand(cmd.Simple)
	case ast.CmdCompound:
		cleanup, err := it.applyRedirects(cmd.Redirects)
		if err != nil {
			fmt.Fprintln(it.stderr(), err)
			return 1, nil
		}
		defer cleanup()
		return it.runCompound(cmd.Compound)
	case ast.CmdFunctionDefinition:
		it.defineFunction(cmd)
		return 0, nil
	default:
		return 1, fmt.Errorf("gosh: unhandled command kind %v", cmd.Kind)
	}
}

func (it *interp) defineFunction(cmd *ast.Command) {
	name, err := it.evalWord(cmd.FuncName)
	if err != nil {
		fmt.Fprintln(it.stderr(), err)
		return
	}
	body := cmd.FuncBody.Command
	if len(cmd.FuncBody.Redirects) > 0 {
		switch body.Kind {
		case ast.CmdSimple:
			body.Simple.Redirects = append(body.Simple.Redirects, cmd.FuncBody.Redirects...)
		case ast.CmdCompound:
			body.Redirects = append(body.Redirects, cmd.FuncBody.Redirects...)
		}
	}
	it.functions[name] = body
}

// runFunction implements the recursive leg of spec.md §4.7 tier 1: the
// executor calls back into the driver to interpret a function's command
// tree, catching a `return` builtin's unwind at the function boundary.
func (it *interp) runFunction(body *ast.Command) exec.WaitStatus {
	status, err := it.runFunctionBody(body)
	if err != nil {
		return exec.WaitStatus{Kind: exec.WaitExited, Code: 1}
	}
	return exec.WaitStatus{Kind: exec.WaitExited, Code: status}
}

func (it *interp) runFunctionBody(body *ast.Command) (status int, err error) {
	defer func() {
		if r := recover(); r != nil {
			if sig, ok := r.(returnSignal); ok {
				status = sig.Code
				return
			}
			panic(r)
		}
	}()
	return it.runCommand(body)
}

func (it *interp) externalCommand(name string, argv []string) exec.ExternalCommand {
	path := name
	if resolved, err := osexec.LookPath(name); err == nil {
		path = resolved
	}
	return exec.ExternalCommand{Path: path, Argv: argv, Envp: it.env.Environ()}
}

func (it *interp) runSimpleCommand(sc *ast.SimpleCommand) (int, error) {
	cleanup, err := it.applyRedirects(sc.Redirects)
	if err != nil {
		fmt.Fprintln(it.stderr(), err)
		return 1, nil
	}
	defer cleanup()

	assignments, rest, err := it.splitAssignments(sc.Words)
	if err != nil {
		fmt.Fprintln(it.stderr(), err)
		return 1, nil
	}
	if len(rest) == 0 {
		for name, value := range assignments {
			it.env.Set(name, value)
		}
		return 0, nil
	}

	argv := make([]string, 0, len(rest))
	for _, w := range rest {
		s, werr := it.evalWord(w)
		if werr != nil {
			fmt.Fprintln(it.stderr(), werr)
			return 1, nil
		}
		argv = append(argv, s)
	}

	switch argv[0] {
	case "break":
		panic(breakSignal{N: levelArg(argv)})
	case "continue":
		panic(continueSignal{N: levelArg(argv)})
	case "return":
		code := it.lastStatus
		if len(argv) > 1 {
			if n, cerr := strconv.Atoi(argv[1]); cerr == nil {
				code = n % 256
			}
		}
		panic(returnSignal{Code: code})
	}

	if it.settings.XTrace() {
		fmt.Fprintln(it.stderr(), "+", strings.Join(argv, " "))
	}
	if it.settings.NoExec() {
		return 0, nil
	}

	runFn := func(body *ast.Command) exec.WaitStatus {
		saved := it.positional
		it.positional = argv[1:]
		defer func() { it.positional = saved }()
		return it.runFunction(body)
	}
	result := it.ex.Execute(argv[0], argv, assignments, false, it.funcPredicate, runFn, it.externalCommand(argv[0], argv))
	it.lastStatus = result.Status.ExitCode()
	return it.lastStatus, nil
}

func levelArg(argv []string) int {
	if len(argv) > 1 {
		if n, err := strconv.Atoi(argv[1]); err == nil && n > 0 {
			return n
		}
	}
	return 1
}

// splitAssignments separates a simple command's leading `name=value` words
// (spec.md's grammar treats these uniformly with other words; recognizing
// them is the variable-expansion collaborator's job per spec.md §1) from
// the command name and arguments that follow.
func (it *interp) splitAssignments(words []*ast.Word) (map[string]string, []*ast.Word, error) {
	assignments := make(map[string]string)
	i := 0
	for ; i < len(words); i++ {
		name, valueWord, ok := splitAssignWord(words[i])
		if !ok {
			break
		}
		value, err := it.evalWord(valueWord)
		if err != nil {
			return nil, nil, err
		}
		assignments[name] = value
	}
	return assignments, words[i:], nil
}

func splitAssignWord(w *ast.Word) (name string, valueWord *ast.Word, ok bool) {
	if len(w.Elements) == 0 {
		return "", nil, false
	}
	lit, isLit := w.Elements[0].(ast.Literal)
	if !isLit {
		return "", nil, false
	}
	idx := strings.IndexByte(lit.Value, '=')
	if idx <= 0 {
		return "", nil, false
	}
	namePart := lit.Value[:idx]
	if !isValidName(namePart) {
		return "", nil, false
	}
	rest := ast.Literal{Position: lit.Position, Value: lit.Value[idx+1:]}
	elems := append([]ast.WordElement{rest}, w.Elements[1:]...)
	return namePart, &ast.Word{Position: w.Position, Elements: elems}, true
}

func isValidName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// runCompound dispatches the seven CompoundCommand kinds of spec.md §3.
func (it *interp) runCompound(cc *ast.CompoundCommand) (int, error) {
	switch cc.Kind {
	case ast.CompoundBrace:
		return it.runLogicalCommands(cc.Body)
	case ast.CompoundSubshell:
		return it.runSubshell(cc.Body)
	case ast.CompoundFor:
		return it.runFor(cc)
	case ast.CompoundCase:
		return it.runCase(cc)
	case ast.CompoundIf:
		return it.runIf(cc)
	case ast.CompoundWhile:
		return it.runWhileUntil(cc, false)
	case ast.CompoundUntil:
		return it.runWhileUntil(cc, true)
	default:
		return 1, fmt.Errorf("gosh: unhandled compound kind %v", cc.Kind)
	}
}

// runSubshell gives the nested commands their own variable/function/
// positional-parameter frame (the behavior users actually observe from
// `(...)`), sharing the live file-descriptor/pipe/job state since the
// subshell still participates in any enclosing pipeline or redirection.
// True address-space isolation would require a real fork (spec.md's
// original model); that is out of reach for arbitrary interpreted code in
// this runtime, so variable isolation is what this driver provides.
func (it *interp) runSubshell(body []*ast.LogicalCommand) (int, error) {
	child := &interp{
		ex:         it.ex,
		env:        it.env.Clone(),
		settings:   it.settings,
		builtins:   it.builtins,
		functions:  cloneFunctions(it.functions),
		positional: append([]string(nil), it.positional...),
		lastStatus: it.lastStatus,
		shellPid:   it.shellPid,
		lastBgPid:  it.lastBgPid,
		scriptName: it.scriptName,
	}
	return child.runLogicalCommands(body)
}

func cloneFunctions(fns map[string]*ast.Command) map[string]*ast.Command {
	out := make(map[string]*ast.Command, len(fns))
	for k, v := range fns {
		out[k] = v
	}
	return out
}

func (it *interp) runFor(cc *ast.CompoundCommand) (int, error) {
	var words []string
	if cc.HasIn {
		for _, w := range cc.Words {
			s, err := it.evalWord(w)
			if err != nil {
				return 1, err
			}
			words = append(words, s)
		}
	} else {
		words = it.positional
	}

	status := 0
	for _, val := range words {
		it.env.Set(cc.Name, val)
		brk, s, err := it.runLoopBody(cc.Body)
		status = s
		if err != nil {
			return status, err
		}
		if brk {
			break
		}
	}
	return status, nil
}

func (it *interp) runWhileUntil(cc *ast.CompoundCommand, until bool) (int, error) {
	status := 0
	for {
		condStatus, err := it.runLogicalCommands(cc.Cond)
		if err != nil {
			return condStatus, err
		}
		proceed := condStatus == 0
		if until {
			proceed = !proceed
		}
		if !proceed {
			break
		}
		brk, s, err := it.runLoopBody(cc.Then)
		status = s
		if err != nil {
			return status, err
		}
		if brk {
			break
		}
	}
	return status, nil
}

// runLoopBody runs one iteration of a for/while/until body, translating a
// break/continue panic into a (brk, status, err) result for the caller's
// loop. An N>1 level re-panics with N-1 so an enclosing loop catches it.
func (it *interp) runLoopBody(body []*ast.LogicalCommand) (brk bool, status int, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch sig := r.(type) {
			case breakSignal:
				if sig.N > 1 {
					panic(breakSignal{N: sig.N - 1})
				}
				brk = true
			case continueSignal:
				if sig.N > 1 {
					panic(continueSignal{N: sig.N - 1})
				}
			default:
				panic(r)
			}
		}
	}()
	status, err = it.runLogicalCommands(body)
	return brk, status, err
}

func (it *interp) runIf(cc *ast.CompoundCommand) (int, error) {
	condStatus, err := it.runLogicalCommands(cc.Cond)
	if err != nil {
		return condStatus, err
	}
	if condStatus == 0 {
		return it.runLogicalCommands(cc.Then)
	}
	for _, elif := range cc.Elifs {
		condStatus, err = it.runLogicalCommands(elif.Cond)
		if err != nil {
			return condStatus, err
		}
		if condStatus == 0 {
			return it.runLogicalCommands(elif.Then)
		}
	}
	if cc.Else != nil {
		return it.runLogicalCommands(cc.Else)
	}
	return 0, nil
}

// runCase matches the case word against each item's patterns using
// shell-style globs (path/filepath.Match). Full case pattern matching is
// explicitly out of scope per spec.md §1 ("pattern matching for case");
// this is the external collaborator's minimal stand-in.
func (it *interp) runCase(cc *ast.CompoundCommand) (int, error) {
	word, err := it.evalWord(cc.CaseWord)
	if err != nil {
		return 1, err
	}
	for _, item := range cc.Cases {
		for _, pat := range item.Patterns {
			patStr, perr := it.evalWord(pat)
			if perr != nil {
				continue
			}
			if matched, _ := filepath.Match(patStr, word); matched || patStr == word {
				return it.runLogicalCommands(item.Commands)
			}
		}
	}
	return 0, nil
}

// applyRedirects opens/dups file handles for redirects and pushes them
// onto the executor's file table (spec.md §4.4), returning a cleanup that
// pops and closes whatever this call opened, in reverse order.
func (it *interp) applyRedirects(redirects []*ast.Redirect) (func(), error) {
	type applied struct {
		fd     int
		opened *os.File
	}
	var stack []applied
	cleanup := func() {
		for i := len(stack) - 1; i >= 0; i-- {
			e := stack[i]
			it.ex.Files.PopFile(e.fd)
			if e.opened != nil {
				e.opened.Close()
			}
		}
	}

	for _, r := range redirects {
		fd := r.FD
		if fd == -1 {
			fd = defaultRedirectFD(r.Op)
		}

		switch r.Op {
		case ast.RedirIn:
			path, err := it.evalWord(r.Word)
			if err != nil {
				cleanup()
				return nil, err
			}
			f, err := os.Open(path)
			if err != nil {
				cleanup()
				return nil, err
			}
			it.ex.Files.PushFileAndSetSavedFile(fd, f)
			stack = append(stack, applied{fd, f})

		case ast.RedirOut, ast.RedirClobber:
			path, err := it.evalWord(r.Word)
			if err != nil {
				cleanup()
				return nil, err
			}
			f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
			if err != nil {
				cleanup()
				return nil, err
			}
			it.ex.Files.PushFileAndSetSavedFile(fd, f)
			stack = append(stack, applied{fd, f})

		case ast.RedirAppend:
			path, err := it.evalWord(r.Word)
			if err != nil {
				cleanup()
				return nil, err
			}
			f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
			if err != nil {
				cleanup()
				return nil, err
			}
			it.ex.Files.PushFileAndSetSavedFile(fd, f)
			stack = append(stack, applied{fd, f})

		case ast.RedirInOut:
			path, err := it.evalWord(r.Word)
			if err != nil {
				cleanup()
				return nil, err
			}
			f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
			if err != nil {
				cleanup()
				return nil, err
			}
			it.ex.Files.PushFileAndSetSavedFile(fd, f)
			stack = append(stack, applied{fd, f})

		case ast.RedirDupIn, ast.RedirDupOut:
			target, err := it.evalWord(r.Word)
			if err != nil {
				cleanup()
				return nil, err
			}
			if target == "-" {
				// Closing a descriptor has no representation in FileTable
				// (every slot must hold a handle); left as a no-op.
				continue
			}
			n, err := strconv.Atoi(target)
			if err != nil {
				cleanup()
				return nil, fmt.Errorf("gosh: %s: bad file descriptor", target)
			}
			h := it.ex.Files.CurrentFile(n)
			if h == nil {
				cleanup()
				return nil, fmt.Errorf("gosh: %d: bad file descriptor", n)
			}
			it.ex.Files.PushFileAndSetSavedFile(fd, h)
			stack = append(stack, applied{fd, nil})

		case ast.RedirHereDoc, ast.RedirHereDocTab:
			text, err := it.hereDocText(r.HereDoc)
			if err != nil {
				cleanup()
				return nil, err
			}
			rf, wf, err := os.Pipe()
			if err != nil {
				cleanup()
				return nil, err
			}
			go func(data string) {
				io.WriteString(wf, data)
				wf.Close()
			}(text)
			it.ex.Files.PushFileAndSetSavedFile(fd, rf)
			stack = append(stack, applied{fd, rf})
		}
	}
	return cleanup, nil
}

func defaultRedirectFD(op ast.RedirectOp) int {
	switch op {
	case ast.RedirIn, ast.RedirHereDoc, ast.RedirHereDocTab, ast.RedirDupIn, ast.RedirInOut:
		return 0
	default:
		return 1
	}
}

func (it *interp) hereDocText(hd *ast.HereDoc) (string, error) {
	var buf strings.Builder
	for _, el := range hd.Elements {
		s, err := it.evalElement(el)
		if err != nil {
			return "", err
		}
		buf.WriteString(s)
	}
	text := buf.String()
	if hd.HasMinus {
		lines := strings.Split(text, "\n")
		for i, l := range lines {
			lines[i] = strings.TrimLeft(l, "\t")
		}
		text = strings.Join(lines, "\n")
	}
	return text, nil
}

// withCapturedStdout returns a sibling interp whose stdout is redirected
// into buf, for $(...) / `...` command substitution (spec.md §6). The
// sibling gets its own Executor so the capture pipe doesn't alias the
// parent's file table.
func (it *interp) withCapturedStdout(buf *bytes.Buffer) *interp {
	child := &interp{
		env:        it.env,
		settings:   it.settings,
		builtins:   it.builtins,
		functions:  it.functions,
		positional: it.positional,
		lastStatus: it.lastStatus,
		shellPid:   it.shellPid,
		lastBgPid:  it.lastBgPid,
		scriptName: it.scriptName,
	}
	child.ex = exec.New(it.env, it.settings, child.lookupFunction, child.lookupBuiltin)

	r, w, err := os.Pipe()
	if err != nil {
		child.captureDone = func() {}
		return child
	}
	child.ex.Files.PushFileAndSetSavedFile(1, w)
	done := make(chan struct{})
	go func() {
		io.Copy(buf, r)
		close(done)
	}()
	child.captureDone = func() {
		w.Close()
		<-done
		r.Close()
	}
	return child
}
