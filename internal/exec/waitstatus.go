// Package exec implements the process-and-file orchestration layer of
// spec §4.4-4.8: per-descriptor file stacks, a job table, fork/exec
// dispatch, and the no-fork optimization for already-forked contexts.
package exec

import "golang.org/x/sys/unix"

// WaitStatusKind discriminates the WaitStatus variants of spec §3/§4.6.
type WaitStatusKind int

const (
	WaitNone WaitStatusKind = iota
	WaitExited
	WaitSignaled
	WaitStopped
	WaitContinued
)

// WaitStatus is the tagged variant `{ None, Exited(code), Signaled(sig,
// coredump), Stopped(sig), Continued }` of spec §4.6.
type WaitStatus struct {
	Kind     WaitStatusKind
	Code     int
	Signal   unix.Signal
	CoreDump bool
}

// ExitCode translates a WaitStatus into the shell's reported exit code
// (spec §6 "Exit codes"): the child's exit status modulo 256, or 128+signal
// for signaled termination.
func (w WaitStatus) ExitCode() int {
	switch w.Kind {
	case WaitExited:
		return w.Code % 256
	case WaitSignaled:
		return 128 + int(w.Signal)
	default:
		return 0
	}
}

// FromUnix translates a kernel wait status into the executor's tagged
// variant (spec §4.8 "translates kernel-level wait status").
func FromUnix(ws unix.WaitStatus) WaitStatus {
	switch {
	case ws.Exited():
		return WaitStatus{Kind: WaitExited, Code: ws.ExitStatus()}
	case ws.Signaled():
		return WaitStatus{Kind: WaitSignaled, Signal: ws.Signal(), CoreDump: ws.CoreDump()}
	case ws.Stopped():
		return WaitStatus{Kind: WaitStopped, Signal: ws.StopSignal()}
	case ws.Continued():
		return WaitStatus{Kind: WaitContinued}
	default:
		return WaitStatus{Kind: WaitNone}
	}
}
