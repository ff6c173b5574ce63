package exec

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// CreateProcess implements spec §4.8's `create_process(is_background,
// settings, body) → pid?`. In Go, "the body" an external command realizes
// is always, ultimately, an execve of some other program, so the fork/
// no-fork choice maps onto two distinct kernel operations rather than two
// branches of the same one:
//
//   - no-fork fast path: when the executor is already running inside a
//     freshly forked process (state.top() == InNewProcess) and the call is
//     in the foreground, there is nothing left for that process to do once
//     this command finishes, so the core replaces its image in place with
//     unix.Exec instead of spawning a second process — the same
//     optimization spec §4.8 describes, expressed as process-image
//     replacement rather than a skipped fork.
//   - fork path: otherwise a genuinely new process is started with
//     os.StartProcess, inheriting the current file-descriptor snapshot and
//     its own process group for job control.
//
// On success CreateProcess returns the pid (0 in the no-fork path, since
// no new pid was allocated) and, for a foreground, fork-path command, its
// terminal wait status; background commands return immediately with
// WaitNone.
func (ex *Executor) CreateProcess(background bool, cmd ExternalCommand) (pid int, status WaitStatus, err error) {
	if ex.state.top() == InNewProcess && !background {
		ex.state.push(InNewProcess)
		defer ex.state.pop()

		execErr := unix.Exec(cmd.Path, cmd.Argv, cmd.Envp)
		// unix.Exec only returns on failure; the caller's process image
		// survives to report it.
		return 0, WaitStatus{Kind: WaitExited, Code: 127}, execErr
	}

	attr := &os.ProcAttr{
		Env:   cmd.Envp,
		Files: ex.orderedFiles(),
		Sys:   &syscall.SysProcAttr{Setpgid: true},
	}

	proc, startErr := os.StartProcess(cmd.Path, cmd.Argv, attr)
	if startErr != nil {
		return 0, WaitStatus{}, startErr
	}
	if background {
		return proc.Pid, WaitStatus{Kind: WaitNone}, nil
	}

	ws, waitErr := ex.WaitForProcess(proc.Pid)
	return proc.Pid, ws, waitErr
}

// orderedFiles materializes the file table's current snapshot as a dense
// []*os.File indexed by descriptor number, the shape os.StartProcess
// expects for ProcAttr.Files. Gaps below the highest live descriptor are
// left nil, which os.StartProcess treats as closed in the child.
func (ex *Executor) orderedFiles() []*os.File {
	snap := ex.Files.Snapshot()
	max := -1
	for n := range snap {
		if n > max {
			max = n
		}
	}
	files := make([]*os.File, max+1)
	for n, h := range snap {
		files[n] = h
	}
	return files
}

// WaitForProcess implements spec §4.8's `wait_for_process`: block on one
// child, translate its kernel wait status into the executor's WaitStatus
// variant. A pid of 0 denotes the no-fork background case, where spec §4.8
// says the wait returns immediately with Exited(0): no child was ever
// allocated, so there is nothing to reap.
func (ex *Executor) WaitForProcess(pid int) (WaitStatus, error) {
	if pid == 0 {
		return WaitStatus{Kind: WaitExited, Code: 0}, nil
	}
	var ws unix.WaitStatus
	for {
		_, err := unix.Wait4(pid, &ws, 0, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return WaitStatus{}, err
		}
		return FromUnix(ws), nil
	}
}
