package exec

import (
	"os"

	"github.com/aledsdavies/gosh/internal/invariant"
)

// FileTable is the executor's per-descriptor file-stack model (spec §4.4):
// for each descriptor number it maintains a current stack (handles pushed
// by redirection, top visible to the child/builtin as that descriptor)
// and a saved slot (the descriptor's state before the current scope's
// redirection began). Multiple descriptor slots may alias the same handle
// by reference; FileTable never dup()s on push.
type FileTable struct {
	stacks map[int][]*os.File
	saved  map[int]*os.File
}

// NewFileTable returns an empty table with standard input/output/error
// installed on descriptors 0, 1, 2.
func NewFileTable() *FileTable {
	t := &FileTable{stacks: make(map[int][]*os.File), saved: make(map[int]*os.File)}
	t.PushFile(0, os.Stdin)
	t.PushFile(1, os.Stdout)
	t.PushFile(2, os.Stderr)
	return t
}

// PushFile pushes h onto descriptor n's stack.
func (t *FileTable) PushFile(n int, h *os.File) {
	invariant.NotNil(h, "file handle")
	t.stacks[n] = append(t.stacks[n], h)
}

// PushFileAndSetSavedFile pushes h and records it as descriptor n's saved
// state; used once per descriptor per scope, before any nested pushes
// (spec §4.4).
func (t *FileTable) PushFileAndSetSavedFile(n int, h *os.File) {
	t.saved[n] = t.CurrentFile(n)
	t.PushFile(n, h)
}

// PopFile removes the top of descriptor n's stack; a no-op if empty.
func (t *FileTable) PopFile(n int) {
	stk := t.stacks[n]
	if len(stk) == 0 {
		return
	}
	t.stacks[n] = stk[:len(stk)-1]
}

// PopPenultimateFile removes the element just below the top of descriptor
// n's stack, used when a temporary wrapper handle was inserted beneath the
// caller's own handle (spec §4.4).
func (t *FileTable) PopPenultimateFile(n int) {
	stk := t.stacks[n]
	if len(stk) < 2 {
		return
	}
	top := stk[len(stk)-1]
	t.stacks[n] = append(stk[:len(stk)-2], top)
}

// CurrentFile inspects descriptor n's top handle without removing it; nil
// if the stack is empty.
func (t *FileTable) CurrentFile(n int) *os.File {
	stk := t.stacks[n]
	if len(stk) == 0 {
		return nil
	}
	return stk[len(stk)-1]
}

// SavedFile inspects descriptor n's saved slot; nil if none was recorded.
func (t *FileTable) SavedFile(n int) *os.File {
	return t.saved[n]
}

// ClearFiles drops every stack and saved slot.
func (t *FileTable) ClearFiles() {
	t.stacks = make(map[int][]*os.File)
	t.saved = make(map[int]*os.File)
}

// Snapshot returns the current top handle for every descriptor that has
// one, used to build a child process's inherited file set (spec §4.8).
func (t *FileTable) Snapshot() map[int]*os.File {
	out := make(map[int]*os.File, len(t.stacks))
	for n := range t.stacks {
		if h := t.CurrentFile(n); h != nil {
			out[n] = h
		}
	}
	return out
}
