package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddJobAssignsSmallestUnusedID(t *testing.T) {
	t.Parallel()

	jt := NewJobTable()
	id1 := jt.AddJob(&Job{Pgid: 100})
	id2 := jt.AddJob(&Job{Pgid: 200})
	assert.Equal(t, 1, id1)
	assert.Equal(t, 2, id2)

	jt.RemoveJob(id1)
	id3 := jt.AddJob(&Job{Pgid: 300})
	assert.Equal(t, 1, id3, "the freed id should be reused before allocating a new one")
}

func TestAddJobMakesItCurrentAndTracksPrevious(t *testing.T) {
	t.Parallel()

	jt := NewJobTable()
	id1 := jt.AddJob(&Job{Pgid: 100})
	assert.Equal(t, id1, jt.CurrentJobID())

	id2 := jt.AddJob(&Job{Pgid: 200})
	assert.Equal(t, id2, jt.CurrentJobID())
	assert.Equal(t, id1, jt.PrevCurrentJobID())
}

func TestJobLooksUpByID(t *testing.T) {
	t.Parallel()

	jt := NewJobTable()
	id := jt.AddJob(&Job{Pgid: 42, Name: "sleep 5"})

	j, ok := jt.Job(id)
	require.True(t, ok)
	assert.Equal(t, 42, j.Pgid)
	assert.Equal(t, "sleep 5", j.Name)

	_, ok = jt.Job(id + 1)
	assert.False(t, ok)
}

func TestRemoveJobUnlinksFromChain(t *testing.T) {
	t.Parallel()

	jt := NewJobTable()
	id1 := jt.AddJob(&Job{Pgid: 1})
	id2 := jt.AddJob(&Job{Pgid: 2})
	id3 := jt.AddJob(&Job{Pgid: 3})

	jt.RemoveJob(id2)

	_, ok := jt.Job(id2)
	assert.False(t, ok)
	_, ok = jt.Job(id1)
	assert.True(t, ok)
	_, ok = jt.Job(id3)
	assert.True(t, ok)
}

func TestRemoveCurrentJobFallsBackToPredecessor(t *testing.T) {
	t.Parallel()

	jt := NewJobTable()
	id1 := jt.AddJob(&Job{Pgid: 1})
	id2 := jt.AddJob(&Job{Pgid: 2})
	assert.Equal(t, id2, jt.CurrentJobID())

	jt.RemoveJob(id2)
	assert.Equal(t, id1, jt.CurrentJobID())
}

func TestRemoveUnknownJobIsANoOp(t *testing.T) {
	t.Parallel()

	jt := NewJobTable()
	id := jt.AddJob(&Job{Pgid: 1})
	jt.RemoveJob(id + 99)

	_, ok := jt.Job(id)
	assert.True(t, ok)
}

func TestSetJobStatusUpdatesOneProcess(t *testing.T) {
	t.Parallel()

	jt := NewJobTable()
	id := jt.AddJob(&Job{Statuses: make([]WaitStatus, 2)})

	jt.SetJobStatus(id, 0, WaitStatus{Kind: WaitExited, Code: 7})
	j, _ := jt.Job(id)
	assert.Equal(t, 7, j.Statuses[0].Code)
	assert.Equal(t, WaitStatus{}, j.Statuses[1])
}

func TestSetJobStatusIgnoresOutOfRangeIndex(t *testing.T) {
	t.Parallel()

	jt := NewJobTable()
	id := jt.AddJob(&Job{Statuses: make([]WaitStatus, 1)})
	jt.SetJobStatus(id, 5, WaitStatus{Kind: WaitExited, Code: 1})

	j, _ := jt.Job(id)
	assert.Equal(t, WaitStatus{}, j.Statuses[0])
}

func TestSetJobStatusesReplacesAll(t *testing.T) {
	t.Parallel()

	jt := NewJobTable()
	id := jt.AddJob(&Job{})
	want := []WaitStatus{{Kind: WaitExited, Code: 0}, {Kind: WaitExited, Code: 1}}
	jt.SetJobStatuses(id, want)

	j, _ := jt.Job(id)
	assert.Equal(t, want, j.Statuses)
}

func TestSetJobLastStatusUpdatesOnlyFinalProcess(t *testing.T) {
	t.Parallel()

	jt := NewJobTable()
	id := jt.AddJob(&Job{Statuses: []WaitStatus{{Code: 0}, {Code: 0}}})
	jt.SetJobLastStatus(id, WaitStatus{Kind: WaitExited, Code: 9})

	j, _ := jt.Job(id)
	assert.Equal(t, 0, j.Statuses[0].Code)
	assert.Equal(t, 9, j.Statuses[1].Code)
}

func TestSetJobShowFlag(t *testing.T) {
	t.Parallel()

	jt := NewJobTable()
	id := jt.AddJob(&Job{})
	jt.SetJobShowFlag(id, true)

	j, _ := jt.Job(id)
	assert.True(t, j.ShowFlag)
}
