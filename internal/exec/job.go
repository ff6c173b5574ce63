package exec

// Job records one pipeline's worth of process-group bookkeeping (spec §3
// "Job table"): its leader pid, process-group id, all constituent pids,
// per-process statuses, per-process names, an aggregate display name, a
// show flag, and prev/next sibling ids forming an insertion-ordered linked
// list.
type Job struct {
	ID      int
	Pgid    int
	Pids    []int
	Statuses []WaitStatus
	Names   []string
	Name    string
	ShowFlag bool

	prevID int
	nextID int
}

// JobTable is the executor's job table: an id-keyed map plus an
// insertion-ordered doubly linked chain, with current/previous-current
// pointers (spec §3/§4.6).
type JobTable struct {
	jobs    map[int]*Job
	headID  int
	tailID  int
	current int
	prevCur int
}

const noJob = 0

// NewJobTable returns an empty job table.
func NewJobTable() *JobTable {
	return &JobTable{jobs: make(map[int]*Job)}
}

// AddJob assigns the smallest unused positive id, appends j to the chain,
// and makes it current (spec §4.6/§3 "Job allocation").
func (t *JobTable) AddJob(j *Job) int {
	id := 1
	for {
		if _, used := t.jobs[id]; !used {
			break
		}
		id++
	}
	j.ID = id
	j.prevID = t.tailID
	j.nextID = noJob
	if t.tailID != noJob {
		t.jobs[t.tailID].nextID = id
	}
	if t.headID == noJob {
		t.headID = id
	}
	t.tailID = id
	t.jobs[id] = j

	t.prevCur = t.current
	t.current = id
	return id
}

// RemoveJob unlinks id from the chain and removes it from the map; if it
// was current, its predecessor becomes current (spec §4.6).
func (t *JobTable) RemoveJob(id int) {
	j, ok := t.jobs[id]
	if !ok {
		return
	}
	if j.prevID != noJob {
		t.jobs[j.prevID].nextID = j.nextID
	} else {
		t.headID = j.nextID
	}
	if j.nextID != noJob {
		t.jobs[j.nextID].prevID = j.prevID
	} else {
		t.tailID = j.prevID
	}
	delete(t.jobs, id)

	if t.current == id {
		t.current = j.prevID
		t.prevCur = noJob
		if cur, ok := t.jobs[t.current]; ok {
			t.prevCur = cur.prevID
		}
	} else if t.prevCur == id {
		t.prevCur = j.prevID
	}
}

// CurrentJobID returns the tail of the insertion chain (spec §4.6).
func (t *JobTable) CurrentJobID() int { return t.current }

// PrevCurrentJobID returns the penultimate entry of the chain.
func (t *JobTable) PrevCurrentJobID() int { return t.prevCur }

// Job looks up a job by id.
func (t *JobTable) Job(id int) (*Job, bool) {
	j, ok := t.jobs[id]
	return j, ok
}

// SetJobStatus sets the status of process idx within job id.
func (t *JobTable) SetJobStatus(id, idx int, ws WaitStatus) {
	if j, ok := t.jobs[id]; ok && idx >= 0 && idx < len(j.Statuses) {
		j.Statuses[idx] = ws
	}
}

// SetJobStatuses replaces every process status of job id.
func (t *JobTable) SetJobStatuses(id int, statuses []WaitStatus) {
	if j, ok := t.jobs[id]; ok {
		j.Statuses = statuses
	}
}

// SetJobLastStatus sets the status of the last process in job id, the one
// whose exit status represents the pipeline's overall status.
func (t *JobTable) SetJobLastStatus(id int, ws WaitStatus) {
	if j, ok := t.jobs[id]; ok && len(j.Statuses) > 0 {
		j.Statuses[len(j.Statuses)-1] = ws
	}
}

// SetJobShowFlag sets job id's display flag.
func (t *JobTable) SetJobShowFlag(id int, show bool) {
	if j, ok := t.jobs[id]; ok {
		j.ShowFlag = show
	}
}
