package exec

import "os"

// PipeEnd is one (reader, writer) pair of a transient pipe list set up
// before a pipeline executes (spec §4.5).
type PipeEnd struct {
	Reader *os.File
	Writer *os.File
}

// PipeList is the executor's transient pipe-wiring state for the pipeline
// currently being built.
type PipeList struct {
	pipes []PipeEnd
}

// SetPipes installs list as the current pipe list, replacing any previous
// one (spec §4.5 "set_pipes").
func (p *PipeList) SetPipes(list []PipeEnd) {
	p.pipes = list
}

// Pipes returns the current pipe list.
func (p *PipeList) Pipes() []PipeEnd {
	return p.pipes
}

// ClearPipes closes every pipe end still referenced by the list and drops
// it (spec §4.5/§5: "clear_pipes after fan-out ensures unused copies are
// closed in the parent promptly").
func (p *PipeList) ClearPipes() {
	for _, pe := range p.pipes {
		if pe.Reader != nil {
			pe.Reader.Close()
		}
		if pe.Writer != nil {
			pe.Writer.Close()
		}
	}
	p.pipes = nil
}
