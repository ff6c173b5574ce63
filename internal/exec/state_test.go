package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewExecStateStackStartsAtInitial(t *testing.T) {
	t.Parallel()

	s := newExecStateStack()
	assert.Equal(t, Initial, s.top())
}

func TestExecStateStackPushAndPop(t *testing.T) {
	t.Parallel()

	s := newExecStateStack()
	s.push(InNewProcess)
	assert.Equal(t, InNewProcess, s.top())

	s.push(InInterpreter)
	assert.Equal(t, InInterpreter, s.top())

	s.pop()
	assert.Equal(t, InNewProcess, s.top())

	s.pop()
	assert.Equal(t, Initial, s.top())
}

func TestExecStateStackPopAtDepthOneIsANoOp(t *testing.T) {
	t.Parallel()

	s := newExecStateStack()
	s.pop()
	assert.Equal(t, Initial, s.top())
}
