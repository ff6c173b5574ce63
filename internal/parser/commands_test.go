package parser

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/gosh/internal/ast"
	"github.com/aledsdavies/gosh/internal/source"
)

func TestParseBacktickCommandSubstitution(t *testing.T) {
	t.Parallel()

	cmds := mustParse(t, "echo `echo nested`\n")
	require.Len(t, cmds, 1)
	sc := cmds[0].First.Commands[0].Simple
	require.Len(t, sc.Words, 2)
	require.Len(t, sc.Words[1].Elements, 1)

	sub, ok := sc.Words[1].Elements[0].(ast.CommandSubstitution)
	require.True(t, ok)
	assert.True(t, sub.Backtick)
	require.Len(t, sub.Commands, 1)
	inner := sub.Commands[0].First.Commands[0].Simple
	assert.Equal(t, "echo", literalText(t, inner.Words[0]))
	assert.Equal(t, "nested", literalText(t, inner.Words[1]))
}

func TestParseFunctionDefinitionFallsBackOnMismatchedParens(t *testing.T) {
	t.Parallel()

	// "greet( echo" never completes the "()" lookahead, so it must be
	// rejected rather than silently parsed as a function.
	p := New(source.New(strings.NewReader("greet( echo\n"), ""))
	_, err := p.ParseProgram()
	require.NotNil(t, err)
}

func TestWithLoggerOptionIsAttached(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	lg := slog.New(slog.NewTextHandler(&buf, nil))
	p := New(source.New(strings.NewReader("echo hi\n"), ""), WithLogger(lg))
	_, err := p.ParseProgram()
	require.Nil(t, err)
	assert.Same(t, lg, p.logger)
}

func TestParseEmptyInputProducesNoCommands(t *testing.T) {
	t.Parallel()

	cmds := mustParse(t, "")
	assert.Empty(t, cmds)
}

func TestParseCommentOnlyLineProducesNoCommands(t *testing.T) {
	t.Parallel()

	cmds := mustParse(t, "# just a comment\n")
	assert.Empty(t, cmds)
}

func TestParseCaseItemWithMultiplePatterns(t *testing.T) {
	t.Parallel()

	cmds := mustParse(t, "case x in a|b|c) echo matched;; esac\n")
	require.Len(t, cmds, 1)
	cc := cmds[0].First.Commands[0].Compound
	require.Len(t, cc.Cases, 1)
	require.Len(t, cc.Cases[0].Patterns, 3)
	assert.Equal(t, "a", literalText(t, cc.Cases[0].Patterns[0]))
	assert.Equal(t, "b", literalText(t, cc.Cases[0].Patterns[1]))
	assert.Equal(t, "c", literalText(t, cc.Cases[0].Patterns[2]))
}
