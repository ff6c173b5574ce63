package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/gosh/internal/ast"
	"github.com/aledsdavies/gosh/internal/source"
)

func newLexer(t *testing.T, input string) *Lexer {
	t.Helper()
	return New(source.New(strings.NewReader(input), ""))
}

func allTokens(t *testing.T, l *Lexer) []Token {
	t.Helper()
	var out []Token
	for {
		tok, err := l.NextToken()
		require.NoError(t, err)
		out = append(out, tok)
		if tok.Kind == EOF {
			return out
		}
	}
}

func TestLexOperators(t *testing.T) {
	t.Parallel()

	l := newLexer(t, "; ;; & && | || ( ) !")
	toks := allTokens(t, l)

	kinds := make([]Kind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []Kind{Semi, DSemi, Amp, AndAnd, Pipe, OrOr, LParen, RParen, Bang, EOF}, kinds)
}

func TestLexSimpleWord(t *testing.T) {
	t.Parallel()

	l := newLexer(t, "echo")
	tok, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, Word, tok.Kind)
	assert.Equal(t, "echo", tok.Value)
}

func TestLexKeywordOnlyInFirstWordState(t *testing.T) {
	t.Parallel()

	l := newLexer(t, "if")
	l.State.PushKind(FirstWord)
	tok, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, Keyword, tok.Kind)
	assert.Equal(t, "if", tok.Value)
}

func TestLexKeywordWordIsPlainWordOutsideFirstWord(t *testing.T) {
	t.Parallel()

	l := newLexer(t, "if")
	tok, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, Word, tok.Kind)
}

func TestLexSingleQuotedWord(t *testing.T) {
	t.Parallel()

	l := newLexer(t, `'a b'`)
	tok, err := l.NextToken()
	require.NoError(t, err)
	require.Len(t, tok.Elements, 1)
	sq, ok := tok.Elements[0].(ast.SingleQuoted)
	require.True(t, ok)
	assert.Equal(t, "a b", sq.Value)
}

func TestLexDoubleQuotedWordWithParameter(t *testing.T) {
	t.Parallel()

	l := newLexer(t, `"hi $x"`)
	tok, err := l.NextToken()
	require.NoError(t, err)
	require.Len(t, tok.Elements, 1)
	dq, ok := tok.Elements[0].(ast.DoubleQuoted)
	require.True(t, ok)
	require.Len(t, dq.Parts, 2)
	assert.Equal(t, ast.Literal{Position: dq.Parts[0].(ast.Literal).Position, Value: "hi "}, dq.Parts[0])
	param, ok := dq.Parts[1].(ast.Parameter)
	require.True(t, ok)
	assert.Equal(t, "x", param.Name)
}

func TestLexRedirectOperators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		op    ast.RedirectOp
	}{
		{"<", ast.RedirIn},
		{">", ast.RedirOut},
		{">>", ast.RedirAppend},
		{"<>", ast.RedirInOut},
		{"<&", ast.RedirDupIn},
		{">&", ast.RedirDupOut},
		{">|", ast.RedirClobber},
		{"<<", ast.RedirHereDoc},
		{"<<-", ast.RedirHereDocTab},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			l := newLexer(t, tt.input)
			tok, err := l.NextToken()
			require.NoError(t, err)
			assert.Equal(t, Redirect, tok.Kind)
			assert.Equal(t, tt.op, tok.RedirOp)
			assert.Equal(t, -1, tok.FD)
		})
	}
}

func TestLexFDPrefixedRedirect(t *testing.T) {
	t.Parallel()

	l := newLexer(t, "2>")
	tok, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, Redirect, tok.Kind)
	assert.Equal(t, ast.RedirOut, tok.RedirOp)
	assert.Equal(t, 2, tok.FD)
}

func TestLexDigitsNotFollowedByRedirectAreAWord(t *testing.T) {
	t.Parallel()

	l := newLexer(t, "123")
	tok, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, Word, tok.Kind)
	assert.Equal(t, "123", tok.Value)
}

func TestLexCommentIsSkipped(t *testing.T) {
	t.Parallel()

	l := newLexer(t, "echo # trailing comment\n")
	toks := allTokens(t, l)
	require.Len(t, toks, 3)
	assert.Equal(t, Word, toks[0].Kind)
	assert.Equal(t, Newline, toks[1].Kind)
	assert.Equal(t, EOF, toks[2].Kind)
}

func TestLexLineContinuationIsInvisible(t *testing.T) {
	t.Parallel()

	l := newLexer(t, "ab\\\ncd")
	tok, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, Word, tok.Kind)
	assert.Equal(t, "abcd", tok.Value)
}

func TestUngetTokenReplaysExactToken(t *testing.T) {
	t.Parallel()

	l := newLexer(t, "echo hi")
	first, err := l.NextToken()
	require.NoError(t, err)

	l.UngetToken(first)
	replayed, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, first, replayed)
}

func TestStateStackBraceOnlyInFirstWord(t *testing.T) {
	t.Parallel()

	l := newLexer(t, "{")
	l.State.PushKind(FirstWord)
	tok, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, LBrace, tok.Kind)
}

func TestBraceIsWordCharacterOutsideFirstWord(t *testing.T) {
	t.Parallel()

	l := newLexer(t, "{")
	tok, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, Word, tok.Kind)
	assert.Equal(t, "{", tok.Value)
}

func TestStackPushPopBalance(t *testing.T) {
	t.Parallel()

	s := NewStack()
	assert.Equal(t, 1, s.Depth())
	s.PushKind(InCommandSubstitution)
	assert.Equal(t, 2, s.Depth())
	assert.Equal(t, InCommandSubstitution, s.Top().Kind)
	s.Pop()
	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, Initial, s.Top().Kind)
}
