package main

import (
	"bufio"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/gosh/internal/parser"
	"github.com/aledsdavies/gosh/internal/shellenv"
	"github.com/aledsdavies/gosh/internal/source"
)

// runScript parses and runs script with stdout captured, returning what was
// written to it and the interpreter's exit code.
func runScript(t *testing.T, script string) (string, int) {
	t.Helper()

	p := parser.New(source.New(strings.NewReader(script), ""))
	cmds, perr := p.ParseProgram()
	require.Nil(t, perr, "parse error: %v", perr)

	env := shellenv.NewEnvironment()
	it := newInterp(env, &shellenv.Settings{}, "gosh", nil)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	it.ex.Files.PushFile(1, w)

	done := make(chan string)
	go func() {
		var out strings.Builder
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			out.WriteString(scanner.Text())
			out.WriteByte('\n')
		}
		done <- out.String()
	}()

	code := it.Run(cmds)
	w.Close()
	out := <-done
	r.Close()
	return out, code
}

func TestRunEchoWritesToStdout(t *testing.T) {
	t.Parallel()

	out, code := runScript(t, "echo hello world\n")
	assert.Equal(t, "hello world\n", out)
	assert.Equal(t, 0, code)
}

func TestRunIfElse(t *testing.T) {
	t.Parallel()

	out, code := runScript(t, "if false; then echo yes; else echo no; fi\n")
	assert.Equal(t, "no\n", out)
	assert.Equal(t, 0, code)
}

func TestRunForLoopOverWords(t *testing.T) {
	t.Parallel()

	out, _ := runScript(t, "for x in a b c; do echo $x; done\n")
	assert.Equal(t, "a\nb\nc\n", out)
}

func TestRunWhileLoopWithArithmeticBreak(t *testing.T) {
	t.Parallel()

	out, _ := runScript(t, `
i=0
while true; do
  i=$((i + 1))
  echo $i
  case $i in
    3) break ;;
  esac
done
`)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestRunCaseStatement(t *testing.T) {
	t.Parallel()

	out, _ := runScript(t, "case foo in foo) echo matched;; *) echo nope;; esac\n")
	assert.Equal(t, "matched\n", out)
}

func TestRunCaseGlobPattern(t *testing.T) {
	t.Parallel()

	out, _ := runScript(t, "case hello in h*) echo starts-with-h;; *) echo no;; esac\n")
	assert.Equal(t, "starts-with-h\n", out)
}

func TestRunFunctionDefinitionAndCall(t *testing.T) {
	t.Parallel()

	out, _ := runScript(t, "greet() { echo hi $1; }\ngreet world\n")
	assert.Equal(t, "hi world\n", out)
}

func TestRunFunctionReturnValue(t *testing.T) {
	t.Parallel()

	out, code := runScript(t, `
f() { return 3; }
f
echo $?
`)
	assert.Equal(t, "3\n", out)
	assert.Equal(t, 0, code)
}

func TestRunCommandSubstitution(t *testing.T) {
	t.Parallel()

	out, _ := runScript(t, "echo $(echo nested)\n")
	assert.Equal(t, "nested\n", out)
}

func TestRunArithmeticExpansion(t *testing.T) {
	t.Parallel()

	out, _ := runScript(t, "echo $((2 + 3 * 4))\n")
	assert.Equal(t, "14\n", out)
}

func TestRunParameterDefaultExpansion(t *testing.T) {
	t.Parallel()

	out, _ := runScript(t, "echo ${UNSET:-fallback}\n")
	assert.Equal(t, "fallback\n", out)
}

func TestRunExitCodePropagates(t *testing.T) {
	t.Parallel()

	_, code := runScript(t, "exit 42\n")
	assert.Equal(t, 42, code)
}

func TestRunBraceGroup(t *testing.T) {
	t.Parallel()

	out, _ := runScript(t, "{ echo a; echo b; }\n")
	assert.Equal(t, "a\nb\n", out)
}

func TestRunSubshellVariableIsolation(t *testing.T) {
	t.Parallel()

	out, _ := runScript(t, "x=outer\n(x=inner; echo $x)\necho $x\n")
	assert.Equal(t, "inner\nouter\n", out)
}

func TestRunLogicalAndShortCircuits(t *testing.T) {
	t.Parallel()

	out, _ := runScript(t, "false && echo unreachable\n")
	assert.Equal(t, "", out)
}

func TestRunLogicalOrRunsOnFailure(t *testing.T) {
	t.Parallel()

	out, _ := runScript(t, "false || echo fallback\n")
	assert.Equal(t, "fallback\n", out)
}

func TestRunPipelineThroughExternalCat(t *testing.T) {
	t.Parallel()

	out, _ := runScript(t, "echo piped | cat\n")
	assert.Equal(t, "piped\n", out)
}
