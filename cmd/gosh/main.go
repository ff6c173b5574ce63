// Command gosh is the thin external driver of spec.md §1: flag parsing,
// interactive-vs-script source detection, and wiring source -> lexer ->
// parser -> executor. It performs none of the lexer/parser/executor logic
// itself (SPEC_FULL.md §2).
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aledsdavies/gosh/internal/config"
	"github.com/aledsdavies/gosh/internal/parser"
	"github.com/aledsdavies/gosh/internal/shellenv"
	"github.com/aledsdavies/gosh/internal/source"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		cmdString  string
		configPath string
		verbose    bool
		xtrace     bool
		monitor    bool
		noExec     bool
	)

	rootCmd := &cobra.Command{
		Use:           "gosh [script] [args...]",
		Short:         "A POSIX-conformant shell",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("loading settings: %w", err)
			}
			settings.VerboseFlag = settings.VerboseFlag || verbose
			settings.XTraceFlag = settings.XTraceFlag || xtrace
			settings.MonitorFlag = settings.MonitorFlag || monitor
			settings.NoExecFlag = settings.NoExecFlag || noExec

			code, runErr := runShell(cmdString, args, settings)
			if runErr != nil {
				return runErr
			}
			exitCode = code
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&cmdString, "command", "c", "", "read commands from the given string")
	rootCmd.Flags().StringVar(&configPath, "config", "", "YAML settings file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "echo input lines as they are read")
	rootCmd.Flags().BoolVarP(&xtrace, "xtrace", "x", false, "print each command before execution")
	rootCmd.Flags().BoolVarP(&monitor, "monitor", "m", false, "enable job control")
	rootCmd.Flags().BoolVarP(&noExec, "noexec", "n", false, "read commands but do not execute them")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gosh:", err)
		return 1
	}
	return exitCode
}

// exitCode carries RunE's result past cobra.Command.Execute, which only
// reports error/no-error rather than an arbitrary process exit code.
var exitCode int

func runShell(cmdString string, args []string, settings *shellenv.Settings) (int, error) {
	env := shellenv.NewEnvironment()

	var (
		src        *source.Source
		scriptName string
		positional []string
	)

	switch {
	case cmdString != "":
		scriptName = "gosh"
		positional = args
		src = source.New(strings.NewReader(cmdString), "")

	case len(args) > 0:
		scriptName = args[0]
		positional = args[1:]
		f, err := os.Open(args[0])
		if err != nil {
			return 1, fmt.Errorf("%s: %w", args[0], err)
		}
		defer f.Close()
		src = source.New(f, args[0])

	default:
		scriptName = "gosh"
		if term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprint(os.Stderr, "$ ")
		}
		src = source.New(os.Stdin, "-")
	}

	src.SetVerbose(settings.Verbose())

	p := parser.New(src)
	cmds, perr := p.ParseProgram()
	if settings.Verbose() {
		fmt.Fprint(os.Stderr, src.VerboseContent())
	}
	if perr != nil {
		return 2, fmt.Errorf("%s", perr.Error())
	}

	it := newInterp(env, settings, scriptName, positional)
	return it.Run(cmds), nil
}
