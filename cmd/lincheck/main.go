// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command lincheck stress-tests a lock-free container and checks the
// recorded history for linearizability.
//
//	lincheck run --container stack --threads 4 --ops 70000
//	lincheck run --config lincheck.yaml --history-out history.json
//	lincheck check --history history.json --model stack --capacity 1024
//
// # Exit Codes
//
//   - 0: History is linearizable
//   - 1: History is not linearizable
//   - 2: Error
//   - 3: Search timed out
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"code.hybscloud.com/lincheck"
	"github.com/spf13/cobra"
)

const (
	exitLinearizable    = 0
	exitNotLinearizable = 1
	exitError           = 2
	exitTimeout         = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// app carries the output streams and the exit code of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer
	code   int

	logLevel  string
	logFormat string
}

// execute runs the command line args and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "lincheck: %v\n", err)
		return exitError
	}
	return a.code
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lincheck",
		Short:         "Check lock-free containers for linearizability",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: text or json")
	root.AddCommand(a.runCmd(), a.checkCmd())
	return root
}

// exitCode maps a verdict to the process exit code.
func exitCode(o lincheck.Outcome) int {
	switch o {
	case lincheck.Linearizable:
		return exitLinearizable
	case lincheck.NotLinearizable:
		return exitNotLinearizable
	case lincheck.Timeout:
		return exitTimeout
	}
	return exitError
}
