// Command crossing runs the traffic light simulation from the command line.
//
//	crossing 0.5 0.5 5 5 --runs 100 --format json
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/anggasct/crossing"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	switch crossing.GetErrorCode(err) {
	case crossing.ErrCodeInvalidArgument:
		return exitUsage
	default:
		return exitFailure
	}
}
