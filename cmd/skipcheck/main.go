// Command skipcheck analyzes Codeforces handles for SKIPPED verdicts from the
// command line.
//
// Usage:
//
//	skipcheck analyze tourist Petr
//	skipcheck analyze --json --timeout 5s tourist
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, newRootCmd()); err != nil {
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
}

// run executes root and writes any error that ended it early to stderr.
// Per-handle failures are already printed as they happen, so the summary
// error is not repeated.
func run(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, ErrHandlesFailed) {
		fmt.Fprintln(root.ErrOrStderr(), "skipcheck:", err)
	}
	return err
}
