// Package main is the entry point for the todo CLI.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/oklog/run"

	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/exitcode"
)

// Run dispatches args and returns the exit code. A termination signal cancels
// the running command.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	code := exitcode.Success

	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// Execute command.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				dispatcher := cli.NewDispatcher(commands.DefaultRegistry, cli.DefaultServiceFactory)
				code = dispatcher.Run(ctx, args, stdout, stderr)
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	_ = g.Run()
	return code
}

func main() {
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
