package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/pipewright/internal/app"
	"github.com/vk/pipewright/internal/cli"
	"github.com/vk/pipewright/internal/dag"
)

// main is the entrypoint for the pipewright binary.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	os.Exit(run(os.Args[1:]))
}

// run encapsulates the main application logic so exit codes are decided in
// exactly one place.
func run(args []string) int {
	appConfig, shouldExit, err := cli.Parse(args, os.Stderr)
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			return exitErr.Code
		}
		fmt.Fprintln(os.Stderr, err)
		return cli.ExitUsage
	}
	if shouldExit {
		return cli.ExitOK
	}

	// Interrupts request cooperative cancellation: queued work is marked
	// cancelled, in-flight steps are asked to stop.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pw := app.NewApp(os.Stdout, os.Stderr, appConfig)
	switch err := pw.Run(ctx); {
	case err == nil:
		return cli.ExitOK
	case errors.Is(err, app.ErrPipelineFailed):
		return cli.ExitPipelineFailed
	case errors.Is(err, dag.ErrInvalidPipeline):
		fmt.Fprintln(os.Stderr, err)
		return cli.ExitInvalidDef
	default:
		fmt.Fprintln(os.Stderr, err)
		return cli.ExitPipelineFailed
	}
}
