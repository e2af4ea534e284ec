package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviesync/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "moviesync",
		Usage:    "Sync the Pokémon films table from Wikipedia into a local SQLite store",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   runner.configure,
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			logger.Info("interrupted")
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}
