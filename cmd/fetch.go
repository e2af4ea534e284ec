package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviesync/internal/formatter"
)

// Fetch downloads the source page and prints the extracted movies. The store is not opened.
func (r *Runner) Fetch(ctx context.Context, cmd *cli.Command) error {
	url := r.sourceURL(cmd)
	r.logger.Info("fetching movies", "url", url)

	batch, err := r.newFetcher().Fetch(ctx, url)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(batch, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Fetched Movies")
	r.writePlain("Source: %s\n", url)
	r.writePlain("Movies: %d\n\n", len(batch))
	return r.writePlain("%s", formatter.MarkdownTable(batch))
}
