package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviesync/internal/formatter"
	"github.com/desertthunder/moviesync/internal/repositories"
	"github.com/desertthunder/moviesync/internal/shared"
)

func parseOrder(s string) (repositories.MovieOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inserted", "insertion":
		return repositories.OrderInserted, nil
	case "title":
		return repositories.OrderTitle, nil
	default:
		return 0, fmt.Errorf("%w: unknown order %q (want inserted or title)", shared.ErrInvalidFlag, s)
	}
}

// MoviesList prints the stored movies.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	order, err := parseOrder(cmd.String("order"))
	if err != nil {
		return err
	}
	limit := int(cmd.Int("limit"))
	if limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", shared.ErrInvalidArgument)
	}

	movies, err := r.newSynchronizer(r.databasePath(cmd)).Movies(ctx, repositories.ListOptions{Order: order, Limit: limit})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	if len(movies) == 0 {
		return r.writePlain("No movies stored.\n")
	}

	data, err := formatter.ExportToText(movies)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// MoviesShow prints a single stored movie.
func (r *Runner) MoviesShow(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	movie, err := r.newSynchronizer(r.databasePath(cmd)).Movie(ctx, title)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(movie, cmd.Bool("pretty"))
	}
	r.writePlain("Title:        %s\n", movie.Title)
	return r.writePlain("Release date: %s\n", movie.ReleaseDate)
}

// MoviesExport writes every stored movie in the requested format, to a file or stdout.
func (r *Runner) MoviesExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	movies, err := r.newSynchronizer(r.databasePath(cmd)).Movies(ctx, repositories.ListOptions{})
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteExport(movies, format, path); err != nil {
			return err
		}
		r.logger.Info("exported movies", "count", len(movies), "format", format, "path", path)
		return nil
	}

	data, err := formatter.Export(movies, format)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
