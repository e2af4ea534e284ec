package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviesync/internal/server"
	"github.com/desertthunder/moviesync/internal/shared"
	"github.com/desertthunder/moviesync/internal/tasks"
)

// SyncRun performs a single fetch → dedupe → insert run and prints its report.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	report, err := r.newPipeline(cmd).Run(ctx, nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, cmd.Bool("pretty"))
	}
	return r.writeReport(report)
}

// SyncWatch repeats sync runs until the process is interrupted.
func (r *Runner) SyncWatch(ctx context.Context, cmd *cli.Command) error {
	interval := cmd.Duration("interval")
	if interval == 0 {
		interval = r.config.Sync.WatchInterval.Duration
	}
	if interval < 0 {
		return fmt.Errorf("%w: interval must be positive, got %s", shared.ErrInvalidArgument, interval)
	}

	return r.newPipeline(cmd).Watch(ctx, interval, func(report *tasks.Report, err error) {
		if err != nil {
			r.writePlain("%s  failed: %v\n", time.Now().Format(time.DateTime), err)
			return
		}
		r.writePlain("%s  %s\n", report.FinishedAt.Local().Format(time.DateTime), report.Summary())
	})
}

// SyncHistory lists recorded sync runs.
func (r *Runner) SyncHistory(ctx context.Context, cmd *cli.Command) error {
	limit := int(cmd.Int("limit"))
	if limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", shared.ErrInvalidArgument)
	}

	runs, err := r.newSynchronizer(r.databasePath(cmd)).Runs(ctx, limit)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		views := make([]server.RunView, len(runs))
		for i, run := range runs {
			views[i] = server.NewRunView(run)
		}
		return r.writeJSON(views, cmd.Bool("pretty"))
	}

	if len(runs) == 0 {
		return r.writePlain("No sync runs recorded.\n")
	}

	r.writePlainHeader("Sync History")
	for _, run := range runs {
		r.writePlain("%s  %-36s  fetched %3d  added %3d  %s\n",
			run.StartedAt().Local().Format(time.DateTime),
			run.ID(),
			run.Fetched(),
			run.Added(),
			run.Duration().Round(time.Millisecond),
		)
	}
	return nil
}

func (r *Runner) writeReport(report *tasks.Report) error {
	r.writePlainHeader("Sync Report")
	r.writePlain("Run:      %s\n", report.RunID)
	r.writePlain("Source:   %s\n", report.SourceURL)
	r.writePlain("Database: %s\n", report.DatabasePath)
	r.writePlain("Fetched:  %d\n", report.TotalFetched)
	r.writePlain("New:      %d\n", report.NewCount)

	if report.NewCount == 0 {
		return r.writePlainln("%s", report.Summary())
	}

	r.writePlainln("Preview of new movies:")
	return r.writePlain("%s", report.Preview)
}
