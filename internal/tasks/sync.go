// package tasks implements movie sync runs.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/moviesync/internal/models"
	"github.com/desertthunder/moviesync/internal/repositories"
	"github.com/desertthunder/moviesync/internal/shared"
)

// SyncResult reports the movies a sync inserted.
type SyncResult struct {
	NewCount  int          `json:"new_count"`
	NewMovies models.Batch `json:"new_movies"`
}

// Synchronizer persists batches into the movie store at a fixed path.
type Synchronizer struct {
	path          string
	busyTimeoutMS int
	logger        *log.Logger
	now           func() time.Time
}

// SynchronizerOpts configures a [Synchronizer].
type SynchronizerOpts struct {
	Path          string
	BusyTimeoutMS int
	Logger        *log.Logger
}

// NewSynchronizer creates a Synchronizer for the store at opts.Path.
func NewSynchronizer(opts SynchronizerOpts) *Synchronizer {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	return &Synchronizer{
		path:          opts.Path,
		busyTimeoutMS: opts.BusyTimeoutMS,
		logger:        opts.Logger,
		now:           time.Now,
	}
}

// Path returns the store location.
func (s *Synchronizer) Path() string { return s.path }

// Sync inserts the movies of batch whose titles are not in the store.
//
// The store is opened and closed within the call, and its schema is created when missing.
// Errors are [*shared.StoreError]; nothing is committed when one is returned.
func (s *Synchronizer) Sync(ctx context.Context, batch models.Batch) (*SyncResult, error) {
	return s.sync(ctx, batch, nil)
}

// SyncWithRun behaves like [Synchronizer.Sync] and also finishes run with the batch size and
// inserted count, then records it in the same transaction as the inserts.
func (s *Synchronizer) SyncWithRun(ctx context.Context, batch models.Batch, run *models.SyncRun) (*SyncResult, error) {
	if run == nil {
		return nil, &shared.StoreError{Op: "record run", Path: s.path, Err: models.ErrEmptyRunID}
	}
	return s.sync(ctx, batch, run)
}

func (s *Synchronizer) sync(ctx context.Context, batch models.Batch, run *models.SyncRun) (*SyncResult, error) {
	db, err := shared.NewDatabase(s.path, shared.WithBusyTimeout(s.busyTimeoutMS), shared.WithMkdirAll())
	if err != nil {
		return nil, s.storeErr("open", err)
	}
	defer db.Close()

	if err := shared.RunMigrations(ctx, db); err != nil {
		return nil, s.storeErr("migrate", err)
	}

	result := &SyncResult{NewMovies: models.Batch{}}
	err = repositories.WithTx(ctx, db, func(tx *sql.Tx) error {
		movies := repositories.NewMovieRepository(tx)

		existing, err := movies.Titles(ctx)
		if err != nil {
			return s.storeErr("read", err)
		}

		result.NewMovies = batch.Filter(func(m models.Movie) bool {
			_, ok := existing[m.Title]
			return !ok
		})
		result.NewCount = len(result.NewMovies)

		s.logger.Debug("diffed batch", "path", s.path, "stored", len(existing), "fetched", len(batch), "new", result.NewCount)

		if err := movies.InsertBatch(ctx, result.NewMovies); err != nil {
			return s.storeErr("insert", err)
		}

		if run != nil {
			run.Finish(len(batch), result.NewCount, s.now())
			if err := repositories.NewSyncRunRepository(tx).Create(ctx, run); err != nil {
				return s.storeErr("record run", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.storeErr("transaction", err)
	}

	return result, nil
}

// storeErr wraps err as a [*shared.StoreError] unless it already is one.
func (s *Synchronizer) storeErr(op string, err error) error {
	var se *shared.StoreError
	if errors.As(err, &se) {
		return err
	}
	return &shared.StoreError{Op: op, Path: s.path, Err: err}
}
