package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/desertthunder/moviesync/internal/models"
	"github.com/desertthunder/moviesync/internal/repositories"
	"github.com/desertthunder/moviesync/internal/shared"
)

// Movies lists the stored movies. A store that does not exist yet reads as empty and is not created.
func (s *Synchronizer) Movies(ctx context.Context, opts repositories.ListOptions) (models.Batch, error) {
	movies := models.Batch{}
	err := s.read(ctx, func(db *sql.DB) error {
		var err error
		movies, err = repositories.NewMovieRepository(db).List(ctx, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return movies, nil
}

// Runs lists recorded sync runs, most recent first. A limit of zero returns every run.
func (s *Synchronizer) Runs(ctx context.Context, limit int) ([]*models.SyncRun, error) {
	runs := []*models.SyncRun{}
	err := s.read(ctx, func(db *sql.DB) error {
		var err error
		runs, err = repositories.NewSyncRunRepository(db).List(ctx, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// Init creates the store and its schema.
func (s *Synchronizer) Init(ctx context.Context) error {
	db, err := shared.NewDatabase(s.path, shared.WithBusyTimeout(s.busyTimeoutMS), shared.WithMkdirAll())
	if err != nil {
		return s.storeErr("open", err)
	}
	defer db.Close()

	if err := shared.RunMigrations(ctx, db); err != nil {
		return s.storeErr("migrate", err)
	}
	return nil
}

func (s *Synchronizer) read(ctx context.Context, fn func(db *sql.DB) error) error {
	if s.path != ":memory:" {
		if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("store does not exist yet", "path", s.path)
			return nil
		}
	}

	db, err := shared.NewDatabase(s.path, shared.WithBusyTimeout(s.busyTimeoutMS))
	if err != nil {
		return s.storeErr("open", err)
	}
	defer db.Close()

	// Stores written before sync runs were recorded lack the newer tables.
	if err := shared.RunMigrations(ctx, db); err != nil {
		return s.storeErr("migrate", err)
	}

	if err := fn(db); err != nil {
		return s.storeErr("read", err)
	}
	return nil
}

// Movie returns the stored movie with exactly this title, or an error wrapping [shared.ErrMovieNotFound].
func (s *Synchronizer) Movie(ctx context.Context, title string) (*models.Movie, error) {
	var movie *models.Movie
	err := s.read(ctx, func(db *sql.DB) error {
		var err error
		movie, err = repositories.NewMovieRepository(db).Get(ctx, title)
		return err
	})
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrMovieNotFound, title)
	}
	return movie, nil
}
