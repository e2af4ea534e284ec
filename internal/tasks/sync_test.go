package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/moviesync/internal/models"
	"github.com/desertthunder/moviesync/internal/repositories"
	"github.com/desertthunder/moviesync/internal/shared"
	tu "github.com/desertthunder/moviesync/internal/testing"
)

func storedMovies(t *testing.T, path string) models.Batch {
	t.Helper()
	db, err := shared.NewDatabase(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer db.Close()

	movies, err := repositories.NewMovieRepository(db).List(context.Background(), repositories.ListOptions{})
	if err != nil {
		t.Fatalf("failed to list movies: %v", err)
	}
	return movies
}

func TestSynchronizer(t *testing.T) {
	ctx := context.Background()
	movieA := models.Movie{Title: "Movie A", ReleaseDate: "July 18, 1998"}
	movieB := models.Movie{Title: "Movie B", ReleaseDate: "July 17, 1999"}

	t.Run("Inserts Only New Titles", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "movies.db")
		s := NewSynchronizer(SynchronizerOpts{Path: path})

		if _, err := s.Sync(ctx, models.Batch{movieA}); err != nil {
			t.Fatalf("seed sync failed: %v", err)
		}

		result, err := s.Sync(ctx, models.Batch{movieA, movieB})
		if err != nil {
			t.Fatalf("sync failed: %v", err)
		}

		if result.NewCount != 1 {
			t.Errorf("expected 1 new movie, got %d", result.NewCount)
		}
		if len(result.NewMovies) != 1 || result.NewMovies[0] != movieB {
			t.Errorf("expected only %v, got %v", movieB, result.NewMovies)
		}

		stored := storedMovies(t, path)
		if len(stored) != 2 {
			t.Fatalf("expected 2 stored movies, got %d", len(stored))
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "movies.db")
		s := NewSynchronizer(SynchronizerOpts{Path: path})
		batch := models.Batch{movieA, movieB}

		first, err := s.Sync(ctx, batch)
		if err != nil {
			t.Fatalf("first sync failed: %v", err)
		}
		if first.NewCount != 2 {
			t.Errorf("expected 2 new movies on first sync, got %d", first.NewCount)
		}

		second, err := s.Sync(ctx, batch)
		if err != nil {
			t.Fatalf("second sync failed: %v", err)
		}
		if second.NewCount != 0 {
			t.Errorf("expected 0 new movies on second sync, got %d", second.NewCount)
		}
		if second.NewMovies == nil || len(second.NewMovies) != 0 {
			t.Errorf("expected empty non-nil batch, got %#v", second.NewMovies)
		}
	})

	t.Run("Existing Rows Keep Their Dates", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "movies.db")
		s := NewSynchronizer(SynchronizerOpts{Path: path})

		if _, err := s.Sync(ctx, models.Batch{movieA}); err != nil {
			t.Fatalf("seed sync failed: %v", err)
		}

		changed := models.Movie{Title: movieA.Title, ReleaseDate: "1998"}
		result, err := s.Sync(ctx, models.Batch{changed})
		if err != nil {
			t.Fatalf("sync failed: %v", err)
		}
		if result.NewCount != 0 {
			t.Errorf("expected title match to skip the row, got %d new", result.NewCount)
		}

		stored := storedMovies(t, path)
		if stored[0].ReleaseDate != movieA.ReleaseDate {
			t.Errorf("expected stored date to be unchanged, got %q", stored[0].ReleaseDate)
		}
	})

	t.Run("Title Match Is Exact", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "movies.db")
		s := NewSynchronizer(SynchronizerOpts{Path: path})

		if _, err := s.Sync(ctx, models.Batch{movieA}); err != nil {
			t.Fatalf("seed sync failed: %v", err)
		}

		result, err := s.Sync(ctx, models.Batch{{Title: "movie a", ReleaseDate: "1998"}, {Title: "Movie A ", ReleaseDate: "1998"}})
		if err != nil {
			t.Fatalf("sync failed: %v", err)
		}
		if result.NewCount != 2 {
			t.Errorf("expected case and whitespace variants to be new, got %d", result.NewCount)
		}
	})

	t.Run("Fresh Path Matches Empty Store", func(t *testing.T) {
		batch := models.Batch{movieA, movieB}

		fresh := filepath.Join(t.TempDir(), "nested", "dir", "movies.db")
		freshResult, err := NewSynchronizer(SynchronizerOpts{Path: fresh}).Sync(ctx, batch)
		if err != nil {
			t.Fatalf("sync on fresh path failed: %v", err)
		}
		tu.AssertFileExists(t, fresh)

		initialized := filepath.Join(t.TempDir(), "movies.db")
		db, err := shared.NewDatabase(initialized)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		if err := shared.RunMigrations(ctx, db); err != nil {
			t.Fatalf("failed to migrate store: %v", err)
		}
		db.Close()

		initResult, err := NewSynchronizer(SynchronizerOpts{Path: initialized}).Sync(ctx, batch)
		if err != nil {
			t.Fatalf("sync on initialized store failed: %v", err)
		}

		if freshResult.NewCount != initResult.NewCount {
			t.Errorf("fresh path added %d, initialized store added %d", freshResult.NewCount, initResult.NewCount)
		}
		if len(storedMovies(t, fresh)) != len(storedMovies(t, initialized)) {
			t.Error("expected both stores to hold the same rows")
		}
	})

	t.Run("Empty Batch", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "movies.db")
		result, err := NewSynchronizer(SynchronizerOpts{Path: path}).Sync(ctx, models.Batch{})
		if err != nil {
			t.Fatalf("sync failed: %v", err)
		}
		if result.NewCount != 0 {
			t.Errorf("expected 0 new movies, got %d", result.NewCount)
		}
		tu.AssertFileExists(t, path)
	})

	t.Run("Duplicate Titles In Batch Roll Back", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "movies.db")
		s := NewSynchronizer(SynchronizerOpts{Path: path})

		_, err := s.Sync(ctx, models.Batch{movieA, movieB, {Title: movieA.Title, ReleaseDate: "again"}})
		if err == nil {
			t.Fatal("expected primary key violation")
		}

		var storeErr *shared.StoreError
		if !errors.As(err, &storeErr) {
			t.Fatalf("expected StoreError, got %T", err)
		}
		if storeErr.Op != "insert" {
			t.Errorf("expected insert op, got %s", storeErr.Op)
		}
		if !errors.Is(err, shared.ErrStore) {
			t.Error("expected error to wrap ErrStore")
		}

		if stored := storedMovies(t, path); len(stored) != 0 {
			t.Errorf("expected nothing committed, got %v", stored)
		}
	})

	t.Run("Invalid Movie", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "movies.db")
		_, err := NewSynchronizer(SynchronizerOpts{Path: path}).Sync(ctx, models.Batch{{Title: "", ReleaseDate: "1998"}})
		if !errors.Is(err, shared.ErrStore) || !errors.Is(err, models.ErrEmptyTitle) {
			t.Errorf("expected store error wrapping ErrEmptyTitle, got %v", err)
		}
	})

	t.Run("Unopenable Path", func(t *testing.T) {
		dir := t.TempDir()
		_, err := NewSynchronizer(SynchronizerOpts{Path: dir}).Sync(ctx, models.Batch{movieA})

		var storeErr *shared.StoreError
		if !errors.As(err, &storeErr) {
			t.Fatalf("expected StoreError for a directory path, got %v", err)
		}
		if storeErr.Path != dir {
			t.Errorf("expected path %s, got %s", dir, storeErr.Path)
		}
	})

	t.Run("Records Sync Run", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "movies.db")
		s := NewSynchronizer(SynchronizerOpts{Path: path})
		finished := time.Date(2024, 1, 1, 12, 0, 5, 0, time.UTC)
		s.now = func() time.Time { return finished }

		run := models.NewSyncRun("run-1", "https://example.com", finished.Add(-5*time.Second))
		if _, err := s.SyncWithRun(ctx, models.Batch{movieA, movieB}, run); err != nil {
			t.Fatalf("sync failed: %v", err)
		}

		if run.Fetched() != 2 || run.Added() != 2 {
			t.Errorf("expected run counters 2/2, got %d/%d", run.Fetched(), run.Added())
		}
		if run.Duration() != 5*time.Second {
			t.Errorf("expected 5s duration, got %v", run.Duration())
		}

		db, err := shared.NewDatabase(path)
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		defer db.Close()

		latest, err := repositories.NewSyncRunRepository(db).Latest(ctx)
		if err != nil {
			t.Fatalf("failed to read latest run: %v", err)
		}
		if latest == nil || latest.ID() != "run-1" {
			t.Fatalf("expected run-1 to be recorded, got %v", latest)
		}
	})

	t.Run("Failed Sync Records No Run", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "movies.db")
		s := NewSynchronizer(SynchronizerOpts{Path: path})

		run := models.NewSyncRun("run-1", "https://example.com", time.Now())
		if _, err := s.SyncWithRun(ctx, models.Batch{movieA, movieA}, run); err == nil {
			t.Fatal("expected error")
		}

		db, err := shared.NewDatabase(path)
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		defer db.Close()

		runs, err := repositories.NewSyncRunRepository(db).List(ctx, 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 0 {
			t.Errorf("expected no recorded runs, got %d", len(runs))
		}
	})

	t.Run("Nil Run", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "movies.db")
		_, err := NewSynchronizer(SynchronizerOpts{Path: path}).SyncWithRun(ctx, models.Batch{movieA}, nil)
		if !errors.Is(err, shared.ErrStore) {
			t.Errorf("expected store error, got %v", err)
		}
		tu.AssertFileNotExists(t, path)
	})

	t.Run("Concurrent Syncs Serialize", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "movies.db")
		if _, err := NewSynchronizer(SynchronizerOpts{Path: path}).Sync(ctx, models.Batch{}); err != nil {
			t.Fatalf("failed to initialize store: %v", err)
		}

		batch := models.Batch{movieA, movieB, {Title: "Movie C", ReleaseDate: "2000"}}
		const workers = 4

		var wg sync.WaitGroup
		results := make([]*SyncResult, workers)
		errs := make([]error, workers)
		for i := range workers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				s := NewSynchronizer(SynchronizerOpts{Path: path, BusyTimeoutMS: 10000})
				results[i], errs[i] = s.Sync(ctx, batch)
			}(i)
		}
		wg.Wait()

		total := 0
		for i := range workers {
			if errs[i] != nil {
				t.Fatalf("worker %d failed: %v", i, errs[i])
			}
			total += results[i].NewCount
		}

		if total != len(batch) {
			t.Errorf("expected %d inserts across workers, got %d", len(batch), total)
		}
		if stored := storedMovies(t, path); len(stored) != len(batch) {
			t.Errorf("expected %d stored movies, got %d", len(batch), len(stored))
		}
	})
}
