package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/moviesync/internal/models"
	"github.com/desertthunder/moviesync/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func seedMovies(t *testing.T, db *sql.DB, batch models.Batch) {
	t.Helper()
	if err := NewMovieRepository(db).InsertBatch(context.Background(), batch); err != nil {
		t.Fatalf("failed to seed movies: %v", err)
	}
}

func TestMovieRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("InsertBatch And Titles", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewMovieRepository(db)
		seedMovies(t, db, models.Batch{
			{Title: "Movie A", ReleaseDate: "1998"},
			{Title: "Movie B", ReleaseDate: "1999"},
		})

		titles, err := repo.Titles(ctx)
		if err != nil {
			t.Fatalf("failed to read titles: %v", err)
		}

		if len(titles) != 2 {
			t.Fatalf("expected 2 titles, got %d", len(titles))
		}
		for _, want := range []string{"Movie A", "Movie B"} {
			if _, ok := titles[want]; !ok {
				t.Errorf("expected title %q", want)
			}
		}
	})

	t.Run("InsertBatch Empty", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		if err := NewMovieRepository(db).InsertBatch(ctx, nil); err != nil {
			t.Fatalf("empty batch should be a no-op: %v", err)
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		seedMovies(t, db, models.Batch{{Title: "Movie A", ReleaseDate: "July 18, 1998"}})

		movie, err := NewMovieRepository(db).Get(ctx, "Movie A")
		if err != nil {
			t.Fatalf("failed to get movie: %v", err)
		}
		if movie.ReleaseDate != "July 18, 1998" {
			t.Errorf("unexpected release date %q", movie.ReleaseDate)
		}
	})

	t.Run("List Orders", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		seedMovies(t, db, models.Batch{
			{Title: "Zeta", ReleaseDate: "1"},
			{Title: "Alpha", ReleaseDate: "2"},
			{Title: "Mid", ReleaseDate: "3"},
		})
		repo := NewMovieRepository(db)

		inserted, err := repo.List(ctx, ListOptions{})
		if err != nil {
			t.Fatalf("failed to list movies: %v", err)
		}
		if got := strings.Join(inserted.Titles(), ","); got != "Zeta,Alpha,Mid" {
			t.Errorf("expected insertion order, got %s", got)
		}

		byTitle, err := repo.List(ctx, ListOptions{Order: OrderTitle, Limit: 2})
		if err != nil {
			t.Fatalf("failed to list movies: %v", err)
		}
		if got := strings.Join(byTitle.Titles(), ","); got != "Alpha,Mid" {
			t.Errorf("expected title order with limit, got %s", got)
		}
	})

	t.Run("List Empty Store", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		movies, err := NewMovieRepository(db).List(ctx, ListOptions{})
		if err != nil {
			t.Fatalf("failed to list movies: %v", err)
		}
		if movies == nil || len(movies) != 0 {
			t.Errorf("expected empty non-nil batch, got %#v", movies)
		}
	})

	t.Run("Count", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		seedMovies(t, db, models.Batch{{Title: "A"}, {Title: "B"}, {Title: "C"}})

		count, err := NewMovieRepository(db).Count(ctx)
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 3 {
			t.Errorf("expected 3, got %d", count)
		}
	})

	t.Run("WithTx commits", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		err := WithTx(ctx, db, func(tx *sql.Tx) error {
			return NewMovieRepository(tx).InsertBatch(ctx, models.Batch{{Title: "Movie A"}})
		})
		if err != nil {
			t.Fatalf("transaction failed: %v", err)
		}

		if count, _ := NewMovieRepository(db).Count(ctx); count != 1 {
			t.Errorf("expected committed row, got %d", count)
		}
	})
}

func TestMovieRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Duplicate Title", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		seedMovies(t, db, models.Batch{{Title: "Movie A", ReleaseDate: "1998"}})

		err := NewMovieRepository(db).InsertBatch(ctx, models.Batch{{Title: "Movie A", ReleaseDate: "2025"}})
		if err == nil {
			t.Fatal("expected primary key violation")
		}
		if !strings.Contains(err.Error(), "UNIQUE constraint") {
			t.Errorf("expected UNIQUE constraint error, got %v", err)
		}

		movie, err := NewMovieRepository(db).Get(ctx, "Movie A")
		if err != nil {
			t.Fatalf("failed to get movie: %v", err)
		}
		if movie.ReleaseDate != "1998" {
			t.Errorf("existing row must not be overwritten, got %q", movie.ReleaseDate)
		}
	})

	t.Run("Duplicate Rolls Back Whole Batch In Tx", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		seedMovies(t, db, models.Batch{{Title: "Movie A"}})

		err := WithTx(ctx, db, func(tx *sql.Tx) error {
			return NewMovieRepository(tx).InsertBatch(ctx, models.Batch{{Title: "Movie B"}, {Title: "Movie A"}})
		})
		if err == nil {
			t.Fatal("expected error")
		}

		if _, err := NewMovieRepository(db).Get(ctx, "Movie B"); !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("Movie B must not be committed, got %v", err)
		}
	})

	t.Run("Empty Title", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		err := NewMovieRepository(db).InsertBatch(ctx, models.Batch{{Title: ""}})
		if !errors.Is(err, models.ErrEmptyTitle) {
			t.Errorf("expected ErrEmptyTitle, got %v", err)
		}
	})

	t.Run("Get NotFound", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		if _, err := NewMovieRepository(db).Get(ctx, "nope"); !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("expected ErrMovieNotFound, got %v", err)
		}
	})

	t.Run("Missing Schema", func(t *testing.T) {
		db, err := shared.NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if _, err := NewMovieRepository(db).Titles(ctx); err == nil {
			t.Error("expected error without movies table")
		}
	})
}

func TestSyncRunRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create And List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSyncRunRepository(db)
		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		for i, id := range []string{"first", "second", "third"} {
			run := models.NewSyncRun(id, "http://example.com", base.Add(time.Duration(i)*time.Hour))
			run.Finish(10, i, base.Add(time.Duration(i)*time.Hour+time.Second))
			if err := repo.Create(ctx, run); err != nil {
				t.Fatalf("failed to create run: %v", err)
			}
		}

		runs, err := repo.List(ctx, 2)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(runs))
		}
		if runs[0].ID() != "third" || runs[1].ID() != "second" {
			t.Errorf("expected most recent first, got %s, %s", runs[0].ID(), runs[1].ID())
		}
		if runs[0].Added() != 2 || runs[0].Fetched() != 10 {
			t.Errorf("unexpected counters %d/%d", runs[0].Fetched(), runs[0].Added())
		}
		if runs[0].Duration() != time.Second {
			t.Errorf("expected 1s duration, got %v", runs[0].Duration())
		}

		latest, err := repo.Latest(ctx)
		if err != nil {
			t.Fatalf("failed to get latest: %v", err)
		}
		if latest.ID() != "third" {
			t.Errorf("expected latest third, got %s", latest.ID())
		}
	})

	t.Run("Latest Empty", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		latest, err := NewSyncRunRepository(db).Latest(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if latest != nil {
			t.Errorf("expected nil run, got %v", latest)
		}
	})

	t.Run("Create Invalid", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		err := NewSyncRunRepository(db).Create(ctx, models.NewSyncRun("", "x", time.Now()))
		if !errors.Is(err, models.ErrEmptyRunID) {
			t.Errorf("expected ErrEmptyRunID, got %v", err)
		}
	})
}
