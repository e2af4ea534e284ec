package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/moviesync/internal/models"
	"github.com/desertthunder/moviesync/internal/shared"
)

// MovieOrder selects the ordering of [MovieRepository.List].
type MovieOrder int

const (
	OrderInserted MovieOrder = iota // insertion order (rowid)
	OrderTitle                      // title ascending
)

// ListOptions narrows [MovieRepository.List].
type ListOptions struct {
	Order MovieOrder
	Limit int // zero means no limit
}

// MovieRepository reads and writes the movies table.
type MovieRepository struct {
	db DBTX
}

// NewMovieRepository creates a new MovieRepository with the given database connection or transaction
func NewMovieRepository(db DBTX) *MovieRepository {
	return &MovieRepository{db: db}
}

// Titles returns the set of titles already stored.
func (r *MovieRepository) Titles(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT title FROM movies")
	if err != nil {
		return nil, fmt.Errorf("failed to query titles: %w", err)
	}
	defer rows.Close()

	titles := make(map[string]struct{})
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("failed to scan title: %w", err)
		}
		titles[title] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return titles, nil
}

// InsertBatch appends every movie with a single prepared statement.
//
// Existing titles are not replaced: a duplicate fails with the PRIMARY KEY violation from SQLite.
// Run it inside a transaction to make the batch all-or-nothing.
func (r *MovieRepository) InsertBatch(ctx context.Context, batch models.Batch) error {
	if len(batch) == 0 {
		return nil
	}

	if err := batch.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	stmt, err := r.db.PrepareContext(ctx, "INSERT INTO movies (title, release_date) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range batch {
		if _, err := stmt.ExecContext(ctx, m.Title, m.ReleaseDate); err != nil {
			return fmt.Errorf("failed to insert movie %q: %w", m.Title, err)
		}
	}

	return nil
}

// Get retrieves a movie by its exact title.
func (r *MovieRepository) Get(ctx context.Context, title string) (*models.Movie, error) {
	var (
		m           models.Movie
		releaseDate sql.NullString
	)

	err := r.db.QueryRowContext(ctx, "SELECT title, release_date FROM movies WHERE title = ?", title).Scan(&m.Title, &releaseDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrMovieNotFound, title)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan movie: %w", err)
	}

	m.ReleaseDate = releaseDate.String
	return &m, nil
}

// List returns stored movies.
func (r *MovieRepository) List(ctx context.Context, opts ListOptions) (models.Batch, error) {
	query := "SELECT title, release_date FROM movies"

	switch opts.Order {
	case OrderTitle:
		query += " ORDER BY title ASC"
	default:
		query += " ORDER BY rowid ASC"
	}

	args := []any{}
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	movies := models.Batch{}
	for rows.Next() {
		var (
			m           models.Movie
			releaseDate sql.NullString
		)
		if err := rows.Scan(&m.Title, &releaseDate); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		m.ReleaseDate = releaseDate.String
		movies = append(movies, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return movies, nil
}

// Count returns the number of stored movies.
func (r *MovieRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return count, nil
}
