package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/moviesync/internal/models"
)

// SyncRunRepository persists [models.SyncRun] history.
type SyncRunRepository struct {
	db DBTX
}

// NewSyncRunRepository creates a new SyncRunRepository with the given database connection
func NewSyncRunRepository(db DBTX) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Create inserts a finished run.
func (r *SyncRunRepository) Create(ctx context.Context, run *models.SyncRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sync_runs (id, source_url, fetched, added, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		run.ID(),
		run.SourceURL(),
		run.Fetched(),
		run.Added(),
		run.StartedAt().UTC(),
		run.FinishedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sync run: %w", err)
	}

	return nil
}

// List returns the most recent runs first. A limit of zero returns every run.
func (r *SyncRunRepository) List(ctx context.Context, limit int) ([]*models.SyncRun, error) {
	query := `
		SELECT id, source_url, fetched, added, started_at, finished_at
		FROM sync_runs
		ORDER BY started_at DESC
	`

	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// Latest returns the most recent run, or nil when none has been recorded.
func (r *SyncRunRepository) Latest(ctx context.Context) (*models.SyncRun, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, source_url, fetched, added, started_at, finished_at
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT 1
	`)

	run, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SyncRunRepository) scan(s scanner) (*models.SyncRun, error) {
	var (
		id         string
		sourceURL  string
		fetched    int
		added      int
		startedAt  time.Time
		finishedAt time.Time
	)

	err := s.Scan(&id, &sourceURL, &fetched, &added, &startedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan sync run: %w", err)
	}

	run := models.NewSyncRun(id, sourceURL, startedAt)
	run.Finish(fetched, added, finishedAt)
	return run, nil
}
