package shared

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const defaultBusyTimeoutMS = 5000

type dbOptions struct {
	busyTimeoutMS int
	mkdirAll      bool
}

// DatabaseOption customises [NewDatabase].
type DatabaseOption func(*dbOptions)

// WithBusyTimeout sets how long (in milliseconds) a connection waits on a locked database before failing.
func WithBusyTimeout(ms int) DatabaseOption {
	return func(o *dbOptions) {
		if ms > 0 {
			o.busyTimeoutMS = ms
		}
	}
}

// WithMkdirAll creates the parent directory of the database file when it does not exist yet.
func WithMkdirAll() DatabaseOption { return func(o *dbOptions) { o.mkdirAll = true } }

// NewDatabase opens a connection to a SQLite database at the specified path.
// The path can be ":memory:" for an in-memory database.
//
// Transactions begin with BEGIN IMMEDIATE so a writer holds the reserved lock from its first statement;
// concurrent writers queue on the busy timeout instead of interleaving their reads and inserts.
// The pool is limited to one connection, which also keeps ":memory:" databases coherent.
func NewDatabase(path string, opts ...DatabaseOption) (*sql.DB, error) {
	o := dbOptions{busyTimeoutMS: defaultBusyTimeoutMS}
	for _, opt := range opts {
		opt(&o)
	}

	if o.mkdirAll && path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", dsn(path, o))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	ConfigureDatabase(db, 1, 1)
	return db, nil
}

// ConfigureDatabase sets connection pool settings for the database.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
}

func dsn(path string, o dbOptions) string {
	params := url.Values{}
	params.Set("_txlock", "immediate")
	params.Set("_busy_timeout", fmt.Sprint(o.busyTimeoutMS))
	return path + "?" + params.Encode()
}
