// Package repositories implements SQLite persistence for movies and sync runs.
//
// Key Implementations:
//   - [MovieRepository] : the title-keyed movie store with bulk insert
//   - [SyncRunRepository] : history of completed sync runs
//
// Repositories are built over [DBTX], so the same queries run against a *sql.DB or inside a *sql.Tx.
// The synchronizer relies on this to read existing titles and insert new ones within one write transaction.
package repositories
