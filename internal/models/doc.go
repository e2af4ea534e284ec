// Package models defines domain entities for the moviesync service.
//
// The package contains two categories of types:
//
// 1. Records produced by a fetch:
//   - [Movie] : one row of the source table (title + release date), immutable once stored
//   - [Batch] : the ordered movies of a single fetch, in page order
//
// 2. Persistent entities stored alongside the movies:
//   - [SyncRun] : one completed fetch/sync run with its counters
//
// Movies are keyed by their exact title string; no case folding or whitespace normalization is applied.
package models
