// Package tasks runs the fetch → deduplicate → persist cycle.
//
// # Core Operations
//
//  1. [Synchronizer.Sync] : insert the movies of a batch whose titles are not stored yet
//     - Opens the store and creates its schema when absent
//     - Reads existing titles and inserts the remainder in one immediate write transaction
//     - Returns the number of inserted movies and the inserted subset
//
//  2. [Pipeline.Run] : one complete run
//     - Fetches the source page through a [services.Fetcher]
//     - Syncs the batch and records a sync run row in the same transaction
//     - Returns a [Report] with totals and a Markdown preview of the new movies
//
//  3. [Pipeline.Watch] : repeat Run on an interval until the context ends
//
// Deduplication is exact string equality on the title. Fetch failures happen before the store is opened,
// so a failed fetch never creates or modifies the database file.
package tasks
