// Package services retrieves the movie table from the source web page.
//
// [TableFetcher] performs one GET with a browser User-Agent, parses every HTML table on the page
// with goquery ([ParseTables]), and extracts the title and release date columns of the first table
// that carries both headers ([ExtractMovies]).
//
// Failures surface as [shared.FetchError] (transport or non-2xx status) and [shared.ParseError]
// (no matching table). Nothing is retried.
package services
