// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI browses the movie store:
//  1. [MovieListView] : Browse and filter stored movies
//  2. [MovieView] : Show a single movie
//  3. [HistoryView] : Browse recorded sync runs
//  4. [SyncView] : Monitor a sync run started with s
//  5. [ResultView] : Display the run report and a preview of new movies
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the [tasks.Pipeline], so a run never blocks the interface.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, s, h, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
