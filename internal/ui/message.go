package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/moviesync/internal/models"
	"github.com/desertthunder/moviesync/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgMoviesLoaded MsgKind = iota
	MsgRunsLoaded
	MsgProgressUpdate
	MsgSyncComplete
)

type moviesLoaded struct {
	movies models.Batch
	err    error
}

type runsLoaded struct {
	runs []*models.SyncRun
	err  error
}

type syncComplete struct {
	report *tasks.Report
	err    error
}

// moviesLoadedMsg is the constructor for [MsgMoviesLoaded]
func moviesLoadedMsg(movies models.Batch, err error) Msg {
	return Msg{kind: MsgMoviesLoaded, data: moviesLoaded{movies, err}}
}

// runsLoadedMsg is the constructor for [MsgRunsLoaded]
func runsLoadedMsg(runs []*models.SyncRun, err error) Msg {
	return Msg{kind: MsgRunsLoaded, data: runsLoaded{runs, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// syncCompleteMsg is the constructor for [MsgSyncComplete]
func syncCompleteMsg(report *tasks.Report, err error) Msg {
	return Msg{kind: MsgSyncComplete, data: syncComplete{report, err}}
}
