package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchPage Phase = iota
	SyncStore
	Done
)

func (p Phase) String() string {
	switch p {
	case FetchPage:
		return "fetch_page"
	case SyncStore:
		return "sync_store"
	case Done:
		return "done"
	default:
		return ""
	}
}

func fetchPageUpdate(url string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPage,
		Message: fmt.Sprintf("Fetching %s...", url),
	}
}

func syncStoreUpdate(path string, fetched int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SyncStore,
		Message: fmt.Sprintf("Syncing %d movies into %s...", fetched, path),
		Data:    fetched,
	}
}

func doneUpdate(report *Report) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Message: report.Summary(),
		Data:    report,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
