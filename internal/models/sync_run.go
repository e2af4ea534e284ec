package models

import (
	"time"
)

// SyncRun records one completed fetch/sync cycle.
type SyncRun struct {
	id         string
	sourceURL  string
	fetched    int
	added      int
	startedAt  time.Time
	finishedAt time.Time
}

// NewSyncRun creates a run that started at startedAt. The id is assigned by the caller.
func NewSyncRun(id, sourceURL string, startedAt time.Time) *SyncRun {
	return &SyncRun{id: id, sourceURL: sourceURL, startedAt: startedAt, finishedAt: startedAt}
}

func (r *SyncRun) ID() string            { return r.id }
func (r *SyncRun) SourceURL() string     { return r.sourceURL }
func (r *SyncRun) Fetched() int          { return r.fetched }
func (r *SyncRun) Added() int            { return r.added }
func (r *SyncRun) StartedAt() time.Time  { return r.startedAt }
func (r *SyncRun) FinishedAt() time.Time { return r.finishedAt }

// Duration is the wall time between start and finish.
func (r *SyncRun) Duration() time.Duration { return r.finishedAt.Sub(r.startedAt) }

// Finish stores the run's counters and end time.
func (r *SyncRun) Finish(fetched, added int, finishedAt time.Time) {
	r.fetched = fetched
	r.added = added
	r.finishedAt = finishedAt
}

// Validate checks the run can be persisted.
func (r *SyncRun) Validate() error {
	if r.id == "" {
		return ErrEmptyRunID
	}
	return nil
}
