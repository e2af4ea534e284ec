package tasks

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/moviesync/internal/formatter"
	"github.com/desertthunder/moviesync/internal/models"
	"github.com/desertthunder/moviesync/internal/services"
	"github.com/desertthunder/moviesync/internal/shared"
)

// DefaultPreviewRows is how many new movies a [Report] previews.
const DefaultPreviewRows = 5

// Report summarizes one pipeline run.
type Report struct {
	RunID        string       `json:"run_id"`
	SourceURL    string       `json:"source_url"`
	DatabasePath string       `json:"database_path"`
	TotalFetched int          `json:"total_fetched"`
	NewCount     int          `json:"new_count"`
	NewMovies    models.Batch `json:"new_movies"`
	Preview      string       `json:"preview"`
	StartedAt    time.Time    `json:"started_at"`
	FinishedAt   time.Time    `json:"finished_at"`
}

// Summary is the one-line outcome logged after a run.
func (r *Report) Summary() string {
	if r.NewCount == 0 {
		return "No new movies found. Database is up to date."
	}
	return fmt.Sprintf("Added %d new movies to the database.", r.NewCount)
}

// Pipeline composes a [services.Fetcher] and a [Synchronizer] into complete runs.
type Pipeline struct {
	fetcher     services.Fetcher
	syncer      *Synchronizer
	sourceURL   string
	previewRows int
	logger      *log.Logger
	now         func() time.Time
}

// PipelineOpts configures a [Pipeline].
type PipelineOpts struct {
	Fetcher      services.Fetcher
	Synchronizer *Synchronizer
	SourceURL    string
	PreviewRows  int // defaults to [DefaultPreviewRows]
	Logger       *log.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(opts PipelineOpts) *Pipeline {
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = DefaultPreviewRows
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	return &Pipeline{
		fetcher:     opts.Fetcher,
		syncer:      opts.Synchronizer,
		sourceURL:   opts.SourceURL,
		previewRows: opts.PreviewRows,
		logger:      opts.Logger,
		now:         time.Now,
	}
}

// Run fetches the source page, syncs the batch into the store, and records the run.
//
// A fetch or parse error is returned before the store is opened. progress may be nil.
func (p *Pipeline) Run(ctx context.Context, progress chan<- ProgressUpdate) (*Report, error) {
	startedAt := p.now()
	runID := shared.GenerateID()
	logger := shared.WithLogger(p.logger, "run", runID)

	sendProgress(progress, fetchPageUpdate(p.sourceURL))
	logger.Info("fetching movies", "url", p.sourceURL)

	batch, err := p.fetcher.Fetch(ctx, p.sourceURL)
	if err != nil {
		return nil, err
	}
	logger.Info("fetched movies", "count", len(batch))

	sendProgress(progress, syncStoreUpdate(p.syncer.Path(), len(batch)))

	run := models.NewSyncRun(runID, p.sourceURL, startedAt)
	result, err := p.syncer.SyncWithRun(ctx, batch, run)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:        runID,
		SourceURL:    p.sourceURL,
		DatabasePath: p.syncer.Path(),
		TotalFetched: len(batch),
		NewCount:     result.NewCount,
		NewMovies:    result.NewMovies,
		Preview:      formatter.MarkdownPreview(result.NewMovies, p.previewRows),
		StartedAt:    run.StartedAt(),
		FinishedAt:   run.FinishedAt(),
	}

	logger.Info(report.Summary())
	sendProgress(progress, doneUpdate(report))
	return report, nil
}
