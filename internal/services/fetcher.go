package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/moviesync/internal/models"
	"github.com/desertthunder/moviesync/internal/shared"
)

// DefaultMaxDocumentBytes caps the page size. Larger pages fail rather than parse partially.
const DefaultMaxDocumentBytes = 16 << 20

var _ Fetcher = (*TableFetcher)(nil)

// TableFetcher implements [Fetcher] by scraping the first HTML table with the configured headers.
type TableFetcher struct {
	client      *http.Client
	userAgent   string
	titleColumn string
	dateColumn  string
	maxBytes    int64
	logger      *log.Logger
}

// FetcherOpts configures a [TableFetcher]. Zero values fall back to the package defaults.
type FetcherOpts struct {
	Client      *http.Client
	UserAgent   string
	TitleColumn string
	DateColumn  string
	MaxBytes    int64
	Logger      *log.Logger
}

// NewTableFetcher creates a TableFetcher. A nil client is replaced by [NewHTTPClient] with default settings.
func NewTableFetcher(opts FetcherOpts) *TableFetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Client == nil {
		opts.Client = NewHTTPClient(opts.UserAgent, 0)
	}
	if opts.TitleColumn == "" {
		opts.TitleColumn = DefaultTitleColumn
	}
	if opts.DateColumn == "" {
		opts.DateColumn = DefaultDateColumn
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxDocumentBytes
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	return &TableFetcher{
		client:      opts.Client,
		userAgent:   opts.UserAgent,
		titleColumn: opts.TitleColumn,
		dateColumn:  opts.DateColumn,
		maxBytes:    opts.MaxBytes,
		logger:      opts.Logger,
	}
}

// Fetch downloads sourceURL and extracts the movie table.
func (f *TableFetcher) Fetch(ctx context.Context, sourceURL string) (models.Batch, error) {
	body, err := f.download(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	tables, err := ParseTables(bytes.NewReader(body))
	if err != nil {
		return nil, &shared.ParseError{URL: sourceURL, Columns: f.columns(), Reason: err.Error()}
	}
	f.logger.Debug("parsed page", "url", sourceURL, "tables", len(tables))

	if len(tables) == 0 {
		return nil, &shared.ParseError{URL: sourceURL, Columns: f.columns(), Reason: "page contains no tables"}
	}

	batch, ok := ExtractMovies(tables, f.titleColumn, f.dateColumn)
	if !ok {
		return nil, &shared.ParseError{
			URL:     sourceURL,
			Columns: f.columns(),
			Reason:  fmt.Sprintf("none of %d tables has the expected headers", len(tables)),
		}
	}

	f.logger.Debug("extracted movies", "url", sourceURL, "rows", len(batch))
	return batch, nil
}

func (f *TableFetcher) download(ctx context.Context, sourceURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, &shared.FetchError{URL: sourceURL, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	f.logger.Debug("fetching page", "url", sourceURL)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &shared.FetchError{URL: sourceURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused; a failed drain only costs the connection.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &shared.FetchError{URL: sourceURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &shared.FetchError{URL: sourceURL, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if int64(len(body)) > f.maxBytes {
		return nil, &shared.FetchError{URL: sourceURL, Err: fmt.Errorf("document exceeds %d bytes", f.maxBytes)}
	}

	return body, nil
}

func (f *TableFetcher) columns() []string {
	return []string{f.titleColumn, f.dateColumn}
}
