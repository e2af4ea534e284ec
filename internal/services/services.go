// package services defines interface Fetcher for retrieving movie batches over HTTP
package services

import (
	"context"

	"github.com/desertthunder/moviesync/internal/models"
)

// Fetcher produces the batch of movies published at a source URL.
type Fetcher interface {
	// Fetch retrieves and parses the page. It returns a *shared.FetchError when the page cannot be
	// retrieved and a *shared.ParseError when no table has the expected columns.
	Fetch(ctx context.Context, sourceURL string) (models.Batch, error)
}

// DefaultUserAgent is the desktop browser signature sent with every page request.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.114 Safari/537.36"

// Default column headers of the source table.
const (
	DefaultTitleColumn = "English title"
	DefaultDateColumn  = "Japanese release date"
)
