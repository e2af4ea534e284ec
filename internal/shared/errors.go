package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Sync pipeline errors
	ErrFetch = fmt.Errorf("fetch failed")
	ErrParse = fmt.Errorf("parse failed")
	ErrStore = fmt.Errorf("store failed")

	ErrMovieNotFound = fmt.Errorf("movie not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// FetchError reports a source page that could not be retrieved: a transport failure or a non-success status.
//
// StatusCode is zero when no response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v: %s returned status %d", ErrFetch, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%v: %s: %v", ErrFetch, e.URL, e.Err)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFetch}
	}
	return []error{ErrFetch, e.Err}
}

// ParseError reports a page that did not contain a table with the expected columns.
type ParseError struct {
	URL     string
	Columns []string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %s: %s (want columns %q)", ErrParse, e.URL, e.Reason, e.Columns)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// StoreError reports a failure to open, initialize, read or write the movie store.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%v: %s %s: %v", ErrStore, e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() []error { return []error{ErrStore, e.Err} }
