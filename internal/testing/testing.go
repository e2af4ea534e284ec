// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/moviesync/internal/models"
)

// MockFetcher is a test double for [services.Fetcher]
type MockFetcher struct {
	mu    sync.Mutex
	Batch models.Batch
	Err   error
	URLs  []string
}

func (m *MockFetcher) Fetch(ctx context.Context, sourceURL string) (models.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.URLs = append(m.URLs, sourceURL)
	if m.Err != nil {
		return nil, m.Err
	}
	return append(models.Batch{}, m.Batch...), nil
}

// Calls returns how many times Fetch ran.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.URLs)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// NewPageServer serves body with the given status for every request and records the last User-Agent seen.
func NewPageServer(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()
	var userAgent string
	var mu sync.Mutex

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		userAgent = r.Header.Get("User-Agent")
		mu.Unlock()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &userAgent
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// MoviesPage is a trimmed copy of the source article: an unrelated infobox table first, then the
// films table with a <th scope="row"> title column, a rowspan, a citation marker, and a row missing its date.
const MoviesPage = `<!DOCTYPE html>
<html><head><title>List of Pokémon films</title></head>
<body>
<table class="infobox">
  <tr><th>Directed by</th><td>Kunihiko Yuyama</td></tr>
</table>
<table class="wikitable">
  <tbody>
    <tr>
      <th>No.</th>
      <th>English title</th>
      <th>Japanese release date<sup class="reference"><a href="#cite-1">[1]</a></sup></th>
      <th>Director</th>
    </tr>
    <tr>
      <td>1</td>
      <th scope="row"><i>Pokémon: The First Movie</i></th>
      <td>July 18, 1998</td>
      <td rowspan="2">Kunihiko Yuyama</td>
    </tr>
    <tr>
      <td>2</td>
      <th scope="row"><i>Pokémon: The Movie 2000</i><sup class="reference">[2]</sup></th>
      <td>July&nbsp;17,  1999</td>
    </tr>
    <tr>
      <td>3</td>
      <th scope="row"><i>Pokémon 3: The Movie</i></th>
      <td></td>
      <td>Kunihiko Yuyama</td>
    </tr>
    <tr>
      <td>4</td>
      <th scope="row"><i>Pokémon 4Ever</i></th>
      <td><span style="display:none">2001-07-07</span>July 7, 2001</td>
      <td>Kunihiko Yuyama</td>
    </tr>
  </tbody>
</table>
</body></html>`

// NoMoviesPage has tables, none of which carry the expected headers.
const NoMoviesPage = `<!DOCTYPE html>
<html><body>
<table><tr><th>Title</th><th>Release date</th></tr><tr><td>Movie A</td><td>1998</td></tr></table>
<table><tr><th>English title</th><th>Box office</th></tr><tr><td>Movie A</td><td>$1</td></tr></table>
</body></html>`
