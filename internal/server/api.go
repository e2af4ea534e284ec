package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/moviesync/internal/models"
	"github.com/desertthunder/moviesync/internal/repositories"
	"github.com/desertthunder/moviesync/internal/shared"
	"github.com/desertthunder/moviesync/internal/tasks"
)

// Library reads the movie store. [tasks.Synchronizer] implements it.
type Library interface {
	Movie(ctx context.Context, title string) (*models.Movie, error)
	Movies(ctx context.Context, opts repositories.ListOptions) (models.Batch, error)
	Runs(ctx context.Context, limit int) ([]*models.SyncRun, error)
}

// Runner performs one sync run. [tasks.Pipeline] implements it.
type Runner interface {
	Run(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.Report, error)
}

var (
	_ Library = (*tasks.Synchronizer)(nil)
	_ Runner  = (*tasks.Pipeline)(nil)
)

// RunView is the JSON shape of a recorded sync run.
type RunView struct {
	ID         string    `json:"id"`
	SourceURL  string    `json:"source_url"`
	Fetched    int       `json:"fetched"`
	Added      int       `json:"added"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewRunView converts a run for JSON output.
func NewRunView(run *models.SyncRun) RunView {
	return RunView{
		ID:         run.ID(),
		SourceURL:  run.SourceURL(),
		Fetched:    run.Fetched(),
		Added:      run.Added(),
		StartedAt:  run.StartedAt(),
		FinishedAt: run.FinishedAt(),
	}
}

// API serves the store over HTTP. POST /sync is only registered when a runner is given.
type API struct {
	library Library
	runner  Runner
	logger  *log.Logger
	syncMu  sync.Mutex
}

// NewAPI creates an API.
func NewAPI(library Library, runner Runner, logger *log.Logger) *API {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &API{library: library, runner: runner, logger: logger}
}

// Register mounts the API routes on router.
func (a *API) Register(router Router) {
	router.Handle(http.MethodGet, "/healthz", http.HandlerFunc(a.health))
	router.Handle(http.MethodGet, "/movies", http.HandlerFunc(a.listMovies))
	router.Handle(http.MethodGet, "/movies/{title}", http.HandlerFunc(a.getMovie))
	router.Handle(http.MethodGet, "/runs", http.HandlerFunc(a.listRuns))
	if a.runner != nil {
		router.Handle(http.MethodPost, "/sync", http.HandlerFunc(a.sync))
	}
}

// NewHandler builds a router with the standard middleware and the API mounted.
func NewHandler(api *API) http.Handler {
	router := NewBasicRouter()
	router.Use(RequestID(), Logging(api.logger), Recover(api.logger))
	api.Register(router)
	return router
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) listMovies(w http.ResponseWriter, r *http.Request) {
	opts := repositories.ListOptions{}
	switch r.URL.Query().Get("order") {
	case "", "inserted":
		opts.Order = repositories.OrderInserted
	case "title":
		opts.Order = repositories.OrderTitle
	default:
		writeError(w, http.StatusBadRequest, "order must be inserted or title")
		return
	}

	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}
	opts.Limit = limit

	movies, err := a.library.Movies(r.Context(), opts)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

func (a *API) getMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := a.library.Movie(r.Context(), r.PathValue("title"))
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (a *API) listRuns(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}

	runs, err := a.library.Runs(r.Context(), limit)
	if err != nil {
		a.fail(w, err)
		return
	}

	views := make([]RunView, len(runs))
	for i, run := range runs {
		views[i] = NewRunView(run)
	}
	writeJSON(w, http.StatusOK, views)
}

// sync runs the pipeline once. Overlapping requests are rejected rather than queued.
func (a *API) sync(w http.ResponseWriter, r *http.Request) {
	if !a.syncMu.TryLock() {
		writeError(w, http.StatusConflict, "a sync run is already in progress")
		return
	}
	defer a.syncMu.Unlock()

	report, err := a.runner.Run(r.Context(), nil)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// fail maps pipeline and store errors to a status code.
func (a *API) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shared.ErrMovieNotFound):
		status = http.StatusNotFound
	case errors.Is(err, shared.ErrFetch), errors.Is(err, shared.ErrParse):
		status = http.StatusBadGateway
	default:
		a.logger.Error("request failed", "error", err)
	}
	writeError(w, status, err.Error())
}

func queryLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return 0, false
	}
	return limit, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
