package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/moviesync/internal/models"
	"github.com/desertthunder/moviesync/internal/repositories"
	"github.com/desertthunder/moviesync/internal/tasks"
)

// historyLimit caps the runs shown in [HistoryView].
const historyLimit = 50

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MovieListView ViewState = iota
	MovieView
	HistoryView
	SyncView
	ResultView
)

// Library reads the movie store. [tasks.Synchronizer] implements it.
type Library interface {
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

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	library      Library
	runner       Runner
	width        int
	height       int
	movieList    list.Model
	movies       models.Batch
	runList      list.Model
	selected     *models.Movie
	progressChan chan tasks.ProgressUpdate
	doneChan     chan Msg
	progress     tasks.ProgressUpdate
	report       *tasks.Report
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model. runner may be nil, which disables syncing from the interface.
func NewModel(ctx context.Context, library Library, runner Runner) *Model {
	return &Model{
		ctx:       ctx,
		view:      MovieListView,
		library:   library,
		runner:    runner,
		movieList: newList("Stored Movies", nil),
		runList:   newList("Sync History", nil),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	return l
}

// Init initializes the TUI by loading stored movies.
func (m *Model) Init() tea.Cmd {
	return m.loadMovies()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.movieList.SetSize(msg.Width-4, msg.Height-6)
		m.runList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case MovieListView:
			return m.handleMovieListKeys(msg)
		case MovieView:
			return m.handleMovieKeys(msg)
		case HistoryView:
			return m.handleHistoryKeys(msg)
		case SyncView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgMoviesLoaded:
		data := msg.data.(moviesLoaded)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.movies = data.movies
		cmd := m.movieList.SetItems(movieItems(data.movies))
		m.movieList.Title = fmt.Sprintf("Stored Movies (%d)", len(data.movies))
		return m, cmd

	case MsgRunsLoaded:
		data := msg.data.(runsLoaded)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		cmd := m.runList.SetItems(runItems(data.runs))
		m.view = HistoryView
		return m, cmd

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, waitForSync(m.progressChan, m.doneChan)

	case MsgSyncComplete:
		data := msg.data.(syncComplete)
		m.report = data.report
		m.err = data.err
		m.progressChan = nil
		m.doneChan = nil
		m.view = ResultView
		if data.err != nil {
			return m, nil
		}
		return m, m.loadMovies()
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return theme.failure.Render(fmt.Sprintf("Error: %v\n\nPress r to reload, q to quit", m.err))
	}

	switch m.view {
	case MovieListView:
		return m.renderMovieList()
	case MovieView:
		return m.renderMovie()
	case HistoryView:
		return m.renderHistory()
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleMovieListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Keys belong to the filter input while the user types.
	if m.movieList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.movieList, cmd = m.movieList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reload):
		m.err = nil
		return m, m.loadMovies()
	case key.Matches(msg, m.keys.history):
		return m, m.loadRuns()
	case key.Matches(msg, m.keys.sync):
		if m.runner == nil {
			return m, nil
		}
		m.view = SyncView
		m.report = nil
		m.progress = tasks.ProgressUpdate{}
		return m, m.startSync()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.movieList.SelectedItem().(movieItem); ok {
			movie := item.movie
			m.selected = &movie
			m.view = MovieView
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.movieList, cmd = m.movieList.Update(msg)
	return m, cmd
}

func (m *Model) handleMovieKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.selected = nil
		m.view = MovieListView
	}
	return m, nil
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = MovieListView
		return m, nil
	}

	var cmd tea.Cmd
	m.runList, cmd = m.runList.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.enter):
		m.view = MovieListView
		m.report = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case MovieListView:
		m.movieList, cmd = m.movieList.Update(msg)
	case HistoryView:
		m.runList, cmd = m.runList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadMovies() tea.Cmd {
	return func() tea.Msg {
		movies, err := m.library.Movies(m.ctx, repositories.ListOptions{Order: repositories.OrderInserted})
		return moviesLoadedMsg(movies, err)
	}
}

func (m *Model) loadRuns() tea.Cmd {
	return func() tea.Msg {
		runs, err := m.library.Runs(m.ctx, historyLimit)
		return runsLoadedMsg(runs, err)
	}
}

func (m *Model) startSync() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 8)
	done := make(chan Msg, 1)
	m.progressChan = progress
	m.doneChan = done

	go func() {
		report, err := m.runner.Run(m.ctx, progress)
		close(progress)
		done <- syncCompleteMsg(report, err)
	}()

	return waitForSync(progress, done)
}

// waitForSync delivers the next progress update, or the final result once the run closes its channel.
func waitForSync(progress <-chan tasks.ProgressUpdate, done <-chan Msg) tea.Cmd {
	return func() tea.Msg {
		if update, ok := <-progress; ok {
			return progressUpdateMsg(update)
		}
		return <-done
	}
}

func (m *Model) helpView() string {
	return m.help.ShortHelpView(m.keys.forView(m.view, m.runner != nil))
}

func (m *Model) renderMovieList() string {
	helpView := m.helpView()

	if len(m.movies) == 0 {
		empty := theme.notice.Render("No movies stored yet.")
		return fmt.Sprintf("%s\n\n%s\n\n%s", theme.heading.Render("Stored Movies"), empty, helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.movieList.View(), helpView)
}

func (m *Model) renderMovie() string {
	if m.selected == nil {
		return ""
	}
	title := theme.heading.Render(m.selected.Title)
	info := theme.field("Title", m.selected.Title) + "\n" + theme.field("Release date", m.selected.ReleaseDate)
	helpView := m.helpView()
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}

func (m *Model) renderHistory() string {
	helpView := m.helpView()
	if len(m.runList.Items()) == 0 {
		empty := theme.notice.Render("No sync runs recorded yet.")
		return fmt.Sprintf("%s\n\n%s\n\n%s", theme.heading.Render("Sync History"), empty, helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.runList.View(), helpView)
}

func (m *Model) renderSync() string {
	title := theme.heading.Render("Syncing Movies")

	return fmt.Sprintf("%s\n\n%s\n%s", title, theme.phase(m.progress.Phase), theme.muted.Render(m.progress.Message))
}

func (m *Model) renderResult() string {
	helpView := m.helpView()

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", theme.failure.Render(fmt.Sprintf("Sync failed: %v", m.err)), helpView)
	}
	if m.report == nil {
		return fmt.Sprintf("%s\n\n%s", theme.failure.Render("No result available"), helpView)
	}

	var b strings.Builder
	b.WriteString(theme.success.Render("✓ " + m.report.Summary()))
	fmt.Fprintf(&b, "\n\n%s\n%s\n%s\n",
		theme.field("Source", m.report.SourceURL),
		theme.field("Fetched", m.report.TotalFetched),
		theme.field("New", m.report.NewCount),
	)
	if m.report.NewCount > 0 {
		fmt.Fprintf(&b, "\n%s\n", m.report.Preview)
	}
	b.WriteString("\n")
	b.WriteString(helpView)
	return b.String()
}
