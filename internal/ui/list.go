package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/moviesync/internal/models"
)

var (
	_ list.Item = movieItem{}
	_ list.Item = runItem{}
)

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie models.Movie
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string       { return i.movie.Title }
func (i movieItem) Description() string { return i.movie.ReleaseDate }

// runItem wraps [models.SyncRun] to implement [list.Item].
type runItem struct {
	run *models.SyncRun
}

func (i runItem) FilterValue() string { return i.run.ID() }
func (i runItem) Title() string {
	return i.run.StartedAt().Local().Format(time.DateTime)
}
func (i runItem) Description() string {
	return fmt.Sprintf("%d fetched • %d added • %s", i.run.Fetched(), i.run.Added(), i.run.Duration().Round(time.Millisecond))
}

func movieItems(movies models.Batch) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m}
	}
	return items
}

func runItems(runs []*models.SyncRun) []list.Item {
	items := make([]list.Item, len(runs))
	for i, r := range runs {
		items[i] = runItem{run: r}
	}
	return items
}
