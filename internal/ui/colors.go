package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/moviesync/internal/tasks"
)

// Colors used across views.
const (
	colorAccent = lipgloss.Color("#7D56F4")
	colorOK     = lipgloss.Color("#04B575")
	colorError  = lipgloss.Color("#FF0000")
	colorWarn   = lipgloss.Color("#FFA500")
	colorMuted  = lipgloss.Color("#626262")
)

var theme = newTheme()

// themeStyles holds the rendered styles for each semantic role.
type themeStyles struct {
	heading lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	notice  lipgloss.Style
	muted   lipgloss.Style
	label   lipgloss.Style
	phases  map[tasks.Phase]lipgloss.Style
}

func newTheme() themeStyles {
	base := lipgloss.NewStyle()
	return themeStyles{
		heading: base.Foreground(colorAccent).Bold(true).MarginBottom(1),
		success: base.Foreground(colorOK).Bold(true),
		failure: base.Foreground(colorError).Bold(true),
		notice:  base.Foreground(colorWarn),
		muted:   base.Foreground(colorMuted).Italic(true),
		label:   base.Foreground(colorMuted).Bold(true).Width(14),
		phases: map[tasks.Phase]lipgloss.Style{
			tasks.FetchPage: base.Foreground(colorAccent),
			tasks.SyncStore: base.Foreground(colorWarn),
			tasks.Done:      base.Foreground(colorOK),
		},
	}
}

// field renders one "label value" line of a detail view.
func (t themeStyles) field(label string, value any) string {
	return t.label.Render(label) + fmt.Sprint(value)
}

// phase renders the status line for a running sync.
func (t themeStyles) phase(p tasks.Phase) string {
	var text string
	switch p {
	case tasks.FetchPage:
		text = "Fetching source page..."
	case tasks.SyncStore:
		text = "Writing new movies..."
	case tasks.Done:
		text = "Finishing..."
	default:
		return ""
	}

	if style, ok := t.phases[p]; ok {
		return style.Render(text)
	}
	return text
}
