package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the browser reacts to. Navigation inside lists is left to [list.Model].
type keyMap struct {
	enter   key.Binding
	back    key.Binding
	sync    key.Binding
	history key.Binding
	reload  key.Binding
	quit    key.Binding
}

func binding(help string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
}

func newKeyMap() keyMap {
	return keyMap{
		enter:   binding("details", "enter"),
		back:    binding("back", "esc"),
		sync:    binding("sync now", "s"),
		history: binding("history", "h"),
		reload:  binding("reload", "r"),
		quit:    binding("quit", "q", "ctrl+c"),
	}
}

// forView returns the bindings advertised in the help line of view.
// canSync hides the sync binding when no runner is configured.
func (k keyMap) forView(view ViewState, canSync bool) []key.Binding {
	switch view {
	case MovieListView:
		bindings := []key.Binding{k.enter, k.history, k.reload, k.quit}
		if canSync {
			bindings = append([]key.Binding{k.sync}, bindings...)
		}
		return bindings
	case SyncView:
		return []key.Binding{k.quit}
	default:
		return []key.Binding{k.back, k.quit}
	}
}
