package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	next    key.Binding
	prev    key.Binding
	up      key.Binding
	down    key.Binding
	left    key.Binding
	right   key.Binding
	enter   key.Binding
	back    key.Binding
	toggle  key.Binding
	swap    key.Binding
	sort    key.Binding
	save    key.Binding
	open    key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		prev:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		up:      key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		down:    key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		left:    key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "adjust")),
		right:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "adjust")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select/search")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		swap:    key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "swap airports")),
		sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle sort")),
		save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save search")),
		open:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
		restart: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new search")),
		quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.enter, k.quit}
}

// ResultsHelp lists the bindings active on the results view.
func (k keyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.toggle, k.sort, k.save, k.open, k.restart, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.prev, k.up, k.down},
		{k.left, k.right, k.enter, k.toggle},
		{k.swap, k.sort, k.save, k.open},
		{k.back, k.restart, k.quit},
	}
}
