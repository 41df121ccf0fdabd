package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	left      key.Binding
	right     key.Binding
	grab      key.Binding
	favorite  key.Binding
	reading   key.Binding
	completed key.Binding
	trash     key.Binding
	remove    key.Binding
	restore   key.Binding
	filter    key.Binding
	enter     key.Binding
	back      key.Binding
	next      key.Binding
	reload    key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "column")),
		right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "column")),
		grab:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "grab/drop")),
		favorite:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "favorite")),
		reading:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "reading")),
		completed: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		trash:     key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "trash")),
		remove:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete forever")),
		restore:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "restore")),
		filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// statusKeys maps the number keys to their destination lists.
func (k keyMap) statusKeys() []key.Binding {
	return []key.Binding{k.favorite, k.reading, k.completed, k.trash}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.left, k.right},
		{k.grab, k.favorite, k.reading, k.completed, k.trash},
		{k.remove, k.restore, k.filter, k.reload},
		{k.next, k.back, k.quit},
	}
}
