// Package keys defines the key bindings shared by the views
package keys

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/tgienger/todo/internal/config"
)

// KeyMap holds every binding the views react to
type KeyMap struct {
	Quit   key.Binding
	Back   key.Binding
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Toggle key.Binding
	Enter  key.Binding
	Up     key.Binding
	Down   key.Binding
	Help   key.Binding
	Search key.Binding

	// Filter tabs
	NextFilter      key.Binding
	PrevFilter      key.Binding
	FilterAll       key.Binding
	FilterActive    key.Binding
	FilterCompleted key.Binding

	// Forms
	Save     key.Binding
	Tab      key.Binding
	ShiftTab key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
}

// DefaultKeyMap returns the bindings for the default key mappings
func DefaultKeyMap() KeyMap {
	return New(config.DefaultKeyMappings())
}

// New builds a key map from user key mappings
func New(m config.KeyMappings) KeyMap {
	return KeyMap{
		Quit:   key.NewBinding(key.WithKeys(m.Quit), key.WithHelp(label(m.Quit), "quit")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		New:    key.NewBinding(key.WithKeys(m.New), key.WithHelp(label(m.New), "new")),
		Edit:   key.NewBinding(key.WithKeys(m.Edit), key.WithHelp(label(m.Edit), "edit")),
		Delete: key.NewBinding(key.WithKeys(m.Delete), key.WithHelp(label(m.Delete), "delete")),
		Toggle: key.NewBinding(key.WithKeys(m.Toggle), key.WithHelp(label(m.Toggle), "done")),
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("↵", "open")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Help:   key.NewBinding(key.WithKeys(m.Help), key.WithHelp(label(m.Help), "help")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),

		NextFilter:      key.NewBinding(key.WithKeys(m.Filter), key.WithHelp(label(m.Filter), "filter")),
		PrevFilter:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous filter")),
		FilterAll:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		FilterActive:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		FilterCompleted: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),

		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		ShiftTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		Confirm:  key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		Cancel:   key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
	}
}

// label is the help text for a key
func label(k string) string {
	switch k {
	case " ":
		return "space"
	case "enter":
		return "↵"
	}
	return k
}

// ShortHelp is the one-line help of the list screen
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.New, k.Toggle, k.Edit, k.Delete, k.NextFilter, k.Help, k.Quit}
}

// FullHelp is the help popup of the list screen
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Search},
		{k.New, k.Edit, k.Toggle, k.Delete},
		{k.NextFilter, k.PrevFilter, k.FilterAll, k.FilterActive, k.FilterCompleted},
		{k.Help, k.Quit},
	}
}
