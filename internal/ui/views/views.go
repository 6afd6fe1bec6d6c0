// Package views holds the screens of the terminal UI. Views never touch the
// store; they read view-model state handed to them and send intents back.
package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/todo/internal/models"
	"github.com/tgienger/todo/internal/viewmodel"
)

// Dispatcher receives the intents produced by the views
type Dispatcher interface {
	OnEvent(event viewmodel.Event)
}

// OpenForm asks for the add/edit form. Task is nil when adding.
type OpenForm struct {
	Task *models.Task
}

// BackToList asks to return to the todo list
type BackToList struct{}

func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
