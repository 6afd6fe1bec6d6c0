package viewmodel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tgienger/todo/internal/models"
)

// ErrEmptyTitle is returned when a todo is created without a title
var ErrEmptyTitle = errors.New("todo title cannot be empty")

// Filter selects which todos are displayed
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

// Filters lists every filter in display order
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

// ParseFilter parses the names produced by Filter.String
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "completed", "done":
		return FilterCompleted, nil
	}
	return FilterAll, fmt.Errorf("unknown filter %q", s)
}

// Keep reports whether task is shown under f
func (f Filter) Keep(task models.Task) bool {
	switch f {
	case FilterActive:
		return !task.IsCompleted
	case FilterCompleted:
		return task.IsCompleted
	default:
		return true
	}
}

// Apply returns the tasks shown under f, preserving order
func (f Filter) Apply(tasks []models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// TodoState is the UI state of the todo screen
type TodoState struct {
	Todos     []models.Task
	IsLoading bool
	Error     string // empty when there is no error
	Selected  *models.Task
	Filter    Filter

	// last full set from the store; Todos is always Filter applied to it
	all []models.Task
}

// Event is a user intent handled by TodoViewModel.OnEvent
type Event interface{ isEvent() }

type (
	// LoadTodos opens the live task subscription. ForceRefresh replaces an
	// already open one.
	LoadTodos struct{ ForceRefresh bool }

	// AddTodo creates a todo. Build it with NewAddTodo.
	AddTodo struct {
		Title       string
		Description string
		ImagePath   *string
	}

	UpdateTodo         struct{ Todo models.Task }
	DeleteTodo         struct{ Todo models.Task }
	DeleteTodoByID     struct{ ID int64 }
	ToggleTodoComplete struct{ Todo models.Task }

	// SelectTodo sets the selected todo; nil clears it
	SelectTodo struct{ Todo *models.Task }

	// OpenTodo selects a todo and asks the UI to show its details
	OpenTodo struct{ ID int64 }

	SetFilter struct{ Filter Filter }
)

func (LoadTodos) isEvent()          {}
func (AddTodo) isEvent()            {}
func (UpdateTodo) isEvent()         {}
func (DeleteTodo) isEvent()         {}
func (DeleteTodoByID) isEvent()     {}
func (ToggleTodoComplete) isEvent() {}
func (SelectTodo) isEvent()         {}
func (OpenTodo) isEvent()           {}
func (SetFilter) isEvent()          {}

// NewAddTodo validates and normalises user input for AddTodo. Title and
// description are trimmed and a blank image path becomes nil.
func NewAddTodo(title, description, imagePath string) (AddTodo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return AddTodo{}, ErrEmptyTitle
	}
	ev := AddTodo{Title: title, Description: strings.TrimSpace(description)}
	if p := strings.TrimSpace(imagePath); p != "" {
		ev.ImagePath = &p
	}
	return ev, nil
}

// Effect is a one-shot notification for whoever is listening right now
type Effect interface{ isEffect() }

type (
	ShowError        struct{ Message string }
	TodoAdded        struct{}
	TodoUpdated      struct{}
	TodoDeleted      struct{}
	NavigateToDetail struct{ TodoID int64 }
)

func (ShowError) isEffect()        {}
func (TodoAdded) isEffect()        {}
func (TodoUpdated) isEffect()      {}
func (TodoDeleted) isEffect()      {}
func (NavigateToDetail) isEffect() {}
