package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tgienger/todo/internal/models"
	"github.com/tgienger/todo/internal/repository"
)

// FilterSettingKey is the settings key the active filter is remembered under
const FilterSettingKey = "todo_filter"

// TaskRepository is the subset of repository.TodoRepository the view-model uses
type TaskRepository interface {
	GetAllTasks(ctx context.Context) <-chan repository.Result
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	InsertTask(ctx context.Context, task models.Task) (int64, error)
	UpdateTask(ctx context.Context, task models.Task) error
	DeleteTask(ctx context.Context, task models.Task) error
	DeleteTaskByID(ctx context.Context, id int64) error
}

var _ TaskRepository = (*repository.TodoRepository)(nil)

// FilterStore persists the active filter between runs
type FilterStore interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Option configures a TodoViewModel
type Option func(*TodoViewModel)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(vm *TodoViewModel) { vm.now = now }
}

// WithInitialFilter sets the filter the state starts with
func WithInitialFilter(f Filter) Option {
	return func(vm *TodoViewModel) { vm.initialFilter = f }
}

// WithFilterStore remembers the active filter in store. A filter saved by an
// earlier run takes precedence over WithInitialFilter.
func WithFilterStore(store FilterStore) Option {
	return func(vm *TodoViewModel) { vm.filters = store }
}

// TodoViewModel owns the todo screen state and turns intents into repository calls
type TodoViewModel struct {
	*Base[TodoState, Effect]

	repo          TaskRepository
	now           func() time.Time
	filters       FilterStore
	initialFilter Filter

	mu         sync.Mutex
	cancelLoad context.CancelFunc
	loadGen    atomic.Int64
}

// NewTodoViewModel creates the view-model and starts loading todos
func NewTodoViewModel(repo TaskRepository, opts ...Option) *TodoViewModel {
	vm := &TodoViewModel{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(vm)
	}

	filter := vm.initialFilter
	if vm.filters != nil {
		filter = vm.savedFilter(filter)
	}

	vm.Base = NewBase[TodoState, Effect](TodoState{Filter: filter})
	vm.OnEvent(LoadTodos{})
	return vm
}

func (vm *TodoViewModel) savedFilter(fallback Filter) Filter {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	value, err := vm.filters.GetSetting(ctx, FilterSettingKey)
	if err != nil {
		slog.Warn("failed to read saved filter", "error", err)
		return fallback
	}
	if value == "" {
		return fallback
	}
	f, err := ParseFilter(value)
	if err != nil {
		slog.Warn("ignoring saved filter", "value", value, "error", err)
		return fallback
	}
	return f
}

// OnEvent handles one intent. State changes happen before OnEvent returns;
// repository calls run in the background and report through effects.
func (vm *TodoViewModel) OnEvent(event Event) {
	if vm.Closed() {
		slog.Error("event received after close", "event", fmt.Sprintf("%T", event))
		return
	}

	switch ev := event.(type) {
	case LoadTodos:
		vm.loadTodos(ev.ForceRefresh)
	case AddTodo:
		vm.addTodo(ev)
	case UpdateTodo:
		vm.updateTodo(ev.Todo)
	case DeleteTodo:
		vm.deleteTodo(ev.Todo)
	case DeleteTodoByID:
		vm.deleteTodoByID(ev.ID)
	case ToggleTodoComplete:
		vm.toggleTodoComplete(ev.Todo)
	case SelectTodo:
		vm.selectTodo(ev.Todo)
	case OpenTodo:
		vm.openTodo(ev.ID)
	case SetFilter:
		vm.setFilter(ev.Filter)
	default:
		slog.Error("unhandled event", "event", fmt.Sprintf("%T", event))
	}
}

func (vm *TodoViewModel) loadTodos(force bool) {
	vm.mu.Lock()
	if vm.cancelLoad != nil && !force {
		vm.mu.Unlock()
		slog.Debug("todos already loading")
		return
	}
	if vm.cancelLoad != nil {
		vm.cancelLoad()
	}
	ctx, cancel := context.WithCancel(vm.Context())
	vm.cancelLoad = cancel
	gen := vm.loadGen.Add(1)
	vm.mu.Unlock()

	vm.SetState(func(s TodoState) TodoState {
		s.IsLoading = true
		return s
	})

	stream := vm.repo.GetAllTasks(ctx)
	vm.Go(func(context.Context) {
		for result := range stream {
			if vm.loadGen.Load() != gen {
				return
			}
			if result.Err != nil {
				msg := errorMessage(result.Err, "Failed to load todos")
				vm.SetState(func(s TodoState) TodoState {
					s.IsLoading = false
					s.Error = msg
					return s
				})
				vm.SetEffect(ShowError{Message: msg})
				continue
			}
			tasks := result.Tasks
			vm.SetState(func(s TodoState) TodoState {
				if vm.loadGen.Load() != gen {
					return s
				}
				s.all = tasks
				s.Todos = s.Filter.Apply(tasks)
				s.IsLoading = false
				s.Error = ""
				s.Selected = refreshSelected(s.Selected, tasks)
				return s
			})
		}
	})
}

// refreshSelected swaps the selection for its newest version, or clears it
// when the task is gone
func refreshSelected(selected *models.Task, tasks []models.Task) *models.Task {
	if selected == nil {
		return nil
	}
	for i := range tasks {
		if tasks[i].ID == selected.ID {
			t := tasks[i]
			return &t
		}
	}
	return nil
}

func (vm *TodoViewModel) addTodo(ev AddTodo) {
	if strings.TrimSpace(ev.Title) == "" {
		slog.Warn("ignoring add with blank title")
		return
	}
	task := models.NewTask(ev.Title, ev.Description, ev.ImagePath, vm.now())

	vm.Go(func(ctx context.Context) {
		id, err := vm.repo.InsertTask(ctx, task)
		if err != nil {
			vm.fail(ctx, err, "Failed to add todo")
			return
		}
		slog.Info("todo added", "id", id)
		vm.SetEffect(TodoAdded{})
	})
}

func (vm *TodoViewModel) updateTodo(todo models.Task) {
	updated := todo.Touched(vm.now())

	vm.Go(func(ctx context.Context) {
		if err := vm.repo.UpdateTask(ctx, updated); err != nil {
			vm.fail(ctx, err, "Failed to update todo")
			return
		}
		slog.Info("todo updated", "id", updated.ID)
		vm.SetEffect(TodoUpdated{})
	})
}

func (vm *TodoViewModel) deleteTodo(todo models.Task) {
	vm.Go(func(ctx context.Context) {
		if err := vm.repo.DeleteTask(ctx, todo); err != nil {
			vm.fail(ctx, err, "Failed to delete todo")
			return
		}
		slog.Info("todo deleted", "id", todo.ID)
		vm.SetEffect(TodoDeleted{})
	})
}

func (vm *TodoViewModel) deleteTodoByID(id int64) {
	vm.Go(func(ctx context.Context) {
		if err := vm.repo.DeleteTaskByID(ctx, id); err != nil {
			vm.fail(ctx, err, "Failed to delete todo")
			return
		}
		slog.Info("todo deleted", "id", id)
		vm.SetEffect(TodoDeleted{})
	})
}

func (vm *TodoViewModel) toggleTodoComplete(todo models.Task) {
	toggled := todo.Toggled(vm.now())

	vm.Go(func(ctx context.Context) {
		if err := vm.repo.UpdateTask(ctx, toggled); err != nil {
			vm.fail(ctx, err, "Failed to toggle todo")
			return
		}
		slog.Debug("todo toggled", "id", toggled.ID, "completed", toggled.IsCompleted)
	})
}

func (vm *TodoViewModel) selectTodo(todo *models.Task) {
	var selected *models.Task
	if todo != nil {
		t := *todo
		selected = &t
	}
	vm.SetState(func(s TodoState) TodoState {
		s.Selected = selected
		return s
	})
}

func (vm *TodoViewModel) openTodo(id int64) {
	found := false
	vm.SetState(func(s TodoState) TodoState {
		for i := range s.all {
			if s.all[i].ID == id {
				t := s.all[i]
				s.Selected = &t
				found = true
				break
			}
		}
		return s
	})
	if found {
		vm.SetEffect(NavigateToDetail{TodoID: id})
		return
	}

	// not in the last snapshot yet, ask the store directly
	vm.Go(func(ctx context.Context) {
		task, err := vm.repo.GetTask(ctx, id)
		if err != nil {
			vm.fail(ctx, err, "Failed to open todo")
			return
		}
		if task == nil {
			vm.SetEffect(ShowError{Message: fmt.Sprintf("Todo %d not found", id)})
			return
		}
		vm.SetState(func(s TodoState) TodoState {
			s.Selected = task
			return s
		})
		vm.SetEffect(NavigateToDetail{TodoID: id})
	})
}

func (vm *TodoViewModel) setFilter(f Filter) {
	vm.SetState(func(s TodoState) TodoState {
		s.Filter = f
		s.Todos = f.Apply(s.all)
		return s
	})

	if vm.filters == nil {
		return
	}
	vm.Go(func(ctx context.Context) {
		if err := vm.filters.SetSetting(ctx, FilterSettingKey, f.String()); err != nil {
			slog.Warn("failed to save filter", "filter", f.String(), "error", err)
		}
	})
}

// All returns the last full task set received from the store
func (vm *TodoViewModel) All() []models.Task {
	return vm.State().all
}

// fail reports err as a ShowError effect unless the container is shutting down
func (vm *TodoViewModel) fail(ctx context.Context, err error, fallback string) {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return
	}
	slog.Error(fallback, "error", err)
	vm.SetEffect(ShowError{Message: errorMessage(err, fallback)})
}

func errorMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
