// Package ui is the terminal front end. App bridges the view-model's state
// and effect streams into bubbletea messages and routes between the screens.
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/todo/internal/ui/keys"
	"github.com/tgienger/todo/internal/ui/styles"
	"github.com/tgienger/todo/internal/ui/views"
	"github.com/tgienger/todo/internal/viewmodel"
)

const statusTimeout = 3 * time.Second

// View is the currently active screen
type View int

const (
	ViewList View = iota
	ViewForm
	ViewDetail
)

// ViewModel is what App needs from viewmodel.TodoViewModel
type ViewModel interface {
	views.Dispatcher
	State() viewmodel.TodoState
	WatchState(ctx context.Context) <-chan viewmodel.TodoState
	Effects(ctx context.Context) <-chan viewmodel.Effect
}

var _ ViewModel = (*viewmodel.TodoViewModel)(nil)

type stateMsg struct {
	state viewmodel.TodoState
}

type effectMsg struct {
	effect viewmodel.Effect
}

type clearStatusMsg struct {
	seq int
}

// App is the root bubbletea model
type App struct {
	vm      ViewModel
	keys    keys.KeyMap
	styles  *styles.Styles
	states  <-chan viewmodel.TodoState
	effects <-chan viewmodel.Effect
	cancel  context.CancelFunc

	currentView View
	list        *views.TodoListView
	form        *views.TodoFormView
	detail      *views.TodoDetailView
	state       viewmodel.TodoState

	status      string
	statusError bool
	statusSeq   int

	width  int
	height int
}

// NewApp subscribes to vm and creates the application
func NewApp(vm ViewModel, km keys.KeyMap) *App {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		vm:          vm,
		keys:        km,
		styles:      styles.NewStyles(),
		states:      vm.WatchState(ctx),
		effects:     vm.Effects(ctx),
		cancel:      cancel,
		currentView: ViewList,
		list:        views.NewTodoListView(vm, km),
	}
}

// Close drops the view-model subscriptions
func (a *App) Close() {
	a.cancel()
}

// CurrentView returns the active screen
func (a *App) CurrentView() View {
	return a.currentView
}

// Init starts both pumps
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.list.Init(), waitForState(a.states), waitForEffect(a.effects))
}

// waitForState blocks on the next snapshot. A closed stream ends the pump.
func waitForState(ch <-chan viewmodel.TodoState) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg{state: s}
	}
}

func waitForEffect(ch <-chan viewmodel.Effect) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return effectMsg{effect: e}
	}
}

func (a *App) resize() tea.Cmd {
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: a.width, Height: a.height}
	}
}

// Update handles a message
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// the list persists across screens, keep it sized
		a.list.Update(msg)
		if a.form != nil {
			a.form.Update(msg)
		}
		if a.detail != nil {
			a.detail.Update(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}

	case stateMsg:
		return a, tea.Batch(a.applyState(msg.state), waitForState(a.states))

	case effectMsg:
		return a, tea.Batch(a.applyEffect(msg.effect), waitForEffect(a.effects))

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.status = ""
		}
		return a, nil

	case views.OpenForm:
		a.form = views.NewTodoFormView(a.vm, a.keys, msg.Task)
		a.currentView = ViewForm
		return a, tea.Batch(a.form.Init(), a.resize())

	case views.BackToList:
		a.showList()
		return a, nil
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewForm:
		_, cmd = a.form.Update(msg)
	case ViewDetail:
		_, cmd = a.detail.Update(msg)
	default:
		_, cmd = a.list.Update(msg)
	}
	return a, cmd
}

func (a *App) applyState(s viewmodel.TodoState) tea.Cmd {
	a.state = s
	cmd := a.list.SetState(s)

	if a.currentView == ViewDetail {
		// the shown todo follows the selection until it is deleted
		switch {
		case s.Selected == nil:
			a.showList()
		case s.Selected.ID == a.detail.Task().ID:
			a.detail.SetTask(*s.Selected)
		}
	}
	return cmd
}

func (a *App) applyEffect(e viewmodel.Effect) tea.Cmd {
	switch e := e.(type) {
	case viewmodel.ShowError:
		if a.currentView == ViewForm {
			a.form.SaveFailed(e.Message)
		}
		return a.setStatus(e.Message, true)

	case viewmodel.TodoAdded:
		if a.currentView == ViewForm && !a.form.Editing() {
			a.showList()
		}
		return a.setStatus("Todo added", false)

	case viewmodel.TodoUpdated:
		if a.currentView == ViewForm && a.form.Editing() {
			a.showList()
		}
		return a.setStatus("Todo updated", false)

	case viewmodel.TodoDeleted:
		if a.currentView == ViewDetail {
			a.showList()
		}
		return a.setStatus("Todo deleted", false)

	case viewmodel.NavigateToDetail:
		// the selection is set before the effect is sent, but its state
		// message may not have arrived yet
		task := a.vm.State().Selected
		if task == nil || task.ID != e.TodoID {
			return nil
		}
		a.detail = views.NewTodoDetailView(a.vm, a.keys, *task)
		a.currentView = ViewDetail
		return a.resize()
	}
	return nil
}

func (a *App) showList() {
	a.currentView = ViewList
	a.form = nil
	a.detail = nil
}

// setStatus shows message until a newer one replaces it or statusTimeout passes
func (a *App) setStatus(message string, isError bool) tea.Cmd {
	a.statusSeq++
	a.status = message
	a.statusError = isError
	seq := a.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// Status returns the transient status line
func (a *App) Status() (string, bool) {
	return a.status, a.statusError
}

// View renders the active screen and the status line
func (a *App) View() string {
	var content string
	switch a.currentView {
	case ViewForm:
		content = a.form.View()
	case ViewDetail:
		content = a.detail.View()
	default:
		content = a.list.View()
	}

	if a.status == "" {
		return content
	}
	style := a.styles.StatusBar
	if a.statusError {
		style = a.styles.StatusError
	}
	return lipgloss.JoinVertical(lipgloss.Left, content, style.Render(a.status))
}
