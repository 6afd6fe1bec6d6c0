package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/todo/internal/models"
	"github.com/tgienger/todo/internal/ui/keys"
	"github.com/tgienger/todo/internal/ui/styles"
	"github.com/tgienger/todo/internal/viewmodel"
)

type todoItem struct {
	task models.Task
}

func (i todoItem) Title() string       { return i.task.Title }
func (i todoItem) Description() string { return i.task.Description }
func (i todoItem) FilterValue() string { return i.task.Title }

type todoDelegate struct {
	styles *styles.Styles
	width  int
}

func (d todoDelegate) Height() int                               { return 2 }
func (d todoDelegate) Spacing() int                              { return 1 }
func (d todoDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d todoDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(todoItem)
	if !ok {
		return
	}
	s := d.styles
	task := it.task

	selected := index == m.Index()
	width := max(d.width-4, 20)

	box := s.Checkbox.Render("[ ]")
	title := task.Title
	if task.IsCompleted {
		box = s.CheckboxDone.Render("[x]")
		title = s.TodoDone.Render(title)
	}
	titleLine := box + " " + title

	desc := firstLine(task.Description)
	if desc == "" {
		desc = "no description"
	}
	if task.HasImage() {
		desc += "  " + s.Badge.Render("▣ image")
	}
	descLine := "    " + desc

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = s.ListSelected.Width(width)
		descStyle = s.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = s.ListItem.Width(width)
		descStyle = s.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	fmt.Fprintf(w, "%s\n%s", titleStyle.Render(titleLine), descStyle.Render(descLine))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "…"
	}
	return s
}

// TodoListView shows the filtered todo list with filter tabs
type TodoListView struct {
	events   Dispatcher
	list     list.Model
	delegate *todoDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	help     help.Model

	width  int
	height int

	state  viewmodel.TodoState
	loaded bool

	// Delete confirmation
	confirmingDelete bool
	deleteTarget     models.Task

	// Help popup
	showHelpPopup bool
}

// NewTodoListView creates the list screen
func NewTodoListView(events Dispatcher, km keys.KeyMap) *TodoListView {
	s := styles.NewStyles()

	delegate := &todoDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Todos"
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	// q and esc belong to the app
	l.KeyMap.Quit.SetEnabled(false)

	h := help.New()
	h.Styles.ShortKey = s.HelpKey
	h.Styles.ShortDesc = s.HelpDesc
	h.Styles.FullKey = s.HelpKey
	h.Styles.FullDesc = s.HelpDesc

	return &TodoListView{
		events:   events,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     km,
		help:     h,
	}
}

// Init initializes the view
func (v *TodoListView) Init() tea.Cmd {
	return nil
}

// SetState shows a new view-model snapshot, keeping the cursor on the same todo
func (v *TodoListView) SetState(state viewmodel.TodoState) tea.Cmd {
	var currentID int64
	if t, ok := v.Selected(); ok {
		currentID = t.ID
	}

	v.state = state
	if !state.IsLoading {
		v.loaded = true
	}

	items := make([]list.Item, len(state.Todos))
	index := 0
	for i, t := range state.Todos {
		items[i] = todoItem{task: t}
		if t.ID == currentID {
			index = i
		}
	}
	cmd := v.list.SetItems(items)
	if v.list.FilterState() == list.Unfiltered && len(items) > 0 {
		v.list.Select(index)
	}
	return cmd
}

// Selected returns the highlighted todo
func (v *TodoListView) Selected() (models.Task, bool) {
	if item, ok := v.list.SelectedItem().(todoItem); ok {
		return item.task, true
	}
	return models.Task{}, false
}

// Update handles a message
func (v *TodoListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.help.Width = contentWidth
		v.list.SetSize(contentWidth-4, max(msg.Height-8, 3))
		return v, nil

	case tea.KeyMsg:
		// any key closes the help popup
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		// the search box gets every key while it is open
		if v.list.FilterState() == list.Filtering {
			return v.updateList(msg)
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.New):
			return v, send(OpenForm{})
		case key.Matches(msg, v.keys.Edit):
			if t, ok := v.Selected(); ok {
				return v, send(OpenForm{Task: &t})
			}
			return v, nil
		case key.Matches(msg, v.keys.Delete):
			if t, ok := v.Selected(); ok {
				v.confirmingDelete = true
				v.deleteTarget = t
			}
			return v, nil
		case key.Matches(msg, v.keys.Toggle):
			if t, ok := v.Selected(); ok {
				v.events.OnEvent(viewmodel.ToggleTodoComplete{Todo: t})
			}
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if t, ok := v.Selected(); ok {
				v.events.OnEvent(viewmodel.OpenTodo{ID: t.ID})
			}
			return v, nil
		case key.Matches(msg, v.keys.NextFilter):
			v.setFilter(nextFilter(v.state.Filter, 1))
			return v, nil
		case key.Matches(msg, v.keys.PrevFilter):
			v.setFilter(nextFilter(v.state.Filter, -1))
			return v, nil
		case key.Matches(msg, v.keys.FilterAll):
			v.setFilter(viewmodel.FilterAll)
			return v, nil
		case key.Matches(msg, v.keys.FilterActive):
			v.setFilter(viewmodel.FilterActive)
			return v, nil
		case key.Matches(msg, v.keys.FilterCompleted):
			v.setFilter(viewmodel.FilterCompleted)
			return v, nil
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Back):
			// clears an applied search, never quits
			if v.list.FilterState() != list.Unfiltered {
				v.list.ResetFilter()
			}
			return v, nil
		}
		return v.updateList(msg)
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// updateList forwards msg to the list and reports a new highlight as a selection
func (v *TodoListView) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	before, hadBefore := v.Selected()

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)

	after, hasAfter := v.Selected()
	if hasAfter && (!hadBefore || before.ID != after.ID) {
		v.events.OnEvent(viewmodel.SelectTodo{Todo: &after})
	}
	return v, cmd
}

func (v *TodoListView) setFilter(f viewmodel.Filter) {
	if f == v.state.Filter {
		return
	}
	// optimistic so repeated tab presses advance before the next snapshot arrives
	v.state.Filter = f
	v.events.OnEvent(viewmodel.SetFilter{Filter: f})
}

func nextFilter(f viewmodel.Filter, dir int) viewmodel.Filter {
	n := len(viewmodel.Filters)
	for i, candidate := range viewmodel.Filters {
		if candidate == f {
			return viewmodel.Filters[(i+dir+n)%n]
		}
	}
	return viewmodel.FilterAll
}

func (v *TodoListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Confirm):
		v.confirmingDelete = false
		v.events.OnEvent(viewmodel.DeleteTodo{Todo: v.deleteTarget})
		return v, nil
	case key.Matches(msg, v.keys.Cancel):
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

// View renders the view
func (v *TodoListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return renderDeleteConfirm(v.styles, v.deleteTarget.Title, v.width, v.height)
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	if len(v.state.Todos) == 0 && v.state.Filter == viewmodel.FilterAll {
		return v.renderEmpty()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	if len(v.state.Todos) == 0 {
		b.WriteString(v.styles.ListItem.Render(v.styles.TitleMuted.Render(
			fmt.Sprintf("No %s todos", v.state.Filter))))
		b.WriteString("\n")
	} else {
		b.WriteString(v.list.View())
	}
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TodoListView) renderHeader() string {
	s := v.styles

	tabs := make([]string, 0, len(viewmodel.Filters))
	for i, f := range viewmodel.Filters {
		label := fmt.Sprintf("%d %s", i+1, tabLabel(f))
		if f == v.state.Filter {
			tabs = append(tabs, s.TabActive.Render(label))
		} else {
			tabs = append(tabs, s.Tab.Render(label))
		}
	}

	title := s.Title.Render("Todos")
	if v.state.Error != "" {
		title += "  " + s.StatusError.Render(v.state.Error)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
	)
}

func tabLabel(f viewmodel.Filter) string {
	switch f {
	case viewmodel.FilterActive:
		return "Active"
	case viewmodel.FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

func (v *TodoListView) renderEmpty() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Todos"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("Press '%s' to create your first todo", v.keys.New.Help().Key)),
		"",
		s.ButtonPrimary.Render(" New Todo "),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TodoListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// narrow terminals only get the hint
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render(v.keys.Help.Help().Key) + " help")
	}
	return v.styles.Help.Render(v.help.ShortHelpView(v.keys.ShortHelp()))
}

func (v *TodoListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Keyboard Shortcuts"),
		"",
		v.help.FullHelpView(v.keys.FullHelp()),
		"",
		s.TitleMuted.Render("Press any key to close"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

// renderDeleteConfirm is the y/n prompt shared by the list and detail screens
func renderDeleteConfirm(s *styles.Styles, title string, width, height int) string {
	contentWidth := styles.ContentWidth(width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Todo?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q will be removed.", title)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, width, height)
}
