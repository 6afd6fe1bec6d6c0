package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/todo/internal/models"
	"github.com/tgienger/todo/internal/ui/keys"
	"github.com/tgienger/todo/internal/ui/styles"
	"github.com/tgienger/todo/internal/viewmodel"
)

const timeLayout = "Jan 2, 2006 3:04 PM"

// TodoDetailView shows one todo read-only
type TodoDetailView struct {
	events Dispatcher
	styles *styles.Styles
	keys   keys.KeyMap
	task   models.Task

	width  int
	height int

	confirmingDelete bool
}

// NewTodoDetailView creates the detail screen for task
func NewTodoDetailView(events Dispatcher, km keys.KeyMap, task models.Task) *TodoDetailView {
	return &TodoDetailView{
		events: events,
		styles: styles.NewStyles(),
		keys:   km,
		task:   task,
	}
}

// Init initializes the view
func (v *TodoDetailView) Init() tea.Cmd {
	return nil
}

// Task returns the todo being shown
func (v *TodoDetailView) Task() models.Task {
	return v.task
}

// SetTask replaces the shown todo with a newer version
func (v *TodoDetailView) SetTask(task models.Task) {
	v.task = task
}

// Update handles a message
func (v *TodoDetailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			switch {
			case key.Matches(msg, v.keys.Confirm):
				v.confirmingDelete = false
				v.events.OnEvent(viewmodel.DeleteTodoByID{ID: v.task.ID})
			case key.Matches(msg, v.keys.Cancel):
				v.confirmingDelete = false
			}
			return v, nil
		}

		switch {
		case key.Matches(msg, v.keys.Back):
			return v, send(BackToList{})
		case key.Matches(msg, v.keys.Edit):
			t := v.task
			return v, send(OpenForm{Task: &t})
		case key.Matches(msg, v.keys.Toggle):
			v.events.OnEvent(viewmodel.ToggleTodoComplete{Todo: v.task})
		case key.Matches(msg, v.keys.Delete):
			v.confirmingDelete = true
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		}
	}
	return v, nil
}

// View renders the view
func (v *TodoDetailView) View() string {
	s := v.styles
	task := v.task

	if v.confirmingDelete {
		return renderDeleteConfirm(s, task.Title, v.width, v.height)
	}

	textWidth := styles.Clamp(styles.ContentWidth(v.width)-10, 20, 70)
	labelStyle := s.TitleMuted

	status := s.Checkbox.Render("Active")
	if task.IsCompleted {
		status = s.CheckboxDone.Render("Completed")
	}

	description := task.Description
	if description == "" {
		description = s.TitleMuted.Render("No description")
	}

	image := s.TitleMuted.Render("None")
	if task.HasImage() {
		image = s.Badge.Render(*task.ImagePath)
	}

	helpText := s.Help.Render(
		fmt.Sprintf("%s edit • %s toggle • %s delete • %s back",
			s.HelpKey.Render(v.keys.Edit.Help().Key),
			s.HelpKey.Render(v.keys.Toggle.Help().Key),
			s.HelpKey.Render(v.keys.Delete.Help().Key),
			s.HelpKey.Render(v.keys.Back.Help().Key),
		),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.MarginBottom(1).Render(task.Title),
		labelStyle.Render("Status"),
		status,
		"",
		labelStyle.Render("Description"),
		lipgloss.NewStyle().Width(textWidth).Render(description),
		"",
		labelStyle.Render("Image"),
		image,
		"",
		labelStyle.Render("Created"),
		task.CreatedAt.Local().Format(timeLayout),
		"",
		labelStyle.Render("Updated"),
		task.UpdatedAt.Local().Format(timeLayout),
		"",
		helpText,
	)

	padded := lipgloss.NewStyle().Padding(1, 2).Render(content)
	return styles.CenterView(padded, v.width, v.height)
}
