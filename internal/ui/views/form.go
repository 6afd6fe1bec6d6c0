package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/todo/internal/models"
	"github.com/tgienger/todo/internal/ui/keys"
	"github.com/tgienger/todo/internal/ui/styles"
	"github.com/tgienger/todo/internal/viewmodel"
)

const (
	focusTitle = iota
	focusDescription
	focusImage
	focusSave
	formFields
)

// TodoFormView adds a new todo or edits an existing one
type TodoFormView struct {
	events Dispatcher
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	editing     *models.Task // nil when adding
	title       textinput.Model
	description textarea.Model
	imagePath   textinput.Model
	focusIdx    int

	saving bool
	err    string
}

// NewTodoFormView creates the form, prefilled from task when editing
func NewTodoFormView(events Dispatcher, km keys.KeyMap, task *models.Task) *TodoFormView {
	title := textinput.New()
	title.Placeholder = "Todo title"
	title.CharLimit = 200

	description := textarea.New()
	description.Placeholder = "Description (optional)"
	description.CharLimit = 2000
	description.SetWidth(50)
	description.SetHeight(4)
	description.ShowLineNumbers = false

	imagePath := textinput.New()
	imagePath.Placeholder = "Image path (optional)"
	imagePath.CharLimit = 500

	v := &TodoFormView{
		events:      events,
		styles:      styles.NewStyles(),
		keys:        km,
		title:       title,
		description: description,
		imagePath:   imagePath,
	}

	if task != nil {
		t := *task
		v.editing = &t
		v.title.SetValue(t.Title)
		v.description.SetValue(t.Description)
		if t.ImagePath != nil {
			v.imagePath.SetValue(*t.ImagePath)
		}
	}
	v.updateFocus()
	return v
}

// Init starts the cursor blinking
func (v *TodoFormView) Init() tea.Cmd {
	return textinput.Blink
}

// Editing reports whether the form edits an existing todo
func (v *TodoFormView) Editing() bool {
	return v.editing != nil
}

// CanSave reports whether the form holds a valid todo
func (v *TodoFormView) CanSave() bool {
	return !v.saving && strings.TrimSpace(v.title.Value()) != ""
}

// SaveFailed re-enables the form after the view-model rejected a save
func (v *TodoFormView) SaveFailed(message string) {
	v.saving = false
	v.err = message
}

// Update handles a message
func (v *TodoFormView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		inputWidth := styles.Clamp(styles.ContentWidth(msg.Width)-8, 20, 50)
		v.title.Width = inputWidth
		v.imagePath.Width = inputWidth
		v.description.SetWidth(inputWidth)
		return v, nil

	case tea.KeyMsg:
		return v.updateKeys(msg)
	}

	return v.updateField(msg)
}

func (v *TodoFormView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		return v, send(BackToList{})

	case key.Matches(msg, v.keys.Save):
		return v, v.save()

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % formFields
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.ShiftTab):
		v.focusIdx = (v.focusIdx + formFields - 1) % formFields
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.focusIdx {
		case focusTitle, focusImage:
			v.focusIdx++
			v.updateFocus()
			return v, nil
		case focusSave:
			return v, v.save()
		}
		// enter adds a newline in the description
	}

	return v.updateField(msg)
}

func (v *TodoFormView) updateField(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch v.focusIdx {
	case focusTitle:
		v.title, cmd = v.title.Update(msg)
	case focusDescription:
		v.description, cmd = v.description.Update(msg)
	case focusImage:
		v.imagePath, cmd = v.imagePath.Update(msg)
	}
	return v, cmd
}

func (v *TodoFormView) updateFocus() {
	v.title.Blur()
	v.description.Blur()
	v.imagePath.Blur()

	switch v.focusIdx {
	case focusTitle:
		v.title.Focus()
	case focusDescription:
		v.description.Focus()
	case focusImage:
		v.imagePath.Focus()
	}
}

// save sends the add or update intent. The form stays open until the
// view-model confirms the write.
func (v *TodoFormView) save() tea.Cmd {
	if !v.CanSave() {
		return nil
	}

	if v.editing == nil {
		ev, err := viewmodel.NewAddTodo(v.title.Value(), v.description.Value(), v.imagePath.Value())
		if err != nil {
			v.err = err.Error()
			return nil
		}
		v.saving = true
		v.err = ""
		v.events.OnEvent(ev)
		return nil
	}

	task := *v.editing
	task.Title = strings.TrimSpace(v.title.Value())
	task.Description = strings.TrimSpace(v.description.Value())
	task.ImagePath = nil
	if p := strings.TrimSpace(v.imagePath.Value()); p != "" {
		task.ImagePath = &p
	}
	v.saving = true
	v.err = ""
	v.events.OnEvent(viewmodel.UpdateTodo{Todo: task})
	return nil
}

// View renders the view
func (v *TodoFormView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New Todo"
	if v.editing != nil {
		formTitle = "Edit Todo"
	}

	titleStyle := s.Input
	descStyle := s.Input
	imageStyle := s.Input
	btnStyle := s.Button

	switch v.focusIdx {
	case focusTitle:
		titleStyle = s.InputFocused
	case focusDescription:
		descStyle = s.InputFocused
	case focusImage:
		imageStyle = s.InputFocused
	case focusSave:
		btnStyle = s.ButtonFocused
	}
	if !v.CanSave() {
		btnStyle = s.ButtonDisabled
	}

	label := " Save "
	if v.saving {
		label = " Saving... "
	}

	inputWidth := styles.Clamp(contentWidth-6, 20, 50)

	rows := []string{
		s.Title.Render(formTitle),
		"",
		"Title:",
		titleStyle.Width(inputWidth).Render(v.title.View()),
		"",
		"Description:",
		descStyle.Render(v.description.View()),
		"",
		"Image path:",
		imageStyle.Width(inputWidth).Render(v.imagePath.View()),
		"",
		btnStyle.Render(label),
	}
	if v.err != "" {
		rows = append(rows, "", s.StatusError.Render(v.err))
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
