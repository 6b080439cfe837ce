package dashboard

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.FocusMsg:
		// Regaining focus refetches: changes made elsewhere while unfocused
		// may have been missed.
		m.windowFocused = true
		m.hub.FocusGained()
		return m, nil

	case tea.BlurMsg:
		m.windowFocused = false
		m.hub.FocusLost()
		return m, nil

	case refreshMsg:
		return m, tea.Batch(m.loadTasks(), m.waitForRefresh())

	case tasksLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("refetch failed", zap.Error(msg.err))
			m.errText = msg.err.Error()
			m.retry = m.loadTasks()
		}
		m.clampCursor()
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			m.retry = msg.retry
		}
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeForm:
		return m.handleFormKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key dismisses the error banner; "R" retries the failed operation.
	if m.errText != "" {
		retry := m.retry
		m.errText = ""
		m.retry = nil
		if msg.String() == "R" && retry != nil {
			return m, retry
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "j", "down":
		m.cursor++
		m.clampCursor()

	case "k", "up":
		m.cursor--
		m.clampCursor()

	case "g":
		m.cursor = 0

	case "G":
		m.cursor = len(m.visible()) - 1
		m.clampCursor()

	case " ", "enter":
		if task, ok := m.selectedTask(); ok {
			return m, m.toggleTask(task.ID)
		}

	case "n":
		m.openForm(nil)

	case "e":
		if task, ok := m.selectedTask(); ok {
			m.openForm(&task)
		}

	case "d":
		if task, ok := m.selectedTask(); ok {
			m.mode = modeConfirmDelete
			m.deleteID = task.ID
			m.deleteTitle = task.Title
		}

	case "f", "tab":
		m.controller.CycleFilter()
		m.clampCursor()

	case "/":
		m.mode = modeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case "r":
		return m, m.loadTasks()
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = modeList
		m.searchInput.Blur()
		return m, nil

	case tea.KeyEsc:
		m.mode = modeList
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.controller.SetQuery("")
		m.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.controller.SetQuery(m.searchInput.Value())
	m.clampCursor()
	return m, cmd
}

func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeList
		return m, nil

	case tea.KeyTab, tea.KeyDown:
		m.focusFormField((m.formFocus + 1) % fieldCount)
		return m, textinput.Blink

	case tea.KeyShiftTab, tea.KeyUp:
		m.focusFormField((m.formFocus + fieldCount - 1) % fieldCount)
		return m, textinput.Blink

	case tea.KeyEnter:
		if strings.TrimSpace(m.formInputs[fieldTitle].Value()) == "" {
			m.errText = "task title must not be empty"
			m.retry = nil
			return m, nil
		}
		draft := m.formDraft()
		m.mode = modeList
		if m.editingID != "" {
			return m, m.updateTask(m.editingID, draft)
		}
		return m, m.createTask(draft)
	}

	if m.formFocus == fieldPriority {
		switch msg.String() {
		case "left", "h":
			m.priorityIx = (m.priorityIx + len(priorityCycle) - 1) % len(priorityCycle)
		case "right", "l", " ":
			m.priorityIx = (m.priorityIx + 1) % len(priorityCycle)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		id := m.deleteID
		m.mode = modeList
		m.deleteID = ""
		m.deleteTitle = ""
		return m, m.deleteTask(id)

	case "n", "N", "esc":
		m.mode = modeList
		m.deleteID = ""
		m.deleteTitle = ""
	}
	return m, nil
}

func (m *Model) focusFormField(field formField) {
	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}
	m.formFocus = field
	if field != fieldPriority {
		m.formInputs[field].Focus()
	}
}
