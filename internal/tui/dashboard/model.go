// Package dashboard implements the interactive task list: filtering, search,
// inline create/edit, optimistic toggle and delete, and live refresh when
// tasks change anywhere else.
package dashboard

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/taskflowpro/taskflow/internal/api"
	"github.com/taskflowpro/taskflow/internal/tasks"
	"github.com/taskflowpro/taskflow/internal/tasksync"
	"github.com/taskflowpro/taskflow/internal/tui/styles"
)

// mode is the dashboard's input mode.
type mode int

const (
	modeList mode = iota
	modeSearch
	modeForm
	modeConfirmDelete
)

// formField indexes the create/edit form inputs.
type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldPriority
	fieldDueDate
	fieldCount
)

var priorityCycle = []string{"", api.PriorityLow, api.PriorityMedium, api.PriorityHigh}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	ctx        context.Context
	controller *tasks.Controller
	hub        *tasksync.Hub
	logger     *zap.Logger

	// UI components
	spinner     spinner.Model
	searchInput textinput.Model
	formInputs  [fieldCount]textinput.Model

	// UI state
	mode          mode
	cursor        int
	width         int
	height        int
	errText       string
	retry         tea.Cmd // re-runs the failed operation
	quitting      bool
	windowFocused bool

	// Form state
	formFocus  formField
	editingID  string // empty when creating
	priorityIx int

	// Pending delete confirmation
	deleteID    string
	deleteTitle string

	// Refresh subscription
	refresh chan struct{}
}

// New constructs the dashboard model and subscribes it to the refresh hub.
func New(ctx context.Context, controller *tasks.Controller, hub *tasksync.Hub, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	search := textinput.New()
	search.Placeholder = "search title or description"
	search.Prompt = "/ "
	search.CharLimit = 0

	var inputs [fieldCount]textinput.Model
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].CharLimit = 0
	}
	inputs[fieldTitle].Placeholder = "title (required)"
	inputs[fieldDescription].Placeholder = "description"
	inputs[fieldDueDate].Placeholder = "due date (YYYY-MM-DD)"

	return &Model{
		ctx:           ctx,
		controller:    controller,
		hub:           hub,
		logger:        logger,
		spinner:       sp,
		searchInput:   search,
		formInputs:    inputs,
		windowFocused: true,
		refresh:       hub.Subscribe(),
	}
}

// Init starts the spinner, the initial fetch, and the refresh wait loop.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadTasks(),
		m.waitForRefresh(),
	)
}

// Close releases the refresh subscription.
func (m *Model) Close() {
	m.hub.Unsubscribe(m.refresh)
}

// visible returns the filtered task list currently on screen.
func (m *Model) visible() []api.Task {
	return m.controller.Filtered()
}

// clampCursor keeps the cursor on a real row after the list changes.
func (m *Model) clampCursor() {
	visible := len(m.visible())
	if m.cursor >= visible {
		m.cursor = visible - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selectedTask returns the task under the cursor.
func (m *Model) selectedTask() (api.Task, bool) {
	visible := m.visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return api.Task{}, false
	}
	return visible[m.cursor], true
}

// openForm prepares the create or edit form. An empty id means create.
func (m *Model) openForm(task *api.Task) {
	m.mode = modeForm
	m.formFocus = fieldTitle
	m.editingID = ""
	m.priorityIx = 0
	for i := range m.formInputs {
		m.formInputs[i].SetValue("")
		m.formInputs[i].Blur()
	}

	if task != nil {
		m.editingID = task.ID
		m.formInputs[fieldTitle].SetValue(task.Title)
		m.formInputs[fieldDescription].SetValue(task.Description)
		m.formInputs[fieldDueDate].SetValue(task.DueDate)
		for i, priority := range priorityCycle {
			if priority == task.Priority {
				m.priorityIx = i
			}
		}
	}
	m.formInputs[fieldTitle].Focus()
}

// formDraft assembles the draft from the form inputs.
func (m *Model) formDraft() api.TaskDraft {
	return api.TaskDraft{
		Title:       m.formInputs[fieldTitle].Value(),
		Description: m.formInputs[fieldDescription].Value(),
		Priority:    priorityCycle[m.priorityIx],
		DueDate:     m.formInputs[fieldDueDate].Value(),
	}
}
