// Package chatui implements the conversational task surface: a composer and
// message viewport backed by the chat controller, with a conversation
// sidebar. Replies that mutated tasks notify every other surface through the
// sync hub the controller publishes to.
package chatui

import (
	"context"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.dalton.dog/bubbleup"
	"go.uber.org/zap"

	"github.com/taskflowpro/taskflow/internal/chat"
	"github.com/taskflowpro/taskflow/internal/chatapi"
	"github.com/taskflowpro/taskflow/internal/history"
	"github.com/taskflowpro/taskflow/internal/markdown"
	"github.com/taskflowpro/taskflow/internal/tui/styles"
)

// Model represents the Bubble Tea model for the chat surface.
type Model struct {
	// Core dependencies
	ctx        context.Context
	controller *chat.Controller
	logger     *zap.Logger

	// UI components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *markdown.Renderer
	alert    bubbleup.AlertModel

	// UI state
	width         int
	height        int
	ready         bool
	sending       bool
	quitting      bool
	windowFocused bool

	// Sidebar state
	sidebarOpen    bool
	sidebarCursor  int
	conversations  []chatapi.Conversation
	confirmDelete  bool
	deleteTargetID int64

	// Message navigation (-1 when none selected)
	navigationIndex int

	// Input history
	history           *history.History
	historyNavigating bool

	// Program reference for sending messages from goroutines
	program   *tea.Program
	programMu sync.Mutex
}

// New creates a new chat model.
func New(ctx context.Context, controller *chat.Controller, logger *zap.Logger) (*Model, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ta := textarea.New()
	ta.Placeholder = "Ask about your tasks... (Ctrl+J to send, Ctrl+S for conversations, Ctrl+C to quit)"
	ta.Focus()
	ta.CharLimit = 0
	ta.SetWidth(styles.DefaultTextareaWidth)
	ta.SetHeight(styles.MinTextareaHeight)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(true)
	ta.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	renderer, err := markdown.NewRenderer(styles.DefaultTextareaWidth)
	if err != nil {
		return nil, err
	}

	alert := bubbleup.NewAlertModel(25, true, 1)

	return &Model{
		ctx:             ctx,
		controller:      controller,
		logger:          logger,
		textarea:        ta,
		spinner:         sp,
		renderer:        renderer,
		alert:           *alert,
		windowFocused:   true,
		navigationIndex: -1,
		history:         history.New(),
	}, nil
}

// SetProgram sets the tea.Program reference for async message sending.
func (m *Model) SetProgram(p *tea.Program) {
	m.programMu.Lock()
	defer m.programMu.Unlock()
	m.program = p
}

func (m *Model) getProgram() *tea.Program {
	m.programMu.Lock()
	defer m.programMu.Unlock()
	return m.program
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.alert.Init(),
		m.loadConversations(),
	)
}
