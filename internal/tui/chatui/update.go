package chatui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"go.dalton.dog/bubbleup"
	"go.uber.org/zap"
	"golang.design/x/clipboard"

	"github.com/taskflowpro/taskflow/internal/chatapi"
)

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The alert model sees every message so active alerts keep animating.
	outAlert, alertCmd := m.alert.Update(msg)
	m.alert = outAlert.(bubbleup.AlertModel)
	if alertCmd != nil {
		cmds = append(cmds, alertCmd)
	}

	switch msg := msg.(type) {
	case tea.FocusMsg:
		m.windowFocused = true
		m.textarea.Focus()
		cmds = append(cmds, textarea.Blink)
		return m, tea.Batch(cmds...)

	case tea.BlurMsg:
		m.windowFocused = false
		m.textarea.Blur()
		return m, tea.Batch(cmds...)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalculateLayout()
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		cmd, handled := m.handleKey(msg)
		if handled {
			cmds = append(cmds, cmd)
			return m, tea.Batch(cmds...)
		}

	case sendDoneMsg:
		m.sending = false
		m.recalculateLayout()
		if msg.err != nil {
			m.logger.Warn("send failed", zap.Error(msg.err))
			cmds = append(cmds, m.alert.NewAlertCmd(bubbleup.ErrorKey, chatapi.UserMessage(msg.err)))
		} else {
			// A first message creates the conversation server-side.
			cmds = append(cmds, m.loadConversations())
		}
		m.refreshViewport(true)
		return m, tea.Batch(cmds...)

	case conversationsLoadedMsg:
		if msg.err != nil {
			cmds = append(cmds, m.alert.NewAlertCmd(bubbleup.ErrorKey, "Failed to load conversations."))
			return m, tea.Batch(cmds...)
		}
		m.conversations = msg.conversations
		// Default the cursor to the active conversation, else the most
		// recent one (the listing is most-recently-updated first).
		m.sidebarCursor = 0
		for i, conversation := range m.conversations {
			if conversation.ID == m.controller.ConversationID() {
				m.sidebarCursor = i
				break
			}
		}
		return m, tea.Batch(cmds...)

	case conversationSelectedMsg:
		if msg.err != nil {
			cmds = append(cmds, m.alert.NewAlertCmd(bubbleup.ErrorKey, "Failed to load conversation history."))
			return m, tea.Batch(cmds...)
		}
		m.sidebarOpen = false
		m.navigationIndex = -1
		m.recalculateLayout()
		m.refreshViewport(true)
		m.textarea.Focus()
		cmds = append(cmds, textarea.Blink)
		return m, tea.Batch(cmds...)

	case conversationDeletedMsg:
		if msg.err != nil {
			cmds = append(cmds, m.alert.NewAlertCmd(bubbleup.ErrorKey, "Failed to delete conversation."))
			return m, tea.Batch(cmds...)
		}
		m.refreshViewport(false)
		cmds = append(cmds, m.loadConversations())
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.sending && !m.sidebarOpen {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
		m.adjustTextareaHeight()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey processes bound keys. When handled is false the message falls
// through to the textarea and viewport.
func (m *Model) handleKey(msg tea.KeyMsg) (cmd tea.Cmd, handled bool) {
	if m.sidebarOpen {
		return m.handleSidebarKey(msg)
	}

	// Message navigation and clipboard copy.
	switch msg.String() {
	case "alt+{":
		messages := m.controller.Messages()
		if m.navigationIndex == -1 {
			m.navigationIndex = len(messages)
		}
		if m.navigationIndex > 0 {
			m.navigationIndex--
			m.refreshViewport(false)
		}
		return nil, true

	case "alt+}":
		if m.navigationIndex != -1 {
			m.navigationIndex++
			if m.navigationIndex >= len(m.controller.Messages()) {
				m.navigationIndex = -1
				m.viewport.GotoBottom()
			}
			m.refreshViewport(false)
		}
		return nil, true

	case "alt+w":
		if m.navigationIndex != -1 {
			messages := m.controller.Messages()
			if m.navigationIndex < len(messages) {
				clipboard.Write(clipboard.FmtText, []byte(messages[m.navigationIndex].Content))
				return m.alert.NewAlertCmd(bubbleup.InfoKey, "Copied to clipboard!"), true
			}
		}
		return nil, true

	case "alt+p":
		if !m.sending {
			if entry, ok := m.history.Previous(m.textarea.Value()); ok {
				m.textarea.SetValue(entry)
				m.historyNavigating = true
				m.adjustTextareaHeight()
			}
		}
		return nil, true

	case "alt+n":
		if !m.sending {
			if entry, ok := m.history.Next(); ok {
				m.textarea.SetValue(entry)
				m.historyNavigating = true
				m.adjustTextareaHeight()
			}
		}
		return nil, true
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return tea.Quit, true

	case tea.KeyCtrlJ:
		text := strings.TrimSpace(m.textarea.Value())
		if !m.sending && text != "" {
			m.history.Add(text)
			m.historyNavigating = false
			m.textarea.Reset()
			m.sending = true
			m.navigationIndex = -1
			m.recalculateLayout()
			m.refreshViewport(true)
			return m.sendMessage(text), true
		}
		return nil, true

	case tea.KeyCtrlS:
		m.sidebarOpen = true
		m.confirmDelete = false
		m.textarea.Blur()
		m.recalculateLayout()
		return m.loadConversations(), true

	case tea.KeyCtrlN:
		m.controller.Reset()
		m.navigationIndex = -1
		m.refreshViewport(true)
		return nil, true

	case tea.KeyEnter:
		if m.historyNavigating {
			m.history.Reset()
			m.historyNavigating = false
		}
	}

	if m.historyNavigating {
		switch msg.Type {
		case tea.KeyRunes, tea.KeyBackspace, tea.KeyDelete:
			m.history.Reset()
			m.historyNavigating = false
		}
	}

	return nil, false
}

func (m *Model) handleSidebarKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.confirmDelete {
		switch msg.String() {
		case "y", "Y", "enter":
			m.confirmDelete = false
			return m.deleteConversation(m.deleteTargetID), true
		case "n", "N", "esc":
			m.confirmDelete = false
		}
		return nil, true
	}

	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return tea.Quit, true

	case "esc", "ctrl+s":
		m.sidebarOpen = false
		m.recalculateLayout()
		m.textarea.Focus()
		return textarea.Blink, true

	case "j", "down":
		if m.sidebarCursor < len(m.conversations)-1 {
			m.sidebarCursor++
		}

	case "k", "up":
		if m.sidebarCursor > 0 {
			m.sidebarCursor--
		}

	case "enter":
		if m.sidebarCursor < len(m.conversations) {
			return m.selectConversation(m.conversations[m.sidebarCursor].ID), true
		}

	case "n":
		m.controller.Reset()
		m.sidebarOpen = false
		m.navigationIndex = -1
		m.recalculateLayout()
		m.refreshViewport(true)
		m.textarea.Focus()
		return textarea.Blink, true

	case "d":
		if m.sidebarCursor < len(m.conversations) {
			m.confirmDelete = true
			m.deleteTargetID = m.conversations[m.sidebarCursor].ID
		}
	}
	return nil, true
}
