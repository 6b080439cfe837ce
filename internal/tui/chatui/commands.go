package chatui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskflowpro/taskflow/internal/chatapi"
)

// sendDoneMsg reports a completed send. The controller already holds the
// reply; err carries the failure to surface as an alert.
type sendDoneMsg struct {
	err error
}

// conversationsLoadedMsg carries the sidebar listing.
type conversationsLoadedMsg struct {
	conversations []chatapi.Conversation
	err           error
}

// conversationSelectedMsg reports a history load for a selected conversation.
type conversationSelectedMsg struct {
	err error
}

// conversationDeletedMsg reports a completed delete.
type conversationDeletedMsg struct {
	id  int64
	err error
}

// sendMessage sends the composer content off-thread; the reply arrives
// through p.Send so the spinner keeps animating meanwhile.
func (m *Model) sendMessage(text string) tea.Cmd {
	p := m.getProgram()
	if p == nil {
		return func() tea.Msg {
			return sendDoneMsg{err: m.controller.Send(m.ctx, text)}
		}
	}
	go func() {
		p.Send(sendDoneMsg{err: m.controller.Send(m.ctx, text)})
	}()
	return m.spinner.Tick
}

func (m *Model) loadConversations() tea.Cmd {
	return func() tea.Msg {
		conversations, err := m.controller.Conversations(m.ctx, chatapi.DefaultConversationLimit)
		return conversationsLoadedMsg{conversations: conversations, err: err}
	}
}

func (m *Model) selectConversation(id int64) tea.Cmd {
	return func() tea.Msg {
		return conversationSelectedMsg{err: m.controller.Select(m.ctx, id)}
	}
}

func (m *Model) deleteConversation(id int64) tea.Cmd {
	return func() tea.Msg {
		return conversationDeletedMsg{id: id, err: m.controller.DeleteConversation(m.ctx, id)}
	}
}
