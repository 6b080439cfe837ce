package chatui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/taskflowpro/taskflow/internal/chatapi"
	"github.com/taskflowpro/taskflow/internal/tui/styles"
)

// View renders the model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n")

	main := styles.ViewportStyle.Render(m.viewport.View())
	if m.sidebarOpen {
		main = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
	}
	b.WriteString(main)
	b.WriteString("\n")

	if m.sending {
		b.WriteString(fmt.Sprintf("%s Thinking...\n", m.spinner.View()))
	} else if !m.sidebarOpen {
		b.WriteString(styles.TextAreaStyle.Render(m.textarea.View()))
		b.WriteString("\n")
	}

	if m.sidebarOpen && m.confirmDelete {
		b.WriteString(styles.HelpStyle.Render("Delete conversation? y/n"))
	}

	return m.alert.Render(b.String())
}

func (m *Model) renderTitle() string {
	conversation := "new conversation"
	if id := m.controller.ConversationID(); id != 0 {
		conversation = fmt.Sprintf("conversation #%d", id)
	}
	title := fmt.Sprintf(" 💬 taskflow │ %s │ %d messages ", conversation, len(m.controller.Messages()))
	return styles.TitleStyle.Width(m.width).Render(title)
}

func (m *Model) renderMessages() string {
	messages := m.controller.Messages()
	if len(messages) == 0 {
		return styles.HelpStyle.Render("Ask the assistant to list, add, or complete tasks.")
	}

	var b strings.Builder
	for i, message := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}

		selected := i == m.navigationIndex
		switch message.Role {
		case chatapi.RoleUser:
			style := styles.UserMessageStyle
			if selected {
				style = style.BorderForeground(styles.SuccessColor)
			}
			b.WriteString(style.Render(message.Content))

		case chatapi.RoleAssistant:
			style := styles.AssistantMessageStyle
			if selected {
				style = style.BorderForeground(styles.SuccessColor)
			}
			b.WriteString(style.Render(m.renderer.Render(message.Content)))

			for _, toolCall := range m.controller.ToolCalls(message.ID) {
				b.WriteString("\n")
				b.WriteString(styles.ToolLabelStyle.Render(fmt.Sprintf("🔧 %s", toolCall.Tool)))
				b.WriteString("\n")
				if toolCall.Result.Success {
					b.WriteString(styles.ToolSuccessStyle.Render("✓ " + toolCall.Result.Message))
				} else {
					b.WriteString(styles.ToolFailureStyle.Render("✗ " + toolCall.Result.Error))
				}
			}
		}
	}

	if m.sending {
		b.WriteString("\n\n")
		b.WriteString(styles.SpinnerStyle.Render("▋"))
	}
	return b.String()
}

func (m *Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(styles.ToolLabelStyle.Render("Conversations"))
	b.WriteString("\n\n")

	if len(m.conversations) == 0 {
		b.WriteString(styles.SidebarItemStyle.Render("none yet"))
	}
	for i, conversation := range m.conversations {
		label := fmt.Sprintf("#%d · %d msgs · %s",
			conversation.ID, conversation.MessageCount, relativeDate(conversation.UpdatedAt))
		label = styles.Truncate(label, styles.SidebarWidth-4)
		if i == m.sidebarCursor {
			b.WriteString(styles.SidebarSelectedStyle.Render("> " + label))
		} else {
			b.WriteString(styles.SidebarItemStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("enter: open • n: new • d: delete • esc: close"))
	return styles.SidebarStyle.Height(m.viewport.Height).Render(b.String())
}

// relativeDate formats a server timestamp as a short "how long ago" label.
func relativeDate(timestamp string) string {
	parsed, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		if parsed, err = time.Parse("2006-01-02T15:04:05", timestamp); err != nil {
			return timestamp
		}
	}

	elapsed := time.Since(parsed)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	case elapsed < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
	default:
		return parsed.Format("2006-01-02")
	}
}
