package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskflowpro/taskflow/internal/api"
	"github.com/taskflowpro/taskflow/internal/tasks"
	"github.com/taskflowpro/taskflow/internal/tui/styles"
)

// View renders the model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(styles.TitleStyle.Width(m.width).Render(" 📋 taskflow "))
	b.WriteString("\n")
	b.WriteString(m.renderFilterTabs())
	b.WriteString("\n")

	if m.mode == modeSearch || m.searchInput.Value() != "" {
		b.WriteString(styles.SearchStyle.Render(m.searchInput.View()))
		b.WriteString("\n")
	}

	switch m.mode {
	case modeForm:
		b.WriteString(m.renderForm())
	case modeConfirmDelete:
		b.WriteString(m.renderTaskList())
		b.WriteString("\n")
		b.WriteString(m.renderConfirmDialog())
	default:
		b.WriteString(m.renderTaskList())
	}
	b.WriteString("\n")

	b.WriteString(m.renderStatsBar())

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorBannerStyle.Render(
			fmt.Sprintf("⚠ %s — press R to retry, any key to dismiss", m.errText)))
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m *Model) renderFilterTabs() string {
	current := m.controller.Filter()
	var tabs []string
	for _, filter := range []tasks.Filter{tasks.FilterAll, tasks.FilterActive, tasks.FilterCompleted} {
		label := string(filter)
		if filter == current {
			tabs = append(tabs, styles.FilterActiveStyle.Render(label))
		} else {
			tabs = append(tabs, styles.FilterInactiveStyle.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (m *Model) renderTaskList() string {
	visible := m.visible()
	if m.controller.Loading() && len(visible) == 0 {
		return fmt.Sprintf("%s Loading tasks...", m.spinner.View())
	}
	if len(visible) == 0 {
		return styles.HelpStyle.Render("No tasks. Press n to create one.")
	}

	var b strings.Builder
	now := time.Now()
	for i, task := range visible {
		line := m.renderTaskLine(&task, task.Overdue(now))
		if i == m.cursor {
			line = styles.TaskSelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")

		if i == m.cursor && task.Description != "" {
			b.WriteString(styles.TaskDescriptionStyle.Render(task.Description))
			b.WriteString("\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m *Model) renderTaskLine(task *api.Task, overdue bool) string {
	box := "[ ]"
	if task.Completed {
		box = "[x]"
	}

	title := task.Title
	switch {
	case task.Completed:
		title = styles.TaskCompletedStyle.Render(title)
	case overdue:
		title = styles.TaskOverdueStyle.Render(title + " (overdue)")
	default:
		title = styles.TaskTitleStyle.Render(title)
	}

	line := fmt.Sprintf("%s %s", box, title)
	switch task.Priority {
	case api.PriorityHigh:
		line += " " + styles.PriorityHighStyle.Render("!!!")
	case api.PriorityMedium:
		line += " " + styles.PriorityMediumStyle.Render("!!")
	case api.PriorityLow:
		line += " " + styles.PriorityLowStyle.Render("!")
	}
	if task.DueDate != "" {
		line += " " + styles.HelpStyle.Render("due "+task.DueDate)
	}
	return line
}

func (m *Model) renderForm() string {
	var b strings.Builder
	if m.editingID != "" {
		b.WriteString(styles.ConfirmTitleStyle.Render("Edit task"))
	} else {
		b.WriteString(styles.ConfirmTitleStyle.Render("New task"))
	}
	b.WriteString("\n\n")

	labels := [fieldCount]string{"Title", "Description", "Priority", "Due date"}
	for field := fieldTitle; field < fieldCount; field++ {
		marker := "  "
		if field == m.formFocus {
			marker = "> "
		}
		b.WriteString(marker + labels[field] + ": ")
		if field == fieldPriority {
			priority := priorityCycle[m.priorityIx]
			if priority == "" {
				priority = "none"
			}
			b.WriteString(styles.SearchStyle.Render("< " + priority + " >"))
		} else {
			b.WriteString(m.formInputs[field].View())
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("tab: next field • enter: save • esc: cancel"))
	return styles.ConfirmBoxStyle.Render(b.String())
}

func (m *Model) renderConfirmDialog() string {
	var b strings.Builder
	b.WriteString(styles.ConfirmTitleStyle.Render("Delete task?"))
	b.WriteString("\n\n")
	b.WriteString(styles.TaskTitleStyle.Render(m.deleteTitle))
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("y: delete • n/esc: cancel"))
	return styles.ConfirmBoxStyle.Render(b.String())
}

func (m *Model) renderStatsBar() string {
	stats := m.controller.Stats()
	line := fmt.Sprintf(" %d total │ %d active │ %d completed │ %d overdue ",
		stats.Total, stats.Active, stats.Completed, stats.Overdue)
	if m.controller.Loading() {
		line += m.spinner.View()
	}
	return styles.StatsBarStyle.Width(m.width).Render(line)
}

func (m *Model) renderHelp() string {
	switch m.mode {
	case modeSearch:
		return styles.HelpStyle.Render("enter: apply • esc: clear")
	case modeForm, modeConfirmDelete:
		return ""
	default:
		return styles.HelpStyle.Render(
			"j/k: move • space: toggle • n: new • e: edit • d: delete • f: filter • /: search • r: refresh • q: quit")
	}
}
