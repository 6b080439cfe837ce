package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskflowpro/taskflow/internal/api"
)

// tasksLoadedMsg reports a completed refetch.
type tasksLoadedMsg struct {
	err error
}

// mutationDoneMsg reports a completed toggle, delete, create, or update.
type mutationDoneMsg struct {
	err   error
	retry tea.Cmd
}

// refreshMsg means some surface changed tasks and the list must refetch.
type refreshMsg struct{}

// waitForRefresh blocks on the hub subscription. Re-issued after each
// delivery so the dashboard keeps listening for the program's lifetime.
func (m *Model) waitForRefresh() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-m.refresh; !ok {
			return nil
		}
		return refreshMsg{}
	}
}

func (m *Model) loadTasks() tea.Cmd {
	return func() tea.Msg {
		return tasksLoadedMsg{err: m.controller.Load(m.ctx)}
	}
}

func (m *Model) toggleTask(id string) tea.Cmd {
	cmd := func() tea.Msg {
		err := m.controller.Toggle(m.ctx, id)
		if err == nil {
			m.hub.Publish()
		}
		return mutationDoneMsg{err: err, retry: m.toggleTask(id)}
	}
	return cmd
}

func (m *Model) deleteTask(id string) tea.Cmd {
	return func() tea.Msg {
		err := m.controller.Delete(m.ctx, id)
		if err == nil {
			m.hub.Publish()
		}
		return mutationDoneMsg{err: err, retry: m.deleteTask(id)}
	}
}

func (m *Model) createTask(draft api.TaskDraft) tea.Cmd {
	return func() tea.Msg {
		_, err := m.controller.Create(m.ctx, draft)
		if err == nil {
			m.hub.Publish()
		}
		return mutationDoneMsg{err: err, retry: m.createTask(draft)}
	}
}

func (m *Model) updateTask(id string, draft api.TaskDraft) tea.Cmd {
	return func() tea.Msg {
		_, err := m.controller.Update(m.ctx, id, draft)
		if err == nil {
			m.hub.Publish()
		}
		return mutationDoneMsg{err: err, retry: m.updateTask(id, draft)}
	}
}
