package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taskflowpro/taskflow/internal/session"
	"github.com/taskflowpro/taskflow/internal/tasks"
	"github.com/taskflowpro/taskflow/internal/tasksync"
)

// NewCmd instantiates and returns the dashboard command.
func NewCmd(controller *tasks.Controller, hub *tasksync.Hub, sessions *session.Store, logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Interactive task dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !sessions.Authenticated() {
				return errors.New("not logged in. Run `taskflow login` first")
			}

			m := New(cmd.Context(), controller, hub, logger)
			defer m.Close()

			p := tea.NewProgram(
				m,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithReportFocus(),
			)
			if _, err := p.Run(); err != nil {
				return errors.Wrap(err, "running dashboard")
			}
			return nil
		},
	}
}
