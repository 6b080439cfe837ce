package tasks

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/taskflowpro/taskflow/internal/api"
	"github.com/taskflowpro/taskflow/internal/cli"
	"github.com/taskflowpro/taskflow/internal/tasksync"
)

// NewCmd instantiates and returns the tasks command group: plain-output
// subcommands for scripting. Mutations broadcast a change event so running
// dashboards refresh.
func NewCmd(controller *Controller, hub *tasksync.Hub, sessions TokenProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks from the command line",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if sessions.Token() == "" {
				return errors.New("not logged in. Run `taskflow login` first")
			}
			return nil
		},
	}
	cmd.AddCommand(
		newListCmd(controller),
		newAddCmd(controller, hub),
		newDoneCmd(controller, hub),
		newRemoveCmd(controller, hub),
	)
	return cmd
}

func newListCmd(controller *Controller) *cobra.Command {
	var opts struct {
		Completed bool
		Active    bool
		Search    string
	}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := controller.Load(cmd.Context()); err != nil {
				return err
			}
			switch {
			case opts.Completed:
				controller.SetFilter(FilterCompleted)
			case opts.Active:
				controller.SetFilter(FilterActive)
			default:
				controller.SetFilter(FilterAll)
			}
			controller.SetQuery(opts.Search)

			filtered := controller.Filtered()
			stats := controller.Stats()

			cli.Title("tasks")
			now := time.Now()
			for i := range filtered {
				cli.TaskLine(&filtered[i], filtered[i].Overdue(now))
			}
			cli.Separator()
			cli.Success("%d total, %d active, %d completed, %d overdue",
				stats.Total, stats.Active, stats.Completed, stats.Overdue)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.Completed, "completed", false, "only completed tasks")
	cmd.Flags().BoolVar(&opts.Active, "active", false, "only active tasks")
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "filter by title or description")
	return cmd
}

func newAddCmd(controller *Controller, hub *tasksync.Hub) *cobra.Command {
	var opts struct {
		Description string
		Priority    string
		DueDate     string
	}
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := controller.Create(cmd.Context(), api.TaskDraft{
				Title:       strings.Join(args, " "),
				Description: opts.Description,
				Priority:    opts.Priority,
				DueDate:     opts.DueDate,
			})
			if err != nil {
				return err
			}
			hub.Publish()
			cli.Success("Created %s (%s)", created.Title, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "task description")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "low, medium, or high")
	cmd.Flags().StringVar(&opts.DueDate, "due", "", "due date (YYYY-MM-DD)")
	return cmd
}

func newDoneCmd(controller *Controller, hub *tasksync.Hub) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task's completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := controller.Load(cmd.Context()); err != nil {
				return err
			}
			task, err := resolveTask(controller, args[0])
			if err != nil {
				return err
			}
			if err := controller.Toggle(cmd.Context(), task.ID); err != nil {
				return err
			}
			hub.Publish()

			if task.Completed {
				cli.Success("Reopened %s", task.Title)
			} else {
				cli.Success("Completed %s", task.Title)
			}
			return nil
		},
	}
}

func newRemoveCmd(controller *Controller, hub *tasksync.Hub) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := controller.Load(cmd.Context()); err != nil {
				return err
			}
			task, err := resolveTask(controller, args[0])
			if err != nil {
				return err
			}
			if !force && !cli.QueryUser("Delete \""+task.Title+"\"?") {
				return nil
			}
			if err := controller.Delete(cmd.Context(), task.ID); err != nil {
				return err
			}
			hub.Publish()
			cli.Success("Deleted %s", task.Title)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}

// resolveTask finds a task by id or unique id prefix.
func resolveTask(controller *Controller, ref string) (*api.Task, error) {
	if task, ok := controller.Task(ref); ok {
		return &task, nil
	}

	var matches []api.Task
	for _, task := range controller.Tasks() {
		if strings.HasPrefix(task.ID, ref) {
			matches = append(matches, task)
		}
	}
	switch len(matches) {
	case 1:
		return &matches[0], nil
	case 0:
		return nil, errors.Errorf("no task matches %q", ref)
	default:
		return nil, errors.Errorf("%q is ambiguous: %d tasks match", ref, len(matches))
	}
}
