package chatui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taskflowpro/taskflow/internal/chat"
	"github.com/taskflowpro/taskflow/internal/chatapi"
	"github.com/taskflowpro/taskflow/internal/cli"
	"github.com/taskflowpro/taskflow/internal/session"
)

// NewCmd instantiates and returns the chat command.
func NewCmd(controller *chat.Controller, sessions *session.Store, logger *zap.Logger) *cobra.Command {
	var opts struct {
		ConversationID int64
		Plain          bool
	}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the task assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !sessions.Authenticated() {
				return errors.New("not logged in. Run `taskflow login` first")
			}

			if opts.ConversationID != 0 {
				if err := controller.Select(ctx, opts.ConversationID); err != nil {
					return err
				}
			}

			if opts.Plain {
				return runPlain(controller)
			}

			m, err := New(ctx, controller, logger)
			if err != nil {
				return err
			}

			p := tea.NewProgram(
				m,
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithMouseCellMotion(),
				tea.WithReportFocus(),
			)
			m.SetProgram(p)

			if _, err := p.Run(); err != nil {
				return errors.Wrap(err, "running chat")
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&opts.ConversationID, "id", 0, "resume a conversation by id")
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "line-oriented mode for dumb terminals")
	return cmd
}

// runPlain is the readline loop used when a full-screen TUI is unwanted.
func runPlain(controller *chat.Controller) error {
	cli.Title("taskflow chat")
	for {
		input, err := cli.PromptUser()
		if err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "reading input")
		}

		if err := controller.Send(context.Background(), input); err != nil {
			cli.Failure("%s", chatapi.UserMessage(err))
			continue
		}

		messages := controller.Messages()
		if len(messages) > 0 {
			last := messages[len(messages)-1]
			cli.AssistantOutput("%s\n", last.Content)
			for _, toolCall := range controller.ToolCalls(last.ID) {
				if toolCall.Result.Success {
					cli.Success("%s: %s", toolCall.Tool, toolCall.Result.Message)
				} else {
					cli.Failure("%s: %s", toolCall.Tool, toolCall.Result.Error)
				}
			}
		}
		cli.Separator()
	}
}
