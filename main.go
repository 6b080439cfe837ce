package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/taskflowpro/taskflow/internal/api"
	"github.com/taskflowpro/taskflow/internal/auth"
	"github.com/taskflowpro/taskflow/internal/chat"
	"github.com/taskflowpro/taskflow/internal/chatapi"
	"github.com/taskflowpro/taskflow/internal/configuration"
	"github.com/taskflowpro/taskflow/internal/logging"
	"github.com/taskflowpro/taskflow/internal/session"
	"github.com/taskflowpro/taskflow/internal/tasks"
	"github.com/taskflowpro/taskflow/internal/tasksync"
	"github.com/taskflowpro/taskflow/internal/tui/chatui"
	"github.com/taskflowpro/taskflow/internal/tui/dashboard"
)

const (
	configFilepath = "~/.taskflow/config.json"
	tokenFilepath  = "~/.taskflow/token"
	logFilepath    = "~/.taskflow/taskflow.log"
)

var rootCmd = &cobra.Command{
	Use:   "taskflow",
	Short: "A CLI for the taskflow task manager",
}

func main() {
	config, err := configuration.Parse(configFilepath)
	if err != nil {
		panic(err)
	}

	logPath, err := configuration.ExpandPath(logFilepath)
	if err != nil {
		panic(err)
	}
	logger, err := logging.New(logPath, "info")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	tokenPath, err := configuration.ExpandPath(tokenFilepath)
	if err != nil {
		panic(err)
	}
	sessions := session.NewStore(session.NewFileStorage(tokenPath))

	// Instantiate the backend clients. Chat requests carry no timeout: the
	// agent may run several tool calls before replying.
	apiClient := api.NewClient(config.APIURL, sessions, time.Duration(config.RequestTimeout)*time.Second)
	chatClient := chatapi.NewClient(config.APIURL, sessions)

	hub, err := tasksync.NewHub(tasksync.DefaultBroadcastDir(), time.Duration(config.PollInterval)*time.Second, logger)
	if err != nil {
		panic(err)
	}
	defer hub.Close()

	taskController := tasks.NewController(apiClient, sessions, logger)
	chatController := chat.NewController(chatClient, hub, config.Chat.MessageLimit, logger)

	rootCmd.AddCommand(
		auth.NewLoginCmd(apiClient, sessions),
		auth.NewRegisterCmd(apiClient, sessions),
		auth.NewLogoutCmd(sessions),
		tasks.NewCmd(taskController, hub, sessions),
		dashboard.NewCmd(taskController, hub, sessions, logger),
		chatui.NewCmd(chatController, sessions, logger),
	)
	rootCmd.Execute()
}
