// Package cli implements colored terminal output and prompts for the
// scripting commands. The bubbletea surfaces have their own styles.
package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/buger/goterm"
	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/taskflowpro/taskflow/internal/api"
)

var (
	// Colors for different types of output
	titleColor     = color.New(color.FgMagenta, color.Bold)
	separatorColor = color.New(color.FgHiBlack)
	successColor   = color.New(color.FgGreen)
	errorColor     = color.New(color.FgRed)
	completedColor = color.New(color.FgHiBlack)
	overdueColor   = color.New(color.FgRed)
	dueColor       = color.New(color.FgYellow)
	assistantColor = color.New(color.FgCyan)
	promptColor    = color.New(color.FgHiBlue)

	priorityColors = map[string]*color.Color{
		api.PriorityHigh:   color.New(color.FgRed, color.Bold),
		api.PriorityMedium: color.New(color.FgYellow),
		api.PriorityLow:    color.New(color.FgHiBlack),
	}

	width = goterm.Width()
)

// Separator printed to cli.
func Separator() {
	separator := strings.Repeat("-", width)
	separatorColor.Println(separator)
}

// Title printed to cli.
func Title(text string, args ...any) {
	title := "      " + fmt.Sprintf(text, args...) + "      "
	leftWidth := (width - len(title)) / 2
	separator1 := strings.Repeat("-", leftWidth)
	separator2 := strings.Repeat("-", width-len(title)-len(separator1))
	output := fmt.Sprintf("%s%s%s", separator1, title, separator2)
	titleColor.Println(output)
}

// Success printed to cli.
func Success(text string, args ...any) {
	successColor.Printf("✓ "+text+"\n", args...)
}

// Failure printed to cli.
func Failure(text string, args ...any) {
	errorColor.Printf("✗ "+text+"\n", args...)
}

// AssistantOutput printed to cli.
func AssistantOutput(text string, args ...any) {
	text = strings.ReplaceAll(text, "%", "%%")
	assistantColor.Printf(text, args...)
}

// TaskLine prints one task row: status box, title, priority and due date.
func TaskLine(task *api.Task, overdue bool) {
	box := "[ ]"
	if task.Completed {
		box = "[x]"
	}

	line := fmt.Sprintf("%s %s", box, task.Title)
	switch {
	case task.Completed:
		completedColor.Print(line)
	case overdue:
		overdueColor.Print(line)
	default:
		fmt.Print(line)
	}

	if priorityColor, ok := priorityColors[task.Priority]; ok && task.Priority != "" {
		fmt.Print("  ")
		priorityColor.Printf("[%s]", task.Priority)
	}
	if task.DueDate != "" {
		fmt.Print("  ")
		dueColor.Printf("due %s", task.DueDate)
	}
	separatorColor.Printf("  (%s)\n", task.ID)
}

// PromptUser reads multi-line input, Ctrl+J to submit.
func PromptUser() (string, error) {
	exit := false
	config := &readline.Config{
		Prompt:            promptColor.Sprint("> "),
		InterruptPrompt:   "^C",
		HistoryFile:       "/tmp/taskflow.history",
		HistorySearchFold: true,
		FuncFilterInputRune: func(r rune) (rune, bool) {
			if r == '\x0A' { // Ctrl + J
				exit = true
			}
			return r, true
		},
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return "", err
	}
	defer rl.Close()
	var lines []string
	for {
		line, err := rl.Readline()
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
		if err == readline.ErrInterrupt || exit {
			break
		}
		rl.SetPrompt("")
	}
	return strings.Join(lines, "\n"), nil
}

// QueryUser a yes/no question.
func QueryUser(question string) bool {
	surveyQuestion := &survey.Confirm{
		Message: question,
	}
	confirm := false
	survey.AskOne(surveyQuestion, &confirm)
	return confirm
}

// PromptCredentials asks for any missing email/password.
func PromptCredentials(email, password string) (string, string, error) {
	if email == "" {
		if err := survey.AskOne(&survey.Input{Message: "Email:"}, &email, survey.WithValidator(survey.Required)); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if err := survey.AskOne(&survey.Password{Message: "Password:"}, &password, survey.WithValidator(survey.Required)); err != nil {
			return "", "", err
		}
	}
	return email, password, nil
}

// PromptInput asks a single required question.
func PromptInput(message string) (string, error) {
	var answer string
	err := survey.AskOne(&survey.Input{Message: message}, &answer, survey.WithValidator(survey.Required))
	return answer, err
}
