// Package styles holds the shared lipgloss palette and layout constants for
// the dashboard and chat surfaces.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Layout constants
const (
	// Textarea
	MinTextareaHeight    = 3
	MaxTextareaHeight    = 10
	DefaultTextareaWidth = 80
	TextAreaPaddingLeft  = 1

	// Viewport
	MinViewportHeight = 1

	// Layout
	InputBorderHeight = 2
	HeaderHeight      = 2
	SidebarWidth      = 32

	// Truncation
	TruncateSuffix       = "..."
	TruncateSuffixLength = 3
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7C3AED") // Purple
	SecondaryColor = lipgloss.Color("#06B6D4") // Cyan
	AccentColor    = lipgloss.Color("#F59E0B") // Amber
	SuccessColor   = lipgloss.Color("#10B981") // Green
	ErrorColor     = lipgloss.Color("#EF4444") // Red
	MutedColor     = lipgloss.Color("#6B7280") // Gray
	TextColor      = lipgloss.Color("#F9FAFB") // Light gray
	DimTextColor   = lipgloss.Color("#9CA3AF") // Dim gray
	MessageColor   = lipgloss.Color("#E5E7EB")
	BorderColor    = lipgloss.Color("#4B5563")
	DividerColor   = lipgloss.Color("#374151")
)

// Title bar
var (
	TitleStyle = lipgloss.NewStyle().
			Background(PrimaryColor).
			Foreground(TextColor).
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(DimTextColor).
			Background(PrimaryColor)
)

// Chat messages
var (
	messageStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder())

	UserMessageStyle = lipgloss.NewStyle().
				Inherit(messageStyle).
				BorderForeground(PrimaryColor).
				MarginLeft(10)

	AssistantMessageStyle = lipgloss.NewStyle().
				Inherit(messageStyle).
				BorderForeground(SecondaryColor).
				MarginRight(10)

	MessageErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Italic(true).
				PaddingLeft(2)
)

// Tool call annotations
var (
	ToolLabelStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true)

	ToolSuccessStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				PaddingLeft(2)

	ToolFailureStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				PaddingLeft(2)
)

// Task list
var (
	TaskTitleStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	TaskCompletedStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Strikethrough(true)

	TaskOverdueStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	TaskSelectedStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(DividerColor).
				Bold(true)

	TaskDescriptionStyle = lipgloss.NewStyle().
				Foreground(DimTextColor).
				PaddingLeft(4)

	PriorityHighStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	PriorityMediumStyle = lipgloss.NewStyle().
				Foreground(AccentColor)

	PriorityLowStyle = lipgloss.NewStyle().
				Foreground(MutedColor)
)

// Filter tabs and stats bar
var (
	FilterActiveStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(PrimaryColor).
				Padding(0, 1).
				Bold(true)

	FilterInactiveStyle = lipgloss.NewStyle().
				Foreground(DimTextColor).
				Padding(0, 1)

	StatsBarStyle = lipgloss.NewStyle().
			Foreground(DimTextColor).
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(DividerColor)

	SearchStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

// Sidebar (chat conversations)
var (
	SidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(BorderColor).
			Width(SidebarWidth)

	SidebarSelectedStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(PrimaryColor).
				Bold(true)

	SidebarItemStyle = lipgloss.NewStyle().
				Foreground(DimTextColor)
)

// Error banner
var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	ErrorBannerStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ErrorColor).
				Padding(0, 1)
)

// Input area
var (
	TextAreaStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		PaddingLeft(TextAreaPaddingLeft)
)

// Spinner
var (
	SpinnerStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor)
)

// Help text
var (
	HelpStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true).
		MarginTop(1)
)

// Confirmation dialog
var (
	ConfirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(AccentColor).
			Padding(1, 2).
			MarginTop(1)

	ConfirmTitleStyle = lipgloss.NewStyle().
				Foreground(AccentColor).
				Bold(true)
)

// Viewport
var (
	ViewportStyle = lipgloss.NewStyle().Margin(0).Padding(0)
)

// Divider
var (
	DividerStyle = lipgloss.NewStyle().
		Foreground(DividerColor)
)

// MessageHorizontalFrameSize returns the horizontal frame size of assistant
// messages, used to size the markdown renderer.
func MessageHorizontalFrameSize() int {
	return AssistantMessageStyle.GetHorizontalFrameSize()
}

// Divider creates a horizontal divider of the specified width.
func Divider(width int) string {
	return DividerStyle.Render(lipgloss.NewStyle().Width(width).Render("─"))
}

// Truncate truncates a string to the specified length with a suffix.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-TruncateSuffixLength] + TruncateSuffix
}
