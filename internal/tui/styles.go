// Package tui provides the terminal user interface for omnichat.
package tui

import "github.com/charmbracelet/lipgloss"

// Base palette
var (
	colorPrimary  = lipgloss.Color("#6366f1") // indigo
	colorAccent   = lipgloss.Color("#a5b4fc")
	colorError    = lipgloss.Color("#f87171")
	colorText     = lipgloss.Color("#e2e8f0")
	colorTextDim  = lipgloss.Color("#94a3b8")
	colorTextMute = lipgloss.Color("#475569")
	colorBorder   = lipgloss.Color("#334155")
)

var (
	headerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorTextMute)

	messagesAreaStyle = lipgloss.NewStyle().
				Padding(0, 1)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	userBubbleStyle = lipgloss.NewStyle().
			Foreground(colorText).
			PaddingLeft(2)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				PaddingLeft(2)

	timestampStyle = lipgloss.NewStyle().
			Foreground(colorTextMute).
			PaddingLeft(2)

	sourceChipStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			PaddingLeft(2)

	attachmentStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Italic(true).
			PaddingLeft(2)

	errorNoticeStyle = lipgloss.NewStyle().
				Foreground(colorError).
				PaddingLeft(2)

	inputPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	loadingStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorTextMute)

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	statusDescStyle = lipgloss.NewStyle().
			Foreground(colorTextMute)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	feedbackStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Align(lipgloss.Center)

	welcomeTitleStyle = lipgloss.NewStyle().
				Foreground(colorText).
				Bold(true).
				Align(lipgloss.Center)

	welcomeIconStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				Align(lipgloss.Center)

	// Conversation list overlay
	listTitleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	listItemStyle = lipgloss.NewStyle().
			Foreground(colorText)

	listSelectedStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	listCursorStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	listMetaStyle = lipgloss.NewStyle().
			Foreground(colorTextMute)

	listBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)
)
