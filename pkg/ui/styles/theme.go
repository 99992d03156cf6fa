// Package styles provides the shared colors and styles of the chatbridge terminal UI.
package styles

import (
	"charm.land/lipgloss/v2"
)

// Color palette - ANSI 256 colors used throughout the application
var (
	// Primary accent color (purple)
	ColorAccent = lipgloss.Color("141")

	// Text colors
	ColorText       = lipgloss.Color("252") // Primary text
	ColorTextMuted  = lipgloss.Color("245") // Secondary/muted text
	ColorTextBright = lipgloss.Color("15")  // Bright/highlighted text

	// Semantic colors
	ColorError   = lipgloss.Color("196") // Error messages
	ColorWarning = lipgloss.Color("214") // Pending state
	ColorSuccess = lipgloss.Color("42")  // Success messages

	ColorPlaceholder = lipgloss.Color("240") // Placeholder text
	ColorBorder      = lipgloss.Color("141") // Default border (matches accent)
)

// Text styles
var (
	// TitleStyle for panel/section titles
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// TextStyle for normal text
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	// TextMutedStyle for secondary/helper text
	TextMutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	// PlaceholderStyle for placeholder text
	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(ColorPlaceholder).
				Italic(true)
)

// Transcript styles
var (
	// UserLabelStyle marks the prompt of a turn
	UserLabelStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	// AssistantLabelStyle marks the reply of a turn
	AssistantLabelStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	// ErrorStyle for failure messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	// SpinnerStyle for the pending indicator
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)
)

// Status bar styles
var (
	// StatusBarStyle is the default status bar style (purple theme)
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	// StatusBarPendingStyle is used while a request is outstanding
	StatusBarPendingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#00B8D4")).
				Padding(0, 1).
				Bold(true)
)
