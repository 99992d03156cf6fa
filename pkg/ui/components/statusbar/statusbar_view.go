package statusbar

import (
	"fmt"
	"strings"

	"chatbridge/pkg/ui/components/utils"
	"chatbridge/pkg/ui/styles"

	"github.com/charmbracelet/x/ansi"
)

const defaultHint = "Enter send | Ctrl+Y copy | Ctrl+S save | Esc quit"

// StatusBarView renders the single status line under the chat input.
type StatusBarView struct {
	provider string
	model    string
	message  string
	turns    int
	pending  bool
	width    int
}

// NewStatusBarView creates a new status bar view
func NewStatusBarView() *StatusBarView {
	return &StatusBarView{width: 80}
}

// SetModel updates the provider and model displayed.
func (s *StatusBarView) SetModel(provider, model string) {
	s.provider = strings.TrimSpace(provider)
	s.model = strings.TrimSpace(model)
}

// SetMessage sets a temporary message that replaces the key hints.
func (s *StatusBarView) SetMessage(msg string) {
	s.message = msg
}

// SetTurns updates the transcript length shown.
func (s *StatusBarView) SetTurns(n int) {
	s.turns = n
}

// SetPending switches the bar to its waiting style.
func (s *StatusBarView) SetPending(pending bool) {
	s.pending = pending
}

// SetWidth updates the width for rendering
func (s *StatusBarView) SetWidth(width int) {
	s.width = width
}

// Content returns the unstyled status text before truncation.
func (s *StatusBarView) Content() string {
	modelLabel := s.model
	if modelLabel == "" {
		modelLabel = "unknown"
	}
	if s.provider != "" {
		modelLabel = s.provider + "/" + modelLabel
	}

	tail := defaultHint
	switch {
	case s.message != "":
		tail = s.message
	case s.pending:
		tail = "Waiting for response..."
	}
	return fmt.Sprintf("[chatbridge] %s | %d turns | %s", modelLabel, s.turns, tail)
}

// Render returns the styled status bar string
func (s *StatusBarView) Render() string {
	// Padding(0, 1) takes two columns.
	maxWidth := s.width - 2
	if maxWidth < 10 {
		maxWidth = 10
	}
	content := utils.TruncateToWidth(s.Content(), maxWidth)

	style := styles.StatusBarStyle
	if s.pending {
		style = styles.StatusBarPendingStyle
	}
	styled := style.Render(content)

	if w := ansi.StringWidth(styled); w < s.width {
		styled += strings.Repeat(" ", s.width-w)
	}
	return styled
}
