package viewport

import (
	"strings"

	"chatbridge/pkg/transcript"
	"chatbridge/pkg/ui/components/utils"
	"chatbridge/pkg/ui/styles"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
)

// Placeholder is shown while the transcript is empty.
const Placeholder = "Ask anything!"

const (
	userLabel      = "You"
	assistantLabel = "Assistant"
	errorPrefix    = "Error: "
	thinkingText   = "Thinking..."
)

// TranscriptViewport wraps Bubble Tea's viewport for displaying chat turns
type TranscriptViewport struct {
	Viewport viewport.Model
	content  string
	width    int
	ready    bool
}

// NewTranscriptViewport creates a new transcript viewport
func NewTranscriptViewport() TranscriptViewport {
	return TranscriptViewport{
		Viewport: viewport.New(),
	}
}

// SetSize updates the viewport dimensions
func (v *TranscriptViewport) SetSize(width, height int) {
	v.width = width
	v.Viewport.SetWidth(width)
	v.Viewport.SetHeight(height)
	v.ready = true
}

// SetTurns re-renders the transcript and scrolls to the newest turn.
// A non-empty pendingPrompt is drawn after the turns with a thinking marker.
func (v *TranscriptViewport) SetTurns(turns []transcript.Turn, pendingPrompt string) {
	v.content = RenderTurns(turns, pendingPrompt, v.width)
	v.Viewport.SetContent(v.content)
	v.Viewport.GotoBottom()
}

// GetContent returns the current viewport content
func (v *TranscriptViewport) GetContent() string {
	return v.content
}

// Update handles viewport updates (scrolling, etc)
func (v *TranscriptViewport) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.Viewport, cmd = v.Viewport.Update(msg)
	return cmd
}

// View renders the viewport
func (v *TranscriptViewport) View() string {
	if !v.ready {
		return "Loading..."
	}
	return v.Viewport.View()
}

// IsAtBottom returns true if scrolled to bottom
func (v *TranscriptViewport) IsAtBottom() bool {
	return v.Viewport.AtBottom()
}

// RenderTurns renders turns oldest first, wrapped to width.
func RenderTurns(turns []transcript.Turn, pendingPrompt string, width int) string {
	if len(turns) == 0 && pendingPrompt == "" {
		return styles.PlaceholderStyle.Render(Placeholder)
	}

	var lines []string
	for _, turn := range turns {
		lines = appendBlock(lines, styles.UserLabelStyle.Render(userLabel), turn.Prompt, width, styles.TextStyle.Render)
		if turn.Result.IsSuccess() {
			lines = appendBlock(lines, styles.AssistantLabelStyle.Render(assistantLabel), turn.Result.Text(), width, styles.TextStyle.Render)
		} else {
			lines = appendBlock(lines, styles.AssistantLabelStyle.Render(assistantLabel), errorPrefix+turn.Result.Message(), width, styles.ErrorStyle.Render)
		}
	}
	if pendingPrompt != "" {
		lines = appendBlock(lines, styles.UserLabelStyle.Render(userLabel), pendingPrompt, width, styles.TextStyle.Render)
		lines = appendBlock(lines, styles.AssistantLabelStyle.Render(assistantLabel), thinkingText, width, styles.TextMutedStyle.Render)
	}
	return strings.Join(lines, "\n")
}

func appendBlock(lines []string, label, body string, width int, render func(...string) string) []string {
	if len(lines) > 0 {
		lines = append(lines, "")
	}
	lines = append(lines, label)
	for _, line := range utils.Wrap(body, width) {
		lines = append(lines, render(line))
	}
	return lines
}
