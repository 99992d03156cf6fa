package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const markdownTitle = "# Chat transcript"

// Markdown renders the transcript as a Markdown document.
func (t *Transcript) Markdown() string {
	turns := t.Turns()

	var sb strings.Builder
	sb.WriteString(markdownTitle)
	sb.WriteString("\n")

	if len(turns) == 0 {
		sb.WriteString("\n_No messages yet._\n")
		return sb.String()
	}

	for _, turn := range turns {
		sb.WriteString("\n## You\n\n")
		sb.WriteString(strings.TrimRight(turn.Prompt, "\n"))
		sb.WriteString("\n\n## Assistant\n\n")
		if turn.Result.IsSuccess() {
			sb.WriteString(strings.TrimRight(turn.Result.Text(), "\n"))
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(quote("Error: " + turn.Result.Message()))
	}
	return sb.String()
}

// WriteMarkdown saves the Markdown export to path, creating parent directories.
func (t *Transcript) WriteMarkdown(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create transcript directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(t.Markdown()), 0644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

func quote(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	var sb strings.Builder
	for _, line := range lines {
		if line == "" {
			sb.WriteString(">\n")
			continue
		}
		sb.WriteString("> ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}
