package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"chatbridge/pkg/chat"
	"chatbridge/pkg/transcript"
	"chatbridge/pkg/ui/components/statusbar"
	"chatbridge/pkg/ui/components/viewport"
	"chatbridge/pkg/ui/styles"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// DefaultSavePath is where ctrl+s writes the transcript when no path is configured.
const DefaultSavePath = "chatbridge-transcript.md"

const inputPlaceholder = "Type your question here..."

// Completer answers one prompt. *chat.Bridge implements it.
type Completer interface {
	Complete(ctx context.Context, prompt string) chat.Result
}

// Options configure the terminal UI.
type Options struct {
	Provider  string
	Model     string
	SavePath  string
	Clipboard io.Writer // receives the OSC52 sequence, os.Stdout when nil
	Context   context.Context
}

// completionMsg carries the result of one Complete call.
type completionMsg struct {
	prompt string
	result chat.Result
}

// statusMsg replaces the status bar hint.
type statusMsg string

// Model represents the Bubble Tea application state
type Model struct {
	ctx        context.Context
	bridge     Completer
	transcript *transcript.Transcript

	// UI Components
	input     textinput.Model
	spinner   spinner.Model
	viewport  viewport.TranscriptViewport
	statusBar *statusbar.StatusBarView

	// UI state
	width         int
	height        int
	ready         bool
	pending       bool
	pendingPrompt string

	savePath  string
	clipboard io.Writer
}

// NewModel creates a new Bubble Tea model
func NewModel(bridge Completer, tr *transcript.Transcript, opts Options) Model {
	if tr == nil {
		tr = transcript.New()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	savePath := strings.TrimSpace(opts.SavePath)
	if savePath == "" {
		savePath = DefaultSavePath
	}
	clipboard := opts.Clipboard
	if clipboard == nil {
		clipboard = os.Stdout
	}

	input := textinput.New()
	input.Placeholder = inputPlaceholder
	input.Prompt = "> "
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	sb := statusbar.NewStatusBarView()
	sb.SetModel(opts.Provider, opts.Model)
	sb.SetTurns(tr.Len())

	return Model{
		ctx:        ctx,
		bridge:     bridge,
		transcript: tr,
		input:      input,
		spinner:    sp,
		viewport:   viewport.NewTranscriptViewport(),
		statusBar:  sb,
		savePath:   savePath,
		clipboard:  clipboard,
	}
}

// Init initializes the model (Bubble Tea lifecycle method)
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates model state (Bubble Tea lifecycle method)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		m.refresh()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case completionMsg:
		m.pending = false
		m.pendingPrompt = ""
		m.transcript.Append(msg.prompt, msg.result)
		m.statusBar.SetMessage("")
		m.refresh()
		return m, nil

	case statusMsg:
		m.statusBar.SetMessage(string(msg))
		return m, nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "enter":
		return m.submit()

	case "ctrl+y":
		return m, m.copyLastReply()

	case "ctrl+s":
		return m, m.saveTranscript()

	case "up", "down", "pgup", "pgdown":
		return m, m.viewport.Update(msg)
	}

	m.statusBar.SetMessage("")
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts a completion unless one is already outstanding or the input is blank.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	prompt := strings.TrimSpace(m.input.Value())
	if prompt == "" {
		return m, nil
	}

	m.pending = true
	m.pendingPrompt = prompt
	m.input.Reset()
	m.statusBar.SetMessage("")
	m.refresh()

	slog.Debug("tui_submit", "prompt_len", len(prompt))
	return m, tea.Batch(m.spinner.Tick, complete(m.ctx, m.bridge, prompt))
}

func complete(ctx context.Context, bridge Completer, prompt string) tea.Cmd {
	return func() tea.Msg {
		if bridge == nil {
			return completionMsg{prompt: prompt, result: chat.Failed(chat.FailureUnexpected, "")}
		}
		return completionMsg{prompt: prompt, result: bridge.Complete(ctx, prompt)}
	}
}

func (m Model) copyLastReply() tea.Cmd {
	text, ok := m.transcript.LastReply()
	if !ok {
		return func() tea.Msg { return statusMsg("Nothing to copy yet") }
	}
	w := m.clipboard
	return func() tea.Msg {
		if _, err := fmt.Fprint(w, osc52.New(text)); err != nil {
			slog.Warn("tui_copy_failed", "error", err)
			return statusMsg("Copy failed: " + err.Error())
		}
		return statusMsg("Copied last reply")
	}
}

func (m Model) saveTranscript() tea.Cmd {
	tr := m.transcript
	path := m.savePath
	return func() tea.Msg {
		if err := tr.WriteMarkdown(path); err != nil {
			slog.Error("tui_save_failed", "path", path, "error", err)
			return statusMsg("Save failed: " + err.Error())
		}
		slog.Info("tui_transcript_saved", "path", path, "turns", tr.Len())
		return statusMsg("Saved to " + path)
	}
}

// resize lays out the viewport above the input line and the status bar.
func (m *Model) resize() {
	vpHeight := m.height - 2
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.SetSize(m.width, vpHeight)
	m.input.SetWidth(max(m.width-4, 1))
	m.statusBar.SetWidth(m.width)
}

func (m *Model) refresh() {
	m.viewport.SetTurns(m.transcript.Turns(), m.pendingPrompt)
	m.statusBar.SetTurns(m.transcript.Len())
	m.statusBar.SetPending(m.pending)
}

// View renders the current UI (Bubble Tea lifecycle method)
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	if !m.ready {
		return "Loading..."
	}

	inputLine := m.input.View()
	if m.pending {
		inputLine = m.spinner.View() + " " + styles.TextMutedStyle.Render("Waiting for response...")
	}

	return m.viewport.View() + "\n" + inputLine + "\n" + m.statusBar.Render()
}

// Run starts the terminal UI and blocks until the user quits.
func Run(bridge Completer, tr *transcript.Transcript, opts Options) error {
	p := tea.NewProgram(NewModel(bridge, tr, opts))
	_, err := p.Run()
	return err
}
