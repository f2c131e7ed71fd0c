package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/markx/internal/shared"
)

// dateModel is the bubbletea model behind [TerminalPrompt].
type dateModel struct {
	input     textinput.Model
	help      help.Model
	keys      keyMap
	now       func() time.Time
	cutoff    time.Time
	errText   string
	done      bool
	cancelled bool
}

func newDateModel(now func() time.Time) dateModel {
	input := textinput.New()
	input.Placeholder = "231026"
	input.CharLimit = 6
	input.Width = 8
	input.Prompt = "> "
	input.Focus()

	return dateModel{
		input: input,
		help:  help.New(),
		keys:  newKeyMap(),
		now:   now,
	}
}

func (m dateModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m dateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.quit):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.clear):
			m.input.Reset()
			m.errText = ""
			return m, nil
		case key.Matches(msg, m.keys.submit):
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m dateModel) submit() (tea.Model, tea.Cmd) {
	cutoff, err := shared.ParseCutoff(m.input.Value(), m.now())
	if err != nil {
		m.errText = ErrorText(err)
		m.input.Reset()
		return m, nil
	}

	m.cutoff = cutoff
	m.errText = ""
	m.done = true
	return m, tea.Quit
}

func (m dateModel) View() string {
	if m.done {
		return styles.OK(fmt.Sprintf("%s%s", PromptText, m.cutoff.Format("2006-01-02"))) + "\n"
	}
	if m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.Title(PromptText))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.errText != "" {
		b.WriteString(styles.Error(m.errText))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	b.WriteString("\n")
	return b.String()
}

// TerminalPrompt collects the cutoff with an inline bubbletea text input.
type TerminalPrompt struct {
	in  io.Reader
	out io.Writer
	now func() time.Time
}

// NewTerminalPrompt creates a TerminalPrompt reading keys from in and rendering to out. A nil now
// defaults to [time.Now].
func NewTerminalPrompt(in io.Reader, out io.Writer, now func() time.Time) *TerminalPrompt {
	if now == nil {
		now = time.Now
	}
	return &TerminalPrompt{in: in, out: out, now: now}
}

// Cutoff runs the prompt until a valid date is submitted. Ctrl+C or Esc returns [shared.ErrCancelled].
func (p *TerminalPrompt) Cutoff(ctx context.Context) (time.Time, error) {
	program := tea.NewProgram(
		newDateModel(p.now),
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)

	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return time.Time{}, ctx.Err()
		}
		return time.Time{}, fmt.Errorf("date prompt failed: %w", err)
	}

	m, ok := final.(dateModel)
	if !ok || m.cancelled || !m.done {
		return time.Time{}, shared.ErrCancelled
	}
	return m.cutoff, nil
}
