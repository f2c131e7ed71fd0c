package ui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/markx/internal/shared"
)

var fixedNow = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local) }

func TestErrorText(t *testing.T) {
	tc := []struct {
		name string
		err  error
		want string
	}{
		{name: "format", err: fmt.Errorf("%w: got %q", shared.ErrInvalidDateFormat, "abc"), want: formatErrorText},
		{name: "date", err: fmt.Errorf("%w: month 13", shared.ErrInvalidDate), want: dateErrorText},
		{name: "other", err: errors.New("boom"), want: "boom"},
	}
	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorText(tt.err); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestLinePrompt(t *testing.T) {
	t.Run("Retries Until Valid", func(t *testing.T) {
		var out bytes.Buffer
		p := NewLinePrompt(strings.NewReader("abc\n2310\n231340\n 231026 \n"), &out, fixedNow)

		got, err := p.Cutoff(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2023, 10, 26, 0, 0, 0, 0, time.Local)
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}

		output := out.String()
		if n := strings.Count(output, PromptText); n != 4 {
			t.Errorf("expected 4 prompts, got %d", n)
		}
		if n := strings.Count(output, formatErrorText); n != 2 {
			t.Errorf("expected 2 format errors, got %d", n)
		}
		if n := strings.Count(output, dateErrorText); n != 1 {
			t.Errorf("expected 1 date error, got %d", n)
		}
	})

	t.Run("End Of Input", func(t *testing.T) {
		var out bytes.Buffer
		p := NewLinePrompt(strings.NewReader("nope\n"), &out, fixedNow)

		if _, err := p.Cutoff(context.Background()); !errors.Is(err, shared.ErrCancelled) {
			t.Errorf("expected ErrCancelled, got %v", err)
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := NewLinePrompt(strings.NewReader("231026\n"), &bytes.Buffer{}, fixedNow)

		if _, err := p.Cutoff(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func typeText(m dateModel, s string) dateModel {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(dateModel)
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestDateModel(t *testing.T) {
	t.Run("Submit Valid Date", func(t *testing.T) {
		m := typeText(newDateModel(fixedNow), "231026")

		next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = next.(dateModel)

		if !m.done {
			t.Fatal("expected model to be done")
		}
		if !isQuit(cmd) {
			t.Error("expected quit command")
		}
		if want := time.Date(2023, 10, 26, 0, 0, 0, 0, time.Local); !m.cutoff.Equal(want) {
			t.Errorf("expected %v, got %v", want, m.cutoff)
		}
		if !strings.Contains(m.View(), "2023-10-26") {
			t.Errorf("expected final view to show the date, got %q", m.View())
		}
	})

	t.Run("Invalid Date Re-prompts", func(t *testing.T) {
		m := typeText(newDateModel(fixedNow), "230231")

		next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = next.(dateModel)

		if m.done || isQuit(cmd) {
			t.Fatal("expected prompt to stay open")
		}
		if m.errText != dateErrorText {
			t.Errorf("expected date error, got %q", m.errText)
		}
		if m.input.Value() != "" {
			t.Errorf("expected input to be cleared, got %q", m.input.Value())
		}
		if !strings.Contains(m.View(), dateErrorText) {
			t.Error("expected view to show the error")
		}
	})

	t.Run("Short Input", func(t *testing.T) {
		m := typeText(newDateModel(fixedNow), "2310")
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		if got := next.(dateModel).errText; got != formatErrorText {
			t.Errorf("expected format error, got %q", got)
		}
	})

	t.Run("Char Limit", func(t *testing.T) {
		m := typeText(newDateModel(fixedNow), "23102699")
		if got := m.input.Value(); got != "231026" {
			t.Errorf("expected input truncated to 6 characters, got %q", got)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		m := typeText(newDateModel(fixedNow), "2310")
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
		if got := next.(dateModel).input.Value(); got != "" {
			t.Errorf("expected empty input, got %q", got)
		}
	})

	t.Run("Quit", func(t *testing.T) {
		for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
			next, cmd := newDateModel(fixedNow).Update(tea.KeyMsg{Type: k})
			if !next.(dateModel).cancelled || !isQuit(cmd) {
				t.Errorf("expected %v to cancel the prompt", k)
			}
		}
	})
}
