package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/desertthunder/markx/internal/shared"
)

// PromptText asks for the creation date cutoff.
const PromptText = "请输入创建时间（格式为YYMMDD）："

const (
	formatErrorText = "时间格式不正确，请重新输入！格式应为YYMMDD，例如：231026"
	dateErrorText   = "时间格式不正确，请重新输入！确保年、月、日有效。"
)

// Prompter collects the export cutoff date from the operator.
type Prompter interface {
	Cutoff(ctx context.Context) (time.Time, error)
}

// ErrorText returns the operator-facing message for a [shared.ParseCutoff] error.
func ErrorText(err error) string {
	switch {
	case errors.Is(err, shared.ErrInvalidDateFormat):
		return formatErrorText
	case errors.Is(err, shared.ErrInvalidDate):
		return dateErrorText
	default:
		return err.Error()
	}
}

// LinePrompt reads the cutoff line by line, re-prompting until a valid date is entered.
type LinePrompt struct {
	in  *bufio.Scanner
	out io.Writer
	now func() time.Time
}

// NewLinePrompt creates a LinePrompt. A nil now defaults to [time.Now].
func NewLinePrompt(r io.Reader, w io.Writer, now func() time.Time) *LinePrompt {
	if now == nil {
		now = time.Now
	}
	return &LinePrompt{in: bufio.NewScanner(r), out: w, now: now}
}

// Cutoff prompts until the input parses. Only the end of input stops the loop with an error.
func (p *LinePrompt) Cutoff(ctx context.Context) (time.Time, error) {
	for {
		if err := ctx.Err(); err != nil {
			return time.Time{}, err
		}

		fmt.Fprint(p.out, PromptText)
		if !p.in.Scan() {
			fmt.Fprintln(p.out)
			if err := p.in.Err(); err != nil {
				return time.Time{}, fmt.Errorf("failed to read input: %w", err)
			}
			return time.Time{}, fmt.Errorf("%w: %v", shared.ErrCancelled, io.EOF)
		}

		cutoff, err := shared.ParseCutoff(p.in.Text(), p.now())
		if err != nil {
			fmt.Fprintln(p.out, ErrorText(err))
			continue
		}
		return cutoff, nil
	}
}
