package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
}

func NewPalette(t, s, e string) *Palette {
	return &Palette{
		title: NewBold(t),
		ok:    NewBold(s),
		err:   NewBold(e),
	}
}

// Title renders s as a heading.
func (p *Palette) Title(s string) string { return p.title.Render(s) }

// OK renders s as a success message.
func (p *Palette) OK(s string) string { return p.ok.Render(s) }

// Error renders s as an error message.
func (p *Palette) Error(s string) string { return p.err.Render(s) }

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}
