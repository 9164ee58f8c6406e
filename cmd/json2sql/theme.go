package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// theme styles status lines when the writer is a color-capable terminal.
type theme struct {
	color bool
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func newTheme(w io.Writer) theme {
	f, ok := w.(*os.File)
	if !ok {
		return theme{}
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return theme{}
	}
	return theme{color: isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())}
}

func (t theme) render(s lipgloss.Style, text string) string {
	if !t.color {
		return text
	}
	return s.Render(text)
}

func (t theme) success(text string) string { return t.render(successStyle, "✓ "+text) }
func (t theme) failure(text string) string { return t.render(errorStyle, "✗ "+text) }
func (t theme) warning(text string) string { return t.render(warningStyle, "⚠ "+text) }
