package cli

import (
	"io"
	"os"

	"charm.land/bubbles/v2/progress"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Theme holds the color scheme for status output.
type Theme struct {
	Status  lipgloss.Color
	Success lipgloss.Color
	Hint    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) currentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// printer renders styled text only when writing to a terminal.
type printer struct {
	theme  Theme
	styled bool
}

func newPrinter(w io.Writer) printer {
	return printer{theme: defaultTheme, styled: isTerminal(w)}
}

func (p printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

// bar renders a progress bar for pct, or nothing when output is not a terminal.
func (p printer) bar(pct float64) string {
	if !p.styled {
		return ""
	}
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(30),
	)
	return prog.ViewAs(pct)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
