package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Colours follow the terminal UI palette.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// painter renders styles only when writing to a terminal, so piped and
// captured output stays plain.
type painter struct {
	w     io.Writer
	color bool
}

func newPainter(w io.Writer) painter {
	return painter{w: w, color: isTerminal(w)}
}

func (p painter) paint(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

func (p painter) title(s string) {
	fmt.Fprintln(p.w, p.paint(titleStyle, s))
}

// field prints an indented "label: value" line.
func (p painter) field(label string, value any) {
	fmt.Fprintf(p.w, "  %s %v\n", p.paint(labelStyle, label+":"), value)
}

func (p painter) muted(s string) string   { return p.paint(mutedStyle, s) }
func (p painter) success(s string) string { return p.paint(successStyle, s) }
func (p painter) warning(s string) string { return p.paint(warningStyle, s) }
func (p painter) failure(s string) string { return p.paint(errorStyle, s) }
