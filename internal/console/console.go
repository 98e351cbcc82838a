package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes user-facing status lines. Styling degrades to plain text when out is not a terminal.
type Printer struct {
	out     io.Writer
	info    lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
	accent  lipgloss.Style
}

func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:     out,
		info:    r.NewStyle().Foreground(lipgloss.Color("#888888")),
		success: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#6BCB77")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("#FFD93D")),
		err:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
		accent:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#4D96FF")),
	}
}

func (p *Printer) Info(format string, args ...any) {
	p.line(p.info, format, args...)
}

func (p *Printer) Success(format string, args ...any) {
	p.line(p.success, format, args...)
}

func (p *Printer) Warn(format string, args ...any) {
	p.line(p.warn, format, args...)
}

func (p *Printer) Error(format string, args ...any) {
	p.line(p.err, format, args...)
}

// Highlight renders s in the accent style without printing it.
func (p *Printer) Highlight(s string) string {
	return p.accent.Render(s)
}

// Plain prints without styling.
func (p *Printer) Plain(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) line(style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(p.out, style.Render(fmt.Sprintf(format, args...)))
}
