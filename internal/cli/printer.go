// pattern: Imperative Shell
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes the command echo to stdout and reports to stderr.
type Printer struct {
	out, err  io.Writer
	outStyles *Styles
	errStyles *Styles
	noColor   bool
}

// NewPrinter creates a Printer. Colors follow each writer's terminal
// capabilities unless noColor is set.
func NewPrinter(out, err io.Writer, theme string, noColor bool) *Printer {
	return &Printer{
		out:       out,
		err:       err,
		outStyles: NewStyles(theme, lipgloss.NewRenderer(out)),
		errStyles: NewStyles(theme, lipgloss.NewRenderer(err)),
		noColor:   noColor,
	}
}

// Command echoes a command before it runs: "<path>: <command> <args>".
func (p *Printer) Command(relPath, command string, args []string) {
	line := strings.TrimSpace(command + " " + strings.Join(args, " "))
	p.write(p.out, p.outStyles.PathStyle().Render(relPath+":")+" "+p.outStyles.CommandStyle().Render(line)+"\n")
}

// Error reports msg on stderr.
func (p *Printer) Error(msg string) {
	p.write(p.err, "\n"+p.errStyles.ErrorStyle().Render(msg)+"\n\n")
}

// Errorf reports a formatted message on stderr.
func (p *Printer) Errorf(format string, args ...any) {
	p.Error(fmt.Sprintf(format, args...))
}

func (p *Printer) write(w io.Writer, s string) {
	if p.noColor {
		s = StripANSI(s)
	}
	_, _ = io.WriteString(w, s)
}
