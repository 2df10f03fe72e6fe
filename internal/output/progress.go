package output

import (
	"io"
	"os"

	"github.com/fatih/color"
)

// Progress prints numbered build stages in the form "[N/M] Description...".
type Progress struct {
	out     io.Writer
	total   int
	current int
}

// NewProgress creates a Progress with the given total step count.
func NewProgress(total int) *Progress {
	return &Progress{
		out:   os.Stdout,
		total: total,
	}
}

// Stage advances to the next step and prints its description.
func (p *Progress) Stage(description string) {
	p.current++
	cyan := color.New(color.FgCyan)
	cyan.Fprintf(p.out, "[%d/%d] %s...\n", p.current, p.total, description)
}

// Done prints a completion message.
func (p *Progress) Done(message string) {
	green := color.New(color.FgGreen)
	green.Fprintf(p.out, "\n✓ %s\n", message)
}

// Current returns the current step number.
func (p *Progress) Current() int {
	return p.current
}
