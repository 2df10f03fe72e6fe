package executor

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// DefaultWindowSize is the number of output lines kept visible while a
// long-running build streams.
const DefaultWindowSize = 6

// Window is a bounded rolling display for live build output. On a terminal
// the last N lines are redrawn in place; on a plain writer every line is
// passed through unchanged. Display is independent of capture: callers keep
// their own full accumulators for error reporting.
type Window struct {
	mu    sync.Mutex
	out   io.Writer
	size  int
	lines []string
	drawn int
	tty   bool
	width int
}

// NewWindow creates a Window writing to out, keeping the last size lines.
func NewWindow(out io.Writer, size int) *Window {
	if size <= 0 {
		size = DefaultWindowSize
	}
	w := &Window{out: out, size: size, width: 80}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		w.tty = true
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			w.width = width
		}
	}
	return w
}

// Append adds one output line to the display.
func (w *Window) Append(line string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.tty {
		fmt.Fprintln(w.out, line)
		return
	}

	w.lines = append(w.lines, line)
	if len(w.lines) > w.size {
		w.lines = w.lines[len(w.lines)-w.size:]
	}
	w.redraw()
}

// Lines returns a copy of the currently displayed lines.
func (w *Window) Lines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.lines))
	copy(out, w.lines)
	return out
}

// Close clears the rolling display so subsequent output starts on a clean
// line. A no-op for non-terminal writers.
func (w *Window) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.tty || w.drawn == 0 {
		return
	}
	fmt.Fprintf(w.out, "\x1b[%dA", w.drawn)
	for i := 0; i < w.drawn; i++ {
		fmt.Fprint(w.out, "\x1b[2K\n")
	}
	fmt.Fprintf(w.out, "\x1b[%dA", w.drawn)
	w.drawn = 0
	w.lines = nil
}

// redraw repaints the window in place. Caller holds the lock.
func (w *Window) redraw() {
	if w.drawn > 0 {
		fmt.Fprintf(w.out, "\x1b[%dA", w.drawn)
	}
	faint := color.New(color.Faint)
	for _, line := range w.lines {
		if len(line) > w.width-2 {
			line = line[:w.width-2]
		}
		fmt.Fprint(w.out, "\x1b[2K")
		faint.Fprintln(w.out, line)
	}
	w.drawn = len(w.lines)
}
