// Package executor runs external build commands with two strategies: short
// synchronous commands with fully captured output, and long-running build
// commands with a bounded live display plus full-buffer capture.
package executor

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultTimeout bounds synchronous command execution.
	DefaultTimeout = 20 * time.Minute

	// DefaultStreamTimeout bounds streamed build execution. Unlike the
	// synchronous ceiling this is generous: full agent builds routinely take
	// over an hour. A zero Command.Timeout applies this default; a negative
	// one disables the bound and defers to the CI job's own timeout.
	DefaultStreamTimeout = 2 * time.Hour

	// scanBufferSize is the maximum length of a single output line.
	scanBufferSize = 1024 * 1024
)

// Command describes one external command invocation. Env is a complete
// environment snapshot; it is passed to the child as-is and the parent
// process environment is never mutated. A nil Env inherits the parent's.
type Command struct {
	Name    string
	Args    []string
	Dir     string
	Env     []string
	Timeout time.Duration
}

func (c Command) describe() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result holds the captured output of a completed command.
type Result struct {
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Run executes a short-lived command synchronously with a bounded timeout,
// capturing stdout and stderr fully. A nonzero exit is reported as an
// *ExitError carrying the exit code and captured output.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	execCmd := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	execCmd.Dir = cmd.Dir
	execCmd.Env = cmd.Env

	var stdout, stderr bytes.Buffer
	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr

	start := time.Now()
	err := execCmd.Run()
	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		return result, commandError(ctx, cmd, err, result, timeout)
	}
	return result, nil
}

// Stream executes a long-running command, feeding stdout and stderr lines
// into the rolling window for live progress while accumulating the full
// output for error reporting. The window may be nil to skip display.
func Stream(ctx context.Context, cmd Command, win *Window) (*Result, error) {
	timeout := cmd.Timeout
	if timeout == 0 {
		timeout = DefaultStreamTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	execCmd := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	execCmd.Dir = cmd.Dir
	execCmd.Env = cmd.Env

	stdoutPipe, err := execCmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to attach stdout: %w", err)
	}
	stderrPipe, err := execCmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to attach stderr: %w", err)
	}

	start := time.Now()
	if err := execCmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %q: %w", cmd.Name, err)
	}

	var stdout, stderr strings.Builder
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(2)
	go drainLines(stdoutPipe, &stdout, &mu, win, &wg)
	go drainLines(stderrPipe, &stderr, &mu, win, &wg)
	wg.Wait()

	err = execCmd.Wait()
	if win != nil {
		win.Close()
	}

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		return result, commandError(ctx, cmd, err, result, timeout)
	}
	return result, nil
}

// drainLines copies one output stream line by line into its accumulator and
// the shared display window.
func drainLines(r io.Reader, acc *strings.Builder, mu *sync.Mutex, win *Window, wg *sync.WaitGroup) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), scanBufferSize)
	for scanner.Scan() {
		line := scanner.Text()
		mu.Lock()
		acc.WriteString(line)
		acc.WriteByte('\n')
		mu.Unlock()
		if win != nil {
			win.Append(line)
		}
	}
}

func commandError(ctx context.Context, cmd Command, err error, result *Result, timeout time.Duration) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Cmd: cmd.describe(), Timeout: timeout.String()}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{
			Cmd:    cmd.describe(),
			Code:   exitErr.ExitCode(),
			Stdout: result.Stdout,
			Stderr: result.Stderr,
		}
	}

	// Spawn-level failure: binary not found, permission denied.
	return fmt.Errorf("failed to run %q: %w", cmd.Name, err)
}
