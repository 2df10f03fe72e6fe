package executor

import (
	"fmt"
	"strings"
)

// ExitError is returned when a command runs but exits nonzero. It carries the
// exit code and the full captured output for operator-facing error reports.
type ExitError struct {
	Cmd    string
	Code   int
	Stdout string
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("command %q exited with code %d", e.Cmd, e.Code)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// TimeoutError is returned when a command exceeds its execution timeout.
type TimeoutError struct {
	Cmd     string
	Timeout string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command %q timed out after %s", e.Cmd, e.Timeout)
}
