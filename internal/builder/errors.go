package builder

import "fmt"

// PreconditionError is returned when a platform-specific build requirement
// is not met. These are not retryable; Hint tells the operator how to fix
// the environment.
type PreconditionError struct {
	Platform string
	Reason   string
	Hint     string
}

func (e *PreconditionError) Error() string {
	msg := fmt.Sprintf("cannot build for %s: %s", e.Platform, e.Reason)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

// ArtifactError is returned when the expected binary is absent after a
// build step reported success. It indicates a build/copy contract mismatch,
// not a transient condition.
type ArtifactError struct {
	Expected string
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("build reported success but no binary found at %s", e.Expected)
}
