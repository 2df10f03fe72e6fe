package builder

import (
	"fmt"
	"strings"
	"time"

	"github.com/DataDog/agent-packager/internal/platform"
)

// Config describes one build invocation. It is created per invocation and
// never mutated while the build runs.
type Config struct {
	Target    platform.Platform
	Version   string
	OutputDir string
	SourceDir string
	BuildArgs []string
}

// Result is the terminal report of one build invocation. Exactly one Result
// is produced per Config; it is never mutated after creation.
type Result struct {
	Platform   platform.Platform
	Success    bool
	OutputPath string
	Err        error
	Duration   time.Duration
}

// String formats the result for the end-of-run summary. Error text is
// included verbatim, never truncated.
func (r Result) String() string {
	if r.Success {
		return fmt.Sprintf("%s: ok (%s, %s)", r.Platform.Name(), r.OutputPath, r.Duration.Round(time.Second))
	}
	return fmt.Sprintf("%s: failed: %v", r.Platform.Name(), r.Err)
}

// Summarize formats the aggregated results of a multi-platform run and
// reports whether every platform succeeded.
func Summarize(results []Result) (string, bool) {
	var sb strings.Builder
	allOK := true
	for _, r := range results {
		sb.WriteString(r.String())
		sb.WriteByte('\n')
		if !r.Success {
			allOK = false
		}
	}
	return sb.String(), allOK
}
