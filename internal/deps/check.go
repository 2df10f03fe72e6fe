// Package deps probes for the external tools a platform build expects.
// The check is advisory: the underlying build tooling fails with a clearer
// error when something is truly missing, so missing tools only warn.
package deps

import (
	"os/exec"

	"github.com/DataDog/agent-packager/internal/output"
	"github.com/DataDog/agent-packager/internal/platform"
)

// commonTools are required on every platform build.
var commonTools = []string{"git", "go", "python3"}

// osTools are additional per-OS tool expectations.
var osTools = map[string][]string{
	platform.Linux:   {"gcc"},
	platform.Darwin:  {"clang"},
	platform.Windows: {"gcc"},
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Check probes each tool the target platform's build expects and returns the
// names of the missing ones. Missing tools are logged as warnings; Check
// never fails.
func Check(target platform.Platform, logger *output.Logger) []string {
	if logger == nil {
		logger = output.DefaultLogger
	}

	tools := append([]string{}, commonTools...)
	tools = append(tools, osTools[target.OS]...)

	var missing []string
	for _, tool := range tools {
		if _, err := lookPath(tool); err != nil {
			missing = append(missing, tool)
			logger.Warn("Build dependency %q not found for %s; the build may fail", tool, target.Name())
		}
	}
	if len(missing) == 0 {
		logger.Debug("All build dependencies present for %s", target.Name())
	}
	return missing
}
