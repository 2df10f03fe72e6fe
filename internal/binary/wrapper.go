package binary

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/DataDog/agent-packager/internal/platform"
)

// CreateWrapper writes a small executable shim into dir that forwards
// arguments, stdio, and the exit code to the installed binary for version.
// Unix hosts get a shell script; Windows hosts get a batch file.
func (m *Manager) CreateWrapper(dir, version string) (string, error) {
	target := m.BinaryPath(version)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create wrapper directory: %w", err)
	}

	var path, content string
	if m.platform.OS == platform.Windows {
		path = filepath.Join(dir, platform.BinaryBaseName+".cmd")
		content = "@echo off\r\n\"" + target + "\" %*\r\nexit /b %ERRORLEVEL%\r\n"
	} else {
		path = filepath.Join(dir, platform.BinaryBaseName)
		content = "#!/bin/sh\nexec \"" + target + "\" \"$@\"\n"
	}

	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		return "", fmt.Errorf("failed to write wrapper: %w", err)
	}
	m.logger.Debug("Wrote wrapper %s -> %s", path, target)
	return path, nil
}
