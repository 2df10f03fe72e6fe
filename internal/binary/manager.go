// Package binary locates installed agent binaries and builds the thin
// executable wrapper that forwards to them.
package binary

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"

	"github.com/DataDog/agent-packager/internal/output"
	"github.com/DataDog/agent-packager/internal/platform"
)

// Manager resolves installed binaries for one platform under the packager
// home directory.
type Manager struct {
	homeDir  string
	platform platform.Platform
	logger   *output.Logger
}

// NewManager creates a Manager for the given platform.
func NewManager(homeDir string, p platform.Platform, logger *output.Logger) *Manager {
	if logger == nil {
		logger = output.DefaultLogger
	}
	return &Manager{homeDir: homeDir, platform: p, logger: logger}
}

// BinaryNotFoundError is returned when no binary exists at the expected
// install path for a version.
type BinaryNotFoundError struct {
	Version string
	Path    string
}

func (e *BinaryNotFoundError) Error() string {
	return fmt.Sprintf("binary for version %s not found at %s (run 'agent-packager build' first)", e.Version, e.Path)
}

// BinaryPath returns the expected on-disk path for (platform, version).
func (m *Manager) BinaryPath(version string) string {
	return filepath.Join(m.homeDir, "versions", version, m.platform.Name(), m.platform.BinaryName())
}

// EnsureBinary returns the path of the installed binary for version, failing
// with a BinaryNotFoundError if it is absent. It never triggers a build:
// building is a separate, explicit operation.
func (m *Manager) EnsureBinary(version string) (string, error) {
	path := m.BinaryPath(version)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", &BinaryNotFoundError{Version: version, Path: path}
	}
	return path, nil
}

// Install copies a built artifact into the versions tree. An existing
// install of the same version requires --force or interactive confirmation.
func (m *Manager) Install(artifactPath, version string, force bool) (string, error) {
	dst := m.BinaryPath(version)

	if _, err := os.Stat(dst); err == nil && !force {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Version %s is already installed. Overwrite", version),
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			return "", fmt.Errorf("install aborted: version %s already installed (use --force to overwrite)", version)
		}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", fmt.Errorf("failed to create install directory: %w", err)
	}

	data, err := os.ReadFile(artifactPath)
	if err != nil {
		return "", fmt.Errorf("failed to read artifact %s: %w", artifactPath, err)
	}
	if _, err := os.Lstat(dst); err == nil {
		if err := os.Remove(dst); err != nil {
			return "", fmt.Errorf("failed to replace existing binary: %w", err)
		}
	}
	if err := os.WriteFile(dst, data, 0755); err != nil {
		return "", fmt.Errorf("failed to install binary: %w", err)
	}

	m.logger.Debug("Installed %s -> %s", artifactPath, dst)
	return dst, nil
}
