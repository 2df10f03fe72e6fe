// Package builder runs the platform-aware build pipeline: environment
// preparation, the upstream invoke-based build, and artifact normalization
// into the per-platform output layout.
package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DataDog/agent-packager/internal/deps"
	"github.com/DataDog/agent-packager/internal/executor"
	"github.com/DataDog/agent-packager/internal/output"
	"github.com/DataDog/agent-packager/internal/platform"
)

// Builder executes builds for one or more target platforms.
type Builder struct {
	homeDir string
	logger  *output.Logger

	// streamTimeout bounds the long-running build command. Zero applies
	// executor.DefaultStreamTimeout; negative disables the bound.
	streamTimeout time.Duration
}

// New creates a Builder rooted at the packager home directory.
func New(homeDir string, logger *output.Logger) *Builder {
	if logger == nil {
		logger = output.DefaultLogger
	}
	return &Builder{homeDir: homeDir, logger: logger}
}

// SetStreamTimeout overrides the build command timeout.
func (b *Builder) SetStreamTimeout(d time.Duration) {
	b.streamTimeout = d
}

// Build runs the full pipeline for one platform and returns its terminal
// Result. Failures never propagate as errors: they are isolated into the
// Result so multi-platform runs keep going.
func (b *Builder) Build(ctx context.Context, host platform.Platform, cfg Config) Result {
	start := time.Now()
	outputPath, err := b.build(ctx, host, cfg)
	result := Result{
		Platform: cfg.Target,
		Duration: time.Since(start),
	}
	if err != nil {
		result.Err = err
		return result
	}
	result.Success = true
	result.OutputPath = outputPath
	return result
}

func (b *Builder) build(ctx context.Context, host platform.Platform, cfg Config) (string, error) {
	spec, err := specFor(cfg.Target.OS)
	if err != nil {
		return "", err
	}
	if err := spec.precondition(host, cfg.Target); err != nil {
		return "", err
	}

	binDir := filepath.Join(cfg.OutputDir, cfg.Target.Name(), "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if useContainer(host, cfg.Target, spec) {
		b.logger.Info("No native %s toolchain on this host, building in a container", cfg.Target.Name())
		return b.containerBuild(ctx, cfg, spec, binDir)
	}

	deps.Check(cfg.Target, b.logger)

	env := composeEnv(os.Environ(), mergeOverrides(
		baseOverrides(cfg.Target, b.homeDir),
		spec.envOverrides(host, cfg.Target),
	))

	progress := output.NewProgress(3)

	progress.Stage("Installing build dependencies")
	if _, err := executor.Run(ctx, executor.Command{
		Name: "python3",
		Args: []string{"-m", "invoke", "deps"},
		Dir:  cfg.SourceDir,
		Env:  env,
	}); err != nil {
		return "", fmt.Errorf("dependency install failed: %w", err)
	}

	progress.Stage("Installing build tools")
	if _, err := executor.Run(ctx, executor.Command{
		Name: "python3",
		Args: []string{"-m", "invoke", "install-tools"},
		Dir:  cfg.SourceDir,
		Env:  env,
	}); err != nil {
		return "", fmt.Errorf("tool install failed: %w", err)
	}

	progress.Stage(fmt.Sprintf("Building agent for %s", cfg.Target.Name()))
	buildArgs := append([]string{"-m", "invoke", "agent.build"}, cfg.BuildArgs...)
	win := executor.NewWindow(os.Stdout, executor.DefaultWindowSize)
	if _, err := executor.Stream(ctx, executor.Command{
		Name:    "python3",
		Args:    buildArgs,
		Dir:     cfg.SourceDir,
		Env:     env,
		Timeout: b.streamTimeout,
	}, win); err != nil {
		return "", fmt.Errorf("agent build failed: %w", err)
	}

	outputPath, err := b.copyArtifact(cfg, binDir)
	if err != nil {
		return "", err
	}
	progress.Done(fmt.Sprintf("Built %s", outputPath))
	return outputPath, nil
}

// copyArtifact locates the binary the upstream build produced and lands it
// at the normalized per-platform path. A missing binary after a successful
// build is a contract mismatch and therefore fatal.
func (b *Builder) copyArtifact(cfg Config, binDir string) (string, error) {
	candidates := []string{
		filepath.Join(cfg.SourceDir, "bin", "agent", cfg.Target.BinaryName()),
		filepath.Join(cfg.SourceDir, "bin", "agent", agentBinaryName(cfg.Target)),
	}

	var src string
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			src = candidate
			break
		}
	}
	if src == "" {
		return "", &ArtifactError{Expected: candidates[0]}
	}

	dst := filepath.Join(binDir, cfg.Target.BinaryName())
	if err := copyBinary(src, dst); err != nil {
		return "", fmt.Errorf("failed to copy artifact: %w", err)
	}
	b.logger.Debug("Copied %s -> %s", src, dst)
	return dst, nil
}

// agentBinaryName is the file name the upstream build tooling itself writes,
// before normalization.
func agentBinaryName(target platform.Platform) string {
	if target.OS == platform.Windows {
		return "agent.exe"
	}
	return "agent"
}

// copyBinary copies a binary preserving executable permissions, removing any
// existing file first so a stale binary from a previous build can never
// survive a rebuild.
func copyBinary(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if _, statErr := os.Lstat(dst); statErr == nil {
		if removeErr := os.Remove(dst); removeErr != nil {
			return fmt.Errorf("failed to remove existing binary at %s: %w", dst, removeErr)
		}
	}
	if err := os.WriteFile(dst, data, 0755); err != nil {
		return fmt.Errorf("failed to write binary to %s: %w", dst, err)
	}
	return nil
}
