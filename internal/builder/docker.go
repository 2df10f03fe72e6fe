package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/DataDog/agent-packager/internal/executor"
	"github.com/DataDog/agent-packager/internal/platform"
)

// containerBuild runs the build inside a container when the host cannot
// cross-compile for the target natively. It builds an image from the OS
// family's build definition, generates a build script into the source tree, and runs
// it with the source and output directories bind-mounted. No partial
// artifacts are promoted: any sub-step failure fails the whole build.
func (b *Builder) containerBuild(ctx context.Context, cfg Config, spec *targetSpec, binDir string) (string, error) {
	id := strings.Split(uuid.NewString(), "-")[0]

	dockerfilePath := filepath.Join(cfg.SourceDir, fmt.Sprintf(".agent-packager-%s.Dockerfile", id))
	if err := os.WriteFile(dockerfilePath, []byte(spec.dockerfile), 0644); err != nil {
		return "", fmt.Errorf("failed to write container build definition: %w", err)
	}
	defer os.Remove(dockerfilePath)

	scriptName := fmt.Sprintf(".agent-packager-build-%s.sh", id)
	scriptPath := filepath.Join(cfg.SourceDir, scriptName)
	env := mergeOverrides(containerOverrides(cfg.Target), spec.envOverrides(platform.Platform{OS: platform.Linux, Arch: cfg.Target.Arch}, cfg.Target))
	if err := os.WriteFile(scriptPath, []byte(buildScript(cfg, env)), 0755); err != nil {
		return "", fmt.Errorf("failed to write container build script: %w", err)
	}
	defer os.Remove(scriptPath)

	// Linux targets run in a container of the target architecture so the
	// build is effectively native; Windows targets cross-compile with mingw
	// inside a default-architecture container.
	var platformArgs []string
	if cfg.Target.OS == platform.Linux {
		platformArgs = []string{"--platform", "linux/" + cfg.Target.GoArch()}
	}

	imageTag := fmt.Sprintf("agent-packager/build-%s:%s", cfg.Target.Name(), id)
	b.logger.Info("Building container image %s...", imageTag)
	buildArgs := append([]string{"build"}, platformArgs...)
	buildArgs = append(buildArgs, "-t", imageTag, "-f", dockerfilePath, cfg.SourceDir)
	if _, err := executor.Run(ctx, executor.Command{
		Name: "docker",
		Args: buildArgs,
	}); err != nil {
		return "", fmt.Errorf("container image build failed: %w", err)
	}

	absSource, err := filepath.Abs(cfg.SourceDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve source directory: %w", err)
	}
	absBin, err := filepath.Abs(binDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output directory: %w", err)
	}

	b.logger.Info("Running containerized build for %s...", cfg.Target.Name())
	win := executor.NewWindow(os.Stdout, executor.DefaultWindowSize)
	runArgs := append([]string{"run", "--rm"}, platformArgs...)
	runArgs = append(runArgs,
		"-v", absSource+":/src",
		"-v", absBin+":/out",
		imageTag,
		"sh", "/src/"+scriptName,
	)
	if _, err := executor.Stream(ctx, executor.Command{
		Name:    "docker",
		Args:    runArgs,
		Timeout: b.streamTimeout,
	}, win); err != nil {
		return "", fmt.Errorf("containerized build failed: %w", err)
	}

	outputPath := filepath.Join(binDir, cfg.Target.BinaryName())
	if _, err := os.Stat(outputPath); err != nil {
		return "", &ArtifactError{Expected: outputPath}
	}
	return outputPath, nil
}

// containerOverrides is the in-container counterpart of baseOverrides: same
// cross-compilation variables, container-local GOPATH.
func containerOverrides(target platform.Platform) map[string]string {
	return map[string]string{
		"GOOS":        target.OS,
		"GOARCH":      target.GoArch(),
		"CGO_ENABLED": "1",
		"GOPATH":      "/go",
	}
}

// buildScript generates the shell script executed inside the build
// container. It mirrors the native pipeline: install dependencies, install
// tools, build, copy the artifact to the mounted output directory.
func buildScript(cfg Config, env map[string]string) string {
	var sb strings.Builder
	sb.WriteString("#!/bin/sh\nset -e\n\n")

	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "export %s=%q\n", name, env[name])
	}

	sb.WriteString("\ncd /src\n")
	sb.WriteString("python3 -m invoke deps\n")
	sb.WriteString("python3 -m invoke install-tools\n")
	sb.WriteString("python3 -m invoke agent.build")
	for _, arg := range cfg.BuildArgs {
		sb.WriteString(" " + arg)
	}
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "cp bin/agent/%s /out/%s\n", agentBinaryName(cfg.Target), cfg.Target.BinaryName())
	return sb.String()
}
