package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/DataDog/agent-packager/internal/binary"
	"github.com/DataDog/agent-packager/internal/output"
	"github.com/DataDog/agent-packager/internal/platform"
	"github.com/DataDog/agent-packager/internal/release"
)

func NewInstallCmd() *cobra.Command {
	var (
		version   string
		outputDir string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install a built agent binary for the current platform",
		Long: `Install copies a previously built binary from the artifact directory into
the versions tree under the packager home and writes a thin wrapper that
forwards arguments and exit codes to it.

The binary must exist already: install never triggers a build.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, version, outputDir, force)
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "Agent version to install (default: latest release)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "build", "Artifact directory the build wrote to")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing install without prompting")

	return cmd
}

func runInstall(cmd *cobra.Command, version, outputDir string, force bool) error {
	logger := output.DefaultLogger

	host, err := platform.Current()
	if err != nil {
		return err
	}

	if version == "" {
		var clientOpts []release.ClientOption
		if token := githubToken(); token != "" {
			clientOpts = append(clientOpts, release.WithToken(token))
		}
		version, err = resolveVersion(cmd.Context(), release.NewClient(clientOpts...), "")
		if err != nil {
			return err
		}
	}

	artifact := filepath.Join(outputDir, host.Name(), "bin", host.BinaryName())
	if !filepath.IsAbs(artifact) {
		if abs, absErr := filepath.Abs(artifact); absErr == nil {
			artifact = abs
		}
	}

	if _, err := os.Stat(artifact); err != nil {
		return fmt.Errorf("no built artifact at %s (run 'agent-packager build --datadog-version %s' first)", artifact, version)
	}

	mgr := binary.NewManager(homeDir, host, logger)

	installed, err := mgr.Install(artifact, version, force)
	if err != nil {
		return fmt.Errorf("failed to install %s for %s: %w", version, host.Name(), err)
	}
	logger.Success("Installed %s", installed)

	wrapper, err := mgr.CreateWrapper(filepath.Join(homeDir, "bin"), version)
	if err != nil {
		return err
	}
	logger.Success("Wrapper written to %s", wrapper)
	logger.Info("Add %s to your PATH to run the agent.", filepath.Dir(wrapper))

	return nil
}
