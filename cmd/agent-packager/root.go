package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/DataDog/agent-packager/internal/config"
	"github.com/DataDog/agent-packager/internal/output"
)

// Global configuration variables
var (
	homeDir    string
	noColor    bool
	verbose    bool
	configPath string // Path to config.toml file (--config flag)

	// loadedFileConfig holds the parsed config.toml values (empty if no
	// config file was found)
	loadedFileConfig *config.FileConfig
)

// DefaultHomeDir returns the default home directory for packager data.
func DefaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".agent-packager"
	}
	return filepath.Join(home, ".agent-packager")
}

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent-packager",
		Short: "Build and package the Datadog Agent for multiple platforms",
		Long: `agent-packager builds the Datadog Agent from source for one or more
target platforms and normalizes the artifacts into a per-platform layout.

It wraps the upstream build tooling so a single command can:
  - Download the agent source at a pinned version
  - Build natively, cross-compile, or fall back to a Docker build
  - Collect binaries under build/<os>-<arch>/bin/
  - Install a built binary and a thin runtime wrapper

Examples:
  # Build for the current platform at the latest release
  agent-packager build

  # Build a pinned version for two platforms
  agent-packager build --datadog-version 7.55.0 --platform linux-amd64 --platform linux-arm64

  # List supported platforms
  agent-packager platforms

  # Install the built binary for this host
  agent-packager install --version 7.55.0`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewLoader(homeDir, configPath, output.DefaultLogger)
			fileCfg, configFilePath, err := loader.Load()
			if err != nil {
				return err
			}
			loadedFileConfig = fileCfg

			// Priority: default < config.toml < env < flag

			if !cmd.Flags().Changed("home") && fileCfg.Home != nil {
				homeDir = *fileCfg.Home
			}
			if !cmd.Flags().Changed("verbose") && fileCfg.Verbose != nil {
				verbose = *fileCfg.Verbose
			}
			if !cmd.Flags().Changed("no-color") && fileCfg.NoColor != nil {
				noColor = *fileCfg.NoColor
			}

			// Environment variables override config.toml but not explicit flags.
			if envHome := os.Getenv("DD_PACKAGER_HOME"); envHome != "" && !cmd.Flags().Changed("home") {
				homeDir = envHome
			}
			if os.Getenv("DD_PACKAGER_DEBUG") != "" && !cmd.Flags().Changed("verbose") {
				verbose = true
			}
			if os.Getenv("NO_COLOR") != "" && !cmd.Flags().Changed("no-color") {
				noColor = true
			}

			if configFilePath != "" && verbose {
				output.DefaultLogger.Debug("Using config file: %s", configFilePath)
			}

			output.DefaultLogger.SetNoColor(noColor)
			output.DefaultLogger.SetVerbose(verbose)

			return nil
		},
	}

	// Global flags available on all commands
	cmd.PersistentFlags().StringVarP(&homeDir, "home", "H", DefaultHomeDir(),
		"Base directory for packager data")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose logging")
	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config.toml file")

	cmd.AddCommand(
		NewBuildCmd(),
		NewPlatformsCmd(),
		NewInstallCmd(),
		NewCleanCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// githubToken returns the GitHub API token from the environment or the
// config file, preferring the environment.
func githubToken() string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	if loadedFileConfig != nil && loadedFileConfig.GitHubToken != nil {
		return *loadedFileConfig.GitHubToken
	}
	return ""
}
