package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/DataDog/agent-packager/internal/builder"
	"github.com/DataDog/agent-packager/internal/output"
	"github.com/DataDog/agent-packager/internal/platform"
	"github.com/DataDog/agent-packager/internal/release"
	"github.com/DataDog/agent-packager/internal/source"
)

func NewBuildCmd() *cobra.Command {
	var (
		datadogVersion string
		outputDir      string
		platformNames  []string
		allPlatforms   bool
		buildArgs      string
		debug          bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the Datadog Agent for one or more platforms",
		Long: `Build downloads the agent source at the requested version and runs the
upstream build tooling for each target platform:
  1. Fetch source (git clone at the release tag, tarball fallback)
  2. Install build dependencies and tools
  3. Build natively, cross-compile, or fall back to a Docker build
  4. Copy the binary to build/<os>-<arch>/bin/

Platforms build sequentially. One platform failing does not stop the
others; the summary lists every outcome and the command exits nonzero
if any platform failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				output.DefaultLogger.SetVerbose(true)
			}
			return runBuild(cmd.Context(), buildOptions{
				version:      datadogVersion,
				outputDir:    outputDir,
				platforms:    platformNames,
				allPlatforms: allPlatforms,
				buildArgs:    strings.Fields(buildArgs),
			})
		},
	}

	cmd.Flags().StringVar(&datadogVersion, "datadog-version", "", "Agent version to build (default: latest release)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "build", "Artifact output directory")
	cmd.Flags().StringArrayVarP(&platformNames, "platform", "p", nil, "Target platform, e.g. linux-amd64 (repeatable; default: host)")
	cmd.Flags().BoolVar(&allPlatforms, "all-platforms", false, "Build for every supported platform")
	cmd.Flags().StringVar(&buildArgs, "build-args", "", "Extra arguments passed to the upstream build")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable verbose build logging")

	return cmd
}

type buildOptions struct {
	version      string
	outputDir    string
	platforms    []string
	allPlatforms bool
	buildArgs    []string
}

func runBuild(ctx context.Context, opts buildOptions) error {
	logger := output.DefaultLogger

	host, err := platform.Current()
	if err != nil {
		return err
	}

	targets, err := resolveTargets(host, opts)
	if err != nil {
		return err
	}

	var clientOpts []release.ClientOption
	if token := githubToken(); token != "" {
		clientOpts = append(clientOpts, release.WithToken(token))
	}
	client := release.NewClient(clientOpts...)

	version, err := resolveVersion(ctx, client, opts.version)
	if err != nil {
		return err
	}
	logger.Bold("Building Datadog Agent %s", version)

	b := builder.New(homeDir, logger)
	if loadedFileConfig != nil && loadedFileConfig.BuildTimeout != nil {
		// Validated at config load time.
		d, _ := time.ParseDuration(*loadedFileConfig.BuildTimeout)
		b.SetStreamTimeout(d)
	}

	downloader := source.NewDownloader(client, logger)

	results := make([]builder.Result, 0, len(targets))
	for _, target := range targets {
		logger.Info("")
		logger.Bold("==> %s", target.Name())

		srcDir := filepath.Join(homeDir, "src", version, target.Name())
		srcDir, err := downloader.Download(ctx, version, srcDir)
		if err != nil {
			results = append(results, builder.Result{
				Platform: target,
				Err:      fmt.Errorf("source download failed: %w", err),
			})
			logger.Error("%s: source download failed: %v", target.Name(), err)
			continue
		}

		result := b.Build(ctx, host, builder.Config{
			Target:    target,
			Version:   version,
			OutputDir: opts.outputDir,
			SourceDir: srcDir,
			BuildArgs: opts.buildArgs,
		})
		if result.Success {
			logger.Success("%s: %s", target.Name(), result.OutputPath)
		} else {
			logger.Error("%s: %v", target.Name(), result.Err)
		}
		results = append(results, result)
	}

	summary, allOK := builder.Summarize(results)
	logger.Info("")
	logger.Bold("Build summary:")
	logger.Info("%s", strings.TrimRight(summary, "\n"))

	if !allOK {
		return fmt.Errorf("one or more platform builds failed")
	}
	return nil
}

// resolveTargets determines the target platform list from the flags.
// Default is the host platform.
func resolveTargets(host platform.Platform, opts buildOptions) ([]platform.Platform, error) {
	if opts.allPlatforms {
		if len(opts.platforms) > 0 {
			return nil, fmt.Errorf("--platform and --all-platforms are mutually exclusive")
		}
		return platform.All, nil
	}
	if len(opts.platforms) == 0 {
		return []platform.Platform{host}, nil
	}

	targets := make([]platform.Platform, 0, len(opts.platforms))
	seen := make(map[string]bool)
	for _, name := range opts.platforms {
		p, err := platform.Parse(name)
		if err != nil {
			return nil, err
		}
		if seen[p.Name()] {
			continue
		}
		seen[p.Name()] = true
		targets = append(targets, p)
	}
	return targets, nil
}

// resolveVersion picks the agent version: flag > config.toml > latest release.
func resolveVersion(ctx context.Context, client *release.Client, flagVersion string) (string, error) {
	if flagVersion != "" {
		return flagVersion, nil
	}
	if loadedFileConfig != nil && loadedFileConfig.DatadogVersion != nil {
		return *loadedFileConfig.DatadogVersion, nil
	}

	output.DefaultLogger.Info("Resolving latest agent release...")
	version, err := client.LatestVersion(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to resolve latest version: %w", err)
	}
	return version, nil
}
