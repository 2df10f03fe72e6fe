package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/agent-packager/internal/config"
	"github.com/DataDog/agent-packager/internal/platform"
	"github.com/DataDog/agent-packager/internal/release"
)

func TestResolveTargetsDefaultsToHost(t *testing.T) {
	host := platform.Platform{OS: platform.Linux, Arch: platform.Amd64}

	targets, err := resolveTargets(host, buildOptions{})
	require.NoError(t, err)
	assert.Equal(t, []platform.Platform{host}, targets)
}

func TestResolveTargetsAllPlatforms(t *testing.T) {
	host := platform.Platform{OS: platform.Linux, Arch: platform.Amd64}

	targets, err := resolveTargets(host, buildOptions{allPlatforms: true})
	require.NoError(t, err)
	assert.Equal(t, platform.All, targets)

	_, err = resolveTargets(host, buildOptions{allPlatforms: true, platforms: []string{"linux-amd64"}})
	assert.Error(t, err)
}

func TestResolveTargetsParsesAndDeduplicates(t *testing.T) {
	host := platform.Platform{OS: platform.Linux, Arch: platform.Amd64}

	targets, err := resolveTargets(host, buildOptions{
		platforms: []string{"macos-x86_64", "darwin-amd64", "windows-arm64"},
	})
	require.NoError(t, err)
	assert.Equal(t, []platform.Platform{
		{OS: platform.Darwin, Arch: platform.Amd64},
		{OS: platform.Windows, Arch: platform.Arm64},
	}, targets)
}

func TestResolveTargetsRejectsUnknown(t *testing.T) {
	host := platform.Platform{OS: platform.Linux, Arch: platform.Amd64}

	_, err := resolveTargets(host, buildOptions{platforms: []string{"plan9-amd64"}})
	assert.Error(t, err)
}

func TestResolveVersionFlagWins(t *testing.T) {
	cfgVersion := "7.50.0"
	loadedFileConfig = &config.FileConfig{DatadogVersion: &cfgVersion}
	t.Cleanup(func() { loadedFileConfig = nil })

	// No network call happens when the flag is set.
	v, err := resolveVersion(context.Background(), release.NewClient(), "7.60.1")
	require.NoError(t, err)
	assert.Equal(t, "7.60.1", v)
}

func TestResolveVersionFromConfig(t *testing.T) {
	cfgVersion := "7.50.0"
	loadedFileConfig = &config.FileConfig{DatadogVersion: &cfgVersion}
	t.Cleanup(func() { loadedFileConfig = nil })

	v, err := resolveVersion(context.Background(), release.NewClient(), "")
	require.NoError(t, err)
	assert.Equal(t, "7.50.0", v)
}
