package builder

import (
	"strings"
	"testing"

	"github.com/DataDog/agent-packager/internal/platform"
)

func envValue(env []string, name string) (string, bool) {
	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok && k == name {
			return v, true
		}
	}
	return "", false
}

func TestComposeEnvOverridesWithoutMutatingBase(t *testing.T) {
	base := []string{"PATH=/usr/bin", "HOME=/home/ci", "GOARCH=amd64"}
	baseCopy := append([]string{}, base...)

	env := composeEnv(base, map[string]string{
		"GOARCH": "arm64",
		"CC":     "aarch64-linux-gnu-gcc",
	})

	if v, _ := envValue(env, "GOARCH"); v != "arm64" {
		t.Errorf("GOARCH = %q, want arm64", v)
	}
	if v, _ := envValue(env, "CC"); v != "aarch64-linux-gnu-gcc" {
		t.Errorf("CC = %q", v)
	}
	if v, _ := envValue(env, "HOME"); v != "/home/ci" {
		t.Errorf("HOME = %q, want passthrough", v)
	}
	for i := range base {
		if base[i] != baseCopy[i] {
			t.Fatal("composeEnv mutated the base snapshot")
		}
	}
}

func TestCrossArchLinuxEnv(t *testing.T) {
	host := platform.Platform{OS: platform.Linux, Arch: platform.Amd64}
	target := platform.Platform{OS: platform.Linux, Arch: platform.Arm64}

	spec, err := specFor(platform.Linux)
	if err != nil {
		t.Fatal(err)
	}

	overrides := mergeOverrides(baseOverrides(target, t.TempDir()), spec.envOverrides(host, target))

	if overrides["GOARCH"] != "arm64" {
		t.Errorf("GOARCH = %q, want arm64", overrides["GOARCH"])
	}
	if overrides["CC"] != "aarch64-linux-gnu-gcc" {
		t.Errorf("CC = %q, want aarch64-linux-gnu-gcc", overrides["CC"])
	}
	if overrides["CGO_ENABLED"] != "1" {
		t.Errorf("CGO_ENABLED = %q, want 1", overrides["CGO_ENABLED"])
	}
}

func TestNativeLinuxEnvHasNoCrossCompiler(t *testing.T) {
	host := platform.Platform{OS: platform.Linux, Arch: platform.Amd64}
	target := host

	spec, err := specFor(platform.Linux)
	if err != nil {
		t.Fatal(err)
	}
	if extra := spec.envOverrides(host, target); extra != nil {
		t.Errorf("native build got cross overrides: %v", extra)
	}
}

func TestWindowsCrossEnv(t *testing.T) {
	host := platform.Platform{OS: platform.Linux, Arch: platform.Amd64}
	target := platform.Platform{OS: platform.Windows, Arch: platform.Amd64}

	spec, err := specFor(platform.Windows)
	if err != nil {
		t.Fatal(err)
	}
	overrides := spec.envOverrides(host, target)
	if overrides["CC"] != "x86_64-w64-mingw32-gcc" {
		t.Errorf("CC = %q, want x86_64-w64-mingw32-gcc", overrides["CC"])
	}
}
