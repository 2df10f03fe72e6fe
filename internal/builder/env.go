package builder

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/DataDog/agent-packager/internal/platform"
)

// composeEnv applies overrides to a base environment snapshot, replacing any
// variable already present and appending the rest. The base slice is never
// modified, so the parent process environment stays untouched.
func composeEnv(base []string, overrides map[string]string) []string {
	env := make([]string, 0, len(base)+len(overrides))
	applied := make(map[string]bool, len(overrides))

	for _, kv := range base {
		name, _, ok := strings.Cut(kv, "=")
		if ok {
			if value, found := overrides[name]; found {
				env = append(env, name+"="+value)
				applied[name] = true
				continue
			}
		}
		env = append(env, kv)
	}

	// Remaining overrides, in stable order.
	rest := make([]string, 0, len(overrides))
	for name := range overrides {
		if !applied[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		env = append(env, name+"="+overrides[name])
	}
	return env
}

// baseOverrides assembles the cross-compilation environment shared by every
// target: build architecture, cgo, an isolated GOPATH under the packager
// home, and a PATH extended with that GOPATH's bin directory. The map is
// rebuilt fresh per command execution and never cached across platforms.
func baseOverrides(target platform.Platform, homeDir string) map[string]string {
	gopath := filepath.Join(homeDir, "go")
	overrides := map[string]string{
		"GOOS":        target.OS,
		"GOARCH":      target.GoArch(),
		"CGO_ENABLED": "1",
		"GOPATH":      gopath,
	}
	if path := os.Getenv("PATH"); path != "" {
		overrides["PATH"] = filepath.Join(gopath, "bin") + string(os.PathListSeparator) + path
	}
	return overrides
}

// mergeOverrides layers per-OS overrides on top of the base set.
func mergeOverrides(base, extra map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
