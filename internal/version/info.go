// Package version exposes build-time version information for agent-packager.
package version

import (
	"encoding/json"
	"fmt"
	"runtime"

	goversion "github.com/caarlos0/go-version"
	"gopkg.in/yaml.v3"
)

// Set at build time via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info holds the version details reported by the version command.
type Info struct {
	Name      string `json:"name" yaml:"name"`
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"git_commit" yaml:"git_commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Get assembles the Info for the running binary.
func Get() Info {
	base := goversion.GetVersionInfo(
		goversion.WithAppDetails("agent-packager", "Datadog Agent build and packaging orchestrator", "https://github.com/DataDog/agent-packager"),
		func(i *goversion.Info) {
			if Version != "dev" {
				i.GitVersion = Version
			}
			if Commit != "unknown" {
				i.GitCommit = Commit
			}
			if Date != "unknown" {
				i.BuildDate = Date
			}
		},
	)

	return Info{
		Name:      "agent-packager",
		Version:   base.GitVersion,
		GitCommit: base.GitCommit,
		BuildDate: base.BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns the short one-line form.
func (i Info) String() string {
	return fmt.Sprintf("%s %s", i.Name, i.Version)
}

// Long returns the multi-line YAML form.
func (i Info) Long() (string, error) {
	data, err := yaml.Marshal(i)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// JSON returns the indented JSON form.
func (i Info) JSON() (string, error) {
	data, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
