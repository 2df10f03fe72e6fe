// Package config loads the optional config.toml for agent-packager.
package config

// FileConfig represents the raw config.toml file contents. All fields are
// pointers to distinguish "not set" from "set to zero/false".
type FileConfig struct {
	// Global settings
	Home    *string `toml:"home"`
	NoColor *bool   `toml:"no_color"`
	Verbose *bool   `toml:"verbose"`

	// Build settings
	DatadogVersion *string `toml:"datadog_version"`
	Output         *string `toml:"output"`
	BuildTimeout   *string `toml:"build_timeout"` // Go duration string, e.g. "90m"

	// GitHub API settings
	GitHubToken *string `toml:"github_token"`
}

// IsEmpty returns true if no configuration values are set.
func (f *FileConfig) IsEmpty() bool {
	return f.Home == nil &&
		f.NoColor == nil &&
		f.Verbose == nil &&
		f.DatadogVersion == nil &&
		f.Output == nil &&
		f.BuildTimeout == nil &&
		f.GitHubToken == nil
}
