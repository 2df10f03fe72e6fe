package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DataDog/agent-packager/internal/output"
	"github.com/pelletier/go-toml/v2"
)

// Loader is responsible for finding, parsing, and merging config files.
type Loader struct {
	homeDir    string
	configPath string // Explicit --config path
	logger     *output.Logger
}

// NewLoader creates a new Loader.
func NewLoader(homeDir, configPath string, logger *output.Logger) *Loader {
	return &Loader{
		homeDir:    homeDir,
		configPath: configPath,
		logger:     logger,
	}
}

// Load loads and parses config files, merging them in priority order.
// Priority: explicit path > ./config.toml > ~/.agent-packager/config.toml
// All found config files are merged, with higher priority values overwriting
// lower ones. Returns the merged FileConfig and the primary (highest
// priority) config file path.
func (l *Loader) Load() (*FileConfig, string, error) {
	// Collect config files in order of increasing priority.
	var configFiles []string

	homePath := filepath.Join(l.homeDir, "config.toml")
	if _, err := os.Stat(homePath); err == nil {
		configFiles = append(configFiles, homePath)
	}

	if _, err := os.Stat("./config.toml"); err == nil {
		if absPath, _ := filepath.Abs("./config.toml"); absPath != homePath {
			configFiles = append(configFiles, "./config.toml")
		}
	}

	if l.configPath != "" {
		if _, err := os.Stat(l.configPath); err != nil {
			return nil, "", fmt.Errorf("config file not found: %s", l.configPath)
		}
		absPath, _ := filepath.Abs(l.configPath)
		isDuplicate := false
		for _, cf := range configFiles {
			if abs, _ := filepath.Abs(cf); abs == absPath {
				isDuplicate = true
				break
			}
		}
		if !isDuplicate {
			configFiles = append(configFiles, l.configPath)
		}
	}

	if len(configFiles) == 0 {
		return &FileConfig{}, "", nil
	}

	// Later files override earlier ones.
	var merged FileConfig
	var primaryFile string
	for _, configFile := range configFiles {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}

		var cfg FileConfig
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}

		mergeFileConfig(&merged, &cfg)
		primaryFile = configFile

		l.warnUnknownKeys(data)

		if l.logger != nil {
			l.logger.Debug("Loaded config file: %s", configFile)
		}
	}

	if err := validateFileConfig(&merged); err != nil {
		return nil, "", fmt.Errorf("config validation failed: %w", err)
	}

	return &merged, primaryFile, nil
}

// mergeFileConfig merges src into dst. Non-nil values in src overwrite dst.
func mergeFileConfig(dst, src *FileConfig) {
	if src.Home != nil {
		dst.Home = src.Home
	}
	if src.NoColor != nil {
		dst.NoColor = src.NoColor
	}
	if src.Verbose != nil {
		dst.Verbose = src.Verbose
	}
	if src.DatadogVersion != nil {
		dst.DatadogVersion = src.DatadogVersion
	}
	if src.Output != nil {
		dst.Output = src.Output
	}
	if src.BuildTimeout != nil {
		dst.BuildTimeout = src.BuildTimeout
	}
	if src.GitHubToken != nil {
		dst.GitHubToken = src.GitHubToken
	}
}

// validateFileConfig checks that set values are well-formed.
func validateFileConfig(cfg *FileConfig) error {
	if cfg.BuildTimeout != nil {
		if _, err := time.ParseDuration(*cfg.BuildTimeout); err != nil {
			return fmt.Errorf("invalid build_timeout %q: %w", *cfg.BuildTimeout, err)
		}
	}
	return nil
}

// warnUnknownKeys checks for unknown keys in the config file and logs warnings.
func (l *Loader) warnUnknownKeys(data []byte) {
	if l.logger == nil {
		return
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return // Main parsing will surface the error.
	}

	knownKeys := map[string]bool{
		"home":            true,
		"no_color":        true,
		"verbose":         true,
		"datadog_version": true,
		"output":          true,
		"build_timeout":   true,
		"github_token":    true,
	}

	for key := range raw {
		if !knownKeys[key] {
			l.logger.Warn("Unknown config key: %s", key)
		}
	}
}
