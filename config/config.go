package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spiffcs/collabsweep/internal/constants"
	"github.com/spiffcs/collabsweep/internal/duration"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Organization    string         `yaml:"organization,omitempty" json:"organization,omitempty"`
	Repository      string         `yaml:"repository,omitempty" json:"repository,omitempty"`
	MinAge          string         `yaml:"min_age,omitempty" json:"min_age,omitempty"`
	Cooldown        string         `yaml:"cooldown,omitempty" json:"cooldown,omitempty"`
	FailureCooldown string         `yaml:"failure_cooldown,omitempty" json:"failure_cooldown,omitempty"`
	PageSize        int            `yaml:"page_size,omitempty" json:"page_size,omitempty"`
	DefaultFormat   string         `yaml:"default_format,omitempty" json:"default_format,omitempty"`
	GraphQLURL      string         `yaml:"graphql_url,omitempty" json:"graphql_url,omitempty"`
	APIURL          string         `yaml:"api_url,omitempty" json:"api_url,omitempty"`
	Metrics         *MetricsConfig `yaml:"metrics,omitempty" json:"metrics,omitempty"`
}

// MetricsConfig selects where run metrics are exported
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url,omitempty" json:"pushgateway_url,omitempty"`
	Textfile       string `yaml:"textfile,omitempty" json:"textfile,omitempty"`
}

// Timings holds the parsed duration settings
type Timings struct {
	MinAge          time.Duration
	Cooldown        time.Duration
	FailureCooldown time.Duration
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".collabsweep"
	}
	return filepath.Join(configDir, "collabsweep")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".collabsweep.yaml"
}

// DefaultConfig returns a fully populated config with all default values.
func DefaultConfig() *Config {
	return &Config{
		Organization:    constants.DefaultOrganization,
		Repository:      constants.DefaultRepository,
		MinAge:          duration.Format(constants.MinIssueAge),
		Cooldown:        duration.Format(constants.Cooldown),
		FailureCooldown: duration.Format(constants.FailureCooldown),
		PageSize:        constants.DefaultPageSize,
		DefaultFormat:   "table",
	}
}

// Load loads the configuration from disk.
// It first loads the global config from XDG config directory, then merges
// any local .collabsweep.yaml config on top (local values take precedence).
func Load() (*Config, error) {
	cfg := DefaultConfig()

	global, err := readFile(ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load global config file: %w", err)
	}
	if global != nil {
		cfg = mergeConfig(cfg, global)
	}

	local, err := readFile(LocalConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load local config file: %w", err)
	}
	if local != nil {
		cfg = mergeConfig(cfg, local)
	}

	return cfg, nil
}

// LoadFrom loads defaults overlaid with the single file at path. Unlike Load
// the file must exist.
func LoadFrom(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	return mergeConfig(DefaultConfig(), cfg), nil
}

// readFile parses the file at path, returning nil when it does not exist.
func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// mergeConfig merges over on top of base.
// Set values in over take precedence; unset values preserve base values.
func mergeConfig(base, over *Config) *Config {
	result := *base

	if over.Organization != "" {
		result.Organization = over.Organization
	}
	if over.Repository != "" {
		result.Repository = over.Repository
	}
	if over.MinAge != "" {
		result.MinAge = over.MinAge
	}
	if over.Cooldown != "" {
		result.Cooldown = over.Cooldown
	}
	if over.FailureCooldown != "" {
		result.FailureCooldown = over.FailureCooldown
	}
	if over.PageSize != 0 {
		result.PageSize = over.PageSize
	}
	if over.DefaultFormat != "" {
		result.DefaultFormat = over.DefaultFormat
	}
	if over.GraphQLURL != "" {
		result.GraphQLURL = over.GraphQLURL
	}
	if over.APIURL != "" {
		result.APIURL = over.APIURL
	}
	result.Metrics = mergeMetrics(base.Metrics, over.Metrics)

	return &result
}

func mergeMetrics(base, over *MetricsConfig) *MetricsConfig {
	if base == nil && over == nil {
		return nil
	}
	result := &MetricsConfig{}
	if base != nil {
		*result = *base
	}
	if over != nil {
		if over.PushgatewayURL != "" {
			result.PushgatewayURL = over.PushgatewayURL
		}
		if over.Textfile != "" {
			result.Textfile = over.Textfile
		}
	}
	return result
}

// Timings parses the duration settings.
func (c *Config) Timings() (Timings, error) {
	var t Timings
	var err error
	if t.MinAge, err = duration.Parse(c.MinAge); err != nil {
		return t, fmt.Errorf("invalid min_age: %w", err)
	}
	if t.Cooldown, err = duration.Parse(c.Cooldown); err != nil {
		return t, fmt.Errorf("invalid cooldown: %w", err)
	}
	if t.FailureCooldown, err = duration.Parse(c.FailureCooldown); err != nil {
		return t, fmt.Errorf("invalid failure_cooldown: %w", err)
	}
	return t, nil
}

// Validate checks that the config describes a runnable sweep.
func (c *Config) Validate() error {
	if c.Organization == "" {
		return fmt.Errorf("organization must be set")
	}
	if c.Repository == "" {
		return fmt.Errorf("repository must be set")
	}
	if c.PageSize <= 0 || c.PageSize > constants.MaxPageSize {
		return fmt.Errorf("page_size must be between 1 and %d, got %d", constants.MaxPageSize, c.PageSize)
	}
	timings, err := c.Timings()
	if err != nil {
		return err
	}
	// A zero grace period would make every open, assigned issue eligible.
	if timings.MinAge <= 0 {
		return fmt.Errorf("min_age must be greater than zero, got %s", c.MinAge)
	}
	if timings.Cooldown < 0 || timings.FailureCooldown < 0 {
		return fmt.Errorf("cooldown and failure_cooldown must not be negative")
	}
	switch c.DefaultFormat {
	case "", "table", "json", "none":
	default:
		return fmt.Errorf("invalid default_format: %s (must be table, json or none)", c.DefaultFormat)
	}
	return nil
}

// MetricsTargets returns the configured metrics export targets.
func (c *Config) MetricsTargets() (pushgatewayURL, textfile string) {
	if c.Metrics == nil {
		return "", ""
	}
	return c.Metrics.PushgatewayURL, c.Metrics.Textfile
}

// GitHubToken returns the token passed on the command line, falling back to
// the GITHUB_TOKEN environment variable.
func GitHubToken(arg string) string {
	if arg != "" {
		return arg
	}
	return os.Getenv("GITHUB_TOKEN")
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	// Get absolute path for local config
	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# collabsweep configuration file
# See: collabsweep config show  (for the merged values)

# Organization whose members are demoted and repository holding the
# tracking issues
organization: ministryofjustice
repository: no-verified-domain-email-repo

# How long a tracking issue stays open before its assignee is demoted
# (units: s, m, h, d, w, mo)
min_age: 2w

# Pause after each write call and after a failed remediation
# cooldown: 5s
# failure_cooldown: 30s

# GitHub Enterprise endpoints (optional)
# api_url: https://ghe.example.com/api/v3/
# graphql_url: https://ghe.example.com/api/graphql

# Export run metrics (optional)
# metrics:
#   pushgateway_url: http://pushgateway:9091
#   textfile: /var/lib/node_exporter/collabsweep.prom
`
}

// SaveTo writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
