package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind selects the scan strategy for a rule.
type Kind string

const (
	KindPaths     Kind = "paths"
	KindDownloads Kind = "downloads"
	KindLogs      Kind = "logs"
)

// Rule describes one category of cleanable filesystem content. Rules are
// read-only once loaded; scans take their own copy.
type Rule struct {
	ID               string   `yaml:"id"`
	Label            string   `yaml:"label"`
	Description      string   `yaml:"description,omitempty"`
	Kind             Kind     `yaml:"kind"`
	Paths            []string `yaml:"paths"`
	RequiresSudo     bool     `yaml:"requires_sudo,omitempty"`
	EnabledByDefault bool     `yaml:"enabled_by_default,omitempty"`
	Distros          []string `yaml:"distros,omitempty"`
	ExcludeGlobs     []string `yaml:"exclude_globs,omitempty"`
	// OlderThanDays only affects logs-kind rules; zero means no age filter.
	OlderThanDays int `yaml:"older_than_days,omitempty"`
}

// Config is the top-level rule configuration.
type Config struct {
	Version int    `yaml:"version"`
	Rules   []Rule `yaml:"rules"`
}

// Load loads configuration from the given path. An empty path falls back to
// the default config location, and to the built-in defaults when no file
// exists there.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(defaultPath); os.IsNotExist(err) {
			return GetDefault(), nil
		}
		configPath = defaultPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Save writes the configuration to a file, creating parent directories.
func Save(config *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for fatal problems. Malformed exclusion
// globs are deliberately not checked here; the engine reports them as
// recoverable scan errors.
func (c *Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version %d", c.Version)
	}

	seen := make(map[string]bool, len(c.Rules))
	for i := range c.Rules {
		rule := &c.Rules[i]
		if rule.ID == "" {
			return fmt.Errorf("rule %d has no id", i)
		}
		if seen[rule.ID] {
			return fmt.Errorf("duplicate rule id %q", rule.ID)
		}
		seen[rule.ID] = true
		if rule.Label == "" {
			return fmt.Errorf("rule %q has no label", rule.ID)
		}
		switch rule.Kind {
		case KindPaths, KindDownloads, KindLogs:
		default:
			return fmt.Errorf("rule %q has unknown kind %q", rule.ID, rule.Kind)
		}
		if rule.OlderThanDays < 0 {
			return fmt.Errorf("rule %q: older_than_days must be >= 0", rule.ID)
		}
	}

	return nil
}

// AvailableRules returns the rules applicable to a system identified by the
// given distro identifiers. A rule without a distros list applies everywhere.
func (c *Config) AvailableRules(distroIDs []string) []Rule {
	rules := make([]Rule, 0, len(c.Rules))
	for _, rule := range c.Rules {
		if rule.MatchesDistro(distroIDs) {
			rules = append(rules, rule)
		}
	}
	return rules
}

// MatchesDistro reports whether the rule applies to any of the given distro
// identifiers. Comparison is case-insensitive.
func (r *Rule) MatchesDistro(distroIDs []string) bool {
	if len(r.Distros) == 0 {
		return true
	}
	for _, want := range r.Distros {
		want = strings.ToLower(want)
		for _, id := range distroIDs {
			if id == want {
				return true
			}
		}
	}
	return false
}

// ExpandedPaths expands the rule's configured path patterns into absolute
// roots. A leading "~" resolves against the supplied home directory and $VAR
// references resolve against the environment. Home is passed in explicitly
// so the engine never consults ambient state.
func (r *Rule) ExpandedPaths(home string) []string {
	paths := make([]string, 0, len(r.Paths))
	for _, raw := range r.Paths {
		paths = append(paths, ExpandPath(raw, home))
	}
	return paths
}

// ExpandPath expands a leading tilde and environment references in a single
// configured path.
func ExpandPath(path, home string) string {
	if path == "~" {
		path = home
	} else if strings.HasPrefix(path, "~/") {
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "burrow", "config.yaml"), nil
}
