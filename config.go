package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the API client needs for one invocation. It is
// loaded once in main and passed down explicitly; nothing reads it from
// package scope.
type Config struct {
	// Account is the workspace subdomain, used when URL is not set.
	Account string `yaml:"account"`
	// APIKey authenticates every request.
	APIKey string `yaml:"api_key"`
	// URL overrides the derived base URL entirely (useful for self-hosted
	// instances and tests).
	URL string `yaml:"url"`
	// Timeout bounds each HTTP request, as a duration string ("10s").
	Timeout string `yaml:"timeout"`
}

func DefaultConfig() Config {
	return Config{
		Timeout: "10s",
	}
}

// RequestTimeout parses the configured timeout, falling back to the default
// when unset or malformed.
func (c Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// BaseURL returns the service root for this account.
func (c Config) BaseURL() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("https://%s.timetally.app", c.Account)
}

// configPath resolves the config file location, honoring TIMETALLY_CONFIG.
func configPath() string {
	if p := os.Getenv("TIMETALLY_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "timetally", "config.yaml")
}

// LoadConfig reads the YAML config file and applies environment overrides.
// A missing file is not an error; defaults plus environment apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TIMETALLY_ACCOUNT"); v != "" {
		c.Account = v
	}
	if v := os.Getenv("TIMETALLY_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("TIMETALLY_URL"); v != "" {
		c.URL = v
	}
}

const defaultConfigTemplate = `# timetally configuration
# Workspace subdomain; requests go to https://<account>.timetally.app
account: ""
# API key, also settable via TIMETALLY_API_KEY
api_key: ""
# Full base URL override; leave empty to derive from account
url: ""
# Per-request timeout
timeout: 10s
`

// WriteDefaultConfig creates the config file with commented defaults. An
// existing file is left untouched.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
