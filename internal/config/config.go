package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Config is the top-level configuration. Every field is optional; running
// without a config file means defaults throughout.
type Config struct {
	LogLevel        string   `toml:"log_level"`
	ExtraTLDs       []string `toml:"extra_tlds"`
	InspectPayloads *bool    `toml:"inspect_payloads"` // default: true
}

var tldPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{LogLevel: "info"}
}

// Load reads the configuration from a TOML file.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	for _, tld := range cfg.ExtraTLDs {
		if !tldPattern.MatchString(tld) {
			return nil, fmt.Errorf("invalid extra TLD %q", tld)
		}
	}
	return cfg, nil
}

// PayloadInspection reports whether recognized federation payloads
// (SAMLRequest, id_token, ...) should be decoded in the report.
func (c *Config) PayloadInspection() bool {
	return c.InspectPayloads == nil || *c.InspectPayloads
}
