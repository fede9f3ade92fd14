package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Listen is the HTTP listen address, e.g. ":8080".
	Listen string `yaml:"listen"`

	// Timezone is the IANA zone used to derive "today" when a request does
	// not pin a date (e.g. "Europe/Moscow").
	Timezone string `yaml:"timezone"`

	Database Database `yaml:"database"`
	Calendar Calendar `yaml:"calendar"`
}

type Database struct {
	// Path is the SQLite database file. The parent directory is created on
	// first open.
	Path string `yaml:"path"`
}

type Calendar struct {
	// WindowBack / WindowForward bound virtual occurrence generation around
	// the reference date, in days.
	WindowBack    int `yaml:"window_back_days"`
	WindowForward int `yaml:"window_forward_days"`

	// OverdueLookback is how many past days the overdue reconciler scans
	// for unrecorded daily occurrences.
	OverdueLookback int `yaml:"overdue_lookback_days"`
}

func (c *Config) ApplyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.Timezone == "" {
		c.Timezone = "Europe/Moscow"
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/cleaning.db"
	}
	if c.Calendar.WindowBack <= 0 {
		c.Calendar.WindowBack = 2
	}
	if c.Calendar.WindowForward <= 0 {
		c.Calendar.WindowForward = 7
	}
	if c.Calendar.OverdueLookback <= 0 {
		c.Calendar.OverdueLookback = 7
	}
}

// Load reads the YAML config at path. A missing file yields defaults.
// LISTEN_ADDR overrides the listen address either way.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to defaults
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.ApplyDefaults()

	if addr := os.Getenv("LISTEN_ADDR"); addr != "" {
		cfg.Listen = addr
	}
	return &cfg, nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
