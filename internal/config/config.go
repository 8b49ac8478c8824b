package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"icstime/internal/report"
)

// EnvPrefix is the prefix of environment overrides, e.g. ICSTIME_TIMEZONE.
const EnvPrefix = "ICSTIME"

// Config holds the presentation and parsing settings that rarely change
// between runs. Per-run inputs (files, dates, grouping) are flags only.
type Config struct {
	// Timezone is the IANA zone used for day boundaries, month labels and
	// rendered times. Empty means the system local zone.
	Timezone string `yaml:"timezone" json:"timezone" envconfig:"TIMEZONE"`

	// Color is one of "auto", "always", "never".
	Color string `yaml:"color" json:"color" envconfig:"COLOR"`

	// TimeFormat is a Go time layout for event start/end.
	TimeFormat string `yaml:"time_format" json:"time_format" envconfig:"TIME_FORMAT"`

	// ExpandRecurrences turns RRULE events into one event per occurrence.
	ExpandRecurrences bool `yaml:"expand_recurrences" json:"expand_recurrences" envconfig:"EXPAND_RECURRENCES"`

	// MaxOccurrences caps a single recurring event when expanding.
	MaxOccurrences int `yaml:"max_occurrences" json:"max_occurrences" envconfig:"MAX_OCCURRENCES"`

	// LogLevel is DEBUG, INFO or ERROR.
	LogLevel string `yaml:"log_level" json:"log_level" envconfig:"LOG_LEVEL"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timezone:          "",
		Color:             string(report.ColorAuto),
		TimeFormat:        report.DefaultTimeLayout,
		ExpandRecurrences: false,
		MaxOccurrences:    5000,
		LogLevel:          "ERROR",
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	switch report.ColorMode(c.Color) {
	case report.ColorAuto, report.ColorAlways, report.ColorNever:
		// ok
	default:
		c.Color = string(report.ColorAuto)
	}
	if c.TimeFormat == "" {
		c.TimeFormat = report.DefaultTimeLayout
	}
	if c.MaxOccurrences <= 0 {
		c.MaxOccurrences = 5000
	}
	if c.LogLevel == "" {
		c.LogLevel = "ERROR"
	}
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - An empty path or a file that does not exist yields the defaults;
//     the tool never writes files.
//   - An existing file is unmarshalled over the defaults and normalized.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}

// ApplyEnv overlays ICSTIME_* variables on c. Variables that are unset
// leave the field alone. If dotenv is non-empty and exists, it is loaded
// first without overriding variables already set in the process.
func (c *Config) ApplyEnv(dotenv string) error {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", dotenv, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return err
	}
	c.Normalize()
	return nil
}
