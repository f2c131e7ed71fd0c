package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Files    FilesConfig    `toml:"files"`
	Covers   CoversConfig   `toml:"covers"`
	Database DatabaseConfig `toml:"database"`
}

// FilesConfig names the spreadsheet and CSV files each pipeline stage reads and writes.
type FilesConfig struct {
	PrimarySource   string `toml:"primary_source"`
	SecondarySource string `toml:"secondary_source"`
	PrimaryMerged   string `toml:"primary_merged"`
	SecondaryMerged string `toml:"secondary_merged"`
	Reconciled      string `toml:"reconciled"`
	OutputDir       string `toml:"output_dir"`
	OutputPrefix    string `toml:"output_prefix"`
}

// CoversConfig contains settings for cover image lookups.
type CoversConfig struct {
	Origin         string  `toml:"origin"`
	UserAgent      string  `toml:"user_agent"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	Workers        int     `toml:"workers"`
	RateLimit      float64 `toml:"rate_limit"`
}

// Timeout returns the per-request timeout.
func (c CoversConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DatabaseConfig contains run history database settings. An empty Path disables history.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate checks values that would make a stage misbehave.
func (c *Config) Validate() error {
	if c.Covers.Workers <= 0 {
		return fmt.Errorf("%w: covers.workers must be positive, got %d", ErrInvalidConfig, c.Covers.Workers)
	}
	if c.Covers.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: covers.timeout_seconds must be positive, got %d", ErrInvalidConfig, c.Covers.TimeoutSeconds)
	}
	if c.Covers.RateLimit < 0 {
		return fmt.Errorf("%w: covers.rate_limit must not be negative", ErrInvalidConfig)
	}
	if c.Covers.Origin == "" {
		return fmt.Errorf("%w: covers.origin is required", ErrInvalidConfig)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
