package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Source   SourceConfig   `toml:"source"`
	Database DatabaseConfig `toml:"database"`
	Sync     SyncConfig     `toml:"sync"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// SourceConfig describes the page the movie table is scraped from.
type SourceConfig struct {
	URL         string   `toml:"url"`
	UserAgent   string   `toml:"user_agent"`
	Timeout     Duration `toml:"timeout"`
	TitleColumn string   `toml:"title_column"`
	DateColumn  string   `toml:"date_column"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path          string `toml:"path"`
	BusyTimeoutMS int    `toml:"busy_timeout_ms"`
}

// SyncConfig contains settings for sync runs and their reports.
type SyncConfig struct {
	WatchInterval Duration `toml:"watch_interval"`
	PreviewRows   int      `toml:"preview_rows"`
}

// ServerConfig contains settings for the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a [time.Duration] that decodes from TOML strings such as "30s" or "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("%w: bad duration %q", ErrInvalidConfig, string(text))
	}
	d.Duration = v
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		// toml.ParseError does not unwrap, so the decoder's cause is flattened into the message.
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
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

// Validate checks the fields every command depends on.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Source.URL) == "":
		return fmt.Errorf("%w: source.url is empty", ErrInvalidConfig)
	case strings.TrimSpace(c.Source.TitleColumn) == "" || strings.TrimSpace(c.Source.DateColumn) == "":
		return fmt.Errorf("%w: source.title_column and source.date_column are required", ErrInvalidConfig)
	case strings.TrimSpace(c.Database.Path) == "":
		return fmt.Errorf("%w: database.path is empty", ErrInvalidConfig)
	case c.Source.Timeout.Duration < 0:
		return fmt.Errorf("%w: source.timeout must not be negative", ErrInvalidConfig)
	case c.Sync.PreviewRows < 0:
		return fmt.Errorf("%w: sync.preview_rows must not be negative", ErrInvalidConfig)
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
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
