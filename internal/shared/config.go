package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// EnvPrefix prefixes every environment variable that overrides a config value.
const EnvPrefix = "TUNESX_"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Archive  ArchiveConfig  `toml:"archive"`
	Harvest  HarvestConfig  `toml:"harvest"`
	Filter   FilterConfig   `toml:"filter"`
	Database DatabaseConfig `toml:"database"`
}

// ArchiveConfig contains settings for the remote tune archive API.
type ArchiveConfig struct {
	BaseURL           string   `toml:"base_url"`
	UserAgent         string   `toml:"user_agent"`
	Timeout           Duration `toml:"timeout"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
}

// HarvestConfig controls the fetch loop.
type HarvestConfig struct {
	TuneType        string   `toml:"tune_type"`
	Target          int      `toml:"target"`
	PerPage         int      `toml:"per_page"`
	Delay           Duration `toml:"delay"`
	CheckpointEvery int      `toml:"checkpoint_every"`
	Output          string   `toml:"output"`
}

// FilterConfig controls alias deduplication.
type FilterConfig struct {
	Threshold float64 `toml:"threshold"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Enabled      bool   `toml:"enabled"`
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// Duration is a [time.Duration] that decodes from strings such as "1s" or "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q: %v", ErrInvalidConfig, text, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys absent from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
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

// ResolveConfig loads the config at path when it exists, falling back to defaults otherwise,
// then applies environment overrides.
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return config, config.Validate()
}

// LoadEnvFiles loads KEY=VALUE pairs from the given dotenv files into the process environment.
//
// Missing files are skipped and variables already set are never overwritten.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values from TUNESX_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	integer := func(key string, dst *int) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q", ErrInvalidConfig, EnvPrefix, key, v)
		}
		*dst = n
		return nil
	}
	duration := func(key string, dst *Duration) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		return dst.UnmarshalText([]byte(strings.TrimSpace(v)))
	}

	str("BASE_URL", &c.Archive.BaseURL)
	str("USER_AGENT", &c.Archive.UserAgent)
	str("TUNE_TYPE", &c.Harvest.TuneType)
	str("OUTPUT", &c.Harvest.Output)
	str("DB_PATH", &c.Database.Path)

	if err := integer("TARGET", &c.Harvest.Target); err != nil {
		return err
	}
	if err := integer("PER_PAGE", &c.Harvest.PerPage); err != nil {
		return err
	}
	if err := integer("CHECKPOINT_EVERY", &c.Harvest.CheckpointEvery); err != nil {
		return err
	}
	if err := duration("DELAY", &c.Harvest.Delay); err != nil {
		return err
	}
	if err := duration("TIMEOUT", &c.Archive.Timeout); err != nil {
		return err
	}

	if v, ok := lookup(EnvPrefix + "THRESHOLD"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%w: %sTHRESHOLD=%q", ErrInvalidConfig, EnvPrefix, v)
		}
		c.Filter.Threshold = f
	}
	if v, ok := lookup(EnvPrefix + "DB_ENABLED"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %sDB_ENABLED=%q", ErrInvalidConfig, EnvPrefix, v)
		}
		c.Database.Enabled = b
	}
	return nil
}

// Validate reports the first configuration value that cannot drive a harvest.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Archive.BaseURL) == "":
		return fmt.Errorf("%w: archive.base_url is required", ErrInvalidConfig)
	case c.Archive.Timeout.Duration < 0:
		return fmt.Errorf("%w: archive.timeout must not be negative", ErrInvalidConfig)
	case c.Archive.RequestsPerSecond < 0:
		return fmt.Errorf("%w: archive.requests_per_second must not be negative", ErrInvalidConfig)
	case c.Harvest.Target < 0:
		return fmt.Errorf("%w: harvest.target must not be negative", ErrInvalidConfig)
	case c.Harvest.PerPage <= 0:
		return fmt.Errorf("%w: harvest.per_page must be positive", ErrInvalidConfig)
	case c.Harvest.Delay.Duration < 0:
		return fmt.Errorf("%w: harvest.delay must not be negative", ErrInvalidConfig)
	case c.Harvest.CheckpointEvery <= 0:
		return fmt.Errorf("%w: harvest.checkpoint_every must be positive", ErrInvalidConfig)
	case c.Harvest.Output == "":
		return fmt.Errorf("%w: harvest.output is required", ErrInvalidConfig)
	case c.Filter.Threshold <= 0 || c.Filter.Threshold > 1:
		return fmt.Errorf("%w: filter.threshold must be in (0, 1]", ErrInvalidConfig)
	case c.Database.Enabled && c.Database.Path == "":
		return fmt.Errorf("%w: database.path is required when the database is enabled", ErrInvalidConfig)
	}
	return nil
}
