package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Loader  LoaderConfig  `toml:"loader"`
	Update  UpdateConfig  `toml:"update"`
	Logging LogConfig     `toml:"logging"`
	Metrics MetricsConfig `toml:"metrics"`
}

// StorageConfig holds the local package roots.
type StorageConfig struct {
	BundledRoot    string `envconfig:"ASSET_ROOT" default:"assets" toml:"bundled_root"`
	PersistentRoot string `envconfig:"ASSET_PERSISTENT_ROOT" default:"data" toml:"persistent_root"`
}

// LoaderConfig holds package loader configuration.
type LoaderConfig struct {
	Transitive bool `envconfig:"LOADER_TRANSITIVE" default:"false" toml:"transitive"`
	PoolSize   int  `envconfig:"LOADER_POOL_SIZE" default:"64" toml:"pool_size"`
}

// UpdateConfig holds the update check configuration.
type UpdateConfig struct {
	Enabled     bool          `envconfig:"UPDATE_ENABLED" default:"true" toml:"enabled"`
	BaseURL     string        `envconfig:"UPDATE_BASE_URL" default:"http://localhost:8080" toml:"base_url"`
	Timeout     time.Duration `envconfig:"UPDATE_TIMEOUT" default:"10s" toml:"timeout"`
	Retries     int           `envconfig:"UPDATE_RETRIES" default:"2" toml:"retries"`
	RateLimit   float64       `envconfig:"UPDATE_RATE_LIMIT" default:"0" toml:"rate_limit"`
	// Concurrency bounds parallel package downloads. The default of 1 keeps
	// one network fetch in flight per run.
	Concurrency int           `envconfig:"UPDATE_CONCURRENCY" default:"1" toml:"concurrency"`
	Exclude     []string      `envconfig:"UPDATE_EXCLUDE" toml:"exclude"`
	ScanLocal   bool          `envconfig:"UPDATE_SCAN_LOCAL" default:"false" toml:"scan_local"`
	// ManifestFile is the content manifest name on the server; .yaml selects YAML
	ManifestFile string `envconfig:"UPDATE_MANIFEST_FILE" default:"content.json" toml:"manifest_file"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" toml:"development"`
}

// MetricsConfig holds the optional admin endpoint serving status and
// Prometheus metrics. An empty Addr disables it.
type MetricsConfig struct {
	Addr        string   `envconfig:"METRICS_ADDR" toml:"addr"`
	CORSOrigins []string `envconfig:"METRICS_CORS_ORIGINS" toml:"cors_origins"`
	RateLimit   float64  `envconfig:"METRICS_RATE_LIMIT" default:"50" toml:"rate_limit"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// LoadFile loads the environment and then applies the TOML file at path.
// Keys present in the file win over the environment.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Storage.BundledRoot == "" {
		return fmt.Errorf("storage.bundled_root is required")
	}
	if c.Update.Enabled && c.Update.BaseURL == "" {
		return fmt.Errorf("update.base_url is required when update checking is enabled")
	}
	if c.Loader.PoolSize < 0 {
		return fmt.Errorf("loader.pool_size cannot be negative")
	}
	if c.Update.Concurrency < 1 {
		return fmt.Errorf("update.concurrency must be at least 1")
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			BundledRoot:    "assets",
			PersistentRoot: "data",
		},
		Loader: LoaderConfig{
			Transitive: false,
			PoolSize:   64,
		},
		Update: UpdateConfig{
			Enabled:      true,
			BaseURL:      "http://localhost:8080",
			Timeout:      10 * time.Second,
			Retries:      2,
			RateLimit:    0,
			Concurrency:  1,
			ManifestFile: "content.json",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Metrics: MetricsConfig{
			RateLimit: 50,
		},
	}
}
