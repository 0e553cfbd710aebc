// Package config holds the storagefs configuration.
package config

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	interf "github.com/SchnorcherSepp/storagefs/interfaces"
	"github.com/SchnorcherSepp/storagefs/logging"
)

// Config represents the application configuration.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Cache    CacheConfig    `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Storage),
		validation.Field(&c.Cache),
		validation.Field(&c.Log),
		validation.Field(&c.Metrics),
		validation.Field(&c.Snapshot),
	)
}

// StorageConfig configures the adapter and the default visibilities.
type StorageConfig struct {
	URL                 string `yaml:"url"`
	FileVisibility      string `yaml:"file_visibility"`
	DirectoryVisibility string `yaml:"directory_visibility"`
}

// Validate validates the storage configuration.
func (c StorageConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.URL, validation.Required),
		validation.Field(&c.FileVisibility, validation.Required, validation.In("public", "private")),
		validation.Field(&c.DirectoryVisibility, validation.Required, validation.In("public", "private")),
	)
}

// Visibilities returns the parsed file and directory visibility.
func (c StorageConfig) Visibilities() (file, dir interf.Visibility, err error) {
	if file, err = interf.ParseVisibility(c.FileVisibility); err != nil {
		return
	}
	dir, err = interf.ParseVisibility(c.DirectoryVisibility)
	return
}

// CacheConfig configures the content cache.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	SizeMB  int  `yaml:"size_mb"`
}

// Validate validates the cache configuration.
func (c CacheConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SizeMB, validation.When(c.Enabled, validation.Required, validation.Min(interf.MinCacheSizeMB))),
	)
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Validate validates the log configuration.
func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Format, validation.Required, validation.In("json", "console")),
	)
}

// Logging converts the configuration for logging.Init.
func (c LogConfig) Logging() logging.Config {
	return logging.Config{Level: c.Level, Format: c.Format, OutputPath: c.Output}
}

// MetricsConfig configures the Prometheus metrics. They are written to Textfile after every command.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Textfile string `yaml:"textfile"`
}

// Validate validates the metrics configuration.
func (c MetricsConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Textfile, validation.When(c.Enabled, validation.Required)),
	)
}

// SnapshotConfig holds the path of the snapshot file used by the CLI.
type SnapshotConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the snapshot configuration.
func (c SnapshotConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Path, validation.Required),
	)
}

// NewDefault returns a new Config with sensible default values.
func NewDefault() *Config {
	return &Config{
		Storage: StorageConfig{
			URL:                 interf.DefaultURL,
			FileVisibility:      "public",
			DirectoryVisibility: "public",
		},
		Cache: CacheConfig{
			Enabled: false,
			SizeMB:  32,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled:  false,
			Textfile: "./storagefs.prom",
		},
		Snapshot: SnapshotConfig{
			Path: "./storagefs.snapshot",
		},
	}
}
