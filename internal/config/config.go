// Package config loads and validates the snapdir configuration file.
package config

import (
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/thoreinstein/snapdir/internal/backup"
	"github.com/thoreinstein/snapdir/internal/errors"
	"github.com/thoreinstein/snapdir/internal/exclude"
	"github.com/thoreinstein/snapdir/internal/logging"
	"github.com/thoreinstein/snapdir/internal/paths"
)

// CurrentVersion is the only configuration format version understood.
const CurrentVersion = 1

// LocalFileName is looked up in the working directory before the
// configuration directory.
const LocalFileName = "snapdir.yaml"

// Config represents the top-level configuration structure.
type Config struct {
	Version   int            `mapstructure:"version" yaml:"version"`
	Sources   []SourceConfig `mapstructure:"sources" yaml:"sources"`
	Locations []string       `mapstructure:"locations" yaml:"locations"`
	Exclude   ExcludeConfig  `mapstructure:"exclude" yaml:"exclude"`
	Log       LogConfig      `mapstructure:"log" yaml:"log"`
	Notes     string         `mapstructure:"notes" yaml:"notes,omitempty"`
	Workers   int            `mapstructure:"workers" yaml:"workers"`
}

// SourceConfig is one directory tree to back up.
type SourceConfig struct {
	Path  string `mapstructure:"path" yaml:"path"`
	Alias string `mapstructure:"alias" yaml:"alias"`
}

// ExcludeConfig lists the exclusion patterns. A bare pattern is a file name
// suffix; "prefix:" and "glob:" select the other matcher kinds.
type ExcludeConfig struct {
	Patterns   []string `mapstructure:"patterns" yaml:"patterns"`
	IgnoreCase bool     `mapstructure:"ignore_case" yaml:"ignore_case"`
}

// LogConfig configures the run log file.
type LogConfig struct {
	File       string `mapstructure:"file" yaml:"file"`
	Level      string `mapstructure:"level" yaml:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`

	// Fresh starts every run with an empty log file; the previous one is
	// kept as a rotated backup.
	Fresh bool `mapstructure:"fresh" yaml:"fresh"`
}

// Init resets Viper and registers defaults, search paths and environment
// binding. Call it once at startup before Load.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(paths.ConfigDir())

	// SNAPDIR_WORKERS, SNAPDIR_LOG_LEVEL, ...
	viper.SetEnvPrefix("SNAPDIR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	d := Default()
	viper.SetDefault("version", d.Version)
	viper.SetDefault("workers", d.Workers)
	viper.SetDefault("notes", d.Notes)
	viper.SetDefault("exclude.patterns", d.Exclude.Patterns)
	viper.SetDefault("exclude.ignore_case", d.Exclude.IgnoreCase)
	viper.SetDefault("log.file", d.Log.File)
	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	viper.SetDefault("log.max_backups", d.Log.MaxBackups)
	viper.SetDefault("log.fresh", d.Log.Fresh)
}

// Default returns a configuration with default values and no sources or
// locations.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Exclude: ExcludeConfig{Patterns: []string{}},
		Log: LogConfig{
			File:       paths.DefaultLogFile(),
			Level:      "ERROR",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Workers: backup.DefaultWorkers,
	}
}

// Load reads the configuration file, applies environment overrides and
// validates the result.
//
// If path is empty, ./snapdir.yaml is used when present, then config.yaml in
// the configuration directory; with no file at all the defaults are
// returned, which fail validation because they name no sources.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if errs := Validate(cfg); len(errs) > 0 {
		return nil, errors.Mark(errors.Wrap(errs[0], "validating config"), errors.ErrInvalidConfig)
	}
	return cfg, nil
}

// Read is Load without validation.
func Read(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		if _, err := os.Stat(LocalFileName); err == nil {
			path = LocalFileName
		}
	}
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		switch {
		case missing && explicit:
			return nil, errors.Mark(errors.Wrapf(err, "config file not found at %s", path), errors.ErrNotFound)
		case missing:
			// Implicit lookup found nothing; continue with defaults.
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	cfg.expand()

	return &cfg, nil
}

// FileUsed returns the configuration file read by the last Load, if any.
func FileUsed() string {
	return viper.ConfigFileUsed()
}

// expand resolves a leading ~ in every path.
func (c *Config) expand() {
	for i := range c.Sources {
		c.Sources[i].Path = paths.ExpandHome(c.Sources[i].Path)
	}
	for i := range c.Locations {
		c.Locations[i] = paths.ExpandHome(c.Locations[i])
	}
	c.Log.File = paths.ExpandHome(c.Log.File)
}

// BackupSources returns the configured sources in order.
func (c *Config) BackupSources() []backup.Source {
	out := make([]backup.Source, len(c.Sources))
	for i, s := range c.Sources {
		out[i] = backup.Source{Path: s.Path, Alias: s.Alias}
	}
	return out
}

// Filter builds the exclusion filter.
func (c *Config) Filter() (*exclude.Filter, error) {
	var opts []exclude.Option
	if c.Exclude.IgnoreCase {
		opts = append(opts, exclude.WithIgnoreCase())
	}
	return exclude.Parse(c.Exclude.Patterns, opts...)
}

// LogLevel returns the configured file log level.
func (c *Config) LogLevel() (slog.Level, error) {
	return logging.ParseLevel(c.Log.Level)
}

// LogFile returns the rotating log file settings.
func (c *Config) LogFile() logging.FileConfig {
	return logging.FileConfig{
		Path:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		Fresh:      c.Log.Fresh,
	}
}
