// Package config provides configuration management for checkpoint using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/thoreinstein/checkpoint/internal/exclude"
	"github.com/thoreinstein/checkpoint/internal/paths"
	"github.com/thoreinstein/checkpoint/pkg/fileutil"
)

// Configuration keys, shared by the file, CHECKPOINT_* environment
// variables and bound command-line flags.
const (
	KeyVersion     = "version"
	KeyProjectPath = "project_path"
	KeyBackupPath  = "backup_path"
	KeyExcludes    = "excludes"
	KeyRetention   = "retention"
	KeySchedule    = "schedule"
)

// Default values.
const (
	DefaultRetention = 5
	DefaultSchedule  = "@every 30m"
)

// Config represents the top-level configuration structure.
type Config struct {
	Version     int      `mapstructure:"version" yaml:"version" json:"version" toml:"version"`
	ProjectPath string   `mapstructure:"project_path" yaml:"project_path,omitempty" json:"project_path,omitempty" toml:"project_path,omitempty"`
	BackupPath  string   `mapstructure:"backup_path" yaml:"backup_path,omitempty" json:"backup_path,omitempty" toml:"backup_path,omitempty"`
	Excludes    []string `mapstructure:"excludes" yaml:"excludes" json:"excludes" toml:"excludes"`
	Retention   int      `mapstructure:"retention" yaml:"retention" json:"retention" toml:"retention"`
	Schedule    string   `mapstructure:"schedule" yaml:"schedule" json:"schedule" toml:"schedule"`
}

// Default returns the configuration used when no file is present. Paths are
// left empty; Resolve fills them in.
func Default() *Config {
	return &Config{
		Version:   1,
		Excludes:  exclude.DefaultPatterns(),
		Retention: DefaultRetention,
		Schedule:  DefaultSchedule,
	}
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("checkpoint")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix("CHECKPOINT")
	viper.AutomaticEnv()

	d := Default()
	viper.SetDefault(KeyVersion, d.Version)
	viper.SetDefault(KeyProjectPath, "")
	viper.SetDefault(KeyBackupPath, "")
	viper.SetDefault(KeyExcludes, d.Excludes)
	viper.SetDefault(KeyRetention, d.Retention)
	viper.SetDefault(KeySchedule, d.Schedule)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file is found.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		// an explicit path surfaces as a plain fs error when missing
		notFound = notFound || os.IsNotExist(err)
		switch {
		case notFound && path != "":
			return nil, fmt.Errorf("config file not found at %s: %w", path, err)
		case !notFound:
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, fmt.Errorf("validating config: %w", errs[0])
	}

	return &cfg, nil
}

// Fallback returns the defaults with path overrides from flags or the
// environment applied. Callers use it to keep going after Load fails.
func Fallback() *Config {
	cfg := Default()
	cfg.ProjectPath = viper.GetString(KeyProjectPath)
	cfg.BackupPath = viper.GetString(KeyBackupPath)
	return cfg
}

// Used returns the config file Viper read, or "" when none was found.
func Used() string {
	return viper.ConfigFileUsed()
}

// Resolve makes ProjectPath and BackupPath absolute. An empty ProjectPath
// becomes cwd and an empty BackupPath becomes the "Backups" directory next
// to the project.
func (c *Config) Resolve(cwd string) error {
	if c.ProjectPath == "" {
		c.ProjectPath = cwd
	}
	project, err := paths.Abs(c.ProjectPath)
	if err != nil {
		return fmt.Errorf("resolving project_path: %w", err)
	}
	c.ProjectPath = project

	if c.BackupPath == "" {
		c.BackupPath = paths.DefaultBackupDir(project)
	}
	backup, err := paths.Abs(c.BackupPath)
	if err != nil {
		return fmt.Errorf("resolving backup_path: %w", err)
	}
	c.BackupPath = backup
	return nil
}

// Save writes cfg to path as YAML, creating the parent directory.
func Save(cfg *Config, path string) error {
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := fileutil.AtomicWriteYAML(path, cfg, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
