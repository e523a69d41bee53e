// Package config holds the mount configuration consumed by the filesystem
// core. Values come from the environment (optionally a .env file) and are
// overridden by command-line flags in main.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names understood by FromEnv.
const (
	EnvSource        = "EXPOSEFS_SOURCE"
	EnvMountPoint    = "EXPOSEFS_MOUNT"
	EnvOneFileSystem = "EXPOSEFS_ONE_FILE_SYSTEM"
	EnvBannedTypes   = "EXPOSEFS_BANNED_TYPES"
	EnvLogLevel      = "LOG_LEVEL"
)

// ErrMissingPath indicates a required path setting is absent.
var ErrMissingPath = errors.New("source and mount point are required")

// Config is the parsed mount configuration. It is immutable once the
// process is past startup.
type Config struct {
	// Source is the real directory tree being exposed.
	Source string

	// MountPoint is where the virtual view is mounted.
	MountPoint string

	// OneFileSystem hides entries that live on a different device than
	// Source.
	OneFileSystem bool

	// BannedTypes is a string of type-tag characters whose entries are
	// hidden. Empty means the built-in default set.
	BannedTypes string

	// LogLevel is the log level name (ERROR..TRACE).
	LogLevel string
}

// FromEnv builds a Config from the process environment. A .env file in the
// working directory is loaded first if present; its absence is not an
// error.
func FromEnv() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Source:      os.Getenv(EnvSource),
		MountPoint:  os.Getenv(EnvMountPoint),
		BannedTypes: os.Getenv(EnvBannedTypes),
		LogLevel:    os.Getenv(EnvLogLevel),
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "INFO"
	}
	switch os.Getenv(EnvOneFileSystem) {
	case "1", "true", "yes":
		cfg.OneFileSystem = true
	}
	return cfg
}

// Validate checks that the configuration is complete enough to attempt a
// mount. Policy validation (such as the directory-tag ban) happens when the
// filesystem core is constructed.
func (c *Config) Validate() error {
	if c.Source == "" || c.MountPoint == "" {
		return ErrMissingPath
	}
	info, err := os.Stat(c.Source)
	if err != nil {
		return fmt.Errorf("source %s not accessible: %w", c.Source, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %s is not a directory", c.Source)
	}
	return nil
}
