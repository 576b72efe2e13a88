// Package config provides configuration management for msve-edl.
// Configuration is loaded from MSVE_EDL_* environment variables with
// sensible defaults; command line flags may override individual values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/heimdex/msve-edl/internal/export"
	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. MSVE_EDL_DB_PATH.
	EnvPrefix = "MSVE_EDL"

	// Environment variable names
	EnvDBPath    = EnvPrefix + "_DB_PATH"
	EnvFrameRate = EnvPrefix + "_FRAME_RATE"
	EnvLogLevel  = EnvPrefix + "_LOG_LEVEL"
	EnvPort      = EnvPrefix + "_PORT"
	EnvOutputDir = EnvPrefix + "_OUTPUT_DIR"
	EnvFormat    = EnvPrefix + "_FORMAT"
	EnvAuthToken = EnvPrefix + "_AUTH_TOKEN"
	EnvCacheTTL  = EnvPrefix + "_CACHE_TTL"

	// PhotosPackage is the Photos app package directory under LOCALAPPDATA.
	PhotosPackage = "Microsoft.Windows.Photos_8wekyb3d8bbwe"
	// DBFilename is the Photos media database file.
	DBFilename = "MediaDb.v1.sqlite"
)

// Config defines the application configuration interface
type Config interface {
	DBPath() string
	FrameRate() int
	LogLevel() string
	Port() int
	OutputDir() string
	Format() string
	AuthToken() string
	CacheTTL() time.Duration
}

type envSpec struct {
	DBPath    string        `envconfig:"DB_PATH"`
	FrameRate int           `envconfig:"FRAME_RATE" default:"30"`
	LogLevel  string        `envconfig:"LOG_LEVEL" default:"info"`
	Port      int           `envconfig:"PORT" default:"8788"`
	OutputDir string        `envconfig:"OUTPUT_DIR"`
	Format    string        `envconfig:"FORMAT" default:"edl"`
	AuthToken string        `envconfig:"AUTH_TOKEN"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"30s"`
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	spec envSpec
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	var spec envSpec
	if err := envconfig.Process(EnvPrefix, &spec); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if spec.FrameRate <= 0 {
		return nil, fmt.Errorf("invalid %s: frame rate must be positive", EnvFrameRate)
	}
	if spec.Port < 1 || spec.Port > 65535 {
		return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
	}
	if spec.CacheTTL < 0 {
		return nil, fmt.Errorf("invalid %s: cache ttl must not be negative", EnvCacheTTL)
	}

	format, err := export.ParseFormat(spec.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvFormat, err)
	}
	spec.Format = format

	if spec.DBPath == "" {
		spec.DBPath = defaultDBPath()
	}

	return &EnvConfig{spec: spec}, nil
}

// DBPath returns the Photos media database path, empty if unknown
func (c *EnvConfig) DBPath() string {
	return c.spec.DBPath
}

// FrameRate returns the EDL frame rate in frames per second
func (c *EnvConfig) FrameRate() int {
	return c.spec.FrameRate
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.spec.LogLevel
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.spec.Port
}

// OutputDir returns the default output directory, falling back to the
// working directory
func (c *EnvConfig) OutputDir() string {
	if c.spec.OutputDir != "" {
		return c.spec.OutputDir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func (c *EnvConfig) Format() string {
	return c.spec.Format
}

func (c *EnvConfig) AuthToken() string {
	return c.spec.AuthToken
}

func (c *EnvConfig) CacheTTL() time.Duration {
	return c.spec.CacheTTL
}

// defaultDBPath returns the Photos database location on Windows, or empty
// when LOCALAPPDATA is not set.
func defaultDBPath() string {
	local := os.Getenv("LOCALAPPDATA")
	if local == "" {
		return ""
	}
	return filepath.Join(local, "Packages", PhotosPackage, "LocalState", DBFilename)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
