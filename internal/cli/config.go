package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	deperrors "github.com/matzehuels/depends/pkg/errors"
	"github.com/matzehuels/depends/pkg/integrations/nuget"
)

// defaultCacheTTL is how long registry responses stay fresh on disk.
const defaultCacheTTL = 24 * time.Hour

// Environment variables that override the config file.
const (
	envNuGetSource = "DEPENDS_NUGET_SOURCE"
	envConfigFile  = "DEPENDS_CONFIG"
)

// Config holds settings read from config.toml.
type Config struct {
	Verbosity   string   `toml:"verbosity"`
	Framework   string   `toml:"framework"`
	NuGetSource string   `toml:"nuget_source"`
	CacheTTL    duration `toml:"cache_ttl"`
	NoCache     bool     `toml:"no_cache"`
}

// duration is a time.Duration written as a Go duration string ("12h").
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// defaultConfig returns the settings used when no config file exists.
func defaultConfig() Config {
	return Config{
		Verbosity:   "Information",
		NuGetSource: nuget.DefaultSource,
		CacheTTL:    duration{defaultCacheTTL},
	}
}

// configPath returns the config file location using the XDG standard
// (~/.config/depends/config.toml). $DEPENDS_CONFIG overrides it.
func configPath() (string, error) {
	if p := os.Getenv(envConfigFile); p != "" {
		return p, nil
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads .env from the working directory, then the config file
// at path, then applies environment overrides. A missing .env or config
// file is not an error.
func loadConfig(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, deperrors.Wrap(deperrors.ErrCodeInvalidInput, err, "read config %s", path)
		}
	}

	if src := strings.TrimSpace(os.Getenv(envNuGetSource)); src != "" {
		cfg.NuGetSource = src
	}
	if cfg.NuGetSource == "" {
		cfg.NuGetSource = nuget.DefaultSource
	}
	if cfg.CacheTTL.Duration < 0 {
		return cfg, deperrors.New(deperrors.ErrCodeInvalidInput, "cache_ttl must not be negative, got %s", cfg.CacheTTL)
	}
	return cfg, nil
}

// levelNone silences the logger entirely.
const levelNone = log.FatalLevel + 1

// verbosityLevels lists the accepted --verbosity values in increasing severity.
var verbosityLevels = []string{"Trace", "Debug", "Information", "Warning", "Error", "Critical", "None"}

// parseVerbosity maps a verbosity name onto a log level. Matching is
// case-insensitive.
func parseVerbosity(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace", "debug":
		return log.DebugLevel, nil
	case "information":
		return log.InfoLevel, nil
	case "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	case "critical":
		return log.FatalLevel, nil
	case "none":
		return levelNone, nil
	}
	return log.InfoLevel, deperrors.New(deperrors.ErrCodeInvalidInput,
		"invalid verbosity %q (want one of %s)", s, strings.Join(verbosityLevels, ", "))
}

func (c Config) String() string {
	return fmt.Sprintf("verbosity=%s framework=%q source=%s ttl=%s no_cache=%t",
		c.Verbosity, c.Framework, c.NuGetSource, c.CacheTTL, c.NoCache)
}
