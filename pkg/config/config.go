// Package config loads and saves the launcher settings.
//
// Settings live under a "settings:" block in a YAML file. Loading goes through viper so
// that defaults, the file and LIBLAUNCHER_* environment variables are layered in that
// order; the LAUNCHER_PATH variable also overrides the root directory. Saving writes the
// file back with yaml.v3.
package config

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/pablof036/liblauncher/internal/logger"
	"github.com/pablof036/liblauncher/pkg/download"
	pkgerrors "github.com/pablof036/liblauncher/pkg/errors"
	"github.com/pablof036/liblauncher/pkg/fsutil"
	"github.com/pablof036/liblauncher/pkg/jdk"
	"github.com/pablof036/liblauncher/pkg/layout"
	"github.com/pablof036/liblauncher/pkg/manifest"
	"github.com/pablof036/liblauncher/pkg/platform"
)

// Config represents the application configuration.
type Config struct {
	Settings Settings `yaml:"settings" mapstructure:"settings"`
}

// Settings represents the launcher settings.
type Settings struct {
	// RootDir is the directory all resources are stored under.
	RootDir string `yaml:"root_dir" mapstructure:"root_dir"`

	// Network settings
	HTTPTimeout     time.Duration `yaml:"http_timeout" mapstructure:"http_timeout"`
	MaxConcurrent   int           `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	ContinueOnError bool          `yaml:"continue_on_error" mapstructure:"continue_on_error"`

	// Output settings
	LogLevel  string `yaml:"log_level" mapstructure:"log_level"`
	LogFormat string `yaml:"log_format" mapstructure:"log_format"`

	// Platform is the target platform used for library rules, natives and JDK selection.
	Platform platform.Platform `yaml:"platform" mapstructure:"platform"`

	// Remote endpoints
	JDKAPIURL    string `yaml:"jdk_api_url" mapstructure:"jdk_api_url"`
	AssetBaseURL string `yaml:"asset_base_url" mapstructure:"asset_base_url"`
}

// Default configuration values.
const (
	// DefaultHTTPTimeout bounds the wait for response headers.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultMaxConcurrent is the number of transfers in flight at once.
	DefaultMaxConcurrent = download.DefaultConcurrency

	DefaultLogLevel  = "info"
	DefaultLogFormat = string(logger.FormatConsole)

	// EnvPrefix prefixes environment overrides, e.g. LIBLAUNCHER_SETTINGS_MAX_CONCURRENT.
	EnvPrefix = "LIBLAUNCHER"

	// RootDirEnv overrides settings.root_dir.
	RootDirEnv = "LAUNCHER_PATH"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	rootDir, err := fsutil.GetDataDir()
	if err != nil {
		rootDir = filepath.Join(".", fsutil.AppName)
	}

	return &Config{
		Settings: Settings{
			RootDir:       rootDir,
			HTTPTimeout:   DefaultHTTPTimeout,
			MaxConcurrent: DefaultMaxConcurrent,
			LogLevel:      DefaultLogLevel,
			LogFormat:     DefaultLogFormat,
			Platform:      platform.CurrentPlatform(),
			JDKAPIURL:     jdk.DefaultAPIURL,
			AssetBaseURL:  manifest.DefaultAssetBaseURL,
		},
	}
}

// newViper returns a viper instance carrying the defaults and environment bindings.
func newViper() *viper.Viper {
	defaults := DefaultConfig().Settings

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("settings.root_dir", defaults.RootDir)
	v.SetDefault("settings.http_timeout", defaults.HTTPTimeout)
	v.SetDefault("settings.max_concurrent", defaults.MaxConcurrent)
	v.SetDefault("settings.continue_on_error", defaults.ContinueOnError)
	v.SetDefault("settings.log_level", defaults.LogLevel)
	v.SetDefault("settings.log_format", defaults.LogFormat)
	v.SetDefault("settings.platform.os", defaults.Platform.OS)
	v.SetDefault("settings.platform.arch", defaults.Platform.Arch)
	v.SetDefault("settings.jdk_api_url", defaults.JDKAPIURL)
	v.SetDefault("settings.asset_base_url", defaults.AssetBaseURL)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("settings.root_dir", EnvPrefix+"_SETTINGS_ROOT_DIR", RootDirEnv)

	return v
}

// LoadConfig loads configuration from a file.
// A missing file yields the defaults with environment overrides applied.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, pkgerrors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pkgerrors.ErrInvalidConfigPath, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, pkgerrors.Wrapf(err, "failed to open config file: %s", path)
		}
		logger.Debug("Config file not found, using defaults", logger.Fields{"path": absPath})
		data = nil
	}

	return LoadConfigFromReader(bytes.NewReader(data))
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	v := newViper()
	if err := v.ReadConfig(reader); err != nil {
		return nil, fmt.Errorf("%w: %w", pkgerrors.ErrConfigParse, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", pkgerrors.ErrConfigParse, err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", pkgerrors.ErrConfigValidation, err)
	}

	return &cfg, nil
}

// normalize maps platform aliases to Go names and lower-cases enumerations.
func (c *Config) normalize() {
	c.Settings.Platform.OS = platform.NormalizeOS(c.Settings.Platform.OS)
	c.Settings.Platform.Arch = platform.NormalizeArch(c.Settings.Platform.Arch)
	c.Settings.LogLevel = strings.ToLower(strings.TrimSpace(c.Settings.LogLevel))
	c.Settings.LogFormat = strings.ToLower(strings.TrimSpace(c.Settings.LogFormat))
}

// SaveConfig saves configuration to a file, replacing it atomically.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return pkgerrors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %w", pkgerrors.ErrInvalidConfigPath, err)
	}

	if err := fsutil.EnsureFileDir(absPath); err != nil {
		return fmt.Errorf("%w: %w", pkgerrors.ErrConfigDirectory, err)
	}

	tempPath := absPath + ".tmp"
	file, err := fsutil.CreateFilePerm(tempPath, fsutil.FileModeDefault)
	if err != nil {
		return fmt.Errorf("%w: %w", pkgerrors.ErrConfigFileCreate, err)
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("%w: %w", pkgerrors.ErrConfigEncode, err)
	}

	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("%w: %w", pkgerrors.ErrConfigFileRename, err)
	}

	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pkgerrors.ErrConfigMarshal, err)
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return pkgerrors.ErrConfigValidation
	}
	if err := validatePlatform(c.Settings.Platform); err != nil {
		return err
	}
	return validateSettings(c.Settings)
}

func validatePlatform(p platform.Platform) error {
	if p.OS != "" && !slices.Contains(platform.ValidOS(), p.OS) {
		return pkgerrors.ErrInvalidOSValueWithDetails(p.OS, platform.ValidOS())
	}
	if p.Arch != "" && !slices.Contains(platform.ValidArch(), p.Arch) {
		return pkgerrors.ErrInvalidArchValueWithDetails(p.Arch, platform.ValidArch())
	}
	return nil
}

func validateSettings(s Settings) error {
	if strings.TrimSpace(s.RootDir) == "" {
		return pkgerrors.ErrRootDirEmpty
	}
	if s.HTTPTimeout < 0 {
		return pkgerrors.ErrHTTPTimeoutNegative
	}
	if s.MaxConcurrent < 1 {
		return pkgerrors.ErrMaxConcurrentInvalid
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return pkgerrors.ErrInvalidLogLevelWithDetails(s.LogLevel)
	}
	validFormats := map[string]bool{string(logger.FormatConsole): true, string(logger.FormatJSON): true}
	if !validFormats[strings.ToLower(s.LogFormat)] {
		return pkgerrors.ErrInvalidLogFormatWithDetails(s.LogFormat)
	}
	if err := validateURL("jdk_api_url", s.JDKAPIURL); err != nil {
		return err
	}
	return validateURL("asset_base_url", s.AssetBaseURL)
}

// validateURL accepts an empty value, which selects the built-in endpoint.
func validateURL(key, value string) error {
	if value == "" {
		return nil
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return pkgerrors.ErrInvalidURLWithDetails(key, value)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	path, err := fsutil.GetConfigPath()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return path, nil
}

// Layout returns the resource layout rooted at the configured root directory.
func (c *Config) Layout() layout.Layout {
	return layout.New(c.Settings.RootDir)
}

// DownloadOptions returns the batch options derived from the network settings.
func (c *Config) DownloadOptions() download.Options {
	return download.Options{
		Concurrency:     c.Settings.MaxConcurrent,
		ContinueOnError: c.Settings.ContinueOnError,
	}
}
