// Package config loads the YAML configuration shared by the CLI and the
// render service.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mjml/internal/css"
	"github.com/alnah/go-mjml/internal/fileutil"
	"github.com/alnah/go-mjml/internal/logger"
	"github.com/alnah/go-mjml/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxFontNameLength = 100
	MaxURLLength      = 2048 // Browser limit
	MaxPathLength     = 4096
	MaxLanguageLength = 35 // BCP 47 upper bound in practice
	MaxAddrLength     = 255
)

// Defaults applied by DefaultConfig.
const (
	DefaultAddr         = ":8007"
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultMaxBodyBytes = 1 << 20
)

// dirName is the folder searched under the user config directory.
const dirName = "go-mjml"

// Config holds all configuration.
type Config struct {
	Render RenderConfig `yaml:"render"`
	Output OutputConfig `yaml:"output"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// RenderConfig defines render defaults.
type RenderConfig struct {
	Breakpoint       string `yaml:"breakpoint"`   // px; empty = 480px
	KeepComments     *bool  `yaml:"keepComments"` // nil = keep
	Language         string `yaml:"language"`
	Direction        string `yaml:"direction"`
	Fonts            []Font `yaml:"fonts"`
	AssetPath        string `yaml:"assetPath"` // empty = embedded skeleton styles
	MarkdownMessages bool   `yaml:"markdownMessages"`
}

// Font registers a web font.
type Font struct {
	Name string `yaml:"name"`
	Href string `yaml:"href"`
}

// OutputConfig defines CLI output options.
type OutputConfig struct {
	Minify     bool   `yaml:"minify"`
	DefaultDir string `yaml:"defaultDir"` // empty = next to the source
	CSS        string `yaml:"css"`        // path to a stylesheet added to every document
	BaseURL    string `yaml:"baseURL"`    // resolves relative image and link URLs
}

// ServerConfig defines the render service.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	MaxBodyBytes int64         `yaml:"maxBodyBytes"`
	Minify       *bool         `yaml:"minify"` // nil = minify
}

// LogConfig defines logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// KeepsComments reports whether source comments are rendered.
func (r RenderConfig) KeepsComments() bool {
	return r.KeepComments == nil || *r.KeepComments
}

// Minifies reports whether the service minifies responses by default.
func (s ServerConfig) Minifies() bool {
	return s.Minify == nil || *s.Minify
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         DefaultAddr,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Validate checks values and field lengths. Called by LoadConfig, and
// available to callers that build a Config by hand.
func (c *Config) Validate() error {
	if c.Render.Breakpoint != "" {
		bp, err := css.ParseLength(c.Render.Breakpoint)
		if err != nil || bp.IsPercent() {
			return fmt.Errorf("%w: render.breakpoint %q must be a pixel length", ErrInvalidValue, c.Render.Breakpoint)
		}
	}
	if err := validateFieldLength("render.language", c.Render.Language, MaxLanguageLength); err != nil {
		return err
	}
	switch c.Render.Direction {
	case "", "ltr", "rtl", "auto":
	default:
		return fmt.Errorf("%w: render.direction %q (must be ltr, rtl or auto)", ErrInvalidValue, c.Render.Direction)
	}
	for i, f := range c.Render.Fonts {
		if f.Name == "" || f.Href == "" {
			return fmt.Errorf("%w: render.fonts[%d] needs a name and an href", ErrInvalidValue, i)
		}
		if err := validateFieldLength(fmt.Sprintf("render.fonts[%d].name", i), f.Name, MaxFontNameLength); err != nil {
			return err
		}
		if err := validateFieldLength(fmt.Sprintf("render.fonts[%d].href", i), f.Href, MaxURLLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength("render.assetPath", c.Render.AssetPath, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.css", c.Output.CSS, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.baseURL", c.Output.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if c.Output.BaseURL != "" && !fileutil.IsURL(c.Output.BaseURL) {
		return fmt.Errorf("%w: output.baseURL %q must be an http or https URL", ErrInvalidValue, c.Output.BaseURL)
	}

	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("%w: server timeouts cannot be negative", ErrInvalidValue)
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("%w: server.maxBodyBytes cannot be negative", ErrInvalidValue)
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := logger.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("log.format: %w", err)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys missing from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yamlutil.Marshal(c)
}

// UserConfigPath returns where a config named name lives under the user
// config directory, or "" when that directory is unknown.
func UserConfigPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, dirName, name+".yaml")
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return fileutil.IsFilePath(s) || strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml")
}

// resolveConfigPath searches for a config file by name.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/go-mjml/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, dirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

