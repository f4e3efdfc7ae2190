package main

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/alnah/go-mjml/internal/config"
)

const envPrefix = "MJML_"

// envConfig holds configuration from MJML_* environment variables.
type envConfig struct {
	ConfigPath string `env:"CONFIG"`     // config file name or path
	Breakpoint string `env:"BREAKPOINT"` // mobile breakpoint, e.g. 480px
	Minify     *bool  `env:"MINIFY"`     // minify converted files
	Workers    int    `env:"WORKERS"`    // parallel workers, 0 = auto
	Addr       string `env:"ADDR"`       // render service address
	LogLevel   string `env:"LOG_LEVEL"`  // debug, info, warn, error
	LogFormat  string `env:"LOG_FORMAT"` // text, json
}

// loadEnvConfig parses MJML_* variables from environ.
func loadEnvConfig(environ []string) (*envConfig, error) {
	cfg := &envConfig{}
	err := env.ParseWithOptions(cfg, env.Options{
		Environment: env.ToMap(environ),
		Prefix:      envPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnv, err)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("%w: %sWORKERS must be >= 0", ErrInvalidEnv, envPrefix)
	}
	return cfg, nil
}

// knownEnvVars lists the variables envConfig reads, derived from its tags.
func knownEnvVars() map[string]bool {
	known := make(map[string]bool)
	t := reflect.TypeOf(envConfig{})
	for i := range t.NumField() {
		if tag := t.Field(i).Tag.Get("env"); tag != "" {
			known[envPrefix+strings.Split(tag, ",")[0]] = true
		}
	}
	return known
}

// warnUnknownEnvVars warns about MJML_* variables nothing reads, which are
// usually typos like MJML_MINFY.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	known := knownEnvVars()
	var unknown []string
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) && !known[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig overrides config values with the variables that are set.
// Flags are merged afterwards, giving: flags > env > config file > defaults.
func applyEnvConfig(e *envConfig, cfg *config.Config) {
	if e.Breakpoint != "" {
		cfg.Render.Breakpoint = e.Breakpoint
	}
	if e.Minify != nil {
		cfg.Output.Minify = *e.Minify
		minify := *e.Minify
		cfg.Server.Minify = &minify
	}
	if e.Addr != "" {
		cfg.Server.Addr = e.Addr
	}
	if e.LogLevel != "" {
		cfg.Log.Level = e.LogLevel
	}
	if e.LogFormat != "" {
		cfg.Log.Format = e.LogFormat
	}
}
