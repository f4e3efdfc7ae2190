package main

import (
	"errors"
	"fmt"

	mjml "github.com/alnah/go-mjml"
	"github.com/alnah/go-mjml/internal/config"
	"github.com/alnah/go-mjml/internal/hints"
)

// defaultConfigName is looked up when neither --config nor MJML_CONFIG is set.
// Its absence is not an error.
const defaultConfigName = "mjml"

// loadConfig loads the config named by the flag, then MJML_CONFIG, then the
// default name, and applies environment overrides on top.
func loadConfig(flagConfig string, e *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = e.ConfigPath
	}

	var cfg *config.Config
	var err error
	if name == "" {
		cfg, err = config.LoadConfig(defaultConfigName)
		if errors.Is(err, config.ErrConfigNotFound) {
			cfg, err = config.DefaultConfig(), nil
		}
	} else {
		cfg, err = config.LoadConfig(name)
	}
	if err != nil {
		err = fmt.Errorf("loading config: %w", err)
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, withHint(err, hints.ForConfigNotFound([]string{config.UserConfigPath(name)}))
		}
		return nil, err
	}

	applyEnvConfig(e, cfg)
	return cfg, nil
}

// mergeRenderFlags merges converter flags into config. CLI values override
// config values.
func mergeRenderFlags(f *renderFlags, cfg *config.Config) {
	if f.breakpoint != "" {
		cfg.Render.Breakpoint = f.breakpoint
	}
	if f.noComments {
		keep := false
		cfg.Render.KeepComments = &keep
	}
	if f.assetPath != "" {
		cfg.Render.AssetPath = f.assetPath
	}
}

// converterOptions translates render settings into converter options.
func converterOptions(r config.RenderConfig, minify bool) []mjml.Option {
	opts := []mjml.Option{
		mjml.WithKeepComments(r.KeepsComments()),
		mjml.WithMinify(minify),
		mjml.WithMarkdownMessages(r.MarkdownMessages),
	}
	if r.Breakpoint != "" {
		opts = append(opts, mjml.WithBreakpoint(r.Breakpoint))
	}
	if r.Language != "" {
		opts = append(opts, mjml.WithLanguage(r.Language))
	}
	if r.Direction != "" {
		opts = append(opts, mjml.WithDirection(r.Direction))
	}
	if r.AssetPath != "" {
		opts = append(opts, mjml.WithAssetPath(r.AssetPath))
	}
	for _, f := range r.Fonts {
		opts = append(opts, mjml.WithFont(f.Name, f.Href))
	}
	return opts
}
