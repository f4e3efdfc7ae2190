package main

import (
	"context"
	"errors"
	"log/slog"
	"syscall"

	mjml "github.com/alnah/go-mjml"
	"github.com/alnah/go-mjml/internal/config"
	"github.com/alnah/go-mjml/internal/hints"
	"github.com/alnah/go-mjml/internal/logger"
	"github.com/alnah/go-mjml/internal/server"
)

// runServe runs the render service until ctx is cancelled.
func runServe(ctx context.Context, args, environ []string, env *Environment) error {
	srv, cfg, err := buildServer(args, environ, env)
	if err != nil {
		return err
	}
	if err := srv.Run(ctx); err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return withHint(err, hints.ForAddressInUse(cfg.Server.Addr))
		}
		return err
	}
	return nil
}

// buildServer resolves configuration and wires the service.
func buildServer(args, environ []string, env *Environment) (*server.Server, *config.Config, error) {
	flags, err := parseServeFlags(args)
	if err != nil {
		return nil, nil, err
	}
	envCfg, err := loadEnvConfig(environ)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return nil, nil, err
	}
	mergeServeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := newLogger(cfg.Log, env)
	if err != nil {
		return nil, nil, err
	}

	plain, err := mjml.NewConverter(converterOptions(cfg.Render, false)...)
	if err != nil {
		return nil, nil, err
	}
	minified, err := mjml.NewConverter(converterOptions(cfg.Render, true)...)
	if err != nil {
		return nil, nil, err
	}

	srv := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Minify:       cfg.Server.Minifies(),
	}, plain, minified, server.WithLogger(log))
	return srv, cfg, nil
}

// mergeServeFlags merges CLI flags into config. CLI values override config values.
func mergeServeFlags(flags *serveFlags, cfg *config.Config) {
	mergeRenderFlags(&flags.render, cfg)
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}
	if flags.common.verbose {
		cfg.Log.Level = "debug"
	}
	if flags.common.quiet {
		cfg.Log.Level = "error"
	}
}

// newLogger builds the service logger. Records carry the request ID of the
// request being served.
func newLogger(c config.LogConfig, env *Environment) (*slog.Logger, error) {
	level, err := logger.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	format, err := logger.ParseFormat(c.Format)
	if err != nil {
		return nil, err
	}
	return logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithOutput(env.Stderr),
		logger.WithAttr(slog.String("service", "mjml"), slog.String("version", Version)),
		logger.WithContextExtractors(server.LogExtractor()),
	), nil
}
