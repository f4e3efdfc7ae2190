package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	mjml "github.com/alnah/go-mjml"
	"github.com/alnah/go-mjml/internal/config"
	"github.com/alnah/go-mjml/internal/hints"
)

// stdio names standard input as the input and standard output as the output.
const stdio = "-"

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, args, environ []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: convert takes one input, got %d", ErrUsage, len(positional))
	}

	envCfg, err := loadEnvConfig(environ)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	mergeConvertFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	cssContent, err := readCSS(cfg.Output.CSS)
	if err != nil {
		return err
	}
	params := &conversionParams{css: cssContent, baseURL: cfg.Output.BaseURL}

	opts := converterOptions(cfg.Render, cfg.Output.Minify)
	// Fail on bad options before touching any file.
	conv, err := mjml.NewConverter(opts...)
	if err != nil {
		return err
	}

	if len(positional) == 0 {
		return withHint(ErrNoInput, hints.ForNoInput())
	}
	input := positional[0]
	outputDir := resolveOutputDir(flags.output, cfg)

	if input == stdio {
		return convertStdin(ctx, conv, outputDir, params, env)
	}

	files, err := discoverFiles(input, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no .mjml files found in %s", ErrNoInput, input)
	}

	pool := NewConverterPool(resolvePoolSize(flags.workers, envCfg.Workers), func() (CLIConverter, error) {
		conv, err := mjml.NewConverter(opts...)
		if err != nil {
			return nil, err
		}
		return conv, nil
	})
	defer pool.Close()

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Converting %d file(s) with %d worker(s)\n", len(files), pool.Size())
	}

	start := time.Now()
	results := convertBatch(ctx, pool, files, params)
	summary := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Done in %v\n", time.Since(start).Round(time.Millisecond))
	}

	if summary.Failed == 0 {
		return nil
	}
	err = summary.FirstErr
	if len(results) > 1 {
		err = fmt.Errorf("%d of %d conversion(s) failed: %w", summary.Failed, len(results), summary.FirstErr)
	}
	if errors.Is(err, ErrWriteOutput) {
		return withHint(err, hints.ForOutputDirectory())
	}
	return err
}

// convertStdin converts standard input to standard output or to outputDir
// when it names a file.
func convertStdin(ctx context.Context, conv CLIConverter, output string, params *conversionParams, env *Environment) error {
	if output == "" || output == stdio {
		return convertStream(ctx, conv, env.Stdin, env.Stdout, params)
	}
	return withFile(output, func(f *os.File) error {
		return convertStream(ctx, conv, env.Stdin, f, params)
	})
}

// withFile creates path, runs fn on it and closes it.
func withFile(path string, fn func(*os.File) error) (err error) {
	f, err := os.Create(path) // #nosec G304 -- user-provided output path
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrWriteOutput, cerr)
		}
	}()
	return fn(f)
}

// mergeConvertFlags merges CLI flags into config. CLI values override config values.
func mergeConvertFlags(flags *convertFlags, cfg *config.Config) {
	mergeRenderFlags(&flags.render, cfg)
	if flags.minifySet {
		cfg.Output.Minify = flags.minify
	}
	if flags.css != "" {
		cfg.Output.CSS = flags.css
	}
	if flags.baseURL != "" {
		cfg.Output.BaseURL = flags.baseURL
	}
}

// resolveOutputDir returns the output location: flag, then config, then
// next to each source.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// readCSS reads the stylesheet added to every document, if any.
func readCSS(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided stylesheet
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadCSS, err)
	}
	return string(data), nil
}
