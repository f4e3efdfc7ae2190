package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	mjml "github.com/alnah/go-mjml"
	"github.com/alnah/go-mjml/internal/fileutil"
)

// filePermissions is rw-r--r--: rendered HTML is meant to be readable.
const filePermissions = 0o644

// Sentinel errors for batch operations.
var (
	ErrNoInput     = errors.New("no input specified")
	ErrReadCSS     = errors.New("failed to read CSS file")
	ErrReadSource  = errors.New("failed to read MJML file")
	ErrWriteOutput = errors.New("failed to write HTML file")
)

// conversionParams groups parameters shared by every file in a batch.
type conversionParams struct {
	css     string
	baseURL string
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
	Bytes      int
	Minified   bool
}

// convertBatch processes files concurrently using the converter pool.
// Results keep the order of files.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))
	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire()
			if err != nil {
				for idx := range jobs {
					results[idx] = ConversionResult{InputPath: files[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{InputPath: files[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	done := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return done(fmt.Errorf("%w: %w", ErrReadSource, err))
	}

	res, err := conv.Convert(ctx, mjml.Input{
		MJML:    string(content),
		CSS:     params.css,
		BaseURL: params.baseURL,
	})
	if err != nil {
		return done(err)
	}

	if err := fileutil.WriteFileAtomic(f.OutputPath, res.HTML, filePermissions); err != nil {
		return done(fmt.Errorf("%w: %w", ErrWriteOutput, err))
	}

	result.Bytes = len(res.HTML)
	result.Minified = res.Minified
	return done(nil)
}

// convertStream converts one document from r to w.
func convertStream(ctx context.Context, conv CLIConverter, r io.Reader, w io.Writer, params *conversionParams) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: stdin: %w", ErrReadSource, err)
	}
	res, err := conv.Convert(ctx, mjml.Input{
		MJML:    string(content),
		CSS:     params.css,
		BaseURL: params.baseURL,
	})
	if err != nil {
		return err
	}
	if _, err := w.Write(res.HTML); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
	FirstErr  error
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			if summary.FirstErr == nil {
				summary.FirstErr = r.Err
			}
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs conversion results and returns the summary.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) ResultSummary {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d bytes, minified=%t, %v)\n",
				r.InputPath, r.OutputPath, r.Bytes, r.Minified, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary
}
