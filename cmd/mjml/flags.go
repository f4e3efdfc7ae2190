package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds flags that tune the converter.
type renderFlags struct {
	breakpoint string
	noComments bool
	assetPath  string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	render  renderFlags
	output  string
	workers int
	minify  bool
	css     string
	baseURL string

	minifySet bool // --minify given explicitly, possibly as --minify=false
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common    commonFlags
	render    renderFlags
	addr      string
	logLevel  string
	logFormat string
}

// configInitFlags holds flags for the config init command.
type configInitFlags struct {
	force bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addRenderFlags adds converter flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.breakpoint, "breakpoint", "", "mobile breakpoint in px (default 480px)")
	fs.BoolVar(&f.noComments, "no-comments", false, "drop source comments from the output")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding the embedded styles")
}

// newFlagSet returns a FlagSet that reports errors instead of exiting and
// prints nothing on its own; usage is printed by runHelp.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)
	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newFlagSet("convert")

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVarP(&f.minify, "minify", "m", false, "minify the HTML")
	fs.StringVar(&f.css, "css", "", "stylesheet added to every document")
	fs.StringVar(&f.baseURL, "base-url", "", "resolve relative image and link URLs against this URL")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	f.minifySet = fs.Changed("minify")
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string) (*serveFlags, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve")

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default :8007)")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text, json")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	if err := fs.Parse(args); err != nil {
		return nil, usageError(err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, fs.Arg(0))
	}
	return f, nil
}

// parseConfigInitFlags parses config init flags and returns positional args.
func parseConfigInitFlags(args []string) (*configInitFlags, []string, error) {
	f := &configInitFlags{}
	fs := newFlagSet("config init")
	fs.BoolVarP(&f.force, "force", "f", false, "overwrite an existing file")

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

func usageError(err error) error {
	if err == flag.ErrHelp {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
