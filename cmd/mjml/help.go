package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mjml <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert MJML files to HTML")
	fmt.Fprintln(w, "  serve      Run the HTTP render service")
	fmt.Fprintln(w, "  config     Manage the configuration file")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mjml help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mjml convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert MJML files to HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    .mjml file, directory (recursive), or - for stdin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory (- for stdout)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -m, --minify              Minify the HTML")
	fmt.Fprintln(w, "      --breakpoint <px>     Mobile breakpoint (default 480px)")
	fmt.Fprintln(w, "      --no-comments         Drop source comments")
	fmt.Fprintln(w, "      --css <path>          Stylesheet added to every document")
	fmt.Fprintln(w, "      --base-url <url>      Base for relative image and link URLs")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory overriding the embedded styles")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w)
	printEnvUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mjml serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the HTTP render service until interrupted.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Routes:")
	fmt.Fprintln(w, "  GET  /health              Liveness check")
	fmt.Fprintln(w, "  POST /render              {\"mjml\": \"...\", \"minify\": true}")
	fmt.Fprintln(w, "  GET  /metrics             Prometheus metrics")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default :8007)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --log-level <s>       debug, info, warn, error")
	fmt.Fprintln(w, "      --log-format <s>      text, json")
	fmt.Fprintln(w, "      --breakpoint <px>     Mobile breakpoint (default 480px)")
	fmt.Fprintln(w, "      --no-comments         Drop source comments")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory overriding the embedded styles")
	fmt.Fprintln(w)
	printEnvUsage(w)
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mjml config init [path] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write a configuration file with the default values.")
	fmt.Fprintln(w, "Without a path, the file is created in the user config directory")
	fmt.Fprintln(w, "and picked up automatically.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -f, --force               Overwrite an existing file")
}

// printEnvUsage lists the environment variables.
func printEnvUsage(w io.Writer) {
	fmt.Fprintln(w, "Environment (overridden by flags, override the config file):")
	fmt.Fprintln(w, "  MJML_CONFIG, MJML_BREAKPOINT, MJML_MINIFY, MJML_WORKERS,")
	fmt.Fprintln(w, "  MJML_ADDR, MJML_LOG_LEVEL, MJML_LOG_FORMAT")
	fmt.Fprintln(w, "  A .env file in the working directory is loaded first.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case cmdConvert:
		printConvertUsage(env.Stdout)
	case cmdServe:
		printServeUsage(env.Stdout)
	case cmdConfig:
		printConfigUsage(env.Stdout)
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: mjml version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case cmdHelp:
		fmt.Fprintln(env.Stdout, "Usage: mjml help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		return unknownCommand(args[0])
	}
	return nil
}
