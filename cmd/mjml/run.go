package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mjml/internal/hints"
)

// Commands.
const (
	cmdConvert = "convert"
	cmdServe   = "serve"
	cmdConfig  = "config"
	cmdVersion = "version"
	cmdHelp    = "help"
)

var commands = []string{cmdConvert, cmdServe, cmdConfig, cmdVersion, cmdHelp}

// Sentinel errors for command dispatch.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidEnv     = errors.New("invalid environment variable")
)

// hintedError carries an actionable hint printed under the error.
type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string { return e.err.Error() }
func (e *hintedError) Unwrap() error { return e.err }

// withHint attaches hint to err. An empty hint returns err unchanged.
func withHint(err error, hint string) error {
	if err == nil || hint == "" {
		return err
	}
	return &hintedError{err: err, hint: hint}
}

func unknownCommand(name string) error {
	return withHint(fmt.Errorf("%w: %s", ErrUnknownCommand, name), hints.ForUnknownCommand(name, commands))
}

// runMain dispatches to a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	environ := env.Environ()
	warnUnknownEnvVars(env.Stderr, environ)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, rest := args[1], args[2:]
	err := dispatch(ctx, cmd, rest, environ, env)
	if errors.Is(err, flag.ErrHelp) {
		_ = runHelp([]string{cmd}, env)
		return ExitSuccess
	}
	if err != nil {
		printError(env, err)
	}
	return exitCodeFor(err)
}

func dispatch(ctx context.Context, cmd string, args, environ []string, env *Environment) error {
	switch cmd {
	case cmdConvert:
		return runConvert(ctx, args, environ, env)
	case cmdServe:
		return runServe(ctx, args, environ, env)
	case cmdConfig:
		return runConfig(args, env)
	case cmdVersion:
		fmt.Fprintf(env.Stdout, "mjml %s\n", Version)
		return nil
	case cmdHelp:
		return runHelp(args, env)
	case "-h", "--help":
		printUsage(env.Stdout)
		return nil
	case "-V", "--version":
		fmt.Fprintf(env.Stdout, "mjml %s\n", Version)
		return nil
	default:
		return unknownCommand(cmd)
	}
}

// printError writes err and, when known, a hint to stderr.
func printError(env *Environment, err error) {
	fmt.Fprintf(env.Stderr, "error: %v", err)
	var he *hintedError
	if errors.As(err, &he) {
		fmt.Fprint(env.Stderr, he.hint)
	} else {
		fmt.Fprint(env.Stderr, hints.For(err))
	}
	fmt.Fprintln(env.Stderr)
}
