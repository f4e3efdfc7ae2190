package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-mjml/internal/config"
	"github.com/alnah/go-mjml/internal/fileutil"
)

// runConfig handles the config command.
func runConfig(args []string, env *Environment) error {
	if len(args) == 0 {
		printConfigUsage(env.Stdout)
		return nil
	}
	switch args[0] {
	case "init":
		return runConfigInit(args[1:], env)
	default:
		return fmt.Errorf("%w: unknown config subcommand %q", ErrUsage, args[0])
	}
}

// runConfigInit writes the default configuration to the given path, or to
// the user config directory under the name loaded automatically.
func runConfigInit(args []string, env *Environment) error {
	flags, positional, err := parseConfigInitFlags(args)
	if err != nil {
		return err
	}

	path := config.UserConfigPath(defaultConfigName)
	if len(positional) > 0 {
		path = positional[0]
	}
	if path == "" {
		return fmt.Errorf("%w: no user config directory, pass a path", ErrUsage)
	}
	if fileutil.FileExists(path) && !flags.force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", os.ErrExist, path)
	}

	data, err := config.DefaultConfig().Marshal()
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := fileutil.WriteFileAtomic(filepath.Clean(path), data, 0o600); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	fmt.Fprintf(env.Stdout, "Created %s\n", path)
	return nil
}
