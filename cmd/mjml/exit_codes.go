package main

import (
	"errors"
	"os"

	mjml "github.com/alnah/go-mjml"
	"github.com/alnah/go-mjml/internal/config"
	"github.com/alnah/go-mjml/internal/fileutil"
	"github.com/alnah/go-mjml/internal/logger"
	"github.com/alnah/go-mjml/internal/server"
)

// Exit codes for the mjml CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or document
	ExitIO      = 3 // File not found, permission denied, listen failure
)

// exitCodeFor returns the exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Usage, config and document errors (exit 2). Checked first: a document
	// error wraps no I/O error, but a config error may wrap os.ErrNotExist.
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, logger.ErrInvalidLevel) ||
		errors.Is(err, logger.ErrInvalidFormat) ||
		errors.Is(err, mjml.ErrParse) ||
		errors.Is(err, mjml.ErrRender) ||
		errors.Is(err, mjml.ErrEncoding) ||
		errors.Is(err, mjml.ErrEmptyInput) ||
		errors.Is(err, mjml.ErrInvalidOption) ||
		errors.Is(err, mjml.ErrInvalidAssetPath) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidEnv) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUnknownCommand) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, os.ErrExist) ||
		errors.Is(err, fileutil.ErrOutsideBase) ||
		errors.Is(err, server.ErrListen) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadSource) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	return ExitGeneral
}
