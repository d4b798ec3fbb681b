package main

import (
	"errors"
	"os"

	flag "github.com/spf13/pflag"

	cssinline "github.com/alnah/go-cssinline"
	"github.com/alnah/go-cssinline/internal/config"
)

// Exit codes for the cssinline CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful build
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or settings
	ExitIO      = 3 // File not found, permission denied, write failure
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, flag.ErrHelp) ||
		errors.Is(err, ErrUnexpectedArgs) ||
		errors.Is(err, ErrInvalidJobs) ||
		errors.Is(err, ErrInvalidDelay) ||
		errors.Is(err, ErrDuplicateOutput) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigTooLarge) ||
		errors.Is(err, config.ErrMissingField) ||
		errors.Is(err, config.ErrAmbiguousConfig) ||
		errors.Is(err, config.ErrNoSettings) ||
		errors.Is(err, cssinline.ErrMissingSetting) ||
		errors.Is(err, cssinline.ErrOutputIsInput) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, cssinline.ErrReadInput) ||
		errors.Is(err, cssinline.ErrCreateOutputDir) ||
		errors.Is(err, cssinline.ErrRemoveOutput) ||
		errors.Is(err, cssinline.ErrWriteOutput) {
		return ExitIO
	}

	return ExitGeneral
}
