package cli

import (
	clierrors "github.com/ariel-frischer/blockcraft/internal/errors"
)

// Exit codes for the blockcraft CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitValidationFailed indicates options or configuration failed validation
	ExitValidationFailed = 1

	// ExitRuntime indicates generation, writing or a script failed
	ExitRuntime = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitMissingDependencies indicates required tools or project files are missing
	ExitMissingDependencies = 4
)

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	switch clierrors.Classify(err).Category {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Configuration:
		return ExitValidationFailed
	case clierrors.Prerequisite:
		return ExitMissingDependencies
	default:
		return ExitRuntime
	}
}
