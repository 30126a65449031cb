package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/ariel-frischer/blockcraft/internal/config"
	"github.com/ariel-frischer/blockcraft/internal/emit"
	"github.com/ariel-frischer/blockcraft/internal/generator"
	"github.com/ariel-frischer/blockcraft/internal/produce"
	"github.com/ariel-frischer/blockcraft/internal/registry"
	"github.com/ariel-frischer/blockcraft/internal/scripts"
	"github.com/ariel-frischer/blockcraft/internal/workspace"
)

// Common error messages for the blockcraft CLI.
// These templates ensure consistent, actionable error messages.

// NothingToGenerate creates an error for a run without preset or blocks.
func NothingToGenerate() *CLIError {
	return NewArgumentErrorWithUsage(
		"nothing to generate",
		"blockcraft generate --preset <name> | --block <name>",
		"Pass a preset: blockcraft generate --preset preset-common",
		"Or list blocks under 'blocks:' in .blockcraft/config.yml",
		"See available blocks with: blockcraft blocks",
	)
}

// UnknownBlock creates an error for a block name that is not registered.
func UnknownBlock(name string, known []string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("unknown block %q", name),
		"Available blocks: "+strings.Join(known, ", "),
		"See option keys with: blockcraft blocks",
	)
}

// InvalidOptions creates an error for options a block rejected.
func InvalidOptions(err *block.OptionsError) *CLIError {
	key := "blocks." + err.Block
	if err.Block == block.BaseBlockName {
		key = "base"
	}
	if err.Field != "" {
		key += "." + err.Field
	}
	return NewConfigError(
		err.Error(),
		fmt.Sprintf("Check the value of %s in .blockcraft/config.yml", key),
		fmt.Sprintf("See accepted options with: blockcraft blocks %s", err.Block),
	)
}

// InvalidConfig creates an error for a configuration file that failed validation.
func InvalidConfig(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"invalid configuration",
		"Fix the reported field or line",
		"Print the merged configuration with: blockcraft config show",
		"Regenerate a commented template with: blockcraft config init --force",
	)
}

// AddonLoop creates an error for addon cycles and runaway nesting.
func AddonLoop(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"block addons do not terminate",
		"Remove the block that re-invokes itself from the chain shown above",
		"Or raise max_depth if the nesting is intentional",
	)
}

// FileConflict creates an error when a block writes a file that is also rendered from merged values.
func FileConflict(err *emit.ConflictError) *CLIError {
	return NewRuntimeError(
		err.Error(),
		fmt.Sprintf("Remove %s from the block's Files and contribute the values instead", err.Path),
	)
}

// UnsafePath creates an error for a generated path outside the project.
func UnsafePath(err *workspace.UnsafePathError) *CLIError {
	return NewRuntimeError(
		err.Error(),
		"Generated paths must be relative to the project root",
	)
}

// ScriptFailed creates an error when a post-generation script fails.
func ScriptFailed(err *scripts.CommandError) *CLIError {
	return WrapWithMessage(err, Runtime,
		"post-generation script failed",
		fmt.Sprintf("Run it by hand to see the full output: %s", err.Command),
		"Generated files were written; rerun with --run-scripts once fixed",
	)
}

// NotAProject creates an error when transition mode has no project to read.
func NotAProject(dir string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("%s is not an existing project", dir),
		"Run transition inside a project that has a package.json",
		"Or create a new project with: blockcraft generate",
	)
}

// Classify maps domain errors to CLIErrors with remediation. Errors it does
// not recognize become runtime errors.
func Classify(err error) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var (
		optionsErr  *block.OptionsError
		unknownErr  *registry.UnknownBlockError
		cycleErr    *produce.CycleError
		depthErr    *produce.DepthError
		conflictErr *emit.ConflictError
		unsafeErr   *workspace.UnsafePathError
		scriptErr   *scripts.CommandError
		configErr   *config.ValidationError
		nothingErr  generator.NothingToGenerateError
	)
	switch {
	case stderrors.As(err, &nothingErr):
		return NothingToGenerate()
	case stderrors.As(err, &unknownErr):
		return UnknownBlock(unknownErr.Name, unknownErr.Known)
	case stderrors.As(err, &optionsErr):
		return InvalidOptions(optionsErr)
	case stderrors.As(err, &configErr):
		return InvalidConfig(err)
	case stderrors.As(err, &cycleErr), stderrors.As(err, &depthErr):
		return AddonLoop(err)
	case stderrors.As(err, &conflictErr):
		return FileConflict(conflictErr)
	case stderrors.As(err, &unsafeErr):
		return UnsafePath(unsafeErr)
	case stderrors.As(err, &scriptErr):
		return ScriptFailed(scriptErr)
	}
	return Wrap(err, Runtime)
}
