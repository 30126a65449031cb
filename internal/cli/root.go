// Package cli implements the blockcraft command line.
package cli

import (
	"fmt"
	"io"

	"github.com/ariel-frischer/blockcraft/internal/build"
	clierrors "github.com/ariel-frischer/blockcraft/internal/errors"
	"github.com/spf13/cobra"
)

// Command groups shown in help output.
const (
	GroupGenerate = "generate"
	GroupInspect  = "inspect"
	GroupSetup    = "setup"
)

// Persistent flag names.
const (
	flagConfig    = "config"
	flagDirectory = "directory"
	flagVerbose   = "verbose"
	flagLogFormat = "log-format"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "blockcraft",
		Short: "Compose project tooling config from reusable blocks",
		Long: `blockcraft generates repository tooling configuration (package.json,
linters, formatters, test runner, CI workflows, editor settings and docs)
from composable blocks.

Each block contributes a fragment; fragments are merged deterministically so
running blockcraft twice produces the same files. In transition mode the
existing project's configuration is read back first so its options survive.`,
		Example: `  # Create tooling for a new project
  blockcraft generate --preset preset-common

  # Migrate an existing project in place
  blockcraft transition

  # See what would change without writing
  blockcraft transition --dry-run`,
		Version:       build.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddGroup(
		&cobra.Group{ID: GroupGenerate, Title: "Generate:"},
		&cobra.Group{ID: GroupInspect, Title: "Inspect:"},
		&cobra.Group{ID: GroupSetup, Title: "Setup:"},
	)

	flags := root.PersistentFlags()
	flags.String(flagConfig, "", "Project config file (default: .blockcraft/config.{yml,json,hcl})")
	flags.StringP(flagDirectory, "C", ".", "Project directory")
	flags.BoolP(flagVerbose, "v", false, "Debug logging")
	flags.String(flagLogFormat, "", "Log format: console | json")

	root.AddCommand(
		newGenerateCmd(),
		newTransitionCmd(),
		newBlocksCmd(),
		newIntakeCmd(),
		newHistoryCmd(),
		newConfigCmd(),
		newDoctorCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	// Errors before a command runs come from parsing flags and arguments.
	started := false
	root.PersistentPreRun = func(*cobra.Command, []string) { started = true }

	err := root.Execute()
	if err != nil && !started && !clierrors.IsCLIError(err) {
		err = clierrors.NewArgumentError(err.Error(), "Run 'blockcraft --help' for usage")
	}
	if err != nil {
		clierrors.FprintError(stderr, err)
	}
	return ExitCode(err)
}

func usageError(cmd *cobra.Command, format string, args ...any) error {
	return clierrors.NewArgumentErrorWithUsage(fmt.Sprintf(format, args...), cmd.UseLine())
}
