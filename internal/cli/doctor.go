package cli

import (
	"fmt"

	clierrors "github.com/ariel-frischer/blockcraft/internal/errors"
	"github.com/ariel-frischer/blockcraft/internal/health"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the tools generated scripts need are installed",
		Long: `Doctor checks for node, pnpm and git on PATH and reports whether the
project directory is a git repository with a remote. The repository checks are
informational; only missing tools fail.`,
		GroupID: GroupSetup,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString(flagDirectory)
			report := health.RunHealthChecks(cmd.Context(), dir)
			fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))
			if !report.Passed {
				return clierrors.NewPrerequisiteError(
					"required tools are missing",
					"Install the tools marked ✗ and rerun blockcraft doctor",
				)
			}
			return nil
		},
	}
}
