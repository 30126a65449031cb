package cli

import (
	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/spf13/cobra"
)

func newTransitionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transition",
		Aliases: []string{"migrate"},
		Short:   "Regenerate tooling config for an existing project",
		Long: `Transition reads the project's existing configuration (cspell, ESLint,
Prettier, Vitest, workflows and more), keeps the options it recognizes,
removes files that blocks replace and writes the rest.

The directory must already contain a package.json.`,
		Example: `  blockcraft transition --dry-run
  blockcraft transition -C ../other-project --run-scripts`,
		GroupID: GroupGenerate,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := newGeneration(cmd, block.ModeTransition)
			if err != nil {
				return err
			}
			defer g.close()
			return g.execute(cmd.Context())
		},
	}
	addGenerationFlags(cmd.Flags())
	return cmd
}
