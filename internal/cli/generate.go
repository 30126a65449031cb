package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ariel-frischer/blockcraft/internal/config"
	clierrors "github.com/ariel-frischer/blockcraft/internal/errors"
	"github.com/spf13/cobra"
)

const flagWatch = "watch"

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"setup", "gen"},
		Short:   "Generate tooling config for a project",
		Long: `Generate writes every file the selected preset and blocks produce. It runs
in the configured mode, setup unless mode: transition is set.

Options come from .blockcraft/config.yml, the user config and BLOCKCRAFT_*
environment variables. Files whose content is already current are left alone.`,
		Example: `  blockcraft generate --preset preset-common
  blockcraft generate --block vitest --block prettier --dry-run
  blockcraft generate --watch`,
		GroupID: GroupGenerate,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := newGeneration(cmd, "")
			if err != nil {
				return err
			}
			defer g.close()

			watch, _ := cmd.Flags().GetBool(flagWatch)
			if !watch {
				return g.execute(cmd.Context())
			}
			return watchGeneration(cmd, g)
		},
	}
	addGenerationFlags(cmd.Flags())
	cmd.Flags().Bool(flagWatch, false, "Regenerate whenever .blockcraft/ changes")
	return cmd
}

// watchGeneration runs once, then again after every change to the project
// config directory or, when the configured directory points elsewhere, to its
// pinned versions. Each pass reloads configuration.
func watchGeneration(cmd *cobra.Command, g *generation) error {
	dir := config.ProjectConfigDir(g.session.projectDir)
	dirs := []string{dir}
	if state := g.session.stateDir; state != dir {
		if info, err := os.Stat(state); err == nil && info.IsDir() {
			dirs = append(dirs, state)
		}
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return clierrors.NewArgumentError(
			"--watch needs a project config directory: "+dir,
			"Create one with: blockcraft config init",
		)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := g.execute(ctx); err != nil {
		clierrors.FprintError(cmd.ErrOrStderr(), err)
	}
	return watchDir(ctx, dirs, watchDebounce, g.session.logger, func() error {
		next, err := newGeneration(cmd, "")
		if err != nil {
			return err
		}
		defer next.close()
		return next.execute(ctx)
	})
}
