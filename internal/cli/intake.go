package cli

import (
	"fmt"

	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/ariel-frischer/blockcraft/internal/intake"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// intakeView is what the intake command prints.
type intakeView struct {
	Base   block.Base    `yaml:"base"`
	Blocks intake.Report `yaml:"blocks"`
}

func newIntakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intake",
		Short: "Show what transition would recover from the existing project",
		Long: `Intake reads the project's existing configuration the way transition does
and prints the recovered project values and, per block, whether its config
was absent, malformed, unrecognized or recognized, with recovered options.

Nothing is written.`,
		GroupID: GroupInspect,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			gen, err := s.generator()
			if err != nil {
				return err
			}
			base, report, err := gen.Intake()
			if err != nil {
				return err
			}

			for i, entry := range report {
				if entry.Options == nil {
					continue
				}
				if report[i].Options, err = block.OptionsMap(entry.Options); err != nil {
					return err
				}
			}
			data, err := yaml.Marshal(intakeView{Base: base, Blocks: report})
			if err != nil {
				return fmt.Errorf("encoding intake report: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
