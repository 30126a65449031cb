package blocks

import (
	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/ariel-frischer/blockcraft/internal/intake"
	"github.com/ariel-frischer/blockcraft/internal/merge"
)

// VSCodeOptions adds workspace settings.
type VSCodeOptions struct {
	Settings map[string]any `mapstructure:"settings" yaml:"settings,omitempty"`
}

// VSCode contributes base editor settings.
var VSCode = block.Define(NameVSCode, "VS Code workspace settings", nil,
	func(ctx block.Context, o VSCodeOptions) block.Contribution {
		settings := map[string]any{
			"typescript.tsdk": "node_modules/typescript/lib",
		}
		return block.Contribution{
			VSCode: block.VSCode{Settings: merge.DeepMerge(settings, o.Settings)},
		}
	}).
	WithIntake(func(ic block.IntakeContext) intake.Result[VSCodeOptions] {
		return intake.Map(intake.JSON(ic.Source, ".vscode/settings.json"), func(settings map[string]any) (VSCodeOptions, bool) {
			return VSCodeOptions{Settings: settings}, true
		})
	})
