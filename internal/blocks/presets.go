package blocks

import "github.com/ariel-frischer/blockcraft/internal/block"

// PresetMinimal selects the blocks every project needs.
var PresetMinimal = block.Define(NamePresetMinimal, "package.json, README.md and .gitignore", nil,
	func(ctx block.Context, o struct{}) block.Contribution {
		return block.Contribution{Addons: []block.Invocation{
			PackageJSON.Default(),
			Readme.Default(),
			Gitignore.Default(),
		}}
	})

// PresetCommonOptions configures the common preset.
type PresetCommonOptions struct {
	Coverage bool `mapstructure:"coverage" yaml:"coverage,omitempty"`
}

// PresetCommon selects the minimal preset plus linting, formatting, tests,
// CI and editor settings.
var PresetCommon = block.Define(NamePresetCommon, "minimal preset plus linting, formatting, tests and CI", nil,
	func(ctx block.Context, o PresetCommonOptions) block.Contribution {
		return block.Contribution{Addons: []block.Invocation{
			PresetMinimal.Default(),
			CSpell.Default(),
			ESLint.Default(),
			Prettier.Default(),
			Markdownlint.Default(),
			Vitest.With(VitestOptions{Coverage: o.Coverage}),
			VSCode.Default(),
			GitHubActionsCI.Default(),
			ContributingDocs.Default(),
		}}
	})
