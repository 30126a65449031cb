package blocks

import (
	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/ariel-frischer/blockcraft/internal/intake"
)

// GitignoreOptions adds project-specific ignore entries.
type GitignoreOptions struct {
	Ignores []string `mapstructure:"ignores" yaml:"ignores,omitempty" validate:"dive,required"`
}

var gitignoreDefaults = []string{"*.log", ".DS_Store", "lib/", "node_modules/"}

// Gitignore contributes .gitignore entries.
var Gitignore = block.Define(NameGitignore, ".gitignore entries", nil,
	func(ctx block.Context, o GitignoreOptions) block.Contribution {
		return block.Contribution{Gitignore: append(append([]string(nil), gitignoreDefaults...), o.Ignores...)}
	}).
	WithIntake(func(ic block.IntakeContext) intake.Result[GitignoreOptions] {
		return intake.Map(intake.Lines(ic.Source, ".gitignore"), func(lines []string) (GitignoreOptions, bool) {
			return GitignoreOptions{Ignores: without(lines, gitignoreDefaults)}, true
		})
	})

// without returns the entries of list not in drop, keeping order.
func without(list, drop []string) []string {
	skip := make(map[string]bool, len(drop))
	for _, d := range drop {
		skip[d] = true
	}
	var out []string
	for _, item := range list {
		if item != "" && !skip[item] {
			out = append(out, item)
		}
	}
	return out
}
