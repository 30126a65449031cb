package blocks

import (
	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/ariel-frischer/blockcraft/internal/intake"
)

// CSpellOptions adds project-specific ignore globs and words.
type CSpellOptions struct {
	Ignores []string `mapstructure:"ignores" yaml:"ignores,omitempty" validate:"dive,required"`
	Words   []string `mapstructure:"words" yaml:"words,omitempty" validate:"dive,required"`
}

var cspellIgnores = []string{".github", "lib", "node_modules", "pnpm-lock.yaml"}

// CSpell contributes spell checking with cspell.
var CSpell = block.Define(NameCSpell, "spell checking with cspell", nil,
	func(ctx block.Context, o CSpellOptions) block.Contribution {
		return block.Contribution{
			CSpell: block.CSpell{
				Enabled: true,
				Ignores: append(append([]string(nil), cspellIgnores...), o.Ignores...),
				Words:   o.Words,
			},
			Package: map[string]any{
				"scripts":         map[string]any{"lint:spelling": `cspell "**" ".github/**/*"`},
				"devDependencies": devDependencies(ctx, "cspell"),
			},
			Jobs:   []block.Job{ciJob("Lint Spelling", "pnpm lint:spelling")},
			VSCode: block.VSCode{Extensions: []string{"streetsidesoftware.code-spell-checker"}},
			Docs: map[string]block.Section{
				SectionLinting: {
					Before: lintingIntro,
					Items:  []string{"- `pnpm lint:spelling` ([cspell](https://cspell.org)): Spell checks across all source files"},
				},
			},
		}
	}).
	WithIntake(func(ic block.IntakeContext) intake.Result[CSpellOptions] {
		type config struct {
			Schema       string   `mapstructure:"$schema"`
			Version      string   `mapstructure:"version"`
			Dictionaries []string `mapstructure:"dictionaries"`
			IgnorePaths  []string `mapstructure:"ignorePaths"`
			Words        []string `mapstructure:"words"`
		}
		found := intake.Decode[config](intake.JSON(ic.Source, "cspell.json"))
		return intake.Map(found, func(c config) (CSpellOptions, bool) {
			return CSpellOptions{
				Ignores: without(c.IgnorePaths, cspellIgnores),
				Words:   without(c.Words, nil),
			}, true
		})
	})
