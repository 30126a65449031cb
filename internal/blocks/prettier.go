package blocks

import (
	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/ariel-frischer/blockcraft/internal/emit"
	"github.com/ariel-frischer/blockcraft/internal/intake"
	"github.com/ariel-frischer/blockcraft/internal/merge"
)

// PrettierOptions adds ignore entries and overrides Prettier settings.
type PrettierOptions struct {
	Ignores   []string       `mapstructure:"ignores" yaml:"ignores,omitempty" validate:"dive,required"`
	Overrides map[string]any `mapstructure:"overrides" yaml:"overrides,omitempty"`
}

var prettierIgnores = []string{".husky/", "coverage/", "lib/", "node_modules/", "pnpm-lock.yaml"}

// prettierManaged are .prettierrc.json keys the block always writes itself.
var prettierManaged = []string{"$schema", "overrides", "plugins"}

func prettierConfig(o PrettierOptions) map[string]any {
	config := map[string]any{
		"$schema":   "http://json.schemastore.org/prettierrc",
		"overrides": []any{map[string]any{"files": ".*rc", "options": map[string]any{"parser": "json"}}},
		"plugins":   []any{"prettier-plugin-packagejson"},
		"useTabs":   true,
	}
	return merge.DeepMerge(config, o.Overrides)
}

// Prettier contributes formatting with Prettier.
var Prettier = block.Define(NamePrettier, "formatting with Prettier", nil,
	func(ctx block.Context, o PrettierOptions) block.Contribution {
		rc, err := emit.JSON(prettierConfig(o))
		if err != nil {
			// Decoded option values always encode.
			panic(err)
		}
		return block.Contribution{
			Files: map[string]string{
				".prettierrc.json": rc,
				".prettierignore":  ignoreFile(prettierIgnores, o.Ignores),
			},
			Package: map[string]any{
				"scripts":         map[string]any{"format": "prettier ."},
				"devDependencies": devDependencies(ctx, "prettier", "prettier-plugin-packagejson"),
			},
			Scripts: []block.Script{{Phase: block.PhaseProcess, Commands: []string{"pnpm format --write"}}},
			Jobs:    []block.Job{ciJob("Prettier", "pnpm format --list-different")},
			VSCode: block.VSCode{
				Settings: map[string]any{
					"editor.defaultFormatter": "esbenp.prettier-vscode",
					"editor.formatOnSave":     true,
				},
				Extensions: []string{"esbenp.prettier-vscode"},
			},
			Docs: map[string]block.Section{
				SectionFormatting: {
					Before: "[Prettier](https://prettier.io) is used to format code.\nIt should be applied automatically when you save files in VS Code or make a Git commit.",
					Items:  []string{"To manually reformat all files, you can run:\n\n" + shellBlock("pnpm format --write")},
				},
			},
		}
	}).
	WithIntake(func(ic block.IntakeContext) intake.Result[PrettierOptions] {
		rc := intake.JSON(ic.Source, ".prettierrc.json")
		return intake.Map(rc, func(config map[string]any) (PrettierOptions, bool) {
			opts := PrettierOptions{}
			for key, value := range config {
				if contains(prettierManaged, key) {
					continue
				}
				if opts.Overrides == nil {
					opts.Overrides = make(map[string]any)
				}
				opts.Overrides[key] = value
			}
			if ignores := intake.Lines(ic.Source, ".prettierignore"); ignores.Ok() {
				opts.Ignores = without(ignores.Value, prettierIgnores)
			}
			return opts, true
		})
	})

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
