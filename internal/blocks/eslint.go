package blocks

import (
	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/ariel-frischer/blockcraft/internal/intake"
)

// ESLintOptions adds ignore globs and rule overrides.
type ESLintOptions struct {
	Ignores []string       `mapstructure:"ignores" yaml:"ignores,omitempty" validate:"dive,required"`
	Rules   map[string]any `mapstructure:"rules" yaml:"rules,omitempty"`
}

var eslintIgnores = []string{"**/*.snap", "lib", "node_modules", "pnpm-lock.yaml"}

// legacyESLintConfigs are the pre-flat-config files transition mode removes.
var legacyESLintConfigs = []string{".eslintignore", ".eslintrc.cjs", ".eslintrc.js", ".eslintrc.json", ".eslintrc.yml"}

// ESLint contributes linting with a flat ESLint config.
var ESLint = block.Define(NameESLint, "linting with ESLint and typescript-eslint", nil,
	func(ctx block.Context, o ESLintOptions) block.Contribution {
		return block.Contribution{
			ESLint: block.ESLint{
				Enabled: true,
				Ignores: append(append([]string(nil), eslintIgnores...), o.Ignores...),
				Plugins: []string{"eslint-plugin-markdown"},
				Rules:   o.Rules,
			},
			Package: map[string]any{
				"scripts": map[string]any{"lint": "eslint . --max-warnings 0"},
				"devDependencies": devDependencies(ctx,
					"@eslint/js", "eslint", "eslint-plugin-markdown", "typescript-eslint"),
			},
			Scripts: []block.Script{{Phase: block.PhaseProcess, Commands: []string{"pnpm lint --fix"}}},
			Jobs:    []block.Job{ciJob("Lint", "pnpm lint")},
			VSCode: block.VSCode{
				Settings: map[string]any{
					"editor.codeActionsOnSave": map[string]any{"source.fixAll.eslint": "explicit"},
					"eslint.probe":             []any{"javascript", "javascriptreact", "markdown", "typescript", "typescriptreact"},
				},
				Extensions: []string{"dbaeumer.vscode-eslint"},
			},
			Docs: map[string]block.Section{
				SectionLinting: {
					Before: lintingIntro,
					Items:  []string{"- `pnpm lint` ([ESLint](https://eslint.org) with [typescript-eslint](https://typescript-eslint.io)): Lints JavaScript and TypeScript source files"},
					After:  "Read the individual documentation for each linter to understand how it can be configured and used best.",
				},
			},
		}
	}).
	WithTransition(func(ctx block.Context, o ESLintOptions) block.Contribution {
		return block.Contribution{Removals: append([]string(nil), legacyESLintConfigs...)}
	}).
	WithIntake(func(ic block.IntakeContext) intake.Result[ESLintOptions] {
		type legacy struct {
			Root           bool           `mapstructure:"root"`
			Env            map[string]any `mapstructure:"env"`
			Extends        any            `mapstructure:"extends"`
			IgnorePatterns []string       `mapstructure:"ignorePatterns"`
			Overrides      []any          `mapstructure:"overrides"`
			Parser         string         `mapstructure:"parser"`
			ParserOptions  map[string]any `mapstructure:"parserOptions"`
			Plugins        []string       `mapstructure:"plugins"`
			Rules          map[string]any `mapstructure:"rules"`
			Settings       map[string]any `mapstructure:"settings"`
		}
		found := intake.Decode[legacy](intake.JSON(ic.Source, ".eslintrc.json"))
		return intake.Map(found, func(l legacy) (ESLintOptions, bool) {
			return ESLintOptions{
				Ignores: without(l.IgnorePatterns, eslintIgnores),
				Rules:   l.Rules,
			}, true
		})
	})
