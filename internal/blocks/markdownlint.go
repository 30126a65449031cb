package blocks

import "github.com/ariel-frischer/blockcraft/internal/block"

// MarkdownlintOptions adds ignore entries.
type MarkdownlintOptions struct {
	Ignores []string `mapstructure:"ignores" yaml:"ignores,omitempty" validate:"dive,required"`
}

const markdownlintConfig = `{
	"extends": "markdownlint/style/prettier",
	"first-line-h1": false,
	"no-inline-html": false
}
`

var markdownlintIgnores = []string{".github/CODE_OF_CONDUCT.md", "CHANGELOG.md", "node_modules/"}

// Markdownlint contributes Markdown linting.
var Markdownlint = block.Define(NameMarkdownlint, "Markdown linting with markdownlint", nil,
	func(ctx block.Context, o MarkdownlintOptions) block.Contribution {
		return block.Contribution{
			Files: map[string]string{
				".markdownlint.json":  markdownlintConfig,
				".markdownlintignore": ignoreFile(markdownlintIgnores, o.Ignores),
			},
			Package: map[string]any{
				"scripts":         map[string]any{"lint:md": `markdownlint "**/*.md" ".github/**/*.md"`},
				"devDependencies": devDependencies(ctx, "markdownlint", "markdownlint-cli"),
			},
			Jobs:   []block.Job{ciJob("Lint Markdown", "pnpm lint:md")},
			VSCode: block.VSCode{Extensions: []string{"DavidAnson.vscode-markdownlint"}},
			CSpell: block.CSpell{Words: []string{"markdownlint"}},
			Docs: map[string]block.Section{
				SectionLinting: {
					Before: lintingIntro,
					Items:  []string{"- `pnpm lint:md` ([Markdownlint](https://github.com/DavidAnson/markdownlint)): Checks Markdown source files"},
				},
			},
		}
	})
