package blocks

import (
	"strings"
	"testing"

	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/ariel-frischer/blockcraft/internal/emit"
	"github.com/ariel-frischer/blockcraft/internal/intake"
	"github.com/ariel-frischer/blockcraft/internal/merge"
	"github.com/ariel-frischer/blockcraft/internal/produce"
	"github.com/ariel-frischer/blockcraft/internal/versions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBase = block.Base{
	Owner:       "octo",
	Repository:  "widget",
	Title:       "Widget",
	Description: "Makes widgets.",
	License:     "MIT",
	NodeVersion: "20.18.0",
}

func generate(t *testing.T, ctx block.Context, roots ...block.Invocation) (*merge.Result, map[string]string) {
	t.Helper()
	if ctx.Base.Repository == "" {
		ctx.Base = testBase
	}
	if ctx.Versions == nil {
		ctx.Versions = versions.Default()
	}
	if ctx.Mode == "" {
		ctx.Mode = block.ModeSetup
	}
	tree, err := (&produce.Engine{Context: ctx}).Produce(roots)
	require.NoError(t, err)
	result := merge.Merge(tree.Flatten())
	files, err := emit.Emit(result, ctx.Base)
	require.NoError(t, err)
	return result, files
}

func TestCatalog_Validates(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.Validate())
	assert.Equal(t, len(All()), r.Len())
	for _, name := range Presets() {
		_, ok := r.Get(name)
		assert.True(t, ok, name)
	}
}

func TestPresetCommon_Setup(t *testing.T) {
	t.Parallel()

	result, files := generate(t, block.Context{}, PresetCommon.With(PresetCommonOptions{Coverage: true}))

	for _, path := range []string{
		".github/CONTRIBUTING.md",
		".github/DEVELOPMENT.md",
		".github/actions/prepare/action.yml",
		".github/workflows/build.yml",
		".github/workflows/lint.yml",
		".github/workflows/lint-markdown.yml",
		".github/workflows/lint-spelling.yml",
		".github/workflows/prettier.yml",
		".github/workflows/test.yml",
		".gitignore",
		".markdownlint.json",
		".markdownlintignore",
		".nvmrc",
		".prettierignore",
		".prettierrc.json",
		".vscode/extensions.json",
		".vscode/launch.json",
		".vscode/settings.json",
		"README.md",
		"cspell.json",
		"eslint.config.js",
		"package.json",
		"src/index.test.ts",
		"src/index.ts",
		"tsconfig.json",
		"vitest.config.ts",
	} {
		assert.Contains(t, files, path)
	}
	assert.Empty(t, result.Overrides)

	var steps []string
	for _, s := range result.Jobs["Test"].Steps {
		steps = append(steps, s.Name+s.Uses)
	}
	assert.Equal(t, []string{"actions/checkout@v4", "./.github/actions/prepare", "Test", "Codecovcodecov/codecov-action@v5"}, steps)

	assert.Contains(t, files["package.json"], "\"@vitest/coverage-v8\"")
	assert.Contains(t, files["vitest.config.ts"], "coverage: {")
	assert.Contains(t, files["eslint.config.js"], "import vitest from \"@vitest/eslint-plugin\";")
	assert.Contains(t, result.CSpell.Words, "codecov")
	assert.Equal(t, []block.Script{
		{Phase: block.PhaseInstall, Commands: []string{"pnpm install"}},
		{Phase: block.PhaseProcess, Commands: []string{"pnpm format --write"}},
		{Phase: block.PhaseProcess, Commands: []string{"pnpm lint --fix"}},
	}, result.Scripts)
}

func TestPresetCommon_Idempotent(t *testing.T) {
	t.Parallel()

	_, first := generate(t, block.Context{}, PresetCommon.Default())
	_, second := generate(t, block.Context{}, PresetCommon.Default())
	assert.Equal(t, first, second)
}

func TestPresetMinimal_NoToolingConfig(t *testing.T) {
	t.Parallel()

	_, files := generate(t, block.Context{}, PresetMinimal.Default())
	assert.Contains(t, files, "package.json")
	assert.Contains(t, files, "README.md")
	assert.NotContains(t, files, "cspell.json")
	assert.NotContains(t, files, "eslint.config.js")
	assert.Equal(t, "*.log\n.DS_Store\nlib/\nnode_modules/\n", files[".gitignore"])
}

func TestESLint_TransitionRemovesLegacyConfig(t *testing.T) {
	t.Parallel()

	result, _ := generate(t, block.Context{Mode: block.ModeTransition}, ESLint.Default())
	assert.Equal(t, legacyESLintConfigs, result.Removals)
}

func TestReadme_TransitionSplicesUsage(t *testing.T) {
	t.Parallel()

	existing := "# Widget\n\nHand-written intro.\n\n## Usage\n\nold usage\n\n## Development\n\nCustom notes.\n"
	base := testBase
	base.Usage = "new usage"

	_, files := generate(t, block.Context{
		Base:    base,
		Mode:    block.ModeTransition,
		Project: intake.MapSource{ReadmePath: existing},
	}, Readme.Default())

	assert.Equal(t, "# Widget\n\nHand-written intro.\n\n## Usage\n\nnew usage\n\n## Development\n\nCustom notes.\n", files[ReadmePath])
}

func TestReadme_Setup(t *testing.T) {
	t.Parallel()

	_, files := generate(t, block.Context{}, Readme.With(ReadmeOptions{Explainer: "Widgets, made simple."}))
	doc := files[ReadmePath]
	assert.True(t, strings.HasPrefix(doc, "# Widget\n\n> Makes widgets.\n"))
	assert.Contains(t, doc, "Widgets, made simple.")
	usage := ReadmeUsage(intake.MapSource{ReadmePath: doc})
	require.True(t, usage.Ok())
	assert.Contains(t, usage.Value, "npm i widget")
}

func TestBlocks_Intake(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		block     block.Block
		files     intake.MapSource
		wantState intake.State
		want      any
	}{
		"cspell recognized": {
			block:     CSpell,
			files:     intake.MapSource{"cspell.json": `{"ignorePaths": ["lib", "docs"], "words": ["octo"]}`},
			wantState: intake.Recognized,
			want:      CSpellOptions{Ignores: []string{"docs"}, Words: []string{"octo"}},
		},
		"cspell malformed": {
			block:     CSpell,
			files:     intake.MapSource{"cspell.json": `{"words": [`},
			wantState: intake.Malformed,
		},
		"cspell unrecognized nested shape": {
			block:     CSpell,
			files:     intake.MapSource{"cspell.json": `{"words": {"octo": true}}`},
			wantState: intake.Unrecognized,
		},
		"cspell absent": {
			block:     CSpell,
			files:     intake.MapSource{},
			wantState: intake.Absent,
		},
		"eslint legacy config": {
			block: ESLint,
			files: intake.MapSource{".eslintrc.json": `{"root": true, "extends": ["eslint:recommended"], "ignorePatterns": ["lib", "dist"], "rules": {"eqeqeq": "error"}}`},
			wantState: intake.Recognized,
			want:      ESLintOptions{Ignores: []string{"dist"}, Rules: map[string]any{"eqeqeq": "error"}},
		},
		"eslint unknown key": {
			block:     ESLint,
			files:     intake.MapSource{".eslintrc.json": `{"ruless": {}}`},
			wantState: intake.Unrecognized,
		},
		"gitignore": {
			block:     Gitignore,
			files:     intake.MapSource{".gitignore": "node_modules/\n# build\ndist/\n"},
			wantState: intake.Recognized,
			want:      GitignoreOptions{Ignores: []string{"dist/"}},
		},
		"package.json": {
			block:     PackageJSON,
			files:     intake.MapSource{"package.json": `{"name": "widget", "version": "1.2.3", "keywords": ["b", "a"], "packageManager": "yarn@4.5.0"}`},
			wantState: intake.Recognized,
			want:      PackageJSONOptions{Keywords: []string{"a", "b"}, Version: "1.2.3", PackageManager: "yarn"},
		},
		"package.json drops invalid values": {
			block:     PackageJSON,
			files:     intake.MapSource{"package.json": `{"version": "next", "packageManager": "bun@1.1.0"}`},
			wantState: intake.Recognized,
			want:      PackageJSONOptions{},
		},
		"prettier": {
			block: Prettier,
			files: intake.MapSource{
				".prettierrc.json": `{"$schema": "x", "useTabs": false, "printWidth": 100}`,
				".prettierignore":  "lib/\nfixtures/\n",
			},
			wantState: intake.Recognized,
			want: PrettierOptions{
				Ignores:   []string{"fixtures/"},
				Overrides: map[string]any{"useTabs": false, "printWidth": float64(100)},
			},
		},
		"vitest with coverage": {
			block:     Vitest,
			files:     intake.MapSource{vitestConfigPath: "import { defineConfig } from \"vitest/config\";\nexport default defineConfig({ test: { coverage: {} } });\n"},
			wantState: intake.Recognized,
			want:      VitestOptions{Coverage: true},
		},
		"vitest unrecognized": {
			block:     Vitest,
			files:     intake.MapSource{vitestConfigPath: "module.exports = {};\n"},
			wantState: intake.Unrecognized,
		},
		"vscode": {
			block:     VSCode,
			files:     intake.MapSource{".vscode/settings.json": `{"editor.rulers": [80]}`},
			wantState: intake.Recognized,
			want:      VSCodeOptions{Settings: map[string]any{"editor.rulers": []any{float64(80)}}},
		},
		"readme badges": {
			block:     Readme,
			files:     intake.MapSource{ReadmePath: "# x\n\n[![npm](https://img.shields.io/npm/v/x)](https://npmjs.com/x)\n[![License: MIT](y)](z)\n\n## Usage\n\n[![not a badge](a)](b)\n"},
			wantState: intake.Recognized,
			want:      ReadmeOptions{Badges: []string{"[![npm](https://img.shields.io/npm/v/x)](https://npmjs.com/x)"}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.True(t, tt.block.CanIntake())
			got, state := tt.block.Intake(block.IntakeContext{Source: tt.files})
			assert.Equal(t, tt.wantState, state)
			if tt.wantState == intake.Recognized {
				assert.Equal(t, tt.want, got)
				_, err := tt.block.Resolve(block.Invocation{Block: tt.block}, got)
				assert.NoError(t, err, "recovered options must resolve")
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestBlocks_RecoveredOptionsFlowIntoOutput(t *testing.T) {
	t.Parallel()

	recovered, state := CSpell.Intake(block.IntakeContext{Source: intake.MapSource{"cspell.json": `{"words": ["octo"]}`}})
	require.Equal(t, intake.Recognized, state)

	tree, err := (&produce.Engine{
		Context:   block.Context{Base: testBase, Versions: versions.Default(), Mode: block.ModeTransition},
		Recovered: produce.Recovered{NameCSpell: recovered},
	}).Produce([]block.Invocation{block.Use(CSpell, map[string]any{"words": []any{"widget"}})})
	require.NoError(t, err)

	result := merge.Merge(tree.Flatten())
	assert.Equal(t, []string{"widget"}, result.CSpell.Words)

	tree, err = (&produce.Engine{
		Context:   block.Context{Base: testBase, Versions: versions.Default(), Mode: block.ModeTransition},
		Recovered: produce.Recovered{NameCSpell: recovered},
	}).Produce([]block.Invocation{CSpell.Default()})
	require.NoError(t, err)
	assert.Equal(t, []string{"octo"}, merge.Merge(tree.Flatten()).CSpell.Words)
}

func TestPluginsImportable(t *testing.T) {
	t.Parallel()

	table := versions.Default()
	for _, b := range All() {
		c := b.Produce(block.Context{Base: testBase, Versions: table}, mustDefaults(t, b))
		for _, plugin := range c.ESLint.Plugins {
			_, ok := table.Lookup(plugin)
			assert.True(t, ok, "%s: plugin %s has no version", b.Name(), plugin)
		}
	}
}

func mustDefaults(t *testing.T, b block.Block) any {
	t.Helper()
	opts, err := b.Resolve(block.Invocation{Block: b}, nil)
	require.NoError(t, err)
	return opts
}
