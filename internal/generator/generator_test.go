package generator

import (
	"strings"
	"testing"

	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/ariel-frischer/blockcraft/internal/blocks"
	"github.com/ariel-frischer/blockcraft/internal/intake"
	"github.com/ariel-frischer/blockcraft/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newGenerator(t *testing.T, src intake.Source) *Generator {
	t.Helper()
	return &Generator{
		Registry: blocks.NewRegistry(),
		Logger:   zaptest.NewLogger(t),
		Source:   src,
	}
}

var setupBase = map[string]any{
	"owner":       "octo",
	"repository":  "widget",
	"description": "Makes widgets.",
}

func TestGenerate_Setup(t *testing.T) {
	t.Parallel()

	g := newGenerator(t, nil)
	out, err := g.Generate(Plan{
		Mode:   block.ModeSetup,
		Base:   setupBase,
		Preset: blocks.NamePresetCommon,
		Blocks: map[string]map[string]any{
			blocks.NamePresetCommon: {"coverage": true},
			blocks.NameCSpell:       {"words": []any{"octo"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "widget", out.Base.Title)
	assert.Contains(t, out.Files, "package.json")
	assert.Contains(t, out.Files, ".github/workflows/test.yml")
	assert.Contains(t, out.Files["cspell.json"], "\"octo\"")
	assert.Empty(t, out.Intake)
	assert.Empty(t, out.Removals)
	assert.Greater(t, out.Invocations, 10)
	assert.Equal(t, out.Paths()[0], ".github/CONTRIBUTING.md")
}

func TestGenerate_OptionsReachPresetBlocks(t *testing.T) {
	t.Parallel()

	out, err := newGenerator(t, nil).Generate(Plan{
		Base:   setupBase,
		Preset: blocks.NamePresetCommon,
		Blocks: map[string]map[string]any{
			blocks.NameVitest: {"coverage": true},
		},
	})
	require.NoError(t, err)

	assert.Empty(t, out.Overrides)
	assert.Contains(t, out.Files["vitest.config.ts"], "coverage:")
	workflow := out.Files[".github/workflows/test.yml"]
	assert.Contains(t, workflow, "pnpm run test --coverage")
	assert.Contains(t, workflow, "Codecov")
	assert.Equal(t, 1, strings.Count(workflow, "run: pnpm run test"))
}

func TestGenerate_ExplicitBlockOutsidePreset(t *testing.T) {
	t.Parallel()

	minimal, err := newGenerator(t, nil).Generate(Plan{Base: setupBase, Preset: blocks.NamePresetMinimal})
	require.NoError(t, err)
	out, err := newGenerator(t, nil).Generate(Plan{
		Base:   setupBase,
		Preset: blocks.NamePresetMinimal,
		Blocks: map[string]map[string]any{blocks.NameCSpell: {"words": []any{"octo"}}},
	})
	require.NoError(t, err)

	assert.Empty(t, out.Overrides)
	assert.Contains(t, out.Files["cspell.json"], "\"octo\"")
	assert.Equal(t, minimal.Invocations+1, out.Invocations)
}

func TestGenerate_Idempotent(t *testing.T) {
	t.Parallel()

	plan := Plan{Base: setupBase, Preset: blocks.NamePresetCommon}
	first, err := newGenerator(t, nil).Generate(plan)
	require.NoError(t, err)
	second, err := newGenerator(t, nil).Generate(plan)
	require.NoError(t, err)
	assert.Equal(t, first.Files, second.Files)
	assert.Equal(t, first.Scripts, second.Scripts)
}

func TestGenerate_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		plan    Plan
		source  intake.Source
		wantErr string
		check   func(t *testing.T, err error)
	}{
		"nothing selected": {
			plan:    Plan{Base: setupBase},
			wantErr: "nothing to generate",
		},
		"unknown block": {
			plan:    Plan{Base: setupBase, Blocks: map[string]map[string]any{"nope": nil}},
			wantErr: `unknown block "nope"`,
		},
		"unknown mode": {
			plan:    Plan{Mode: "rebuild", Base: setupBase, Preset: blocks.NamePresetMinimal},
			wantErr: `unknown mode "rebuild"`,
		},
		"missing base": {
			plan:    Plan{Preset: blocks.NamePresetMinimal},
			wantErr: `block "base"`,
		},
		"bad block option": {
			plan: Plan{Base: setupBase, Blocks: map[string]map[string]any{
				blocks.NamePackageJSON: {"package_manager": "bun"},
			}},
			check: func(t *testing.T, err error) {
				var oe *block.OptionsError
				require.ErrorAs(t, err, &oe)
				assert.Equal(t, blocks.NamePackageJSON, oe.Block)
				assert.Equal(t, "package_manager", oe.Field)
			},
		},
		"transition without project": {
			plan:    Plan{Mode: block.ModeTransition, Base: setupBase, Preset: blocks.NamePresetMinimal},
			wantErr: "existing project",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := newGenerator(t, tt.source).Generate(tt.plan)
			require.Error(t, err)
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func existingProject() intake.MapSource {
	return intake.MapSource{
		"package.json": `{
			"name": "widget",
			"description": "Legacy widgets.",
			"author": "Octo Cat <octo@example.com>",
			"license": "Apache-2.0",
			"version": "2.1.0",
			"keywords": ["widgets"]
		}`,
		".nvmrc":         "v22.11.0\n",
		"README.md":      "# Widget\n\nIntro.\n\n## Usage\n\nCall `widget()`.\n\n## Development\n\nNotes.\n",
		"cspell.json":    `{"words": ["octo", "widgety"]}`,
		".eslintrc.json": `{"root": true, "rules": {"eqeqeq": "error"}}`,
		"vitest.config.ts": "import { defineConfig } from \"vitest/config\";\n" +
			"export default defineConfig({ test: { coverage: { all: true } } });\n",
		".prettierrc.json": `{"useTabs": [`,
	}
}

func TestGenerate_Transition(t *testing.T) {
	t.Parallel()

	g := newGenerator(t, existingProject())
	g.Remote = func() (string, string, bool) { return "octo", "widget", true }

	out, err := g.Generate(Plan{Mode: block.ModeTransition, Preset: blocks.NamePresetCommon})
	require.NoError(t, err)

	assert.Equal(t, "Legacy widgets.", out.Base.Description)
	assert.Equal(t, "Octo Cat", out.Base.Author)
	assert.Equal(t, "octo@example.com", out.Base.Email)
	assert.Equal(t, "Apache-2.0", out.Base.License)
	assert.Equal(t, "22.11.0", out.Base.NodeVersion)
	assert.Equal(t, "Call `widget()`.", out.Base.Usage)

	assert.Equal(t, "# Widget\n\nIntro.\n\n## Usage\n\nCall `widget()`.\n\n## Development\n\nNotes.\n", out.Files["README.md"])
	assert.Contains(t, out.Files["cspell.json"], "\"widgety\"")
	assert.Contains(t, out.Files["eslint.config.js"], "\"eqeqeq\": \"error\"")
	assert.Contains(t, out.Files["package.json"], "\"version\": \"2.1.0\"")
	assert.Contains(t, out.Files["package.json"], "\"@vitest/coverage-v8\"")
	assert.Contains(t, out.Removals, ".eslintrc.json")
	assert.Equal(t, block.PhaseMigrate, out.Scripts[1].Phase)

	states := map[string]string{}
	for _, e := range out.Intake {
		states[e.Name] = e.State
	}
	assert.Equal(t, "recognized", states[blocks.NameCSpell])
	assert.Equal(t, "recognized", states[blocks.NameVitest])
	assert.Equal(t, "malformed", states[blocks.NamePrettier])
	assert.Equal(t, "absent", states[blocks.NameVSCode])
}

func TestGenerate_TransitionExplicitOptionsWin(t *testing.T) {
	t.Parallel()

	g := newGenerator(t, existingProject())
	out, err := g.Generate(Plan{
		Mode: block.ModeTransition,
		Base: map[string]any{"owner": "someone", "license": "MIT"},
		Blocks: map[string]map[string]any{
			blocks.NameCSpell: {"words": []any{"replaced"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "someone", out.Base.Owner)
	assert.Equal(t, "widget", out.Base.Repository)
	assert.Equal(t, "MIT", out.Base.License)
	assert.Contains(t, out.Files["cspell.json"], "\"replaced\"")
	assert.NotContains(t, out.Files["cspell.json"], "widgety")
}

func TestGenerator_Intake(t *testing.T) {
	t.Parallel()

	g := newGenerator(t, existingProject())
	base, report, err := g.Intake()
	require.NoError(t, err)
	assert.Equal(t, "widget", base.Repository)
	assert.Empty(t, base.Owner)

	names := make([]string, len(report))
	for i, e := range report {
		names[i] = e.Name
	}
	assert.True(t, isSorted(names), "report is in block name order: %v", names)
	assert.Contains(t, report.Recognized(), blocks.NamePackageJSON)

	_, _, err = (&Generator{Registry: registry.New()}).Intake()
	assert.Error(t, err)
}

func TestParseAuthor(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in        any
		wantName  string
		wantEmail string
	}{
		"name only":        {in: "Octo Cat", wantName: "Octo Cat"},
		"name and email":   {in: "Octo Cat <octo@example.com>", wantName: "Octo Cat", wantEmail: "octo@example.com"},
		"with url":         {in: "Octo <o@example.com> (https://octo.dev)", wantName: "Octo", wantEmail: "o@example.com"},
		"object":           {in: map[string]any{"name": "Octo", "email": "o@example.com"}, wantName: "Octo", wantEmail: "o@example.com"},
		"unsupported type": {in: 42},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			gotName, gotEmail := parseAuthor(tt.in)
			assert.Equal(t, tt.wantName, gotName)
			assert.Equal(t, tt.wantEmail, gotEmail)
		})
	}
}

func isSorted(names []string) bool {
	for i := 1; i < len(names); i++ {
		if strings.Compare(names[i-1], names[i]) > 0 {
			return false
		}
	}
	return true
}
