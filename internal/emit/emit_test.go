package emit

import (
	"strings"
	"testing"

	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/ariel-frischer/blockcraft/internal/merge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var testBase = block.Base{
	Owner:       "octo",
	Repository:  "widget",
	Description: "Makes widgets.",
	Author:      "Octo Cat",
	Email:       "octo@example.com",
	License:     "MIT",
	NodeVersion: "20.18.0",
}

func sampleResult() *merge.Result {
	return merge.Merge([]block.Contribution{
		{
			Files:   map[string]string{"src/index.ts": "export {};\n"},
			Package: map[string]any{"type": "module", "scripts": map[string]any{"lint": "eslint . --max-warnings 0"}},
			CSpell:  block.CSpell{Enabled: true, Words: []string{"vitest", "codecov"}, Ignores: []string{"pnpm-lock.yaml"}},
			ESLint: block.ESLint{
				Enabled: true,
				Plugins: []string{"@vitest/eslint-plugin"},
				Ignores: []string{"lib", "node_modules"},
				Rules:   map[string]any{"no-console": []any{"warn", map[string]any{"allow": []any{"error"}}}},
			},
			VSCode: block.VSCode{
				Settings:   map[string]any{"editor.formatOnSave": true},
				Extensions: []string{"vitest.explorer", "dbaeumer.vscode-eslint"},
				Debuggers:  []block.Debugger{{Name: "Vitest", Type: "node", Request: "launch"}, {Name: "Debug", Type: "node", Request: "launch"}},
			},
			Jobs: []block.Job{{Name: "Lint Spelling", Steps: []block.Step{
				{Uses: "actions/checkout@v4"},
				{Run: "pnpm lint:spelling"},
			}}},
			Docs: map[string]block.Section{
				"Testing": {Before: "Run tests:", Items: []string{"```shell\npnpm test\n```"}},
				"Linting": {Before: "Lint with ESLint."},
			},
			Gitignore: []string{"node_modules/", "coverage/"},
		},
	})
}

func TestEmit_Artifacts(t *testing.T) {
	t.Parallel()

	files, err := Emit(sampleResult(), testBase)
	require.NoError(t, err)

	for _, path := range []string{
		"src/index.ts",
		PackageJSONPath,
		CSpellPath,
		ESLintPath,
		VSCodeSettingsPath,
		VSCodeExtensions,
		VSCodeLaunchPath,
		".github/workflows/lint-spelling.yml",
		DevelopmentPath,
		GitignorePath,
	} {
		assert.Contains(t, files, path)
	}

	assert.Equal(t, "coverage/\nnode_modules/\n", files[GitignorePath])
	assert.Equal(t, "{\n\t\"ignorePaths\": [\n\t\t\"pnpm-lock.yaml\"\n\t],\n\t\"words\": [\n\t\t\"codecov\",\n\t\t\"vitest\"\n\t]\n}\n", files[CSpellPath])
	assert.Equal(t, "{\n\t\"recommendations\": [\n\t\t\"dbaeumer.vscode-eslint\",\n\t\t\"vitest.explorer\"\n\t]\n}\n", files[VSCodeExtensions])
}

func TestEmit_PackageJSONTakesBaseFields(t *testing.T) {
	t.Parallel()

	content, err := PackageJSON(map[string]any{"name": "ignored", "type": "module"}, testBase)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(content, "{\n\t\"author\": \"Octo Cat <octo@example.com>\",\n"))
	assert.Contains(t, content, "\"name\": \"widget\"")
	assert.Contains(t, content, "\"node\": \">=20.18.0\"")
	assert.Contains(t, content, "\"url\": \"https://github.com/octo/widget\"")
	assert.Contains(t, content, "\"type\": \"module\"")
	assert.True(t, strings.HasSuffix(content, "}\n"))
}

func TestEmit_Deterministic(t *testing.T) {
	t.Parallel()

	first, err := Emit(sampleResult(), testBase)
	require.NoError(t, err)
	for range 5 {
		again, err := Emit(sampleResult(), testBase)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEmit_Conflict(t *testing.T) {
	t.Parallel()

	r := merge.Merge([]block.Contribution{{
		Files:     map[string]string{GitignorePath: "custom\n"},
		Gitignore: []string{"lib/"},
	}})
	_, err := Emit(r, testBase)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, GitignorePath, conflict.Path)
}

func TestEmit_EmptyResult(t *testing.T) {
	t.Parallel()

	files, err := Emit(merge.Merge(nil), testBase)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLaunch(t *testing.T) {
	t.Parallel()

	content, err := Launch([]block.Debugger{{Name: "Vitest", Type: "node", Request: "launch"}, {Name: "Debug", Type: "node", Request: "launch", SmartStep: true}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(content, "{\n\t\"version\": \"0.2.0\",\n"))
	assert.Less(t, strings.Index(content, "Debug"), strings.Index(content, "Vitest"))
	assert.Contains(t, content, "\"smartStep\": true")
	assert.NotContains(t, content, "skipFiles")
}

func TestESLint(t *testing.T) {
	t.Parallel()

	content, err := ESLint(block.ESLint{
		Ignores: []string{"lib"},
		Plugins: []string{"@vitest/eslint-plugin", "eslint-plugin-markdown"},
		Rules:   map[string]any{"eqeqeq": "error"},
	})
	require.NoError(t, err)

	assert.Contains(t, content, "import vitest from \"@vitest/eslint-plugin\";\n")
	assert.Contains(t, content, "import markdown from \"eslint-plugin-markdown\";\n")
	assert.Contains(t, content, "\t{ ignores: [\n\t\t\"lib\"\n\t] },\n")
	assert.Contains(t, content, "\t\t\tvitest: vitest,\n")
	assert.Contains(t, content, "\t\trules: {\n\t\t\t\"eqeqeq\": \"error\"\n\t\t},\n")
	assert.True(t, strings.HasSuffix(content, ");\n"))
}

func TestPluginIdentifier(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"@vitest/eslint-plugin":            "vitest",
		"eslint-plugin-markdown":           "markdown",
		"@typescript-eslint/eslint-plugin": "typescriptEslint",
		"@scope/eslint-plugin-thing":       "scopeThing",
		"eslint-plugin-n":                  "n",
		"eslint-plugin-1x":                 "plugin1x",
	}
	for pkg, want := range tests {
		t.Run(pkg, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, want, PluginIdentifier(pkg))
		})
	}
}

func TestWorkflow(t *testing.T) {
	t.Parallel()

	content, err := Workflow(block.Job{Name: "Lint Spelling", Steps: []block.Step{
		{Uses: "./.github/actions/prepare"},
		{Run: "pnpm lint:spelling"},
		{Name: "Upload", Uses: "codecov/codecov-action@v3", With: map[string]string{"token": "x", "flags": "unit"}},
	}})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(content, "name: Lint Spelling\n"))
	assert.Less(t, strings.Index(content, "name:"), strings.Index(content, "jobs:"))

	var doc struct {
		Jobs map[string]struct {
			RunsOn string       `yaml:"runs-on"`
			Steps  []block.Step `yaml:"steps"`
		} `yaml:"jobs"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(content), &doc))
	job, ok := doc.Jobs["lint-spelling"]
	require.True(t, ok)
	assert.Equal(t, "ubuntu-latest", job.RunsOn)
	require.Len(t, job.Steps, 3)
	assert.Equal(t, "unit", job.Steps[2].With["flags"])
}

func TestSlug(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "lint-spelling", Slug("Lint Spelling"))
	assert.Equal(t, "test", Slug("  Test!"))
	assert.Equal(t, "type-check-ts", Slug("Type Check (TS)"))
	assert.Equal(t, "", Slug("--"))
}

func TestDevelopment(t *testing.T) {
	t.Parallel()

	doc := Development(testBase, sampleResult())
	assert.True(t, strings.HasPrefix(doc, "# Development\n"))
	assert.Contains(t, doc, "git clone https://github.com/<your-name-here>/widget\n")
	assert.Less(t, strings.Index(doc, "## Linting"), strings.Index(doc, "## Testing"))
	assert.Contains(t, doc, "## Testing\n\nRun tests:\n\n```shell\npnpm test\n```\n")
}
