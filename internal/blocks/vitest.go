package blocks

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/ariel-frischer/blockcraft/internal/intake"
)

// VitestOptions configures unit tests.
type VitestOptions struct {
	Coverage  bool     `mapstructure:"coverage" yaml:"coverage,omitempty"`
	Directory string   `mapstructure:"directory" yaml:"directory,omitempty" validate:"required"`
	Exclude   []string `mapstructure:"exclude" yaml:"exclude,omitempty" validate:"dive,required"`
}

const vitestConfigPath = "vitest.config.ts"

func quoted(items []string) string {
	q := make([]string, len(items))
	for i, item := range items {
		q[i] = fmt.Sprintf("%q", item)
	}
	return "[" + strings.Join(q, ", ") + "]"
}

func vitestConfig(o VitestOptions) string {
	var b strings.Builder
	b.WriteString("import { defineConfig } from \"vitest/config\";\n\n")
	b.WriteString("export default defineConfig({\n\ttest: {\n\t\tclearMocks: true,\n")
	if o.Coverage {
		fmt.Fprintf(&b, "\t\tcoverage: {\n\t\t\tall: true,\n\t\t\tinclude: [%q],\n\t\t\treporter: [\"html\", \"lcov\"],\n\t\t},\n", o.Directory)
	}
	exclude := append([]string{"lib", "node_modules"}, o.Exclude...)
	fmt.Fprintf(&b, "\t\texclude: %s,\n", quoted(exclude))
	fmt.Fprintf(&b, "\t\tinclude: [%q],\n", o.Directory+"/**/*.test.ts")
	b.WriteString("\t},\n});\n")
	return b.String()
}

// Vitest contributes unit tests with Vitest, adding Codecov when coverage is
// enabled.
var Vitest = block.Define(NameVitest, "unit tests with Vitest",
	func() VitestOptions { return VitestOptions{Directory: "src"} },
	func(ctx block.Context, o VitestOptions) block.Contribution {
		deps := []string{"@vitest/eslint-plugin", "vitest"}
		testRun := "pnpm run test"
		if o.Coverage {
			deps = append(deps, "@vitest/coverage-v8")
			testRun += " --coverage"
		}

		c := block.Contribution{
			Files: map[string]string{vitestConfigPath: vitestConfig(o)},
			Package: map[string]any{
				"scripts":         map[string]any{"test": "vitest"},
				"devDependencies": devDependencies(ctx, deps...),
			},
			CSpell:    block.CSpell{Ignores: []string{"coverage"}, Words: []string{"vitest"}},
			ESLint:    block.ESLint{Ignores: []string{"coverage"}, Plugins: []string{"@vitest/eslint-plugin"}},
			Gitignore: []string{"coverage/"},
			Jobs: []block.Job{{
				Name: "Test",
				Steps: append(ciJob("Test").Steps, block.Step{Name: "Test", Run: testRun}),
			}},
			VSCode: block.VSCode{
				Extensions: []string{"vitest.explorer"},
				Debuggers: []block.Debugger{{
					Name:                     "Debug Current Test File",
					Type:                     "node",
					Request:                  "launch",
					Args:                     []string{"run", "${relativeFile}"},
					AutoAttachChildProcesses: true,
					Console:                  "integratedTerminal",
					Program:                  "${workspaceRoot}/node_modules/vitest/vitest.mjs",
					SkipFiles:                []string{"<node_internals>/**", "**/node_modules/**"},
					SmartStep:                true,
				}},
			},
			Docs: map[string]block.Section{
				SectionTesting: {
					Before: "[Vitest](https://vitest.dev) is used for tests.\nYou can run it locally on the command-line:",
					Items:  []string{shellBlock("pnpm run test")},
				},
			},
		}
		if o.Coverage {
			section := c.Docs[SectionTesting]
			section.After = "Add the `--coverage` flag to compute test coverage and place reports in the `coverage/` directory:\n\n" + shellBlock("pnpm run test --coverage")
			c.Docs[SectionTesting] = section
			c.Addons = []block.Invocation{Codecov.Default()}
		}
		return c
	}).
	WithSetup(func(ctx block.Context, o VitestOptions) block.Contribution {
		return block.Contribution{Files: map[string]string{
			o.Directory + "/index.test.ts": "import { describe, expect, it } from \"vitest\";\n\n" +
				"import { greet } from \"./index.js\";\n\n" +
				"describe(\"greet\", () => {\n\tit(\"greets by name\", () => {\n\t\texpect(greet(\"you\")).toBe(\"Hello, you!\");\n\t});\n});\n",
		}}
	}).
	WithIntake(func(ic block.IntakeContext) intake.Result[VitestOptions] {
		return intake.Map(intake.Text(ic.Source, vitestConfigPath), func(text string) (VitestOptions, bool) {
			if !strings.Contains(text, "defineConfig") {
				return VitestOptions{}, false
			}
			return VitestOptions{Coverage: strings.Contains(text, "coverage:")}, true
		})
	})
