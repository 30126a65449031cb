// Package blocks is the catalog of concrete blocks. Block content is kept
// small: each block contributes the files, package fields and editor and CI
// settings for one piece of repository tooling.
package blocks

import (
	"strings"

	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/ariel-frischer/blockcraft/internal/merge"
	"github.com/ariel-frischer/blockcraft/internal/registry"
	"github.com/ariel-frischer/blockcraft/internal/versions"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Block names.
const (
	NamePackageJSON      = "package-json"
	NameReadme           = "readme"
	NameGitignore        = "gitignore"
	NameCSpell           = "cspell"
	NameESLint           = "eslint"
	NamePrettier         = "prettier"
	NameMarkdownlint     = "markdownlint"
	NameVitest           = "vitest"
	NameCodecov          = "codecov"
	NameGitHubActionsCI  = "github-actions-ci"
	NameVSCode           = "vscode"
	NameContributingDocs = "contributing-docs"
	NamePresetMinimal    = "preset-minimal"
	NamePresetCommon     = "preset-common"
)

// Docs section names shared by several blocks.
const (
	SectionBuilding   = "Building"
	SectionFormatting = "Formatting"
	SectionLinting    = "Linting"
	SectionTesting    = "Testing"
)

const lintingIntro = "This package includes several forms of linting to enforce consistent code quality and styling.\n" +
	"Each should be shown in VS Code, and can be run manually on the command-line:"

// All returns every catalog block.
func All() []block.Block {
	return []block.Block{
		PackageJSON,
		Readme,
		Gitignore,
		CSpell,
		ESLint,
		Prettier,
		Markdownlint,
		Vitest,
		Codecov,
		GitHubActionsCI,
		VSCode,
		ContributingDocs,
		PresetMinimal,
		PresetCommon,
	}
}

// Register adds every catalog block to r.
func Register(r *registry.Registry) {
	for _, b := range All() {
		r.Register(b)
	}
}

// NewRegistry returns a registry holding the catalog.
func NewRegistry() *registry.Registry {
	r := registry.New()
	Register(r)
	return r
}

// Presets lists the blocks that only select other blocks.
func Presets() []string {
	return []string{NamePresetCommon, NamePresetMinimal}
}

func devDependencies(ctx block.Context, names ...string) map[string]any {
	table := ctx.Versions
	if table == nil {
		table = versions.Default()
	}
	return table.Dependencies(names...)
}

// ciJob is a job that checks out the repository, prepares Node and pnpm,
// then runs commands.
func ciJob(name string, run ...string) block.Job {
	steps := []block.Step{
		{Uses: "actions/checkout@v4"},
		{Uses: "./.github/actions/prepare"},
	}
	for _, cmd := range run {
		steps = append(steps, block.Step{Run: cmd})
	}
	return block.Job{Name: name, Steps: steps}
}

func shellBlock(commands ...string) string {
	return "```shell\n" + strings.Join(commands, "\n") + "\n```"
}

// ignoreFile renders a sorted, de-duplicated ignore file.
func ignoreFile(lists ...[]string) string {
	return strings.Join(merge.UnionStrings(lists...), "\n") + "\n"
}

// validSemver filters recovered versions so intake never seeds a value that
// option validation would reject.
func validSemver(v string) bool {
	return v != "" && validate.Var(v, "semver") == nil
}
