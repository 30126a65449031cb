// Package emit serializes a merge result into file contents.
//
// Every artifact is rendered deterministically: map keys are sorted, lists
// arrive sorted from the merge engine, and JSON is tab-indented with a
// trailing newline. Emitting the same result twice yields identical bytes.
package emit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/ariel-frischer/blockcraft/internal/merge"
)

// Well-known artifact paths.
const (
	PackageJSONPath    = "package.json"
	CSpellPath         = "cspell.json"
	ESLintPath         = "eslint.config.js"
	VSCodeSettingsPath = ".vscode/settings.json"
	VSCodeExtensions   = ".vscode/extensions.json"
	VSCodeLaunchPath   = ".vscode/launch.json"
	DevelopmentPath    = ".github/DEVELOPMENT.md"
	GitignorePath      = ".gitignore"
	WorkflowsDir       = ".github/workflows"
)

// ConflictError reports a path that a block wrote directly and that is also
// generated from merged fragments.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s is generated from block fragments and cannot also be written as a file", e.Path)
}

// Emit returns the full path -> content map for a merge result.
func Emit(r *merge.Result, base block.Base) (map[string]string, error) {
	out := make(map[string]string, len(r.Files)+8)
	for path, content := range r.Files {
		out[path] = content
	}

	generated := make(map[string]string)
	add := func(path, content string) {
		generated[path] = content
	}

	if len(r.Package) > 0 {
		content, err := PackageJSON(r.Package, base)
		if err != nil {
			return nil, err
		}
		add(PackageJSONPath, content)
	}
	if r.HasCSpell() {
		content, err := CSpell(r.CSpell)
		if err != nil {
			return nil, err
		}
		add(CSpellPath, content)
	}
	if r.HasESLint() {
		content, err := ESLint(r.ESLint)
		if err != nil {
			return nil, err
		}
		add(ESLintPath, content)
	}
	if len(r.VSCode.Settings) > 0 {
		content, err := JSON(r.VSCode.Settings)
		if err != nil {
			return nil, err
		}
		add(VSCodeSettingsPath, content)
	}
	if len(r.VSCode.Extensions) > 0 {
		content, err := JSON(map[string]any{"recommendations": r.VSCode.Extensions})
		if err != nil {
			return nil, err
		}
		add(VSCodeExtensions, content)
	}
	if len(r.VSCode.Debuggers) > 0 {
		content, err := Launch(r.VSCode.Debuggers)
		if err != nil {
			return nil, err
		}
		add(VSCodeLaunchPath, content)
	}
	for _, name := range r.JobNames() {
		content, err := Workflow(r.Jobs[name])
		if err != nil {
			return nil, err
		}
		add(WorkflowPath(name), content)
	}
	if len(r.Docs) > 0 {
		add(DevelopmentPath, Development(base, r))
	}
	if len(r.Gitignore) > 0 {
		add(GitignorePath, strings.Join(merge.UnionStrings(r.Gitignore), "\n")+"\n")
	}

	for _, path := range sortedPaths(generated) {
		if _, ok := out[path]; ok {
			return nil, &ConflictError{Path: path}
		}
		out[path] = generated[path]
	}
	return out, nil
}

// JSON renders v as tab-indented JSON with sorted keys and a trailing
// newline. HTML characters are not escaped.
func JSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "\t")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encoding JSON: %w", err)
	}
	return buf.String(), nil
}

// PackageJSON overlays base project fields on the merged package fragment.
func PackageJSON(pkg map[string]any, base block.Base) (string, error) {
	fields := map[string]any{
		"name": base.Repository,
		"repository": map[string]any{
			"type": "git",
			"url":  "https://github.com/" + base.Slug(),
		},
	}
	if base.Description != "" {
		fields["description"] = base.Description
	}
	if author := authorField(base); author != "" {
		fields["author"] = author
	}
	if base.License != "" {
		fields["license"] = base.License
	}
	if base.NodeVersion != "" {
		fields["engines"] = map[string]any{"node": ">=" + base.NodeVersion}
	}
	return JSON(merge.DeepMerge(merge.DeepMerge(nil, pkg), fields))
}

func authorField(base block.Base) string {
	switch {
	case base.Author != "" && base.Email != "":
		return fmt.Sprintf("%s <%s>", base.Author, base.Email)
	case base.Author != "":
		return base.Author
	default:
		return base.Email
	}
}

// CSpell renders cspell.json.
func CSpell(c block.CSpell) (string, error) {
	doc := map[string]any{}
	if len(c.Ignores) > 0 {
		doc["ignorePaths"] = c.Ignores
	}
	if len(c.Words) > 0 {
		doc["words"] = c.Words
	}
	return JSON(doc)
}

type launchFile struct {
	Version        string           `json:"version"`
	Configurations []block.Debugger `json:"configurations"`
}

// Launch renders .vscode/launch.json with configurations sorted by name.
func Launch(debuggers []block.Debugger) (string, error) {
	sorted := append([]block.Debugger(nil), debuggers...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return JSON(launchFile{Version: "0.2.0", Configurations: sorted})
}

// Development renders the development guide from docs sections.
func Development(base block.Base, r *merge.Result) string {
	var b strings.Builder
	b.WriteString("# Development\n\n")
	fmt.Fprintf(&b, "After [forking the repo from GitHub](https://help.github.com/articles/fork-a-repo) and [installing pnpm](https://pnpm.io/installation):\n\n")
	fmt.Fprintf(&b, "```shell\ngit clone https://github.com/<your-name-here>/%s\ncd %s\npnpm install\n```\n", base.Repository, base.Repository)

	for _, name := range r.SectionNames() {
		section := r.Docs[name]
		fmt.Fprintf(&b, "\n## %s\n", name)
		for _, part := range sectionParts(section) {
			b.WriteString("\n")
			b.WriteString(part)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func sectionParts(s block.Section) []string {
	var parts []string
	if text := strings.TrimSpace(s.Before); text != "" {
		parts = append(parts, text)
	}
	for _, item := range s.Items {
		if text := strings.TrimSpace(item); text != "" {
			parts = append(parts, text)
		}
	}
	if text := strings.TrimSpace(s.After); text != "" {
		parts = append(parts, text)
	}
	return parts
}

func sortedPaths(m map[string]string) []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
