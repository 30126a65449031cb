// Package merge combines block contributions into one value per artifact.
//
// Policy:
//   - mapping artifacts (package.json, settings) deep-merge; later
//     contributions win on scalar keys and lists are unioned and sorted
//   - list artifacts (spelling words, ignore globs, extensions) are unioned,
//     de-duplicated and sorted
//   - files are last-writer-wins
//   - keyed collections (jobs, docs sections, debuggers, scripts) merge by key
//     and are read back in sorted key order; a job step replaces the earlier
//     step of the same name where that one stood
//
// Given the same set of contributions the result does not depend on the order
// the blocks were invoked in, except where last-writer-wins applies.
package merge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ariel-frischer/blockcraft/internal/block"
)

// Result is the merged output of a generation run.
type Result struct {
	Files map[string]string
	// Overrides lists paths written by more than one contribution with
	// different content.
	Overrides []string
	Removals  []string
	Scripts   []block.Script
	Package   map[string]any
	CSpell    block.CSpell
	ESLint    block.ESLint
	VSCode    block.VSCode
	Jobs      map[string]block.Job
	Docs      map[string]block.Section
	Gitignore []string

	debuggers map[string]block.Debugger
	scriptSet map[string]bool
}

// NewResult returns an empty accumulator.
func NewResult() *Result {
	return &Result{
		Files:     make(map[string]string),
		Jobs:      make(map[string]block.Job),
		Docs:      make(map[string]block.Section),
		debuggers: make(map[string]block.Debugger),
		scriptSet: make(map[string]bool),
	}
}

// Merge folds contributions in order and normalizes the result.
func Merge(contributions []block.Contribution) *Result {
	r := NewResult()
	for _, c := range contributions {
		r.Add(c)
	}
	r.Normalize()
	return r
}

// Add folds one contribution into the accumulator. Call Normalize once all
// contributions are added.
func (r *Result) Add(c block.Contribution) {
	r.addFiles(c.Files)
	r.Removals = append(r.Removals, c.Removals...)
	r.addScripts(c.Scripts)

	if len(c.Package) > 0 {
		r.Package = DeepMerge(r.Package, c.Package)
	}

	r.CSpell.Enabled = r.CSpell.Enabled || c.CSpell.Enabled
	r.CSpell.Ignores = append(r.CSpell.Ignores, c.CSpell.Ignores...)
	r.CSpell.Words = append(r.CSpell.Words, c.CSpell.Words...)

	r.ESLint.Enabled = r.ESLint.Enabled || c.ESLint.Enabled
	r.ESLint.Ignores = append(r.ESLint.Ignores, c.ESLint.Ignores...)
	r.ESLint.Plugins = append(r.ESLint.Plugins, c.ESLint.Plugins...)
	if len(c.ESLint.Rules) > 0 {
		// A rule's value is an ordered tuple, so rules override whole.
		if r.ESLint.Rules == nil {
			r.ESLint.Rules = make(map[string]any)
		}
		for name, value := range c.ESLint.Rules {
			r.ESLint.Rules[name] = value
		}
	}
	if len(c.ESLint.Settings) > 0 {
		r.ESLint.Settings = DeepMerge(r.ESLint.Settings, c.ESLint.Settings)
	}

	if len(c.VSCode.Settings) > 0 {
		r.VSCode.Settings = DeepMerge(r.VSCode.Settings, c.VSCode.Settings)
	}
	r.VSCode.Extensions = append(r.VSCode.Extensions, c.VSCode.Extensions...)
	for _, d := range c.VSCode.Debuggers {
		r.debuggers[d.Name] = d
	}

	for _, job := range c.Jobs {
		r.addJob(job)
	}
	for name, section := range c.Docs {
		r.addSection(name, section)
	}
	r.Gitignore = append(r.Gitignore, c.Gitignore...)
}

func (r *Result) addFiles(files map[string]string) {
	for path, content := range files {
		if prev, ok := r.Files[path]; ok && prev != content {
			r.Overrides = append(r.Overrides, path)
		}
		r.Files[path] = content
	}
}

func (r *Result) addScripts(scripts []block.Script) {
	for _, s := range scripts {
		if len(s.Commands) == 0 {
			continue
		}
		key := scriptKey(s)
		if r.scriptSet[key] {
			continue
		}
		r.scriptSet[key] = true
		r.Scripts = append(r.Scripts, block.Script{
			Phase:    s.Phase,
			Commands: append([]string(nil), s.Commands...),
		})
	}
}

func (r *Result) addJob(job block.Job) {
	existing, ok := r.Jobs[job.Name]
	if !ok {
		existing = block.Job{Name: job.Name}
	}
	for _, step := range job.Steps {
		if i := stepIndex(existing.Steps, step); i >= 0 {
			existing.Steps[i] = step
			continue
		}
		existing.Steps = append(existing.Steps, step)
	}
	r.Jobs[job.Name] = existing
}

// stepIndex finds the step a new one replaces: the same name, or for
// unnamed steps the same action and command.
func stepIndex(steps []block.Step, step block.Step) int {
	for i, s := range steps {
		if step.Name != "" && s.Name == step.Name {
			return i
		}
		if step.Name == "" && s.Uses == step.Uses && s.Run == step.Run {
			return i
		}
	}
	return -1
}

func (r *Result) addSection(name string, section block.Section) {
	existing := r.Docs[name]
	if section.Before != "" {
		existing.Before = section.Before
	}
	if section.After != "" {
		existing.After = section.After
	}
	for _, item := range section.Items {
		if !contains(existing.Items, item) {
			existing.Items = append(existing.Items, item)
		}
	}
	r.Docs[name] = existing
}

// Normalize sorts and de-duplicates every list and orders scripts and
// debuggers. It is idempotent.
func (r *Result) Normalize() {
	r.Overrides = UnionStrings(r.Overrides)
	r.Removals = withoutWritten(UnionStrings(r.Removals), r.Files)
	r.CSpell.Ignores = UnionStrings(r.CSpell.Ignores)
	r.CSpell.Words = UnionStrings(r.CSpell.Words)
	r.ESLint.Ignores = UnionStrings(r.ESLint.Ignores)
	r.ESLint.Plugins = UnionStrings(r.ESLint.Plugins)
	r.VSCode.Extensions = UnionStrings(r.VSCode.Extensions)
	r.Gitignore = UnionStrings(r.Gitignore)

	r.VSCode.Debuggers = r.VSCode.Debuggers[:0]
	for _, name := range sortedKeys(r.debuggers) {
		r.VSCode.Debuggers = append(r.VSCode.Debuggers, r.debuggers[name])
	}

	sort.SliceStable(r.Scripts, func(i, j int) bool {
		if r.Scripts[i].Phase != r.Scripts[j].Phase {
			return r.Scripts[i].Phase < r.Scripts[j].Phase
		}
		return scriptKey(r.Scripts[i]) < scriptKey(r.Scripts[j])
	})
}

// JobNames returns job names sorted.
func (r *Result) JobNames() []string {
	return sortedKeys(r.Jobs)
}

// SectionNames returns docs section names sorted.
func (r *Result) SectionNames() []string {
	return sortedKeys(r.Docs)
}

// HasCSpell reports whether a block enabled spell checking.
func (r *Result) HasCSpell() bool {
	return r.CSpell.Enabled
}

// HasESLint reports whether a block enabled linting.
func (r *Result) HasESLint() bool {
	return r.ESLint.Enabled
}

func scriptKey(s block.Script) string {
	return fmt.Sprintf("%d\x00%s", s.Phase, strings.Join(s.Commands, "\x00"))
}

func withoutWritten(paths []string, files map[string]string) []string {
	out := paths[:0]
	for _, p := range paths {
		if _, written := files[p]; !written {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
