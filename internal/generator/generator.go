// Package generator runs a complete generation: it resolves project values,
// recovers options from an existing project in transition mode, expands the
// selected blocks, merges their contributions and renders the files.
package generator

import (
	"fmt"
	"sort"

	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/ariel-frischer/blockcraft/internal/emit"
	"github.com/ariel-frischer/blockcraft/internal/intake"
	"github.com/ariel-frischer/blockcraft/internal/merge"
	"github.com/ariel-frischer/blockcraft/internal/produce"
	"github.com/ariel-frischer/blockcraft/internal/registry"
	"github.com/ariel-frischer/blockcraft/internal/versions"
	"go.uber.org/zap"
)

// Plan selects what to generate.
type Plan struct {
	Mode block.Mode
	// Base holds raw project-wide values.
	Base map[string]any
	// Preset is an optional block invoked before the explicit blocks. Its
	// options, if any, are read from Blocks.
	Preset string
	// Blocks maps block names to raw options.
	Blocks map[string]map[string]any
}

// Outcome is everything a generation run produced.
type Outcome struct {
	Base      block.Base
	Files     map[string]string
	Removals  []string
	Scripts   []block.Script
	Overrides []string
	Intake    intake.Report
	// Invocations counts produced block invocations, addons included.
	Invocations int
}

// Paths returns the generated file paths in sorted order.
func (o *Outcome) Paths() []string {
	paths := make([]string, 0, len(o.Files))
	for p := range o.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Generator holds the collaborators of a generation run.
type Generator struct {
	Registry *registry.Registry
	Versions *versions.Table
	Logger   *zap.Logger
	// Source reads the existing project. Required in transition mode.
	Source intake.Source
	// Remote detects owner and repository in transition mode. Optional.
	Remote   RemoteFunc
	MaxDepth int
}

// NothingToGenerateError is returned for a plan without preset or blocks.
type NothingToGenerateError struct{}

func (NothingToGenerateError) Error() string {
	return "nothing to generate: choose a preset or at least one block"
}

// Generate runs the plan.
func (g *Generator) Generate(plan Plan) (*Outcome, error) {
	mode := plan.Mode
	if mode == "" {
		mode = block.ModeSetup
	}
	if mode != block.ModeSetup && mode != block.ModeTransition {
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	log := g.logger().With(zap.String("mode", string(mode)))

	preset, explicit, err := g.roots(plan)
	if err != nil {
		return nil, err
	}

	var seed block.Base
	var report intake.Report
	recovered := produce.Recovered{}
	if mode == block.ModeTransition {
		if g.Source == nil {
			return nil, fmt.Errorf("transition mode needs an existing project to read")
		}
		seed = IntakeBase(g.Source, g.Remote)
		report = g.intake(recovered)
		log.Debug("intake finished", zap.Strings("recognized", report.Recognized()))
	}

	base, err := block.ResolveBase(plan.Base, seed)
	if err != nil {
		return nil, err
	}

	ctx := block.Context{Base: base, Versions: g.versions(), Mode: mode}
	if mode == block.ModeTransition {
		ctx.Project = g.Source
	}
	engine := &produce.Engine{
		Context:    ctx,
		Recovered:  recovered,
		Configured: produce.Configured(plan.Blocks),
		MaxDepth:   g.MaxDepth,
		Logger:     log,
	}
	tree, err := produceTree(engine, preset, explicit)
	if err != nil {
		return nil, err
	}

	result := merge.Merge(tree.Flatten())
	files, err := emit.Emit(result, base)
	if err != nil {
		return nil, err
	}

	log.Info("generated project",
		zap.String("repository", base.Slug()),
		zap.Int("blocks", tree.Count()),
		zap.Int("files", len(files)),
		zap.Int("removals", len(result.Removals)),
		zap.Strings("overrides", result.Overrides))

	return &Outcome{
		Base:        base,
		Files:       files,
		Removals:    result.Removals,
		Scripts:     result.Scripts,
		Overrides:   result.Overrides,
		Intake:      report,
		Invocations: tree.Count(),
	}, nil
}

// roots looks up the preset and the explicit blocks, the latter in name
// order. Options come from the engine's Configured map, so every root is a
// default invocation.
func (g *Generator) roots(plan Plan) (preset []block.Invocation, explicit []block.Invocation, err error) {
	if g.Registry == nil {
		return nil, nil, fmt.Errorf("generator has no block registry")
	}

	var names []string
	for name := range plan.Blocks {
		if name != plan.Preset {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if plan.Preset == "" && len(names) == 0 {
		return nil, nil, NothingToGenerateError{}
	}

	if plan.Preset != "" {
		found, err := g.Registry.Lookup(plan.Preset)
		if err != nil {
			return nil, nil, err
		}
		preset = []block.Invocation{block.Use(found[0], nil)}
	}
	found, err := g.Registry.Lookup(names...)
	if err != nil {
		return nil, nil, err
	}
	for _, b := range found {
		explicit = append(explicit, block.Use(b, nil))
	}
	return preset, explicit, nil
}

// produceTree expands the preset, then adds a root for each explicit block
// the preset did not already reach.
func produceTree(engine *produce.Engine, preset, explicit []block.Invocation) (*produce.Node, error) {
	tree, err := engine.Produce(preset)
	if err != nil {
		return nil, err
	}
	reached := tree.Names()
	var extra []block.Invocation
	for _, inv := range explicit {
		if !reached[inv.Block.Name()] {
			extra = append(extra, inv)
		}
	}
	more, err := engine.Produce(extra)
	if err != nil {
		return nil, err
	}
	tree.Children = append(tree.Children, more.Children...)
	return tree, nil
}

// intake asks every block that supports it to recover its options, filling
// recovered with the recognized ones.
func (g *Generator) intake(recovered produce.Recovered) intake.Report {
	ic := block.IntakeContext{Source: g.Source}
	var report intake.Report
	for _, b := range g.Registry.All() {
		if !b.CanIntake() {
			continue
		}
		opts, state := b.Intake(ic)
		entry := intake.Entry{Name: b.Name(), State: state.String()}
		if state == intake.Recognized {
			recovered[b.Name()] = opts
			entry.Options = opts
		}
		report = append(report, entry)
	}
	return report
}

// Intake reports what would be recovered from the project without
// generating anything.
func (g *Generator) Intake() (block.Base, intake.Report, error) {
	if g.Registry == nil {
		return block.Base{}, nil, fmt.Errorf("generator has no block registry")
	}
	if g.Source == nil {
		return block.Base{}, nil, fmt.Errorf("intake needs an existing project to read")
	}
	return IntakeBase(g.Source, g.Remote), g.intake(produce.Recovered{}), nil
}

func (g *Generator) versions() *versions.Table {
	if g.Versions == nil {
		return versions.Default()
	}
	return g.Versions
}

func (g *Generator) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}
