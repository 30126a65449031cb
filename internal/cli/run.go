package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ariel-frischer/blockcraft/internal/block"
	clierrors "github.com/ariel-frischer/blockcraft/internal/errors"
	"github.com/ariel-frischer/blockcraft/internal/generator"
	"github.com/ariel-frischer/blockcraft/internal/history"
	"github.com/ariel-frischer/blockcraft/internal/intake"
	"github.com/ariel-frischer/blockcraft/internal/output"
	"github.com/ariel-frischer/blockcraft/internal/progress"
	"github.com/ariel-frischer/blockcraft/internal/scripts"
	"github.com/ariel-frischer/blockcraft/internal/workspace"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// Generation flag names shared by generate and transition.
const (
	flagDryRun     = "dry-run"
	flagRunScripts = "run-scripts"
	flagPreset     = "preset"
	flagBlock      = "block"
	flagParallel   = "parallel"
)

func addGenerationFlags(flags *pflag.FlagSet) {
	flags.Bool(flagDryRun, false, "Show what would change without writing")
	flags.Bool(flagRunScripts, false, "Run install and fix-up scripts after writing")
	flags.String(flagPreset, "", "Preset block to start from (overrides config)")
	flags.StringSlice(flagBlock, nil, "Additional block to invoke with default options (repeatable)")
	flags.Int(flagParallel, 0, "Maximum scripts run at once per phase (0 = no limit)")
}

// applyGenerationFlags lets explicitly set flags win over configuration.
func (s *session) applyGenerationFlags(flags *pflag.FlagSet) {
	if flags.Changed(flagDryRun) {
		s.cfg.DryRun, _ = flags.GetBool(flagDryRun)
	}
	if flags.Changed(flagRunScripts) {
		s.cfg.RunScripts, _ = flags.GetBool(flagRunScripts)
	}
	if flags.Changed(flagPreset) {
		s.cfg.Preset, _ = flags.GetString(flagPreset)
	}
	names, _ := flags.GetStringSlice(flagBlock)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if s.cfg.Blocks == nil {
			s.cfg.Blocks = make(map[string]map[string]any)
		}
		if _, ok := s.cfg.Blocks[name]; !ok {
			s.cfg.Blocks[name] = map[string]any{}
		}
	}
}

// generation runs one generate or transition pass.
type generation struct {
	session  *session
	mode     block.Mode
	parallel int

	// Filled in by run for the history entry.
	invocations int
	counts      map[string]int
}

// newGeneration loads configuration for one pass. An empty mode takes the
// configured one.
func newGeneration(cmd *cobra.Command, mode block.Mode) (*generation, error) {
	s, err := newSession(cmd)
	if err != nil {
		return nil, err
	}
	if mode == "" {
		mode = block.Mode(s.cfg.Mode)
	}
	s.applyGenerationFlags(cmd.Flags())
	parallel, _ := cmd.Flags().GetInt(flagParallel)
	if parallel < 0 {
		s.close()
		return nil, usageError(cmd, "--%s must not be negative", flagParallel)
	}
	return &generation{session: s, mode: mode, parallel: parallel}, nil
}

// execute runs the pass and records it in the project history unless it is
// a dry run or the project has no .blockcraft directory.
func (g *generation) execute(ctx context.Context) error {
	start := time.Now()
	err := g.run(ctx)

	cfg := g.session.cfg
	dir := g.session.stateDir
	if cfg.DryRun || cfg.HistoryLimit == 0 {
		return err
	}
	if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
		return err
	}
	w := history.NewWriter(dir, cfg.HistoryLimit)
	w.Warnings = g.session.errOut
	w.LogRun(string(g.mode), cfg.Preset, g.invocations, g.counts, ExitCode(err), err, time.Since(start))
	return err
}

func (g *generation) run(ctx context.Context) error {
	s := g.session
	cfg := s.cfg

	if g.mode == block.ModeTransition {
		if _, err := os.Stat(filepath.Join(cfg.Directory, "package.json")); err != nil {
			return clierrors.NotAProject(cfg.Directory)
		}
	}

	gen, err := s.generator()
	if err != nil {
		return err
	}
	outcome, err := gen.Generate(s.plan(g.mode))
	if err != nil {
		return err
	}
	g.invocations = outcome.Invocations
	s.logger.Debug("generated",
		zap.String("mode", string(g.mode)),
		zap.Int("invocations", outcome.Invocations),
		zap.Int("files", len(outcome.Files)),
		zap.Strings("recovered", outcome.Intake.Recognized()))

	changes, err := workspace.Apply(workspace.NewRealFS(), cfg.Directory, workspace.Plan{
		Files:    outcome.Files,
		Removals: outcome.Removals,
	}, workspace.Options{DryRun: cfg.DryRun})
	if err != nil {
		return err
	}

	g.report(outcome, changes)

	if len(outcome.Scripts) == 0 {
		return nil
	}
	if !cfg.RunScripts || cfg.DryRun {
		g.printNextSteps(outcome.Scripts)
		return nil
	}
	runner := &scripts.Runner{
		Dir:      cfg.Directory,
		Stdout:   s.out,
		Stderr:   s.errOut,
		Logger:   s.logger,
		Display:  progress.NewDisplay(s.out, progress.DetectTerminalCapabilities()),
		Parallel: g.parallel,
	}
	return runner.Run(ctx, outcome.Scripts)
}

func (g *generation) report(outcome *generator.Outcome, changes []workspace.Change) {
	s := g.session
	title := fmt.Sprintf("blockcraft %s: %s", g.mode, s.cfg.Directory)
	output.PrintHeader(s.out, title)

	verbose := s.cfg.LogLevel == "debug"
	for _, c := range changes {
		if c.Action == workspace.ActionUnchanged && !verbose {
			continue
		}
		output.PrintChange(s.out, string(c.Action), c.Path)
	}

	g.counts = make(map[string]int)
	for action, n := range workspace.Summary(changes) {
		g.counts[string(action)] = n
	}
	output.PrintSummary(s.out, g.counts, s.cfg.DryRun)

	for _, path := range outcome.Overrides {
		output.PrintWarning(s.errOut, fmt.Sprintf("%s was written by more than one block; the last one won", path))
	}
	for _, entry := range outcome.Intake {
		if entry.State == intake.Malformed.String() {
			output.PrintWarning(s.errOut, fmt.Sprintf("could not read existing %s config; using defaults", entry.Name))
		}
	}
}

func (g *generation) printNextSteps(list []block.Script) {
	out := g.session.out
	fmt.Fprintln(out, "\nNext steps:")
	for _, script := range list {
		for _, command := range script.Commands {
			fmt.Fprintf(out, "  %s\n", command)
		}
	}
}

func (g *generation) close() {
	g.session.close()
}
