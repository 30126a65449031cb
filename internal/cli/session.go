package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/ariel-frischer/blockcraft/internal/blocks"
	"github.com/ariel-frischer/blockcraft/internal/config"
	clierrors "github.com/ariel-frischer/blockcraft/internal/errors"
	"github.com/ariel-frischer/blockcraft/internal/generator"
	"github.com/ariel-frischer/blockcraft/internal/git"
	"github.com/ariel-frischer/blockcraft/internal/intake"
	"github.com/ariel-frischer/blockcraft/internal/logging"
	"github.com/ariel-frischer/blockcraft/internal/versions"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// versionsFile pins package versions for one project.
const versionsFile = "versions.yml"

// session is the loaded configuration and logger shared by a command run.
type session struct {
	cfg *config.Configuration
	// projectDir is where the configuration was loaded from.
	projectDir string
	// stateDir holds the pinned versions and run history of the generated
	// project, .blockcraft under cfg.Directory.
	stateDir string

	logger *zap.Logger
	out    io.Writer
	errOut io.Writer
}

func newSession(cmd *cobra.Command) (*session, error) {
	flags := cmd.Flags()
	projectDir, _ := flags.GetString(flagDirectory)
	cfgPath, _ := flags.GetString(flagConfig)

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectDir:        projectDir,
		ProjectConfigPath: cfgPath,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, clierrors.InvalidConfig(err)
	}

	if verbose, _ := flags.GetBool(flagVerbose); verbose {
		cfg.LogLevel = "debug"
	}
	if flags.Changed(flagLogFormat) {
		cfg.LogFormat, _ = flags.GetString(flagLogFormat)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return nil, clierrors.NewArgumentError(err.Error(), "Use --log-format console or --log-format json")
	}
	git.SetDebugLogger(logging.Printf(logger))
	logger.Debug("configuration loaded",
		zap.String("mode", cfg.Mode),
		zap.String("directory", cfg.Directory),
		zap.String("preset", cfg.Preset),
		zap.Int("blocks", len(cfg.Blocks)))

	return &session{
		cfg:        cfg,
		projectDir: projectDir,
		stateDir:   config.ProjectConfigDir(cfg.Directory),
		logger:     logger,
		out:        cmd.OutOrStdout(),
		errOut:     cmd.ErrOrStderr(),
	}, nil
}

// generator wires the block catalog, version table and project readers.
func (s *session) generator() (*generator.Generator, error) {
	table, err := s.versions()
	if err != nil {
		return nil, err
	}
	dir := s.cfg.Directory
	return &generator.Generator{
		Registry: blocks.NewRegistry(),
		Versions: table,
		Logger:   s.logger,
		Source:   intake.DirSource{Root: dir},
		Remote: func() (string, string, bool) {
			return git.RemoteRepository(dir)
		},
		MaxDepth: s.cfg.MaxDepth,
	}, nil
}

// versions overlays the project's versions.yml, when present, on the
// embedded table.
func (s *session) versions() (*versions.Table, error) {
	path := filepath.Join(s.stateDir, versionsFile)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return versions.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	pinned, err := versions.Load(f)
	if err != nil {
		return nil, clierrors.WrapWithMessage(err, clierrors.Configuration, path,
			"Each entry must map a package name to a version range")
	}
	s.logger.Debug("pinned package versions", zap.String("path", path), zap.Strings("packages", pinned.Names()))
	return versions.Default().Overlay(pinned), nil
}

func (s *session) plan(mode block.Mode) generator.Plan {
	return generator.Plan{
		Mode:   mode,
		Base:   s.cfg.Base,
		Preset: s.cfg.Preset,
		Blocks: s.cfg.Blocks,
	}
}

func (s *session) close() {
	_ = s.logger.Sync()
}
