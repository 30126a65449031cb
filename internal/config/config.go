// Package config provides hierarchical configuration management for blockcraft using koanf.
// Configuration is loaded with priority: environment variables > project config
// (.blockcraft/config.{yml,yaml,json,hcl}) > user config (~/.config/blockcraft/config.yml) > defaults.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BLOCKCRAFT_"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
)

// Configuration represents the blockcraft CLI tool configuration
type Configuration struct {
	// Mode is "setup" for a new project or "transition" for an existing one.
	Mode string `koanf:"mode" validate:"oneof=setup transition"`
	// Preset names a block invoked before the explicit blocks.
	Preset string `koanf:"preset"`
	// Directory is the project root files are written to.
	Directory string `koanf:"directory" validate:"required"`

	LogLevel  string `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `koanf:"log_format" validate:"oneof=console json"`

	DryRun     bool `koanf:"dry_run"`
	RunScripts bool `koanf:"run_scripts"`
	// MaxDepth bounds addon nesting.
	MaxDepth int `koanf:"max_depth" validate:"min=1,max=256"`
	// HistoryLimit caps entries kept in .blockcraft/history.yml; 0 disables it.
	HistoryLimit int `koanf:"history_limit" validate:"min=0"`

	// Base holds project-wide values (owner, repository, title, ...).
	Base map[string]any `koanf:"base"`
	// Blocks maps block names to raw options. Listing a block selects it.
	Blocks map[string]map[string]any `koanf:"blocks"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectDir holds the .blockcraft directory (default: current directory).
	ProjectDir string
	// ProjectConfigPath overrides project config discovery.
	ProjectConfigPath string
	// UserConfigPath overrides the user config location.
	UserConfigPath string
	// WarningWriter receives warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k, err := Layers(opts)
	if err != nil {
		return nil, err
	}
	return finalizeConfig(k, opts.ProjectDir)
}

// Layers loads every configuration source into one koanf instance without
// decoding it. It backs `config show`.
func Layers(opts LoadOptions) (*koanf.Koanf, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if err := loadUserConfig(k, opts.UserConfigPath); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts, warningWriter); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}
	return k, nil
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	defaults := GetDefaults()
	for key, value := range defaults {
		_ = k.Set(key, value)
	}
}

// loadUserConfig loads ~/.config/blockcraft/config.yml when it exists.
func loadUserConfig(k *koanf.Koanf, override string) error {
	path := override
	if path == "" {
		path, _ = UserConfigPath()
	}
	if !fileExists(path) {
		return nil
	}
	if err := loadFile(k, path, "user"); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads the project config. Without an explicit path the
// first of ProjectConfigCandidates that exists is used, and any others are
// reported as ignored.
func loadProjectConfig(k *koanf.Koanf, opts LoadOptions, warningWriter io.Writer) error {
	if opts.ProjectConfigPath != "" {
		if !fileExists(opts.ProjectConfigPath) {
			return fmt.Errorf("config file %s does not exist", opts.ProjectConfigPath)
		}
		return loadFile(k, opts.ProjectConfigPath, "project")
	}

	var found []string
	for _, candidate := range ProjectConfigCandidates(opts.ProjectDir) {
		if fileExists(candidate) {
			found = append(found, candidate)
		}
	}
	if len(found) == 0 {
		return nil
	}
	if len(found) > 1 && !opts.SkipWarnings {
		fmt.Fprintf(warningWriter, "Warning: multiple project configs found; using %s\n", found[0])
		fmt.Fprintf(warningWriter, "  Ignored: %s\n\n", strings.Join(found[1:], ", "))
	}
	return loadFile(k, found[0], "project")
}

// loadFile picks a parser from the file extension.
func loadFile(k *koanf.Koanf, path, configType string) error {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := ValidateYAMLSyntax(path); err != nil {
			return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
		}
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	case ".hcl":
		parser = HCLParser()
	default:
		return fmt.Errorf("unsupported %s config format: %s", configType, path)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf, projectDir string) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.Directory = expandHomePath(cfg.Directory)
	if !filepath.IsAbs(cfg.Directory) && projectDir != "" {
		cfg.Directory = filepath.Join(projectDir, cfg.Directory)
	}

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// A double underscore separates nesting levels.
// Example: BLOCKCRAFT_LOG_LEVEL -> log_level, BLOCKCRAFT_BASE__OWNER -> base.owner
func envTransform(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
