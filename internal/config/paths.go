package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/blockcraft/config.yml
// - macOS: ~/Library/Application Support/blockcraft/config.yml
// - Windows: %APPDATA%\blockcraft\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	configDir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yml"), nil
}

// UserConfigDir returns the path to the user-level config directory.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "blockcraft"), nil
}

// ProjectConfigDir returns the path to the project-level config directory.
func ProjectConfigDir(projectDir string) string {
	return filepath.Join(projectDir, ".blockcraft")
}

// ProjectConfigPath returns the default project config file, .blockcraft/config.yml.
func ProjectConfigPath(projectDir string) string {
	return filepath.Join(ProjectConfigDir(projectDir), "config.yml")
}

// ProjectConfigCandidates lists project config files in lookup order.
func ProjectConfigCandidates(projectDir string) []string {
	dir := ProjectConfigDir(projectDir)
	return []string{
		filepath.Join(dir, "config.yml"),
		filepath.Join(dir, "config.yaml"),
		filepath.Join(dir, "config.json"),
		filepath.Join(dir, "config.hcl"),
	}
}
