// Package history keeps a bounded log of generation runs in
// .blockcraft/history.yml.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ariel-frischer/blockcraft/internal/workspace"
	"gopkg.in/yaml.v3"
)

// FileName is the history file inside the project config directory.
const FileName = "history.yml"

// Entry records one generation run.
type Entry struct {
	Timestamp time.Time `yaml:"timestamp"`
	Mode      string    `yaml:"mode"`
	Preset    string    `yaml:"preset,omitempty"`
	// Invocations counts produced blocks, addons included.
	Invocations int            `yaml:"invocations"`
	Changes     map[string]int `yaml:"changes,omitempty"`
	ExitCode    int            `yaml:"exit_code"`
	Duration    string         `yaml:"duration"`
	Error       string         `yaml:"error,omitempty"`
}

// File is the on-disk history document.
type File struct {
	Entries []Entry `yaml:"entries"`
}

// Path returns the history file path in dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads the history in dir. A missing file is an empty history.
func Load(dir string) (*File, error) {
	data, err := os.ReadFile(Path(dir))
	if errors.Is(err, os.ErrNotExist) {
		return &File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", Path(dir), err)
	}
	return &f, nil
}

// Save writes the history to dir atomically, creating dir if needed.
func Save(dir string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	fsys := workspace.NewRealFS()
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return workspace.WriteFileAtomic(fsys, Path(dir), data, 0o644)
}
