// Package intake reads files that already exist in a project and reports
// whether they hold a configuration shape a block recognizes.
//
// Intake never fails: a missing file is Absent, a file that does not parse is
// Malformed, and a file that parses but has an unexpected shape is
// Unrecognized. Only Recognized results are used to seed block options.
package intake

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// State is the outcome of reading one artifact.
type State int

const (
	Absent State = iota
	Malformed
	Unrecognized
	Recognized
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case Malformed:
		return "malformed"
	case Unrecognized:
		return "unrecognized"
	case Recognized:
		return "recognized"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result carries a recovered value and the state it was found in. Err holds
// the parse or decode problem for Malformed and Unrecognized results and is
// informational only.
type Result[T any] struct {
	State State
	Value T
	Err   error
}

// Ok reports whether the value was recognized.
func (r Result[T]) Ok() bool {
	return r.State == Recognized
}

// Found wraps a recognized value.
func Found[T any](v T) Result[T] {
	return Result[T]{State: Recognized, Value: v}
}

// Missing returns an Absent result.
func Missing[T any]() Result[T] {
	return Result[T]{State: Absent}
}

// Reject returns a result in the given non-recognized state.
func Reject[T any](state State, err error) Result[T] {
	return Result[T]{State: state, Err: err}
}

// Map converts a recognized value. fn returning false makes the result
// Unrecognized; other states pass through unchanged.
func Map[T, U any](r Result[T], fn func(T) (U, bool)) Result[U] {
	if !r.Ok() {
		return Result[U]{State: r.State, Err: r.Err}
	}
	u, ok := fn(r.Value)
	if !ok {
		return Reject[U](Unrecognized, errors.New("unexpected content"))
	}
	return Found(u)
}

// Source reads project files by slash-separated relative path.
type Source interface {
	ReadFile(path string) ([]byte, error)
}

// DirSource reads files below a root directory.
type DirSource struct {
	Root string
}

func (s DirSource) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(path)))
}

// MapSource serves files from memory.
type MapSource map[string]string

func (s MapSource) ReadFile(path string) ([]byte, error) {
	content, ok := s[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return []byte(content), nil
}

// read maps file system errors onto intake states.
func read(src Source, path string) Result[[]byte] {
	if src == nil {
		return Missing[[]byte]()
	}
	data, err := src.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Missing[[]byte]()
		}
		return Reject[[]byte](Malformed, fmt.Errorf("reading %s: %w", path, err))
	}
	return Found(data)
}

// Entry is one line of an intake report.
type Entry struct {
	Name    string `yaml:"name"`
	State   string `yaml:"state"`
	Options any    `yaml:"options,omitempty"`
}

// Report lists what intake found for each block, in block name order.
type Report []Entry

// Recognized returns the names of blocks whose options were recovered.
func (r Report) Recognized() []string {
	var names []string
	for _, e := range r {
		if e.State == Recognized.String() {
			names = append(names, e.Name)
		}
	}
	return names
}
