package workspace

import (
	"bytes"
	"errors"
	"fmt"
	iofs "io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Action describes what happened to one path.
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionUnchanged Action = "unchanged"
	ActionRemoved   Action = "removed"
)

// Change is the outcome for one path.
type Change struct {
	Path   string
	Action Action
}

// Options controls Apply.
type Options struct {
	// DryRun computes changes without touching the filesystem.
	DryRun bool
}

// Plan is the set of files to write and paths to remove, relative to the
// project root and slash-separated.
type Plan struct {
	Files    map[string]string
	Removals []string
}

// UnsafePathError reports a path that would escape the project root.
type UnsafePathError struct {
	Path string
}

func (e *UnsafePathError) Error() string {
	return fmt.Sprintf("refusing to write outside the project: %q", e.Path)
}

// Apply writes files under root, skipping those whose content is already
// current, and deletes removals that exist. Changes are returned sorted by
// path; paths that did not exist and were not written are omitted.
func Apply(fsys FS, root string, plan Plan, opts Options) ([]Change, error) {
	var changes []Change

	paths := make([]string, 0, len(plan.Files))
	for p := range plan.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, rel := range paths {
		full, err := resolve(root, rel)
		if err != nil {
			return changes, err
		}
		content := []byte(plan.Files[rel])

		action := ActionCreated
		existing, err := fsys.ReadFile(full)
		switch {
		case err == nil && bytes.Equal(existing, content):
			changes = append(changes, Change{Path: rel, Action: ActionUnchanged})
			continue
		case err == nil:
			action = ActionUpdated
		case !errors.Is(err, iofs.ErrNotExist):
			return changes, fmt.Errorf("reading %s: %w", rel, err)
		}

		if !opts.DryRun {
			if err := fsys.MkdirAll(filepath.Dir(full), 0o755); err != nil {
				return changes, fmt.Errorf("creating directory for %s: %w", rel, err)
			}
			if err := WriteFileAtomic(fsys, full, content, 0o644); err != nil {
				return changes, fmt.Errorf("writing %s: %w", rel, err)
			}
		}
		changes = append(changes, Change{Path: rel, Action: action})
	}

	removals := append([]string(nil), plan.Removals...)
	sort.Strings(removals)
	for _, rel := range removals {
		if _, written := plan.Files[rel]; written {
			continue
		}
		full, err := resolve(root, rel)
		if err != nil {
			return changes, err
		}
		if _, err := fsys.Stat(full); err != nil {
			if errors.Is(err, iofs.ErrNotExist) {
				continue
			}
			return changes, fmt.Errorf("checking %s: %w", rel, err)
		}
		if !opts.DryRun {
			if err := fsys.Remove(full); err != nil {
				return changes, fmt.Errorf("removing %s: %w", rel, err)
			}
		}
		changes = append(changes, Change{Path: rel, Action: ActionRemoved})
	}

	sort.SliceStable(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, nil
}

// Summary counts changes by action.
func Summary(changes []Change) map[Action]int {
	counts := make(map[Action]int)
	for _, c := range changes {
		counts[c.Action]++
	}
	return counts
}

func resolve(root, rel string) (string, error) {
	clean := path.Clean(rel)
	if rel == "" || clean == "." || path.IsAbs(rel) || filepath.IsAbs(rel) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", &UnsafePathError{Path: rel}
	}
	return filepath.Join(root, filepath.FromSlash(clean)), nil
}
