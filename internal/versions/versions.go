// Package versions holds the read-only package version table that blocks use
// when they add dependencies to package.json. The table is parsed once and
// handed to blocks through their context.
package versions

import (
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed versions.yaml
var embedded string

// Table maps package names to version ranges.
type Table struct {
	entries map[string]string
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the embedded table. It is parsed on first use and shared
// afterwards; callers must not mutate it.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Load(strings.NewReader(embedded))
		if err != nil {
			panic(fmt.Sprintf("versions: embedded table is invalid: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// Load parses a YAML mapping of package name to version range.
func Load(r io.Reader) (*Table, error) {
	entries := make(map[string]string)
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&entries); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing version table: %w", err)
	}
	for name, version := range entries {
		if strings.TrimSpace(version) == "" {
			return nil, fmt.Errorf("package %q has an empty version", name)
		}
	}
	return &Table{entries: entries}, nil
}

// New builds a table from an in-memory map. The map is copied.
func New(entries map[string]string) *Table {
	copied := make(map[string]string, len(entries))
	for k, v := range entries {
		copied[k] = v
	}
	return &Table{entries: copied}
}

// Lookup returns the version range for a package.
func (t *Table) Lookup(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.entries[name]
	return v, ok
}

// MustLookup is Lookup for names blocks are known to reference.
func (t *Table) MustLookup(name string) string {
	v, ok := t.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("versions: unknown package %q", name))
	}
	return v
}

// Dependencies builds a devDependencies-style map for the named packages.
func (t *Table) Dependencies(names ...string) map[string]any {
	deps := make(map[string]any, len(names))
	for _, name := range names {
		deps[name] = t.MustLookup(name)
	}
	return deps
}

// Names returns all package names in sorted order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Overlay returns a new table with other's entries replacing t's.
func (t *Table) Overlay(other *Table) *Table {
	merged := make(map[string]string)
	if t != nil {
		for k, v := range t.entries {
			merged[k] = v
		}
	}
	if other != nil {
		for k, v := range other.entries {
			merged[k] = v
		}
	}
	return &Table{entries: merged}
}
