// Package registry stores the blocks available to a generation run.
//
// A registry is populated once at startup and then only read. Registering two
// blocks under the same name is a programming error and panics, so a broken
// catalog is caught by the first test that builds it.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ariel-frischer/blockcraft/internal/block"
)

// Registry maps block names to blocks.
type Registry struct {
	blocks map[string]block.Block
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{blocks: make(map[string]block.Block)}
}

// Register adds a block. It panics on duplicate or empty names.
func (r *Registry) Register(b block.Block) {
	name := b.Name()
	if name == "" {
		panic("registry: block with empty name")
	}
	if _, exists := r.blocks[name]; exists {
		panic(fmt.Sprintf("registry: block %q already registered", name))
	}
	r.blocks[name] = b
}

// Get looks up a block by name.
func (r *Registry) Get(name string) (block.Block, bool) {
	b, ok := r.blocks[name]
	return b, ok
}

// MustGet is Get for names known at compile time.
func (r *Registry) MustGet(name string) block.Block {
	b, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("registry: block %q not registered", name))
	}
	return b
}

// Names returns all block names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.blocks))
	for name := range r.blocks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all blocks sorted by name.
func (r *Registry) All() []block.Block {
	names := r.Names()
	all := make([]block.Block, 0, len(names))
	for _, name := range names {
		all = append(all, r.blocks[name])
	}
	return all
}

// Len returns the number of registered blocks.
func (r *Registry) Len() int {
	return len(r.blocks)
}

// Validate checks that every block resolves its own defaults. Problems are
// collected so one run reports the whole catalog.
func (r *Registry) Validate() error {
	var errs []string
	for _, b := range r.All() {
		if _, err := b.Resolve(block.Invocation{Block: b}, nil); err != nil {
			errs = append(errs, fmt.Sprintf("block %q: defaults do not validate: %v", b.Name(), err))
		}
	}
	if len(errs) > 0 {
		return errors.New("registry validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}

// Lookup resolves a list of names, failing on the first unknown one.
func (r *Registry) Lookup(names ...string) ([]block.Block, error) {
	found := make([]block.Block, 0, len(names))
	for _, name := range names {
		b, ok := r.Get(name)
		if !ok {
			return nil, &UnknownBlockError{Name: name, Known: r.Names()}
		}
		found = append(found, b)
	}
	return found, nil
}

// UnknownBlockError is returned for names that are not registered.
type UnknownBlockError struct {
	Name  string
	Known []string
}

func (e *UnknownBlockError) Error() string {
	return fmt.Sprintf("unknown block %q (available: %s)", e.Name, strings.Join(e.Known, ", "))
}
