// Package produce expands block invocations into a tree of contributions.
//
// Expansion is depth-first: a block is produced, then each of its addons is
// expanded in order before the next sibling. Every invocation resolves its own
// options, so an addon invoked by two parents is produced twice with whatever
// options each parent passed.
package produce

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/blockcraft/internal/block"
	"go.uber.org/zap"
)

// DefaultMaxDepth bounds addon nesting.
const DefaultMaxDepth = 16

// RootName names the synthetic node holding the root invocations.
const RootName = "(root)"

// Node is one produced invocation. Extra holds the setup or transition
// contribution for the run's mode and is merged right after Contribution.
type Node struct {
	Name         string
	Options      any
	Contribution block.Contribution
	Extra        block.Contribution
	Children     []*Node
}

// Names returns the set of block names produced under the node.
func (n *Node) Names() map[string]bool {
	names := map[string]bool{}
	n.Walk(func(node *Node) { names[node.Name] = true })
	delete(names, RootName)
	return names
}

// Walk visits the node and its descendants in pre-order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Flatten returns every contribution in walk order.
func (n *Node) Flatten() []block.Contribution {
	var out []block.Contribution
	n.Walk(func(node *Node) {
		out = append(out, node.Contribution, node.Extra)
	})
	return out
}

// Count returns the number of produced invocations, excluding the root.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) { count++ })
	return count - 1
}

// Recovered supplies intake results per block name for transition mode.
type Recovered map[string]any

// Configured supplies user options per block name. They apply to every
// invocation of the block, over whatever the invoking parent passed.
type Configured map[string]map[string]any

// Engine produces contribution trees.
type Engine struct {
	Context    block.Context
	Recovered  Recovered
	Configured Configured
	MaxDepth   int
	Logger     *zap.Logger
}

// CycleError reports a block that invokes itself through its addons.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("block cycle: %s", strings.Join(e.Path, " -> "))
}

// DepthError reports addon nesting deeper than the engine allows.
type DepthError struct {
	Path     []string
	MaxDepth int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("addon nesting exceeds %d levels: %s", e.MaxDepth, strings.Join(e.Path, " -> "))
}

// Produce expands the root invocations.
func (e *Engine) Produce(roots []block.Invocation) (*Node, error) {
	root := &Node{Name: RootName}
	for _, inv := range roots {
		child, err := e.expand(inv, nil)
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, child)
	}
	return root, nil
}

func (e *Engine) expand(inv block.Invocation, ancestors []string) (*Node, error) {
	if inv.Block == nil {
		return nil, fmt.Errorf("invocation without a block under %s", pathString(ancestors))
	}
	name := inv.Block.Name()
	path := append(append([]string(nil), ancestors...), name)

	for _, a := range ancestors {
		if a == name {
			return nil, &CycleError{Path: path}
		}
	}
	if len(path) > e.maxDepth() {
		return nil, &DepthError{Path: path, MaxDepth: e.maxDepth()}
	}

	opts, err := inv.Block.Resolve(e.configure(inv), e.recovered(name))
	if err != nil {
		return nil, err
	}

	node := &Node{Name: name, Options: opts, Contribution: inv.Block.Produce(e.Context, opts)}
	switch e.Context.Mode {
	case block.ModeSetup:
		node.Extra = inv.Block.Setup(e.Context, opts)
	case block.ModeTransition:
		node.Extra = inv.Block.Transition(e.Context, opts)
	}

	addons := append(append([]block.Invocation(nil), node.Contribution.Addons...), node.Extra.Addons...)
	e.logger().Debug("produced block",
		zap.String("block", name),
		zap.Int("depth", len(path)),
		zap.Int("files", len(node.Contribution.Files)+len(node.Extra.Files)),
		zap.Int("addons", len(addons)))

	for _, addon := range addons {
		child, err := e.expand(addon, path)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// recovered returns the intake options that seed every invocation of a block.
func (e *Engine) recovered(name string) any {
	if e.Recovered == nil {
		return nil
	}
	return e.Recovered[name]
}

// configure layers the user's options for the block over the invocation's
// raw options. Typed options stay in place and are decoded over.
func (e *Engine) configure(inv block.Invocation) block.Invocation {
	configured := e.Configured[inv.Block.Name()]
	if len(configured) == 0 {
		return inv
	}
	raw := make(map[string]any, len(inv.Raw)+len(configured))
	for k, v := range inv.Raw {
		raw[k] = v
	}
	for k, v := range configured {
		raw[k] = v
	}
	inv.Raw = raw
	return inv
}

func (e *Engine) maxDepth() int {
	if e.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return e.MaxDepth
}

func (e *Engine) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func pathString(path []string) string {
	if len(path) == 0 {
		return RootName
	}
	return strings.Join(path, " -> ")
}
