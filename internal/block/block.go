// Package block defines the unit of composition: a block turns typed options
// into a Contribution, may pull in other blocks as addons, and may recover its
// own options from files already present in a project.
//
// Blocks are stateless. The same block can be invoked several times with
// different options during one generation run.
package block

import (
	"github.com/ariel-frischer/blockcraft/internal/intake"
	"github.com/ariel-frischer/blockcraft/internal/versions"
)

// Mode selects between creating a project and transitioning an existing one.
type Mode string

const (
	ModeSetup      Mode = "setup"
	ModeTransition Mode = "transition"
)

// Context is passed to every production function.
type Context struct {
	Base     Base
	Versions *versions.Table
	Mode     Mode
	// Project reads the existing project in transition mode. It is nil when
	// creating a project.
	Project intake.Source
}

// IntakeContext gives intake functions read access to the existing project.
type IntakeContext struct {
	Source intake.Source
}

// Block is the type-erased view of a Definition that the engines work with.
type Block interface {
	Name() string
	About() string
	// OptionKeys lists the option names the block accepts, sorted.
	OptionKeys() []string
	// Resolve produces validated options for an invocation. recovered, when
	// non-nil, holds options returned by Intake and replaces the defaults as
	// the starting point.
	Resolve(inv Invocation, recovered any) (any, error)
	Produce(ctx Context, opts any) Contribution
	Setup(ctx Context, opts any) Contribution
	Transition(ctx Context, opts any) Contribution
	// CanIntake reports whether the block knows how to recover options.
	CanIntake() bool
	Intake(ic IntakeContext) (any, intake.State)
}

// Invocation is a block together with the options it was invoked with.
// Raw is decoded over Typed when both are set; both empty means defaults.
type Invocation struct {
	Block Block
	// Raw options come from user configuration and are decoded by name.
	Raw map[string]any
	// Typed options come from other blocks and must match the block's
	// options type.
	Typed any
}

// Use invokes a block with raw, user-provided options.
func Use(b Block, raw map[string]any) Invocation {
	return Invocation{Block: b, Raw: raw}
}
