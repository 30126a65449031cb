package block

import (
	"fmt"
	"reflect"

	"dario.cat/mergo"
	"github.com/ariel-frischer/blockcraft/internal/intake"
	"github.com/mitchellh/copystructure"
)

// ProduceFunc turns resolved options into a contribution.
type ProduceFunc[O any] func(ctx Context, opts O) Contribution

// IntakeFunc recovers options from an existing project.
type IntakeFunc[O any] func(ic IntakeContext) intake.Result[O]

// Definition is a block with a concrete options type.
type Definition[O any] struct {
	name       string
	about      string
	defaults   func() O
	produce    ProduceFunc[O]
	setup      ProduceFunc[O]
	transition ProduceFunc[O]
	intake     IntakeFunc[O]
}

// Define creates a block. defaults may be nil when the zero value of O is the
// default.
func Define[O any](name, about string, defaults func() O, produce ProduceFunc[O]) *Definition[O] {
	if defaults == nil {
		defaults = func() O {
			var zero O
			return zero
		}
	}
	return &Definition[O]{
		name:     name,
		about:    about,
		defaults: defaults,
		produce:  produce,
	}
}

// WithSetup adds a contribution produced only when creating a project.
func (d *Definition[O]) WithSetup(fn ProduceFunc[O]) *Definition[O] {
	d.setup = fn
	return d
}

// WithTransition adds a contribution produced only in transition mode.
func (d *Definition[O]) WithTransition(fn ProduceFunc[O]) *Definition[O] {
	d.transition = fn
	return d
}

// WithIntake registers the function that recovers options from disk.
func (d *Definition[O]) WithIntake(fn IntakeFunc[O]) *Definition[O] {
	d.intake = fn
	return d
}

// With invokes the block with typed options. Zero fields take the defaults.
func (d *Definition[O]) With(opts O) Invocation {
	return Invocation{Block: d, Typed: opts}
}

// Default invokes the block with its default options.
func (d *Definition[O]) Default() Invocation {
	return Invocation{Block: d}
}

func (d *Definition[O]) Name() string  { return d.name }
func (d *Definition[O]) About() string { return d.about }

// Defaults returns a fresh copy of the default options.
func (d *Definition[O]) Defaults() O { return d.defaults() }

func (d *Definition[O]) OptionKeys() []string {
	var zero O
	return optionKeys(reflect.TypeOf(&zero))
}

func (d *Definition[O]) Resolve(inv Invocation, recovered any) (any, error) {
	opts := d.defaults()

	if recovered != nil {
		r, ok := recovered.(O)
		if !ok {
			return nil, &OptionsError{Block: d.name, Message: fmt.Sprintf("recovered options have type %T, want %T", recovered, opts)}
		}
		seeded, err := cloneOptions(r)
		if err != nil {
			return nil, &OptionsError{Block: d.name, Message: err.Error()}
		}
		if err := mergo.Merge(&seeded, opts); err != nil {
			return nil, &OptionsError{Block: d.name, Message: fmt.Sprintf("applying defaults: %v", err)}
		}
		opts = seeded
	}

	if inv.Typed != nil {
		typed, ok := inv.Typed.(O)
		if !ok {
			return nil, &OptionsError{Block: d.name, Message: fmt.Sprintf("options have type %T, want %T", inv.Typed, opts)}
		}
		typed, err := cloneOptions(typed)
		if err != nil {
			return nil, &OptionsError{Block: d.name, Message: err.Error()}
		}
		if err := mergo.Merge(&typed, opts); err != nil {
			return nil, &OptionsError{Block: d.name, Message: fmt.Sprintf("applying defaults: %v", err)}
		}
		opts = typed
	}

	if len(inv.Raw) > 0 {
		if err := decodeOptions(d.name, inv.Raw, &opts, d.OptionKeys()); err != nil {
			return nil, err
		}
	}

	if err := validateOptions(d.name, opts); err != nil {
		return nil, err
	}
	return opts, nil
}

func (d *Definition[O]) Produce(ctx Context, opts any) Contribution {
	return d.produce(ctx, d.cast(opts))
}

func (d *Definition[O]) Setup(ctx Context, opts any) Contribution {
	if d.setup == nil {
		return Contribution{}
	}
	return d.setup(ctx, d.cast(opts))
}

func (d *Definition[O]) Transition(ctx Context, opts any) Contribution {
	if d.transition == nil {
		return Contribution{}
	}
	return d.transition(ctx, d.cast(opts))
}

func (d *Definition[O]) CanIntake() bool { return d.intake != nil }

func (d *Definition[O]) Intake(ic IntakeContext) (any, intake.State) {
	if d.intake == nil || ic.Source == nil {
		return nil, intake.Absent
	}
	r := d.intake(ic)
	if !r.Ok() {
		return nil, r.State
	}
	return r.Value, intake.Recognized
}

// cast converts options produced by Resolve back to O. Anything else is a
// programming error in the caller.
func (d *Definition[O]) cast(opts any) O {
	if opts == nil {
		return d.defaults()
	}
	o, ok := opts.(O)
	if !ok {
		panic(fmt.Sprintf("block %q: options have type %T", d.name, opts))
	}
	return o
}

// cloneOptions deep-copies options so that defaults and recovered values are
// never shared with the caller.
func cloneOptions[O any](opts O) (O, error) {
	copied, err := copystructure.Copy(opts)
	if err != nil {
		return opts, fmt.Errorf("copying options: %w", err)
	}
	return copied.(O), nil
}
