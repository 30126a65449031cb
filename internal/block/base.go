package block

import (
	"fmt"
	"reflect"

	"dario.cat/mergo"
)

// BaseBlockName is the name used in errors about base options.
const BaseBlockName = "base"

// Base holds project-wide values shared by every block.
type Base struct {
	Owner       string `mapstructure:"owner" yaml:"owner,omitempty" validate:"required"`
	Repository  string `mapstructure:"repository" yaml:"repository,omitempty" validate:"required"`
	Title       string `mapstructure:"title" yaml:"title,omitempty"`
	Description string `mapstructure:"description" yaml:"description,omitempty"`
	Author      string `mapstructure:"author" yaml:"author,omitempty"`
	Email       string `mapstructure:"email" yaml:"email,omitempty" validate:"omitempty,email"`
	License     string `mapstructure:"license" yaml:"license,omitempty"`
	NodeVersion string `mapstructure:"node_version" yaml:"node_version,omitempty"`
	Usage       string `mapstructure:"usage" yaml:"usage,omitempty"`
}

// DefaultBase returns the values used when nothing else is known.
func DefaultBase() Base {
	return Base{
		License:     "MIT",
		NodeVersion: "20.18.0",
	}
}

// BaseOptionKeys lists the accepted base option names.
func BaseOptionKeys() []string {
	return optionKeys(reflect.TypeOf(Base{}))
}

// ResolveBase layers raw options over seed over the defaults and validates
// the result. seed carries values recovered from an existing project.
func ResolveBase(raw map[string]any, seed Base) (Base, error) {
	base := seed
	if err := mergo.Merge(&base, DefaultBase()); err != nil {
		return Base{}, &OptionsError{Block: BaseBlockName, Message: fmt.Sprintf("applying defaults: %v", err)}
	}
	if len(raw) > 0 {
		if err := decodeOptions(BaseBlockName, raw, &base, BaseOptionKeys()); err != nil {
			return Base{}, err
		}
	}
	if base.Title == "" {
		base.Title = base.Repository
	}
	if err := validateOptions(BaseBlockName, base); err != nil {
		return Base{}, err
	}
	return base, nil
}

// Slug is owner/repository.
func (b Base) Slug() string {
	return b.Owner + "/" + b.Repository
}
