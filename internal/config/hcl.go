package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// hclRoot separates labeled block option bodies from top-level attributes:
//
//	mode   = "transition"
//	base   = { owner = "octo", repository = "widget" }
//	block "vitest" {
//	  coverage = true
//	}
type hclRoot struct {
	Blocks []*hclBlock `hcl:"block,block"`
	Remain hcl.Body    `hcl:",remain"`
}

type hclBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// HCL implements koanf.Parser for HCL2 config files. Expressions are
// evaluated without variables or functions.
type HCL struct{}

// HCLParser returns an HCL parser.
func HCLParser() *HCL {
	return &HCL{}
}

// Unmarshal parses HCL bytes into a nested map. `block "name" {}` bodies
// land under blocks.<name>.
func (p *HCL) Unmarshal(b []byte) (map[string]interface{}, error) {
	file, diags := hclparse.NewParser().ParseHCL(b, "config.hcl")
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing HCL: %w", diags)
	}

	var root hclRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("decoding HCL: %w", diags)
	}

	out, err := attributes(root.Remain)
	if err != nil {
		return nil, err
	}
	if _, ok := out["blocks"]; ok {
		return nil, errors.New(`use block "name" { ... } instead of a blocks attribute`)
	}

	if len(root.Blocks) > 0 {
		blocks := make(map[string]interface{}, len(root.Blocks))
		for _, blk := range root.Blocks {
			if _, dup := blocks[blk.Name]; dup {
				return nil, fmt.Errorf("block %q declared more than once", blk.Name)
			}
			opts, err := attributes(blk.Body)
			if err != nil {
				return nil, fmt.Errorf("block %q: %w", blk.Name, err)
			}
			blocks[blk.Name] = opts
		}
		out["blocks"] = blocks
	}
	return out, nil
}

// Marshal is not supported; configs are written as YAML.
func (p *HCL) Marshal(map[string]interface{}) ([]byte, error) {
	return nil, errors.New("HCL marshalling is not supported")
}

func attributes(body hcl.Body) (map[string]interface{}, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("reading attributes: %w", diags)
	}

	out := make(map[string]interface{}, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating %s: %w", name, diags)
		}
		v, err := toGo(val)
		if err != nil {
			return nil, fmt.Errorf("converting %s: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

// toGo converts a cty value through its JSON form so objects become maps,
// tuples become lists and numbers become float64.
func toGo(val cty.Value) (interface{}, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, errors.New("value is not known")
	}
	b, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return nil, err
	}
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}
