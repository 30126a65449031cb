package intake

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	koanfjson "github.com/knadh/koanf/parsers/json"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"gopkg.in/yaml.v3"
)

// Text returns the file content. Empty or whitespace-only files are Absent.
func Text(src Source, path string) Result[string] {
	r := read(src, path)
	if !r.Ok() {
		return Result[string]{State: r.State, Err: r.Err}
	}
	if len(bytes.TrimSpace(r.Value)) == 0 {
		return Missing[string]()
	}
	return Found(string(r.Value))
}

// Lines returns trimmed lines of a text file, skipping blanks and # comments.
func Lines(src Source, path string) Result[[]string] {
	return Map(Text(src, path), func(text string) ([]string, bool) {
		var lines []string
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			lines = append(lines, line)
		}
		return lines, len(lines) > 0
	})
}

// JSON parses a JSON object file.
func JSON(src Source, path string) Result[map[string]any] {
	r := read(src, path)
	if !r.Ok() {
		return Result[map[string]any]{State: r.State, Err: r.Err}
	}
	data := bytes.TrimSpace(r.Value)
	if len(data) == 0 {
		return Missing[map[string]any]()
	}
	if !json.Valid(data) {
		return Reject[map[string]any](Malformed, fmt.Errorf("%s: invalid JSON", path))
	}
	m, err := koanfjson.Parser().Unmarshal(data)
	if err != nil {
		return Reject[map[string]any](Unrecognized, fmt.Errorf("%s: %w", path, err))
	}
	return Found(m)
}

// YAML parses a YAML mapping file.
func YAML(src Source, path string) Result[map[string]any] {
	r := read(src, path)
	if !r.Ok() {
		return Result[map[string]any]{State: r.State, Err: r.Err}
	}
	data := bytes.TrimSpace(r.Value)
	if len(data) == 0 {
		return Missing[map[string]any]()
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return Reject[map[string]any](Malformed, fmt.Errorf("%s: %w", path, err))
	}
	m, err := koanfyaml.Parser().Unmarshal(data)
	if err != nil {
		return Reject[map[string]any](Unrecognized, fmt.Errorf("%s: %w", path, err))
	}
	if m == nil {
		return Missing[map[string]any]()
	}
	return Found(m)
}

// Decode strictly decodes a recognized mapping into T. Keys T does not
// declare and values of the wrong type make the result Unrecognized.
func Decode[T any](r Result[map[string]any]) Result[T] {
	if !r.Ok() {
		return Result[T]{State: r.State, Err: r.Err}
	}
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &out,
		ErrorUnused: true,
	})
	if err != nil {
		return Reject[T](Unrecognized, err)
	}
	if err := dec.Decode(r.Value); err != nil {
		return Reject[T](Unrecognized, err)
	}
	return Found(out)
}

// DecodeKnown decodes the keys T declares and ignores the rest. Values of the
// wrong type still make the result Unrecognized.
func DecodeKnown[T any](r Result[map[string]any]) Result[T] {
	if !r.Ok() {
		return Result[T]{State: r.State, Err: r.Err}
	}
	var out T
	if err := mapstructure.Decode(r.Value, &out); err != nil {
		return Reject[T](Unrecognized, err)
	}
	return Found(out)
}
