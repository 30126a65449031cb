package block

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// OptionsError reports options that failed decoding or validation.
type OptionsError struct {
	Block   string
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("block %q: option %q: %s", e.Block, e.Field, e.Message)
	}
	return fmt.Sprintf("block %q: %s", e.Block, e.Message)
}

// IsOptionsError returns true if err is or wraps an OptionsError.
func IsOptionsError(err error) bool {
	var oe *OptionsError
	return errors.As(err, &oe)
}

var validate = NewValidator("mapstructure")

// NewValidator returns a validator that names fields by the given struct tag,
// so errors carry the key a user actually wrote.
func NewValidator(tag string) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// decodeOptions decodes raw over out one key at a time so a failure can be
// attributed to the offending option. Unknown keys are rejected.
func decodeOptions(blockName string, raw map[string]any, out any, keys []string) error {
	known := make(map[string]bool, len(keys))
	for _, k := range keys {
		known[k] = true
	}

	names := make([]string, 0, len(raw))
	for k := range raw {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, name := range names {
		if !known[name] {
			return &OptionsError{Block: blockName, Field: name, Message: "unknown option"}
		}
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      out,
			ErrorUnused: true,
			ZeroFields:  true,
		})
		if err != nil {
			return fmt.Errorf("creating decoder for block %q: %w", blockName, err)
		}
		if err := dec.Decode(map[string]any{name: raw[name]}); err != nil {
			return &OptionsError{Block: blockName, Field: name, Message: cleanDecodeError(err)}
		}
	}
	return nil
}

// validateOptions runs struct tag validation and reports the first failure.
func validateOptions(blockName string, opts any) error {
	err := validate.Struct(opts)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		// Options types without fields are not structs validator accepts.
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &OptionsError{Block: blockName, Field: FieldPath(fe), Message: FieldMessage(fe)}
	}
	return &OptionsError{Block: blockName, Message: err.Error()}
}

// FieldPath drops the root struct name from a validator namespace.
func FieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

// FieldMessage renders a failed validation tag as a short predicate.
func FieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(fe.Param()), ", "))
	case "semver":
		return "must be a semantic version"
	case "email":
		return "must be an email address"
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}

// cleanDecodeError strips mapstructure's "decoding failed due to the
// following error(s):" preamble.
func cleanDecodeError(err error) string {
	msg := err.Error()
	if idx := strings.LastIndex(msg, "\n\n"); idx >= 0 {
		msg = msg[idx+2:]
	}
	msg = strings.TrimPrefix(strings.TrimSpace(msg), "* ")
	return msg
}

// optionKeys lists the mapstructure names of a struct's exported fields.
func optionKeys(t reflect.Type) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		switch name {
		case "-":
			continue
		case "":
			name = strings.ToLower(f.Name)
		}
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

// OptionsMap converts resolved options to a map keyed by option name.
func OptionsMap(opts any) (map[string]any, error) {
	out := make(map[string]any)
	if opts == nil {
		return out, nil
	}
	if err := mapstructure.Decode(opts, &out); err != nil {
		return nil, fmt.Errorf("converting options: %w", err)
	}
	return out, nil
}
