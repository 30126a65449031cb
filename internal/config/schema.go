package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeString
	TypeEnum
	// TypeInferred takes the type InferType reports for the value.
	TypeInferred
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	case TypeInferred:
		return "inferred"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type and validation rules.
type ConfigKeySchema struct {
	Path          string          // Dotted key path (e.g., "notifications.enabled")
	Type          ConfigValueType // Expected value type for validation
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
	Default       interface{}     // Default value
}

// KnownKeys is the registry of all known configuration keys with their schemas.
// Keys under base. and blocks. are free-form and typed by InferType.
var KnownKeys = map[string]ConfigKeySchema{
	"mode": {
		Path:          "mode",
		Type:          TypeEnum,
		AllowedValues: []string{"setup", "transition"},
		Description:   "Create a new project or transition an existing one",
		Default:       "setup",
	},
	"preset": {
		Path:        "preset",
		Type:        TypeString,
		Description: "Preset block invoked before the explicit blocks",
		Default:     "",
	},
	"directory": {
		Path:        "directory",
		Type:        TypeString,
		Description: "Project root files are written to",
		Default:     ".",
	},
	"log_level": {
		Path:          "log_level",
		Type:          TypeEnum,
		AllowedValues: []string{"debug", "info", "warn", "error"},
		Description:   "Minimum log level",
		Default:       "info",
	},
	"log_format": {
		Path:          "log_format",
		Type:          TypeEnum,
		AllowedValues: []string{"console", "json"},
		Description:   "Log encoding",
		Default:       "console",
	},
	"dry_run": {
		Path:        "dry_run",
		Type:        TypeBool,
		Description: "List changes without writing files",
		Default:     false,
	},
	"run_scripts": {
		Path:        "run_scripts",
		Type:        TypeBool,
		Description: "Run install, migrate and process scripts after writing",
		Default:     false,
	},
	"max_depth": {
		Path:        "max_depth",
		Type:        TypeInt,
		Description: "Maximum addon nesting (1-256)",
		Default:     16,
	},
	"history_limit": {
		Path:        "history_limit",
		Type:        TypeInt,
		Description: "Generation runs kept in .blockcraft/history.yml (0 disables it)",
		Default:     50,
	},
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if ok {
		return schema, nil
	}
	if isFreeForm(path) {
		return ConfigKeySchema{Path: path, Type: TypeInferred}, nil
	}
	return ConfigKeySchema{}, ErrUnknownKey{Key: path}
}

// isFreeForm reports whether path names a base value or a block option,
// e.g. base.owner or blocks.vitest.coverage.
func isFreeForm(path string) bool {
	parts := strings.Split(path, ".")
	switch parts[0] {
	case "base":
		return len(parts) == 2 && parts[1] != ""
	case "blocks":
		return len(parts) == 3 && parts[1] != "" && parts[2] != ""
	}
	return false
}

// InferType determines the ConfigValueType from a string value.
// Order of inference: bool literals -> integers -> string fallback.
func InferType(value string) ConfigValueType {
	if value == "true" || value == "false" {
		return TypeBool
	}
	if _, err := strconv.Atoi(value); err == nil {
		return TypeInt
	}
	return TypeString
}

// ParsedValue represents a configuration value after type inference and validation.
type ParsedValue struct {
	Raw    string      // Original string input from user
	Parsed interface{} // Value converted to correct type
	Type   ConfigValueType
}

// ValidateValue validates a value against the schema for a given key.
// Returns the parsed value or an error with details about what's wrong.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}
	return validateAgainstSchema(schema, value)
}

// validateAgainstSchema validates a value against a specific schema.
func validateAgainstSchema(schema ConfigKeySchema, value string) (ParsedValue, error) {
	switch schema.Type {
	case TypeBool:
		return parseBoolValue(value)
	case TypeInt:
		return parseIntValue(value)
	case TypeEnum:
		return parseEnumValue(schema, value)
	case TypeString:
		return ParsedValue{Raw: value, Parsed: value, Type: TypeString}, nil
	case TypeInferred:
		switch InferType(value) {
		case TypeBool:
			return parseBoolValue(value)
		case TypeInt:
			return parseIntValue(value)
		}
		return ParsedValue{Raw: value, Parsed: value, Type: TypeString}, nil
	default:
		return ParsedValue{}, fmt.Errorf("unsupported type: %v", schema.Type)
	}
}

// parseBoolValue parses and validates a boolean value.
func parseBoolValue(value string) (ParsedValue, error) {
	switch strings.ToLower(value) {
	case "true":
		return ParsedValue{Raw: value, Parsed: true, Type: TypeBool}, nil
	case "false":
		return ParsedValue{Raw: value, Parsed: false, Type: TypeBool}, nil
	default:
		return ParsedValue{}, fmt.Errorf("invalid boolean: %q (expected true or false)", value)
	}
}

// parseIntValue parses and validates an integer value.
func parseIntValue(value string) (ParsedValue, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid integer: %q", value)
	}
	return ParsedValue{Raw: value, Parsed: n, Type: TypeInt}, nil
}

// parseEnumValue validates a value against allowed enum options.
func parseEnumValue(schema ConfigKeySchema, value string) (ParsedValue, error) {
	for _, allowed := range schema.AllowedValues {
		if value == allowed {
			return ParsedValue{Raw: value, Parsed: value, Type: TypeEnum}, nil
		}
	}
	return ParsedValue{}, fmt.Errorf(
		"invalid value: %q (valid options: %s)",
		value,
		strings.Join(schema.AllowedValues, ", "),
	)
}
