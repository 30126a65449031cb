package errors

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/ariel-frischer/blockcraft/internal/emit"
	"github.com/ariel-frischer/blockcraft/internal/generator"
	"github.com/ariel-frischer/blockcraft/internal/produce"
	"github.com/ariel-frischer/blockcraft/internal/registry"
	"github.com/ariel-frischer/blockcraft/internal/scripts"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err          error
		wantCategory ErrorCategory
		wantMessage  string
		wantFix      string
	}{
		"nothing to generate": {
			err:          generator.NothingToGenerateError{},
			wantCategory: Argument,
			wantMessage:  "nothing to generate",
			wantFix:      "blockcraft blocks",
		},
		"unknown block": {
			err:          fmt.Errorf("planning: %w", &registry.UnknownBlockError{Name: "jest", Known: []string{"eslint", "vitest"}}),
			wantCategory: Argument,
			wantMessage:  `unknown block "jest"`,
			wantFix:      "eslint, vitest",
		},
		"options": {
			err:          &block.OptionsError{Block: "vitest", Field: "directory", Message: "is required"},
			wantCategory: Configuration,
			wantMessage:  "vitest",
			wantFix:      "blocks.vitest.directory",
		},
		"base options": {
			err:          &block.OptionsError{Block: block.BaseBlockName, Field: "owner", Message: "is required"},
			wantCategory: Configuration,
			wantFix:      "base.owner",
		},
		"cycle": {
			err:          &produce.CycleError{Path: []string{"a", "b", "a"}},
			wantCategory: Runtime,
			wantMessage:  "a -> b -> a",
			wantFix:      "max_depth",
		},
		"conflict": {
			err:          &emit.ConflictError{Path: "package.json"},
			wantCategory: Runtime,
			wantFix:      "package.json",
		},
		"script": {
			err:          &scripts.CommandError{Command: "pnpm install", Phase: block.PhaseInstall, Err: fmt.Errorf("exit status 1")},
			wantCategory: Runtime,
			wantFix:      "pnpm install",
		},
		"cli error passes through": {
			err:          NewPrerequisiteError("node missing"),
			wantCategory: Prerequisite,
			wantMessage:  "node missing",
		},
		"unknown": {
			err:          fmt.Errorf("disk full"),
			wantCategory: Runtime,
			wantMessage:  "disk full",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := Classify(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Contains(t, got.Message, tt.wantMessage)
			if tt.wantFix != "" {
				assert.Contains(t, FormatErrorPlain(got), tt.wantFix)
			}
		})
	}

	assert.Nil(t, Classify(nil))
}

func TestFormatErrorPlain(t *testing.T) {
	t.Parallel()

	err := NewArgumentErrorWithUsage("missing preset", "blockcraft generate --preset <name>", "Pass --preset")
	want := "Error [Argument Error]: missing preset\n" +
		"\nUsage: blockcraft generate --preset <name>\n" +
		"\nTo fix this:\n  • Pass --preset\n"
	assert.Equal(t, want, FormatErrorPlain(err))
	assert.Empty(t, FormatErrorPlain(nil))
}

func TestFprintError(t *testing.T) {
	// color.NoColor is global state.
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	FprintError(&buf, generator.NothingToGenerateError{})
	assert.Contains(t, buf.String(), "Error [Argument Error]: nothing to generate")
}

func TestAsCLIError_Wrapped(t *testing.T) {
	t.Parallel()

	inner := NewConfigError("bad")
	assert.Same(t, inner, AsCLIError(fmt.Errorf("loading: %w", inner)))
	assert.False(t, IsCLIError(fmt.Errorf("plain")))
}

func TestWrap_KeepsCause(t *testing.T) {
	t.Parallel()

	cause := &block.OptionsError{Block: "vitest", Field: "coverage", Message: "expected a boolean"}
	wrapped := WrapWithMessage(cause, Configuration, "resolving blocks")

	assert.Equal(t, Configuration, wrapped.Category)
	assert.Contains(t, wrapped.Error(), "resolving blocks: ")
	var oe *block.OptionsError
	require.ErrorAs(t, wrapped, &oe)
	assert.Same(t, cause, oe)
	assert.Nil(t, Wrap(nil, Runtime))
}
