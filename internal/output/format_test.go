package output

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestPrintChange(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		action string
		want   string
	}{
		"created":   {action: "created", want: "  + a.txt\n"},
		"updated":   {action: "updated", want: "  ~ a.txt\n"},
		"removed":   {action: "removed", want: "  - a.txt\n"},
		"unchanged": {action: "unchanged", want: "  = a.txt\n"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			PrintChange(&buf, tt.action, "a.txt")
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		counts map[string]int
		dryRun bool
		want   string
	}{
		"ordered": {
			counts: map[string]int{"unchanged": 4, "created": 2, "removed": 1},
			want:   "\n✓ 2 created, 1 removed, 4 unchanged\n",
		},
		"empty": {
			want: "\n✓ no changes\n",
		},
		"dry run": {
			counts: map[string]int{"updated": 1},
			dryRun: true,
			want:   "\n✓ 1 updated (dry run, nothing written)\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			PrintSummary(&buf, tt.counts, tt.dryRun)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
