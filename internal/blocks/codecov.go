package blocks

import (
	"strings"

	"github.com/ariel-frischer/blockcraft/internal/block"
)

// CodecovOptions configures the coverage upload.
type CodecovOptions struct {
	Flags []string `mapstructure:"flags" yaml:"flags,omitempty" validate:"dive,required"`
}

// Codecov uploads coverage from the Test job.
var Codecov = block.Define(NameCodecov, "coverage upload to Codecov", nil,
	func(ctx block.Context, o CodecovOptions) block.Contribution {
		step := block.Step{Name: "Codecov", Uses: "codecov/codecov-action@v5"}
		if len(o.Flags) > 0 {
			step.With = map[string]string{"flags": strings.Join(o.Flags, ",")}
		}
		return block.Contribution{
			Jobs:   []block.Job{{Name: "Test", Steps: []block.Step{step}}},
			CSpell: block.CSpell{Words: []string{"codecov"}},
		}
	})
