package blocks

import (
	"fmt"

	"github.com/ariel-frischer/blockcraft/internal/block"
)

// ContributingDocsOptions adds extra sections to the development guide.
type ContributingDocsOptions struct {
	Sections map[string]string `mapstructure:"sections" yaml:"sections,omitempty" validate:"dive,keys,required,endkeys,required"`
}

func contributing(base block.Base) string {
	return fmt.Sprintf(`# Contributing

Thanks for your interest in contributing to %s! 💖

## Code of Conduct

This project contains a [Contributor Covenant code of conduct](./CODE_OF_CONDUCT.md) all contributors are expected to follow.

## Reporting Issues

Please [search for related issues](https://github.com/%s/issues?q=is%%3Aissue) before filing a new one.

## Sending Contributions

Please see [DEVELOPMENT.md](./DEVELOPMENT.md) for how to get set up locally.
`, base.Title, base.Slug())
}

// ContributingDocs contributes .github/CONTRIBUTING.md.
var ContributingDocs = block.Define(NameContributingDocs, "contributor guide and extra development docs", nil,
	func(ctx block.Context, o ContributingDocsOptions) block.Contribution {
		c := block.Contribution{
			Files: map[string]string{".github/CONTRIBUTING.md": contributing(ctx.Base)},
		}
		if len(o.Sections) > 0 {
			c.Docs = make(map[string]block.Section, len(o.Sections))
			for name, text := range o.Sections {
				c.Docs[name] = block.Section{Before: text}
			}
		}
		return c
	})
