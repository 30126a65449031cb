package blocks

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/ariel-frischer/blockcraft/internal/intake"
	"github.com/ariel-frischer/blockcraft/internal/readme"
)

// ReadmePath is the project README.
const ReadmePath = "README.md"

// ReadmeOptions configures README.md.
type ReadmeOptions struct {
	Badges    []string `mapstructure:"badges" yaml:"badges,omitempty" validate:"dive,required"`
	Explainer string   `mapstructure:"explainer" yaml:"explainer,omitempty"`
}

func defaultUsage(base block.Base) string {
	return shellBlock("npm i "+base.Repository) + "\n\n```ts\nimport { greet } from \"" + base.Repository + "\";\n\ngreet(\"Hello, world! 💖\");\n```"
}

func usage(base block.Base) string {
	if strings.TrimSpace(base.Usage) != "" {
		return strings.TrimSpace(base.Usage)
	}
	return defaultUsage(base)
}

func licenseBadge(base block.Base) string {
	return fmt.Sprintf("[![License: %s](https://img.shields.io/badge/license-%s-21bb42.svg)](https://github.com/%s/blob/main/LICENSE.md)",
		base.License, strings.ReplaceAll(base.License, "-", "--"), base.Slug())
}

func renderReadme(base block.Base, o ReadmeOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", base.Title)
	if base.Description != "" {
		fmt.Fprintf(&b, "> %s\n\n", base.Description)
	}
	badges := append([]string{licenseBadge(base)}, o.Badges...)
	b.WriteString(strings.Join(badges, "\n"))
	b.WriteString("\n\n")
	if o.Explainer != "" {
		b.WriteString(strings.TrimSpace(o.Explainer))
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "%s\n\n%s\n\n", readme.UsageHeading, usage(base))
	fmt.Fprintf(&b, "%s\n\nSee [`.github/CONTRIBUTING.md`](./.github/CONTRIBUTING.md), then [`.github/DEVELOPMENT.md`](./.github/DEVELOPMENT.md).\n", readme.DevelopmentHeading)
	return b.String()
}

// Readme writes README.md. In transition mode an existing README keeps
// everything outside its Usage section.
var Readme = block.Define(NameReadme, "README.md with usage and development sections", nil,
	func(ctx block.Context, o ReadmeOptions) block.Contribution {
		return block.Contribution{CSpell: block.CSpell{Words: []string{ctx.Base.Owner}}}
	}).
	WithSetup(func(ctx block.Context, o ReadmeOptions) block.Contribution {
		return block.Contribution{Files: map[string]string{ReadmePath: renderReadme(ctx.Base, o)}}
	}).
	WithTransition(func(ctx block.Context, o ReadmeOptions) block.Contribution {
		existing := intake.Text(ctx.Project, ReadmePath)
		if existing.Ok() {
			if spliced, ok := readme.Splice(existing.Value, readme.UsageHeading, readme.DevelopmentHeading, usage(ctx.Base)); ok {
				return block.Contribution{Files: map[string]string{ReadmePath: spliced}}
			}
		}
		return block.Contribution{Files: map[string]string{ReadmePath: renderReadme(ctx.Base, o)}}
	}).
	WithIntake(func(ic block.IntakeContext) intake.Result[ReadmeOptions] {
		return intake.Map(intake.Text(ic.Source, ReadmePath), func(text string) (ReadmeOptions, bool) {
			var opts ReadmeOptions
			for _, line := range strings.Split(text, "\n") {
				line = strings.TrimSpace(line)
				if strings.HasPrefix(line, "## ") {
					break
				}
				if strings.HasPrefix(line, "[![") && !strings.Contains(line, "[![License:") {
					opts.Badges = append(opts.Badges, line)
				}
			}
			return opts, true
		})
	})

// ReadmeUsage recovers the Usage section of an existing README.
func ReadmeUsage(src intake.Source) intake.Result[string] {
	return intake.Map(intake.Text(src, ReadmePath), func(text string) (string, bool) {
		return readme.ExtractUsage(text)
	})
}
