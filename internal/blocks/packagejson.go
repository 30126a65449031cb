package blocks

import (
	"strings"

	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/ariel-frischer/blockcraft/internal/intake"
	"github.com/ariel-frischer/blockcraft/internal/merge"
)

// PackageJSONOptions configures package.json fields not taken from the base.
type PackageJSONOptions struct {
	Keywords       []string `mapstructure:"keywords" yaml:"keywords,omitempty" validate:"dive,required"`
	Version        string   `mapstructure:"version" yaml:"version,omitempty" validate:"omitempty,semver"`
	PackageManager string   `mapstructure:"package_manager" yaml:"package_manager,omitempty" validate:"oneof=npm pnpm yarn"`
}

const tsconfig = `{
	"compilerOptions": {
		"declaration": true,
		"declarationMap": true,
		"esModuleInterop": true,
		"module": "NodeNext",
		"moduleResolution": "NodeNext",
		"noEmit": true,
		"outDir": "lib",
		"resolveJsonModule": true,
		"skipLibCheck": true,
		"sourceMap": true,
		"strict": true,
		"target": "ES2022"
	},
	"include": ["src"]
}
`

// PackageJSON contributes the package manifest, TypeScript build config and
// the install script.
var PackageJSON = block.Define(NamePackageJSON, "package.json, tsconfig.json and the build script",
	func() PackageJSONOptions {
		return PackageJSONOptions{Version: "0.0.0", PackageManager: "pnpm"}
	},
	func(ctx block.Context, o PackageJSONOptions) block.Contribution {
		pkg := map[string]any{
			"version": o.Version,
			"type":    "module",
			"main":    "./lib/index.js",
			"files":   []any{"LICENSE.md", "README.md", "lib/", "package.json"},
			"scripts": map[string]any{
				"build": "tsc",
			},
			"devDependencies": devDependencies(ctx, "@types/node", "typescript"),
		}
		if len(o.Keywords) > 0 {
			pkg["keywords"] = o.Keywords
		}

		return block.Contribution{
			Files: map[string]string{
				"tsconfig.json": tsconfig,
				".nvmrc":        ctx.Base.NodeVersion + "\n",
			},
			Package: pkg,
			Scripts: []block.Script{{Phase: block.PhaseInstall, Commands: []string{o.PackageManager + " install"}}},
			Docs: map[string]block.Section{
				SectionBuilding: {
					Before: "Run [TypeScript](https://typescriptlang.org) locally to build source files from `src/` into output files in `lib/`:",
					Items:  []string{shellBlock(o.PackageManager + " build")},
				},
			},
			Gitignore: []string{"lib/", "node_modules/"},
			CSpell:    block.CSpell{Ignores: []string{"lib", "node_modules", "pnpm-lock.yaml"}},
		}
	}).
	WithSetup(func(ctx block.Context, o PackageJSONOptions) block.Contribution {
		return block.Contribution{Files: map[string]string{
			"src/index.ts": "export function greet(name: string) {\n\treturn `Hello, ${name}!`;\n}\n",
		}}
	}).
	WithTransition(func(ctx block.Context, o PackageJSONOptions) block.Contribution {
		return block.Contribution{Scripts: []block.Script{{
			Phase:    block.PhaseMigrate,
			Commands: []string{o.PackageManager + " dedupe"},
		}}}
	}).
	WithIntake(func(ic block.IntakeContext) intake.Result[PackageJSONOptions] {
		type manifest struct {
			Keywords       []string `mapstructure:"keywords"`
			Version        string   `mapstructure:"version"`
			PackageManager string   `mapstructure:"packageManager"`
		}
		found := intake.DecodeKnown[manifest](intake.JSON(ic.Source, "package.json"))
		return intake.Map(found, func(m manifest) (PackageJSONOptions, bool) {
			opts := PackageJSONOptions{Keywords: merge.UnionStrings(m.Keywords)}
			if validSemver(m.Version) {
				opts.Version = m.Version
			}
			manager, _, _ := strings.Cut(m.PackageManager, "@")
			switch manager {
			case "npm", "pnpm", "yarn":
				opts.PackageManager = manager
			}
			return opts, true
		})
	})
