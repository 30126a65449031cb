package blocks

import (
	"bytes"

	"github.com/ariel-frischer/blockcraft/internal/block"
	"gopkg.in/yaml.v3"
)

// GitHubActionsCIOptions configures the shared CI setup.
type GitHubActionsCIOptions struct {
	// NodeVersion overrides the base node version for CI.
	NodeVersion string `mapstructure:"node_version" yaml:"node_version,omitempty" validate:"omitempty,semver"`
}

const prepareActionPath = ".github/actions/prepare/action.yml"

type compositeStep struct {
	Uses  string            `yaml:"uses,omitempty"`
	Run   string            `yaml:"run,omitempty"`
	Shell string            `yaml:"shell,omitempty"`
	With  map[string]string `yaml:"with,omitempty"`
}

type compositeAction struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Runs        struct {
		Using string          `yaml:"using"`
		Steps []compositeStep `yaml:"steps"`
	} `yaml:"runs"`
}

func prepareAction(nodeVersion string) string {
	action := compositeAction{
		Name:        "Prepare",
		Description: "Prepares the repo for a typical CI job",
	}
	action.Runs.Using = "composite"
	action.Runs.Steps = []compositeStep{
		{Uses: "pnpm/action-setup@v4"},
		{Uses: "actions/setup-node@v4", With: map[string]string{"cache": "pnpm", "node-version": nodeVersion}},
		{Run: "pnpm install --frozen-lockfile", Shell: "bash"},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(action); err != nil {
		panic(err)
	}
	_ = enc.Close()
	return buf.String()
}

// GitHubActionsCI contributes the composite prepare action every CI job uses
// and the Build job.
var GitHubActionsCI = block.Define(NameGitHubActionsCI, "GitHub Actions CI with a shared prepare action", nil,
	func(ctx block.Context, o GitHubActionsCIOptions) block.Contribution {
		node := o.NodeVersion
		if node == "" {
			node = ctx.Base.NodeVersion
		}
		return block.Contribution{
			Files: map[string]string{prepareActionPath: prepareAction(node)},
			Jobs:  []block.Job{ciJob("Build", "pnpm build", "node ./lib/index.js")},
			VSCode: block.VSCode{
				Extensions: []string{"github.vscode-github-actions"},
			},
		}
	})
