package emit

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ariel-frischer/blockcraft/internal/block"
	"gopkg.in/yaml.v3"
)

type workflowTrigger struct {
	PullRequest *struct{} `yaml:"pull_request"`
	Push        struct {
		Branches []string `yaml:"branches"`
	} `yaml:"push"`
}

type workflowJob struct {
	Name   string       `yaml:"name"`
	RunsOn string       `yaml:"runs-on"`
	Steps  []block.Step `yaml:"steps"`
}

type workflow struct {
	Name string                 `yaml:"name"`
	On   workflowTrigger        `yaml:"on"`
	Jobs map[string]workflowJob `yaml:"jobs"`
}

// WorkflowPath returns the workflow file for a job name.
func WorkflowPath(job string) string {
	return WorkflowsDir + "/" + Slug(job) + ".yml"
}

// Workflow renders one GitHub Actions workflow holding a single job.
func Workflow(job block.Job) (string, error) {
	w := workflow{
		Name: job.Name,
		Jobs: map[string]workflowJob{
			Slug(job.Name): {
				Name:   job.Name,
				RunsOn: "ubuntu-latest",
				Steps:  job.Steps,
			},
		},
	}
	w.On.PullRequest = &struct{}{}
	w.On.Push.Branches = []string{"main"}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(w); err != nil {
		return "", fmt.Errorf("encoding workflow %q: %w", job.Name, err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding workflow %q: %w", job.Name, err)
	}
	return buf.String(), nil
}

// Slug lowercases s and replaces runs of other characters with a dash.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	return b.String()
}
