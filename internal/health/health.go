// Package health provides dependency health checks for blockcraft. It validates that
// the tools generated scripts call (node, pnpm, git) are available and that the
// project directory is a git repository with a detectable remote, returning
// structured reports used by the 'blockcraft doctor' command.
package health

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ariel-frischer/blockcraft/internal/git"
)

// Tools are the executables generated scripts and workflows rely on.
var Tools = []string{"node", "pnpm", "git"}

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Optional checks warn instead of failing the report.
	Optional bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Checker runs health checks. Zero fields use the real system.
type Checker struct {
	// Dir is the project directory.
	Dir      string
	LookPath func(file string) (string, error)
	// Version returns the output of `<tool> --version`.
	Version func(ctx context.Context, path string) (string, error)
}

// RunHealthChecks runs all health checks for dir and returns a report.
func RunHealthChecks(ctx context.Context, dir string) *HealthReport {
	return (&Checker{Dir: dir}).Run(ctx)
}

// Run runs every check.
func (c *Checker) Run(ctx context.Context) *HealthReport {
	report := &HealthReport{Passed: true}
	add := func(r CheckResult) {
		report.Checks = append(report.Checks, r)
		if !r.Passed && !r.Optional {
			report.Passed = false
		}
	}

	for _, tool := range Tools {
		add(c.CheckTool(ctx, tool))
	}
	add(c.CheckRepository())
	add(c.CheckRemote())
	return report
}

// CheckTool checks that tool is on PATH and reports its version.
func (c *Checker) CheckTool(ctx context.Context, tool string) CheckResult {
	path, err := c.lookPath()(tool)
	if err != nil {
		return CheckResult{
			Name:    tool,
			Passed:  false,
			Message: tool + " not found in PATH",
		}
	}

	version, err := c.version()(ctx, path)
	if err != nil || version == "" {
		return CheckResult{Name: tool, Passed: true, Message: "found at " + path}
	}
	return CheckResult{Name: tool, Passed: true, Message: fmt.Sprintf("%s (%s)", version, path)}
}

// CheckRepository checks that the project directory is inside a git repository.
func (c *Checker) CheckRepository() CheckResult {
	if !git.IsGitRepository(c.Dir) {
		return CheckResult{
			Name:     "git repository",
			Passed:   false,
			Optional: true,
			Message:  "not a git repository; owner and repository must be configured under base",
		}
	}
	root, err := git.GetRepositoryRoot(c.Dir)
	if err != nil {
		return CheckResult{Name: "git repository", Passed: true, Message: "found"}
	}
	return CheckResult{Name: "git repository", Passed: true, Message: root}
}

// CheckRemote checks that owner and repository can be read from the origin remote.
func (c *Checker) CheckRemote() CheckResult {
	owner, repo, ok := git.RemoteRepository(c.Dir)
	if !ok {
		return CheckResult{
			Name:     "origin remote",
			Passed:   false,
			Optional: true,
			Message:  "no GitHub-style origin remote detected",
		}
	}
	return CheckResult{Name: "origin remote", Passed: true, Message: owner + "/" + repo}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var sb strings.Builder
	for _, check := range report.Checks {
		symbol := "✓"
		switch {
		case !check.Passed && check.Optional:
			symbol = "○"
		case !check.Passed:
			symbol = "✗"
		}
		fmt.Fprintf(&sb, "%s %s: %s\n", symbol, check.Name, check.Message)
	}
	return sb.String()
}

func (c *Checker) lookPath() func(string) (string, error) {
	if c.LookPath != nil {
		return c.LookPath
	}
	return exec.LookPath
}

func (c *Checker) version() func(context.Context, string) (string, error) {
	if c.Version != nil {
		return c.Version
	}
	return toolVersion
}

func toolVersion(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return line, nil
}
