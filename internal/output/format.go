// Package output provides terminal output formatting utilities for the blockcraft CLI.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintHeader prints a cyan section header followed by a rule sized to the terminal.
func PrintHeader(out io.Writer, title string) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	width := GetTerminalWidth()
	if width > 60 {
		width = 60
	}
	fmt.Fprintf(out, "%s\n%s\n", cyan(title), dim(strings.Repeat("─", width)))
}

// PrintChange prints one file change. Created files are green, updated
// yellow, removed red and unchanged dim.
func PrintChange(out io.Writer, action, path string) {
	var style *color.Color
	var marker string
	switch action {
	case "created":
		style, marker = color.New(color.FgGreen), "+"
	case "updated":
		style, marker = color.New(color.FgYellow), "~"
	case "removed":
		style, marker = color.New(color.FgRed), "-"
	default:
		style, marker = color.New(color.Faint), "="
	}
	fmt.Fprintf(out, "  %s %s\n", style.Sprint(marker), style.Sprint(path))
}

// PrintSummary prints counts per action in a stable order, e.g.
// "3 created, 1 updated".
func PrintSummary(out io.Writer, counts map[string]int, dryRun bool) {
	order := []string{"created", "updated", "removed", "unchanged"}
	var parts []string
	for _, action := range order {
		if n := counts[action]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, action))
		}
	}
	var extra []string
	for action, n := range counts {
		if n > 0 && !contains(order, action) {
			extra = append(extra, fmt.Sprintf("%d %s", n, action))
		}
	}
	sort.Strings(extra)
	parts = append(parts, extra...)

	if len(parts) == 0 {
		parts = []string{"no changes"}
	}
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	msg := strings.Join(parts, ", ")
	if dryRun {
		msg += " (dry run, nothing written)"
	}
	fmt.Fprintf(out, "\n%s %s\n", green("✓"), msg)
}

// PrintWarning prints a yellow warning line.
func PrintWarning(out io.Writer, message string) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", yellow("!"), message)
}

// PrintExecutingCommand prints the command being executed with colored styling.
func PrintExecutingCommand(out io.Writer, command string) {
	magenta := color.New(color.FgMagenta).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", magenta("→ Running:"), dim(command))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
