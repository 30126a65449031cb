package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// palette styles the parts of a formatted error. The zero value prints plain text.
type palette struct {
	label, message, fix, usageLabel, usage, bullet, category func(a ...interface{}) string
}

func plain(a ...interface{}) string { return fmt.Sprint(a...) }

var plainPalette = palette{plain, plain, plain, plain, plain, plain, plain}

// colorPalette falls back to plain text when color.NoColor is set.
func colorPalette() palette {
	return palette{
		label:      color.New(color.FgRed, color.Bold).SprintFunc(),
		message:    color.New(color.FgRed).SprintFunc(),
		fix:        color.New(color.FgGreen, color.Bold).SprintFunc(),
		usageLabel: color.New(color.FgCyan, color.Bold).SprintFunc(),
		usage:      color.New(color.FgCyan).SprintFunc(),
		bullet:     color.New(color.FgGreen).SprintFunc(),
		category:   color.New(color.FgYellow).SprintFunc(),
	}
}

// FormatError formats a CLIError for display in the terminal.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, colorPalette())
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, plainPalette)
}

func formatError(err *CLIError, p palette) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%s]: %s\n", p.label("Error"), p.category(err.Category.String()), p.message(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", p.usageLabel("Usage: "), p.usage(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", p.fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", p.bullet("•"), step)
		}
	}

	return sb.String()
}

// FprintError classifies err and prints it to w.
func FprintError(w io.Writer, err error) {
	if cliErr := Classify(err); cliErr != nil {
		fmt.Fprint(w, FormatError(cliErr))
	}
}
