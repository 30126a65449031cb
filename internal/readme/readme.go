// Package readme locates and replaces heading-delimited sections of
// Markdown documents.
package readme

import "strings"

const (
	// UsageHeading starts the section holding usage instructions.
	UsageHeading = "## Usage"
	// DevelopmentHeading ends the usage section.
	DevelopmentHeading = "## Development"
)

// span is the byte range of a section body: from the line after the heading
// to the start of the next heading line.
type span struct {
	start, end int
}

// find locates heading and the first next heading after it. Headings match
// whole lines, ignoring trailing whitespace.
func find(text, heading, next string) (span, bool) {
	start := -1
	offset := 0
	for offset <= len(text) {
		lineEnd := strings.IndexByte(text[offset:], '\n')
		var line string
		nextOffset := len(text) + 1
		if lineEnd < 0 {
			line = text[offset:]
		} else {
			line = text[offset : offset+lineEnd]
			nextOffset = offset + lineEnd + 1
		}
		line = strings.TrimRight(line, " \t\r")

		switch {
		case start < 0 && line == heading:
			start = min(nextOffset, len(text))
		case start >= 0 && line == next:
			return span{start: start, end: offset}, true
		}
		offset = nextOffset
	}
	return span{}, false
}

// ExtractSection returns the trimmed content between heading and next. It
// reports false when either heading is missing or the content is blank.
func ExtractSection(text, heading, next string) (string, bool) {
	s, ok := find(text, heading, next)
	if !ok {
		return "", false
	}
	content := strings.TrimSpace(text[s.start:s.end])
	if content == "" {
		return "", false
	}
	return content, true
}

// ExtractUsage returns the body of the Usage section.
func ExtractUsage(text string) (string, bool) {
	return ExtractSection(text, UsageHeading, DevelopmentHeading)
}

// Splice replaces the body between heading and next with content, leaving the
// rest of the document untouched. It reports false when the section does not
// exist.
func Splice(text, heading, next, content string) (string, bool) {
	s, ok := find(text, heading, next)
	if !ok {
		return text, false
	}
	var b strings.Builder
	b.WriteString(text[:s.start])
	if s.start > 0 && text[s.start-1] != '\n' {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if body := strings.TrimSpace(content); body != "" {
		b.WriteString(body)
		b.WriteString("\n\n")
	}
	b.WriteString(text[s.end:])
	return b.String(), true
}
