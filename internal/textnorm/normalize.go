// Package textnorm normalizes raw document text before field scanning.
// It only touches line endings and trailing whitespace; content is
// otherwise preserved so candidate positions stay meaningful.
package textnorm

import "strings"

// Normalize converts any line-ending convention to "\n" and trims
// trailing whitespace from each line. Empty input yields empty output.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	return strings.Join(Lines(text), "\n")
}

// Lines splits text into normalized lines. Line boundaries are the
// termination points for field values, so splitting happens before any
// pattern is applied.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return lines
}
