package patch

import (
	"regexp"
	"strings"
)

// tokenLineRE matches the lines the sanitizer keeps: patch envelope
// markers, diff headers, hunk headers, and chunk-body lines. Everything
// else — LLM preamble/postscript narration — is discarded silently.
var tokenLineRE = regexp.MustCompile(`^(\*\*\*|---|\+\+\+|@@|[ +\-]).*`)

// controlCharRE matches the control-character ranges the sanitizer strips:
// U+0000..U+0008, U+000B..U+000C, U+000E..U+001F. Never fatal.
var controlCharRE = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F]")

// SanitizeWarning is emitted (non-fatally) whenever a line had control
// characters stripped from it.
type SanitizeWarning struct {
	LineIndex int
	Original  string
}

// Sanitize normalizes raw patch text into an ordered sequence of
// right-trimmed lines:
//
//  1. Normalize line endings (\r\n and \r become \n).
//  2. Trim whole-text outer whitespace.
//  3. Split into lines.
//  4. Retain only lines matching the token regex; discard the rest.
//  5. Right-trim each surviving line.
//  6. Strip disallowed control characters, recording a warning per altered
//     line.
//
// Sanitize never introduces lines, never reorders lines, and never strips
// leading whitespace (it is significant for diff semantics).
func Sanitize(raw string) (lines []string, warnings []SanitizeWarning) {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = strings.TrimSpace(normalized)

	if normalized == "" {
		return nil, nil
	}

	for i, line := range strings.Split(normalized, "\n") {
		if !tokenLineRE.MatchString(line) {
			continue
		}
		trimmed := strings.TrimRight(line, " \t")
		if controlCharRE.MatchString(trimmed) {
			warnings = append(warnings, SanitizeWarning{LineIndex: i, Original: trimmed})
			trimmed = controlCharRE.ReplaceAllString(trimmed, "")
		}
		lines = append(lines, trimmed)
	}
	return lines, warnings
}
