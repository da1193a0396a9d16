package patch

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffDiagnostic renders a compact character-level diff between the
// context a hunk expected and the same-sized window of the original file
// at the search cursor, stored as the "diagnostic" context entry of
// InvalidContext/InvalidEOFContext errors.
// It is advisory only — it never affects matching decisions, only what a
// human reads when the ladder in match.go has already failed.
func diffDiagnostic(original, context []string, start int) string {
	candidate := closestWindow(original, len(context), start)

	dmp := diffmatchpatch.New()
	wantText := strings.Join(context, "\n")
	gotText := strings.Join(candidate, "\n")

	diffs := dmp.DiffMain(gotText, wantText, false)
	return dmp.DiffPrettyText(diffs)
}

// closestWindow returns the slice of original of length size starting at
// start (clipped to file bounds), used only to pick something reasonable
// to diff against when no match was found at all.
func closestWindow(original []string, size, start int) []string {
	if size <= 0 {
		return nil
	}
	if start < 0 {
		start = 0
	}
	end := start + size
	if end > len(original) {
		end = len(original)
		start = end - size
		if start < 0 {
			start = 0
		}
	}
	if start >= len(original) {
		return nil
	}
	return original[start:end]
}
