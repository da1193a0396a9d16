package patch

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Fuzz penalties per rung of the context equivalence ladder.
const (
	penaltyIdentity       = 0
	penaltyRightTrim      = 1
	penaltyFullTrim       = 100
	penaltyUnicode        = 1000
	penaltyWindow         = 50000
	penaltyEOFIgnored     = 10000
	windowMatchThreshold  = 0.8
	windowRadius          = 2
)

// punctuationTable maps Unicode look-alikes to their ASCII equivalents.
// Deliberately narrow: it never touches alphabetic look-alikes (e.g.
// Cyrillic "а" vs Latin "a"), since folding those would risk false
// positives inside identifiers.
var punctuationTable = buildPunctuationTable()

func buildPunctuationTable() map[rune]rune {
	t := make(map[rune]rune)
	dashes := []rune{0x2D, 0x2010, 0x2011, 0x2012, 0x2013, 0x2014, 0x2015, 0x2212}
	for _, r := range dashes {
		t[r] = '-'
	}
	doubleQuotes := []rune{0x22, 0x201C, 0x201D, 0x201E, 0x201F, 0xAB, 0xBB}
	for _, r := range doubleQuotes {
		t[r] = '"'
	}
	singleQuotes := []rune{0x27, 0x2018, 0x2019, 0x201A, 0x201B}
	for _, r := range singleQuotes {
		t[r] = '\''
	}
	spaces := []rune{0xA0, 0x2002, 0x2003, 0x2004, 0x2005, 0x2006, 0x2007, 0x2008, 0x2009, 0x200A, 0x202F, 0x205F, 0x3000}
	for _, r := range spaces {
		t[r] = ' '
	}
	return t
}

// canonicalizeUnicode applies NFC normalization followed by code-point
// punctuation substitution. Characters with no table entry pass through
// unchanged, including U+200B (zero-width space): it must appear
// consistently on both sides of a match or not at all.
func canonicalizeUnicode(s string) string {
	nfc := norm.NFC.String(s)
	var b strings.Builder
	b.Grow(len(nfc))
	for _, r := range nfc {
		if repl, ok := punctuationTable[r]; ok {
			b.WriteRune(repl)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MatchResult is what the Context Matcher returns for one context search.
type MatchResult struct {
	// Index is the 0-based line in fileLines where context begins, or -1
	// if every rung failed.
	Index int
	// Fuzz is the penalty contributed by whichever rung succeeded.
	Fuzz int
}

// MatchContext locates context (the expected slice of original-file lines)
// inside fileLines, starting the search at start, per the five-rung
// equivalence ladder. eof indicates the hunk carries a "*** End of File"
// anchor, which makes the matcher prefer the terminal position before
// falling back to a full scan.
//
// The ladder never guesses: if every rung fails, Index is -1 and Fuzz is
// meaningless.
func MatchContext(fileLines, context []string, start int, eof bool) MatchResult {
	if len(context) == 0 {
		if start >= 0 && start <= len(fileLines) {
			return MatchResult{Index: start, Fuzz: 0}
		}
		return MatchResult{Index: -1}
	}

	maxStart := len(fileLines) - len(context)
	if maxStart < 0 {
		return eofOrWindowFallback(fileLines, context, start)
	}
	if start < 0 {
		start = 0
	}

	if eof {
		terminal := maxStart
		if terminal >= start {
			if fuzz, ok := matchLadderAt(fileLines, context, terminal); ok {
				return MatchResult{Index: terminal, Fuzz: fuzz}
			}
		}
		if idx, fuzz, ok := scanLadder(fileLines, context, start, maxStart); ok {
			return MatchResult{Index: idx, Fuzz: fuzz + penaltyEOFIgnored}
		}
		return eofOrWindowFallback(fileLines, context, start)
	}

	if idx, fuzz, ok := scanLadder(fileLines, context, start, maxStart); ok {
		return MatchResult{Index: idx, Fuzz: fuzz}
	}
	return eofOrWindowFallback(fileLines, context, start)
}

// eofOrWindowFallback is rung 5: the bounded-tolerance window match. It is
// attempted regardless of eof, after rungs 1-4 have both failed.
func eofOrWindowFallback(fileLines, context []string, start int) MatchResult {
	if idx, fuzz, ok := windowMatch(fileLines, context, start); ok {
		return MatchResult{Index: idx, Fuzz: fuzz}
	}
	return MatchResult{Index: -1}
}

// scanLadder scans fileLines[lo..hi] (inclusive) for a position where
// rungs 1-4 succeed, returning the first (lowest-index) hit and its rung
// penalty.
func scanLadder(fileLines, context []string, lo, hi int) (index, fuzz int, ok bool) {
	for i := lo; i <= hi; i++ {
		if f, matched := matchLadderAt(fileLines, context, i); matched {
			return i, f, true
		}
	}
	return -1, 0, false
}

// matchLadderAt tries rungs 1-4 at a single fixed position.
func matchLadderAt(fileLines, context []string, pos int) (fuzz int, ok bool) {
	if pos < 0 || pos+len(context) > len(fileLines) {
		return 0, false
	}
	window := fileLines[pos : pos+len(context)]

	if linesEqual(window, context, identityXform) {
		return penaltyIdentity, true
	}
	if linesEqual(window, context, rightTrimXform) {
		return penaltyRightTrim, true
	}
	if linesEqual(window, context, fullTrimXform) {
		return penaltyFullTrim, true
	}
	if linesEqual(window, context, canonicalizeUnicode) {
		return penaltyUnicode, true
	}
	return 0, false
}

func identityXform(s string) string  { return s }
func rightTrimXform(s string) string { return strings.TrimRight(s, " \t") }
func fullTrimXform(s string) string  { return strings.TrimSpace(s) }

func linesEqual(a, b []string, xform func(string) string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if xform(a[i]) != xform(b[i]) {
			return false
		}
	}
	return true
}

// windowMatch implements rung 5: scan a ±windowRadius neighborhood of
// start, accepting the first candidate (closest to start first) where at
// least windowMatchThreshold of the context lines match exactly.
func windowMatch(fileLines, context []string, start int) (index, fuzz int, ok bool) {
	if len(context) == 0 {
		return -1, 0, false
	}
	offsets := make([]int, 0, 2*windowRadius+1)
	offsets = append(offsets, 0)
	for d := 1; d <= windowRadius; d++ {
		offsets = append(offsets, -d, d)
	}

	for _, d := range offsets {
		pos := start + d
		if pos < 0 || pos+len(context) > len(fileLines) {
			continue
		}
		matches := 0
		for i, c := range context {
			if fileLines[pos+i] == c {
				matches++
			}
		}
		// matches/len(context) >= windowMatchThreshold, computed by
		// multiplying out the denominator rather than dividing.
		if float64(matches) >= windowMatchThreshold*float64(len(context)) {
			return pos, penaltyWindow, true
		}
	}
	return -1, 0, false
}
