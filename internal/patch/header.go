package patch

import (
	"fmt"
	"regexp"
)

// malformedHeaderRE matches hunk headers with missing or loosely delimited
// counts, e.g. "@@ -3 +3 @@" or "@@ -3,2 +3 @@".
var malformedHeaderRE = regexp.MustCompile(`^@@ -(\d+)(?:[ ,](\d+))? \+(\d+)(?:[ ,](\d+))? @@$`)

// RepairHeader rewrites a recognisable malformed hunk header into its
// canonical form "@@ -S,D +S2,I @@", supplying 0 for any missing count.
// Lines that are not malformed headers of this shape pass through
// unchanged (this includes well-formed headers, V4A "@@ <anchor>" lines,
// and anything else).
func RepairHeader(line string) string {
	m := malformedHeaderRE.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	s, d, s2, i := m[1], orZero(m[2]), m[3], orZero(m[4])
	return fmt.Sprintf("@@ -%s,%s +%s,%s @@", s, d, s2, i)
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// RepairHeaders applies RepairHeader to every line in lines, returning a
// new slice (the input is not mutated).
func RepairHeaders(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = RepairHeader(l)
	}
	return out
}
