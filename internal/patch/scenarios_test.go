package patch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// These tests exercise named end-to-end scenarios and properties through
// the public pipeline entry points, complementing the unit-level coverage
// in match_test.go, parser_test.go, and apply_test.go.

// A context line carries an EN DASH where the file has a plain hyphen.
// The matcher must still locate it, at a cost of at least the unicode
// rung's penalty.
func TestEndToEndUnicodeDashDrift(t *testing.T) {
	originals := map[string]string{"notes.py": "# range: 1-10\n"}
	text := "*** Begin Patch\n" +
		"*** Update File: notes.py\n" +
		"@@\n # range: 1–10\n" +
		"+# done\n" +
		"*** End Patch"

	p, fuzz, err := TextToPatch(text, originals)
	require.NoError(t, err)
	require.GreaterOrEqual(t, fuzz, penaltyUnicode)
	require.Len(t, p.Actions["notes.py"].Chunks, 1)
}

// One of the hunk's context lines differs from the file. Rungs 1-4 never
// find an exact/trimmed/unicode match anywhere in the file, so the engine
// must fall through to the rung-5 window match (4 of 5 lines equal).
func TestEndToEndWindowShiftFallback(t *testing.T) {
	originals := map[string]string{
		"a.py": "alpha\nbeta\ngamma\ndelta\nepsilon\n",
	}
	text := "*** Begin Patch\n" +
		"*** Update File: a.py\n" +
		"@@\n alpha\n beta\n GAMMA_DRIFT\n delta\n epsilon\n" +
		"+zeta\n" +
		"*** End Patch"

	p, fuzz, err := TextToPatch(text, originals)
	require.NoError(t, err)
	require.GreaterOrEqual(t, fuzz, penaltyWindow)
	require.Len(t, p.Actions["a.py"].Chunks, 1)
	require.Equal(t, []string{"zeta"}, p.Actions["a.py"].Chunks[0].InsLines)

	c, err := PatchToCommit(p, originals)
	require.NoError(t, err)
	require.Equal(t, "alpha\nbeta\ngamma\ndelta\nepsilon\nzeta\n", c.Changes["a.py"].NewContent)
}

// The hunk's context does not appear anywhere in the file. The patch must
// be rejected as InvalidContext and nothing must be written.
func TestEndToEndUnmatchedContextRejected(t *testing.T) {
	fs := newFakeFS(map[string]string{"a.py": "one\ntwo\nthree\n"})
	text := "*** Begin Patch\n" +
		"*** Update File: a.py\n" +
		"@@\n this line does not exist\n-two\n+TWO\n" +
		"*** End Patch"

	_, err := ProcessPatch(text, fs.read, fs.write, fs.remove)
	require.True(t, Is(err, CodeInvalidContext))
	require.Empty(t, fs.writes)
	require.Equal(t, "one\ntwo\nthree\n", fs.files["a.py"])
}

// A malformed unified-diff-style header with a missing count is repaired
// before parsing, rather than rejected outright.
func TestEndToEndMalformedHeaderRepaired(t *testing.T) {
	originals := map[string]string{"a.py": "one\ntwo\nthree\n"}
	text := "*** Begin Patch\n" +
		"*** Update File: a.py\n" +
		"@@ -3 +3 @@\n" +
		" two\n-three\n+THREE\n" +
		"*** End Patch"

	p, _, err := TextToPatch(text, originals)
	require.NoError(t, err)
	require.Equal(t, []string{"THREE"}, p.Actions["a.py"].Chunks[0].InsLines)
}

// An empty patch applied to a file via ProcessPatch leaves it
// byte-for-byte unchanged (there is no action touching it at all).
func TestPropertyEmptyPatchIsIdentity(t *testing.T) {
	fs := newFakeFS(map[string]string{"untouched.py": "same\n"})
	text := "*** Begin Patch\n*** End Patch"

	result, err := ProcessPatch(text, fs.read, fs.write, fs.remove)
	require.NoError(t, err)
	require.Equal(t, "Done!", result)
	require.Equal(t, "same\n", fs.files["untouched.py"])
	require.Empty(t, fs.writes)
	require.Empty(t, fs.removes)
}

// Adding a file and then deleting it (as two sequential blocks) leaves
// the filesystem as if neither had happened.
func TestPropertyAddDeleteSymmetry(t *testing.T) {
	fs := newFakeFS(map[string]string{})
	text := "*** Begin Patch\n*** Add File: temp.py\n+x = 1\n*** End Patch\n" +
		"*** Begin Patch\n*** Delete File: temp.py\n*** End Patch"

	result, err := ProcessPatch(text, fs.read, fs.write, fs.remove)
	require.NoError(t, err)
	require.Equal(t, "Done!", result)
	require.NotContains(t, fs.files, "temp.py")
}

// A patch that fails context matching must never have caused any write
// before the failure is surfaced, even when another action in the same
// document would have succeeded.
func TestPropertyNoPartialApplyAcrossActions(t *testing.T) {
	fs := newFakeFS(map[string]string{
		"good.py": "keep me\n",
		"bad.py":  "one\ntwo\n",
	})
	text := "*** Begin Patch\n" +
		"*** Update File: bad.py\n" +
		"@@\n one\n-this does not match\n+nope\n" +
		"*** Delete File: good.py\n" +
		"*** End Patch"

	_, err := ProcessPatch(text, fs.read, fs.write, fs.remove)
	require.Error(t, err)
	require.Empty(t, fs.writes)
	require.Empty(t, fs.removes)
	require.Equal(t, "keep me\n", fs.files["good.py"])
}

// An EOF-anchored hunk that only matches mid-file (never at the true
// tail) must still succeed, but incur at least the EOF-ignored penalty,
// end to end through TextToPatch.
func TestPropertyEOFIgnoredPenaltyEndToEnd(t *testing.T) {
	originals := map[string]string{"a.py": "a\nb\nzzz\n"}
	text := "*** Begin Patch\n" +
		"*** Update File: a.py\n" +
		"@@\n a\n" +
		"-b\n+B\n" +
		"*** End of File\n" +
		"*** End Patch"

	_, fuzz, err := TextToPatch(text, originals)
	require.NoError(t, err)
	require.GreaterOrEqual(t, fuzz, penaltyEOFIgnored)
}
