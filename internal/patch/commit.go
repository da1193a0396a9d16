package patch

import "strings"

// PatchToCommit converts a Patch plus a snapshot of original file contents
// into a Commit: the set of final file states. An Update whose chunks
// leave the content unchanged, and which does not move the file, is not
// added to the Commit.
func PatchToCommit(p *Patch, originals map[string]string) (*Commit, error) {
	commit := NewCommit()

	for _, path := range p.Order {
		action := p.Actions[path]
		switch action.Kind {
		case Delete:
			old := originals[path]
			commit.add(path, &FileChange{Kind: Delete, OldContent: old, HasOld: true})

		case Add:
			commit.add(path, &FileChange{Kind: Add, NewContent: action.NewFile, HasNew: true})

		case Update:
			old := originals[path]
			newContent, err := applyChunks(path, old, action.Chunks)
			if err != nil {
				return nil, err
			}
			if newContent == old && (action.MovePath == "" || action.MovePath == path) {
				continue
			}
			change := &FileChange{
				Kind:       Update,
				OldContent: old,
				HasOld:     true,
				NewContent: newContent,
				HasNew:     true,
			}
			if action.MovePath != "" {
				change.MovePath = action.MovePath
				change.HasMovePath = true
			}
			commit.add(path, change)
		}
	}

	return commit, nil
}

// applyChunks replays chunks against original: copy verbatim up to each
// chunk's OrigIndex, emit its insertions, skip past its deletions, then
// append the tail.
func applyChunks(path, original string, chunks []Chunk) (string, error) {
	origLines, trailingNewline := splitLines(original)

	var out []string
	cursor := 0

	for _, c := range chunks {
		if c.OrigIndex > len(origLines) {
			return "", errChunkOutOfRange(path, c.OrigIndex, len(origLines))
		}
		if c.OrigIndex < cursor {
			return "", errChunkOrderViolation(path)
		}

		out = append(out, origLines[cursor:c.OrigIndex]...)
		out = append(out, c.InsLines...)

		cursor = c.OrigIndex + len(c.DelLines)
		if cursor > len(origLines) {
			return "", errChunkOutOfRange(path, c.OrigIndex, len(origLines))
		}
	}

	out = append(out, origLines[cursor:]...)
	return joinLines(out, trailingNewline), nil
}

// splitLines splits file content into lines the way diff tooling
// conventionally does: a single trailing newline terminates the last line
// rather than introducing a phantom empty one. It reports whether content
// had that trailing newline, so joinLines can restore it.
func splitLines(content string) (lines []string, trailingNewline bool) {
	if content == "" {
		return nil, false
	}
	trailingNewline = strings.HasSuffix(content, "\n")
	trimmed := content
	if trailingNewline {
		trimmed = content[:len(content)-1]
	}
	if trimmed == "" {
		return []string{""}, trailingNewline
	}
	return strings.Split(trimmed, "\n"), trailingNewline
}

// joinLines is the inverse of splitLines.
func joinLines(lines []string, trailingNewline bool) string {
	joined := strings.Join(lines, "\n")
	if trailingNewline {
		joined += "\n"
	}
	return joined
}
