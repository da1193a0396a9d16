package patch

import "strings"

// TextToPatch parses a single patch block's text into a structured Patch,
// given a snapshot of the original files it may reference. It is pure: it
// never touches I/O and a repeated call with equal inputs returns an
// equal result.
//
// text must sanitize/split down to exactly one "*** Begin Patch" /
// "*** End Patch" block; multi-block input is the concern of ProcessPatch,
// which drives TextToPatch once per block so each block sees the file
// states left by the ones before it.
func TextToPatch(text string, originals map[string]string) (*Patch, int, error) {
	lines, _ := Sanitize(text)
	lines = RepairHeaders(lines)

	blocks, err := SplitBlocks(lines)
	if err != nil {
		return nil, 0, err
	}
	if len(blocks) != 1 {
		return nil, 0, errInvalidPatchEnvelope("expected exactly one Begin/End Patch block")
	}
	return parseBlock(blocks[0], originals)
}

// parseBlock parses one block's lines (Begin/End markers included).
func parseBlock(lines []string, originals map[string]string) (*Patch, int, error) {
	if len(lines) < 2 || lines[0] != beginPatchMarker {
		return nil, 0, errInvalidPatchEnvelope("block does not start with " + beginPatchMarker)
	}
	if lines[len(lines)-1] != endPatchMarker {
		return nil, 0, errInvalidPatchEnvelope("block does not end with " + endPatchMarker)
	}

	patch := NewPatch()
	fuzz := 0
	idx := 1 // skip Begin Patch

	for idx < len(lines) {
		line := lines[idx]

		switch {
		case line == endPatchMarker:
			return patch, fuzz, nil

		case strings.HasPrefix(line, prefixUpdateFile):
			path := strings.TrimSpace(strings.TrimPrefix(line, prefixUpdateFile))
			if _, dup := patch.Actions[path]; dup {
				return nil, 0, errDuplicatePath(path)
			}
			original, ok := originals[path]
			if !ok {
				return nil, 0, errMissingFile(path)
			}
			action, addedFuzz, nextIdx, err := parseUpdate(lines, idx+1, path, splitOriginal(original))
			if err != nil {
				return nil, 0, err
			}
			patch.add(path, action)
			fuzz += addedFuzz
			idx = nextIdx

		case strings.HasPrefix(line, prefixDeleteFile):
			path := strings.TrimSpace(strings.TrimPrefix(line, prefixDeleteFile))
			if _, dup := patch.Actions[path]; dup {
				return nil, 0, errDuplicatePath(path)
			}
			if _, ok := originals[path]; !ok {
				return nil, 0, errMissingFile(path)
			}
			patch.add(path, &PatchAction{Kind: Delete})
			idx++

		case strings.HasPrefix(line, prefixAddFile):
			path := strings.TrimSpace(strings.TrimPrefix(line, prefixAddFile))
			if _, dup := patch.Actions[path]; dup {
				return nil, 0, errDuplicatePath(path)
			}
			if _, ok := originals[path]; ok {
				return nil, 0, errFileAlreadyExists(path)
			}
			action, nextIdx, err := parseAdd(lines, idx+1)
			if err != nil {
				return nil, 0, err
			}
			patch.add(path, action)
			idx = nextIdx

		default:
			return nil, 0, errUnknownLine(line)
		}
	}

	return nil, 0, errInvalidPatchEnvelope("block does not end with " + endPatchMarker)
}

// splitOriginal splits file content into lines for context matching. A
// single trailing newline, if present, is treated the conventional way
// (it terminates the last line rather than introducing a phantom empty
// one); see splitLines in commit.go for the paired join behavior.
func splitOriginal(content string) []string {
	lines, _ := splitLines(content)
	return lines
}

// parseUpdate consumes an Update action body starting at idx (the line
// right after "*** Update File: <path>"). It returns the constructed
// action, the fuzz contributed by anchor seeking and context matching, and
// the index of the first line not consumed (a document-scope directive).
func parseUpdate(lines []string, idx int, path string, original []string) (*PatchAction, int, int, error) {
	action := &PatchAction{Kind: Update}
	fuzz := 0
	originCursor := 0

	for idx < len(lines) {
		line := lines[idx]

		if strings.HasPrefix(line, prefixMoveTo) {
			action.MovePath = strings.TrimSpace(strings.TrimPrefix(line, prefixMoveTo))
			idx++
			continue
		}

		if strings.HasPrefix(line, "@@") {
			anchor := strings.TrimSpace(strings.TrimPrefix(line, "@@"))
			idx++

			if anchor != "" {
				if at, trimmedOnly, found := seekAnchor(original, originCursor, anchor); found {
					originCursor = at + 1
					if trimmedOnly {
						fuzz++
					}
				}
			}

			old, chunks, nextIdx, eof, err := peekChunkSection(lines, idx)
			if err != nil {
				return nil, 0, 0, err
			}
			idx = nextIdx

			res := MatchContext(original, old, originCursor, eof)
			if res.Index == -1 {
				diag := diffDiagnostic(original, old, originCursor)
				if eof {
					return nil, 0, 0, errInvalidEOFContext(path, diag)
				}
				return nil, 0, 0, errInvalidContext(path, diag)
			}
			fuzz += res.Fuzz

			for i := range chunks {
				chunks[i].OrigIndex += res.Index
			}
			action.Chunks = append(action.Chunks, chunks...)
			originCursor = res.Index + len(old)

			if eof {
				// The peeker stopped exactly at the "*** End of File"
				// line without consuming it; do so now.
				idx++
			}
			continue
		}

		// Any other line ends the Update action; control returns to the
		// document-scope dispatcher.
		break
	}

	return action, fuzz, idx, nil
}

// seekAnchor looks for text inside original[start:], using strict
// equality first and falling back to trimmed equality. It returns the
// matched index, whether only the trimmed rung matched, and
// whether anything was found at all. A miss is not fatal: the caller
// continues and relies on the following context block to locate the
// chunk.
func seekAnchor(original []string, start int, text string) (index int, trimmedOnly bool, found bool) {
	for i := start; i < len(original); i++ {
		if original[i] == text {
			return i, false, true
		}
	}
	trimmedText := strings.TrimSpace(text)
	for i := start; i < len(original); i++ {
		if strings.TrimSpace(original[i]) == trimmedText {
			return i, true, true
		}
	}
	return -1, false, false
}

// parseAdd consumes an Add action body: every line must begin with "+".
func parseAdd(lines []string, idx int) (*PatchAction, int, error) {
	var content []string
	for idx < len(lines) {
		line := lines[idx]
		if isDocumentScopeDirective(line) {
			break
		}
		if !strings.HasPrefix(line, "+") {
			return nil, 0, errInvalidAddFileLine(line)
		}
		content = append(content, line[1:])
		idx++
	}
	return &PatchAction{Kind: Add, NewFile: strings.Join(content, "\n"), HasNew: true}, idx, nil
}

func isDocumentScopeDirective(line string) bool {
	switch {
	case line == endPatchMarker:
		return true
	case strings.HasPrefix(line, prefixUpdateFile), strings.HasPrefix(line, prefixDeleteFile), strings.HasPrefix(line, prefixAddFile):
		return true
	}
	return false
}

// peekChunkSection scans forward from idx collecting one @@ section's
// context/deletion/addition lines into the three parallel sequences
// described by the old/del/ins triple, emitting a Chunk every time
// the run returns to "keep" mode. It stops at any recognised directive,
// a new "@@" header, or a bare "***" line, without consuming that line
// (except to report whether it was "*** End of File").
func peekChunkSection(lines []string, idx int) (old []string, chunks []Chunk, nextIdx int, eof bool, err error) {
	var runDel, runIns []string

	flush := func() {
		if len(runDel) > 0 || len(runIns) > 0 {
			chunks = append(chunks, Chunk{
				OrigIndex: len(old) - len(runDel),
				DelLines:  append([]string(nil), runDel...),
				InsLines:  append([]string(nil), runIns...),
			})
			runDel = nil
			runIns = nil
		}
	}

	for idx < len(lines) {
		line := lines[idx]

		terminal, isEOF, terminalErr := classifySectionLine(line)
		if terminalErr != nil {
			return nil, nil, 0, false, terminalErr
		}
		if terminal {
			flush()
			return old, chunks, idx, isEOF, nil
		}

		switch {
		case strings.HasPrefix(line, " "):
			flush()
			old = append(old, line[1:])
		case strings.HasPrefix(line, "+"):
			runIns = append(runIns, line[1:])
		case strings.HasPrefix(line, "-"):
			runDel = append(runDel, line[1:])
			old = append(old, line[1:])
		default:
			// Missing space prefix: tolerated as context.
			flush()
			old = append(old, line)
		}
		idx++
	}

	flush()
	return old, chunks, idx, false, nil
}

// classifySectionLine reports whether line terminates a chunk section
// (without being consumed by it), whether that terminator is the EOF
// marker, and whether the line is a malformed "***" directive that must
// raise InvalidHunkLine.
func classifySectionLine(line string) (terminal bool, eof bool, err error) {
	switch {
	case line == markerEndOfFile:
		return true, true, nil
	case line == endPatchMarker:
		return true, false, nil
	case line == "***":
		return true, false, nil
	case strings.HasPrefix(line, "@@"):
		return true, false, nil
	case strings.HasPrefix(line, prefixUpdateFile),
		strings.HasPrefix(line, prefixDeleteFile),
		strings.HasPrefix(line, prefixAddFile),
		strings.HasPrefix(line, prefixMoveTo):
		return true, false, nil
	case strings.HasPrefix(line, "***"):
		return false, false, errInvalidHunkLine(line)
	default:
		return false, false, nil
	}
}
