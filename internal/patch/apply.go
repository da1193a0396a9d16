package patch

import (
	"path/filepath"
	"strings"
)

// WriteFunc persists content at path. RemoveFunc deletes path. Both are
// injected by the host so the engine stays pure with respect to process
// state.
type WriteFunc func(path string, content []byte) error
type RemoveFunc func(path string) error

// ReadFunc loads the current content of path, or reports an error (e.g.
// CodeFileNotFound) if it cannot.
type ReadFunc func(path string) ([]byte, error)

// ApplyCommit effects a Commit via the injected write/remove callbacks.
// Iteration order is unspecified; callers must not assume atomicity
// across multiple paths. Writes to absolute paths are rejected with
// CodeAbsolutePath before any callback runs for that path.
func ApplyCommit(c *Commit, write WriteFunc, remove RemoveFunc) error {
	for _, path := range c.Order {
		change := c.Changes[path]

		switch change.Kind {
		case Delete:
			if filepath.IsAbs(path) {
				return errAbsolutePath(path)
			}
			if err := remove(path); err != nil {
				return err
			}

		case Add:
			if filepath.IsAbs(path) {
				return errAbsolutePath(path)
			}
			if err := write(path, []byte(change.NewContent)); err != nil {
				return err
			}

		case Update:
			targetPath := path
			if change.HasMovePath {
				targetPath = change.MovePath
			}
			if filepath.IsAbs(targetPath) {
				return errAbsolutePath(targetPath)
			}
			if err := write(targetPath, []byte(change.NewContent)); err != nil {
				return err
			}
			if change.HasMovePath && change.MovePath != path {
				if filepath.IsAbs(path) {
					return errAbsolutePath(path)
				}
				if err := remove(path); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ProcessPatch is the convenience pipeline that splits text into blocks
// and, for each block in turn, loads the originals it needs,
// parses it, builds a commit, and applies it — so a later block observes
// the file states left by the ones before it. Returns "Done!" on success;
// any failure aborts immediately without applying further blocks.
func ProcessPatch(text string, read ReadFunc, write WriteFunc, remove RemoveFunc) (string, error) {
	lines, _ := Sanitize(text)
	lines = RepairHeaders(lines)

	blocks, err := SplitBlocks(lines)
	if err != nil {
		return "", err
	}
	if len(blocks) == 0 {
		return "", errInvalidPatchEnvelope("no Begin/End Patch block found")
	}

	for _, block := range blocks {
		originals, err := loadOriginals(block, read)
		if err != nil {
			return "", err
		}

		p, _, err := parseBlock(block, originals)
		if err != nil {
			return "", err
		}

		commit, err := PatchToCommit(p, originals)
		if err != nil {
			return "", err
		}

		if err := ApplyCommit(commit, write, remove); err != nil {
			return "", err
		}
	}

	return "Done!", nil
}

// loadOriginals reads every path an Update/Delete action in block will
// need, surfacing a read failure as CodeFileNotFound.
func loadOriginals(block []string, read ReadFunc) (map[string]string, error) {
	needed := IdentifyFilesNeeded(strings.Join(block, "\n"))
	originals := make(map[string]string, len(needed))
	for _, path := range needed {
		content, err := read(path)
		if err != nil {
			return nil, errFileNotFound(path)
		}
		originals[path] = string(content)
	}
	return originals, nil
}
