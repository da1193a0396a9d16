// v4apatch applies a V4A-format patch read from stdin to the current
// working directory.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"v4apatch/internal/cliutil"
	"v4apatch/internal/config"
	"v4apatch/internal/patch"
)

func main() {
	configPath := flag.String("config", "", "Path to an optional YAML config file")
	dryRun := flag.Bool("dry-run", false, "Build the commit but do not write or remove any file")
	verbose := flag.Bool("verbose", false, "Raise log level to debug")
	noColor := flag.Bool("no-color", false, "Disable colorized stderr output")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "v4apatch: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}

	useColor := !*noColor && !cfg.Color.Disabled && isTerminal(os.Stderr)
	color.NoColor = !useColor

	logger := cliutil.NewLogger(cfg.Log.Development, cfg.Debug())
	defer logger.Sync()

	runID := uuid.NewString()

	text, err := io.ReadAll(os.Stdin)
	if err != nil {
		fail(logger, runID, fmt.Errorf("read stdin: %w", err))
	}
	logger.RunStarted(runID, len(text))

	read := func(path string) ([]byte, error) {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.Size() > cfg.MaxFileSizeBytes() {
			return nil, fmt.Errorf("%s exceeds the configured %d KB read limit", path, cfg.Read.MaxFileSizeKB)
		}
		return os.ReadFile(path)
	}
	write := func(path string, content []byte) error {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		return os.WriteFile(path, content, 0o644)
	}
	remove := func(path string) error {
		return os.Remove(path)
	}

	if *dryRun {
		runDryRun(logger, runID, string(text), read)
		return
	}

	result, err := patch.ProcessPatch(string(text), read, write, remove)
	if err != nil {
		fail(logger, runID, err)
	}

	logger.RunSucceeded(runID, 0)
	fmt.Println(result)
}

// runDryRun drives the pipeline up to the Commit Builder and prints one
// line per path naming the would-be action (and, for an update, the target
// path), never invoking write or remove. File contents are not printed.
func runDryRun(logger *cliutil.Logger, runID, text string, read patch.ReadFunc) {
	needed := patch.IdentifyFilesNeeded(text)
	originals := make(map[string]string, len(needed))
	for _, path := range needed {
		content, err := read(path)
		if err != nil {
			fail(logger, runID, fmt.Errorf("read %s: %w", path, err))
		}
		originals[path] = string(content)
	}

	p, fuzz, err := patch.TextToPatch(text, originals)
	if err != nil {
		fail(logger, runID, err)
	}

	commit, err := patch.PatchToCommit(p, originals)
	if err != nil {
		fail(logger, runID, err)
	}

	yellow := color.New(color.FgYellow)
	for _, path := range commit.Order {
		change := commit.Changes[path]
		switch change.Kind {
		case patch.Add:
			fmt.Printf("would add %s\n", path)
		case patch.Delete:
			fmt.Printf("would delete %s\n", path)
		case patch.Update:
			target := path
			if change.HasMovePath {
				target = change.MovePath
			}
			fmt.Printf("would update %s -> %s\n", path, target)
		}
	}
	if fuzz > 0 {
		yellow.Fprintf(os.Stderr, "dry run completed with fuzz %d\n", fuzz)
	}
	logger.RunSucceeded(runID, fuzz)
}

func fail(logger *cliutil.Logger, runID string, err error) {
	logger.RunFailed(runID, err)
	red := color.New(color.FgRed)
	red.Fprintf(os.Stderr, "v4apatch: %v\n", err)
	os.Exit(1)
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
