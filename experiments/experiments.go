// Package experiments locates and enumerates recorded experiment runs.
package experiments

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// DirName is the experiments directory under the working directory. Each run
// gets its own subdirectory holding the batch log, the per-query auxiliary
// logs and any generated summaries.
const DirName = "experiments"

// Run is one recorded experiment run.
type Run struct {
	// Experiment name (the run directory's name)
	Name string
	// Absolute run directory
	Dir string
	// Batch log path inside the run directory
	LogPath string
	// Batch log size in bytes
	LogSize int64
	// Batch log modification time, used for newest-first ordering
	ModTime time.Time
	// Whether a summary.csv has been generated for this run
	HasSummary bool
}

// Root returns the experiments directory under the current working
// directory, failing when no runs have been recorded yet.
func Root() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	root := filepath.Join(cwd, DirName)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return "", fmt.Errorf("no experiment runs found in %s", root)
	}
	return root, nil
}

// RunDir returns (and creates) the directory for a named run.
func RunDir(root, name string) (string, error) {
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}
	return dir, nil
}

// LoadRuns enumerates all recorded runs under root. Run directories without
// a recognizable batch log are skipped with a warning.
func LoadRuns(logger zerolog.Logger, root string) ([]Run, error) {
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read experiments directory: %w", err)
	}

	var runs []Run
	for _, entry := range dirEntries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		logPath := filepath.Join(dir, entry.Name()+".log")
		info, err := os.Stat(logPath)
		if err != nil {
			logger.Warn().Str("dir", dir).Msg("Run directory has no batch log, skipping")
			continue
		}
		run := Run{
			Name:    entry.Name(),
			Dir:     dir,
			LogPath: logPath,
			LogSize: info.Size(),
			ModTime: info.ModTime(),
		}
		if _, err := os.Stat(filepath.Join(dir, "summary.csv")); err == nil {
			run.HasSummary = true
		}
		runs = append(runs, run)
	}
	return runs, nil
}
