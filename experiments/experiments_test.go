package experiments

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRunDir(t *testing.T) {
	root := t.TempDir()
	dir, err := RunDir(root, "EX1_service")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "EX1_service"), dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestLoadRuns(t *testing.T) {
	root := t.TempDir()

	// A complete run with a summary
	dir, err := RunDir(root, "EX1_service")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "EX1_service.log"), []byte("log body"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "summary.csv"), []byte("header\n"), 0o644))

	// A run without a summary
	dir, err = RunDir(root, "EX2_noservice")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "EX2_noservice.log"), []byte("x"), 0o644))

	// A directory without a batch log is skipped
	_, err = RunDir(root, "broken")
	require.NoError(t, err)

	runs, err := LoadRuns(zerolog.Nop(), root)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	byName := make(map[string]Run)
	for _, run := range runs {
		byName[run.Name] = run
	}
	require.True(t, byName["EX1_service"].HasSummary)
	require.Equal(t, int64(8), byName["EX1_service"].LogSize)
	require.False(t, byName["EX2_noservice"].HasSummary)
}
