package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuerySources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "01.rq")
	content := "# Datasources: https://a.example/sparql https://b.example/sparql\nSELECT * WHERE { ?s ?p ?o }"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	sources, err := querySources(path)
	require.NoError(t, err)
	require.Equal(t, []string{"https://a.example/sparql", "https://b.example/sparql"}, sources)

	bad := filepath.Join(dir, "02.rq")
	require.NoError(t, os.WriteFile(bad, []byte("SELECT * WHERE { ?s ?p ?o }"), 0o644))
	_, err = querySources(bad)
	require.Error(t, err)
}

func TestListQueryFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"18.rq", "02.rq", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.rq"), 0o755))

	files, err := listQueryFiles(dir)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "02.rq"),
		filepath.Join(dir, "18.rq"),
	}, files)
}
