package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteServiceQueries(t *testing.T) {
	c, err := Parse([]byte(corpusFixture))
	require.NoError(t, err)

	dir := t.TempDir()
	written, err := WriteServiceQueries(c, dir, GenerateOptions{Excluded: []string{"7"}})
	require.NoError(t, err)
	require.Equal(t, 2, written)

	data, err := os.ReadFile(filepath.Join(dir, "42.rq"))
	require.NoError(t, err)
	require.Equal(t,
		"# Datasources: https://sparql.uniprot.org/sparql\n"+
			"PREFIX up: <http://purl.uniprot.org/core/>\n"+
			"SELECT ?p WHERE {\n\t?p a up:Protein .\n}",
		string(data))

	// Excluded entry gets no file
	_, err = os.Stat(filepath.Join(dir, "7.rq"))
	require.True(t, os.IsNotExist(err))

	// Identifier without a basename falls back to the sanitized form
	_, err = os.Stat(filepath.Join(dir, "00sparql.example_emi_.rq"))
	require.NoError(t, err)
}

func TestWriteNoServiceQueries(t *testing.T) {
	c, err := Parse([]byte(corpusFixture))
	require.NoError(t, err)

	dir := t.TempDir()
	written, err := WriteNoServiceQueries(c, dir, GenerateOptions{GetBatch: []string{"42"}})
	require.NoError(t, err)
	require.Equal(t, 3, written)

	// Get-batch entries land in ns_get
	_, err = os.Stat(filepath.Join(dir, "ns_get", "42_ns.rq"))
	require.NoError(t, err)

	// The SERVICE clause is stripped and its endpoint hoisted into the header
	data, err := os.ReadFile(filepath.Join(dir, "ns_batch1", "7_ns.rq"))
	require.NoError(t, err)
	require.Equal(t,
		"# Datasources: https://sparql.omabrowser.org/sparql https://www.bgee.org/sparql/\n"+
			"SELECT ?g WHERE {\n\t\t{\n\t\t?g a orth:Gene .\n\t}\n\t}",
		string(data))
}

func TestStripServiceClauses(t *testing.T) {
	query := "SELECT ?g WHERE {\n\tSERVICE <https://www.bgee.org/sparql/> {\n\t\t?g a orth:Gene .\n\t}}"
	body, sources := stripServiceClauses(query, "https://primary.example/sparql")
	require.Equal(t, "https://primary.example/sparql https://www.bgee.org/sparql/", sources)
	require.NotContains(t, body, "SERVICE")
	require.Contains(t, body, "?g a orth:Gene .")
}

func TestNameDeduper(t *testing.T) {
	d := newNameDeduper()
	require.Equal(t, "18", d.claim("18"))
	require.Equal(t, "18a", d.claim("18"))
}
