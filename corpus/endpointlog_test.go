package corpus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const endpointLogFixture = `08:00:00 INFO Received query query: # Datasources: https://biosoda.unil.ch/emi/sparql https://sparql.uniprot.org/sparql
PREFIX up: <http://purl.uniprot.org/core/>
SELECT ?p WHERE {
	?p a up:Protein .
}
08:00:01 INFO Worker 1 accepted query
INFO: Requesting https://sparql.uniprot.org/sparql (method: POST)
INFO: Requesting https://sparql.uniprot.org/sparql (method: POST)
INFO: Requesting https://biosoda.unil.ch/emi/sparql (method: POST)
08:00:30 INFO Received query query: # Datasources: https://sparql.omabrowser.org/sparql
PREFIX orth: <http://example.org/orth#>
SELECT ?g WHERE { ?g a orth:Gene . }
08:00:31 INFO Worker 2 accepted query
INFO: Requesting https://sparql.omabrowser.org/sparql (method: POST)
Virtuoso 42000 Error SR452: Error in accessing temp file
`

func TestParseEndpointLog(t *testing.T) {
	log := ParseEndpointLog(endpointLogFixture)
	require.Len(t, log.Queries, 2)

	q := log.Queries[0]
	require.Equal(t, []string{"https://biosoda.unil.ch/emi/sparql", "https://sparql.uniprot.org/sparql"}, q.Sources)
	require.Equal(t, 3, q.HTTPRequests)
	require.Equal(t, []string{"https://sparql.uniprot.org/sparql", "https://biosoda.unil.ch/emi/sparql"}, q.SourceOrder)
	require.Equal(t, 2, q.SourceRequests["https://sparql.uniprot.org/sparql"])
	require.Equal(t, 1, q.SourceRequests["https://biosoda.unil.ch/emi/sparql"])
	require.Contains(t, q.CoreClause, "?p a up:Protein .")

	q = log.Queries[1]
	require.Equal(t, 1, q.HTTPRequests)

	// The crash surfaced during the second query
	require.Equal(t, 1, log.CrashIndex)
}

func TestReconcile(t *testing.T) {
	c, err := Parse([]byte(corpusFixture))
	require.NoError(t, err)

	log := ParseEndpointLog(endpointLogFixture)
	log.Reconcile(c)

	require.Equal(t, "https://sparql.example/query/42", log.Queries[0].Match)
	require.Equal(t, "", log.Queries[1].Match)
}

func TestCrashCulprit(t *testing.T) {
	log := ParseEndpointLog(endpointLogFixture)

	// The nearest earlier query that targeted the crashing endpoint
	require.Equal(t, 0, log.CrashCulprit("https://biosoda.unil.ch/emi/sparql"))
	require.Equal(t, -1, log.CrashCulprit("https://nobody.example/sparql"))

	noCrash := ParseEndpointLog("08:00:00 INFO Received query query: # Datasources: https://a.example\nSELECT 1\nWorker 1\n")
	require.Equal(t, -1, noCrash.CrashIndex)
	require.Equal(t, -1, noCrash.CrashCulprit("https://a.example"))
}
