package batchlog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecrum19/fed-sparql-survey-expts/model"
)

const cliOutputFixture = `Executing: node engine.js 'https://a.example/sparql' -f queries/01.rq -t 'application/sparql-results+json'
Output:
{"head":{"vars":["x"]},
"results":{"bindings":[{"x":{"value":"1"}}]},
"metadata":{"httpRequests":4}}
Executing: node engine.js 'https://b.example/sparql' -f queries/02.rq -t 'application/sparql-results+json'
Error executing command for 02.rq:
WARN: Request to https://b.example/sparql failed, retrying
TypeError: fetch failed
Executing: node engine.js 'https://c.example/sparql' -f queries/03.rq -t 'application/sparql-results+json'
Output:
this is not json
Executing: node engine.js 'https://d.example/sparql' -f queries/04.rq -t 'application/sparql-results+json'
some unrelated chatter`

func TestParseCLIOutput(t *testing.T) {
	records := ParseCLIOutput(cliOutputFixture)
	// The fourth section has neither an output nor an error block
	require.Len(t, records, 3)

	require.Equal(t, "01.rq", records[0].Name)
	require.True(t, records[0].ProducedResults)
	require.Equal(t, 1, records[0].ResultCount)
	require.Equal(t, 4, *records[0].HTTPRequests)

	require.Equal(t, "02.rq", records[1].Name)
	require.False(t, records[1].ProducedResults)
	require.Equal(t, model.ErrorFetchFailed, records[1].Error)

	require.Equal(t, "03.rq", records[2].Name)
	require.Equal(t, model.ErrorOther, records[2].Error)
	require.Equal(t, "malformed output", records[2].ErrorDetail)
}

func TestParseCLIOutput_UnmatchedErrorKeepsLastLine(t *testing.T) {
	text := `Executing: node engine.js 'https://a.example/sparql' -f queries/05.rq -t 'application/sparql-results+json'
Error executing command for 05.rq:
Endpoint returned an unexpected body`
	records := ParseCLIOutput(text)
	require.Len(t, records, 1)
	require.Equal(t, model.ErrorOther, records[0].Error)
	require.Equal(t, "Endpoint returned an unexpected body", records[0].ErrorDetail)
}
