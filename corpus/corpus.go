// Package corpus loads the canonical federated-query corpus and matches
// logged query bodies back to their corpus identifiers.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"
)

// Entry is one canonical query: its identifier (usually a URL), the query
// body, and the primary target endpoint.
type Entry struct {
	ID     string
	Query  string
	Target string
}

// Corpus is the ordered canonical query collection. Entry order follows the
// corpus file, which makes the first-match reconciliation deterministic for
// a given file.
type Corpus struct {
	Entries []Entry
}

// entryPayload mirrors one value of the corpus file's "data" object.
type entryPayload struct {
	Query  string `json:"query"`
	Target string `json:"target"`
}

// Load reads a corpus JSON file of the form
// {"data": {id: {"query": …, "target": …}}}, preserving the file's key
// order.
func Load(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}
	return Parse(data)
}

// Parse decodes corpus JSON. A token-level walk keeps the "data" keys in
// file order, which encoding/json's map decoding would lose.
func Parse(data []byte) (*Corpus, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))

	// Expect {"data": { … }}
	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("invalid corpus JSON: %w", err)
	}
	corpus := &Corpus{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid corpus JSON: %w", err)
		}
		key, _ := keyTok.(string)
		if key != "data" {
			// Skip unrecognized top-level values
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("invalid corpus JSON: %w", err)
			}
			continue
		}
		if err := expectDelim(dec, '{'); err != nil {
			return nil, fmt.Errorf("corpus 'data' is not an object: %w", err)
		}
		for dec.More() {
			idTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("invalid corpus JSON: %w", err)
			}
			id, _ := idTok.(string)
			var payload entryPayload
			if err := dec.Decode(&payload); err != nil {
				return nil, fmt.Errorf("invalid corpus entry %q: %w", id, err)
			}
			corpus.Entries = append(corpus.Entries, Entry{
				ID:     id,
				Query:  payload.Query,
				Target: payload.Target,
			})
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, fmt.Errorf("invalid corpus JSON: %w", err)
		}
	}
	if len(corpus.Entries) == 0 {
		return nil, fmt.Errorf("corpus file has no 'data' entries")
	}
	return corpus, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// Normalize collapses all runs of whitespace to a single space and trims the
// ends, so query bodies compare independently of their formatting.
func Normalize(query string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(query), " ")
}

// Match finds the corpus identifier whose normalized body contains the
// normalized core clause as a substring. The first containment match in
// corpus order wins and an empty string means no match.
//
// This is a heuristic, order-dependent match, not a unique-key join: when a
// clause is a substring of several corpus bodies the tie breaks on corpus
// iteration order.
func (c *Corpus) Match(coreClause string) string {
	needle := Normalize(coreClause)
	if needle == "" {
		return ""
	}
	for _, entry := range c.Entries {
		if strings.Contains(Normalize(entry.Query), needle) {
			return entry.ID
		}
	}
	return ""
}

// BaseName derives the query file base name from a corpus identifier,
// falling back to a sanitized form of the full id when the identifier has
// no path component.
func BaseName(id string) string {
	if id == "" || strings.HasSuffix(id, "/") {
		return strings.ReplaceAll(strings.ReplaceAll(id, "https://", "00"), "/", "_")
	}
	return path.Base(id)
}
