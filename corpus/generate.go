package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GenerateOptions controls query-file generation.
type GenerateOptions struct {
	// Base names to skip (queries known to hit server-side errors)
	Excluded []string
	// Base names routed to the dedicated get-batch directory in the
	// no-service split
	GetBatch []string
}

func (o GenerateOptions) excluded(base string) bool {
	for _, e := range o.Excluded {
		if e == base {
			return true
		}
	}
	return false
}

func (o GenerateOptions) inGetBatch(base string) bool {
	for _, g := range o.GetBatch {
		if g == base {
			return true
		}
	}
	return false
}

// WriteServiceQueries emits one .rq file per corpus entry with the SERVICE
// clauses intact and a Datasources header naming the primary target.
// Returns the number of files written.
func WriteServiceQueries(c *Corpus, dir string, opts GenerateOptions) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create query directory: %w", err)
	}

	written := 0
	names := newNameDeduper()
	for _, entry := range c.Entries {
		base := names.claim(BaseName(entry.ID))
		if opts.excluded(base) {
			continue
		}

		var body strings.Builder
		for _, line := range strings.Split(entry.Query, "\n") {
			if strings.TrimSpace(line) != "" {
				body.WriteString("\n" + line)
			}
		}

		content := fmt.Sprintf("# Datasources: %s%s", entry.Target, body.String())
		out := filepath.Join(dir, base+".rq")
		if err := os.WriteFile(out, []byte(content), 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", out, err)
		}
		written++
	}
	return written, nil
}

// WriteNoServiceQueries emits the no-service variant of each corpus entry:
// SERVICE clauses are stripped to bare group patterns and their endpoints
// hoisted into the Datasources header. Files are split across a get-batch
// directory and three round-robin batch directories. Returns the total
// number of files written.
func WriteNoServiceQueries(c *Corpus, dir string, opts GenerateOptions) (int, error) {
	var getEntries, otherEntries []Entry
	names := newNameDeduper()
	baseNames := make(map[string]string)
	for _, entry := range c.Entries {
		base := names.claim(BaseName(entry.ID))
		if opts.excluded(base) {
			continue
		}
		baseNames[entry.ID] = base
		if opts.inGetBatch(base) {
			getEntries = append(getEntries, entry)
		} else {
			otherEntries = append(otherEntries, entry)
		}
	}

	// Split the remaining queries into three near-equal batches
	batchSize := (len(otherEntries) + 2) / 3
	batches := [][]Entry{}
	for start := 0; start < len(otherEntries); start += batchSize {
		end := start + batchSize
		if end > len(otherEntries) {
			end = len(otherEntries)
		}
		batches = append(batches, otherEntries[start:end])
	}

	total := 0
	targets := []struct {
		name    string
		entries []Entry
	}{{"ns_get", getEntries}}
	for i, batch := range batches {
		targets = append(targets, struct {
			name    string
			entries []Entry
		}{fmt.Sprintf("ns_batch%d", i+1), batch})
	}

	for _, target := range targets {
		batchDir := filepath.Join(dir, target.name)
		if err := os.MkdirAll(batchDir, 0o755); err != nil {
			return total, fmt.Errorf("failed to create batch directory: %w", err)
		}
		for _, entry := range target.entries {
			body, sources := stripServiceClauses(entry.Query, entry.Target)
			content := fmt.Sprintf("# Datasources: %s\n%s", sources, strings.TrimRight(body, "\n"))
			out := filepath.Join(batchDir, baseNames[entry.ID]+"_ns.rq")
			if err := os.WriteFile(out, []byte(content), 0o644); err != nil {
				return total, fmt.Errorf("failed to write %s: %w", out, err)
			}
			total++
		}
	}
	return total, nil
}

// stripServiceClauses rewrites a federated query without its SERVICE
// wrappers: each SERVICE <endpoint> { … } becomes a bare group pattern and
// the endpoint joins the source list. The double-brace fixup keeps the
// brace structure balanced for the engine's parser.
func stripServiceClauses(query, target string) (body, sources string) {
	sources = target
	var b strings.Builder
	inService := false

	for _, line := range strings.Split(query, "\n") {
		switch {
		case strings.Contains(line, "SERVICE"):
			tabs := strings.Repeat("\t", strings.Count(line, "\t")+1)
			if source := serviceEndpoint(line); source != "" && !strings.Contains(sources, source) {
				sources += " " + source
			}
			inService = true
			b.WriteString(tabs + "{\n")
		case strings.Contains(line, "{") && strings.Contains(line, "}") && inService:
			b.WriteString(line + "\n")
		case strings.Contains(line, "}}"):
			tabs := strings.Repeat("\t", strings.Count(line, "\t"))
			fixed := strings.Replace(line, "}}", "}", 1)
			outdent := tabs
			if len(outdent) > 0 {
				outdent = outdent[:len(outdent)-1]
			}
			b.WriteString(tabs + "}\n" + outdent + fixed + "\n")
		default:
			if strings.TrimSpace(line) != "" {
				b.WriteString(line + "\n")
			}
		}
	}
	return b.String(), sources
}

// serviceEndpoint extracts the endpoint URL from a SERVICE clause line.
func serviceEndpoint(line string) string {
	_, after, ok := strings.Cut(line, "<")
	if !ok {
		return ""
	}
	source, _, ok := strings.Cut(after, ">")
	if !ok {
		return ""
	}
	return strings.TrimSpace(strings.TrimSuffix(source, "{"))
}

// nameDeduper disambiguates repeated base names the way the corpus file
// generation always has: a repeated name gets an "a" suffix.
type nameDeduper struct {
	seen map[string]struct{}
}

func newNameDeduper() *nameDeduper {
	return &nameDeduper{seen: make(map[string]struct{})}
}

func (d *nameDeduper) claim(base string) string {
	if _, ok := d.seen[base]; ok {
		base += "a"
	}
	d.seen[base] = struct{}{}
	return base
}
