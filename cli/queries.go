package cli

// This file contains the queries command for generating per-query .rq files
// from the canonical corpus.

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ecrum19/fed-sparql-survey-expts/corpus"
)

// Queries known to fail server-side regardless of engine configuration.
var serviceExcluded = []string{
	"13",
	"14",
	"20",
	"46",
	"99_uniprot_identifiers_org_translation",
	"90_uniprot_affected_by_metabolic_diseases_using_MeSH",
}

// The no-service split additionally drops queries whose rewritten form the
// IDSM endpoint rejects.
var noServiceExcluded = []string{
	"14",
	"20",
	"46",
	"99_uniprot_identifiers_org_translation",
	"90_uniprot_affected_by_metabolic_diseases_using_MeSH",
	"70_enzymes_interacting_with_molecules_similar_to_dopamine",
	"71_enzymes_interacting_with_molecules_similar_to_dopamine_with_variants_related_to_disease",
	"52",
	"54",
	"60",
	"002",
	"18a",
	"38",
	"49",
}

// Queries routed to the dedicated get-batch directory: these hit Bgee, whose
// endpoint needs GET requests.
var getBatchQueries = []string{
	"50",
	"49",
	"109_uniprot_transporter_in_liver",
	"20",
	"16",
	"17",
	"19",
	"18",
	"117_biosodafrontend_glioblastoma_orthologs_rat",
	"118_biosodafrontend_rat_brain_human_cancer",
	"028-biosodafrontend",
	"027-biosodafrontend",
}

func (a *App) generateQueries(ctx *cli.Context) error {
	c, err := corpus.Load(ctx.String("input"))
	if err != nil {
		return err
	}
	a.logger.Info().Int("entries", len(c.Entries)).Msg("Loaded corpus")

	switch strings.ToLower(ctx.String("type")) {
	case "service":
		dir := filepath.Join("queries", "service")
		written, err := corpus.WriteServiceQueries(c, dir, corpus.GenerateOptions{
			Excluded: serviceExcluded,
		})
		if err != nil {
			return err
		}
		a.logger.Info().Int("written", written).Str("dir", dir).Msg("Generated service queries")
	case "noservice", "no-service", "no service":
		dir := filepath.Join("queries", "no-service")
		written, err := corpus.WriteNoServiceQueries(c, dir, corpus.GenerateOptions{
			Excluded: noServiceExcluded,
			GetBatch: getBatchQueries,
		})
		if err != nil {
			return err
		}
		a.logger.Info().Int("written", written).Str("dir", dir).Msg("Generated no-service queries")
	default:
		return fmt.Errorf("invalid query type %q: use 'service' or 'no-service'", ctx.String("type"))
	}
	return nil
}
