package cli

// This file contains the interpret command: a quick per-query status table
// for a raw engine-CLI output log.

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ecrum19/fed-sparql-survey-expts/batchlog"
	"github.com/ecrum19/fed-sparql-survey-expts/logtext"
	"github.com/ecrum19/fed-sparql-survey-expts/report"
)

func (a *App) interpret(ctx *cli.Context) error {
	path := ctx.String("comunica-cli")
	text, err := logtext.ReadText(path)
	if err != nil {
		return err
	}

	records := batchlog.ParseCLIOutput(text)
	a.logger.Info().Str("log", path).Int("queries", len(records)).Msg("Parsed engine output log")

	report.PrintQueryTable(os.Stdout, records)
	return nil
}
