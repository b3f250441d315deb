package cli

// This file contains the run command: it drives the external query engine's
// CLI over a directory of query files and records the batch log that the
// summarize command later parses.

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"

	"github.com/ecrum19/fed-sparql-survey-expts/experiments"
)

// timestampLayout is the local ISO format written into batch logs.
const timestampLayout = "2006-01-02T15:04:05.999999"

func (a *App) run(ctx *cli.Context) error {
	name := ctx.String("name")
	if strings.Contains(name, " ") {
		return fmt.Errorf("invalid experiment name %q: please avoid spaces", name)
	}

	queryDir := ctx.String("queries")
	if queryDir == "" {
		switch strings.ToLower(ctx.String("type")) {
		case "service":
			queryDir = filepath.Join("queries", "service")
		case "noservice", "no-service", "no service":
			queryDir = filepath.Join("queries", "no-service")
		default:
			return fmt.Errorf("invalid query type %q: use 'service' or 'no-service', or pass --queries", ctx.String("type"))
		}
	}

	queryFiles, err := listQueryFiles(queryDir)
	if err != nil {
		return err
	}
	if len(queryFiles) == 0 {
		return fmt.Errorf("no query files found in %s", queryDir)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	runDir, err := experiments.RunDir(filepath.Join(cwd, experiments.DirName), name)
	if err != nil {
		return err
	}
	logPath := filepath.Join(runDir, name+".log")

	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("failed to create batch log: %w", err)
	}
	defer logFile.Close()

	fmt.Fprintf(logFile, "Experiment log for: %s\nExperiment %s began at %s\n\n",
		name, name, time.Now().Format(timestampLayout))

	a.logger.Info().
		Str("experiment", name).
		Str("queries", queryDir).
		Int("count", len(queryFiles)).
		Msg("Starting experiment run")

	bar := progressbar.Default(int64(len(queryFiles)), "queries")
	engine := ctx.String("engine")

	for i, queryFile := range queryFiles {
		if err := a.executeQuery(logFile, engine, queryFile); err != nil {
			return err
		}
		_ = bar.Add(1)
		if i < len(queryFiles)-1 {
			// Short pause between queries so endpoints get a breather
			time.Sleep(time.Second)
		}
	}

	fmt.Fprintf(logFile, "Experiment %s completed at %s\n", name, time.Now().Format(timestampLayout))

	a.logger.Info().Str("log", logPath).Msg("Query execution completed")
	return nil
}

// executeQuery invokes the engine CLI for one query file and appends the
// execution section (command echo, timestamps, output or error) to the
// batch log.
func (a *App) executeQuery(logFile *os.File, engine, queryFile string) error {
	sources, err := querySources(queryFile)
	if err != nil {
		return err
	}

	args := []string{engine}
	args = append(args, sources...)
	args = append(args, "-f", queryFile, "-t", "application/sparql-results+json", "--httpRetryCount=2")

	a.logger.Debug().Str("query", filepath.Base(queryFile)).Strs("sources", sources).Msg("Executing query")

	fmt.Fprintf(logFile, "Executing: node %s\n", shellescape.QuoteCommand(args))
	fmt.Fprintf(logFile, "Timestamp (start): %s\n", time.Now().Format(timestampLayout))

	cmd := exec.Command("node", args...)
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		// Query failures are part of the experiment; record and move on
		if _, ok := err.(*exec.ExitError); !ok {
			return fmt.Errorf("failed to execute engine: %w", err)
		}
		fmt.Fprintf(logFile, "Error executing command for %s: %s\n", filepath.Base(queryFile), stderrBuf.String())
	} else {
		fmt.Fprintf(logFile, "Output:\n%s\n", stdoutBuf.String())
	}

	fmt.Fprintf(logFile, "Timestamp (end): %s\n\n", time.Now().Format(timestampLayout))
	return nil
}

// querySources reads the data-source list from a query file's
// "# Datasources:" header line.
func querySources(queryFile string) ([]string, error) {
	data, err := os.ReadFile(queryFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read query file: %w", err)
	}
	firstLine, _, _ := strings.Cut(string(data), "\n")
	_, after, ok := strings.Cut(firstLine, "# Datasources: ")
	if !ok {
		return nil, fmt.Errorf("query file %s has no Datasources header", queryFile)
	}
	var sources []string
	for _, src := range strings.Split(after, " ") {
		if src = strings.TrimSpace(src); src != "" {
			sources = append(sources, src)
		}
	}
	return sources, nil
}

func listQueryFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read query directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".rq") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
