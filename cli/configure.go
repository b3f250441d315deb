package cli

// This file contains the configure command for swapping the engine's config
// files between experiment presets.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
)

// Designed for Comunica v4.3.0 config layout.
const engineConfigRoot = "comunica/engines/config-query-sparql/config"

// experimentOptions holds the engine config toggles of one experiment preset.
type experimentOptions struct {
	RateLimit bool
	Ask       bool
	Count     bool
	Void      bool
	Get       bool
	LargeVoid bool
}

var experimentPresets = map[string]experimentOptions{
	"EX1":  {RateLimit: true, Ask: true},
	"EX1G": {RateLimit: true, Ask: true, Get: true},
	"EX2":  {RateLimit: true, Ask: true, Count: true},
	"EX3":  {RateLimit: true, Ask: true},
	"EX4":  {RateLimit: true, Ask: true},
}

func (a *App) configure(ctx *cli.Context) error {
	name := ctx.String("experiment")
	preset, ok := experimentPresets[strings.ToUpper(name)]
	if !ok {
		return fmt.Errorf("unknown experiment: %s (use EX1, EX1g, EX2, EX3 or EX4)", name)
	}

	a.logger.Info().Str("experiment", strings.ToUpper(name)).Msg("Applying engine configuration")

	if err := a.applyRateLimit(preset.RateLimit); err != nil {
		return err
	}
	if err := a.applyAsk(preset.Ask); err != nil {
		return err
	}
	if err := a.applyGeneralVoid(preset.Void); err != nil {
		return err
	}
	if err := a.applySourceIdentify(preset.Count, preset.LargeVoid, preset.Get); err != nil {
		return err
	}

	a.logger.Info().Msg("Configuration changes applied")
	return nil
}

func (a *App) applyRateLimit(on bool) error {
	variant := "rate-limit-off"
	if on {
		variant = "rate-limit-on"
	}
	a.logger.Info().Bool("rate_limit", on).Msg("Rate limiting")
	return swapConfig(
		filepath.Join("config", variant, "actors-limit-rate.json"),
		filepath.Join(engineConfigRoot, "http", "actors-limit-rate.json"),
	)
}

func (a *App) applyAsk(on bool) error {
	a.logger.Info().Bool("ask", on).Msg("ASK optimization")
	if !on {
		// The engine default is ASK off; nothing to copy
		return nil
	}
	return swapConfig(
		filepath.Join("config", "ask", "actors-v4-3-0.json"),
		filepath.Join(engineConfigRoot, "optimize-query-operation", "actors-v4-3-0.json"),
	)
}

func (a *App) applyGeneralVoid(on bool) error {
	variant := "no-void"
	if on {
		variant = "void"
	}
	a.logger.Info().Bool("void_general", on).Msg("General VoID metadata extraction")
	return swapConfig(
		filepath.Join("config", variant, "actors-v4-1-0.json"),
		filepath.Join(engineConfigRoot, "rdf-metadata-extract", "actors-v4-1-0.json"),
	)
}

func (a *App) applySourceIdentify(count, largeVoid, get bool) error {
	var variant string
	switch {
	case count && !largeVoid && get:
		variant = "only-count-get"
	case count && !largeVoid:
		variant = "only-count"
	case !count && largeVoid:
		variant = "void-large"
	default:
		variant = "no-count"
	}
	a.logger.Info().
		Bool("count", count).
		Bool("void_large", largeVoid).
		Bool("only_get", get).
		Msg("Source hypermedia identification")
	return swapConfig(
		filepath.Join("config", variant, "actors.json"),
		filepath.Join(engineConfigRoot, "query-source-identify-hypermedia", "actors.json"),
	)
}

// swapConfig copies one prepared config file over the engine's active one.
func swapConfig(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open config %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to replace config %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy config to %s: %w", dst, err)
	}
	return out.Close()
}
