package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/condmat-tools/conhist/internal/config"
	"github.com/condmat-tools/conhist/internal/deck"
	"github.com/condmat-tools/conhist/internal/histogram"
	"github.com/condmat-tools/conhist/internal/logging"
	"github.com/condmat-tools/conhist/internal/store"
	"github.com/condmat-tools/conhist/internal/transport"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [deck-file]",
		Short: "Run a simulation from an input deck",
		Long: `Simulate reads an input deck (from a file or stdin with "-"),
draws trial data from the deck's model, bins it into a histogram, and
writes one whitespace-separated row per bin: the representative
coordinates followed by the density.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())

			var in io.Reader = cmd.InOrStdin()
			source := "stdin"
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open deck: %w", err)
				}
				defer f.Close()
				in, source = f, args[0]
			}

			parser := &deck.Parser{
				Models:      transport.Models(),
				Observables: transport.Observables(),
			}
			d, err := parser.Parse(in)
			if err != nil {
				return fmt.Errorf("%s: %w", source, err)
			}

			trials := d.Trials
			if trials == 0 {
				trials = cfg.Simulate.Trials
			}
			if cmd.Flags().Changed("trials") {
				trials, _ = cmd.Flags().GetInt("trials")
			}
			if trials < 1 {
				return fmt.Errorf("no trial count: set one in the deck, the config, or with --trials")
			}

			seed := cfg.Simulate.Seed
			if d.SeedSet {
				seed = d.Seed
			}
			if cmd.Flags().Changed("seed") {
				seed, _ = cmd.Flags().GetUint64("seed")
			}

			output := d.Output
			if cmd.Flags().Changed("output") {
				output, _ = cmd.Flags().GetString("output")
			}

			dbPath := cfg.Store.Path
			if cmd.Flags().Changed("db") {
				dbPath, _ = cmd.Flags().GetString("db")
			}

			// canonical observable names, independent of deck casing
			observables := make([]string, 0, len(d.Observables))
			for _, key := range d.Simulator.ObservableKeys() {
				observables = append(observables, string(key))
			}

			log.Info("starting simulation",
				"deck", source,
				"model", d.ModelName,
				"observables", strings.Join(observables, ","),
				"trials", trials,
				"seed", seed)

			runLog := logging.NewRunLogger(runLogDir(), cfg.Logging.Level)
			defer runLog.Close()
			runLog.Log(map[string]any{
				"event":  "simulate.start",
				"deck":   source,
				"model":  d.ModelName,
				"trials": trials,
				"seed":   seed,
			})

			start := time.Now()
			h, err := histogram.New(len(d.Styles))
			if err != nil {
				return err
			}
			src := rand.NewPCG(seed, seed)
			traceOn := logging.ParseLevel(cfg.Logging.Level) <= logging.LevelTrace
			for i := 0; i < trials; i++ {
				row, err := d.Simulator.Simulate(src)
				if err != nil {
					return fmt.Errorf("trial %d: %w", i, err)
				}
				if traceOn {
					log.Log(cmd.Context(), logging.LevelTrace, "trial", "i", i, "row", row)
				}
				if err := h.AddData(row); err != nil {
					return fmt.Errorf("trial %d: %w", i, err)
				}
			}
			if err := h.Bin(d.Styles); err != nil {
				return fmt.Errorf("binning failed: %w", err)
			}

			if err := writeHistogram(output, h); err != nil {
				return err
			}
			elapsed := time.Since(start)

			log.Info("simulation finished",
				"trials", trials,
				"excluded", h.Excluded(),
				"output", output,
				"duration", elapsed)
			runLog.Log(map[string]any{
				"event":    "simulate.finish",
				"trials":   trials,
				"excluded": h.Excluded(),
				"output":   output,
			})

			if dbPath != "" {
				if err := recordRun(cmd.Context(), dbPath, store.Run{
					Model:       d.ModelName,
					Observables: observables,
					Trials:      trials,
					Seed:        seed,
					Output:      output,
					Excluded:    h.Excluded(),
					Duration:    elapsed,
				}, h); err != nil {
					return fmt.Errorf("failed to record run: %w", err)
				}
				log.Debug("run recorded", "db", dbPath)
			}
			return nil
		},
	}

	cmd.Flags().Int("trials", 0, "Override the deck's trial count")
	cmd.Flags().Uint64("seed", 0, "Override the random seed")
	cmd.Flags().String("output", "", "Override the output file")
	cmd.Flags().String("db", "", "Record the run in a SQLite database")
	return cmd
}

// runLogDir is where the JSONL run trace lives, next to the config.
// Falls back to the working directory when no home is available.
func runLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".conhist")
}

// writeHistogram writes one row per bin: representative coordinates
// then the density, in row-major bin order.
func writeHistogram(path string, h *histogram.Histogram) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	it, err := h.Iter()
	if err != nil {
		return err
	}
	for it.Next() {
		parts := make([]string, 0, len(it.Coords())+1)
		for _, c := range it.Coords() {
			parts = append(parts, fmt.Sprintf("%.6e", c))
		}
		parts = append(parts, fmt.Sprintf("%.6e", it.Density()))
		if _, err := fmt.Fprintln(f, strings.Join(parts, " ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func recordRun(ctx context.Context, dbPath string, run store.Run, h *histogram.Histogram) error {
	s, err := store.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer s.Close()
	_, err = s.RecordRun(ctx, run, h)
	return err
}

// loadConfig loads the config named by --config, or the default chain.
func loadConfig(cmd *cobra.Command) (*config.ConhistConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	var cfg *config.ConhistConfig
	var err error
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
