package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/condmat-tools/conhist/internal/fit"
	"github.com/condmat-tools/conhist/internal/logging"
)

func newFitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit [histogram-file]",
		Short: "Fit a line shape to a 1D conductance histogram",
		Long: `Fit reads whitespace-separated (conductance, density) rows, as
written by simulate for a one-dimensional histogram, and performs a
nonlinear least-squares fit of the named line shape.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
			jsonOut, _ := cmd.Flags().GetBool("json")
			modelName, _ := cmd.Flags().GetString("model")
			guessSpec, _ := cmd.Flags().GetString("guess")

			model, ok := fit.Models()[modelName]
			if !ok {
				return fmt.Errorf("unknown fit model %q (valid: %s)", modelName, fitModelList())
			}

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open data: %w", err)
				}
				defer f.Close()
				in = f
			}
			data, err := fit.ReadData(in)
			if err != nil {
				return err
			}

			var guesses [][]float64
			if guessSpec != "" {
				guess, err := parseGuess(model, guessSpec)
				if err != nil {
					return err
				}
				guesses = [][]float64{guess}
			}

			log.Debug("fitting", "model", model.Name(), "points", len(data), "guesses", len(guesses))
			res, err := fit.Fit(model, data, guesses)
			if err != nil {
				return err
			}

			if jsonOut {
				params := make(map[string]float64, len(res.Params))
				for i, name := range model.ParamNames() {
					params[name] = res.Params[i]
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"model":    model.Name(),
					"params":   params,
					"residual": res.Residual,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "model: %s\n", model.Name())
			for i, name := range model.ParamNames() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %.6e\n", name, res.Params[i])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "residual = %.6e\n", res.Residual)
			return nil
		},
	}

	cmd.Flags().String("model", "", "Fit model name (required)")
	cmd.Flags().String("guess", "", "Initial guess as name=value pairs, comma-separated")
	cmd.MarkFlagRequired("model")
	return cmd
}

// parseGuess turns "c=100,d=10,norm=1" into a parameter vector in the
// model's parameter order. Every parameter must be given.
func parseGuess(m fit.Model, spec string) ([]float64, error) {
	names := m.ParamNames()
	values := make(map[string]float64, len(names))
	for _, pair := range strings.Split(spec, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("bad guess component %q, want name=value", pair)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("bad guess value %q", v)
		}
		values[strings.TrimSpace(k)] = x
	}

	guess := make([]float64, len(names))
	for i, name := range names {
		x, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("guess is missing parameter %q (model %s takes %s)",
				name, m.Name(), strings.Join(names, ", "))
		}
		guess[i] = x
		delete(values, name)
	}
	for name := range values {
		return nil, fmt.Errorf("model %s has no parameter %q", m.Name(), name)
	}
	return guess, nil
}

func fitModelList() string {
	models := fit.Models()
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
