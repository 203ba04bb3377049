package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/condmat-tools/conhist/internal/fit"
	"github.com/condmat-tools/conhist/internal/transport"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List available simulation models, observables, and fit models",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			type modelInfo struct {
				Name       string   `json:"name"`
				Parameters []string `json:"parameters"`
				Composite  bool     `json:"composite"`
				Submodel   bool     `json:"submodel"`
			}
			var models []modelInfo
			for name, def := range transport.Models() {
				models = append(models, modelInfo{
					Name:       name,
					Parameters: def.Parameters,
					Composite:  def.Composite(),
					Submodel:   def.Kind != "",
				})
			}
			sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })

			var observables []string
			for name := range transport.Observables() {
				observables = append(observables, name)
			}
			sort.Strings(observables)

			var fitModels []string
			for name := range fit.Models() {
				fitModels = append(fitModels, name)
			}
			sort.Strings(fitModels)

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"models":      models,
					"observables": observables,
					"fit_models":  fitModels,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Simulation models:")
			for _, m := range models {
				role := ""
				if m.Composite {
					role = " (composite)"
				} else if m.Submodel {
					role = " (channel)"
				}
				fmt.Fprintf(out, "  %s%s: %s\n", m.Name, role, strings.Join(m.Parameters, ", "))
			}
			fmt.Fprintln(out, "\nObservables:")
			for _, o := range observables {
				fmt.Fprintf(out, "  %s\n", o)
			}
			fmt.Fprintln(out, "\nFit models:")
			for _, f := range fitModels {
				fmt.Fprintf(out, "  %s\n", f)
			}
			return nil
		},
	}
}
