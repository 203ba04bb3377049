package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/condmat-tools/conhist/internal/store"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded simulation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")

			dbPath := cfg.Store.Path
			if cmd.Flags().Changed("db") {
				dbPath, _ = cmd.Flags().GetString("db")
			}
			if dbPath == "" {
				return fmt.Errorf("no run database: pass --db or set store.path in the config")
			}

			ctx := cmd.Context()
			s, err := store.Open(ctx, dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.ListRuns(ctx)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMODEL\tOBSERVABLES\tTRIALS\tSEED\tEXCLUDED\tDURATION\tCREATED\tOUTPUT")
			for _, r := range runs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\t%s\t%s\t%s\n",
					r.ID, r.Model, strings.Join(r.Observables, ","), r.Trials, r.Seed,
					r.Excluded, r.Duration, r.CreatedAt.Format(time.RFC3339), r.Output)
			}
			return w.Flush()
		},
	}

	cmd.Flags().String("db", "", "Run database path")
	return cmd
}
