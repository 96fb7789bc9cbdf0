package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"evogame/pkg/evogame"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show the history of an archived run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			latest, _ := cmd.Flags().GetBool("latest")
			limit, _ := cmd.Flags().GetInt("limit")
			jsonOut, _ := cmd.Flags().GetBool("json")

			req := evogame.HistoryRequest{Latest: latest, Limit: limit}
			if len(args) == 1 {
				req.RunID = args[0]
			}
			if req.RunID == "" && !req.Latest {
				return fmt.Errorf("history requires a run id or --latest")
			}

			client, err := newClient(cmd, cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			run, err := client.History(cmd.Context(), req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, run)
			}
			fmt.Fprintf(out, "run %s (%s rule, seed %v)\n", run.ID, run.Params.Rule, run.Params.Seed)
			if run.Target != "" {
				fmt.Fprintf(out, "target %s\n", run.Target)
			}
			return printHistory(out, run.Params.Rule, run.History)
		},
	}
	cmd.Flags().Bool("latest", false, "Use the most recent run")
	cmd.Flags().Int("limit", 0, "Show at most this many records")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}
