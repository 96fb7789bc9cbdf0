package main

import (
	"github.com/spf13/cobra"

	"evogame/pkg/evogame"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation to completion and archive it",
		Long: `Run sets up a simulation from the config file and flags, plays every
round or generation, prints the history table and stores the run in the
archive and artifacts directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			params, err := resolveParams(cmd, cfg)
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")
			quiet, _ := cmd.Flags().GetBool("quiet")

			client, err := newClient(cmd, cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			summary, err := client.Run(cmd.Context(), evogame.RunRequest{Params: params})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, map[string]any{
					"run_id":        summary.RunID,
					"artifacts_dir": summary.ArtifactsDir,
					"params":        summary.Params,
					"target":        summary.Target,
					"history":       summary.History,
				})
			}
			if !quiet {
				if err := printHistory(out, params.Rule, summary.History); err != nil {
					return err
				}
			}
			printSummary(out, summary)
			return nil
		},
	}
	addParamFlags(cmd)
	cmd.Flags().Bool("json", false, "Output as JSON")
	cmd.Flags().Bool("quiet", false, "Only print the summary")
	return cmd
}
