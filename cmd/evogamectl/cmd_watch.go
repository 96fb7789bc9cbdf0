package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"evogame/internal/engine"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Step a simulation live at a fixed frame rate",
		Long: `Watch steps a fresh simulation on a ticker and prints each record as it
is produced. It stops at the configured horizon, after --steps records, or on
Ctrl-C. Watched runs are not archived.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			params, err := resolveParams(cmd, cfg)
			if err != nil {
				return err
			}
			fps, _ := cmd.Flags().GetFloat64("fps")
			if fps <= 0 {
				return fmt.Errorf("fps must be > 0, got %v", fps)
			}
			steps, _ := cmd.Flags().GetInt("steps")
			if !cmd.Flags().Changed("steps") {
				steps = params.Horizon()
			}

			eng := engine.New(engine.WithLogger(newLogger(cmd, cfg)))
			if err := eng.Setup(params); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			rec, err := eng.Latest()
			if err != nil {
				return err
			}
			printRecord(out, params.Rule, rec)

			ticker := time.NewTicker(time.Duration(float64(time.Second) / fps))
			defer ticker.Stop()

			ctx := cmd.Context()
			for eng.Round() < steps {
				select {
				case <-ctx.Done():
					fmt.Fprintf(out, "stopped at round %d\n", eng.Round())
					return nil
				case <-ticker.C:
				}
				rec, err := eng.Step()
				if err != nil {
					return err
				}
				printRecord(out, params.Rule, rec)
			}
			return nil
		},
	}
	addParamFlags(cmd)
	cmd.Flags().Float64("fps", 10, "Steps per second")
	cmd.Flags().Int("steps", 0, "Stop after this many steps (default: the configured horizon)")
	return cmd
}
