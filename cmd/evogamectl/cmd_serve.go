package main

import (
	"github.com/spf13/cobra"

	"evogame/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve simulation sessions over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			addr := cfg.Server.Addr
			if cmd.Flags().Changed("addr") {
				addr, _ = cmd.Flags().GetString("addr")
			}
			return server.New(newLogger(cmd, cfg)).ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default from config)")
	return cmd
}
