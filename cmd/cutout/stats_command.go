package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cutout/internal/config"
	"cutout/internal/library"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize record counts per derivation state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}

				rows := [][]string{
					{"Total records", fmt.Sprintf("%d", stats.Total)},
					{"Processed", fmt.Sprintf("%d", stats.Processed)},
					{"Awaiting processing", fmt.Sprintf("%d", stats.Processing)},
					{"Captioned", fmt.Sprintf("%d", stats.Captioned)},
				}
				columns := []tableColumn{
					{header: "METRIC"},
					{header: "COUNT", alignRight: true},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(columns, rows))
				return nil
			})
		},
	}
}
