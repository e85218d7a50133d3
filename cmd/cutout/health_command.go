package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cutout/internal/config"
	"cutout/internal/library"
	"cutout/internal/preflight"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check database integrity and environment access",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				out := cmd.OutOrStdout()

				health, err := store.CheckHealth(cmd.Context())
				if err != nil {
					return err
				}

				rows := [][]string{
					{"Database exists", yesNo(health.DatabaseExists), health.DBPath},
					{"Database readable", yesNo(health.DatabaseReadable), ""},
					{"Records table", yesNo(health.TableExists), fmt.Sprintf("%d records", health.TotalRecords)},
					{"Integrity check", yesNo(health.IntegrityCheck), health.Error},
				}

				for _, result := range preflight.RunAll(cmd.Context(), cfg) {
					rows = append(rows, []string{result.Name, yesNo(result.Passed), result.Detail})
				}

				columns := []tableColumn{
					{header: "CHECK"},
					{header: "OK"},
					{header: "DETAIL"},
				}
				fmt.Fprintln(out, renderTable(columns, rows))

				if !health.IntegrityCheck {
					return fmt.Errorf("database integrity check failed")
				}
				return nil
			})
		},
	}
}
