package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"cutout/internal/config"
	"cutout/internal/library"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List library records, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				records, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "Library is empty")
					return nil
				}

				rows := make([][]string, 0, len(records))
				for _, record := range records {
					caption := record.Caption
					if caption == "" {
						caption = "-"
					}
					rows = append(rows, []string{
						fmt.Sprintf("%d", record.ID),
						record.FileName,
						string(record.Kind),
						humanize.Bytes(uint64(len(record.Original))),
						yesNo(record.IsProcessed()),
						caption,
						humanize.Time(record.CreatedAt),
					})
				}

				columns := []tableColumn{
					{header: "ID", alignRight: true},
					{header: "FILE"},
					{header: "KIND"},
					{header: "SIZE", alignRight: true},
					{header: "PROCESSED"},
					{header: "CAPTION"},
					{header: "ADDED"},
				}
				fmt.Fprintln(out, renderTable(columns, rows))
				return nil
			})
		},
	}
}
