package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"cutout/internal/config"
	"cutout/internal/library"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Display one record in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRecordID(args[0])
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				record, err := store.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if record == nil {
					return fmt.Errorf("record #%d not found", id)
				}

				out := cmd.OutOrStdout()
				kindLabel := cases.Title(language.Und).String(string(record.Kind))
				fmt.Fprintf(out, "%s record #%d\n", kindLabel, record.ID)
				fmt.Fprintf(out, "  File:       %s\n", record.FileName)
				if record.MediaType != "" {
					fmt.Fprintf(out, "  Media type: %s\n", record.MediaType)
				}
				fmt.Fprintf(out, "  Original:   %s\n", humanize.Bytes(uint64(len(record.Original))))
				if record.IsProcessed() {
					fmt.Fprintf(out, "  Processed:  %s", humanize.Bytes(uint64(len(record.Processed))))
					if record.ProcessedAt != nil {
						fmt.Fprintf(out, " (%s)", humanize.Time(*record.ProcessedAt))
					}
					fmt.Fprintln(out)
					fmt.Fprintf(out, "  Export as:  %s\n", record.DownloadName())
				} else {
					fmt.Fprintln(out, "  Processed:  pending")
				}
				if record.HasCaption() {
					fmt.Fprintf(out, "  Caption:    %s", record.Caption)
					if record.CaptionedAt != nil {
						fmt.Fprintf(out, " (%s)", humanize.Time(*record.CaptionedAt))
					}
					fmt.Fprintln(out)
				} else {
					fmt.Fprintln(out, "  Caption:    none")
				}
				fmt.Fprintf(out, "  Added:      %s\n", humanize.Time(record.CreatedAt))
				return nil
			})
		},
	}
}

func parseRecordID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record id %q", arg)
	}
	return id, nil
}
