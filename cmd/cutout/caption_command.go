package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cutout/internal/captioning"
	"cutout/internal/captioning/vision"
	"cutout/internal/config"
	"cutout/internal/library"
)

func newCaptionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "caption <id>",
		Short: "Generate a caption for an image record",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("record id is required")
			}
			id, err := parseRecordID(args[0])
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				model := vision.NewClient(cfg.Vision)
				orch := captioning.New(store, model, nil)

				out := cmd.OutOrStdout()
				err := orch.Generate(cmd.Context(), id)
				switch {
				case errors.Is(err, captioning.ErrModelUnavailable):
					return errors.New("caption model is not configured; set vision.endpoint in config.toml")
				case errors.Is(err, library.ErrAlreadyCaptioned):
					return fmt.Errorf("record #%d already has a caption", id)
				case errors.Is(err, library.ErrNotFound):
					return fmt.Errorf("record #%d not found", id)
				case err != nil:
					return err
				}

				record, err := store.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if record == nil {
					// Deleted while the caption was in flight.
					fmt.Fprintf(out, "Record #%d was removed before the caption landed\n", id)
					return nil
				}
				fmt.Fprintf(out, "Caption for #%d: %s\n", id, record.Caption)
				return nil
			})
		},
	}
}
