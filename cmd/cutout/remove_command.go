package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cutout/internal/config"
	"cutout/internal/library"
)

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a record from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRecordID(args[0])
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				removed, err := store.Remove(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Record #%d was already gone\n", id)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed record #%d\n", id)
				return nil
			})
		},
	}
}
