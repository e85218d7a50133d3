package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cutout/internal/config"
	"cutout/internal/handles"
	"cutout/internal/library"
	"cutout/internal/view"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Render the library live, re-drawing on every change",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				manager, err := handles.NewManager(cfg.Paths.ScratchDir)
				if err != nil {
					return err
				}
				defer manager.Close()

				renderer := view.NewRenderer(store, manager, cmd.OutOrStdout(), nil)

				runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer cancel()

				if err := renderer.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			})
		},
	}
}
