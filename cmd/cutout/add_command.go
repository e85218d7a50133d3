package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cutout/internal/config"
	"cutout/internal/library"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var mediaType string

	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Add an image or short video to the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			info, err := os.Stat(absPath)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("file does not exist: %s", absPath)
				}
				return fmt.Errorf("inspect file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory", absPath)
			}

			payload, err := os.ReadFile(absPath)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			declaredType := strings.TrimSpace(mediaType)

			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				record, err := store.Add(cmd.Context(), filepath.Base(absPath), declaredType, payload)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s record #%d (%s)\n", record.Kind, record.ID, record.FileName)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&mediaType, "media-type", "", "Declared media type (sniffed from content when omitted)")
	return cmd
}
