package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cutout/internal/config"
	"cutout/internal/library"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var targetDir string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a record's processed payload to the export directory",
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
				if !record.IsProcessed() {
					fmt.Fprintf(out, "Record #%d has no processed payload yet; nothing exported\n", id)
					return nil
				}

				dir := strings.TrimSpace(targetDir)
				if dir == "" {
					dir = cfg.Paths.ExportDir
				} else {
					dir, err = config.ExpandPath(dir)
					if err != nil {
						return err
					}
				}
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create export directory: %w", err)
				}

				target := filepath.Join(dir, record.DownloadName())
				if err := os.WriteFile(target, record.Processed, 0o644); err != nil {
					return fmt.Errorf("write export file: %w", err)
				}
				fmt.Fprintf(out, "Exported record #%d to %s\n", id, target)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&targetDir, "dir", "d", "", "Export directory (defaults to paths.export_dir)")
	return cmd
}
