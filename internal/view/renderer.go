package view

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"cutout/internal/handles"
	"cutout/internal/library"
	"cutout/internal/logging"
)

// Renderer turns library snapshots into a terminal table. Each render cycle
// acquires fresh display handles for the processed payloads it shows and
// releases the previous cycle's handles once the new cycle is on screen, so
// scratch files never accumulate across renders.
type Renderer struct {
	store   *library.Store
	manager *handles.Manager
	out     io.Writer
	logger  *slog.Logger

	mu    sync.Mutex
	scope *handles.Scope
}

// NewRenderer constructs a renderer writing to out.
func NewRenderer(store *library.Store, manager *handles.Manager, out io.Writer, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Renderer{
		store:   store,
		manager: manager,
		out:     out,
		logger:  logger.With(slog.String(logging.FieldComponent, "view")),
	}
}

// Run renders the current library state, then re-renders on every live
// emission until the context ends. The final scope is released on exit.
func (r *Renderer) Run(ctx context.Context) error {
	defer r.Close()

	sub := r.store.Watch()
	defer sub.Close()

	records, err := r.store.List(ctx)
	if err != nil {
		return err
	}
	if err := r.RenderSnapshot(records); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snapshot, ok := <-sub.C:
			if !ok {
				return nil
			}
			if err := r.RenderSnapshot(snapshot); err != nil {
				return err
			}
		}
	}
}

// RenderSnapshot writes one table for the given records and swaps the handle
// scope, releasing every handle the previous render held.
func (r *Renderer) RenderSnapshot(records []*library.Record) error {
	scope := r.manager.NewScope()

	rows := make([]row, 0, len(records))
	for _, record := range records {
		rows = append(rows, r.buildRow(scope, record))
	}

	if _, err := fmt.Fprintln(r.out, renderTable(rows)); err != nil {
		releaseErr := scope.Release()
		if releaseErr != nil {
			r.logger.Warn("scope release failed", slog.String("error", releaseErr.Error()))
		}
		return err
	}

	r.mu.Lock()
	previous := r.scope
	r.scope = scope
	r.mu.Unlock()

	if previous != nil {
		if err := previous.Release(); err != nil {
			r.logger.Warn("scope release failed", slog.String("error", err.Error()))
		}
	}
	return nil
}

// Close releases the handles held by the most recent render.
func (r *Renderer) Close() error {
	r.mu.Lock()
	scope := r.scope
	r.scope = nil
	r.mu.Unlock()

	if scope == nil {
		return nil
	}
	return scope.Release()
}

type row struct {
	id        int64
	fileName  string
	kind      string
	caption   string
	processed string
	added     string
}

func (r *Renderer) buildRow(scope *handles.Scope, record *library.Record) row {
	built := row{
		id:       record.ID,
		fileName: record.FileName,
		kind:     string(record.Kind),
		caption:  record.Caption,
		added:    humanize.Time(record.CreatedAt),
	}
	if built.caption == "" {
		built.caption = "-"
	}

	if !record.IsProcessed() {
		built.processed = "pending"
		return built
	}

	handle, err := scope.Acquire(record.Processed)
	if err != nil {
		r.logger.Warn("display handle unavailable",
			slog.Int64(logging.FieldRecordID, record.ID),
			slog.String("error", err.Error()),
		)
		built.processed = "unavailable"
		return built
	}
	built.processed = handle.Path()
	return built
}

func renderTable(rows []row) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "FILE", "KIND", "CAPTION", "PROCESSED", "ADDED"})
	for _, r := range rows {
		tw.AppendRow(table.Row{r.id, r.fileName, r.kind, r.caption, r.processed, r.added})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
