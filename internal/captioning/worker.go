package captioning

import (
	"context"
	"errors"
	"log/slog"

	"cutout/internal/library"
	"cutout/internal/logging"
	"cutout/internal/notifications"
)

// Worker captions eligible records as they appear, driven by the store's live
// query. Used by the daemon when auto-captioning is enabled.
type Worker struct {
	store    *library.Store
	orch     *Orchestrator
	notifier notifications.Service
	logger   *slog.Logger
}

// NewWorker constructs an auto-caption worker.
func NewWorker(store *library.Store, orch *Orchestrator, notifier notifications.Service, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.Noop()
	}
	return &Worker{
		store:    store,
		orch:     orch,
		notifier: notifier,
		logger:   logger.With(slog.String(logging.FieldComponent, "caption-worker")),
	}
}

// Run processes the backlog, then captions records from each live emission
// until the context ends.
func (w *Worker) Run(ctx context.Context) error {
	sub := w.store.Watch()
	defer sub.Close()

	records, err := w.store.List(ctx)
	if err != nil {
		return err
	}
	w.sweep(ctx, records)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snapshot, ok := <-sub.C:
			if !ok {
				return nil
			}
			w.sweep(ctx, snapshot)
		}
	}
}

func (w *Worker) sweep(ctx context.Context, records []*library.Record) {
	for _, record := range records {
		if ctx.Err() != nil {
			return
		}
		if record.Kind != library.KindImage || record.HasCaption() {
			continue
		}
		err := w.orch.Generate(ctx, record.ID)
		switch {
		case err == nil:
			if notifyErr := w.notifier.NotifyCaptioned(ctx, record.FileName); notifyErr != nil {
				w.logger.Debug("caption notification failed", slog.String("error", notifyErr.Error()))
			}
		case errors.Is(err, ErrModelUnavailable):
			// Retry on the next emission once the capability loads.
			return
		case errors.Is(err, ErrGenerationInFlight),
			errors.Is(err, library.ErrAlreadyCaptioned),
			errors.Is(err, library.ErrNotFound):
			// Benign: another dispatcher got there first or the record is gone.
		default:
			w.logger.Warn("auto-caption failed",
				slog.Int64(logging.FieldRecordID, record.ID),
				slog.String("error", err.Error()),
			)
		}
	}
}
