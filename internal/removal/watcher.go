package removal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"cutout/internal/config"
	"cutout/internal/library"
	"cutout/internal/logging"
	"cutout/internal/notifications"
)

const (
	doneSubdir   = "done"
	failedSubdir = "failed"
)

// Watcher polls the processed directory for results delivered by the external
// background-removal pipeline. Files are named <record-id>.<ext>; the payload
// is attached to the matching record and the file is moved aside so a result
// is ingested exactly once.
type Watcher struct {
	store    *library.Store
	notifier notifications.Service
	logger   *slog.Logger

	dir          string
	pollInterval time.Duration

	mu      sync.Mutex
	running bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher constructs a processed-intake watcher from configuration.
func NewWatcher(cfg *config.Config, store *library.Store, notifier notifications.Service, logger *slog.Logger) *Watcher {
	if cfg == nil || store == nil {
		return nil
	}

	poll := time.Duration(cfg.Daemon.IntakePollInterval) * time.Second
	if poll <= 0 {
		poll = 5 * time.Second
	}

	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.Noop()
	}

	return &Watcher{
		store:        store,
		notifier:     notifier,
		logger:       logger.With(slog.String(logging.FieldComponent, "processed-intake")),
		dir:          cfg.Paths.ProcessedDir,
		pollInterval: poll,
	}
}

// Start launches the poll loop. It returns an error when the watcher is
// already running or the intake directories cannot be created.
func (w *Watcher) Start(ctx context.Context) error {
	if w == nil {
		return errors.New("processed-intake watcher unavailable")
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return errors.New("processed-intake watcher already running")
	}

	for _, sub := range []string{doneSubdir, failedSubdir} {
		if err := os.MkdirAll(filepath.Join(w.dir, sub), 0o755); err != nil {
			return fmt.Errorf("create intake directory: %w", err)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.ctx = runCtx
	w.cancel = cancel
	w.running = true

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop cancels the poll loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel := w.cancel
	w.running = false
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	w.sweep(w.ctx)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.sweep(w.ctx)
		}
	}
}

func (w *Watcher) sweep(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn("processed directory scan failed", slog.String("error", err.Error()))
		return
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		if entry.IsDir() {
			continue
		}
		w.ingest(ctx, entry.Name())
	}
}

func (w *Watcher) ingest(ctx context.Context, name string) {
	path := filepath.Join(w.dir, name)

	id, err := recordID(name)
	if err != nil {
		w.logger.Warn("unrecognized file in processed directory",
			slog.String("file", name),
			slog.String("error", err.Error()),
		)
		w.setAside(path, failedSubdir)
		return
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		// Possibly still being written; retry on the next sweep.
		w.logger.Debug("processed file not readable yet",
			slog.String("file", name),
			slog.String("error", err.Error()),
		)
		return
	}
	if len(payload) == 0 {
		return
	}

	err = w.store.SetProcessed(ctx, id, payload)
	switch {
	case err == nil:
		w.setAside(path, doneSubdir)
		record, getErr := w.store.GetByID(ctx, id)
		if getErr == nil && record != nil {
			if notifyErr := w.notifier.NotifyProcessed(ctx, record.FileName); notifyErr != nil {
				w.logger.Debug("processed notification failed", slog.String("error", notifyErr.Error()))
			}
		}
		w.logger.Info("processed payload attached",
			slog.Int64(logging.FieldRecordID, id),
			slog.String("file", name),
		)
	case errors.Is(err, library.ErrNotFound):
		// Record deleted before the pipeline finished. Expected race.
		w.logger.Debug("processed result for deleted record",
			slog.Int64(logging.FieldRecordID, id),
			slog.String("file", name),
		)
		w.setAside(path, failedSubdir)
	case errors.Is(err, library.ErrAlreadyProcessed):
		w.logger.Warn("duplicate processed result ignored",
			slog.Int64(logging.FieldRecordID, id),
			slog.String("file", name),
		)
		w.setAside(path, failedSubdir)
	default:
		// Transient store failure; keep the file for the next sweep.
		w.logger.Warn("processed intake failed",
			slog.Int64(logging.FieldRecordID, id),
			slog.String("error", err.Error()),
		)
	}
}

func (w *Watcher) setAside(path, subdir string) {
	target := filepath.Join(w.dir, subdir, filepath.Base(path))
	if err := os.Rename(path, target); err != nil {
		w.logger.Warn("failed to move intake file",
			slog.String("file", filepath.Base(path)),
			slog.String("error", err.Error()),
		)
	}
}

func recordID(name string) (int64, error) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	id, err := strconv.ParseInt(stem, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("file name %q does not carry a record id", name)
	}
	return id, nil
}
