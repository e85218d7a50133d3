package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"cutout/internal/captioning"
	"cutout/internal/config"
	"cutout/internal/library"
	"cutout/internal/logging"
	"cutout/internal/removal"
)

// Daemon coordinates the background services and enforces single-instance
// execution via a lock file.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *library.Store
	intake *removal.Watcher
	worker *captioning.Worker

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status reports daemon runtime information.
type Status struct {
	Running      bool
	AutoCaption  bool
	DatabasePath string
	LockFilePath string
}

// New constructs a daemon. The caption worker may be nil when auto-captioning
// is disabled.
func New(cfg *config.Config, store *library.Store, logger *slog.Logger, intake *removal.Watcher, worker *captioning.Worker) (*Daemon, error) {
	if cfg == nil || store == nil || intake == nil {
		return nil, errors.New("daemon requires config, store, and intake watcher")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "cutoutd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logger.With(slog.String(logging.FieldComponent, "daemon")),
		store:    store,
		intake:   intake,
		worker:   worker,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the background services.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another cutout daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.intake.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start processed intake: %w", err)
	}

	if d.worker != nil {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			if err := d.worker.Run(d.ctx); err != nil && !errors.Is(err, context.Canceled) {
				d.logger.Warn("caption worker exited", slog.String("error", err.Error()))
			}
		}()
	}

	d.running.Store(true)
	d.logger.Info("cutout daemon started", slog.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.intake.Stop()
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", slog.String("error", err.Error()))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("cutout daemon stopped")
}

// Close stops the daemon and releases its resources. The store is owned by
// the caller and stays open.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Status summarizes the daemon's runtime state.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		AutoCaption:  d.worker != nil,
		DatabasePath: d.cfg.DatabasePath(),
		LockFilePath: d.lockPath,
	}
}
