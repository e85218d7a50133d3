package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/google/uuid"

	"cutout/internal/captioning"
	"cutout/internal/captioning/vision"
	"cutout/internal/config"
	"cutout/internal/library"
	"cutout/internal/logging"
	"cutout/internal/notifications"
	"cutout/internal/preflight"
	"cutout/internal/removal"
)

// Run starts the daemon runtime loop and blocks until the context is
// cancelled or a termination signal arrives.
func Run(cmdCtx context.Context, cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	runID := uuid.NewString()
	logger = logger.With(slog.String(logging.FieldCorrelationID, runID))

	for _, result := range preflight.RunAll(signalCtx, cfg) {
		if !result.Passed {
			logger.Warn("preflight check failed",
				slog.String("check", result.Name),
				slog.String("detail", result.Detail),
			)
		}
	}

	pidPath := filepath.Join(cfg.Paths.LogDir, "cutoutd.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := library.Open(cfg, library.WithLogger(logger))
	if err != nil {
		logger.Error("open library store", slog.String("error", err.Error()))
		return err
	}
	defer store.Close()

	notifier := notifications.NewService(cfg)
	intake := removal.NewWatcher(cfg, store, notifier, logger)

	var worker *captioning.Worker
	if cfg.Daemon.AutoCaption {
		model := vision.NewClient(cfg.Vision)
		orch := captioning.New(store, model, logger)
		worker = captioning.NewWorker(store, orch, notifier, logger)
	}

	d, err := New(cfg, store, logger, intake, worker)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		return err
	}

	<-signalCtx.Done()
	logger.Info("cutout daemon shutting down")
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
