package daemon_test

import (
	"context"
	"os"
	"testing"

	"cutout/internal/daemon"
	"cutout/internal/removal"
	"cutout/internal/testsupport"
)

func newTestDaemon(t *testing.T) *daemon.Daemon {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	store := testsupport.MustOpenStore(t, cfg)
	intake := removal.NewWatcher(cfg, store, nil, nil)

	d, err := daemon.New(cfg, store, nil, intake, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestDaemonStartStop(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()

	if d.Status().Running {
		t.Fatal("daemon should not report running before Start")
	}

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	status := d.Status()
	if !status.Running {
		t.Fatal("daemon should report running after Start")
	}
	if status.AutoCaption {
		t.Fatal("auto-caption should be off without a worker")
	}
	if _, err := os.Stat(status.LockFilePath); err != nil {
		t.Fatalf("expected lock file to exist: %v", err)
	}

	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second Start to fail while running")
	}

	d.Stop()
	if d.Status().Running {
		t.Fatal("daemon should not report running after Stop")
	}
	d.Stop()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("restart after Stop: %v", err)
	}
	d.Stop()
}
