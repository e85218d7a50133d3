package view_test

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"cutout/internal/handles"
	"cutout/internal/library"
	"cutout/internal/testsupport"
	"cutout/internal/view"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestRenderer(t *testing.T) (*view.Renderer, *library.Store, *syncBuffer, string) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager, err := handles.NewManager(cfg.Paths.ScratchDir)
	if err != nil {
		t.Fatalf("handles.NewManager: %v", err)
	}
	t.Cleanup(func() { manager.Close() })

	out := &syncBuffer{}
	return view.NewRenderer(store, manager, out, nil), store, out, cfg.Paths.ScratchDir
}

func scratchFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read scratch dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestRenderSnapshotMasksUnprocessedRecords(t *testing.T) {
	renderer, store, out, scratch := newTestRenderer(t)
	ctx := context.Background()

	pending := testsupport.AddImage(t, store, "pending.png")
	ready := testsupport.AddImage(t, store, "ready.png")
	if err := store.SetProcessed(ctx, ready.ID, testsupport.PNGPayload()); err != nil {
		t.Fatalf("SetProcessed: %v", err)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := renderer.RenderSnapshot(records); err != nil {
		t.Fatalf("RenderSnapshot: %v", err)
	}

	rendered := out.String()
	if !strings.Contains(rendered, "pending.png") || !strings.Contains(rendered, "ready.png") {
		t.Fatalf("expected both records in output:\n%s", rendered)
	}
	if !strings.Contains(rendered, "pending") {
		t.Fatalf("expected pending marker for unprocessed record:\n%s", rendered)
	}
	if files := scratchFiles(t, scratch); len(files) != 1 {
		t.Fatalf("expected one display handle for the processed record, files: %v", files)
	}

	pendingRecord, err := store.GetByID(ctx, pending.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if pendingRecord.IsProcessed() {
		t.Fatal("pending record must stay unprocessed")
	}
}

func TestRenderSnapshotReleasesPreviousCycleHandles(t *testing.T) {
	renderer, store, _, scratch := newTestRenderer(t)
	ctx := context.Background()

	record := testsupport.AddImage(t, store, "bird.png")
	if err := store.SetProcessed(ctx, record.ID, testsupport.PNGPayload()); err != nil {
		t.Fatalf("SetProcessed: %v", err)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if err := renderer.RenderSnapshot(records); err != nil {
		t.Fatalf("first render: %v", err)
	}
	first := scratchFiles(t, scratch)
	if len(first) != 1 {
		t.Fatalf("expected one handle after first render, got %v", first)
	}

	if err := renderer.RenderSnapshot(records); err != nil {
		t.Fatalf("second render: %v", err)
	}
	second := scratchFiles(t, scratch)
	if len(second) != 1 {
		t.Fatalf("expected one handle after second render, got %v", second)
	}
	if first[0] == second[0] {
		t.Fatal("expected a fresh handle per render cycle")
	}

	if err := renderer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if remaining := scratchFiles(t, scratch); len(remaining) != 0 {
		t.Fatalf("expected no handles after Close, got %v", remaining)
	}
}

func TestRunRendersOnEveryEmission(t *testing.T) {
	renderer, store, out, _ := newTestRenderer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- renderer.Run(ctx)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), "ID") {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	testsupport.AddImage(t, store, "added-live.png")

	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), "added-live.png") {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !strings.Contains(out.String(), "added-live.png") {
		t.Fatal("renderer never picked up the live insert")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("renderer did not stop after cancellation")
	}
}
