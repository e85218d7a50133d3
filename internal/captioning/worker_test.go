package captioning_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"cutout/internal/captioning"
	"cutout/internal/testsupport"
)

type recordingNotifier struct {
	mu        sync.Mutex
	captioned []string
}

func (r *recordingNotifier) NotifyCaptioned(_ context.Context, fileName string) error {
	r.mu.Lock()
	r.captioned = append(r.captioned, fileName)
	r.mu.Unlock()
	return nil
}

func (r *recordingNotifier) NotifyProcessed(context.Context, string) error    { return nil }
func (r *recordingNotifier) NotifyError(context.Context, error, string) error { return nil }
func (r *recordingNotifier) TestNotification(context.Context) error           { return nil }

func (r *recordingNotifier) captionedNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.captioned...)
}

func waitFor(t *testing.T, timeout time.Duration, check func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestWorkerCaptionsBacklogAndNewRecords(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	backlog := testsupport.AddImage(t, store, "backlog.png")

	model := &stubCaptioner{available: true, caption: "a bird"}
	notifier := &recordingNotifier{}
	worker := captioning.NewWorker(store, captioning.New(store, model, nil), notifier, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- worker.Run(ctx)
	}()

	waitFor(t, 5*time.Second, func() bool {
		record, err := store.GetByID(context.Background(), backlog.ID)
		return err == nil && record != nil && record.HasCaption()
	})

	fresh := testsupport.AddImage(t, store, "fresh.png")
	waitFor(t, 5*time.Second, func() bool {
		record, err := store.GetByID(context.Background(), fresh.ID)
		return err == nil && record != nil && record.HasCaption()
	})

	waitFor(t, 5*time.Second, func() bool {
		return len(notifier.captionedNames()) >= 2
	})

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}

func TestWorkerSkipsVideosAndCaptionedRecords(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if _, err := store.Add(ctx, "clip.mp4", "video/mp4", []byte("video bytes")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	image := testsupport.AddImage(t, store, "bird.png")
	if err := store.SetCaption(ctx, image.ID, "already done"); err != nil {
		t.Fatalf("SetCaption: %v", err)
	}

	model := &stubCaptioner{available: true, caption: "should not run"}
	worker := captioning.NewWorker(store, captioning.New(store, model, nil), nil, nil)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- worker.Run(runCtx)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()
	<-done

	if model.callCount() != 0 {
		t.Fatalf("expected no model invocations, got %d", model.callCount())
	}
	record, err := store.GetByID(ctx, image.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if record.Caption != "already done" {
		t.Fatalf("caption was overwritten: %q", record.Caption)
	}
}
