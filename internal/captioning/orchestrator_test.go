package captioning_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cutout/internal/captioning"
	"cutout/internal/library"
	"cutout/internal/testsupport"
)

type stubCaptioner struct {
	mu        sync.Mutex
	available bool
	caption   string
	err       error
	calls     int

	// release, when set, blocks Caption until closed.
	release chan struct{}
	started chan struct{}
}

func (s *stubCaptioner) Available() bool { return s.available }

func (s *stubCaptioner) Caption(ctx context.Context, payload []byte, mediaType string) (string, error) {
	s.mu.Lock()
	s.calls++
	started := s.started
	release := s.release
	s.mu.Unlock()

	if started != nil {
		close(started)
		s.mu.Lock()
		s.started = nil
		s.mu.Unlock()
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.caption, s.err
}

func (s *stubCaptioner) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestGenerateStoresCaption(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	record := testsupport.AddImage(t, store, "bird.png")

	model := &stubCaptioner{available: true, caption: "a bird on a branch"}
	orch := captioning.New(store, model, nil)

	if err := orch.Generate(context.Background(), record.ID); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	updated, err := store.GetByID(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.Caption != "a bird on a branch" {
		t.Fatalf("expected persisted caption, got %q", updated.Caption)
	}

	state, err := orch.State(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state != captioning.StateCompleted {
		t.Fatalf("expected completed state, got %s", state)
	}
}

func TestGenerateRefusesDuplicateDispatch(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	record := testsupport.AddImage(t, store, "bird.png")

	model := &stubCaptioner{
		available: true,
		caption:   "a bird",
		release:   make(chan struct{}),
		started:   make(chan struct{}),
	}
	orch := captioning.New(store, model, nil)

	done := make(chan error, 1)
	go func() {
		done <- orch.Generate(context.Background(), record.ID)
	}()

	select {
	case <-model.started:
	case <-time.After(5 * time.Second):
		t.Fatal("first request never reached the model")
	}

	state, err := orch.State(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state != captioning.StateGenerating {
		t.Fatalf("expected generating state, got %s", state)
	}

	if err := orch.Generate(context.Background(), record.ID); !errors.Is(err, captioning.ErrGenerationInFlight) {
		t.Fatalf("expected ErrGenerationInFlight, got %v", err)
	}

	close(model.release)
	if err := <-done; err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	if model.callCount() != 1 {
		t.Fatalf("expected exactly one model invocation, got %d", model.callCount())
	}
}

func TestGenerateLeavesRecordIdleOnInferenceFailure(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	record := testsupport.AddImage(t, store, "bird.png")

	model := &stubCaptioner{available: true, err: errors.New("decode failed")}
	orch := captioning.New(store, model, nil)

	err := orch.Generate(context.Background(), record.ID)
	if !errors.Is(err, captioning.ErrInference) {
		t.Fatalf("expected ErrInference, got %v", err)
	}

	updated, err := store.GetByID(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.Caption != "" {
		t.Fatalf("expected no caption after failure, got %q", updated.Caption)
	}

	// The record is eligible again once the failure clears.
	model.mu.Lock()
	model.err = nil
	model.caption = "a cat"
	model.mu.Unlock()
	if err := orch.Generate(context.Background(), record.ID); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
}

func TestGenerateAbortsWhenModelUnavailable(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	record := testsupport.AddImage(t, store, "bird.png")

	model := &stubCaptioner{available: false, caption: "never"}
	orch := captioning.New(store, model, nil)

	if err := orch.Generate(context.Background(), record.ID); !errors.Is(err, captioning.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
	if model.callCount() != 0 {
		t.Fatalf("model must not be invoked when unavailable, got %d calls", model.callCount())
	}

	model.available = true
	if err := orch.Generate(context.Background(), record.ID); err != nil {
		t.Fatalf("retry once available: %v", err)
	}
}

func TestGenerateAbsorbsDeleteMidFlight(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	record := testsupport.AddImage(t, store, "bird.png")

	model := &stubCaptioner{
		available: true,
		caption:   "a bird",
		release:   make(chan struct{}),
		started:   make(chan struct{}),
	}
	orch := captioning.New(store, model, nil)

	done := make(chan error, 1)
	go func() {
		done <- orch.Generate(context.Background(), record.ID)
	}()

	select {
	case <-model.started:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the model")
	}

	if _, err := store.Remove(context.Background(), record.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	close(model.release)

	if err := <-done; err != nil {
		t.Fatalf("expected deletion to be absorbed, got %v", err)
	}

	gone, err := store.GetByID(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if gone != nil {
		t.Fatalf("deleted record reappeared: %+v", gone)
	}
}

func TestGenerateRejectsCompletedAndMissingRecords(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	record := testsupport.AddImage(t, store, "bird.png")

	model := &stubCaptioner{available: true, caption: "a bird"}
	orch := captioning.New(store, model, nil)
	ctx := context.Background()

	if err := orch.Generate(ctx, record.ID); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := orch.Generate(ctx, record.ID); !errors.Is(err, library.ErrAlreadyCaptioned) {
		t.Fatalf("expected ErrAlreadyCaptioned, got %v", err)
	}
	if err := orch.Generate(ctx, record.ID+100); !errors.Is(err, library.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerateRejectsVideoRecords(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	record, err := store.Add(context.Background(), "clip.mp4", "video/mp4", []byte("not really a video"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	model := &stubCaptioner{available: true, caption: "a clip"}
	orch := captioning.New(store, model, nil)

	if err := orch.Generate(context.Background(), record.ID); !errors.Is(err, captioning.ErrUnsupportedKind) {
		t.Fatalf("expected ErrUnsupportedKind, got %v", err)
	}
}
