package captioning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"cutout/internal/library"
	"cutout/internal/logging"
)

// State describes where a record sits in the caption-generation lifecycle.
type State string

const (
	// StateIdle means no caption exists and no request is active.
	StateIdle State = "idle"
	// StateGenerating means a request for this record is in flight; duplicate
	// dispatch is refused while in this state.
	StateGenerating State = "generating"
	// StateCompleted is terminal: a caption has been persisted.
	StateCompleted State = "completed"
)

var (
	// ErrModelUnavailable reports that the inference capability is not ready.
	// No state transition happens; the user may retry once it loads.
	ErrModelUnavailable = errors.New("captioning: model unavailable")

	// ErrGenerationInFlight reports a duplicate dispatch for a record whose
	// request is still running.
	ErrGenerationInFlight = errors.New("captioning: generation already in flight")

	// ErrInference wraps decode and model invocation failures. The record
	// returns to idle and may be retried indefinitely.
	ErrInference = errors.New("captioning: inference failure")

	// ErrUnsupportedKind reports an attempt to caption a non-image record.
	ErrUnsupportedKind = errors.New("captioning: only image records can be captioned")
)

// Captioner is the inference capability consumed by the orchestrator.
type Captioner interface {
	Available() bool
	Caption(ctx context.Context, payload []byte, mediaType string) (string, error)
}

// Orchestrator drives per-record caption generation. The in-flight set is
// owned here, not by any view, so at most one request per record can run no
// matter how many surfaces dispatch the action.
type Orchestrator struct {
	store  *library.Store
	model  Captioner
	logger *slog.Logger

	mu         sync.Mutex
	generating map[int64]struct{}
}

// New constructs an orchestrator bound to a store and an inference capability.
func New(store *library.Store, model Captioner, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		store:      store,
		model:      model,
		logger:     logger.With(slog.String(logging.FieldComponent, "captioning")),
		generating: make(map[int64]struct{}),
	}
}

// State reports the record's position in the caption lifecycle.
func (o *Orchestrator) State(ctx context.Context, id int64) (State, error) {
	o.mu.Lock()
	_, inFlight := o.generating[id]
	o.mu.Unlock()
	if inFlight {
		return StateGenerating, nil
	}
	record, err := o.store.GetByID(ctx, id)
	if err != nil {
		return StateIdle, err
	}
	if record == nil {
		return StateIdle, library.ErrNotFound
	}
	if record.HasCaption() {
		return StateCompleted, nil
	}
	return StateIdle, nil
}

// Generate runs one caption-generation request for the record.
//
// The inference invocation is the single suspension point; only this record's
// progress blocks on it. On any failure the record returns to idle with the
// caption absent, and the action becomes available again. A record deleted
// while the request is in flight is absorbed silently.
func (o *Orchestrator) Generate(ctx context.Context, id int64) error {
	if o.model == nil || !o.model.Available() {
		o.logger.Warn("caption requested but model unavailable", slog.Int64(logging.FieldRecordID, id))
		return ErrModelUnavailable
	}

	if !o.begin(id) {
		return ErrGenerationInFlight
	}
	defer o.end(id)

	record, err := o.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return library.ErrNotFound
	}
	if record.HasCaption() {
		return library.ErrAlreadyCaptioned
	}
	if record.Kind != library.KindImage {
		return ErrUnsupportedKind
	}

	caption, err := o.model.Caption(ctx, record.Original, record.MediaType)
	if err != nil {
		o.logger.Warn("caption generation failed",
			slog.Int64(logging.FieldRecordID, id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %v", ErrInference, err)
	}

	err = o.store.SetCaption(ctx, id, caption)
	switch {
	case errors.Is(err, library.ErrNotFound):
		// Record deleted mid-flight. Expected race, nothing to surface.
		o.logger.Debug("record deleted during caption generation", slog.Int64(logging.FieldRecordID, id))
		return nil
	case err != nil:
		return err
	}

	o.logger.Info("caption stored",
		slog.Int64(logging.FieldRecordID, id),
		slog.String("caption", caption),
	)
	return nil
}

func (o *Orchestrator) begin(id int64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.generating[id]; exists {
		return false
	}
	o.generating[id] = struct{}{}
	return true
}

func (o *Orchestrator) end(id int64) {
	o.mu.Lock()
	delete(o.generating, id)
	o.mu.Unlock()
}
