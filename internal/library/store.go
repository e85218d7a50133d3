package library

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"cutout/internal/config"
	"cutout/internal/logging"
)

// Store manages media record persistence backed by SQLite and owns the live
// query hub that republishes the collection after every mutation.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	hub    *hub
}

// Option customizes store construction.
type Option func(*Store)

// WithLogger attaches a logger for diagnostics emitted on the mutation path.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open initializes or connects to the library database and applies migrations.
func Open(cfg *config.Config, opts ...Option) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, persistence("open sqlite db", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, persistence(fmt.Sprintf("apply pragma %q", pragma), execErr)
		}
	}

	store := &Store{
		db:     db,
		path:   dbPath,
		logger: logging.NewNop(),
		hub:    newHub(),
	}
	for _, opt := range opts {
		opt(store)
	}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the hub and the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.hub.close()
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// republish loads the current ordered collection and pushes it to all
// watchers. Called synchronously after every durably applied mutation so
// subscribers read their own writes.
func (s *Store) republish(ctx context.Context) {
	if !s.hub.active() {
		return
	}
	records, err := s.List(ctx)
	if err != nil {
		s.logger.Warn("live query republish failed", slog.String(logging.FieldComponent, "library"), slog.String("error", err.Error()))
		return
	}
	s.hub.publish(records)
}

const recordColumns = "id, file_name, media_type, kind, original, processed, caption, created_at, updated_at, processed_at, captioned_at"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id           int64
		fileName     string
		mediaType    string
		kind         string
		original     []byte
		processed    []byte
		caption      sql.NullString
		createdRaw   string
		updatedRaw   string
		processedRaw sql.NullString
		captionedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&fileName,
		&mediaType,
		&kind,
		&original,
		&processed,
		&caption,
		&createdRaw,
		&updatedRaw,
		&processedRaw,
		&captionedRaw,
	); err != nil {
		return nil, err
	}

	record := &Record{
		ID:        id,
		FileName:  fileName,
		MediaType: mediaType,
		Kind:      Kind(kind),
		Original:  original,
		Processed: processed,
		Caption:   caption.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		record.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		record.UpdatedAt = updated
	}
	if processedRaw.Valid {
		if ts, err := parseTimeString(processedRaw.String); err == nil {
			record.ProcessedAt = &ts
		}
	}
	if captionedRaw.Valid {
		if ts, err := parseTimeString(captionedRaw.String); err == nil {
			record.CaptionedAt = &ts
		}
	}
	return record, nil
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	return time.Parse(time.RFC3339Nano, value)
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
