package library

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Add inserts a new record for an imported media file, assigns the next id,
// and republishes the collection. The kind tag is derived from the declared
// media type, falling back to payload sniffing.
func (s *Store) Add(ctx context.Context, fileName, mediaType string, payload []byte) (*Record, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, errors.New("library: file name required")
	}
	if len(payload) == 0 {
		return nil, errors.New("library: payload required")
	}

	now := time.Now().UTC()
	kind := DetectKind(mediaType, payload)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO media_records (
            file_name, media_type, kind, original, processed, caption,
            created_at, updated_at
        ) VALUES (?, ?, ?, ?, NULL, NULL, ?, ?)`,
		fileName,
		strings.TrimSpace(mediaType),
		string(kind),
		payload,
		timestamp(now),
		timestamp(now),
	)
	if err != nil {
		return nil, persistence("insert record", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, persistence("last insert id", err)
	}

	record, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.republish(ctx)
	return record, nil
}

// GetByID fetches a record by identifier. Returns nil when the record does
// not exist.
func (s *Store) GetByID(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM media_records WHERE id = ?`, id)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistence("get record", err)
	}
	return record, nil
}

// SetProcessed merges the background-removed payload into an existing record.
// The payload is written at most once; a record that vanished mid-flight
// yields ErrNotFound, which callers absorb as a benign race.
func (s *Store) SetProcessed(ctx context.Context, id int64, payload []byte) error {
	if len(payload) == 0 {
		return errors.New("library: processed payload required")
	}

	now := timestamp(time.Now().UTC())
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE media_records
         SET processed = ?, processed_at = ?, updated_at = ?
         WHERE id = ? AND processed IS NULL`,
		payload,
		now,
		now,
		id,
	)
	if err != nil {
		return persistence("set processed", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return persistence("set processed rows affected", err)
	}
	if affected == 0 {
		existing, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotFound
		}
		return ErrAlreadyProcessed
	}
	s.republish(ctx)
	return nil
}

// SetCaption persists a generated caption exactly once. Blank captions are
// rejected before touching storage; a record deleted mid-flight yields
// ErrNotFound.
func (s *Store) SetCaption(ctx context.Context, id int64, caption string) error {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return ErrEmptyCaption
	}

	now := timestamp(time.Now().UTC())
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE media_records
         SET caption = ?, captioned_at = ?, updated_at = ?
         WHERE id = ? AND caption IS NULL`,
		caption,
		now,
		now,
		id,
	)
	if err != nil {
		return persistence("set caption", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return persistence("set caption rows affected", err)
	}
	if affected == 0 {
		existing, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotFound
		}
		return ErrAlreadyCaptioned
	}
	s.republish(ctx)
	return nil
}

// Remove deletes a record by identifier. Deleting a missing id is a no-op;
// the bool reports whether anything was removed.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM media_records WHERE id = ?`, id)
	if err != nil {
		return false, persistence("delete record", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, persistence("delete rows affected", err)
	}
	if affected > 0 {
		s.republish(ctx)
	}
	return affected > 0, nil
}

// List returns the full collection in reverse-insertion order, newest first.
// This ordering is a store-level contract relied on by every subscriber.
func (s *Store) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM media_records ORDER BY id DESC`)
	if err != nil {
		return nil, persistence("list records", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, persistence("scan record", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("iterate records", err)
	}
	return records, nil
}
