package library

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"time"
)

// Stats returns record counts per derivation state.
func (s *Store) Stats(ctx context.Context) (StatsSummary, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1),
                COALESCE(SUM(CASE WHEN processed IS NOT NULL THEN 1 ELSE 0 END), 0),
                COALESCE(SUM(CASE WHEN caption IS NOT NULL THEN 1 ELSE 0 END), 0)
         FROM media_records`,
	)
	var summary StatsSummary
	if err := row.Scan(&summary.Total, &summary.Processed, &summary.Captioned); err != nil {
		return StatsSummary{}, persistence("library stats", err)
	}
	summary.Processing = summary.Total - summary.Processed
	return summary, nil
}

// CheckHealth returns diagnostic information about the library database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}

	if s.path == "" {
		return health, errors.New("library database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			health.DatabaseExists = false
			return health, nil
		}
		return health, persistence("stat library database", err)
	}
	if info.IsDir() {
		return health, errors.New("library database path is a directory")
	}
	health.DatabaseExists = true

	if s.db == nil {
		return health, errors.New("library database connection unavailable")
	}

	connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, persistence("ping library database", err)
	}
	health.DatabaseReadable = true

	var tableName string
	row := s.db.QueryRowContext(connCtx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'media_records'")
	if err := row.Scan(&tableName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			health.TableExists = false
			return health, nil
		}
		health.Error = err.Error()
		return health, persistence("query table info", err)
	}
	health.TableExists = true

	row = s.db.QueryRowContext(connCtx, "SELECT COUNT(*) FROM media_records")
	if err := row.Scan(&health.TotalRecords); err != nil {
		health.Error = err.Error()
		return health, persistence("count records", err)
	}

	row = s.db.QueryRowContext(connCtx, "PRAGMA integrity_check")
	var integrityResult string
	if err := row.Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, persistence("integrity check", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")

	return health, nil
}
