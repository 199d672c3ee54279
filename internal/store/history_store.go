package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/x1mrdonut1x/trade-link-sub000/internal/importer"
)

const insertRunSQL = `
INSERT INTO import_runs (id, total_records, companies, contacts, errors, error_details, duration_ms, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const listRunsSQL = `
SELECT id, total_records, companies, contacts, errors, error_details, duration_ms, created_at
FROM import_runs
ORDER BY created_at DESC
LIMIT $1`

// RecordRun persists one execution run, including its per-row errors as
// a JSONB document.
func (s *Store) RecordRun(ctx context.Context, run importer.ImportRun) error {
	id, err := uuid.Parse(run.ID)
	if err != nil {
		return fmt.Errorf("parse run id: %w", err)
	}

	var details []byte
	if len(run.Errors) > 0 {
		details, err = json.Marshal(run.Errors)
		if err != nil {
			return fmt.Errorf("marshal run errors: %w", err)
		}
	}

	_, err = s.db.Exec(ctx, insertRunSQL,
		pgtype.UUID{Bytes: id, Valid: true},
		run.Stats.TotalRecords,
		run.Stats.Companies,
		run.Stats.Contacts,
		run.Stats.Errors,
		details,
		run.Duration.Milliseconds(),
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert import run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent execution runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]importer.ImportRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(ctx, listRunsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("list import runs: %w", err)
	}
	defer rows.Close()

	var runs []importer.ImportRun
	for rows.Next() {
		var (
			id         pgtype.UUID
			details    []byte
			durationMs int64
			createdAt  time.Time
			run        importer.ImportRun
		)
		err := rows.Scan(&id, &run.Stats.TotalRecords, &run.Stats.Companies,
			&run.Stats.Contacts, &run.Stats.Errors, &details, &durationMs, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan import run: %w", err)
		}

		run.ID = uuid.UUID(id.Bytes).String()
		run.Duration = time.Duration(durationMs) * time.Millisecond
		run.CreatedAt = createdAt
		if len(details) > 0 {
			if err := json.Unmarshal(details, &run.Errors); err != nil {
				return nil, fmt.Errorf("unmarshal run errors: %w", err)
			}
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
