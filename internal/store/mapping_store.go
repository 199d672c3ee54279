package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/x1mrdonut1x/trade-link-sub000/internal/importer"
)

// ErrMappingNotFound is returned when a saved mapping id does not exist.
var ErrMappingNotFound = errors.New("mapping not found")

const insertMappingSQL = `
INSERT INTO import_mappings (id, name, entity, mappings, created_at)
VALUES ($1, $2, $3, $4, $5)`

const listMappingsSQL = `
SELECT id, name, entity, mappings, created_at
FROM import_mappings
WHERE ($1 = '' OR entity = $1)
ORDER BY created_at DESC`

const getMappingSQL = `
SELECT id, name, entity, mappings, created_at
FROM import_mappings
WHERE id = $1`

const deleteMappingSQL = `DELETE FROM import_mappings WHERE id = $1`

// SaveMapping stores a named field mapping set and returns it with the
// generated id and timestamp filled in.
func (s *Store) SaveMapping(ctx context.Context, m importer.SavedMapping) (importer.SavedMapping, error) {
	id := uuid.New()
	payload, err := json.Marshal(m.Mappings)
	if err != nil {
		return importer.SavedMapping{}, fmt.Errorf("marshal mappings: %w", err)
	}

	m.ID = id.String()
	m.CreatedAt = time.Now().UTC()

	_, err = s.db.Exec(ctx, insertMappingSQL,
		pgtype.UUID{Bytes: id, Valid: true},
		m.Name,
		m.Entity,
		payload,
		m.CreatedAt,
	)
	if err != nil {
		return importer.SavedMapping{}, fmt.Errorf("insert mapping: %w", err)
	}
	return m, nil
}

// ListMappings returns saved mappings, optionally filtered by entity
// kind. An empty entity returns everything.
func (s *Store) ListMappings(ctx context.Context, entity string) ([]importer.SavedMapping, error) {
	rows, err := s.db.Query(ctx, listMappingsSQL, entity)
	if err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	defer rows.Close()

	var out []importer.SavedMapping
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetMapping returns one saved mapping by id.
func (s *Store) GetMapping(ctx context.Context, id string) (*importer.SavedMapping, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrMappingNotFound
	}

	row := s.db.QueryRow(ctx, getMappingSQL, pgtype.UUID{Bytes: parsed, Valid: true})
	m, err := scanMapping(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMappingNotFound
		}
		return nil, err
	}
	return &m, nil
}

// DeleteMapping removes a saved mapping by id.
func (s *Store) DeleteMapping(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return ErrMappingNotFound
	}

	tag, err := s.db.Exec(ctx, deleteMappingSQL, pgtype.UUID{Bytes: parsed, Valid: true})
	if err != nil {
		return fmt.Errorf("delete mapping: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMappingNotFound
	}
	return nil
}

func scanMapping(row pgx.Row) (importer.SavedMapping, error) {
	var (
		id      pgtype.UUID
		payload []byte
		m       importer.SavedMapping
	)
	if err := row.Scan(&id, &m.Name, &m.Entity, &payload, &m.CreatedAt); err != nil {
		return importer.SavedMapping{}, err
	}
	m.ID = uuid.UUID(id.Bytes).String()
	if err := json.Unmarshal(payload, &m.Mappings); err != nil {
		return importer.SavedMapping{}, fmt.Errorf("unmarshal mappings: %w", err)
	}
	return m, nil
}
