// Package store is the PostgreSQL implementation of the entity
// repository the import engine consumes, plus persistence for import
// run history and saved field mappings.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Store implements importer.Repository, importer.RunStore and
// importer.MappingStore against PostgreSQL.
type Store struct {
	db DBTX
}

// New creates a Store backed by the given connection or pool.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// textOrNull converts a string to pgtype.Text, mapping blank to NULL.
func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// int8OrNull converts an optional int to pgtype.Int8.
func int8OrNull(v *int) pgtype.Int8 {
	if v == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: int64(*v), Valid: true}
}
