package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/types"
)

// ErrParseNotFound is returned by DeleteParse when no record has the given ID
var ErrParseNotFound = errors.New("parse not found")

// SaveParse stores a parse result with its document metadata and returns the new record ID
func (db *DB) SaveParse(ctx context.Context, meta *ingestion.Metadata, result *types.ParseResult) (uuid.UUID, error) {
	if meta == nil || result == nil {
		return uuid.Nil, fmt.Errorf("metadata and result are required")
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal parse result: %w", err)
	}

	id := uuid.New()
	_, err = db.pool.Exec(ctx,
		`INSERT INTO resume_parses (id, filename, format, size_bytes, file_hash, result, warnings)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, meta.Filename, string(meta.Format), meta.Size, meta.Hash, jsonBytes, len(result.Warnings),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save parse %s: %w", meta.Filename, err)
	}
	return id, nil
}

// GetParse retrieves a stored parse by ID. Returns nil, nil when it does not exist.
func (db *DB) GetParse(ctx context.Context, id uuid.UUID) (*ParseRecord, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, filename, format, size_bytes, file_hash, result, warnings, created_at
		 FROM resume_parses WHERE id = $1`,
		id,
	)
	return scanRecord(row)
}

// GetParseByHash retrieves the most recent parse of a document with the given SHA256 hash.
// Returns nil, nil when none exists.
func (db *DB) GetParseByHash(ctx context.Context, hash string) (*ParseRecord, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, filename, format, size_bytes, file_hash, result, warnings, created_at
		 FROM resume_parses WHERE file_hash = $1 ORDER BY created_at DESC LIMIT 1`,
		hash,
	)
	return scanRecord(row)
}

func scanRecord(row pgx.Row) (*ParseRecord, error) {
	var rec ParseRecord
	var resultBytes []byte
	err := row.Scan(&rec.ID, &rec.Filename, &rec.Format, &rec.SizeBytes, &rec.FileHash, &resultBytes, &rec.Warnings, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get parse: %w", err)
	}

	rec.Result = types.NewParseResult()
	if err := json.Unmarshal(resultBytes, rec.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal parse result %s: %w", rec.ID, err)
	}
	return &rec, nil
}

// ListParses retrieves stored parses, newest first, with optional filters
func (db *DB) ListParses(ctx context.Context, filters ParseFilters) ([]ParseSummary, error) {
	query, args := buildListQuery(filters.normalize())

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list parses: %w", err)
	}
	defer rows.Close()

	parses := []ParseSummary{}
	for rows.Next() {
		var p ParseSummary
		if err := rows.Scan(&p.ID, &p.Filename, &p.Format, &p.FileHash, &p.Warnings, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan parse: %w", err)
		}
		parses = append(parses, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list parses: %w", err)
	}
	return parses, nil
}

func buildListQuery(filters ParseFilters) (string, []any) {
	query := `SELECT id, filename, format, file_hash, warnings, created_at
		FROM resume_parses WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Filename != "" {
		query += fmt.Sprintf(" AND filename ILIKE $%d", argNum)
		args = append(args, "%"+filters.Filename+"%")
		argNum++
	}
	if filters.Format != "" {
		query += fmt.Sprintf(" AND format = $%d", argNum)
		args = append(args, filters.Format)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filters.Limit, filters.Offset)
	return query, args
}

// DeleteParse deletes a stored parse
func (db *DB) DeleteParse(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM resume_parses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete parse: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrParseNotFound, id)
	}
	return nil
}
