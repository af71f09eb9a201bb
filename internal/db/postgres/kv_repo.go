package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"NutriForum/internal/core/likes"
)

type postgresKVStore struct {
	db *sql.DB
}

// NewKVStore creates a PostgreSQL-backed key-value store for durable blobs
// such as the liked-status record
func NewKVStore(db *sql.DB) likes.StorageClient {
	return &postgresKVStore{db: db}
}

// Read returns the stored value for key, reporting absence without error
func (r *postgresKVStore) Read(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM kv_blobs WHERE key = $1`

	var value string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read blob %q: %w", key, err)
	}
	return value, true, nil
}

// Write upserts the value for key
func (r *postgresKVStore) Write(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_blobs (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to write blob %q: %w", key, err)
	}
	return nil
}
