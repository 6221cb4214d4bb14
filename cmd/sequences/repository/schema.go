package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lyzr/sequences/common/db"
)

// The unique index on items_hash is the only concurrency guard for
// subsequence writes: concurrent writers of the same item set race safely
// because the second insert becomes a no-op.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS sequence (
		id UUID PRIMARY KEY,
		items BIGINT[] NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sequence_created_at
		ON sequence (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS subsequence (
		id UUID PRIMARY KEY,
		items BIGINT[] NOT NULL,
		items_hash TEXT NOT NULL,
		sequence_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_subsequence_items_hash
		ON subsequence (items_hash)`,
	`CREATE INDEX IF NOT EXISTS idx_subsequence_created_at
		ON subsequence (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_subsequence_sequence_id
		ON subsequence (sequence_id)`,
}

// Migrate creates the sequence tables and indexes if they don't exist.
// Intended to run as a bootstrap DB init hook.
func Migrate(database *db.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, stmt := range schemaStatements {
		if _, err := database.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	return nil
}
