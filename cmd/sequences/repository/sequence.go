package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lyzr/sequences/cmd/sequences/models"
	"github.com/lyzr/sequences/common/db"
	"github.com/lyzr/sequences/common/logger"
)

// SequenceRepository handles database operations for sequences and their
// subsequences
type SequenceRepository struct {
	db  *db.DB
	log *logger.Logger
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(db *db.DB, log *logger.Logger) *SequenceRepository {
	return &SequenceRepository{db: db, log: log}
}

// InsertSequence inserts a new canonical sequence and returns its ID
func (r *SequenceRepository) InsertSequence(ctx context.Context, items []int64) (uuid.UUID, error) {
	start := time.Now()

	query := `
		INSERT INTO sequence (id, items, created_at)
		VALUES ($1, $2, $3)
	`

	id := uuid.New()
	_, err := r.db.Exec(ctx, query, id, items, time.Now().UTC())
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert sequence: %w", err)
	}

	r.log.Info("insert_sequence",
		"size", len(items),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return id, nil
}

// UpsertSubsequence inserts a subsequence unless a record with the same
// items_hash already exists anywhere in the store. A duplicate is a silent
// no-op; any other failure propagates.
func (r *SequenceRepository) UpsertSubsequence(ctx context.Context, sequenceID uuid.UUID, items []int64) error {
	h := HashItems(items)

	sorted := slices.Clone(items)
	slices.Sort(sorted)

	query := `
		INSERT INTO subsequence (id, items, items_hash, sequence_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (items_hash) DO NOTHING
	`

	ct, err := r.db.Exec(ctx, query, uuid.New(), sorted, h, sequenceID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert subsequence: %w", err)
	}

	if ct.RowsAffected() == 0 {
		r.log.Debug("upsert_subsequence duplicate ignored", "items_hash", h)
	}

	return nil
}

// InsertSubsequencesBulk submits all subsequences as one unordered batch of
// insert-if-absent operations and returns the number of records actually
// created. Per-item duplicates never abort the batch.
func (r *SequenceRepository) InsertSubsequencesBulk(ctx context.Context, sequenceID uuid.UUID, subsequences [][]int64) (int64, error) {
	if len(subsequences) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO subsequence (id, items, items_hash, sequence_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (items_hash) DO NOTHING
	`

	// One timestamp for the whole batch
	now := time.Now().UTC()

	batch := &pgx.Batch{}
	for _, items := range subsequences {
		sorted := slices.Clone(items)
		slices.Sort(sorted)
		batch.Queue(query, uuid.New(), sorted, HashItems(sorted), sequenceID, now)
	}

	start := time.Now()
	results := r.db.SendBatch(ctx, batch)

	var created int64
	var execErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := results.Exec()
		if err != nil {
			execErr = err
			break
		}
		created += ct.RowsAffected()
	}

	if err := results.Close(); err != nil && execErr == nil {
		execErr = err
	}
	if execErr != nil {
		return 0, fmt.Errorf("failed to bulk insert subsequences: %w", execErr)
	}

	r.log.Info("insert_subsequences_bulk",
		"ops", batch.Len(),
		"created", created,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return created, nil
}

// LatestGrouped aggregates stored subsequences by their owning sequence,
// orders groups by the most recent subsequence creation time, takes the
// first limit groups and attaches each parent sequence's canonical items.
// Ties on the timestamp are broken by sequence_id so the order is stable
// within one invocation.
func (r *SequenceRepository) LatestGrouped(ctx context.Context, limit int) ([]models.SequenceGroup, error) {
	query := `
		WITH grouped AS (
			SELECT
				sub.sequence_id,
				jsonb_agg(sub.items) AS subsequences,
				MAX(sub.created_at) AS last_created_at
			FROM subsequence sub
			GROUP BY sub.sequence_id
		)
		SELECT seq.items, g.subsequences
		FROM grouped g
		JOIN sequence seq ON seq.id = g.sequence_id
		ORDER BY g.last_created_at DESC, g.sequence_id
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest groups: %w", err)
	}
	defer rows.Close()

	var groups []models.SequenceGroup
	for rows.Next() {
		var group models.SequenceGroup
		var subsJSON []byte
		if err := rows.Scan(&group.Sequence, &subsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		if err := json.Unmarshal(subsJSON, &group.Subsequences); err != nil {
			return nil, fmt.Errorf("failed to decode grouped subsequences: %w", err)
		}
		groups = append(groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}

	return groups, nil
}
