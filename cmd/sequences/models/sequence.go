package models

import (
	"time"

	"github.com/google/uuid"
)

// Sequence is a stored canonical (deduplicated, ascending) list of product IDs.
// Immutable once created. Maps to: sequence table
type Sequence struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Items     []int64   `db:"items" json:"items"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Subsequence is a stored non-empty subset of some Sequence's items.
// ItemsHash is globally unique: at most one record exists per distinct
// item set, across all sequences. Maps to: subsequence table
type Subsequence struct {
	ID uuid.UUID `db:"id" json:"id"`

	// Items, ascending, no duplicates
	Items []int64 `db:"items" json:"items"`

	// SHA-256 hex over the sorted items, the global dedup key
	ItemsHash string `db:"items_hash" json:"items_hash"`

	// Owning sequence (lookup only, not an ownership edge)
	SequenceID uuid.UUID `db:"sequence_id" json:"sequence_id"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SequenceGroup pairs a sequence's canonical items with all stored
// subsequence item sets grouped under it
type SequenceGroup struct {
	Sequence     []int64   `json:"sequence"`
	Subsequences [][]int64 `json:"sub_sequences"`
}

// CreateResult is what CreateFromSequence returns to the caller
type CreateResult struct {
	ID                string  `json:"id"`
	Items             []int64 `json:"items"`
	TotalSubsequences int     `json:"total_subsequences"`
}
