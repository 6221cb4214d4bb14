package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/lyzr/sequences/cmd/sequences/models"
	"github.com/lyzr/sequences/common/logger"
)

const (
	// MaxSequenceLength is the hard safety bound on canonical sequence
	// length. 18 items already imply 262,143 subsequences; 19 would imply
	// 524,287.
	MaxSequenceLength = 18

	// BulkThreshold is the subsequence count at or above which writes go
	// through the batched path instead of individual upserts
	BulkThreshold = 100
)

// Store is the persistence gateway the service writes and reads through
type Store interface {
	InsertSequence(ctx context.Context, items []int64) (uuid.UUID, error)
	UpsertSubsequence(ctx context.Context, sequenceID uuid.UUID, items []int64) error
	InsertSubsequencesBulk(ctx context.Context, sequenceID uuid.UUID, subsequences [][]int64) (int64, error)
	LatestGrouped(ctx context.Context, limit int) ([]models.SequenceGroup, error)
}

// SequenceService orchestrates canonicalization, enumeration and persistence
type SequenceService struct {
	store Store
	log   *logger.Logger
}

// NewSequenceService creates a new sequence service
func NewSequenceService(store Store, log *logger.Logger) *SequenceService {
	return &SequenceService{
		store: store,
		log:   log,
	}
}

// Canonicalize normalizes a raw submission into its canonical form:
// distinct values, sorted ascending. Deterministic over the input multiset.
func Canonicalize(items []int64) []int64 {
	seen := make(map[int64]struct{}, len(items))
	canon := make([]int64, 0, len(items))
	for _, v := range items {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		canon = append(canon, v)
	}
	slices.Sort(canon)
	return canon
}

// CreateFromSequence canonicalizes the submitted items, persists the
// sequence, enumerates all of its subsequences and persists them, choosing
// individual upserts below BulkThreshold and one unordered batch at or
// above it.
func (s *SequenceService) CreateFromSequence(ctx context.Context, items []int64) (*models.CreateResult, error) {
	canon := Canonicalize(items)
	n := len(canon)
	if n == 0 {
		return nil, ErrEmptySequence
	}
	if n > MaxSequenceLength {
		return nil, &TooLargeError{N: n, Limit: MaxSequenceLength}
	}

	start := time.Now()

	sequenceID, err := s.store.InsertSequence(ctx, canon)
	if err != nil {
		return nil, fmt.Errorf("failed to persist sequence: %w", err)
	}

	// Materializing is fine here: the size bound caps this at 262,143
	var subsequences [][]int64
	for sub := range Subsequences(canon) {
		subsequences = append(subsequences, sub)
	}
	totalCount := len(subsequences)

	usedBulk := false
	if totalCount >= BulkThreshold {
		usedBulk = true
		if _, err := s.store.InsertSubsequencesBulk(ctx, sequenceID, subsequences); err != nil {
			return nil, fmt.Errorf("failed to persist subsequences: %w", err)
		}
	} else {
		for _, sub := range subsequences {
			if err := s.store.UpsertSubsequence(ctx, sequenceID, sub); err != nil {
				return nil, fmt.Errorf("failed to persist subsequence: %w", err)
			}
		}
	}

	s.log.Info("create_from_sequence",
		"n_items", n,
		"total_subsequences", totalCount,
		"used_bulk", usedBulk,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &models.CreateResult{
		ID:                sequenceID.String(),
		Items:             canon,
		TotalSubsequences: totalCount,
	}, nil
}

// ListLatest returns the most recently updated sequences, each paired with
// all of its stored subsequence item sets. Within each group the
// subsequences are sorted by size then lexicographically, regardless of the
// order the store returned them in.
func (s *SequenceService) ListLatest(ctx context.Context, limit int) ([]models.SequenceGroup, error) {
	start := time.Now()

	groups, err := s.store.LatestGrouped(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest sequences: %w", err)
	}

	for i := range groups {
		sortSubsequences(groups[i].Subsequences)
	}

	s.log.Info("list_latest",
		"limit", limit,
		"groups", len(groups),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return groups, nil
}

// sortSubsequences orders item sets by ascending length, then
// lexicographically. Same ordering contract as the enumerator.
func sortSubsequences(subs [][]int64) {
	slices.SortFunc(subs, func(a, b []int64) int {
		if len(a) != len(b) {
			return len(a) - len(b)
		}
		return slices.Compare(a, b)
	})
}
