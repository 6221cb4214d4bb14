package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lyzr/sequences/cmd/sequences/models"
	"github.com/lyzr/sequences/cmd/sequences/repository"
	"github.com/lyzr/sequences/common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store with the same dedup semantics as the
// real gateway: at most one record per items_hash, across all sequences.
type fakeStore struct {
	sequences   map[uuid.UUID][]int64
	order       []uuid.UUID // insertion order, oldest first
	subsBySeq   map[uuid.UUID][][]int64
	globalHash  map[string]bool
	upsertCalls int
	bulkCalls   int

	failInsertSequence error
	failLatestGrouped  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sequences:  make(map[uuid.UUID][]int64),
		subsBySeq:  make(map[uuid.UUID][][]int64),
		globalHash: make(map[string]bool),
	}
}

func (f *fakeStore) InsertSequence(_ context.Context, items []int64) (uuid.UUID, error) {
	if f.failInsertSequence != nil {
		return uuid.Nil, f.failInsertSequence
	}
	id := uuid.New()
	f.sequences[id] = append([]int64(nil), items...)
	f.order = append(f.order, id)
	return id, nil
}

func (f *fakeStore) UpsertSubsequence(_ context.Context, sequenceID uuid.UUID, items []int64) error {
	f.upsertCalls++
	f.insertIfAbsent(sequenceID, items)
	return nil
}

func (f *fakeStore) InsertSubsequencesBulk(_ context.Context, sequenceID uuid.UUID, subsequences [][]int64) (int64, error) {
	f.bulkCalls++
	var created int64
	for _, items := range subsequences {
		if f.insertIfAbsent(sequenceID, items) {
			created++
		}
	}
	return created, nil
}

func (f *fakeStore) insertIfAbsent(sequenceID uuid.UUID, items []int64) bool {
	h := repository.HashItems(items)
	if f.globalHash[h] {
		return false
	}
	f.globalHash[h] = true
	f.subsBySeq[sequenceID] = append(f.subsBySeq[sequenceID], append([]int64(nil), items...))
	return true
}

func (f *fakeStore) LatestGrouped(_ context.Context, limit int) ([]models.SequenceGroup, error) {
	if f.failLatestGrouped != nil {
		return nil, f.failLatestGrouped
	}
	var groups []models.SequenceGroup
	// Newest sequences first
	for i := len(f.order) - 1; i >= 0 && len(groups) < limit; i-- {
		id := f.order[i]
		if len(f.subsBySeq[id]) == 0 {
			continue
		}
		groups = append(groups, models.SequenceGroup{
			Sequence:     f.sequences[id],
			Subsequences: f.subsBySeq[id],
		})
	}
	return groups, nil
}

func (f *fakeStore) totalSubsequences() int {
	return len(f.globalHash)
}

func newTestService(store Store) *SequenceService {
	return NewSequenceService(store, logger.New("error", "json"))
}

func TestCanonicalize(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 3}, Canonicalize([]int64{3, 1, 2}))
	assert.Equal(t, []int64{1}, Canonicalize([]int64{1, 1, 1}))
	assert.Equal(t, []int64{1, 2}, Canonicalize([]int64{2, 1, 2, 1}))
	assert.Empty(t, Canonicalize(nil))

	// Same multiset of distinct values, any order or duplication
	a := Canonicalize([]int64{5, 9, 2})
	b := Canonicalize([]int64{9, 2, 2, 5, 9})
	assert.Equal(t, a, b)
}

func TestCreateFromSequence_ThreeItems(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	result, err := svc.CreateFromSequence(context.Background(), []int64{3, 1, 2})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, result.Items)
	assert.Equal(t, 7, result.TotalSubsequences)
	assert.NotEmpty(t, result.ID)

	// 7 < BulkThreshold: individual upserts only
	assert.Equal(t, 7, store.upsertCalls)
	assert.Zero(t, store.bulkCalls)
	assert.Equal(t, 7, store.totalSubsequences())
}

func TestCreateFromSequence_AllDuplicatesCollapse(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	result, err := svc.CreateFromSequence(context.Background(), []int64{1, 1, 1})
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, result.Items)
	assert.Equal(t, 1, result.TotalSubsequences)
}

func TestCreateFromSequence_Empty(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.CreateFromSequence(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptySequence)
}

func TestCreateFromSequence_TooLarge(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	items := make([]int64, 19)
	for i := range items {
		items[i] = int64(i + 1)
	}

	_, err := svc.CreateFromSequence(context.Background(), items)
	require.Error(t, err)

	var tooLarge *TooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, 19, tooLarge.N)
	assert.Equal(t, 18, tooLarge.Limit)

	msg := err.Error()
	assert.Contains(t, msg, "19")
	assert.Contains(t, msg, "18")
	assert.Contains(t, msg, "262,143")

	// Refused before any write
	assert.Empty(t, store.sequences)
	assert.Zero(t, store.totalSubsequences())
}

func TestCreateFromSequence_BulkPathAtThreshold(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	// n=7 implies 127 subsequences, at or above the threshold of 100
	result, err := svc.CreateFromSequence(context.Background(), []int64{1, 2, 3, 4, 5, 6, 7})
	require.NoError(t, err)

	assert.Equal(t, 127, result.TotalSubsequences)
	assert.Equal(t, 1, store.bulkCalls)
	assert.Zero(t, store.upsertCalls)
	assert.Equal(t, 127, store.totalSubsequences())
}

func TestCreateFromSequence_IndividualPathBelowThreshold(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	// n=6 implies 63 subsequences, below the threshold of 100
	result, err := svc.CreateFromSequence(context.Background(), []int64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	assert.Equal(t, 63, result.TotalSubsequences)
	assert.Zero(t, store.bulkCalls)
	assert.Equal(t, 63, store.upsertCalls)
}

func TestCreateFromSequence_MaxSizeAccepted(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	items := make([]int64, 18)
	for i := range items {
		items[i] = int64(i + 1)
	}

	result, err := svc.CreateFromSequence(context.Background(), items)
	require.NoError(t, err)

	assert.Equal(t, 262143, result.TotalSubsequences)
	assert.Equal(t, 1, store.bulkCalls)
	assert.Equal(t, 262143, store.totalSubsequences())
}

func TestCreateFromSequence_Idempotent(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.CreateFromSequence(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)

	before := store.totalSubsequences()

	// Same canonical sequence again: one more Sequence record, zero net
	// growth in subsequence records
	_, err = svc.CreateFromSequence(context.Background(), []int64{3, 2, 1})
	require.NoError(t, err)

	assert.Len(t, store.sequences, 2)
	assert.Equal(t, before, store.totalSubsequences())
}

func TestCreateFromSequence_SharedSubsequenceStoredOnce(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.CreateFromSequence(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	_, err = svc.CreateFromSequence(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)

	// {1}, {2}, {1,2} from the first write plus {3}, {1,3}, {2,3}, {1,2,3}
	assert.Equal(t, 7, store.totalSubsequences())
}

func TestCreateFromSequence_InsertSequenceFailurePropagates(t *testing.T) {
	store := newFakeStore()
	store.failInsertSequence = errors.New("connection refused")
	svc := newTestService(store)

	_, err := svc.CreateFromSequence(context.Background(), []int64{1, 2})
	assert.ErrorContains(t, err, "connection refused")
}

func TestListLatest_SortsSubsequencesWithinGroups(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	id, err := store.InsertSequence(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)

	// Deliberately out of order in the store
	store.subsBySeq[id] = [][]int64{
		{1, 2, 3}, {2}, {1, 3}, {1}, {2, 3}, {3}, {1, 2},
	}

	groups, err := svc.ListLatest(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	expected := [][]int64{
		{1}, {2}, {3},
		{1, 2}, {1, 3}, {2, 3},
		{1, 2, 3},
	}
	assert.Equal(t, expected, groups[0].Subsequences)
}

func TestListLatest_LimitAndOrder(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	sequences := [][]int64{
		{1, 2}, {3, 4}, {5, 6}, {7, 8}, {9, 10}, {11, 12}, {13, 14},
	}
	for _, seq := range sequences {
		_, err := svc.CreateFromSequence(context.Background(), seq)
		require.NoError(t, err)
	}

	groups, err := svc.ListLatest(context.Background(), 5)
	require.NoError(t, err)

	assert.Len(t, groups, 5)
	// Most recently created first
	assert.Equal(t, []int64{13, 14}, groups[0].Sequence)
}

func TestListLatest_StoreErrorPropagates(t *testing.T) {
	store := newFakeStore()
	store.failLatestGrouped = errors.New("timeout")
	svc := newTestService(store)

	_, err := svc.ListLatest(context.Background(), 10)
	assert.ErrorContains(t, err, "timeout")
}
