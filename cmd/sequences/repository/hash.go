package repository

import (
	"crypto/sha256"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// HashItems computes the global deduplication key for a subsequence.
// The items are sorted before hashing, so two subsequences with the same
// item set collide to the same hash regardless of the order supplied.
func HashItems(items []int64) string {
	sorted := slices.Clone(items)
	slices.Sort(sorted)

	parts := make([]string, len(sorted))
	for i, v := range sorted {
		parts[i] = strconv.FormatInt(v, 10)
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, ",")))
	return fmt.Sprintf("%x", sum)
}
