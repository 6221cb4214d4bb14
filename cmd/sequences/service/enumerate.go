package service

import "iter"

// Subsequences enumerates every non-empty subset of a canonical sequence,
// lazily. Subsets come out grouped by increasing size, and within one size
// in lexicographic order of the chosen index positions. Since the input is
// sorted ascending, that is also lexicographic order of the value tuples,
// and every produced subset is itself sorted ascending.
//
// The enumeration is finite (2^n - 1 subsets) and restartable: ranging over
// the returned sequence again reproduces the exact same order.
func Subsequences(items []int64) iter.Seq[[]int64] {
	return func(yield func([]int64) bool) {
		n := len(items)
		for k := 1; k <= n; k++ {
			// idx holds the current combination of index positions
			idx := make([]int, k)
			for i := range idx {
				idx[i] = i
			}

			for {
				subset := make([]int64, k)
				for i, j := range idx {
					subset[i] = items[j]
				}
				if !yield(subset) {
					return
				}

				// Advance to the next combination of size k
				i := k - 1
				for i >= 0 && idx[i] == n-k+i {
					i--
				}
				if i < 0 {
					break
				}
				idx[i]++
				for j := i + 1; j < k; j++ {
					idx[j] = idx[j-1] + 1
				}
			}
		}
	}
}
