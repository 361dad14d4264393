package stats

import (
	"math"
	"sort"
)

// BucketCount is one rounded-value bucket and its occurrence count within a
// window snapshot.
type BucketCount struct {
	Bucket int64
	Count  int
}

// TopBuckets rounds each value to the nearest integer, counts occurrences,
// and returns the k most frequent buckets. Ties are broken by the order in
// which a bucket first appears in values, so the ranking is stable for a
// given window snapshot.
func TopBuckets(values []float64, k int) []BucketCount {
	if k <= 0 || len(values) == 0 {
		return nil
	}

	counts := make(map[int64]int, len(values))
	firstSeen := make(map[int64]int, len(values))
	order := make([]int64, 0, len(values))
	for i, v := range values {
		bucket := int64(math.Round(v))
		if _, ok := counts[bucket]; !ok {
			firstSeen[bucket] = i
			order = append(order, bucket)
		}
		counts[bucket]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		ci, cj := counts[order[i]], counts[order[j]]
		if ci != cj {
			return ci > cj
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if k > len(order) {
		k = len(order)
	}
	out := make([]BucketCount, k)
	for i := 0; i < k; i++ {
		out[i] = BucketCount{Bucket: order[i], Count: counts[order[i]]}
	}
	return out
}
