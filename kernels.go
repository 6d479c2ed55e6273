package digitize

import (
	"sync"
	"sync/atomic"

	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/x448/float16"
)

// podNumericConstraints are used for generics for the Golang pod (plain-old-data) types.
// BFloat16 and Float16 are not included because they are specialized types, not natively
// supported by Go: they take dedicated comparators that widen to float32.
type podNumericConstraints interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// podIndexConstraints are the Go types bucket indices can be written as.
type podIndexConstraints interface {
	uint8 | int8 | int32 | int64
}

// lessGeneric and lessOrEqualGeneric are the two tie-break comparators of the search:
// counting edges with lessGeneric implements the lower-bound rule (Right=true), counting
// with lessOrEqualGeneric the upper-bound rule (Right=false). lessGeneric also defines
// the strict ordering the bin edges are validated against.
func lessGeneric[T podNumericConstraints](edge, value T) bool { return edge < value }

func lessOrEqualGeneric[T podNumericConstraints](edge, value T) bool { return edge <= value }

func lessF16(edge, value float16.Float16) bool { return edge.Float32() < value.Float32() }

func lessOrEqualF16(edge, value float16.Float16) bool { return edge.Float32() <= value.Float32() }

func lessBF16(edge, value bfloat16.BFloat16) bool { return edge.Float32() < value.Float32() }

func lessOrEqualBF16(edge, value bfloat16.BFloat16) bool { return edge.Float32() <= value.Float32() }

// comparatorFor returns the comparator selected by right for the plain numeric types.
func comparatorFor[T podNumericConstraints](right bool) func(edge, value T) bool {
	if right {
		return lessGeneric[T]
	}
	return lessOrEqualGeneric[T]
}

func float16ComparatorFor(right bool) func(edge, value float16.Float16) bool {
	if right {
		return lessF16
	}
	return lessOrEqualF16
}

func bfloat16ComparatorFor(right bool) func(edge, value bfloat16.BFloat16) bool {
	if right {
		return lessBF16
	}
	return lessOrEqualBF16
}

// bisect returns the number of leading edges in row for which before(edge, value) holds.
// row must be ordered so that all edges satisfying the comparator come first, which a
// strictly increasing row guarantees for both tie-break comparators.
func bisect[T any](row []T, value T, before func(edge, value T) bool) int {
	lo, hi := 0, len(row)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if before(row[mid], value) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// digitizeChunk bucketizes the elements of data in [from, to). Element i belongs to batch
// i/batchSize and is searched within that batch's row of binsLength edges.
func digitizeChunk[T any, O podIndexConstraints](data, bins []T, batchSize, binsLength int, before func(edge, value T) bool, output []O, from, to int) {
	for i := from; i < to; i++ {
		base := (i / batchSize) * binsLength
		output[i] = O(bisect(bins[base:base+binsLength], data[i], before))
	}
}

// minParallelizeChunk is the minimum number of elements to parallelize over.
const minParallelizeChunk = 4096

// forwardDigitize runs digitizeChunk over all of data, chunked over the workers pool when
// it pays off, inline otherwise. Chunks write disjoint ranges of output, so they need no
// synchronization beyond the final join.
func forwardDigitize[T any, O podIndexConstraints](workers *workersPool, data, bins []T, batchSize, binsLength int, before func(edge, value T) bool, output []O) {
	n := len(data)
	if workers != nil && workers.IsEnabled() && n > minParallelizeChunk {
		var wg sync.WaitGroup
		for ii := 0; ii < n; ii += minParallelizeChunk {
			iiEnd := min(ii+minParallelizeChunk, n)
			wg.Add(1)
			workers.WaitToStart(func() {
				digitizeChunk(data, bins, batchSize, binsLength, before, output, ii, iiEnd)
				wg.Done()
			})
		}
		wg.Wait()
	} else {
		digitizeChunk(data, bins, batchSize, binsLength, before, output, 0, n)
	}
}

// checkMonotonicChunk verifies the adjacent pairs starting in [from, to) and stores false
// on the shared verdict at the first pair that is not strictly increasing. Pairs that
// straddle a row boundary ((i+1)%binsLength == 0) are skipped, which also keeps i+1 in
// bounds on the last chunk.
func checkMonotonicChunk[T any](bins []T, binsLength int, less func(a, b T) bool, monotonic *atomic.Bool, from, to int) {
	for i := from; i < to; i++ {
		if (i+1)%binsLength == 0 {
			continue
		}
		if !less(bins[i], bins[i+1]) {
			monotonic.Store(false)
			return
		}
	}
}

// validateMonotonic reports whether every row of binsLength edges in bins is strictly
// increasing. The verdict starts true and workers only ever store false, so the
// concurrent stores are benign; it is read once, after all chunks joined.
func validateMonotonic[T any](workers *workersPool, bins []T, binsLength int, less func(a, b T) bool) bool {
	var monotonic atomic.Bool
	monotonic.Store(true)
	n := len(bins)
	if workers != nil && workers.IsEnabled() && n > minParallelizeChunk {
		var wg sync.WaitGroup
		for ii := 0; ii < n; ii += minParallelizeChunk {
			iiEnd := min(ii+minParallelizeChunk, n)
			wg.Add(1)
			workers.WaitToStart(func() {
				checkMonotonicChunk(bins, binsLength, less, &monotonic, ii, iiEnd)
				wg.Done()
			})
		}
		wg.Wait()
	} else {
		checkMonotonicChunk(bins, binsLength, less, &monotonic, 0, n)
	}
	return monotonic.Load()
}
