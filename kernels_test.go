package digitize

import (
	"fmt"
	"math"
	"testing"

	"github.com/gomlx/digitize/types/xslices"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBisect(t *testing.T) {
	row := []float64{1, 2, 3}
	testCases := []struct {
		value                float64
		wantUpper, wantLower int
	}{
		{0.5, 0, 0},
		{1, 1, 0},
		{1.5, 1, 1},
		{2, 2, 1},
		{3, 3, 2},
		{4, 3, 3},
	}
	for _, testCase := range testCases {
		upper := bisect(row, testCase.value, lessOrEqualGeneric[float64])
		lower := bisect(row, testCase.value, lessGeneric[float64])
		fmt.Printf("\tvalue=%g: upper=%d lower=%d\n", testCase.value, upper, lower)
		assert.Equal(t, testCase.wantUpper, upper)
		assert.Equal(t, testCase.wantLower, lower)
	}

	// Single edge.
	assert.Equal(t, 0, bisect([]float64{5}, 4, lessOrEqualGeneric[float64]))
	assert.Equal(t, 1, bisect([]float64{5}, 5, lessOrEqualGeneric[float64]))
	assert.Equal(t, 0, bisect([]float64{5}, 5, lessGeneric[float64]))
	assert.Equal(t, 1, bisect([]float64{5}, 6, lessGeneric[float64]))

	// Cross-check the binary search against a linear scan on a longer row.
	longRow := xslices.Iota[int32](0, 100)
	for _, value := range []int32{-1, 0, 1, 37, 99, 100} {
		count := 0
		for _, edge := range longRow {
			if edge <= value {
				count++
			}
		}
		require.Equal(t, count, bisect(longRow, value, lessOrEqualGeneric[int32]))
		require.Equal(t, count, bisect(longRow, value+1, lessGeneric[int32]))
	}
}

func TestDigitizeChunk(t *testing.T) {
	// Only the [from, to) range is written, and each element maps to the bins row of
	// its own batch.
	data := xslices.Iota[float32](0, 10)
	bins := []float32{3, 6, 1, 2}
	output := xslices.SliceWithValue[int32](10, 99)
	digitizeChunk(data, bins, 5, 2, lessOrEqualGeneric[float32], output, 2, 7)
	fmt.Printf("\toutput=%v\n", output)
	assert.Equal(t, []int32{99, 99, 0, 1, 1, 2, 2, 99, 99, 99}, output)
}

func TestValidateMonotonicKernel(t *testing.T) {
	// Inline path, no workers.
	assert.True(t, validateMonotonic(nil, []float32{1, 2, 3}, 3, lessGeneric[float32]))
	assert.False(t, validateMonotonic(nil, []float32{1, 1, 3}, 3, lessGeneric[float32]))
	assert.False(t, validateMonotonic(nil, []float32{3, 2, 1}, 3, lessGeneric[float32]))

	// Pairs that straddle a row boundary are not ordered.
	assert.True(t, validateMonotonic(nil, []float32{5, 9, 1, 3}, 2, lessGeneric[float32]))

	// NaN edges can never satisfy a strict ordering, whichever side of the pair they
	// sit on.
	assert.False(t, validateMonotonic(nil, []float64{1, math.NaN(), 3}, 3, lessGeneric[float64]))
	assert.False(t, validateMonotonic(nil, []float64{math.NaN(), 1}, 2, lessGeneric[float64]))

	// Single-edge rows have no pairs at all.
	assert.True(t, validateMonotonic(nil, []float64{math.NaN()}, 1, lessGeneric[float64]))
}

func TestValidateMonotonicParallel(t *testing.T) {
	// A violation planted deep into a large single row must be found when the scan is
	// chunked over workers.
	var pool workersPool
	pool.Initialize()
	n := 3*minParallelizeChunk + 17
	edges := xslices.Iota[int64](0, n)
	require.True(t, validateMonotonic(&pool, edges, n, lessGeneric[int64]))

	edges[n-2] = edges[n-1]
	require.False(t, validateMonotonic(&pool, edges, n, lessGeneric[int64]))

	// Same check, many short rows: the planted violation sits inside a row, while the
	// decreases at the row boundaries are ignored.
	const binsLength = 8
	rows := xslices.Iota[int64](0, n-n%binsLength)
	for i := range rows {
		rows[i] = int64(i % binsLength)
	}
	require.True(t, validateMonotonic(&pool, rows, binsLength, lessGeneric[int64]))
	rows[len(rows)-2] = rows[len(rows)-1]
	require.False(t, validateMonotonic(&pool, rows, binsLength, lessGeneric[int64]))
}
