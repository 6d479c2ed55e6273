package xslices

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	count := 17
	in := make([]int, count)
	for ii := 0; ii < count; ii++ {
		in[ii] = ii
	}
	out := Map(in, func(v int) int32 { return int32(v + 1) })
	for ii := 0; ii < count; ii++ {
		assert.Equalf(t, int32(ii+1), out[ii], "element %d doesn't match", ii)
	}
}

func TestIota(t *testing.T) {
	assert.Equal(t, []float64{3.0, 4.0}, Iota(3.0, 2))
	assert.Equal(t, []int32{0, 1, 2, 3}, Iota(int32(0), 4))
}

func TestSliceWithValue(t *testing.T) {
	assert.Equal(t, []int{7, 7, 7}, SliceWithValue(3, 7))
	assert.Empty(t, SliceWithValue(0, 1.0))
}

func TestFillSlice(t *testing.T) {
	slice := make([]float32, 13)
	FillSlice(slice, float32(11))
	for ii, v := range slice {
		assert.Equalf(t, float32(11), v, "element %d doesn't match", ii)
	}
	FillSlice([]int{}, 0)
}
