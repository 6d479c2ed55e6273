package shapes

import (
	"testing"

	. "github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	invalidShape := Invalid()
	require.False(t, invalidShape.Ok())

	shape0 := Make(Float64)
	require.True(t, shape0.Ok())
	require.True(t, shape0.IsScalar())
	require.Equal(t, 0, shape0.Rank())
	require.Len(t, shape0.Dimensions, 0)
	require.Equal(t, 1, shape0.Size())
	require.Equal(t, 8, int(shape0.Memory()))

	shape1 := Make(Float32, 4, 3, 2)
	require.True(t, shape1.Ok())
	require.False(t, shape1.IsScalar())
	require.Equal(t, 3, shape1.Rank())
	require.Len(t, shape1.Dimensions, 3)
	require.Equal(t, 4*3*2, shape1.Size())
	require.Equal(t, 4*4*3*2, int(shape1.Memory()))
	require.Equal(t, "(Float32)[4 3 2]", shape1.String())

	require.Panics(t, func() { _ = Make(Float32, 4, 0) })
}

func TestDim(t *testing.T) {
	shape := Make(Float32, 4, 3, 2)
	require.Equal(t, 4, shape.Dim(0))
	require.Equal(t, 3, shape.Dim(1))
	require.Equal(t, 2, shape.Dim(2))
	require.Equal(t, 4, shape.Dim(-3))
	require.Equal(t, 3, shape.Dim(-2))
	require.Equal(t, 2, shape.Dim(-1))
	require.Panics(t, func() { _ = shape.Dim(3) })
	require.Panics(t, func() { _ = shape.Dim(-4) })
}

func TestEqual(t *testing.T) {
	shape := Make(Int32, 2, 3)
	require.True(t, shape.Equal(Make(Int32, 2, 3)))
	require.False(t, shape.Equal(Make(Int64, 2, 3)))
	require.False(t, shape.Equal(Make(Int32, 2, 3, 1)))
	require.False(t, shape.Equal(Make(Int32, 3, 2)))

	require.True(t, shape.EqualDimensions(Make(Float32, 2, 3)))
	require.False(t, shape.EqualDimensions(Make(Int32, 2, 4)))

	clone := shape.Clone()
	require.True(t, shape.Equal(clone))
	clone.Dimensions[0] = 7
	require.Equal(t, 2, shape.Dimensions[0])
}

func TestChecks(t *testing.T) {
	shape := Make(Float32, 4, 3)
	require.NoError(t, shape.CheckDims(4, 3))
	require.NoError(t, shape.CheckDims(4, UncheckedAxis))
	require.Error(t, shape.CheckDims(4, 2))
	require.Error(t, shape.CheckDims(4, 3, 2))

	require.NoError(t, shape.Check(Float32, 4, 3))
	require.Error(t, shape.Check(Float64, 4, 3))

	require.NoError(t, shape.CheckRank(2))
	require.Error(t, shape.CheckRank(1))
	require.NoError(t, CheckRank(shape, 2))
	require.Panics(t, func() { AssertRank(shape, 3) })
	require.Panics(t, func() { shape.AssertDims(4, 1) })
	require.Panics(t, func() { Assert(shape, Int32, 4, 3) })
	AssertDims(shape, 4, UncheckedAxis)
}
