// Package digitize implements batched bucketization of values, the classic "digitize"
// operation: given an array of values and, for each batch, a strictly increasing sequence
// of bin edges, it maps every value to the index of the bucket it falls into.
//
// Batches are defined by all but the last axis: data of shape [d0, ..., dk, m] is bucketized
// against bins of shape [d0, ..., dk, n], each row of m values searching its own row of n
// edges. Bucket indices range from 0 (below all edges) to n (above all edges) and are
// written with the configured output element type.
//
// The Right parameter selects the tie-break convention for values equal to a bin edge,
// mirroring the standard numerical convention: with Right=false (default) the index is the
// count of edges less than or equal to the value (intervals closed on the left), with
// Right=true it is the count of edges strictly less than the value (intervals closed on
// the right).
//
// Shape and dtype contracts are checked by the shapeinference sub-package, callable at
// graph-construction time by a hosting framework. At execution time Forward first verifies
// that every bin-edge row is strictly increasing and fails with ErrNotMonotonic before
// writing any output. Validation and the search kernel both run chunked over a worker pool,
// see Exec.SetMaxParallelism.
//
// Example, bucketizing two batches against their own edges:
//
//	data, _ := digitize.BufferFromFlat([]float32{0.5, 1.5, 2.5, 10, 20, 30}, shapes.Make(dtypes.Float32, 2, 3))
//	bins, _ := digitize.BufferFromFlat([]float32{1, 2, 15, 25}, shapes.Make(dtypes.Float32, 2, 2))
//	output, err := digitize.Digitize(digitize.NewParameters(), data, bins)
//	// output.Flat().([]int32) == []int32{0, 1, 2, 0, 1, 2}
package digitize

import (
	"github.com/gomlx/digitize/shapeinference"
	"github.com/gomlx/digitize/types/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// ErrShape and ErrDType alias the shapeinference sentinels, so callers can test inference
// failures with errors.Is without importing the shapeinference package.
var (
	ErrShape = shapeinference.ErrShape
	ErrDType = shapeinference.ErrDType
)

// ErrNotMonotonic is returned by ValidateBins and Forward when some batch's bin-edge row
// is not strictly increasing. Errors are wrapped with context, test with errors.Is.
var ErrNotMonotonic = errors.New("bin edges are not strictly monotonic increasing")

// Parameters configure one bucketization operator instance. They are set once when the
// operator is created and never change afterwards.
type Parameters struct {
	// Right selects which side of the interval a bin edge belongs to. If false (default)
	// a value equal to an edge falls in the bucket above it: the index counts edges
	// less than or equal to the value (an upper-bound search). If true the value falls
	// in the bucket below the edge: only edges strictly less than the value are counted
	// (a lower-bound search).
	Right bool

	// OutputDType is the element type used to write bucket indices, one of
	// shapeinference.OutputDTypes. Indices go up to the bins row length, pick a type wide
	// enough: narrow types wrap around on overflow, as regular Go integer conversions do.
	OutputDType dtypes.DType
}

// NewParameters returns the default Parameters: Right=false and Int32 bucket indices.
func NewParameters() Parameters {
	return Parameters{Right: false, OutputDType: dtypes.Int32}
}

// ParseAttrs builds Parameters from the dynamic attribute maps hosting frameworks
// typically carry. It accepts the keys "right" (a bool) and "otype" (a dtypes.DType or
// its string name). Missing keys keep their defaults, unknown keys fail.
func ParseAttrs(attrs map[string]any) (Parameters, error) {
	params := NewParameters()
	for key, value := range attrs {
		switch key {
		case "right":
			b, ok := value.(bool)
			if !ok {
				return params, errors.Errorf("attribute %q must be a bool, got %T", key, value)
			}
			params.Right = b
		case "otype":
			switch v := value.(type) {
			case dtypes.DType:
				params.OutputDType = v
			case string:
				dtype, err := dtypes.DTypeString(v)
				if err != nil {
					return params, errors.Wrapf(err, "attribute %q", key)
				}
				params.OutputDType = dtype
			default:
				return params, errors.Errorf("attribute %q must be a dtypes.DType or its string name, got %T", key, value)
			}
		default:
			return params, errors.Errorf("unknown attribute %q", key)
		}
	}
	if !shapeinference.OutputDTypes.Has(params.OutputDType) {
		return params, errors.Wrapf(shapeinference.ErrDType,
			"otype %s is not supported, bucket indices can be Uint8, Int8, Int32 or Int64", params.OutputDType)
	}
	return params, nil
}

// InferShape implements the shape-inference contract for hosting frameworks: given the
// shapes of the data and bins operands it returns the output shape, which is the data
// shape carrying params.OutputDType. Called at graph-construction time, before any data
// exists.
func InferShape(params Parameters, data, bins shapes.Shape) (shapes.Shape, error) {
	return shapeinference.InferShape(params.OutputDType, data, bins)
}

// InferDType implements the type-inference contract for hosting frameworks: it validates
// the operand dtypes and returns the element type of the output bucket indices.
func InferDType(params Parameters, data, bins dtypes.DType) (dtypes.DType, error) {
	return shapeinference.InferDType(params.OutputDType, data, bins)
}

// OpDef describes an operator to hosting frameworks: its arity, argument names, attribute
// documentation and the buffer-aliasing capability.
type OpDef struct {
	Name string

	// NumInputs counts the named data inputs. The bins table rides in a separate operand
	// slot and is not part of the named inputs.
	NumInputs  int
	NumOutputs int
	InputNames []string

	// InplaceInputOutput lists [input, output] buffer pairs that may share storage.
	InplaceInputOutput [][2]int

	// AttrsHelp documents the attribute keys accepted by ParseAttrs.
	AttrsHelp map[string]string
}

// Def is the operator definition of the bucketization operation. The kernel writes each
// output element from its own value and the read-only bins rows, so the output may alias
// the data input.
var Def = OpDef{
	Name:               "Digitize",
	NumInputs:          1,
	NumOutputs:         1,
	InputNames:         []string{"data"},
	InplaceInputOutput: [][2]int{{0, 0}},
	AttrsHelp: map[string]string{
		"right": "Whether the intervals include the right or the left bin edge.",
		"otype": "DType of the output.",
	},
}
