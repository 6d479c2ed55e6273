package digitize

import (
	"github.com/gomlx/digitize/shapeinference"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/pkg/errors"
	"github.com/x448/float16"
	"k8s.io/klog/v2"
)

// Exec runs bucketization calls over a shared worker pool. The zero value is not usable,
// create one with New.
//
// Exec holds no per-call state: concurrent Forward and ValidateBins calls on the same
// Exec are safe and share the pool's parallelism budget.
type Exec struct {
	workers workersPool
}

// New creates an Exec with parallelism defaulting to runtime.NumCPU().
func New() *Exec {
	e := &Exec{}
	e.workers.Initialize()
	return e
}

// SetMaxParallelism sets the soft target of parallel workers: 0 disables parallelism and
// runs everything inline, negative means unlimited. It returns e to allow chaining with
// New.
//
// Only change the parallelism while no calls are running.
func (e *Exec) SetMaxParallelism(maxParallelism int) *Exec {
	e.workers.SetMaxParallelism(maxParallelism)
	return e
}

// MaxParallelism returns the soft target of parallel workers.
func (e *Exec) MaxParallelism() int {
	return e.workers.MaxParallelism()
}

// ValidateBins checks that every row of bin edges is strictly increasing along the last
// axis of bins. Rows are scanned in parallel chunks; the shared verdict only ever
// transitions to "violated", and is inspected after all chunks joined.
//
// It returns an error wrapping ErrNotMonotonic on violation, or wrapping ErrShape or
// ErrDType if bins is not a valid operand in the first place.
func (e *Exec) ValidateBins(bins *Buffer) error {
	if bins == nil || bins.flat == nil {
		return errors.Wrapf(shapeinference.ErrShape, "bins buffer is nil or uninitialized")
	}
	if !bins.shape.Ok() || bins.shape.Rank() == 0 {
		return errors.Wrapf(shapeinference.ErrShape,
			"bins shape %s is undefined, bucketization requires rank >= 1", bins.shape)
	}
	monotonic, err := e.execValidate(bins, bins.shape.Dim(-1))
	if err != nil {
		return err
	}
	if !monotonic {
		return errors.Wrapf(ErrNotMonotonic,
			"bins %s must be strictly increasing along the last axis", bins.shape)
	}
	return nil
}

// execValidate dispatches validateMonotonic on the bins element type.
func (e *Exec) execValidate(bins *Buffer, binsLength int) (bool, error) {
	switch bins.shape.DType {
	case dtypes.Int8:
		return validateMonotonic(&e.workers, bins.flat.([]int8), binsLength, lessGeneric[int8]), nil
	case dtypes.Int16:
		return validateMonotonic(&e.workers, bins.flat.([]int16), binsLength, lessGeneric[int16]), nil
	case dtypes.Int32:
		return validateMonotonic(&e.workers, bins.flat.([]int32), binsLength, lessGeneric[int32]), nil
	case dtypes.Int64:
		return validateMonotonic(&e.workers, bins.flat.([]int64), binsLength, lessGeneric[int64]), nil
	case dtypes.Uint8:
		return validateMonotonic(&e.workers, bins.flat.([]uint8), binsLength, lessGeneric[uint8]), nil
	case dtypes.Uint16:
		return validateMonotonic(&e.workers, bins.flat.([]uint16), binsLength, lessGeneric[uint16]), nil
	case dtypes.Uint32:
		return validateMonotonic(&e.workers, bins.flat.([]uint32), binsLength, lessGeneric[uint32]), nil
	case dtypes.Uint64:
		return validateMonotonic(&e.workers, bins.flat.([]uint64), binsLength, lessGeneric[uint64]), nil
	case dtypes.Float32:
		return validateMonotonic(&e.workers, bins.flat.([]float32), binsLength, lessGeneric[float32]), nil
	case dtypes.Float64:
		return validateMonotonic(&e.workers, bins.flat.([]float64), binsLength, lessGeneric[float64]), nil
	case dtypes.Float16:
		return validateMonotonic(&e.workers, bins.flat.([]float16.Float16), binsLength, lessF16), nil
	case dtypes.BFloat16:
		return validateMonotonic(&e.workers, bins.flat.([]bfloat16.BFloat16), binsLength, lessBF16), nil
	default:
		return false, errors.Wrapf(shapeinference.ErrDType,
			"dtype %s is not supported for bucketization", bins.shape.DType)
	}
}

// Forward bucketizes data against the per-batch bin-edge rows of bins and writes the
// bucket indices into output.
//
// The operands must satisfy the shapeinference rules and output must already have the
// inferred shape: data's dimensions with params.OutputDType. The bins rows are validated
// first, a call failing with ErrNotMonotonic (or any other error) leaves output
// untouched.
//
// output may share storage with data for in-place execution: each element's search reads
// only bins and the element's own value, so there is no read-after-write hazard. data and
// bins are never mutated.
func (e *Exec) Forward(params Parameters, data, bins, output *Buffer) error {
	if data == nil || bins == nil || output == nil ||
		data.flat == nil || bins.flat == nil || output.flat == nil {
		return errors.Errorf("Forward requires non-nil data, bins and output buffers")
	}
	outputDType, err := shapeinference.InferDType(params.OutputDType, data.shape.DType, bins.shape.DType)
	if err != nil {
		return err
	}
	expected, err := shapeinference.InferShape(outputDType, data.shape, bins.shape)
	if err != nil {
		return err
	}
	if !output.shape.Equal(expected) {
		return errors.Wrapf(shapeinference.ErrShape,
			"output buffer is %s, inference requires %s", output.shape, expected)
	}
	if err = e.ValidateBins(bins); err != nil {
		return err
	}
	if klog.V(2).Enabled() {
		klog.Infof("digitize.Forward: data=%s bins=%s output=%s right=%v parallelism=%d",
			data.shape, bins.shape, output.shape, params.Right, e.workers.MaxParallelism())
	}
	return e.execForward(params, data, bins, output, data.shape.Dim(-1), bins.shape.Dim(-1))
}

// execForward dispatches the search kernel on the data element type. The comparator
// selected by params.Right is bound here, once per call.
func (e *Exec) execForward(params Parameters, data, bins, output *Buffer, batchSize, binsLength int) error {
	switch data.shape.DType {
	case dtypes.Int8:
		return forwardForOutput(e, data.flat.([]int8), bins.flat.([]int8), batchSize, binsLength, comparatorFor[int8](params.Right), output)
	case dtypes.Int16:
		return forwardForOutput(e, data.flat.([]int16), bins.flat.([]int16), batchSize, binsLength, comparatorFor[int16](params.Right), output)
	case dtypes.Int32:
		return forwardForOutput(e, data.flat.([]int32), bins.flat.([]int32), batchSize, binsLength, comparatorFor[int32](params.Right), output)
	case dtypes.Int64:
		return forwardForOutput(e, data.flat.([]int64), bins.flat.([]int64), batchSize, binsLength, comparatorFor[int64](params.Right), output)
	case dtypes.Uint8:
		return forwardForOutput(e, data.flat.([]uint8), bins.flat.([]uint8), batchSize, binsLength, comparatorFor[uint8](params.Right), output)
	case dtypes.Uint16:
		return forwardForOutput(e, data.flat.([]uint16), bins.flat.([]uint16), batchSize, binsLength, comparatorFor[uint16](params.Right), output)
	case dtypes.Uint32:
		return forwardForOutput(e, data.flat.([]uint32), bins.flat.([]uint32), batchSize, binsLength, comparatorFor[uint32](params.Right), output)
	case dtypes.Uint64:
		return forwardForOutput(e, data.flat.([]uint64), bins.flat.([]uint64), batchSize, binsLength, comparatorFor[uint64](params.Right), output)
	case dtypes.Float32:
		return forwardForOutput(e, data.flat.([]float32), bins.flat.([]float32), batchSize, binsLength, comparatorFor[float32](params.Right), output)
	case dtypes.Float64:
		return forwardForOutput(e, data.flat.([]float64), bins.flat.([]float64), batchSize, binsLength, comparatorFor[float64](params.Right), output)
	case dtypes.Float16:
		return forwardForOutput(e, data.flat.([]float16.Float16), bins.flat.([]float16.Float16), batchSize, binsLength, float16ComparatorFor(params.Right), output)
	case dtypes.BFloat16:
		return forwardForOutput(e, data.flat.([]bfloat16.BFloat16), bins.flat.([]bfloat16.BFloat16), batchSize, binsLength, bfloat16ComparatorFor(params.Right), output)
	default:
		return errors.Wrapf(shapeinference.ErrDType,
			"dtype %s is not supported for bucketization", data.shape.DType)
	}
}

// forwardForOutput dispatches forwardDigitize on the output element type.
func forwardForOutput[T any](e *Exec, data, bins []T, batchSize, binsLength int, before func(edge, value T) bool, output *Buffer) error {
	switch output.shape.DType {
	case dtypes.Uint8:
		forwardDigitize(&e.workers, data, bins, batchSize, binsLength, before, output.flat.([]uint8))
	case dtypes.Int8:
		forwardDigitize(&e.workers, data, bins, batchSize, binsLength, before, output.flat.([]int8))
	case dtypes.Int32:
		forwardDigitize(&e.workers, data, bins, batchSize, binsLength, before, output.flat.([]int32))
	case dtypes.Int64:
		forwardDigitize(&e.workers, data, bins, batchSize, binsLength, before, output.flat.([]int64))
	default:
		return errors.Wrapf(shapeinference.ErrDType,
			"output dtype %s is not supported for bucket indices", output.shape.DType)
	}
	return nil
}

// defaultExec is the shared executor used by the one-shot Digitize.
var defaultExec = New()

// Digitize is the one-shot form of Exec.Forward: it infers the output shape, allocates
// the output buffer and runs the forward computation on a shared executor with default
// parallelism. Use New and Exec.Forward to control parallelism or reuse output buffers.
func Digitize(params Parameters, data, bins *Buffer) (*Buffer, error) {
	if data == nil || bins == nil || data.flat == nil || bins.flat == nil {
		return nil, errors.Errorf("Digitize requires non-nil data and bins buffers")
	}
	outputDType, err := shapeinference.InferDType(params.OutputDType, data.shape.DType, bins.shape.DType)
	if err != nil {
		return nil, err
	}
	outputShape, err := shapeinference.InferShape(outputDType, data.shape, bins.shape)
	if err != nil {
		return nil, err
	}
	output := NewBuffer(outputShape)
	if err = defaultExec.Forward(params, data, bins, output); err != nil {
		return nil, err
	}
	return output, nil
}
