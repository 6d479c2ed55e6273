package digitize

import (
	"reflect"

	"github.com/gomlx/digitize/types/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// Buffer holds a shape and a reference to the flat data.
//
// Buffers are owned by the caller: the operation only reads the data and bins buffers and
// writes the output buffer, it never allocates or frees them behind the caller's back.
// The flat data may be shared, e.g. the output buffer aliasing the data buffer for
// in-place execution.
type Buffer struct {
	shape shapes.Shape

	// flat is always a slice of the Go type corresponding to shape.DType.
	flat any
}

// NewBuffer creates a buffer with a newly allocated flat slice for the given shape.
func NewBuffer(shape shapes.Shape) *Buffer {
	return &Buffer{
		shape: shape.Clone(),
		flat:  reflect.MakeSlice(reflect.SliceOf(shape.DType.GoType()), shape.Size(), shape.Size()).Interface(),
	}
}

// BufferFromFlat wraps a caller-owned flat slice into a buffer with the given shape.
// The slice element type must correspond to shape.DType, and its length must be exactly
// shape.Size(). The data is shared with the caller, not copied.
func BufferFromFlat(flat any, shape shapes.Shape) (*Buffer, error) {
	flatType := reflect.TypeOf(flat)
	if flatType == nil || flatType.Kind() != reflect.Slice {
		return nil, errors.Errorf("flat must be a slice, got %T", flat)
	}
	if dtypes.FromGoType(flatType.Elem()) != shape.DType {
		return nil, errors.Errorf("flat data type (%s) does not match shape DType (%s)",
			flatType.Elem(), shape.DType)
	}
	if got := reflect.ValueOf(flat).Len(); got != shape.Size() {
		return nil, errors.Errorf("flat has %d elements, shape %s requires %d", got, shape, shape.Size())
	}
	return &Buffer{shape: shape.Clone(), flat: flat}, nil
}

// Shape of the buffer.
func (b *Buffer) Shape() shapes.Shape { return b.shape }

// Flat returns the underlying flat slice, of the Go type corresponding to the buffer's
// DType. The slice is shared with the buffer, mutating it mutates the buffer.
func (b *Buffer) Flat() any { return b.flat }
