// Package shapeinference validates the inputs of the batched bucketization operation and
// calculates the shape and data type of its output.
//
// It is meant to be called at graph-construction time by a hosting framework, before any
// data is materialized: given the shapes (or dtypes) of the data and bins operands plus the
// configured output dtype, it either returns the output shape (or dtype) or a descriptive
// error wrapping one of the package sentinels.
//
// The rules are:
//
//   - data and bins must have the same rank, >= 1, and all dimensions except the last must
//     match. There is no broadcasting: the output shape is exactly the data shape.
//   - data and bins must share the same element type, drawn from InputDTypes. The search
//     compares data values against bin edges directly, so the comparison must be
//     type-homogeneous.
//   - The output element type is the configured one, drawn from OutputDTypes, and is
//     independent of the input element type.
package shapeinference

import (
	"slices"

	"github.com/gomlx/digitize/types"
	"github.com/gomlx/digitize/types/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// ErrShape is returned for undefined, mismatching rank or mismatching leading dimensions
// of the data and bins operands. Errors are wrapped with context, test with errors.Is.
var ErrShape = errors.New("invalid or incompatible operand shapes")

// ErrDType is returned for undefined or mismatching operand element types, or for an
// element type outside the supported sets. Errors are wrapped with context, test with
// errors.Is.
var ErrDType = errors.New("invalid or incompatible operand dtypes")

var (
	// InputDTypes are the element types accepted for the data and bins operands.
	// Bool and complex numbers have no total order for the binary search, so they are
	// excluded.
	InputDTypes = types.SetWith(
		dtypes.Int8,
		dtypes.Int16,
		dtypes.Int32,
		dtypes.Int64,
		dtypes.Uint8,
		dtypes.Uint16,
		dtypes.Uint32,
		dtypes.Uint64,
		dtypes.Float32,
		dtypes.Float64,
		dtypes.Float16,
		dtypes.BFloat16,
	)

	// OutputDTypes are the element types a bucket index can be written as.
	OutputDTypes = types.SetWith(
		dtypes.Uint8,
		dtypes.Int8,
		dtypes.Int32,
		dtypes.Int64,
	)
)

// InferShape returns the output shape of bucketizing data against the per-batch bin edges
// in bins: the data shape itself, carrying the given output dtype.
//
// It returns an error wrapping ErrShape if either operand shape is undefined (or scalar),
// ranks differ, or any dimension before the last differs. The element types of data and
// bins are not checked here, that is InferDType's job.
func InferShape(outputDType dtypes.DType, data, bins shapes.Shape) (output shapes.Shape, err error) {
	output = shapes.Invalid()
	if !data.Ok() || data.Rank() == 0 {
		err = errors.Wrapf(ErrShape, "data shape %s is undefined, bucketization requires rank >= 1", data)
		return
	}
	if !bins.Ok() || bins.Rank() == 0 {
		err = errors.Wrapf(ErrShape, "bins shape %s is undefined, bucketization requires rank >= 1", bins)
		return
	}
	if data.Rank() != bins.Rank() {
		err = errors.Wrapf(ErrShape, "data rank %d and bins rank %d must match, got shapes %s and %s",
			data.Rank(), bins.Rank(), data, bins)
		return
	}
	lastAxis := data.Rank() - 1
	if !slices.Equal(data.Dimensions[:lastAxis], bins.Dimensions[:lastAxis]) {
		err = errors.Wrapf(ErrShape, "all dimensions but the last must match, got data %s and bins %s",
			data, bins)
		return
	}
	output = shapes.Make(outputDType, data.Dimensions...)
	return
}

// InferDType returns the output element type for bucket indices: the configured
// outputDType.
//
// It returns an error wrapping ErrDType if data or bins element types are undefined or
// differ from each other, if they are not in InputDTypes, or if outputDType is not in
// OutputDTypes.
func InferDType(outputDType, data, bins dtypes.DType) (dtypes.DType, error) {
	if data == dtypes.InvalidDType {
		return dtypes.InvalidDType, errors.Wrapf(ErrDType, "data dtype is undefined")
	}
	if bins == dtypes.InvalidDType {
		return dtypes.InvalidDType, errors.Wrapf(ErrDType, "bins dtype is undefined")
	}
	if data != bins {
		return dtypes.InvalidDType, errors.Wrapf(ErrDType,
			"data (%s) and bins (%s) dtypes must match, bin edges are compared directly against the values",
			data, bins)
	}
	if !InputDTypes.Has(data) {
		return dtypes.InvalidDType, errors.Wrapf(ErrDType, "dtype %s is not supported for bucketization", data)
	}
	if !OutputDTypes.Has(outputDType) {
		return dtypes.InvalidDType, errors.Wrapf(ErrDType,
			"output dtype %s is not supported, bucket indices can be Uint8, Int8, Int32 or Int64", outputDType)
	}
	return outputDType, nil
}
