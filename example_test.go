package digitize_test

import (
	"fmt"

	"github.com/gomlx/digitize"
	"github.com/gomlx/digitize/types/shapes"
	"github.com/gomlx/gopjrt/dtypes"
)

// ExampleDigitize bucketizes two batches of values, each batch against its own row of
// bin edges.
func ExampleDigitize() {
	data, _ := digitize.BufferFromFlat([]float32{0.5, 1.5, 2.5, 10, 20, 30}, shapes.Make(dtypes.Float32, 2, 3))
	bins, _ := digitize.BufferFromFlat([]float32{1, 2, 15, 25}, shapes.Make(dtypes.Float32, 2, 2))
	output, err := digitize.Digitize(digitize.NewParameters(), data, bins)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(output.Flat().([]int32))
	// Output: [0 1 2 0 1 2]
}

// ExampleDigitize_right selects the lower-bound tie-break: a value equal to an edge
// falls in the bucket below it.
func ExampleDigitize_right() {
	params := digitize.NewParameters()
	params.Right = true
	data, _ := digitize.BufferFromFlat([]float64{2}, shapes.Make(dtypes.Float64, 1))
	bins, _ := digitize.BufferFromFlat([]float64{1, 2, 3}, shapes.Make(dtypes.Float64, 3))
	output, _ := digitize.Digitize(params, data, bins)
	fmt.Println(output.Flat().([]int32))
	// Output: [1]
}

// ExampleExec_Forward reuses one executor and a preallocated output buffer across calls.
func ExampleExec_Forward() {
	e := digitize.New().SetMaxParallelism(0)
	params := digitize.NewParameters()
	params.OutputDType = dtypes.Uint8

	data, _ := digitize.BufferFromFlat([]float32{0.5, 1, 3.5}, shapes.Make(dtypes.Float32, 3))
	bins, _ := digitize.BufferFromFlat([]float32{1, 2, 3}, shapes.Make(dtypes.Float32, 3))
	outputShape, _ := digitize.InferShape(params, data.Shape(), bins.Shape())
	output := digitize.NewBuffer(outputShape)
	if err := e.Forward(params, data, bins, output); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(output.Shape(), output.Flat().([]uint8))
	// Output: (Uint8)[3] [0 1 3]
}
