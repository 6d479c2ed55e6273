package digitize

import (
	"github.com/gomlx/digitize/shapeinference"
	"github.com/gomlx/digitize/types"
	"github.com/gomlx/gopjrt/dtypes"
)

// InputDTypes and OutputDTypes expose the supported element types of the operation: the
// types accepted for the data/bins operands and the types bucket indices can be written
// as. They alias the sets the shapeinference rules are checked against, so dispatch and
// inference can never disagree.
var (
	InputDTypes  types.Set[dtypes.DType] = shapeinference.InputDTypes
	OutputDTypes types.Set[dtypes.DType] = shapeinference.OutputDTypes
)
