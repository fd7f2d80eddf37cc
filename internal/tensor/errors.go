package tensor

import "errors"

// Common errors.
var (
	ErrUnknownDataType  = errors.New("unknown data type")
	ErrUnsupportedValue = errors.New("unsupported value")
	ErrShapeMismatch    = errors.New("data length does not match shape")
	ErrRaggedValue      = errors.New("nested slices have inconsistent lengths")
)
