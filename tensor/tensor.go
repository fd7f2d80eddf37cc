// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/tensorify/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor element types.
// Supported types: float32, float64, int32, int64, uint8, bool.
type DType = tensor.DType

// DataType identifies the element type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
// The empty Shape is a scalar.
type Shape = tensor.Shape

// Errors returned by conversions.
var (
	ErrUnknownDataType  = tensor.ErrUnknownDataType
	ErrUnsupportedValue = tensor.ErrUnsupportedValue
	ErrShapeMismatch    = tensor.ErrShapeMismatch
	ErrRaggedValue      = tensor.ErrRaggedValue
)

// ParseDataType returns the DataType named s, e.g. "int64".
func ParseDataType(s string) (DataType, error) {
	return tensor.ParseDataType(s)
}

// FromSlice creates a tensor of the given shape backed by a copy of data.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// Scalar creates a zero-dimensional tensor holding v.
func Scalar[T DType](v T) *RawTensor {
	return tensor.Scalar(v)
}

// FromValue converts a Go scalar, slice or array into a tensor. A *RawTensor
// is returned as is.
func FromValue(v any) (*RawTensor, error) {
	return tensor.FromValue(v)
}

// Cast returns r converted to dtype. r itself is returned when it already
// has that type.
func Cast(r *RawTensor, dtype DataType) (*RawTensor, error) {
	return tensor.Cast(r, dtype)
}
