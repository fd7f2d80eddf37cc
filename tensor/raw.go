// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/tensorify/internal/tensor"
)

// RawTensor is the concrete value of a tensor.
//
// RawTensor provides:
//   - Shape and type information via Shape() and DType()
//   - Typed views via AsFloat32(), AsInt64(), etc.
//   - Deep copies via Clone()
//
// The typed views alias the tensor's buffer and panic when the requested
// type differs from DType().
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
//	data := raw.AsFloat32() // Writes go to raw
//	clone := raw.Clone()    // Independent copy
type RawTensor = tensor.RawTensor

// NewRaw allocates a zero-filled tensor.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}
