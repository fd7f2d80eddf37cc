// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the concrete values exchanged with tensorified
// functions.
//
// # Overview
//
// A RawTensor is a dense, row-major buffer with a Shape and a DataType.
// Supported data types are float32, float64, int32, int64, uint8 and bool.
//
// # Basic Usage
//
//	x, _ := tensor.FromSlice([]int64{1, 2, 3}, tensor.Shape{3})
//	s := tensor.Scalar(2.5)
//	m, _ := tensor.FromValue([][]float32{{1, 2}, {3, 4}})
//
//	fmt.Println(x)        // int64[3]{1 2 3}
//	fmt.Println(m.Shape()) // [2 2]
//
// # Conversion
//
// FromValue accepts scalars, slices and arrays of the supported Go kinds,
// nested to any depth as long as the nesting is rectangular. Go int and the
// unsigned kinds wider than a byte become Int64.
//
// Cast converts between data types: floats are truncated toward zero and any
// non-zero value becomes true.
package tensor
