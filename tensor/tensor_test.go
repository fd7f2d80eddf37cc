// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"errors"
	"testing"

	"github.com/born-ml/tensorify/tensor"
)

// TestRawTensorAPI verifies RawTensor type alias exposes expected API.
func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	// Test Shape() method.
	shape := raw.Shape()
	if !shape.Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", shape)
	}

	// Test DType() method.
	if dtype := raw.DType(); dtype != tensor.Float32 {
		t.Errorf("DType() = %v, want Float32", dtype)
	}

	// Test NumElements() and ByteSize() methods.
	if n := raw.NumElements(); n != 6 {
		t.Errorf("NumElements() = %d, want 6", n)
	}
	if size := raw.ByteSize(); size != 24 {
		t.Errorf("ByteSize() = %d, want 24", size)
	}

	// Test AsFloat32() aliases the buffer.
	raw.AsFloat32()[4] = 1.5
	if got := raw.AsFloat32()[4]; got != 1.5 {
		t.Errorf("AsFloat32()[4] = %v, want 1.5", got)
	}

	// Test Clone() is independent.
	clone := raw.Clone()
	clone.AsFloat32()[4] = 0
	if got := raw.AsFloat32()[4]; got != 1.5 {
		t.Errorf("original changed through clone: got %v", got)
	}
}

func TestConversions(t *testing.T) {
	x, err := tensor.FromSlice([]int64{1, 2, 3}, tensor.Shape{3})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	if got := x.String(); got != "int64[3]{1 2 3}" {
		t.Errorf("String() = %q", got)
	}

	m, err := tensor.FromValue([][]float32{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatalf("FromValue failed: %v", err)
	}
	if !m.Shape().Equal(tensor.Shape{2, 2}) {
		t.Errorf("Shape() = %v, want [2 2]", m.Shape())
	}

	c, err := tensor.Cast(tensor.Scalar(2.9), tensor.Int32)
	if err != nil {
		t.Fatalf("Cast failed: %v", err)
	}
	if got := c.AsInt32(); len(got) != 1 || got[0] != 2 {
		t.Errorf("Cast(2.9) = %v, want [2]", got)
	}

	if _, err := tensor.FromValue([][]int64{{1}, {2, 3}}); !errors.Is(err, tensor.ErrRaggedValue) {
		t.Errorf("ragged FromValue error = %v, want ErrRaggedValue", err)
	}
	if _, err := tensor.ParseDataType("complex64"); !errors.Is(err, tensor.ErrUnknownDataType) {
		t.Errorf("ParseDataType error = %v, want ErrUnknownDataType", err)
	}
}
