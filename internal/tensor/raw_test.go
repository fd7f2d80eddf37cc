package tensor

import (
	"testing"
)

// RawTensor Tests

func TestRawTensorAsInt64(t *testing.T) {
	raw, _ := NewRaw(Shape{3, 2}, Int64)
	data := raw.AsInt64()

	if len(data) != 6 {
		t.Errorf("AsInt64 length = %d, want 6", len(data))
	}

	// Modify and verify zero-copy
	data[0] = 42
	if raw.AsInt64()[0] != 42 {
		t.Error("AsInt64 should return zero-copy slice")
	}
}

func TestRawTensorAsUint8(t *testing.T) {
	raw, _ := NewRaw(Shape{4, 4}, Uint8)
	data := raw.AsUint8()

	if len(data) != 16 {
		t.Errorf("AsUint8 length = %d, want 16", len(data))
	}

	data[0] = 255
	if raw.AsUint8()[0] != 255 {
		t.Error("AsUint8 should return zero-copy slice")
	}
}

func TestRawTensorAsBool(t *testing.T) {
	raw, _ := NewRaw(Shape{2, 2}, Bool)
	data := raw.AsBool()

	if len(data) != 4 {
		t.Errorf("AsBool length = %d, want 4", len(data))
	}

	data[0] = true
	if !raw.AsBool()[0] {
		t.Error("AsBool should return zero-copy slice")
	}
}

func TestRawTensorEmpty(t *testing.T) {
	raw, err := NewRaw(Shape{0}, Float32)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	if got := len(raw.AsFloat32()); got != 0 {
		t.Errorf("empty tensor view length = %d, want 0", got)
	}
}

func TestRawTensorWrongDTypePanics(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Int32)

	defer func() {
		if recover() == nil {
			t.Error("AsFloat64 on an int32 tensor should panic")
		}
	}()
	raw.AsFloat64()
}

func TestRawTensorCloneIsDeep(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Int64)
	raw.AsInt64()[0] = 1

	clone := raw.Clone()
	clone.AsInt64()[0] = 9

	if raw.AsInt64()[0] != 1 {
		t.Error("Clone should copy the buffer")
	}
	if raw.Equal(clone) {
		t.Error("tensors with different contents should not be equal")
	}
}

func TestRawTensorString(t *testing.T) {
	raw, _ := FromSlice([]int64{2, 2, 2}, Shape{3})
	if got, want := raw.String(), "int64[3]{2 2 2}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	b := Scalar(true)
	if got, want := b.String(), "bool[]{true}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
