package tensor

import (
	"bytes"
	"fmt"
	"strings"
	"unsafe"
)

// RawTensor is the concrete value of a tensor: a contiguous row-major byte
// buffer plus shape and runtime type information.
//
// Graph callbacks receive and return RawTensors. A RawTensor handed to a
// callback is owned by the callee for the duration of the call.
type RawTensor struct {
	data  []byte   // Row-major element storage
	shape Shape    // Tensor dimensions
	dtype DataType // Runtime type information
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is allocated and zero-initialized.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if !dtype.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDataType, int(dtype))
	}

	return &RawTensor{
		data:  make([]byte, shape.NumElements()*dtype.Size()),
		shape: shape.Clone(),
		dtype: dtype,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return len(r.data)
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.data
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	r.mustBe(Float32)
	return view[float32](r)
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	r.mustBe(Float64)
	return view[float64](r)
}

// AsInt32 interprets the data as []int32.
// Panics if the tensor's dtype is not Int32.
func (r *RawTensor) AsInt32() []int32 {
	r.mustBe(Int32)
	return view[int32](r)
}

// AsInt64 interprets the data as []int64.
// Panics if the tensor's dtype is not Int64.
func (r *RawTensor) AsInt64() []int64 {
	r.mustBe(Int64)
	return view[int64](r)
}

// AsUint8 interprets the data as []uint8.
// Panics if the tensor's dtype is not Uint8.
func (r *RawTensor) AsUint8() []uint8 {
	r.mustBe(Uint8)
	return r.data // Already []byte = []uint8
}

// AsBool interprets the data as []bool.
// Panics if the tensor's dtype is not Bool.
func (r *RawTensor) AsBool() []bool {
	r.mustBe(Bool)
	return view[bool](r)
}

// Clone returns a deep copy of the tensor.
func (r *RawTensor) Clone() *RawTensor {
	return &RawTensor{
		data:  bytes.Clone(r.data),
		shape: r.shape.Clone(),
		dtype: r.dtype,
	}
}

// Equal reports whether two tensors have the same dtype, shape and contents.
func (r *RawTensor) Equal(other *RawTensor) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.dtype == other.dtype && r.shape.Equal(other.shape) && bytes.Equal(r.data, other.data)
}

// String formats the tensor as dtype[shape]{values}.
func (r *RawTensor) String() string {
	if r == nil {
		return "<nil>"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s%v{", r.dtype, []int(r.shape))
	for i := 0; i < r.NumElements(); i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch {
		case r.dtype == Bool:
			fmt.Fprint(&sb, r.boolAt(i))
		case r.dtype.IsFloat():
			fmt.Fprint(&sb, r.floatAt(i))
		default:
			fmt.Fprint(&sb, r.intAt(i))
		}
	}
	sb.WriteByte('}')
	return sb.String()
}

func (r *RawTensor) mustBe(dtype DataType) {
	if r.dtype != dtype {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", r.dtype, dtype))
	}
}

// view reinterprets the buffer as a typed slice without copying.
func view[T DType](r *RawTensor) []T {
	n := r.NumElements()
	if n == 0 {
		return []T{}
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*T)(unsafe.Pointer(&r.data[0])), n)
}
