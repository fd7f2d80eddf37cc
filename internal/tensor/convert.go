package tensor

import (
	"fmt"
	"reflect"
)

// FromSlice creates a tensor of the given shape backed by a copy of data.
//
// Example:
//
//	t, err := tensor.FromSlice([]int64{1, 2, 3, 4}, tensor.Shape{2, 2})
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy))
	if err != nil {
		return nil, err
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("%w: %d elements for shape %v", ErrShapeMismatch, len(data), shape)
	}
	copy(view[T](raw), data)
	return raw, nil
}

// Scalar creates a zero-dimensional tensor holding v.
func Scalar[T DType](v T) *RawTensor {
	raw, err := FromSlice([]T{v}, Shape{})
	if err != nil {
		panic(err) // Scalar shape always has one element
	}
	return raw
}

// FromValue converts a Go value into a tensor.
//
// Accepted values are *RawTensor (returned unchanged), booleans, integer and
// floating-point scalars, and (nested) slices or arrays of them. Go int maps
// to Int64 and float64 to Float64; narrower kinds keep their natural type.
func FromValue(v any) (*RawTensor, error) {
	switch x := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrUnsupportedValue)
	case *RawTensor:
		if x == nil {
			return nil, fmt.Errorf("%w: nil tensor", ErrUnsupportedValue)
		}
		return x, nil
	}

	rv := reflect.ValueOf(v)
	shape, elem := inferShape(rv)
	dtype, ok := kindDataType(elem)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}

	raw, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	pos := 0
	if err := raw.fill(rv, shape, &pos); err != nil {
		return nil, err
	}
	return raw, nil
}

// Cast converts r to dtype element by element. Floats are truncated toward
// zero when cast to integers; non-zero values become true when cast to Bool.
// If r already has the requested dtype it is returned unchanged.
func Cast(r *RawTensor, dtype DataType) (*RawTensor, error) {
	if r.dtype == dtype {
		return r, nil
	}
	out, err := NewRaw(r.shape, dtype)
	if err != nil {
		return nil, err
	}
	for i := 0; i < r.NumElements(); i++ {
		switch {
		case dtype == Bool:
			out.setBool(i, r.boolAt(i))
		case dtype.IsFloat():
			out.setFloat(i, r.floatAt(i))
		case r.dtype.IsFloat():
			out.setInt(i, int64(r.floatAt(i)))
		default:
			out.setInt(i, r.intAt(i))
		}
	}
	return out, nil
}

// inferShape walks the first element of every nesting level.
func inferShape(rv reflect.Value) (Shape, reflect.Type) {
	shape := Shape{}
	t := rv.Type()
	for t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		if rv.IsValid() {
			shape = append(shape, rv.Len())
			if rv.Len() > 0 {
				rv = rv.Index(0)
			} else {
				rv = reflect.Value{}
			}
		} else {
			shape = append(shape, 0)
		}
		t = t.Elem()
	}
	return shape, t
}

func kindDataType(t reflect.Type) (DataType, bool) {
	switch t.Kind() {
	case reflect.Bool:
		return Bool, true
	case reflect.Uint8:
		return Uint8, true
	case reflect.Int8, reflect.Int16, reflect.Int32:
		return Int32, true
	case reflect.Int, reflect.Int64, reflect.Uint16, reflect.Uint32, reflect.Uint, reflect.Uint64:
		return Int64, true
	case reflect.Float32:
		return Float32, true
	case reflect.Float64:
		return Float64, true
	default:
		return 0, false
	}
}

func (r *RawTensor) fill(rv reflect.Value, shape Shape, pos *int) error {
	if len(shape) == 0 {
		switch rv.Kind() {
		case reflect.Bool:
			r.setBool(*pos, rv.Bool())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			r.setInt(*pos, rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			r.setInt(*pos, int64(rv.Uint())) //nolint:gosec // wraps like a C cast
		default:
			r.setFloat(*pos, rv.Float())
		}
		*pos++
		return nil
	}
	if rv.Len() != shape[0] {
		return fmt.Errorf("%w: got %d, want %d", ErrRaggedValue, rv.Len(), shape[0])
	}
	for i := 0; i < rv.Len(); i++ {
		if err := r.fill(rv.Index(i), shape[1:], pos); err != nil {
			return err
		}
	}
	return nil
}

func (r *RawTensor) intAt(i int) int64 {
	switch r.dtype {
	case Int32:
		return int64(view[int32](r)[i])
	case Int64:
		return view[int64](r)[i]
	case Uint8:
		return int64(r.data[i])
	case Bool:
		if view[bool](r)[i] {
			return 1
		}
		return 0
	default:
		return int64(r.floatAt(i))
	}
}

func (r *RawTensor) floatAt(i int) float64 {
	switch r.dtype {
	case Float32:
		return float64(view[float32](r)[i])
	case Float64:
		return view[float64](r)[i]
	default:
		return float64(r.intAt(i))
	}
}

func (r *RawTensor) boolAt(i int) bool {
	switch r.dtype {
	case Bool:
		return view[bool](r)[i]
	case Float32, Float64:
		return r.floatAt(i) != 0
	default:
		return r.intAt(i) != 0
	}
}

func (r *RawTensor) setInt(i int, v int64) {
	switch r.dtype {
	case Int32:
		view[int32](r)[i] = int32(v) //nolint:gosec // narrowing is the point of the cast
	case Int64:
		view[int64](r)[i] = v
	case Uint8:
		r.data[i] = uint8(v) //nolint:gosec // narrowing is the point of the cast
	case Bool:
		view[bool](r)[i] = v != 0
	default:
		r.setFloat(i, float64(v))
	}
}

func (r *RawTensor) setFloat(i int, v float64) {
	switch r.dtype {
	case Float32:
		view[float32](r)[i] = float32(v)
	case Float64:
		view[float64](r)[i] = v
	case Bool:
		view[bool](r)[i] = v != 0
	default:
		r.setInt(i, int64(v))
	}
}

func (r *RawTensor) setBool(i int, v bool) {
	var n int64
	if v {
		n = 1
	}
	if r.dtype.IsFloat() {
		r.setFloat(i, float64(n))
		return
	}
	r.setInt(i, n)
}
