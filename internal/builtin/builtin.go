// Package builtin provides a namespace of host functions for tensor programs.
//
// The functions operate on int64 values unless one of their arguments is a
// float, in which case they work in float64. Binary functions broadcast a
// single-element argument against the other one.
package builtin

import (
	"errors"
	"fmt"

	"github.com/born-ml/tensorify/internal/parallel"
	"github.com/born-ml/tensorify/internal/tensor"
	"github.com/born-ml/tensorify/internal/tensorify"
)

// Workers controls how element-wise functions split large inputs.
var Workers = parallel.DefaultConfig()

// ErrShapeMismatch is returned when two arguments cannot be combined.
var ErrShapeMismatch = errors.New("incompatible argument shapes")

// Namespace returns a fresh namespace with every builtin bound by name.
// The functions are plain; pass the namespace to tensorify.Tensorify to turn
// them into ops.
func Namespace() *tensorify.Namespace {
	return tensorify.NewNamespace("builtin").
		Set("add", tensorify.Func(Add)).
		Set("sub", tensorify.Func(Sub)).
		Set("mul", tensorify.Func(Mul)).
		Set("negate", tensorify.Func(Negate)).
		Set("sum", tensorify.Func(Sum)).
		Set("replicate", tensorify.Func(Replicate)).
		Set("accumulate", tensorify.Method(Accumulate))
}

// Add returns x + y, plus one when the extra_one keyword is set.
func Add(args []*tensor.RawTensor, kw tensorify.Kwargs) ([]*tensor.RawTensor, error) {
	var extra int64
	if kw.Bool("extra_one", false) {
		extra = 1
	}
	return binary(args, "add",
		func(x, y int64) int64 { return x + y + extra },
		func(x, y float64) float64 { return x + y + float64(extra) })
}

// Sub returns x - y.
func Sub(args []*tensor.RawTensor, _ tensorify.Kwargs) ([]*tensor.RawTensor, error) {
	return binary(args, "sub",
		func(x, y int64) int64 { return x - y },
		func(x, y float64) float64 { return x - y })
}

// Mul returns x * y.
func Mul(args []*tensor.RawTensor, _ tensorify.Kwargs) ([]*tensor.RawTensor, error) {
	return binary(args, "mul",
		func(x, y int64) int64 { return x * y },
		func(x, y float64) float64 { return x * y })
}

// Negate returns -x.
func Negate(args []*tensor.RawTensor, _ tensorify.Kwargs) ([]*tensor.RawTensor, error) {
	if err := arity("negate", args, 1); err != nil {
		return nil, err
	}
	zero := tensor.Scalar(int64(0))
	return Sub([]*tensor.RawTensor{zero, args[0]}, nil)
}

// Sum reduces x to a scalar.
func Sum(args []*tensor.RawTensor, _ tensorify.Kwargs) ([]*tensor.RawTensor, error) {
	if err := arity("sum", args, 1); err != nil {
		return nil, err
	}
	x := args[0]
	if x.DType().IsFloat() {
		var total float64
		for _, v := range mustCast(x, tensor.Float64).AsFloat64() {
			total += v
		}
		return []*tensor.RawTensor{tensor.Scalar(total)}, nil
	}
	var total int64
	for _, v := range mustCast(x, tensor.Int64).AsInt64() {
		total += v
	}
	return []*tensor.RawTensor{tensor.Scalar(total)}, nil
}

// Replicate returns n copies of x, where n is its second argument.
func Replicate(args []*tensor.RawTensor, _ tensorify.Kwargs) ([]*tensor.RawTensor, error) {
	if err := arity("replicate", args, 2); err != nil {
		return nil, err
	}
	counts := mustCast(args[1], tensor.Int64).AsInt64()
	if len(counts) != 1 || counts[0] < 0 {
		return nil, fmt.Errorf("replicate: count must be a non-negative scalar, got %v", args[1])
	}
	out := make([]*tensor.RawTensor, counts[0])
	for i := range out {
		out[i] = args[0].Clone()
	}
	return out, nil
}

func arity(name string, args []*tensor.RawTensor, want int) error {
	if len(args) != want {
		return fmt.Errorf("%s: expected %d arguments, got %d", name, want, len(args))
	}
	return nil
}

func mustCast(r *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	out, err := tensor.Cast(r, dtype)
	if err != nil {
		panic(err) // Cast only fails on invalid dtypes
	}
	return out
}

// binary applies an element-wise function, broadcasting single elements.
func binary(args []*tensor.RawTensor, name string, ints func(x, y int64) int64, floats func(x, y float64) float64) ([]*tensor.RawTensor, error) {
	if err := arity(name, args, 2); err != nil {
		return nil, err
	}
	x, y := args[0], args[1]

	shape := x.Shape()
	switch {
	case x.Shape().Equal(y.Shape()):
	case y.NumElements() == 1:
	case x.NumElements() == 1:
		shape = y.Shape()
	default:
		return nil, fmt.Errorf("%s: %w: %v vs %v", name, ErrShapeMismatch, x.Shape(), y.Shape())
	}
	n := shape.NumElements()
	at := func(k int) (int, int) {
		i, j := k, k
		if x.NumElements() == 1 {
			i = 0
		}
		if y.NumElements() == 1 {
			j = 0
		}
		return i, j
	}

	if x.DType().IsFloat() || y.DType().IsFloat() {
		xs, ys := mustCast(x, tensor.Float64).AsFloat64(), mustCast(y, tensor.Float64).AsFloat64()
		out := make([]float64, n)
		parallel.Fill(out, Workers, func(k int) float64 {
			i, j := at(k)
			return floats(xs[i], ys[j])
		})
		res, err := tensor.FromSlice(out, shape)
		return []*tensor.RawTensor{res}, err
	}

	xs, ys := mustCast(x, tensor.Int64).AsInt64(), mustCast(y, tensor.Int64).AsInt64()
	out := make([]int64, n)
	parallel.Fill(out, Workers, func(k int) int64 {
		i, j := at(k)
		return ints(xs[i], ys[j])
	})
	res, err := tensor.FromSlice(out, shape)
	return []*tensor.RawTensor{res}, err
}
