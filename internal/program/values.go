package program

import (
	"fmt"
	"math/big"

	"github.com/born-ml/tensorify/internal/tensorify"
	"github.com/zclconf/go-cty/cty"
)

// ref is a string argument naming an earlier op output.
type ref string

// argsFromCty converts the args attribute into call arguments. Numbers
// become int64 or float64, lists become typed slices (up to two levels),
// and strings become refs.
func argsFromCty(val cty.Value) ([]any, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsTupleType() && !val.Type().IsListType() {
		return nil, fmt.Errorf("%w: args must be a list, got %s", ErrUnsupported, val.Type().FriendlyName())
	}
	var out []any
	for it := val.ElementIterator(); it.Next(); {
		_, v := it.Element()
		arg, err := valueFromCty(v)
		if err != nil {
			return nil, err
		}
		out = append(out, arg)
	}
	return out, nil
}

// kwargsFromCty converts the kwargs attribute. Strings stay strings.
func kwargsFromCty(val cty.Value) (tensorify.Kwargs, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("%w: kwargs must be an object, got %s", ErrUnsupported, val.Type().FriendlyName())
	}
	kw := make(tensorify.Kwargs)
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		if v.IsKnown() && !v.IsNull() && v.Type() == cty.String {
			kw[k.AsString()] = v.AsString()
			continue
		}
		x, err := valueFromCty(v)
		if err != nil {
			return nil, fmt.Errorf("kwarg %s: %w", k.AsString(), err)
		}
		kw[k.AsString()] = x
	}
	return kw, nil
}

func valueFromCty(v cty.Value) (any, error) {
	if !v.IsKnown() || v.IsNull() {
		return nil, fmt.Errorf("%w: null or unknown value", ErrUnsupported)
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return ref(v.AsString()), nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty == cty.Number:
		return number(v), nil
	case ty.IsTupleType() || ty.IsListType():
		var items []any
		for it := v.ElementIterator(); it.Next(); {
			_, e := it.Element()
			x, err := valueFromCty(e)
			if err != nil {
				return nil, err
			}
			if _, isRef := x.(ref); isRef {
				return nil, fmt.Errorf("%w: strings inside lists", ErrUnsupported)
			}
			items = append(items, x)
		}
		return pack(items)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, ty.FriendlyName())
	}
}

// number returns an int64 for integral values and a float64 otherwise.
func number(v cty.Value) any {
	bf := v.AsBigFloat()
	if bf.IsInt() {
		if i, acc := bf.Int64(); acc == big.Exact {
			return i
		}
	}
	f, _ := bf.Float64()
	return f
}

// pack turns a list of converted elements into a typed slice.
func pack(items []any) (any, error) {
	if len(items) == 0 {
		return []int64{}, nil
	}

	switch items[0].(type) {
	case bool:
		out := make([]bool, len(items))
		for i, it := range items {
			b, ok := it.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: mixed list element %T", ErrUnsupported, it)
			}
			out[i] = b
		}
		return out, nil

	case int64, float64:
		ints := make([]int64, len(items))
		floats := make([]float64, len(items))
		allInts := true
		for i, it := range items {
			switch n := it.(type) {
			case int64:
				ints[i], floats[i] = n, float64(n)
			case float64:
				floats[i] = n
				allInts = false
			default:
				return nil, fmt.Errorf("%w: mixed list element %T", ErrUnsupported, it)
			}
		}
		if allInts {
			return ints, nil
		}
		return floats, nil

	case []int64, []float64:
		return packRows(items)

	default:
		return nil, fmt.Errorf("%w: lists nested deeper than two levels", ErrUnsupported)
	}
}

func packRows(items []any) (any, error) {
	width := -1
	anyFloat := false
	for _, it := range items {
		var n int
		switch row := it.(type) {
		case []int64:
			n = len(row)
		case []float64:
			n = len(row)
			anyFloat = true
		default:
			return nil, fmt.Errorf("%w: mixed list element %T", ErrUnsupported, it)
		}
		if width >= 0 && n != width {
			return nil, fmt.Errorf("%w: rows of length %d and %d", ErrUnsupported, width, n)
		}
		width = n
	}

	if !anyFloat {
		out := make([][]int64, len(items))
		for i, it := range items {
			out[i] = it.([]int64)
		}
		return out, nil
	}
	out := make([][]float64, len(items))
	for i, it := range items {
		switch row := it.(type) {
		case []int64:
			out[i] = make([]float64, len(row))
			for j, v := range row {
				out[i][j] = float64(v)
			}
		case []float64:
			out[i] = row
		}
	}
	return out, nil
}
