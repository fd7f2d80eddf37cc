package graph

import (
	"testing"

	"github.com/born-ml/tensorify/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(args []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	return args, nil
}

func TestGraph_UniqueNames(t *testing.T) {
	g := New()

	names := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		n, err := g.FuncOp(FuncOpSpec{Name: "Add", Callback: identity})
		require.NoError(t, err)
		names = append(names, n.Name())
	}
	assert.Equal(t, []string{"Add", "Add_1", "Add_2"}, names)

	// An explicit name that collides with a generated one is skipped over.
	n, err := g.FuncOp(FuncOpSpec{Name: "Mul_1", Callback: identity})
	require.NoError(t, err)
	assert.Equal(t, "Mul_1", n.Name())

	n, err = g.FuncOp(FuncOpSpec{Name: "Mul", Callback: identity})
	require.NoError(t, err)
	assert.Equal(t, "Mul", n.Name())

	n, err = g.FuncOp(FuncOpSpec{Name: "Mul", Callback: identity})
	require.NoError(t, err)
	assert.Equal(t, "Mul_2", n.Name())

	got, ok := g.Node("Add_1")
	require.True(t, ok)
	assert.Equal(t, "Add_1", got.Name())
	assert.Equal(t, 6, g.Len())
}

func TestGraph_DefaultName(t *testing.T) {
	g := New()

	n, err := g.FuncOp(FuncOpSpec{Callback: identity})
	require.NoError(t, err)
	assert.Equal(t, KindFuncOp, n.Name())
	assert.Equal(t, KindFuncOp, n.Kind())
}

func TestGraph_InvalidSpecs(t *testing.T) {
	g := New()

	_, err := g.FuncOp(FuncOpSpec{Name: "bad name", Callback: identity})
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = g.FuncOp(FuncOpSpec{Name: "_leading", Callback: identity})
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = g.FuncOp(FuncOpSpec{Name: "NoCallback"})
	assert.ErrorIs(t, err, ErrNilCallback)

	other := New()
	foreign := other.Const(tensor.Scalar(int64(1)))
	_, err = g.FuncOp(FuncOpSpec{Name: "Foreign", Callback: identity, Inputs: []*Tensor{foreign}})
	assert.ErrorIs(t, err, ErrForeignTensor)

	_, err = g.FuncOp(FuncOpSpec{Callback: identity, Outputs: []tensor.DataType{tensor.DataType(42)}})
	assert.ErrorIs(t, err, ErrInvalidOutputs)

	assert.Zero(t, g.Len(), "rejected specs must not add nodes")
}

func TestGraph_Outputs(t *testing.T) {
	g := New()
	x, err := g.Constant(2)
	require.NoError(t, err)
	assert.Equal(t, "Const:0", x.Name())
	assert.Equal(t, tensor.Int64, x.DType())

	n, err := g.FuncOp(FuncOpSpec{
		Name:     "Split",
		Callback: identity,
		Inputs:   []*Tensor{x},
		Outputs:  []tensor.DataType{tensor.Int32, tensor.Float64},
	})
	require.NoError(t, err)

	require.Equal(t, 2, n.NumOutputs())
	assert.Equal(t, []tensor.DataType{tensor.Int32, tensor.Float64}, n.OutputTypes())
	assert.Equal(t, "Split:1", n.Output(1).Name())
	assert.Same(t, n, n.Output(0).Node())
	assert.Equal(t, []*Tensor{x}, n.Inputs())
	assert.Len(t, g.Nodes(), 2)
}

func TestGraph_ConstantRejectsUnsupportedValues(t *testing.T) {
	g := New()
	_, err := g.Constant("nope")
	assert.ErrorIs(t, err, tensor.ErrUnsupportedValue)
}
