package graph

import (
	"fmt"

	"github.com/born-ml/tensorify/internal/tensor"
)

// Node is a single operation in a Graph.
type Node struct {
	graph    *Graph
	id       int
	name     string
	kind     string
	inputs   []*Tensor
	outputs  []*Tensor
	stateful bool
	callback Callback          // FuncOp only
	value    *tensor.RawTensor // Const only
}

// Name returns the node's unique name within its graph.
func (n *Node) Name() string {
	return n.name
}

// Kind returns KindConst or KindFuncOp.
func (n *Node) Kind() string {
	return n.kind
}

// ID returns the node's position in construction order.
func (n *Node) ID() int {
	return n.id
}

// Graph returns the graph that owns the node.
func (n *Node) Graph() *Graph {
	return n.graph
}

// Stateful reports whether the node must be re-executed on every run.
func (n *Node) Stateful() bool {
	return n.stateful
}

// Inputs returns the node's input tensors.
func (n *Node) Inputs() []*Tensor {
	return append([]*Tensor(nil), n.inputs...)
}

// NumOutputs returns the number of declared outputs.
func (n *Node) NumOutputs() int {
	return len(n.outputs)
}

// Output returns the i-th output tensor. Panics if i is out of range.
func (n *Node) Output(i int) *Tensor {
	return n.outputs[i]
}

// Outputs returns all output tensors in declaration order.
func (n *Node) Outputs() []*Tensor {
	return append([]*Tensor(nil), n.outputs...)
}

// OutputTypes returns the declared output types.
func (n *Node) OutputTypes() []tensor.DataType {
	types := make([]tensor.DataType, len(n.outputs))
	for i, out := range n.outputs {
		types[i] = out.dtype
	}
	return types
}

// String returns the node name and kind.
func (n *Node) String() string {
	return fmt.Sprintf("%s(%s)", n.name, n.kind)
}

// Tensor is a symbolic handle to one output of a node. Its value is only
// known once a Session evaluates it.
type Tensor struct {
	node  *Node
	index int
	dtype tensor.DataType
}

// Node returns the producing node.
func (t *Tensor) Node() *Node {
	return t.node
}

// Index returns the output position within the producing node.
func (t *Tensor) Index() int {
	return t.index
}

// DType returns the declared data type.
func (t *Tensor) DType() tensor.DataType {
	return t.dtype
}

// Name returns node:index.
func (t *Tensor) Name() string {
	return fmt.Sprintf("%s:%d", t.node.name, t.index)
}

// String implements fmt.Stringer.
func (t *Tensor) String() string {
	return fmt.Sprintf("%s %s", t.Name(), t.dtype)
}
