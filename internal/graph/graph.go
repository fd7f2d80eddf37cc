// Package graph implements a small deferred-execution tensor graph whose
// nodes are either constants or host callbacks.
//
// Graph construction only records nodes; nothing runs until a Session
// evaluates fetched tensors. Evaluation is sequential on the calling
// goroutine.
package graph

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/born-ml/tensorify/internal/tensor"
	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

// Node kinds.
const (
	KindConst  = "Const"
	KindFuncOp = "FuncOp"
)

var validName = regexp.MustCompile(`^[A-Za-z0-9.][A-Za-z0-9_.\-/]*$`)

// Callback is the host function executed by a FuncOp node. It receives the
// concrete values of the node's inputs, in order, and returns one value per
// declared output.
type Callback func(args []*tensor.RawTensor) ([]*tensor.RawTensor, error)

// FuncOpSpec describes a host-callback node.
type FuncOpSpec struct {
	Name     string            // Requested name; uniquified within the graph. Empty means KindFuncOp.
	Callback Callback          // Host function to run.
	Inputs   []*Tensor         // Tensor inputs, passed to Callback in order.
	Outputs  []tensor.DataType // Declared output types; results are cast to these.
	Stateful bool              // Stateful nodes are never reused across runs.
}

// Graph is a container of nodes. Nodes are appended in construction order,
// so every node's inputs precede it.
type Graph struct {
	mu     sync.Mutex
	id     uuid.UUID
	nodes  []*Node
	byName map[string]*Node
	counts map[string]int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		id:     uuid.New(),
		byName: make(map[string]*Node),
		counts: make(map[string]int),
	}
}

// ID returns the graph's unique identifier.
func (g *Graph) ID() uuid.UUID {
	return g.id
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

// Nodes returns the graph's nodes in construction order.
func (g *Graph) Nodes() []*Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Node(nil), g.nodes...)
}

// Node looks up a node by its (uniquified) name.
func (g *Graph) Node(name string) (*Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.byName[name]
	return n, ok
}

// Const adds a node that always produces value.
func (g *Graph) Const(value *tensor.RawTensor) *Tensor {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := &Node{
		graph: g,
		kind:  KindConst,
		value: value,
	}
	n.outputs = []*Tensor{{node: n, index: 0, dtype: value.DType()}}
	g.add(n, KindConst)
	return n.outputs[0]
}

// Constant converts v with tensor.FromValue and adds it as a constant.
func (g *Graph) Constant(v any) (*Tensor, error) {
	value, err := tensor.FromValue(v)
	if err != nil {
		return nil, err
	}
	return g.Const(value), nil
}

// FuncOp adds a node that runs spec.Callback when evaluated.
//
// The returned node has one output tensor per declared output type. A node
// with no declared outputs can still be run as a Session target.
func (g *Graph) FuncOp(spec FuncOpSpec) (*Node, error) {
	if spec.Callback == nil {
		return nil, ErrNilCallback
	}
	base := spec.Name
	if base == "" {
		base = KindFuncOp
	}
	if err := ValidateName(base); err != nil {
		return nil, err
	}
	for i, in := range spec.Inputs {
		if in == nil || in.node.graph != g {
			return nil, fmt.Errorf("%w: input %d of %q", ErrForeignTensor, i, base)
		}
	}
	for i, dt := range spec.Outputs {
		if !dt.Valid() {
			return nil, fmt.Errorf("%w: output %d of %q", ErrInvalidOutputs, i, base)
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	n := &Node{
		graph:    g,
		kind:     KindFuncOp,
		inputs:   append([]*Tensor(nil), spec.Inputs...),
		stateful: spec.Stateful,
		callback: spec.Callback,
	}
	n.outputs = make([]*Tensor, len(spec.Outputs))
	for i, dt := range spec.Outputs {
		n.outputs[i] = &Tensor{node: n, index: i, dtype: dt}
	}
	g.add(n, base)

	klog.V(2).InfoS("Added func op", "graph", g.id, "node", n.name,
		"inputs", len(n.inputs), "outputs", len(n.outputs), "stateful", n.stateful)
	return n, nil
}

// ValidateName checks that name can be used as a node name.
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// add registers n under a unique name derived from base. Caller holds g.mu.
func (g *Graph) add(n *Node, base string) {
	n.id = len(g.nodes)
	n.name = g.uniqueName(base)
	g.nodes = append(g.nodes, n)
	g.byName[n.name] = n
}

// uniqueName returns base, or base_N for the first free N. Caller holds g.mu.
func (g *Graph) uniqueName(base string) string {
	for i := g.counts[base]; ; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s_%d", base, i)
		}
		if _, taken := g.byName[name]; !taken {
			g.counts[base] = i + 1
			return name
		}
	}
}
