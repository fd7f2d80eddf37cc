package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/born-ml/tensorify/internal/tensor"
	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

// Session evaluates tensors of a Graph.
//
// Within one Run every node executes at most once. Results of stateless
// nodes that depend only on stateless nodes are kept and reused by later
// runs; stateful nodes, and everything downstream of them, execute again on
// every Run.
type Session struct {
	graph *Graph

	mu    sync.Mutex
	cache map[*Node][]*tensor.RawTensor
}

// NewSession creates a session for g.
func NewSession(g *Graph) *Session {
	return &Session{
		graph: g,
		cache: make(map[*Node][]*tensor.RawTensor),
	}
}

// Graph returns the session's graph.
func (s *Session) Graph() *Graph {
	return s.graph
}

// Run evaluates fetches and returns their values in order, then executes
// targets for their side effects. Returned values are copies owned by the
// caller.
func (s *Session) Run(ctx context.Context, fetches []*Tensor, targets ...*Node) ([]*tensor.RawTensor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range fetches {
		if f == nil || f.node.graph != s.graph {
			return nil, fmt.Errorf("%w: fetch %d", ErrForeignTensor, i)
		}
	}
	for i, n := range targets {
		if n == nil || n.graph != s.graph {
			return nil, fmt.Errorf("%w: target %d", ErrForeignTensor, i)
		}
	}

	r := &run{
		ctx:      ctx,
		log:      klog.FromContext(ctx).WithValues("graph", s.graph.id, "run", uuid.New()),
		session:  s,
		values:   make(map[*Node][]*tensor.RawTensor),
		volatile: make(map[*Node]bool),
	}
	r.log.V(2).Info("Starting run", "fetches", len(fetches), "targets", len(targets))

	results := make([]*tensor.RawTensor, len(fetches))
	for i, f := range fetches {
		values, err := r.eval(f.node)
		if err != nil {
			return nil, err
		}
		results[i] = values[f.index].Clone()
	}
	for _, n := range targets {
		if _, err := r.eval(n); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Reset drops every reused result so the next Run recomputes all nodes.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[*Node][]*tensor.RawTensor)
}

// run holds the state of a single Session.Run.
type run struct {
	ctx      context.Context
	log      klog.Logger
	session  *Session
	values   map[*Node][]*tensor.RawTensor
	volatile map[*Node]bool
}

func (r *run) eval(n *Node) ([]*tensor.RawTensor, error) {
	if values, ok := r.values[n]; ok {
		return values, nil
	}
	if values, ok := r.session.cache[n]; ok {
		r.log.V(3).Info("Reusing result", "node", n.name)
		r.values[n] = values
		return values, nil
	}

	args := make([]*tensor.RawTensor, len(n.inputs))
	volatile := n.stateful
	for i, in := range n.inputs {
		values, err := r.eval(in.node)
		if err != nil {
			return nil, err
		}
		args[i] = values[in.index]
		volatile = volatile || r.volatile[in.node]
	}

	if err := r.ctx.Err(); err != nil {
		return nil, err
	}

	values, err := r.execute(n, args)
	if err != nil {
		return nil, err
	}
	r.values[n] = values
	r.volatile[n] = volatile
	if !volatile {
		r.session.cache[n] = values
	}
	return values, nil
}

func (r *run) execute(n *Node, args []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if n.kind == KindConst {
		return []*tensor.RawTensor{n.value}, nil
	}

	r.log.V(2).Info("Executing node", "node", n.name, "stateful", n.stateful)

	// Callbacks own their arguments, so they never see shared buffers.
	owned := make([]*tensor.RawTensor, len(args))
	for i, a := range args {
		owned[i] = a.Clone()
	}
	results, err := invoke(n.callback, owned)
	if err != nil {
		return nil, &ExecError{Node: n.name, Err: err}
	}

	if len(n.outputs) == 0 {
		return nil, nil
	}
	if len(results) != len(n.outputs) {
		return nil, &ExecError{
			Node: n.name,
			Err:  fmt.Errorf("%w: got %d, want %d", ErrOutputArity, len(results), len(n.outputs)),
		}
	}
	values := make([]*tensor.RawTensor, len(results))
	for i, res := range results {
		if res == nil {
			return nil, &ExecError{Node: n.name, Err: fmt.Errorf("%w: output %d", ErrNilResult, i)}
		}
		cast, err := tensor.Cast(res, n.outputs[i].dtype)
		if err != nil {
			return nil, &ExecError{Node: n.name, Err: err}
		}
		values[i] = cast
	}
	return values, nil
}

// invoke calls cb, turning a panic into an error.
func invoke(cb Callback, args []*tensor.RawTensor) (results []*tensor.RawTensor, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("callback panicked: %v", p)
		}
	}()
	return cb(args)
}
