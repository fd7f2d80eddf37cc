package program

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/tensorify/internal/graph"
	"github.com/born-ml/tensorify/internal/tensor"
	"github.com/born-ml/tensorify/internal/tensorify"
	"k8s.io/klog/v2"
)

// Options controls how a program is built.
type Options struct {
	// DefaultOutputs is declared by functions and methods that are still
	// plain in the namespace. Op bindings keep their own outputs unless the
	// block overrides them.
	DefaultOutputs []tensor.DataType

	// NewReceiver creates the receiver named by a block's receiver
	// attribute. Each name is created once per Build and shared by all
	// blocks that mention it.
	NewReceiver func(name string) (any, error)
}

// Plan is a built program.
type Plan struct {
	Graph      *graph.Graph
	Fetches    []*graph.Tensor
	FetchNames []string
	Targets    []*graph.Node // Ops without outputs, run for their effects
	Runs       int
	Receivers  map[string]any
}

// builder carries the state of one Build.
type builder struct {
	ns        *tensorify.Namespace
	opts      Options
	g         *graph.Graph
	nodes     map[string]*graph.Node
	receivers map[string]any
}

// Build adds one node per op block to a new graph.
func Build(f *File, ns *tensorify.Namespace, opts Options) (*Plan, error) {
	b := &builder{
		ns:        ns,
		opts:      opts,
		g:         graph.New(),
		nodes:     make(map[string]*graph.Node),
		receivers: make(map[string]any),
	}

	plan := &Plan{Graph: b.g, Runs: f.Runs, Receivers: b.receivers}
	if plan.Runs == 0 {
		plan.Runs = 1
	}

	for _, blk := range f.Ops {
		node, err := b.addOp(blk)
		if err != nil {
			return nil, fmt.Errorf("op %q: %w", blk.ID, err)
		}
		if node.NumOutputs() == 0 {
			plan.Targets = append(plan.Targets, node)
		}
	}

	fetch := f.Fetch
	if len(fetch) == 0 {
		for _, blk := range f.Ops {
			fetch = append(fetch, blk.ID)
		}
	}
	for _, name := range fetch {
		tensors, err := b.resolve(name, true)
		if err != nil {
			return nil, fmt.Errorf("fetch %q: %w", name, err)
		}
		for _, t := range tensors {
			plan.Fetches = append(plan.Fetches, t)
			plan.FetchNames = append(plan.FetchNames, fmt.Sprintf("%s:%d", name[:labelEnd(name)], t.Index()))
		}
	}

	klog.V(1).InfoS("Built program", "graph", b.g.ID(), "nodes", b.g.Len(), "fetches", len(plan.Fetches))
	return plan, nil
}

// Run executes the plan Runs times in sess and returns the fetched values of
// every run.
func (p *Plan) Run(ctx context.Context, sess *graph.Session) ([][]*tensor.RawTensor, error) {
	results := make([][]*tensor.RawTensor, 0, p.Runs)
	for i := 0; i < p.Runs; i++ {
		out, err := sess.Run(ctx, p.Fetches, p.Targets...)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		results = append(results, out)
	}
	return results, nil
}

func (b *builder) addOp(blk *OpBlock) (*graph.Node, error) {
	if _, dup := b.nodes[blk.ID]; dup {
		return nil, ErrDuplicateOp
	}

	op, err := b.lookup(blk.Function)
	if err != nil {
		return nil, err
	}
	if len(blk.Outputs) > 0 {
		types := make([]tensor.DataType, len(blk.Outputs))
		for i, s := range blk.Outputs {
			if types[i], err = tensor.ParseDataType(s); err != nil {
				return nil, err
			}
		}
		op = op.WithOutputs(types...)
	}
	if blk.Name != "" {
		op = op.WithName(blk.Name)
	}
	if blk.Stateful != nil {
		op = op.WithStateful(*blk.Stateful)
	}

	raw, err := argsFromCty(blk.Args)
	if err != nil {
		return nil, err
	}
	args := make([]any, 0, len(raw)+1)
	switch {
	case op.IsMethod():
		if blk.Receiver == "" {
			return nil, fmt.Errorf("%w: %s is a method and needs a receiver", ErrReceiver, blk.Function)
		}
		recv, err := b.receiver(blk.Receiver)
		if err != nil {
			return nil, err
		}
		args = append(args, recv)
	case blk.Receiver != "":
		return nil, fmt.Errorf("%w: %s is not a method", ErrReceiver, blk.Function)
	}
	for _, a := range raw {
		if r, ok := a.(ref); ok {
			tensors, err := b.resolve(string(r), false)
			if err != nil {
				return nil, err
			}
			args = append(args, tensors[0])
			continue
		}
		args = append(args, a)
	}

	kw, err := kwargsFromCty(blk.Kwargs)
	if err != nil {
		return nil, err
	}

	node, err := op.Call(b.g, args, kw)
	if err != nil {
		return nil, err
	}
	b.nodes[blk.ID] = node
	return node, nil
}

// lookup returns the op for a namespace binding, lifting plain functions and
// methods with the default outputs.
func (b *builder) lookup(name string) (*tensorify.Op, error) {
	v, ok := b.ns.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", tensorify.ErrUnboundName, name)
	}
	switch fn := v.(type) {
	case *tensorify.Op:
		return fn, nil
	case tensorify.Method:
		return tensorify.NewMethod(fn, tensorify.WithIdentifier(name), tensorify.WithOutputs(b.opts.DefaultOutputs...)), nil
	}
	fn, err := b.ns.Func(name)
	if err != nil {
		return nil, err
	}
	return tensorify.New(fn, tensorify.WithIdentifier(name), tensorify.WithOutputs(b.opts.DefaultOutputs...)), nil
}

func (b *builder) receiver(name string) (any, error) {
	if recv, ok := b.receivers[name]; ok {
		return recv, nil
	}
	if b.opts.NewReceiver == nil {
		return nil, fmt.Errorf("%w: no receiver factory for %q", ErrReceiver, name)
	}
	recv, err := b.opts.NewReceiver(name)
	if err != nil {
		return nil, fmt.Errorf("receiver %q: %w", name, err)
	}
	b.receivers[name] = recv
	return recv, nil
}

// resolve looks up "id" or "id:index". A bare id names the single output of
// an op, or all of its outputs when all is set.
func (b *builder) resolve(name string, all bool) ([]*graph.Tensor, error) {
	end := labelEnd(name)
	node, ok := b.nodes[name[:end]]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRef, name[:end])
	}

	if end < len(name) {
		idx, err := strconv.Atoi(name[end+1:])
		if err != nil || idx < 0 || idx >= node.NumOutputs() {
			return nil, fmt.Errorf("%w: %s has %d outputs", ErrUnknownRef, name, node.NumOutputs())
		}
		return []*graph.Tensor{node.Output(idx)}, nil
	}
	if all || node.NumOutputs() == 1 {
		return node.Outputs(), nil
	}
	return nil, fmt.Errorf("%w: %s has %d outputs", ErrAmbiguousRef, name, node.NumOutputs())
}

// labelEnd returns the length of the op id part of "id" or "id:index".
func labelEnd(name string) int {
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		return i
	}
	return len(name)
}
