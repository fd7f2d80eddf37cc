// Package tensorify lifts host functions into graph nodes.
//
// An Op wraps a Func (or a Method) together with an immutable Config. Calling
// the Op with tensor arguments adds one FuncOp node to a graph; when a
// session evaluates that node, the graph calls back into the wrapped function
// with concrete values.
package tensorify

import (
	"fmt"
	"reflect"
	"runtime"
	"slices"
	"strings"

	"github.com/born-ml/tensorify/internal/graph"
	"github.com/born-ml/tensorify/internal/tensor"
	"k8s.io/klog/v2"
)

// Func is a host function that can be lifted into a graph node. Positional
// arguments arrive as concrete tensors; kw carries the keyword arguments
// bound at call time. It returns one tensor per declared output.
type Func func(args []*tensor.RawTensor, kw Kwargs) ([]*tensor.RawTensor, error)

// Method is a Func that also receives the receiver passed as the first
// argument of every call. The receiver stays in the callback closure and is
// never converted to a tensor.
type Method func(recv any, args []*tensor.RawTensor, kw Kwargs) ([]*tensor.RawTensor, error)

// Config holds the settings an Op was built with.
type Config struct {
	Outputs  []tensor.DataType // Declared output types, in order. Empty means no outputs.
	Stateful *bool             // nil resolves to IsMethod.
	Name     string            // Empty resolves to CamelCase(identifier).
	IsMethod bool              // Set by NewMethod.
}

// clone returns a copy that shares no memory with c.
func (c Config) clone() Config {
	out := c
	out.Outputs = make([]tensor.DataType, len(c.Outputs))
	copy(out.Outputs, c.Outputs)
	if c.Stateful != nil {
		v := *c.Stateful
		out.Stateful = &v
	}
	return out
}

// Option configures an Op at construction.
type Option func(*Op)

// WithOutputs declares the output types.
func WithOutputs(types ...tensor.DataType) Option {
	return func(o *Op) {
		o.cfg.Outputs = slices.Clone(types)
	}
}

// WithStateful overrides the default statefulness.
func WithStateful(stateful bool) Option {
	return func(o *Op) {
		o.cfg.Stateful = &stateful
	}
}

// WithName sets an explicit node name.
func WithName(name string) Option {
	return func(o *Op) {
		o.cfg.Name = name
	}
}

// WithIdentifier overrides the identifier used to derive the default name.
func WithIdentifier(identifier string) Option {
	return func(o *Op) {
		o.identifier = identifier
	}
}

// Op is a host function lifted into a graph operation. It is immutable: the
// With* methods return new Ops and leave the receiver untouched.
type Op struct {
	cfg        Config
	identifier string
	fn         Func
	method     Method
}

// New wraps fn. The default node name is derived from fn's symbol name, so
// New(replicateValue) produces nodes named "ReplicateValue".
func New(fn Func, opts ...Option) *Op {
	if fn == nil {
		panic("tensorify: nil function")
	}
	return build(&Op{fn: fn, identifier: funcIdentifier(fn)}, opts)
}

// NewMethod wraps a method. The first argument of every call is the
// receiver. Unless overridden, method ops are stateful: repeated evaluations
// may observe and change receiver state, so their results are never reused.
func NewMethod(fn Method, opts ...Option) *Op {
	if fn == nil {
		panic("tensorify: nil method")
	}
	op := &Op{method: fn, identifier: funcIdentifier(fn)}
	op.cfg.IsMethod = true
	return build(op, opts)
}

func build(op *Op, opts []Option) *Op {
	for _, opt := range opts {
		opt(op)
	}
	op.cfg = op.cfg.clone()
	return op
}

// with rebuilds the op with one change applied to a copy of its config.
func (o *Op) with(update func(*Config)) *Op {
	cfg := o.cfg.clone()
	update(&cfg)
	return &Op{
		cfg:        cfg.clone(),
		identifier: o.identifier,
		fn:         o.fn,
		method:     o.method,
	}
}

// WithName returns a copy of the op that names its nodes name.
func (o *Op) WithName(name string) *Op {
	return o.with(func(c *Config) { c.Name = name })
}

// WithStateful returns a copy of the op with the given statefulness.
func (o *Op) WithStateful(stateful bool) *Op {
	return o.with(func(c *Config) { c.Stateful = &stateful })
}

// Stateful returns a stateful copy of the op.
func (o *Op) Stateful() *Op {
	return o.WithStateful(true)
}

// WithOutputs returns a copy of the op with new output types.
func (o *Op) WithOutputs(types ...tensor.DataType) *Op {
	return o.with(func(c *Config) { c.Outputs = slices.Clone(types) })
}

// Name returns the node name used by Call: the explicit name if one was set,
// otherwise the CamelCased identifier.
func (o *Op) Name() string {
	if o.cfg.Name != "" {
		return o.cfg.Name
	}
	return CamelCase(o.identifier)
}

// Identifier returns the identifier the default name is derived from.
func (o *Op) Identifier() string {
	return o.identifier
}

// IsStateful reports the resolved statefulness.
func (o *Op) IsStateful() bool {
	if o.cfg.Stateful != nil {
		return *o.cfg.Stateful
	}
	return o.cfg.IsMethod
}

// IsMethod reports whether the op was built with NewMethod.
func (o *Op) IsMethod() bool {
	return o.cfg.IsMethod
}

// Outputs returns a copy of the declared output types.
func (o *Op) Outputs() []tensor.DataType {
	return slices.Clone(o.cfg.Outputs)
}

// Config returns a copy of the op's configuration.
func (o *Op) Config() Config {
	return o.cfg.clone()
}

// String implements fmt.Stringer.
func (o *Op) String() string {
	return fmt.Sprintf("Op(%s outputs=%v stateful=%t)", o.Name(), o.cfg.Outputs, o.IsStateful())
}

// Call adds one FuncOp node to g and returns it.
//
// Each arg is either a *graph.Tensor of g or a value accepted by
// tensor.FromValue, which is added to g as a constant. For method ops the
// first arg is the receiver instead. kw is copied and bound into the node's
// callback, so later changes to kw do not affect the node.
//
// Nothing is executed here. Errors returned by the wrapped function surface
// from graph.Session.Run.
func (o *Op) Call(g *graph.Graph, args []any, kw Kwargs) (*graph.Node, error) {
	name := o.Name()
	if name != "" {
		if err := graph.ValidateName(name); err != nil {
			return nil, err
		}
	}

	cb, args, err := o.bind(args, kw)
	if err != nil {
		return nil, err
	}

	inputs := make([]*graph.Tensor, len(args))
	for i, arg := range args {
		if t, ok := arg.(*graph.Tensor); ok {
			inputs[i] = t
			continue
		}
		t, err := g.Constant(arg)
		if err != nil {
			return nil, fmt.Errorf("op %s: argument %d: %w", name, i, err)
		}
		inputs[i] = t
	}

	node, err := g.FuncOp(graph.FuncOpSpec{
		Name:     name,
		Callback: cb,
		Inputs:   inputs,
		Outputs:  o.cfg.Outputs,
		Stateful: o.IsStateful(),
	})
	if err != nil {
		return nil, fmt.Errorf("op %s: %w", name, err)
	}

	klog.V(4).InfoS("Called op", "op", name, "node", node.Name(), "method", o.cfg.IsMethod)
	return node, nil
}

// Apply is Call without keyword arguments.
func (o *Op) Apply(g *graph.Graph, args ...any) (*graph.Node, error) {
	return o.Call(g, args, nil)
}

// Invoke runs the wrapped function directly, without a graph. Arguments are
// converted with tensor.FromValue (after the receiver, for method ops).
func (o *Op) Invoke(args []any, kw Kwargs) ([]*tensor.RawTensor, error) {
	cb, args, err := o.bind(args, kw)
	if err != nil {
		return nil, err
	}
	values := make([]*tensor.RawTensor, len(args))
	for i, arg := range args {
		v, err := tensor.FromValue(arg)
		if err != nil {
			return nil, fmt.Errorf("op %s: argument %d: %w", o.Name(), i, err)
		}
		values[i] = v
	}
	return cb(values)
}

// bind builds the partial application for one call and returns it together
// with the remaining tensor arguments.
func (o *Op) bind(args []any, kw Kwargs) (graph.Callback, []any, error) {
	bound := kw.Clone()
	if !o.cfg.IsMethod {
		fn := o.fn
		return func(in []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
			return fn(in, bound)
		}, args, nil
	}

	if len(args) == 0 {
		return nil, nil, fmt.Errorf("%w: op %s: index 0 out of range with length 0", ErrMissingReceiver, o.Name())
	}
	recv, method := args[0], o.method
	return func(in []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
		return method(recv, in, bound)
	}, args[1:], nil
}

// funcIdentifier returns the unqualified symbol name of fn, e.g. "add" for
// pkg.add or "Accumulate" for the method value (*pkg.T).Accumulate.
func funcIdentifier(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	name := strings.TrimSuffix(f.Name(), "-fm")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
