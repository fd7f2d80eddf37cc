package tensorify

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/born-ml/tensorify/internal/tensor"
	"k8s.io/klog/v2"
)

// Namespace is an explicit table of named bindings, standing in for a
// module: functions, ops, methods or any other value can be bound to a name.
type Namespace struct {
	name string

	mu       sync.RWMutex
	bindings map[string]any
}

// Binding is a named plain function found in a Namespace.
type Binding struct {
	Name string
	Func Func
}

// NewNamespace creates an empty namespace.
func NewNamespace(name string) *Namespace {
	return &Namespace{
		name:     name,
		bindings: make(map[string]any),
	}
}

// Name returns the namespace name.
func (ns *Namespace) Name() string {
	return ns.name
}

// Set binds v to name, replacing any previous binding. It returns ns for
// chaining.
func (ns *Namespace) Set(name string, v any) *Namespace {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.bindings[name] = v
	return ns
}

// Get returns the value bound to name.
func (ns *Namespace) Get(name string) (any, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	v, ok := ns.bindings[name]
	return v, ok
}

// Delete removes the binding for name, if any.
func (ns *Namespace) Delete(name string) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	delete(ns.bindings, name)
}

// Len returns the number of bindings.
func (ns *Namespace) Len() int {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return len(ns.bindings)
}

// Names returns the bound names in sorted order.
func (ns *Namespace) Names() []string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return slices.Sorted(maps.Keys(ns.bindings))
}

// Functions returns the bindings that are plain functions, sorted by name.
// Ops, methods and other values are not included.
func (ns *Namespace) Functions() []Binding {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	var out []Binding
	for _, name := range slices.Sorted(maps.Keys(ns.bindings)) {
		if fn, ok := asFunc(ns.bindings[name]); ok {
			out = append(out, Binding{Name: name, Func: fn})
		}
	}
	return out
}

// Func returns the plain function bound to name.
func (ns *Namespace) Func(name string) (Func, error) {
	v, ok := ns.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnboundName, ns.name, name)
	}
	fn, ok := asFunc(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s is %T", ErrNotFunction, ns.name, name, v)
	}
	return fn, nil
}

// Op returns the op bound to name.
func (ns *Namespace) Op(name string) (*Op, error) {
	v, ok := ns.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnboundName, ns.name, name)
	}
	op, ok := v.(*Op)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s is %T", ErrNotOp, ns.name, name, v)
	}
	return op, nil
}

// Clone returns a namespace with its own binding table. Bound values are
// shared, but rebinding a name in either namespace does not affect the other.
func (ns *Namespace) Clone() *Namespace {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return &Namespace{
		name:     ns.name,
		bindings: maps.Clone(ns.bindings),
	}
}

// Tensorify replaces every plain function in ns with an Op that declares
// outputs and otherwise uses default settings; the binding name becomes the
// op identifier. Ops, methods and other values are left alone.
//
// With inPlace set, ns itself is rewritten and returned. Otherwise ns is left
// untouched and a rewritten clone is returned.
func Tensorify(ns *Namespace, outputs []tensor.DataType, inPlace bool) *Namespace {
	target := ns
	if !inPlace {
		target = ns.Clone()
	}

	converted := 0
	for _, b := range target.Functions() {
		target.Set(b.Name, New(b.Func, WithIdentifier(b.Name), WithOutputs(outputs...)))
		converted++
	}

	klog.V(2).InfoS("Tensorified namespace", "namespace", target.name, "functions", converted, "inPlace", inPlace)
	return target
}

func asFunc(v any) (Func, bool) {
	switch fn := v.(type) {
	case Func:
		return fn, fn != nil
	case func([]*tensor.RawTensor, Kwargs) ([]*tensor.RawTensor, error):
		return fn, fn != nil
	default:
		return nil, false
	}
}
