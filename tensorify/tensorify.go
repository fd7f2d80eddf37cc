// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensorify lifts ordinary Go functions into graph operations.
//
// # Overview
//
// A Func receives concrete tensors and returns concrete tensors. Wrapping it
// with New produces an Op; calling the Op with graph tensors (or plain Go
// values, which become constants) adds a FuncOp node to a graph. The wrapped
// function runs only when a session evaluates that node.
//
//	add := tensorify.New(addFunc, tensorify.WithOutputs(tensor.Int64))
//	node, _ := add.Call(g, []any{2, 3}, tensorify.Kwargs{"extra_one": true})
//	out, _ := graph.NewSession(g).Run(ctx, node.Outputs())
//
// # Configuration
//
// An Op is immutable. WithName, WithStateful, Stateful and WithOutputs return
// modified copies, so one base op can be specialised many ways:
//
//	replicate := tensorify.New(replicateValue).
//	    WithOutputs(tensor.Int32, tensor.Int32, tensor.Int32)
//
// The default node name is the CamelCase form of the function's identifier,
// so replicate_value and replicateValue both become ReplicateValue.
//
// # Methods and state
//
// NewMethod wraps a Method, whose first call argument is a receiver that is
// handed to the function as is. Method ops are stateful unless configured
// otherwise: their nodes run again on every session run instead of reusing
// an earlier result.
//
// # Namespaces
//
// A Namespace is a table of named bindings. Tensorify converts every plain
// function in a namespace into an Op in one pass.
package tensorify

import (
	"github.com/born-ml/tensorify/internal/tensorify"
	"github.com/born-ml/tensorify/tensor"
)

// Type aliases for public API

// Func is a host function that can be lifted into a graph node.
type Func = tensorify.Func

// Method is a Func that also receives a receiver.
type Method = tensorify.Method

// Kwargs carries keyword arguments bound at call time.
type Kwargs = tensorify.Kwargs

// Config holds the settings an Op was built with.
type Config = tensorify.Config

// Option configures an Op at construction.
type Option = tensorify.Option

// Op is a host function lifted into a graph operation.
type Op = tensorify.Op

// Namespace is a table of named bindings.
type Namespace = tensorify.Namespace

// Binding is a named plain function found in a Namespace.
type Binding = tensorify.Binding

// Common errors.
var (
	ErrMissingReceiver = tensorify.ErrMissingReceiver
	ErrNotFunction     = tensorify.ErrNotFunction
	ErrNotOp           = tensorify.ErrNotOp
	ErrUnboundName     = tensorify.ErrUnboundName
)

// New wraps fn in an Op.
func New(fn Func, opts ...Option) *Op {
	return tensorify.New(fn, opts...)
}

// NewMethod wraps a method in an Op whose first call argument is the
// receiver.
func NewMethod(fn Method, opts ...Option) *Op {
	return tensorify.NewMethod(fn, opts...)
}

// WithOutputs declares the output types.
func WithOutputs(types ...tensor.DataType) Option {
	return tensorify.WithOutputs(types...)
}

// WithStateful sets whether nodes may be reused across runs.
func WithStateful(stateful bool) Option {
	return tensorify.WithStateful(stateful)
}

// WithName sets the requested node name.
func WithName(name string) Option {
	return tensorify.WithName(name)
}

// WithIdentifier overrides the identifier the default name is derived from.
func WithIdentifier(identifier string) Option {
	return tensorify.WithIdentifier(identifier)
}

// CamelCase converts a snake_case identifier to CamelCase.
func CamelCase(name string) string {
	return tensorify.CamelCase(name)
}

// NewNamespace creates an empty namespace.
func NewNamespace(name string) *Namespace {
	return tensorify.NewNamespace(name)
}

// Tensorify replaces every plain function in ns with an Op declaring outputs.
// With inPlace unset, ns is left alone and a converted clone is returned.
func Tensorify(ns *Namespace, outputs []tensor.DataType, inPlace bool) *Namespace {
	return tensorify.Tensorify(ns, outputs, inPlace)
}
