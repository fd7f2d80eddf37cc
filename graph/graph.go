// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph provides the deferred-execution graph that tensorified ops
// are added to.
//
// Building a graph only records nodes. A Session evaluates fetched tensors,
// calling back into host functions as needed:
//
//	g := graph.New()
//	x, _ := g.Constant(int64(2))
//	node, _ := g.FuncOp(graph.FuncOpSpec{
//	    Callback: double,
//	    Inputs:   []*graph.Tensor{x},
//	    Outputs:  []tensor.DataType{tensor.Int64},
//	})
//	out, _ := graph.NewSession(g).Run(ctx, node.Outputs())
//
// Results of stateless nodes are kept by the session and reused by later
// runs. Stateful nodes, and every node that depends on one, execute on
// every run.
package graph

import (
	"github.com/born-ml/tensorify/internal/graph"
)

// Type aliases for public API

// Graph is a container of nodes in construction order.
type Graph = graph.Graph

// Node is a single operation of a Graph.
type Node = graph.Node

// Tensor is a symbolic handle to one output of a Node.
type Tensor = graph.Tensor

// Session evaluates the tensors of one graph.
type Session = graph.Session

// Callback is the host function executed by a FuncOp node.
type Callback = graph.Callback

// FuncOpSpec describes a host-callback node.
type FuncOpSpec = graph.FuncOpSpec

// ExecError reports a failure raised by a node's callback.
type ExecError = graph.ExecError

// Node kinds.
const (
	KindConst  = graph.KindConst
	KindFuncOp = graph.KindFuncOp
)

// Common errors.
var (
	ErrInvalidName    = graph.ErrInvalidName
	ErrForeignTensor  = graph.ErrForeignTensor
	ErrNilCallback    = graph.ErrNilCallback
	ErrOutputArity    = graph.ErrOutputArity
	ErrNilResult      = graph.ErrNilResult
	ErrUnknownNode    = graph.ErrUnknownNode
	ErrInvalidOutputs = graph.ErrInvalidOutputs
)

// New creates an empty graph.
func New() *Graph {
	return graph.New()
}

// NewSession creates a session over g.
func NewSession(g *Graph) *Session {
	return graph.NewSession(g)
}

// ValidateName reports whether name is acceptable as a node name.
func ValidateName(name string) error {
	return graph.ValidateName(name)
}
