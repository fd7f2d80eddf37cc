package graph

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidName    = errors.New("invalid node name")
	ErrForeignTensor  = errors.New("tensor belongs to a different graph")
	ErrNilCallback    = errors.New("func op has no callback")
	ErrOutputArity    = errors.New("callback returned wrong number of results")
	ErrNilResult      = errors.New("callback returned a nil tensor")
	ErrUnknownNode    = errors.New("node not found")
	ErrInvalidOutputs = errors.New("invalid output type")
)

// ExecError reports a failure raised while executing a node's callback.
type ExecError struct {
	Node string // Name of the failing node
	Err  error  // Underlying failure
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	return fmt.Sprintf("executing node %q: %v", e.Node, e.Err)
}

// Unwrap returns the underlying failure.
func (e *ExecError) Unwrap() error {
	return e.Err
}
