package builtin

import (
	"fmt"
	"sync"

	"github.com/born-ml/tensorify/internal/tensor"
	"github.com/born-ml/tensorify/internal/tensorify"
)

// Accumulator keeps a running int64 total across op executions.
type Accumulator struct {
	mu    sync.Mutex
	state int64
}

// State returns the current total.
func (a *Accumulator) State() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Add adds every element of x to the total and returns the new total.
func (a *Accumulator) Add(x *tensor.RawTensor) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, v := range mustCast(x, tensor.Int64).AsInt64() {
		a.state += v
	}
	return a.state
}

// Accumulate is the method form of Accumulator.Add. The receiver must be an
// *Accumulator.
func Accumulate(recv any, args []*tensor.RawTensor, _ tensorify.Kwargs) ([]*tensor.RawTensor, error) {
	acc, ok := recv.(*Accumulator)
	if !ok {
		return nil, fmt.Errorf("accumulate: receiver is %T, not *Accumulator", recv)
	}
	if err := arity("accumulate", args, 1); err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{tensor.Scalar(acc.Add(args[0]))}, nil
}
