package tensorify

import (
	"errors"
	"fmt"

	"github.com/born-ml/tensorify/internal/tensor"
)

// Host functions shared by the tests.

func asInt64(r *tensor.RawTensor) []int64 {
	cast, err := tensor.Cast(r, tensor.Int64)
	if err != nil {
		panic(err)
	}
	return cast.AsInt64()
}

func add(args []*tensor.RawTensor, kw Kwargs) ([]*tensor.RawTensor, error) {
	xs, ys := asInt64(args[0]), asInt64(args[1])
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("add: %d vs %d elements", len(xs), len(ys))
	}
	var extra int64
	if kw.Bool("extra_one", false) {
		extra = 1
	}
	out := make([]int64, len(xs))
	for i := range xs {
		out[i] = xs[i] + ys[i] + extra
	}
	sum, err := tensor.FromSlice(out, args[0].Shape())
	if err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{sum}, nil
}

func replicateValue(args []*tensor.RawTensor, _ Kwargs) ([]*tensor.RawTensor, error) {
	n := int(asInt64(args[1])[0])
	out := make([]*tensor.RawTensor, n)
	for i := range out {
		out[i] = args[0].Clone()
	}
	return out, nil
}

var errRefused = errors.New("refused")

func refuse(_ []*tensor.RawTensor, _ Kwargs) ([]*tensor.RawTensor, error) {
	return nil, errRefused
}

type accumulator struct {
	state int64
}

func accumulate(recv any, args []*tensor.RawTensor, _ Kwargs) ([]*tensor.RawTensor, error) {
	acc := recv.(*accumulator)
	acc.state += asInt64(args[0])[0]
	return []*tensor.RawTensor{tensor.Scalar(acc.state)}, nil
}
