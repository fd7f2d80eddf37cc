// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensorify_test

import (
	"context"
	"fmt"

	"github.com/born-ml/tensorify/graph"
	"github.com/born-ml/tensorify/tensor"
	"github.com/born-ml/tensorify/tensorify"
)

func add(args []*tensor.RawTensor, kw tensorify.Kwargs) ([]*tensor.RawTensor, error) {
	x, y := args[0].AsInt64()[0], args[1].AsInt64()[0]
	if kw.Bool("extra_one", false) {
		x++
	}
	return []*tensor.RawTensor{tensor.Scalar(x + y)}, nil
}

type counter struct {
	total int64
}

func increment(recv any, args []*tensor.RawTensor, _ tensorify.Kwargs) ([]*tensor.RawTensor, error) {
	c := recv.(*counter)
	c.total += args[0].AsInt64()[0]
	return []*tensor.RawTensor{tensor.Scalar(c.total)}, nil
}

func Example() {
	ctx := context.Background()
	g := graph.New()

	op := tensorify.New(add, tensorify.WithOutputs(tensor.Int64))
	basic, _ := op.Apply(g, 2, 3)
	keyword, _ := op.Call(g, []any{2, 3}, tensorify.Kwargs{"extra_one": true})

	out, err := graph.NewSession(g).Run(ctx, []*graph.Tensor{basic.Output(0), keyword.Output(0)})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(basic.Name(), out[0])
	fmt.Println(keyword.Name(), out[1])
	// Output:
	// Add int64[]{5}
	// Add_1 int64[]{6}
}

func ExampleNewMethod() {
	ctx := context.Background()
	g := graph.New()

	op := tensorify.NewMethod(increment, tensorify.WithOutputs(tensor.Int64))
	node, _ := op.Apply(g, &counter{}, 1)

	sess := graph.NewSession(g)
	for range 3 {
		out, _ := sess.Run(ctx, node.Outputs())
		fmt.Println(out[0])
	}
	// Output:
	// int64[]{1}
	// int64[]{2}
	// int64[]{3}
}

func ExampleCamelCase() {
	fmt.Println(tensorify.CamelCase("replicate_value"))
	fmt.Println(tensorify.CamelCase("_private_fn"))
	fmt.Println(tensorify.CamelCase("HTTP_server"))
	// Output:
	// ReplicateValue
	// PrivateFn
	// HTTPServer
}

func ExampleTensorify() {
	ns := tensorify.NewNamespace("math").
		Set("add", tensorify.Func(add)).
		Set("version", "1.0")
	tensorify.Tensorify(ns, []tensor.DataType{tensor.Int64}, true)

	op, err := ns.Op("add")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(op.Name(), op.Outputs())
	// Output:
	// Add [int64]
}
