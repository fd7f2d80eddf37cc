package program

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/tensorify/internal/builtin"
	"github.com/born-ml/tensorify/internal/graph"
	"github.com/born-ml/tensorify/internal/tensor"
	"github.com/born-ml/tensorify/internal/tensorify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const example = `
op "basic" {
  function = "add"
  args     = [2, 3]
}

op "keyword" {
  function = "add"
  args     = [2, 3]
  kwargs   = { extra_one = true }
  name     = "AddPlusOne"
}

op "copies" {
  function = "replicate"
  args     = ["basic", 3]
  outputs  = ["int32", "int32", "int32"]
}

op "total" {
  function = "sum"
  args     = [[[1, 2], [3.5, 4]]]
}

fetch = ["basic", "keyword", "copies", "total:0"]
`

func newReceiver(string) (any, error) {
	return &builtin.Accumulator{}, nil
}

func build(t *testing.T, src string) *Plan {
	t.Helper()
	f, err := Parse([]byte(src), "test.hcl")
	require.NoError(t, err)

	ns := tensorify.Tensorify(builtin.Namespace(), []tensor.DataType{tensor.Int64}, true)
	plan, err := Build(f, ns, Options{
		DefaultOutputs: []tensor.DataType{tensor.Int64},
		NewReceiver:    newReceiver,
	})
	require.NoError(t, err)
	return plan
}

func TestParse(t *testing.T) {
	f, err := Parse([]byte(example), "example.hcl")
	require.NoError(t, err)

	require.Len(t, f.Ops, 4)
	assert.Equal(t, "keyword", f.Ops[1].ID)
	assert.Equal(t, "add", f.Ops[1].Function)
	assert.Equal(t, "AddPlusOne", f.Ops[1].Name)
	assert.Nil(t, f.Ops[0].Stateful)
	assert.Equal(t, []string{"int32", "int32", "int32"}, f.Ops[2].Outputs)
	assert.Equal(t, []string{"basic", "keyword", "copies", "total:0"}, f.Fetch)
	assert.Zero(t, f.Runs)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "program.hcl")
	require.NoError(t, os.WriteFile(path, []byte(example), 0o600))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Ops, 4)

	_, err = Load(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `op "x" {`},
		{"missing function", `op "x" { args = [1] }`},
		{"no ops", `fetch = []`},
		{"bad output type", `op "x" {
  function = "add"
  outputs  = ["complex64"]
}`},
		{"negative runs", `op "x" {
  function = "add"
}
runs = -1`},
		{"colon in id", `op "x:1" {
  function = "add"
}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.hcl")
			assert.Error(t, err)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	f := &File{
		Ops: []*OpBlock{
			{ID: "a"},
			{ID: "b", Function: "add", Outputs: []string{"int128"}},
		},
		Runs: -2,
	}
	err := Validate(f)
	require.ErrorIs(t, err, ErrInvalidProgram)
	assert.Contains(t, err.Error(), "op[0].function")
	assert.Contains(t, err.Error(), "op[1].outputs[0]")
	assert.Contains(t, err.Error(), "runs")
}

func TestBuildAndRun(t *testing.T) {
	plan := build(t, example)

	assert.Equal(t, []string{"basic:0", "keyword:0", "copies:0", "copies:1", "copies:2", "total:0"}, plan.FetchNames)
	assert.Equal(t, 1, plan.Runs)
	assert.Empty(t, plan.Targets)

	node, ok := plan.Graph.Node("AddPlusOne")
	require.True(t, ok)
	assert.Equal(t, graph.KindFuncOp, node.Kind())

	results, err := plan.Run(context.Background(), graph.NewSession(plan.Graph))
	require.NoError(t, err)
	require.Len(t, results, 1)

	out := results[0]
	require.Len(t, out, 6)
	assert.Equal(t, []int64{5}, out[0].AsInt64())
	assert.Equal(t, []int64{6}, out[1].AsInt64())
	for _, v := range out[2:5] {
		assert.Equal(t, []int32{5}, v.AsInt32())
	}
	// 10.5 truncated to the op's int64 output.
	assert.Equal(t, []int64{10}, out[5].AsInt64())
}

func TestBuildAndRun_Stateful(t *testing.T) {
	plan := build(t, `
op "acc" {
  function = "accumulate"
  receiver = "counter"
  args     = [1]
}

op "double" {
  function = "mul"
  args     = ["acc", 2]
}

fetch = ["double"]
runs  = 3
`)

	results, err := plan.Run(context.Background(), graph.NewSession(plan.Graph))
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, want := range []int64{2, 4, 6} {
		assert.Equal(t, []int64{want}, results[i][0].AsInt64())
	}
	assert.Equal(t, int64(3), plan.Receivers["counter"].(*builtin.Accumulator).State())
}

func TestBuildAndRun_StatelessOverride(t *testing.T) {
	plan := build(t, `
op "acc" {
  function = "accumulate"
  receiver = "counter"
  args     = [5]
  stateful = false
}
runs = 2
`)

	results, err := plan.Run(context.Background(), graph.NewSession(plan.Graph))
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, results[0][0].AsInt64())
	assert.Equal(t, []int64{5}, results[1][0].AsInt64())
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"unknown function", `op "x" { function = "nope" }`, tensorify.ErrUnboundName},
		{"duplicate", "op \"x\" { function = \"add\" }\nop \"x\" { function = \"add\" }", ErrDuplicateOp},
		{"unknown ref", `op "x" {
  function = "negate"
  args     = ["y"]
}`, ErrUnknownRef},
		{"ambiguous ref", `op "r" {
  function = "replicate"
  args     = [1, 2]
  outputs  = ["int64", "int64"]
}
op "x" {
  function = "negate"
  args     = ["r"]
}`, ErrAmbiguousRef},
		{"missing receiver", `op "x" {
  function = "accumulate"
  args     = [1]
}`, ErrReceiver},
		{"receiver on function", `op "x" {
  function = "negate"
  receiver = "counter"
  args     = [1]
}`, ErrReceiver},
		{"bad kwargs", `op "x" {
  function = "add"
  args     = [1, 2]
  kwargs   = [1]
}`, ErrUnsupported},
		{"bad fetch", `op "x" { function = "sum" }
fetch = ["x:3"]`, ErrUnknownRef},
	}

	ns := tensorify.Tensorify(builtin.Namespace(), []tensor.DataType{tensor.Int64}, true)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.src), "bad.hcl")
			require.NoError(t, err)
			_, err = Build(f, ns, Options{DefaultOutputs: []tensor.DataType{tensor.Int64}})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValues(t *testing.T) {
	f, err := Parse([]byte(`
op "x" {
  function = "add"
  args     = [1, 2.5, true, "ref", [1, 2], [1, 2.5], [[1, 2], [3, 4]], [true, false], []]
  kwargs   = { n = 3, scale = 0.5, label = "text", on = true }
}`), "values.hcl")
	require.NoError(t, err)

	args, err := argsFromCty(f.Ops[0].Args)
	require.NoError(t, err)
	assert.Equal(t, []any{
		int64(1), 2.5, true, ref("ref"),
		[]int64{1, 2}, []float64{1, 2.5}, [][]int64{{1, 2}, {3, 4}}, []bool{true, false}, []int64{},
	}, args)

	kw, err := kwargsFromCty(f.Ops[0].Kwargs)
	require.NoError(t, err)
	assert.Equal(t, 3, kw.Int("n", 0))
	assert.Equal(t, 0.5, kw.Float("scale", 0))
	assert.Equal(t, "text", kw.Str("label", ""))
	assert.True(t, kw.Bool("on", false))
}
