// Package main provides the tensorify CLI, which builds and runs HCL tensor
// programs over the built-in function namespace.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/born-ml/tensorify/internal/builtin"
	"github.com/born-ml/tensorify/internal/graph"
	"github.com/born-ml/tensorify/internal/program"
	"github.com/born-ml/tensorify/internal/serialization"
	"github.com/born-ml/tensorify/internal/tensor"
	"github.com/born-ml/tensorify/internal/tensorify"
	"k8s.io/klog/v2"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("tensorify %s\n", version)
		return
	}

	ctx := context.Background()
	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	programPath := "program.hcl"
	flag.StringVar(&programPath, "f", programPath, "path to the program file")
	outputPath := ""
	flag.StringVar(&outputPath, "o", outputPath, "if set, write the values fetched by the last run to this SafeTensors file")

	klog.InitFlags(nil)
	flag.Parse()

	log := klog.FromContext(ctx)

	file, err := program.Load(programPath)
	if err != nil {
		return err
	}

	defaults := []tensor.DataType{tensor.Int64}
	ns := tensorify.Tensorify(builtin.Namespace(), defaults, true)
	plan, err := program.Build(file, ns, program.Options{
		DefaultOutputs: defaults,
		NewReceiver:    newReceiver,
	})
	if err != nil {
		return fmt.Errorf("failed to build program %q: %w", programPath, err)
	}
	log.Info("Running program", "path", programPath, "nodes", plan.Graph.Len(), "runs", plan.Runs)

	results, err := plan.Run(ctx, graph.NewSession(plan.Graph))
	if err != nil {
		return fmt.Errorf("failed to run program %q: %w", programPath, err)
	}

	for i, values := range results {
		if plan.Runs > 1 {
			fmt.Printf("run %d\n", i+1)
		}
		for j, v := range values {
			fmt.Printf("%s = %s\n", plan.FetchNames[j], v)
		}
	}

	if outputPath != "" {
		last := make(map[string]*tensor.RawTensor, len(plan.FetchNames))
		for j, v := range results[len(results)-1] {
			last[plan.FetchNames[j]] = v
		}
		metadata := map[string]string{"program": programPath, "runs": strconv.Itoa(plan.Runs)}
		if err := serialization.WriteFile(outputPath, last, metadata); err != nil {
			return fmt.Errorf("failed to write results to %q: %w", outputPath, err)
		}
		log.Info("Wrote results", "path", outputPath, "tensors", len(last))
	}
	return nil
}

// newReceiver creates receivers for the accumulate method. Every receiver
// name gets its own Accumulator.
func newReceiver(string) (any, error) {
	return &builtin.Accumulator{}, nil
}
