// Package program loads tensor programs written in HCL and builds them into
// graphs of tensorified ops.
//
// A program is a list of op blocks followed by optional fetch and runs
// attributes:
//
//	op "total" {
//	  function = "add"
//	  args     = [2, 3]
//	  kwargs   = { extra_one = true }
//	}
//
//	op "copies" {
//	  function = "replicate"
//	  args     = ["total", 3]
//	  outputs  = ["int32", "int32", "int32"]
//	}
//
//	fetch = ["total", "copies:2"]
//	runs  = 1
//
// String arguments refer to earlier ops: "total" is the single output of op
// total and "copies:2" the third output of op copies.
package program

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// File is the decoded form of a program file.
type File struct {
	Ops   []*OpBlock `hcl:"op,block" validate:"min=1,dive"`
	Fetch []string   `hcl:"fetch,optional" validate:"dive,required"`
	Runs  int        `hcl:"runs,optional" validate:"gte=0"`
}

// OpBlock is one `op "<id>" { ... }` block.
type OpBlock struct {
	ID       string    `hcl:"id,label" validate:"required,excludes=:"`
	Function string    `hcl:"function" validate:"required"`
	Receiver string    `hcl:"receiver,optional"`
	Args     cty.Value `hcl:"args,optional" validate:"-"`
	Kwargs   cty.Value `hcl:"kwargs,optional" validate:"-"`
	Outputs  []string  `hcl:"outputs,optional" validate:"omitempty,dive,oneof=float32 float64 int32 int64 uint8 bool"`
	Name     string    `hcl:"name,optional"`
	Stateful *bool     `hcl:"stateful,optional"`
}

// Load parses, decodes and validates the program file at path.
func Load(path string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	return decode(hclFile.Body, path)
}

// Parse is Load for in-memory source; filename is used in diagnostics.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return decode(hclFile.Body, filename)
}

func decode(body hcl.Body, filename string) (*File, error) {
	var file File
	if diags := gohcl.DecodeBody(body, nil, &file); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	if err := Validate(&file); err != nil {
		return nil, fmt.Errorf("invalid program %s: %w", filename, err)
	}
	return &file, nil
}
