// Package serialization reads and writes tensors in the SafeTensors format,
// used to save the values fetched by a program run.
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON object, name -> {dtype, shape, data_offsets}]
//	  [Tensor data: raw bytes, tensors in name order]
//
// An optional "__metadata__" entry in the header maps strings to strings.
// Tensor bytes are written as they are held in memory, which matches the
// format on little-endian hosts.
package serialization
