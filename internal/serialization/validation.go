package serialization

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

type namedMeta struct {
	name string
	meta TensorMeta
}

// ValidateTensorName rejects names that are empty, too long or that look
// like paths.
func ValidateTensorName(name string) error {
	switch {
	case name == "":
		return &ValidationError{Err: ErrInvalidName, Details: "empty name"}
	case len(name) > MaxTensorNameLen:
		return &ValidationError{
			Err:     ErrInvalidName,
			Tensor:  name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen),
		}
	case name == metadataKey:
		return &ValidationError{Err: ErrInvalidName, Tensor: name, Details: "reserved name"}
	case strings.Contains(name, ".."), strings.ContainsAny(name, "/\\\x00"):
		return &ValidationError{Err: ErrInvalidName, Tensor: name, Details: "contains a path element or null byte"}
	}
	return nil
}

// validateOffsets checks that every tensor lies inside the data section and
// that no two tensors share bytes.
func validateOffsets(entries []namedMeta, dataSize int64) error {
	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(a, b namedMeta) int {
		return cmp.Compare(a.meta.DataOffsets[0], b.meta.DataOffsets[0])
	})

	for i, e := range sorted {
		start, end := e.meta.DataOffsets[0], e.meta.DataOffsets[1]
		if start < 0 || end < start {
			return &ValidationError{
				Err:     ErrInvalidHeader,
				Tensor:  e.name,
				Details: fmt.Sprintf("data_offsets [%d, %d]", start, end),
			}
		}
		if end > dataSize {
			return &ValidationError{
				Err:     ErrOutOfBounds,
				Tensor:  e.name,
				Details: fmt.Sprintf("end %d > data size %d", end, dataSize),
			}
		}
		if i < len(sorted)-1 {
			next := sorted[i+1]
			if end > next.meta.DataOffsets[0] {
				return &ValidationError{
					Err:     ErrOffsetOverlap,
					Tensor:  e.name,
					Tensor2: next.name,
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap",
						start, end, next.meta.DataOffsets[0], next.meta.DataOffsets[1]),
				}
			}
		}
	}
	return nil
}
