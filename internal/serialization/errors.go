package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidHeader    = errors.New("invalid header")
	ErrHeaderTooLarge   = errors.New("header exceeds maximum size")
	ErrUnsupportedDType = errors.New("unsupported dtype")
	ErrOffsetOverlap    = errors.New("tensor offsets overlap")
	ErrOutOfBounds      = errors.New("tensor extends beyond data section")
	ErrInvalidName      = errors.New("invalid tensor name")
)

// ValidationError describes a header entry that failed validation.
type ValidationError struct {
	Err     error  // One of the Err* values above
	Tensor  string // Primary tensor name involved
	Tensor2 string // Secondary tensor name (for overlap errors)
	Details string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Tensor2 != "" {
		return fmt.Sprintf("%v: tensors %q and %q: %s", e.Err, e.Tensor, e.Tensor2, e.Details)
	}
	if e.Tensor != "" {
		return fmt.Sprintf("%v: tensor %q: %s", e.Err, e.Tensor, e.Details)
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Details)
}

// Unwrap returns the error class.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
