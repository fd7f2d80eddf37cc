package program

import "errors"

// Common errors.
var (
	ErrInvalidProgram = errors.New("invalid program")
	ErrDuplicateOp    = errors.New("duplicate op id")
	ErrUnknownRef     = errors.New("reference to unknown op")
	ErrAmbiguousRef   = errors.New("reference needs an output index")
	ErrUnsupported    = errors.New("unsupported value")
	ErrReceiver       = errors.New("receiver mismatch")
)
