package tensorify

import "errors"

// Common errors.
var (
	ErrMissingReceiver = errors.New("method op called without a receiver argument")
	ErrNotFunction     = errors.New("binding is not a function")
	ErrNotOp           = errors.New("binding is not an op")
	ErrUnboundName     = errors.New("name is not bound")
)
