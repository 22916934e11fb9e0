package port

import "errors"

// Sentinel errors used across ports.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
