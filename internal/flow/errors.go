package flow

import (
	"errors"
)

// Common errors.
var (
	ErrInvalidConfig = errors.New("invalid flow config")
	ErrDTypeMismatch = errors.New("dtype mismatch")
	ErrRoundTrip     = errors.New("round trip check failed")
)
