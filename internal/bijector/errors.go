package bijector

import (
	"errors"
	"fmt"

	"github.com/born-ml/realnvp/internal/tensor"
)

// Common errors.
var (
	ErrInvalidConfiguration = errors.New("invalid bijector configuration")
	ErrShapeMismatch        = errors.New("shape mismatch")
)

// ShapeError describes a tensor whose shape does not match what a bijector expects.
// It matches ErrShapeMismatch under errors.Is.
type ShapeError struct {
	Bijector string       // Name of the bijector reporting the error
	Operand  string       // What had the wrong shape ("input", "scale_fn output", ...)
	Got      tensor.Shape // Actual shape
	Want     string       // Expected shape, human readable
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s: %s has shape %v, want %s", e.Bijector, ErrShapeMismatch, e.Operand, e.Got, e.Want)
}

// Is reports whether target is ErrShapeMismatch.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShapeMismatch
}
