package bijector

import (
	"fmt"

	"github.com/born-ml/realnvp/internal/tensor"
)

// Parity selects which coordinates a coupling layer passes through unchanged.
type Parity string

// Supported parities.
const (
	// ParityOdd passes through odd coordinates (0-indexed) and transforms the even ones.
	ParityOdd Parity = "odd"
	// ParityEven passes through even coordinates and transforms the odd ones.
	ParityEven Parity = "even"
)

// ParseParity validates s as a Parity.
func ParseParity(s string) (Parity, error) {
	switch p := Parity(s); p {
	case ParityOdd, ParityEven:
		return p, nil
	default:
		return "", fmt.Errorf("%w: parity %q (want %q or %q)", ErrInvalidConfiguration, s, ParityOdd, ParityEven)
	}
}

// Opposite returns the other parity.
func (p Parity) Opposite() Parity {
	if p == ParityOdd {
		return ParityEven
	}
	return ParityOdd
}

// String implements fmt.Stringer.
func (p Parity) String() string {
	return string(p)
}

// MaskValues returns the binary mask for dim features: true marks a
// pass-through coordinate.
func (p Parity) MaskValues(dim int) []bool {
	mask := make([]bool, dim)
	for i := range mask {
		mask[i] = (i%2 == 1) == (p == ParityOdd)
	}
	return mask
}

// Partition splits [0, dim) into pass-through and transformed coordinates.
func (p Parity) Partition(dim int) (pass, transformed []int) {
	pass = make([]int, 0, (dim+1)/2)
	transformed = make([]int, 0, (dim+1)/2)
	for i, keep := range p.MaskValues(dim) {
		if keep {
			pass = append(pass, i)
		} else {
			transformed = append(transformed, i)
		}
	}
	return pass, transformed
}

// MaskFor materializes the mask for dim features as a [dim] tensor of
// element type U, broadcastable against [batch, dim].
//
// Example:
//
//	m := bijector.MaskFor[float32](bijector.ParityOdd, 2, backend) // [0, 1]
func MaskFor[U tensor.Float, B tensor.Backend](p Parity, dim int, backend B) *tensor.Tensor[U, B] {
	mask := tensor.Zeros[U](tensor.Shape{dim}, backend)
	data := mask.Data()
	for i, keep := range p.MaskValues(dim) {
		if keep {
			data[i] = 1
		}
	}
	return mask
}
