// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package bijector

import (
	"github.com/born-ml/realnvp/internal/bijector"
	"github.com/born-ml/realnvp/internal/tensor"
)

// Bijector is an invertible transform of [batch, D] tensors.
type Bijector[T tensor.Float, B tensor.Backend] = bijector.Bijector[T, B]

// Func is a scale or translation function of a coupling layer.
type Func[T tensor.Float, B tensor.Backend] = bijector.Func[T, B]

// Module is anything with a Forward method, such as an nn.Sequential.
type Module[T tensor.Float, B tensor.Backend] = bijector.Module[T, B]

// Parity selects which coordinates a coupling layer passes through.
type Parity = bijector.Parity

// Supported parities.
const (
	ParityOdd  = bijector.ParityOdd
	ParityEven = bijector.ParityEven
)

// Coupling is the RealNVP affine coupling bijector.
type Coupling[T tensor.Float, B tensor.Backend] = bijector.Coupling[T, B]

// Chain composes bijectors in order.
type Chain[T tensor.Float, B tensor.Backend] = bijector.Chain[T, B]

// ShapeError describes an input or function output with the wrong shape.
type ShapeError = bijector.ShapeError

// Errors.
var (
	ErrInvalidConfiguration = bijector.ErrInvalidConfiguration
	ErrShapeMismatch        = bijector.ErrShapeMismatch
)

// ParseParity validates s as a Parity.
func ParseParity(s string) (Parity, error) {
	return bijector.ParseParity(s)
}

// NewCoupling creates a coupling layer.
//
// Returns ErrInvalidConfiguration for an unknown parity or a nil function.
func NewCoupling[T tensor.Float, B tensor.Backend](parity Parity, name string, scaleFn, translationFn Func[T, B]) (*Coupling[T, B], error) {
	return bijector.NewCoupling(parity, name, scaleFn, translationFn)
}

// NewChain creates a chain over the given bijectors.
func NewChain[T tensor.Float, B tensor.Backend](name string, bijectors ...Bijector[T, B]) *Chain[T, B] {
	return bijector.NewChain(name, bijectors...)
}

// MaskFor returns the [dim] mask of parity with element type U.
//
// Example:
//
//	m := bijector.MaskFor[float64](bijector.ParityEven, 2, backend) // [1, 0]
func MaskFor[U tensor.Float, B tensor.Backend](p Parity, dim int, backend B) *tensor.Tensor[U, B] {
	return bijector.MaskFor[U](p, dim, backend)
}

// FromModule adapts a neural network module into a Func.
func FromModule[T tensor.Float, B tensor.Backend](m Module[T, B]) Func[T, B] {
	return bijector.FromModule(m)
}

// Elementwise builds a Func applying f to every element.
func Elementwise[T tensor.Float, B tensor.Backend](f func(T) T) Func[T, B] {
	return bijector.Elementwise[T, B](f)
}
