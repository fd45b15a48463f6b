// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand/v2"

	"github.com/born-ml/realnvp/internal/nn"
	"github.com/born-ml/realnvp/internal/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module[T tensor.Float, B tensor.Backend] = nn.Module[T, B]

// Parameter is a named tensor owned by a module.
type Parameter[T tensor.Float, B tensor.Backend] = nn.Parameter[T, B]

// Activation names accepted by NewActivation and NewMLP.
const (
	ActivationTanh = nn.ActivationTanh
	ActivationReLU = nn.ActivationReLU
)

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[T tensor.Float, B tensor.Backend] = nn.Linear[T, B]

// NewLinear creates a new linear layer with Xavier initialization.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear[float32](2, 25, rand.NewPCG(1, 2), backend)
func NewLinear[T tensor.Float, B tensor.Backend](inFeatures, outFeatures int, src rand.Source, backend B) *Linear[T, B] {
	return nn.NewLinear[T](inFeatures, outFeatures, src, backend)
}

// Activations

// Tanh represents the hyperbolic tangent activation.
type Tanh[T tensor.Float, B tensor.Backend] = nn.Tanh[T, B]

// NewTanh creates a new Tanh activation layer.
func NewTanh[T tensor.Float, B tensor.Backend]() *Tanh[T, B] {
	return nn.NewTanh[T, B]()
}

// ReLU represents the Rectified Linear Unit activation function.
type ReLU[T tensor.Float, B tensor.Backend] = nn.ReLU[T, B]

// NewReLU creates a new ReLU activation layer.
func NewReLU[T tensor.Float, B tensor.Backend]() *ReLU[T, B] {
	return nn.NewReLU[T, B]()
}

// NewActivation returns the activation registered under name ("tanh" or "relu").
func NewActivation[T tensor.Float, B tensor.Backend](name string) (Module[T, B], error) {
	return nn.NewActivation[T, B](name)
}

// Containers

// Sequential chains modules; each module's output feeds the next.
type Sequential[T tensor.Float, B tensor.Backend] = nn.Sequential[T, B]

// NewSequential creates a new Sequential container.
func NewSequential[T tensor.Float, B tensor.Backend](modules ...Module[T, B]) *Sequential[T, B] {
	return nn.NewSequential(modules...)
}

// NewMLP builds in -> hidden... -> out with the named activation between
// layers and a linear head.
func NewMLP[T tensor.Float, B tensor.Backend](in int, hidden []int, out int, activation string, src rand.Source, backend B) (*Sequential[T, B], error) {
	return nn.NewMLP[T](in, hidden, out, activation, src, backend)
}
