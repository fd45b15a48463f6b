package nn

import (
	"fmt"

	"github.com/born-ml/realnvp/internal/tensor"
)

// Tanh is a hyperbolic tangent activation module.
type Tanh[T tensor.Float, B tensor.Backend] struct{ stateless[T, B] }

// NewTanh creates a new Tanh activation module.
func NewTanh[T tensor.Float, B tensor.Backend]() *Tanh[T, B] {
	return &Tanh[T, B]{}
}

// Forward applies tanh element-wise.
func (a *Tanh[T, B]) Forward(input *tensor.Tensor[T, B]) *tensor.Tensor[T, B] {
	return input.Tanh()
}

// ReLU is a Rectified Linear Unit activation module: f(x) = max(0, x).
type ReLU[T tensor.Float, B tensor.Backend] struct{ stateless[T, B] }

// NewReLU creates a new ReLU activation module.
func NewReLU[T tensor.Float, B tensor.Backend]() *ReLU[T, B] {
	return &ReLU[T, B]{}
}

// Forward applies max(0, x) element-wise.
func (a *ReLU[T, B]) Forward(input *tensor.Tensor[T, B]) *tensor.Tensor[T, B] {
	return input.ReLU()
}

// Activation names accepted by NewActivation.
const (
	ActivationTanh = "tanh"
	ActivationReLU = "relu"
)

// NewActivation returns the activation module registered under name.
func NewActivation[T tensor.Float, B tensor.Backend](name string) (Module[T, B], error) {
	switch name {
	case ActivationTanh:
		return NewTanh[T, B](), nil
	case ActivationReLU:
		return NewReLU[T, B](), nil
	default:
		return nil, fmt.Errorf("unknown activation %q (want %q or %q)", name, ActivationTanh, ActivationReLU)
	}
}

// stateless provides the parameter methods of modules without parameters.
type stateless[T tensor.Float, B tensor.Backend] struct{}

func (stateless[T, B]) Parameters() []*Parameter[T, B] { return nil }

func (stateless[T, B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

func (stateless[T, B]) LoadStateDict(map[string]*tensor.RawTensor) error { return nil }
