// Package bijector implements invertible, differentiable transforms with
// tractable Jacobian log-determinants, the building blocks of normalizing flows.
//
// The central type is Coupling, the RealNVP affine coupling layer:
//
//	y[pass]        = x[pass]
//	y[transformed] = x[transformed] * exp(s(x[pass])) + t(x[pass])
//
// Layers compose through Chain, an explicit ordered list:
//
//	odd, _ := bijector.NewCoupling(bijector.ParityOdd, "coupling_1", scale, shift)
//	even, _ := bijector.NewCoupling(bijector.ParityEven, "coupling_2", scale, shift)
//	flow := bijector.NewChain("real_nvp", odd, even)
//	y, err := flow.Forward(x)
package bijector

import (
	"github.com/born-ml/realnvp/internal/tensor"
)

// Bijector is an invertible transform of [batch, D] tensors.
//
// Implementations hold no mutable state; every method is safe to call
// concurrently as long as the functions they were built from are.
type Bijector[T tensor.Float, B tensor.Backend] interface {
	// Name identifies the bijector in errors and checkpoints.
	Name() string

	// Forward maps x to y. Output has the shape of x.
	Forward(x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error)

	// Inverse maps y back to x. Inverse(Forward(x)) == x up to rounding.
	Inverse(y *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error)

	// ForwardLogDetJacobian returns log|det dForward/dx| per row, shape [batch].
	ForwardLogDetJacobian(x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error)

	// InverseLogDetJacobian returns log|det dInverse/dy| per row, shape [batch].
	InverseLogDetJacobian(y *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error)
}

// Func is a conditioner: a scale or translation function of a coupling layer.
//
// It receives the pass-through coordinates gathered into [batch, Dp] and
// must return [batch, Dt], one value per transformed coordinate. Errors are
// returned to the caller of the bijector unchanged.
type Func[T tensor.Float, B tensor.Backend] func(x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error)

// Module is the subset of nn.Module a Func can be built from.
type Module[T tensor.Float, B tensor.Backend] interface {
	Forward(input *tensor.Tensor[T, B]) *tensor.Tensor[T, B]
}

// FromModule adapts a neural network module into a Func.
func FromModule[T tensor.Float, B tensor.Backend](m Module[T, B]) Func[T, B] {
	return func(x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
		return m.Forward(x), nil
	}
}

// Elementwise builds a Func applying f to every element.
//
// Example (the scale function 3v - 2):
//
//	scale := bijector.Elementwise[float32, *cpu.CPUBackend](func(v float32) float32 { return 3*v - 2 })
func Elementwise[T tensor.Float, B tensor.Backend](f func(T) T) Func[T, B] {
	return func(x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
		out := x.Clone()
		data := out.Data()
		for i, v := range data {
			data[i] = f(v)
		}
		return out, nil
	}
}

// checkRank2 validates a bijector input.
func checkRank2(name, operand string, shape tensor.Shape) error {
	if len(shape) != 2 {
		return &ShapeError{Bijector: name, Operand: operand, Got: shape, Want: "[batch, features]"}
	}
	return nil
}
