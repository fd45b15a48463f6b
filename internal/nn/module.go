// Package nn implements the small neural network modules used as RealNVP
// scale and translation functions.
//
// This package provides:
//   - Module interface: Base interface for all NN components
//   - Parameter: Named parameter tensors
//   - Linear: Fully connected layer
//   - Activations: Tanh, ReLU
//   - Sequential and NewMLP: Containers for stacking layers
package nn

import (
	"github.com/born-ml/realnvp/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build conditioners for coupling layers:
//
//	scale := nn.NewSequential[float32](
//	    nn.NewLinear[float32](1, 25, src, backend),
//	    nn.NewTanh[float32, *cpu.CPUBackend](),
//	    nn.NewLinear[float32](25, 1, src, backend),
//	)
type Module[T tensor.Float, B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor[T, B]) *tensor.Tensor[T, B]

	// Parameters returns all parameters of this module, nested ones included.
	// Modules without parameters return an empty slice.
	Parameters() []*Parameter[T, B]

	// StateDict returns a map of parameter names to raw tensors.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict copies parameters from a state dictionary.
	// Returns an error if a required parameter is missing or has wrong shape or dtype.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}
