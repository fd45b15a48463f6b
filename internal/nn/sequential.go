package nn

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/born-ml/realnvp/internal/tensor"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input.
//
// Example:
//
//	mlp := nn.NewSequential[float32, *cpu.CPUBackend](
//	    nn.NewLinear[float32](2, 25, src, backend),
//	    nn.NewTanh[float32, *cpu.CPUBackend](),
//	    nn.NewLinear[float32](25, 2, src, backend),
//	)
type Sequential[T tensor.Float, B tensor.Backend] struct {
	modules []Module[T, B]
}

// NewSequential creates a new Sequential container.
func NewSequential[T tensor.Float, B tensor.Backend](modules ...Module[T, B]) *Sequential[T, B] {
	return &Sequential[T, B]{
		modules: modules,
	}
}

// NewMLP builds a multi-layer perceptron in -> hidden... -> out with the
// named activation between layers and a linear output head.
func NewMLP[T tensor.Float, B tensor.Backend](in int, hidden []int, out int, activation string, src rand.Source, backend B) (*Sequential[T, B], error) {
	if in < 0 || out <= 0 {
		return nil, fmt.Errorf("invalid MLP sizes: in=%d out=%d", in, out)
	}

	seq := NewSequential[T, B]()
	prev := in
	for i, h := range hidden {
		if h <= 0 {
			return nil, fmt.Errorf("invalid hidden size %d at layer %d", h, i)
		}
		act, err := NewActivation[T, B](activation)
		if err != nil {
			return nil, err
		}
		seq.Add(NewLinear[T](prev, h, src, backend))
		seq.Add(act)
		prev = h
	}
	seq.Add(NewLinear[T](prev, out, src, backend))

	return seq, nil
}

// Forward applies all modules in sequence.
func (s *Sequential[T, B]) Forward(input *tensor.Tensor[T, B]) *tensor.Tensor[T, B] {
	output := input
	for _, module := range s.modules {
		output = module.Forward(output)
	}
	return output
}

// Parameters returns all parameters from all modules.
func (s *Sequential[T, B]) Parameters() []*Parameter[T, B] {
	var params []*Parameter[T, B]
	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// Add appends a module to the sequence.
func (s *Sequential[T, B]) Add(module Module[T, B]) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules in the sequence.
func (s *Sequential[T, B]) Len() int {
	return len(s.modules)
}

// Module returns the module at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential[T, B]) Module(index int) Module[T, B] {
	if index < 0 || index >= len(s.modules) {
		panic("Sequential.Module: index out of bounds")
	}
	return s.modules[index]
}

// StateDict returns a map of parameter names to raw tensors.
//
// Parameters are prefixed with their module index ("0.weight", "2.bias", ...).
func (s *Sequential[T, B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	for i, module := range s.modules {
		for name, raw := range module.StateDict() {
			stateDict[fmt.Sprintf("%d.%s", i, name)] = raw
		}
	}
	return stateDict
}

// LoadStateDict loads parameters from a state dictionary keyed like StateDict.
func (s *Sequential[T, B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	for i, module := range s.modules {
		if len(module.Parameters()) == 0 {
			continue
		}
		prefix := fmt.Sprintf("%d.", i)
		moduleStateDict := make(map[string]*tensor.RawTensor)
		for key, raw := range stateDict {
			if name, ok := strings.CutPrefix(key, prefix); ok {
				moduleStateDict[name] = raw
			}
		}
		if err := module.LoadStateDict(moduleStateDict); err != nil {
			return fmt.Errorf("failed to load module %d: %w", i, err)
		}
	}
	return nil
}
