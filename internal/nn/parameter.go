package nn

import (
	"fmt"

	"github.com/born-ml/realnvp/internal/tensor"
)

// Parameter is a named tensor owned by a module, such as a weight or bias.
type Parameter[T tensor.Float, B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[T, B]
}

// NewParameter creates a new parameter around an initialized tensor.
func NewParameter[T tensor.Float, B tensor.Backend](name string, t *tensor.Tensor[T, B]) *Parameter[T, B] {
	return &Parameter[T, B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter[T, B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[T, B]) Tensor() *tensor.Tensor[T, B] {
	return p.tensor
}

// Load copies raw into the parameter after checking shape and dtype.
func (p *Parameter[T, B]) Load(raw *tensor.RawTensor) error {
	if !raw.Shape().Equal(p.tensor.Shape()) {
		return fmt.Errorf("%s shape mismatch: expected %v, got %v", p.name, p.tensor.Shape(), raw.Shape())
	}
	if raw.DType() != p.tensor.DType() {
		return fmt.Errorf("%s dtype mismatch: expected %s, got %s", p.name, p.tensor.DType(), raw.DType())
	}
	copy(p.tensor.Raw().Data(), raw.Data())
	return nil
}
