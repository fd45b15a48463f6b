package flow

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/realnvp/internal/bijector"
	"github.com/born-ml/realnvp/internal/tensor"
)

// Flow is the distribution of Forward(z) for z drawn from a standard normal
// base distribution of dimension Dim.
//
// LogProb is safe for concurrent use. Sample draws from a shared random
// source and is not.
type Flow[T tensor.Float, B tensor.Backend] struct {
	bijector bijector.Bijector[T, B]
	dim      int
	base     distuv.Normal
	backend  B
}

// withLogDet is implemented by bijectors that compute a transform and its
// log-determinant in one pass, such as bijector.Chain.
type withLogDet[T tensor.Float, B tensor.Backend] interface {
	ForwardWithLogDet(x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], *tensor.Tensor[T, B], error)
	InverseWithLogDet(y *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], *tensor.Tensor[T, B], error)
}

// NewFlow wraps b into a distribution over [batch, dim] tensors.
// A nil src samples from the global math/rand/v2 generator.
func NewFlow[T tensor.Float, B tensor.Backend](b bijector.Bijector[T, B], dim int, src rand.Source, backend B) *Flow[T, B] {
	return &Flow[T, B]{
		bijector: b,
		dim:      dim,
		base:     distuv.Normal{Mu: 0, Sigma: 1, Src: src},
		backend:  backend,
	}
}

// Bijector returns the transform from base space to data space.
func (f *Flow[T, B]) Bijector() bijector.Bijector[T, B] {
	return f.bijector
}

// Dim returns the event dimension.
func (f *Flow[T, B]) Dim() int {
	return f.dim
}

// LogProb returns log p(x) per row, shape [batch]:
//
//	log p(x) = Σ_j log N(z_j; 0, 1) + log|det dInverse/dx|,  z = Inverse(x)
func (f *Flow[T, B]) LogProb(x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	if err := f.checkInput(x); err != nil {
		return nil, err
	}

	z, ildj, err := f.inverseWithLogDet(x)
	if err != nil {
		return nil, err
	}
	return f.baseLogProb(z).Add(ildj), nil
}

// Sample draws n rows from the flow.
func (f *Flow[T, B]) Sample(n int) (*tensor.Tensor[T, B], error) {
	y, _, err := f.SampleWithLogProb(n)
	return y, err
}

// SampleWithLogProb draws n rows and returns their log-probabilities without
// inverting the flow: log p(y) = log N(z) - log|det dForward/dz|.
func (f *Flow[T, B]) SampleWithLogProb(n int) (*tensor.Tensor[T, B], *tensor.Tensor[T, B], error) {
	if n < 0 {
		return nil, nil, fmt.Errorf("sample count must be non-negative, got %d", n)
	}

	z := tensor.Zeros[T](tensor.Shape{n, f.dim}, f.backend)
	data := z.Data()
	for i := range data {
		data[i] = T(f.base.Rand())
	}

	y, fldj, err := f.forwardWithLogDet(z)
	if err != nil {
		return nil, nil, err
	}
	return y, f.baseLogProb(z).Sub(fldj), nil
}

func (f *Flow[T, B]) baseLogProb(z *tensor.Tensor[T, B]) *tensor.Tensor[T, B] {
	logp := z.Clone()
	data := logp.Data()
	for i, v := range data {
		data[i] = T(f.base.LogProb(float64(v)))
	}
	return logp.SumDim(1, false)
}

func (f *Flow[T, B]) forwardWithLogDet(z *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], *tensor.Tensor[T, B], error) {
	if b, ok := f.bijector.(withLogDet[T, B]); ok {
		return b.ForwardWithLogDet(z)
	}
	fldj, err := f.bijector.ForwardLogDetJacobian(z)
	if err != nil {
		return nil, nil, err
	}
	y, err := f.bijector.Forward(z)
	if err != nil {
		return nil, nil, err
	}
	return y, fldj, nil
}

func (f *Flow[T, B]) inverseWithLogDet(x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], *tensor.Tensor[T, B], error) {
	if b, ok := f.bijector.(withLogDet[T, B]); ok {
		return b.InverseWithLogDet(x)
	}
	ildj, err := f.bijector.InverseLogDetJacobian(x)
	if err != nil {
		return nil, nil, err
	}
	z, err := f.bijector.Inverse(x)
	if err != nil {
		return nil, nil, err
	}
	return z, ildj, nil
}

func (f *Flow[T, B]) checkInput(x *tensor.Tensor[T, B]) error {
	shape := x.Shape()
	if len(shape) != 2 || shape[1] != f.dim {
		return &bijector.ShapeError{Bijector: "flow", Operand: "input", Got: shape, Want: fmt.Sprintf("[batch, %d]", f.dim)}
	}
	return nil
}
