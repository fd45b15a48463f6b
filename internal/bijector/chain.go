package bijector

import (
	"fmt"

	"github.com/born-ml/realnvp/internal/tensor"
)

// Chain composes bijectors in order: Forward applies bijectors[0] first,
// Inverse undoes them in reverse order.
//
// A RealNVP flow is a Chain of couplings with alternating parity, so every
// coordinate is transformed by some layer.
type Chain[T tensor.Float, B tensor.Backend] struct {
	name      string
	bijectors []Bijector[T, B]
}

// NewChain creates a chain over the given bijectors.
func NewChain[T tensor.Float, B tensor.Backend](name string, bijectors ...Bijector[T, B]) *Chain[T, B] {
	return &Chain[T, B]{
		name:      name,
		bijectors: append([]Bijector[T, B](nil), bijectors...),
	}
}

// Name returns the chain name.
func (c *Chain[T, B]) Name() string {
	return c.name
}

// Len returns the number of bijectors in the chain.
func (c *Chain[T, B]) Len() int {
	return len(c.bijectors)
}

// Bijectors returns a copy of the chain's bijectors in application order.
func (c *Chain[T, B]) Bijectors() []Bijector[T, B] {
	return append([]Bijector[T, B](nil), c.bijectors...)
}

// Forward applies every bijector in order.
func (c *Chain[T, B]) Forward(x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	if err := checkRank2(c.name, "input", x.Shape()); err != nil {
		return nil, err
	}
	out := x
	for _, b := range c.bijectors {
		var err error
		if out, err = b.Forward(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Inverse applies every bijector's inverse in reverse order.
func (c *Chain[T, B]) Inverse(y *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	if err := checkRank2(c.name, "input", y.Shape()); err != nil {
		return nil, err
	}
	out := y
	for i := len(c.bijectors) - 1; i >= 0; i-- {
		var err error
		if out, err = c.bijectors[i].Inverse(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ForwardLogDetJacobian sums each layer's log-determinant, evaluated at that
// layer's own input.
func (c *Chain[T, B]) ForwardLogDetJacobian(x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	_, ldj, err := c.ForwardWithLogDet(x)
	return ldj, err
}

// InverseLogDetJacobian sums each layer's inverse log-determinant along the
// inverse pass.
func (c *Chain[T, B]) InverseLogDetJacobian(y *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	_, ldj, err := c.InverseWithLogDet(y)
	return ldj, err
}

// ForwardWithLogDet returns Forward(x) and ForwardLogDetJacobian(x) in one pass.
func (c *Chain[T, B]) ForwardWithLogDet(x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], *tensor.Tensor[T, B], error) {
	if err := checkRank2(c.name, "input", x.Shape()); err != nil {
		return nil, nil, err
	}
	out := x
	total := tensor.Zeros[T](tensor.Shape{x.Shape()[0]}, x.Backend())
	for _, b := range c.bijectors {
		ldj, err := b.ForwardLogDetJacobian(out)
		if err != nil {
			return nil, nil, err
		}
		if out, err = b.Forward(out); err != nil {
			return nil, nil, err
		}
		total = total.Add(ldj)
	}
	return out, total, nil
}

// InverseWithLogDet returns Inverse(y) and InverseLogDetJacobian(y) in one pass.
func (c *Chain[T, B]) InverseWithLogDet(y *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], *tensor.Tensor[T, B], error) {
	if err := checkRank2(c.name, "input", y.Shape()); err != nil {
		return nil, nil, err
	}
	out := y
	total := tensor.Zeros[T](tensor.Shape{y.Shape()[0]}, y.Backend())
	for i := len(c.bijectors) - 1; i >= 0; i-- {
		b := c.bijectors[i]
		ldj, err := b.InverseLogDetJacobian(out)
		if err != nil {
			return nil, nil, err
		}
		if out, err = b.Inverse(out); err != nil {
			return nil, nil, err
		}
		total = total.Add(ldj)
	}
	return out, total, nil
}

// String lists the chain's bijectors.
func (c *Chain[T, B]) String() string {
	names := make([]string, len(c.bijectors))
	for i, b := range c.bijectors {
		names[i] = b.Name()
	}
	return fmt.Sprintf("Chain(%s)%v", c.name, names)
}
