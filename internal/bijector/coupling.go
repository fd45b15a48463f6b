package bijector

import (
	"fmt"

	"github.com/born-ml/realnvp/internal/tensor"
)

// Coupling is the RealNVP affine coupling bijector.
//
// A binary mask m derived from the parity splits the D features of every row
// into pass-through coordinates (m = 1), copied unchanged, and transformed
// coordinates (m = 0), which are scaled and shifted:
//
//	y = x⊙m + (1-m)⊙(x⊙exp(s) + t)
//
// where s and t are the outputs of the scale and translation functions on
// the pass-through coordinates, scattered into the transformed positions.
// s is a log-scale, so log|det J| is the row sum of s.
//
// Coupling holds no mutable state; the mask is rebuilt from the trailing
// dimension of each input.
type Coupling[T tensor.Float, B tensor.Backend] struct {
	name          string
	parity        Parity
	scaleFn       Func[T, B]
	translationFn Func[T, B]
}

// NewCoupling creates a coupling layer.
//
// Returns ErrInvalidConfiguration for an unknown parity or a nil function.
func NewCoupling[T tensor.Float, B tensor.Backend](parity Parity, name string, scaleFn, translationFn Func[T, B]) (*Coupling[T, B], error) {
	p, err := ParseParity(string(parity))
	if err != nil {
		return nil, fmt.Errorf("coupling %q: %w", name, err)
	}
	if scaleFn == nil || translationFn == nil {
		return nil, fmt.Errorf("coupling %q: %w: scale and translation functions are required", name, ErrInvalidConfiguration)
	}

	return &Coupling[T, B]{
		name:          name,
		parity:        p,
		scaleFn:       scaleFn,
		translationFn: translationFn,
	}, nil
}

// Name returns the bijector name.
func (c *Coupling[T, B]) Name() string {
	return c.name
}

// Parity returns the configured parity.
func (c *Coupling[T, B]) Parity() Parity {
	return c.parity
}

// Mask returns the [D] mask for x's trailing dimension in x's element type.
func (c *Coupling[T, B]) Mask(x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	shape := x.Shape()
	if len(shape) == 0 {
		return nil, &ShapeError{Bijector: c.name, Operand: "input", Got: shape, Want: "at least one dimension"}
	}
	return MaskFor[T](c.parity, shape[len(shape)-1], x.Backend()), nil
}

// Forward computes y = x⊙m + (1-m)⊙(x⊙exp(s) + t).
func (c *Coupling[T, B]) Forward(x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	p, err := c.condition("input", x, true)
	if err != nil {
		return nil, err
	}
	if p.identity() {
		return x.Clone(), nil
	}

	shifted := x.Mul(p.scale.Exp()).Add(p.shift)
	return x.Mul(p.mask).Add(p.mask.OneMinus().Mul(shifted)), nil
}

// Inverse computes x = y⊙m + (1-m)⊙((y - t)⊙exp(-s)).
//
// The pass-through coordinates of y equal those of x, so s and t are
// recomputed exactly and the map is inverted for any y of matching shape.
func (c *Coupling[T, B]) Inverse(y *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	p, err := c.condition("input", y, true)
	if err != nil {
		return nil, err
	}
	if p.identity() {
		return y.Clone(), nil
	}

	unshifted := y.Sub(p.shift).Mul(p.scale.Neg().Exp())
	return y.Mul(p.mask).Add(p.mask.OneMinus().Mul(unshifted)), nil
}

// ForwardLogDetJacobian returns the per-row sum of s over transformed
// coordinates, shape [batch]. The translation does not contribute and is
// not evaluated.
func (c *Coupling[T, B]) ForwardLogDetJacobian(x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	p, err := c.condition("input", x, false)
	if err != nil {
		return nil, err
	}
	if p.identity() {
		return tensor.Zeros[T](tensor.Shape{x.Shape()[0]}, x.Backend()), nil
	}
	return p.logScale.SumDim(1, false), nil
}

// InverseLogDetJacobian returns -ForwardLogDetJacobian(Inverse(y)).
// It needs no inversion: y and Inverse(y) share their pass-through coordinates.
func (c *Coupling[T, B]) InverseLogDetJacobian(y *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	ldj, err := c.ForwardLogDetJacobian(y)
	if err != nil {
		return nil, err
	}
	return ldj.Neg(), nil
}

// params are the conditioner outputs for one call.
type params[T tensor.Float, B tensor.Backend] struct {
	mask     *tensor.Tensor[T, B] // [D]
	logScale *tensor.Tensor[T, B] // [batch, Dt], compact
	scale    *tensor.Tensor[T, B] // [batch, D], zero on pass-through coordinates
	shift    *tensor.Tensor[T, B] // [batch, D], zero on pass-through coordinates
}

func (p *params[T, B]) identity() bool {
	return p.logScale == nil
}

// condition evaluates the scale (and, if withShift, translation) function on
// the pass-through coordinates of v.
func (c *Coupling[T, B]) condition(operand string, v *tensor.Tensor[T, B], withShift bool) (*params[T, B], error) {
	shape := v.Shape()
	if err := checkRank2(c.name, operand, shape); err != nil {
		return nil, err
	}

	batch, dim := shape[0], shape[1]
	pass, transformed := c.parity.Partition(dim)
	p := &params[T, B]{mask: MaskFor[T](c.parity, dim, v.Backend())}
	if len(transformed) == 0 {
		return p, nil
	}

	// Conditioners see only the pass-through coordinates, so their outputs
	// cannot depend on the coordinates they transform.
	passThrough := v.IndexSelect(1, pass)
	want := tensor.Shape{batch, len(transformed)}

	s, err := c.scaleFn(passThrough)
	if err != nil {
		return nil, err
	}
	if err := c.checkOutput("scale_fn output", s, want); err != nil {
		return nil, err
	}
	p.logScale = s
	p.scale = s.IndexScatter(1, transformed, dim)

	if !withShift {
		return p, nil
	}

	t, err := c.translationFn(passThrough)
	if err != nil {
		return nil, err
	}
	if err := c.checkOutput("translation_fn output", t, want); err != nil {
		return nil, err
	}
	p.shift = t.IndexScatter(1, transformed, dim)

	return p, nil
}

func (c *Coupling[T, B]) checkOutput(operand string, out *tensor.Tensor[T, B], want tensor.Shape) error {
	if out == nil {
		return &ShapeError{Bijector: c.name, Operand: operand, Got: nil, Want: fmt.Sprint(want)}
	}
	if !out.Shape().Equal(want) {
		return &ShapeError{Bijector: c.name, Operand: operand, Got: out.Shape(), Want: fmt.Sprint(want)}
	}
	return nil
}
