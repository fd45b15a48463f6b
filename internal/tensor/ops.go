package tensor

// Add performs element-wise addition with broadcasting.
//
// Example:
//
//	x := tensor.Ones[float32](Shape{4, 2}, backend)
//	m := tensor.Ones[float32](Shape{2}, backend)
//	y := x.Add(m) // Shape: [4, 2] (broadcasted)
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Add(t.raw, other.raw), t.backend)
}

// Sub performs element-wise subtraction with broadcasting.
func (t *Tensor[T, B]) Sub(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Sub(t.raw, other.raw), t.backend)
}

// Mul performs element-wise multiplication with broadcasting.
func (t *Tensor[T, B]) Mul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Mul(t.raw, other.raw), t.backend)
}

// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) → (M, N).
func (t *Tensor[T, B]) MatMul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.MatMul(t.raw, other.raw), t.backend)
}

// T transposes a 2D tensor.
func (t *Tensor[T, B]) T() *Tensor[T, B] {
	return New[T, B](t.backend.Transpose(t.raw), t.backend)
}

// Reshape returns a tensor with the same data but different shape.
func (t *Tensor[T, B]) Reshape(newShape ...int) *Tensor[T, B] {
	return New[T, B](t.backend.Reshape(t.raw, Shape(newShape)), t.backend)
}

// AddScalar adds a constant to every element.
func (t *Tensor[T, B]) AddScalar(v T) *Tensor[T, B] {
	return New[T, B](t.backend.AddScalar(t.raw, float64(v)), t.backend)
}

// MulScalar multiplies every element by a constant.
func (t *Tensor[T, B]) MulScalar(v T) *Tensor[T, B] {
	return New[T, B](t.backend.MulScalar(t.raw, float64(v)), t.backend)
}

// Neg returns -t.
func (t *Tensor[T, B]) Neg() *Tensor[T, B] {
	return t.MulScalar(-1)
}

// OneMinus returns 1 - t, the complement of a {0,1} mask.
func (t *Tensor[T, B]) OneMinus() *Tensor[T, B] {
	return t.Neg().AddScalar(1)
}

// Exp computes e^x element-wise.
func (t *Tensor[T, B]) Exp() *Tensor[T, B] {
	return New[T, B](t.backend.Exp(t.raw), t.backend)
}

// Tanh computes tanh(x) element-wise.
func (t *Tensor[T, B]) Tanh() *Tensor[T, B] {
	return New[T, B](t.backend.Tanh(t.raw), t.backend)
}

// ReLU computes max(0, x) element-wise.
func (t *Tensor[T, B]) ReLU() *Tensor[T, B] {
	return New[T, B](t.backend.ReLU(t.raw), t.backend)
}

// SumDim sums along dim.
//
// Example:
//
//	s := tensor.Ones[float32](Shape{4, 3}, backend)
//	ldj := s.SumDim(1, false) // Shape: [4]
func (t *Tensor[T, B]) SumDim(dim int, keepDim bool) *Tensor[T, B] {
	return New[T, B](t.backend.SumDim(t.raw, dim, keepDim), t.backend)
}

// IndexSelect keeps the listed positions of dim.
//
// Example:
//
//	x := ... // Shape: [4, 5]
//	odd := x.IndexSelect(1, []int{1, 3}) // Shape: [4, 2]
func (t *Tensor[T, B]) IndexSelect(dim int, indices []int) *Tensor[T, B] {
	return New[T, B](t.backend.IndexSelect(t.raw, dim, indices), t.backend)
}

// IndexScatter places slice k of t at position indices[k] of dim in a zero
// tensor of the given size along dim.
func (t *Tensor[T, B]) IndexScatter(dim int, indices []int, size int) *Tensor[T, B] {
	return New[T, B](t.backend.IndexScatter(t.raw, dim, indices, size), t.backend)
}
