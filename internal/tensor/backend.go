package tensor

// Backend defines the compute operations a bijector needs.
// Backends panic on malformed inputs; callers validate shapes first.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor

	// MatMul multiplies 2D tensors: [M, K] @ [K, N] -> [M, N].
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor) *RawTensor // 2D only

	// Scalar operations (element-wise with scalar)
	AddScalar(x *RawTensor, scalar float64) *RawTensor
	MulScalar(x *RawTensor, scalar float64) *RawTensor

	// Math operations (element-wise)
	Exp(x *RawTensor) *RawTensor
	Tanh(x *RawTensor) *RawTensor
	ReLU(x *RawTensor) *RawTensor

	// SumDim sums along dim, optionally keeping it as size 1.
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor

	// IndexSelect keeps the given positions of dim, in order.
	IndexSelect(x *RawTensor, dim int, indices []int) *RawTensor
	// IndexScatter is the adjoint of IndexSelect: it places slice k of x at
	// position indices[k] of a zero tensor whose dim has the given size.
	IndexScatter(x *RawTensor, dim int, indices []int, size int) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
