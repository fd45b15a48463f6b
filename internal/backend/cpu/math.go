package cpu

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"

	"github.com/born-ml/realnvp/internal/parallel"
	"github.com/born-ml/realnvp/internal/tensor"
)

// Exp computes element-wise exponential: exp(x).
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("exp", x, math32.Exp, math.Exp)
}

// Tanh computes element-wise hyperbolic tangent.
func (cpu *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("tanh", x, tanh32, math.Tanh)
}

// tanh32 saturates to ±1 once exp overflows.
func tanh32(v float32) float32 {
	return 1 - 2/(math32.Exp(2*v)+1)
}

// ReLU computes element-wise max(0, x).
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("relu", x,
		func(v float32) float32 { return math32.Max(v, 0) },
		func(v float64) float64 { return math.Max(v, 0) })
}

// AddScalar computes x + scalar.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	s32 := float32(scalar)
	return cpu.unary("add_scalar", x,
		func(v float32) float32 { return v + s32 },
		func(v float64) float64 { return v + scalar })
}

// MulScalar computes x * scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	s32 := float32(scalar)
	return cpu.unary("mul_scalar", x,
		func(v float32) float32 { return v * s32 },
		func(v float64) float64 { return v * scalar })
}

func (cpu *CPUBackend) unary(op string, x *tensor.RawTensor,
	f32 func(float32) float32, f64 func(float64) float64,
) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	switch x.DType() {
	case tensor.Float32:
		unaryKernel(result.AsFloat32(), x.AsFloat32(), f32, cpu.parallel)
	case tensor.Float64:
		unaryKernel(result.AsFloat64(), x.AsFloat64(), f64, cpu.parallel)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32/float64 supported)", op, x.DType()))
	}

	return result
}

func unaryKernel[T tensor.Float](dst, src []T, f func(T) T, cfg parallel.Config) {
	parallel.For(len(src), func(i int) {
		dst[i] = f(src[i])
	}, cfg)
}
