package cpu

import (
	"fmt"

	"github.com/born-ml/realnvp/internal/tensor"
)

// IndexSelect keeps the listed positions of dim, in the given order.
//
// Example:
//
//	x: [4, 5], dim=1, indices=[1, 3] → [4, 2]
func (cpu *CPUBackend) IndexSelect(x *tensor.RawTensor, dim int, indices []int) *tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim("index_select", dim, len(shape))
	checkIndices("index_select", indices, shape[dim])

	outShape := shape.Clone()
	outShape[dim] = len(indices)

	result, err := tensor.NewRaw(outShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("index_select: %v", err))
	}

	outer, size, inner := splitAt(shape, dim)
	switch x.DType() {
	case tensor.Float32:
		indexSelect(result.AsFloat32(), x.AsFloat32(), indices, outer, size, inner)
	case tensor.Float64:
		indexSelect(result.AsFloat64(), x.AsFloat64(), indices, outer, size, inner)
	default:
		panic(fmt.Sprintf("index_select: unsupported dtype %s", x.DType()))
	}

	return result
}

// IndexScatter writes slice k of x to position indices[k] of dim in a
// zero tensor whose dim has the given size. Untouched positions stay zero.
//
// Example:
//
//	x: [4, 2], dim=1, indices=[1, 3], size=5 → [4, 5]
func (cpu *CPUBackend) IndexScatter(x *tensor.RawTensor, dim int, indices []int, size int) *tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim("index_scatter", dim, len(shape))
	if shape[dim] != len(indices) {
		panic(fmt.Sprintf("index_scatter: dimension %d has size %d but %d indices given", dim, shape[dim], len(indices)))
	}
	checkIndices("index_scatter", indices, size)

	outShape := shape.Clone()
	outShape[dim] = size

	result, err := tensor.NewRaw(outShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("index_scatter: %v", err))
	}

	outer, _, inner := splitAt(outShape, dim)
	switch x.DType() {
	case tensor.Float32:
		indexScatter(result.AsFloat32(), x.AsFloat32(), indices, outer, size, inner)
	case tensor.Float64:
		indexScatter(result.AsFloat64(), x.AsFloat64(), indices, outer, size, inner)
	default:
		panic(fmt.Sprintf("index_scatter: unsupported dtype %s", x.DType()))
	}

	return result
}

func indexSelect[T tensor.Float](dst, src []T, indices []int, outer, size, inner int) {
	k := len(indices)
	for o := 0; o < outer; o++ {
		for j, idx := range indices {
			copy(dst[(o*k+j)*inner:(o*k+j+1)*inner], src[(o*size+idx)*inner:(o*size+idx+1)*inner])
		}
	}
}

func indexScatter[T tensor.Float](dst, src []T, indices []int, outer, size, inner int) {
	k := len(indices)
	for o := 0; o < outer; o++ {
		for j, idx := range indices {
			copy(dst[(o*size+idx)*inner:(o*size+idx+1)*inner], src[(o*k+j)*inner:(o*k+j+1)*inner])
		}
	}
}

func normalizeDim(op string, dim, ndim int) int {
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("%s: dimension %d out of range for %dD tensor", op, dim, ndim))
	}
	return dim
}

func checkIndices(op string, indices []int, size int) {
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= size {
			panic(fmt.Sprintf("%s: index %d out of range [0, %d)", op, idx, size))
		}
		if seen[idx] {
			panic(fmt.Sprintf("%s: duplicate index %d", op, idx))
		}
		seen[idx] = true
	}
}
