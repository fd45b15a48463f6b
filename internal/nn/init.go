package nn

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/realnvp/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// A nil src draws from the global math/rand/v2 generator.
func Xavier[T tensor.Float, B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, src rand.Source, backend B) *tensor.Tensor[T, B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	uniform := distuv.Uniform{Min: -bound, Max: bound, Src: src}

	t := tensor.Zeros[T](shape, backend)
	data := t.Data()
	for i := range data {
		data[i] = T(uniform.Rand())
	}
	return t
}

// Zeros creates a tensor filled with zeros.
//
// This is commonly used for bias initialization.
func Zeros[T tensor.Float, B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[T, B] {
	return tensor.Zeros[T](shape, backend)
}
