package tensor_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/realnvp/internal/backend/cpu"
	"github.com/born-ml/realnvp/internal/tensor"
)

func TestDataType(t *testing.T) {
	assert.Equal(t, 4, tensor.Float32.Size())
	assert.Equal(t, 8, tensor.Float64.Size())
	assert.Equal(t, "float32", tensor.Float32.String())
	assert.Equal(t, tensor.Float64, tensor.DataTypeOf[float64]())

	dt, ok := tensor.ParseDataType("float64")
	assert.True(t, ok)
	assert.Equal(t, tensor.Float64, dt)

	_, ok = tensor.ParseDataType("int8")
	assert.False(t, ok)
}

func TestShape(t *testing.T) {
	s := tensor.Shape{2, 3, 4}
	assert.Equal(t, 24, s.NumElements())
	assert.Equal(t, []int{12, 4, 1}, s.ComputeStrides())
	assert.True(t, s.Equal(s.Clone()))
	assert.False(t, s.Equal(tensor.Shape{2, 3}))

	assert.NoError(t, tensor.Shape{4, 0}.Validate())
	assert.Error(t, tensor.Shape{4, -1}.Validate())
	assert.Equal(t, 0, tensor.Shape{4, 0}.NumElements())
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name      string
		a, b      tensor.Shape
		want      tensor.Shape
		broadcast bool
		wantErr   bool
	}{
		{"Equal", tensor.Shape{4, 2}, tensor.Shape{4, 2}, tensor.Shape{4, 2}, false, false},
		{"Mask", tensor.Shape{4, 2}, tensor.Shape{2}, tensor.Shape{4, 2}, true, false},
		{"Column", tensor.Shape{4, 1}, tensor.Shape{4, 3}, tensor.Shape{4, 3}, true, false},
		{"Incompatible", tensor.Shape{4, 2}, tensor.Shape{3}, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, broadcast, err := tensor.BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.broadcast, broadcast)
		})
	}
}

func TestFromRows(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromRows([][]float32{{1, 0}, {1, 1}}, backend)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2}, x.Shape())
	assert.Equal(t, float32(1), x.At(1, 1))
	assert.Equal(t, [][]float32{{1, 0}, {1, 1}}, x.Rows())

	x.Set(5, 0, 1)
	assert.Equal(t, []float32{1, 5, 1, 1}, x.Data())

	_, err = tensor.FromRows([][]float32{{1, 0}, {1}}, backend)
	assert.Error(t, err)

	_, err = tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{2, 2}, backend)
	assert.Error(t, err)
}

func TestTensorOps(t *testing.T) {
	backend := cpu.New()
	x, err := tensor.FromRows([][]float64{{1, 2}, {3, 4}}, backend)
	require.NoError(t, err)
	mask, err := tensor.FromSlice([]float64{0, 1}, tensor.Shape{2}, backend)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 2, 0, 4}, x.Mul(mask).Data())
	assert.Equal(t, []float64{1, 0}, mask.OneMinus().Data())
	assert.Equal(t, []float64{-1, -2, -3, -4}, x.Neg().Data())
	assert.Equal(t, []float64{3, 7}, x.SumDim(1, false).Data())
	assert.Equal(t, []float64{1, 3, 2, 4}, x.T().Data())
	assert.Equal(t, []float64{7, 10, 15, 22}, x.MatMul(x).Data())
	assert.InDelta(t, math.E, x.AddScalar(-1).Exp().At(0, 1), 1e-12)

	cols := x.IndexSelect(1, []int{1})
	assert.Equal(t, []float64{0, 2, 0, 4}, cols.IndexScatter(1, []int{1}, 2).Data())
}

func TestClone(t *testing.T) {
	backend := cpu.New()
	x := tensor.Ones[float32](tensor.Shape{2, 2}, backend)
	c := x.Clone()
	c.Set(3, 0, 0)

	assert.Equal(t, float32(1), x.At(0, 0))
	assert.Equal(t, float32(3), c.At(0, 0))
}

func TestRandn(t *testing.T) {
	backend := cpu.New()

	a := tensor.Randn[float64](tensor.Shape{2000}, rand.NewPCG(1, 2), backend)
	b := tensor.Randn[float64](tensor.Shape{2000}, rand.NewPCG(1, 2), backend)
	assert.Equal(t, a.Data(), b.Data(), "same seed must give the same draws")

	var mean float64
	for _, v := range a.Data() {
		mean += v
	}
	mean /= 2000
	assert.InDelta(t, 0, mean, 0.1)
}

func TestRawFromBytes(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(raw.AsFloat32(), []float32{1.5, -2})

	back, err := tensor.RawFromBytes(raw.Data(), tensor.Shape{2}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	assert.Equal(t, []float32{1.5, -2}, back.AsFloat32())

	_, err = tensor.RawFromBytes(raw.Data(), tensor.Shape{3}, tensor.Float32, tensor.CPU)
	assert.Error(t, err)
}
