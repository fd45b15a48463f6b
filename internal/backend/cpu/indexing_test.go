package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/realnvp/internal/tensor"
)

func TestCPUBackend_IndexSelect(t *testing.T) {
	backend := New()
	x := rawF32(t, tensor.Shape{2, 5}, 0, 1, 2, 3, 4, 10, 11, 12, 13, 14)

	odd := backend.IndexSelect(x, 1, []int{1, 3})
	assert.Equal(t, tensor.Shape{2, 2}, odd.Shape())
	assert.Equal(t, []float32{1, 3, 11, 13}, odd.AsFloat32())

	rows := backend.IndexSelect(x, 0, []int{1})
	assert.Equal(t, []float32{10, 11, 12, 13, 14}, rows.AsFloat32())

	empty := backend.IndexSelect(x, 1, nil)
	assert.Equal(t, tensor.Shape{2, 0}, empty.Shape())
}

func TestCPUBackend_IndexScatter(t *testing.T) {
	backend := New()
	src := rawF64(t, tensor.Shape{2, 2}, 1, 3, 11, 13)

	got := backend.IndexScatter(src, 1, []int{1, 3}, 5)
	assert.Equal(t, tensor.Shape{2, 5}, got.Shape())
	assert.Equal(t, []float64{0, 1, 0, 3, 0, 0, 11, 0, 13, 0}, got.AsFloat64())
}

func TestCPUBackend_IndexRoundTrip(t *testing.T) {
	backend := New()
	x := rawF32(t, tensor.Shape{3, 4}, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)
	even, odd := []int{0, 2}, []int{1, 3}

	back := backend.Add(
		backend.IndexScatter(backend.IndexSelect(x, 1, even), 1, even, 4),
		backend.IndexScatter(backend.IndexSelect(x, 1, odd), 1, odd, 4),
	)
	assert.Equal(t, x.AsFloat32(), back.AsFloat32())
}

func TestCPUBackend_IndexPanics(t *testing.T) {
	backend := New()
	x := rawF32(t, tensor.Shape{2, 3})

	assert.Panics(t, func() { backend.IndexSelect(x, 1, []int{3}) })
	assert.Panics(t, func() { backend.IndexSelect(x, 1, []int{0, 0}) })
	assert.Panics(t, func() { backend.IndexScatter(x, 1, []int{0, 1}, 4) })
	assert.Panics(t, func() { backend.IndexScatter(x, 2, []int{0, 1, 2}, 4) })
}
