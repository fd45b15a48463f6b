package bijector_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/realnvp/internal/backend/cpu"
	"github.com/born-ml/realnvp/internal/bijector"
	"github.com/born-ml/realnvp/internal/tensor"
)

func TestChain_MatchesManualComposition(t *testing.T) {
	backend := cpu.New()
	odd := newCoupling(t, bijector.ParityOdd, "coupling_1", scaleWithBias, translationWithBias)
	even := newCoupling(t, bijector.ParityEven, "coupling_2", scaleWithBias, translationWithBias)
	chain := bijector.NewChain[float32, Backend]("real_nvp", odd, even)

	assert.Equal(t, "real_nvp", chain.Name())
	assert.Equal(t, 2, chain.Len())
	assert.Equal(t, "Chain(real_nvp)[coupling_1 coupling_2]", chain.String())

	x := inputs(t, backend)
	mid, err := odd.Forward(x)
	require.NoError(t, err)
	want, err := even.Forward(mid)
	require.NoError(t, err)

	got, err := chain.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, want.Data(), got.Data())

	ldjOdd, err := odd.ForwardLogDetJacobian(x)
	require.NoError(t, err)
	ldjEven, err := even.ForwardLogDetJacobian(mid)
	require.NoError(t, err)

	ldj, err := chain.ForwardLogDetJacobian(x)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{4}, ldj.Shape())
	for i := 0; i < 4; i++ {
		assert.InDelta(t, ldjOdd.At(i)+ldjEven.At(i), ldj.At(i), 1e-5)
	}

	back, err := chain.Inverse(got)
	require.NoError(t, err)
	assertRowsInDelta(t, default2DInputs, back.Rows(), 1e-5)

	ildj, err := chain.InverseLogDetJacobian(got)
	require.NoError(t, err)
	assert.InDeltaSlice(t, ldj.Neg().Data(), ildj.Data(), 1e-4)
}

func TestChain_Empty(t *testing.T) {
	backend := cpu.New()
	chain := bijector.NewChain[float32, Backend]("identity")
	x := inputs(t, backend)

	y, ldj, err := chain.ForwardWithLogDet(x)
	require.NoError(t, err)
	assert.Equal(t, x.Data(), y.Data())
	assert.Equal(t, []float32{0, 0, 0, 0}, ldj.Data())
}

func TestChain_Nested(t *testing.T) {
	backend := cpu.New()
	src := rand.NewPCG(11, 13)
	inner := bijector.NewChain[float64, Backend]("inner",
		newMixingCoupling(t, bijector.ParityOdd, 4),
		newMixingCoupling(t, bijector.ParityEven, 4))
	outer := bijector.NewChain[float64, Backend]("outer", inner, newMixingCoupling(t, bijector.ParityOdd, 4))

	x := tensor.Randn[float64](tensor.Shape{8, 4}, src, backend)
	y, fldj, err := outer.ForwardWithLogDet(x)
	require.NoError(t, err)
	back, ildj, err := outer.InverseWithLogDet(y)
	require.NoError(t, err)

	assert.InDeltaSlice(t, x.Data(), back.Data(), 1e-9)
	assert.InDeltaSlice(t, fldj.Neg().Data(), ildj.Data(), 1e-9)
}

func TestChain_ErrorsStopThePass(t *testing.T) {
	backend := cpu.New()
	odd := newCoupling(t, bijector.ParityOdd, "coupling_1", scaleWithBias, translationWithBias)
	chain := bijector.NewChain[float32, Backend]("real_nvp", odd)

	_, err := chain.Forward(tensor.Ones[float32](tensor.Shape{4}, backend))
	assert.ErrorIs(t, err, bijector.ErrShapeMismatch)
	_, _, err = chain.InverseWithLogDet(tensor.Ones[float32](tensor.Shape{1, 2, 2}, backend))
	assert.ErrorIs(t, err, bijector.ErrShapeMismatch)
}
