package flow_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/realnvp/internal/backend/cpu"
	"github.com/born-ml/realnvp/internal/bijector"
	"github.com/born-ml/realnvp/internal/flow"
	"github.com/born-ml/realnvp/internal/tensor"
)

func stdNormalLogProb(v float64) float64 {
	return -0.5*v*v - 0.5*math.Log(2*math.Pi)
}

func TestFlow_LogProbIdentity(t *testing.T) {
	backend := cpu.New()
	identity := bijector.NewChain[float64, Backend]("identity")
	f := flow.NewFlow[float64, Backend](identity, 2, nil, backend)

	x, err := tensor.FromRows([][]float64{{0, 0}, {1, -2}}, backend)
	require.NoError(t, err)
	logp, err := f.LogProb(x)
	require.NoError(t, err)

	assert.InDelta(t, 2*stdNormalLogProb(0), logp.At(0), 1e-12)
	assert.InDelta(t, stdNormalLogProb(1)+stdNormalLogProb(-2), logp.At(1), 1e-12)
}

func TestFlow_LogProbAffine(t *testing.T) {
	backend := cpu.New()
	const logScale, shift = 0.5, 3.0
	constant := func(c float64) bijector.Func[float64, Backend] {
		return func(v *tensor.Tensor[float64, Backend]) (*tensor.Tensor[float64, Backend], error) {
			return tensor.Full[float64](tensor.Shape{v.Shape()[0], 1}, c, v.Backend()), nil
		}
	}
	// y0 = z0 * e^0.5 + 3, y1 = z1.
	layer, err := bijector.NewCoupling(bijector.ParityOdd, "affine", constant(logScale), constant(shift))
	require.NoError(t, err)
	f := flow.NewFlow[float64, Backend](layer, 2, nil, backend)

	y, err := tensor.FromRows([][]float64{{3, 0}, {4, 1}, {-1, 0.5}}, backend)
	require.NoError(t, err)
	logp, err := f.LogProb(y)
	require.NoError(t, err)

	for i, row := range y.Rows() {
		z0 := (row[0] - shift) * math.Exp(-logScale)
		want := stdNormalLogProb(z0) + stdNormalLogProb(row[1]) - logScale
		assert.InDelta(t, want, logp.At(i), 1e-12, "row %d", i)
	}
}

func TestFlow_SampleWithLogProbMatchesLogProb(t *testing.T) {
	backend := cpu.New()
	nvp, err := flow.NewRealNVP[float64](float64Config(3, 4), backend)
	require.NoError(t, err)
	f := flow.NewFlow[float64, Backend](nvp, nvp.Dim(), rand.NewPCG(1, 1), backend)

	y, logpSample, err := f.SampleWithLogProb(64)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{64, 3}, y.Shape())

	logp, err := f.LogProb(y)
	require.NoError(t, err)
	assert.InDeltaSlice(t, logpSample.Data(), logp.Data(), 1e-9)
}

func TestFlow_SampleIsSeeded(t *testing.T) {
	backend := cpu.New()
	nvp, err := flow.NewRealNVP[float32](flow.DefaultConfig(), backend)
	require.NoError(t, err)

	a, err := flow.NewFlow[float32, Backend](nvp, 2, rand.NewPCG(3, 4), backend).Sample(10)
	require.NoError(t, err)
	b, err := flow.NewFlow[float32, Backend](nvp, 2, rand.NewPCG(3, 4), backend).Sample(10)
	require.NoError(t, err)
	assert.Equal(t, a.Data(), b.Data())

	empty, err := flow.NewFlow[float32, Backend](nvp, 2, nil, backend).Sample(0)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{0, 2}, empty.Shape())

	_, err = flow.NewFlow[float32, Backend](nvp, 2, nil, backend).Sample(-1)
	assert.Error(t, err)
}

func TestFlow_LogProbShapeMismatch(t *testing.T) {
	backend := cpu.New()
	f := flow.NewFlow[float64, Backend](bijector.NewChain[float64, Backend]("identity"), 3, nil, backend)

	_, err := f.LogProb(tensor.Zeros[float64](tensor.Shape{4, 2}, backend))
	assert.ErrorIs(t, err, bijector.ErrShapeMismatch)
}
