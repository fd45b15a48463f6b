package flow_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/realnvp/internal/backend/cpu"
	"github.com/born-ml/realnvp/internal/bijector"
	"github.com/born-ml/realnvp/internal/flow"
	"github.com/born-ml/realnvp/internal/parallel"
	"github.com/born-ml/realnvp/internal/tensor"
)

func randomBatches(n, rows, dim int, backend Backend) []*tensor.Tensor[float64, Backend] {
	src := rand.NewPCG(17, 19)
	batches := make([]*tensor.Tensor[float64, Backend], n)
	for i := range batches {
		batches[i] = tensor.Randn[float64](tensor.Shape{rows, dim}, src, backend)
	}
	return batches
}

// leaky is a broken bijector whose inverse forgets the shift.
type leaky struct{}

func (leaky) Name() string { return "leaky" }

func (leaky) Forward(x *tensor.Tensor[float64, Backend]) (*tensor.Tensor[float64, Backend], error) {
	return x.AddScalar(0.1), nil
}

func (leaky) Inverse(y *tensor.Tensor[float64, Backend]) (*tensor.Tensor[float64, Backend], error) {
	return y.Clone(), nil
}

func (leaky) ForwardLogDetJacobian(x *tensor.Tensor[float64, Backend]) (*tensor.Tensor[float64, Backend], error) {
	return tensor.Zeros[float64](tensor.Shape{x.Shape()[0]}, x.Backend()), nil
}

func (l leaky) InverseLogDetJacobian(y *tensor.Tensor[float64, Backend]) (*tensor.Tensor[float64, Backend], error) {
	return l.ForwardLogDetJacobian(y)
}

func TestCheckRoundTrip(t *testing.T) {
	backend := cpu.New()
	nvp, err := flow.NewRealNVP[float64](float64Config(4, 6), backend)
	require.NoError(t, err)
	batches := randomBatches(12, 16, 4, backend)

	cfg := parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}
	report, err := flow.CheckRoundTrip[float64, Backend](context.Background(), nvp, batches, 1e-9, cfg)
	require.NoError(t, err)
	assert.Equal(t, 12, report.Batches)
	assert.Equal(t, 12*16, report.Rows)
	assert.False(t, report.ExceedsTolerance)
	assert.Less(t, report.MaxErr(), 1e-9)

	sequential, err := flow.CheckRoundTrip[float64, Backend](context.Background(), nvp, batches, 1e-9, parallel.Sequential())
	require.NoError(t, err)
	assert.Equal(t, report, sequential)
}

func TestCheckRoundTrip_ExceedsTolerance(t *testing.T) {
	backend := cpu.New()
	batches := randomBatches(3, 4, 2, backend)

	report, err := flow.CheckRoundTrip[float64, Backend](context.Background(), leaky{}, batches, 1e-6, parallel.DefaultConfig())
	require.ErrorIs(t, err, flow.ErrRoundTrip)
	assert.True(t, report.ExceedsTolerance)
	assert.InDelta(t, 0.1, report.MaxInverseErr, 1e-12)
	assert.Zero(t, report.MaxLogDetErr)
}

func TestCheckRoundTrip_Errors(t *testing.T) {
	backend := cpu.New()
	nvp, err := flow.NewRealNVP[float64](float64Config(4, 2), backend)
	require.NoError(t, err)

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := flow.CheckRoundTrip[float64, Backend](ctx, nvp, randomBatches(4, 2, 4, backend), 1e-9, parallel.DefaultConfig())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("BijectorError", func(t *testing.T) {
		errEval := errors.New("scale failed")
		failing := func(*tensor.Tensor[float64, Backend]) (*tensor.Tensor[float64, Backend], error) {
			return nil, errEval
		}
		layer, err := bijector.NewCoupling(bijector.ParityOdd, "failing", failing, failing)
		require.NoError(t, err)

		_, err = flow.CheckRoundTrip[float64, Backend](context.Background(), layer, randomBatches(2, 2, 4, backend), 1e-9, parallel.DefaultConfig())
		assert.ErrorIs(t, err, errEval)
		assert.NotErrorIs(t, err, flow.ErrRoundTrip)
	})

	t.Run("ShapeError", func(t *testing.T) {
		bad := []*tensor.Tensor[float64, Backend]{tensor.Zeros[float64](tensor.Shape{4}, backend)}
		_, err := flow.CheckRoundTrip[float64, Backend](context.Background(), nvp, bad, 1e-9, parallel.DefaultConfig())
		assert.ErrorIs(t, err, bijector.ErrShapeMismatch)
	})
}
