package bijector_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/realnvp/internal/backend/cpu"
	"github.com/born-ml/realnvp/internal/bijector"
	"github.com/born-ml/realnvp/internal/nn"
	"github.com/born-ml/realnvp/internal/tensor"
)

func newMLPCoupling(t *testing.T, parity bijector.Parity, dim int, src rand.Source, backend Backend) *bijector.Coupling[float64, Backend] {
	t.Helper()
	pass, transformed := parity.Partition(dim)
	scale, err := nn.NewMLP[float64](len(pass), []int{8}, len(transformed), "tanh", src, backend)
	require.NoError(t, err)
	shift, err := nn.NewMLP[float64](len(pass), []int{8}, len(transformed), "tanh", src, backend)
	require.NoError(t, err)

	c, err := bijector.NewCoupling(parity, "coupling_"+parity.String(),
		bijector.FromModule[float64, Backend](scale),
		bijector.FromModule[float64, Backend](shift))
	require.NoError(t, err)
	return c
}

// numericalLogDet differentiates b.Forward at a single row.
func numericalLogDet(t *testing.T, b bijector.Bijector[float64, Backend], row []float64, backend Backend) float64 {
	t.Helper()
	dim := len(row)
	f := func(y, x []float64) {
		in, err := tensor.FromSlice(append([]float64(nil), x...), tensor.Shape{1, dim}, backend)
		require.NoError(t, err)
		out, err := b.Forward(in)
		require.NoError(t, err)
		copy(y, out.Data())
	}

	jac := mat.NewDense(dim, dim, nil)
	fd.Jacobian(jac, f, row, &fd.JacobianSettings{Formula: fd.Central})

	logDet, sign := mat.LogDet(jac)
	require.Positive(t, sign, "coupling Jacobians have a positive determinant")
	return logDet
}

func TestCoupling_LogDetMatchesNumericalJacobian(t *testing.T) {
	backend := cpu.New()
	src := rand.NewPCG(42, 7)

	for _, dim := range []int{2, 3, 6} {
		for _, parity := range []bijector.Parity{bijector.ParityOdd, bijector.ParityEven} {
			layer := newMLPCoupling(t, parity, dim, src, backend)
			x := tensor.Randn[float64](tensor.Shape{5, dim}, src, backend)

			ldj, err := layer.ForwardLogDetJacobian(x)
			require.NoError(t, err)

			for i, row := range x.Rows() {
				want := numericalLogDet(t, layer, row, backend)
				assert.InDelta(t, want, ldj.At(i), 1e-6, "dim=%d %s row %d", dim, parity, i)
			}
		}
	}
}

func TestChain_LogDetMatchesNumericalJacobian(t *testing.T) {
	backend := cpu.New()
	src := rand.NewPCG(1, 2)
	const dim = 4

	chain := bijector.NewChain[float64, Backend]("real_nvp",
		newMLPCoupling(t, bijector.ParityOdd, dim, src, backend),
		newMLPCoupling(t, bijector.ParityEven, dim, src, backend),
		newMLPCoupling(t, bijector.ParityOdd, dim, src, backend),
	)
	x := tensor.Randn[float64](tensor.Shape{3, dim}, src, backend)

	ldj, err := chain.ForwardLogDetJacobian(x)
	require.NoError(t, err)
	for i, row := range x.Rows() {
		want := numericalLogDet(t, chain, row, backend)
		assert.InDelta(t, want, ldj.At(i), 1e-6, "row %d", i)
	}
}
