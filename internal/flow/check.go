package flow

import (
	"context"
	"fmt"
	"math"

	"k8s.io/klog/v2"

	"github.com/born-ml/realnvp/internal/bijector"
	"github.com/born-ml/realnvp/internal/parallel"
	"github.com/born-ml/realnvp/internal/tensor"
)

// RoundTripReport summarizes CheckRoundTrip over all batches.
type RoundTripReport struct {
	Batches          int     // Number of batches checked
	Rows             int     // Total rows checked
	MaxInverseErr    float64 // max |Inverse(Forward(x)) - x|
	MaxLogDetErr     float64 // max |ForwardLogDetJacobian(x) + InverseLogDetJacobian(Forward(x))|
	WorstBatch       int     // Batch holding the larger of the two maxima
	Tolerance        float64
	ExceedsTolerance bool
}

// MaxErr returns the larger of the inverse and log-determinant errors.
func (r RoundTripReport) MaxErr() float64 {
	return max(r.MaxInverseErr, r.MaxLogDetErr)
}

// CheckRoundTrip verifies Inverse(Forward(x)) == x and
// ForwardLogDetJacobian(x) == -InverseLogDetJacobian(Forward(x)) for every
// batch, evaluating batches concurrently under cfg.
//
// Returns the report and an error wrapping ErrRoundTrip if any error exceeds tol.
// Bijector errors and context cancellation abort the check.
func CheckRoundTrip[T tensor.Float, B tensor.Backend](ctx context.Context, b bijector.Bijector[T, B], batches []*tensor.Tensor[T, B], tol float64, cfg parallel.Config) (RoundTripReport, error) {
	type result struct {
		inverseErr float64
		logDetErr  float64
	}
	results := make([]result, len(batches))

	err := parallel.ForEach(ctx, len(batches), func(_ context.Context, i int) error {
		x := batches[i]
		y, err := b.Forward(x)
		if err != nil {
			return fmt.Errorf("batch %d: forward: %w", i, err)
		}
		back, err := b.Inverse(y)
		if err != nil {
			return fmt.Errorf("batch %d: inverse: %w", i, err)
		}
		fldj, err := b.ForwardLogDetJacobian(x)
		if err != nil {
			return fmt.Errorf("batch %d: forward log-det: %w", i, err)
		}
		ildj, err := b.InverseLogDetJacobian(y)
		if err != nil {
			return fmt.Errorf("batch %d: inverse log-det: %w", i, err)
		}

		results[i] = result{
			inverseErr: maxAbsDiff(x.Data(), back.Data()),
			logDetErr:  maxAbsDiff(fldj.Data(), ildj.Neg().Data()),
		}
		klog.V(2).Infof("Round trip batch %d: rows=%d inverse_err=%g logdet_err=%g",
			i, x.Shape()[0], results[i].inverseErr, results[i].logDetErr)
		return nil
	}, cfg)
	if err != nil {
		return RoundTripReport{}, err
	}

	report := RoundTripReport{Batches: len(batches), Tolerance: tol}
	worst := -1.0
	for i, r := range results {
		report.Rows += batches[i].Shape()[0]
		report.MaxInverseErr = max(report.MaxInverseErr, r.inverseErr)
		report.MaxLogDetErr = max(report.MaxLogDetErr, r.logDetErr)
		if e := max(r.inverseErr, r.logDetErr); e > worst {
			worst, report.WorstBatch = e, i
		}
	}

	// NaN compares false against tol, so test the negation.
	if !(report.MaxErr() <= tol) {
		report.ExceedsTolerance = true
		return report, fmt.Errorf("%w: max error %g in batch %d exceeds tolerance %g",
			ErrRoundTrip, report.MaxErr(), report.WorstBatch, tol)
	}
	return report, nil
}

func maxAbsDiff[T tensor.Float](a, b []T) float64 {
	m := 0.0
	for i := range a {
		d := math.Abs(float64(a[i]) - float64(b[i]))
		if math.IsNaN(d) {
			return math.NaN()
		}
		m = max(m, d)
	}
	return m
}
