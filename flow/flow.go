// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package flow

import (
	"context"
	"math/rand/v2"

	"github.com/born-ml/realnvp/internal/bijector"
	"github.com/born-ml/realnvp/internal/flow"
	"github.com/born-ml/realnvp/internal/parallel"
	"github.com/born-ml/realnvp/internal/tensor"
)

// Config describes a RealNVP flow.
type Config = flow.Config

// RealNVP is a chain of affine coupling layers with MLP conditioners.
type RealNVP[T tensor.Float, B tensor.Backend] = flow.RealNVP[T, B]

// Flow is the distribution of a bijector applied to a standard normal.
type Flow[T tensor.Float, B tensor.Backend] = flow.Flow[T, B]

// RoundTripReport summarizes CheckRoundTrip.
type RoundTripReport = flow.RoundTripReport

// ParallelConfig controls how many batches CheckRoundTrip evaluates at once.
type ParallelConfig = parallel.Config

// Errors.
var (
	ErrInvalidConfig = flow.ErrInvalidConfig
	ErrDTypeMismatch = flow.ErrDTypeMismatch
	ErrRoundTrip     = flow.ErrRoundTrip
)

// DefaultConfig returns a small two-dimensional flow config.
func DefaultConfig() Config {
	return flow.DefaultConfig()
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	return flow.LoadConfig(path)
}

// ParseConfig decodes a YAML config.
func ParseConfig(data []byte) (Config, error) {
	return flow.ParseConfig(data)
}

// NewRealNVP builds a flow from cfg. T must match cfg.DType.
func NewRealNVP[T tensor.Float, B tensor.Backend](cfg Config, backend B) (*RealNVP[T, B], error) {
	return flow.NewRealNVP[T](cfg, backend)
}

// NewFlow wraps b into a distribution over [batch, dim] tensors.
func NewFlow[T tensor.Float, B tensor.Backend](b bijector.Bijector[T, B], dim int, src rand.Source, backend B) *Flow[T, B] {
	return flow.NewFlow(b, dim, src, backend)
}

// CheckRoundTrip verifies that b inverts itself on every batch.
func CheckRoundTrip[T tensor.Float, B tensor.Backend](ctx context.Context, b bijector.Bijector[T, B], batches []*tensor.Tensor[T, B], tol float64, cfg ParallelConfig) (RoundTripReport, error) {
	return flow.CheckRoundTrip(ctx, b, batches, tol, cfg)
}
