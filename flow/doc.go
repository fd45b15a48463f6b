// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package flow builds RealNVP normalizing flows and the distributions they define.
//
// # Basic Usage
//
//	backend := cpu.New()
//	cfg := flow.DefaultConfig() // dim 2, 4 coupling layers, float32
//	model, err := flow.NewRealNVP[float32](cfg, backend)
//
//	dist := flow.NewFlow[float32, *cpu.Backend](model, cfg.Dim, rand.NewPCG(1, 2), backend)
//	samples, err := dist.Sample(128)
//	logp, err := dist.LogProb(samples)
//
// Parameters round-trip through StateDict / LoadStateDict, which the
// realnvp CLI stores as SafeTensors checkpoints.
package flow
