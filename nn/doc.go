// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the neural network layers used as coupling conditioners.
//
// # Overview
//
// This package contains:
//   - Layers: Linear
//   - Activations: Tanh, ReLU
//   - Containers: Sequential, NewMLP
//   - Utilities: Module interface, Parameter, Xavier initialization
//
// # Basic Usage
//
//	backend := cpu.New()
//	src := rand.NewPCG(1, 2)
//
//	// 1 pass-through feature -> 25 hidden units -> 1 log-scale
//	scale, err := nn.NewMLP[float32](1, []int{25}, 1, "tanh", src, backend)
//	shift, err := nn.NewMLP[float32](1, []int{25}, 1, "tanh", src, backend)
//
//	layer, err := bijector.NewCoupling(bijector.ParityOdd, "coupling_1",
//	    bijector.FromModule[float32, *cpu.Backend](scale),
//	    bijector.FromModule[float32, *cpu.Backend](shift))
package nn
