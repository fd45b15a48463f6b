// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package bijector provides invertible transforms with tractable Jacobian
// log-determinants, the building blocks of normalizing flows.
//
// # Coupling layers
//
// A Coupling splits the D features of each row with a parity mask. The
// pass-through features are copied unchanged; the others are scaled and
// shifted by functions of the pass-through features:
//
//	y[pass]        = x[pass]
//	y[transformed] = x[transformed] * exp(s(x[pass])) + t(x[pass])
//
// The Jacobian is triangular, so log|det J| is the row sum of s and the
// inverse needs no inversion of s or t.
//
// # Basic Usage
//
//	backend := cpu.New()
//	scale := bijector.Elementwise[float32, *cpu.Backend](func(v float32) float32 { return 3*v - 2 })
//	shift := bijector.Elementwise[float32, *cpu.Backend](func(v float32) float32 { return 5*v*v - 2 })
//
//	odd, err := bijector.NewCoupling(bijector.ParityOdd, "coupling_1", scale, shift)
//	even, err := bijector.NewCoupling(bijector.ParityEven, "coupling_2", scale, shift)
//	flow := bijector.NewChain("real_nvp", odd, even)
//
//	y, err := flow.Forward(x)
//	ldj, err := flow.ForwardLogDetJacobian(x)
package bijector
