// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package bijector_test

import (
	"fmt"

	"github.com/born-ml/realnvp/backend/cpu"
	"github.com/born-ml/realnvp/bijector"
	"github.com/born-ml/realnvp/tensor"
)

func ExampleNewCoupling() {
	backend := cpu.New()
	scale := bijector.Elementwise[float32, *cpu.Backend](func(v float32) float32 { return 3*v - 2 })
	shift := bijector.Elementwise[float32, *cpu.Backend](func(v float32) float32 { return 5*v*v - 2 })

	layer, err := bijector.NewCoupling(bijector.ParityOdd, "coupling_1", scale, shift)
	if err != nil {
		panic(err)
	}

	x, _ := tensor.FromRows([][]float32{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, backend)
	y, _ := layer.Forward(x)
	for _, row := range y.Rows() {
		fmt.Printf("%.4f %.0f\n", row[0], row[1])
	}
	// Output:
	// -2.0000 0
	// 3.0000 1
	// -1.8647 0
	// 5.7183 1
}

func ExampleMaskFor() {
	backend := cpu.New()
	fmt.Println(bijector.MaskFor[float32](bijector.ParityOdd, 2, backend).Data())
	fmt.Println(bijector.MaskFor[float64](bijector.ParityEven, 2, backend).Data())
	// Output:
	// [0 1]
	// [1 0]
}
