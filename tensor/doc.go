// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the component-level building blocks of tenh:
// multi-indices over row-major factor shapes and component storage.
//
// # Multi-indices
//
// A MultiIndex walks every component of a product of factor dimensions in
// row-major order (last factor varies fastest) and ends at a sentinel:
//
//	m := tensor.NewMultiIndex(tensor.Shape{2, 3})
//	for ; !m.AtEnd(); m.Increment() {
//	    fmt.Println(m.Values(), m.Flat())
//	}
//
// # Storage
//
// Tensors read components through Reader. Dense keeps them in a slice and
// can be written; Procedural computes them on demand:
//
//	d := tensor.FromSlice([]float64{1, 2, 3})
//	e, _ := tensor.BasisVector[float64](3, 1) // 0, 1, 0
//
// # Supported Data Types
//
//   - float32, float64 over the real field
//   - complex64, complex128 over the complex field
package tensor
