// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/tenh/expr"
	"github.com/born-ml/tenh/space"
	"github.com/born-ml/tenh/tensor"
)

func TestMatrixVector(t *testing.T) {
	v, err := space.NewVectorSpace("V", 3, tensor.Real)
	require.NoError(t, err)
	m := space.MustTensorProduct(v, v.Dual())

	a, err := expr.NewTensor[float64](m, tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9}))
	require.NoError(t, err)
	x, err := expr.NewTensor[float64](v, tensor.FromSlice([]float64{1, 0, -1}))
	require.NoError(t, err)
	y, err := expr.Zeros[float64](v)
	require.NoError(t, err)

	b := expr.NewBuilder[float64]()
	ax := expr.Must(b.Mul(expr.Must(b.Leaf(a, "i", "j")), expr.Must(b.Leaf(x, "j"))))
	require.NoError(t, expr.Assign(y, []expr.Symbol{"i"}, ax, expr.WithParallel(expr.DefaultParallel())))
	assert.Equal(t, []float64{-2, -2, -2}, y.Storage().(*tensor.Dense[float64]).Data())

	tr, err := expr.EvaluateScalar(expr.Must(b.Leaf(a, "k", "k")))
	require.NoError(t, err)
	assert.Equal(t, 15.0, tr)

	err = expr.Assign(x, []expr.Symbol{"j"}, expr.Must(b.Leaf(x, "j")))
	assert.ErrorIs(t, err, expr.ErrAliasing)

	_, err = b.Mul(expr.Must(b.Leaf(x, "i")), expr.Must(b.Leaf(x, "i")))
	assert.ErrorIs(t, err, expr.ErrNonNaturalPairing)

	_, err = b.Div(expr.Must(b.Leaf(x, "i")), 0)
	assert.ErrorIs(t, err, expr.ErrDivisionByZero)
}

func TestMatrixInterop(t *testing.T) {
	v, err := space.NewVectorSpace("V", 2, tensor.Real)
	require.NoError(t, err)
	sym, err := space.SymmetricPower(2, v)
	require.NoError(t, err)
	g, err := expr.Zeros[float64](sym)
	require.NoError(t, err)

	require.NoError(t, expr.FromMatrix(mat.NewDense(2, 2, []float64{2, 1, 1, 3}), g))
	assert.Equal(t, []float64{2, 1, 3}, g.Storage().(*tensor.Dense[float64]).Data())

	full, err := expr.ToMatrix(g)
	require.NoError(t, err)
	assert.Equal(t, 1.0, full.At(1, 0))

	_, err = expr.MatrixView(g)
	assert.ErrorIs(t, err, expr.ErrNotMatrix)

	a, err := expr.Zeros[float64](space.MustTensorProduct(v, v))
	require.NoError(t, err)
	view, err := expr.MatrixView(a)
	require.NoError(t, err)
	view.Set(1, 0, 7)
	assert.Equal(t, []float64{0, 0, 7, 0}, a.Storage().(*tensor.Dense[float64]).Data())
}
