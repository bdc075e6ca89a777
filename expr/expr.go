// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package expr builds and evaluates tensor expressions in abstract index
// notation.
//
// Leaves tag a tensor's factors with index symbols. A symbol that appears
// once is free; a symbol that appears twice on naturally paired factors
// (a space and its dual) is summed:
//
//	v, _ := space.NewVectorSpace("V", 3, tensor.Real)
//	m, _ := space.TensorProduct(v, v.Dual())
//	a, _ := expr.NewTensor[float64](m, tensor.FromSlice(components))
//	x, _ := expr.NewTensor[float64](v, tensor.FromSlice([]float64{1, 0, 0}))
//	y, _ := expr.Zeros[float64](v)
//
//	b := expr.NewBuilder[float64]()
//	ax := expr.Must(b.Mul(expr.Must(b.Leaf(a, "i", "j")), expr.Must(b.Leaf(x, "j"))))
//	err := expr.Assign(y, []expr.Symbol{"i"}, ax)
//
// Assignments reject targets that alias an operand, so write transposes and
// other permutations into a fresh tensor.
package expr

import (
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/tenh/internal/embedding"
	"github.com/born-ml/tenh/internal/expr"
	"github.com/born-ml/tenh/internal/indices"
	"github.com/born-ml/tenh/internal/interop"
	"github.com/born-ml/tenh/internal/parallel"
	"github.com/born-ml/tenh/space"
	"github.com/born-ml/tenh/tensor"
)

// Symbol is an abstract index name.
type Symbol = indices.Symbol

// Axis is a free index together with the space it ranges over.
type Axis = indices.Axis

// Axes is an ordered list of free indices.
type Axes = indices.Axes

// Node is an immutable expression-tree node.
type Node[T tensor.Scalar] = expr.Node[T]

// Tensor binds component storage to a space.
type Tensor[T tensor.Scalar] = expr.Tensor[T]

// Builder constructs expression nodes and shares index maps between them.
type Builder[T tensor.Scalar] = expr.Builder[T]

// Weight returns the pairing weight of a summed component.
type Weight[T tensor.Scalar] = expr.Weight[T]

// MulOption configures a product.
type MulOption[T tensor.Scalar] = expr.MulOption[T]

// AssignOption configures Assign and Materialize.
type AssignOption = expr.AssignOption

// ParallelConfig controls the fan-out of assignment loops.
type ParallelConfig = parallel.Config

// Errors.
var (
	ErrFreeIndexMismatch   = expr.ErrFreeIndexMismatch
	ErrNonScalarExpression = expr.ErrNonScalarExpression
	ErrAliasing            = expr.ErrAliasing
	ErrFactorMismatch      = expr.ErrFactorMismatch
	ErrUnknownIndex        = indices.ErrUnknownIndex
	ErrRepeatedIndex       = indices.ErrRepeatedIndex
	ErrNonNaturalPairing   = indices.ErrNonNaturalPairing
	ErrDivisionByZero      = embedding.ErrDomain
	ErrNotMatrix           = interop.ErrNotMatrix
)

// NewTensor binds data to s. The storage size must equal the dimension of s.
func NewTensor[T tensor.Scalar](s *space.Space, data tensor.Reader[T]) (*Tensor[T], error) {
	return expr.NewTensor(s, data)
}

// Zeros returns a tensor over s backed by zeroed dense storage.
func Zeros[T tensor.Scalar](s *space.Space) (*Tensor[T], error) {
	return expr.Zeros[T](s)
}

// NewBuilder returns a Builder with an empty index-map cache.
func NewBuilder[T tensor.Scalar]() *Builder[T] {
	return expr.NewBuilder[T]()
}

// Must panics if err is non-nil and returns n otherwise.
func Must[T tensor.Scalar](n Node[T], err error) Node[T] {
	return expr.Must(n, err)
}

// WithSummationWeight weights each summed component by w.
func WithSummationWeight[T tensor.Scalar](w Weight[T]) MulOption[T] {
	return expr.WithSummationWeight(w)
}

// WithParallel fans assignment loops out over worker goroutines.
func WithParallel(cfg ParallelConfig) AssignOption {
	return expr.WithParallel(cfg)
}

// DefaultParallel returns a parallel configuration sized to the machine.
func DefaultParallel() ParallelConfig {
	return parallel.DefaultConfig()
}

// Evaluate returns the component of n at a multi-index over its free axes.
func Evaluate[T tensor.Scalar](n Node[T], m *tensor.MultiIndex) (T, error) {
	return expr.Evaluate(n, m)
}

// EvaluateScalar returns the value of an expression with no free indices.
func EvaluateScalar[T tensor.Scalar](n Node[T]) (T, error) {
	return expr.EvaluateScalar(n)
}

// Materialize evaluates every component of n into dense storage.
func Materialize[T tensor.Scalar](n Node[T], opts ...AssignOption) *tensor.Dense[T] {
	return expr.Materialize(n, opts...)
}

// Assign writes n into target, whose factors are tagged by symbols.
func Assign[T tensor.Scalar](target *Tensor[T], symbols []Symbol, n Node[T], opts ...AssignOption) error {
	return expr.Assign(target, symbols, n, opts...)
}

// MatrixView returns a matrix sharing the storage of a dense tensor over a product
// of two factors.
func MatrixView(t *Tensor[float64]) (*mat.Dense, error) {
	return interop.View(t)
}

// ToMatrix returns the full component matrix of a 2-tensor.
func ToMatrix(t *Tensor[float64], opts ...AssignOption) (*mat.Dense, error) {
	return interop.ToMatrix(t, opts...)
}

// FromMatrix writes m into the 2-tensor t, bundling into t's space when it is
// compacted. m is not checked for the symmetry of t's space.
func FromMatrix(m mat.Matrix, t *Tensor[float64], opts ...AssignOption) error {
	return interop.FromMatrix(m, t, opts...)
}
