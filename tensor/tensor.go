// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/tenh/internal/tensor"
)

// Scalar is a constraint for component types: float32, float64, complex64, complex128.
type Scalar = tensor.Scalar

// DataType represents the runtime type of component storage.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32    DataType = tensor.Float32
	Float64    DataType = tensor.Float64
	Complex64  DataType = tensor.Complex64
	Complex128 DataType = tensor.Complex128
)

// Field identifies the scalar field a space is declared over.
type Field = tensor.Field

// Field constants.
const (
	Real    Field = tensor.Real
	Complex Field = tensor.Complex
)

// Shape lists the dimension of each factor.
// Example: Shape{2, 3} is the product of a 2- and a 3-dimensional space.
type Shape = tensor.Shape

// ComponentIndex is a component number checked against its dimension.
type ComponentIndex = tensor.ComponentIndex

// MultiIndex is a row-major cursor over the components of a Shape.
type MultiIndex = tensor.MultiIndex

// Reader is read-only component storage.
type Reader[T Scalar] = tensor.Reader[T]

// Storage is writable component storage.
type Storage[T Scalar] = tensor.Storage[T]

// Dense is contiguous in-memory storage.
type Dense[T Scalar] = tensor.Dense[T]

// Procedural computes components on demand.
type Procedural[T Scalar] = tensor.Procedural[T]

// Errors.
var (
	ErrIndexOutOfRange = tensor.ErrIndexOutOfRange
	ErrSizeMismatch    = tensor.ErrSizeMismatch
	ErrReadOnly        = tensor.ErrReadOnly
)

// NewComponentIndex checks 0 <= value < dim.
func NewComponentIndex(value, dim int) (ComponentIndex, error) {
	return tensor.NewComponentIndex(value, dim)
}

// NewMultiIndex returns a multi-index at the first component of shape.
func NewMultiIndex(shape Shape) *MultiIndex {
	return tensor.NewMultiIndex(shape)
}

// MultiIndexFromFlat returns the multi-index at row-major position n.
func MultiIndexFromFlat(n int, shape Shape) (*MultiIndex, error) {
	return tensor.FromFlat(n, shape)
}

// MultiIndexOf returns the multi-index with the given per-factor values.
func MultiIndexOf(shape Shape, values ...int) (*MultiIndex, error) {
	return tensor.FromValues(shape, values...)
}

// ConcatMultiIndex joins two multi-indices into one over the concatenated shape.
func ConcatMultiIndex(a, b *MultiIndex) *MultiIndex {
	return tensor.Concat(a, b)
}

// NewDense allocates zeroed dense storage.
func NewDense[T Scalar](size int) *Dense[T] {
	return tensor.NewDense[T](size)
}

// FromSlice copies data into dense storage.
func FromSlice[T Scalar](data []T) *Dense[T] {
	return tensor.FromSlice(data)
}

// Wrap uses data as dense storage without copying.
func Wrap[T Scalar](data []T) *Dense[T] {
	return tensor.Wrap(data)
}

// NewProcedural returns storage whose component i is fn(i).
func NewProcedural[T Scalar](size int, fn func(i int) T) *Procedural[T] {
	return tensor.NewProcedural(size, fn)
}

// Zero returns storage that is identically zero.
func Zero[T Scalar](size int) *Procedural[T] {
	return tensor.Zero[T](size)
}

// Constant returns storage whose every component is v.
func Constant[T Scalar](size int, v T) *Procedural[T] {
	return tensor.Constant(size, v)
}

// BasisVector returns the k-th standard basis vector.
func BasisVector[T Scalar](size, k int) (*Procedural[T], error) {
	return tensor.BasisVector[T](size, k)
}
