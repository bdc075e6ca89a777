// Package interop converts 2-tensors to and from gonum matrices.
//
// A 2-tensor over A⊗B maps onto an A.Dim() x B.Dim() row-major matrix. Tensors
// over compacted 2-tensor spaces (symmetric and exterior squares, diagonals,
// direct sums) convert through their embedding into the full product.
package interop

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/tenh/internal/expr"
	"github.com/born-ml/tenh/internal/indices"
	"github.com/born-ml/tenh/internal/space"
	"github.com/born-ml/tenh/internal/tensor"
)

// ErrNotMatrix is returned when a tensor cannot be laid out as a matrix.
var ErrNotMatrix = errors.New("tensor is not a matrix")

// View returns a matrix sharing t's storage. t must live in a tensor product of two
// factors and be backed by dense storage; writes through the matrix change t.
func View(t *expr.Tensor[float64]) (*mat.Dense, error) {
	s := t.Space()
	if s.Kind() != space.KindTensorProduct || len(s.Factors()) != 2 {
		return nil, fmt.Errorf("%w: %s is not a product of two factors", ErrNotMatrix, s)
	}
	d, ok := t.Storage().(*tensor.Dense[float64])
	if !ok {
		return nil, fmt.Errorf("%w: %s is not dense", ErrNotMatrix, t)
	}
	f := s.Factors()
	rows, cols := f[0].Dim(), f[1].Dim()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrNotMatrix, s)
	}
	return mat.NewDense(rows, cols, d.Data()), nil
}

// ToMatrix returns the full component matrix of a 2-tensor in fresh memory,
// reconstructing compactly stored components through the embedding of t's space.
func ToMatrix(t *expr.Tensor[float64], opts ...expr.AssignOption) (*mat.Dense, error) {
	n, err := expr.NewBuilder[float64]().Leaf(t, "i", "j")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMatrix, err)
	}
	shape := n.Free().Shape()
	if shape.HasZero() {
		return nil, fmt.Errorf("%w: %s is empty", ErrNotMatrix, t.Space())
	}
	return mat.NewDense(shape[0], shape[1], expr.Materialize(n, opts...).Data()), nil
}

// FromMatrix writes m into t. When t's space is compacted, each component is read
// from its representative position in m; m is not checked for the symmetry of the
// space. The write goes through expr.Assign, so a matrix viewing t's own storage is
// rejected with expr.ErrAliasing.
func FromMatrix(m mat.Matrix, t *expr.Tensor[float64], opts ...expr.AssignOption) error {
	e, ok := t.Space().Embedding()
	if !ok || len(e.Product.Factors()) != 2 {
		return fmt.Errorf("%w: %s is not a 2-tensor space", ErrNotMatrix, t.Space())
	}
	f := e.Product.Factors()
	rows, cols := m.Dims()
	if rows != f[0].Dim() || cols != f[1].Dim() {
		return fmt.Errorf("%w: %dx%d matrix for %s", tensor.ErrSizeMismatch, rows, cols, e.Product)
	}
	src, err := expr.NewTensor[float64](e.Product, tensor.Wrap(rowMajor(m)))
	if err != nil {
		return err
	}

	b := expr.NewBuilder[float64]()
	full, err := b.Leaf(src, "i", "j")
	if err != nil {
		return err
	}
	if t.Space().Kind() == space.KindTensorProduct {
		return expr.Assign(t, []indices.Symbol{"i", "j"}, full, opts...)
	}
	compact, err := b.Bundle(full, []indices.Symbol{"i", "j"}, t.Space(), "p")
	if err != nil {
		return err
	}
	return expr.Assign(t, []indices.Symbol{"p"}, compact, opts...)
}

// rowMajor returns m's elements in row-major order, sharing memory with m when it
// is a contiguous *mat.Dense.
func rowMajor(m mat.Matrix) []float64 {
	if d, ok := m.(*mat.Dense); ok {
		raw := d.RawMatrix()
		if raw.Stride == raw.Cols {
			return raw.Data[:raw.Rows*raw.Cols]
		}
	}
	return mat.DenseCopyOf(m).RawMatrix().Data
}
