package expr

import (
	"fmt"

	"github.com/born-ml/tenh/internal/indices"
	"github.com/born-ml/tenh/internal/space"
	"github.com/born-ml/tenh/internal/tensor"
)

// Tensor binds component storage to the space it represents.
//
// The storage is borrowed: expressions built from a Tensor read it at evaluation time
// and never retain it beyond that.
type Tensor[T tensor.Scalar] struct {
	space *space.Space
	data  tensor.Reader[T]
}

// NewTensor binds data to s. The storage size must equal the dimension of s.
func NewTensor[T tensor.Scalar](s *space.Space, data tensor.Reader[T]) (*Tensor[T], error) {
	if s == nil || data == nil {
		return nil, fmt.Errorf("%w: nil space or storage", space.ErrInvalidSpace)
	}
	if !s.HasBasis() {
		return nil, fmt.Errorf("%w: %s has no basis", space.ErrInvalidSpace, s)
	}
	if data.Size() != s.Dim() {
		return nil, fmt.Errorf("%w: %d components for %s of dimension %d", tensor.ErrSizeMismatch, data.Size(), s, s.Dim())
	}
	return &Tensor[T]{space: s, data: data}, nil
}

// Zeros returns a tensor over s backed by fresh zeroed dense storage.
func Zeros[T tensor.Scalar](s *space.Space) (*Tensor[T], error) {
	return NewTensor[T](s, tensor.NewDense[T](s.Dim()))
}

// Space returns the space the tensor lives in.
func (t *Tensor[T]) Space() *space.Space { return t.space }

// Storage returns the component storage.
func (t *Tensor[T]) Storage() tensor.Reader[T] { return t.data }

// Index tags the tensor with abstract index symbols, producing a leaf expression.
// See Builder.Leaf.
func (t *Tensor[T]) Index(symbols ...indices.Symbol) (Node[T], error) {
	return NewBuilder[T]().Leaf(t, symbols...)
}

func (t *Tensor[T]) String() string { return fmt.Sprintf("tensor(%s)", t.space) }
