package expr

import (
	"github.com/born-ml/tenh/internal/indices"
	"github.com/born-ml/tenh/internal/tensor"
)

// Builder constructs expression nodes. Nodes built by one Builder share its index-map
// cache, so equal routing problems are solved once per expression.
type Builder[T tensor.Scalar] struct {
	cache *indices.Cache
}

// NewBuilder returns a builder with an empty cache.
func NewBuilder[T tensor.Scalar]() *Builder[T] {
	return &Builder[T]{cache: indices.NewCache()}
}

// Cache returns the builder's index-map cache.
func (b *Builder[T]) Cache() *indices.Cache { return b.cache }
