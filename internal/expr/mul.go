package expr

import (
	"fmt"

	"github.com/born-ml/tenh/internal/indices"
	"github.com/born-ml/tenh/internal/space"
	"github.com/born-ml/tenh/internal/tensor"
)

// Weight returns the factor a summed term picks up for one summed axis, given the
// axis space and the component being summed over.
type Weight[T tensor.Scalar] func(s *space.Space, component int) T

// MulOption configures a product node.
type MulOption[T tensor.Scalar] func(*mulNode[T])

// WithSummationWeight multiplies every summed term by the product of w over the
// summed axes. Without it, terms are summed unweighted.
func WithSummationWeight[T tensor.Scalar](w Weight[T]) MulOption[T] {
	return func(n *mulNode[T]) { n.weight = w }
}

type mulNode[T tensor.Scalar] struct {
	left, right Node[T]
	free        indices.Axes
	summed      indices.Axes
	used        []indices.Symbol
	summedShape tensor.Shape
	leftRoute   *indices.IndexMap // free++summed -> left free
	rightRoute  *indices.IndexMap // free++summed -> right free
	weight      Weight[T]
}

// Mul returns the product of left and right. Free symbols shared by both operands are
// contracted: each pair must be a space and its dual, and is summed over in row-major
// order. With no shared symbols the result is the outer product.
func (b *Builder[T]) Mul(left, right Node[T], opts ...MulOption[T]) (Node[T], error) {
	if err := indices.CheckCollisions(scope(left), scope(right)); err != nil {
		return nil, err
	}
	a, err := indices.Analyze(left.Free().Concat(right.Free()))
	if err != nil {
		return nil, err
	}
	n := &mulNode[T]{
		left:        left,
		right:       right,
		free:        a.Free,
		summed:      a.Summed,
		used:        indices.Union(left.Used(), right.Used()),
		summedShape: a.Summed.Shape(),
	}
	combined := a.Free.Concat(a.Summed)
	if n.leftRoute, err = b.cache.Get(combined, left.Free()); err != nil {
		return nil, err
	}
	if n.rightRoute, err = b.cache.Get(combined, right.Free()); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

func (n *mulNode[T]) Free() indices.Axes     { return n.free }
func (n *mulNode[T]) Used() []indices.Symbol { return n.used }
func (n *mulNode[T]) children() []Node[T]    { return []Node[T]{n.left, n.right} }

func (n *mulNode[T]) String() string {
	return fmt.Sprintf("%s*%s", n.left, n.right)
}

func (n *mulNode[T]) eval(m []int) T {
	if n.summedShape.HasZero() {
		return 0
	}
	buf := make([]int, len(m)+len(n.summed))
	copy(buf, m)
	s := buf[len(m):]
	lm := make([]int, len(n.left.Free()))
	rm := make([]int, len(n.right.Free()))

	var acc T
	for {
		n.leftRoute.Apply(buf, lm)
		n.rightRoute.Apply(buf, rm)
		term := n.left.eval(lm) * n.right.eval(rm)
		if n.weight != nil {
			for k, ax := range n.summed {
				term *= n.weight(ax.Space, s[k])
			}
		}
		acc += term
		if !tensor.IncrementValues(s, n.summedShape) {
			return acc
		}
	}
}
