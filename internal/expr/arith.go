package expr

import (
	"fmt"

	"github.com/born-ml/tenh/internal/embedding"
	"github.com/born-ml/tenh/internal/indices"
	"github.com/born-ml/tenh/internal/tensor"
)

type addNode[T tensor.Scalar] struct {
	left, right Node[T]
	negate      bool
	used        []indices.Symbol
	route       *indices.IndexMap // left free -> right free
}

// Add returns left + right. Both operands must have the same free indices over the
// same spaces, in any order; the result takes the left operand's order.
func (b *Builder[T]) Add(left, right Node[T]) (Node[T], error) {
	return b.add(left, right, false)
}

// Sub returns left - right, with the same index rules as Add.
func (b *Builder[T]) Sub(left, right Node[T]) (Node[T], error) {
	return b.add(left, right, true)
}

func (b *Builder[T]) add(left, right Node[T], negate bool) (Node[T], error) {
	if !left.Free().SameSymbols(right.Free()) {
		return nil, fmt.Errorf("%w: %s and %s", ErrFreeIndexMismatch, left.Free(), right.Free())
	}
	route, err := b.cache.Get(left.Free(), right.Free())
	if err != nil {
		return nil, err
	}
	return &addNode[T]{
		left:   left,
		right:  right,
		negate: negate,
		used:   indices.Union(left.Used(), right.Used()),
		route:  route,
	}, nil
}

func (n *addNode[T]) Free() indices.Axes     { return n.left.Free() }
func (n *addNode[T]) Used() []indices.Symbol { return n.used }
func (n *addNode[T]) children() []Node[T]    { return []Node[T]{n.left, n.right} }

func (n *addNode[T]) String() string {
	op := "+"
	if n.negate {
		op = "-"
	}
	return fmt.Sprintf("(%s %s %s)", n.left, op, n.right)
}

func (n *addNode[T]) eval(m []int) T {
	rm := make([]int, len(m))
	n.route.Apply(m, rm)
	if n.negate {
		return n.left.eval(m) - n.right.eval(rm)
	}
	return n.left.eval(m) + n.right.eval(rm)
}

type scaleNode[T tensor.Scalar] struct {
	operand Node[T]
	factor  T
	divide  bool
}

// Scale returns factor * operand.
func (b *Builder[T]) Scale(operand Node[T], factor T) (Node[T], error) {
	return &scaleNode[T]{operand: operand, factor: factor}, nil
}

// Div returns operand / divisor. A zero divisor fails with embedding.ErrDomain.
func (b *Builder[T]) Div(operand Node[T], divisor T) (Node[T], error) {
	if divisor == 0 {
		return nil, fmt.Errorf("%w: division by zero", embedding.ErrDomain)
	}
	return &scaleNode[T]{operand: operand, factor: divisor, divide: true}, nil
}

// Neg returns -operand.
func (b *Builder[T]) Neg(operand Node[T]) (Node[T], error) {
	return b.Scale(operand, -1)
}

func (n *scaleNode[T]) Free() indices.Axes     { return n.operand.Free() }
func (n *scaleNode[T]) Used() []indices.Symbol { return n.operand.Used() }
func (n *scaleNode[T]) children() []Node[T]    { return []Node[T]{n.operand} }

func (n *scaleNode[T]) String() string {
	if n.divide {
		return fmt.Sprintf("%s/%v", n.operand, n.factor)
	}
	return fmt.Sprintf("%v*%s", n.factor, n.operand)
}

func (n *scaleNode[T]) eval(m []int) T {
	if n.divide {
		return n.operand.eval(m) / n.factor
	}
	return n.factor * n.operand.eval(m)
}
