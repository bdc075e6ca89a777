package expr

import (
	"fmt"
	"strings"

	"github.com/born-ml/tenh/internal/embedding"
	"github.com/born-ml/tenh/internal/indices"
	"github.com/born-ml/tenh/internal/space"
	"github.com/born-ml/tenh/internal/tensor"
)

type leafNode[T tensor.Scalar] struct {
	t      *Tensor[T]
	axes   indices.Axes
	free   indices.Axes
	summed indices.Axes
	used   []indices.Symbol

	// rule is nil when the axes address storage directly.
	rule        embedding.Rule
	shape       tensor.Shape
	summedShape tensor.Shape
	route       *indices.IndexMap // free++summed -> axes; nil without summation
}

// Leaf tags t with index symbols.
//
// One symbol addresses t's space as a single axis. k symbols address the k factors of
// the tensor product underlying t's space; for a compacted space (a symmetric power,
// say) the embedding rule then reconstructs every full component. A symbol used twice
// is summed over, so A(i,i) is a trace.
func (b *Builder[T]) Leaf(t *Tensor[T], symbols ...indices.Symbol) (Node[T], error) {
	n := &leafNode[T]{t: t}
	switch {
	case len(symbols) == 1:
		n.axes = indices.Axes{{Space: t.space, Symbol: symbols[0]}}
	case len(symbols) > 1:
		e, ok := t.space.Embedding()
		if !ok || len(e.Product.Factors()) != len(symbols) {
			return nil, fmt.Errorf("%w: %d indices for %s", ErrFactorMismatch, len(symbols), t.space)
		}
		factors := e.Product.Factors()
		n.axes = make(indices.Axes, len(symbols))
		for i, sym := range symbols {
			n.axes[i] = indices.Axis{Space: factors[i], Symbol: sym}
		}
		if t.space.Kind() != space.KindTensorProduct {
			n.rule = e.Rule
		}
	default:
		return nil, fmt.Errorf("%w: no indices for %s", ErrFactorMismatch, t.space)
	}

	a, err := indices.Analyze(n.axes)
	if err != nil {
		return nil, err
	}
	n.free, n.summed = a.Free, a.Summed
	n.used = indices.Union(nil, n.axes.Symbols())
	n.shape = n.axes.Shape()
	n.summedShape = n.summed.Shape()
	if len(n.summed) > 0 {
		n.route, err = b.cache.Get(n.free.Concat(n.summed), n.axes)
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (n *leafNode[T]) Free() indices.Axes     { return n.free }
func (n *leafNode[T]) Used() []indices.Symbol { return n.used }
func (n *leafNode[T]) children() []Node[T]    { return nil }

func (n *leafNode[T]) String() string {
	syms := make([]string, len(n.axes))
	for i, ax := range n.axes {
		syms[i] = string(ax.Symbol)
	}
	return fmt.Sprintf("%s(%s)", n.t.space, strings.Join(syms, ","))
}

// component reads full position j of the leaf's axes.
func (n *leafNode[T]) component(j int) T {
	if n.rule == nil {
		return n.t.data.Get(j)
	}
	if n.rule.IsProceduralZero(j) {
		return 0
	}
	return applyScale(n.rule.ScaleFactor(j), n.t.data.Get(n.rule.SourceIndex(j)))
}

func (n *leafNode[T]) eval(m []int) T {
	if n.route == nil {
		return n.component(tensor.FlatIndex(m, n.shape))
	}
	if n.summedShape.HasZero() {
		return 0
	}
	buf := make([]int, len(m)+len(n.summed))
	copy(buf, m)
	s := buf[len(m):]
	var acc T
	for {
		acc += n.component(n.route.Flat(buf))
		if !tensor.IncrementValues(s, n.summedShape) {
			return acc
		}
	}
}
