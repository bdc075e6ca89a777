package expr

import (
	"fmt"
	"slices"
	"strings"

	"github.com/born-ml/tenh/internal/embedding"
	"github.com/born-ml/tenh/internal/indices"
	"github.com/born-ml/tenh/internal/space"
	"github.com/born-ml/tenh/internal/tensor"
)

type bundleNode[T tensor.Scalar] struct {
	operand Node[T]
	symbols []indices.Symbol
	target  *space.Space
	rule    embedding.Rule
	free    indices.Axes
	used    []indices.Symbol
	product tensor.Shape
	route   *indices.IndexMap // rest++bundled -> operand free
}

// Bundle collapses the free axes named by symbols into a single axis over target,
// tagged as. The named axes must be, in order, the factors of the tensor product
// target embeds into. The new axis is appended after the remaining free axes.
//
// Component p of the result reads the operand at the representative full position of
// p, so bundling is exact when the operand already has target's symmetry.
func (b *Builder[T]) Bundle(operand Node[T], symbols []indices.Symbol, target *space.Space, as indices.Symbol) (Node[T], error) {
	e, ok := target.Embedding()
	if !ok || len(e.Product.Factors()) != len(symbols) {
		return nil, fmt.Errorf("%w: cannot bundle %d indices into %s", ErrFactorMismatch, len(symbols), target)
	}
	free := operand.Free()
	bundled := make(indices.Axes, len(symbols))
	for i, f := range e.Product.Factors() {
		p := free.IndexOf(symbols[i])
		if p < 0 {
			return nil, fmt.Errorf("%w: %q is not free in %s", ErrUnknownIndex, symbols[i], operand)
		}
		if !free[p].Space.Equal(f) {
			return nil, fmt.Errorf("%w: %q is over %s, %s needs %s", ErrFactorMismatch, symbols[i], free[p].Space, target, f)
		}
		if slices.Contains(symbols[:i], symbols[i]) {
			return nil, fmt.Errorf("%w: %q bundled twice", indices.ErrRepeatedIndex, symbols[i])
		}
		bundled[i] = free[p]
	}
	if slices.Contains(operand.Used(), as) {
		return nil, fmt.Errorf("%w: %q is already used in %s", indices.ErrRepeatedIndex, as, operand)
	}

	var rest indices.Axes
	for _, ax := range free {
		if !slices.Contains(symbols, ax.Symbol) {
			rest = append(rest, ax)
		}
	}
	route, err := b.cache.Get(rest.Concat(bundled), free)
	if err != nil {
		return nil, err
	}
	return &bundleNode[T]{
		operand: operand,
		symbols: slices.Clone(symbols),
		target:  target,
		rule:    e.Rule,
		free:    append(rest, indices.Axis{Space: target, Symbol: as}),
		used:    indices.Union(operand.Used(), []indices.Symbol{as}),
		product: e.Rule.Codomain(),
		route:   route,
	}, nil
}

func (n *bundleNode[T]) Free() indices.Axes     { return n.free }
func (n *bundleNode[T]) Used() []indices.Symbol { return n.used }
func (n *bundleNode[T]) children() []Node[T]    { return []Node[T]{n.operand} }

func (n *bundleNode[T]) String() string {
	return fmt.Sprintf("bundle(%s; %s -> %s)", n.operand, joinSymbols(n.symbols), n.free[len(n.free)-1].Symbol)
}

func (n *bundleNode[T]) eval(m []int) T {
	k := len(m) - 1
	buf := make([]int, k+len(n.product))
	copy(buf, m[:k])
	tensor.Unflatten(n.rule.Representative(m[k]), n.product, buf[k:])
	om := make([]int, len(n.operand.Free()))
	n.route.Apply(buf, om)
	return n.operand.eval(om)
}

// crossNode replaces one compact operand axis with width axes addressing a full space,
// reading each full component through an embedding rule. It implements Split,
// SplitToIndex and Embed.
type crossNode[T tensor.Scalar] struct {
	kind    string
	operand Node[T]
	pos     int
	width   int
	full    tensor.Shape
	rule    embedding.Rule
	free    indices.Axes
	used    []indices.Symbol
}

// Split expands the free axis symbol, over a space with a tensor product structure,
// into one axis per factor, tagged with into. Full positions that are zero by the
// space's symmetry evaluate to 0 without evaluating the operand.
func (b *Builder[T]) Split(operand Node[T], symbol indices.Symbol, into ...indices.Symbol) (Node[T], error) {
	pos, ax, err := freeAxis(operand, symbol)
	if err != nil {
		return nil, err
	}
	e, ok := ax.Space.Embedding()
	if !ok || len(e.Product.Factors()) != len(into) {
		return nil, fmt.Errorf("%w: cannot split %s into %d indices", ErrFactorMismatch, ax.Space, len(into))
	}
	if err := checkFresh(operand, symbol, into...); err != nil {
		return nil, err
	}
	axes := make(indices.Axes, len(into))
	for i, f := range e.Product.Factors() {
		axes[i] = indices.Axis{Space: f, Symbol: into[i]}
	}
	return newCross("split", operand, pos, axes, e.Rule.Codomain(), e.Rule), nil
}

// SplitToIndex replaces the free axis symbol with a single axis, tagged as, over the
// tensor product its space embeds into.
func (b *Builder[T]) SplitToIndex(operand Node[T], symbol, as indices.Symbol) (Node[T], error) {
	pos, ax, err := freeAxis(operand, symbol)
	if err != nil {
		return nil, err
	}
	e, ok := ax.Space.Embedding()
	if !ok {
		return nil, fmt.Errorf("%w: %s has no tensor product structure", ErrFactorMismatch, ax.Space)
	}
	if err := checkFresh(operand, symbol, as); err != nil {
		return nil, err
	}
	axis := indices.Axis{Space: e.Product, Symbol: as}
	return newCross("split", operand, pos, indices.Axes{axis}, tensor.Shape{e.Product.Dim()}, e.Rule), nil
}

// Embed replaces the free axis symbol with an axis over codomain, tagged as, through
// the linear embedding of the axis space into codomain.
func (b *Builder[T]) Embed(operand Node[T], symbol indices.Symbol, codomain *space.Space, as indices.Symbol) (Node[T], error) {
	pos, ax, err := freeAxis(operand, symbol)
	if err != nil {
		return nil, err
	}
	rule, err := space.LinearEmbedding(ax.Space, codomain)
	if err != nil {
		return nil, err
	}
	if err := checkFresh(operand, symbol, as); err != nil {
		return nil, err
	}
	axis := indices.Axis{Space: codomain, Symbol: as}
	return newCross("embed", operand, pos, indices.Axes{axis}, tensor.Shape{codomain.Dim()}, rule), nil
}

func newCross[T tensor.Scalar](kind string, operand Node[T], pos int, axes indices.Axes, full tensor.Shape, rule embedding.Rule) *crossNode[T] {
	return &crossNode[T]{
		kind:    kind,
		operand: operand,
		pos:     pos,
		width:   len(axes),
		full:    full,
		rule:    rule,
		free:    replaceAxis(operand.Free(), pos, axes...),
		used:    indices.Union(operand.Used(), axes.Symbols()),
	}
}

func (n *crossNode[T]) Free() indices.Axes     { return n.free }
func (n *crossNode[T]) Used() []indices.Symbol { return n.used }
func (n *crossNode[T]) children() []Node[T]    { return []Node[T]{n.operand} }

func (n *crossNode[T]) String() string {
	syms := n.free[n.pos : n.pos+n.width].Symbols()
	return fmt.Sprintf("%s(%s; %s -> %s)", n.kind, n.operand, n.operand.Free()[n.pos].Symbol, joinSymbols(syms))
}

func (n *crossNode[T]) eval(m []int) T {
	j := tensor.FlatIndex(m[n.pos:n.pos+n.width], n.full)
	if n.rule.IsProceduralZero(j) {
		return 0
	}
	om := make([]int, len(m)-n.width+1)
	copy(om, m[:n.pos])
	om[n.pos] = n.rule.SourceIndex(j)
	copy(om[n.pos+1:], m[n.pos+n.width:])
	return applyScale(n.rule.ScaleFactor(j), n.operand.eval(om))
}

type coembedNode[T tensor.Scalar] struct {
	operand Node[T]
	pos     int
	rule    embedding.Rule
	free    indices.Axes
	used    []indices.Symbol
}

// Coembed replaces the free axis symbol, over the codomain of a linear embedding, with
// an axis over domain tagged as. Component i of the result sums every full component
// whose source is i, weighted by its scale factor.
func (b *Builder[T]) Coembed(operand Node[T], symbol indices.Symbol, domain *space.Space, as indices.Symbol) (Node[T], error) {
	pos, ax, err := freeAxis(operand, symbol)
	if err != nil {
		return nil, err
	}
	rule, err := space.LinearEmbedding(domain, ax.Space)
	if err != nil {
		return nil, err
	}
	if err := checkFresh(operand, symbol, as); err != nil {
		return nil, err
	}
	axis := indices.Axis{Space: domain, Symbol: as}
	return &coembedNode[T]{
		operand: operand,
		pos:     pos,
		rule:    rule,
		free:    replaceAxis(operand.Free(), pos, axis),
		used:    indices.Union(operand.Used(), []indices.Symbol{as}),
	}, nil
}

func (n *coembedNode[T]) Free() indices.Axes     { return n.free }
func (n *coembedNode[T]) Used() []indices.Symbol { return n.used }
func (n *coembedNode[T]) children() []Node[T]    { return []Node[T]{n.operand} }

func (n *coembedNode[T]) String() string {
	return fmt.Sprintf("coembed(%s; %s -> %s)", n.operand, n.operand.Free()[n.pos].Symbol, n.free[n.pos].Symbol)
}

func (n *coembedNode[T]) eval(m []int) T {
	om := make([]int, len(m))
	copy(om, m)
	var acc T
	for j, scale := range n.rule.Coembed(m[n.pos]) {
		om[n.pos] = j
		acc += applyScale(scale, n.operand.eval(om))
	}
	return acc
}

func freeAxis[T tensor.Scalar](n Node[T], symbol indices.Symbol) (int, indices.Axis, error) {
	free := n.Free()
	pos := free.IndexOf(symbol)
	if pos < 0 {
		return 0, indices.Axis{}, fmt.Errorf("%w: %q is not free in %s", ErrUnknownIndex, symbol, n)
	}
	return pos, free[pos], nil
}

// checkFresh rejects new symbols that are repeated or already used in n. The replaced
// symbol itself may be reused.
func checkFresh[T tensor.Scalar](n Node[T], replaced indices.Symbol, fresh ...indices.Symbol) error {
	for i, sym := range fresh {
		if slices.Contains(fresh[:i], sym) {
			return fmt.Errorf("%w: %q given twice", indices.ErrRepeatedIndex, sym)
		}
		if sym != replaced && slices.Contains(n.Used(), sym) {
			return fmt.Errorf("%w: %q is already used in %s", indices.ErrRepeatedIndex, sym, n)
		}
	}
	return nil
}

func joinSymbols(symbols []indices.Symbol) string {
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = string(s)
	}
	return strings.Join(parts, ",")
}
