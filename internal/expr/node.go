// Package expr builds and evaluates tensor index expressions.
//
// An expression is an immutable tree of nodes. Leaves tag a Tensor's factors with
// abstract index symbols; interior nodes add, scale, contract, or move between a
// compact representation and its full tensor product. Index analysis happens once,
// when a node is built, so construction fails fast on repeated symbols or unnatural
// pairings, and evaluation only walks precomputed index maps.
//
// Example:
//
//	b := expr.NewBuilder[float64]()
//	u := expr.Must(b.Leaf(vec, "i"))
//	m := expr.Must(b.Leaf(mat, "j", "i"))
//	prod, err := b.Mul(u, m) // u(i)*m(j,i), free index j
//	...
//	err = expr.Assign(out, []indices.Symbol{"j"}, prod)
package expr

import (
	"github.com/born-ml/tenh/internal/indices"
	"github.com/born-ml/tenh/internal/tensor"
)

// Node is one immutable expression-tree node.
type Node[T tensor.Scalar] interface {
	// Free returns the free axes, in the order components are addressed.
	Free() indices.Axes
	// Used returns every symbol that occurs anywhere in the subtree.
	Used() []indices.Symbol
	// String returns the expression in index notation.
	String() string

	// eval returns the component at m, given one value per free axis.
	eval(m []int) T
	children() []Node[T]
}

// Must panics if err is non-nil and returns n otherwise.
func Must[T tensor.Scalar](n Node[T], err error) Node[T] {
	if err != nil {
		panic(err)
	}
	return n
}

// scope returns the index footprint of n.
func scope[T tensor.Scalar](n Node[T]) indices.Scope {
	return indices.Scope{Free: n.Free(), Used: n.Used()}
}

// walkLeaves calls visit for every leaf tensor in n until visit returns false.
func walkLeaves[T tensor.Scalar](n Node[T], visit func(*Tensor[T]) bool) bool {
	if l, ok := n.(*leafNode[T]); ok {
		return visit(l.t)
	}
	for _, c := range n.children() {
		if !walkLeaves(c, visit) {
			return false
		}
	}
	return true
}

// applyScale multiplies v by an embedding scale factor in {-1, 0, 1}.
func applyScale[T tensor.Scalar](scale int, v T) T {
	switch scale {
	case 1:
		return v
	case -1:
		return -v
	default:
		return 0
	}
}

// replaceAxis returns axes with position pos replaced by repl.
func replaceAxis(axes indices.Axes, pos int, repl ...indices.Axis) indices.Axes {
	out := make(indices.Axes, 0, len(axes)-1+len(repl))
	out = append(out, axes[:pos]...)
	out = append(out, repl...)
	return append(out, axes[pos+1:]...)
}
