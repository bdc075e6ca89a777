package expr

import (
	"fmt"

	"github.com/born-ml/tenh/internal/indices"
	"github.com/born-ml/tenh/internal/parallel"
	"github.com/born-ml/tenh/internal/tensor"
)

// Evaluate returns the component of n at m, a multi-index over n's free axes.
func Evaluate[T tensor.Scalar](n Node[T], m *tensor.MultiIndex) (T, error) {
	shape := n.Free().Shape()
	if m == nil || !m.Shape().Equal(shape) {
		return 0, fmt.Errorf("%w: multi-index %v for free axes %s", tensor.ErrIndexOutOfRange, m, n.Free())
	}
	if m.AtEnd() {
		return 0, fmt.Errorf("%w: multi-index is at end", tensor.ErrIndexOutOfRange)
	}
	return n.eval(m.Values()), nil
}

// EvaluateScalar returns the value of an expression with no free indices.
func EvaluateScalar[T tensor.Scalar](n Node[T]) (T, error) {
	if len(n.Free()) != 0 {
		return 0, fmt.Errorf("%w: %s", ErrNonScalarExpression, n.Free())
	}
	return n.eval(nil), nil
}

// Materialize evaluates every component of n into fresh dense storage, in row-major
// order over n's free axes.
func Materialize[T tensor.Scalar](n Node[T], opts ...AssignOption) *tensor.Dense[T] {
	cfg := newAssignConfig(opts)
	shape := n.Free().Shape()
	out := tensor.NewDense[T](shape.NumElements())
	parallel.ForRange(out.Size(), func(start, end int) {
		m := make([]int, len(shape))
		for flat := start; flat < end; flat++ {
			tensor.Unflatten(flat, shape, m)
			out.Set(flat, n.eval(m))
		}
	}, cfg.parallel)
	return out
}

// AssignOption configures Assign and Materialize.
type AssignOption func(*assignConfig)

type assignConfig struct {
	parallel parallel.Config
}

func newAssignConfig(opts []AssignOption) assignConfig {
	cfg := assignConfig{parallel: parallel.Sequential()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithParallel fans the loop over output components out over worker goroutines.
// Summation within one component stays sequential, so results are unchanged.
func WithParallel(cfg parallel.Config) AssignOption {
	return func(c *assignConfig) { c.parallel = cfg }
}

// Assign writes n into target's storage, with target's factors tagged by symbols.
//
// The target indices must be distinct and match n's free indices as a set. Before any
// component is written, every leaf of n is checked against the target storage; if one
// aliases it Assign fails with ErrAliasing and the target is left untouched. On
// success every component of the target has been written.
func Assign[T tensor.Scalar](target *Tensor[T], symbols []indices.Symbol, n Node[T], opts ...AssignOption) error {
	dst, ok := target.data.(tensor.Storage[T])
	if !ok {
		return fmt.Errorf("%w: %s", tensor.ErrReadOnly, target)
	}
	leaf, err := NewBuilder[T]().Leaf(target, symbols...)
	if err != nil {
		return err
	}
	tl := leaf.(*leafNode[T])
	if tl.rule != nil {
		return fmt.Errorf("%w: assignment through the embedding of %s", ErrFactorMismatch, target.space)
	}
	if len(tl.summed) > 0 {
		return fmt.Errorf("%w: assignment target %s sums an index", indices.ErrRepeatedIndex, leaf)
	}
	if !tl.free.SameSymbols(n.Free()) {
		return fmt.Errorf("%w: target %s, source %s", ErrFreeIndexMismatch, tl.free, n.Free())
	}

	aliased := false
	walkLeaves(n, func(src *Tensor[T]) bool {
		aliased = tensor.Aliases(target.data, src.data)
		return !aliased
	})
	if aliased {
		return fmt.Errorf("%w: %s", ErrAliasing, target)
	}

	route, err := indices.NewIndexMap(tl.free, n.Free())
	if err != nil {
		return err
	}
	cfg := newAssignConfig(opts)
	shape := tl.shape
	parallel.ForRange(dst.Size(), func(start, end int) {
		m := make([]int, len(shape))
		src := make([]int, len(shape))
		for flat := start; flat < end; flat++ {
			tensor.Unflatten(flat, shape, m)
			route.Apply(m, src)
			dst.Set(flat, n.eval(src))
		}
	}, cfg.parallel)
	return nil
}
