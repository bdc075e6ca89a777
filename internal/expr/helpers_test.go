package expr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/tenh/internal/indices"
	"github.com/born-ml/tenh/internal/space"
	"github.com/born-ml/tenh/internal/tensor"
)

func vectorSpace(t *testing.T, name string, dim int) *space.Space {
	t.Helper()
	s, err := space.NewVectorSpace(name, dim, tensor.Real)
	require.NoError(t, err)
	return s
}

func product(t *testing.T, factors ...*space.Space) *space.Space {
	t.Helper()
	s, err := space.TensorProduct(factors...)
	require.NoError(t, err)
	return s
}

func dense(t *testing.T, s *space.Space, data ...float64) *Tensor[float64] {
	t.Helper()
	x, err := NewTensor[float64](s, tensor.FromSlice(data))
	require.NoError(t, err)
	return x
}

func leaf(t *testing.T, b *Builder[float64], x *Tensor[float64], symbols ...indices.Symbol) Node[float64] {
	t.Helper()
	n, err := b.Leaf(x, symbols...)
	require.NoError(t, err)
	return n
}

// ramp returns start, start+1, ..., start+n-1.
func ramp(n int, start float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)
	}
	return out
}

func syms(s ...string) []indices.Symbol {
	out := make([]indices.Symbol, len(s))
	for i, v := range s {
		out[i] = indices.Symbol(v)
	}
	return out
}
