package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/tenh/internal/indices"
	"github.com/born-ml/tenh/internal/space"
	"github.com/born-ml/tenh/internal/tensor"
)

func mustSpace(t *testing.T) func(*space.Space, error) *space.Space {
	return func(s *space.Space, err error) *space.Space {
		t.Helper()
		require.NoError(t, err)
		return s
	}
}

func TestSymmetricLeafReconstruction(t *testing.T) {
	v := vectorSpace(t, "V", 3)
	sym := mustSpace(t)(space.SymmetricPower(2, v))
	s := dense(t, sym, 10, 11, 12, 13, 14, 15)

	n, err := s.Index("i", "j")
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 11, 13, 11, 12, 14, 13, 14, 15}, Materialize(n).Data())
}

func TestExteriorLeafReconstruction(t *testing.T) {
	v := vectorSpace(t, "V", 3)
	ext := mustSpace(t)(space.ExteriorPower(2, v))
	e := dense(t, ext, 1, 2, 3)

	n, err := e.Index("i", "j")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, -1, 0, 3, -2, -3, 0}, Materialize(n).Data())
}

func TestSplit(t *testing.T) {
	v := vectorSpace(t, "V", 3)
	ext := mustSpace(t)(space.ExteriorPower(2, v))

	reads := 0
	data := []float64{1, 2, 3}
	counting := tensor.NewProcedural(3, func(i int) float64 {
		reads++
		return data[i]
	})
	x, err := NewTensor[float64](ext, counting)
	require.NoError(t, err)

	b := NewBuilder[float64]()
	split, err := b.Split(leaf(t, b, x, "p"), "p", "i", "j")
	require.NoError(t, err)
	assert.Equal(t, syms("i", "j"), split.Free().Symbols())

	diag, err := tensor.FromValues(tensor.Shape{3, 3}, 1, 1)
	require.NoError(t, err)
	got, err := Evaluate(split, diag)
	require.NoError(t, err)
	assert.Zero(t, got)
	assert.Zero(t, reads, "procedural zero must not read the operand")

	assert.Equal(t, []float64{0, 1, 2, -1, 0, 3, -2, -3, 0}, Materialize(split).Data())
	assert.Equal(t, 6, reads)

	_, err = b.Split(leaf(t, b, x, "p"), "p", "i")
	assert.ErrorIs(t, err, ErrFactorMismatch)
	_, err = b.Split(leaf(t, b, x, "p"), "q", "i", "j")
	assert.ErrorIs(t, err, ErrUnknownIndex)
	_, err = b.Split(leaf(t, b, x, "p"), "p", "i", "i")
	assert.ErrorIs(t, err, indices.ErrRepeatedIndex)
}

func TestSplitToIndex(t *testing.T) {
	v := vectorSpace(t, "V", 3)
	sym := mustSpace(t)(space.SymmetricPower(2, v))
	s := dense(t, sym, 10, 11, 12, 13, 14, 15)

	b := NewBuilder[float64]()
	n, err := b.SplitToIndex(leaf(t, b, s, "p"), "p", "q")
	require.NoError(t, err)
	require.Len(t, n.Free(), 1)
	assert.True(t, n.Free()[0].Space.Equal(product(t, v, v)))
	assert.Equal(t, []float64{10, 11, 13, 11, 12, 14, 13, 14, 15}, Materialize(n).Data())

	_, err = b.SplitToIndex(leaf(t, b, dense(t, v, 1, 2, 3), "i"), "i", "q")
	assert.ErrorIs(t, err, ErrFactorMismatch)
}

func TestBundle(t *testing.T) {
	v := vectorSpace(t, "V", 3)
	sym := mustSpace(t)(space.SymmetricPower(2, v))
	m := dense(t, product(t, v, v), 1, 2, 4, 2, 3, 5, 4, 5, 6)
	out, err := Zeros[float64](sym)
	require.NoError(t, err)

	b := NewBuilder[float64]()
	bundled, err := b.Bundle(leaf(t, b, m, "i", "j"), syms("i", "j"), sym, "p")
	require.NoError(t, err)
	require.NoError(t, Assign(out, syms("p"), bundled))
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, out.Storage().(*tensor.Dense[float64]).Data())

	// Splitting the bundle recovers the symmetric matrix.
	back, err := out.Index("i", "j")
	require.NoError(t, err)
	assert.Equal(t, m.Storage().(*tensor.Dense[float64]).Data(), Materialize(back).Data())

	_, err = b.Bundle(leaf(t, b, m, "i", "j"), syms("i"), sym, "p")
	assert.ErrorIs(t, err, ErrFactorMismatch)
	_, err = b.Bundle(leaf(t, b, m, "i", "j"), syms("i", "j"), sym, "i")
	assert.ErrorIs(t, err, indices.ErrRepeatedIndex)

	w := vectorSpace(t, "W", 3)
	mixed := dense(t, product(t, v, w), ramp(9, 0)...)
	_, err = b.Bundle(leaf(t, b, mixed, "i", "j"), syms("i", "j"), sym, "p")
	assert.ErrorIs(t, err, ErrFactorMismatch)
}

func TestBundleKeepsOtherAxes(t *testing.T) {
	v := vectorSpace(t, "V", 2)
	w := vectorSpace(t, "W", 2)
	ext := mustSpace(t)(space.ExteriorPower(2, v))
	// x(i, k, j) over V⊗W⊗V; bundling i,j leaves k first.
	x := dense(t, product(t, v, w, v), ramp(8, 0)...)

	b := NewBuilder[float64]()
	n, err := b.Bundle(leaf(t, b, x, "i", "k", "j"), syms("i", "j"), ext, "p")
	require.NoError(t, err)
	assert.Equal(t, syms("k", "p"), n.Free().Symbols())
	// The representative of the only component is (0,1): x[0,k,1] = 2k+1.
	assert.Equal(t, []float64{1, 3}, Materialize(n).Data())
}

func TestEmbedDiagonal(t *testing.T) {
	v := vectorSpace(t, "V", 3)
	w := vectorSpace(t, "W", 2)
	diag := mustSpace(t)(space.Diagonal2(v, w))
	d := dense(t, diag, 7, 8)

	b := NewBuilder[float64]()
	n, err := b.Embed(leaf(t, b, d, "q"), "q", product(t, v, w), "r")
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 0, 0, 8, 0, 0}, Materialize(n).Data())

	// Splitting the embedded axis gives the matrix view.
	mat, err := b.Split(n, "r", "i", "j")
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 2}, mat.Free().Shape())

	_, err = b.Embed(leaf(t, b, d, "q"), "q", product(t, w, v), "r")
	assert.ErrorIs(t, err, space.ErrNoEmbedding)
}

func TestEmbedDiagonalIntoSym2(t *testing.T) {
	v := vectorSpace(t, "V", 3)
	diag := mustSpace(t)(space.Diagonal2(v, v))
	sym := mustSpace(t)(space.SymmetricPower(2, v))
	d := dense(t, diag, 1, 2, 3)
	out, err := Zeros[float64](sym)
	require.NoError(t, err)

	b := NewBuilder[float64]()
	n, err := b.Embed(leaf(t, b, d, "q"), "q", sym, "s")
	require.NoError(t, err)
	require.NoError(t, Assign(out, syms("s"), n))
	assert.Equal(t, []float64{1, 0, 2, 0, 0, 3}, out.Storage().(*tensor.Dense[float64]).Data())
}

func TestCoembed(t *testing.T) {
	v := vectorSpace(t, "V", 3)
	vv := product(t, v, v)
	x := dense(t, vv, ramp(9, 1)...)

	b := NewBuilder[float64]()
	scalar := mustSpace(t)(space.Scalar2(v))
	tr, err := b.Coembed(leaf(t, b, x, "q"), "q", scalar, "s")
	require.NoError(t, err)
	assert.Equal(t, []float64{15}, Materialize(tr).Data())

	sym := mustSpace(t)(space.SymmetricPower(2, v))
	symmetrized, err := b.Coembed(leaf(t, b, x, "q"), "q", sym, "p")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 6, 5, 10, 14, 9}, Materialize(symmetrized).Data())

	ext := mustSpace(t)(space.ExteriorPower(2, v))
	alternated, err := b.Coembed(leaf(t, b, x, "q"), "q", ext, "p")
	require.NoError(t, err)
	// x(0,1)-x(1,0), x(0,2)-x(2,0), x(1,2)-x(2,1).
	assert.Equal(t, []float64{-2, -4, -2}, Materialize(alternated).Data())

	_, err = b.Coembed(leaf(t, b, x, "q"), "q", v, "p")
	assert.ErrorIs(t, err, space.ErrNoEmbedding)
}

func TestDirectSumBlockDiagonal(t *testing.T) {
	a := vectorSpace(t, "A", 2)
	c := vectorSpace(t, "B", 3)
	ds := mustSpace(t)(space.DirectSum(product(t, a, a.Dual()), product(t, c, c.Dual())))
	x := dense(t, ds, ramp(13, 1)...)

	n, err := x.Index("i", "j")
	require.NoError(t, err)
	got := Materialize(n).Data()
	require.Len(t, got, 25)

	want := []float64{
		1, 2, 0, 0, 0,
		3, 4, 0, 0, 0,
		0, 0, 5, 6, 7,
		0, 0, 8, 9, 10,
		0, 0, 11, 12, 13,
	}
	assert.Equal(t, want, got)
}

func TestDirectSumMixedBlocks(t *testing.T) {
	a := vectorSpace(t, "A", 2)
	c := vectorSpace(t, "B", 2)
	ds := mustSpace(t)(space.DirectSum(mustSpace(t)(space.Diagonal2(a, a)), mustSpace(t)(space.Scalar2(c))))
	x := dense(t, ds, 1, 2, 5)

	n, err := x.Index("i", "j")
	require.NoError(t, err)
	want := []float64{
		1, 0, 0, 0,
		0, 2, 0, 0,
		0, 0, 5, 0,
		0, 0, 0, 5,
	}
	assert.Equal(t, want, Materialize(n).Data())
}
