package interop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/tenh/internal/expr"
	"github.com/born-ml/tenh/internal/space"
	"github.com/born-ml/tenh/internal/tensor"
)

func vectorSpace(t *testing.T, name string, dim int) *space.Space {
	t.Helper()
	s, err := space.NewVectorSpace(name, dim, tensor.Real)
	require.NoError(t, err)
	return s
}

func newTensor(t *testing.T, s *space.Space, data ...float64) *expr.Tensor[float64] {
	t.Helper()
	if data == nil {
		data = make([]float64, s.Dim())
	}
	x, err := expr.NewTensor[float64](s, tensor.FromSlice(data))
	require.NoError(t, err)
	return x
}

func TestViewSharesStorage(t *testing.T) {
	v, w := vectorSpace(t, "V", 2), vectorSpace(t, "W", 3)
	vw, err := space.TensorProduct(v, w)
	require.NoError(t, err)
	x := newTensor(t, vw, 0, 1, 2, 3, 4, 5)

	m, err := View(x)
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 5.0, m.At(1, 2))

	m.Set(0, 0, 9)
	assert.Equal(t, 9.0, x.Storage().Get(0))
}

func TestViewErrors(t *testing.T) {
	v := vectorSpace(t, "V", 3)
	sym, err := space.SymmetricPower(2, v)
	require.NoError(t, err)
	vv, err := space.TensorProduct(v, v)
	require.NoError(t, err)
	procedural, err := expr.NewTensor[float64](vv, tensor.Zero[float64](9))
	require.NoError(t, err)

	tests := []struct {
		name string
		x    *expr.Tensor[float64]
	}{
		{"vector", newTensor(t, v)},
		{"symmetric square", newTensor(t, sym)},
		{"procedural storage", procedural},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := View(tt.x)
			assert.ErrorIs(t, err, ErrNotMatrix)
		})
	}
}

func TestToMatrixSymmetric(t *testing.T) {
	v := vectorSpace(t, "V", 3)
	sym, err := space.SymmetricPower(2, v)
	require.NoError(t, err)

	m, err := ToMatrix(newTensor(t, sym, 10, 11, 12, 13, 14, 15))
	require.NoError(t, err)
	want := mat.NewDense(3, 3, []float64{10, 11, 13, 11, 12, 14, 13, 14, 15})
	assert.True(t, mat.Equal(want, m), "got %v", mat.Formatted(m))

	_, err = ToMatrix(newTensor(t, v))
	assert.ErrorIs(t, err, ErrNotMatrix)
}

func TestFromMatrix(t *testing.T) {
	v := vectorSpace(t, "V", 3)
	sym, err := space.SymmetricPower(2, v)
	require.NoError(t, err)
	ext, err := space.ExteriorPower(2, v)
	require.NoError(t, err)
	vv, err := space.TensorProduct(v, v.Dual())
	require.NoError(t, err)

	tests := []struct {
		name  string
		space *space.Space
		m     *mat.Dense
		want  []float64
	}{
		{
			name:  "full product",
			space: vv,
			m:     mat.NewDense(3, 3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}),
			want:  []float64{1, 2, 3, 4, 5, 6, 7, 8, 9},
		},
		{
			name:  "symmetric square",
			space: sym,
			m:     mat.NewDense(3, 3, []float64{10, 11, 13, 11, 12, 14, 13, 14, 15}),
			want:  []float64{10, 11, 12, 13, 14, 15},
		},
		{
			name:  "exterior square",
			space: ext,
			m:     mat.NewDense(3, 3, []float64{0, 1, 2, -1, 0, 3, -2, -3, 0}),
			want:  []float64{1, 2, 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := newTensor(t, tt.space)
			require.NoError(t, FromMatrix(tt.m, x))
			assert.Equal(t, tt.want, x.Storage().(*tensor.Dense[float64]).Data())

			back, err := ToMatrix(x)
			require.NoError(t, err)
			assert.True(t, mat.Equal(tt.m, back))
		})
	}
}

func TestFromMatrixTranspose(t *testing.T) {
	v := vectorSpace(t, "V", 2)
	vv, err := space.TensorProduct(v, v)
	require.NoError(t, err)
	x := newTensor(t, vv, 1, 2, 3, 4)

	view, err := View(x)
	require.NoError(t, err)
	err = FromMatrix(view, x)
	assert.ErrorIs(t, err, expr.ErrAliasing)
	assert.Equal(t, []float64{1, 2, 3, 4}, x.Storage().(*tensor.Dense[float64]).Data())

	require.NoError(t, FromMatrix(view.T(), x))
	assert.Equal(t, []float64{1, 3, 2, 4}, x.Storage().(*tensor.Dense[float64]).Data())
}

func TestFromMatrixErrors(t *testing.T) {
	v := vectorSpace(t, "V", 3)
	vv, err := space.TensorProduct(v, v)
	require.NoError(t, err)

	err = FromMatrix(mat.NewDense(2, 2, nil), newTensor(t, vv))
	assert.ErrorIs(t, err, tensor.ErrSizeMismatch)

	err = FromMatrix(mat.NewDense(3, 3, nil), newTensor(t, v))
	assert.ErrorIs(t, err, ErrNotMatrix)
}
