package indices

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/tenh/internal/space"
	"github.com/born-ml/tenh/internal/tensor"
)

func declare(t *testing.T, name string, dim int) *space.Space {
	t.Helper()
	s, err := space.NewVectorSpace(name, dim, tensor.Real)
	require.NoError(t, err)
	return s
}

func TestAnalyze(t *testing.T) {
	v := declare(t, "V", 3)
	w := declare(t, "W", 2)

	a, err := Analyze(Axes{{v, "i"}, {w, "k"}, {v.Dual(), "i"}, {w.Dual(), "j"}})
	require.NoError(t, err)
	assert.Equal(t, []Symbol{"k", "j"}, a.Free.Symbols())
	assert.Equal(t, []Symbol{"i"}, a.Summed.Symbols())
	assert.Same(t, v, a.Summed[0].Space)
}

func TestAnalyzeSummedOrder(t *testing.T) {
	v := declare(t, "V", 3)
	a, err := Analyze(Axes{{v, "j"}, {v, "i"}, {v.Dual(), "i"}, {v.Dual(), "j"}})
	require.NoError(t, err)
	assert.Empty(t, a.Free)
	assert.Equal(t, []Symbol{"j", "i"}, a.Summed.Symbols())
}

func TestAnalyzeErrors(t *testing.T) {
	v := declare(t, "V", 3)
	u := declare(t, "U", 3)

	tests := []struct {
		name string
		axes Axes
		err  error
	}{
		{"triple", Axes{{v, "i"}, {v.Dual(), "i"}, {v, "i"}}, ErrRepeatedIndex},
		{"same space", Axes{{v, "i"}, {v, "i"}}, ErrNonNaturalPairing},
		{"equal dimension", Axes{{v, "i"}, {u.Dual(), "i"}}, ErrNonNaturalPairing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Analyze(tt.axes)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCheckCollisions(t *testing.T) {
	v := declare(t, "V", 3)
	left := Scope{Free: Axes{{v, "j"}}, Used: []Symbol{"i", "j"}}

	assert.NoError(t, CheckCollisions(left, Scope{Free: Axes{{v.Dual(), "j"}}, Used: []Symbol{"j"}}))
	assert.ErrorIs(t, CheckCollisions(left, Scope{Free: Axes{{v, "i"}}, Used: []Symbol{"i"}}), ErrRepeatedIndex)
	assert.ErrorIs(t, CheckCollisions(Scope{Free: Axes{{v, "i"}}, Used: []Symbol{"i"}}, left), ErrRepeatedIndex)
	assert.Equal(t, []Symbol{"i"}, left.Bound())
}

func TestUnion(t *testing.T) {
	assert.Equal(t, []Symbol{"i", "j", "k"}, Union([]Symbol{"i", "j"}, []Symbol{"j", "k"}))
	assert.Empty(t, Union(nil, nil))
}

func TestIndexMap(t *testing.T) {
	v := declare(t, "V", 3)
	w := declare(t, "W", 2)
	source := Axes{{v, "i"}, {w, "j"}, {v.Dual(), "k"}}
	target := Axes{{v.Dual(), "k"}, {v, "i"}}

	m, err := NewIndexMap(source, target)
	require.NoError(t, err)
	dst := make([]int, 2)
	m.Apply([]int{2, 1, 0}, dst)
	assert.Equal(t, []int{0, 2}, dst)
	assert.Equal(t, 2, m.Flat([]int{2, 1, 0}))
	assert.Equal(t, tensor.Shape{3, 3}, m.Target())

	_, err = NewIndexMap(source, Axes{{v, "z"}})
	assert.ErrorIs(t, err, ErrUnknownIndex)
	_, err = NewIndexMap(source, Axes{{v, "j"}})
	assert.ErrorIs(t, err, tensor.ErrSizeMismatch)
}

func TestIndexMapRepeatedTarget(t *testing.T) {
	v := declare(t, "V", 3)
	m, err := NewIndexMap(Axes{{v, "i"}}, Axes{{v, "i"}, {v.Dual(), "i"}})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		assert.Equal(t, i*4, m.Flat([]int{i}))
	}
}

func TestCache(t *testing.T) {
	v := declare(t, "V", 3)
	u := declare(t, "U", 3)
	c := NewCache()

	a, err := c.Get(Axes{{v, "i"}, {v, "j"}}, Axes{{v, "j"}})
	require.NoError(t, err)
	// Same symbols and dimensions share a map even across declarations.
	b, err := c.Get(Axes{{u, "i"}, {u, "j"}}, Axes{{u, "j"}})
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, c.Len())

	_, err = c.Get(Axes{{v, "i"}}, Axes{{v, "q"}})
	assert.ErrorIs(t, err, ErrUnknownIndex)
	assert.Equal(t, 1, c.Len())
}

func TestAxes(t *testing.T) {
	v := declare(t, "V", 3)
	w := declare(t, "W", 2)
	a := Axes{{v, "i"}, {w.Dual(), "j"}}

	assert.Equal(t, tensor.Shape{3, 2}, a.Shape())
	assert.Equal(t, 1, a.IndexOf("j"))
	assert.False(t, a.Contains("k"))
	assert.Equal(t, "[i:V j:W*]", a.String())
	assert.Equal(t, "i:3,j:2", a.Signature())
	assert.True(t, a.SameSymbols(Axes{{w.Dual(), "j"}, {v, "i"}}))
	assert.False(t, a.SameSymbols(Axes{{w, "j"}, {v, "i"}}))
}
