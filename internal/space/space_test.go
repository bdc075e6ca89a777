package space

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/tenh/internal/embedding"
	"github.com/born-ml/tenh/internal/tensor"
)

func must(s *Space, err error) *Space {
	if err != nil {
		panic(err)
	}
	return s
}

func TestVectorSpaceDuality(t *testing.T) {
	v := must(NewVectorSpace("V", 3, tensor.Real))
	w := must(NewVectorSpace("W", 3, tensor.Real))

	assert.Equal(t, "V", v.String())
	assert.Equal(t, "V*", v.Dual().String())
	assert.True(t, v.Dual().IsDual())
	assert.True(t, v.Dual().Dual().Equal(v))

	assert.True(t, v.PairsNaturallyWith(v.Dual()))
	assert.True(t, v.Dual().PairsNaturallyWith(v))
	assert.False(t, v.PairsNaturallyWith(v))
	// Same dimension, separate declarations.
	assert.False(t, v.PairsNaturallyWith(w.Dual()))
	assert.False(t, v.Equal(w))
}

func TestVectorSpaceValidation(t *testing.T) {
	_, err := NewVectorSpace("", 3, tensor.Real)
	assert.ErrorIs(t, err, ErrInvalidSpace)
	_, err = NewVectorSpace("V", -1, tensor.Real)
	assert.ErrorIs(t, err, ErrInvalidSpace)

	trivial, err := NewVectorSpace("Z", 0, tensor.Real)
	require.NoError(t, err)
	assert.Equal(t, 0, trivial.Dim())
	assert.Equal(t, 0, must(Scalar2(trivial)).Dim())

	abstract := must(NewAbstractVectorSpace("U", 2, tensor.Complex))
	assert.False(t, abstract.HasBasis())
	assert.Equal(t, tensor.Complex, abstract.Field())
}

func TestCompositeDimensions(t *testing.T) {
	v := must(NewVectorSpace("V", 3, tensor.Real))
	w := must(NewVectorSpace("W", 2, tensor.Real))

	tests := []struct {
		name  string
		space *Space
		dim   int
		str   string
	}{
		{"tensor", must(TensorProduct(v, w.Dual())), 6, "(V⊗W*)"},
		{"sym2", must(SymmetricPower(2, v)), 6, "Sym^2(V)"},
		{"sym3", must(SymmetricPower(3, w)), 4, "Sym^3(W)"},
		{"ext2", must(ExteriorPower(2, v)), 3, "Λ^2(V)"},
		{"diag2", must(Diagonal2(w, v)), 2, "diag2(W,V)"},
		{"scalar2", must(Scalar2(v)), 1, "scalar2(V)"},
		{"sum", must(Sum(v, w)), 5, "(V⊕W)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.dim, tt.space.Dim())
			assert.Equal(t, tt.str, tt.space.String())
			assert.True(t, tt.space.HasBasis())
		})
	}
}

func TestFieldMismatch(t *testing.T) {
	v := must(NewVectorSpace("V", 3, tensor.Real))
	c := must(NewVectorSpace("C", 3, tensor.Complex))
	_, err := TensorProduct(v, c)
	assert.ErrorIs(t, err, ErrInvalidSpace)
}

func TestCompositeDual(t *testing.T) {
	v := must(NewVectorSpace("V", 3, tensor.Real))
	w := must(NewVectorSpace("W", 2, tensor.Real))
	vw := must(TensorProduct(v, w))
	dual := must(TensorProduct(v.Dual(), w.Dual()))

	assert.True(t, vw.Dual().Equal(dual))
	assert.True(t, vw.PairsNaturallyWith(dual))
	assert.False(t, vw.PairsNaturallyWith(must(TensorProduct(w.Dual(), v.Dual()))))

	sym := must(SymmetricPower(2, v))
	assert.Equal(t, "Sym^2(V*)", sym.Dual().String())
	assert.True(t, sym.PairsNaturallyWith(must(SymmetricPower(2, v.Dual()))))
	assert.False(t, sym.PairsNaturallyWith(must(ExteriorPower(2, v.Dual()))))
}

func TestEmbedding(t *testing.T) {
	v := must(NewVectorSpace("V", 3, tensor.Real))

	_, ok := v.Embedding()
	assert.False(t, ok)

	e, ok := must(ExteriorPower(2, v)).Embedding()
	require.True(t, ok)
	assert.True(t, e.Product.Equal(must(TensorProduct(v, v))))
	assert.Equal(t, tensor.Shape{3, 3}, e.Rule.Codomain())
	assert.Equal(t, 3, e.Rule.Domain())

	vv := must(TensorProduct(v, v.Dual()))
	e, ok = vv.Embedding()
	require.True(t, ok)
	assert.Same(t, vv, e.Product)
}

func TestDirectSum(t *testing.T) {
	a := must(NewVectorSpace("A", 2, tensor.Real))
	b := must(NewVectorSpace("B", 3, tensor.Real))
	ds := must(DirectSum(must(TensorProduct(a, a.Dual())), must(TensorProduct(b, b.Dual()))))
	assert.Equal(t, 13, ds.Dim())

	e, ok := ds.Embedding()
	require.True(t, ok)
	assert.Equal(t, tensor.Shape{5, 5}, e.Rule.Codomain())
	assert.Equal(t, "((A⊕B)⊗(A*⊕B*))", e.Product.String())

	mixed := must(DirectSum(must(Diagonal2(a, a)), must(Scalar2(b))))
	assert.Equal(t, 3, mixed.Dim())

	_, err := DirectSum(a)
	assert.ErrorIs(t, err, ErrInvalidSpace)
	_, err = DirectSum(must(SymmetricPower(3, a)))
	assert.ErrorIs(t, err, ErrInvalidSpace)
}

func TestLinearEmbedding(t *testing.T) {
	a := must(NewVectorSpace("A", 3, tensor.Real))
	b := must(NewVectorSpace("B", 2, tensor.Real))

	tests := []struct {
		name     string
		domain   *Space
		codomain *Space
		rule     string
	}{
		{"identity", a, a, "id(3)"},
		{"diag2 into product", must(Diagonal2(a, b)), must(TensorProduct(a, b)), "diag2(3,2)"},
		{"diag2 into sym2", must(Diagonal2(a, a)), must(SymmetricPower(2, a)), "diag2sym2(3)"},
		{"scalar2 into product", must(Scalar2(a)), must(TensorProduct(a, a)), "scalar2(3)"},
		{"sym into product", must(SymmetricPower(2, b)), must(TensorProduct(b, b)), "sym(2,2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := LinearEmbedding(tt.domain, tt.codomain)
			require.NoError(t, err)
			assert.Equal(t, tt.rule, rule.String())
			assert.Equal(t, tt.domain.Dim(), rule.Domain())
			assert.Equal(t, tt.codomain.Dim(), embedding.CodomainSize(rule))
		})
	}

	_, err := LinearEmbedding(a, b)
	assert.ErrorIs(t, err, ErrNoEmbedding)
	_, err = LinearEmbedding(must(Diagonal2(a, b)), must(TensorProduct(b, a)))
	assert.ErrorIs(t, err, ErrNoEmbedding)
}
