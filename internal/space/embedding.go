package space

import (
	"fmt"

	"github.com/born-ml/tenh/internal/embedding"
	"github.com/born-ml/tenh/internal/tensor"
)

// Embedding pairs a space with the tensor product it is a compacted view of.
// Rule.Codomain lists the dimensions of Product's factors.
type Embedding struct {
	Rule    embedding.Rule
	Product *Space
}

// Embedding returns the embedding of s into its underlying tensor product.
// A tensor product embeds into itself by the identity; base spaces and sums have no
// embedding.
func (s *Space) Embedding() (Embedding, bool) {
	e, err := s.embedding()
	if err != nil {
		return Embedding{}, false
	}
	return e, true
}

func (s *Space) embedding() (Embedding, error) {
	switch s.kind {
	case KindTensorProduct:
		rule, err := embedding.NewIdentity(dims(s.factors))
		return Embedding{Rule: rule, Product: s}, err
	case KindSymmetricPower:
		product, err := TensorProduct(repeat(s.factors[0], s.order)...)
		if err != nil {
			return Embedding{}, err
		}
		rule, err := embedding.NewSymmetricPower(s.order, s.factors[0].dim)
		return Embedding{Rule: rule, Product: product}, err
	case KindExteriorPower:
		product, err := TensorProduct(repeat(s.factors[0], s.order)...)
		if err != nil {
			return Embedding{}, err
		}
		rule, err := embedding.NewExteriorPower(s.order, s.factors[0].dim)
		return Embedding{Rule: rule, Product: product}, err
	case KindDiagonal2:
		product, err := TensorProduct(s.factors...)
		if err != nil {
			return Embedding{}, err
		}
		rule, err := embedding.NewDiagonal2(s.factors[0].dim, s.factors[1].dim)
		return Embedding{Rule: rule, Product: product}, err
	case KindScalar2:
		product, err := TensorProduct(s.factors[0], s.factors[0])
		if err != nil {
			return Embedding{}, err
		}
		rule, err := embedding.NewScalar2(s.factors[0].dim)
		return Embedding{Rule: rule, Product: product}, err
	case KindDirectSum:
		return s.directSumEmbedding()
	default:
		return Embedding{}, fmt.Errorf("%w: %s has no tensor product structure", ErrNoEmbedding, s)
	}
}

func (s *Space) directSumEmbedding() (Embedding, error) {
	blocks := make([]embedding.Rule, len(s.factors))
	rows := make([]*Space, len(s.factors))
	cols := make([]*Space, len(s.factors))
	for i, summand := range s.factors {
		e, err := summand.embedding()
		if err != nil {
			return Embedding{}, err
		}
		blocks[i] = e.Rule
		rows[i], cols[i] = e.Product.factors[0], e.Product.factors[1]
	}
	rule, err := embedding.NewDirectSum(blocks...)
	if err != nil {
		return Embedding{}, err
	}
	rowSpace, err := Sum(rows...)
	if err != nil {
		return Embedding{}, err
	}
	colSpace, err := Sum(cols...)
	if err != nil {
		return Embedding{}, err
	}
	product, err := TensorProduct(rowSpace, colSpace)
	if err != nil {
		return Embedding{}, err
	}
	return Embedding{Rule: rule, Product: product}, nil
}

// LinearEmbedding returns the rule that embeds domain into codomain, treating both
// as single axes: the rule's compact index ranges over domain and its flat full index
// over codomain.
//
// Supported pairs are a space into itself, any space into its own tensor product,
// diag2(A,B) into A⊗B, diag2(A,A) into Sym^2(A), and scalar2(A) into A⊗A.
func LinearEmbedding(domain, codomain *Space) (embedding.Rule, error) {
	if domain.Equal(codomain) {
		return embedding.NewIdentity(tensor.Shape{domain.dim})
	}
	if domain.kind == KindDiagonal2 && codomain.kind == KindSymmetricPower && codomain.order == 2 &&
		domain.factors[0].Equal(domain.factors[1]) && domain.factors[0].Equal(codomain.factors[0]) {
		return embedding.NewDiagonalToSym2(domain.factors[0].dim)
	}
	if e, ok := domain.Embedding(); ok && domain.kind != KindTensorProduct && e.Product.Equal(codomain) {
		return e.Rule, nil
	}
	return nil, fmt.Errorf("%w: %s into %s", ErrNoEmbedding, domain, codomain)
}

func dims(spaces []*Space) tensor.Shape {
	shape := make(tensor.Shape, len(spaces))
	for i, f := range spaces {
		shape[i] = f.dim
	}
	return shape
}

func repeat(f *Space, k int) []*Space {
	out := make([]*Space, k)
	for i := range out {
		out[i] = f
	}
	return out
}
