// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package space declares the vector spaces tensors live in and the linear
// embeddings between them.
//
// Base spaces are declared by name, dimension and field; their duals pair
// naturally with them under contraction. Composite spaces are built from
// earlier ones:
//
//	v, _ := space.NewVectorSpace("V", 3, tensor.Real)
//	m, _ := space.TensorProduct(v, v.Dual())   // (V⊗V*), dimension 9
//	s, _ := space.SymmetricPower(2, v)         // Sym^2(V), dimension 6
//	r, _ := space.LinearEmbedding(s, space.MustTensorProduct(v, v))
//
// Every structured space except a tensor product stores only its independent
// components; its Rule reconstructs the full product.
package space

import (
	"github.com/born-ml/tenh/internal/embedding"
	"github.com/born-ml/tenh/internal/space"
	"github.com/born-ml/tenh/tensor"
)

// Space describes a vector space.
type Space = space.Space

// Kind identifies the structure a Space describes.
type Kind = space.Kind

// Space kinds.
const (
	KindBase           Kind = space.KindBase
	KindTensorProduct  Kind = space.KindTensorProduct
	KindSymmetricPower Kind = space.KindSymmetricPower
	KindExteriorPower  Kind = space.KindExteriorPower
	KindDiagonal2      Kind = space.KindDiagonal2
	KindScalar2        Kind = space.KindScalar2
	KindSum            Kind = space.KindSum
	KindDirectSum      Kind = space.KindDirectSum
)

// Embedding pairs a structured space's rule with the product space it embeds in.
type Embedding = space.Embedding

// Rule maps between a compact index space and a full tensor product.
type Rule = embedding.Rule

// Errors.
var (
	ErrInvalidSpace = space.ErrInvalidSpace
	ErrNoEmbedding  = space.ErrNoEmbedding
	ErrInvalidRule  = embedding.ErrInvalidRule
	ErrDomain       = embedding.ErrDomain
)

// NewVectorSpace declares a base space with a standard basis.
func NewVectorSpace(name string, dim int, field tensor.Field) (*Space, error) {
	return space.NewVectorSpace(name, dim, field)
}

// NewAbstractVectorSpace declares a base space without a basis. Tensors cannot
// be stored over it.
func NewAbstractVectorSpace(name string, dim int, field tensor.Field) (*Space, error) {
	return space.NewAbstractVectorSpace(name, dim, field)
}

// TensorProduct returns the ordered product of factors.
func TensorProduct(factors ...*Space) (*Space, error) {
	return space.TensorProduct(factors...)
}

// MustTensorProduct is TensorProduct that panics on error.
func MustTensorProduct(factors ...*Space) *Space {
	s, err := space.TensorProduct(factors...)
	if err != nil {
		panic(err)
	}
	return s
}

// SymmetricPower returns Sym^k(f).
func SymmetricPower(k int, f *Space) (*Space, error) {
	return space.SymmetricPower(k, f)
}

// ExteriorPower returns Λ^k(f).
func ExteriorPower(k int, f *Space) (*Space, error) {
	return space.ExteriorPower(k, f)
}

// Diagonal2 returns the diagonal 2-tensors of a⊗b.
func Diagonal2(a, b *Space) (*Space, error) {
	return space.Diagonal2(a, b)
}

// Scalar2 returns the scalar multiples of the identity on f⊗f.
func Scalar2(f *Space) (*Space, error) {
	return space.Scalar2(f)
}

// Sum returns the direct sum of vector spaces.
func Sum(summands ...*Space) (*Space, error) {
	return space.Sum(summands...)
}

// DirectSum returns the block-diagonal direct sum of 2-tensor spaces.
func DirectSum(summands ...*Space) (*Space, error) {
	return space.DirectSum(summands...)
}

// LinearEmbedding returns the rule embedding domain into codomain.
func LinearEmbedding(domain, codomain *Space) (Rule, error) {
	return space.LinearEmbedding(domain, codomain)
}
