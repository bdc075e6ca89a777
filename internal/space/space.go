// Package space describes the vector spaces that tensor factors live in.
//
// A Space is an immutable capability descriptor rather than a type hierarchy: it
// records what kind of structure it is, its dimension and scalar field, whether it
// is a dual, its sub-factors, and (for compacted structures) the embedding rule into
// its underlying tensor product.
//
// Base spaces are declared with NewVectorSpace, which creates the space and its dual
// together. Duality follows the declaration, not the dimension: two spaces declared
// separately never pair naturally, even when their dimensions agree.
package space

import (
	"fmt"
	"strings"

	"github.com/born-ml/tenh/internal/embedding"
	"github.com/born-ml/tenh/internal/tensor"
)

// Kind identifies the structure a Space describes.
type Kind int

// Space kinds.
const (
	KindBase Kind = iota
	KindTensorProduct
	KindSymmetricPower
	KindExteriorPower
	KindDiagonal2
	KindScalar2
	KindSum
	KindDirectSum
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindBase:
		return "base"
	case KindTensorProduct:
		return "tensor"
	case KindSymmetricPower:
		return "sym"
	case KindExteriorPower:
		return "ext"
	case KindDiagonal2:
		return "diag2"
	case KindScalar2:
		return "scalar2"
	case KindSum:
		return "sum"
	case KindDirectSum:
		return "dsum"
	default:
		return "unknown"
	}
}

// declaration is the identity shared by a base space and its dual.
type declaration struct {
	name     string
	dim      int
	field    tensor.Field
	hasBasis bool
}

// Space is an immutable descriptor of a vector space.
type Space struct {
	kind    Kind
	decl    *declaration // base spaces only
	dual    bool         // base spaces only
	order   int          // powers only
	factors []*Space
	dim     int
	field   tensor.Field
}

// NewVectorSpace declares a based vector space of the given dimension.
// The dual is available through Dual and pairs naturally with the result.
func NewVectorSpace(name string, dim int, field tensor.Field) (*Space, error) {
	return declare(name, dim, field, true)
}

// NewAbstractVectorSpace declares a vector space with no chosen basis. Such a space
// takes part in structural queries, but tensors over it have no components.
func NewAbstractVectorSpace(name string, dim int, field tensor.Field) (*Space, error) {
	return declare(name, dim, field, false)
}

func declare(name string, dim int, field tensor.Field, hasBasis bool) (*Space, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidSpace)
	}
	if dim < 0 {
		return nil, fmt.Errorf("%w: %s has negative dimension %d", ErrInvalidSpace, name, dim)
	}
	d := &declaration{name: name, dim: dim, field: field, hasBasis: hasBasis}
	return &Space{kind: KindBase, decl: d, dim: dim, field: field}, nil
}

// TensorProduct returns the tensor product of the given factors, in order.
func TensorProduct(factors ...*Space) (*Space, error) {
	if len(factors) == 0 {
		return nil, fmt.Errorf("%w: tensor product of no factors", ErrInvalidSpace)
	}
	field, err := commonField(factors)
	if err != nil {
		return nil, err
	}
	dim := 1
	for _, f := range factors {
		dim *= f.dim
	}
	return &Space{kind: KindTensorProduct, factors: clone(factors), dim: dim, field: field}, nil
}

// SymmetricPower returns the k-th symmetric power of f.
func SymmetricPower(k int, f *Space) (*Space, error) {
	if k < 1 || f == nil {
		return nil, fmt.Errorf("%w: symmetric power of order %d", ErrInvalidSpace, k)
	}
	dim := 0
	if f.dim > 0 {
		dim = embedding.Binomial(f.dim+k-1, k)
	}
	return &Space{kind: KindSymmetricPower, order: k, factors: []*Space{f}, dim: dim, field: f.field}, nil
}

// ExteriorPower returns the k-th exterior power of f.
func ExteriorPower(k int, f *Space) (*Space, error) {
	if k < 1 || f == nil {
		return nil, fmt.Errorf("%w: exterior power of order %d", ErrInvalidSpace, k)
	}
	dim := embedding.Binomial(f.dim, k)
	return &Space{kind: KindExteriorPower, order: k, factors: []*Space{f}, dim: dim, field: f.field}, nil
}

// Diagonal2 returns the space of diagonal 2-tensors in a⊗b.
func Diagonal2(a, b *Space) (*Space, error) {
	field, err := commonField([]*Space{a, b})
	if err != nil {
		return nil, err
	}
	return &Space{kind: KindDiagonal2, factors: []*Space{a, b}, dim: min(a.dim, b.dim), field: field}, nil
}

// Scalar2 returns the space of scalar multiples of the identity in f⊗f. It is
// one-dimensional unless f is zero-dimensional.
func Scalar2(f *Space) (*Space, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil factor", ErrInvalidSpace)
	}
	return &Space{kind: KindScalar2, factors: []*Space{f}, dim: min(f.dim, 1), field: f.field}, nil
}

// Sum returns the direct sum of vector spaces, whose basis is the concatenation of the
// summands' bases.
func Sum(summands ...*Space) (*Space, error) {
	if len(summands) == 0 {
		return nil, fmt.Errorf("%w: sum of no spaces", ErrInvalidSpace)
	}
	field, err := commonField(summands)
	if err != nil {
		return nil, err
	}
	dim := 0
	for _, s := range summands {
		dim += s.dim
	}
	return &Space{kind: KindSum, factors: clone(summands), dim: dim, field: field}, nil
}

// DirectSum returns the block-diagonal direct sum of 2-tensor spaces. Each summand must
// embed into a tensor product of exactly two factors.
func DirectSum(summands ...*Space) (*Space, error) {
	if len(summands) == 0 {
		return nil, fmt.Errorf("%w: direct sum of no spaces", ErrInvalidSpace)
	}
	field, err := commonField(summands)
	if err != nil {
		return nil, err
	}
	dim := 0
	for i, s := range summands {
		e, ok := s.Embedding()
		if !ok || len(e.Product.factors) != 2 {
			return nil, fmt.Errorf("%w: direct sum summand %d (%s) is not a 2-tensor space", ErrInvalidSpace, i, s)
		}
		dim += s.dim
	}
	return &Space{kind: KindDirectSum, factors: clone(summands), dim: dim, field: field}, nil
}

func commonField(spaces []*Space) (tensor.Field, error) {
	for i, s := range spaces {
		if s == nil {
			return 0, fmt.Errorf("%w: nil factor %d", ErrInvalidSpace, i)
		}
		if s.field != spaces[0].field {
			return 0, fmt.Errorf("%w: factor %d is over %s, want %s", ErrInvalidSpace, i, s.field, spaces[0].field)
		}
	}
	return spaces[0].field, nil
}

func clone(spaces []*Space) []*Space {
	return append([]*Space(nil), spaces...)
}

// Kind returns the structure kind.
func (s *Space) Kind() Kind { return s.kind }

// Dim returns the dimension.
func (s *Space) Dim() int { return s.dim }

// Field returns the scalar field.
func (s *Space) Field() tensor.Field { return s.field }

// Order returns the order of a power, or the number of factors otherwise.
func (s *Space) Order() int {
	if s.kind == KindSymmetricPower || s.kind == KindExteriorPower {
		return s.order
	}
	return len(s.factors)
}

// Factors returns the sub-factors. Base spaces have none.
func (s *Space) Factors() []*Space { return clone(s.factors) }

// IsDual reports whether s is the dual of a declared base space.
func (s *Space) IsDual() bool { return s.kind == KindBase && s.dual }

// HasBasis reports whether tensors over s have components.
func (s *Space) HasBasis() bool {
	if s.kind == KindBase {
		return s.decl.hasBasis
	}
	for _, f := range s.factors {
		if !f.HasBasis() {
			return false
		}
	}
	return true
}

// Name returns the declared name of a base space, or the structural description
// of a composite one.
func (s *Space) Name() string {
	if s.kind == KindBase {
		return s.decl.name
	}
	return s.String()
}

// Dual returns the dual space. Dual(Dual(s)) equals s.
func (s *Space) Dual() *Space {
	out := *s
	if s.kind == KindBase {
		out.dual = !s.dual
		return &out
	}
	out.factors = make([]*Space, len(s.factors))
	for i, f := range s.factors {
		out.factors[i] = f.Dual()
	}
	return &out
}

// Equal reports whether s and o describe the same space. Base spaces are equal only
// when they come from the same declaration and agree on duality.
func (s *Space) Equal(o *Space) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil || s.kind != o.kind || s.dim != o.dim {
		return false
	}
	if s.kind == KindBase {
		return s.decl == o.decl && s.dual == o.dual
	}
	if s.order != o.order || len(s.factors) != len(o.factors) {
		return false
	}
	for i := range s.factors {
		if !s.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

// PairsNaturallyWith reports whether a contraction of s against o is well defined
// without a metric, i.e. whether o is the dual of s.
func (s *Space) PairsNaturallyWith(o *Space) bool {
	return s.Dual().Equal(o)
}

// String describes the space structurally, e.g. "(V⊗W*)" or "Sym^2(V)".
func (s *Space) String() string {
	switch s.kind {
	case KindBase:
		if s.dual {
			return s.decl.name + "*"
		}
		return s.decl.name
	case KindTensorProduct:
		return "(" + join(s.factors, "⊗") + ")"
	case KindSymmetricPower:
		return fmt.Sprintf("Sym^%d(%s)", s.order, s.factors[0])
	case KindExteriorPower:
		return fmt.Sprintf("Λ^%d(%s)", s.order, s.factors[0])
	case KindDiagonal2:
		return "diag2(" + join(s.factors, ",") + ")"
	case KindScalar2:
		return fmt.Sprintf("scalar2(%s)", s.factors[0])
	case KindSum:
		return "(" + join(s.factors, "⊕") + ")"
	case KindDirectSum:
		return "dsum(" + join(s.factors, ",") + ")"
	default:
		return "?"
	}
}

func join(spaces []*Space, sep string) string {
	parts := make([]string, len(spaces))
	for i, f := range spaces {
		parts[i] = f.String()
	}
	return strings.Join(parts, sep)
}
