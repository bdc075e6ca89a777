package embedding

import (
	"fmt"
	"iter"
	"strings"

	"github.com/born-ml/tenh/internal/tensor"
)

// Identity is the embedding of a plain tensor product into itself: every full
// position is stored, with scale factor 1.
type Identity struct {
	shape tensor.Shape
}

// NewIdentity returns the identity embedding over the given factor dimensions.
func NewIdentity(shape tensor.Shape) (Identity, error) {
	if err := shape.Validate(); err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidRule, err)
	}
	return Identity{shape: shape.Clone()}, nil
}

// Domain returns the product of the factor dimensions.
func (r Identity) Domain() int { return r.shape.NumElements() }

// Codomain returns the factor dimensions.
func (r Identity) Codomain() tensor.Shape { return r.shape }

// IsProceduralZero always returns false.
func (r Identity) IsProceduralZero(int) bool { return false }

// ScaleFactor always returns 1.
func (r Identity) ScaleFactor(int) int { return 1 }

// SourceIndex returns j.
func (r Identity) SourceIndex(j int) int { return j }

// Coembed yields i itself.
func (r Identity) Coembed(i int) iter.Seq2[int, int] { return single(i, 1) }

// Representative returns i.
func (r Identity) Representative(i int) int { return i }

func (r Identity) String() string {
	dims := make([]string, len(r.shape))
	for i, d := range r.shape {
		dims[i] = fmt.Sprint(d)
	}
	return "id(" + strings.Join(dims, "x") + ")"
}
