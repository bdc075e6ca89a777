// Package embedding implements the linear embeddings that let a compactly stored
// tensor stand in for a full tensor product.
//
// A Rule relates a compact index space (the Domain) to a full index space (the
// Codomain, a list of factor dimensions addressed in row-major order). Symmetries
// such as symmetric, exterior and diagonal powers store only their independent
// components; the rule reconstructs every full component as either a procedural
// zero or a signed copy of one compact component.
//
// Rules are stateless and safe for concurrent use.
package embedding

import (
	"fmt"
	"iter"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/born-ml/tenh/internal/tensor"
)

// Rule maps between a compact index space and the full tensor product it embeds in.
//
// ScaleFactor and SourceIndex are unchecked: calling them on a procedural-zero position
// returns a value that must not be trusted. Use CheckedScaleFactor and
// CheckedSourceIndex when the caller has not already tested IsProceduralZero.
type Rule interface {
	// Domain returns the number of compact components.
	Domain() int
	// Codomain returns the factor dimensions of the full space.
	Codomain() tensor.Shape
	// IsProceduralZero reports whether full position j is zero by symmetry.
	IsProceduralZero(j int) bool
	// ScaleFactor returns the sign applied to the source component of full position j.
	ScaleFactor(j int) int
	// SourceIndex returns the compact component that full position j copies.
	SourceIndex(j int) int
	// Coembed yields every full position whose source is compact index i, with its
	// scale factor. The sequence is finite and may be ranged over repeatedly.
	Coembed(i int) iter.Seq2[int, int]
	// Representative returns the canonical full position of compact index i.
	Representative(i int) int
	// String returns a structural description; equal strings mean equal rules.
	String() string
}

// Equal reports whether two rules describe the same embedding.
func Equal(a, b Rule) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// CodomainSize returns the number of full positions of r.
func CodomainSize(r Rule) int {
	return r.Codomain().NumElements()
}

// CheckedScaleFactor is ScaleFactor with range and domain checking.
func CheckedScaleFactor(r Rule, j int) (int, error) {
	if err := checkPosition(r, j); err != nil {
		return 0, err
	}
	return r.ScaleFactor(j), nil
}

// CheckedSourceIndex is SourceIndex with range and domain checking.
func CheckedSourceIndex(r Rule, j int) (int, error) {
	if err := checkPosition(r, j); err != nil {
		return 0, err
	}
	return r.SourceIndex(j), nil
}

func checkPosition(r Rule, j int) error {
	if _, err := tensor.NewComponentIndex(j, CodomainSize(r)); err != nil {
		return err
	}
	if r.IsProceduralZero(j) {
		return fmt.Errorf("%w: %d is a procedural zero of %s", ErrDomain, j, r)
	}
	return nil
}

// Binomial returns n choose k, or 0 when k is outside [0, n].
func Binomial(n, k int) int {
	if k < 0 || n < 0 || k > n {
		return 0
	}
	return combin.Binomial(n, k)
}

// GreatestBinomialIndex returns the greatest t with Binomial(t, d) <= j.
// For d = 2 this is the greatest t with t(t-1)/2 <= j.
func GreatestBinomialIndex(j, d int) int {
	t := d - 1 // Binomial(d-1, d) == 0 <= j
	if t < 0 {
		t = 0
	}
	for Binomial(t+1, d) <= j {
		t++
	}
	return t
}

// GreatestTriangularIndex returns the greatest t with t(t-1)/2 <= j.
func GreatestTriangularIndex(j int) int {
	return GreatestBinomialIndex(j, 2)
}

func single(j, scale int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		yield(j, scale)
	}
}
