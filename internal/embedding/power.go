package embedding

import (
	"fmt"
	"iter"
	"slices"

	"github.com/born-ml/tenh/internal/tensor"
)

// SymmetricPower embeds the k-th symmetric power of an n-dimensional space into its
// k-fold tensor product.
//
// A full position is the tuple (a_0, ..., a_{k-1}); its compact index is found by sorting
// the tuple non-increasing, shifting b_p = a_p + (k-1-p) to make it strictly decreasing,
// and summing Binomial(b_p, k-p).
type SymmetricPower struct {
	k, n  int
	shape tensor.Shape
}

// NewSymmetricPower returns the Sym^k -> ⊗^k embedding over dimension n.
func NewSymmetricPower(k, n int) (SymmetricPower, error) {
	if k < 1 || n < 0 {
		return SymmetricPower{}, fmt.Errorf("%w: symmetric power k=%d n=%d", ErrInvalidRule, k, n)
	}
	return SymmetricPower{k: k, n: n, shape: repeated(k, n)}, nil
}

// Domain returns Binomial(n+k-1, k).
func (r SymmetricPower) Domain() int {
	if r.n == 0 {
		return 0
	}
	return Binomial(r.n+r.k-1, r.k)
}

// Codomain returns k copies of n.
func (r SymmetricPower) Codomain() tensor.Shape { return r.shape }

// IsProceduralZero always returns false.
func (r SymmetricPower) IsProceduralZero(int) bool { return false }

// ScaleFactor always returns 1.
func (r SymmetricPower) ScaleFactor(int) int { return 1 }

// SourceIndex returns the compact index of the sorted tuple at j.
func (r SymmetricPower) SourceIndex(j int) int {
	a := sortedDescending(j, r.shape)
	idx := 0
	for p, v := range a {
		idx += Binomial(v+r.k-1-p, r.k-p)
	}
	return idx
}

// Coembed yields every distinct permutation of the tuple for compact index i.
func (r SymmetricPower) Coembed(i int) iter.Seq2[int, int] {
	base := r.decode(i)
	return func(yield func(int, int) bool) {
		perm := slices.Clone(base)
		slices.Sort(perm)
		for {
			if !yield(tensor.FlatIndex(perm, r.shape), 1) {
				return
			}
			if !nextPermutation(perm) {
				return
			}
		}
	}
}

// Representative returns the position of the non-increasing tuple for i.
func (r SymmetricPower) Representative(i int) int {
	return tensor.FlatIndex(r.decode(i), r.shape)
}

func (r SymmetricPower) decode(i int) []int {
	a := make([]int, r.k)
	rem := i
	for p := range a {
		d := r.k - p
		b := GreatestBinomialIndex(rem, d)
		rem -= Binomial(b, d)
		a[p] = b - (r.k - 1 - p)
	}
	return a
}

func (r SymmetricPower) String() string { return fmt.Sprintf("sym(%d,%d)", r.k, r.n) }

// ExteriorPower embeds the k-th exterior power of an n-dimensional space into its
// k-fold tensor product.
//
// Tuples with a repeated entry are procedural zeros. Otherwise the compact index of the
// tuple comes from sorting it strictly decreasing and summing Binomial(a_p, k-p). The
// representative is the increasing arrangement, and the scale factor is the sign of the
// permutation that sorts the tuple into it.
type ExteriorPower struct {
	k, n  int
	shape tensor.Shape
}

// NewExteriorPower returns the Λ^k -> ⊗^k embedding over dimension n.
func NewExteriorPower(k, n int) (ExteriorPower, error) {
	if k < 1 || n < 0 {
		return ExteriorPower{}, fmt.Errorf("%w: exterior power k=%d n=%d", ErrInvalidRule, k, n)
	}
	return ExteriorPower{k: k, n: n, shape: repeated(k, n)}, nil
}

// Domain returns Binomial(n, k).
func (r ExteriorPower) Domain() int { return Binomial(r.n, r.k) }

// Codomain returns k copies of n.
func (r ExteriorPower) Codomain() tensor.Shape { return r.shape }

// IsProceduralZero reports whether the tuple at j repeats an entry.
func (r ExteriorPower) IsProceduralZero(j int) bool {
	a := sortedDescending(j, r.shape)
	for p := 1; p < len(a); p++ {
		if a[p] == a[p-1] {
			return true
		}
	}
	return false
}

// ScaleFactor returns the sign of the permutation that sorts the tuple at j increasing.
func (r ExteriorPower) ScaleFactor(j int) int {
	a := make([]int, r.k)
	tensor.Unflatten(j, r.shape, a)
	return permutationSign(a)
}

// SourceIndex returns the compact index of the sorted tuple at j.
func (r ExteriorPower) SourceIndex(j int) int {
	a := sortedDescending(j, r.shape)
	idx := 0
	for p, v := range a {
		idx += Binomial(v, r.k-p)
	}
	return idx
}

// Coembed yields every permutation of the tuple for compact index i, with its sign.
func (r ExteriorPower) Coembed(i int) iter.Seq2[int, int] {
	base := r.decode(i)
	return func(yield func(int, int) bool) {
		perm := slices.Clone(base)
		slices.Sort(perm)
		for {
			if !yield(tensor.FlatIndex(perm, r.shape), permutationSign(perm)) {
				return
			}
			if !nextPermutation(perm) {
				return
			}
		}
	}
}

// Representative returns the position of the increasing tuple for i.
func (r ExteriorPower) Representative(i int) int {
	a := r.decode(i)
	slices.Reverse(a)
	return tensor.FlatIndex(a, r.shape)
}

func (r ExteriorPower) decode(i int) []int {
	a := make([]int, r.k)
	rem := i
	for p := range a {
		d := r.k - p
		a[p] = GreatestBinomialIndex(rem, d)
		rem -= Binomial(a[p], d)
	}
	return a
}

func (r ExteriorPower) String() string { return fmt.Sprintf("ext(%d,%d)", r.k, r.n) }

func repeated(k, n int) tensor.Shape {
	shape := make(tensor.Shape, k)
	for i := range shape {
		shape[i] = n
	}
	return shape
}

func sortedDescending(j int, shape tensor.Shape) []int {
	a := make([]int, len(shape))
	tensor.Unflatten(j, shape, a)
	slices.Sort(a)
	slices.Reverse(a)
	return a
}

// permutationSign returns (-1)^m where m counts the inversions p < q, a[p] > a[q].
func permutationSign(a []int) int {
	sign := 1
	for p := range a {
		for q := p + 1; q < len(a); q++ {
			if a[p] > a[q] {
				sign = -sign
			}
		}
	}
	return sign
}

// nextPermutation advances a to its lexicographic successor, skipping duplicates.
// It returns false when a is already the last permutation.
func nextPermutation(a []int) bool {
	i := len(a) - 2
	for i >= 0 && a[i] >= a[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(a) - 1
	for a[j] <= a[i] {
		j--
	}
	a[i], a[j] = a[j], a[i]
	slices.Reverse(a[i+1:])
	return true
}
