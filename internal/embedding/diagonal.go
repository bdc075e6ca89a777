package embedding

import (
	"fmt"
	"iter"

	"github.com/born-ml/tenh/internal/tensor"
)

// Diagonal2 embeds diag2(A,B) into A⊗B.
//
// Full position j decomposes into (row, col) over (dim A, dim B); it is a procedural
// zero off the diagonal. The compact index is taken from the factor with the smaller
// dimension (factor 0 on ties). Both coordinates are equal on the diagonal, so this
// only fixes which factor bounds the compact range.
type Diagonal2 struct {
	dimA, dimB int
}

// NewDiagonal2 returns the diag2 -> A⊗B embedding.
func NewDiagonal2(dimA, dimB int) (Diagonal2, error) {
	if dimA < 0 || dimB < 0 {
		return Diagonal2{}, fmt.Errorf("%w: diag2 dimensions %d, %d", ErrInvalidRule, dimA, dimB)
	}
	return Diagonal2{dimA: dimA, dimB: dimB}, nil
}

// Domain returns min(dim A, dim B).
func (r Diagonal2) Domain() int { return min(r.dimA, r.dimB) }

// Codomain returns {dim A, dim B}.
func (r Diagonal2) Codomain() tensor.Shape { return tensor.Shape{r.dimA, r.dimB} }

// IsProceduralZero reports whether j is off the diagonal.
func (r Diagonal2) IsProceduralZero(j int) bool {
	row, col := j/r.dimB, j%r.dimB
	return row != col
}

// ScaleFactor returns 1.
func (r Diagonal2) ScaleFactor(int) int { return 1 }

// SourceIndex returns the coordinate of the smaller-dimensioned factor.
func (r Diagonal2) SourceIndex(j int) int {
	row, col := j/r.dimB, j%r.dimB
	if r.dimA <= r.dimB {
		return row
	}
	return col
}

// Coembed yields the single diagonal position (i, i).
func (r Diagonal2) Coembed(i int) iter.Seq2[int, int] {
	return single(r.Representative(i), 1)
}

// Representative returns the flat position of (i, i).
func (r Diagonal2) Representative(i int) int { return i * (r.dimB + 1) }

func (r Diagonal2) String() string { return fmt.Sprintf("diag2(%d,%d)", r.dimA, r.dimB) }

// DiagonalToSym2 embeds diag2(A,A) into the second symmetric power of A.
//
// The symmetric power is stored lower-triangular: compact position j of Sym2 holds
// (row, col) with t the greatest integer such that t(t-1)/2 <= j, row = t-1 and
// col = j - t(t-1)/2. Off-diagonal slots are procedural zeros.
type DiagonalToSym2 struct {
	n int
}

// NewDiagonalToSym2 returns the diag2(A,A) -> Sym2(A) embedding for dim A = n.
func NewDiagonalToSym2(n int) (DiagonalToSym2, error) {
	if n < 0 {
		return DiagonalToSym2{}, fmt.Errorf("%w: dimension %d", ErrInvalidRule, n)
	}
	return DiagonalToSym2{n: n}, nil
}

// Domain returns dim A.
func (r DiagonalToSym2) Domain() int { return r.n }

// Codomain returns the single Sym2 factor, of dimension n(n+1)/2.
func (r DiagonalToSym2) Codomain() tensor.Shape { return tensor.Shape{r.n * (r.n + 1) / 2} }

// IsProceduralZero reports whether packed slot j is off the diagonal.
func (r DiagonalToSym2) IsProceduralZero(j int) bool {
	row, col := triangularRowCol(j)
	return row != col
}

// ScaleFactor returns 1.
func (r DiagonalToSym2) ScaleFactor(int) int { return 1 }

// SourceIndex returns the row of packed slot j.
func (r DiagonalToSym2) SourceIndex(j int) int {
	row, _ := triangularRowCol(j)
	return row
}

// Coembed yields the single packed slot of (i, i).
func (r DiagonalToSym2) Coembed(i int) iter.Seq2[int, int] {
	return single(r.Representative(i), 1)
}

// Representative returns i + i(i+1)/2, the packed slot of (i, i).
func (r DiagonalToSym2) Representative(i int) int { return i + i*(i+1)/2 }

func (r DiagonalToSym2) String() string { return fmt.Sprintf("diag2sym2(%d)", r.n) }

func triangularRowCol(j int) (row, col int) {
	t := GreatestTriangularIndex(j)
	return t - 1, j - t*(t-1)/2
}

// Scalar2 embeds a scalar multiple of the identity into A⊗A: one stored component
// copied onto every diagonal position.
type Scalar2 struct {
	n int
}

// NewScalar2 returns the scalar2(A) -> A⊗A embedding for dim A = n.
func NewScalar2(n int) (Scalar2, error) {
	if n < 0 {
		return Scalar2{}, fmt.Errorf("%w: dimension %d", ErrInvalidRule, n)
	}
	return Scalar2{n: n}, nil
}

// Domain returns 1, or 0 when n is 0 and there is no diagonal to store.
func (r Scalar2) Domain() int { return min(r.n, 1) }

// Codomain returns {n, n}.
func (r Scalar2) Codomain() tensor.Shape { return tensor.Shape{r.n, r.n} }

// IsProceduralZero reports whether j is off the diagonal.
func (r Scalar2) IsProceduralZero(j int) bool { return j/r.n != j%r.n }

// ScaleFactor returns 1.
func (r Scalar2) ScaleFactor(int) int { return 1 }

// SourceIndex returns 0.
func (r Scalar2) SourceIndex(int) int { return 0 }

// Coembed yields every diagonal position.
func (r Scalar2) Coembed(int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for k := 0; k < r.n; k++ {
			if !yield(k*(r.n+1), 1) {
				return
			}
		}
	}
}

// Representative returns position (0, 0).
func (r Scalar2) Representative(int) int { return 0 }

func (r Scalar2) String() string { return fmt.Sprintf("scalar2(%d)", r.n) }
