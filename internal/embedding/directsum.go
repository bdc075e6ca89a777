package embedding

import (
	"fmt"
	"iter"
	"strings"

	"github.com/born-ml/tenh/internal/tensor"
)

// DirectSum is the block-diagonal embedding of a direct sum of two-factor spaces.
//
// Each block is itself a two-factor rule. The full space has shape
// {Σ rows, Σ cols}; positions outside the block diagonal are procedural zeros with
// scale factor 0, and in-block positions defer to the block's rule after subtracting
// the block's row and column offsets.
type DirectSum struct {
	blocks  []Rule
	rowOff  []int
	colOff  []int
	compOff []int
	rows    int
	cols    int
	domain  int
}

// NewDirectSum returns the block-diagonal embedding of the given two-factor rules.
func NewDirectSum(blocks ...Rule) (*DirectSum, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: direct sum of no blocks", ErrInvalidRule)
	}
	ds := &DirectSum{
		blocks:  append([]Rule(nil), blocks...),
		rowOff:  make([]int, len(blocks)),
		colOff:  make([]int, len(blocks)),
		compOff: make([]int, len(blocks)),
	}
	for b, rule := range blocks {
		shape := rule.Codomain()
		if len(shape) != 2 {
			return nil, fmt.Errorf("%w: direct sum block %d has %d factors, want 2", ErrInvalidRule, b, len(shape))
		}
		ds.rowOff[b], ds.colOff[b], ds.compOff[b] = ds.rows, ds.cols, ds.domain
		ds.rows += shape[0]
		ds.cols += shape[1]
		ds.domain += rule.Domain()
	}
	return ds, nil
}

// Blocks returns the block rules in order.
func (r *DirectSum) Blocks() []Rule { return r.blocks }

// Domain returns the total compact dimension of the blocks.
func (r *DirectSum) Domain() int { return r.domain }

// Codomain returns {Σ rows, Σ cols}.
func (r *DirectSum) Codomain() tensor.Shape { return tensor.Shape{r.rows, r.cols} }

// IsProceduralZero reports whether j lies off the block diagonal or is zero in its block.
func (r *DirectSum) IsProceduralZero(j int) bool {
	b, local, ok := r.locate(j)
	if !ok {
		return true
	}
	return r.blocks[b].IsProceduralZero(local)
}

// ScaleFactor returns 0 off the block diagonal, else the block's scale factor.
func (r *DirectSum) ScaleFactor(j int) int {
	b, local, ok := r.locate(j)
	if !ok {
		return 0
	}
	return r.blocks[b].ScaleFactor(local)
}

// SourceIndex returns the block's compact offset plus the block's source index.
func (r *DirectSum) SourceIndex(j int) int {
	b, local, ok := r.locate(j)
	if !ok {
		return 0
	}
	return r.compOff[b] + r.blocks[b].SourceIndex(local)
}

// Coembed yields the block's coembedding of i, mapped to global positions.
func (r *DirectSum) Coembed(i int) iter.Seq2[int, int] {
	b := r.blockOfCompact(i)
	return func(yield func(int, int) bool) {
		for local, scale := range r.blocks[b].Coembed(i - r.compOff[b]) {
			if !yield(r.global(b, local), scale) {
				return
			}
		}
	}
}

// Representative returns the block's representative of i, mapped to a global position.
func (r *DirectSum) Representative(i int) int {
	b := r.blockOfCompact(i)
	return r.global(b, r.blocks[b].Representative(i-r.compOff[b]))
}

func (r *DirectSum) String() string {
	parts := make([]string, len(r.blocks))
	for i, b := range r.blocks {
		parts[i] = b.String()
	}
	return "dsum(" + strings.Join(parts, ",") + ")"
}

// locate returns the block containing full position j and the position within it.
func (r *DirectSum) locate(j int) (block, local int, ok bool) {
	row, col := j/r.cols, j%r.cols
	for b, rule := range r.blocks {
		shape := rule.Codomain()
		if row < r.rowOff[b] || row >= r.rowOff[b]+shape[0] {
			continue
		}
		if col < r.colOff[b] || col >= r.colOff[b]+shape[1] {
			return 0, 0, false
		}
		return b, (row-r.rowOff[b])*shape[1] + (col - r.colOff[b]), true
	}
	return 0, 0, false
}

func (r *DirectSum) blockOfCompact(i int) int {
	for b := len(r.blocks) - 1; b > 0; b-- {
		if i >= r.compOff[b] && r.blocks[b].Domain() > 0 {
			return b
		}
	}
	return 0
}

func (r *DirectSum) global(b, local int) int {
	cols := r.blocks[b].Codomain()[1]
	row, col := local/cols, local%cols
	return (row+r.rowOff[b])*r.cols + col + r.colOff[b]
}
