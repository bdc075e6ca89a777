// Package indices resolves abstract index symbols into free and summed axes and
// builds the maps that route a combined multi-index into each operand's own axes.
package indices

import (
	"fmt"
	"strings"

	"github.com/born-ml/tenh/internal/space"
	"github.com/born-ml/tenh/internal/tensor"
)

// Symbol is an abstract index label such as "i" or "j".
type Symbol string

// Axis is one tagged factor of an expression.
type Axis struct {
	Space  *space.Space
	Symbol Symbol
}

func (a Axis) String() string { return fmt.Sprintf("%s:%s", a.Symbol, a.Space) }

// Axes is an ordered list of tagged factors.
type Axes []Axis

// Shape returns the dimension of each axis.
func (a Axes) Shape() tensor.Shape {
	shape := make(tensor.Shape, len(a))
	for i, ax := range a {
		shape[i] = ax.Space.Dim()
	}
	return shape
}

// Symbols returns the symbol of each axis.
func (a Axes) Symbols() []Symbol {
	out := make([]Symbol, len(a))
	for i, ax := range a {
		out[i] = ax.Symbol
	}
	return out
}

// IndexOf returns the position of the first axis tagged s, or -1.
func (a Axes) IndexOf(s Symbol) int {
	for i, ax := range a {
		if ax.Symbol == s {
			return i
		}
	}
	return -1
}

// Contains reports whether some axis is tagged s.
func (a Axes) Contains(s Symbol) bool { return a.IndexOf(s) >= 0 }

// Concat returns a followed by b.
func (a Axes) Concat(b Axes) Axes {
	out := make(Axes, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}

// SameSymbols reports whether a and b carry the same set of symbols, in any order.
func (a Axes) SameSymbols(b Axes) bool {
	if len(a) != len(b) {
		return false
	}
	for _, ax := range a {
		j := b.IndexOf(ax.Symbol)
		if j < 0 || !b[j].Space.Equal(ax.Space) {
			return false
		}
	}
	return true
}

// Signature describes the symbols and dimensions of the axes; two lists with equal
// signatures route multi-indices identically.
func (a Axes) Signature() string {
	var sb strings.Builder
	for i, ax := range a {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%s:%d", ax.Symbol, ax.Space.Dim())
	}
	return sb.String()
}

func (a Axes) String() string {
	parts := make([]string, len(a))
	for i, ax := range a {
		parts[i] = ax.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
