package indices

import (
	"fmt"
	"slices"
)

// Analysis is the free/summed split of an axis list.
type Analysis struct {
	// Free holds the axes whose symbol occurs once, in their original order.
	Free Axes
	// Summed holds one axis per contracted pair, in first-occurrence order.
	Summed Axes
}

// Analyze splits axes into free and summed axes.
//
// A symbol occurring once is free. A symbol occurring twice is summed, and its two
// axes must pair naturally (one is the dual of the other). More occurrences fail
// with ErrRepeatedIndex.
func Analyze(axes Axes) (Analysis, error) {
	var a Analysis
	for i, ax := range axes {
		first := axes.IndexOf(ax.Symbol)
		count := 0
		second := -1
		for j := range axes {
			if axes[j].Symbol == ax.Symbol {
				count++
				if j != first && second < 0 {
					second = j
				}
			}
		}
		switch {
		case count > 2:
			return Analysis{}, fmt.Errorf("%w: %q occurs %d times", ErrRepeatedIndex, ax.Symbol, count)
		case count == 1:
			a.Free = append(a.Free, ax)
		case i == first:
			other := axes[second]
			if !ax.Space.PairsNaturallyWith(other.Space) {
				return Analysis{}, fmt.Errorf("%w: %q pairs %s with %s", ErrNonNaturalPairing, ax.Symbol, ax.Space, other.Space)
			}
			a.Summed = append(a.Summed, ax)
		}
	}
	return a, nil
}

// Scope is the index footprint of an expression: its free axes and every symbol used
// anywhere inside it.
type Scope struct {
	Free Axes
	Used []Symbol
}

// Bound returns the symbols used inside the scope that are not free.
func (s Scope) Bound() []Symbol {
	var out []Symbol
	for _, sym := range s.Used {
		if !s.Free.Contains(sym) {
			out = append(out, sym)
		}
	}
	return out
}

// CheckCollisions fails with ErrRepeatedIndex if a symbol bound inside one scope is
// used anywhere in the other. Free symbols shared by both scopes are not collisions;
// they become summed pairs.
func CheckCollisions(a, b Scope) error {
	for _, sym := range a.Bound() {
		if slices.Contains(b.Used, sym) {
			return fmt.Errorf("%w: %q is already summed in the left operand", ErrRepeatedIndex, sym)
		}
	}
	for _, sym := range b.Bound() {
		if slices.Contains(a.Used, sym) {
			return fmt.Errorf("%w: %q is already summed in the right operand", ErrRepeatedIndex, sym)
		}
	}
	return nil
}

// Union returns the symbols of a followed by those of b not already present.
func Union(a, b []Symbol) []Symbol {
	out := slices.Clone(a)
	for _, sym := range b {
		if !slices.Contains(out, sym) {
			out = append(out, sym)
		}
	}
	return out
}
