package tensor

import (
	"fmt"
	"strings"
)

// MultiIndex is an ordered tuple of component indices, one per factor of a tensor product.
//
// Enumeration is row-major: the last axis varies fastest. Incrementing past the last
// combination puts the multi-index into an end state, mirroring an end iterator.
//
// Example:
//
//	m := tensor.NewMultiIndex(tensor.Shape{2, 3})
//	for ; !m.AtEnd(); m.Increment() {
//	    fmt.Println(m.Flat()) // 0, 1, ..., 5
//	}
type MultiIndex struct {
	shape  Shape
	values []int
	end    bool
}

// NewMultiIndex returns the all-zeros multi-index over shape.
// A shape with a zero dimension has no combinations, so the result starts at end.
func NewMultiIndex(shape Shape) *MultiIndex {
	return &MultiIndex{
		shape:  shape.Clone(),
		values: make([]int, len(shape)),
		end:    shape.HasZero(),
	}
}

// FromFlat decomposes a flat row-major index into a multi-index over shape.
func FromFlat(n int, shape Shape) (*MultiIndex, error) {
	if n < 0 || n >= shape.NumElements() {
		return nil, fmt.Errorf("%w: flat index %d for shape %v", ErrIndexOutOfRange, n, shape)
	}
	m := NewMultiIndex(shape)
	Unflatten(n, shape, m.values)
	return m, nil
}

// FromValues builds a range-checked multi-index from explicit per-axis values.
func FromValues(shape Shape, values ...int) (*MultiIndex, error) {
	if len(values) != len(shape) {
		return nil, fmt.Errorf("%w: %d values for %d axes", ErrIndexOutOfRange, len(values), len(shape))
	}
	for i, v := range values {
		if _, err := NewComponentIndex(v, shape[i]); err != nil {
			return nil, fmt.Errorf("axis %d: %w", i, err)
		}
	}
	m := NewMultiIndex(shape)
	copy(m.values, values)
	return m, nil
}

// Flat composes the multi-index into its row-major flat index.
// At end it returns the number of combinations.
func (m *MultiIndex) Flat() int {
	if m.end {
		return m.shape.NumElements()
	}
	return FlatIndex(m.values, m.shape)
}

// Shape returns the per-axis dimensions.
func (m *MultiIndex) Shape() Shape { return m.shape }

// Len returns the number of axes.
func (m *MultiIndex) Len() int { return len(m.values) }

// At returns the component on axis i.
func (m *MultiIndex) At(i int) int { return m.values[i] }

// Values returns a copy of the per-axis components.
func (m *MultiIndex) Values() []int {
	out := make([]int, len(m.values))
	copy(out, m.values)
	return out
}

// Leading returns the sub-tuple made of the first k axes.
func (m *MultiIndex) Leading(k int) *MultiIndex {
	out := NewMultiIndex(m.shape[:k])
	copy(out.values, m.values[:k])
	out.end = m.end
	return out
}

// Trailing returns the sub-tuple made of the axes from k onward.
func (m *MultiIndex) Trailing(k int) *MultiIndex {
	out := NewMultiIndex(m.shape[k:])
	copy(out.values, m.values[k:])
	out.end = m.end
	return out
}

// Concat joins two multi-indices; the result has a's axes followed by b's.
func Concat(a, b *MultiIndex) *MultiIndex {
	shape := make(Shape, 0, len(a.shape)+len(b.shape))
	shape = append(append(shape, a.shape...), b.shape...)
	out := NewMultiIndex(shape)
	copy(out.values, a.values)
	copy(out.values[len(a.values):], b.values)
	out.end = out.end || a.end || b.end
	return out
}

// Increment moves to the row-major successor, or to the end state after the last one.
func (m *MultiIndex) Increment() {
	if m.end {
		return
	}
	if !IncrementValues(m.values, m.shape) {
		m.end = true
	}
}

// AtEnd reports whether enumeration has passed the last combination.
func (m *MultiIndex) AtEnd() bool { return m.end }

// Reset returns to the all-zeros combination.
func (m *MultiIndex) Reset() {
	clear(m.values)
	m.end = m.shape.HasZero()
}

// String formats the multi-index as "(i0,i1,...)".
func (m *MultiIndex) String() string {
	if m.end {
		return "(end)"
	}
	parts := make([]string, len(m.values))
	for i, v := range m.values {
		parts[i] = fmt.Sprint(v)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// FlatIndex returns the row-major flat index of values over shape. No range checking.
func FlatIndex(values []int, shape Shape) int {
	flat := 0
	for i, v := range values {
		flat = flat*shape[i] + v
	}
	return flat
}

// Unflatten writes the row-major decomposition of n over shape into dst.
// No range checking; dst must have len(shape) elements.
func Unflatten(n int, shape Shape, dst []int) {
	for i := len(shape) - 1; i >= 0; i-- {
		dst[i] = n % shape[i]
		n /= shape[i]
	}
}

// IncrementValues advances values to its row-major successor in place.
// It returns false, leaving values all zero, once the leading axis overflows.
func IncrementValues(values []int, shape Shape) bool {
	for i := len(values) - 1; i >= 0; i-- {
		values[i]++
		if values[i] < shape[i] {
			return true
		}
		values[i] = 0
	}
	return false
}
