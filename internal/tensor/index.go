package tensor

import "fmt"

// ComponentIndex identifies one basis component of a single factor: a value in [0, dim).
type ComponentIndex struct {
	value int
	dim   int
}

// NewComponentIndex returns a range-checked component index.
func NewComponentIndex(value, dim int) (ComponentIndex, error) {
	if value < 0 || value >= dim {
		return ComponentIndex{}, fmt.Errorf("%w: component %d for dimension %d", ErrIndexOutOfRange, value, dim)
	}
	return ComponentIndex{value: value, dim: dim}, nil
}

// UncheckedComponentIndex builds a component index without range checking.
// Only for values that are valid by construction, e.g. freshly decomposed from a
// valid flat index.
func UncheckedComponentIndex(value, dim int) ComponentIndex {
	return ComponentIndex{value: value, dim: dim}
}

// Value returns the component number.
func (c ComponentIndex) Value() int { return c.value }

// Dim returns the dimension the index ranges over.
func (c ComponentIndex) Dim() int { return c.dim }

// Increment advances to the next component. Past the last one the index is at end.
func (c *ComponentIndex) Increment() {
	if c.value < c.dim {
		c.value++
	}
}

// AtEnd reports whether the index is one past the last valid component.
func (c ComponentIndex) AtEnd() bool { return c.value >= c.dim }

// String returns the index as "value/dim".
func (c ComponentIndex) String() string {
	return fmt.Sprintf("%d/%d", c.value, c.dim)
}
