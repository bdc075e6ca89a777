package indices

import (
	"fmt"
	"sync"

	"github.com/born-ml/tenh/internal/tensor"
)

// IndexMap routes a multi-index over a source axis list into a target axis list.
//
// Each target axis takes the component of the source axis with the same symbol.
// A target may name a symbol more than once; both positions then read the same source
// component, which is how a trace such as A(i,i) reads its diagonal.
type IndexMap struct {
	source  tensor.Shape
	target  tensor.Shape
	pos     []int
	strides []int
}

// NewIndexMap builds the map from source to target. Every target symbol must occur in
// source, and matched axes must agree in dimension.
func NewIndexMap(source, target Axes) (*IndexMap, error) {
	m := &IndexMap{
		source: source.Shape(),
		target: target.Shape(),
		pos:    make([]int, len(target)),
	}
	for k, ax := range target {
		p := source.IndexOf(ax.Symbol)
		if p < 0 {
			return nil, fmt.Errorf("%w: %q not in %s", ErrUnknownIndex, ax.Symbol, source)
		}
		if m.source[p] != m.target[k] {
			return nil, fmt.Errorf("%w: %q has dimension %d and %d", tensor.ErrSizeMismatch, ax.Symbol, m.source[p], m.target[k])
		}
		m.pos[k] = p
	}
	m.strides = m.target.ComputeStrides()
	return m, nil
}

// Target returns the target shape.
func (m *IndexMap) Target() tensor.Shape { return m.target }

// Apply writes the routed components of src into dst, which must have one slot per
// target axis.
func (m *IndexMap) Apply(src, dst []int) {
	for k, p := range m.pos {
		dst[k] = src[p]
	}
}

// Flat returns the row-major flat index of the routed multi-index over the target.
func (m *IndexMap) Flat(src []int) int {
	flat := 0
	for k, p := range m.pos {
		flat += src[p] * m.strides[k]
	}
	return flat
}

// Cache memoizes index maps by the signatures of their axis lists. A Cache belongs to
// one expression builder; it is safe for concurrent use.
type Cache struct {
	mu   sync.Mutex
	maps map[string]*IndexMap
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{maps: make(map[string]*IndexMap)}
}

// Get returns the map from source to target, building it on first use.
func (c *Cache) Get(source, target Axes) (*IndexMap, error) {
	key := source.Signature() + "->" + target.Signature()
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.maps[key]; ok {
		return m, nil
	}
	m, err := NewIndexMap(source, target)
	if err != nil {
		return nil, err
	}
	c.maps[key] = m
	return m, nil
}

// Len returns the number of cached maps.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.maps)
}
