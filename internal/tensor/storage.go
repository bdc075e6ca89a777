package tensor

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Reader is read access to a flat, row-major component array.
type Reader[T Scalar] interface {
	// Get returns the component at a flat index in [0, Size()).
	Get(i int) T
	// Size returns the number of stored components.
	Size() int
}

// Storage is a Reader that can also be written.
type Storage[T Scalar] interface {
	Reader[T]
	Set(i int, v T)
}

// Overlapper is implemented by storage that can detect shared memory with another reader.
type Overlapper interface {
	Overlaps(other any) bool
}

// Aliases reports whether two storage values refer to the same memory.
// Storage that implements Overlapper decides for itself; otherwise only identical
// references alias.
func Aliases(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	if o, ok := a.(Overlapper); ok && o.Overlaps(b) {
		return true
	}
	if o, ok := b.(Overlapper); ok && o.Overlaps(a) {
		return true
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// Dense is contiguous in-memory component storage.
//
// Slices of a Dense share its memory; Overlaps reports that sharing so the
// assignment routine can reject aliased writes.
type Dense[T Scalar] struct {
	data []T
}

// NewDense allocates zero-initialized storage for size components.
func NewDense[T Scalar](size int) *Dense[T] {
	return &Dense[T]{data: make([]T, size)}
}

// FromSlice creates storage holding a copy of data.
func FromSlice[T Scalar](data []T) *Dense[T] {
	d := NewDense[T](len(data))
	copy(d.data, data)
	return d
}

// Wrap creates storage that borrows data without copying.
//
// WARNING: writes through the storage modify data.
func Wrap[T Scalar](data []T) *Dense[T] {
	return &Dense[T]{data: data}
}

// Get returns the component at flat index i.
func (d *Dense[T]) Get(i int) T { return d.data[i] }

// Set writes the component at flat index i.
func (d *Dense[T]) Set(i int, v T) { d.data[i] = v }

// Size returns the number of components.
func (d *Dense[T]) Size() int { return len(d.data) }

// Data returns the underlying slice (zero-copy).
func (d *Dense[T]) Data() []T { return d.data }

// DType returns the runtime tag of the component type.
func (d *Dense[T]) DType() DataType { return DataTypeOf[T]() }

// Clone returns a deep copy.
func (d *Dense[T]) Clone() *Dense[T] { return FromSlice(d.data) }

// Slice returns a view over components [start, end) sharing this storage's memory.
func (d *Dense[T]) Slice(start, end int) (*Dense[T], error) {
	if start < 0 || end > len(d.data) || start > end {
		return nil, fmt.Errorf("%w: slice [%d:%d] of %d components", ErrIndexOutOfRange, start, end, len(d.data))
	}
	return &Dense[T]{data: d.data[start:end:end]}, nil
}

// Overlaps reports whether other is a Dense whose memory range intersects this one.
func (d *Dense[T]) Overlaps(other any) bool {
	o, ok := other.(*Dense[T])
	if !ok {
		return false
	}
	if o == d {
		return true
	}
	if len(d.data) == 0 || len(o.data) == 0 {
		return false
	}
	var zero T
	size := unsafe.Sizeof(zero)
	//nolint:gosec // address arithmetic only compares ranges, nothing is dereferenced
	aStart := uintptr(unsafe.Pointer(unsafe.SliceData(d.data)))
	//nolint:gosec // see above
	bStart := uintptr(unsafe.Pointer(unsafe.SliceData(o.data)))
	aEnd := aStart + uintptr(len(d.data))*size
	bEnd := bStart + uintptr(len(o.data))*size
	return aStart < bEnd && bStart < aEnd
}

// Procedural is read-only storage whose components are computed on demand.
type Procedural[T Scalar] struct {
	size int
	fn   func(i int) T
}

// NewProcedural creates storage of size components generated by fn.
func NewProcedural[T Scalar](size int, fn func(i int) T) *Procedural[T] {
	return &Procedural[T]{size: size, fn: fn}
}

// Get returns the generated component at flat index i.
func (p *Procedural[T]) Get(i int) T { return p.fn(i) }

// Size returns the number of components.
func (p *Procedural[T]) Size() int { return p.size }

// Zero returns procedural storage whose components are all zero.
func Zero[T Scalar](size int) *Procedural[T] {
	return NewProcedural(size, func(int) T { return 0 })
}

// Constant returns procedural storage whose components all equal v.
func Constant[T Scalar](size int, v T) *Procedural[T] {
	return NewProcedural(size, func(int) T { return v })
}

// BasisVector returns procedural storage that is 1 at component k and 0 elsewhere.
func BasisVector[T Scalar](size, k int) (*Procedural[T], error) {
	if _, err := NewComponentIndex(k, size); err != nil {
		return nil, err
	}
	return NewProcedural(size, func(i int) T {
		if i == k {
			return 1
		}
		return 0
	}), nil
}
