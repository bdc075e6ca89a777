// Package tensor provides the index arithmetic and component storage that the
// tensor-expression engine is built on.
package tensor

// Scalar is a constraint for the component types of a tensor.
type Scalar interface {
	~float32 | ~float64 | ~complex64 | ~complex128
}

// DataType represents runtime type information for component storage.
type DataType int

// Supported data types.
const (
	Float32 DataType = iota
	Float64
	Complex64
	Complex128
)

// Field identifies the scalar field a vector space is declared over.
type Field int

// Supported scalar fields.
const (
	Real Field = iota
	Complex
)

// String returns a human-readable name for the field.
func (f Field) String() string {
	switch f {
	case Real:
		return "R"
	case Complex:
		return "C"
	default:
		return "unknown"
	}
}

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float64, Complex64:
		return 8
	case Complex128:
		return 16
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Complex64:
		return "complex64"
	case Complex128:
		return "complex128"
	default:
		return "unknown"
	}
}

// Field returns the scalar field whose elements this data type represents.
func (dt DataType) Field() Field {
	switch dt {
	case Complex64, Complex128:
		return Complex
	default:
		return Real
	}
}

// DataTypeOf infers the DataType of a Scalar type parameter.
// Panics for named types whose underlying type is a Scalar; those have no storage tag.
func DataTypeOf[T Scalar]() DataType {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case complex64:
		return Complex64
	case complex128:
		return Complex128
	default:
		panic("unsupported type")
	}
}
