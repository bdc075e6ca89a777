package expr

import (
	"errors"

	"github.com/born-ml/tenh/internal/indices"
)

// Errors returned by expression construction, evaluation and assignment.
var (
	// ErrFreeIndexMismatch is returned when two operands (or an assignment target and
	// its source) do not carry the same free indices.
	ErrFreeIndexMismatch = errors.New("expr: free indices do not match")

	// ErrNonScalarExpression is returned when a scalar is requested from an expression
	// that still has free indices.
	ErrNonScalarExpression = errors.New("expr: expression has free indices")

	// ErrAliasing is returned when an assignment target is also read by its source.
	ErrAliasing = errors.New("expr: assignment target aliases a source operand; use an intermediate value")

	// ErrFactorMismatch is returned when index symbols do not line up with the factors
	// of the space they address.
	ErrFactorMismatch = errors.New("expr: indices do not match the factors of the space")

	// ErrUnknownIndex is returned when an operation names a symbol the operand lacks.
	ErrUnknownIndex = indices.ErrUnknownIndex
)
