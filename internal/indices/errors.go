package indices

import "errors"

// Errors returned by index analysis.
var (
	// ErrRepeatedIndex is returned when a symbol occurs more than twice in one
	// expression, or when a bound symbol is reused by another operand.
	ErrRepeatedIndex = errors.New("indices: index symbol repeated")

	// ErrNonNaturalPairing is returned when a summed pair is not a space and its dual.
	ErrNonNaturalPairing = errors.New("indices: summed index pair is not a natural pairing")

	// ErrUnknownIndex is returned when a target axis names a symbol the source lacks.
	ErrUnknownIndex = errors.New("indices: unknown index symbol")
)
