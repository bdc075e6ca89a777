package embedding

import "errors"

// Errors returned by embedding rules.
var (
	// ErrDomain is returned when a scale factor or source index is requested for a
	// procedural-zero position.
	ErrDomain = errors.New("embedding: position is not in the domain")

	// ErrInvalidRule is returned when a rule is constructed from inconsistent parameters.
	ErrInvalidRule = errors.New("embedding: invalid rule")
)
