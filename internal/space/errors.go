package space

import "errors"

// Errors returned by space construction and queries.
var (
	// ErrInvalidSpace is returned when a space is built from inconsistent parts.
	ErrInvalidSpace = errors.New("space: invalid space")

	// ErrNoEmbedding is returned when no linear embedding relates two spaces.
	ErrNoEmbedding = errors.New("space: no linear embedding")
)
