package tensor

import "errors"

// Errors returned by index construction and storage access.
var (
	// ErrIndexOutOfRange is returned when a component index falls outside its dimension.
	ErrIndexOutOfRange = errors.New("tensor: index out of range")

	// ErrSizeMismatch is returned when a storage size does not match the space it backs.
	ErrSizeMismatch = errors.New("tensor: size mismatch")

	// ErrReadOnly is returned when writing to procedural storage.
	ErrReadOnly = errors.New("tensor: storage is read-only")
)
