package safetensors

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrHeaderTooLarge     = errors.New("safetensors: header exceeds maximum size")
	ErrUnsupportedDType   = errors.New("safetensors: unsupported dtype")
	ErrDTypeMismatch      = errors.New("safetensors: dtype mismatch")
	ErrTensorNotFound     = errors.New("safetensors: tensor not found")
	ErrInvalidTensorName  = errors.New("safetensors: invalid tensor name")
	ErrOutOfBounds        = errors.New("safetensors: tensor extends beyond data section")
	ErrOffsetOverlap      = errors.New("safetensors: tensor offsets overlap")
	ErrShapeMismatch      = errors.New("safetensors: shape does not match data length")
	ErrTooManyTensors     = errors.New("safetensors: too many tensors in file")
	ErrMalformedHeaderLen = errors.New("safetensors: malformed header length")
)

// ValidationError provides detailed information about validation failures.
type ValidationError struct {
	Err     error  // One of the sentinel errors above
	Tensor  string // Primary tensor name involved
	Tensor2 string // Secondary tensor name (for overlap errors)
	Details string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := e.Err.Error()
	if e.Tensor != "" {
		msg += fmt.Sprintf(" (tensor %q", e.Tensor)
		if e.Tensor2 != "" {
			msg += fmt.Sprintf(", %q", e.Tensor2)
		}
		msg += ")"
	}
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

// Unwrap returns the sentinel error so callers can use errors.Is.
func (e *ValidationError) Unwrap() error { return e.Err }
