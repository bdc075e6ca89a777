// Package safetensors reads and writes tensor components in the SafeTensors
// file format.
//
// Layout:
//
//	[8 bytes: header_size (uint64 LE)]
//	[header_size bytes: JSON header]
//	[tensor data: raw little-endian bytes]
package safetensors

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/born-ml/tenh/internal/tensor"
)

// Validation limits.
const (
	MaxHeaderSize    = 100 * 1024 * 1024
	MaxTensorCount   = 100_000
	MaxTensorNameLen = 4096
)

const metadataKey = "__metadata__"

// DType is a SafeTensors dtype tag.
type DType string

// Supported dtypes. complex128 has no SafeTensors tag.
const (
	F32 DType = "F32"
	F64 DType = "F64"
	C64 DType = "C64"
)

// DTypeOf maps a storage data type to its SafeTensors tag.
func DTypeOf(dt tensor.DataType) (DType, error) {
	switch dt {
	case tensor.Float32:
		return F32, nil
	case tensor.Float64:
		return F64, nil
	case tensor.Complex64:
		return C64, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDType, dt)
	}
}

// DataType maps the tag back to a storage data type.
func (d DType) DataType() (tensor.DataType, error) {
	switch d {
	case F32:
		return tensor.Float32, nil
	case F64:
		return tensor.Float64, nil
	case C64:
		return tensor.Complex64, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedDType, string(d))
	}
}

// Info describes one tensor in a file.
type Info struct {
	DType       DType    `json:"dtype"`
	Shape       []int    `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"` // [start, end)
}

// Size returns the byte length of the tensor's data region.
func (i Info) Size() int64 { return i.DataOffsets[1] - i.DataOffsets[0] }

// header is the decoded JSON header.
type header struct {
	Metadata map[string]string
	Tensors  map[string]Info
}

func (h *header) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	h.Tensors = make(map[string]Info, len(raw))
	for name, msg := range raw {
		if name == metadataKey {
			if err := json.Unmarshal(msg, &h.Metadata); err != nil {
				return fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
			continue
		}
		var info Info
		if err := json.Unmarshal(msg, &info); err != nil {
			return fmt.Errorf("failed to unmarshal tensor %q: %w", name, err)
		}
		h.Tensors[name] = info
	}
	return nil
}

func (h *header) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(h.Tensors)+1)
	if len(h.Metadata) > 0 {
		out[metadataKey] = h.Metadata
	}
	for name, info := range h.Tensors {
		out[name] = info
	}
	return json.Marshal(out)
}

// validate checks names, element counts and that the data regions are in
// bounds and disjoint.
func (h *header) validate(dataSize int64) error {
	if len(h.Tensors) > MaxTensorCount {
		return &ValidationError{Err: ErrTooManyTensors, Details: fmt.Sprintf("got %d, max %d", len(h.Tensors), MaxTensorCount)}
	}

	type region struct {
		name       string
		start, end int64
	}
	regions := make([]region, 0, len(h.Tensors))
	for name, info := range h.Tensors {
		if err := validateName(name); err != nil {
			return err
		}
		dt, err := info.DType.DataType()
		if err != nil {
			return &ValidationError{Err: ErrUnsupportedDType, Tensor: name, Details: string(info.DType)}
		}
		start, end := info.DataOffsets[0], info.DataOffsets[1]
		if start < 0 || end < start || end > dataSize {
			return &ValidationError{Err: ErrOutOfBounds, Tensor: name,
				Details: fmt.Sprintf("[%d, %d) in %d bytes", start, end, dataSize)}
		}
		shape := tensor.Shape(info.Shape)
		if err := shape.Validate(); err != nil {
			return &ValidationError{Err: ErrShapeMismatch, Tensor: name, Details: err.Error()}
		}
		size, ok := byteSize(shape, int64(dt.Size()), dataSize)
		if !ok {
			return &ValidationError{Err: ErrShapeMismatch, Tensor: name,
				Details: fmt.Sprintf("shape %v with %s exceeds %d bytes of data", info.Shape, dt, dataSize)}
		}
		if size != end-start {
			return &ValidationError{Err: ErrShapeMismatch, Tensor: name,
				Details: fmt.Sprintf("shape %v with %s needs %d bytes, have %d", info.Shape, dt, size, end-start)}
		}
		regions = append(regions, region{name, start, end})
	}

	sort.Slice(regions, func(i, j int) bool { return regions[i].start < regions[j].start })
	for i := 0; i+1 < len(regions); i++ {
		if regions[i].end > regions[i+1].start {
			return &ValidationError{Err: ErrOffsetOverlap, Tensor: regions[i].name, Tensor2: regions[i+1].name,
				Details: fmt.Sprintf("[%d, %d) and [%d, %d)", regions[i].start, regions[i].end, regions[i+1].start, regions[i+1].end)}
		}
	}
	return nil
}

// byteSize returns the byte length of shape with elemSize-byte components. It
// reports false once the length would exceed limit, before any product can overflow.
func byteSize(shape tensor.Shape, elemSize, limit int64) (int64, bool) {
	if shape.HasZero() {
		return 0, true
	}
	n := elemSize
	for _, dim := range shape {
		if n > limit/int64(dim) {
			return 0, false
		}
		n *= int64(dim)
	}
	return n, n <= limit
}

func validateName(name string) error {
	switch {
	case name == "":
		return &ValidationError{Err: ErrInvalidTensorName, Details: "empty name"}
	case len(name) > MaxTensorNameLen:
		return &ValidationError{Err: ErrInvalidTensorName, Tensor: name[:32] + "...",
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen)}
	case name == metadataKey:
		return &ValidationError{Err: ErrInvalidTensorName, Tensor: name, Details: "reserved name"}
	case strings.Contains(name, "\x00"):
		return &ValidationError{Err: ErrInvalidTensorName, Tensor: name, Details: "contains null byte"}
	}
	return nil
}

// encode appends the little-endian bytes of data to buf.
func encode[T tensor.Scalar](buf []byte, data []T) []byte {
	switch v := any(data).(type) {
	case []float32:
		for _, x := range v {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(x))
		}
	case []float64:
		for _, x := range v {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(x))
		}
	case []complex64:
		for _, x := range v {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(real(x)))
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(imag(x)))
		}
	default:
		panic("safetensors: encode of unsupported type")
	}
	return buf
}

// decode fills out from little-endian bytes; len(raw) must be len(out)*size.
func decode[T tensor.Scalar](raw []byte, out []T) {
	switch v := any(out).(type) {
	case []float32:
		for i := range v {
			v[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
		}
	case []float64:
		for i := range v {
			v[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
		}
	case []complex64:
		for i := range v {
			re := math.Float32frombits(binary.LittleEndian.Uint32(raw[8*i:]))
			im := math.Float32frombits(binary.LittleEndian.Uint32(raw[8*i+4:]))
			v[i] = complex(re, im)
		}
	default:
		panic("safetensors: decode of unsupported type")
	}
}
