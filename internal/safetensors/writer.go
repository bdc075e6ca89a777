package safetensors

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/born-ml/tenh/internal/tensor"
)

// Entry is one tensor queued for writing.
type Entry struct {
	DType DType
	Shape tensor.Shape
	Data  []byte
}

// NewEntry encodes data with the given shape.
func NewEntry[T tensor.Scalar](shape tensor.Shape, data []T) (Entry, error) {
	dt, err := DTypeOf(tensor.DataTypeOf[T]())
	if err != nil {
		return Entry{}, err
	}
	if err := shape.Validate(); err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	if shape.NumElements() != len(data) {
		return Entry{}, fmt.Errorf("%w: shape %v has %d elements, data has %d",
			ErrShapeMismatch, shape, shape.NumElements(), len(data))
	}
	return Entry{
		DType: dt,
		Shape: shape.Clone(),
		Data:  encode(make([]byte, 0, len(data)*tensor.DataTypeOf[T]().Size()), data),
	}, nil
}

// Encode writes entries to w. Tensors are laid out in sorted name order so
// the output is deterministic.
func Encode(w io.Writer, entries map[string]Entry, metadata map[string]string) error {
	names := make([]string, 0, len(entries))
	for name := range entries {
		if err := validateName(name); err != nil {
			return err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	h := header{Metadata: metadata, Tensors: make(map[string]Info, len(entries))}
	var offset int64
	for _, name := range names {
		e := entries[name]
		if _, err := e.DType.DataType(); err != nil {
			return err
		}
		size := int64(len(e.Data))
		shape := e.Shape
		if shape == nil {
			shape = tensor.Shape{}
		}
		h.Tensors[name] = Info{DType: e.DType, Shape: shape, DataOffsets: [2]int64{offset, offset + size}}
		offset += size
	}
	if err := h.validate(offset); err != nil {
		return err
	}

	headerJSON, err := json.Marshal(&h)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, name := range names {
		if _, err := w.Write(entries[name].Data); err != nil {
			return fmt.Errorf("failed to write tensor %q: %w", name, err)
		}
	}
	return nil
}

// WriteFile writes entries to path, replacing any existing file.
func WriteFile(path string, entries map[string]Entry, metadata map[string]string) error {
	f, err := os.Create(path) //nolint:gosec // path is supplied by the caller
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := Encode(bw, entries, metadata); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to flush file: %w", err)
	}
	return f.Close()
}
