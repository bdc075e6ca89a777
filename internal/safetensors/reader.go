package safetensors

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/born-ml/tenh/internal/tensor"
)

// Reader reads tensors from a SafeTensors file.
type Reader struct {
	file       *os.File
	header     header
	dataOffset int64
}

// Open opens a SafeTensors file and validates its header.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path) //nolint:gosec // path is supplied by the problem file
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	h, headerSize, err := readHeader(f, stat.Size())
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Reader{
		file:       f,
		header:     h,
		dataOffset: 8 + headerSize,
	}, nil
}

func readHeader(r io.Reader, fileSize int64) (header, int64, error) {
	var h header
	var sizeBuf [8]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return h, 0, fmt.Errorf("%w: %w", ErrMalformedHeaderLen, err)
	}
	size := binary.LittleEndian.Uint64(sizeBuf[:])
	if size > MaxHeaderSize {
		return h, 0, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, size)
	}
	if int64(size) > fileSize-8 {
		return h, 0, fmt.Errorf("%w: %d bytes in %d byte file", ErrMalformedHeaderLen, size, fileSize)
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return h, 0, fmt.Errorf("failed to read header: %w", err)
	}
	if err := json.Unmarshal(buf, &h); err != nil {
		return h, 0, fmt.Errorf("failed to parse header: %w", err)
	}
	if err := h.validate(fileSize - 8 - int64(size)); err != nil {
		return h, 0, err
	}
	return h, int64(size), nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// Metadata returns the file's free-form metadata.
func (r *Reader) Metadata() map[string]string {
	return r.header.Metadata
}

// Names returns the stored tensor names in sorted order.
func (r *Reader) Names() []string {
	names := make([]string, 0, len(r.header.Tensors))
	for name := range r.header.Tensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Info returns the header entry of a tensor.
func (r *Reader) Info(name string) (Info, error) {
	info, ok := r.header.Tensors[name]
	if !ok {
		return Info{}, fmt.Errorf("%w: %q", ErrTensorNotFound, name)
	}
	return info, nil
}

// ReadBytes returns the raw data region of a tensor.
func (r *Reader) ReadBytes(name string) ([]byte, error) {
	info, err := r.Info(name)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, info.Size())
	if _, err := r.file.ReadAt(buf, r.dataOffset+info.DataOffsets[0]); err != nil {
		return nil, fmt.Errorf("failed to read tensor %q: %w", name, err)
	}
	return buf, nil
}

// Load reads a tensor into dense storage. The stored dtype must match T.
func Load[T tensor.Scalar](r *Reader, name string) (*tensor.Dense[T], tensor.Shape, error) {
	info, err := r.Info(name)
	if err != nil {
		return nil, nil, err
	}
	want, err := DTypeOf(tensor.DataTypeOf[T]())
	if err != nil {
		return nil, nil, err
	}
	if info.DType != want {
		return nil, nil, fmt.Errorf("%w: tensor %q is %s, requested %s", ErrDTypeMismatch, name, info.DType, want)
	}

	raw, err := r.ReadBytes(name)
	if err != nil {
		return nil, nil, err
	}
	shape := tensor.Shape(info.Shape).Clone()
	out := tensor.NewDense[T](shape.NumElements())
	decode(raw, out.Data())
	return out, shape, nil
}

// ReadFile opens path, loads a single tensor and closes the file.
func ReadFile[T tensor.Scalar](path, name string) (*tensor.Dense[T], tensor.Shape, error) {
	r, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = r.Close() }()
	return Load[T](r, name)
}
