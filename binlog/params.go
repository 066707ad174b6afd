// Package binlog persists parameter vectors and the optimizer's generation
// history in little-endian binary files.
package binlog

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// MaxParams caps the count field of a parameter file.
const MaxParams = 1 << 16

var (
	ErrBadMagic   = errors.New("binlog: bad magic")
	ErrBadCount   = errors.New("binlog: bad parameter count")
	ErrDimension  = errors.New("binlog: vector dimension mismatch")
	ErrBadVersion = errors.New("binlog: unsupported version")
)

// WriteParams writes an int32 count followed by count float64 values.
func WriteParams(w io.Writer, v []float64) error {
	if len(v) > MaxParams {
		return fmt.Errorf("%w: %d", ErrBadCount, len(v))
	}
	buf := make([]byte, 4+8*len(v))
	binary.LittleEndian.PutUint32(buf[0:], uint32(int32(len(v))))
	for i, x := range v {
		binary.LittleEndian.PutUint64(buf[4+8*i:], math.Float64bits(x))
	}
	_, err := w.Write(buf)
	return err
}

// ReadParams reads a vector written by WriteParams.
func ReadParams(r io.Reader) ([]float64, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("params count: %w", err)
	}
	n := int32(binary.LittleEndian.Uint32(hdr[:]))
	if n < 0 || n > MaxParams {
		return nil, fmt.Errorf("%w: %d", ErrBadCount, n)
	}
	buf := make([]byte, 8*int(n))
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("params values: %w", err)
	}
	v := make([]float64, n)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}
	return v, nil
}

// SaveParams writes v to path, replacing any existing file.
func SaveParams(path string, v []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteParams(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadParams reads a parameter file written by SaveParams.
func LoadParams(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	v, err := ReadParams(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
