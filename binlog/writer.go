package binlog

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"
)

const (
	HistoryMagic   = 0x4252484C // "BRHL"
	HistoryVersion = 1

	historyHeaderLen = 16 // magic(4) version(2) reserved(2) dim(4) reserved(4)
	recordHeaderLen  = 32 // nanos(8) generation(4) feasible(4) best(8) mean(8)
)

// Record is one reported generation.
type Record struct {
	Time       time.Time
	Generation int
	// Feasible counts individuals with a finite objective.
	Feasible int
	Best     float64
	Mean     float64
	Vector   []float64
}

// HistoryWriter appends generation records. It is safe for concurrent use.
type HistoryWriter struct {
	mu  sync.Mutex
	w   io.Writer
	dim int
	buf []byte
}

// NewHistoryWriter creates path and writes the file header.
func NewHistoryWriter(path string, dim int) (*HistoryWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	hw, err := NewHistoryWriterTo(f, dim)
	if err != nil {
		f.Close()
		return nil, err
	}
	return hw, nil
}

// NewHistoryWriterTo writes the header to w. Close closes w when it is an
// io.Closer.
func NewHistoryWriterTo(w io.Writer, dim int) (*HistoryWriter, error) {
	if dim <= 0 || dim > MaxParams {
		return nil, fmt.Errorf("%w: %d", ErrBadCount, dim)
	}
	hw := &HistoryWriter{
		w:   w,
		dim: dim,
		buf: make([]byte, recordHeaderLen+8*dim),
	}
	if err := hw.writeHeader(); err != nil {
		return nil, err
	}
	return hw, nil
}

func (hw *HistoryWriter) writeHeader() error {
	b := make([]byte, historyHeaderLen)
	binary.LittleEndian.PutUint32(b[0:], HistoryMagic)
	binary.LittleEndian.PutUint16(b[4:], HistoryVersion)
	binary.LittleEndian.PutUint32(b[8:], uint32(hw.dim))
	_, err := hw.w.Write(b)
	return err
}

func (hw *HistoryWriter) Write(rec Record) error {
	if len(rec.Vector) != hw.dim {
		return fmt.Errorf("%w: got %d, want %d", ErrDimension, len(rec.Vector), hw.dim)
	}
	hw.mu.Lock()
	defer hw.mu.Unlock()

	ts := rec.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	b := hw.buf
	binary.LittleEndian.PutUint64(b[0:], uint64(ts.UnixNano()))
	binary.LittleEndian.PutUint32(b[8:], uint32(rec.Generation))
	binary.LittleEndian.PutUint32(b[12:], uint32(rec.Feasible))
	binary.LittleEndian.PutUint64(b[16:], math.Float64bits(rec.Best))
	binary.LittleEndian.PutUint64(b[24:], math.Float64bits(rec.Mean))
	for i, x := range rec.Vector {
		binary.LittleEndian.PutUint64(b[recordHeaderLen+8*i:], math.Float64bits(x))
	}
	_, err := hw.w.Write(b)
	return err
}

// Dim is the vector length of every record.
func (hw *HistoryWriter) Dim() int {
	return hw.dim
}

func (hw *HistoryWriter) Close() error {
	if c, ok := hw.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
