package binlog

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsFileLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteParams(&buf, []float64{1.5, -2}))

	b := buf.Bytes()
	require.Len(t, b, 4+16)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(b[0:4]))
	assert.Equal(t, 1.5, math.Float64frombits(binary.LittleEndian.Uint64(b[4:12])))
	assert.Equal(t, -2.0, math.Float64frombits(binary.LittleEndian.Uint64(b[12:20])))
}

func TestSaveAndLoadParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "best.params")
	v := []float64{1e3, 6e4, math.SmallestNonzeroFloat64, -1e7}
	require.NoError(t, SaveParams(path, v))

	got, err := LoadParams(path)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	_, err = LoadParams(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadParamsRejectsBadInput(t *testing.T) {
	neg := make([]byte, 4)
	binary.LittleEndian.PutUint32(neg, uint32(0xFFFFFFFF))
	_, err := ReadParams(bytes.NewReader(neg))
	assert.ErrorIs(t, err, ErrBadCount)

	huge := make([]byte, 4)
	binary.LittleEndian.PutUint32(huge, MaxParams+1)
	_, err = ReadParams(bytes.NewReader(huge))
	assert.ErrorIs(t, err, ErrBadCount)

	short := make([]byte, 4+8)
	binary.LittleEndian.PutUint32(short, 2)
	_, err = ReadParams(bytes.NewReader(short))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = ReadParams(bytes.NewReader(nil))
	assert.ErrorIs(t, err, io.EOF)

	empty := make([]byte, 4)
	v, err := ReadParams(bytes.NewReader(empty))
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestHistoryWriteAndParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.blog")
	hw, err := NewHistoryWriter(path, 3)
	require.NoError(t, err)

	t0 := time.Unix(1700000000, 123)
	require.NoError(t, hw.Write(Record{Time: t0, Generation: 0, Feasible: 10, Best: 5, Mean: 9, Vector: []float64{1, 2, 3}}))
	require.NoError(t, hw.Write(Record{Time: t0.Add(time.Second), Generation: 7, Feasible: 12, Best: 2, Mean: 4, Vector: []float64{4, 5, 6}}))
	assert.ErrorIs(t, hw.Write(Record{Vector: []float64{1}}), ErrDimension)
	require.NoError(t, hw.Close())

	p := NewHistoryParser(path)
	require.NoError(t, p.Parse())
	assert.Equal(t, 3, p.Dim)
	require.Len(t, p.Records, 2)
	assert.True(t, t0.Equal(p.Records[0].Time))
	assert.Equal(t, 7, p.Records[1].Generation)
	assert.Equal(t, 12, p.Records[1].Feasible)
	assert.Equal(t, []float64{4, 5, 6}, p.Records[1].Vector)

	last, ok := p.Last()
	require.True(t, ok)
	assert.Equal(t, 2.0, last.Best)
	best, ok := p.BestRecord()
	require.True(t, ok)
	assert.Equal(t, 7, best.Generation)
}

func TestHistoryDropsTruncatedTail(t *testing.T) {
	var buf bytes.Buffer
	hw, err := NewHistoryWriterTo(&buf, 2)
	require.NoError(t, err)
	require.NoError(t, hw.Write(Record{Generation: 1, Vector: []float64{1, 2}}))
	require.NoError(t, hw.Write(Record{Generation: 2, Vector: []float64{3, 4}}))

	b := buf.Bytes()
	p := &HistoryParser{}
	require.NoError(t, p.ParseFrom(bytes.NewReader(b[:len(b)-5])))
	require.Len(t, p.Records, 1)
	assert.Equal(t, 1, p.Records[0].Generation)
}

func TestHistoryRejectsBadHeader(t *testing.T) {
	p := &HistoryParser{}
	assert.ErrorIs(t, p.ParseFrom(bytes.NewReader(make([]byte, historyHeaderLen))), ErrBadMagic)

	hdr := make([]byte, historyHeaderLen)
	binary.LittleEndian.PutUint32(hdr, HistoryMagic)
	binary.LittleEndian.PutUint16(hdr[4:], 9)
	assert.ErrorIs(t, p.ParseFrom(bytes.NewReader(hdr)), ErrBadVersion)

	_, err := NewHistoryWriterTo(io.Discard, 0)
	assert.ErrorIs(t, err, ErrBadCount)
}
