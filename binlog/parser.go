package binlog

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"
)

// HistoryParser reads a history file written by HistoryWriter. A truncated
// trailing record, left by an interrupted run, is dropped.
type HistoryParser struct {
	Path string

	Dim     int
	Records []Record
}

// NewHistoryParser returns a parser for the history file at path. The file
// is opened by Parse.
func NewHistoryParser(path string) *HistoryParser {
	return &HistoryParser{Path: path}
}

func (p *HistoryParser) Parse() error {
	f, err := os.Open(p.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return p.ParseFrom(f)
}

func (p *HistoryParser) ParseFrom(r io.Reader) error {
	hdr := make([]byte, historyHeaderLen)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return fmt.Errorf("history header: %w", err)
	}
	if binary.LittleEndian.Uint32(hdr[0:4]) != HistoryMagic {
		return ErrBadMagic
	}
	if v := binary.LittleEndian.Uint16(hdr[4:6]); v != HistoryVersion {
		return fmt.Errorf("%w: %d", ErrBadVersion, v)
	}
	dim := int(binary.LittleEndian.Uint32(hdr[8:12]))
	if dim <= 0 || dim > MaxParams {
		return fmt.Errorf("%w: %d", ErrBadCount, dim)
	}
	p.Dim = dim

	rec := make([]byte, recordHeaderLen+8*dim)
	for {
		if _, err := io.ReadFull(r, rec); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return fmt.Errorf("history record: %w", err)
		}
		v := make([]float64, dim)
		for i := range v {
			v[i] = math.Float64frombits(binary.LittleEndian.Uint64(rec[recordHeaderLen+8*i:]))
		}
		p.Records = append(p.Records, Record{
			Time:       time.Unix(0, int64(binary.LittleEndian.Uint64(rec[0:8]))),
			Generation: int(binary.LittleEndian.Uint32(rec[8:12])),
			Feasible:   int(binary.LittleEndian.Uint32(rec[12:16])),
			Best:       math.Float64frombits(binary.LittleEndian.Uint64(rec[16:24])),
			Mean:       math.Float64frombits(binary.LittleEndian.Uint64(rec[24:32])),
			Vector:     v,
		})
	}
	return nil
}

// Last returns the most recent record.
func (p *HistoryParser) Last() (Record, bool) {
	if len(p.Records) == 0 {
		return Record{}, false
	}
	return p.Records[len(p.Records)-1], true
}

// BestRecord returns the record with the lowest best fitness.
func (p *HistoryParser) BestRecord() (Record, bool) {
	if len(p.Records) == 0 {
		return Record{}, false
	}
	best := 0
	for i, r := range p.Records {
		if r.Best < p.Records[best].Best {
			best = i
		}
	}
	return p.Records[best], true
}
