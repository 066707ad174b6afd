// Package ipc runs optimization tasks in worker processes. Controller and
// worker exchange length-prefixed UTF-8 frames over a unix socket:
//
//	controller: name, {task, ...} and finally Shutdown
//	worker:     {progress*, ResultMarker, result} per task
package ipc

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"unicode/utf8"
)

const (
	// MaxFrame caps the payload of one frame.
	MaxFrame = 16 << 20

	frameHeaderLen = 4

	// ResultMarker precedes the result frame of a task.
	ResultMarker = "init-receive-result"
	// Shutdown asks the worker to exit.
	Shutdown = "init-exit"
)

// WriteString writes s as a 4-byte big-endian length followed by its bytes.
func WriteString(w io.Writer, s string) error {
	if len(s) > MaxFrame {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(s))
	}
	if !utf8.ValidString(s) {
		return ErrInvalidUTF8
	}
	buf := make([]byte, frameHeaderLen+len(s))
	binary.BigEndian.PutUint32(buf, uint32(len(s)))
	copy(buf[frameHeaderLen:], s)
	_, err := w.Write(buf)
	return err
}

// ReadString reads one frame written by WriteString.
func ReadString(r io.Reader) (string, error) {
	var hdr [frameHeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if n > MaxFrame {
		return "", fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("frame body: %w", err)
	}
	if !utf8.Valid(buf) {
		return "", ErrInvalidUTF8
	}
	return string(buf), nil
}

// Stream frames messages over a connection. Sends are serialized; Receive
// must be called from one goroutine.
type Stream struct {
	rw io.ReadWriter
	mu sync.Mutex
}

// NewStream wraps rw for line-delimited JSON messages.
func NewStream(rw io.ReadWriter) *Stream {
	return &Stream{rw: rw}
}

func (s *Stream) Send(msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return WriteString(s.rw, msg)
}

func (s *Stream) Receive() (string, error) {
	return ReadString(s.rw)
}

func (s *Stream) SendJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Send(string(b))
}

func (s *Stream) ReceiveJSON(v any) error {
	msg, err := s.Receive()
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(msg), v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}
