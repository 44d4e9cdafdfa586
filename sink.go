package rrlog

import (
	"bufio"
	"bytes"
	"io"
	"os"
)

// Sink is the append-only byte destination a Writer logs to. A sink may
// buffer internally; Close flushes and releases it. Multi-byte values are
// already big-endian by the time they reach the sink.
type Sink interface {
	io.Writer
	io.Closer
}

// StreamSink wraps an arbitrary io.Writer with buffering, a running byte
// count, and first-error latching. After an error, all subsequent writes
// become no-ops that return the original error.
type StreamSink struct {
	w     *bufio.Writer
	c     io.Closer // nil when the underlying writer has no Close
	count int64
	err   error
}

// NewStreamSink creates a StreamSink over w. Passing an existing *StreamSink
// returns it unchanged to prevent double-buffering.
func NewStreamSink(w io.Writer) (*StreamSink, error) {
	if w == nil {
		return nil, ErrNilSink
	}
	if s, ok := w.(*StreamSink); ok {
		return s, nil
	}
	s := &StreamSink{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		s.c = c
	}
	return s, nil
}

// NewFileSink creates the named file, truncating it if it exists, and
// returns a buffered sink over it.
func NewFileSink(path string) (*StreamSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return NewStreamSink(f)
}

// Write implements io.Writer.
func (s *StreamSink) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.w.Write(p)
	s.count += int64(n)
	s.setError(err)
	return n, s.err
}

// Count returns the total number of bytes accepted so far.
func (s *StreamSink) Count() int64 { return s.count }

// Err returns the latched error, if any.
func (s *StreamSink) Err() error { return s.err }

// Flush writes any buffered data to the underlying writer.
func (s *StreamSink) Flush() error {
	if s.err != nil {
		return s.err
	}
	s.setError(s.w.Flush())
	return s.err
}

// Close flushes the buffer and closes the underlying writer if it supports
// closing. The flush error, if any, takes precedence.
func (s *StreamSink) Close() error {
	err := s.Flush()
	if s.c != nil {
		cerr := s.c.Close()
		if err == nil {
			err = cerr
		}
		s.setError(cerr)
	}
	return err
}

// setError records the first non-nil error. This preserves the root cause of
// a failure chain instead of a later, less relevant error.
func (s *StreamSink) setError(err error) {
	if s.err == nil && err != nil {
		s.err = err
	}
}

// BytesSink is an in-memory sink, mainly for tests and for callers that ship
// the finished stream elsewhere themselves.
type BytesSink struct {
	bytes.Buffer
}

// Close is a no-op; the accumulated bytes stay readable.
func (b *BytesSink) Close() error { return nil }
