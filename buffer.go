package rrlog

import (
	"encoding/binary"
	"io"
	"math"
	"sync"
)

// Buffer is a big-endian encoder over a pre-allocated byte slice of exactly
// one entry's size. It will not grow: a write past the end latches
// io.ErrShortWrite and all subsequent puts become no-ops, so a single check
// at the end of an entry catches any overflow.
type Buffer struct {
	b   []byte
	n   int
	err error
}

// NewBuffer creates a Buffer over a fresh slice of the given size.
func NewBuffer(size int) *Buffer {
	return &Buffer{b: make([]byte, size)}
}

// entry buffers are recycled across writes to keep the per-entry allocation
// off the hot path. Oversized entries fall back to a plain allocation.
var entryBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 4096)
		return &b
	},
}

func getBuffer(size int) *Buffer {
	p := entryBufPool.Get().(*[]byte)
	if cap(*p) < size {
		entryBufPool.Put(p)
		return &Buffer{b: make([]byte, size)}
	}
	return &Buffer{b: (*p)[:size]}
}

func putBuffer(buf *Buffer) {
	if cap(buf.b) < 4096 {
		return
	}
	b := buf.b[:0]
	entryBufPool.Put(&b)
}

func (b *Buffer) put(p []byte) {
	if b.err != nil {
		return
	}
	if len(p) > len(b.b)-b.n {
		b.err = io.ErrShortWrite
		return
	}
	copy(b.b[b.n:], p)
	b.n += len(p)
}

// PutInt32 writes a two's-complement big-endian i32.
func (b *Buffer) PutInt32(v int32) {
	var p [4]byte
	binary.BigEndian.PutUint32(p[:], uint32(v))
	b.put(p[:])
}

// PutInt64 writes a two's-complement big-endian i64.
func (b *Buffer) PutInt64(v int64) {
	var p [8]byte
	binary.BigEndian.PutUint64(p[:], uint64(v))
	b.put(p[:])
}

// PutUint16 writes a big-endian u16.
func (b *Buffer) PutUint16(v uint16) {
	var p [2]byte
	binary.BigEndian.PutUint16(p[:], v)
	b.put(p[:])
}

// PutFloat64 writes an IEEE-754 big-endian double.
func (b *Buffer) PutFloat64(v float64) {
	b.PutInt64(int64(math.Float64bits(v)))
}

// PutBool writes 0x01 for true, 0x00 for false.
func (b *Buffer) PutBool(v bool) {
	if b.err != nil {
		return
	}
	if b.n >= len(b.b) {
		b.err = io.ErrShortWrite
		return
	}
	if v {
		b.b[b.n] = 1
	} else {
		b.b[b.n] = 0
	}
	b.n++
}

// PutString writes an i32 byte length followed by the UTF-8 bytes.
// The length counts bytes, not codepoints.
func (b *Buffer) PutString(s string) {
	b.PutInt32(int32(len(s)))
	if b.err != nil {
		return
	}
	if len(s) > len(b.b)-b.n {
		b.err = io.ErrShortWrite
		return
	}
	copy(b.b[b.n:], s)
	b.n += len(s)
}

// Len returns the number of bytes written so far.
func (b *Buffer) Len() int { return b.n }

// Remaining returns the number of bytes still unwritten.
func (b *Buffer) Remaining() int { return len(b.b) - b.n }

// Err returns the latched overflow error, if any.
func (b *Buffer) Err() error { return b.err }

// Bytes returns the written prefix of the buffer.
func (b *Buffer) Bytes() []byte { return b.b[:b.n] }

// finish verifies the buffer was filled exactly: no overflow latched and no
// room left over. Either condition means a schema's size accounting is wrong.
func (b *Buffer) finish() error {
	if b.err != nil {
		return ErrSizeMismatch
	}
	if b.n != len(b.b) {
		return ErrSizeMismatch
	}
	return nil
}
