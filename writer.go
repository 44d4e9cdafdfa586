package rrlog

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// Version is the stream format version carried in the header.
const Version uint16 = 1

// streamHeader is the 4-byte stream prologue: ASCII "RR" then the big-endian
// format version.
var streamHeader = [4]byte{'R', 'R', 0x00, 0x01}

// Entry kinds. Every entry starts with one of these as a big-endian i32.
const (
	entrySchema  int32 = 0
	entryMessage int32 = 1
)

// Writer appends typed entries to a sink. It owns the channel table: each
// channel gets a dense 0-based index in registration order, its schema entry
// is emitted exactly once at registration, and message entries reference the
// index thereafter.
//
// A Writer is safe for concurrent use; every operation runs under one mutex,
// so entry order is exactly the order of calls.
type Writer struct {
	mu       sync.Mutex
	sink     Sink
	channels []*channelState
	byName   map[string]*channelState
	reg      *Registry
	log      *zap.Logger
	closed   bool
}

type channelState struct {
	name   string
	schema Schema
	index  int32
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger routes the writer's diagnostics to the given logger. The
// default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(w *Writer) { w.log = log }
}

// WithRegistry sets the registry the dynamic write path derives schemas
// from. The default is DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(w *Writer) { w.reg = r }
}

// NewWriter creates a writer over sink and immediately emits the stream
// header. The sink is owned by the writer from here on: Close closes it.
func NewWriter(sink Sink, opts ...Option) (*Writer, error) {
	if sink == nil {
		return nil, ErrNilSink
	}
	w := &Writer{
		sink:   sink,
		byName: make(map[string]*channelState),
		reg:    DefaultRegistry,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if _, err := sink.Write(streamHeader[:]); err != nil {
		return nil, err
	}
	return w, nil
}

// AddChannel registers a named channel with its schema and returns a bound
// handle. The schema entry is emitted before AddChannel returns; the first
// message may follow immediately.
func (w *Writer) AddChannel(name string, schema Schema) (*Channel, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	st, err := w.addLocked(name, schema)
	if err != nil {
		return nil, err
	}
	return &Channel{name: name, schema: schema, w: w, index: st.index}, nil
}

// HasChannel reports whether a channel with the given name is registered.
func (w *Writer) HasChannel(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.byName[name]
	return ok
}

// Put writes one value on the given channel handle. An unbound handle is
// registered with this writer first; a handle bound to a different writer is
// rejected with ErrUnknownChannel.
func (w *Writer) Put(ch *Channel, v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ch.w != nil && ch.w != w {
		return fmt.Errorf("%w: %q belongs to another writer", ErrUnknownChannel, ch.name)
	}
	st := w.byName[ch.name]
	if ch.w == nil {
		if st == nil {
			var err error
			st, err = w.addLocked(ch.name, ch.schema)
			if err != nil {
				return err
			}
		} else if st.schema != ch.schema {
			return fmt.Errorf("%w: %q is registered with a different schema", ErrDuplicateChannel, ch.name)
		}
		ch.w = w
		ch.index = st.index
	}
	return w.putLocked(st, v)
}

// Write appends a value on the named channel. Unknown names register a new
// channel whose schema is resolved from the value's runtime type through the
// registry; known names keep their first-seen schema, and values that do not
// fit it fail with a value error.
func (w *Writer) Write(name string, v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	st := w.byName[name]
	if st == nil {
		if w.closed {
			return ErrWriterClosed
		}
		schema, err := w.reg.SchemaOf(reflect.TypeOf(v))
		if err != nil {
			return err
		}
		st, err = w.addLocked(name, schema)
		if err != nil {
			return err
		}
	}
	return w.putLocked(st, v)
}

// Close flushes and closes the sink. Further writes fail with
// ErrWriterClosed. Closing twice is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	err := w.sink.Close()
	w.log.Debug("log stream closed", zap.Int("channels", len(w.channels)), zap.Error(err))
	return err
}

// addLocked registers a channel and emits its schema entry in one sink
// write. Callers hold w.mu.
func (w *Writer) addLocked(name string, schema Schema) (*channelState, error) {
	if w.closed {
		return nil, ErrWriterClosed
	}
	if _, dup := w.byName[name]; dup {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateChannel, name)
	}

	b := getBuffer(8 + len(name) + schema.SchemaSize())
	defer putBuffer(b)
	b.PutInt32(entrySchema)
	b.PutString(name)
	schema.EncodeSchema(b)
	if err := b.finish(); err != nil {
		w.log.Error("schema descriptor size accounting failed",
			zap.String("channel", name), zap.Int32("tag", int32(schema.Tag())))
		return nil, fmt.Errorf("%w: descriptor of channel %q", err, name)
	}
	if _, err := w.sink.Write(b.Bytes()); err != nil {
		return nil, err
	}

	st := &channelState{name: name, schema: schema, index: int32(len(w.channels))}
	w.channels = append(w.channels, st)
	w.byName[name] = st
	w.log.Debug("channel registered",
		zap.String("channel", name), zap.Int32("index", st.index), zap.Int32("tag", int32(schema.Tag())))
	return st, nil
}

// putLocked sizes, assembles and emits one message entry in one sink write.
// Size accounting runs before any I/O, so a failed write never commits a
// partial entry. Callers hold w.mu.
func (w *Writer) putLocked(st *channelState, v any) error {
	if w.closed {
		return ErrWriterClosed
	}
	n, err := st.schema.ObjSize(v)
	if err != nil {
		return fmt.Errorf("channel %q: %w", st.name, err)
	}

	b := getBuffer(8 + n)
	defer putBuffer(b)
	b.PutInt32(entryMessage)
	b.PutInt32(st.index)
	if err := st.schema.EncodeObject(b, v); err != nil {
		return fmt.Errorf("channel %q: %w", st.name, err)
	}
	if err := b.finish(); err != nil {
		w.log.Error("value size accounting failed",
			zap.String("channel", st.name), zap.Int("declared", n), zap.Int("encoded", b.Len()-8))
		return fmt.Errorf("%w: value on channel %q", err, st.name)
	}
	if _, err := w.sink.Write(b.Bytes()); err != nil {
		return err
	}
	return nil
}
