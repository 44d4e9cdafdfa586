package rrlog

import (
	"fmt"
	"reflect"
	"sync"
	"time"
)

// Channel is a handle on one named stream. Handles from AddChannel are bound
// to their writer; NewChannel makes an unbound handle that binds on its first
// write through Writer.Put.
type Channel struct {
	name   string
	schema Schema
	w      *Writer
	index  int32
}

// NewChannel creates an unbound handle carrying a name and schema.
func NewChannel(name string, schema Schema) *Channel {
	return &Channel{name: name, schema: schema, index: -1}
}

// Name returns the channel name.
func (c *Channel) Name() string { return c.name }

// Schema returns the channel schema.
func (c *Channel) Schema() Schema { return c.schema }

// Put writes one value on the channel. The handle must be bound to a writer.
func (c *Channel) Put(v any) error {
	if c.w == nil {
		return fmt.Errorf("%w: %q has no writer", ErrUnknownChannel, c.name)
	}
	return c.w.Put(c, v)
}

// Chan is a typed wrapper over a channel handle: Put takes a T instead of
// any, moving the type check to compile time.
type Chan[T any] struct {
	ch *Channel
}

// AddChan registers a channel for T on the writer, resolving the schema from
// the writer's registry, and returns a typed handle.
func AddChan[T any](w *Writer, name string) (*Chan[T], error) {
	schema, err := w.reg.SchemaOf(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	ch, err := w.AddChannel(name, schema)
	if err != nil {
		return nil, err
	}
	return &Chan[T]{ch: ch}, nil
}

// Put writes one value on the channel.
func (c *Chan[T]) Put(v T) error { return c.ch.Put(v) }

// Channel returns the underlying untyped handle.
func (c *Chan[T]) Channel() *Channel { return c.ch }

// processStart anchors the monotonic clock the downsampler reads.
var processStart = time.Now()

func monotonicNow() int64 { return int64(time.Since(processStart)) }

// Downsampled wraps a channel handle with a minimum period between writes.
// Samples arriving before the next due time are dropped silently; the first
// sample always goes through. This bounds the output rate without fixing it:
// the emitted stream stays aperiodic.
type Downsampled struct {
	ch     *Channel
	period int64

	mu   sync.Mutex
	next int64
	now  func() int64
}

// Downsample wraps ch so that at most one value is written per period-aligned
// time bucket [k*period, (k+1)*period); two consecutive writes in adjacent
// buckets can be less than one period apart. A non-positive period disables
// dropping.
func Downsample(ch *Channel, period time.Duration) *Downsampled {
	return &Downsampled{
		ch:     ch,
		period: int64(period),
		now:    monotonicNow,
	}
}

// Put forwards the value to the channel if at least one period has elapsed
// since the last emission slot, and drops it silently otherwise.
func (d *Downsampled) Put(v any) error {
	d.mu.Lock()
	if d.period > 0 {
		now := d.now()
		if now < d.next {
			d.mu.Unlock()
			return nil
		}
		d.next = (now/d.period + 1) * d.period
	}
	d.mu.Unlock()
	return d.ch.Put(v)
}
