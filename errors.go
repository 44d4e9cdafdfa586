package rrlog

import "errors"

var (
	// ErrNilSink indicates that NewWriter was called with a nil Sink, or
	// NewStreamSink with a nil io.Writer.
	ErrNilSink = errors.New("rrlog: nil sink")

	// ErrWriterClosed indicates an operation was attempted on a closed writer.
	ErrWriterClosed = errors.New("rrlog: writer is closed")

	// ErrDuplicateChannel indicates a channel registration with a name that is
	// already registered on the same writer.
	ErrDuplicateChannel = errors.New("rrlog: duplicate channel name")

	// ErrUnknownChannel indicates a put through a handle that is bound to a
	// different writer, or through a handle that was never bound at all.
	ErrUnknownChannel = errors.New("rrlog: channel is not bound to this writer")

	// ErrSizeMismatch indicates that a schema's ObjSize (or SchemaSize)
	// disagrees with the bytes it actually emitted. It marks a bug in a
	// schema implementation, not in the caller's data.
	ErrSizeMismatch = errors.New("rrlog: declared size disagrees with encoded bytes")

	// ErrInvalidEnumValue indicates an enum write with a name or ordinal that
	// is not declared in the enum schema.
	ErrInvalidEnumValue = errors.New("rrlog: enum value not declared in schema")

	// ErrUnsupportedType indicates schema derivation encountered a type it
	// cannot handle, such as a map, a function, or a cyclic type graph.
	ErrUnsupportedType = errors.New("rrlog: cannot derive schema for type")

	// ErrMismatchedComponents indicates a custom schema whose component name
	// and schema lists differ in length, or whose encoder returned a tuple of
	// the wrong arity.
	ErrMismatchedComponents = errors.New("rrlog: mismatched component names and schemas")

	// ErrValueType indicates a value whose runtime type does not match the
	// schema it is being encoded under.
	ErrValueType = errors.New("rrlog: value does not match schema")

	// ErrBadHeader indicates a stream whose leading magic or version does not
	// match this format. It is surfaced by readers; the writer never emits
	// anything but the current header.
	ErrBadHeader = errors.New("rrlog: bad stream header")
)
