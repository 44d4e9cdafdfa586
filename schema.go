package rrlog

import "fmt"

// Tag is the stable wire identifier of a schema kind. Tags are part of the
// on-disk format and must never be renumbered.
type Tag int32

const (
	TagRecord  Tag = 0 // structured record; reflected, typed and custom are wire-identical
	TagInt32   Tag = 1
	TagInt64   Tag = 2
	TagFloat64 Tag = 3
	TagString  Tag = 4
	TagBool    Tag = 5
	TagEnum    Tag = 6
	TagArray   Tag = 7
)

// tagSize is the encoded size of a Tag: a big-endian i32.
const tagSize = 4

// Schema describes one value type: how to size and serialize both its own
// wire descriptor and the values it governs. Schemas are immutable after
// construction and safe to share across channels and writers.
//
// Size accounting is exact by contract: EncodeSchema must consume exactly
// SchemaSize bytes and EncodeObject exactly ObjSize(v) bytes. The writer
// verifies this on every entry and surfaces ErrSizeMismatch on violation.
type Schema interface {
	// Tag returns the schema's stable wire tag.
	Tag() Tag

	// SchemaSize returns the encoded size of the descriptor in bytes.
	SchemaSize() int

	// EncodeSchema writes the descriptor. The first four bytes are the tag.
	EncodeSchema(b *Buffer)

	// ObjSize returns the exact encoded size of v under this schema.
	ObjSize(v any) (int, error)

	// EncodeObject writes v, consuming exactly ObjSize(v) bytes.
	EncodeObject(b *Buffer, v any) error
}

// MarshalSchema encodes a schema descriptor into a fresh exact-sized slice,
// verifying the schema's own size accounting.
func MarshalSchema(s Schema) ([]byte, error) {
	b := NewBuffer(s.SchemaSize())
	s.EncodeSchema(b)
	if err := b.finish(); err != nil {
		return nil, fmt.Errorf("%w: descriptor tag %d declared %d bytes, wrote %d", err, s.Tag(), s.SchemaSize(), b.Len())
	}
	return b.Bytes(), nil
}

// MarshalValue encodes a value into a fresh exact-sized slice, verifying the
// schema's size accounting.
func MarshalValue(s Schema, v any) ([]byte, error) {
	n, err := s.ObjSize(v)
	if err != nil {
		return nil, err
	}
	b := NewBuffer(n)
	if err := s.EncodeObject(b, v); err != nil {
		return nil, err
	}
	if err := b.finish(); err != nil {
		return nil, fmt.Errorf("%w: value declared %d bytes, wrote %d", err, n, b.Len())
	}
	return b.Bytes(), nil
}
