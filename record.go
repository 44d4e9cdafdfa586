package rrlog

import "fmt"

// TypeField is the name of the discriminator field that typed and custom
// records prepend to their payload.
const TypeField = ".type"

// Field is one named component of a record schema. Get extracts the field's
// value from the record value; the zero Get is invalid.
type Field struct {
	Name   string
	Schema Schema
	Get    func(v any) any
}

// RecordSchema encodes a structured record: the concatenation of its field
// values in declared order. The descriptor lists every field name with its
// nested descriptor, so the stream is self-describing.
//
// Field order is fixed at construction and used identically for sizing and
// encoding.
type RecordSchema struct {
	fields []Field
}

// NewRecord builds a record schema over the given fields, in declared order.
func NewRecord(fields ...Field) *RecordSchema {
	return &RecordSchema{fields: append([]Field(nil), fields...)}
}

// NewTypedRecord builds a record schema with a leading ".type" string field
// that always holds typeName. On the wire it is indistinguishable from a
// plain record carrying that field.
func NewTypedRecord(typeName string, fields ...Field) *RecordSchema {
	all := make([]Field, 0, len(fields)+1)
	all = append(all, Field{
		Name:   TypeField,
		Schema: String,
		Get:    func(any) any { return typeName },
	})
	all = append(all, fields...)
	return &RecordSchema{fields: all}
}

// Fields returns the fields in declared order.
func (s *RecordSchema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

func (s *RecordSchema) Tag() Tag { return TagRecord }

func (s *RecordSchema) SchemaSize() int {
	size := tagSize + 4
	for _, f := range s.fields {
		size += 4 + len(f.Name) + f.Schema.SchemaSize()
	}
	return size
}

func (s *RecordSchema) EncodeSchema(b *Buffer) {
	b.PutInt32(int32(TagRecord))
	b.PutInt32(int32(len(s.fields)))
	for _, f := range s.fields {
		b.PutString(f.Name)
		f.Schema.EncodeSchema(b)
	}
}

func (s *RecordSchema) ObjSize(v any) (int, error) {
	size := 0
	for _, f := range s.fields {
		n, err := f.Schema.ObjSize(f.Get(v))
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", f.Name, err)
		}
		size += n
	}
	return size, nil
}

func (s *RecordSchema) EncodeObject(b *Buffer, v any) error {
	for _, f := range s.fields {
		if err := f.Schema.EncodeObject(b, f.Get(v)); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	return nil
}

// CustomSchema encodes a value through a caller-supplied encoder that breaks
// it into a tuple of components. On the wire it is identical to a typed
// record whose i-th field is names[i] under schemas[i].
//
// The encoder runs once for sizing and once for encoding on every write, so
// it must be deterministic and side-effect-free.
type CustomSchema struct {
	typeName string
	names    []string
	schemas  []Schema
	encode   func(v any) []any
}

// NewCustom builds a custom schema. The component name and schema lists must
// be the same length.
func NewCustom(typeName string, names []string, schemas []Schema, encode func(v any) []any) (*CustomSchema, error) {
	if len(names) != len(schemas) {
		return nil, fmt.Errorf("%w: %d names, %d schemas", ErrMismatchedComponents, len(names), len(schemas))
	}
	return &CustomSchema{
		typeName: typeName,
		names:    append([]string(nil), names...),
		schemas:  append([]Schema(nil), schemas...),
		encode:   encode,
	}, nil
}

func (s *CustomSchema) Tag() Tag { return TagRecord }

func (s *CustomSchema) SchemaSize() int {
	size := tagSize + 4
	size += 4 + len(TypeField) + String.SchemaSize()
	for i, name := range s.names {
		size += 4 + len(name) + s.schemas[i].SchemaSize()
	}
	return size
}

func (s *CustomSchema) EncodeSchema(b *Buffer) {
	b.PutInt32(int32(TagRecord))
	b.PutInt32(int32(len(s.names) + 1))
	b.PutString(TypeField)
	String.EncodeSchema(b)
	for i, name := range s.names {
		b.PutString(name)
		s.schemas[i].EncodeSchema(b)
	}
}

func (s *CustomSchema) ObjSize(v any) (int, error) {
	parts, err := s.components(v)
	if err != nil {
		return 0, err
	}
	size := 4 + len(s.typeName)
	for i, part := range parts {
		n, err := s.schemas[i].ObjSize(part)
		if err != nil {
			return 0, fmt.Errorf("component %q: %w", s.names[i], err)
		}
		size += n
	}
	return size, nil
}

func (s *CustomSchema) EncodeObject(b *Buffer, v any) error {
	parts, err := s.components(v)
	if err != nil {
		return err
	}
	b.PutString(s.typeName)
	for i, part := range parts {
		if err := s.schemas[i].EncodeObject(b, part); err != nil {
			return fmt.Errorf("component %q: %w", s.names[i], err)
		}
	}
	return nil
}

func (s *CustomSchema) components(v any) ([]any, error) {
	parts := s.encode(v)
	if len(parts) != len(s.schemas) {
		return nil, fmt.Errorf("%w: encoder returned %d components, schema declares %d", ErrMismatchedComponents, len(parts), len(s.schemas))
	}
	return parts, nil
}
