package rrlog

import "fmt"

// Enumer is implemented by Go types that stand in for a closed enumeration.
// EnumNames reports the constant names in ordinal order; derivation turns any
// implementing type into an EnumSchema.
type Enumer interface {
	EnumNames() []string
}

// EnumSchema encodes values of a closed set of named constants as their
// 4-byte big-endian ordinal. The descriptor carries the names, so readers can
// map ordinals back without the Go type.
type EnumSchema struct {
	names    []string
	ordinals map[string]int32
}

// NewEnum builds an enum schema over the given constant names, in ordinal
// order. An empty name set is allowed; such a schema can describe but never
// encode a value.
func NewEnum(names ...string) *EnumSchema {
	s := &EnumSchema{
		names:    append([]string(nil), names...),
		ordinals: make(map[string]int32, len(names)),
	}
	for i, name := range names {
		s.ordinals[name] = int32(i)
	}
	return s
}

// Names returns the constant names in ordinal order.
func (s *EnumSchema) Names() []string {
	return append([]string(nil), s.names...)
}

func (s *EnumSchema) Tag() Tag { return TagEnum }

func (s *EnumSchema) SchemaSize() int {
	size := tagSize + 4
	for _, name := range s.names {
		size += 4 + len(name)
	}
	return size
}

func (s *EnumSchema) EncodeSchema(b *Buffer) {
	b.PutInt32(int32(TagEnum))
	b.PutInt32(int32(len(s.names)))
	for _, name := range s.names {
		b.PutString(name)
	}
}

func (s *EnumSchema) ObjSize(v any) (int, error) {
	if _, err := s.ordinalOf(v); err != nil {
		return 0, err
	}
	return 4, nil
}

func (s *EnumSchema) EncodeObject(b *Buffer, v any) error {
	ord, err := s.ordinalOf(v)
	if err != nil {
		return err
	}
	b.PutInt32(ord)
	return nil
}

// ordinalOf resolves a value to its wire ordinal. Integer values are taken as
// ordinals directly; strings are resolved against the declared names.
func (s *EnumSchema) ordinalOf(v any) (int32, error) {
	if name, err := coerceString(v); err == nil {
		ord, ok := s.ordinals[name]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrInvalidEnumValue, name)
		}
		return ord, nil
	}
	if n, ok := coerceInt(v); ok {
		if n < 0 || n >= int64(len(s.names)) {
			return 0, fmt.Errorf("%w: ordinal %d out of range [0, %d)", ErrInvalidEnumValue, n, len(s.names))
		}
		return int32(n), nil
	}
	return 0, fmt.Errorf("%w: %T is not an enum ordinal or name", ErrValueType, v)
}
