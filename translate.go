package rrlog

import "fmt"

// TranslateSchema wraps a base schema with a pre-serialization transform. It
// is invisible on the wire: tag, descriptor and sizes are the base schema's,
// applied to the translated value.
type TranslateSchema struct {
	base Schema
	to   func(v any) (any, error)
}

// NewTranslate builds a translation adapter that logs values of type T under
// a schema for U. The transform runs once for sizing and once for encoding
// per write, so it should be cheap and pure.
func NewTranslate[T, U any](base Schema, to func(T) U) *TranslateSchema {
	return &TranslateSchema{
		base: base,
		to: func(v any) (any, error) {
			t, ok := v.(T)
			if !ok {
				return nil, fmt.Errorf("%w: got %T, translating from %T", ErrValueType, v, t)
			}
			return to(t), nil
		},
	}
}

// Base returns the wrapped schema.
func (s *TranslateSchema) Base() Schema { return s.base }

func (s *TranslateSchema) Tag() Tag              { return s.base.Tag() }
func (s *TranslateSchema) SchemaSize() int       { return s.base.SchemaSize() }
func (s *TranslateSchema) EncodeSchema(b *Buffer) { s.base.EncodeSchema(b) }

func (s *TranslateSchema) ObjSize(v any) (int, error) {
	u, err := s.to(v)
	if err != nil {
		return 0, err
	}
	return s.base.ObjSize(u)
}

func (s *TranslateSchema) EncodeObject(b *Buffer, v any) error {
	u, err := s.to(v)
	if err != nil {
		return err
	}
	return s.base.EncodeObject(b, u)
}
