package rrlog

import (
	"fmt"
	"reflect"
)

// ArraySchema encodes homogeneous sequences: a 4-byte big-endian element
// count followed by each element under the inner schema. Any Go slice or
// array value is accepted.
type ArraySchema struct {
	elem Schema
}

// NewArray builds an array schema over the given element schema.
func NewArray(elem Schema) *ArraySchema {
	return &ArraySchema{elem: elem}
}

// Elem returns the element schema.
func (s *ArraySchema) Elem() Schema { return s.elem }

func (s *ArraySchema) Tag() Tag { return TagArray }

func (s *ArraySchema) SchemaSize() int {
	return tagSize + s.elem.SchemaSize()
}

func (s *ArraySchema) EncodeSchema(b *Buffer) {
	b.PutInt32(int32(TagArray))
	s.elem.EncodeSchema(b)
}

func (s *ArraySchema) ObjSize(v any) (int, error) {
	rv, err := sequenceOf(v)
	if err != nil {
		return 0, err
	}
	size := 4
	for i := 0; i < rv.Len(); i++ {
		n, err := s.elem.ObjSize(rv.Index(i).Interface())
		if err != nil {
			return 0, fmt.Errorf("element %d: %w", i, err)
		}
		size += n
	}
	return size, nil
}

func (s *ArraySchema) EncodeObject(b *Buffer, v any) error {
	rv, err := sequenceOf(v)
	if err != nil {
		return err
	}
	b.PutInt32(int32(rv.Len()))
	for i := 0; i < rv.Len(); i++ {
		if err := s.elem.EncodeObject(b, rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

func sequenceOf(v any) (reflect.Value, error) {
	if v == nil {
		return reflect.Value{}, fmt.Errorf("%w: nil is not a sequence", ErrValueType)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return reflect.Value{}, fmt.Errorf("%w: %T is not a slice or array", ErrValueType, v)
	}
	return rv, nil
}
