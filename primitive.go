package rrlog

import (
	"fmt"
	"reflect"

	"golang.org/x/exp/constraints"
)

// Primitive schema singletons. Their descriptors carry no parameters, so each
// is just its tag on the wire.
var (
	Int32   Schema = fixedInt[int32]{tag: TagInt32, width: 4}
	Int64   Schema = fixedInt[int64]{tag: TagInt64, width: 8}
	Float64 Schema = float64Schema{}
	Bool    Schema = boolSchema{}
	String  Schema = stringSchema{}
)

// fixedInt encodes signed integers of a fixed wire width. The type parameter
// pins the wire domain: values are accepted from any Go integer kind that
// coerceInt widens (not uint, uint64 or uintptr) but must survive a
// round-trip through T unchanged.
type fixedInt[T constraints.Signed] struct {
	tag   Tag
	width int
}

func (s fixedInt[T]) Tag() Tag            { return s.tag }
func (s fixedInt[T]) SchemaSize() int     { return tagSize }
func (s fixedInt[T]) EncodeSchema(b *Buffer) { b.PutInt32(int32(s.tag)) }

func (s fixedInt[T]) ObjSize(v any) (int, error) {
	if _, err := s.check(v); err != nil {
		return 0, err
	}
	return s.width, nil
}

func (s fixedInt[T]) EncodeObject(b *Buffer, v any) error {
	n, err := s.check(v)
	if err != nil {
		return err
	}
	if s.width == 4 {
		b.PutInt32(int32(n))
	} else {
		b.PutInt64(n)
	}
	return nil
}

func (s fixedInt[T]) check(v any) (int64, error) {
	n, ok := coerceInt(v)
	if !ok {
		return 0, fmt.Errorf("%w: %T is not an integer", ErrValueType, v)
	}
	if int64(T(n)) != n {
		return 0, fmt.Errorf("%w: %d overflows the %d-byte wire width", ErrValueType, n, s.width)
	}
	return n, nil
}

// coerceInt widens any Go integer value to int64. Named integer types are
// handled through reflection. uint64 and uint are excluded: they can exceed
// the signed wire domain.
func coerceInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case nil:
		return 0, false
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return int64(rv.Uint()), true
	}
	return 0, false
}

type float64Schema struct{}

func (float64Schema) Tag() Tag            { return TagFloat64 }
func (float64Schema) SchemaSize() int     { return tagSize }
func (float64Schema) EncodeSchema(b *Buffer) { b.PutInt32(int32(TagFloat64)) }

func (float64Schema) ObjSize(v any) (int, error) {
	if _, err := coerceFloat(v); err != nil {
		return 0, err
	}
	return 8, nil
}

func (float64Schema) EncodeObject(b *Buffer, v any) error {
	f, err := coerceFloat(v)
	if err != nil {
		return err
	}
	b.PutFloat64(f)
	return nil
}

func coerceFloat(v any) (float64, error) {
	switch f := v.(type) {
	case float64:
		return f, nil
	case float32:
		return float64(f), nil
	case nil:
		return 0, fmt.Errorf("%w: nil is not a float", ErrValueType)
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Float32 || rv.Kind() == reflect.Float64 {
		return rv.Float(), nil
	}
	return 0, fmt.Errorf("%w: %T is not a float", ErrValueType, v)
}

type boolSchema struct{}

func (boolSchema) Tag() Tag            { return TagBool }
func (boolSchema) SchemaSize() int     { return tagSize }
func (boolSchema) EncodeSchema(b *Buffer) { b.PutInt32(int32(TagBool)) }

func (boolSchema) ObjSize(v any) (int, error) {
	if _, err := coerceBool(v); err != nil {
		return 0, err
	}
	return 1, nil
}

func (boolSchema) EncodeObject(b *Buffer, v any) error {
	t, err := coerceBool(v)
	if err != nil {
		return err
	}
	b.PutBool(t)
	return nil
}

func coerceBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case nil:
		return false, fmt.Errorf("%w: nil is not a bool", ErrValueType)
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Bool {
		return rv.Bool(), nil
	}
	return false, fmt.Errorf("%w: %T is not a bool", ErrValueType, v)
}

type stringSchema struct{}

func (stringSchema) Tag() Tag            { return TagString }
func (stringSchema) SchemaSize() int     { return tagSize }
func (stringSchema) EncodeSchema(b *Buffer) { b.PutInt32(int32(TagString)) }

func (stringSchema) ObjSize(v any) (int, error) {
	s, err := coerceString(v)
	if err != nil {
		return 0, err
	}
	return 4 + len(s), nil
}

func (stringSchema) EncodeObject(b *Buffer, v any) error {
	s, err := coerceString(v)
	if err != nil {
		return err
	}
	b.PutString(s)
	return nil
}

func coerceString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case nil:
		return "", fmt.Errorf("%w: nil is not a string", ErrValueType)
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	return "", fmt.Errorf("%w: %T is not a string", ErrValueType, v)
}
