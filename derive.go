package rrlog

import (
	"fmt"
	"reflect"
	"strings"
)

// Typed is implemented by struct types that carry a polymorphic type
// discriminator. Derivation probes for it and, when present, produces a
// typed record whose leading ".type" field holds the reported name.
//
// AsType is called once, on a zero value, while the schema is being derived;
// it must not depend on instance state.
type Typed interface {
	AsType() string
}

var (
	enumerType = reflect.TypeOf((*Enumer)(nil)).Elem()
	typedType  = reflect.TypeOf((*Typed)(nil)).Elem()
)

// DeriveSchema builds a schema for a Go type:
//
//   - signed integer, uint8/16/32, float, bool and string kinds map to the
//     primitive schemas; uint, uint64 and uintptr are not supported
//   - types implementing Enumer become enum schemas over their constant names
//   - slices and arrays become array schemas over the derived element schema
//   - structs become record schemas over their exported fields in declaration
//     order; a `rrlog:"name"` tag renames a field and `rrlog:"-"` skips it
//   - structs implementing Typed become typed records
//
// Pointer types derive as their element type; nil pointers fail at encode
// time. Cyclic struct graphs and any other kind return ErrUnsupportedType.
func DeriveSchema(t reflect.Type) (Schema, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", ErrUnsupportedType)
	}
	return derive(t, make(map[reflect.Type]bool))
}

func derive(t reflect.Type, inProgress map[reflect.Type]bool) (Schema, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	// Enumer takes precedence over the integer kinds: a named int that
	// declares constant names is an enumeration, not a number.
	if names, ok := enumNames(t); ok {
		return NewEnum(names...), nil
	}

	switch t.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint8, reflect.Uint16:
		return Int32, nil
	case reflect.Int, reflect.Int64, reflect.Uint32:
		return Int64, nil
	case reflect.Float32, reflect.Float64:
		return Float64, nil
	case reflect.Bool:
		return Bool, nil
	case reflect.String:
		return String, nil
	case reflect.Slice, reflect.Array:
		elem, err := derive(t.Elem(), inProgress)
		if err != nil {
			return nil, err
		}
		return NewArray(elem), nil
	case reflect.Struct:
		return deriveStruct(t, inProgress)
	}
	return nil, fmt.Errorf("%w: %s (%s kind)", ErrUnsupportedType, t, t.Kind())
}

func deriveStruct(t reflect.Type, inProgress map[reflect.Type]bool) (Schema, error) {
	if inProgress[t] {
		return nil, fmt.Errorf("%w: %s is part of a cyclic type graph", ErrUnsupportedType, t)
	}
	inProgress[t] = true
	defer delete(inProgress, t)

	var fields []Field
	for _, sf := range reflect.VisibleFields(t) {
		if sf.Anonymous || !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup("rrlog"); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		fs, err := derive(sf.Type, inProgress)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", t, sf.Name, err)
		}
		fields = append(fields, Field{
			Name:   name,
			Schema: fs,
			Get:    fieldGetter(sf.Index),
		})
	}

	if name, ok := typeDiscriminator(t); ok {
		return NewTypedRecord(name, fields...), nil
	}
	return NewRecord(fields...), nil
}

// fieldGetter extracts a struct field by index path, dereferencing pointers
// on the way in and on the field itself. A nil anywhere yields nil, which the
// field schema rejects at encode time.
func fieldGetter(index []int) func(v any) any {
	return func(v any) any {
		rv := reflect.ValueOf(v)
		for rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return nil
			}
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Struct {
			return nil
		}
		fv, err := rv.FieldByIndexErr(index)
		if err != nil {
			return nil
		}
		for fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				return nil
			}
			fv = fv.Elem()
		}
		return fv.Interface()
	}
}

// enumNames reports the declared constant names of t when t (or *t)
// implements Enumer.
func enumNames(t reflect.Type) ([]string, bool) {
	if t.Implements(enumerType) {
		return reflect.Zero(t).Interface().(Enumer).EnumNames(), true
	}
	if reflect.PointerTo(t).Implements(enumerType) {
		return reflect.New(t).Interface().(Enumer).EnumNames(), true
	}
	return nil, false
}

// typeDiscriminator reports the discriminator name of t when t (or *t)
// implements Typed.
func typeDiscriminator(t reflect.Type) (string, bool) {
	if t.Implements(typedType) {
		return reflect.Zero(t).Interface().(Typed).AsType(), true
	}
	if reflect.PointerTo(t).Implements(typedType) {
		return reflect.New(t).Interface().(Typed).AsType(), true
	}
	return "", false
}
