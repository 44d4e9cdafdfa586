package rrlog

import (
	"reflect"

	"github.com/puzpuzpuz/xsync/v4"
)

// Registry maps Go types to their schemas. Lookups and registrations are
// safe under concurrent access; SchemaOf memoizes derivation so reflection
// runs at most a handful of times per type.
//
// Most programs use DefaultRegistry, but a Registry is an ordinary value and
// writers accept a private one via WithRegistry.
type Registry struct {
	schemas *xsync.Map[reflect.Type, Schema]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: xsync.NewMap[reflect.Type, Schema]()}
}

// Register inserts or replaces the schema for t. Replacing an existing
// mapping is allowed but discouraged: channels that already registered under
// the old schema keep it.
func (r *Registry) Register(t reflect.Type, s Schema) {
	r.schemas.Store(t, s)
}

// Lookup returns the registered schema for t, if any.
func (r *Registry) Lookup(t reflect.Type) (Schema, bool) {
	return r.schemas.Load(t)
}

// SchemaOf returns the schema for t, deriving and memoizing one when none is
// registered. Concurrent first calls may derive twice; both derive the same
// schema shape, so the race is harmless.
func (r *Registry) SchemaOf(t reflect.Type) (Schema, error) {
	if s, ok := r.schemas.Load(t); ok {
		return s, nil
	}
	s, err := DeriveSchema(t)
	if err != nil {
		return nil, err
	}
	r.schemas.Store(t, s)
	return s, nil
}

// DefaultRegistry is the process-wide registry used by writers unless
// overridden with WithRegistry.
var DefaultRegistry = NewRegistry()

// RegisterType registers a schema for T in the default registry.
func RegisterType[T any](s Schema) {
	DefaultRegistry.Register(reflect.TypeFor[T](), s)
}

// SchemaFor returns the schema for T from the default registry, deriving one
// if needed.
func SchemaFor[T any]() (Schema, error) {
	return DefaultRegistry.SchemaOf(reflect.TypeFor[T]())
}
