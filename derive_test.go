package rrlog

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pose struct {
	X float64
	Y float64
}

type tagged struct {
	Kept    int32  `rrlog:"n"`
	Skipped string `rrlog:"-"`
	Plain   bool
	hidden  int
}

type detection struct {
	Label string
	Score float64
}

func (detection) AsType() string { return "Detection" }

type nodeA struct{ B *nodeB }
type nodeB struct{ A *nodeA }

type baseIDs struct{ ID int64 }

type embedded struct {
	baseIDs
	V float64
}

func TestDeriveSchema(t *testing.T) {
	t.Run("Primitives", func(t *testing.T) {
		cases := []struct {
			typ  reflect.Type
			want Schema
		}{
			{reflect.TypeFor[int32](), Int32},
			{reflect.TypeFor[int16](), Int32},
			{reflect.TypeFor[uint16](), Int32},
			{reflect.TypeFor[int](), Int64},
			{reflect.TypeFor[int64](), Int64},
			{reflect.TypeFor[uint32](), Int64},
			{reflect.TypeFor[float32](), Float64},
			{reflect.TypeFor[float64](), Float64},
			{reflect.TypeFor[bool](), Bool},
			{reflect.TypeFor[string](), String},
		}
		for _, tc := range cases {
			s, err := DeriveSchema(tc.typ)
			require.NoError(t, err)
			assert.Equal(t, tc.want, s, "type %s", tc.typ)
		}
	})

	t.Run("Enum", func(t *testing.T) {
		s, err := DeriveSchema(reflect.TypeFor[rgb]())
		require.NoError(t, err)
		enum, ok := s.(*EnumSchema)
		require.True(t, ok)
		assert.Equal(t, []string{"RED", "GREEN", "BLUE"}, enum.Names())

		raw, err := MarshalValue(s, green)
		require.NoError(t, err)
		assert.Equal(t, []byte{0, 0, 0, 1}, raw)
	})

	t.Run("Slice", func(t *testing.T) {
		s, err := DeriveSchema(reflect.TypeFor[[]float64]())
		require.NoError(t, err)
		arr, ok := s.(*ArraySchema)
		require.True(t, ok)
		assert.Equal(t, Float64, arr.Elem())
	})

	t.Run("Struct", func(t *testing.T) {
		s, err := DeriveSchema(reflect.TypeFor[pose]())
		require.NoError(t, err)
		rec, ok := s.(*RecordSchema)
		require.True(t, ok)
		fields := rec.Fields()
		require.Len(t, fields, 2)
		assert.Equal(t, "X", fields[0].Name)
		assert.Equal(t, "Y", fields[1].Name)

		raw, err := MarshalValue(s, pose{X: 1, Y: 2})
		require.NoError(t, err)
		assert.Equal(t, []byte{
			0x3F, 0xF0, 0, 0, 0, 0, 0, 0,
			0x40, 0x00, 0, 0, 0, 0, 0, 0,
		}, raw)
	})

	t.Run("PointerValue", func(t *testing.T) {
		s, err := DeriveSchema(reflect.TypeFor[*pose]())
		require.NoError(t, err)
		raw, err := MarshalValue(s, &pose{X: 1, Y: 2})
		require.NoError(t, err)
		assert.Len(t, raw, 16)
	})

	t.Run("StructTags", func(t *testing.T) {
		s, err := DeriveSchema(reflect.TypeFor[tagged]())
		require.NoError(t, err)
		rec := s.(*RecordSchema)
		var names []string
		for _, f := range rec.Fields() {
			names = append(names, f.Name)
		}
		assert.Equal(t, []string{"n", "Plain"}, names)
	})

	t.Run("EmbeddedFields", func(t *testing.T) {
		s, err := DeriveSchema(reflect.TypeFor[embedded]())
		require.NoError(t, err)
		rec := s.(*RecordSchema)
		var names []string
		for _, f := range rec.Fields() {
			names = append(names, f.Name)
		}
		assert.Equal(t, []string{"ID", "V"}, names)
	})

	t.Run("Discriminator", func(t *testing.T) {
		s, err := DeriveSchema(reflect.TypeFor[detection]())
		require.NoError(t, err)
		rec := s.(*RecordSchema)
		fields := rec.Fields()
		require.Len(t, fields, 3)
		assert.Equal(t, TypeField, fields[0].Name)
		assert.Equal(t, "Detection", fields[0].Get(detection{}))
	})

	t.Run("CyclicGraph", func(t *testing.T) {
		_, err := DeriveSchema(reflect.TypeFor[nodeA]())
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("UnsupportedKinds", func(t *testing.T) {
		for _, typ := range []reflect.Type{
			reflect.TypeFor[map[string]int](),
			reflect.TypeFor[func()](),
			reflect.TypeFor[chan int](),
			reflect.TypeFor[complex128](),
			reflect.TypeFor[uint64](),
		} {
			_, err := DeriveSchema(typ)
			assert.ErrorIs(t, err, ErrUnsupportedType, "type %s", typ)
		}
	})
}

func TestRegistry(t *testing.T) {
	t.Run("Memoizes", func(t *testing.T) {
		r := NewRegistry()
		s1, err := r.SchemaOf(reflect.TypeFor[pose]())
		require.NoError(t, err)
		s2, err := r.SchemaOf(reflect.TypeFor[pose]())
		require.NoError(t, err)
		assert.Same(t, s1, s2)
	})

	t.Run("ExplicitRegistrationWins", func(t *testing.T) {
		r := NewRegistry()
		r.Register(reflect.TypeFor[pose](), Float64)
		s, err := r.SchemaOf(reflect.TypeFor[pose]())
		require.NoError(t, err)
		assert.Equal(t, Float64, s)

		got, ok := r.Lookup(reflect.TypeFor[pose]())
		require.True(t, ok)
		assert.Equal(t, Float64, got)
	})

	t.Run("LookupMiss", func(t *testing.T) {
		r := NewRegistry()
		_, ok := r.Lookup(reflect.TypeFor[pose]())
		assert.False(t, ok)
	})

	t.Run("DerivationFailurePropagates", func(t *testing.T) {
		r := NewRegistry()
		_, err := r.SchemaOf(reflect.TypeFor[map[string]int]())
		assert.ErrorIs(t, err, ErrUnsupportedType)
		_, ok := r.Lookup(reflect.TypeFor[map[string]int]())
		assert.False(t, ok, "failed derivations are not memoized")
	})

	t.Run("GenericHelpers", func(t *testing.T) {
		type local struct{ N int32 }
		RegisterType[local](NewRecord(
			Field{Name: "n", Schema: Int32, Get: func(v any) any { return v.(local).N }},
		))
		s, err := SchemaFor[local]()
		require.NoError(t, err)
		rec := s.(*RecordSchema)
		require.Len(t, rec.Fields(), 1)
		assert.Equal(t, "n", rec.Fields()[0].Name)
	})
}
