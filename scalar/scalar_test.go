package scalar_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/gqlbind"
	"github.com/syssam/gqlbind/scalar"
)

func TestRegistry(t *testing.T) {
	t.Run("ResolveMissing", func(t *testing.T) {
		r := scalar.NewRegistry()
		_, err := r.Resolve("JSON")
		require.Error(t, err)
		assert.True(t, gqlbind.IsScalarNotRegistered(err))
	})

	t.Run("RegisterThenResolve", func(t *testing.T) {
		r := scalar.NewRegistry()
		r.Register("JSON", reflect.TypeFor[map[string]any](), nil)
		s, err := r.Resolve("JSON")
		require.NoError(t, err)
		assert.Equal(t, "JSON", s.Name)
		assert.Equal(t, reflect.TypeFor[map[string]any](), s.GoType)
	})

	t.Run("LastWriteWins", func(t *testing.T) {
		r := scalar.NewRegistry()
		r.Register("Money", reflect.TypeFor[int64](), nil)
		r.Register("Money", reflect.TypeFor[float64](), nil)
		s, ok := r.Lookup("Money")
		require.True(t, ok)
		assert.Equal(t, reflect.Float64, s.GoType.Kind())
	})

	t.Run("Clone", func(t *testing.T) {
		r := scalar.NewDefaultRegistry()
		c := r.Clone()
		c.Register("Extra", reflect.TypeFor[string](), nil)
		assert.True(t, c.Has("Extra"))
		assert.False(t, r.Has("Extra"))
	})

	t.Run("Names", func(t *testing.T) {
		r := scalar.NewDefaultRegistry()
		assert.Equal(t, []string{"Boolean", "Date", "DateTime", "Float", "ID", "Int", "JSON", "String", "UUID"}, r.Names())
	})
}

func TestBuiltinCoercion(t *testing.T) {
	r := scalar.NewDefaultRegistry()
	tests := []struct {
		scalar  string
		in      any
		want    any
		wantErr bool
	}{
		{scalar.Int, 1, 1, false},
		{scalar.Int, float64(3), 3, false},
		{scalar.Int, 1.5, nil, true},
		{scalar.Int, float64(1 << 63), nil, true},
		{scalar.Int, float64(-1 << 63), -1 << 63, false},
		{scalar.Int, map[string]any{}, nil, true},
		{scalar.Float, 1.5, 1.5, false},
		{scalar.String, "random", "random", false},
		{scalar.String, map[string]any{"a": 1}, nil, true},
		{scalar.Boolean, true, true, false},
		{scalar.ID, "abc", "abc", false},
		{scalar.ID, float64(42), "42", false},
		{scalar.JSON, map[string]any{"a": 1}, map[string]any{"a": 1}, false},
		{scalar.Date, "2020-06-01", time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC), false},
		{scalar.Date, "06/01/2020", nil, true},
		{scalar.DateTime, "2020-06-01T10:00:00Z", time.Date(2020, 6, 1, 10, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.scalar, func(t *testing.T) {
			s, err := r.Resolve(tt.scalar)
			require.NoError(t, err)
			got, err := s.Convert(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if want, ok := tt.want.(time.Time); ok {
				assert.True(t, want.Equal(got.(time.Time)), "got %v", got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUUID(t *testing.T) {
	s, err := scalar.NewDefaultRegistry().Resolve(scalar.UUID)
	require.NoError(t, err)

	id := uuid.New()
	got, err := s.Convert(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = s.Convert("not-a-uuid")
	assert.Error(t, err)
	assert.Equal(t, map[string]any{"type": "string", "format": "uuid"}, s.Schema())
}

type celsius float64

type level int

func (l *level) UnmarshalText(b []byte) error {
	switch string(b) {
	case "low":
		*l = 1
	case "high":
		*l = 2
	default:
		return assert.AnError
	}
	return nil
}

func TestAssign(t *testing.T) {
	t.Run("Convertible", func(t *testing.T) {
		s := scalar.New("Celsius", reflect.TypeFor[celsius](), nil)
		got, err := s.Convert(21.5)
		require.NoError(t, err)
		assert.Equal(t, celsius(21.5), got)
		assert.Equal(t, map[string]any{"type": "number"}, s.Schema())
	})

	t.Run("TextUnmarshaler", func(t *testing.T) {
		s := scalar.New("Level", reflect.TypeFor[level](), nil)
		got, err := s.Convert("high")
		require.NoError(t, err)
		assert.Equal(t, level(2), got)

		_, err = s.Convert("medium")
		assert.Error(t, err)
	})

	t.Run("Mismatch", func(t *testing.T) {
		s := scalar.New("Celsius", reflect.TypeFor[celsius](), nil)
		_, err := s.Convert("hot")
		assert.Error(t, err)
	})
}

func TestFor(t *testing.T) {
	s := scalar.For("Upper", func(v any) (string, error) {
		str, ok := v.(string)
		if !ok {
			return "", assert.AnError
		}
		return str + "!", nil
	})
	assert.Equal(t, reflect.TypeFor[string](), s.GoType)
	got, err := s.Convert("hi")
	require.NoError(t, err)
	assert.Equal(t, "hi!", got)
}

func TestDefaultRegistry(t *testing.T) {
	assert.True(t, scalar.Default.Has(scalar.JSON))
	assert.True(t, scalar.IsBuiltin("ID"))
	assert.False(t, scalar.IsBuiltin("JSON"))
}
