package scalar

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/google/uuid"
)

// Names of the scalars known to every registry created by NewDefaultRegistry.
const (
	Int      = "Int"
	Float    = "Float"
	String   = "String"
	Boolean  = "Boolean"
	ID       = "ID"
	Date     = "Date"
	DateTime = "DateTime"
	JSON     = "JSON"
	UUID     = "UUID"
)

// DateLayout is the wire format of the Date scalar.
const DateLayout = time.DateOnly

// BuiltinNames lists the scalars every GraphQL schema has without declaring them.
var BuiltinNames = []string{Int, Float, String, Boolean, ID}

// IsBuiltin reports whether name is a GraphQL builtin scalar.
func IsBuiltin(name string) bool {
	switch name {
	case Int, Float, String, Boolean, ID:
		return true
	}
	return false
}

// Builtins returns fresh copies of the default scalars.
func Builtins() []*Scalar {
	return []*Scalar{
		{
			Name:       Int,
			GoType:     reflect.TypeFor[int](),
			Coerce:     coerceInt,
			JSONSchema: map[string]any{"type": "integer"},
		},
		{
			Name:       Float,
			GoType:     reflect.TypeFor[float64](),
			Coerce:     func(v any) (any, error) { return graphql.UnmarshalFloat(v) },
			JSONSchema: map[string]any{"type": "number"},
		},
		{
			Name:       String,
			GoType:     reflect.TypeFor[string](),
			Coerce:     func(v any) (any, error) { return graphql.UnmarshalString(v) },
			JSONSchema: map[string]any{"type": "string"},
		},
		{
			Name:       Boolean,
			GoType:     reflect.TypeFor[bool](),
			Coerce:     func(v any) (any, error) { return graphql.UnmarshalBoolean(v) },
			JSONSchema: map[string]any{"type": "boolean"},
		},
		{
			Name:   ID,
			GoType: reflect.TypeFor[string](),
			Coerce: coerceID,
			JSONSchema: map[string]any{"anyOf": []any{
				map[string]any{"type": "integer"},
				map[string]any{"type": "string"},
			}},
		},
		{
			Name:       Date,
			GoType:     reflect.TypeFor[time.Time](),
			Coerce:     coerceDate,
			JSONSchema: map[string]any{"type": "string", "format": "date"},
		},
		{
			Name:       DateTime,
			GoType:     reflect.TypeFor[time.Time](),
			Coerce:     coerceDateTime,
			JSONSchema: map[string]any{"type": "string", "format": "date-time"},
		},
		{
			Name:       JSON,
			GoType:     reflect.TypeFor[map[string]any](),
			Coerce:     func(v any) (any, error) { return graphql.UnmarshalMap(v) },
			JSONSchema: map[string]any{"type": "object"},
		},
		{
			Name:       UUID,
			GoType:     reflect.TypeFor[uuid.UUID](),
			Coerce:     coerceUUID,
			JSONSchema: map[string]any{"type": "string", "format": "uuid"},
		},
	}
}

// coerceInt accepts integral float64 values as produced by encoding/json,
// then defers to gqlgen.
func coerceInt(v any) (any, error) {
	if f, ok := v.(float64); ok {
		if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
			return nil, fmt.Errorf("%v is not an int", f)
		}
		return int(f), nil
	}
	return graphql.UnmarshalInt(v)
}

func coerceID(v any) (any, error) {
	if f, ok := v.(float64); ok && f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10), nil
	}
	return graphql.UnmarshalID(v)
}

func coerceDate(v any) (any, error) {
	switch v := v.(type) {
	case time.Time:
		y, m, d := v.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, v.Location()), nil
	case string:
		t, err := time.Parse(DateLayout, v)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", v)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("%T is not a date", v)
	}
}

func coerceDateTime(v any) (any, error) {
	if t, ok := v.(time.Time); ok {
		return t, nil
	}
	return graphql.UnmarshalTime(v)
}

func coerceUUID(v any) (any, error) {
	switch v := v.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		return uuid.Parse(v)
	case []byte:
		return uuid.FromBytes(v)
	default:
		return nil, fmt.Errorf("%T is not a uuid", v)
	}
}

// jsonSchemaOf derives a JSON Schema fragment from a Go type for scalars
// registered without one.
func jsonSchemaOf(t reflect.Type) map[string]any {
	if t == nil {
		return map[string]any{}
	}
	switch t.Kind() {
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}
	case reflect.String:
		return map[string]any{"type": "string"}
	case reflect.Map, reflect.Struct:
		return map[string]any{"type": "object"}
	case reflect.Slice, reflect.Array:
		return map[string]any{"type": "array"}
	default:
		return map[string]any{}
	}
}
