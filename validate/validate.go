// Package validate provides reusable field validators for bound models.
//
// Validators run after a value has been coerced to its field type and only
// for non-null values. Each one either returns the value, possibly
// transformed, or an error whose message is reported for the field.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/syssam/gqlbind/binder"
)

// ErrType is returned when a validator receives a value it cannot check.
var ErrType = errors.New("value has an unsupported type")

// MinLength requires strings to have at least n characters and lists at
// least n items.
func MinLength(n int) binder.ValidatorFunc {
	return func(v any) (any, error) {
		l, unit, err := length(v)
		if err != nil {
			return nil, err
		}
		if l < n {
			return nil, fmt.Errorf("ensure this value has at least %d %s", n, unit)
		}
		return v, nil
	}
}

// MaxLength requires strings to have at most n characters and lists at most
// n items.
func MaxLength(n int) binder.ValidatorFunc {
	return func(v any) (any, error) {
		l, unit, err := length(v)
		if err != nil {
			return nil, err
		}
		if l > n {
			return nil, fmt.Errorf("ensure this value has at most %d %s", n, unit)
		}
		return v, nil
	}
}

// Match requires strings to match the regular expression pattern.
// It panics if pattern does not compile.
func Match(pattern string) binder.ValidatorFunc {
	re := regexp.MustCompile(pattern)
	return func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, ErrType
		}
		if !re.MatchString(s) {
			return nil, fmt.Errorf("string does not match regex %q", pattern)
		}
		return v, nil
	}
}

// OneOf requires the value to equal one of values.
func OneOf[T comparable](values ...T) binder.ValidatorFunc {
	return func(v any) (any, error) {
		t, ok := v.(T)
		if !ok || !slices.Contains(values, t) {
			return nil, fmt.Errorf("value is not one of %v", values)
		}
		return v, nil
	}
}

// Range requires numbers to lie within [lo, hi].
func Range(lo, hi float64) binder.ValidatorFunc {
	return func(v any) (any, error) {
		f, ok := number(v)
		if !ok {
			return nil, ErrType
		}
		if f < lo || f > hi {
			return nil, fmt.Errorf("ensure this value is between %g and %g", lo, hi)
		}
		return v, nil
	}
}

// NotBlank rejects strings made only of white space.
func NotBlank() binder.ValidatorFunc {
	return func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, ErrType
		}
		if strings.TrimSpace(s) == "" {
			return nil, errors.New("ensure this value is not blank")
		}
		return v, nil
	}
}

// Trim removes leading and trailing white space from strings.
func Trim() binder.ValidatorFunc {
	return func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, ErrType
		}
		return strings.TrimSpace(s), nil
	}
}

func length(v any) (int, string, error) {
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s), "characters", nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), "items", nil
	default:
		return 0, "", ErrType
	}
}

func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
