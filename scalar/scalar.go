// Package scalar maps GraphQL scalar names to native Go types.
//
// A Registry is consulted by the binder while resolving field types. The
// package-level Default registry is process-wide and pre-populated with the
// GraphQL builtins (Int, Float, String, Boolean, ID) and the common custom
// scalars Date, DateTime, JSON and UUID:
//
//	scalar.Register("Decimal", reflect.TypeOf(decimal.Decimal{}), nil)
//
// Registration is last-write-wins. Changing a registry after a binding pass
// has no effect on a table that was already published, because the binder
// takes a snapshot when the pass starts.
package scalar

import (
	"encoding"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"

	"github.com/syssam/gqlbind"
)

// CoerceFunc converts an incoming value into the scalar's native type.
// It returns an error if the value cannot represent the scalar.
type CoerceFunc func(v any) (any, error)

// Scalar describes the native representation of a GraphQL scalar.
type Scalar struct {
	// Name is the GraphQL scalar name.
	Name string
	// GoType is the native type values are coerced into.
	GoType reflect.Type
	// Coerce converts input values. Nil means Assign(GoType).
	Coerce CoerceFunc
	// JSONSchema describes the scalar for JSON Schema export.
	JSONSchema map[string]any
}

// New returns a scalar with the given native type and coercion.
func New(name string, goType reflect.Type, coerce CoerceFunc) *Scalar {
	return &Scalar{Name: name, GoType: goType, Coerce: coerce}
}

// For returns a scalar whose native type is T.
func For[T any](name string, coerce func(v any) (T, error)) *Scalar {
	s := &Scalar{Name: name, GoType: reflect.TypeFor[T]()}
	if coerce != nil {
		s.Coerce = func(v any) (any, error) { return coerce(v) }
	}
	return s
}

// Convert runs the scalar's coercion over v.
func (s *Scalar) Convert(v any) (any, error) {
	if s.Coerce != nil {
		return s.Coerce(v)
	}
	return Assign(s.GoType)(v)
}

// Schema returns the JSON Schema fragment for the scalar.
func (s *Scalar) Schema() map[string]any {
	if s.JSONSchema != nil {
		return maps.Clone(s.JSONSchema)
	}
	return jsonSchemaOf(s.GoType)
}

// String returns the scalar name.
func (s *Scalar) String() string {
	return s.Name
}

// Assign returns a CoerceFunc that accepts values assignable or
// convertible to t, and strings for types implementing
// encoding.TextUnmarshaler.
func Assign(t reflect.Type) CoerceFunc {
	return func(v any) (any, error) {
		if t == nil {
			return v, nil
		}
		rv := reflect.ValueOf(v)
		if !rv.IsValid() {
			return nil, fmt.Errorf("value is required")
		}
		switch {
		case rv.Type().AssignableTo(t):
			return v, nil
		case isNumeric(rv.Kind()) && isNumeric(t.Kind()) && rv.CanConvert(t):
			return rv.Convert(t).Interface(), nil
		}
		if s, ok := v.(string); ok && reflect.PointerTo(t).Implements(textUnmarshaler) {
			ptr := reflect.New(t)
			if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
				return nil, err
			}
			return ptr.Elem().Interface(), nil
		}
		return nil, fmt.Errorf("%T is not a valid %s", v, t)
	}
}

var textUnmarshaler = reflect.TypeFor[encoding.TextUnmarshaler]()

func isNumeric(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Float64
}

// Registry maps scalar names to scalars. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	scalars map[string]*Scalar
}

// NewRegistry returns a registry holding the given scalars.
func NewRegistry(scalars ...*Scalar) *Registry {
	r := &Registry{scalars: make(map[string]*Scalar, len(scalars))}
	for _, s := range scalars {
		r.Add(s)
	}
	return r
}

// NewDefaultRegistry returns a registry populated with Builtins.
func NewDefaultRegistry() *Registry {
	return NewRegistry(Builtins()...)
}

// Add inserts s, replacing any scalar with the same name.
func (r *Registry) Add(s *Scalar) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scalars[s.Name] = s
}

// Register maps name to goType. If coerce is nil, values are accepted when
// assignable or convertible to goType.
func (r *Registry) Register(name string, goType reflect.Type, coerce CoerceFunc) *Scalar {
	s := New(name, goType, coerce)
	r.Add(s)
	return s
}

// Lookup returns the scalar registered under name.
func (r *Registry) Lookup(name string) (*Scalar, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scalars[name]
	return s, ok
}

// Resolve returns the scalar registered under name, or a
// *gqlbind.ScalarNotRegisteredError.
func (r *Registry) Resolve(name string) (*Scalar, error) {
	if s, ok := r.Lookup(name); ok {
		return s, nil
	}
	return nil, &gqlbind.ScalarNotRegisteredError{Scalar: name}
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.scalars))
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &Registry{scalars: maps.Clone(r.scalars)}
}

// Default is the process-wide registry.
var Default = NewDefaultRegistry()

// Register maps name to goType in the Default registry.
func Register(name string, goType reflect.Type, coerce CoerceFunc) *Scalar {
	return Default.Register(name, goType, coerce)
}

// Resolve looks name up in the Default registry.
func Resolve(name string) (*Scalar, error) {
	return Default.Resolve(name)
}
