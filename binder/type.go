package binder

import (
	"slices"
	"strings"

	"github.com/syssam/gqlbind/scalar"
)

// Kind is the kind of a resolved field type.
type Kind uint8

// Resolved type kinds.
const (
	KindInvalid Kind = iota
	KindScalar
	KindEnum
	KindObject
	KindList
	// KindAny accepts any object value. Union references resolve to it.
	KindAny
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindScalar:  "scalar",
	KindEnum:    "enum",
	KindObject:  "object",
	KindList:    "list",
	KindAny:     "any",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Type is the validation-time type of a bound field.
//
// Object types carry the name of the referenced schema type. The bound model
// behind the name is linked once every model of the binding pass is known,
// which allows types to reference each other in cycles.
type Type struct {
	// Kind of the type.
	Kind Kind
	// Nullable is set when null (or absence) is accepted.
	Nullable bool
	// Name is the GraphQL name of scalar, enum, object and union types.
	Name string
	// Scalar holds the native type of scalar types.
	Scalar *scalar.Scalar
	// Values holds the members of enum types.
	Values []string
	// Elem is the item type of list types.
	Elem *Type

	model *BoundModel
}

// ScalarType returns a non-null type for s.
func ScalarType(s *scalar.Scalar) *Type {
	return &Type{Kind: KindScalar, Name: s.Name, Scalar: s}
}

// ObjectType returns a non-null reference to the schema type name.
func ObjectType(name string) *Type {
	return &Type{Kind: KindObject, Name: name}
}

// EnumType returns a non-null enum type with the given values.
func EnumType(name string, values ...string) *Type {
	return &Type{Kind: KindEnum, Name: name, Values: values}
}

// ListOf returns a non-null list of elem.
func ListOf(elem *Type) *Type {
	return &Type{Kind: KindList, Elem: elem}
}

// Optional returns a nullable copy of t.
func Optional(t *Type) *Type {
	c := t.clone()
	c.Nullable = true
	return c
}

// Model returns the bound model of an object type. It is nil for other kinds
// and for object types that were never linked.
func (t *Type) Model() *BoundModel {
	return t.model
}

// String returns the type in GraphQL notation, e.g. "[Book!]".
func (t *Type) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Type) write(b *strings.Builder) {
	if t.Kind == KindList {
		b.WriteByte('[')
		t.Elem.write(b)
		b.WriteByte(']')
	} else {
		b.WriteString(t.Name)
	}
	if !t.Nullable {
		b.WriteByte('!')
	}
}

// Equal reports whether t and o describe the same type. Object types are
// compared by name, scalars by name and native type.
func (t *Type) Equal(o *Type) bool {
	switch {
	case t == nil || o == nil:
		return t == o
	case t.Kind != o.Kind || t.Nullable != o.Nullable || t.Name != o.Name:
		return false
	case t.Kind == KindScalar && !sameScalar(t.Scalar, o.Scalar):
		return false
	case !slices.Equal(t.Values, o.Values):
		return false
	}
	return t.Elem.Equal(o.Elem)
}

func sameScalar(a, b *scalar.Scalar) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name && a.GoType == b.GoType
}

// clone returns a deep copy of t without model links.
func (t *Type) clone() *Type {
	c := *t
	c.model = nil
	c.Values = slices.Clone(t.Values)
	if t.Elem != nil {
		c.Elem = t.Elem.clone()
	}
	return &c
}

// core returns the innermost non-list type.
func (t *Type) core() *Type {
	for t.Kind == KindList {
		t = t.Elem
	}
	return t
}
