// Package schema parses GraphQL schema documents into the type graph used
// for model binding.
//
// Only type system definitions matter here. Object, input object and
// interface types become bindable TypeDefs with their ordered field lists;
// scalars, enums and unions are recorded so field references to them can be
// resolved. Root operation types (Query, Mutation, Subscription, or the
// names given in a schema block) are recognized and marked non-bindable.
package schema

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/gqlbind/scalar"
)

// Kind is the kind of a schema definition.
type Kind string

// Definition kinds, named as in GraphQL introspection.
const (
	KindScalar      Kind = Kind(ast.Scalar)
	KindObject      Kind = Kind(ast.Object)
	KindInterface   Kind = Kind(ast.Interface)
	KindUnion       Kind = Kind(ast.Union)
	KindEnum        Kind = Kind(ast.Enum)
	KindInputObject Kind = Kind(ast.InputObject)
)

// Bindable reports whether models may bind to definitions of this kind.
func (k Kind) Bindable() bool {
	return k == KindObject || k == KindInputObject || k == KindInterface
}

type (
	// Schema is the introspected type graph of one or more documents.
	// It is read-only once returned by Parse.
	Schema struct {
		defs    map[string]*TypeDef
		order   []string
		scalars map[string]struct{}
		roots   map[string]ast.Operation
	}

	// TypeDef is a named definition in the schema.
	TypeDef struct {
		// Name is unique across the schema.
		Name string
		// Kind of the definition.
		Kind Kind
		// Description from the document, if any.
		Description string
		// Fields in declaration order, extensions appended.
		Fields []*FieldDef
		// Interfaces implemented by an object or interface type.
		Interfaces []string
		// Members of a union type.
		Members []string
		// Values of an enum type.
		Values []string
		// Root is set for the query, mutation and subscription types.
		Root bool
		// Position of the definition.
		Position *ast.Position

		fields map[string]*FieldDef
	}

	// FieldDef describes one field of a TypeDef.
	FieldDef struct {
		// Name of the field.
		Name string
		// TypeRef is the named type at the core of the field type.
		TypeRef string
		// IsList is set when the outer type is a list.
		IsList bool
		// ItemNullable is set when members of the outer list may be null.
		ItemNullable bool
		// Nullable is set when the field itself may be null.
		Nullable bool
		// Type is the full type, including nested list wrappers.
		Type *ast.Type
		// Description from the document, if any.
		Description string
		// Deprecated holds the @deprecated reason, if the field is deprecated.
		Deprecated *string
		// Position of the field definition.
		Position *ast.Position
	}
)

// Parse parses a single schema document.
func Parse(src string) (*Schema, error) {
	return ParseSources(&ast.Source{Name: "schema.graphql", Input: src})
}

// Load reads and parses the schema files matching the given paths or glob
// patterns. Files are parsed together so they may reference each other.
func Load(patterns ...string) (*Schema, error) {
	files, err := Files(patterns...)
	if err != nil {
		return nil, err
	}
	sources := make([]*ast.Source, 0, len(files))
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read schema: %w", err)
		}
		sources = append(sources, &ast.Source{Name: f, Input: string(b)})
	}
	return ParseSources(sources...)
}

// Files expands patterns into a sorted, de-duplicated list of file names.
func Files(patterns ...string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("schema pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("schema pattern %q matched no files", p)
		}
		for _, m := range matches {
			seen[m] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen)), nil
}

// Type returns the bindable type with the given name. Root operation types,
// scalars, enums and unions are not returned.
func (s *Schema) Type(name string) (*TypeDef, bool) {
	t, ok := s.defs[name]
	if !ok || t.Root || !t.Kind.Bindable() {
		return nil, false
	}
	return t, true
}

// Definition returns any named definition, including roots, enums and unions.
func (s *Schema) Definition(name string) (*TypeDef, bool) {
	t, ok := s.defs[name]
	return t, ok
}

// Types returns the bindable types in declaration order.
func (s *Schema) Types() []*TypeDef {
	types := make([]*TypeDef, 0, len(s.order))
	for _, name := range s.order {
		if t, ok := s.Type(name); ok {
			types = append(types, t)
		}
	}
	return types
}

// TypeNames returns the names of the bindable types in declaration order.
func (s *Schema) TypeNames() []string {
	types := s.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Name
	}
	return names
}

// IsScalar reports whether name is a builtin or declared scalar.
func (s *Schema) IsScalar(name string) bool {
	_, ok := s.scalars[name]
	return ok
}

// Scalars returns the builtin and declared scalar names, sorted.
func (s *Schema) Scalars() []string {
	return slices.Sorted(maps.Keys(s.scalars))
}

// IsRoot reports whether name is a root operation type.
func (s *Schema) IsRoot(name string) bool {
	_, ok := s.roots[name]
	return ok
}

// Field returns the field with the given name.
func (t *TypeDef) Field(name string) (*FieldDef, bool) {
	f, ok := t.fields[name]
	return f, ok
}

// FieldNames returns the field names in declaration order.
func (t *TypeDef) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// String returns the field type in GraphQL notation, e.g. "[Book!]!".
func (f *FieldDef) String() string {
	return f.Type.String()
}

func newSchema() *Schema {
	s := &Schema{
		defs:    make(map[string]*TypeDef),
		scalars: make(map[string]struct{}),
		roots:   make(map[string]ast.Operation),
	}
	for _, name := range scalar.BuiltinNames {
		s.scalars[name] = struct{}{}
	}
	return s
}

func (t *TypeDef) addField(fd *ast.FieldDefinition) error {
	if _, ok := t.fields[fd.Name]; ok {
		return parseErrorf(fd.Position, "field %q redeclared for type %q", fd.Name, t.Name)
	}
	f := newFieldDef(fd)
	t.Fields = append(t.Fields, f)
	t.fields[f.Name] = f
	return nil
}

func newFieldDef(fd *ast.FieldDefinition) *FieldDef {
	f := &FieldDef{
		Name:        fd.Name,
		Type:        fd.Type,
		TypeRef:     namedType(fd.Type),
		Nullable:    !fd.Type.NonNull,
		Description: fd.Description,
		Position:    fd.Position,
	}
	if elem := fd.Type.Elem; elem != nil {
		f.IsList = true
		f.ItemNullable = !elem.NonNull
	}
	if d := fd.Directives.ForName("deprecated"); d != nil {
		reason := "No longer supported"
		if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
			reason = arg.Value.Raw
		}
		f.Deprecated = &reason
	}
	return f
}

func namedType(t *ast.Type) string {
	for t.Elem != nil {
		t = t.Elem
	}
	return t.NamedType
}
