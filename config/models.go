package config

import (
	"fmt"
	"maps"
	"slices"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/syssam/gqlbind/binder"
	"github.com/syssam/gqlbind/scalar"
	"github.com/syssam/gqlbind/schema"
	"github.com/syssam/gqlbind/validate"
)

// Build loads the schemas of f and binds its declarations. Scalar aliases
// are added to a copy of base.
func (f *File) Build(base *scalar.Registry, opts ...binder.Option) (*binder.Table, error) {
	s, err := schema.Load(f.SchemaPatterns()...)
	if err != nil {
		return nil, err
	}
	scalars, err := f.Registry(base)
	if err != nil {
		return nil, err
	}
	decls, err := f.Declarations(s, scalars)
	if err != nil {
		return nil, err
	}
	opts = append(slices.Clip(opts), binder.WithScalars(scalars))
	return binder.NewCoordinator(opts...).BindSchema(s, decls...)
}

// Registry returns a copy of base extended with the scalar aliases of f.
func (f *File) Registry(base *scalar.Registry) (*scalar.Registry, error) {
	r := base.Clone()
	for name, target := range f.Scalars {
		s, err := base.Resolve(target)
		if err != nil {
			return nil, fmt.Errorf("scalar alias %q: %w", name, err)
		}
		r.Register(name, s.GoType, s.Coerce)
	}
	return r, nil
}

// Declarations builds the model declarations of f. Field overrides are
// resolved against s and scalars.
func (f *File) Declarations(s *schema.Schema, scalars *scalar.Registry) ([]*binder.Model, error) {
	resolver := binder.NewResolver(s, scalars, nil)
	models := make([]*binder.Model, 0, len(f.Models))
	for _, name := range f.ModelNames() {
		m, err := f.Models[name].declare(name, resolver)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, nil
}

func (m Model) declare(name string, resolver *binder.Resolver) (*binder.Model, error) {
	opts := []binder.ModelOption{binder.GQLType(m.GQLType)}
	if m.Include != nil {
		opts = append(opts, binder.Include(m.Include...))
	}
	if m.Exclude != nil {
		opts = append(opts, binder.Exclude(m.Exclude...))
	}
	for _, field := range slices.Sorted(maps.Keys(m.Fields)) {
		expr := m.Fields[field]
		t, err := ParseType(expr, resolver)
		if err != nil {
			return nil, fmt.Errorf("model %q field %q: %w", name, field, err)
		}
		opts = append(opts, binder.Override(field, t))
	}
	for _, field := range slices.Sorted(maps.Keys(m.Validators)) {
		for _, expr := range m.Validators[field] {
			fn, err := validate.Parse(expr)
			if err != nil {
				return nil, fmt.Errorf("model %q field %q: %w", name, field, err)
			}
			opts = append(opts, binder.Validate(field, fn))
		}
	}
	return binder.Declare(name, opts...), nil
}

// ParseType parses a type in GraphQL notation, such as "[UUID!]", and
// resolves it with resolver.
func ParseType(expr string, resolver *binder.Resolver) (*binder.Type, error) {
	doc, err := parser.ParseSchema(&ast.Source{
		Name:  "override",
		Input: "type Override { t: " + expr + " }",
	})
	if err != nil {
		return nil, fmt.Errorf("invalid type %q: %w", expr, err)
	}
	if len(doc.Definitions) != 1 || len(doc.Definitions[0].Fields) != 1 {
		return nil, fmt.Errorf("invalid type %q", expr)
	}
	fd := doc.Definitions[0].Fields[0]
	return resolver.Resolve(&schema.FieldDef{Name: "t", Type: fd.Type})
}
