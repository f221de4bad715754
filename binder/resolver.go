package binder

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/gqlbind"
	"github.com/syssam/gqlbind/scalar"
	"github.com/syssam/gqlbind/schema"
)

// Resolver maps schema field definitions to validation types.
//
// Object references are returned unlinked unless the referenced model is
// already known to the resolver. Unlinked references are remembered and
// handed out by Pending, so a binding pass can link them once every model
// exists.
type Resolver struct {
	schema  *schema.Schema
	scalars *scalar.Registry
	models  map[string]*BoundModel
	pending []*Type
}

// NewResolver returns a resolver over s and scalars. Object references to
// types present in models are linked immediately. models may be nil.
func NewResolver(s *schema.Schema, scalars *scalar.Registry, models map[string]*BoundModel) *Resolver {
	if models == nil {
		models = make(map[string]*BoundModel)
	}
	return &Resolver{schema: s, scalars: scalars, models: models}
}

// Resolve returns the validation type of f. The returned errors carry the
// field name; the caller adds the model name.
func (r *Resolver) Resolve(f *schema.FieldDef) (*Type, error) {
	t, err := r.resolve(f.Type)
	if err != nil {
		return nil, withField(err, f.Name)
	}
	return t, nil
}

func (r *Resolver) resolve(at *ast.Type) (*Type, error) {
	nullable := !at.NonNull
	if at.Elem != nil {
		elem, err := r.resolve(at.Elem)
		if err != nil {
			return nil, err
		}
		return &Type{Kind: KindList, Nullable: nullable, Elem: elem}, nil
	}
	t, err := r.named(at.NamedType)
	if err != nil {
		return nil, err
	}
	t.Nullable = nullable
	return t, nil
}

// named resolves a type name. Schema definitions take precedence over the
// registry, which only serves declared and builtin scalars.
func (r *Resolver) named(name string) (*Type, error) {
	def, ok := r.schema.Definition(name)
	if !ok && !r.schema.IsScalar(name) && !r.scalars.Has(name) {
		return nil, &gqlbind.UnknownTypeError{TypeName: name}
	}
	if !ok || def.Kind == schema.KindScalar {
		s, err := r.scalars.Resolve(name)
		if err != nil {
			return nil, err
		}
		return ScalarType(s), nil
	}
	switch {
	case def.Root:
		return nil, &gqlbind.UnknownTypeError{TypeName: name, Reason: "root operation type"}
	case def.Kind == schema.KindEnum:
		return EnumType(name, def.Values...), nil
	case def.Kind == schema.KindUnion:
		return &Type{Kind: KindAny, Name: name}, nil
	case def.Kind.Bindable():
		t := ObjectType(name)
		r.link(t)
		return t, nil
	default:
		return nil, &gqlbind.UnknownTypeError{TypeName: name, Reason: "unsupported kind " + string(def.Kind)}
	}
}

// link connects every object reference inside t to a known model, queueing
// the ones that cannot be linked yet.
func (r *Resolver) link(t *Type) {
	switch t.Kind {
	case KindList:
		r.link(t.Elem)
	case KindObject:
		if m, ok := r.models[t.Name]; ok {
			t.model = m
			return
		}
		r.pending = append(r.pending, t)
	}
}

// Pending returns and clears the object references that are not linked yet.
func (r *Resolver) Pending() []*Type {
	p := r.pending
	r.pending = nil
	return p
}

func withField(err error, field string) error {
	switch e := err.(type) {
	case *gqlbind.UnknownTypeError:
		e.Field = field
	case *gqlbind.ScalarNotRegisteredError:
		e.Field = field
	}
	return err
}

func withModel(err error, model string) error {
	switch e := err.(type) {
	case *gqlbind.UnknownTypeError:
		e.Model = model
	case *gqlbind.ScalarNotRegisteredError:
		e.Model = model
	}
	return err
}
