package binder

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/go-openapi/inflect"

	"github.com/syssam/gqlbind"
	"github.com/syssam/gqlbind/scalar"
	"github.com/syssam/gqlbind/schema"
)

// Bind binds a single model declaration against s.
//
// Object references to other schema types are bound implicitly with every
// field of the referenced type. Use a Coordinator to bind several
// declarations that reference each other.
func Bind(m *Model, s *schema.Schema, scalars *scalar.Registry, validators *ValidatorRegistry) (*BoundModel, error) {
	if validators == nil {
		validators = NewValidatorRegistry()
	}
	validators = validators.Clone()
	for _, v := range m.Validators {
		validators.Register(m.DeclName(), v.Field, v.Func)
	}
	b := newBinder(s, scalars, validators, slog.New(slog.DiscardHandler))
	bm, err := b.declare(m, true)
	if err != nil {
		return nil, err
	}
	b.models[bm.GQLType] = bm
	if err := b.resolve(bm); err != nil {
		return nil, err
	}
	if err := b.linkPending(); err != nil {
		return nil, err
	}
	return bm, nil
}

// binder holds the state of one binding pass.
type binder struct {
	schema     *schema.Schema
	scalars    *scalar.Registry
	validators *ValidatorRegistry
	models     map[string]*BoundModel
	resolver   *Resolver
	log        *slog.Logger
}

func newBinder(s *schema.Schema, scalars *scalar.Registry, validators *ValidatorRegistry, log *slog.Logger) *binder {
	models := make(map[string]*BoundModel)
	return &binder{
		schema:     s,
		scalars:    scalars,
		validators: validators,
		models:     models,
		resolver:   NewResolver(s, scalars, models),
		log:        log,
	}
}

// declare checks the declaration against the schema and returns the model
// shell: selected fields with overrides and validators attached, but
// resolved types still missing. Implicit models take no validators.
func (b *binder) declare(m *Model, explicit bool) (*BoundModel, error) {
	name, cfg := m.DeclName(), m.Config
	if cfg.GQLType == "" {
		return nil, &gqlbind.UnknownTypeError{Model: name}
	}
	def, err := b.bindable(name, cfg.GQLType)
	if err != nil {
		return nil, err
	}
	fields, err := selectFields(name, def, cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}
	bm := &BoundModel{
		Name:        name,
		GQLType:     def.Name,
		Kind:        def.Kind,
		Description: def.Description,
		index:       make(map[string]*Field, len(fields)),
	}
	for _, fd := range fields {
		bm.add(&Field{Name: fd.Name, Def: fd})
	}
	bm.setAliases()

	for _, fname := range sortedKeys(cfg.Fields) {
		f, ok := bm.index[fname]
		if !ok || f.Name != fname {
			return nil, overrideError(name, fname, "override", def)
		}
		t := cfg.Fields[fname]
		if t == nil {
			return nil, &gqlbind.FieldOverrideError{Model: name, Field: fname, Message: "override type is nil"}
		}
		if err := checkOverride(t); err != nil {
			return nil, &gqlbind.FieldOverrideError{Model: name, Field: fname, Message: err.Error()}
		}
		f.Type = t.clone()
		f.Overridden = true
	}
	if !explicit {
		return bm, nil
	}
	for _, fname := range b.validators.Fields(name) {
		f, ok := bm.index[fname]
		if !ok || f.Name != fname {
			return nil, overrideError(name, fname, "validator", def)
		}
		f.validators = b.validators.Get(name, fname)
	}
	return bm, nil
}

func (b *binder) bindable(model, gqlType string) (*schema.TypeDef, error) {
	if def, ok := b.schema.Type(gqlType); ok {
		return def, nil
	}
	err := &gqlbind.UnknownTypeError{Model: model, TypeName: gqlType}
	if def, ok := b.schema.Definition(gqlType); ok {
		if def.Root {
			err.Reason = "root operation type"
		} else {
			err.Reason = fmt.Sprintf("%s types cannot be bound", def.Kind)
		}
	}
	return nil, err
}

// resolve fills in the types of the fields that are not overridden.
func (b *binder) resolve(bm *BoundModel) error {
	for _, f := range bm.fields {
		if f.Overridden {
			b.resolver.link(f.Type)
			continue
		}
		t, err := b.resolver.Resolve(f.Def)
		if err != nil {
			return withModel(err, bm.Name)
		}
		f.Type = t
	}
	return nil
}

// linkPending links the outstanding object references, binding undeclared
// referenced types as implicit models until none are left.
func (b *binder) linkPending() error {
	for {
		pending := b.resolver.Pending()
		if len(pending) == 0 {
			return nil
		}
		for _, t := range pending {
			if m, ok := b.models[t.Name]; ok {
				t.model = m
				continue
			}
			m, err := b.implicit(t.Name)
			if err != nil {
				return err
			}
			t.model = m
		}
	}
}

func (b *binder) implicit(gqlType string) (*BoundModel, error) {
	bm, err := b.declare(&Model{Name: gqlType, Config: Config{GQLType: gqlType}}, false)
	if err != nil {
		return nil, err
	}
	bm.Implicit = true
	b.models[gqlType] = bm
	b.log.Debug("binding referenced type implicitly", slog.String("gql_type", gqlType))
	if err := b.resolve(bm); err != nil {
		return nil, err
	}
	return bm, nil
}

// selectFields applies include or exclude to the fields of def, preserving
// declaration order.
func selectFields(model string, def *schema.TypeDef, include, exclude []string) ([]*schema.FieldDef, error) {
	if include != nil && exclude != nil {
		return nil, &gqlbind.FieldSelectionError{
			Model:   model,
			GQLType: def.Name,
			Message: "include and exclude are mutually exclusive",
		}
	}
	names := include
	if names == nil {
		names = exclude
	}
	if unknown := unknownFields(def, names); len(unknown) > 0 {
		option := "exclude"
		if include != nil {
			option = "include"
		}
		return nil, &gqlbind.FieldSelectionError{
			Model:   model,
			GQLType: def.Name,
			Fields:  unknown,
			Message: fmt.Sprintf("%s names fields not declared by the type", option),
		}
	}
	switch {
	case include != nil:
		return slices.DeleteFunc(slices.Clone(def.Fields), func(f *schema.FieldDef) bool {
			return !slices.Contains(include, f.Name)
		}), nil
	case exclude != nil:
		return slices.DeleteFunc(slices.Clone(def.Fields), func(f *schema.FieldDef) bool {
			return slices.Contains(exclude, f.Name)
		}), nil
	default:
		return slices.Clone(def.Fields), nil
	}
}

func unknownFields(def *schema.TypeDef, names []string) []string {
	var unknown []string
	for _, n := range names {
		if _, ok := def.Field(n); !ok && !slices.Contains(unknown, n) {
			unknown = append(unknown, n)
		}
	}
	slices.Sort(unknown)
	return unknown
}

func overrideError(model, field, kind string, def *schema.TypeDef) error {
	err := &gqlbind.FieldOverrideError{Model: model, Field: field, Kind: kind}
	if _, ok := def.Field(field); !ok {
		err.Message = fmt.Sprintf("type %s has no such field", def.Name)
	}
	return err
}

// checkOverride rejects override types that cannot be used for validation.
func checkOverride(t *Type) error {
	switch t.Kind {
	case KindScalar:
		if t.Scalar == nil {
			return fmt.Errorf("scalar type %q has no native type", t.Name)
		}
	case KindList:
		if t.Elem == nil {
			return fmt.Errorf("list type has no item type")
		}
		return checkOverride(t.Elem)
	case KindObject, KindEnum, KindAny:
		if t.Name == "" && t.Kind != KindAny {
			return fmt.Errorf("%s type has no name", t.Kind)
		}
	default:
		return fmt.Errorf("invalid type kind %s", t.Kind)
	}
	return nil
}

// alias returns the snake_case spelling of a field name accepted on input.
func alias(name string) string {
	return inflect.Underscore(name)
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
