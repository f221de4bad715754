package binder

import (
	"fmt"
	"slices"

	"github.com/syssam/gqlbind"
	"github.com/syssam/gqlbind/schema"
)

// Field is a field of a bound model.
type Field struct {
	// Name is the GraphQL field name.
	Name string
	// Alias is the snake_case spelling also accepted on input. Empty if it
	// equals Name or collides with another field.
	Alias string
	// Type is the resolved or overridden type.
	Type *Type
	// Overridden is set when Type comes from the model configuration.
	Overridden bool
	// Def is the schema definition of the field.
	Def *schema.FieldDef

	validators []ValidatorFunc
}

// Validators returns the validators attached to the field, in run order.
func (f *Field) Validators() []ValidatorFunc {
	return slices.Clone(f.validators)
}

// BoundModel is a model declaration resolved against a schema. A bound model
// and everything reachable from it is read-only.
type BoundModel struct {
	// Name is the declaration name.
	Name string
	// GQLType is the schema type the model binds to.
	GQLType string
	// Kind of the schema type.
	Kind schema.Kind
	// Implicit is set for models bound only because another model
	// references their type.
	Implicit bool
	// Description of the schema type.
	Description string

	fields  []*Field
	index   map[string]*Field
	metrics *Metrics
}

func (m *BoundModel) add(f *Field) {
	m.fields = append(m.fields, f)
	m.index[f.Name] = f
}

// setAliases derives input aliases after all fields are known.
func (m *BoundModel) setAliases() {
	for _, f := range m.fields {
		a := alias(f.Name)
		if a == "" || a == f.Name {
			continue
		}
		if _, taken := m.index[a]; taken {
			continue
		}
		f.Alias = a
		m.index[a] = f
	}
}

// Fields returns the fields in schema declaration order.
func (m *BoundModel) Fields() []*Field {
	return slices.Clone(m.fields)
}

// FieldNames returns the field names in schema declaration order.
func (m *BoundModel) FieldNames() []string {
	names := make([]string, len(m.fields))
	for i, f := range m.fields {
		names[i] = f.Name
	}
	return names
}

// Field returns the field with the given name or alias.
func (m *BoundModel) Field(name string) (*Field, bool) {
	f, ok := m.index[name]
	return f, ok
}

// Validators returns the validators of the named field.
func (m *BoundModel) Validators(field string) []ValidatorFunc {
	if f, ok := m.index[field]; ok {
		return f.Validators()
	}
	return nil
}

// String returns the declaration name and the bound type.
func (m *BoundModel) String() string {
	return fmt.Sprintf("%s(%s)", m.Name, m.GQLType)
}

// Table is the immutable result of a binding pass: one bound model per
// schema type, keyed by type name.
type Table struct {
	models map[string]*BoundModel
	names  []string
}

func newTable(models map[string]*BoundModel) *Table {
	return &Table{models: models, names: sortedKeys(models)}
}

// Lookup returns the model bound to gqlType.
func (t *Table) Lookup(gqlType string) (*BoundModel, bool) {
	m, ok := t.models[gqlType]
	return m, ok
}

// Names returns the bound type names, sorted.
func (t *Table) Names() []string {
	return slices.Clone(t.names)
}

// Models returns every bound model sorted by type name.
func (t *Table) Models() []*BoundModel {
	models := make([]*BoundModel, len(t.names))
	for i, name := range t.names {
		models[i] = t.models[name]
	}
	return models
}

// Declared returns the explicitly declared models sorted by type name.
func (t *Table) Declared() []*BoundModel {
	return slices.DeleteFunc(t.Models(), func(m *BoundModel) bool {
		return m.Implicit
	})
}

// Len returns the number of bound models.
func (t *Table) Len() int {
	return len(t.names)
}

// Validate validates input against the model bound to gqlType.
func (t *Table) Validate(gqlType string, input map[string]any) (map[string]any, error) {
	m, ok := t.models[gqlType]
	if !ok {
		return nil, fmt.Errorf("%w: no model bound to %q", gqlbind.ErrUnknownType, gqlType)
	}
	return m.Validate(input)
}

// Equal reports whether both tables bind the same types with the same field
// sets and types.
func (t *Table) Equal(o *Table) bool {
	if !slices.Equal(t.names, o.names) {
		return false
	}
	for _, name := range t.names {
		a, b := t.models[name], o.models[name]
		if a.Name != b.Name || a.Implicit != b.Implicit || len(a.fields) != len(b.fields) {
			return false
		}
		for i, f := range a.fields {
			g := b.fields[i]
			if f.Name != g.Name || f.Alias != g.Alias || !f.Type.Equal(g.Type) || len(f.validators) != len(g.validators) {
				return false
			}
		}
	}
	return true
}
