package binder

// Config is the per-model configuration block.
type Config struct {
	// GQLType is the schema type the model binds to. Required.
	GQLType string
	// Include restricts the model to the listed fields.
	// Mutually exclusive with Exclude.
	Include []string
	// Exclude removes the listed fields from the model.
	// Mutually exclusive with Include.
	Exclude []string
	// Fields replaces the resolved type of the named fields.
	Fields map[string]*Type
}

// FieldValidator attaches a validator to a field of a model.
type FieldValidator struct {
	Field string
	Func  ValidatorFunc
}

// Model is a model declaration: a named configuration block plus the field
// validators declared with it.
type Model struct {
	// Name identifies the declaration. Defaults to Config.GQLType.
	Name       string
	Config     Config
	Validators []FieldValidator
}

// ModelOption configures a Model built by Declare.
type ModelOption func(*Model)

// Declare returns a model declaration named name.
//
//	binder.Declare("User",
//	    binder.GQLType("User"),
//	    binder.Include("username", "favBook"),
//	    binder.Validate("username", validate.MinLength(4)),
//	)
func Declare(name string, opts ...ModelOption) *Model {
	m := &Model{Name: name}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GQLType sets the schema type the model binds to.
func GQLType(name string) ModelOption {
	return func(m *Model) {
		m.Config.GQLType = name
	}
}

// Include restricts the model to the given fields. Without arguments the
// model has no fields.
func Include(fields ...string) ModelOption {
	return func(m *Model) {
		if m.Config.Include == nil {
			m.Config.Include = []string{}
		}
		m.Config.Include = append(m.Config.Include, fields...)
	}
}

// Exclude removes the given fields from the model.
func Exclude(fields ...string) ModelOption {
	return func(m *Model) {
		if m.Config.Exclude == nil {
			m.Config.Exclude = []string{}
		}
		m.Config.Exclude = append(m.Config.Exclude, fields...)
	}
}

// Override replaces the resolved type of field with t.
func Override(field string, t *Type) ModelOption {
	return func(m *Model) {
		if m.Config.Fields == nil {
			m.Config.Fields = make(map[string]*Type)
		}
		m.Config.Fields[field] = t
	}
}

// Validate attaches validators to field. They run in the given order.
func Validate(field string, fns ...ValidatorFunc) ModelOption {
	return func(m *Model) {
		for _, fn := range fns {
			m.Validators = append(m.Validators, FieldValidator{Field: field, Func: fn})
		}
	}
}

// DeclName returns the declaration name, falling back to the gql type.
func (m *Model) DeclName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.Config.GQLType
}
