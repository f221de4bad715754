// Package gqlbind binds GraphQL object types declared in a schema document to
// runtime validation models.
//
// A model declaration names a schema type and optionally narrows or overrides
// its fields:
//
//	user := binder.Declare("User",
//	    binder.GQLType("User"),
//	    binder.Exclude("profile"),
//	    binder.Validate("username", validate.MinLength(4)),
//	)
//	book := binder.Declare("Book", binder.GQLType("Book"))
//
//	table, err := binder.BindAll(sdl, user, book)
//	if err != nil {
//	    log.Fatalf("binding models: %v", err)
//	}
//
// Binding resolves every field against the schema and the scalar registry in
// two passes, so mutually referencing types bind regardless of declaration
// order. All structural mistakes are reported by BindAll; the resulting
// table is immutable and safe for concurrent use.
//
// Values are checked against a bound model at request time:
//
//	m, _ := table.Lookup("User")
//	values, err := m.Validate(map[string]any{"username": "gazorby"})
//
// Validation failures are returned as a *ValidationError that lists every
// violated field.
//
// # Packages
//
//   - scalar: scalar name to native type registry
//   - schema: schema document introspection
//   - binder: type resolution, model binding and the binding table
//   - validate: reusable field validators
//   - config: YAML project files
//   - gen: Go struct generation for bound models
//   - watch: rebinding on file changes
//
// This package holds the error taxonomy shared by all of them.
package gqlbind
