package gqlbind

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every binding-time error matches ErrBinding in addition
// to its own sentinel, so callers can check for the whole class at once:
//
//	if errors.Is(err, gqlbind.ErrBinding) { ... }
var (
	// ErrBinding is matched by every error raised while binding models.
	ErrBinding = errors.New("gqlbind: binding failed")

	// ErrSchemaParse is returned when the schema document is malformed.
	ErrSchemaParse = errors.New("gqlbind: malformed schema")

	// ErrUnknownType is returned when a model or field names a type the
	// schema does not declare.
	ErrUnknownType = errors.New("gqlbind: unknown type")

	// ErrScalarNotRegistered is returned when a field references a scalar
	// with no registered native type.
	ErrScalarNotRegistered = errors.New("gqlbind: scalar not registered")

	// ErrFieldSelection is returned for invalid include/exclude options.
	ErrFieldSelection = errors.New("gqlbind: invalid field selection")

	// ErrFieldOverride is returned when an override or validator targets a
	// field that the bound model will not have.
	ErrFieldOverride = errors.New("gqlbind: invalid field override")

	// ErrBindingConflict is returned when two models claim the same type.
	ErrBindingConflict = errors.New("gqlbind: binding conflict")

	// ErrValidation is matched by request-time validation failures.
	ErrValidation = errors.New("gqlbind: validation failed")
)

// SchemaParseError represents a malformed schema document.
type SchemaParseError struct {
	Source  string // Source name, if known
	Line    int    // 1-based line, 0 if unknown
	Column  int    // 1-based column, 0 if unknown
	Message string
	Err     error
}

// Error returns the error string.
func (e *SchemaParseError) Error() string {
	var b strings.Builder
	b.WriteString("gqlbind: schema parse error")
	if e.Source != "" {
		b.WriteString(" in ")
		b.WriteString(e.Source)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " at %d:%d", e.Line, e.Column)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaParseError) Unwrap() error {
	return e.Err
}

// Is reports whether the target matches ErrSchemaParse or ErrBinding.
func (e *SchemaParseError) Is(target error) bool {
	return target == ErrSchemaParse || target == ErrBinding
}

// IsSchemaParseError returns true if the error is a SchemaParseError.
func IsSchemaParseError(err error) bool {
	var e *SchemaParseError
	return errors.As(err, &e)
}

// UnknownTypeError is returned when a model declares a gql_type absent from
// the schema, or a field references a type that is neither a scalar nor a
// declared type.
type UnknownTypeError struct {
	Model    string // Declaring model
	Field    string // Field name (empty for the model's own gql_type)
	TypeName string // The name that could not be found
	Reason   string // Optional detail
}

// Error returns the error string.
func (e *UnknownTypeError) Error() string {
	var b strings.Builder
	b.WriteString("gqlbind: ")
	if e.Model != "" {
		fmt.Fprintf(&b, "model %q", e.Model)
		if e.Field != "" {
			fmt.Fprintf(&b, " field %q", e.Field)
		}
		b.WriteString(": ")
	}
	if e.TypeName == "" {
		b.WriteString("missing gql_type")
	} else {
		fmt.Fprintf(&b, "unknown type %q", e.TypeName)
	}
	if e.Reason != "" {
		b.WriteString(" (")
		b.WriteString(e.Reason)
		b.WriteString(")")
	}
	return b.String()
}

// Is reports whether the target matches ErrUnknownType or ErrBinding.
func (e *UnknownTypeError) Is(target error) bool {
	return target == ErrUnknownType || target == ErrBinding
}

// IsUnknownTypeError returns true if the error is an UnknownTypeError.
func IsUnknownTypeError(err error) bool {
	var e *UnknownTypeError
	return errors.As(err, &e)
}

// ScalarNotRegisteredError is returned when a scalar name has no native type.
type ScalarNotRegisteredError struct {
	Scalar string
	Model  string
	Field  string
}

// Error returns the error string.
func (e *ScalarNotRegisteredError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("gqlbind: model %q field %q: scalar %q is not registered", e.Model, e.Field, e.Scalar)
	}
	return fmt.Sprintf("gqlbind: scalar %q is not registered", e.Scalar)
}

// Is reports whether the target matches ErrScalarNotRegistered or ErrBinding.
func (e *ScalarNotRegisteredError) Is(target error) bool {
	return target == ErrScalarNotRegistered || target == ErrBinding
}

// IsScalarNotRegistered returns true if the error is a ScalarNotRegisteredError.
func IsScalarNotRegistered(err error) bool {
	var e *ScalarNotRegisteredError
	return errors.As(err, &e)
}

// FieldSelectionError is returned when include and exclude are both given,
// or when either names a field the type does not declare.
type FieldSelectionError struct {
	Model   string
	GQLType string
	Fields  []string // Offending field names, if any
	Message string
}

// Error returns the error string.
func (e *FieldSelectionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "gqlbind: model %q", e.Model)
	if e.GQLType != "" {
		fmt.Fprintf(&b, " (type %s)", e.GQLType)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Fields) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Fields, ", "))
	}
	return b.String()
}

// Is reports whether the target matches ErrFieldSelection or ErrBinding.
func (e *FieldSelectionError) Is(target error) bool {
	return target == ErrFieldSelection || target == ErrBinding
}

// IsFieldSelectionError returns true if the error is a FieldSelectionError.
func IsFieldSelectionError(err error) bool {
	var e *FieldSelectionError
	return errors.As(err, &e)
}

// FieldOverrideError is returned when a type override or a validator targets
// a field outside the resolved field set.
type FieldOverrideError struct {
	Model   string
	Field   string
	Kind    string // "override" or "validator"
	Message string
}

// Error returns the error string.
func (e *FieldOverrideError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = "override"
	}
	msg := e.Message
	if msg == "" {
		msg = "field is not part of the bound model"
	}
	return fmt.Sprintf("gqlbind: model %q: %s for field %q: %s", e.Model, kind, e.Field, msg)
}

// Is reports whether the target matches ErrFieldOverride or ErrBinding.
func (e *FieldOverrideError) Is(target error) bool {
	return target == ErrFieldOverride || target == ErrBinding
}

// IsFieldOverrideError returns true if the error is a FieldOverrideError.
func IsFieldOverrideError(err error) bool {
	var e *FieldOverrideError
	return errors.As(err, &e)
}

// BindingConflictError is returned when more than one model claims a type,
// or when one model name is declared more than once.
type BindingConflictError struct {
	GQLType string
	Models  []string
	// Types is set for a repeated model name: the types its declarations bind.
	Types []string
}

// Error returns the error string.
func (e *BindingConflictError) Error() string {
	if len(e.Types) > 0 {
		return fmt.Sprintf("gqlbind: model %q is declared more than once: %s", e.Models[0], strings.Join(e.Types, ", "))
	}
	return fmt.Sprintf("gqlbind: type %q is claimed by more than one model: %s", e.GQLType, strings.Join(e.Models, ", "))
}

// Is reports whether the target matches ErrBindingConflict or ErrBinding.
func (e *BindingConflictError) Is(target error) bool {
	return target == ErrBindingConflict || target == ErrBinding
}

// IsBindingConflict returns true if the error is a BindingConflictError.
func IsBindingConflict(err error) bool {
	var e *BindingConflictError
	return errors.As(err, &e)
}

// Violation is a single rejected field inside a ValidationError.
type Violation struct {
	Path    string // Dotted path, e.g. "hasBorrowed.0.title"
	Message string
}

// String returns "path: message".
func (v Violation) String() string {
	if v.Path == "" {
		return v.Message
	}
	return v.Path + ": " + v.Message
}

// ValidationError is raised when a value does not satisfy a bound model.
// It lists every violated field, not only the first one.
type ValidationError struct {
	Model      string
	Violations []Violation
}

// Error returns the error string.
func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("gqlbind: validation failed for %s: %s", e.Model, e.Violations[0])
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "gqlbind: %d validation errors for %s:", len(e.Violations), e.Model)
	for i, v := range e.Violations {
		fmt.Fprintf(&sb, "\n  [%d] %s", i+1, v)
	}
	return sb.String()
}

// Is reports whether the target matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Fields returns the distinct paths that failed, in report order.
func (e *ValidationError) Fields() []string {
	seen := make(map[string]struct{}, len(e.Violations))
	out := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if _, ok := seen[v.Path]; ok {
			continue
		}
		seen[v.Path] = struct{}{}
		out = append(out, v.Path)
	}
	return out
}

// NewValidationError returns a ValidationError if there are violations,
// otherwise nil.
func NewValidationError(model string, violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Model: model, Violations: violations}
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ValidationError
	return errors.As(err, &e)
}
