package binder

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/syssam/gqlbind"
)

// Validate checks input against the model and returns the accepted values
// keyed by GraphQL field name. Keys may use the field name or its snake_case
// alias; unknown keys are ignored. Every violation is collected into a
// single *gqlbind.ValidationError.
func (m *BoundModel) Validate(input map[string]any) (map[string]any, error) {
	v := &validation{active: make(map[uintptr]struct{})}
	if id := identity(input); id != 0 {
		v.active[id] = struct{}{}
	}
	out := v.object(m, input, "")
	err := gqlbind.NewValidationError(m.Name, v.violations)
	m.metrics.observeValidation(m.GQLType, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Decode validates input and decodes the accepted values into out, a pointer
// to a struct or map. Struct fields are matched by their json tag.
func (m *BoundModel) Decode(input map[string]any, out any) error {
	values, err := m.Validate(input)
	if err != nil {
		return err
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: false,
		Squash:           true,
	})
	if err != nil {
		return fmt.Errorf("gqlbind: decode %s: %w", m.Name, err)
	}
	if err := dec.Decode(values); err != nil {
		return fmt.Errorf("gqlbind: decode %s: %w", m.Name, err)
	}
	return nil
}

type validation struct {
	violations []gqlbind.Violation
	// active holds the maps and pointers on the current path.
	active map[uintptr]struct{}
}

func (v *validation) add(path, format string, args ...any) {
	v.violations = append(v.violations, gqlbind.Violation{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (v *validation) object(m *BoundModel, input map[string]any, path string) map[string]any {
	out := make(map[string]any, len(m.fields))
	for _, f := range m.fields {
		p := join(path, f.Name)
		raw, present := lookup(input, f)
		if raw == nil {
			switch {
			case f.Type.Nullable:
				out[f.Name] = nil
			case present:
				v.add(p, "none is not an allowed value")
			default:
				v.add(p, "field required")
			}
			continue
		}
		val, ok := v.value(f.Type, raw, p)
		if !ok {
			continue
		}
		if val, ok = v.run(f.validators, val, p); ok {
			out[f.Name] = val
		}
	}
	return out
}

func (v *validation) run(fns []ValidatorFunc, val any, path string) (any, bool) {
	for _, fn := range fns {
		next, err := fn(val)
		if err != nil {
			v.add(path, "%s", err.Error())
			return nil, false
		}
		val = next
	}
	return val, true
}

// value coerces a non-nil raw value to t.
func (v *validation) value(t *Type, raw any, path string) (any, bool) {
	if raw == nil {
		if t.Nullable {
			return nil, true
		}
		v.add(path, "none is not an allowed value")
		return nil, false
	}
	switch t.Kind {
	case KindScalar:
		val, err := t.Scalar.Convert(raw)
		if err != nil {
			v.add(path, "%s", err.Error())
			return nil, false
		}
		return val, true
	case KindEnum:
		s, ok := enumValue(raw)
		if !ok || !slices.Contains(t.Values, s) {
			v.add(path, "value is not a valid enumeration member; permitted: %s", quoteAll(t.Values))
			return nil, false
		}
		return s, true
	case KindObject:
		obj, ok := asMap(raw)
		if !ok {
			v.add(path, "value is not a valid dict")
			return nil, false
		}
		if t.model == nil {
			v.add(path, "type %s is not bound", t.Name)
			return nil, false
		}
		if id := identity(raw); id != 0 {
			if _, ok := v.active[id]; ok {
				v.add(path, "recursive value")
				return nil, false
			}
			v.active[id] = struct{}{}
			defer delete(v.active, id)
		}
		n := len(v.violations)
		out := v.object(t.model, obj, path)
		return out, len(v.violations) == n
	case KindAny:
		obj, ok := asMap(raw)
		if !ok {
			v.add(path, "value is not a valid dict")
			return nil, false
		}
		return obj, true
	case KindList:
		items, ok := asSlice(raw)
		if !ok {
			v.add(path, "value is not a valid list")
			return nil, false
		}
		out := make([]any, len(items))
		valid := true
		for i, item := range items {
			val, ok := v.value(t.Elem, item, join(path, strconv.Itoa(i)))
			valid = valid && ok
			out[i] = val
		}
		return out, valid
	default:
		v.add(path, "unsupported type %s", t)
		return nil, false
	}
}

func lookup(input map[string]any, f *Field) (any, bool) {
	if v, ok := input[f.Name]; ok {
		return v, true
	}
	if f.Alias != "" {
		v, ok := input[f.Alias]
		return v, ok
	}
	return nil, false
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func enumValue(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}

// asMap accepts string-keyed maps and structs. Struct fields are keyed by
// their json tag; nested values are left for the caller to convert.
func asMap(raw any) (map[string]any, bool) {
	if m, ok := raw.(map[string]any); ok {
		return m, true
	}
	rv := reflect.Indirect(reflect.ValueOf(raw))
	switch {
	case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return m, true
	case rv.Kind() == reflect.Struct:
		m := make(map[string]any, rv.NumField())
		structFields(rv, m)
		return m, true
	}
	return nil, false
}

// structFields copies the exported fields of rv into m. Untagged embedded
// structs are flattened.
func structFields(rv reflect.Value, m map[string]any) {
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		fv := rv.Field(i)
		if sf.Anonymous && name == "" && fv.Kind() == reflect.Struct {
			structFields(fv, m)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		m[name] = fv.Interface()
	}
}

// identity returns the address of a map or pointer value, or zero.
func identity(raw any) uintptr {
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Map, reflect.Pointer:
		if !rv.IsNil() {
			return rv.Pointer()
		}
	}
	return 0
}

func asSlice(raw any) ([]any, bool) {
	if s, ok := raw.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}
