package binder

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// JSONSchema returns a JSON Schema (draft 7) document describing the values
// accepted by Validate. Referenced models are emitted under "definitions".
func (m *BoundModel) JSONSchema() map[string]any {
	defs := map[string]any{}
	doc := m.objectSchema(defs, cases.Title(language.English))
	if len(defs) > 0 {
		doc["definitions"] = defs
	}
	return doc
}

func (m *BoundModel) objectSchema(defs map[string]any, title cases.Caser) map[string]any {
	props := make(map[string]any, len(m.fields))
	var required []string
	for _, f := range m.fields {
		p := typeSchema(f.Type, defs, title)
		p["title"] = title.String(strings.ReplaceAll(f.Name, "_", " "))
		if f.Def != nil && f.Def.Description != "" {
			p["description"] = f.Def.Description
		}
		if f.Def != nil && f.Def.Deprecated != nil {
			p["deprecated"] = true
		}
		props[f.Name] = p
		if !f.Type.Nullable {
			required = append(required, f.Name)
		}
	}
	doc := map[string]any{
		"title":      m.Name,
		"type":       "object",
		"properties": props,
	}
	if m.Description != "" {
		doc["description"] = m.Description
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func typeSchema(t *Type, defs map[string]any, title cases.Caser) map[string]any {
	switch t.Kind {
	case KindScalar:
		return t.Scalar.Schema()
	case KindEnum:
		values := make([]any, len(t.Values))
		for i, v := range t.Values {
			values[i] = v
		}
		return map[string]any{"enum": values}
	case KindList:
		return map[string]any{"type": "array", "items": typeSchema(t.Elem, defs, title)}
	case KindObject:
		if _, ok := defs[t.Name]; !ok && t.model != nil {
			// Reserve the slot first so self references terminate.
			defs[t.Name] = map[string]any{}
			defs[t.Name] = t.model.objectSchema(defs, title)
		}
		return map[string]any{"$ref": "#/definitions/" + t.Name}
	default:
		return map[string]any{"type": "object"}
	}
}
