package schema

import (
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/syssam/gqlbind"
	"github.com/syssam/gqlbind/scalar"
)

// ParseSources parses one or more schema sources as a single document.
// Malformed input, duplicate definitions and extensions of undefined types
// are reported as *gqlbind.SchemaParseError.
func ParseSources(sources ...*ast.Source) (*Schema, error) {
	if len(sources) == 0 {
		return nil, &gqlbind.SchemaParseError{Message: "no schema sources"}
	}
	doc, err := parser.ParseSchemas(sources...)
	if err != nil {
		return nil, fromParserError(err)
	}
	s := newSchema()
	if err := s.addRoots(doc); err != nil {
		return nil, err
	}
	for _, def := range doc.Definitions {
		if err := s.addDefinition(def); err != nil {
			return nil, err
		}
	}
	for _, ext := range doc.Extensions {
		if err := s.extend(ext); err != nil {
			return nil, err
		}
	}
	for name := range s.roots {
		if t, ok := s.defs[name]; ok {
			t.Root = true
		}
	}
	return s, nil
}

// addRoots records the root operation type names. Without a schema block the
// conventional names apply.
func (s *Schema) addRoots(doc *ast.SchemaDocument) error {
	var ops ast.OperationTypeDefinitionList
	for _, sd := range doc.Schema {
		ops = append(ops, sd.OperationTypes...)
	}
	for _, sd := range doc.SchemaExtension {
		ops = append(ops, sd.OperationTypes...)
	}
	if len(ops) == 0 {
		s.roots["Query"] = ast.Query
		s.roots["Mutation"] = ast.Mutation
		s.roots["Subscription"] = ast.Subscription
		return nil
	}
	seen := make(map[ast.Operation]string, len(ops))
	for _, op := range ops {
		if prev, ok := seen[op.Operation]; ok {
			return parseErrorf(op.Position, "%s root type defined twice (%s and %s)", op.Operation, prev, op.Type)
		}
		seen[op.Operation] = op.Type
		s.roots[op.Type] = op.Operation
	}
	return nil
}

func (s *Schema) addDefinition(def *ast.Definition) error {
	if _, ok := s.defs[def.Name]; ok {
		return parseErrorf(def.Position, "type %q redeclared", def.Name)
	}
	if def.Kind == ast.Scalar && scalar.IsBuiltin(def.Name) {
		// Redeclaring a builtin scalar is harmless.
		return nil
	}
	t := &TypeDef{
		Name:        def.Name,
		Kind:        Kind(def.Kind),
		Description: def.Description,
		Interfaces:  def.Interfaces,
		Members:     def.Types,
		Position:    def.Position,
		fields:      make(map[string]*FieldDef, len(def.Fields)),
	}
	if t.Kind == KindScalar {
		s.scalars[t.Name] = struct{}{}
	}
	for _, v := range def.EnumValues {
		t.Values = append(t.Values, v.Name)
	}
	for _, fd := range def.Fields {
		if err := t.addField(fd); err != nil {
			return err
		}
	}
	s.defs[t.Name] = t
	s.order = append(s.order, t.Name)
	return nil
}

func (s *Schema) extend(ext *ast.Definition) error {
	t, ok := s.defs[ext.Name]
	if !ok {
		if ext.Kind == ast.Scalar && scalar.IsBuiltin(ext.Name) {
			return nil
		}
		return parseErrorf(ext.Position, "cannot extend undefined type %q", ext.Name)
	}
	if Kind(ext.Kind) != t.Kind {
		return parseErrorf(ext.Position, "cannot extend %s %q as %s", t.Kind, ext.Name, ext.Kind)
	}
	for _, fd := range ext.Fields {
		if err := t.addField(fd); err != nil {
			return err
		}
	}
	for _, v := range ext.EnumValues {
		t.Values = append(t.Values, v.Name)
	}
	t.Members = append(t.Members, ext.Types...)
	t.Interfaces = append(t.Interfaces, ext.Interfaces...)
	return nil
}

func fromParserError(err error) error {
	pe := &gqlbind.SchemaParseError{Message: err.Error(), Err: err}
	var gerr *gqlerror.Error
	if errors.As(err, &gerr) {
		pe.Message = gerr.Message
		if len(gerr.Locations) > 0 {
			pe.Line = gerr.Locations[0].Line
			pe.Column = gerr.Locations[0].Column
		}
		if file, ok := gerr.Extensions["file"].(string); ok {
			pe.Source = file
		}
	}
	return pe
}

func parseErrorf(pos *ast.Position, format string, args ...any) error {
	pe := &gqlbind.SchemaParseError{Message: fmt.Sprintf(format, args...)}
	if pos != nil {
		pe.Line = pos.Line
		pe.Column = pos.Column
		if pos.Src != nil {
			pe.Source = pos.Src.Name
		}
	}
	return pe
}
