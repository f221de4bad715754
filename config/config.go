// Package config loads gqlbind project files.
//
// A project file lists the schema documents and the model declarations to
// bind against them:
//
//	schema:
//	  - graph/*.graphql
//	scalars:
//	  Timestamp: DateTime
//	models:
//	  User:
//	    gql_type: User
//	    exclude: [profile]
//	    fields:
//	      id: UUID!
//	    validators:
//	      username: [trim, min_length(4)]
//	output:
//	  dir: models
//	  package: models
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// DefaultFilename is the project file looked up when none is given.
const DefaultFilename = "gqlbind.yml"

// File is a parsed project file.
type File struct {
	// Schema lists schema files or glob patterns, relative to the file.
	Schema StringList `yaml:"schema"`

	// Scalars maps custom scalar names to the registered scalar whose
	// native type they share.
	Scalars map[string]string `yaml:"scalars,omitempty"`

	// Models maps declaration names to their configuration.
	Models map[string]Model `yaml:"models"`

	// Output configures struct generation.
	Output Output `yaml:"output,omitempty"`

	path string
}

// Model is the configuration block of one model declaration.
type Model struct {
	// GQLType is the schema type to bind. Required.
	GQLType string `yaml:"gql_type"`

	// Include restricts the model to the listed fields.
	Include StringList `yaml:"include,omitempty"`

	// Exclude removes the listed fields.
	Exclude StringList `yaml:"exclude,omitempty"`

	// Fields overrides field types, written in GraphQL notation.
	Fields map[string]string `yaml:"fields,omitempty"`

	// Validators lists validators per field, e.g. "min_length(4)".
	Validators map[string]StringList `yaml:"validators,omitempty"`
}

// Output configures generated code.
type Output struct {
	// Dir receives the generated files, relative to the project file.
	Dir string `yaml:"dir,omitempty"`

	// Package is the Go package name of the generated files.
	Package string `yaml:"package,omitempty"`
}

// StringList is a YAML value that is either a string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler for StringList.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		list := []string{}
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list of strings", node.Line)
	}
}

// Load reads, expands and checks the project file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	f.path = abs
	return f, nil
}

// Parse parses project file contents. Environment variables are expanded
// before parsing. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	data = []byte(os.ExpandEnv(string(data)))

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	setDefaults(&f)
	if err := check(&f); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &f, nil
}

// Save writes f to path as YAML.
func (f *File) Save(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Path returns the absolute path the file was loaded from, if any.
func (f *File) Path() string {
	return f.path
}

// Dir returns the directory relative paths are resolved against.
func (f *File) Dir() string {
	if f.path == "" {
		return "."
	}
	return filepath.Dir(f.path)
}

// SchemaPatterns returns the schema patterns resolved against Dir.
func (f *File) SchemaPatterns() []string {
	patterns := make([]string, len(f.Schema))
	for i, p := range f.Schema {
		patterns[i] = f.resolve(p)
	}
	return patterns
}

// OutputDir returns the output directory resolved against Dir.
func (f *File) OutputDir() string {
	return f.resolve(f.Output.Dir)
}

// ModelNames returns the declaration names, sorted.
func (f *File) ModelNames() []string {
	names := make([]string, 0, len(f.Models))
	for name := range f.Models {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (f *File) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(f.Dir(), p)
}

// Example returns a starter project file.
func Example() *File {
	return &File{
		Schema: StringList{"schema.graphql"},
		Models: map[string]Model{
			"User": {
				GQLType:    "User",
				Validators: map[string]StringList{"username": {"min_length(4)"}},
			},
		},
		Output: Output{Dir: "models", Package: "models"},
	}
}

func setDefaults(f *File) {
	if len(f.Schema) == 0 {
		f.Schema = StringList{"schema.graphql"}
	}
	if f.Output.Dir == "" {
		f.Output.Dir = "models"
	}
	if f.Output.Package == "" {
		f.Output.Package = filepath.Base(f.Output.Dir)
	}
}

func check(f *File) error {
	for _, name := range f.ModelNames() {
		m := f.Models[name]
		if m.GQLType == "" {
			return fmt.Errorf("model %q: gql_type is required", name)
		}
	}
	for name, target := range f.Scalars {
		if name == "" || target == "" {
			return fmt.Errorf("scalar alias %q: name and target are required", name)
		}
	}
	return nil
}
