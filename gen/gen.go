// Package gen generates Go structs for bound models.
//
// Every model of a binding table becomes a struct with one field per bound
// field, tagged with the GraphQL field name so values accepted by
// BoundModel.Validate decode into it. Enums referenced by the models become
// string types with one constant per value.
package gen

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"slices"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/gqlbind/binder"
)

// Header is written at the top of every generated file.
const Header = "Code generated by gqlbind. DO NOT EDIT."

// Generator writes one file per bound model into an output directory.
type Generator struct {
	table   *binder.Table
	outDir  string
	pkg     string
	workers int
	log     *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithPackage sets the package name of the generated files. Defaults to the
// base name of the output directory.
func WithPackage(name string) Option {
	return func(g *Generator) {
		g.pkg = name
	}
}

// WithWorkers limits the number of files rendered concurrently.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		g.log = l
	}
}

// New returns a generator for table writing into outDir.
func New(table *binder.Table, outDir string, opts ...Option) *Generator {
	g := &Generator{
		table:   table,
		outDir:  outDir,
		pkg:     filepath.Base(outDir),
		workers: runtime.GOMAXPROCS(0),
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders all files in parallel and writes them to the output
// directory.
func (g *Generator) Generate(ctx context.Context) error {
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return err
	}
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)

	for _, m := range g.table.Models() {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return g.writeFile(g.ModelFile(m), FileName(m))
		})
	}
	if enums := g.enums(); len(enums) > 0 {
		errg.Go(func() error {
			return g.writeFile(g.EnumFile(enums), "enums.go")
		})
	}
	if err := errg.Wait(); err != nil {
		return fmt.Errorf("gen: %w", err)
	}
	g.log.Info("models generated", slog.String("dir", g.outDir), slog.Int("models", g.table.Len()))
	return nil
}

// ModelFile renders the struct of m.
func (g *Generator) ModelFile(m *binder.BoundModel) *jen.File {
	f := g.newFile()
	name := StructName(m)

	fields := make([]jen.Code, 0, len(m.Fields()))
	for _, bf := range m.Fields() {
		code := jen.Id(FieldName(bf.Name)).Add(goType(bf.Type)).Tag(map[string]string{"json": jsonTag(bf)})
		if bf.Def != nil && bf.Def.Deprecated != nil {
			fields = append(fields, jen.Comment("Deprecated: "+*bf.Def.Deprecated))
		} else if bf.Def != nil && bf.Def.Description != "" {
			fields = append(fields, jen.Comment(oneLine(bf.Def.Description)))
		}
		fields = append(fields, code)
	}

	doc := fmt.Sprintf("%s is bound to the GraphQL %s type %s.", name, strings.ToLower(string(m.Kind)), m.GQLType)
	if m.Description != "" {
		doc += "\n" + m.Description
	}
	f.Comment(doc)
	f.Type().Id(name).Struct(fields...)
	f.Line()
	f.Comment("GQLType returns the name of the bound GraphQL type.")
	f.Func().Params(jen.Id(name)).Id("GQLType").Params().String().Block(
		jen.Return(jen.Lit(m.GQLType)),
	)
	return f
}

// EnumFile renders the enum types referenced by the models.
func (g *Generator) EnumFile(enums []*binder.Type) *jen.File {
	f := g.newFile()
	for _, e := range enums {
		name := typeName(e.Name)
		f.Comment(fmt.Sprintf("%s is the GraphQL enum %s.", name, e.Name))
		f.Type().Id(name).String()
		f.Line()
		consts := make([]jen.Code, len(e.Values))
		for i, v := range e.Values {
			consts[i] = jen.Id(name + typeName(strings.ToLower(v))).Id(name).Op("=").Lit(v)
		}
		f.Const().Defs(consts...)
		f.Line()
	}
	return f
}

// enums returns the enum types referenced by the table, sorted by name.
func (g *Generator) enums() []*binder.Type {
	seen := map[string]*binder.Type{}
	for _, m := range g.table.Models() {
		for _, f := range m.Fields() {
			t := f.Type
			for t.Kind == binder.KindList {
				t = t.Elem
			}
			if t.Kind == binder.KindEnum {
				seen[t.Name] = t
			}
		}
	}
	enums := make([]*binder.Type, 0, len(seen))
	for _, t := range seen {
		enums = append(enums, t)
	}
	slices.SortFunc(enums, func(a, b *binder.Type) int {
		return strings.Compare(a.Name, b.Name)
	})
	return enums
}

// writeFile writes a jennifer file to the output directory.
func (g *Generator) writeFile(f *jen.File, filename string) error {
	path := filepath.Join(g.outDir, filename)
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := f.Render(out); err != nil {
		return fmt.Errorf("render %s: %w", filename, err)
	}
	g.log.Debug("file written", slog.String("path", path))
	return nil
}

func (g *Generator) newFile() *jen.File {
	f := jen.NewFile(g.pkg)
	f.HeaderComment(Header)
	return f
}

// goType returns the Go type of a bound field type. Nullable scalars and
// enums are pointers unless already nillable, objects are always pointers
// and lists are slices.
func goType(t *binder.Type) jen.Code {
	switch t.Kind {
	case binder.KindList:
		return jen.Index().Add(goType(t.Elem))
	case binder.KindObject:
		name := typeName(t.Name)
		if m := t.Model(); m != nil {
			name = StructName(m)
		}
		return jen.Op("*").Id(name)
	case binder.KindEnum:
		return nullable(t, jen.Id(typeName(t.Name)))
	case binder.KindScalar:
		if t.Scalar.GoType == nil {
			return jen.Any()
		}
		switch t.Scalar.GoType.Kind() {
		case reflect.Map, reflect.Slice, reflect.Interface:
			return reflectType(t.Scalar.GoType)
		}
		return nullable(t, reflectType(t.Scalar.GoType))
	default:
		return jen.Map(jen.String()).Any()
	}
}

func nullable(t *binder.Type, code jen.Code) jen.Code {
	if t.Nullable {
		return jen.Op("*").Add(code)
	}
	return code
}

// reflectType converts a native scalar type to jennifer code.
func reflectType(t reflect.Type) jen.Code {
	if t.Name() != "" {
		if t.PkgPath() == "" {
			return jen.Id(t.Name())
		}
		return jen.Qual(t.PkgPath(), t.Name())
	}
	switch t.Kind() {
	case reflect.Pointer:
		return jen.Op("*").Add(reflectType(t.Elem()))
	case reflect.Slice:
		return jen.Index().Add(reflectType(t.Elem()))
	case reflect.Array:
		return jen.Index(jen.Lit(t.Len())).Add(reflectType(t.Elem()))
	case reflect.Map:
		return jen.Map(reflectType(t.Key())).Add(reflectType(t.Elem()))
	case reflect.Interface:
		return jen.Any()
	default:
		return jen.Id(t.String())
	}
}

func jsonTag(f *binder.Field) string {
	if f.Type.Nullable {
		return f.Name + ",omitempty"
	}
	return f.Name
}

// StructName returns the Go struct name of m.
func StructName(m *binder.BoundModel) string {
	return typeName(m.Name)
}

// FileName returns the file the struct of m is written to.
func FileName(m *binder.BoundModel) string {
	return inflect.Underscore(StructName(m)) + ".go"
}

// FieldName returns the exported Go name of a GraphQL field.
func FieldName(name string) string {
	return typeName(name)
}

var initialisms = []string{"ID", "URL", "UUID", "JSON", "API", "HTTP"}

func typeName(name string) string {
	s := inflect.Camelize(name)
	for _, in := range initialisms {
		title := in[:1] + strings.ToLower(in[1:])
		switch {
		case s == title:
			return in
		case strings.HasSuffix(s, title):
			return strings.TrimSuffix(s, title) + in
		}
	}
	return s
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
