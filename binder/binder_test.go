package binder_test

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/gqlbind"
	"github.com/syssam/gqlbind/binder"
	"github.com/syssam/gqlbind/scalar"
	"github.com/syssam/gqlbind/schema"
	"github.com/syssam/gqlbind/validate"
)

const library = `
scalar Date
scalar DateTime
scalar JSON

type Query {
  _: Boolean
}

type Mutation {
  _: Boolean
}

type GraphQLTypes {
    int: Int!
    float: Float
    string: String
    bool: Boolean
    id: ID
}

type Book {
    id: ID
    title: String!
    author: String
    borrowings: Int
}

type User {
    username: String
    isStaff: Boolean
    hasBorrowed: [Book]
    favBook: Book
    dateJoined: DateTime
    profile: JSON
}

type Foo {
    json: JSON
}
`

func parse(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.Parse(library)
	require.NoError(t, err)
	return s
}

func bindAll(t *testing.T, models ...*binder.Model) (*binder.Table, error) {
	t.Helper()
	c := binder.NewCoordinator(binder.WithScalars(scalar.NewDefaultRegistry()))
	return c.BindSchema(parse(t), models...)
}

func mustBind(t *testing.T, models ...*binder.Model) *binder.Table {
	t.Helper()
	table, err := bindAll(t, models...)
	require.NoError(t, err)
	return table
}

func lookup(t *testing.T, table *binder.Table, gqlType string) *binder.BoundModel {
	t.Helper()
	m, ok := table.Lookup(gqlType)
	require.True(t, ok, gqlType)
	return m
}

func TestGraphQLTypes(t *testing.T) {
	table := mustBind(t, binder.Declare("GraphQLTypes", binder.GQLType("GraphQLTypes")))
	m := lookup(t, table, "GraphQLTypes")

	doc := m.JSONSchema()
	assert.Equal(t, map[string]any{
		"title": "GraphQLTypes",
		"type":  "object",
		"properties": map[string]any{
			"int":    map[string]any{"title": "Int", "type": "integer"},
			"float":  map[string]any{"title": "Float", "type": "number"},
			"string": map[string]any{"title": "String", "type": "string"},
			"bool":   map[string]any{"title": "Bool", "type": "boolean"},
			"id": map[string]any{
				"title": "Id",
				"anyOf": []any{map[string]any{"type": "integer"}, map[string]any{"type": "string"}},
			},
		},
		"required": []string{"int"},
	}, doc)

	values, err := m.Validate(map[string]any{"int": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"int": 1, "float": nil, "string": nil, "bool": nil, "id": nil}, values)

	_, err = m.Validate(map[string]any{})
	var verr *gqlbind.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"int"}, verr.Fields())
	assert.Equal(t, "field required", verr.Violations[0].Message)

	_, err = m.Validate(map[string]any{"int": nil})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "none is not an allowed value", verr.Violations[0].Message)
}

func TestReferencing(t *testing.T) {
	table := mustBind(t,
		binder.Declare("Book", binder.GQLType("Book")),
		binder.Declare("User", binder.GQLType("User")),
	)
	user := lookup(t, table, "User")
	book := map[string]any{"title": "random"}

	values, err := user.Validate(map[string]any{"has_borrowed": []any{book}, "favBook": book})
	require.NoError(t, err)
	borrowed := values["hasBorrowed"].([]any)
	require.Len(t, borrowed, 1)
	assert.Equal(t, "random", borrowed[0].(map[string]any)["title"])
	assert.Equal(t, "random", values["favBook"].(map[string]any)["title"])

	_, err = user.Validate(map[string]any{"has_borrowed": book, "favBook": []any{book}})
	assert.True(t, gqlbind.IsValidationError(err))

	_, err = user.Validate(map[string]any{"has_borrowed": 1, "favBook": 1})
	var verr *gqlbind.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"hasBorrowed", "favBook"}, verr.Fields())

	t.Run("Linked", func(t *testing.T) {
		f, ok := user.Field("favBook")
		require.True(t, ok)
		assert.Same(t, lookup(t, table, "Book"), f.Type.Model())
		f, _ = user.Field("hasBorrowed")
		assert.Equal(t, "[Book]", f.Type.String())
		assert.Same(t, lookup(t, table, "Book"), f.Type.Elem.Model())
	})
}

func TestReferencingErrors(t *testing.T) {
	tests := []struct {
		name        string
		hasBorrowed any
		favBook     any
		paths       []string
	}{
		{
			name:        "WrongShapes",
			hasBorrowed: map[string]any{"book": map[string]any{"title": "random"}},
			favBook:     []any{map[string]any{"book": map[string]any{"title": 1}}},
			paths:       []string{"hasBorrowed", "favBook"},
		},
		{
			name:        "MissingNestedTitle",
			hasBorrowed: []any{map[string]any{"book": map[string]any{"title": "random"}}},
			favBook:     map[string]any{"book": map[string]any{"title": 1}},
			paths:       []string{"hasBorrowed.0.title", "favBook.title"},
		},
	}
	table := mustBind(t,
		binder.Declare("Book", binder.GQLType("Book")),
		binder.Declare("User", binder.GQLType("User")),
	)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := table.Validate("User", map[string]any{"has_borrowed": tt.hasBorrowed, "fav_book": tt.favBook})
			var verr *gqlbind.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.paths, verr.Fields())
		})
	}
}

func TestBindingErrors(t *testing.T) {
	tests := []struct {
		name     string
		bookType string
		userType string
		check    func(error) bool
	}{
		{"UnknownType", "Unknow", "Unknow", gqlbind.IsBindingConflict},
		{"DuplicateType", "User", "User", gqlbind.IsBindingConflict},
		{"MissingType", "", "", gqlbind.IsUnknownTypeError},
		{"UnknownSingle", "Unknow", "User", gqlbind.IsUnknownTypeError},
		{"RootType", "Query", "User", gqlbind.IsUnknownTypeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := bindAll(t,
				binder.Declare("Book", binder.GQLType(tt.bookType)),
				binder.Declare("User", binder.GQLType(tt.userType)),
			)
			require.Error(t, err)
			assert.Nil(t, table)
			assert.ErrorIs(t, err, gqlbind.ErrBinding)
			assert.True(t, tt.check(err), err.Error())
		})
	}

	t.Run("ConflictNamesModels", func(t *testing.T) {
		_, err := bindAll(t,
			binder.Declare("User", binder.GQLType("User")),
			binder.Declare("User_2", binder.GQLType("User")),
		)
		var cerr *gqlbind.BindingConflictError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, []string{"User", "User_2"}, cerr.Models)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		reject := func(any) (any, error) { return nil, errors.New("rejected") }
		table, err := bindAll(t,
			binder.Declare("M", binder.GQLType("Book"), binder.Validate("id", reject)),
			binder.Declare("M", binder.GQLType("GraphQLTypes")),
		)
		assert.Nil(t, table)
		var cerr *gqlbind.BindingConflictError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, []string{"M"}, cerr.Models)
		assert.Equal(t, []string{"Book", "GraphQLTypes"}, cerr.Types)
		assert.ErrorIs(t, err, gqlbind.ErrBindingConflict)
	})

	t.Run("RootReason", func(t *testing.T) {
		_, err := bindAll(t, binder.Declare("Q", binder.GQLType("Query")))
		assert.Contains(t, err.Error(), "root operation type")
	})
}

func TestRegisterScalar(t *testing.T) {
	builtins := slices.DeleteFunc(scalar.Builtins(), func(s *scalar.Scalar) bool {
		return s.Name == scalar.JSON
	})
	scalars := scalar.NewRegistry(builtins...)
	c := binder.NewCoordinator(binder.WithScalars(scalars))
	foo := binder.Declare("Foo", binder.GQLType("Foo"))

	_, err := c.BindSchema(parse(t), foo)
	var serr *gqlbind.ScalarNotRegisteredError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "JSON", serr.Scalar)
	assert.Equal(t, "Foo", serr.Model)
	assert.Equal(t, "json", serr.Field)

	scalars.Register(scalar.JSON, reflect.TypeFor[map[string]any](), nil)
	table, err := c.BindSchema(parse(t), foo)
	require.NoError(t, err)
	values, err := table.Validate("Foo", map[string]any{"json": map[string]any{"a": 1}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, values["json"])
}

func TestFieldSelection(t *testing.T) {
	book := binder.Declare("Book", binder.GQLType("Book"))

	t.Run("IncludeAndExclude", func(t *testing.T) {
		_, err := bindAll(t, book, binder.Declare("User_2",
			binder.GQLType("User"),
			binder.Include("username"),
			binder.Exclude("profile"),
		))
		assert.True(t, gqlbind.IsFieldSelectionError(err))
		assert.Contains(t, err.Error(), "mutually exclusive")
	})

	t.Run("UnknownInclude", func(t *testing.T) {
		_, err := bindAll(t, book, binder.Declare("User_3",
			binder.GQLType("User"),
			binder.Include("unknow"),
		))
		var ferr *gqlbind.FieldSelectionError
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, []string{"unknow"}, ferr.Fields)
	})

	t.Run("Include", func(t *testing.T) {
		table := mustBind(t, binder.Declare("Book", binder.GQLType("Book"), binder.Include("title")))
		m := lookup(t, table, "Book")
		assert.Equal(t, []string{"title"}, m.FieldNames())
		assert.Equal(t, map[string]any{
			"title": map[string]any{"title": "Title", "type": "string"},
		}, m.JSONSchema()["properties"])
	})

	t.Run("Exclude", func(t *testing.T) {
		table := mustBind(t, binder.Declare("Book", binder.GQLType("Book"), binder.Exclude("title")))
		m := lookup(t, table, "Book")
		assert.Equal(t, []string{"id", "author", "borrowings"}, m.FieldNames())
		assert.NotContains(t, m.JSONSchema()["properties"], "title")
	})
}

func TestTypeOverride(t *testing.T) {
	uuidScalar, err := scalar.Resolve(scalar.UUID)
	require.NoError(t, err)
	table := mustBind(t, binder.Declare("Book",
		binder.GQLType("Book"),
		binder.Override("id", binder.Optional(binder.ScalarType(uuidScalar))),
	))
	m := lookup(t, table, "Book")
	f, _ := m.Field("id")
	assert.True(t, f.Overridden)

	props := m.JSONSchema()["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"title": "Id", "type": "string", "format": "uuid"}, props["id"])

	id := uuid.New()
	values, err := m.Validate(map[string]any{"id": id.String(), "title": "t"})
	require.NoError(t, err)
	assert.Equal(t, id, values["id"])

	_, err = m.Validate(map[string]any{"id": "not-a-uuid", "title": "t"})
	assert.True(t, gqlbind.IsValidationError(err))

	t.Run("UnknownField", func(t *testing.T) {
		_, err := bindAll(t, binder.Declare("Book",
			binder.GQLType("Book"),
			binder.Override("isbn", binder.ScalarType(uuidScalar)),
		))
		var oerr *gqlbind.FieldOverrideError
		require.ErrorAs(t, err, &oerr)
		assert.Equal(t, "override", oerr.Kind)
	})

	t.Run("ExcludedField", func(t *testing.T) {
		_, err := bindAll(t, binder.Declare("Book",
			binder.GQLType("Book"),
			binder.Exclude("id"),
			binder.Override("id", binder.ScalarType(uuidScalar)),
		))
		assert.True(t, gqlbind.IsFieldOverrideError(err))
	})

	t.Run("ObjectOverride", func(t *testing.T) {
		table := mustBind(t,
			binder.Declare("User", binder.GQLType("User"),
				binder.Override("profile", binder.Optional(binder.ObjectType("Book"))),
			),
		)
		user := lookup(t, table, "User")
		f, _ := user.Field("profile")
		assert.Same(t, lookup(t, table, "Book"), f.Type.Model())
	})

	t.Run("ObjectOverrideUnknown", func(t *testing.T) {
		_, err := bindAll(t, binder.Declare("User", binder.GQLType("User"),
			binder.Override("profile", binder.ObjectType("Ghost")),
		))
		assert.True(t, gqlbind.IsUnknownTypeError(err))
	})
}

func TestValidators(t *testing.T) {
	checkUsername := func(v any) (any, error) {
		if len(v.(string)) <= 3 {
			return nil, errors.New("Username length must be greater than 3")
		}
		return v, nil
	}
	table := mustBind(t,
		binder.Declare("User", binder.GQLType("User"), binder.Validate("username", checkUsername)),
		binder.Declare("Book", binder.GQLType("Book")),
	)
	user := lookup(t, table, "User")

	_, err := user.Validate(map[string]any{"username": "gazorby"})
	require.NoError(t, err)

	_, err = user.Validate(map[string]any{"username": "gaz"})
	var verr *gqlbind.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, gqlbind.Violation{Path: "username", Message: "Username length must be greater than 3"}, verr.Violations[0])

	t.Run("NullSkipsValidators", func(t *testing.T) {
		_, err := user.Validate(map[string]any{"username": nil})
		assert.NoError(t, err)
	})

	t.Run("Chain", func(t *testing.T) {
		table := mustBind(t, binder.Declare("User", binder.GQLType("User"),
			binder.Validate("username", validate.Trim(), validate.MinLength(4)),
		))
		values, err := table.Validate("User", map[string]any{"username": "  gazorby "})
		require.NoError(t, err)
		assert.Equal(t, "gazorby", values["username"])
		_, err = table.Validate("User", map[string]any{"username": "  gaz  "})
		assert.True(t, gqlbind.IsValidationError(err))
	})

	t.Run("ExcludedField", func(t *testing.T) {
		_, err := bindAll(t, binder.Declare("User", binder.GQLType("User"),
			binder.Exclude("username"),
			binder.Validate("username", checkUsername),
		))
		var oerr *gqlbind.FieldOverrideError
		require.ErrorAs(t, err, &oerr)
		assert.Equal(t, "validator", oerr.Kind)
	})

	t.Run("Registry", func(t *testing.T) {
		reg := binder.NewValidatorRegistry()
		reg.Register("User", "username", validate.MinLength(4))
		c := binder.NewCoordinator(binder.WithScalars(scalar.NewDefaultRegistry()), binder.WithValidators(reg))
		table, err := c.BindSchema(parse(t), binder.Declare("User", binder.GQLType("User")))
		require.NoError(t, err)
		_, err = table.Validate("User", map[string]any{"username": "gaz"})
		assert.True(t, gqlbind.IsValidationError(err))

		// Model validators do not leak into the shared registry.
		assert.Len(t, reg.Get("User", "username"), 1)
		_, err = c.BindSchema(parse(t), binder.Declare("User", binder.GQLType("User"), binder.Validate("username", checkUsername)))
		require.NoError(t, err)
		assert.Len(t, reg.Get("User", "username"), 1)
	})

	t.Run("RegistryUndeclaredModel", func(t *testing.T) {
		for _, model := range []string{"Ghost", "Book"} {
			reg := binder.NewValidatorRegistry()
			reg.Register(model, "title", checkUsername)
			c := binder.NewCoordinator(binder.WithScalars(scalar.NewDefaultRegistry()), binder.WithValidators(reg))
			table, err := c.BindSchema(parse(t), binder.Declare("User", binder.GQLType("User")))
			assert.Nil(t, table, model)
			var oerr *gqlbind.FieldOverrideError
			require.ErrorAs(t, err, &oerr, model)
			assert.Equal(t, model, oerr.Model)
			assert.Equal(t, "title", oerr.Field)
			assert.Equal(t, "validator", oerr.Kind)
		}
	})
}

func TestImplicitModels(t *testing.T) {
	table := mustBind(t, binder.Declare("User", binder.GQLType("User"), binder.Exclude("profile")))
	assert.Equal(t, []string{"Book", "User"}, table.Names())
	book := lookup(t, table, "Book")
	assert.True(t, book.Implicit)
	assert.Len(t, table.Declared(), 1)
}

func TestOrderIndependence(t *testing.T) {
	decls := func() []*binder.Model {
		return []*binder.Model{
			binder.Declare("Book", binder.GQLType("Book")),
			binder.Declare("User", binder.GQLType("User"), binder.Exclude("profile")),
			binder.Declare("GraphQLTypes", binder.GQLType("GraphQLTypes")),
		}
	}
	want := mustBind(t, decls()...)
	permutations := [][]int{{0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for _, p := range permutations {
		d := decls()
		got := mustBind(t, d[p[0]], d[p[1]], d[p[2]])
		assert.True(t, want.Equal(got), "permutation %v", p)
	}

	t.Run("Idempotent", func(t *testing.T) {
		again := mustBind(t, decls()...)
		assert.True(t, want.Equal(again))
	})

	t.Run("ErrorsAreDeterministic", func(t *testing.T) {
		bad := []*binder.Model{
			binder.Declare("B", binder.GQLType("Book"), binder.Include("nope")),
			binder.Declare("U", binder.GQLType("User"), binder.Include("nope")),
		}
		_, err1 := bindAll(t, bad[0], bad[1])
		_, err2 := bindAll(t, bad[1], bad[0])
		require.Error(t, err1)
		assert.Equal(t, err1.Error(), err2.Error())
	})
}

func TestCycles(t *testing.T) {
	s, err := schema.Parse(`
type Person { name: String! friends: [Person!] employer: Company }
type Company { name: String! ceo: Person }
`)
	require.NoError(t, err)
	table, err := binder.NewCoordinator().BindSchema(s,
		binder.Declare("Person", binder.GQLType("Person")),
		binder.Declare("Company", binder.GQLType("Company")),
	)
	require.NoError(t, err)
	person := lookup(t, table, "Person")
	friends, _ := person.Field("friends")
	assert.Same(t, person, friends.Type.Elem.Model())

	values, err := person.Validate(map[string]any{
		"name":     "ada",
		"friends":  []any{map[string]any{"name": "bob"}},
		"employer": map[string]any{"name": "acme", "ceo": map[string]any{"name": "ada"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "acme", values["employer"].(map[string]any)["name"])

	_, err = person.Validate(map[string]any{"name": "ada", "friends": []any{nil}})
	var verr *gqlbind.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"friends.0"}, verr.Fields())

	t.Run("RecursiveValue", func(t *testing.T) {
		ada := map[string]any{"name": "ada"}
		ada["friends"] = []any{ada}
		ada["employer"] = map[string]any{"name": "acme", "ceo": ada}
		_, err := person.Validate(ada)
		var verr *gqlbind.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"friends.0", "employer.ceo"}, verr.Fields())
		assert.Equal(t, "recursive value", verr.Violations[0].Message)

		// Shared but acyclic values are accepted.
		bob := map[string]any{"name": "bob"}
		_, err = person.Validate(map[string]any{"name": "ada", "friends": []any{bob, bob}})
		assert.NoError(t, err)
	})

	t.Run("RecursiveStruct", func(t *testing.T) {
		type node struct {
			Name    string  `json:"name"`
			Friends []*node `json:"friends"`
		}
		ada := &node{Name: "ada"}
		ada.Friends = []*node{{Name: "bob"}, ada}
		_, err := table.Validate("Person", map[string]any{"name": "eve", "friends": []any{ada}})
		var verr *gqlbind.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"friends.0.friends.1"}, verr.Fields())
	})

	doc := person.JSONSchema()
	defs := doc["definitions"].(map[string]any)
	assert.Contains(t, defs, "Company")
	assert.Contains(t, defs, "Person")
}

func TestEnumsAndUnions(t *testing.T) {
	s, err := schema.Parse(`
enum Role { ADMIN MEMBER }
union Result = A | B
type A { x: Int }
type B { y: Int }
input Filter { role: Role! result: Result tags: [[String!]] }
`)
	require.NoError(t, err)
	table, err := binder.NewCoordinator().BindSchema(s, binder.Declare("Filter", binder.GQLType("Filter")))
	require.NoError(t, err)
	m := lookup(t, table, "Filter")
	assert.Equal(t, schema.KindInputObject, m.Kind)

	values, err := m.Validate(map[string]any{
		"role":   "ADMIN",
		"result": map[string]any{"x": 1},
		"tags":   []any{[]any{"a"}, nil},
	})
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", values["role"])
	assert.Equal(t, []any{[]any{"a"}, nil}, values["tags"])

	_, err = m.Validate(map[string]any{"role": "GUEST", "tags": []any{[]any{nil}}})
	var verr *gqlbind.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"role", "tags.0.0"}, verr.Fields())
	assert.Contains(t, verr.Violations[0].Message, "'ADMIN', 'MEMBER'")
}

func TestBind(t *testing.T) {
	bm, err := binder.Bind(binder.Declare("User", binder.GQLType("User")), parse(t), scalar.NewDefaultRegistry(), nil)
	require.NoError(t, err)
	assert.Equal(t, "User", bm.GQLType)
	f, ok := bm.Field("is_staff")
	require.True(t, ok)
	assert.Equal(t, "isStaff", f.Name)
	assert.Equal(t, "is_staff", f.Alias)
	fav, _ := bm.Field("favBook")
	require.NotNil(t, fav.Type.Model())
	assert.True(t, fav.Type.Model().Implicit)
}

func TestBindValidators(t *testing.T) {
	upper := func(v any) (any, error) { return strings.ToUpper(v.(string)), nil }

	t.Run("Declared", func(t *testing.T) {
		bm, err := binder.Bind(
			binder.Declare("User", binder.GQLType("User"), binder.Validate("username", upper)),
			parse(t), scalar.NewDefaultRegistry(), nil,
		)
		require.NoError(t, err)
		values, err := bm.Validate(map[string]any{"username": "gazorby"})
		require.NoError(t, err)
		assert.Equal(t, "GAZORBY", values["username"])
	})

	t.Run("ImplicitNameClash", func(t *testing.T) {
		table := mustBind(t,
			binder.Declare("Book", binder.GQLType("GraphQLTypes"), binder.Validate("int", func(v any) (any, error) { return v, nil })),
			binder.Declare("User", binder.GQLType("User")),
		)
		book := lookup(t, table, "Book")
		assert.True(t, book.Implicit)
		assert.Empty(t, book.Validators("title"))
		assert.Len(t, lookup(t, table, "GraphQLTypes").Validators("int"), 1)
	})
}

func TestDecode(t *testing.T) {
	table := mustBind(t,
		binder.Declare("Book", binder.GQLType("Book")),
		binder.Declare("User", binder.GQLType("User"), binder.Exclude("profile", "dateJoined")),
	)
	type book struct {
		Title string `json:"title"`
	}
	type user struct {
		Username    string `json:"username"`
		IsStaff     bool   `json:"isStaff"`
		HasBorrowed []book `json:"hasBorrowed"`
	}
	var u user
	err := lookup(t, table, "User").Decode(map[string]any{
		"username":     "gazorby",
		"is_staff":     true,
		"has_borrowed": []any{map[string]any{"title": "Dune"}},
	}, &u)
	require.NoError(t, err)
	assert.Equal(t, user{Username: "gazorby", IsStaff: true, HasBorrowed: []book{{Title: "Dune"}}}, u)

	err = lookup(t, table, "User").Decode(map[string]any{"username": []any{1}}, &u)
	assert.True(t, gqlbind.IsValidationError(err))
}

func TestStructInput(t *testing.T) {
	table := mustBind(t,
		binder.Declare("Book", binder.GQLType("Book")),
		binder.Declare("User", binder.GQLType("User")),
	)
	type book struct {
		Title string `json:"title"`
	}
	values, err := table.Validate("User", map[string]any{"favBook": book{Title: "Dune"}})
	require.NoError(t, err)
	assert.Equal(t, "Dune", values["favBook"].(map[string]any)["title"])

	_, err = table.Validate("Nope", nil)
	assert.ErrorIs(t, err, gqlbind.ErrUnknownType)
}

func TestSchemaTypeShadowsScalar(t *testing.T) {
	s, err := schema.Parse(`
type Date { day: Int! }
type Event { on: Date }
`)
	require.NoError(t, err)
	table, err := binder.NewCoordinator(binder.WithScalars(scalar.NewDefaultRegistry())).
		BindSchema(s, binder.Declare("Event", binder.GQLType("Event")))
	require.NoError(t, err)
	on, _ := lookup(t, table, "Event").Field("on")
	assert.Equal(t, binder.KindObject, on.Type.Kind)
	assert.True(t, lookup(t, table, "Date").Implicit)

	_, err = table.Validate("Event", map[string]any{"on": "2020-06-01"})
	assert.True(t, gqlbind.IsValidationError(err))
	_, err = table.Validate("Event", map[string]any{"on": map[string]any{"day": 1}})
	assert.NoError(t, err)
}
