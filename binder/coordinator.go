package binder

import (
	"cmp"
	"log/slog"
	"slices"
	"time"

	"github.com/syssam/gqlbind"
	"github.com/syssam/gqlbind/scalar"
	"github.com/syssam/gqlbind/schema"
)

// Coordinator runs binding passes. It is safe for concurrent use; each pass
// works on snapshots of the scalar and validator registries taken when the
// pass starts.
type Coordinator struct {
	scalars    *scalar.Registry
	validators *ValidatorRegistry
	log        *slog.Logger
	metrics    *Metrics
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithScalars sets the scalar registry. Defaults to scalar.Default.
func WithScalars(r *scalar.Registry) Option {
	return func(c *Coordinator) {
		c.scalars = r
	}
}

// WithValidators sets the registry of validators declared outside the
// model declarations.
func WithValidators(r *ValidatorRegistry) Option {
	return func(c *Coordinator) {
		c.validators = r
	}
}

// WithLogger sets the logger for binding passes.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		c.log = l
	}
}

// WithMetrics enables metrics collection.
func WithMetrics(m *Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// NewCoordinator returns a Coordinator configured by opts.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		scalars:    scalar.Default,
		validators: NewValidatorRegistry(),
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BindAll parses src and binds models against it.
func BindAll(src string, models ...*Model) (*Table, error) {
	return NewCoordinator().BindAll(src, models...)
}

// BindAll parses src and binds models against it.
func (c *Coordinator) BindAll(src string, models ...*Model) (*Table, error) {
	s, err := schema.Parse(src)
	if err != nil {
		return nil, err
	}
	return c.BindSchema(s, models...)
}

// BindSchema binds models against s and returns the resulting table.
//
// Binding happens in two passes. The first checks every declaration and
// registers a model shell per type; the second resolves field types and
// links object references to the shells, so declarations may reference
// each other in any order and in cycles. Types referenced but not
// declared are bound implicitly. Nothing is returned unless every
// declaration binds.
func (c *Coordinator) BindSchema(s *schema.Schema, models ...*Model) (*Table, error) {
	start := time.Now()
	t, err := c.bind(s, models)
	n := 0
	if t != nil {
		n = t.Len()
	}
	c.metrics.observePass(time.Since(start), n, err)
	if err != nil {
		c.log.Warn("binding failed", slog.Any("error", err))
		return nil, err
	}
	c.log.Info("models bound",
		slog.Int("declared", len(models)),
		slog.Int("models", n),
		slog.Duration("duration", time.Since(start)),
	)
	return t, nil
}

func (c *Coordinator) bind(s *schema.Schema, models []*Model) (*Table, error) {
	decls := slices.Clone(models)
	slices.SortStableFunc(decls, func(a, b *Model) int {
		return cmp.Or(
			cmp.Compare(a.Config.GQLType, b.Config.GQLType),
			cmp.Compare(a.DeclName(), b.DeclName()),
		)
	})
	if err := conflicts(decls); err != nil {
		return nil, err
	}

	validators := c.validators.Clone()
	for _, m := range decls {
		for _, v := range m.Validators {
			validators.Register(m.DeclName(), v.Field, v.Func)
		}
	}
	if err := undeclared(validators, decls); err != nil {
		return nil, err
	}
	b := newBinder(s, c.scalars.Clone(), validators, c.log)

	shells := make([]*BoundModel, 0, len(decls))
	for _, m := range decls {
		bm, err := b.declare(m, true)
		if err != nil {
			return nil, err
		}
		bm.metrics = c.metrics
		b.models[bm.GQLType] = bm
		shells = append(shells, bm)
	}
	for _, bm := range shells {
		if err := b.resolve(bm); err != nil {
			return nil, err
		}
	}
	if err := b.linkPending(); err != nil {
		return nil, err
	}
	for _, bm := range b.models {
		bm.metrics = c.metrics
	}
	return newTable(b.models), nil
}

// conflicts reports types claimed by more than one declaration and model
// names declared more than once. decls must be sorted by type.
func conflicts(decls []*Model) error {
	for i := 0; i < len(decls); {
		j := i + 1
		for j < len(decls) && decls[j].Config.GQLType == decls[i].Config.GQLType {
			j++
		}
		if j-i > 1 && decls[i].Config.GQLType != "" {
			names := make([]string, 0, j-i)
			for _, m := range decls[i:j] {
				names = append(names, m.DeclName())
			}
			return &gqlbind.BindingConflictError{GQLType: decls[i].Config.GQLType, Models: names}
		}
		i = j
	}
	types := make(map[string][]string, len(decls))
	for _, m := range decls {
		types[m.DeclName()] = append(types[m.DeclName()], m.Config.GQLType)
	}
	for _, name := range sortedKeys(types) {
		if len(types[name]) > 1 {
			return &gqlbind.BindingConflictError{Models: []string{name}, Types: types[name]}
		}
	}
	return nil
}

// undeclared reports validators registered for a model name that no
// declaration carries. Implicit models take no validators.
func undeclared(validators *ValidatorRegistry, decls []*Model) error {
	for _, name := range validators.Models() {
		if slices.ContainsFunc(decls, func(m *Model) bool { return m.DeclName() == name }) {
			continue
		}
		var field string
		if fields := validators.Fields(name); len(fields) > 0 {
			field = fields[0]
		}
		return &gqlbind.FieldOverrideError{
			Model:   name,
			Field:   field,
			Kind:    "validator",
			Message: "no model is declared with this name",
		}
	}
	return nil
}
