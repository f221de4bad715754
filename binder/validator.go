package binder

import (
	"maps"
	"slices"
	"sync"
)

// ValidatorFunc checks a field value. It returns the accepted value, possibly
// transformed, or an error whose message is reported for the field.
type ValidatorFunc func(value any) (any, error)

// ValidatorRegistry holds field validators per model declaration name,
// preserving registration order.
type ValidatorRegistry struct {
	mu     sync.RWMutex
	models map[string]*modelValidators
}

type modelValidators struct {
	order []string
	funcs map[string][]ValidatorFunc
}

// NewValidatorRegistry returns an empty registry.
func NewValidatorRegistry() *ValidatorRegistry {
	return &ValidatorRegistry{models: make(map[string]*modelValidators)}
}

// Register appends fns to the validators of model.field.
func (r *ValidatorRegistry) Register(model, field string, fns ...ValidatorFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mv, ok := r.models[model]
	if !ok {
		mv = &modelValidators{funcs: make(map[string][]ValidatorFunc)}
		r.models[model] = mv
	}
	if _, ok := mv.funcs[field]; !ok {
		mv.order = append(mv.order, field)
	}
	mv.funcs[field] = append(mv.funcs[field], fns...)
}

// Get returns the validators of model.field in registration order.
func (r *ValidatorRegistry) Get(model, field string) []ValidatorFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if mv, ok := r.models[model]; ok {
		return slices.Clone(mv.funcs[field])
	}
	return nil
}

// Fields returns the fields of model that have validators, in the order
// they were first registered.
func (r *ValidatorRegistry) Fields(model string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if mv, ok := r.models[model]; ok {
		return slices.Clone(mv.order)
	}
	return nil
}

// Models returns the model names with validators, sorted.
func (r *ValidatorRegistry) Models() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.models))
}

// Clone returns an independent copy of the registry.
func (r *ValidatorRegistry) Clone() *ValidatorRegistry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := NewValidatorRegistry()
	for name, mv := range r.models {
		funcs := make(map[string][]ValidatorFunc, len(mv.funcs))
		for f, fns := range mv.funcs {
			funcs[f] = slices.Clone(fns)
		}
		c.models[name] = &modelValidators{order: slices.Clone(mv.order), funcs: funcs}
	}
	return c
}
