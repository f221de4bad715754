// Package binder binds model declarations to schema types and validates
// values against the bound models.
//
// A Coordinator runs a binding pass over a set of declarations and returns
// a Table with one BoundModel per schema type. Types that declarations
// reference but do not declare are bound implicitly with all their fields.
// Tables are immutable; a Holder publishes the current one to concurrent
// readers and swaps it atomically on rebuild.
package binder
