// Package strategy implements the coercion strategies that extract one schema
// type from a value node: primitives, null, optional, list, union, enum and
// object.
//
// A strategy never fails with an error because the input did not match. It
// records diagnostics and returns a Result without a value. The error return
// is reserved for configuration problems surfaced by the Resolver.
package strategy

import (
	"unicode/utf8"

	"github.com/reoring/coerce/diag"
	"github.com/reoring/coerce/schema"
	"github.com/reoring/coerce/value"
)

// Strategy extracts one target type from a value node.
type Strategy interface {
	Name() string
	// Rank orders strategies for rank-based union resolution; higher is more specific.
	Rank() int
	Coerce(n value.Node, d *diag.Diagnostics, resolve Resolver) (Result, error)
}

// Resolver maps a nested schema fragment to its strategy.
type Resolver func(*schema.Schema) (Strategy, error)

// Result is the has-value/no-value outcome of a coercion.
type Result struct {
	v  any
	ok bool
}

// Some wraps a successful value; nil is a valid value.
func Some(v any) Result { return Result{v: v, ok: true} }

// None is the outcome of a failed coercion.
func None() Result { return Result{} }

// Get returns the value and whether there is one.
func (r Result) Get() (any, bool) { return r.v, r.ok }

// Ranks used by the built-in strategies.
const (
	RankNone      = 0
	RankPrimitive = 1
	RankList      = 2
	RankEnum      = 3
	RankObject    = 4
)

const describeMax = 80

// describe renders a node for diagnostic messages.
func describe(n value.Node) string {
	s, ok := n.AsText(false)
	if !ok {
		return n.Kind().String()
	}
	if utf8.RuneCountInString(s) > describeMax {
		r := []rune(s)
		return string(r[:describeMax]) + "..."
	}
	return s
}
