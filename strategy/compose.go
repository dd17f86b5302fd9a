package strategy

import (
	"strconv"

	"github.com/reoring/coerce/diag"
	"github.com/reoring/coerce/i18n"
	"github.com/reoring/coerce/schema"
	"github.com/reoring/coerce/value"
)

// Scope names pushed by the composite strategies.
const (
	ScopeOptional = "[optional]"
	ScopeUnion    = "[union]"
)

// Optional coerces its inner type and yields null on any failure.
type Optional struct {
	Inner *schema.Schema
}

// NewOptional returns an Optional over inner.
func NewOptional(inner *schema.Schema) *Optional { return &Optional{Inner: inner} }

func (o *Optional) Name() string { return "optional" }
func (o *Optional) Rank() int    { return RankNone }

func (o *Optional) Coerce(n value.Node, d *diag.Diagnostics, resolve Resolver) (Result, error) {
	inner, err := resolve(o.Inner)
	if err != nil {
		return None(), err
	}
	d.PushScope(ScopeOptional)
	r, err := inner.Coerce(n, d, resolve)
	d.PopScope(true)
	if err != nil {
		return None(), err
	}
	if _, ok := r.Get(); ok {
		return r, nil
	}
	return Some(nil), nil
}

// List coerces every element of the sequence view and drops the ones that fail.
type List struct {
	Items *schema.Schema
}

// NewList returns a List of items.
func NewList(items *schema.Schema) *List { return &List{Items: items} }

func (l *List) Name() string { return "list" }
func (l *List) Rank() int    { return RankList }

func (l *List) Coerce(n value.Node, d *diag.Diagnostics, resolve Resolver) (Result, error) {
	item, err := resolve(l.Items)
	if err != nil {
		return None(), err
	}
	seq := n.AsSequence()
	out := make([]any, 0, len(seq))
	for i, el := range seq {
		d.PushScope(strconv.Itoa(i))
		r, err := item.Coerce(el, d, resolve)
		d.PopScope(true)
		if err != nil {
			return None(), err
		}
		if v, ok := r.Get(); ok {
			out = append(out, v)
		}
	}
	return Some(out), nil
}

// UnionPolicy selects how a union picks among branches that succeed.
type UnionPolicy int

const (
	// UnionFirstMatch returns the first branch, in declared order, that
	// succeeds. Branch order is the schema author's tie-break: with
	// [string, integer] the input "42" becomes the string "42".
	UnionFirstMatch UnionPolicy = iota
	// UnionRankBest tries every branch and returns the successful one with the
	// highest Rank; declared order breaks rank ties.
	UnionRankBest
)

// Union tries each branch under the "[union]" scope with failures demoted.
type Union struct {
	Branches []*schema.Schema
	Policy   UnionPolicy
}

// NewUnion returns a Union over branches.
func NewUnion(policy UnionPolicy, branches ...*schema.Schema) *Union {
	return &Union{Branches: branches, Policy: policy}
}

func (u *Union) Name() string { return "union" }
func (u *Union) Rank() int    { return RankNone }

func (u *Union) Coerce(n value.Node, d *diag.Diagnostics, resolve Resolver) (Result, error) {
	var (
		best     Result
		bestRank = -1
	)
	for _, b := range u.Branches {
		s, err := resolve(b)
		if err != nil {
			return None(), err
		}
		d.PushScope(ScopeUnion)
		r, err := s.Coerce(n, d, resolve)
		d.PopScope(true)
		if err != nil {
			return None(), err
		}
		if _, ok := r.Get(); !ok {
			continue
		}
		if u.Policy == UnionFirstMatch {
			return r, nil
		}
		if s.Rank() > bestRank {
			best, bestRank = r, s.Rank()
		}
	}
	if bestRank >= 0 {
		return best, nil
	}
	d.PushUnknownError(diag.CodeUnionNoMatch, i18n.T(diag.CodeUnionNoMatch, map[string]string{"got": describe(n)}))
	return None(), nil
}
