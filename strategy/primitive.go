package strategy

import (
	"math"

	"fortio.org/safecast"

	"github.com/reoring/coerce/diag"
	"github.com/reoring/coerce/i18n"
	"github.com/reoring/coerce/value"
)

// Built-in singletons.
var (
	String Strategy = primitive{name: "string", extract: asString}
	Int    Strategy = primitive{name: "int", extract: asInt}
	Float  Strategy = primitive{name: "float", extract: asFloat}
	Bool   Strategy = primitive{name: "bool", extract: asBool}
	Null   Strategy = none{}
)

type primitive struct {
	name    string
	extract func(value.Node) (any, bool)
}

func (p primitive) Name() string { return p.name }
func (p primitive) Rank() int    { return RankPrimitive }

func (p primitive) Coerce(n value.Node, d *diag.Diagnostics, _ Resolver) (Result, error) {
	if v, ok := p.extract(n); ok {
		return Some(v), nil
	}
	d.PushUnknownError(diag.CodeInvalidType, i18n.T(diag.CodeInvalidType, map[string]string{
		"expected": p.name,
		"got":      describe(n),
	}))
	return None(), nil
}

func asString(n value.Node) (any, bool) { return n.AsText(false) }

func asFloat(n value.Node) (any, bool) { return n.AsNumber() }

func asBool(n value.Node) (any, bool) { return n.AsBool() }

// asInt rounds half away from zero and rejects values outside int64.
func asInt(n value.Node) (any, bool) {
	f, ok := n.AsNumber()
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	i, err := safecast.Round[int64](f)
	if err != nil {
		return nil, false
	}
	return i, true
}

type none struct{}

func (none) Name() string { return "null" }
func (none) Rank() int    { return RankNone }

func (none) Coerce(value.Node, *diag.Diagnostics, Resolver) (Result, error) {
	return Some(nil), nil
}
