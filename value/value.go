// Package value models one parsed unit of input as a lazy, multi-view node.
//
// A node never commits to a single interpretation: coercion strategies ask
// for the view they need (text, number, bool, sequence, mapping) and each
// variant answers as best it can. Trees are immutable once built.
package value

import (
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Kind identifies a node variant.
type Kind int

const (
	KindAbsent Kind = iota
	KindPrimitive
	KindText
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindText:
		return "text"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "absent"
	}
}

// Node is one node of parsed input. Every view returns ok=false when the node
// has no such interpretation.
type Node interface {
	Kind() Kind
	// AsText returns the canonical text; inner asks for the most unwrapped form.
	AsText(inner bool) (string, bool)
	// AsSmartText returns text with surrounding quotes stripped.
	AsSmartText(inner bool) (string, bool)
	// AsSelf returns the plain underlying value, for messages only.
	AsSelf() any
	AsNumber() (float64, bool)
	AsBool() (bool, bool)
	AsSequence() []Node
	AsMapping() []Pair
}

// Pair is one entry of a mapping view. Key is nil when absent.
type Pair struct {
	Key   Node
	Value Node
}

func selfPair(n Node) []Pair { return []Pair{{Key: nil, Value: n}} }

// ---- Absent ----

// Absent is the node for null or missing input.
type Absent struct{}

func (Absent) Kind() Kind                      { return KindAbsent }
func (Absent) AsText(bool) (string, bool)      { return "", false }
func (Absent) AsSmartText(bool) (string, bool) { return "", false }
func (Absent) AsSelf() any                     { return nil }
func (Absent) AsNumber() (float64, bool)       { return 0, false }
func (Absent) AsBool() (bool, bool)            { return false, false }
func (Absent) AsSequence() []Node              { return nil }
func (Absent) AsMapping() []Pair               { return nil }

// ---- Primitive ----

// Primitive holds a bool, an int64 or a float64.
type Primitive struct {
	v any
}

// Bool returns a boolean primitive.
func Bool(b bool) Primitive { return Primitive{v: b} }

// Int returns an integer primitive.
func Int(i int64) Primitive { return Primitive{v: i} }

// Float returns a floating point primitive.
func Float(f float64) Primitive { return Primitive{v: f} }

func (p Primitive) Kind() Kind { return KindPrimitive }

func (p Primitive) AsText(bool) (string, bool) {
	switch v := p.v.(type) {
	case bool:
		return strconv.FormatBool(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	}
	return "", false
}

func (p Primitive) AsSmartText(inner bool) (string, bool) { return p.AsText(inner) }

func (p Primitive) AsSelf() any { return p.v }

func (p Primitive) AsNumber() (float64, bool) {
	switch v := p.v.(type) {
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func (p Primitive) AsBool() (bool, bool) {
	if b, ok := p.v.(bool); ok {
		return b, true
	}
	f, ok := p.AsNumber()
	return ok && f != 0, ok
}

func (p Primitive) AsSequence() []Node { return []Node{p} }
func (p Primitive) AsMapping() []Pair  { return selfPair(p) }

// ---- Text ----

// Text is a string node. asObj, asList and asInner are alternate
// interpretations found by the loader when the node was built; every view
// consults them before treating the string literally.
type Text struct {
	val     string
	asObj   Node
	asList  Node
	asInner Node
}

// NewText builds a text node with its precomputed alternates (nil when absent).
func NewText(s string, asObj, asList, asInner Node) *Text {
	return &Text{val: s, asObj: asObj, asList: asList, asInner: asInner}
}

// Plain builds a text node without alternates.
func Plain(s string) *Text { return &Text{val: s} }

func (t *Text) Kind() Kind { return KindText }

// Alternates exposes the precomputed interpretations (nil when absent).
func (t *Text) Alternates() (asObj, asList, asInner Node) { return t.asObj, t.asList, t.asInner }

func (t *Text) AsText(inner bool) (string, bool) {
	if inner && t.asInner != nil {
		return t.asInner.AsText(true)
	}
	return t.val, true
}

func (t *Text) AsSmartText(inner bool) (string, bool) {
	if inner && t.asInner != nil {
		return t.asInner.AsSmartText(true)
	}
	return stripQuotes(strings.TrimSpace(t.val)), true
}

func (t *Text) AsSelf() any { return t.val }

func (t *Text) AsNumber() (float64, bool) {
	if t.asInner != nil {
		if f, ok := t.asInner.AsNumber(); ok {
			return f, true
		}
	}
	f, err := strconv.ParseFloat(stripQuotes(strings.TrimSpace(t.val)), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (t *Text) AsBool() (bool, bool) {
	if t.asInner != nil {
		if b, ok := t.asInner.AsBool(); ok {
			return b, true
		}
	}
	s := stripQuotes(strings.TrimSpace(t.val))
	switch {
	case strings.EqualFold(s, "true"):
		return true, true
	case strings.EqualFold(s, "false"):
		return false, true
	}
	return false, false
}

func (t *Text) AsSequence() []Node {
	switch {
	case t.asList != nil:
		return t.asList.AsSequence()
	case t.asInner != nil:
		return t.asInner.AsSequence()
	case t.asObj != nil:
		return []Node{t.asObj}
	}
	return []Node{t}
}

func (t *Text) AsMapping() []Pair {
	switch {
	case t.asObj != nil:
		return t.asObj.AsMapping()
	case t.asInner != nil:
		return t.asInner.AsMapping()
	}
	return selfPair(t)
}

// stripQuotes removes one pair of matching surrounding quotes.
func stripQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	switch q := s[0]; q {
	case '"', '\'', '`':
		if s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// ---- Sequence ----

// Sequence is an ordered list of nodes.
type Sequence struct {
	items []Node
}

// NewSequence builds a sequence node.
func NewSequence(items ...Node) *Sequence { return &Sequence{items: items} }

func (s *Sequence) Kind() Kind { return KindSequence }

// Len returns the number of items.
func (s *Sequence) Len() int { return len(s.items) }

func (s *Sequence) AsText(bool) (string, bool) { return marshalText(s.AsSelf()) }

func (s *Sequence) AsSmartText(inner bool) (string, bool) {
	if len(s.items) == 1 && s.items[0].Kind() == KindText {
		return s.items[0].AsSmartText(inner)
	}
	return s.AsText(inner)
}

func (s *Sequence) AsSelf() any {
	out := make([]any, len(s.items))
	for i, it := range s.items {
		out[i] = it.AsSelf()
	}
	return out
}

func (s *Sequence) AsNumber() (float64, bool) { return 0, false }
func (s *Sequence) AsBool() (bool, bool)      { return false, false }
func (s *Sequence) AsSequence() []Node        { return s.items }
func (s *Sequence) AsMapping() []Pair         { return selfPair(s) }

// ---- Mapping ----

// Mapping is an ordered set of key/value pairs.
type Mapping struct {
	pairs []Pair
}

// NewMapping builds a mapping node.
func NewMapping(pairs ...Pair) *Mapping { return &Mapping{pairs: pairs} }

func (m *Mapping) Kind() Kind { return KindMapping }

// Len returns the number of pairs.
func (m *Mapping) Len() int { return len(m.pairs) }

func (m *Mapping) AsText(bool) (string, bool) { return marshalText(m.AsSelf()) }

func (m *Mapping) AsSmartText(inner bool) (string, bool) { return m.AsText(inner) }

func (m *Mapping) AsSelf() any {
	om := &OrderedMap{}
	for _, p := range m.pairs {
		key := ""
		if p.Key != nil {
			key, _ = p.Key.AsText(false)
		}
		om.Keys = append(om.Keys, key)
		om.Values = append(om.Values, p.Value.AsSelf())
	}
	return om
}

func (m *Mapping) AsNumber() (float64, bool) { return 0, false }
func (m *Mapping) AsBool() (bool, bool)      { return false, false }
func (m *Mapping) AsSequence() []Node        { return []Node{m} }
func (m *Mapping) AsMapping() []Pair         { return m.pairs }

func marshalText(v any) (string, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(b), true
}
