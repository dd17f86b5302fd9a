package coerce

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/coerce/diag"
	"github.com/reoring/coerce/i18n"
	eng "github.com/reoring/coerce/internal/engine"
	"github.com/reoring/coerce/value"
)

var numericText = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

// Load builds a value tree from raw. Strings go through the text heuristics:
// literals, strict JSON, then prose scanning for fenced and embedded JSON.
// Structured host values map directly onto tree nodes.
//
// Load fails only for host values that cannot be represented; the failure is
// recorded in d and returned as d.Err().
func Load(raw any, d *diag.Diagnostics, opts ...LoadOpt) (value.Node, error) {
	var opt LoadOpt
	if len(opts) > 0 {
		opt = opts[0]
	}
	l := &loader{opt: opt.withDefaults(), d: d}
	if s, ok := raw.(string); ok {
		raw = l.truncate(s)
	}
	n, ok := l.host(raw, 0)
	if !ok {
		return nil, d.Err()
	}
	return n, nil
}

type loader struct {
	opt LoadOpt
	d   *diag.Diagnostics
}

func (l *loader) truncate(s string) string {
	limit := l.opt.MaxBytes
	if limit <= 0 || int64(len(s)) <= limit {
		return s
	}
	cut := int(limit)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	l.d.PushUnknownWarning(diag.CodeTruncated, i18n.T(diag.CodeTruncated, map[string]string{"max": strconv.FormatInt(limit, 10)}))
	return s[:cut]
}

func (l *loader) host(v any, depth int) (value.Node, bool) {
	switch t := v.(type) {
	case nil:
		return value.Absent{}, true
	case value.Node:
		return t, true
	case bool:
		return value.Bool(t), true
	case string:
		return l.text(t, depth), true
	case json.Number:
		return number(string(t)), true
	case float32:
		return value.Float(float64(t)), true
	case float64:
		return value.Float(t), true
	case []any:
		items := make([]value.Node, 0, len(t))
		for _, it := range t {
			n, ok := l.host(it, depth+1)
			if !ok {
				return nil, false
			}
			items = append(items, n)
		}
		return value.NewSequence(items...), true
	case []string:
		items := make([]value.Node, len(t))
		for i, s := range t {
			items[i] = l.text(s, depth+1)
		}
		return value.NewSequence(items...), true
	case map[string]any:
		keys := sortedKeys(t)
		pairs := make([]value.Pair, 0, len(keys))
		for _, k := range keys {
			n, ok := l.host(t[k], depth+1)
			if !ok {
				return nil, false
			}
			pairs = append(pairs, value.Pair{Key: value.Plain(k), Value: n})
		}
		return value.NewMapping(pairs...), true
	case map[string]string:
		keys := sortedKeys(t)
		pairs := make([]value.Pair, len(keys))
		for i, k := range keys {
			pairs[i] = value.Pair{Key: value.Plain(k), Value: l.text(t[k], depth+1)}
		}
		return value.NewMapping(pairs...), true
	case *value.OrderedMap:
		pairs := make([]value.Pair, 0, len(t.Keys))
		for i, k := range t.Keys {
			n, ok := l.host(t.Values[i], depth+1)
			if !ok {
				return nil, false
			}
			pairs = append(pairs, value.Pair{Key: value.Plain(k), Value: n})
		}
		return value.NewMapping(pairs...), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return value.Float(float64(u)), true
		}
		return value.Int(int64(u)), true
	}

	b, err := gojson.Marshal(v)
	if err != nil {
		l.d.PushUnknownError(diag.CodeUnrepresentable, i18n.T(diag.CodeUnrepresentable, map[string]string{"type": fmt.Sprintf("%T", v)}))
		return nil, false
	}
	return l.text(string(b), depth), true
}

// text applies the string heuristics to s.
func (l *loader) text(s string, depth int) value.Node {
	trimmed := strings.TrimSpace(s)
	switch {
	case strings.EqualFold(trimmed, "true"):
		return value.Bool(true)
	case strings.EqualFold(trimmed, "false"):
		return value.Bool(false)
	case numericText.MatchString(trimmed):
		return number(trimmed)
	}
	if n, ok := l.strict(trimmed, depth); ok {
		return n
	}
	if depth >= l.opt.MaxDepth {
		return value.Plain(s)
	}

	var asObj, asList, asInner value.Node
	if body, ok := eng.FencedJSON(s); ok {
		asInner = l.text(body, depth+1)
	}
	if !eng.Bounded(trimmed, '{', '}') {
		asObj, asList = l.regions(eng.BalancedRegions(s, '{', '}'), depth)
	}
	if asList == nil && !eng.Bounded(trimmed, '[', ']') {
		one, many := l.regions(eng.BalancedRegions(s, '[', ']'), depth)
		asList = many
		if one != nil {
			asList = one
		}
	}
	return value.NewText(s, asObj, asList, asInner)
}

// regions loads embedded fragments: a single one is returned as one, several
// as a sequence in many.
func (l *loader) regions(rs []string, depth int) (one, many value.Node) {
	switch len(rs) {
	case 0:
		return nil, nil
	case 1:
		return l.text(rs[0], depth+1), nil
	}
	items := make([]value.Node, len(rs))
	for i, r := range rs {
		items[i] = l.text(r, depth+1)
	}
	return nil, value.NewSequence(items...)
}

// strict parses s as exactly one JSON value. Duplicate-key warnings are only
// recorded when the parse succeeds.
func (l *loader) strict(s string, depth int) (value.Node, bool) {
	if s == "" {
		return nil, false
	}
	var dups []eng.SimpleIssue
	src := enforce(l.opt.Driver.newBytes([]byte(s)), l.opt, func(si eng.SimpleIssue) {
		dups = append(dups, si)
	})
	tree, err := eng.DecodeTree(src)
	if err != nil {
		var ie eng.IssueError
		if errors.As(err, &ie) && ie.Code == diag.CodeTooDeep {
			l.d.PushUnknownWarning(diag.CodeTooDeep, i18n.T(diag.CodeTooDeep, map[string]string{"max": strconv.Itoa(l.opt.MaxDepth)}))
		}
		return nil, false
	}
	for _, si := range dups {
		l.d.PushUnknownWarning(diag.CodeDuplicateKey, i18n.T(diag.CodeDuplicateKey, map[string]string{"key": si.Path}))
	}
	return l.tree(tree, depth), true
}

func (l *loader) tree(v any, depth int) value.Node {
	switch t := v.(type) {
	case *eng.Object:
		pairs := make([]value.Pair, t.Len())
		for i, k := range t.Keys {
			pairs[i] = value.Pair{Key: value.Plain(k), Value: l.tree(t.Values[i], depth+1)}
		}
		return value.NewMapping(pairs...)
	case []any:
		items := make([]value.Node, len(t))
		for i, it := range t {
			items[i] = l.tree(it, depth+1)
		}
		return value.NewSequence(items...)
	case string:
		return l.text(t, depth+1)
	case json.Number:
		return number(string(t))
	case bool:
		return value.Bool(t)
	}
	return value.Absent{}
}

// number converts numeric text to an int64 primitive when it fits, a float
// otherwise. Text that does not parse at all stays text.
func number(s string) value.Node {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return value.Float(f)
	}
	return value.Plain(s)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
