package coerce

import (
	"context"
	"fmt"
	"log/slog"

	json "github.com/goccy/go-json"

	"github.com/reoring/coerce/diag"
	"github.com/reoring/coerce/i18n"
	"github.com/reoring/coerce/schema"
	"github.com/reoring/coerce/strategy"
)

// Deserializer coerces raw input against one root schema.
//
// Named enums and objects resolve through per-instance overloads first, then
// the shared Registry. Configure overloads before the first Coerce; after that
// a Deserializer is safe for concurrent use.
type Deserializer struct {
	reg     *Registry
	root    *schema.Schema
	defs    map[string]*schema.Schema
	local   map[string]strategy.Strategy
	loadOpt LoadOpt
	policy  strategy.UnionPolicy
	log     *slog.Logger
}

// Option configures a Deserializer.
type Option func(*Deserializer)

// WithLoadOpt sets the loader options.
func WithLoadOpt(o LoadOpt) Option { return func(ds *Deserializer) { ds.loadOpt = o } }

// WithUnionPolicy selects how unions choose among matching branches.
func WithUnionPolicy(p strategy.UnionPolicy) Option {
	return func(ds *Deserializer) { ds.policy = p }
}

// WithDeserializerLogger sets the logger for coerce outcomes.
func WithDeserializerLogger(l *slog.Logger) Option {
	return func(ds *Deserializer) {
		if l != nil {
			ds.log = l
		}
	}
}

// NewDeserializer returns a Deserializer for root. A nil registry is treated
// as empty.
func NewDeserializer(reg *Registry, root *schema.Schema, opts ...Option) *Deserializer {
	if reg == nil {
		reg = NewRegistry()
	}
	ds := &Deserializer{
		reg:     reg,
		root:    root,
		local:   map[string]strategy.Strategy{},
		loadOpt: DefaultLoadOpt(),
		log:     slog.Default(),
	}
	if root != nil {
		ds.defs = root.Definitions()
	}
	for _, o := range opts {
		o(ds)
	}
	return ds
}

// Overload registers a local copy of the named enum or object with aliases
// merged in. The shared registration is left untouched.
func (ds *Deserializer) Overload(name string, aliases map[string]string) error {
	base, ok := ds.lookup(name)
	if !ok {
		return &ConfigError{Op: "overload", Name: name, Msg: "not registered"}
	}
	switch b := base.(type) {
	case *strategy.Enum:
		ds.local[name] = b.CopyWithAliases(aliases)
	case *strategy.Object:
		ds.local[name] = b.CopyWithAliases(aliases)
	default:
		return &ConfigError{Op: "overload", Name: name, Msg: "only enums and objects take aliases"}
	}
	return nil
}

func (ds *Deserializer) lookup(name string) (strategy.Strategy, bool) {
	if s, ok := ds.local[name]; ok {
		return s, true
	}
	return ds.reg.Lookup(name)
}

// Strategy resolves a schema fragment to its coercion strategy.
func (ds *Deserializer) Strategy(s *schema.Schema) (strategy.Strategy, error) {
	return ds.strategyFor(s, "", nil)
}

func (ds *Deserializer) resolve(s *schema.Schema) (strategy.Strategy, error) {
	return ds.strategyFor(s, "", nil)
}

// strategyFor dispatches on the fragment's shape. hint names an untitled
// fragment reached through a $ref; seen guards against $ref cycles.
func (ds *Deserializer) strategyFor(s *schema.Schema, hint string, seen map[string]bool) (strategy.Strategy, error) {
	if s == nil {
		return nil, &ConfigError{Op: "resolve", Msg: "nil schema"}
	}
	if s.IsBool() {
		return nil, &ConfigError{Op: "resolve", Name: hint, Msg: "boolean schema has no coercion"}
	}
	switch s.Kind() {
	case schema.KindRef:
		name, ok := schema.RefName(s.Ref)
		if !ok {
			return nil, &ConfigError{Op: "resolve", Name: s.Ref, Msg: "unsupported reference"}
		}
		if seen[name] {
			return nil, &ConfigError{Op: "resolve", Name: s.Ref, Msg: "reference cycle"}
		}
		target, ok := ds.defs[name]
		if !ok {
			return nil, &ConfigError{Op: "resolve", Name: s.Ref, Msg: "undefined reference"}
		}
		next := map[string]bool{name: true}
		for k := range seen {
			next[k] = true
		}
		return ds.strategyFor(target, name, next)
	case schema.KindEnum, schema.KindObject:
		name := s.Title
		if name == "" {
			name = hint
		}
		if name == "" {
			return nil, &ConfigError{Op: "resolve", Msg: s.Kind().String() + " schema has no title"}
		}
		if st, ok := ds.lookup(name); ok {
			return st, nil
		}
		return nil, &ConfigError{Op: "resolve", Name: name, Msg: "not registered"}
	case schema.KindString:
		return strategy.String, nil
	case schema.KindInteger:
		return strategy.Int, nil
	case schema.KindNumber:
		return strategy.Float, nil
	case schema.KindBoolean:
		return strategy.Bool, nil
	case schema.KindNull:
		return strategy.Null, nil
	case schema.KindArray:
		if s.Items == nil {
			return nil, &ConfigError{Op: "resolve", Name: s.Title, Msg: "array schema has no items"}
		}
		return strategy.NewList(s.Items), nil
	case schema.KindUnion:
		branches := s.Branches()
		if len(s.AnyOf) == 0 && s.Title == "" && hint != "" {
			for _, b := range branches {
				b.Title = hint
			}
		}
		if len(branches) == 2 {
			switch {
			case branches[1].Kind() == schema.KindNull:
				return strategy.NewOptional(branches[0]), nil
			case branches[0].Kind() == schema.KindNull:
				return strategy.NewOptional(branches[1]), nil
			}
		}
		return strategy.NewUnion(ds.policy, branches...), nil
	}
	return nil, &ConfigError{Op: "resolve", Name: s.Title, Msg: "unsupported schema shape"}
}

// Coerce loads raw, coerces it against the root schema and returns the value.
// Coercion failures are returned as *diag.DeserializeError, schema problems
// as *ConfigError.
func (ds *Deserializer) Coerce(ctx context.Context, raw any) (any, error) {
	v, _, err := ds.CoerceWithDiagnostics(ctx, raw)
	return v, err
}

// CoerceWithDiagnostics is Coerce that also returns the diagnostics, so
// callers can inspect warnings on success.
func (ds *Deserializer) CoerceWithDiagnostics(ctx context.Context, raw any) (any, *diag.Diagnostics, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	d := diag.New(rawText(raw))
	st, err := ds.Strategy(ds.root)
	if err != nil {
		return nil, d, err
	}
	n, err := Load(raw, d, ds.loadOpt)
	if err != nil {
		return nil, d, err
	}
	r, err := st.Coerce(n, d, ds.resolve)
	if err != nil {
		return nil, d, err
	}
	v, ok := r.Get()
	if !ok && !d.HasErrors() {
		d.PushUnknownError(diag.CodeNoValue, i18n.T(diag.CodeNoValue, nil))
	}
	if err := d.Err(); err != nil {
		ds.log.Debug("coerce failed", "strategy", st.Name(), "errors", len(d.Errors()), "warnings", len(d.Warnings()))
		return nil, d, err
	}
	ds.log.Debug("coerced", "strategy", st.Name(), "warnings", len(d.Warnings()))
	return v, d, nil
}

// CoerceInto coerces raw and decodes the result into T through JSON.
func CoerceInto[T any](ctx context.Context, ds *Deserializer, raw any) (T, error) {
	var out T
	v, err := ds.Coerce(ctx, raw)
	if err != nil {
		return out, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("coerce: encode result: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("coerce: decode into %T: %w", out, err)
	}
	return out, nil
}

// rawText renders raw for error reports.
func rawText(raw any) string {
	switch t := raw.(type) {
	case string:
		return t
	case nil:
		return ""
	}
	if b, err := json.Marshal(raw); err == nil {
		return string(b)
	}
	return fmt.Sprint(raw)
}
