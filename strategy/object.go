package strategy

import (
	"strings"

	"github.com/reoring/coerce/diag"
	"github.com/reoring/coerce/i18n"
	"github.com/reoring/coerce/schema"
	"github.com/reoring/coerce/value"
)

// Object coerces a mapping view into map[string]any keyed by declared field
// names. Unknown keys are warnings; field failures stay hard; every declared
// field is present in the result, null when the input omitted it.
type Object struct {
	name     string
	fields   []schema.Property
	byName   map[string]int // folded field name -> index in fields
	required []string
	aliases  map[string]string // as registered, original spelling
	folded   map[string]string // folded alias -> field name
}

// NewObject builds an object strategy. aliases maps an alternate key
// spelling to a declared field name.
func NewObject(name string, fields []schema.Property, required []string, aliases map[string]string) *Object {
	o := &Object{
		name:     name,
		fields:   append([]schema.Property(nil), fields...),
		byName:   make(map[string]int, len(fields)),
		required: append([]string(nil), required...),
		aliases:  make(map[string]string, len(aliases)),
		folded:   make(map[string]string, len(aliases)),
	}
	for i, f := range o.fields {
		o.byName[fold(f.Name)] = i
	}
	for k, v := range aliases {
		o.aliases[k] = v
		o.folded[fold(k)] = v
	}
	return o
}

func (o *Object) Name() string { return o.name }
func (o *Object) Rank() int    { return RankObject }

// Fields returns the declared fields in order.
func (o *Object) Fields() []schema.Property { return append([]schema.Property(nil), o.fields...) }

// CopyWithAliases returns a new Object with aliases merged in. Field names and
// aliases already present on o are kept; new ones only fill gaps.
func (o *Object) CopyWithAliases(aliases map[string]string) *Object {
	merged := make(map[string]string, len(o.aliases)+len(aliases))
	for k, v := range o.aliases {
		merged[k] = v
	}
	for k, v := range aliases {
		if _, ok := o.folded[fold(k)]; ok {
			continue
		}
		if _, ok := o.byName[fold(k)]; ok {
			continue
		}
		merged[k] = v
	}
	return NewObject(o.name, o.fields, o.required, merged)
}

func (o *Object) Coerce(n value.Node, d *diag.Diagnostics, resolve Resolver) (Result, error) {
	out := make(map[string]any, len(o.fields))
	for _, p := range n.AsMapping() {
		if p.Key == nil || p.Key.Kind() != value.KindText {
			d.PushUnknownWarning(diag.CodeUnknownKey, i18n.T(diag.CodeUnknownKey, map[string]string{"key": keyLabel(p.Key)}))
			continue
		}
		key, _ := p.Key.AsText(false)
		name, ok := o.folded[fold(key)]
		if !ok {
			name = key
		}
		idx, ok := o.byName[fold(name)]
		if !ok {
			d.PushUnknownWarning(diag.CodeUnknownKey, i18n.T(diag.CodeUnknownKey, map[string]string{"key": key}))
			continue
		}
		field := o.fields[idx]
		s, err := resolve(field.Schema)
		if err != nil {
			return None(), err
		}
		d.PushScope(field.Name)
		r, err := s.Coerce(p.Value, d, resolve)
		d.PopScope(false)
		if err != nil {
			return None(), err
		}
		if v, ok := r.Get(); ok {
			out[field.Name] = v
		}
	}

	var missing []string
	for _, req := range o.required {
		if _, ok := out[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		d.PushUnknownError(diag.CodeRequired, i18n.T(diag.CodeRequired, map[string]string{"fields": strings.Join(missing, ", ")}))
		return None(), nil
	}
	for _, f := range o.fields {
		if _, ok := out[f.Name]; !ok {
			out[f.Name] = nil
		}
	}
	return Some(out), nil
}

func keyLabel(k value.Node) string {
	if k == nil {
		return "<absent>"
	}
	return describe(k)
}
