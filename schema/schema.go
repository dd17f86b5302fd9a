// Package schema holds the read-only schema fragments that drive coercion.
//
// Fragments use a JSON Schema subset: type (string or list), ordered
// properties, required, enum, items, anyOf/oneOf, $ref and $defs/definitions.
// Boolean schema literals decode into a fragment whose IsBool reports true.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Kind classifies a fragment for strategy dispatch.
type Kind int

const (
	KindUnknown Kind = iota
	KindRef
	KindEnum
	KindObject
	KindArray
	KindUnion
	KindString
	KindInteger
	KindNumber
	KindBoolean
	KindNull
)

var kindNames = [...]string{"unknown", "ref", "enum", "object", "array", "union", "string", "integer", "number", "boolean", "null"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Types is the JSON Schema "type" keyword: a single name or a list.
type Types []string

// Property is one declared object field, kept in document order.
type Property struct {
	Name   string
	Schema *Schema
}

// Schema is one schema fragment.
type Schema struct {
	Title       string
	Description string
	Type        Types
	Properties  []Property
	Required    []string
	Enum        []string
	Items       *Schema
	AnyOf       []*Schema
	Ref         string
	Defs        map[string]*Schema // $defs
	LegacyDefs  map[string]*Schema // definitions

	boolean *bool
}

// Bool returns the boolean schema literal.
func Bool(b bool) *Schema { return &Schema{boolean: &b} }

// IsBool reports whether the fragment is a boolean schema literal.
func (s *Schema) IsBool() bool { return s != nil && s.boolean != nil }

// Parse decodes a JSON schema document.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return &s, nil
}

// Kind classifies the fragment. A $ref wins over everything else, then enum,
// then anyOf or a multi-member type list.
func (s *Schema) Kind() Kind {
	switch {
	case s == nil || s.IsBool():
		return KindUnknown
	case s.Ref != "":
		return KindRef
	case len(s.Enum) > 0:
		return KindEnum
	case len(s.AnyOf) > 0 || len(s.Type) > 1:
		return KindUnion
	}
	if len(s.Type) == 1 {
		switch s.Type[0] {
		case "object":
			return KindObject
		case "array":
			return KindArray
		case "string":
			return KindString
		case "integer":
			return KindInteger
		case "number":
			return KindNumber
		case "boolean":
			return KindBoolean
		case "null":
			return KindNull
		}
		return KindUnknown
	}
	switch {
	case len(s.Properties) > 0:
		return KindObject
	case s.Items != nil:
		return KindArray
	}
	return KindUnknown
}

// Branches returns the alternatives of a union fragment: the anyOf entries, or
// one copy of the fragment per member of its type list.
func (s *Schema) Branches() []*Schema {
	if len(s.AnyOf) > 0 {
		return s.AnyOf
	}
	out := make([]*Schema, 0, len(s.Type))
	for _, t := range s.Type {
		cp := *s
		cp.Type = Types{t}
		out = append(out, &cp)
	}
	return out
}

// Definitions merges $defs and definitions; $defs wins on conflicts.
func (s *Schema) Definitions() map[string]*Schema {
	out := make(map[string]*Schema, len(s.Defs)+len(s.LegacyDefs))
	for k, v := range s.LegacyDefs {
		out[k] = v
	}
	for k, v := range s.Defs {
		out[k] = v
	}
	return out
}

// RefName extracts the definition name from a local reference. It accepts
// "#/$defs/X", "#/definitions/X" and a bare "X".
func RefName(ref string) (string, bool) {
	for _, p := range []string{"#/$defs/", "#/definitions/"} {
		if name, ok := strings.CutPrefix(ref, p); ok {
			return name, name != ""
		}
	}
	if ref == "" || strings.ContainsAny(ref, "#/") {
		return "", false
	}
	return ref, true
}

type rawSchema struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Type        Types              `json:"type"`
	Properties  json.RawMessage    `json:"properties"`
	Required    []string           `json:"required"`
	Enum        []any              `json:"enum"`
	Items       *Schema            `json:"items"`
	AnyOf       []*Schema          `json:"anyOf"`
	OneOf       []*Schema          `json:"oneOf"`
	Ref         string             `json:"$ref"`
	Defs        map[string]*Schema `json:"$defs"`
	Definitions map[string]*Schema `json:"definitions"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Schema) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true":
		*s = *Bool(true)
		return nil
	case "false":
		*s = *Bool(false)
		return nil
	}
	var raw rawSchema
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	props, err := decodeProperties(raw.Properties)
	if err != nil {
		return err
	}
	*s = Schema{
		Title:       raw.Title,
		Description: raw.Description,
		Type:        raw.Type,
		Properties:  props,
		Required:    raw.Required,
		Enum:        enumNames(raw.Enum),
		Items:       raw.Items,
		AnyOf:       append(raw.AnyOf, raw.OneOf...),
		Ref:         raw.Ref,
		Defs:        raw.Defs,
		LegacyDefs:  raw.Definitions,
	}
	return nil
}

func decodeProperties(data json.RawMessage) ([]Property, error) {
	if len(data) == 0 || string(bytes.TrimSpace(data)) == "null" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("properties must be an object")
	}
	var out []Property
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected property key %v", kt)
		}
		ps := new(Schema)
		if err := dec.Decode(ps); err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		out = append(out, Property{Name: name, Schema: ps})
	}
	return out, nil
}

// enumNames keeps string members as-is, renders other scalars and drops null.
func enumNames(vals []any) []string {
	if len(vals) == 0 {
		return nil
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		switch t := v.(type) {
		case nil:
		case string:
			out = append(out, t)
		default:
			out = append(out, fmt.Sprint(t))
		}
	}
	return out
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Types) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*t = nil
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*t = Types{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("type must be a string or a list of strings: %w", err)
	}
	*t = Types(many)
	return nil
}
