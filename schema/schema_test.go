package schema_test

import (
	"testing"

	"github.com/reoring/coerce/schema"
)

const doc = `{
  "title": "Answer",
  "type": "object",
  "properties": {
    "zeta": {"type": "string"},
    "alpha": {"$ref": "#/$defs/Color"},
    "tags": {"type": "array", "items": {"type": "string"}},
    "note": {"type": ["string", "null"]},
    "any": true
  },
  "required": ["zeta"],
  "$defs": {
    "Color": {"title": "Color", "enum": ["RED", "GREEN", null]}
  },
  "definitions": {
    "Shape": {"title": "Shape", "anyOf": [{"type": "integer"}, {"type": "number"}]}
  }
}`

const yamlDoc = `
title: Answer
type: object
properties:
  zeta:
    type: string
  alpha:
    $ref: "#/$defs/Color"
  tags:
    type: array
    items:
      type: string
  note:
    type: [string, "null"]
  any: true
required: [zeta]
$defs:
  Color:
    title: Color
    enum: [RED, GREEN, null]
definitions:
  Shape:
    title: Shape
    anyOf:
      - type: integer
      - type: number
`

func TestParse_JSONAndYAMLAgree(t *testing.T) {
	js, err := schema.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	ys, err := schema.ParseYAML([]byte(yamlDoc))
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	for name, s := range map[string]*schema.Schema{"json": js, "yaml": ys} {
		t.Run(name, func(t *testing.T) {
			if s.Title != "Answer" || s.Kind() != schema.KindObject {
				t.Fatalf("unexpected root: %q %v", s.Title, s.Kind())
			}
			var names []string
			for _, p := range s.Properties {
				names = append(names, p.Name)
			}
			want := []string{"zeta", "alpha", "tags", "note", "any"}
			if len(names) != len(want) {
				t.Fatalf("properties = %v", names)
			}
			for i := range want {
				if names[i] != want[i] {
					t.Fatalf("property order lost: %v", names)
				}
			}
			kinds := []schema.Kind{schema.KindString, schema.KindRef, schema.KindArray, schema.KindUnion, schema.KindUnknown}
			for i, k := range kinds {
				if got := s.Properties[i].Schema.Kind(); got != k {
					t.Fatalf("%s kind = %v want %v", s.Properties[i].Name, got, k)
				}
			}
			if !s.Properties[4].Schema.IsBool() {
				t.Fatalf("boolean schema not detected")
			}
			defs := s.Definitions()
			color := defs["Color"]
			if color == nil || color.Kind() != schema.KindEnum || len(color.Enum) != 2 {
				t.Fatalf("enum def not decoded: %#v", color)
			}
			if shape := defs["Shape"]; shape == nil || shape.Kind() != schema.KindUnion || len(shape.Branches()) != 2 {
				t.Fatalf("union def not decoded: %#v", shape)
			}
		})
	}
}

func TestBranches_TypeList(t *testing.T) {
	s := &schema.Schema{Title: "Box", Type: schema.Types{"object", "null"}}
	bs := s.Branches()
	if len(bs) != 2 || bs[0].Kind() != schema.KindObject || bs[1].Kind() != schema.KindNull {
		t.Fatalf("unexpected branches: %#v", bs)
	}
	if bs[0].Title != "Box" || len(s.Type) != 2 {
		t.Fatalf("branch copy must keep title and leave the original intact")
	}
}

func TestRefName(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"#/$defs/Color", "Color", true},
		{"#/definitions/Shape", "Shape", true},
		{"Plain", "Plain", true},
		{"#/properties/x", "", false},
		{"#/$defs/", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := schema.RefName(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("RefName(%q) = %q,%v want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParse_RejectsBadType(t *testing.T) {
	if _, err := schema.Parse([]byte(`{"type": 3}`)); err == nil {
		t.Fatalf("expected error for numeric type")
	}
	if _, err := schema.Parse([]byte(`{"properties": []}`)); err == nil {
		t.Fatalf("expected error for array properties")
	}
}

func TestDefinitions_DefsWinOverLegacy(t *testing.T) {
	s, err := schema.Parse([]byte(`{
  "$defs": {"Color": {"title": "Color", "enum": ["RED"]}},
  "definitions": {
    "Color": {"title": "Color", "enum": ["BLUE"]},
    "Shape": {"title": "Shape", "enum": ["CIRCLE"]}
  }
}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(s.Defs) != 1 || len(s.LegacyDefs) != 2 {
		t.Fatalf("unexpected split: $defs=%d definitions=%d", len(s.Defs), len(s.LegacyDefs))
	}
	defs := s.Definitions()
	if got := defs["Color"].Enum; len(got) != 1 || got[0] != "RED" {
		t.Fatalf("$defs must win, got %v", got)
	}
	if defs["Shape"] == nil {
		t.Fatalf("legacy definitions must be merged")
	}
}
