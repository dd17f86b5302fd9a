package value_test

import (
	"strings"
	"testing"

	"github.com/reoring/coerce/value"
)

func TestPrimitiveViews(t *testing.T) {
	cases := []struct {
		name string
		n    value.Node
		text string
		num  float64
		b    bool
	}{
		{"true", value.Bool(true), "true", 1, true},
		{"false", value.Bool(false), "false", 0, false},
		{"int", value.Int(42), "42", 42, true},
		{"zero", value.Int(0), "0", 0, false},
		{"float", value.Float(1.5), "1.5", 1.5, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if s, ok := tc.n.AsText(false); !ok || s != tc.text {
				t.Fatalf("AsText = %q,%v want %q", s, ok, tc.text)
			}
			if f, ok := tc.n.AsNumber(); !ok || f != tc.num {
				t.Fatalf("AsNumber = %v,%v want %v", f, ok, tc.num)
			}
			if b, ok := tc.n.AsBool(); !ok || b != tc.b {
				t.Fatalf("AsBool = %v,%v want %v", b, ok, tc.b)
			}
			if seq := tc.n.AsSequence(); len(seq) != 1 {
				t.Fatalf("scalar must view as 1-element sequence, got %d", len(seq))
			}
			if m := tc.n.AsMapping(); len(m) != 1 || m[0].Key != nil {
				t.Fatalf("scalar must view as a single keyless pair, got %#v", m)
			}
		})
	}
}

func TestAbsentViews(t *testing.T) {
	var n value.Node = value.Absent{}
	if _, ok := n.AsText(false); ok {
		t.Fatalf("absent has no text")
	}
	if _, ok := n.AsNumber(); ok {
		t.Fatalf("absent has no number")
	}
	if len(n.AsSequence()) != 0 || len(n.AsMapping()) != 0 {
		t.Fatalf("absent must view as empty sequence and mapping")
	}
}

func TestTextSmartTextStripsQuotes(t *testing.T) {
	for in, want := range map[string]string{
		`  "ONE" `: "ONE",
		`'two'`:    "two",
		"`three`":  "three",
		`"half`:    `"half`,
		`x`:        "x",
	} {
		got, ok := value.Plain(in).AsSmartText(false)
		if !ok || got != want {
			t.Fatalf("AsSmartText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTextLiteralScalars(t *testing.T) {
	if f, ok := value.Plain(" 3.25 ").AsNumber(); !ok || f != 3.25 {
		t.Fatalf("numeric text not parsed: %v %v", f, ok)
	}
	if _, ok := value.Plain("three").AsNumber(); ok {
		t.Fatalf("prose must not parse as a number")
	}
	if b, ok := value.Plain("TRUE").AsBool(); !ok || !b {
		t.Fatalf("bool text not parsed")
	}
	if _, ok := value.Plain("yes").AsBool(); ok {
		t.Fatalf("only true/false parse as bool")
	}
}

func TestTextConsultsAlternates(t *testing.T) {
	obj := value.NewMapping(value.Pair{Key: value.Plain("foo"), Value: value.Plain("bar")})
	list := value.NewSequence(value.Int(1), value.Int(2))
	inner := value.NewSequence(value.Plain(`"ONE"`))

	withObj := value.NewText(`see {"foo":"bar"}`, obj, nil, nil)
	if m := withObj.AsMapping(); len(m) != 1 || m[0].Key == nil {
		t.Fatalf("mapping view must use as_obj: %#v", m)
	}
	if seq := withObj.AsSequence(); len(seq) != 1 || seq[0] != value.Node(obj) {
		t.Fatalf("sequence view must wrap as_obj")
	}

	withList := value.NewText(`nums [1,2]`, obj, list, nil)
	if seq := withList.AsSequence(); len(seq) != 2 {
		t.Fatalf("sequence view must prefer as_list, got %d", len(seq))
	}

	withInner := value.NewText("```json\n\"ONE\"\n```", nil, nil, inner)
	if s, _ := withInner.AsSmartText(true); s != "ONE" {
		t.Fatalf("inner smart text must delegate through single-element sequence, got %q", s)
	}
	if s, _ := withInner.AsText(false); !strings.HasPrefix(s, "```json") {
		t.Fatalf("outer text must stay literal, got %q", s)
	}
}

func TestMappingTextPreservesOrder(t *testing.T) {
	m := value.NewMapping(
		value.Pair{Key: value.Plain("z"), Value: value.Int(1)},
		value.Pair{Key: value.Plain("a"), Value: value.NewSequence(value.Bool(true), value.Absent{})},
	)
	s, ok := m.AsText(false)
	if !ok || s != `{"z":1,"a":[true,null]}` {
		t.Fatalf("unexpected mapping text %q", s)
	}
	if seq := m.AsSequence(); len(seq) != 1 {
		t.Fatalf("mapping must view as 1-element sequence")
	}
	if _, ok := m.AsNumber(); ok {
		t.Fatalf("mapping has no number view")
	}
}

func TestDump(t *testing.T) {
	n := value.NewText("x {\"a\":1}", value.NewMapping(value.Pair{Key: value.Plain("a"), Value: value.Int(1)}), nil, nil)
	out := value.Dump(n)
	for _, want := range []string{"text", "as_obj:", "mapping[1]", "int64(1)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dump missing %q:\n%s", want, out)
		}
	}
}
