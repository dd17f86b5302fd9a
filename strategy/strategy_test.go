package strategy_test

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/reoring/coerce/diag"
	"github.com/reoring/coerce/schema"
	"github.com/reoring/coerce/strategy"
	"github.com/reoring/coerce/value"
)

func resolverFor(named ...strategy.Strategy) strategy.Resolver {
	byName := map[string]strategy.Strategy{}
	for _, s := range named {
		byName[s.Name()] = s
	}
	var resolve strategy.Resolver
	resolve = func(s *schema.Schema) (strategy.Strategy, error) {
		switch s.Kind() {
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
		case schema.KindEnum, schema.KindObject:
			if st, ok := byName[s.Title]; ok {
				return st, nil
			}
		case schema.KindArray:
			return strategy.NewList(s.Items), nil
		case schema.KindUnion:
			return strategy.NewUnion(strategy.UnionFirstMatch, s.Branches()...), nil
		}
		return nil, fmt.Errorf("unsupported schema %q (%v)", s.Title, s.Kind())
	}
	return resolve
}

func typ(t string) *schema.Schema { return &schema.Schema{Type: schema.Types{t}} }

func codes(is diag.Issues) []string {
	var out []string
	for _, it := range is {
		out = append(out, it.Code)
	}
	return out
}

func mustGet(t *testing.T, r strategy.Result) any {
	t.Helper()
	v, ok := r.Get()
	if !ok {
		t.Fatalf("expected a value")
	}
	return v
}

func TestEnum(t *testing.T) {
	e := strategy.NewEnum("Num", []string{"ONE", "TWO", "SINGLE_ITEM"}, map[string]string{"uno": "ONE", "deux": "TWO"})
	cases := []struct {
		name string
		in   string
		want string
		code string
	}{
		{"exact", "ONE", "ONE", ""},
		{"case-insensitive", "one", "ONE", ""},
		{"quoted", `"two"`, "TWO", ""},
		{"alias", "Uno", "ONE", ""},
		{"answer suffix", "Let me think. Two is tempting, but one fits. Answer: two", "TWO", ""},
		{"paragraph suffix", "ONE and TWO are both options\n\nTWO", "TWO", ""},
		{"normalized", "single item", "SINGLE_ITEM", ""},
		{"normalized dashes", "Single-Item", "SINGLE_ITEM", ""},
		{"frequency", "the answer is uno: it is clearly uno, definitely not deux", "ONE", ""},
		{"frequency tie", "sorry dave, not sure if the answer is uno or deux", "", diag.CodeEnumAmbiguous},
		{"frequency tie on one member", "I would say one, i.e. uno", "ONE", ""},
		{"frequency rival behind", "one, i.e. uno, or one; maybe two", "ONE", ""},
		{"no match", "citronella", "", diag.CodeInvalidEnum},
		{"word boundary", "someone twofold", "", diag.CodeInvalidEnum},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := diag.New(tc.in)
			r, err := e.Coerce(value.Plain(tc.in), d, nil)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			v, ok := r.Get()
			if tc.code == "" {
				if !ok || v != tc.want {
					t.Fatalf("got %v,%v want %q (errors %v)", v, ok, tc.want, d.Errors())
				}
				return
			}
			if ok {
				t.Fatalf("expected failure, got %v", v)
			}
			if got := codes(d.Errors()); len(got) != 1 || got[0] != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, got)
			}
		})
	}
}

func TestEnum_CopyWithAliasesFillsGapsOnly(t *testing.T) {
	base := strategy.NewEnum("Num", []string{"ONE", "TWO"}, map[string]string{"uno": "ONE"})
	over := base.CopyWithAliases(map[string]string{"UNO": "TWO", "dos": "TWO"})

	check := func(e *strategy.Enum, in string) (any, bool) {
		r, _ := e.Coerce(value.Plain(in), diag.New(in), nil)
		return r.Get()
	}
	if v, _ := check(over, "uno"); v != "ONE" {
		t.Fatalf("existing alias must not be overridden, got %v", v)
	}
	if v, _ := check(over, "dos"); v != "TWO" {
		t.Fatalf("new alias must be added, got %v", v)
	}
	if _, ok := check(base, "dos"); ok {
		t.Fatalf("base enum must not see the overload")
	}

	members := strategy.NewEnum("Num", []string{"ONE", "TWO"}, nil).CopyWithAliases(map[string]string{"one": "TWO"})
	if v, _ := check(members, "one"); v != "ONE" {
		t.Fatalf("an overload must not re-target a member name, got %v", v)
	}
}

func TestObject(t *testing.T) {
	fields := []schema.Property{
		{Name: "foo", Schema: typ("string")},
		{Name: "note", Schema: typ("string")},
	}
	o := strategy.NewObject("Thing", fields, []string{"foo"}, map[string]string{"the_foo": "foo"})
	resolve := resolverFor(o)

	t.Run("unknown keys warn and omitted fields are null", func(t *testing.T) {
		in := value.NewMapping(
			value.Pair{Key: value.Plain("Foo"), Value: value.Plain("bar")},
			value.Pair{Key: value.Plain("extra"), Value: value.Int(1)},
		)
		d := diag.New("")
		r, err := o.Coerce(in, d, resolve)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		want := map[string]any{"foo": "bar", "note": nil}
		if got := mustGet(t, r); !reflect.DeepEqual(got, want) {
			t.Fatalf("got %#v want %#v", got, want)
		}
		if d.HasErrors() || !reflect.DeepEqual(codes(d.Warnings()), []string{diag.CodeUnknownKey}) {
			t.Fatalf("unexpected diagnostics: errors=%v warnings=%v", d.Errors(), d.Warnings())
		}
	})

	t.Run("alias key", func(t *testing.T) {
		in := value.NewMapping(value.Pair{Key: value.Plain("THE_FOO"), Value: value.Plain("x")})
		r, _ := o.Coerce(in, diag.New(""), resolve)
		if got := mustGet(t, r).(map[string]any)["foo"]; got != "x" {
			t.Fatalf("alias not resolved: %v", got)
		}
	})

	t.Run("missing required names the field", func(t *testing.T) {
		in := value.NewMapping(value.Pair{Key: value.Plain("bar"), Value: value.Plain("test")})
		d := diag.New(`{"bar":"test"}`)
		r, _ := o.Coerce(in, d, resolve)
		if _, ok := r.Get(); ok {
			t.Fatalf("expected failure")
		}
		errs := d.Errors()
		if len(errs) != 1 || errs[0].Code != diag.CodeRequired || !strings.Contains(errs[0].Message, "foo") {
			t.Fatalf("unexpected errors: %v", errs)
		}
	})

	t.Run("field failure stays hard", func(t *testing.T) {
		strict := strategy.NewObject("Strict", []schema.Property{{Name: "n", Schema: typ("integer")}}, nil, nil)
		in := value.NewMapping(value.Pair{Key: value.Plain("n"), Value: value.Plain("many")})
		d := diag.New("")
		r, _ := strict.Coerce(in, d, resolverFor(strict))
		if _, ok := r.Get(); !ok {
			t.Fatalf("object without required fields still yields a value")
		}
		errs := d.Errors()
		if len(errs) != 1 || errs[0].Path != "n" || errs[0].Code != diag.CodeInvalidType {
			t.Fatalf("expected hard invalid_type at n, got %v", errs)
		}
	})

	t.Run("enum failure carries the field path", func(t *testing.T) {
		color := strategy.NewEnum("Color", []string{"RED"}, nil)
		obj := strategy.NewObject("Paint", []schema.Property{{Name: "color", Schema: &schema.Schema{Title: "Color", Enum: []string{"RED"}}}}, nil, nil)
		in := value.NewMapping(value.Pair{Key: value.Plain("color"), Value: value.Plain("purple")})
		d := diag.New("")
		if _, err := obj.Coerce(in, d, resolverFor(obj, color)); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		errs := d.Errors()
		if len(errs) != 1 || errs[0].Path != "color" || errs[0].Code != diag.CodeInvalidEnum {
			t.Fatalf("expected invalid_enum at color, got %v", errs)
		}
	})
}

func TestObject_CopyWithAliases(t *testing.T) {
	base := strategy.NewObject("T", []schema.Property{{Name: "a", Schema: typ("string")}, {Name: "b", Schema: typ("string")}}, nil, map[string]string{"x": "a"})
	over := base.CopyWithAliases(map[string]string{"X": "b", "y": "b", "A": "b"})
	in := value.NewMapping(
		value.Pair{Key: value.Plain("x"), Value: value.Plain("1")},
		value.Pair{Key: value.Plain("y"), Value: value.Plain("2")},
	)
	r, _ := over.Coerce(in, diag.New(""), resolverFor(over))
	want := map[string]any{"a": "1", "b": "2"}
	if got := mustGet(t, r); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}

	r, _ = over.Coerce(value.NewMapping(value.Pair{Key: value.Plain("a"), Value: value.Plain("3")}), diag.New(""), resolverFor(over))
	want = map[string]any{"a": "3", "b": nil}
	if got := mustGet(t, r); !reflect.DeepEqual(got, want) {
		t.Fatalf("an overload must not re-target a field name, got %#v", got)
	}
}

func TestList_DropsFailingElements(t *testing.T) {
	e := strategy.NewEnum("Num", []string{"ONE", "TWO"}, nil)
	l := strategy.NewList(&schema.Schema{Title: "Num", Enum: []string{"ONE", "TWO"}})
	in := value.NewSequence(value.Plain("ONE"), value.Plain("THREE"), value.Plain("TWO"))
	d := diag.New("")
	r, err := l.Coerce(in, d, resolverFor(e))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := mustGet(t, r); !reflect.DeepEqual(got, []any{"ONE", "TWO"}) {
		t.Fatalf("got %#v", got)
	}
	ws := d.Warnings()
	if d.HasErrors() || len(ws) != 1 || ws[0].Path != "1" {
		t.Fatalf("expected one demoted warning at index 1, got errors=%v warnings=%v", d.Errors(), ws)
	}
}

func TestOptional_NeverFails(t *testing.T) {
	opt := strategy.NewOptional(typ("integer"))
	for _, in := range []value.Node{value.Absent{}, value.Plain("not a number")} {
		d := diag.New("")
		r, err := opt.Coerce(in, d, resolverFor())
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if v := mustGet(t, r); v != nil {
			t.Fatalf("expected null, got %v", v)
		}
		if d.HasErrors() {
			t.Fatalf("optional must not record hard errors: %v", d.Errors())
		}
	}
	r, _ := opt.Coerce(value.Int(7), diag.New(""), resolverFor())
	if v := mustGet(t, r); v != int64(7) {
		t.Fatalf("expected 7, got %#v", v)
	}
}

func TestUnion_Policies(t *testing.T) {
	e := strategy.NewEnum("Num", []string{"ONE", "TWO"}, nil)
	branches := []*schema.Schema{typ("string"), {Title: "Num", Enum: []string{"ONE", "TWO"}}}

	first := strategy.NewUnion(strategy.UnionFirstMatch, branches...)
	r, _ := first.Coerce(value.Plain("one"), diag.New(""), resolverFor(e))
	if v := mustGet(t, r); v != "one" {
		t.Fatalf("first match must take the declared-first branch, got %v", v)
	}

	best := strategy.NewUnion(strategy.UnionRankBest, branches...)
	r, _ = best.Coerce(value.Plain("one"), diag.New(""), resolverFor(e))
	if v := mustGet(t, r); v != "ONE" {
		t.Fatalf("rank best must prefer the enum, got %v", v)
	}

	d := diag.New("")
	nums := strategy.NewUnion(strategy.UnionFirstMatch, typ("integer"), typ("boolean"))
	r, _ = nums.Coerce(value.Plain("neither"), d, resolverFor())
	if _, ok := r.Get(); ok {
		t.Fatalf("expected no match")
	}
	if got := codes(d.Errors()); !reflect.DeepEqual(got, []string{diag.CodeUnionNoMatch}) {
		t.Fatalf("unexpected errors %v", got)
	}
	if len(d.Warnings()) != 2 {
		t.Fatalf("expected one demoted warning per branch, got %v", d.Warnings())
	}
}

func TestPrimitives(t *testing.T) {
	cases := []struct {
		name string
		s    strategy.Strategy
		in   value.Node
		want any
		ok   bool
	}{
		{"int from text", strategy.Int, value.Plain("42"), int64(42), true},
		{"int rounds half away from zero", strategy.Int, value.Float(2.5), int64(3), true},
		{"int rounds negative", strategy.Int, value.Float(-2.5), int64(-3), true},
		{"int overflow", strategy.Int, value.Float(1e300), nil, false},
		{"int just past int64", strategy.Int, value.Float(9.3e18), nil, false},
		{"int from fractional text", strategy.Int, value.Plain("7.49"), int64(7), true},
		{"float from bool", strategy.Float, value.Bool(true), 1.0, true},
		{"bool from number", strategy.Bool, value.Int(0), false, true},
		{"bool from prose", strategy.Bool, value.Plain("maybe"), nil, false},
		{"string from number", strategy.String, value.Int(5), "5", true},
		{"string from absent", strategy.String, value.Absent{}, nil, false},
		{"null accepts anything", strategy.Null, value.Plain("x"), nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := diag.New("")
			r, err := tc.s.Coerce(tc.in, d, nil)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			v, ok := r.Get()
			if ok != tc.ok || (ok && v != tc.want) {
				t.Fatalf("got %#v,%v want %#v,%v", v, ok, tc.want, tc.ok)
			}
			if !ok && !reflect.DeepEqual(codes(d.Errors()), []string{diag.CodeInvalidType}) {
				t.Fatalf("expected invalid_type, got %v", d.Errors())
			}
		})
	}
}

func TestResolverErrorsPropagate(t *testing.T) {
	l := strategy.NewList(&schema.Schema{Title: "Missing", Enum: []string{"A"}})
	if _, err := l.Coerce(value.NewSequence(value.Plain("A")), diag.New(""), resolverFor()); err == nil {
		t.Fatalf("expected configuration error from resolver")
	}
}
