package value

import (
	"fmt"
	"strings"
)

// Dump renders n and its alternates as an indented tree for debugging.
func Dump(n Node) string {
	var b strings.Builder
	dump(&b, n, 0)
	return b.String()
}

func dump(b *strings.Builder, n Node, depth int) {
	pad := strings.Repeat("  ", depth)
	switch v := n.(type) {
	case nil, Absent:
		fmt.Fprintf(b, "%sabsent\n", pad)
	case Primitive:
		fmt.Fprintf(b, "%s%T(%v)\n", pad, v.v, v.v)
	case *Text:
		fmt.Fprintf(b, "%stext %q\n", pad, v.val)
		for _, alt := range []struct {
			label string
			n     Node
		}{{"as_obj", v.asObj}, {"as_list", v.asList}, {"as_inner", v.asInner}} {
			if alt.n != nil {
				fmt.Fprintf(b, "%s  %s:\n", pad, alt.label)
				dump(b, alt.n, depth+2)
			}
		}
	case *Sequence:
		fmt.Fprintf(b, "%ssequence[%d]\n", pad, len(v.items))
		for _, it := range v.items {
			dump(b, it, depth+1)
		}
	case *Mapping:
		fmt.Fprintf(b, "%smapping[%d]\n", pad, len(v.pairs))
		for _, p := range v.pairs {
			key := "<absent>"
			if p.Key != nil {
				key, _ = p.Key.AsText(false)
			}
			fmt.Fprintf(b, "%s  %q:\n", pad, key)
			dump(b, p.Value, depth+2)
		}
	default:
		fmt.Fprintf(b, "%s%T\n", pad, n)
	}
}

func (Absent) String() string      { return Dump(Absent{}) }
func (p Primitive) String() string { return Dump(p) }
func (t *Text) String() string     { return Dump(t) }
func (s *Sequence) String() string { return Dump(s) }
func (m *Mapping) String() string  { return Dump(m) }
