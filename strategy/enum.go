package strategy

import (
	"sort"
	"strings"

	"github.com/reoring/coerce/diag"
	"github.com/reoring/coerce/i18n"
	"github.com/reoring/coerce/value"
)

type aliasEntry struct {
	alias  string // folded spelling matched against input
	target string // canonical member name
}

// Enum matches free text against member names and aliases.
//
// Matching runs in order: exact alias, answer suffix (": X" or a paragraph
// break followed by X), the same two against alphanumeric-normalised text,
// then whole-word frequency on the plain and normalised text. Equal top
// frequencies fail as ambiguous rather than guessing.
type Enum struct {
	name    string
	members []string
	aliases map[string]string // as registered, original spelling

	exact      []aliasEntry
	normalized []aliasEntry
}

// NewEnum builds an enum strategy. aliases maps an alternate spelling to a
// member name; an alias that folds to a member's name replaces it.
func NewEnum(name string, members []string, aliases map[string]string) *Enum {
	e := &Enum{
		name:    name,
		members: append([]string(nil), members...),
		aliases: make(map[string]string, len(aliases)),
	}
	for k, v := range aliases {
		e.aliases[k] = v
	}
	e.build()
	return e
}

func (e *Enum) build() {
	index := map[string]int{}
	var entries []aliasEntry
	add := func(alias, target string) {
		k := fold(alias)
		if i, ok := index[k]; ok {
			entries[i].target = target
			return
		}
		index[k] = len(entries)
		entries = append(entries, aliasEntry{alias: k, target: target})
	}
	for _, m := range e.members {
		add(m, m)
	}
	keys := make([]string, 0, len(e.aliases))
	for k := range e.aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		add(k, e.aliases[k])
	}
	e.exact = entries

	seen := map[string]bool{}
	e.normalized = e.normalized[:0]
	for _, en := range entries {
		k := normalize(en.alias)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		e.normalized = append(e.normalized, aliasEntry{alias: k, target: en.target})
	}
}

func (e *Enum) Name() string { return e.name }
func (e *Enum) Rank() int    { return RankEnum }

// Members returns the declared member names.
func (e *Enum) Members() []string { return append([]string(nil), e.members...) }

// CopyWithAliases returns a new Enum with aliases merged in. Member names and
// aliases already present on e are kept; new ones only fill gaps.
func (e *Enum) CopyWithAliases(aliases map[string]string) *Enum {
	merged := make(map[string]string, len(e.aliases)+len(aliases))
	present := map[string]bool{}
	for _, m := range e.members {
		present[fold(m)] = true
	}
	for k, v := range e.aliases {
		merged[k] = v
		present[fold(k)] = true
	}
	for k, v := range aliases {
		if present[fold(k)] {
			continue
		}
		merged[k] = v
	}
	return NewEnum(e.name, e.members, merged)
}

func (e *Enum) Coerce(n value.Node, d *diag.Diagnostics, _ Resolver) (Result, error) {
	raw, ok := n.AsSmartText(true)
	if !ok {
		d.PushEnumError(e.name, n.AsSelf(), e.validNames())
		return None(), nil
	}
	text := fold(raw)

	if v, ok := matchDirect(text, e.exact); ok {
		return Some(v), nil
	}
	ntext := normalize(text)
	if v, ok := matchDirect(ntext, e.normalized); ok {
		return Some(v), nil
	}
	for _, pass := range []struct {
		text    string
		entries []aliasEntry
	}{{text, e.exact}, {ntext, e.normalized}} {
		v, first, second, ok := matchFrequency(pass.text, pass.entries)
		if ok {
			return Some(v), nil
		}
		if first != "" {
			d.PushUnknownError(diag.CodeEnumAmbiguous, i18n.T(diag.CodeEnumAmbiguous, map[string]string{
				"enum":   e.name,
				"first":  first,
				"second": second,
			}))
			return None(), nil
		}
	}
	d.PushEnumError(e.name, raw, e.validNames())
	return None(), nil
}

func (e *Enum) validNames() []string {
	out := append([]string(nil), e.members...)
	keys := make([]string, 0, len(e.aliases))
	for k := range e.aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return append(out, keys...)
}

// matchDirect tries an exact alias, then an alias closing the text as an answer.
func matchDirect(text string, entries []aliasEntry) (string, bool) {
	for _, en := range entries {
		if text == en.alias {
			return en.target, true
		}
	}
	for _, en := range entries {
		if strings.HasSuffix(text, ": "+en.alias) || strings.HasSuffix(text, "\n\n"+en.alias) {
			return en.target, true
		}
	}
	return "", false
}

// matchFrequency picks the alias with the strictly highest whole-word count.
// Only aliases naming a different member compete: when the best rival ties
// the top count it reports both aliases and ok=false. When no alias occurs at
// all first is empty.
func matchFrequency(text string, entries []aliasEntry) (target, first, second string, ok bool) {
	type hit struct {
		entry aliasEntry
		count int
		at    int
	}
	var hits []hit
	for _, en := range entries {
		if c, at := countWord(text, en.alias); c > 0 {
			hits = append(hits, hit{entry: en, count: c, at: at})
		}
	}
	if len(hits) == 0 {
		return "", "", "", false
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].count != hits[j].count {
			return hits[i].count > hits[j].count
		}
		return hits[i].at < hits[j].at
	})
	top := hits[0]
	for _, h := range hits[1:] {
		if h.entry.target == top.entry.target {
			continue
		}
		if h.count == top.count {
			return "", top.entry.alias, h.entry.alias, false
		}
		break
	}
	return top.entry.target, "", "", true
}
