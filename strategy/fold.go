package strategy

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// fold trims, NFC-normalises and lower-cases s for alias comparison.
// A cases.Caser is stateful, so one is built per call.
func fold(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(strings.TrimSpace(s)))
}

// normalize collapses every run of non-alphanumeric runes to a single space,
// so "a-single-item", "a_single_item" and "a single item" compare equal.
func normalize(s string) string {
	var b strings.Builder
	gap := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if gap && b.Len() > 0 {
				b.WriteByte(' ')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// countWord counts non-overlapping whole-word occurrences of word in s and
// reports the byte index of the first one (-1 when absent).
func countWord(s, word string) (count, first int) {
	first = -1
	if word == "" {
		return 0, -1
	}
	for from := 0; from <= len(s)-len(word); {
		i := strings.Index(s[from:], word)
		if i < 0 {
			break
		}
		start, end := from+i, from+i+len(word)
		before, _ := utf8.DecodeLastRuneInString(s[:start])
		after, _ := utf8.DecodeRuneInString(s[end:])
		wordStart, _ := utf8.DecodeRuneInString(word)
		wordEnd, _ := utf8.DecodeLastRuneInString(word)
		leftOK := start == 0 || !isWordRune(wordStart) || !isWordRune(before)
		rightOK := end == len(s) || !isWordRune(wordEnd) || !isWordRune(after)
		if leftOK && rightOK {
			if first < 0 {
				first = start
			}
			count++
			from = end
			continue
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		from = start + size
	}
	return count, first
}
