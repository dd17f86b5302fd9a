package engine

import "strings"

const (
	fenceOpen  = "```json"
	fenceClose = "```"
)

// FencedJSON returns the body of the first ```json fenced block in s. Nested
// openers are balanced against closers on the fence tokens themselves; an
// unterminated block extends to the end of s.
func FencedJSON(s string) (string, bool) {
	start := strings.Index(s, fenceOpen)
	if start < 0 {
		return "", false
	}
	body := start + len(fenceOpen)
	depth := 1
	pos := body
	for {
		i := strings.Index(s[pos:], fenceClose)
		if i < 0 {
			return s[body:], true
		}
		at := pos + i
		if strings.HasPrefix(s[at:], fenceOpen) {
			depth++
			pos = at + len(fenceOpen)
			continue
		}
		depth--
		if depth == 0 {
			return s[body:at], true
		}
		pos = at + len(fenceClose)
	}
}

// BalancedRegions returns every top-level region of s that starts with open
// and ends with the matching close. Delimiters inside double-quoted strings
// (with backslash escapes) do not count. Unterminated regions are dropped.
func BalancedRegions(s string, open, close byte) []string {
	var out []string
	depth := 0
	start := -1
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if depth == 0 {
			if c == open {
				depth = 1
				start = i
			}
			continue
		}
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				out = append(out, s[start:i+1])
				start = -1
			}
		}
	}
	return out
}

// Bounded reports whether s starts with open and ends with close.
func Bounded(s string, open, close byte) bool {
	return len(s) >= 2 && s[0] == open && s[len(s)-1] == close
}
