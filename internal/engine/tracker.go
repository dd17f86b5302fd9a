package engine

// KeyTracker turns the flat delimiter/value stream of a decoder's Token API
// into engine tokens, telling object keys apart from string values. Drivers
// embed one and feed it every token they read.
type KeyTracker struct {
	stack []trackFrame
}

type trackFrame struct {
	object       bool
	expectingKey bool
}

// Delim converts one of '{', '}', '[' or ']' into a token.
func (k *KeyTracker) Delim(d rune, offset int64) Token {
	switch d {
	case '{':
		k.stack = append(k.stack, trackFrame{object: true, expectingKey: true})
		return Token{Kind: KindBeginObject, Offset: offset}
	case '[':
		k.stack = append(k.stack, trackFrame{})
		return Token{Kind: KindBeginArray, Offset: offset}
	case '}':
		k.pop()
		return Token{Kind: KindEndObject, Offset: offset}
	default:
		k.pop()
		return Token{Kind: KindEndArray, Offset: offset}
	}
}

// String classifies a string token as an object key or a string value.
func (k *KeyTracker) String(s string, offset int64) Token {
	if n := len(k.stack); n > 0 {
		top := &k.stack[n-1]
		if top.object && top.expectingKey {
			top.expectingKey = false
			return Token{Kind: KindKey, String: s, Offset: offset}
		}
	}
	k.valueDone()
	return Token{Kind: KindString, String: s, Offset: offset}
}

// Scalar marks the completion of a number, bool or null value.
func (k *KeyTracker) Scalar(t Token) Token {
	k.valueDone()
	return t
}

func (k *KeyTracker) pop() {
	if n := len(k.stack); n > 0 {
		k.stack = k.stack[:n-1]
	}
	k.valueDone()
}

// valueDone flips the enclosing object back to expecting a key.
func (k *KeyTracker) valueDone() {
	if n := len(k.stack); n > 0 {
		top := &k.stack[n-1]
		if top.object && !top.expectingKey {
			top.expectingKey = true
		}
	}
}
