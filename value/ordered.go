package value

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// OrderedMap is the plain form of a mapping. It marshals to a JSON object
// with keys in insertion order; duplicate keys are written as they appear.
type OrderedMap struct {
	Keys   []string
	Values []any
}

// Get returns the first value stored under key.
func (m *OrderedMap) Get(key string) (any, bool) {
	for i, k := range m.Keys {
		if k == key {
			return m.Values[i], true
		}
	}
	return nil, false
}

// MarshalJSON implements json.Marshaler.
func (m *OrderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
