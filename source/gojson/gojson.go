// Package gojson exposes a goccy/go-json backed token source. It is the
// default strict parse backend of the loader.
package gojson

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/coerce/internal/engine"
)

type source struct {
	dec  *j.Decoder
	keys eng.KeyTracker
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return eng.Token{}, io.EOF
		}
		return eng.Token{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		return s.keys.Delim(rune(v), -1), nil
	case string:
		return s.keys.String(v, -1), nil
	case bool:
		return s.keys.Scalar(eng.Token{Kind: eng.KindBool, Bool: v, Offset: -1}), nil
	case j.Number:
		return s.keys.Scalar(eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: -1}), nil
	case float64:
		return s.keys.Scalar(eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: -1}), nil
	default:
		return s.keys.Scalar(eng.Token{Kind: eng.KindNull, Offset: -1}), nil
	}
}

func (s *source) Location() int64 { return -1 }
