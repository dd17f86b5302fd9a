// Package json exposes an encoding/json backed token source for the strict
// parse step of the loader.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"

	eng "github.com/reoring/coerce/internal/engine"
)

type jsonSource struct {
	dec        *json.Decoder
	keys       eng.KeyTracker
	lastOffset int64
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON.
func NewReader(r io.Reader) eng.TokenSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &jsonSource{dec: dec, lastOffset: -1}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *jsonSource) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return eng.Token{}, io.EOF
		}
		return eng.Token{}, err
	}
	s.lastOffset = s.dec.InputOffset()

	switch v := tok.(type) {
	case json.Delim:
		return s.keys.Delim(rune(v), s.lastOffset), nil
	case string:
		return s.keys.String(v, s.lastOffset), nil
	case bool:
		return s.keys.Scalar(eng.Token{Kind: eng.KindBool, Bool: v, Offset: s.lastOffset}), nil
	case json.Number:
		return s.keys.Scalar(eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: s.lastOffset}), nil
	case float64:
		return s.keys.Scalar(eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: s.lastOffset}), nil
	default:
		return s.keys.Scalar(eng.Token{Kind: eng.KindNull, Offset: s.lastOffset}), nil
	}
}

func (s *jsonSource) Location() int64 { return s.lastOffset }
