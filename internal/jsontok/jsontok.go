// Package jsontok turns a JSON input into a flat token stream with byte
// offsets. It reports structure and scalars only; the bson package
// assembles values and extended literal forms on top of it.
package jsontok

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
)

// Kind identifies a token.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token is one streaming token with its approximate input offset.
type Token struct {
	Kind   Kind
	String string // KindKey and KindString payload.
	Number string // KindNumber literal text.
	Bool   bool   // KindBool payload.
	Offset int64
}

type frameKind int

const (
	frameObject frameKind = iota
	frameArray
)

type frame struct {
	kind         frameKind
	expectingKey bool
}

// Source yields tokens from one JSON input.
type Source struct {
	dec        *json.Decoder
	stack      []frame
	lastOffset int64
}

// NewReader wraps an io.Reader into a token source.
func NewReader(r io.Reader) *Source {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &Source{dec: dec, lastOffset: -1}
}

// NewBytes wraps a byte slice into a token source.
func NewBytes(b []byte) *Source { return NewReader(bytes.NewReader(b)) }

// Offset returns the byte offset just past the most recent token, or -1
// before the first token.
func (s *Source) Offset() int64 { return s.lastOffset }

// Next returns the next token. It returns io.EOF at the end of input and
// decoder errors verbatim.
func (s *Source) Next() (Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return Token{}, err
	}
	s.lastOffset = s.dec.InputOffset()

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			s.push(frameObject)
			return s.tok(KindBeginObject), nil
		case '}':
			s.pop()
			return s.tok(KindEndObject), nil
		case '[':
			s.push(frameArray)
			return s.tok(KindBeginArray), nil
		case ']':
			s.pop()
			return s.tok(KindEndArray), nil
		}
	case string:
		if top := s.top(); top != nil && top.kind == frameObject && top.expectingKey {
			top.expectingKey = false
			t := s.tok(KindKey)
			t.String = v
			return t, nil
		}
		s.valueDone()
		t := s.tok(KindString)
		t.String = v
		return t, nil
	case json.Number:
		s.valueDone()
		t := s.tok(KindNumber)
		t.Number = string(v)
		return t, nil
	case float64:
		// UseNumber makes this unreachable for the stdlib decoder; kept
		// because the Token contract permits it.
		s.valueDone()
		t := s.tok(KindNumber)
		t.Number = strconv.FormatFloat(v, 'g', -1, 64)
		return t, nil
	case bool:
		s.valueDone()
		t := s.tok(KindBool)
		t.Bool = v
		return t, nil
	case nil:
		s.valueDone()
		return s.tok(KindNull), nil
	}
	s.valueDone()
	return s.tok(KindNull), nil
}

func (s *Source) tok(k Kind) Token { return Token{Kind: k, Offset: s.lastOffset} }

func (s *Source) push(k frameKind) {
	s.stack = append(s.stack, frame{kind: k, expectingKey: k == frameObject})
}

// pop closes the current container and restores key position in the
// enclosing object, if any.
func (s *Source) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.valueDone()
}

func (s *Source) top() *frame {
	if n := len(s.stack); n > 0 {
		return &s.stack[n-1]
	}
	return nil
}

// valueDone marks that a value has completed, so the next string in an
// object position is a key again.
func (s *Source) valueDone() {
	if top := s.top(); top != nil && top.kind == frameObject && !top.expectingKey {
		top.expectingKey = true
	}
}
