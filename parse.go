package bson

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/docwire/bson/internal/jsontok"
)

// Parse decodes the canonical text form into a Document. The input is a
// JSON superset: plain JSON plus the extended literal forms produced by
// Write ("$oid", "$date", "$timestamp", "$binary", "$regularExpression",
// "$numberInt", "$numberLong", "$numberDouble", "$minKey", "$maxKey").
// Malformed input fails with a syntax error carrying a byte offset.
//
// Plain integer literals decode as Int32 when they fit, else Int64;
// literals with a fraction or exponent decode as Double.
//
// The extended forms are recognized by shape: any single-entry object
// spelling a known "$" form becomes the scalar it denotes, even if the
// writer meant a plain subdocument. See Write for the matching caveat.
func Parse(data []byte) (*Document, error) {
	src := jsontok.NewBytes(data)
	tok, err := src.Next()
	if err != nil {
		return nil, tokenErr(src, err)
	}
	if tok.Kind != jsontok.KindBeginObject {
		return nil, syntaxErr(tok.Offset, "top-level value must be a document")
	}
	v, err := parseDocument(src, tok.Offset)
	if err != nil {
		return nil, err
	}
	d, ok := v.(*Document)
	if !ok {
		return nil, syntaxErr(tok.Offset, "top-level value must be a document, not %v", v.Type())
	}
	if _, err := src.Next(); err != io.EOF {
		if err != nil {
			return nil, tokenErr(src, err)
		}
		return nil, syntaxErr(src.Offset(), "unexpected data after document")
	}
	return d, nil
}

// ParseText is Parse over a string.
func ParseText(s string) (*Document, error) { return Parse([]byte(s)) }

func tokenErr(src *jsontok.Source, err error) *Error {
	off := src.Offset()
	var se *json.SyntaxError
	if errors.As(err, &se) {
		off = se.Offset
	}
	msg := "malformed input"
	if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
		msg = "unexpected end of input"
	}
	return &Error{Code: CodeSyntax, Message: msg, Offset: off, Cause: err}
}

func parseValue(src *jsontok.Source, tok jsontok.Token) (Value, error) {
	switch tok.Kind {
	case jsontok.KindBeginObject:
		return parseDocument(src, tok.Offset)
	case jsontok.KindBeginArray:
		return parseArray(src)
	case jsontok.KindString:
		return String(tok.String), nil
	case jsontok.KindNumber:
		return parseNumber(tok.Number, tok.Offset)
	case jsontok.KindBool:
		return Boolean(tok.Bool), nil
	case jsontok.KindNull:
		return Null{}, nil
	default:
		return nil, syntaxErr(tok.Offset, "unexpected token")
	}
}

// parseDocument consumes tokens after a begin-object and returns either
// a *Document or, when the object spells one of the extended literal
// forms, the scalar Value it denotes.
func parseDocument(src *jsontok.Source, start int64) (Value, error) {
	d := NewDocument()
	for {
		tok, err := src.Next()
		if err != nil {
			return nil, tokenErr(src, err)
		}
		if tok.Kind == jsontok.KindEndObject {
			return promoteExtended(d, start)
		}
		if tok.Kind != jsontok.KindKey {
			return nil, syntaxErr(tok.Offset, "expected object key")
		}
		key := tok.String
		vt, err := src.Next()
		if err != nil {
			return nil, tokenErr(src, err)
		}
		v, err := parseValue(src, vt)
		if err != nil {
			return nil, err
		}
		if _, err := d.Put(key, v); err != nil {
			return nil, err
		}
	}
}

func parseArray(src *jsontok.Source) (*Array, error) {
	a := NewArray()
	for {
		tok, err := src.Next()
		if err != nil {
			return nil, tokenErr(src, err)
		}
		if tok.Kind == jsontok.KindEndArray {
			return a, nil
		}
		v, err := parseValue(src, tok)
		if err != nil {
			return nil, err
		}
		a.Append(v)
	}
}

func parseNumber(lit string, off int64) (Value, error) {
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			if i >= -1<<31 && i < 1<<31 {
				return Int32(i), nil
			}
			return Int64(i), nil
		}
		// Out of int64 range; fall through to a double.
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, &Error{Code: CodeSyntax, Message: "invalid number literal " + strconv.Quote(lit), Offset: off, Cause: err}
	}
	return Double(f), nil
}

// timestampComponent narrows a $timestamp field to a uint32. Doubles
// are rejected: the components are integral by definition.
func timestampComponent(n Number) (uint32, bool) {
	switch n.(type) {
	case Int32, Int64:
	default:
		return 0, false
	}
	v := n.Int64Value()
	if v < 0 || v > math.MaxUint32 {
		return 0, false
	}
	return uint32(v), true
}

// promoteExtended maps objects of the form {"$kind": ...} onto their
// scalar kinds. Objects whose keys match no known form stay documents,
// including unknown "$"-prefixed keys; known forms with a malformed
// payload are syntax errors rather than silently kept as documents.
func promoteExtended(d *Document, off int64) (Value, error) {
	if d.Len() != 1 || !strings.HasPrefix(d.keys[0], "$") {
		return d, nil
	}
	key := d.keys[0]
	inner := d.m[key]
	switch key {
	case "$oid":
		s, ok := inner.(String)
		if !ok {
			return nil, syntaxErr(off, "$oid value must be a hex string")
		}
		id, err := ObjectIDFromHex(string(s))
		if err != nil {
			return nil, &Error{Code: CodeSyntax, Message: "invalid $oid literal", Offset: off, Cause: err}
		}
		return id, nil
	case "$numberInt":
		s, ok := inner.(String)
		if !ok {
			return nil, syntaxErr(off, "$numberInt value must be a string")
		}
		i, err := strconv.ParseInt(string(s), 10, 32)
		if err != nil {
			return nil, &Error{Code: CodeSyntax, Message: "invalid $numberInt literal", Offset: off, Cause: err}
		}
		return Int32(i), nil
	case "$numberLong":
		s, ok := inner.(String)
		if !ok {
			return nil, syntaxErr(off, "$numberLong value must be a string")
		}
		i, err := strconv.ParseInt(string(s), 10, 64)
		if err != nil {
			return nil, &Error{Code: CodeSyntax, Message: "invalid $numberLong literal", Offset: off, Cause: err}
		}
		return Int64(i), nil
	case "$numberDouble":
		s, ok := inner.(String)
		if !ok {
			return nil, syntaxErr(off, "$numberDouble value must be a string")
		}
		f, err := strconv.ParseFloat(string(s), 64)
		if err != nil {
			return nil, &Error{Code: CodeSyntax, Message: "invalid $numberDouble literal", Offset: off, Cause: err}
		}
		return Double(f), nil
	case "$date":
		switch t := inner.(type) {
		case String:
			ts, err := time.Parse(time.RFC3339Nano, string(t))
			if err != nil {
				return nil, &Error{Code: CodeSyntax, Message: "invalid $date literal", Offset: off, Cause: err}
			}
			return NewDateTime(ts), nil
		case Int64:
			// {"$date": {"$numberLong": "..."}} arrives promoted already.
			return DateTime(t), nil
		}
		return nil, syntaxErr(off, "$date value must be an RFC3339 string or a $numberLong")
	case "$timestamp":
		doc, ok := inner.(*Document)
		if !ok {
			return nil, syntaxErr(off, `$timestamp value must be {"t": ..., "i": ...}`)
		}
		t, terr := doc.GetNumber("t")
		i, ierr := doc.GetNumber("i")
		if terr != nil || ierr != nil || doc.Len() != 2 {
			return nil, syntaxErr(off, `$timestamp value must be {"t": ..., "i": ...}`)
		}
		tv, tok := timestampComponent(t)
		iv, iok := timestampComponent(i)
		if !tok || !iok {
			return nil, syntaxErr(off, "$timestamp components must be integers in [0, %d]", math.MaxUint32)
		}
		return Timestamp{T: tv, I: iv}, nil
	case "$binary":
		doc, ok := inner.(*Document)
		if !ok {
			return nil, syntaxErr(off, `$binary value must be {"base64": ..., "subType": ...}`)
		}
		b64, berr := doc.GetString("base64")
		st, serr := doc.GetString("subType")
		if berr != nil || serr != nil || doc.Len() != 2 {
			return nil, syntaxErr(off, `$binary value must be {"base64": ..., "subType": ...}`)
		}
		data, err := base64.StdEncoding.DecodeString(string(b64))
		if err != nil {
			return nil, &Error{Code: CodeSyntax, Message: "invalid $binary base64 payload", Offset: off, Cause: err}
		}
		sub, err := strconv.ParseUint(string(st), 16, 8)
		if err != nil {
			return nil, &Error{Code: CodeSyntax, Message: "invalid $binary subType", Offset: off, Cause: err}
		}
		return Binary{Subtype: byte(sub), Data: data}, nil
	case "$regularExpression":
		doc, ok := inner.(*Document)
		if !ok {
			return nil, syntaxErr(off, `$regularExpression value must be {"pattern": ..., "options": ...}`)
		}
		pat, perr := doc.GetString("pattern")
		opt, oerr := doc.GetString("options")
		if perr != nil || oerr != nil || doc.Len() != 2 {
			return nil, syntaxErr(off, `$regularExpression value must be {"pattern": ..., "options": ...}`)
		}
		return Regex{Pattern: string(pat), Options: string(opt)}, nil
	case "$minKey":
		if !Equal(inner, Int32(1)) {
			return nil, syntaxErr(off, "$minKey value must be 1")
		}
		return MinKey{}, nil
	case "$maxKey":
		if !Equal(inner, Int32(1)) {
			return nil, syntaxErr(off, "$maxKey value must be 1")
		}
		return MaxKey{}, nil
	}
	return d, nil
}
