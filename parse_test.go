package bson_test

import (
	"math"
	"testing"

	"github.com/docwire/bson"
)

func TestParse_PlainLiterals(t *testing.T) {
	d, err := bson.ParseText(`{"i": 1, "big": 4294967296, "f": 3.5, "s": "x", "b": true, "n": null}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v, err := d.GetInt32("i"); err != nil || v != 1 {
		t.Fatalf("i = %v, %v", v, err)
	}
	if v, err := d.GetInt64("big"); err != nil || v != 4294967296 {
		t.Fatalf("big = %v, %v", v, err)
	}
	if v, err := d.GetDouble("f"); err != nil || v != 3.5 {
		t.Fatalf("f = %v, %v", v, err)
	}
	// No numeric widening across kinds.
	if _, err := d.GetInt64("f"); !bson.IsCode(err, bson.CodeTypeMismatch) {
		t.Fatalf("GetInt64 of a double should be a type mismatch, got %v", err)
	}
	if v, err := d.GetString("s"); err != nil || v != "x" {
		t.Fatalf("s = %v, %v", v, err)
	}
	if v, err := d.GetBoolean("b"); err != nil || !bool(v) {
		t.Fatalf("b = %v, %v", v, err)
	}
	if !d.IsNull("n") {
		t.Fatalf("n should be null")
	}
}

func TestParse_NestedContainers(t *testing.T) {
	d, err := bson.ParseText(`{"doc": {"inner": 1}, "arr": [1, "two", null, {"x": 2}]}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	inner, err := d.GetDocument("doc")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if v, err := inner.GetInt32("inner"); err != nil || v != 1 {
		t.Fatalf("inner = %v, %v", v, err)
	}
	arr, err := d.GetArray("arr")
	if err != nil {
		t.Fatalf("GetArray: %v", err)
	}
	if arr.Len() != 4 {
		t.Fatalf("arr.Len = %d", arr.Len())
	}
	if !bson.Equal(arr.Get(2), bson.Null{}) {
		t.Fatalf("arr[2] = %v, want Null", arr.Get(2))
	}
	el, err := bson.As[*bson.Document](arr.Get(3))
	if err != nil {
		t.Fatalf("arr[3]: %v", err)
	}
	if v, err := el.GetInt32("x"); err != nil || v != 2 {
		t.Fatalf("arr[3].x = %v, %v", v, err)
	}
}

func TestParse_ExtendedForms(t *testing.T) {
	text := `{
		"id": {"$oid": "652f1e2a9b1d4c0012345678"},
		"when": {"$date": "2024-05-17T10:30:00.123Z"},
		"old": {"$date": {"$numberLong": "-86400000000000"}},
		"ts": {"$timestamp": {"t": 1700000000, "i": 7}},
		"long": {"$numberLong": "5"},
		"int": {"$numberInt": "12"},
		"dbl": {"$numberDouble": "NaN"},
		"bin": {"$binary": {"base64": "AQID", "subType": "00"}},
		"re": {"$regularExpression": {"pattern": "^a.*b$", "options": "i"}},
		"lo": {"$minKey": 1},
		"hi": {"$maxKey": 1}
	}`
	d, err := bson.ParseText(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	id, err := d.GetObjectID("id")
	if err != nil || id.Hex() != "652f1e2a9b1d4c0012345678" {
		t.Fatalf("id = %v, %v", id, err)
	}
	when, err := d.GetDateTime("when")
	if err != nil || when.Time().Format("2006-01-02T15:04:05.000Z07:00") != "2024-05-17T10:30:00.123Z" {
		t.Fatalf("when = %v, %v", when, err)
	}
	if v, err := d.GetDateTime("old"); err != nil || int64(v) != -86400000000000 {
		t.Fatalf("old = %v, %v", v, err)
	}
	if ts, err := d.GetTimestamp("ts"); err != nil || ts.T != 1700000000 || ts.I != 7 {
		t.Fatalf("ts = %v, %v", ts, err)
	}
	if v, err := d.GetInt64("long"); err != nil || v != 5 {
		t.Fatalf("long = %v, %v", v, err)
	}
	if v, err := d.GetInt32("int"); err != nil || v != 12 {
		t.Fatalf("int = %v, %v", v, err)
	}
	if v, err := d.GetDouble("dbl"); err != nil || !math.IsNaN(float64(v)) {
		t.Fatalf("dbl = %v, %v, want NaN", v, err)
	}
	bin, err := d.GetBinary("bin")
	if err != nil || bin.Subtype != 0 || string(bin.Data) != "\x01\x02\x03" {
		t.Fatalf("bin = %v, %v", bin, err)
	}
	re, err := d.GetRegex("re")
	if err != nil || re.Pattern != "^a.*b$" || re.Options != "i" {
		t.Fatalf("re = %v, %v", re, err)
	}
	if !bson.Is[bson.MinKey](d.Get("lo")) || !bson.Is[bson.MaxKey](d.Get("hi")) {
		t.Fatalf("min/max keys misparsed: %v, %v", d.Get("lo"), d.Get("hi"))
	}
}

func TestParse_UnknownDollarKeysStayDocuments(t *testing.T) {
	d, err := bson.ParseText(`{"v": {"$lookup": "stage"}, "w": {"$oid": "x", "extra": 1}}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !d.IsDocument("v") {
		t.Fatalf("unknown $-form should stay a document, got %v", d.Get("v"))
	}
	// Two keys disqualify the extended form even when one matches.
	if !d.IsDocument("w") {
		t.Fatalf("multi-key object should stay a document, got %v", d.Get("w"))
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	cases := []string{
		``,
		`{`,
		`{"a": }`,
		`{"a": 1} trailing`,
		`[1, 2]`,
		`{"a": {"$oid": "nothex"}}`,
		`{"a": {"$numberLong": "abc"}}`,
		`{"a": {"$timestamp": {"t": 1}}}`,
		`{"a": {"$timestamp": {"t": -1, "i": 0}}}`,
		`{"a": {"$timestamp": {"t": 4294967296, "i": 0}}}`,
		`{"a": {"$timestamp": {"t": 1.5, "i": 0}}}`,
		`{"a": {"$minKey": 2}}`,
	}
	for _, in := range cases {
		_, err := bson.ParseText(in)
		if !bson.IsCode(err, bson.CodeSyntax) {
			t.Fatalf("Parse(%q) should be a syntax error, got %v", in, err)
		}
	}
}

func TestParse_SyntaxErrorCarriesOffset(t *testing.T) {
	_, err := bson.ParseText(`{"ok": 1, "bad": tru}`)
	be, ok := bson.AsError(err)
	if !ok || be.Code != bson.CodeSyntax {
		t.Fatalf("expected a syntax error, got %v", err)
	}
	if be.Offset <= 0 {
		t.Fatalf("syntax error should carry a positive offset, got %d", be.Offset)
	}
}

func TestParse_DuplicateKeysLastWins(t *testing.T) {
	d, err := bson.ParseText(`{"a": 1, "a": 2}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v, err := d.GetInt32("a"); err != nil || v != 2 {
		t.Fatalf("a = %v, %v, want 2", v, err)
	}
	if d.Len() != 1 {
		t.Fatalf("duplicate key must not produce two entries, Len = %d", d.Len())
	}
}

func TestParse_EscapedNULInKeyRejected(t *testing.T) {
	_, err := bson.ParseText("{\"a\\u0000b\": 1}")
	if !bson.IsCode(err, bson.CodeInvalidKey) {
		t.Fatalf("a key with an escaped NUL should be rejected, got %v", err)
	}
}
