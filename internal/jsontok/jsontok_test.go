package jsontok_test

import (
	"io"
	"testing"

	"github.com/docwire/bson/internal/jsontok"
)

func TestSource_TokenStream(t *testing.T) {
	src := jsontok.NewBytes([]byte(`{"a": [1, true, null], "b": "s"}`))

	want := []jsontok.Kind{
		jsontok.KindBeginObject,
		jsontok.KindKey,
		jsontok.KindBeginArray,
		jsontok.KindNumber,
		jsontok.KindBool,
		jsontok.KindNull,
		jsontok.KindEndArray,
		jsontok.KindKey,
		jsontok.KindString,
		jsontok.KindEndObject,
	}
	for i, k := range want {
		tok, err := src.Next()
		if err != nil {
			t.Fatalf("token %d: %v", i, err)
		}
		if tok.Kind != k {
			t.Fatalf("token %d kind = %v, want %v", i, tok.Kind, k)
		}
	}
	if _, err := src.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF at end, got %v", err)
	}
}

func TestSource_KeyVersusStringPosition(t *testing.T) {
	src := jsontok.NewBytes([]byte(`{"k": "v", "k2": {"inner": "w"}}`))

	var keys, strs []string
	for {
		tok, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		switch tok.Kind {
		case jsontok.KindKey:
			keys = append(keys, tok.String)
		case jsontok.KindString:
			strs = append(strs, tok.String)
		}
	}
	if len(keys) != 3 || keys[0] != "k" || keys[1] != "k2" || keys[2] != "inner" {
		t.Fatalf("keys = %v", keys)
	}
	if len(strs) != 2 || strs[0] != "v" || strs[1] != "w" {
		t.Fatalf("strings = %v", strs)
	}
}

func TestSource_NumbersKeepLiteralText(t *testing.T) {
	src := jsontok.NewBytes([]byte(`{"n": 12345678901234567890}`))
	var lit string
	for {
		tok, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if tok.Kind == jsontok.KindNumber {
			lit = tok.Number
		}
	}
	// Larger than int64: the literal must survive untouched.
	if lit != "12345678901234567890" {
		t.Fatalf("number literal = %q", lit)
	}
}

func TestSource_OffsetsAdvance(t *testing.T) {
	src := jsontok.NewBytes([]byte(`{"a": 1}`))
	var last int64 = -1
	for {
		tok, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if tok.Offset < last {
			t.Fatalf("offsets went backwards: %d after %d", tok.Offset, last)
		}
		last = tok.Offset
	}
	if last <= 0 {
		t.Fatalf("final offset = %d, want > 0", last)
	}
}
