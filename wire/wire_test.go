package wire_test

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/docwire/bson"
	"github.com/docwire/bson/wire"
)

func sampleDoc() *bson.Document {
	id, _ := bson.ObjectIDFromHex("652f1e2a9b1d4c0012345678")
	return bson.NewDocument().
		Append("i32", bson.Int32(-7)).
		Append("i64", bson.Int64(1<<40)).
		Append("f", bson.Double(0.5)).
		Append("s", bson.String("hello")).
		Append("b", bson.Boolean(true)).
		Append("nul", bson.Null{}).
		Append("id", id).
		Append("when", bson.NewDateTime(time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC))).
		Append("ts", bson.Timestamp{T: 1700000000, I: 3}).
		Append("bin", bson.Binary{Subtype: bson.BinaryGeneric, Data: []byte{9, 8, 7}}).
		Append("re", bson.Regex{Pattern: `^x`, Options: "i"}).
		Append("lo", bson.MinKey{}).
		Append("hi", bson.MaxKey{}).
		Append("arr", bson.NewArray(bson.Int32(1), bson.String("two"), bson.Null{})).
		Append("sub", bson.D("deep", bson.Int64(-2)))
}

func TestMarshalUnmarshal_RoundTrip(t *testing.T) {
	want := sampleDoc()
	raw, err := wire.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := wire.Unmarshal(raw)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	eq := cmp.Comparer(func(a, b *bson.Document) bool { return bson.Equal(a, b) })
	if diff := cmp.Diff(want, got, eq); diff != "" {
		t.Fatalf("round trip mismatch:\n%s", diff)
	}
}

func TestMarshal_EmptyDocument(t *testing.T) {
	raw, err := wire.Marshal(bson.NewDocument())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// Four length bytes plus the terminator.
	if len(raw) != 5 || raw[4] != 0 {
		t.Fatalf("empty document encoding = %v", raw)
	}
	if binary.LittleEndian.Uint32(raw) != 5 {
		t.Fatalf("declared length = %d, want 5", binary.LittleEndian.Uint32(raw))
	}
}

func TestMarshal_LengthPrefix(t *testing.T) {
	raw, err := wire.Marshal(sampleDoc())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got := binary.LittleEndian.Uint32(raw); int(got) != len(raw) {
		t.Fatalf("declared length %d != encoded length %d", got, len(raw))
	}
	if raw[len(raw)-1] != 0 {
		t.Fatalf("document must end with a NUL terminator")
	}
}

func TestMarshal_RegexWithNULRejected(t *testing.T) {
	d := bson.D("re", bson.Regex{Pattern: "a\x00b"})
	if _, err := wire.Marshal(d); err == nil {
		t.Fatalf("regex pattern with NUL should not encode")
	}
}

func TestUnmarshal_AgreesWithParse(t *testing.T) {
	d := sampleDoc()
	raw, err := wire.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	fromWire, err := wire.Unmarshal(raw)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	fromText, err := bson.Parse([]byte(d.ToText()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !bson.Equal(fromWire, fromText) {
		t.Fatalf("wire and text decodings of the same record differ:\n%s\n%s",
			fromWire.ToText(), fromText.ToText())
	}
}

func TestUnmarshal_Malformed(t *testing.T) {
	raw, err := wire.Marshal(sampleDoc())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	cases := map[string][]byte{
		"empty":         {},
		"short header":  raw[:3],
		"truncated":     raw[:len(raw)/2],
		"bad length":    {9, 0, 0, 0, 0},
		"trailing data": append(append([]byte{}, raw...), 0xAB),
		"bad kind":      {8, 0, 0, 0, 0x60, 'k', 0, 0},
	}
	for name, data := range cases {
		if _, err := wire.Unmarshal(data); !bson.IsCode(err, bson.CodeSyntax) {
			t.Fatalf("%s: expected a syntax error, got %v", name, err)
		}
	}
}

func TestUnmarshal_ErrorCarriesOffset(t *testing.T) {
	raw, _ := wire.Marshal(bson.D("a", bson.Int32(1)))
	_, err := wire.Unmarshal(raw[:len(raw)-2])
	be, ok := bson.AsError(err)
	if !ok {
		t.Fatalf("expected a *bson.Error, got %v", err)
	}
	if be.Offset < 0 {
		t.Fatalf("wire errors should carry an offset, got %d", be.Offset)
	}
}
