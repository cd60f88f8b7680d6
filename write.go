package bson

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Write renders the canonical text form of d. It is total: any Document
// reachable under the package invariants renders without error, and the
// output is deterministic, reflecting insertion order. Write and Parse
// form a round trip: Parse(Write(d)) is Equal to d, with the one
// exception noted below, and re-rendering a parsed document reproduces
// the text byte for byte.
//
// Int32 and finite Double values render as plain JSON numbers (a Double
// always carries a fraction or exponent so the kinds stay distinct);
// Int64 and the non-JSON kinds render in their "$"-prefixed forms.
//
// The "$" forms are in-band: a genuine single-entry subdocument whose
// key spells one of them, such as {"$numberLong": "5"}, renders as-is
// and re-parses as the scalar it spells. Text produced from documents
// holding no "$"-keyed entries round-trips without this caveat.
func Write(d *Document) string {
	b := &strings.Builder{}
	writeDocument(b, d)
	return b.String()
}

func writeDocument(b *strings.Builder, d *Document) {
	b.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		writeString(b, k)
		b.WriteString(": ")
		writeValue(b, d.m[k])
	}
	b.WriteByte('}')
}

func writeValue(b *strings.Builder, v Value) {
	switch t := v.(type) {
	case *Document:
		writeDocument(b, t)
	case *Array:
		b.WriteByte('[')
		for i, el := range t.values {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, el)
		}
		b.WriteByte(']')
	case String:
		writeString(b, string(t))
	case Int32:
		b.WriteString(strconv.FormatInt(int64(t), 10))
	case Int64:
		fmt.Fprintf(b, `{"$numberLong": "%d"}`, int64(t))
	case Double:
		writeDouble(b, float64(t))
	case Boolean:
		if t {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case Null:
		b.WriteString("null")
	case DateTime:
		writeDateTime(b, t)
	case Timestamp:
		fmt.Fprintf(b, `{"$timestamp": {"t": %d, "i": %d}}`, t.T, t.I)
	case ObjectID:
		fmt.Fprintf(b, `{"$oid": "%s"}`, t.Hex())
	case Binary:
		fmt.Fprintf(b, `{"$binary": {"base64": "%s", "subType": "%02x"}}`,
			base64.StdEncoding.EncodeToString(t.Data), t.Subtype)
	case Regex:
		b.WriteString(`{"$regularExpression": {"pattern": `)
		writeString(b, t.Pattern)
		b.WriteString(`, "options": `)
		writeString(b, t.Options)
		b.WriteString(`}}`)
	case MinKey:
		b.WriteString(`{"$minKey": 1}`)
	case MaxKey:
		b.WriteString(`{"$maxKey": 1}`)
	}
}

// writeString escapes s with the JSON encoder so that control characters
// and quotes are handled in one place.
func writeString(b *strings.Builder, s string) {
	enc, err := json.Marshal(s)
	if err != nil {
		// Marshal of a string cannot fail; invalid UTF-8 is replaced.
		enc = []byte(strconv.Quote(s))
	}
	b.Write(enc)
}

func writeDouble(b *strings.Builder, f float64) {
	switch {
	case math.IsNaN(f):
		b.WriteString(`{"$numberDouble": "NaN"}`)
	case math.IsInf(f, 1):
		b.WriteString(`{"$numberDouble": "Infinity"}`)
	case math.IsInf(f, -1):
		b.WriteString(`{"$numberDouble": "-Infinity"}`)
	default:
		s := strconv.FormatFloat(f, 'g', -1, 64)
		// Keep the literal recognizably a double so it never re-parses
		// as an integer kind.
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		b.WriteString(s)
	}
}

func writeDateTime(b *strings.Builder, d DateTime) {
	t := d.Time()
	if y := t.Year(); y >= 1 && y <= 9999 {
		fmt.Fprintf(b, `{"$date": "%s"}`, t.Format("2006-01-02T15:04:05.000Z07:00"))
		return
	}
	fmt.Fprintf(b, `{"$date": {"$numberLong": "%d"}}`, int64(d))
}
