// Package wire implements the length-prefixed little-endian binary
// encoding of the bson value model. The element type byte is the
// numeric value of bson.Type, so the codec walks the Value tree with no
// mapping tables.
//
// Marshal and the text codec are symmetric: unmarshalling bytes and
// parsing the equivalent text yield Equal documents.
package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/docwire/bson"
	"github.com/docwire/bson/internal/pool"
)

// scratch buffers for Marshal; sized for a handful of concurrent encoders.
var buffers = pool.New(16)

// Marshal encodes d into the binary wire form.
func Marshal(d *bson.Document) ([]byte, error) {
	buf, err := buffers.Get()
	if err != nil {
		// Pool closed only happens in tests; encode without reuse.
		return appendDocument(nil, d)
	}
	defer buffers.Put(buf)
	out, err := appendDocument(buf.Bytes(), d)
	if err != nil {
		return nil, err
	}
	// The pooled backing array must not escape.
	cp := make([]byte, len(out))
	copy(cp, out)
	// Appending may have outgrown the pooled array; hand the grown one
	// back so the next encoder starts with its capacity.
	buf.Reset()
	buf.Write(out)
	return cp, nil
}

func appendDocument(b []byte, d *bson.Document) ([]byte, error) {
	start := len(b)
	b = append(b, 0, 0, 0, 0)
	var err error
	for k, v := range d.All() {
		if b, err = appendElement(b, k, v); err != nil {
			return nil, err
		}
	}
	b = append(b, 0)
	binary.LittleEndian.PutUint32(b[start:], uint32(len(b)-start))
	return b, nil
}

func appendArray(b []byte, a *bson.Array) ([]byte, error) {
	start := len(b)
	b = append(b, 0, 0, 0, 0)
	var err error
	for i, v := range a.All() {
		if b, err = appendElement(b, strconv.Itoa(i), v); err != nil {
			return nil, err
		}
	}
	b = append(b, 0)
	binary.LittleEndian.PutUint32(b[start:], uint32(len(b)-start))
	return b, nil
}

func appendElement(b []byte, key string, v bson.Value) ([]byte, error) {
	b = append(b, byte(v.Type()))
	b = appendCString(b, key)
	switch t := v.(type) {
	case *bson.Document:
		return appendDocument(b, t)
	case *bson.Array:
		return appendArray(b, t)
	case bson.Double:
		return binary.LittleEndian.AppendUint64(b, math.Float64bits(float64(t))), nil
	case bson.String:
		return appendString(b, string(t)), nil
	case bson.Binary:
		b = binary.LittleEndian.AppendUint32(b, uint32(len(t.Data)))
		b = append(b, t.Subtype)
		return append(b, t.Data...), nil
	case bson.ObjectID:
		return append(b, t[:]...), nil
	case bson.Boolean:
		if t {
			return append(b, 1), nil
		}
		return append(b, 0), nil
	case bson.DateTime:
		return binary.LittleEndian.AppendUint64(b, uint64(int64(t))), nil
	case bson.Regex:
		// Keys cannot contain NUL by the document invariant, but regex
		// fields are unconstrained strings and share the cstring form.
		if hasNUL(t.Pattern) || hasNUL(t.Options) {
			return nil, fmt.Errorf("wire: regex fields must not contain NUL bytes")
		}
		b = appendCString(b, t.Pattern)
		return appendCString(b, t.Options), nil
	case bson.Int32:
		return binary.LittleEndian.AppendUint32(b, uint32(int32(t))), nil
	case bson.Timestamp:
		b = binary.LittleEndian.AppendUint32(b, t.I)
		return binary.LittleEndian.AppendUint32(b, t.T), nil
	case bson.Int64:
		return binary.LittleEndian.AppendUint64(b, uint64(int64(t))), nil
	case bson.Null, bson.MinKey, bson.MaxKey:
		return b, nil
	default:
		return nil, fmt.Errorf("wire: unsupported value kind %v", v.Type())
	}
}

func hasNUL(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return true
		}
	}
	return false
}

func appendCString(b []byte, s string) []byte {
	b = append(b, s...)
	return append(b, 0)
}

func appendString(b []byte, s string) []byte {
	b = binary.LittleEndian.AppendUint32(b, uint32(len(s)+1))
	b = append(b, s...)
	return append(b, 0)
}
