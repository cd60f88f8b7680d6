package bson

import (
	"bytes"
	"hash"
	"hash/fnv"
	"math"
)

// Equal reports structural equality of (kind, payload). Values of
// different kinds are never equal, even when numerically equivalent:
// Double(2) and Int32(2) are distinct. Document equality is independent
// of insertion order; array equality is elementwise and ordered.
//
// Doubles compare by IEEE 754 bit pattern, so NaN equals NaN and 0.0
// does not equal -0.0. Either argument may be nil; two nils are equal.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	switch av := a.(type) {
	case *Document:
		bv := b.(*Document)
		if av.Len() != bv.Len() {
			return false
		}
		for _, k := range av.keys {
			w, ok := bv.m[k]
			if !ok || !Equal(av.m[k], w) {
				return false
			}
		}
		return true
	case *Array:
		bv := b.(*Array)
		if len(av.values) != len(bv.values) {
			return false
		}
		for i, v := range av.values {
			if !Equal(v, bv.values[i]) {
				return false
			}
		}
		return true
	case Double:
		return math.Float64bits(float64(av)) == math.Float64bits(float64(b.(Double)))
	case Binary:
		bv := b.(Binary)
		return av.Subtype == bv.Subtype && bytes.Equal(av.Data, bv.Data)
	default:
		// Remaining kinds are comparable scalars.
		return a == b
	}
}

// Hash returns a hash consistent with Equal: equal values hash equally,
// and a Document's hash does not depend on insertion order.
func Hash(v Value) uint64 {
	if v == nil {
		return 0
	}
	switch t := v.(type) {
	case *Document:
		// Entry hashes combine by wrapping sum so key order is irrelevant.
		var sum uint64
		for _, k := range t.keys {
			h := fnv.New64a()
			h.Write([]byte{byte(TypeString)})
			h.Write([]byte(k))
			sum += h.Sum64() ^ Hash(t.m[k])
		}
		h := fnv.New64a()
		h.Write([]byte{byte(TypeDocument)})
		writeUint64(h, sum)
		return h.Sum64()
	case *Array:
		h := fnv.New64a()
		h.Write([]byte{byte(TypeArray)})
		for _, v := range t.values {
			writeUint64(h, Hash(v))
		}
		return h.Sum64()
	default:
		h := fnv.New64a()
		h.Write([]byte{byte(v.Type())})
		hashScalar(h, v)
		return h.Sum64()
	}
}

func writeUint64(h hash.Hash64, u uint64) {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(u >> (8 * i))
	}
	h.Write(b[:])
}

func hashScalar(h hash.Hash64, v Value) {
	switch t := v.(type) {
	case Double:
		writeUint64(h, math.Float64bits(float64(t)))
	case String:
		h.Write([]byte(t))
	case Boolean:
		if t {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	case Int32:
		writeUint64(h, uint64(uint32(t)))
	case Int64:
		writeUint64(h, uint64(t))
	case DateTime:
		writeUint64(h, uint64(t))
	case Timestamp:
		writeUint64(h, uint64(t.T)<<32|uint64(t.I))
	case ObjectID:
		h.Write(t[:])
	case Binary:
		h.Write([]byte{t.Subtype})
		h.Write(t.Data)
	case Regex:
		h.Write([]byte(t.Pattern))
		h.Write([]byte{0})
		h.Write([]byte(t.Options))
	case Null, MinKey, MaxKey:
		// Kind byte already written; no payload.
	}
}
