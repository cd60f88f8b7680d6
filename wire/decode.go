package wire

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/docwire/bson"
)

// Unmarshal decodes the binary wire form into a Document. Malformed
// input fails with a bson syntax error carrying the byte offset of the
// violation.
func Unmarshal(data []byte) (*bson.Document, error) {
	r := &reader{data: data}
	d, err := r.document()
	if err != nil {
		return nil, err
	}
	if r.pos != len(data) {
		return nil, r.errorf("trailing data after document")
	}
	return d, nil
}

type reader struct {
	data []byte
	pos  int
}

func (r *reader) errorf(format string, a ...any) *bson.Error {
	return syntax(int64(r.pos), format, a...)
}

func syntax(off int64, format string, a ...any) *bson.Error {
	return &bson.Error{Code: bson.CodeSyntax, Message: fmt.Sprintf(format, a...), Offset: off}
}

func (r *reader) document() (*bson.Document, error) {
	start := r.pos
	length, err := r.int32()
	if err != nil {
		return nil, err
	}
	end := start + int(length)
	if length < 5 || end > len(r.data) {
		return nil, syntax(int64(start), "invalid document length %d", length)
	}
	d := bson.NewDocument()
	for {
		kind, err := r.byte()
		if err != nil {
			return nil, err
		}
		if kind == 0 {
			if r.pos != end {
				return nil, r.errorf("document terminator before declared end")
			}
			return d, nil
		}
		key, err := r.cstring()
		if err != nil {
			return nil, err
		}
		v, err := r.value(bson.Type(kind))
		if err != nil {
			return nil, err
		}
		if _, err := d.Put(key, v); err != nil {
			return nil, err
		}
		if r.pos > end {
			return nil, r.errorf("element overruns document length")
		}
	}
}

// array decodes an embedded document, discarding the index keys.
func (r *reader) array() (*bson.Array, error) {
	d, err := r.document()
	if err != nil {
		return nil, err
	}
	a := bson.NewArray()
	for _, v := range d.Values() {
		a.Append(v)
	}
	return a, nil
}

func (r *reader) value(t bson.Type) (bson.Value, error) {
	switch t {
	case bson.TypeDouble:
		u, err := r.uint64()
		return bson.Double(math.Float64frombits(u)), err
	case bson.TypeString:
		s, err := r.string()
		return bson.String(s), err
	case bson.TypeDocument:
		return r.document()
	case bson.TypeArray:
		return r.array()
	case bson.TypeBinary:
		n, err := r.int32()
		if err != nil {
			return nil, err
		}
		sub, err := r.byte()
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, r.errorf("negative binary length %d", n)
		}
		data, err := r.take(int(n))
		if err != nil {
			return nil, err
		}
		cp := make([]byte, len(data))
		copy(cp, data)
		return bson.Binary{Subtype: sub, Data: cp}, nil
	case bson.TypeObjectID:
		b, err := r.take(12)
		if err != nil {
			return nil, err
		}
		var id bson.ObjectID
		copy(id[:], b)
		return id, nil
	case bson.TypeBoolean:
		b, err := r.byte()
		if err != nil {
			return nil, err
		}
		switch b {
		case 0:
			return bson.Boolean(false), nil
		case 1:
			return bson.Boolean(true), nil
		}
		return nil, r.errorf("invalid boolean byte 0x%02x", b)
	case bson.TypeDateTime:
		u, err := r.uint64()
		return bson.DateTime(int64(u)), err
	case bson.TypeNull:
		return bson.Null{}, nil
	case bson.TypeRegex:
		pat, err := r.cstring()
		if err != nil {
			return nil, err
		}
		opt, err := r.cstring()
		if err != nil {
			return nil, err
		}
		return bson.Regex{Pattern: pat, Options: opt}, nil
	case bson.TypeInt32:
		i, err := r.int32()
		return bson.Int32(i), err
	case bson.TypeTimestamp:
		i, err := r.uint32()
		if err != nil {
			return nil, err
		}
		t2, err := r.uint32()
		if err != nil {
			return nil, err
		}
		return bson.Timestamp{T: t2, I: i}, nil
	case bson.TypeInt64:
		u, err := r.uint64()
		return bson.Int64(int64(u)), err
	case bson.TypeMinKey:
		return bson.MinKey{}, nil
	case bson.TypeMaxKey:
		return bson.MaxKey{}, nil
	}
	return nil, r.errorf("unknown element kind 0x%02x", byte(t))
}

func (r *reader) take(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, r.errorf("unexpected end of input")
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) byte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) int32() (int32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (r *reader) uint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) uint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *reader) cstring() (string, error) {
	for i := r.pos; i < len(r.data); i++ {
		if r.data[i] == 0 {
			s := string(r.data[r.pos:i])
			r.pos = i + 1
			return s, nil
		}
	}
	return "", r.errorf("unterminated cstring")
}

func (r *reader) string() (string, error) {
	n, err := r.int32()
	if err != nil {
		return "", err
	}
	if n < 1 {
		return "", r.errorf("invalid string length %d", n)
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	if b[n-1] != 0 {
		return "", r.errorf("string missing NUL terminator")
	}
	return string(b[:n-1]), nil
}
