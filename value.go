package bson

// Type is the kind discriminant of a Value. The numeric values equal the
// BSON element type bytes so the wire codec can use them directly.
type Type byte

const (
	TypeDouble    Type = 0x01
	TypeString    Type = 0x02
	TypeDocument  Type = 0x03
	TypeArray     Type = 0x04
	TypeBinary    Type = 0x05
	TypeObjectID  Type = 0x07
	TypeBoolean   Type = 0x08
	TypeDateTime  Type = 0x09
	TypeNull      Type = 0x0A
	TypeRegex     Type = 0x0B
	TypeInt32     Type = 0x10
	TypeTimestamp Type = 0x11
	TypeInt64     Type = 0x12
	TypeMaxKey    Type = 0x7F
	TypeMinKey    Type = 0xFF
)

func (t Type) String() string {
	switch t {
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	case TypeDocument:
		return "document"
	case TypeArray:
		return "array"
	case TypeBinary:
		return "binary"
	case TypeObjectID:
		return "objectID"
	case TypeBoolean:
		return "boolean"
	case TypeDateTime:
		return "dateTime"
	case TypeNull:
		return "null"
	case TypeRegex:
		return "regex"
	case TypeInt32:
		return "int32"
	case TypeTimestamp:
		return "timestamp"
	case TypeInt64:
		return "int64"
	case TypeMaxKey:
		return "maxKey"
	case TypeMinKey:
		return "minKey"
	}
	return "invalid"
}

// Value is one datum of the closed variant: a *Document, *Array, or one
// of the scalar kinds declared in this package. The unexported marker
// method closes the set; no type outside this package can be a Value.
type Value interface {
	Type() Type
	value()
}

// Number is implemented by the numeric kinds (Int32, Int64, Double). The
// conversion methods follow Go conversion semantics and may truncate;
// they never fail.
type Number interface {
	Value
	Int32Value() int32
	Int64Value() int64
	Float64Value() float64
}

// As narrows v to the kind T, failing with a type-mismatch error when
// the dynamic kind differs. There is no numeric coercion: As is a
// guarded cast, not a conversion. T may also be the Number interface,
// which any numeric kind satisfies.
func As[T Value](v Value) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T
		// When T is an interface the zero value has no Type to name.
		if any(zero) == nil {
			return zero, &Error{
				Code:    CodeTypeMismatch,
				Message: "value is of type " + v.Type().String() + ", not the requested kind",
				Offset:  -1,
			}
		}
		return zero, typeMismatch("", v.Type(), zero.Type())
	}
	return t, nil
}

// Is reports whether v is of the concrete kind T. It never fails.
func Is[T Value](v Value) bool {
	_, ok := v.(T)
	return ok
}

// AsNumber narrows v to one of the numeric kinds.
func AsNumber(v Value) (Number, error) {
	n, ok := v.(Number)
	if !ok {
		return nil, &Error{Code: CodeTypeMismatch, Message: "value is of type " + v.Type().String() + ", not a numeric kind", Offset: -1}
	}
	return n, nil
}
