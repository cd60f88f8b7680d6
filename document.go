package bson

import (
	"fmt"
	"iter"
	"strings"
)

// Document is an insertion-ordered mapping from string keys to Values,
// itself a Value of kind document. The zero value (and NewDocument())
// is an empty document ready for use.
//
// Keys are unique: storing an existing key overwrites its value in
// place, keeping the original position. Keys must not contain an
// embedded NUL byte, and values must never be nil; absence of a key and
// presence with a Null value are distinct states.
type Document struct {
	m    map[string]Value
	keys []string
}

// Pair is one (key, value) entry of a Document.
type Pair struct {
	Key   string
	Value Value
}

// NewDocument returns an empty document.
func NewDocument() *Document { return &Document{} }

// D builds a document with a single entry. It panics on an invalid key
// or nil value, like Append.
func D(key string, v Value) *Document { return NewDocument().Append(key, v) }

// FromPairs builds a document by applying the pairs in order with Put
// semantics: a later duplicate key overwrites the earlier value.
func FromPairs(pairs ...Pair) (*Document, error) {
	d := NewDocument()
	for _, p := range pairs {
		if _, err := d.Put(p.Key, p.Value); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Document) Type() Type { return TypeDocument }
func (d *Document) value()     {}

// Len returns the number of entries.
func (d *Document) Len() int { return len(d.keys) }

// IsEmpty reports whether the document has no entries.
func (d *Document) IsEmpty() bool { return len(d.keys) == 0 }

// ContainsKey reports whether key is present, whatever its value.
func (d *Document) ContainsKey(key string) bool {
	_, ok := d.m[key]
	return ok
}

// ContainsValue reports whether any entry's value equals v.
func (d *Document) ContainsValue(v Value) bool {
	for _, k := range d.keys {
		if Equal(d.m[k], v) {
			return true
		}
	}
	return false
}

// Get returns the value stored under key, or nil when the key is absent.
// A present Null value and an absent key are distinguishable: Get
// returns Null{} for the former and nil for the latter; Lookup makes the
// distinction explicit.
func (d *Document) Get(key string) Value {
	v, ok := d.m[key]
	if !ok {
		return nil
	}
	return v
}

// Lookup returns the value stored under key and whether it was present.
func (d *Document) Lookup(key string) (Value, bool) {
	v, ok := d.m[key]
	return v, ok
}

// GetOr returns the value stored under key, or def when the key is
// absent. No kind check is performed on a present value.
func (d *Document) GetOr(key string, def Value) Value {
	if v, ok := d.m[key]; ok {
		return v
	}
	return def
}

// Put stores v under key, returning the previous value (nil if the key
// was absent). It fails with an invalid-key error when key contains a
// NUL byte and with a nil-value error when v is nil, in both cases
// before the document is mutated. Absent values must be stored as Null.
func (d *Document) Put(key string, v Value) (Value, error) {
	if err := checkEntry(key, v); err != nil {
		return nil, err
	}
	if d.m == nil {
		d.m = make(map[string]Value)
	}
	prev, existed := d.m[key]
	d.m[key] = v
	if !existed {
		d.keys = append(d.keys, key)
		return nil, nil
	}
	return prev, nil
}

// Append stores v under key and returns the document for chaining:
//
//	d := bson.NewDocument().Append("a", bson.Int32(1)).Append("b", bson.String("x"))
//
// It panics on an invalid key or nil value; use Put to handle those as
// errors.
func (d *Document) Append(key string, v Value) *Document {
	if _, err := d.Put(key, v); err != nil {
		panic("bson: " + err.Error())
	}
	return d
}

// Remove deletes the entry for key and returns its value, or nil when
// the key was absent.
func (d *Document) Remove(key string) Value {
	v, ok := d.m[key]
	if !ok {
		return nil
	}
	delete(d.m, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
	return v
}

// Clear removes all entries.
func (d *Document) Clear() {
	d.m = nil
	d.keys = nil
}

// Keys returns the keys in insertion order. The slice is a copy.
func (d *Document) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Values returns the values in insertion order. The slice is a copy.
func (d *Document) Values() []Value {
	out := make([]Value, 0, len(d.keys))
	for _, k := range d.keys {
		out = append(out, d.m[k])
	}
	return out
}

// All iterates over the entries in insertion order.
func (d *Document) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range d.keys {
			if !yield(k, d.m[k]) {
				return
			}
		}
	}
}

// ToText renders the canonical text form of the document. It never
// mutates the document and is a pure function of its current contents.
func (d *Document) ToText() string { return Write(d) }

func (d *Document) String() string { return d.ToText() }

func checkEntry(key string, v Value) error {
	if i := strings.IndexByte(key, 0); i >= 0 {
		return &Error{
			Code:    CodeInvalidKey,
			Key:     key,
			Message: fmt.Sprintf("key contains a NUL byte at index %d", i),
			Offset:  -1,
		}
	}
	if v == nil || isNilContainer(v) {
		return &Error{
			Code:    CodeNilValue,
			Key:     key,
			Message: "value must not be nil; use bson.Null to store a null",
			Offset:  -1,
		}
	}
	return nil
}

func isNilContainer(v Value) bool {
	switch t := v.(type) {
	case *Document:
		return t == nil
	case *Array:
		return t == nil
	}
	return false
}

// ---- typed access ----

func getTyped[T Value](d *Document, key string) (T, error) {
	v, ok := d.m[key]
	if !ok {
		var zero T
		return zero, keyNotFound(key)
	}
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, typeMismatch(key, v.Type(), zero.Type())
	}
	return t, nil
}

// getTypedOr returns def only when the key is absent. A present value of
// the wrong kind is still a type-mismatch error: defaults cover absence,
// never type errors.
func getTypedOr[T Value](d *Document, key string, def T) (T, error) {
	if _, ok := d.m[key]; !ok {
		return def, nil
	}
	return getTyped[T](d, key)
}

// GetDocument returns the value stored under key as a *Document. It
// fails with a key-not-found error when the key is absent and a
// type-mismatch error when the value is of another kind.
func (d *Document) GetDocument(key string) (*Document, error) { return getTyped[*Document](d, key) }

// GetArray returns the value stored under key as an *Array.
func (d *Document) GetArray(key string) (*Array, error) { return getTyped[*Array](d, key) }

// GetString returns the value stored under key as a String.
func (d *Document) GetString(key string) (String, error) { return getTyped[String](d, key) }

// GetInt32 returns the value stored under key as an Int32.
func (d *Document) GetInt32(key string) (Int32, error) { return getTyped[Int32](d, key) }

// GetInt64 returns the value stored under key as an Int64.
func (d *Document) GetInt64(key string) (Int64, error) { return getTyped[Int64](d, key) }

// GetDouble returns the value stored under key as a Double.
func (d *Document) GetDouble(key string) (Double, error) { return getTyped[Double](d, key) }

// GetBoolean returns the value stored under key as a Boolean.
func (d *Document) GetBoolean(key string) (Boolean, error) { return getTyped[Boolean](d, key) }

// GetDateTime returns the value stored under key as a DateTime.
func (d *Document) GetDateTime(key string) (DateTime, error) { return getTyped[DateTime](d, key) }

// GetTimestamp returns the value stored under key as a Timestamp.
func (d *Document) GetTimestamp(key string) (Timestamp, error) { return getTyped[Timestamp](d, key) }

// GetObjectID returns the value stored under key as an ObjectID.
func (d *Document) GetObjectID(key string) (ObjectID, error) { return getTyped[ObjectID](d, key) }

// GetRegex returns the value stored under key as a Regex.
func (d *Document) GetRegex(key string) (Regex, error) { return getTyped[Regex](d, key) }

// GetBinary returns the value stored under key as a Binary.
func (d *Document) GetBinary(key string) (Binary, error) { return getTyped[Binary](d, key) }

// GetNumber returns the value stored under key as a Number; any of the
// numeric kinds (int32, int64, double) qualifies.
func (d *Document) GetNumber(key string) (Number, error) {
	v, ok := d.m[key]
	if !ok {
		return nil, keyNotFound(key)
	}
	n, ok := v.(Number)
	if !ok {
		return nil, &Error{
			Code:    CodeTypeMismatch,
			Key:     key,
			Message: "value is of type " + v.Type().String() + ", not a numeric kind",
			Offset:  -1,
		}
	}
	return n, nil
}

// The ...Or variants return def only when the key is absent; a present
// value of the wrong kind still fails with a type-mismatch error.

func (d *Document) GetDocumentOr(key string, def *Document) (*Document, error) {
	return getTypedOr(d, key, def)
}

func (d *Document) GetArrayOr(key string, def *Array) (*Array, error) {
	return getTypedOr(d, key, def)
}

func (d *Document) GetStringOr(key string, def String) (String, error) {
	return getTypedOr(d, key, def)
}

func (d *Document) GetInt32Or(key string, def Int32) (Int32, error) {
	return getTypedOr(d, key, def)
}

func (d *Document) GetInt64Or(key string, def Int64) (Int64, error) {
	return getTypedOr(d, key, def)
}

func (d *Document) GetDoubleOr(key string, def Double) (Double, error) {
	return getTypedOr(d, key, def)
}

func (d *Document) GetBooleanOr(key string, def Boolean) (Boolean, error) {
	return getTypedOr(d, key, def)
}

func (d *Document) GetDateTimeOr(key string, def DateTime) (DateTime, error) {
	return getTypedOr(d, key, def)
}

func (d *Document) GetTimestampOr(key string, def Timestamp) (Timestamp, error) {
	return getTypedOr(d, key, def)
}

func (d *Document) GetObjectIDOr(key string, def ObjectID) (ObjectID, error) {
	return getTypedOr(d, key, def)
}

func (d *Document) GetRegexOr(key string, def Regex) (Regex, error) {
	return getTypedOr(d, key, def)
}

func (d *Document) GetBinaryOr(key string, def Binary) (Binary, error) {
	return getTypedOr(d, key, def)
}

func (d *Document) GetNumberOr(key string, def Number) (Number, error) {
	if _, ok := d.m[key]; !ok {
		return def, nil
	}
	return d.GetNumber(key)
}

// ---- kind predicates ----

func (d *Document) is(key string, t Type) bool {
	v, ok := d.m[key]
	return ok && v.Type() == t
}

// IsNull reports whether key is present with a Null value. It returns
// false when the key is absent and never fails.
func (d *Document) IsNull(key string) bool { return d.is(key, TypeNull) }

// IsDocument reports whether key is present with a document value.
func (d *Document) IsDocument(key string) bool { return d.is(key, TypeDocument) }

// IsArray reports whether key is present with an array value.
func (d *Document) IsArray(key string) bool { return d.is(key, TypeArray) }

// IsNumber reports whether key is present with a numeric value.
func (d *Document) IsNumber(key string) bool {
	v, ok := d.m[key]
	if !ok {
		return false
	}
	_, ok = v.(Number)
	return ok
}

// IsInt32 reports whether key is present with an int32 value.
func (d *Document) IsInt32(key string) bool { return d.is(key, TypeInt32) }

// IsInt64 reports whether key is present with an int64 value.
func (d *Document) IsInt64(key string) bool { return d.is(key, TypeInt64) }

// IsDouble reports whether key is present with a double value.
func (d *Document) IsDouble(key string) bool { return d.is(key, TypeDouble) }

// IsBoolean reports whether key is present with a boolean value.
func (d *Document) IsBoolean(key string) bool { return d.is(key, TypeBoolean) }

// IsString reports whether key is present with a string value.
func (d *Document) IsString(key string) bool { return d.is(key, TypeString) }

// IsDateTime reports whether key is present with a date-time value.
func (d *Document) IsDateTime(key string) bool { return d.is(key, TypeDateTime) }

// IsTimestamp reports whether key is present with a timestamp value.
func (d *Document) IsTimestamp(key string) bool { return d.is(key, TypeTimestamp) }

// IsObjectID reports whether key is present with an objectID value.
func (d *Document) IsObjectID(key string) bool { return d.is(key, TypeObjectID) }

// IsBinary reports whether key is present with a binary value.
func (d *Document) IsBinary(key string) bool { return d.is(key, TypeBinary) }
