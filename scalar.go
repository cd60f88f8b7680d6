package bson

import "time"

// Double is a 64-bit IEEE 754 floating point value.
type Double float64

func (Double) Type() Type { return TypeDouble }
func (Double) value()     {}

func (d Double) Int32Value() int32     { return int32(d) }
func (d Double) Int64Value() int64     { return int64(d) }
func (d Double) Float64Value() float64 { return float64(d) }

// String is a UTF-8 string value.
type String string

func (String) Type() Type { return TypeString }
func (String) value()     {}

// Boolean is a true/false value.
type Boolean bool

func (Boolean) Type() Type { return TypeBoolean }
func (Boolean) value()     {}

// Null is the null kind. Storing Null under a key is distinct from the
// key being absent; nil is never a legal Value.
type Null struct{}

func (Null) Type() Type { return TypeNull }
func (Null) value()     {}

// Int32 is a signed 32-bit integer value.
type Int32 int32

func (Int32) Type() Type { return TypeInt32 }
func (Int32) value()     {}

func (i Int32) Int32Value() int32     { return int32(i) }
func (i Int32) Int64Value() int64     { return int64(i) }
func (i Int32) Float64Value() float64 { return float64(i) }

// Int64 is a signed 64-bit integer value.
type Int64 int64

func (Int64) Type() Type { return TypeInt64 }
func (Int64) value()     {}

func (i Int64) Int32Value() int32     { return int32(i) }
func (i Int64) Int64Value() int64     { return int64(i) }
func (i Int64) Float64Value() float64 { return float64(i) }

// DateTime is a point in time as milliseconds since the Unix epoch.
type DateTime int64

func (DateTime) Type() Type { return TypeDateTime }
func (DateTime) value()     {}

// NewDateTime truncates t to millisecond precision.
func NewDateTime(t time.Time) DateTime { return DateTime(t.UnixMilli()) }

// Time returns the value as a time.Time in UTC.
func (d DateTime) Time() time.Time { return time.UnixMilli(int64(d)).UTC() }

// Timestamp is an internal timestamp: a seconds value and an ordinal for
// operations within that second. It is not a wall-clock kind; use
// DateTime for wall-clock times.
type Timestamp struct {
	T uint32 // Seconds since the Unix epoch.
	I uint32 // Ordinal within the second.
}

func (Timestamp) Type() Type { return TypeTimestamp }
func (Timestamp) value()     {}

// Regex is a regular expression pattern with matching options. The
// pattern is stored verbatim; it is not compiled or validated here.
type Regex struct {
	Pattern string
	Options string
}

func (Regex) Type() Type { return TypeRegex }
func (Regex) value()     {}

// MinKey sorts before every other value in the remote store's ordering.
type MinKey struct{}

func (MinKey) Type() Type { return TypeMinKey }
func (MinKey) value()     {}

// MaxKey sorts after every other value in the remote store's ordering.
type MaxKey struct{}

func (MaxKey) Type() Type { return TypeMaxKey }
func (MaxKey) value()     {}
