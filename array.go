package bson

import "iter"

// Array is an ordered, index-addressable sequence of Values. Duplicates
// and Null entries are permitted. The zero value is an empty array.
type Array struct {
	values []Value
}

// NewArray returns an array holding the given values in order. It panics
// on a nil value, like Append.
func NewArray(values ...Value) *Array {
	a := &Array{}
	for _, v := range values {
		a.Append(v)
	}
	return a
}

func (a *Array) Type() Type { return TypeArray }
func (a *Array) value()     {}

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.values) }

// Get returns the element at index i. It panics when i is out of range,
// like a slice index.
func (a *Array) Get(i int) Value { return a.values[i] }

// Set replaces the element at index i. It panics when i is out of range
// or v is nil.
func (a *Array) Set(i int, v Value) {
	if v == nil || isNilContainer(v) {
		panic("bson: array element must not be nil; use bson.Null")
	}
	a.values[i] = v
}

// Append adds v at the end and returns the array for chaining. It panics
// when v is nil; absent values must be stored as Null.
func (a *Array) Append(v Value) *Array {
	if v == nil || isNilContainer(v) {
		panic("bson: array element must not be nil; use bson.Null")
	}
	a.values = append(a.values, v)
	return a
}

// Values returns the elements in order. The slice is a copy.
func (a *Array) Values() []Value {
	out := make([]Value, len(a.values))
	copy(out, a.values)
	return out
}

// All iterates over the elements in order.
func (a *Array) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for i, v := range a.values {
			if !yield(i, v) {
				return
			}
		}
	}
}
