// Package bson implements an in-memory value model for BSON-like
// structured records: a closed set of typed values (documents, arrays,
// scalars) plus a canonical extended-JSON text codec.
//
// The package provides:
//
//   - Value, a closed tagged variant over the supported kinds, with
//     type-narrowing access guarded by runtime kind checks (As/Is)
//   - Document, an insertion-ordered key->Value mapping with typed
//     getters, kind predicates, and order-independent equality
//   - Parse/Write, a deterministic text codec over a JSON superset
//     ("$oid", "$date", "$numberLong", ... literal forms)
//
// Design policy:
//   - Keep only public APIs in the root package; put the tokenizer and
//     other implementation details under internal/.
//   - Place the binary wire codec under wire/, the YAML bridge under
//     yamlval/, and the CLI under cmd/bsondoc.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	d, err := bson.Parse(data)
//	n, err := d.GetInt32("count")
//	text := d.ToText()
//
// Documents have single-owner mutation semantics: concurrent mutation of
// one Document must be serialized by the caller. Read-only operations are
// safe to call concurrently on a Document nobody is mutating.
package bson
