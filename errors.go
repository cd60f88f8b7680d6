package bson

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes carried by Error.Code.
const (
	CodeKeyNotFound  = "key_not_found"  // Typed getter called on an absent key.
	CodeTypeMismatch = "type_mismatch"  // Value present but of a different kind.
	CodeInvalidKey   = "invalid_key"    // Key contains an embedded NUL byte.
	CodeNilValue     = "nil_value"      // nil stored where a Value is required; use Null.
	CodeSyntax       = "syntax_error"   // Input text or wire data is not well formed.
)

// Error is the single error type reported by this package. Code is always
// one of the constants above; the remaining fields are filled in where
// they apply (Key for document access, Offset for codec failures).
type Error struct {
	Code    string
	Key     string // Offending document key, when relevant.
	Message string
	Offset  int64 // Byte offset in the input source (-1 when unknown).
	Cause   error // Optional: underlying error.
}

func (e *Error) Error() string {
	b := &strings.Builder{}
	b.WriteString(e.Code)
	if e.Key != "" {
		fmt.Fprintf(b, " at key %q", e.Key)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(b, " at offset %d", e.Offset)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// AsError extracts a *Error from err using errors.As internally.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code string) bool {
	be, ok := AsError(err)
	return ok && be.Code == code
}

func keyNotFound(key string) *Error {
	return &Error{Code: CodeKeyNotFound, Key: key, Message: "document does not contain key", Offset: -1}
}

func typeMismatch(key string, got, want Type) *Error {
	return &Error{
		Code:    CodeTypeMismatch,
		Key:     key,
		Message: fmt.Sprintf("value is of type %v, not %v", got, want),
		Offset:  -1,
	}
}

func syntaxErr(offset int64, format string, a ...any) *Error {
	return &Error{Code: CodeSyntax, Message: fmt.Sprintf(format, a...), Offset: offset}
}
