package bson

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"sync/atomic"
	"time"
)

// ObjectID is a 12-byte record identifier: a 4-byte big-endian seconds
// timestamp, 5 random bytes fixed per process, and a 3-byte big-endian
// counter starting from a random value.
type ObjectID [12]byte

func (ObjectID) Type() Type { return TypeObjectID }
func (ObjectID) value()     {}

var (
	oidProcess [5]byte
	oidCounter uint32
)

func init() {
	if _, err := rand.Read(oidProcess[:]); err != nil {
		panic("bson: cannot seed objectID generator: " + err.Error())
	}
	var seed [4]byte
	if _, err := rand.Read(seed[:]); err != nil {
		panic("bson: cannot seed objectID counter: " + err.Error())
	}
	oidCounter = binary.BigEndian.Uint32(seed[:])
}

// NewObjectID generates a fresh ObjectID from the current time. It is
// safe for concurrent use.
func NewObjectID() ObjectID {
	var id ObjectID
	binary.BigEndian.PutUint32(id[0:4], uint32(time.Now().Unix()))
	copy(id[4:9], oidProcess[:])
	c := atomic.AddUint32(&oidCounter, 1)
	id[9] = byte(c >> 16)
	id[10] = byte(c >> 8)
	id[11] = byte(c)
	return id
}

// Hex returns the 24-character lowercase hex form of the ObjectID.
func (id ObjectID) Hex() string { return hex.EncodeToString(id[:]) }

// ObjectIDFromHex parses a 24-character hex string into an ObjectID.
func ObjectIDFromHex(s string) (ObjectID, error) {
	var id ObjectID
	if len(s) != 24 {
		return id, syntaxErr(-1, "objectID hex must be 24 characters, got %d", len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, &Error{Code: CodeSyntax, Message: "invalid objectID hex", Offset: -1, Cause: err}
	}
	copy(id[:], b)
	return id, nil
}

// Timestamp returns the creation time encoded in the leading four bytes.
func (id ObjectID) Timestamp() time.Time {
	return time.Unix(int64(binary.BigEndian.Uint32(id[0:4])), 0).UTC()
}
