package bson

// Binary subtypes as defined by the wire format.
const (
	BinaryGeneric    byte = 0x00
	BinaryFunction   byte = 0x01
	BinaryUUID       byte = 0x04
	BinaryMD5        byte = 0x05
	BinaryEncrypted  byte = 0x06
	BinaryUserDefine byte = 0x80
)

// Binary is an 8-bit-clean byte sequence tagged with a subtype. The Data
// slice is owned by the Value; callers must not mutate it after storing
// the Binary in a Document or Array.
type Binary struct {
	Subtype byte
	Data    []byte
}

func (Binary) Type() Type { return TypeBinary }
func (Binary) value()     {}
