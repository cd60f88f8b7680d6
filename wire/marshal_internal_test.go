package wire

import (
	"testing"

	"github.com/docwire/bson"
)

func TestMarshal_ScratchCapacitySurvives(t *testing.T) {
	d := bson.NewDocument().
		Append("s", bson.String("a reasonably long string to force buffer growth")).
		Append("arr", bson.NewArray(bson.Int32(1), bson.Int32(2), bson.Int32(3)))
	raw, err := Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// Marshal returns its scratch buffer last, so the next Get pops it;
	// the grown capacity must have been handed back.
	buf, err := buffers.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer buffers.Put(buf)
	if buf.Cap() < len(raw) {
		t.Fatalf("pooled buffer capacity %d, want at least %d", buf.Cap(), len(raw))
	}
	if buf.Len() != 0 {
		t.Fatalf("pooled buffer should be reset, has %d bytes", buf.Len())
	}
}
