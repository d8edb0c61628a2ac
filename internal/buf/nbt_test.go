package buf

import (
	"bytes"
	"testing"
)

func TestNBTCompoundRoundTrip(t *testing.T) {
	tag := Tag{
		Type: TagCompound,
		Compound: map[string]Tag{
			"name":  {Type: TagString, Str: "Steve"},
			"level": {Type: TagInt, Int: 42},
			"health": {
				Type: TagList, ListType: TagFloat,
				List: []Tag{{Type: TagFloat, Float: 20}, {Type: TagFloat, Float: 1.5}},
			},
			"inventory": {
				Type: TagCompound,
				Compound: map[string]Tag{
					"slot0": {Type: TagByte, Byte: 1},
				},
			},
		},
	}

	var b bytes.Buffer
	if err := WriteNamedTag(&b, "root", tag); err != nil {
		t.Fatal(err)
	}

	name, got, err := ReadNamedTag(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if name != "root" {
		t.Errorf("name = %q, want %q", name, "root")
	}
	if got.Compound["name"].Str != "Steve" {
		t.Errorf("name tag = %q", got.Compound["name"].Str)
	}
	if got.Compound["level"].Int != 42 {
		t.Errorf("level tag = %d", got.Compound["level"].Int)
	}
	if len(got.Compound["health"].List) != 2 {
		t.Fatalf("health list len = %d", len(got.Compound["health"].List))
	}
	if got.Compound["health"].List[0].Float != 20 {
		t.Errorf("health[0] = %v", got.Compound["health"].List[0].Float)
	}
	if got.Compound["inventory"].Compound["slot0"].Byte != 1 {
		t.Errorf("nested compound mismatch")
	}
}

func TestNBTEmptyListAcceptsAnyDeclaredType(t *testing.T) {
	// A zero-length list with an arbitrary element-type byte must decode
	// without error: the on-wire spec allows inconsistent element types
	// when length <= 0, since no element bytes are actually read.
	var b bytes.Buffer
	b.WriteByte(TagList)
	b.WriteByte(TagCompound) // arbitrary/bogus element type
	WriteI32(&b, 0)

	tag, err := readTagPayload(bytes.NewReader(b.Bytes()), TagList)
	if err != nil {
		t.Fatal(err)
	}
	if len(tag.List) != 0 {
		t.Errorf("expected empty list, got %d elements", len(tag.List))
	}
}

func TestNBTIntArrayRoundTrip(t *testing.T) {
	tag := Tag{Type: TagIntArray, IntArray: []int32{1, -2, 3, 2147483647}}
	var b bytes.Buffer
	if err := writeTagPayload(&b, tag); err != nil {
		t.Fatal(err)
	}
	got, err := readTagPayload(bytes.NewReader(b.Bytes()), TagIntArray)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.IntArray) != 4 || got.IntArray[3] != 2147483647 {
		t.Errorf("IntArray round trip mismatch: %v", got.IntArray)
	}
}
